package credentials

import (
	"errors"
	"testing"
)

func TestSignupValidation(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name  string
		in    SignupInput
		field string
		rule  string
	}{
		{"short name", SignupInput{Name: "al", Email: "a@x.com", Password: "secret1"}, "name", "min"},
		{"long name", SignupInput{Name: "abcdefghijklmnopqrstu", Email: "a@x.com", Password: "secret1"}, "name", "max"},
		{"symbol name", SignupInput{Name: "al!ce", Email: "a@x.com", Password: "secret1"}, "name", "alphanum"},
		{"padded name", SignupInput{Name: " alice", Email: "a@x.com", Password: "secret1"}, "name", "alphanum"},
		{"empty name", SignupInput{Email: "a@x.com", Password: "secret1"}, "name", "required"},
		{"bad email", SignupInput{Name: "alice", Email: "nope", Password: "secret1"}, "email", "email"},
		{"short password", SignupInput{Name: "alice", Email: "a@x.com", Password: "12345"}, "password", "min"},
		{"long password", SignupInput{Name: "alice", Email: "a@x.com", Password: "1234567890123456789012345678901"}, "password", "max"},
		{"first failing field wins", SignupInput{Name: "a", Email: "bad", Password: "1"}, "name", "min"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Signup(tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field || verr.Rule != tc.rule {
				t.Fatalf("got field=%s rule=%s, want field=%s rule=%s", verr.Field, verr.Rule, tc.field, tc.rule)
			}
			if verr.Message == "" {
				t.Fatal("expected a message")
			}
		})
	}
}

func TestSignupValidationNormalisesEmail(t *testing.T) {
	v := NewValidator()

	out, err := v.Signup(SignupInput{Name: "alice", Email: " Alice@X.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Email != "alice@x.com" {
		t.Fatalf("email = %q", out.Email)
	}
}

func TestValidationMessage(t *testing.T) {
	v := NewValidator()

	_, err := v.Login(LoginInput{Email: "a@x.com", Password: "123"})
	if err == nil || err.Error() != `"password" length must be at least 6 characters long` {
		t.Fatalf("unexpected message: %v", err)
	}
}
