package provider

import (
	"context"
	"testing"

	"member-portal/internal/auth"
)

type namedProvider string

func (p namedProvider) Name() string { return string(p) }

func (p namedProvider) AuthCodeURL(string, string) string {
	return "https://idp.test/" + string(p)
}

func (p namedProvider) ExchangeCode(context.Context, string, string) (*auth.Identity, error) {
	return &auth.Identity{Provider: string(p)}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(namedProvider("keycloak"), nil, namedProvider("google"))

	if r.Empty() {
		t.Fatal("registry should not be empty")
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "google" || names[1] != "keycloak" {
		t.Fatalf("unexpected names: %v", names)
	}

	p, err := r.Get("google")
	if err != nil || p.Name() != "google" {
		t.Fatalf("get google: %v", err)
	}
	if _, err := r.Get("github"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestEmptyRegistry(t *testing.T) {
	if !NewRegistry().Empty() {
		t.Fatal("expected empty registry")
	}
}
