package app

import "testing"

func TestKeycloakAuthPath(t *testing.T) {
	cases := map[string]string{
		"http://keycloak:8080/realms/members":  "/realms/members/protocol/openid-connect/auth",
		"http://keycloak:8080/realms/members/": "/realms/members/protocol/openid-connect/auth",
	}
	for issuer, want := range cases {
		if got := keycloakAuthPath(issuer); got != want {
			t.Fatalf("keycloakAuthPath(%q) = %q, want %q", issuer, got, want)
		}
	}
}
