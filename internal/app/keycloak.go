package app

import (
	"net/url"
	"strings"
)

// keycloakAuthPath maps an issuer such as http://kc:8080/realms/demo to the
// realm's browser-facing authorization path.
func keycloakAuthPath(issuer string) string {
	path := issuer
	if u, err := url.Parse(issuer); err == nil {
		path = u.Path
	}
	return strings.TrimRight(path, "/") + "/protocol/openid-connect/auth"
}
