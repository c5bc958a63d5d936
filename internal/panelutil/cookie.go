// Package panelutil holds small stateless helpers shared by the panel widgets.
package panelutil

import (
	"net/url"
	"strings"
)

// CSRFCookieName is the cookie the backend stores the anti-forgery token in.
const CSRFCookieName = "csrftoken"

// Cookie looks up name in a Cookie header value ("a=1; b=2"). The value is
// percent-decoded; an undecodable value is returned raw. When the name
// repeats, the last occurrence wins.
func Cookie(cookieHeader, name string) (string, bool) {
	if cookieHeader == "" || name == "" {
		return "", false
	}
	prefix := name + "="
	value, found := "", false
	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, prefix) {
			continue
		}
		raw := part[len(prefix):]
		value, found = raw, true
		if v, err := url.PathUnescape(raw); err == nil {
			value = v
		}
	}
	return value, found
}

// CSRFToken returns the csrftoken cookie value, or "" when absent.
func CSRFToken(cookieHeader string) string {
	v, _ := Cookie(cookieHeader, CSRFCookieName)
	return v
}
