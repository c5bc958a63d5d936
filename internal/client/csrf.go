package client

// DefaultCSRFHeader is the header the panel backend reads the anti-forgery token from.
const DefaultCSRFHeader = "X-CSRFToken"

// TokenSource yields the current CSRF token, typically read from a cookie.
type TokenSource func() string

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	return func() string { return token }
}

// CSRFHeaders builds the header map for a mutating request. A nil source or an
// empty token yields no header.
func CSRFHeaders(header string, src TokenSource) map[string]string {
	if src == nil {
		return nil
	}
	token := src()
	if token == "" {
		return nil
	}
	if header == "" {
		header = DefaultCSRFHeader
	}
	return map[string]string{header: token}
}
