package middlewarex

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"panelkit/internal/panelutil"

	"github.com/rs/zerolog/log"
)

// CSRF enforces the double-submit check on unsafe methods: the token in the
// header must equal the token in the cookie.
func CSRF(cookieName, headerName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = panelutil.CSRFCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			cookie, _ := panelutil.Cookie(r.Header.Get("Cookie"), cookieName)
			if cookie == "" {
				reject(w, r, "CSRF cookie not set.")
				return
			}
			header := r.Header.Get(headerName)
			if header == "" {
				reject(w, r, "CSRF token missing.")
				return
			}
			if subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
				reject(w, r, "CSRF token incorrect.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, reason string) {
	log.Warn().Str("path", r.URL.Path).Str("method", r.Method).Str("reason", reason).Msg("csrf check failed")
	writeDetail(w, http.StatusForbidden, "CSRF Failed: "+reason)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
