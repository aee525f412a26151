package middleware

import (
	"net/http"
	"regexp"

	"github.com/firesafe/estimator/pkg/requestid"
)

// Ids coming from clients end up in log lines, so only short opaque tokens are trusted.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID stores the caller's X-Request-ID in the request context, or a
// fresh one when the header is missing or malformed, and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if !validRequestID.MatchString(id) {
			id = requestid.Generate()
		}

		w.Header().Set(requestid.Header, id)
		next.ServeHTTP(w, r.WithContext(requestid.ToContext(r.Context(), id)))
	})
}
