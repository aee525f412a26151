// Package requestid carries the id correlating one estimate request across
// the api server logs and the CLI that sent it.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header is read from incoming requests, echoed on responses and set by the client.
const Header = "X-Request-ID"

type ctxKey struct{}

func Generate() string {
	return uuid.NewString()
}

func ToContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the id stored in ctx, or "" when there is none.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func FromRequest(r *http.Request) string {
	return FromContext(r.Context())
}

// Propagate copies the id from the request context onto its headers, so a
// call made on behalf of another request keeps the same id.
func Propagate(r *http.Request) {
	if id := FromRequest(r); id != "" && r.Header.Get(Header) == "" {
		r.Header.Set(Header, id)
	}
}
