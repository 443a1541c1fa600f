package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/netfabric/capacity-planner/pkg/requestid"
)

// RequestID resolves the request id for each HTTP request, preferring the
// x-request-id header, then chi's generated id, then a fresh UUID, and
// injects it into the request context for the rest of the stack.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("x-request-id")
		if id == "" {
			id = middleware.GetReqID(r.Context())
		}
		if id == "" {
			id = requestid.Generate()
		}

		ctx := requestid.ToContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
