package middlewares

import (
	"net/http"

	"github.com/5w1tchy/book-catalog/internal/api/apperr"
)

// BodySizeLimit caps request bodies on methods that carry one.
func BodySizeLimit(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if r.ContentLength > limit {
					apperr.WriteStatus(w, r, http.StatusRequestEntityTooLarge, "Payload Too Large", "request body too large")
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
