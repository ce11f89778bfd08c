package middleware

import (
	"fmt"
	"net/http"

	"github.com/cloo-solutions/chavis/internal/api"
)

// MaxBodyBytes rejects request bodies larger than limit. Only methods that
// carry a body are checked; a non-positive limit disables the check.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				api.ErrorWithDetail(w, http.StatusRequestEntityTooLarge, "request body too large",
					fmt.Sprintf("limit is %d bytes", limit))
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
