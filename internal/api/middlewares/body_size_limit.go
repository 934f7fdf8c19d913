package middlewares

import (
	"net/http"

	"github.com/5w1tchy/libapi/internal/api/apperr"
)

// BodySizeLimit caps request bodies of POST/PUT/PATCH at limit bytes.
func BodySizeLimit(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if r.ContentLength > limit {
					writeTooLarge(w)
					return
				}
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooLarge(w http.ResponseWriter) {
	apperr.WriteStatus(w, http.StatusRequestEntityTooLarge, "request body too large")
}
