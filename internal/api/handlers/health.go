package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/5w1tchy/libapi/internal/api/apperr"
	"github.com/5w1tchy/libapi/internal/api/httpx"
)

// Health pings the database with a short timeout.
func Health(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			apperr.Write(w, apperr.Problem{Status: http.StatusServiceUnavailable, Err: "database unreachable", Retryable: true})
			return
		}
		httpx.OK(w, map[string]string{"status": "ok"})
	}
}
