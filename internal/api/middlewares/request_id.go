package middlewares

import (
	"context"
	"net/http"
	"regexp"

	"github.com/rs/zerolog/hlog"
)

type ctxKey int

const ctxKeyRequestID ctxKey = iota

const RequestIDHeader = "X-Request-ID"

var ridRe = regexp.MustCompile(`^[A-Za-z0-9_.\-]{1,64}$`)

// RequestID keeps a well-formed client X-Request-ID. Anything else is
// replaced by an xid minted through hlog. The id is echoed on the response
// and copied onto the request header so AccessLog picks it up.
func RequestID(next http.Handler) http.Handler {
	minted := hlog.RequestIDHandler("", RequestIDHeader)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			id, _ := hlog.IDFromRequest(r)
			withRequestID(next, w, r, id.String())
		}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if !ridRe.MatchString(rid) {
			minted.ServeHTTP(w, r)
			return
		}
		w.Header().Set(RequestIDHeader, rid)
		withRequestID(next, w, r, rid)
	})
}

func withRequestID(next http.Handler, w http.ResponseWriter, r *http.Request, rid string) {
	r = r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, rid))
	r.Header.Set(RequestIDHeader, rid)
	next.ServeHTTP(w, r)
}

func GetRequestID(r *http.Request) string {
	if v, _ := r.Context().Value(ctxKeyRequestID).(string); v != "" {
		return v
	}
	if id, ok := hlog.IDFromRequest(r); ok {
		return id.String()
	}
	return ""
}
