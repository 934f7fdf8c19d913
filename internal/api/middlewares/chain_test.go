package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	mw "github.com/5w1tchy/libapi/internal/api/middlewares"
)

func TestApply_FirstIsOutermost(t *testing.T) {
	var order []string
	tag := func(name string) mw.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := mw.Apply(okHandler, tag("a"), nil, tag("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("order = %v", order)
	}
}

func TestAccessLog_CarriesRequestID(t *testing.T) {
	var buf bytesBuffer
	log := zerolog.New(&buf)

	h := mw.Apply(okHandler, mw.RequestID, mw.AccessLog(log))
	req := httptest.NewRequest("GET", "/books", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !buf.contains(`"request_id":"rid-123"`) || !buf.contains(`"status":200`) {
		t.Errorf("access log = %s", buf.String())
	}
}
