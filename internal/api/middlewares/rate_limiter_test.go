package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	mw "github.com/5w1tchy/libapi/internal/api/middlewares"
)

func TestRedisTokenBucket_FailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	tb := mw.NewRedisTokenBucket(rdb, 1, 1, mw.PerIPKey("test"))
	rec := httptest.NewRecorder()
	tb.Middleware(okHandler).ServeHTTP(rec, httptest.NewRequest("GET", "/books", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected request to pass when Redis is down, got %d", rec.Code)
	}
}

func TestPerIPKey(t *testing.T) {
	key := mw.PerIPKey("rl")

	req := httptest.NewRequest("GET", "/books", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	if got := key(req); got != "rl:10.0.0.7" {
		t.Errorf("got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := key(req); got != "rl:203.0.113.9" {
		t.Errorf("XFF: got %q", got)
	}
}
