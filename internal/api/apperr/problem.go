package apperr

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/5w1tchy/libapi/internal/api/httpx"
)

// Problem is what a failed request answers with. Only Err is serialized:
// {"Err": "<message>"}; the status code carries the classification.
type Problem struct {
	Status    int    `json:"-"`
	Err       string `json:"Err"`
	Retryable bool   `json:"-"`
}

func Write(w http.ResponseWriter, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	if p.Err == "" {
		p.Err = http.StatusText(p.Status)
	}
	if p.Retryable {
		w.Header().Set("Retry-After", "1")
	}
	httpx.WriteJSON(w, p.Status, p)
}

// Convenience: fast write with just status+message
func WriteStatus(w http.ResponseWriter, status int, msg string) {
	Write(w, Problem{Status: status, Err: msg})
}

// Respond classifies err, logs server-side failures with the request's
// logger and writes the problem.
func Respond(w http.ResponseWriter, r *http.Request, err error) {
	p := FromError(err)
	if p.Status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).
			Int("status", p.Status).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	Write(w, p)
}
