package resource

import (
	"context"
	"net/http"

	"github.com/5w1tchy/libapi/internal/api/apperr"
	"github.com/5w1tchy/libapi/internal/api/httpx"
	"github.com/5w1tchy/libapi/internal/validate"
)

// Repo is what a resource handler needs from storage. crud.Repository
// satisfies it for every entity.
type Repo[T, In any] interface {
	FindAll(ctx context.Context) ([]T, error)
	Get(ctx context.Context, params map[string]string) ([]T, error)
	Find(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id int, in In) (T, error)
	Delete(ctx context.Context, id int) (int64, error)
}

type Handler[T, In any] struct {
	repo Repo[T, In]
}

func New[T, In any](repo Repo[T, In]) *Handler[T, In] {
	return &Handler[T, In]{repo: repo}
}

// Mount registers the CRUD routes under base (e.g. "/books").
func (h *Handler[T, In]) Mount(mux *http.ServeMux, base string) {
	mux.HandleFunc("GET "+base, h.List)
	mux.HandleFunc("GET "+base+"/filter", h.Filter)
	mux.HandleFunc("GET "+base+"/{id}", h.Get)
	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("PUT "+base+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+base+"/{id}", h.Delete)
}

func (h *Handler[T, In]) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.FindAll(r.Context())
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	httpx.OK(w, list)
}

// Filter answers GET ?key=value. No parameters lists everything.
func (h *Handler[T, In]) Filter(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.Get(r.Context(), validate.FromQuery(r.URL.Query()))
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	httpx.OK(w, list)
}

func (h *Handler[T, In]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	row, err := h.repo.Find(r.Context(), id)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	httpx.OK(w, row)
}

func (h *Handler[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	var in In
	if err := httpx.DecodeStrict(r, &in); err != nil {
		apperr.Respond(w, r, err)
		return
	}
	row, err := h.repo.Create(r.Context(), in)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	httpx.OK(w, row)
}

func (h *Handler[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in In
	if err := httpx.DecodeStrict(r, &in); err != nil {
		apperr.Respond(w, r, err)
		return
	}
	row, err := h.repo.Update(r.Context(), id, in)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	httpx.OK(w, row)
}

func (h *Handler[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		apperr.Respond(w, r, err)
		return
	}
	httpx.OK(w, map[string]int64{"deleted": n})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := validate.ParseInt(r.PathValue("id"))
	if err != nil {
		apperr.Respond(w, r, err)
		return 0, false
	}
	return id, true
}
