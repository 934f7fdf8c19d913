package router

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/5w1tchy/libapi/internal/api/handlers"
	"github.com/5w1tchy/libapi/internal/api/handlers/resource"
	"github.com/5w1tchy/libapi/internal/models"
	"github.com/5w1tchy/libapi/internal/store/books"
	"github.com/5w1tchy/libapi/internal/store/employees"
	"github.com/5w1tchy/libapi/internal/store/members"
)

// Stores groups the per-entity repositories the router serves.
type Stores struct {
	Books     *books.Store
	Employees *employees.Store
	Members   *members.Store
}

func Router(db *sqlx.DB, s Stores) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handlers.Health(db))

	resource.New[models.Book, models.BookInput](s.Books).Mount(mux, "/books")
	resource.New[models.Member, models.MemberInput](s.Members).Mount(mux, "/members")

	emp := resource.New[models.Employee, models.EmployeeInput](s.Employees)
	emp.Mount(mux, "/employees")
	// Legacy alias: older clients filter employees through /get.
	mux.HandleFunc("GET /get", emp.Filter)

	return mux
}
