package employees

import (
	"github.com/jmoiron/sqlx"

	"github.com/5w1tchy/libapi/internal/models"
	"github.com/5w1tchy/libapi/internal/store/crud"
	"github.com/5w1tchy/libapi/internal/validate"
)

var Schema = validate.Schema{
	Table: "employees",
	Fields: []validate.Field{
		{Name: "first_name", Kind: validate.String},
		{Name: "last_name", Kind: validate.String},
		{Name: "department", Kind: validate.String},
		{Name: "salary", Kind: validate.Float},
		{Name: "age", Kind: validate.Int},
	},
}

type Store = crud.Repository[models.Employee, models.EmployeeInput]

func New(db *sqlx.DB, opts ...crud.Option) *Store {
	return crud.New[models.Employee, models.EmployeeInput](db, Schema, opts...)
}
