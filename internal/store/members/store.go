package members

import (
	"github.com/jmoiron/sqlx"

	"github.com/5w1tchy/libapi/internal/models"
	"github.com/5w1tchy/libapi/internal/store/crud"
	"github.com/5w1tchy/libapi/internal/validate"
)

var Schema = validate.Schema{
	Table: "members",
	Fields: []validate.Field{
		{Name: "first_name", Kind: validate.String},
		{Name: "last_name", Kind: validate.String},
		{Name: "email", Kind: validate.String},
		{Name: "address", Kind: validate.String},
		{Name: "age", Kind: validate.Int},
	},
}

type Store = crud.Repository[models.Member, models.MemberInput]

func New(db *sqlx.DB, opts ...crud.Option) *Store {
	return crud.New[models.Member, models.MemberInput](db, Schema, opts...)
}
