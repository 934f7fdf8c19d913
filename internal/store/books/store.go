package books

import (
	"github.com/jmoiron/sqlx"

	"github.com/5w1tchy/libapi/internal/models"
	"github.com/5w1tchy/libapi/internal/store/crud"
	"github.com/5w1tchy/libapi/internal/validate"
)

// Schema is the books table as seen by the filter validator and builder.
var Schema = validate.Schema{
	Table: "books",
	Fields: []validate.Field{
		{Name: "title", Kind: validate.String},
		{Name: "isbn", Kind: validate.String},
		{Name: "copies_available", Kind: validate.Int},
		{Name: "copies", Kind: validate.Int},
	},
}

type Store = crud.Repository[models.Book, models.BookInput]

func New(db *sqlx.DB, opts ...crud.Option) *Store {
	return crud.New[models.Book, models.BookInput](db, Schema, opts...)
}
