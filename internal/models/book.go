package models

// Book is one row of the books table.
type Book struct {
	ID              int    `db:"id" json:"id"`
	Title           string `db:"title" json:"title"`
	ISBN            string `db:"isbn" json:"isbn"`
	CopiesAvailable int    `db:"copies_available" json:"copies_available"`
	Copies          int    `db:"copies" json:"copies"`
}

// BookInput is the create/replace body. Every field is required.
type BookInput struct {
	Title           *string `json:"title"`
	ISBN            *string `json:"isbn"`
	CopiesAvailable *int32  `json:"copies_available"`
	Copies          *int32  `json:"copies"`
}

func (in BookInput) Check() error {
	return required(
		field{"title", in.Title == nil},
		field{"isbn", in.ISBN == nil},
		field{"copies_available", in.CopiesAvailable == nil},
		field{"copies", in.Copies == nil},
	)
}

func (in BookInput) Assignments() ([]string, []any) {
	return []string{"title", "isbn", "copies_available", "copies"},
		[]any{NormalizeText(*in.Title), NormalizeText(*in.ISBN), int(*in.CopiesAvailable), int(*in.Copies)}
}
