package models

type Member struct {
	ID        int    `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Address   string `db:"address" json:"address"`
	Age       int    `db:"age" json:"age"`
}

type MemberInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	Age       *int32  `json:"age"`
}

func (in MemberInput) Check() error {
	return required(
		field{"first_name", in.FirstName == nil},
		field{"last_name", in.LastName == nil},
		field{"email", in.Email == nil},
		field{"address", in.Address == nil},
		field{"age", in.Age == nil},
	)
}

func (in MemberInput) Assignments() ([]string, []any) {
	return []string{"first_name", "last_name", "email", "address", "age"},
		[]any{NormalizeText(*in.FirstName), NormalizeText(*in.LastName), NormalizeText(*in.Email), NormalizeText(*in.Address), int(*in.Age)}
}
