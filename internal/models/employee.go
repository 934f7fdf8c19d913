package models

type Employee struct {
	ID         int     `db:"id" json:"id"`
	FirstName  string  `db:"first_name" json:"first_name"`
	LastName   string  `db:"last_name" json:"last_name"`
	Department string  `db:"department" json:"department"`
	Salary     float64 `db:"salary" json:"salary"`
	Age        int     `db:"age" json:"age"`
}

type EmployeeInput struct {
	FirstName  *string  `json:"first_name"`
	LastName   *string  `json:"last_name"`
	Department *string  `json:"department"`
	Salary     *float64 `json:"salary"`
	Age        *int32   `json:"age"`
}

func (in EmployeeInput) Check() error {
	return required(
		field{"first_name", in.FirstName == nil},
		field{"last_name", in.LastName == nil},
		field{"department", in.Department == nil},
		field{"salary", in.Salary == nil},
		field{"age", in.Age == nil},
	)
}

func (in EmployeeInput) Assignments() ([]string, []any) {
	return []string{"first_name", "last_name", "department", "salary", "age"},
		[]any{NormalizeText(*in.FirstName), NormalizeText(*in.LastName), NormalizeText(*in.Department), *in.Salary, int(*in.Age)}
}
