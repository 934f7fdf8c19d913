package validate

import "fmt"

// Kind classifies a filter parameter failure.
type Kind int

const (
	UnknownParameter Kind = iota + 1
	ConflictingFilters
	InvalidInteger
	InvalidFloat
)

func (k Kind) String() string {
	switch k {
	case UnknownParameter:
		return "unknown_parameter"
	case ConflictingFilters:
		return "conflicting_filters"
	case InvalidInteger:
		return "invalid_integer"
	case InvalidFloat:
		return "invalid_float"
	default:
		return "unknown"
	}
}

// ParamError is returned for any rejected filter request. Value holds the
// offending key (UnknownParameter), the raw value (InvalidInteger,
// InvalidFloat) or the first conflicting key (ConflictingFilters).
type ParamError struct {
	Kind  Kind
	Value string
	Other string
}

func (e *ParamError) Error() string {
	switch e.Kind {
	case UnknownParameter:
		return fmt.Sprintf("the parameter '%s' is incorrect", e.Value)
	case ConflictingFilters:
		return fmt.Sprintf("select only one of them, %s xor %s", e.Value, e.Other)
	case InvalidInteger:
		return fmt.Sprintf("Error parsing string: '%s', not a valid integer", e.Value)
	case InvalidFloat:
		return fmt.Sprintf("Error parsing string: '%s', not a valid float", e.Value)
	default:
		return "invalid parameter"
	}
}

// Is lets callers match on kind: errors.Is(err, validate.ErrInvalidInteger).
func (e *ParamError) Is(target error) bool {
	t, ok := target.(*ParamError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Value == "" && t.Other == ""
}

var (
	ErrUnknownParameter   = &ParamError{Kind: UnknownParameter}
	ErrConflictingFilters = &ParamError{Kind: ConflictingFilters}
	ErrInvalidInteger     = &ParamError{Kind: InvalidInteger}
	ErrInvalidFloat       = &ParamError{Kind: InvalidFloat}
)
