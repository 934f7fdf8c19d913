package models

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

var ErrMissingField = errors.New("missing field")

type field struct {
	name    string
	missing bool
}

func required(fields ...field) error {
	for _, f := range fields {
		if f.missing {
			return fmt.Errorf("%w `%s`", ErrMissingField, f.name)
		}
	}
	return nil
}

// NormalizeText puts string values in NFC so equality filters match
// regardless of how the client composed accented characters.
func NormalizeText(s string) string {
	return norm.NFC.String(s)
}
