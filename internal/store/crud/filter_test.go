package crud_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/libapi/internal/store/books"
	"github.com/5w1tchy/libapi/internal/store/crud"
	"github.com/5w1tchy/libapi/internal/store/members"
	"github.com/5w1tchy/libapi/internal/validate"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		sql    string
		args   []any
	}{
		{"empty matches all", map[string]string{}, "(1=1)", nil},
		{"id", map[string]string{"id": "1"}, "(id = ?)", []any{1}},
		{"single ids", map[string]string{"ids": "5"}, "(id IN (?))", []any{5}},
		{"ids deduped and sorted", map[string]string{"ids": "9,3,9"}, "(id IN (?,?))", []any{3, 9}},
		{"fields in schema order", map[string]string{"copies": "2", "isbn": "x"}, "(isbn = ? AND copies = ?)", []any{"x", 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := crud.BuildFilter(books.Schema, tt.params)
			require.NoError(t, err)
			sql, args, err := pred.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBuildFilter_ReparsesValues(t *testing.T) {
	_, err := crud.BuildFilter(members.Schema, map[string]string{"age": "old"})
	assert.ErrorIs(t, err, validate.ErrInvalidInteger)
}
