package members_test

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/libapi/internal/models"
	"github.com/5w1tchy/libapi/internal/store/dbx"
	"github.com/5w1tchy/libapi/internal/store/members"
	"github.com/5w1tchy/libapi/internal/validate"
)

func TestMembers(t *testing.T) {
	ctx := t.Context()
	db, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), "lib.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, dbx.Migrate(ctx, db))

	repo := members.New(db)
	str := func(s string) *string { return &s }
	age := int32(31)

	m, err := repo.Create(ctx, models.MemberInput{
		FirstName: str("Ada"), LastName: str("King"), Email: str("ada@example.com"), Address: str("London"), Age: &age,
	})
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	none, err := repo.Get(ctx, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, all, none)

	got, err := repo.Get(ctx, map[string]string{"email": "ada@example.com", "age": "31"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, m, got[0])

	_, err = repo.Get(ctx, map[string]string{"salary": "10"})
	assert.ErrorIs(t, err, validate.ErrUnknownParameter, "salary belongs to employees")
}
