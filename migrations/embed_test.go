package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbeddedInOrder(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)

	assert.Equal(t, []string{"00001_create_users.sql", "00002_create_leads.sql"}, names)
	for _, name := range names {
		body, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "-- +goose Up"), name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}
