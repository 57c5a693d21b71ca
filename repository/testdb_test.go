// Test yardımcıları — her test geçici dosyada gerçek bir SQLite açar.
// Fake yok: bu paketin testleri koşullu UPDATE'lerin ve transaction'ların
// gerçekten atomik olduğunu doğrular.
package repository

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akinalp/davet/database"
	"github.com/akinalp/davet/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), migrationsFS)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func createTestUser(t *testing.T, repo UserRepository, username string, initialInvitations int) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(context.Background(), user, initialInvitations))
	require.NotEmpty(t, user.ID)

	return user
}
