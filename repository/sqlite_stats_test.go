package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/davet/pkg"
)

func TestSQLiteStatsUse(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db.Conn, false)
	stats := NewSQLiteStatsRepo(db.Conn)

	user := createTestUser(t, users, "ali", 10)

	t.Run("harcama atomik olarak iki sayacı günceller", func(t *testing.T) {
		require.NoError(t, stats.Use(ctx, user.ID, 3))

		got, err := stats.GetByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Available)
		assert.Equal(t, 3, got.Sent)
	})

	t.Run("yetersiz kotada UPDATE hiç uygulanmaz", func(t *testing.T) {
		err := stats.Use(ctx, user.ID, 8)
		require.ErrorIs(t, err, pkg.ErrInsufficientQuota)

		got, err := stats.GetByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Available)
		assert.Equal(t, 3, got.Sent)
	})

	t.Run("pozitif olmayan count reddedilir", func(t *testing.T) {
		require.ErrorIs(t, stats.Use(ctx, user.ID, 0), pkg.ErrInvalidArgument)
		require.ErrorIs(t, stats.Use(ctx, user.ID, -1), pkg.ErrInvalidArgument)
	})

	t.Run("satır yoksa ErrNotFound, kota hatası değil", func(t *testing.T) {
		require.ErrorIs(t, stats.Use(ctx, "ghost", 1), pkg.ErrNotFound)
	})
}

func TestSQLiteStatsMarkAccepted(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db.Conn, false)
	stats := NewSQLiteStatsRepo(db.Conn)

	user := createTestUser(t, users, "ali", 10)
	require.NoError(t, stats.Use(ctx, user.ID, 4)) // available=6 sent=4

	t.Run("kabul sayılır, repopulate kapalıyken iade yok", func(t *testing.T) {
		require.NoError(t, stats.MarkAccepted(ctx, user.ID, 1, false))

		got, _ := stats.GetByUser(ctx, user.ID)
		assert.Equal(t, 1, got.Accepted)
		assert.Equal(t, 6, got.Available)
	})

	t.Run("repopulate aynı UPDATE içinde iade eder", func(t *testing.T) {
		require.NoError(t, stats.MarkAccepted(ctx, user.ID, 1, true))

		got, _ := stats.GetByUser(ctx, user.ID)
		assert.Equal(t, 2, got.Accepted)
		assert.Equal(t, 7, got.Available)
	})

	t.Run("accepted sent'i aşamaz", func(t *testing.T) {
		err := stats.MarkAccepted(ctx, user.ID, 3, false)
		require.ErrorIs(t, err, pkg.ErrAcceptanceExceedsSent)

		got, _ := stats.GetByUser(ctx, user.ID)
		assert.Equal(t, 2, got.Accepted)
		assert.Equal(t, 7, got.Available)
	})

	t.Run("satır yoksa ErrNotFound", func(t *testing.T) {
		require.ErrorIs(t, stats.MarkAccepted(ctx, "ghost", 1, false), pkg.ErrNotFound)
	})
}

func TestSQLiteStatsAddAvailable(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db.Conn, false)
	stats := NewSQLiteStatsRepo(db.Conn)

	user := createTestUser(t, users, "ali", 0)

	require.NoError(t, stats.AddAvailable(ctx, user.ID, 5))

	got, err := stats.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Available)

	require.ErrorIs(t, stats.AddAvailable(ctx, "ghost", 5), pkg.ErrNotFound)
	require.ErrorIs(t, stats.AddAvailable(ctx, user.ID, 0), pkg.ErrInvalidArgument)
}

func TestSQLiteStatsGetAll(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db.Conn, false)
	stats := NewSQLiteStatsRepo(db.Conn)

	createTestUser(t, users, "ali", 10)
	createTestUser(t, users, "veli", 5)

	all, err := stats.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
