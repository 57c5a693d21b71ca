package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/davet/events"
	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
)

func newRewardServiceForTest(repo *fakeStatsRepo, threshold float64, defaultCount int) RewardService {
	statsService := NewStatsService(repo, events.NewBus(), performanceInviteOptional, false)
	return NewRewardService(repo, statsService, threshold, defaultCount)
}

func TestRewardAboveThreshold(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStatsRepo()
	repo.seed("yildiz", 2, 4, 4)  // performans 1.0
	repo.seed("vasat", 2, 4, 2)   // performans 0.5
	repo.seed("pasif", 10, 0, 0)  // performans 0.0

	svc := newRewardServiceForTest(repo, 0.75, 10)

	result, err := svc.Reward(ctx, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, result.UsersRewarded)
	assert.Equal(t, 5, result.TotalGranted)

	stats, _ := repo.GetByUser(ctx, "yildiz")
	assert.Equal(t, 7, stats.Available)

	stats, _ = repo.GetByUser(ctx, "vasat")
	assert.Equal(t, 2, stats.Available, "below-threshold user must not be rewarded")
}

func TestRewardDefaultCount(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStatsRepo()
	repo.seed("yildiz", 0, 4, 4)

	svc := newRewardServiceForTest(repo, 0.75, 10)

	// rewardCount <= 0 → konfigüre varsayılan (10) kullanılır.
	result, err := svc.Reward(ctx, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, result.TotalGranted)

	stats, _ := repo.GetByUser(ctx, "yildiz")
	assert.Equal(t, 10, stats.Available)
}

func TestRewardScopedToUserIDs(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStatsRepo()
	repo.seed("a", 0, 4, 4)
	repo.seed("b", 0, 4, 4)

	svc := newRewardServiceForTest(repo, 0.75, 10)

	result, err := svc.Reward(ctx, []string{"a"}, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, result.UsersRewarded)

	stats, _ := repo.GetByUser(ctx, "b")
	assert.Equal(t, 0, stats.Available, "user outside scope must not be rewarded")
}

func TestRewardUnknownUserInScope(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStatsRepo()
	svc := newRewardServiceForTest(repo, 0.75, 10)

	_, err := svc.Reward(ctx, []string{"ghost"}, 3)
	require.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestGiveInvitationsFixedAmount(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStatsRepo()
	repo.seed("a", 1, 0, 0)
	repo.seed("b", 2, 0, 0)

	svc := newRewardServiceForTest(repo, 0.75, 10)

	result, err := svc.GiveInvitations(ctx, nil, FixedAmount(4))
	require.NoError(t, err)
	assert.Equal(t, 2, result.UsersRewarded)
	assert.Equal(t, 8, result.TotalGranted)

	stats, _ := repo.GetByUser(ctx, "a")
	assert.Equal(t, 5, stats.Available)
}

func TestGiveInvitationsSelectorValidation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStatsRepo()
	repo.seed("a", 0, 0, 0)

	svc := newRewardServiceForTest(repo, 0.75, 10)

	t.Run("nil selector", func(t *testing.T) {
		_, err := svc.GiveInvitations(ctx, nil, nil)
		require.ErrorIs(t, err, pkg.ErrInvalidArgument)
	})

	t.Run("negatif miktar", func(t *testing.T) {
		_, err := svc.GiveInvitations(ctx, nil, FixedAmount(-1))
		require.ErrorIs(t, err, pkg.ErrInvalidArgument)
	})

	t.Run("sıfır dönen kullanıcı atlanır", func(t *testing.T) {
		result, err := svc.GiveInvitations(ctx, nil, FixedAmount(0))
		require.NoError(t, err)
		assert.Equal(t, 0, result.UsersRewarded)
	})
}

func TestGiveInvitationsBestEffort(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStatsRepo()
	repo.seed("a", 0, 0, 0)
	repo.seed("b", 0, 0, 0)
	repo.seed("c", 0, 0, 0)
	repo.failAddFor["b"] = true

	svc := newRewardServiceForTest(repo, 0.75, 10)

	// Kapsam sıralı verilir: a başarılı, b patlar, c'ye hiç sıra gelmez.
	result, err := svc.GiveInvitations(ctx, []string{"a", "b", "c"}, FixedAmount(2))
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.UsersRewarded)
	assert.Equal(t, 2, result.TotalGranted)

	// Başarılı ek geri alınmaz — batch best-effort'tur.
	stats, _ := repo.GetByUser(ctx, "a")
	assert.Equal(t, 2, stats.Available)

	stats, _ = repo.GetByUser(ctx, "c")
	assert.Equal(t, 0, stats.Available)
}

func TestFixedAmount(t *testing.T) {
	selector := FixedAmount(7)
	assert.Equal(t, 7, selector(&models.InvitationStats{}))
	assert.Equal(t, 7, selector(&models.InvitationStats{Sent: 100}))
}
