package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
)

func TestPerformanceInviteOptional(t *testing.T) {
	tests := []struct {
		name     string
		stats    models.InvitationStats
		expected float64
	}{
		{"hiç gönderilmemiş", models.InvitationStats{Sent: 0, Accepted: 0}, 0.0},
		{"yarısı kabul", models.InvitationStats{Sent: 4, Accepted: 2}, 0.5},
		{"hepsi kabul", models.InvitationStats{Sent: 5, Accepted: 5}, 1.0},
		{"hiç kabul yok", models.InvitationStats{Sent: 10, Accepted: 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, performanceInviteOptional(&tt.stats), 0.001)
		})
	}
}

func TestPerformanceInviteOnly(t *testing.T) {
	tests := []struct {
		name     string
		stats    models.InvitationStats
		expected float64
	}{
		// sendRatio = 4/10 = 0.4, acceptRatio = 2/4 = 0.5 → 0.9 * 0.6 = 0.54
		{"karma", models.InvitationStats{Available: 6, Sent: 4, Accepted: 2}, 0.54},
		// hiç hak verilmemiş kullanıcı — sıfıra bölme yok
		{"boş defter", models.InvitationStats{}, 0.0},
		// kusursuz davetçi: sendRatio=1, acceptRatio=1 → 1.2 ama 1.0'da tavan
		{"kusursuz", models.InvitationStats{Available: 0, Sent: 10, Accepted: 10}, 1.0},
		// hiç harcamamış: sendRatio=0, acceptRatio=0
		{"pasif", models.InvitationStats{Available: 10}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, performanceInviteOnly(&tt.stats), 0.001)
		})
	}
}

func TestResolvePerformanceFunc(t *testing.T) {
	stats := &models.InvitationStats{Available: 6, Sent: 4, Accepted: 2}

	t.Run("boş isim moda göre varsayılan seçer", func(t *testing.T) {
		fn, err := ResolvePerformanceFunc("", false)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, fn(stats), 0.001)

		fn, err = ResolvePerformanceFunc("", true)
		require.NoError(t, err)
		assert.InDelta(t, 0.54, fn(stats), 0.001)
	})

	t.Run("isimle çözme", func(t *testing.T) {
		fn, err := ResolvePerformanceFunc(PerformanceInviteOptional, true)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, fn(stats), 0.001)
	})

	t.Run("bilinmeyen isim startup hatasıdır", func(t *testing.T) {
		_, err := ResolvePerformanceFunc("does_not_exist", false)
		require.ErrorIs(t, err, pkg.ErrMisconfiguration)
	})

	t.Run("özel strateji register edilebilir", func(t *testing.T) {
		RegisterPerformanceFunc("always_one", func(*models.InvitationStats) float64 { return 1.0 })
		fn, err := ResolvePerformanceFunc("always_one", false)
		require.NoError(t, err)
		assert.Equal(t, 1.0, fn(stats))
	})
}
