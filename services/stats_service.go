// Package services — StatsService: kota defteri (ledger) iş mantığı.
//
// Üç sayaç (available/sent/accepted) ve invariant'ları:
//
//	available >= 0   ve   0 <= accepted <= sent
//
// Invariant zorlaması repository'nin koşullu atomik UPDATE'lerindedir;
// bu katman politika (repopulate) ve türetilmiş skoru ekler, olayları yayınlar.
package services

import (
	"context"
	"fmt"

	"github.com/akinalp/davet/events"
	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/repository"
)

// StatsService, kota defteri iş mantığı interface'i.
type StatsService interface {
	// Get, kullanıcının sayaçlarını türetilmiş performans skoruyla döner.
	Get(ctx context.Context, userID string) (*models.StatsWithPerformance, error)

	// ListAll, tüm kota defterlerini skorlarıyla döner (admin görünümü).
	ListAll(ctx context.Context) ([]models.StatsWithPerformance, error)

	// Use, count adet davet hakkı harcar. Kota yetersizse
	// pkg.ErrInsufficientQuota döner ve hiçbir sayaç değişmez.
	Use(ctx context.Context, userID string, count int) error

	// MarkAccepted, count adet kabulü işler. accepted sent'i aşacaksa
	// pkg.ErrAcceptanceExceedsSent döner, değişiklik olmaz. Repopulate
	// politikası aktifse kabul edilen her davet bir hak iade eder.
	MarkAccepted(ctx context.Context, userID string, count int) error

	// AddAvailable, koşulsuz kota ekler ve invitation-added olayı yayınlar.
	AddAvailable(ctx context.Context, userID string, count int) error

	// Performance, sayaçlardan [0,1] skoru hesaplar. Saf fonksiyondur.
	Performance(stats *models.InvitationStats) float64
}

type statsService struct {
	statsRepo  repository.StatsRepository
	bus        *events.Bus
	perfFunc   PerformanceFunc
	repopulate bool
}

// NewStatsService, constructor.
//
// perfFunc startup'ta ResolvePerformanceFunc ile çözülmüş olmalıdır —
// bu servis isim çözmez, hazır strateji alır.
func NewStatsService(
	statsRepo repository.StatsRepository,
	bus *events.Bus,
	perfFunc PerformanceFunc,
	repopulateAccepted bool,
) StatsService {
	return &statsService{
		statsRepo:  statsRepo,
		bus:        bus,
		perfFunc:   perfFunc,
		repopulate: repopulateAccepted,
	}
}

func (s *statsService) Get(ctx context.Context, userID string) (*models.StatsWithPerformance, error) {
	stats, err := s.statsRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.StatsWithPerformance{
		InvitationStats: *stats,
		Performance:     s.perfFunc(stats),
	}, nil
}

func (s *statsService) ListAll(ctx context.Context) ([]models.StatsWithPerformance, error) {
	all, err := s.statsRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitation stats: %w", err)
	}

	// nil slice yerine boş slice döndür (JSON'da [] olması için, null değil)
	result := make([]models.StatsWithPerformance, 0, len(all))
	for i := range all {
		result = append(result, models.StatsWithPerformance{
			InvitationStats: all[i],
			Performance:     s.perfFunc(&all[i]),
		})
	}

	return result, nil
}

func (s *statsService) Use(ctx context.Context, userID string, count int) error {
	return s.statsRepo.Use(ctx, userID, count)
}

func (s *statsService) MarkAccepted(ctx context.Context, userID string, count int) error {
	return s.statsRepo.MarkAccepted(ctx, userID, count, s.repopulate)
}

func (s *statsService) AddAvailable(ctx context.Context, userID string, count int) error {
	if err := s.statsRepo.AddAvailable(ctx, userID, count); err != nil {
		return err
	}

	s.bus.PublishInvitationAdded(events.InvitationAddedEvent{
		UserID: userID,
		Count:  count,
	})

	return nil
}

func (s *statsService) Performance(stats *models.InvitationStats) float64 {
	return s.perfFunc(stats)
}
