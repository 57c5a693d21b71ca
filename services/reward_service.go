// Package services — RewardService: yüksek performanslı davetçileri ödüllendirir.
//
// Batch operasyondur ve best-effort'tur: her kullanıcının hak ekleme adımı
// bağımsız commit edilir. Sonraki bir kullanıcıda hata olması önceki
// ekleri GERİ ALMAZ — harici bir zamanlayıcı işi güvenle kesip yeniden
// başlatabilir. Kullanıcılar arasında sıralama garantisi yoktur.
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
	"github.com/akinalp/davet/repository"
)

// AmountSelector, bir kullanıcının defterinden kaç hak verileceğini seçer.
// 0 dönen kullanıcı atlanır (ödül sayacına girmez). Negatif dönmemelidir.
type AmountSelector func(stats *models.InvitationStats) int

// FixedAmount, herkese sabit miktar veren seçici döner.
func FixedAmount(count int) AmountSelector {
	return func(*models.InvitationStats) int { return count }
}

// RewardResult, bir batch çalışmasının özeti.
type RewardResult struct {
	UsersRewarded int `json:"users_rewarded"`
	TotalGranted  int `json:"total_granted"`
}

// RewardService, ödül motoru interface'i.
type RewardService interface {
	// GiveInvitations, kapsamdaki kullanıcılara (userIDs boşsa herkese)
	// seçicinin belirlediği miktarda hak ekler. selector nil veya negatif
	// miktar üretiyorsa pkg.ErrInvalidArgument döner.
	GiveInvitations(ctx context.Context, userIDs []string, selector AmountSelector) (*RewardResult, error)

	// Reward, performansı eşiğin üzerindeki kullanıcılara rewardCount hak
	// verir (rewardCount <= 0 ise konfigüre varsayılan kullanılır).
	Reward(ctx context.Context, userIDs []string, rewardCount int) (*RewardResult, error)
}

type rewardService struct {
	statsRepo    repository.StatsRepository
	statsService StatsService

	rewardThreshold    float64
	defaultRewardCount int
}

// NewRewardService, constructor.
func NewRewardService(
	statsRepo repository.StatsRepository,
	statsService StatsService,
	rewardThreshold float64,
	defaultRewardCount int,
) RewardService {
	return &rewardService{
		statsRepo:          statsRepo,
		statsService:       statsService,
		rewardThreshold:    rewardThreshold,
		defaultRewardCount: defaultRewardCount,
	}
}

func (s *rewardService) GiveInvitations(ctx context.Context, userIDs []string, selector AmountSelector) (*RewardResult, error) {
	if selector == nil {
		return nil, fmt.Errorf("%w: amount selector is required", pkg.ErrInvalidArgument)
	}

	ledgers, err := s.scope(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	result := &RewardResult{}
	for i := range ledgers {
		amount := selector(&ledgers[i])
		if amount < 0 {
			return result, fmt.Errorf("%w: amount selector returned negative count for user %s",
				pkg.ErrInvalidArgument, ledgers[i].UserID)
		}
		if amount == 0 {
			continue
		}

		// Her ek bağımsız commit — hata batch'i durdurur ama önceki
		// ekleri geri almaz (best-effort).
		if err := s.statsService.AddAvailable(ctx, ledgers[i].UserID, amount); err != nil {
			log.Printf("[reward] failed to grant %d to user %s: %v", amount, ledgers[i].UserID, err)
			return result, err
		}

		result.UsersRewarded++
		result.TotalGranted += amount
	}

	return result, nil
}

func (s *rewardService) Reward(ctx context.Context, userIDs []string, rewardCount int) (*RewardResult, error) {
	if rewardCount <= 0 {
		rewardCount = s.defaultRewardCount
	}

	threshold := s.rewardThreshold
	count := rewardCount
	return s.GiveInvitations(ctx, userIDs, func(stats *models.InvitationStats) int {
		if s.statsService.Performance(stats) >= threshold {
			return count
		}
		return 0
	})
}

// scope, batch'in dolaşacağı defterleri toplar.
func (s *rewardService) scope(ctx context.Context, userIDs []string) ([]models.InvitationStats, error) {
	if len(userIDs) == 0 {
		return s.statsRepo.GetAll(ctx)
	}

	ledgers := make([]models.InvitationStats, 0, len(userIDs))
	for _, id := range userIDs {
		stats, err := s.statsRepo.GetByUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load stats for user %s: %w", id, err)
		}
		ledgers = append(ledgers, *stats)
	}
	return ledgers, nil
}
