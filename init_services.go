// Package main — Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve diğer
// dependency'leri constructor injection ile alır.
//
// ÖNEMLİ sıralama kuralları:
// 1. Performans fonksiyonu StatsService'den ÖNCE çözülür — bilinmeyen isim
//    startup hatasıdır, çalışma zamanına taşınmaz.
// 2. StatsService → InvitationService ve RewardService'den ÖNCE
// 3. InvitationService → AuthService'den ÖNCE (kayıt akışı davet tüketir)
package main

import (
	"fmt"
	"log"

	"github.com/akinalp/davet/config"
	"github.com/akinalp/davet/events"
	"github.com/akinalp/davet/pkg/email"
	"github.com/akinalp/davet/services"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth       services.AuthService
	Invitation services.InvitationService
	Stats      services.StatsService
	Reward     services.RewardService
}

// initServices, tüm service'leri oluşturur.
//
// Sıralama kritiktir — bkz. dosya başı yorum.
// Konfigürasyon hatası (bilinmeyen performans fonksiyonu) burada yakalanır
// ve error olarak döner; main bunu fatal yapar.
func initServices(repos *Repositories, bus *events.Bus, cfg *config.Config) (*Services, error) {
	// ─── Performans stratejisi (sıralama-kritik: StatsService'den önce) ───
	perfFunc, err := services.ResolvePerformanceFunc(cfg.Invitation.PerformanceFunc, cfg.Invitation.InviteOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve performance function: %w", err)
	}

	// ─── Email sender (opsiyonel) ───
	var emailSender email.EmailSender
	if cfg.Email.ResendAPIKey != "" && cfg.Email.FromEmail != "" && cfg.Email.AppURL != "" {
		emailSender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL, cfg.Email.SiteName)
		log.Printf("[main] email service enabled (from=%s)", cfg.Email.FromEmail)
	} else {
		log.Println("[main] email service disabled (RESEND_API_KEY, EMAIL_FROM or APP_URL not set)")
	}

	statsService := services.NewStatsService(
		repos.Stats, bus, perfFunc, cfg.Invitation.RepopulateAccepted,
	)

	invitationService := services.NewInvitationService(
		repos.Invitation, repos.User, statsService, emailSender, bus,
		cfg.Invitation.Secret,
		cfg.Invitation.ExpireDays,
		cfg.Invitation.UniqueEmail,
		cfg.Invitation.RecordInvites,
	)

	rewardService := services.NewRewardService(
		repos.Stats, statsService,
		cfg.Invitation.RewardThreshold,
		cfg.Invitation.RewardCount,
	)

	// createUser nil → varsayılan hesap oluşturma stratejisi (user +
	// başlangıç kotası aynı transaction'da).
	authService := services.NewAuthService(
		repos.User, repos.Session, invitationService, nil,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.Invitation.InviteOnly,
		cfg.Invitation.AutoLogin,
		cfg.Invitation.InitialInvitations,
	)

	return &Services{
		Auth:       authService,
		Invitation: invitationService,
		Stats:      statsService,
		Reward:     rewardService,
	}, nil
}
