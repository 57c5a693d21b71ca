// Package services — InvitationService: davet yaşam döngüsü iş mantığı.
//
// Oluşturma (Invite), çözme (Find), geçerlilik (IsValid), kabul (Accept)
// ve email bildirimi (SendNotification) burada orkestre edilir. Kota
// muhasebesi StatsService'e, kayıt erişimi InvitationRepository'ye devredilir.
//
// Anahtar üretimi: sha1(secret + taze rastgelelik + gönderici email +
// alıcı email) → 40 hex karakter. Anahtar tahmin edilemez olmalı — link'i
// bilen herkes kayıt olabilir (capability token).
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/akinalp/davet/events"
	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
	"github.com/akinalp/davet/pkg/email"
	"github.com/akinalp/davet/repository"
)

// InvitationService, davet yaşam döngüsü interface'i.
type InvitationService interface {
	// Invite, sender'dan email adresine bir davet oluşturur veya hâlâ
	// geçerli olan mevcut daveti döner (idempotent re-invite — kota iki
	// kez düşmez). Email GÖNDERMEZ; SendNotification ayrıca çağrılır.
	//
	// Unique-email politikası aktifken kayıtlı bir adrese davet
	// pkg.ErrDuplicateEmail ile reddedilir. Kota yetersizse
	// pkg.ErrInsufficientQuota aynen yukarı iletilir.
	Invite(ctx context.Context, sender *models.User, recipientEmail string) (*models.Invitation, error)

	// Find, anahtarı GEÇERLİ bir davete çözer. Kayıt yoksa veya geçersizse
	// pkg.ErrNotFound döner. Kayıt-tutma modunda geçersiz kayıt, hata
	// dönülmeden önce best-effort silinir — çağıran asla süresi dolmuş
	// veya tüketilmiş bir daveti geçerli sanmaz.
	Find(ctx context.Context, key string) (*models.Invitation, error)

	// IsValid, davetin şu an geçerli olup olmadığını döner: süre penceresi
	// dolmamış VE (kayıt-tutma modunda) henüz kabul edilmemiş.
	// Duvar saatine göre her çağrıda yeniden değerlendirilir, cache yoktur.
	IsValid(inv *models.Invitation) bool

	// Accept, daveti yeni kullanıcının kaydıyla sonuçlandırır.
	// Sıralama önemlidir: önce defter güncellenir (hata davetin yerinde
	// kalmasını sağlar — retry mümkün), sonra olay yayınlanır, en son
	// davet ya acceptor'a bağlanır (kayıt-tutma) ya da silinir.
	Accept(ctx context.Context, inv *models.Invitation, newUserID string) error

	// SendNotification, davet email'ini gönderir ve invitation-sent olayı
	// yayınlar. Email gönderimi konfigüre edilmemişse sessizce atlanır.
	SendNotification(ctx context.Context, inv *models.Invitation, sender *models.User) error

	// ListBySender, göndericinin davetlerini döner.
	ListBySender(ctx context.Context, senderID string) ([]models.Invitation, error)

	// Preview, kayıt formu için davet ön izlemesi döner (Find semantiği ile).
	Preview(ctx context.Context, key string) (*models.InvitationPreview, error)

	// PurgeExpired, süresi dolmuş davetleri topluca siler (admin bakımı).
	PurgeExpired(ctx context.Context) (int64, error)
}

type invitationService struct {
	invitationRepo repository.InvitationRepository
	userRepo       repository.UserRepository
	statsService   StatsService
	emailSender    email.EmailSender // nil olabilir — email devre dışı
	bus            *events.Bus

	secret        string
	expireDays    int
	uniqueEmail   bool
	recordInvites bool

	// now, test edilebilirlik için enjekte edilir; production'da time.Now.
	now func() time.Time
}

// NewInvitationService, constructor.
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	userRepo repository.UserRepository,
	statsService StatsService,
	emailSender email.EmailSender,
	bus *events.Bus,
	secret string,
	expireDays int,
	uniqueEmail bool,
	recordInvites bool,
) InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		statsService:   statsService,
		emailSender:    emailSender,
		bus:            bus,
		secret:         secret,
		expireDays:     expireDays,
		uniqueEmail:    uniqueEmail,
		recordInvites:  recordInvites,
		now:            time.Now,
	}
}

func (s *invitationService) Invite(ctx context.Context, sender *models.User, recipientEmail string) (*models.Invitation, error) {
	// 1. Unique-email politikası: zaten kayıtlı bir adrese davet yok.
	if s.uniqueEmail {
		exists, err := s.userRepo.EmailExists(ctx, recipientEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to check recipient email: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", pkg.ErrDuplicateEmail, recipientEmail)
		}
	}

	// 2. Mevcut geçerli davet varsa onu döndür — kota tekrar düşmez.
	existing, err := s.invitationRepo.FirstBySenderAndEmail(ctx, sender.ID, recipientEmail)
	if err == nil && s.IsValid(existing) {
		return existing, nil
	}
	if err != nil && !errors.Is(err, pkg.ErrNotFound) {
		return nil, err
	}

	// 3. Kota harca — yetersizse ErrInsufficientQuota buradan yukarı gider,
	// yakalamayız: çağıranın kullanıcıya göstereceği bir iş kuralıdır.
	if err := s.statsService.Use(ctx, sender.ID, 1); err != nil {
		return nil, err
	}

	// 4. Taze anahtar üret ve kaydet.
	key, err := s.generateKey(sender.Email, recipientEmail)
	if err != nil {
		return nil, err
	}

	inv := &models.Invitation{
		ID:       uuid.NewString(),
		SenderID: sender.ID,
		Email:    recipientEmail,
		Key:      key,
	}

	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *invitationService) Find(ctx context.Context, key string) (*models.Invitation, error) {
	inv, err := s.invitationRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if !s.IsValid(inv) {
		// Bayat kayıt temizliği best-effort'tur: silme hatası ErrNotFound
		// sonucunu değiştirmez, sadece loglanır.
		if s.recordInvites {
			if delErr := s.invitationRepo.Delete(ctx, inv.ID); delErr != nil {
				log.Printf("[invitation] failed to delete stale invitation %s: %v", inv.ID, delErr)
			}
		}
		return nil, pkg.ErrNotFound
	}

	return inv, nil
}

func (s *invitationService) IsValid(inv *models.Invitation) bool {
	valid := s.now().Before(inv.ExpiresAt(s.expireDays))
	if s.recordInvites {
		valid = valid && inv.AcceptorID == nil
	}
	return valid
}

func (s *invitationService) Accept(ctx context.Context, inv *models.Invitation, newUserID string) error {
	// Defter önce: MarkAccepted başarısızsa davet yerinde kalır.
	if err := s.statsService.MarkAccepted(ctx, inv.SenderID, 1); err != nil {
		return err
	}

	// Olay, davet silinmeden/güncellenmeden ÖNCE yayınlanır — dinleyiciler
	// kaydın son halini görebilmeli.
	s.bus.PublishInvitationAccepted(events.InvitationAcceptedEvent{
		InvitationID: inv.ID,
		SenderID:     inv.SenderID,
		NewUserID:    newUserID,
	})

	if s.recordInvites {
		if err := s.invitationRepo.SetAcceptor(ctx, inv.ID, newUserID); err != nil {
			return fmt.Errorf("failed to record acceptor: %w", err)
		}
		inv.AcceptorID = &newUserID
		return nil
	}

	return s.invitationRepo.Delete(ctx, inv.ID)
}

func (s *invitationService) SendNotification(ctx context.Context, inv *models.Invitation, sender *models.User) error {
	if s.emailSender == nil {
		log.Printf("[invitation] email disabled, skipping notification for %s", inv.Email)
		return nil
	}

	senderName := sender.Username
	if sender.DisplayName != nil && *sender.DisplayName != "" {
		senderName = *sender.DisplayName
	}

	if err := s.emailSender.SendInvitation(ctx, inv, senderName, inv.ExpiresAt(s.expireDays)); err != nil {
		return err
	}

	s.bus.PublishInvitationSent(events.InvitationSentEvent{
		InvitationID: inv.ID,
		SenderID:     inv.SenderID,
		Email:        inv.Email,
	})

	return nil
}

func (s *invitationService) ListBySender(ctx context.Context, senderID string) ([]models.Invitation, error) {
	invitations, err := s.invitationRepo.ListBySender(ctx, senderID)
	if err != nil {
		return nil, err
	}

	if invitations == nil {
		invitations = []models.Invitation{}
	}

	return invitations, nil
}

func (s *invitationService) Preview(ctx context.Context, key string) (*models.InvitationPreview, error) {
	inv, err := s.Find(ctx, key)
	if err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, inv.SenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation sender: %w", err)
	}

	return &models.InvitationPreview{
		Email:          inv.Email,
		SenderUsername: sender.Username,
		ExpiresAt:      inv.ExpiresAt(s.expireDays),
	}, nil
}

func (s *invitationService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-time.Duration(s.expireDays) * 24 * time.Hour)
	return s.invitationRepo.DeleteExpired(ctx, cutoff)
}

// generateKey, 40 hex karakterlik davet anahtarı üretir.
// Preimage: gizli tohum + 16 byte taze rastgelelik + iki email adresi.
// Hash olmadan sadece rastgelelik de yeterdi; tohum, DB sızıntısı olmadan
// anahtar uzayının taranabilmesini engeller.
func (s *invitationService) generateKey(senderEmail, recipientEmail string) (string, error) {
	random := make([]byte, 16)
	if _, err := rand.Read(random); err != nil {
		return "", fmt.Errorf("failed to generate invitation key: %w", err)
	}

	sum := sha1.Sum([]byte(fmt.Sprintf("%s%x%s%s", s.secret, random, senderEmail, recipientEmail)))
	return hex.EncodeToString(sum[:]), nil
}
