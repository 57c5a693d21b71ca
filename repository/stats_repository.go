// Package repository — StatsRepository interface.
package repository

import (
	"context"

	"github.com/akinalp/davet/models"
)

// StatsRepository, kota defteri (invitation_stats) işlemleri için interface.
//
// Sayaç güncellemeleri read-modify-write DEĞİLDİR: her operasyon tek bir
// koşullu UPDATE'tir. Aynı kullanıcıya eşzamanlı Use/MarkAccepted/
// AddAvailable çağrıları kayıp güncelleme (lost update) üretemez —
// invariant ihlal edecek güncelleme DB'de hiç uygulanmaz ve RowsAffected=0
// ile domain error'a çevrilir.
type StatsRepository interface {
	// GetByUser, kullanıcının sayaçlarını döner. Yoksa pkg.ErrNotFound.
	GetByUser(ctx context.Context, userID string) (*models.InvitationStats, error)

	// GetAll, tüm kota defterlerini döner (reward batch taraması için).
	GetAll(ctx context.Context) ([]models.InvitationStats, error)

	// Use, count adet hakkı harcar: available -= count, sent += count.
	// available yetersizse pkg.ErrInsufficientQuota döner ve HİÇBİR sayaç değişmez.
	Use(ctx context.Context, userID string, count int) error

	// MarkAccepted, count adet kabulü işler: accepted += count.
	// repopulate true ise available += count (kabul iade politikası).
	// accepted + count > sent olacaksa pkg.ErrAcceptanceExceedsSent döner, değişiklik olmaz.
	MarkAccepted(ctx context.Context, userID string, count int, repopulate bool) error

	// AddAvailable, koşulsuz olarak available += count yapar (ödül / idari ekleme).
	AddAvailable(ctx context.Context, userID string, count int) error
}
