// Package repository — InvitationRepository interface.
package repository

import (
	"context"
	"time"

	"github.com/akinalp/davet/models"
)

// InvitationRepository, davet kayıtları için CRUD soyutlaması.
//
// Geçerlilik (expiry + acceptor) kararı service katmanındadır; repository
// yalnızca ham kayıt erişimi ve zaman filtreli listeleme sağlar.
type InvitationRepository interface {
	// Create, yeni bir davet kaydı oluşturur. Key UNIQUE'tir — çakışma
	// pratikte imkansızdır (40 hex karakterlik hash) ama constraint yine de DB'dedir.
	Create(ctx context.Context, inv *models.Invitation) error

	// GetByKey, daveti anahtar ile döner. Yoksa pkg.ErrNotFound.
	GetByKey(ctx context.Context, key string) (*models.Invitation, error)

	// FirstBySenderAndEmail, (gönderici, email) çiftine ait en yeni daveti
	// döner. Aynı çift için birden fazla kayıt olabilir (eskileri süresi
	// dolmuş) — ilk eşleşme alınır. Yoksa pkg.ErrNotFound.
	FirstBySenderAndEmail(ctx context.Context, senderID, email string) (*models.Invitation, error)

	// ListBySender, göndericinin tüm davetlerini yeniden eskiye döner.
	ListBySender(ctx context.Context, senderID string) ([]models.Invitation, error)

	// SetAcceptor, daveti kabul eden kullanıcıyı kaydeder (kayıt-tutma modu).
	// Acceptor tam olarak bir kez set edilir — zaten doluysa etkisizdir
	// ve pkg.ErrNotFound döner.
	SetAcceptor(ctx context.Context, id, acceptorID string) error

	// Delete, daveti siler. Yoksa pkg.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// DeleteExpired, verilen andan önce oluşturulmuş davetleri topluca siler
	// ve silinen kayıt sayısını döner. Kayıt-tutma modunda kabul edilmiş
	// davetlere dokunulmaz — onlar denetim kaydıdır.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
