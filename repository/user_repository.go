// Package repository, veritabanı erişim soyutlamalarını barındırır.
//
// Her repository bir interface + SQLite implementasyonu çiftidir.
// Service katmanı yalnızca interface'lere bağımlıdır — testlerde
// in-memory fake'lerle değiştirilebilir.
package repository

import (
	"context"

	"github.com/akinalp/davet/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
type UserRepository interface {
	// Create, yeni bir kullanıcı VE başlangıç kotalı invitation_stats
	// satırını aynı transaction'da oluşturur. Kota defteri kullanıcı ile
	// birlikte doğar — ayrı bir adım değildir.
	Create(ctx context.Context, user *models.User, initialInvitations int) error

	// GetByID, kullanıcıyı ID ile döner.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByUsername, kullanıcıyı kullanıcı adı ile döner.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// EmailExists, email adresinin (case-insensitive) kayıtlı olup
	// olmadığını döner. Unique-email politikası bunu kullanır.
	EmailExists(ctx context.Context, email string) (bool, error)

	// GetAll, tüm kullanıcıları döner (reward batch taraması için).
	GetAll(ctx context.Context) ([]models.User, error)

	// Delete, kullanıcıyı siler. Kayıt-tutma modunda kullanıcının sahip
	// olduğu davetler silinmez, sentinel "deleted_user" hesabına devredilir —
	// kabul geçmişi korunur. Kayıt-tutma kapalıysa davetler de silinir.
	Delete(ctx context.Context, id string) error
}
