// Package repository — SessionRepository interface.
package repository

import (
	"context"

	"github.com/akinalp/davet/models"
)

// SessionRepository, refresh token oturumları için interface.
type SessionRepository interface {
	// Create, yeni bir oturum kaydeder.
	Create(ctx context.Context, session *models.Session) error

	// GetByRefreshToken, oturumu refresh token ile döner. Yoksa pkg.ErrNotFound.
	GetByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)

	// DeleteByID, oturumu siler (logout / rotate).
	DeleteByID(ctx context.Context, id string) error
}
