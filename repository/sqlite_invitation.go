// Package repository — InvitationRepository'nin SQLite implementasyonu.
//
// invitations tablosu 001_init.sql'de oluşturuldu:
//   id (PK), sender_id, email, key (UNIQUE), acceptor_id, created_at
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/davet/database"
	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
)

type sqliteInvitationRepo struct {
	db database.TxQuerier
	// recordInvites, DeleteExpired davranışını seçer: kayıt-tutma modunda
	// kabul edilmiş (acceptor_id dolu) davetler purge'den muaftır.
	recordInvites bool
}

// NewSQLiteInvitationRepo, constructor.
func NewSQLiteInvitationRepo(db database.TxQuerier, recordInvites bool) InvitationRepository {
	return &sqliteInvitationRepo{db: db, recordInvites: recordInvites}
}

func (r *sqliteInvitationRepo) Create(ctx context.Context, inv *models.Invitation) error {
	query := `
		INSERT INTO invitations (id, sender_id, email, key)
		VALUES (?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		inv.ID, inv.SenderID, inv.Email, inv.Key,
	).Scan(&inv.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invitation key collision", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	return nil
}

func (r *sqliteInvitationRepo) GetByKey(ctx context.Context, key string) (*models.Invitation, error) {
	query := `
		SELECT id, sender_id, email, key, acceptor_id, created_at
		FROM invitations WHERE key = ?`

	inv := &models.Invitation{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&inv.ID, &inv.SenderID, &inv.Email, &inv.Key, &inv.AcceptorID, &inv.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation by key: %w", err)
	}

	return inv, nil
}

// FirstBySenderAndEmail, çifte ait en yeni kaydı döner.
// Aynı çifte ait birden fazla kayıt olabilir (eskileri süresi dolmuş veya
// art arda davet edilmiş) — sıralama yeniden eskiye, ilk satır alınır.
func (r *sqliteInvitationRepo) FirstBySenderAndEmail(ctx context.Context, senderID, email string) (*models.Invitation, error) {
	query := `
		SELECT id, sender_id, email, key, acceptor_id, created_at
		FROM invitations
		WHERE sender_id = ? AND email = ?
		ORDER BY created_at DESC
		LIMIT 1`

	inv := &models.Invitation{}
	err := r.db.QueryRowContext(ctx, query, senderID, email).Scan(
		&inv.ID, &inv.SenderID, &inv.Email, &inv.Key, &inv.AcceptorID, &inv.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation by sender and email: %w", err)
	}

	return inv, nil
}

func (r *sqliteInvitationRepo) ListBySender(ctx context.Context, senderID string) ([]models.Invitation, error) {
	query := `
		SELECT id, sender_id, email, key, acceptor_id, created_at
		FROM invitations
		WHERE sender_id = ?
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(
			&inv.ID, &inv.SenderID, &inv.Email, &inv.Key, &inv.AcceptorID, &inv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitations: %w", err)
	}

	return invitations, nil
}

// SetAcceptor, acceptor'ı tam olarak bir kez yazar.
// WHERE acceptor_id IS NULL koşulu ikinci bir yazmayı sessizce engeller —
// RowsAffected=0 durumu ErrNotFound'a çevrilir.
func (r *sqliteInvitationRepo) SetAcceptor(ctx context.Context, id, acceptorID string) error {
	query := `UPDATE invitations SET acceptor_id = ? WHERE id = ? AND acceptor_id IS NULL`

	result, err := r.db.ExecContext(ctx, query, acceptorID, id)
	if err != nil {
		return fmt.Errorf("failed to set acceptor: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteInvitationRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

// DeleteExpired, cutoff'tan önce oluşturulmuş davetleri topluca siler.
// Kayıt-tutma modunda kabul edilmiş davetler denetim kaydıdır, silinmez.
func (r *sqliteInvitationRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM invitations WHERE created_at < ?`
	if r.recordInvites {
		query += ` AND acceptor_id IS NULL`
	}

	result, err := r.db.ExecContext(ctx, query, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired invitations: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return affected, nil
}
