// Package repository — StatsRepository'nin SQLite implementasyonu.
//
// Sayaç operasyonlarının tamamı koşullu atomik UPDATE'lerdir:
//
//	UPDATE invitation_stats
//	SET available = available - ?, sent = sent + ?
//	WHERE user_id = ? AND available >= ?
//
// Invariant'ı ihlal edecek çağrıda WHERE koşulu tutmaz, satır değişmez ve
// RowsAffected=0 domain error'a çevrilir. Okuyup-hesaplayıp-yazmak (read-
// modify-write) burada YASAKTIR — eşzamanlı çağrılar altında kayıp
// güncelleme üretir.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/davet/database"
	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
)

type sqliteStatsRepo struct {
	db database.TxQuerier
}

// NewSQLiteStatsRepo, constructor.
func NewSQLiteStatsRepo(db database.TxQuerier) StatsRepository {
	return &sqliteStatsRepo{db: db}
}

func (r *sqliteStatsRepo) GetByUser(ctx context.Context, userID string) (*models.InvitationStats, error) {
	query := `
		SELECT user_id, available, sent, accepted, updated_at
		FROM invitation_stats WHERE user_id = ?`

	stats := &models.InvitationStats{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID, &stats.Available, &stats.Sent, &stats.Accepted, &stats.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation stats: %w", err)
	}

	return stats, nil
}

func (r *sqliteStatsRepo) GetAll(ctx context.Context) ([]models.InvitationStats, error) {
	query := `
		SELECT user_id, available, sent, accepted, updated_at
		FROM invitation_stats ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all invitation stats: %w", err)
	}
	defer rows.Close()

	var all []models.InvitationStats
	for rows.Next() {
		var stats models.InvitationStats
		if err := rows.Scan(
			&stats.UserID, &stats.Available, &stats.Sent, &stats.Accepted, &stats.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invitation stats: %w", err)
		}
		all = append(all, stats)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitation stats: %w", err)
	}

	return all, nil
}

// Use, available >= count koşuluyla harcama yapar.
func (r *sqliteStatsRepo) Use(ctx context.Context, userID string, count int) error {
	if count <= 0 {
		return fmt.Errorf("%w: count must be positive", pkg.ErrInvalidArgument)
	}

	query := `
		UPDATE invitation_stats
		SET available = available - ?, sent = sent + ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND available >= ?`

	result, err := r.db.ExecContext(ctx, query, count, count, userID, count)
	if err != nil {
		return fmt.Errorf("failed to use invitations: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		// Koşul tutmadı: ya satır yok ya da kota yetersiz — ayırt et.
		return r.explainFailure(ctx, userID, pkg.ErrInsufficientQuota)
	}

	return nil
}

// MarkAccepted, accepted + count <= sent koşuluyla kabul işler.
// repopulate politikası aktifse aynı UPDATE içinde available iade edilir —
// iki ayrı UPDATE arasına başka bir yazma giremesin.
func (r *sqliteStatsRepo) MarkAccepted(ctx context.Context, userID string, count int, repopulate bool) error {
	if count <= 0 {
		return fmt.Errorf("%w: count must be positive", pkg.ErrInvalidArgument)
	}

	refund := 0
	if repopulate {
		refund = count
	}

	query := `
		UPDATE invitation_stats
		SET accepted = accepted + ?, available = available + ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND accepted + ? <= sent`

	result, err := r.db.ExecContext(ctx, query, count, refund, userID, count)
	if err != nil {
		return fmt.Errorf("failed to mark invitations accepted: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return r.explainFailure(ctx, userID, pkg.ErrAcceptanceExceedsSent)
	}

	return nil
}

// AddAvailable, koşulsuz kota ekler.
func (r *sqliteStatsRepo) AddAvailable(ctx context.Context, userID string, count int) error {
	if count <= 0 {
		return fmt.Errorf("%w: count must be positive", pkg.ErrInvalidArgument)
	}

	query := `
		UPDATE invitation_stats
		SET available = available + ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ?`

	result, err := r.db.ExecContext(ctx, query, count, userID)
	if err != nil {
		return fmt.Errorf("failed to add available invitations: %w", err)
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

// explainFailure, RowsAffected=0 durumunu ayrıştırır: satır hiç yoksa
// ErrNotFound, varsa koşul ihlali (verilen domain error) döner.
//
// SELECT başarısız UPDATE ile atomik değildir: satır ikisinin arasında
// silinirse neden ErrNotFound yerine koşul ihlali olarak raporlanır.
// İki durumda da operasyon yapılmamıştır; yalnızca teşhis mesajı kayar.
func (r *sqliteStatsRepo) explainFailure(ctx context.Context, userID string, violation error) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invitation_stats WHERE user_id = ?`, userID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check stats row: %w", err)
	}
	if exists == 0 {
		return pkg.ErrNotFound
	}
	return violation
}
