// Package repository — UserRepository'nin SQLite implementasyonu.
//
// Diğer repository'lerden farklı olarak *sql.DB tutar (TxQuerier değil):
// Create ve Delete birden fazla tabloya dokunur ve database.WithTx ile
// transaction açması gerekir.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/akinalp/davet/database"
	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
)

type sqliteUserRepo struct {
	db *sql.DB
	// recordInvites, silme davranışını seçer: true ise davetler sentinel
	// kullanıcıya devredilir, false ise kullanıcıyla birlikte silinir.
	// Startup'ta bir kez seçilir, çalışma zamanında değişmez.
	recordInvites bool
}

// NewSQLiteUserRepo, constructor. Interface döner — Dependency Inversion.
func NewSQLiteUserRepo(db *sql.DB, recordInvites bool) UserRepository {
	return &sqliteUserRepo{db: db, recordInvites: recordInvites}
}

// Create, kullanıcıyı ve başlangıç kotalı stats satırını tek transaction'da açar.
// Kota defteri kullanıcıdan ayrı yaşayamaz — yarım kalmış kayıt olmamalı.
func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User, initialInvitations int) error {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO users (id, username, email, display_name, password_hash, is_admin)
			VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?)
			RETURNING id, created_at`

		err := tx.QueryRowContext(ctx, query,
			user.Username,
			user.Email,
			user.DisplayName,
			user.PasswordHash,
			user.IsAdmin,
		).Scan(&user.ID, &user.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO invitation_stats (user_id, available) VALUES (?, ?)`,
			user.ID, initialInvitations,
		)
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "idx_users_email") {
				return fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
			}
			return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, username, email, display_name, password_hash, is_admin, created_at
		FROM users WHERE id = ?`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.DisplayName,
		&user.PasswordHash, &user.IsAdmin, &user.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *sqliteUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, email, display_name, password_hash, is_admin, created_at
		FROM users WHERE username = ?`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.DisplayName,
		&user.PasswordHash, &user.IsAdmin, &user.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *sqliteUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE lower(email) = lower(?)`, email,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (r *sqliteUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, username, email, display_name, password_hash, is_admin, created_at
		FROM users ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close() // rows kapatılmazsa bağlantı sızar (leak)

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.DisplayName,
			&user.PasswordHash, &user.IsAdmin, &user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Delete, kullanıcıyı siler.
//
// Kayıt-tutma modunda davetler cascade delete EDİLMEZ: sentinel
// "deleted_user" hesabı (yoksa) oluşturulur ve kullanıcının gönderdiği /
// kabul ettiği davetler ona devredilir. Kabul geçmişi böylece korunur.
// Kayıt-tutma kapalıysa kullanıcının davetleri de silinir.
// sessions ve invitation_stats FK'leri ON DELETE CASCADE'dir.
func (r *sqliteUserRepo) Delete(ctx context.Context, id string) error {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if r.recordInvites {
			sentinelID, err := ensureDeletedUser(ctx, tx)
			if err != nil {
				return err
			}
			if sentinelID == id {
				return fmt.Errorf("%w: cannot delete the sentinel user", pkg.ErrBadRequest)
			}

			if _, err := tx.ExecContext(ctx,
				`UPDATE invitations SET sender_id = ? WHERE sender_id = ?`, sentinelID, id,
			); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE invitations SET acceptor_id = ? WHERE acceptor_id = ?`, sentinelID, id,
			); err != nil {
				return err
			}
		} else {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM invitations WHERE sender_id = ?`, id,
			); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkg.ErrNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) || errors.Is(err, pkg.ErrBadRequest) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// ensureDeletedUser, sentinel hesabı döner, yoksa oluşturur.
// Sentinel'in şifresi yoktur (boş hash ile giriş imkansızdır) ve kota
// defteri sıfır hak ile açılır.
func ensureDeletedUser(ctx context.Context, tx *sql.Tx) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ?`, models.DeletedUsername,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (id, username, email, password_hash)
		VALUES (lower(hex(randomblob(8))), ?, '', '')
		RETURNING id`, models.DeletedUsername,
	).Scan(&id)
	if err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO invitation_stats (user_id, available) VALUES (?, 0)`, id,
	); err != nil {
		return "", err
	}

	return id, nil
}
