// In-memory repository fake'leri — service testleri gerçek SQLite'a
// dokunmadan iş mantığını doğrular. Fake'ler, gerçek implementasyonların
// invariant davranışını (koşullu güncelleme, RowsAffected=0 → domain error)
// birebir taklit eder; aksi halde testler yanlış güven verir.
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
)

// ─── fakeStatsRepo ───

type fakeStatsRepo struct {
	mu    sync.Mutex
	stats map[string]*models.InvitationStats

	// failAddFor, AddAvailable'ı belirli kullanıcılar için patlatır
	// (best-effort batch testleri için).
	failAddFor map[string]bool
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{
		stats:      make(map[string]*models.InvitationStats),
		failAddFor: make(map[string]bool),
	}
}

func (r *fakeStatsRepo) seed(userID string, available, sent, accepted int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[userID] = &models.InvitationStats{
		UserID:    userID,
		Available: available,
		Sent:      sent,
		Accepted:  accepted,
		UpdatedAt: time.Now(),
	}
}

func (r *fakeStatsRepo) GetByUser(_ context.Context, userID string) (*models.InvitationStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[userID]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	copied := *stats
	return &copied, nil
}

func (r *fakeStatsRepo) GetAll(_ context.Context) ([]models.InvitationStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.InvitationStats, 0, len(r.stats))
	for _, s := range r.stats {
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return all, nil
}

func (r *fakeStatsRepo) Use(_ context.Context, userID string, count int) error {
	if count <= 0 {
		return fmt.Errorf("%w: count must be positive", pkg.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[userID]
	if !ok {
		return pkg.ErrNotFound
	}
	if stats.Available < count {
		return fmt.Errorf("%w: user %s has %d available", pkg.ErrInsufficientQuota, userID, stats.Available)
	}
	stats.Available -= count
	stats.Sent += count
	return nil
}

func (r *fakeStatsRepo) MarkAccepted(_ context.Context, userID string, count int, repopulate bool) error {
	if count <= 0 {
		return fmt.Errorf("%w: count must be positive", pkg.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[userID]
	if !ok {
		return pkg.ErrNotFound
	}
	if stats.Accepted+count > stats.Sent {
		return fmt.Errorf("%w: accepted would exceed sent", pkg.ErrAcceptanceExceedsSent)
	}
	stats.Accepted += count
	if repopulate {
		stats.Available += count
	}
	return nil
}

func (r *fakeStatsRepo) AddAvailable(_ context.Context, userID string, count int) error {
	if count <= 0 {
		return fmt.Errorf("%w: count must be positive", pkg.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAddFor[userID] {
		return fmt.Errorf("injected failure for user %s", userID)
	}
	stats, ok := r.stats[userID]
	if !ok {
		return pkg.ErrNotFound
	}
	stats.Available += count
	return nil
}

// ─── fakeInvitationRepo ───

type fakeInvitationRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Invitation

	deleted []string // silinen ID'ler, assert için
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{byID: make(map[string]*models.Invitation)}
}

func (r *fakeInvitationRepo) Create(_ context.Context, inv *models.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	copied := *inv
	r.byID[inv.ID] = &copied
	return nil
}

func (r *fakeInvitationRepo) GetByKey(_ context.Context, key string) (*models.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.byID {
		if inv.Key == key {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *fakeInvitationRepo) FirstBySenderAndEmail(_ context.Context, senderID, email string) (*models.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var newest *models.Invitation
	for _, inv := range r.byID {
		if inv.SenderID != senderID || inv.Email != email {
			continue
		}
		if newest == nil || inv.CreatedAt.After(newest.CreatedAt) {
			newest = inv
		}
	}
	if newest == nil {
		return nil, pkg.ErrNotFound
	}
	copied := *newest
	return &copied, nil
}

func (r *fakeInvitationRepo) ListBySender(_ context.Context, senderID string) ([]models.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Invitation
	for _, inv := range r.byID {
		if inv.SenderID == senderID {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeInvitationRepo) SetAcceptor(_ context.Context, id, acceptorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok || inv.AcceptorID != nil {
		return pkg.ErrNotFound
	}
	inv.AcceptorID = &acceptorID
	return nil
}

func (r *fakeInvitationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeInvitationRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, inv := range r.byID {
		if inv.CreatedAt.Before(before) && inv.AcceptorID == nil {
			delete(r.byID, id)
			r.deleted = append(r.deleted, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeInvitationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// ─── fakeUserRepo ───

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User

	// statsRepo nil değilse Create, kota defterini de açar — gerçek
	// repository'nin transaction davranışının karşılığı.
	statsRepo *fakeStatsRepo
}

func newFakeUserRepo(statsRepo *fakeStatsRepo) *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*models.User), statsRepo: statsRepo}
}

func (r *fakeUserRepo) seed(user *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copied := *user
	r.byID[user.ID] = &copied
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User, initialInvitations int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Username == user.Username {
			return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
		}
		if existing.Email != "" && strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	copied := *user
	r.byID[user.ID] = &copied
	if r.statsRepo != nil {
		r.statsRepo.seed(user.ID, initialInvitations, 0, 0)
	}
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.byID {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.byID {
		if user.Email != "" && strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.User, 0, len(r.byID))
	for _, user := range r.byID {
		all = append(all, *user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return all, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// ─── fakeSessionRepo ───

type fakeSessionRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byID: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.byID[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByRefreshToken(_ context.Context, refreshToken string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, session := range r.byID {
		if session.RefreshToken == refreshToken {
			copied := *session
			return &copied, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (r *fakeSessionRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
