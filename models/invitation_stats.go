// Package models — InvitationStats (kota defteri) domain modeli.
package models

import "time"

// InvitationStats, kullanıcı başına davet sayaçlarını tutar.
//
// Invariant'lar (DB CHECK constraint'leri + koşullu UPDATE'lerle korunur):
//   - available >= 0
//   - 0 <= accepted <= sent
//
// Performance alanı saklanmaz; okuma anında üç sayaçtan türetilir ve
// API response'larına servis katmanında eklenir.
type InvitationStats struct {
	UserID    string    `json:"user_id"`
	Available int       `json:"available"`
	Sent      int       `json:"sent"`
	Accepted  int       `json:"accepted"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatsWithPerformance, sayaçlar + türetilmiş performans skoru.
// GET /api/invitations/stats ve admin listelemesi bunu döner.
type StatsWithPerformance struct {
	InvitationStats
	Performance float64 `json:"performance"`
}
