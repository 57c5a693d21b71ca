package models

import "time"

// Session, JWT refresh token oturumunu temsil eder.
//
// Access token kısa ömürlüdür ve sık yenilenir; refresh token uzun ömürlüdür
// ve DB'de tutulur. Böylece çalınan token iptal edilebilir (revoke) ve
// logout'ta sadece ilgili oturum silinir.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"-"` // API'ye gönderilmez
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
