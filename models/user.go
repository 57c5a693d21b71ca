// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model, veritabanındaki bir tablonun Go karşılığıdır ve aynı zamanda
// API'den gelen/giden verilerin şeklini belirler. `json:"..."` tag'leri
// struct field'larının JSON'a nasıl serialize edileceğini söyler.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// User, bir kullanıcıyı temsil eder.
// Davet sistemi kullanıcıları aktivasyon beklemeden aktif oluşturur —
// geçerli bir davet anahtarı zaten email sahipliğinin kanıtıdır.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	DisplayName  *string   `json:"display_name"` // *string = nullable
	PasswordHash string    `json:"-"`            // json:"-" → API response'a DAHİL ETME
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// DeletedUsername, silinen kullanıcıların davetlerinin devredildiği
// sentinel hesabın kullanıcı adıdır. Kayıt-tutma modunda kabul geçmişini
// korumak için davetler cascade delete yerine bu hesaba taşınır.
const DeletedUsername = "deleted_user"

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EmailRegex, basit email format kontrolü için paylaşılan regex'i döner.
func EmailRegex() *regexp.Regexp {
	return emailRegex
}

// RegisterRequest, davet üzerinden (veya invite-optional modda doğrudan)
// kayıt olurken gelen veri. Email davetten alınır, request'te yer almaz —
// davet anahtarı hangi adrese verildiyse hesap o adresle açılır.
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	// Email sadece davetsiz kayıtta (invite-optional mod) kullanılır.
	Email string `json:"email,omitempty"`
}

// Validate, RegisterRequest'in geçerli olup olmadığını kontrol eder.
//   - Username: 3-32 karakter, alfanumerik + alt çizgi
//   - Password: minimum 8 karakter
//   - DisplayName: opsiyonel, max 32 karakter
func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	usernameLen := utf8.RuneCountInString(r.Username)
	if usernameLen < 3 || usernameLen > 32 {
		return fmt.Errorf("username must be between 3 and 32 characters")
	}

	for _, ch := range r.Username {
		if !isValidUsernameChar(ch) {
			return fmt.Errorf("username can only contain letters, numbers, and underscores")
		}
	}

	if utf8.RuneCountInString(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if utf8.RuneCountInString(r.DisplayName) > 32 {
		return fmt.Errorf("display name must be at most 32 characters")
	}

	return nil
}

// LoginRequest, giriş yaparken gelen veri.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate, LoginRequest kontrolü.
func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// isValidUsernameChar, username'de izin verilen karakterleri kontrol eder.
func isValidUsernameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_'
}
