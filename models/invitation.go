// Package models — Invitation domain modeli.
//
// Invitation, bir kullanıcının belirli bir email adresini kayıt olmaya
// davet etmesini temsil eder. Key, dış dünyaya verilen tek kullanımlık ve
// süreli capability token'dır (40 hex karakter).
package models

import (
	"fmt"
	"strings"
	"time"
)

// Invitation, "invitations" tablosunun Go karşılığı.
//
// AcceptorID sadece kayıt-tutma (record invites) modunda doldurulur:
// davet kabul edildiğinde silinmek yerine kabul eden kullanıcıya bağlanır.
// Kayıt-tutma kapalıysa kabul edilen davet silinir ve bu alan hep nil kalır.
type Invitation struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	Email      string    `json:"email"`
	Key        string    `json:"key"`
	AcceptorID *string   `json:"acceptor_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ExpiresAt, davetin geçerliliğinin bittiği anı döner.
func (i *Invitation) ExpiresAt(expireDays int) time.Time {
	return i.CreatedAt.Add(time.Duration(expireDays) * 24 * time.Hour)
}

// CreateInvitationRequest, yeni davet oluşturma isteği.
type CreateInvitationRequest struct {
	Email string `json:"email"`
}

// Validate, CreateInvitationRequest kontrolü.
func (r *CreateInvitationRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !EmailRegex().MatchString(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// InvitationPreview, kayıt formunun ihtiyaç duyduğu davet ön izlemesi.
// Auth gerektirmez — anahtar zaten capability'nin kendisidir.
type InvitationPreview struct {
	Email          string    `json:"email"`
	SenderUsername string    `json:"sender_username"`
	ExpiresAt      time.Time `json:"expires_at"`
}
