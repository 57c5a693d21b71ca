// Package main — Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Her handler, ihtiyaç duyduğu service interface'lerini constructor'dan alır.
// Handler'lar "thin" dir — sadece HTTP parse + service call + response write.
package main

import (
	"github.com/akinalp/davet/handlers"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Invitation *handlers.InvitationHandler
	Admin      *handlers.AdminHandler
}

// initHandlers, tüm handler'ları service dependency'leri ile oluşturur.
func initHandlers(svcs *Services, repos *Repositories) *Handlers {
	return &Handlers{
		Auth:       handlers.NewAuthHandler(svcs.Auth, svcs.Invitation),
		Invitation: handlers.NewInvitationHandler(svcs.Invitation, svcs.Stats),
		Admin:      handlers.NewAdminHandler(svcs.Reward, svcs.Invitation, svcs.Stats, repos.User),
	}
}
