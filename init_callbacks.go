// Package main — Event bus dinleyici wire-up.
//
// registerBusCallbacks, davet yaşam döngüsü olaylarının dinleyicilerini
// register eder.
//
// Bu dinleyiciler neden burada (main package'da)?
// Bus events paketinde yaşıyor ama dinleyicilerin ne yapacağı deployment
// kararıdır. Service'lerin dinleyicilere bağımlı olmasını istemiyoruz
// (Dependency Inversion). main package wire-up noktasıdır — tüm katmanları
// birbirine bağlar.
//
// Dinleyiciler publish eden goroutine'den ayrı goroutine'de çalışır
// (Publish* içinde `go fn(e)` ile çağrılır) — yavaş bir dinleyici davet
// akışını bloklamaz.
package main

import (
	"log"

	"github.com/akinalp/davet/events"
)

// registerBusCallbacks, tüm event dinleyicilerini register eder.
// Şimdilik hepsi audit log dinleyicisidir; webhook/analytics gibi
// entegrasyonlar buraya eklenir.
func registerBusCallbacks(bus *events.Bus) {
	bus.OnInvitationSent(func(e events.InvitationSentEvent) {
		log.Printf("[event] invitation %s sent by user %s to %s", e.InvitationID, e.SenderID, e.Email)
	})

	bus.OnInvitationAccepted(func(e events.InvitationAcceptedEvent) {
		log.Printf("[event] invitation %s accepted, sender=%s new_user=%s", e.InvitationID, e.SenderID, e.NewUserID)
	})

	bus.OnInvitationAdded(func(e events.InvitationAddedEvent) {
		log.Printf("[event] %d invitation(s) added to user %s", e.Count, e.UserID)
	})
}
