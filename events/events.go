// Package events, davet yaşam döngüsü olayları için fire-and-forget
// bir event bus sağlar.
//
// Service katmanı olayları publish eder ama dinleyicilerin kim olduğunu
// bilmez (Dependency Inversion) — dinleyiciler main.go wire-up noktasında
// register edilir. Callback'ler ayrı goroutine'de çalışır; dönüş değeri
// yoktur ve hataları publisher'a yansımaz. Bir dinleyicinin yavaşlığı
// veya hatası davet akışını asla bloklamamalı.
package events

import "sync"

// InvitationSentEvent, bir davet email'i başarıyla gönderildiğinde yayınlanır.
type InvitationSentEvent struct {
	InvitationID string
	SenderID     string
	Email        string
}

// InvitationAcceptedEvent, bir davet kabul edildiğinde yayınlanır.
// Davet henüz silinmeden/güncellenmeden ÖNCE yayınlanır — dinleyiciler
// kaydın son halini görebilir.
type InvitationAcceptedEvent struct {
	InvitationID string
	SenderID     string
	NewUserID    string
}

// InvitationAddedEvent, bir kullanıcının kotasına hak eklendiğinde yayınlanır
// (ödül, idari ekleme veya kabul iade'si).
type InvitationAddedEvent struct {
	UserID string
	Count  int
}

// Bus, olay dinleyicilerini tutan merkezi yapı.
// Register çağrıları wire-up sırasında (tek goroutine) yapılır ama
// publish her yerden gelebilir — mutex ile korunur.
type Bus struct {
	mu         sync.RWMutex
	onSent     []func(InvitationSentEvent)
	onAccepted []func(InvitationAcceptedEvent)
	onAdded    []func(InvitationAddedEvent)
}

// NewBus, boş bir event bus oluşturur.
func NewBus() *Bus {
	return &Bus{}
}

// OnInvitationSent, davet-gönderildi dinleyicisi register eder.
func (b *Bus) OnInvitationSent(fn func(InvitationSentEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onSent = append(b.onSent, fn)
}

// OnInvitationAccepted, davet-kabul-edildi dinleyicisi register eder.
func (b *Bus) OnInvitationAccepted(fn func(InvitationAcceptedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onAccepted = append(b.onAccepted, fn)
}

// OnInvitationAdded, kota-eklendi dinleyicisi register eder.
func (b *Bus) OnInvitationAdded(fn func(InvitationAddedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onAdded = append(b.onAdded, fn)
}

// PublishInvitationSent, tüm davet-gönderildi dinleyicilerini tetikler.
func (b *Bus) PublishInvitationSent(e InvitationSentEvent) {
	b.mu.RLock()
	listeners := b.onSent
	b.mu.RUnlock()
	for _, fn := range listeners {
		go fn(e)
	}
}

// PublishInvitationAccepted, tüm davet-kabul-edildi dinleyicilerini tetikler.
func (b *Bus) PublishInvitationAccepted(e InvitationAcceptedEvent) {
	b.mu.RLock()
	listeners := b.onAccepted
	b.mu.RUnlock()
	for _, fn := range listeners {
		go fn(e)
	}
}

// PublishInvitationAdded, tüm kota-eklendi dinleyicilerini tetikler.
func (b *Bus) PublishInvitationAdded(e InvitationAddedEvent) {
	b.mu.RLock()
	listeners := b.onAdded
	b.mu.RUnlock()
	for _, fn := range listeners {
		go fn(e)
	}
}
