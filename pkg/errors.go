// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Go'da error'lar basit değerlerdir. errors.New() ile sabit error
// değişkenleri tanımlarız, karşılaştırma string yerine referans ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
//
// Service katmanı bu sentinel'leri fmt.Errorf("%w: ...") ile sarar,
// handler katmanı errors.Is ile yakalayıp HTTP status'a çevirir.
package pkg

import "errors"

// Genel error'lar — handler katmanı HTTP status code'larına map'ler.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)

// Davet sistemine özgü domain error'ları.
//
// İlk üçü kullanıcıya gösterilebilir iş kuralı ihlalleridir.
// ErrAcceptanceExceedsSent bir tutarlılık ihlalidir (accepted > sent
// olamaz) — kullanıcı mesajı değil, alarm konusudur.
// ErrMisconfiguration startup'ta yakalanır ve fatal'dır.
var (
	// ErrDuplicateEmail, unique-email politikası aktifken zaten kayıtlı
	// bir email adresine davet gönderilmeye çalışıldığında döner.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInsufficientQuota, kullanıcının harcayacak davet hakkı kalmadığında döner.
	ErrInsufficientQuota = errors.New("no available invitations")

	// ErrAcceptanceExceedsSent, accepted sayacı sent'i aşacaksa döner.
	ErrAcceptanceExceedsSent = errors.New("accepted invitations cannot exceed sent invitations")

	// ErrInvalidArgument, reward miktar seçicisi gibi hatalı parametrelerde döner.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMisconfiguration, konfigüre edilen bir strateji adı çözülemediğinde döner.
	ErrMisconfiguration = errors.New("misconfiguration")
)
