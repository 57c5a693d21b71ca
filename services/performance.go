// Package services, business logic katmanını barındırır.
//
// Bu dosya performans skoru stratejilerini içerir. Skor, bir kullanıcının
// davet etkinliğini [0,1] aralığında ölçer ve ödül motorunun eşik
// kontrolünde kullanılır.
//
// Strateji, startup'ta isimle bir kez çözülür (Strategy Pattern):
// çalışma zamanında global konfigürasyona bakılmaz, servis kurulurken
// seçilen fonksiyon değeri taşınır. Bilinmeyen isim pkg.ErrMisconfiguration
// ile startup'ı durdurur — sessizce yanlış skor hesaplamaktansa hiç
// başlamamak daha iyidir.
package services

import (
	"fmt"
	"sort"

	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
)

// PerformanceFunc, üç sayaçtan [0,1] aralığında skor üreten saf fonksiyon.
// Yan etkisi yoktur; skor saklanmaz, her okumada yeniden hesaplanır.
type PerformanceFunc func(stats *models.InvitationStats) float64

// Yerleşik strateji adları.
const (
	PerformanceInviteOptional = "invite_optional"
	PerformanceInviteOnly     = "invite_only"
)

// performanceRegistry, isim → strateji eşlemesi.
// Özel stratejiler RegisterPerformanceFunc ile eklenebilir.
var performanceRegistry = map[string]PerformanceFunc{
	PerformanceInviteOptional: performanceInviteOptional,
	PerformanceInviteOnly:     performanceInviteOnly,
}

// RegisterPerformanceFunc, özel bir performans stratejisi kaydeder.
// Startup sırasında, ResolvePerformanceFunc çağrılmadan önce kullanılmalıdır.
func RegisterPerformanceFunc(name string, fn PerformanceFunc) {
	performanceRegistry[name] = fn
}

// ResolvePerformanceFunc, konfigüre edilen adı stratejiye çözer.
//
// name boşsa moda göre varsayılan seçilir: invite-only modda gönderim
// oranını da ödüllendiren invite_only, aksi halde invite_optional.
// Bilinmeyen isim pkg.ErrMisconfiguration döner — çağıran (main) fatal
// davranmalıdır.
func ResolvePerformanceFunc(name string, inviteOnly bool) (PerformanceFunc, error) {
	if name == "" {
		if inviteOnly {
			return performanceRegistry[PerformanceInviteOnly], nil
		}
		return performanceRegistry[PerformanceInviteOptional], nil
	}

	fn, ok := performanceRegistry[name]
	if !ok {
		known := make([]string, 0, len(performanceRegistry))
		for k := range performanceRegistry {
			known = append(known, k)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("%w: unknown performance function %q (known: %v)",
			pkg.ErrMisconfiguration, name, known)
	}
	return fn, nil
}

// performanceInviteOptional: kabul oranı = accepted / sent (sent=0 → 0.0),
// 1.0 ile sınırlanır. Davetsiz kayıt açıkken davet göndermek zorunluluk
// değildir, skor yalnızca kabul başarısını ölçer.
func performanceInviteOptional(stats *models.InvitationStats) float64 {
	if stats.Sent == 0 {
		return 0.0
	}
	ratio := float64(stats.Accepted) / float64(stats.Sent)
	return min(ratio, 1.0)
}

// performanceInviteOnly: invite-only sistemde kota kıttır ve onu aktif
// harcamak başlı başına katılım göstergesidir. Skor, gönderim oranı ile
// kabul oranının toplamını 0.6 ile ölçekler; kusursuz bir davetçi 1.0'da
// tavan yapar.
//
// total = available + sent. total=0 (hiç hak verilmemiş kullanıcı) geçerli
// bir durumdur ve gönderim oranı 0.0 sayılır — sıfıra bölme yoktur.
func performanceInviteOnly(stats *models.InvitationStats) float64 {
	sendRatio := 0.0
	if total := stats.Available + stats.Sent; total > 0 {
		sendRatio = float64(stats.Sent) / float64(total)
	}
	acceptRatio := performanceInviteOptional(stats)
	return min((sendRatio+acceptRatio)*0.6, 1.0)
}
