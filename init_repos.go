// Package main — Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository aynı SQL.DB bağlantısını alır ve interface döner.
// main.go'daki wire-up'ı modülerleştirmek için bu dosyaya taşındı.
package main

import (
	"database/sql"

	"github.com/akinalp/davet/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
//
// Neden struct? Ayrı ayrı değişkenler yerine tek struct kullanmak:
// 1. Fonksiyon imzalarını temiz tutar
// 2. Yeni repository eklendiğinde sadece struct + initRepositories güncellenir
// 3. IDE auto-complete ile kolay erişim (repos.User, repos.Stats, vb.)
type Repositories struct {
	User       repository.UserRepository
	Session    repository.SessionRepository
	Invitation repository.InvitationRepository
	Stats      repository.StatsRepository
}

// initRepositories, veritabanı bağlantısından tüm repository'leri oluşturur.
//
// recordInvites, kabul edilen davetlerin saklanıp saklanmayacağını belirler;
// hem davet hem kullanıcı repository'sinin silme davranışını değiştirdiği
// için constructor'da sabitlenir.
//
// Her NewSQLite* fonksiyonu aynı *sql.DB'yi alır — Go'nun sql.DB'si
// thread-safe connection pool'dur, paylaşılması güvenlidir.
func initRepositories(conn *sql.DB, recordInvites bool) *Repositories {
	return &Repositories{
		User:       repository.NewSQLiteUserRepo(conn, recordInvites),
		Session:    repository.NewSQLiteSessionRepo(conn),
		Invitation: repository.NewSQLiteInvitationRepo(conn, recordInvites),
		Stats:      repository.NewSQLiteStatsRepo(conn),
	}
}
