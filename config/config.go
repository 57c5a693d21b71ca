// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Davet sisteminin davranışını değiştiren tüm ayarlar (invite-only modu,
// kota, ödül eşiği, kayıt tutma modu...) burada toplanır. Her yerde ayrı
// ayrı os.Getenv() çağırmak yerine tek bir Config nesnesi taşırız.
//
// Yanlış konfigürasyon (ör. bilinmeyen performans fonksiyonu adı) burada
// değil, startup'ta servis kurulurken yakalanır ve fatal'dır — çalışma
// zamanında sessizce yanlış davranmaktansa hiç başlamamak daha iyidir.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Email      EmailConfig
	Invitation InvitationConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/davet.db)
}

// JWTConfig, JWT token ayarları.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı — GİZLİ TUTULMALI
	AccessTokenExpiry  int    // Dakika cinsinden (varsayılan: 15)
	RefreshTokenExpiry int    // Gün cinsinden (varsayılan: 7)
}

// EmailConfig, davet email'i gönderim ayarları (Resend).
// ResendAPIKey boşsa email gönderimi devre dışıdır — davetler yine
// oluşturulur ama link sadece API yanıtında döner.
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string // Gönderici adresi — Resend'de doğrulanmış domain altında olmalı
	AppURL       string // Davet linklerinin tabanı (ör: https://app.davet.dev)
	SiteName     string // Email şablonlarında görünen site adı
}

// InvitationConfig, davet sisteminin iş kuralı ayarları.
//
// Bu ayarların çoğu davranışı kökten değiştirir:
//   - InviteOnly: true ise davetsiz kayıt tamamen kapalıdır ve performans
//     skoru gönderim oranını da hesaba katar.
//   - RecordInvites: true ise kabul edilen davetler silinmez, kabul eden
//     kullanıcıya bağlanarak saklanır (denetim/istatistik için).
//   - RepopulateAccepted: true ise kabul edilen her davet göndericiye
//     bir hak iade eder.
type InvitationConfig struct {
	Secret             string  // Davet anahtarı türetiminde kullanılan gizli tohum
	InviteOnly         bool    // Davetsiz kayıt kapalı mı?
	ExpireDays         int     // Davetin geçerlilik süresi, gün (varsayılan: 15)
	InitialInvitations int     // Yeni kullanıcıya verilen başlangıç kotası (varsayılan: 10)
	RepopulateAccepted bool    // Kabul edilen davet kota iade eder mi?
	AutoLogin          bool    // Kayıt sonrası otomatik giriş yapılsın mı?
	RewardThreshold    float64 // Ödül için minimum performans skoru (0-1, varsayılan: 0.75)
	RewardCount        int     // Varsayılan ödül miktarı (varsayılan: InitialInvitations)
	PerformanceFunc    string  // Performans hesaplayıcı adı; boş = moda göre varsayılan
	UniqueEmail        bool    // Kayıtlı email'e davet engellensin mi? (varsayılan: true)
	RecordInvites      bool    // Kabul edilen davetler saklansın mı?
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyasını yükle — dosya yoksa hata vermez, sessizce devam eder.
	// Production'da bu dosya olmaz, gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	accessExpiry, err := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRY_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %w", err)
	}

	refreshExpiry, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRY_DAYS: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	// APP_SECRET davet anahtarı türetiminde kullanılır. JWT_SECRET'tan
	// ayrı tutulur — anahtar rotasyonları birbirini etkilememeli.
	appSecret := getEnv("APP_SECRET", "")
	if appSecret == "" {
		return nil, fmt.Errorf("APP_SECRET environment variable is required")
	}

	expireDays, err := strconv.Atoi(getEnv("INVITATION_EXPIRE_DAYS", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid INVITATION_EXPIRE_DAYS: %w", err)
	}

	initial, err := strconv.Atoi(getEnv("INVITATION_INITIAL", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid INVITATION_INITIAL: %w", err)
	}
	if initial < 0 {
		return nil, fmt.Errorf("INVITATION_INITIAL cannot be negative")
	}

	rewardCount, err := strconv.Atoi(getEnv("INVITATION_REWARD_COUNT", strconv.Itoa(initial)))
	if err != nil {
		return nil, fmt.Errorf("invalid INVITATION_REWARD_COUNT: %w", err)
	}

	threshold, err := strconv.ParseFloat(getEnv("INVITATION_REWARD_THRESHOLD", "0.75"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid INVITATION_REWARD_THRESHOLD: %w", err)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("INVITATION_REWARD_THRESHOLD must be between 0 and 1")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/davet.db"),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("EMAIL_FROM", ""),
			AppURL:       getEnv("APP_URL", "http://localhost:3000"),
			SiteName:     getEnv("SITE_NAME", "davet"),
		},
		Invitation: InvitationConfig{
			Secret:             appSecret,
			InviteOnly:         getEnvBool("INVITE_ONLY", false),
			ExpireDays:         expireDays,
			InitialInvitations: initial,
			RepopulateAccepted: getEnvBool("INVITATION_REPOPULATE_ACCEPTED", false),
			AutoLogin:          getEnvBool("INVITATION_AUTO_LOGIN", false),
			RewardThreshold:    threshold,
			RewardCount:        rewardCount,
			PerformanceFunc:    getEnv("INVITATION_PERFORMANCE_FUNC", ""),
			UniqueEmail:        getEnvBool("INVITATION_UNIQUE_EMAIL", true),
			RecordInvites:      getEnvBool("INVITATION_RECORD_INVITES", false),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// getEnvBool, boolean environment variable okur.
// "1", "t", "true" gibi değerler strconv.ParseBool kurallarına göre çözülür;
// parse edilemeyen değerlerde fallback kullanılır.
func getEnvBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}
