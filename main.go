// Package main, davet backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (embedded migration'lar ile)
//  3. Event bus'ı oluştur ve dinleyicileri bağla
//  4. Repository'leri oluştur (DB bağlantısı ile)
//  5. Service'leri oluştur (repository'ler + bus ile)
//  6. Handler'ları oluştur (service'ler ile)
//  7. HTTP router'ı kur, route'ları bağla
//  8. CORS yapılandır
//  9. HTTP Server'ı başlat
// 10. Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/akinalp/davet/config"
	"github.com/akinalp/davet/database"
	"github.com/akinalp/davet/events"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] davet server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d, invite_only=%t, record_invites=%t)",
		cfg.Server.Port, cfg.Invitation.InviteOnly, cfg.Invitation.RecordInvites)

	// ─── 2. Database ───
	// Migration'lar binary'ye gömülüdür — deployment'ta ayrı dosya taşınmaz.
	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to access embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrationsFS)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Event Bus ───
	bus := events.NewBus()
	registerBusCallbacks(bus)

	// ─── 4. Repository Layer ───
	repos := initRepositories(db.Conn, cfg.Invitation.RecordInvites)

	// ─── 5. Service Layer ───
	svcs, err := initServices(repos, bus, cfg)
	if err != nil {
		// Yanlış konfigürasyon (ör. bilinmeyen performans fonksiyonu adı)
		// çalışma zamanına taşınmaz — hiç başlamamak daha iyidir.
		log.Fatalf("[main] failed to initialize services: %v", err)
	}

	// ─── 6. Handler Layer ───
	h := initHandlers(svcs, repos)

	// ─── 7. HTTP Router ───
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Auth, repos.User)

	// ─── 8. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	handler := corsHandler.Handler(mux)

	// ─── 9. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 10. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
