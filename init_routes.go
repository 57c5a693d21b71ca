// Package main — HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ları burada tanımlıdır:
//   - auth: JWT token doğrulaması
//   - authAdmin: auth + platform admin yetkisi
package main

import (
	"fmt"
	"net/http"

	"github.com/akinalp/davet/middleware"
	"github.com/akinalp/davet/repository"
	"github.com/akinalp/davet/services"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: Literal path'ler parametrik path'lerden ÖNCE
// tanımlanmalı. Örnek: "/api/invitations/stats" → "/api/invitations/{id}"
// öncesinde gelmeli — yoksa Go router "stats" kelimesini bir id olarak
// yorumlar. (Şu an parametrik davet route'u yok ama kural baki.)
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	authService services.AuthService,
	userRepo repository.UserRepository,
) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(authService, userRepo)
	adminMw := middleware.NewAdminMiddleware()

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(http.HandlerFunc(handler))
	}
	authAdmin := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(adminMw.Require(http.HandlerFunc(handler)))
	}

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"davet"}`)
	})

	// Auth — public endpoint'ler (token gerekmez)
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)

	// Davetli kayıt — public (anahtar zaten capability token'dır)
	mux.HandleFunc("GET /api/register/{key}", h.Auth.Preview)
	mux.HandleFunc("POST /api/register/{key}", h.Auth.RegisterWithInvitation)

	// User
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))

	// Invitations — literal "stats" parametrik route'lardan önce
	mux.Handle("GET /api/invitations/stats", auth(h.Invitation.Stats))
	mux.Handle("GET /api/invitations", auth(h.Invitation.List))
	mux.Handle("POST /api/invitations", auth(h.Invitation.Create))

	// Platform Admin — ödül motoru ve bakım
	mux.Handle("POST /api/admin/reward", authAdmin(h.Admin.Reward))
	mux.Handle("POST /api/admin/invitations/grant", authAdmin(h.Admin.Grant))
	mux.Handle("DELETE /api/admin/invitations/expired", authAdmin(h.Admin.PurgeExpired))
	mux.Handle("GET /api/admin/stats", authAdmin(h.Admin.ListStats))
	mux.Handle("DELETE /api/admin/users/{id}", authAdmin(h.Admin.DeleteUser))
}
