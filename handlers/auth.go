// Package handlers — AuthHandler: kayıt ve oturum HTTP endpoint'leri.
//
// Route'lar:
//
//	GET  /api/register/{key}   → Preview (davet ön izlemesi, auth gerekmez)
//	POST /api/register/{key}   → RegisterWithInvitation
//	POST /api/auth/register    → Register (yalnızca invite-optional modda)
//	POST /api/auth/login       → Login
//	POST /api/auth/refresh     → Refresh
//	POST /api/auth/logout      → Logout
//	GET  /api/users/me         → Me (auth gerekir)
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
	"github.com/akinalp/davet/services"
)

// AuthHandler, kayıt/oturum endpoint'lerini yöneten struct.
type AuthHandler struct {
	authService       services.AuthService
	invitationService services.InvitationService
}

// NewAuthHandler, constructor.
func NewAuthHandler(authService services.AuthService, invitationService services.InvitationService) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		invitationService: invitationService,
	}
}

// Preview godoc
// GET /api/register/{key}
// Kayıt formunun göstereceği davet bilgisini döner. Geçersiz/süresi dolmuş
// anahtar 404 döner (ve kayıt-tutma modunda bayat kayıt silinmiş olur).
func (h *AuthHandler) Preview(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invitation key is required")
		return
	}

	preview, err := h.invitationService.Preview(r.Context(), key)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, preview)
}

// RegisterWithInvitation godoc
// POST /api/register/{key}
// Body: { "username": "...", "password": "...", "display_name": "..." }
func (h *AuthHandler) RegisterWithInvitation(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invitation key is required")
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.RegisterWithInvitation(r.Context(), key, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, result)
}

// Register godoc
// POST /api/auth/register
// Davetsiz kayıt — invite-only modda 403 döner.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, result)
}

// Login godoc
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

// refreshRequest, refresh/logout body'si.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh godoc
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	result, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

// Logout godoc
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me godoc
// GET /api/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}
