// Package handlers — AdminHandler: yönetim ve bakım endpoint'leri.
//
// Route'lar (auth + admin gerektirir):
//
//	POST   /api/admin/reward              → Reward (performans eşiğini geçenlere hak)
//	POST   /api/admin/invitations/grant   → Grant (sabit miktarda hak ekle)
//	DELETE /api/admin/invitations/expired → PurgeExpired
//	GET    /api/admin/stats               → ListStats (tüm defterler + performans)
//	DELETE /api/admin/users/{id}          → DeleteUser
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akinalp/davet/pkg"
	"github.com/akinalp/davet/repository"
	"github.com/akinalp/davet/services"
)

// AdminHandler, admin endpoint'lerini yöneten struct.
type AdminHandler struct {
	rewardService     services.RewardService
	invitationService services.InvitationService
	statsService      services.StatsService
	userRepo          repository.UserRepository
}

// NewAdminHandler, constructor.
func NewAdminHandler(
	rewardService services.RewardService,
	invitationService services.InvitationService,
	statsService services.StatsService,
	userRepo repository.UserRepository,
) *AdminHandler {
	return &AdminHandler{
		rewardService:     rewardService,
		invitationService: invitationService,
		statsService:      statsService,
		userRepo:          userRepo,
	}
}

// rewardRequest, reward/grant body'si. user_ids boşsa tüm kullanıcılar kapsamdadır.
type rewardRequest struct {
	UserIDs []string `json:"user_ids,omitempty"`
	Count   int      `json:"count,omitempty"`
}

// Reward godoc
// POST /api/admin/reward
// Body: { "user_ids": ["..."], "count": 5 } — ikisi de opsiyonel.
func (h *AdminHandler) Reward(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.rewardService.Reward(r.Context(), req.UserIDs, req.Count)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

// Grant godoc
// POST /api/admin/invitations/grant
// Body: { "user_ids": ["..."], "count": 3 } — count zorunlu ve pozitif.
// Performans şartı aranmaz, kapsamdaki herkese sabit miktar eklenir.
func (h *AdminHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count <= 0 {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "count must be positive")
		return
	}

	result, err := h.rewardService.GiveInvitations(r.Context(), req.UserIDs, services.FixedAmount(req.Count))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

// PurgeExpired godoc
// DELETE /api/admin/invitations/expired
func (h *AdminHandler) PurgeExpired(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.invitationService.PurgeExpired(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// ListStats godoc
// GET /api/admin/stats
func (h *AdminHandler) ListStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.ListAll(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}

// DeleteUser godoc
// DELETE /api/admin/users/{id}
// Kayıt-tutma modunda kullanıcının davet geçmişi sentinel kullanıcıya
// devredilir; değilse davetleriyle birlikte silinir.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "user id is required")
		return
	}

	if err := h.userRepo.Delete(r.Context(), id); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
