// Package handlers — InvitationHandler: davet HTTP endpoint'leri.
//
// Route'lar (hepsi auth gerektirir):
//
//	POST /api/invitations        → Create (davet oluştur + email gönder)
//	GET  /api/invitations        → List (kendi davetlerim)
//	GET  /api/invitations/stats  → Stats (kendi sayaçlarım + performans)
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
	"github.com/akinalp/davet/services"
)

// InvitationHandler, davet endpoint'lerini yöneten struct.
type InvitationHandler struct {
	invitationService services.InvitationService
	statsService      services.StatsService
}

// createInvitationResponse, Create yanıtı. Email gönderimi davetin
// oluşmasından ayrı adımdır; gönderim hatası daveti geri almaz, istemciye
// uyarı alanı olarak taşınır.
type createInvitationResponse struct {
	*models.Invitation
	DeliveryWarning string `json:"delivery_warning,omitempty"`
}

// NewInvitationHandler, constructor.
func NewInvitationHandler(invitationService services.InvitationService, statsService services.StatsService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		statsService:      statsService,
	}
}

// Create godoc
// POST /api/invitations
// Body: { "email": "friend@example.com" }
//
// Davet oluşturulur ve email gönderilir. Kota yetersizliği (403) ve
// kayıtlı adrese davet (409) kullanıcıya gösterilecek iş kuralı hatalarıdır.
// Email gönderim hatası daveti geri almaz — yanıt yine 201 döner,
// delivery_warning alanı doldurulur.
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	inv, err := h.invitationService.Invite(r.Context(), user, req.Email)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	// Davet oluştu ve kota harcandı — email gönderimi ayrı adımdır.
	// Gönderim hatası 201'i bozmaz; istemci davetin var olduğunu bilmeli.
	resp := createInvitationResponse{Invitation: inv}
	if err := h.invitationService.SendNotification(r.Context(), inv, user); err != nil {
		log.Printf("[invitation] email delivery failed for %s: %v", inv.Email, err)
		resp.DeliveryWarning = "invitation created but the email could not be delivered"
	}

	pkg.JSON(w, http.StatusCreated, resp)
}

// List godoc
// GET /api/invitations?filter=valid|expired
// filter verilmezse tüm davetler döner.
func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	invitations, err := h.invitationService.ListBySender(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	switch filter := r.URL.Query().Get("filter"); filter {
	case "":
		// filtre yok
	case "valid", "expired":
		wantValid := filter == "valid"
		filtered := make([]models.Invitation, 0, len(invitations))
		for i := range invitations {
			if h.invitationService.IsValid(&invitations[i]) == wantValid {
				filtered = append(filtered, invitations[i])
			}
		}
		invitations = filtered
	default:
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "filter must be one of: valid, expired")
		return
	}

	pkg.JSON(w, http.StatusOK, invitations)
}

// Stats godoc
// GET /api/invitations/stats
func (h *InvitationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	stats, err := h.statsService.Get(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}
