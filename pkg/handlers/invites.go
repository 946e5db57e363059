package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/middleware"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/workflow"
)

// InviteHandler exposes invitation issuing and redemption.
type InviteHandler struct {
	issuer *workflow.InvitationIssuer
}

func NewInviteHandler(issuer *workflow.InvitationIssuer) *InviteHandler {
	return &InviteHandler{issuer: issuer}
}

type createInviteRequest struct {
	TenantID       string  `json:"tenant_id"`
	ConversationID *string `json:"conversation_id,omitempty"`
}

func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req createInviteRequest
	if err := utils.ParseJSONBody(r, &req); err != nil || req.TenantID == "" {
		utils.WriteBadRequestResponse(w, "tenant_id is required")
		return
	}
	invite, err := h.issuer.Invite(r.Context(), user.ID, chi.URLParam(r, "propertyID"), req.TenantID, req.ConversationID)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, invite)
}

// Redeem resolves an invite token. This only reads: the invite stays
// live until an application submission consumes it.
func (h *InviteHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	invite, err := h.issuer.Redeem(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, invite)
}
