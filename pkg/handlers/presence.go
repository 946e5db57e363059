package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/middleware"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/workflow"
)

// PresenceHandler exposes heartbeat recording and derived online
// status.
type PresenceHandler struct {
	presence *workflow.Presence
}

func NewPresenceHandler(presence *workflow.Presence) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

func (h *PresenceHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if err := h.presence.Heartbeat(r.Context(), user.ID); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to record heartbeat")
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"status": "ok"})
}

type presenceStatusResponse struct {
	UserID   string     `json:"user_id"`
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

func (h *PresenceHandler) Status(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	userID := chi.URLParam(r, "userID")
	online, lastSeen, err := h.presence.Status(r.Context(), userID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to load presence")
		return
	}
	utils.WriteSuccessResponse(w, presenceStatusResponse{
		UserID:   userID,
		Online:   online,
		LastSeen: lastSeen,
	})
}
