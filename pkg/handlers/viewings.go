package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/middleware"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/workflow"
)

// ViewingHandler exposes the viewing tracker to both sides of the
// marketplace.
type ViewingHandler struct {
	tracker *workflow.ViewingTracker
}

func NewViewingHandler(tracker *workflow.ViewingTracker) *ViewingHandler {
	return &ViewingHandler{tracker: tracker}
}

type requestViewingRequest struct {
	ConversationID *string `json:"conversation_id,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

func (h *ViewingHandler) Request(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req requestViewingRequest
	if r.ContentLength > 0 {
		if err := utils.ParseJSONBody(r, &req); err != nil {
			utils.WriteBadRequestResponse(w, "Invalid request body")
			return
		}
	}
	viewing, err := h.tracker.Request(r.Context(), user.ID, chi.URLParam(r, "propertyID"), req.ConversationID, req.Notes)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, viewing)
}

func (h *ViewingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	viewing, err := h.tracker.Complete(r.Context(), user.ID, chi.URLParam(r, "viewingID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, viewing)
}

func (h *ViewingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	viewing, err := h.tracker.Confirm(r.Context(), user.ID, chi.URLParam(r, "viewingID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, viewing)
}

func (h *ViewingHandler) SendApplicationAccess(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	viewing, err := h.tracker.SendApplicationAccess(r.Context(), user.ID, chi.URLParam(r, "viewingID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, viewing)
}

func (h *ViewingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if err := h.tracker.Cancel(r.Context(), user.ID, chi.URLParam(r, "viewingID")); err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"status": "cancelled"})
}

// List returns the caller's viewings, keyed off their role.
func (h *ViewingHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var (
		viewings interface{}
		listErr  error
	)
	if user.IsLandlord() {
		viewings, listErr = h.tracker.ListForLandlord(r.Context(), user.ID)
	} else {
		viewings, listErr = h.tracker.ListForTenant(r.Context(), user.ID)
	}
	if listErr != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list viewings")
		return
	}
	utils.WriteSuccessResponse(w, viewings)
}
