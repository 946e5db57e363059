package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/middleware"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/workflow"
)

// SlotHandler exposes the slot ledger: publish, list, book, cancel,
// reschedule.
type SlotHandler struct {
	ledger *workflow.SlotLedger
}

func NewSlotHandler(ledger *workflow.SlotLedger) *SlotHandler {
	return &SlotHandler{ledger: ledger}
}

type createSlotRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type rescheduleRequest struct {
	OldSlotID string `json:"old_slot_id"`
	NewSlotID string `json:"new_slot_id"`
}

func (h *SlotHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req createSlotRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	slot, err := h.ledger.CreateSlot(r.Context(), user.ID, chi.URLParam(r, "propertyID"), req.StartTime, req.EndTime)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, slot)
}

func (h *SlotHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	slots, err := h.ledger.ListAvailable(r.Context(), chi.URLParam(r, "propertyID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, slots)
}

func (h *SlotHandler) Book(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	viewing, err := h.ledger.Book(r.Context(), user.ID, chi.URLParam(r, "slotID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, viewing)
}

func (h *SlotHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	if err := h.ledger.Cancel(r.Context(), user.ID, chi.URLParam(r, "propertyID")); err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"status": "cancelled"})
}

func (h *SlotHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req rescheduleRequest
	if err := utils.ParseJSONBody(r, &req); err != nil || req.OldSlotID == "" || req.NewSlotID == "" {
		utils.WriteBadRequestResponse(w, "old_slot_id and new_slot_id are required")
		return
	}
	viewing, err := h.ledger.Reschedule(r.Context(), user.ID, req.OldSlotID, req.NewSlotID)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, viewing)
}
