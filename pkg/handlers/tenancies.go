package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/middleware"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/workflow"
)

// TenancyHandler exposes the lease orchestrator.
type TenancyHandler struct {
	orchestrator *workflow.LeaseOrchestrator
}

func NewTenancyHandler(orchestrator *workflow.LeaseOrchestrator) *TenancyHandler {
	return &TenancyHandler{orchestrator: orchestrator}
}

type startLeaseRequest struct {
	TenantID        string               `json:"tenant_id"`
	PropertyID      string               `json:"property_id"`
	MonthlyRent     int64                `json:"monthly_rent"`     // cents
	SecurityDeposit int64                `json:"security_deposit"` // cents
	StartDate       time.Time            `json:"start_date"`
	EndDate         *time.Time           `json:"end_date,omitempty"`
	CustomClauses   []models.LeaseClause `json:"custom_clauses,omitempty"`
}

func (h *TenancyHandler) Start(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req startLeaseRequest
	if err := utils.ParseJSONBody(r, &req); err != nil || req.TenantID == "" || req.PropertyID == "" {
		utils.WriteBadRequestResponse(w, "tenant_id and property_id are required")
		return
	}
	tenancy, err := h.orchestrator.StartLease(r.Context(), user.ID, req.TenantID, req.PropertyID, workflow.LeaseTerms{
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		CustomClauses:   req.CustomClauses,
	})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, tenancy)
}

func (h *TenancyHandler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	tenancy, err := h.orchestrator.GenerateDocument(r.Context(), user.ID, chi.URLParam(r, "tenancyID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, tenancy)
}

func (h *TenancyHandler) TenantSign(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	tenancy, err := h.orchestrator.TenantSign(r.Context(), user.ID, chi.URLParam(r, "tenancyID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, tenancy)
}

func (h *TenancyHandler) LandlordSign(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	tenancy, err := h.orchestrator.LandlordSign(r.Context(), user.ID, chi.URLParam(r, "tenancyID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, tenancy)
}

// DocumentURL returns a short-lived download link for the lease
// document.
func (h *TenancyHandler) DocumentURL(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	url, err := h.orchestrator.DocumentURL(r.Context(), user.ID, chi.URLParam(r, "tenancyID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]string{"url": url})
}

func (h *TenancyHandler) RequestInitialPayment(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	record, err := h.orchestrator.RequestInitialPayment(r.Context(), user.ID, chi.URLParam(r, "tenancyID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, record)
}

func (h *TenancyHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	tenancy, err := h.orchestrator.Get(r.Context(), user.ID, chi.URLParam(r, "tenancyID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, tenancy)
}

// List returns the caller's tenancies, keyed off their role.
func (h *TenancyHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var (
		tenancies interface{}
		listErr   error
	)
	if user.IsLandlord() {
		tenancies, listErr = h.orchestrator.ListForLandlord(r.Context(), user.ID)
	} else {
		tenancies, listErr = h.orchestrator.ListForTenant(r.Context(), user.ID)
	}
	if listErr != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list tenancies")
		return
	}
	utils.WriteSuccessResponse(w, tenancies)
}
