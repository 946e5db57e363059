package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/middleware"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/workflow"
)

// ApplicationHandler exposes the application gate.
type ApplicationHandler struct {
	gate *workflow.ApplicationGate
}

func NewApplicationHandler(gate *workflow.ApplicationGate) *ApplicationHandler {
	return &ApplicationHandler{gate: gate}
}

type submitApplicationRequest struct {
	Employer       string `json:"employer"`
	AnnualIncome   int64  `json:"annual_income"` // cents
	ReferenceName  string `json:"reference_name"`
	ReferenceEmail string `json:"reference_email"`
	InviteID       string `json:"invite_id,omitempty"`
}

type decideApplicationRequest struct {
	Status models.ApplicationStatus `json:"status"`
}

// CanApply reports whether the caller may apply for the property.
func (h *ApplicationHandler) CanApply(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	allowed, err := h.gate.CanApply(r.Context(), user.ID, chi.URLParam(r, "propertyID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, map[string]bool{"can_apply": allowed})
}

// Submit runs the application submission pipeline.
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req submitApplicationRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	app, err := h.gate.Submit(r.Context(), user.ID, chi.URLParam(r, "propertyID"), workflow.SubmitInput{
		Employer:       req.Employer,
		AnnualIncome:   req.AnnualIncome,
		ReferenceName:  req.ReferenceName,
		ReferenceEmail: req.ReferenceEmail,
		InviteID:       req.InviteID,
	})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteCreatedResponse(w, app)
}

// Decide records the landlord's accept/decline verdict.
func (h *ApplicationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req decideApplicationRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	app, err := h.gate.Decide(r.Context(), user.ID, chi.URLParam(r, "applicationID"), req.Status)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, app)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	app, err := h.gate.Get(r.Context(), user.ID, chi.URLParam(r, "applicationID"))
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	utils.WriteSuccessResponse(w, app)
}

// List returns the caller's applications, keyed off their role.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var (
		apps    interface{}
		listErr error
	)
	if user.IsLandlord() {
		apps, listErr = h.gate.ListForLandlord(r.Context(), user.ID)
	} else {
		apps, listErr = h.gate.ListForTenant(r.Context(), user.ID)
	}
	if listErr != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list applications")
		return
	}
	utils.WriteSuccessResponse(w, apps)
}

// Screening returns the caller's stored screening profile.
func (h *ApplicationHandler) Screening(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	profile, err := h.gate.Screening(r.Context(), user.ID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to load screening profile")
		return
	}
	utils.WriteSuccessResponse(w, profile)
}
