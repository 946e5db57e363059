package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/middleware"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/utils"
)

// PropertyHandler is the minimal listing surface the workflow hangs
// off: create, fetch, list own.
type PropertyHandler struct {
	store database.Store
}

func NewPropertyHandler(store database.Store) *PropertyHandler {
	return &PropertyHandler{store: store}
}

type createPropertyRequest struct {
	Title       string `json:"title"`
	Address     string `json:"address"`
	MonthlyRent int64  `json:"monthly_rent"` // cents
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	var req createPropertyRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Title == "" || req.Address == "" {
		utils.WriteBadRequestResponse(w, "Title and address are required")
		return
	}
	property := &models.Property{
		LandlordID:  user.ID,
		Title:       req.Title,
		Address:     req.Address,
		MonthlyRent: req.MonthlyRent,
	}
	if err := h.store.CreateProperty(property); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create property")
		return
	}
	utils.WriteCreatedResponse(w, property)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	property, err := h.store.GetProperty(chi.URLParam(r, "propertyID"))
	if err != nil {
		utils.WriteNotFoundResponse(w, "Property not found")
		return
	}
	utils.WriteSuccessResponse(w, property)
}

func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}
	properties, err := h.store.ListPropertiesByLandlord(user.ID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list properties")
		return
	}
	utils.WriteSuccessResponse(w, properties)
}
