package equipment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/transport"
	"github.com/gearkeep/maintenance-management/pkg/logger"
)

type ServiceAPI interface {
	CreateEquipment(caller *internal.Caller, dto CreateEquipmentDTO) (*Equipment, error)
	ListEquipment(caller *internal.Caller, explicitCompanyID *int64, filter ListFilter) ([]*Equipment, error)
	GetEquipment(caller *internal.Caller, id int64) (*Detail, error)
	UpdateEquipment(caller *internal.Caller, id int64, dto UpdateEquipmentDTO) (*Equipment, error)
	DeleteEquipment(caller *internal.Caller, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		service:     service,
	}
}

// CreateEquipment handles POST /api/v1/equipment
func (h *Handler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto CreateEquipmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.service.CreateEquipment(caller, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, e)
}

// ListEquipment handles GET /api/v1/equipment
func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	filter := ListFilter{
		Department: r.URL.Query().Get("department"),
		Status:     Status(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("assignedTo"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid assignedTo")
			return
		}
		filter.AssignedTo = &id
	}

	var explicitCompanyID *int64
	if v := r.URL.Query().Get("companyId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid companyId")
			return
		}
		explicitCompanyID = &id
	}

	items, err := h.service.ListEquipment(caller, explicitCompanyID, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, items)
}

// GetEquipment handles GET /api/v1/equipment/{id}
func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	detail, err := h.service.GetEquipment(caller, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, detail)
}

// UpdateEquipment handles PUT /api/v1/equipment/{id}
func (h *Handler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	var dto UpdateEquipmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.service.UpdateEquipment(caller, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, e)
}

// DeleteEquipment handles DELETE /api/v1/equipment/{id}
func (h *Handler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid equipment id")
		return
	}

	if err := h.service.DeleteEquipment(caller, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "equipment deleted")
}
