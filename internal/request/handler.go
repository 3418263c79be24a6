package request

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
	CreateRequest(caller *internal.Caller, dto CreateRequestDTO) (*View, error)
	ListRequests(caller *internal.Caller, explicitCompanyID *int64, filter ListFilter) ([]*View, error)
	GetRequest(caller *internal.Caller, id int64) (*View, error)
	UpdateRequest(caller *internal.Caller, id int64, dto UpdateRequestDTO) (*View, error)
	DeleteRequest(caller *internal.Caller, id int64) error
	ClaimRequest(caller *internal.Caller, id int64) (*View, error)
	DashboardStats(caller *internal.Caller) (interface{}, error)
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

// CreateRequest handles POST /api/v1/requests
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.CreateRequest(caller, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, view)
}

// ListRequests handles GET /api/v1/requests
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	q := r.URL.Query()
	filter := ListFilter{
		Status:      Status(q.Get("status")),
		RequestType: RequestType(q.Get("type")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		h.WriteError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if filter.RequestType != "" && !filter.RequestType.Valid() {
		h.WriteError(w, http.StatusBadRequest, "invalid type")
		return
	}
	for param, dst := range map[string]**int64{
		"equipmentId":       &filter.EquipmentID,
		"assignedTo":        &filter.AssignedTo,
		"maintenanceTeamId": &filter.MaintenanceTeamID,
	} {
		if v := q.Get(param); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				h.WriteError(w, http.StatusBadRequest, "invalid "+param)
				return
			}
			*dst = &id
		}
	}

	var explicitCompanyID *int64
	if v := q.Get("companyId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid companyId")
			return
		}
		explicitCompanyID = &id
	}

	views, err := h.service.ListRequests(caller, explicitCompanyID, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, views)
}

// GetRequest handles GET /api/v1/requests/{id}
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	view, err := h.service.GetRequest(caller, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, view)
}

// UpdateRequest handles PUT /api/v1/requests/{id}
func (h *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var dto UpdateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.service.UpdateRequest(caller, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, view)
}

// DeleteRequest handles DELETE /api/v1/requests/{id}
func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	if err := h.service.DeleteRequest(caller, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "request deleted")
}

// ClaimRequest handles POST /api/v1/requests/{id}/claim
func (h *Handler) ClaimRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	view, err := h.service.ClaimRequest(caller, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, view)
}

// DashboardStats handles GET /api/v1/requests/dashboard-stats
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.service.DashboardStats(caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, stats)
}
