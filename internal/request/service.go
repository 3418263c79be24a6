package request

import (
	"log/slog"
	"sort"

	"github.com/gearkeep/maintenance-management/internal"
)

type Repository interface {
	Create(req *Request) error
	GetByID(id int64, scope internal.Scope) (*Request, error)
	List(scope internal.Scope, filter ListFilter) ([]*Request, error)
	Update(req *Request) error
	Delete(id int64, scope internal.Scope) error
}

// EquipmentStore is the slice of the equipment table this package needs:
// existence checks on create and the scrap cascade.
type EquipmentStore interface {
	GetRef(id int64, scope internal.Scope) (*EquipmentRef, error)
	MarkScrapped(id int64) error
}

// Directory resolves the user and team summaries embedded in responses.
type Directory interface {
	UserRefs(ids []int64) (map[int64]UserRef, error)
	TeamRefs(ids []int64) (map[int64]TeamRef, error)
	EquipmentRefs(ids []int64) (map[int64]EquipmentRef, error)
}

type Service struct {
	repo      Repository
	equipment EquipmentStore
	directory Directory
	logger    *slog.Logger
}

func NewService(repo Repository, equipment EquipmentStore, directory Directory, logger *slog.Logger) *Service {
	return &Service{repo: repo, equipment: equipment, directory: directory, logger: logger}
}

// CreateRequest opens a request. Company and requester always come from the
// caller, never from the payload, and every request starts NEW and
// unassigned.
func (s *Service) CreateRequest(caller *internal.Caller, dto CreateRequestDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if caller.CompanyID == nil {
		return nil, internal.ErrCompanyRequired
	}
	scope := internal.Scope{CompanyID: caller.CompanyID}

	eq, err := s.equipment.GetRef(dto.EquipmentID, scope)
	if err != nil {
		return nil, internal.ErrEquipmentNotFound
	}

	priority := dto.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	req := &Request{
		CompanyID:         *caller.CompanyID,
		RequestedBy:       caller.ID,
		EquipmentID:       eq.ID,
		MaintenanceTeamID: dto.MaintenanceTeamID,
		RequestType:       dto.RequestType,
		Subject:           dto.Subject,
		Description:       dto.Description,
		Priority:          priority,
		ScheduledDate:     dto.ScheduledDate,
		Status:            StatusNew,
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create request", "error", err, "caller_id", caller.ID)
		return nil, internal.NewInternalError("failed to create request", err)
	}

	s.logger.Info("request created", "request_id", req.ID, "equipment_id", req.EquipmentID, "company_id", req.CompanyID)
	return s.populateOne(req)
}

func (s *Service) ListRequests(caller *internal.Caller, explicitCompanyID *int64, filter ListFilter) ([]*View, error) {
	scope, err := internal.ScopeFor(caller, explicitCompanyID)
	if err != nil {
		return nil, err
	}

	requests, err := s.repo.List(scope, filter)
	if err != nil {
		s.logger.Error("failed to list requests", "error", err, "caller_id", caller.ID)
		return nil, internal.NewInternalError("failed to list requests", err)
	}

	return s.populate(requests)
}

func (s *Service) GetRequest(caller *internal.Caller, id int64) (*View, error) {
	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, internal.ErrRequestNotFound
	}

	return s.populateOne(req)
}

// UpdateRequest merges a partial payload into the request and carries out
// the transition side effects: moving to SCRAP scraps the equipment, moving
// to IN_PROGRESS without an assignee claims the request for the caller.
func (s *Service) UpdateRequest(caller *internal.Caller, id int64, dto UpdateRequestDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, internal.ErrRequestNotFound
	}

	plan, err := PlanTransition(req, dto.Status, dto.AssignedTo, caller.ID)
	if err != nil {
		return nil, err
	}

	if dto.Subject != nil {
		req.Subject = *dto.Subject
	}
	if dto.Description != nil {
		req.Description = *dto.Description
	}
	if dto.RequestType != nil {
		req.RequestType = *dto.RequestType
	}
	if dto.Priority != nil {
		req.Priority = *dto.Priority
	}
	if dto.Status != nil {
		req.Status = *dto.Status
	}
	if dto.AssignedTo != nil {
		req.AssignedTo = dto.AssignedTo
	}
	if plan.AssignTo != nil {
		req.AssignedTo = plan.AssignTo
	}
	if dto.MaintenanceTeamID != nil {
		req.MaintenanceTeamID = dto.MaintenanceTeamID
	}
	if dto.ScheduledDate != nil {
		req.ScheduledDate = dto.ScheduledDate
	}
	if dto.DurationHours != nil {
		req.DurationHours = *dto.DurationHours
	}
	if dto.Resolution != nil {
		req.Resolution = *dto.Resolution
	}

	if err := s.repo.Update(req); err != nil {
		s.logger.Error("failed to update request", "error", err, "request_id", id)
		return nil, internal.NewInternalError("failed to update request", err)
	}

	if plan.ScrapEquipment {
		if err := s.scrapEquipment(req, scope); err != nil {
			return nil, err
		}
	}

	s.logger.Info("request updated", "request_id", id, "status", req.Status, "caller_id", caller.ID)
	return s.populateOne(req)
}

// scrapEquipment cascades a SCRAP transition onto the equipment row. A
// missing equipment row is tolerated; a dangling reference should not block
// closing the request.
func (s *Service) scrapEquipment(req *Request, scope internal.Scope) error {
	eq, err := s.equipment.GetRef(req.EquipmentID, scope)
	if err != nil {
		s.logger.Warn("scrapped request references missing equipment", "request_id", req.ID, "equipment_id", req.EquipmentID)
		return nil
	}
	if eq.Status == "SCRAPPED" {
		return nil
	}
	if err := s.equipment.MarkScrapped(eq.ID); err != nil {
		s.logger.Error("failed to scrap equipment", "error", err, "equipment_id", eq.ID)
		return internal.NewInternalError("failed to scrap equipment", err)
	}
	s.logger.Info("equipment scrapped", "equipment_id", eq.ID, "request_id", req.ID)
	return nil
}

// DeleteRequest removes a request. Admins can always delete; the requester
// may delete their own request while it is still NEW.
func (s *Service) DeleteRequest(caller *internal.Caller, id int64) error {
	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return err
	}

	req, err := s.repo.GetByID(id, scope)
	if err != nil {
		return internal.ErrRequestNotFound
	}

	isAdmin := caller.IsPlatformAdmin() || caller.IsCompanyAdmin()
	if !isAdmin && !(req.RequestedBy == caller.ID && req.Status == StatusNew) {
		return internal.ErrForbidden
	}

	if err := s.repo.Delete(id, scope); err != nil {
		s.logger.Error("failed to delete request", "error", err, "request_id", id)
		return internal.NewInternalError("failed to delete request", err)
	}

	s.logger.Info("request deleted", "request_id", id, "caller_id", caller.ID)
	return nil
}

// ClaimRequest assigns an unassigned request to the calling maintenance-team
// member and moves it to IN_PROGRESS.
func (s *Service) ClaimRequest(caller *internal.Caller, id int64) (*View, error) {
	if !caller.IsMaintenanceTeam() {
		return nil, internal.ErrForbidden
	}

	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, internal.ErrRequestNotFound
	}

	if req.Status.IsTerminal() {
		return nil, internal.ErrRequestTerminal
	}
	if req.AssignedTo != nil {
		return nil, internal.ErrAlreadyClaimed
	}

	callerID := caller.ID
	req.AssignedTo = &callerID
	if req.Status == StatusNew {
		req.Status = StatusInProgress
	}

	if err := s.repo.Update(req); err != nil {
		s.logger.Error("failed to claim request", "error", err, "request_id", id)
		return nil, internal.NewInternalError("failed to claim request", err)
	}

	s.logger.Info("request claimed", "request_id", id, "caller_id", caller.ID)
	return s.populateOne(req)
}

// DashboardStats computes the role-shaped aggregates on demand; nothing is
// cached.
func (s *Service) DashboardStats(caller *internal.Caller) (interface{}, error) {
	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return nil, err
	}

	if caller.IsMaintenanceTeam() {
		return s.teamStats(caller, scope)
	}
	return s.requesterStats(caller, scope)
}

func (s *Service) teamStats(caller *internal.Caller, scope internal.Scope) (*TeamStats, error) {
	callerID := caller.ID
	mine, err := s.repo.List(scope, ListFilter{AssignedTo: &callerID})
	if err != nil {
		return nil, internal.NewInternalError("failed to load dashboard stats", err)
	}

	stats := &TeamStats{ActiveTasks: []*View{}}
	var active []*Request
	for _, req := range mine {
		switch {
		case req.Status == StatusRepaired:
			stats.CompletedByMe++
		case !req.Status.IsTerminal():
			stats.AssignedToMe++
			active = append(active, req)
		}
	}

	// The claimable backlog counts toward the worklist too: a task is active
	// when it is mine, or on my team with nobody assigned yet.
	if caller.MaintenanceTeamID != nil {
		team, err := s.repo.List(scope, ListFilter{MaintenanceTeamID: caller.MaintenanceTeamID})
		if err != nil {
			return nil, internal.NewInternalError("failed to load dashboard stats", err)
		}
		for _, req := range team {
			if req.AssignedTo == nil && !req.Status.IsTerminal() {
				stats.TeamUnassigned++
				active = append(active, req)
			}
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Priority.Rank() != active[j].Priority.Rank() {
			return active[i].Priority.Rank() > active[j].Priority.Rank()
		}
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	if len(active) > 5 {
		active = active[:5]
	}

	views, err := s.populate(active)
	if err != nil {
		return nil, err
	}
	stats.ActiveTasks = views
	return stats, nil
}

func (s *Service) requesterStats(caller *internal.Caller, scope internal.Scope) (*RequesterStats, error) {
	all, err := s.repo.List(scope, ListFilter{})
	if err != nil {
		return nil, internal.NewInternalError("failed to load dashboard stats", err)
	}

	stats := &RequesterStats{}
	for _, req := range all {
		if req.RequestedBy != caller.ID {
			continue
		}
		stats.MyRequests++
		if req.Status.IsTerminal() {
			stats.CompletedRequests++
		} else {
			stats.OpenRequests++
		}
	}
	return stats, nil
}

func (s *Service) populateOne(req *Request) (*View, error) {
	views, err := s.populate([]*Request{req})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// populate batches the reference lookups so list responses stay at a fixed
// number of queries regardless of length.
func (s *Service) populate(requests []*Request) ([]*View, error) {
	userIDs := make([]int64, 0, len(requests)*2)
	equipmentIDs := make([]int64, 0, len(requests))
	teamIDs := make([]int64, 0, len(requests))
	for _, req := range requests {
		userIDs = append(userIDs, req.RequestedBy)
		if req.AssignedTo != nil {
			userIDs = append(userIDs, *req.AssignedTo)
		}
		equipmentIDs = append(equipmentIDs, req.EquipmentID)
		if req.MaintenanceTeamID != nil {
			teamIDs = append(teamIDs, *req.MaintenanceTeamID)
		}
	}

	users, err := s.directory.UserRefs(userIDs)
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve users", err)
	}
	equipments, err := s.directory.EquipmentRefs(equipmentIDs)
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve equipment", err)
	}
	teams, err := s.directory.TeamRefs(teamIDs)
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve teams", err)
	}

	views := make([]*View, 0, len(requests))
	for _, req := range requests {
		v := &View{Request: *req}
		if ref, ok := users[req.RequestedBy]; ok {
			r := ref
			v.Requester = &r
		}
		if req.AssignedTo != nil {
			if ref, ok := users[*req.AssignedTo]; ok {
				r := ref
				v.Assignee = &r
			}
		}
		if ref, ok := equipments[req.EquipmentID]; ok {
			r := ref
			v.Equipment = &r
		}
		if req.MaintenanceTeamID != nil {
			if ref, ok := teams[*req.MaintenanceTeamID]; ok {
				r := ref
				v.Team = &r
			}
		}
		views = append(views, v)
	}
	return views, nil
}
