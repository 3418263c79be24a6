package equipment

import (
	"log/slog"

	"github.com/gearkeep/maintenance-management/internal"
)

type Repository interface {
	Create(e *Equipment) error
	GetByID(id int64, scope internal.Scope) (*Equipment, error)
	List(scope internal.Scope, filter ListFilter) ([]*Equipment, error)
	Update(e *Equipment) error
	Delete(id int64, scope internal.Scope) error
}

// OpenRequestCounter counts non-terminal requests against a piece of
// equipment; implemented by the request repository.
type OpenRequestCounter interface {
	CountOpenByEquipment(equipmentID int64) (int64, error)
}

type Service struct {
	repo        Repository
	openCounter OpenRequestCounter
	logger      *slog.Logger
}

func NewService(repo Repository, openCounter OpenRequestCounter, logger *slog.Logger) *Service {
	return &Service{repo: repo, openCounter: openCounter, logger: logger}
}

func (s *Service) CreateEquipment(caller *internal.Caller, dto CreateEquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if caller.CompanyID == nil {
		return nil, internal.ErrCompanyRequired
	}

	e := &Equipment{
		CompanyID:         *caller.CompanyID,
		Name:              dto.Name,
		SerialNumber:      dto.SerialNumber,
		Location:          dto.Location,
		Department:        dto.Department,
		AssignedTo:        dto.AssignedTo,
		MaintenanceTeamID: dto.MaintenanceTeamID,
		Status:            StatusActive,
		CreatedBy:         caller.ID,
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create equipment", "error", err, "caller_id", caller.ID)
		return nil, internal.NewInternalError("failed to create equipment", err)
	}

	s.logger.Info("equipment created", "equipment_id", e.ID, "company_id", e.CompanyID)
	return e, nil
}

func (s *Service) ListEquipment(caller *internal.Caller, explicitCompanyID *int64, filter ListFilter) ([]*Equipment, error) {
	scope, err := internal.ScopeFor(caller, explicitCompanyID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.List(scope, filter)
	if err != nil {
		s.logger.Error("failed to list equipment", "error", err, "caller_id", caller.ID)
		return nil, internal.NewInternalError("failed to list equipment", err)
	}
	return items, nil
}

// GetEquipment returns a single item with its open request count.
func (s *Service) GetEquipment(caller *internal.Caller, id int64) (*Detail, error) {
	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, internal.ErrEquipmentNotFound
	}

	openCount, err := s.openCounter.CountOpenByEquipment(e.ID)
	if err != nil {
		s.logger.Warn("failed to count open requests", "error", err, "equipment_id", e.ID)
		openCount = 0
	}

	return &Detail{Equipment: *e, OpenRequestCount: openCount}, nil
}

func (s *Service) UpdateEquipment(caller *internal.Caller, id int64, dto UpdateEquipmentDTO) (*Equipment, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, internal.ErrEquipmentNotFound
	}

	if dto.Name != nil {
		e.Name = *dto.Name
	}
	if dto.SerialNumber != nil {
		e.SerialNumber = *dto.SerialNumber
	}
	if dto.Location != nil {
		e.Location = *dto.Location
	}
	if dto.Department != nil {
		e.Department = *dto.Department
	}
	if dto.AssignedTo != nil {
		e.AssignedTo = dto.AssignedTo
	}
	if dto.MaintenanceTeamID != nil {
		e.MaintenanceTeamID = dto.MaintenanceTeamID
	}
	if dto.Status != nil {
		e.Status = *dto.Status
	}

	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to update equipment", "error", err, "equipment_id", id)
		return nil, internal.NewInternalError("failed to update equipment", err)
	}

	s.logger.Info("equipment updated", "equipment_id", id, "caller_id", caller.ID)
	return e, nil
}

func (s *Service) DeleteEquipment(caller *internal.Caller, id int64) error {
	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return err
	}

	if _, err := s.repo.GetByID(id, scope); err != nil {
		return internal.ErrEquipmentNotFound
	}

	if err := s.repo.Delete(id, scope); err != nil {
		s.logger.Error("failed to delete equipment", "error", err, "equipment_id", id)
		return internal.NewInternalError("failed to delete equipment", err)
	}

	s.logger.Info("equipment deleted", "equipment_id", id, "caller_id", caller.ID)
	return nil
}
