package category

import (
	"log/slog"

	"github.com/gearkeep/maintenance-management/internal"
)

type Repository interface {
	Create(c *Category) error
	GetByID(id int64, scope internal.Scope) (*Category, error)
	NameExists(companyID int64, name string) (bool, error)
	List(scope internal.Scope) ([]*Category, error)
	Update(c *Category) error
	Delete(id int64, scope internal.Scope) error
}

// MemberDirectory answers roster questions against the users table. The
// roster is derived entirely from users.maintenance_team_id.
type MemberDirectory interface {
	GetMember(id int64, scope internal.Scope) (*Member, error)
	ListMembers(teamID int64) ([]Member, error)
	CountMembers(teamID int64) (int64, error)
	SetTeam(userID int64, teamID *int64) error
	ClearTeam(teamID int64) error
}

type Service struct {
	repo    Repository
	members MemberDirectory
	logger  *slog.Logger
}

func NewService(repo Repository, members MemberDirectory, logger *slog.Logger) *Service {
	return &Service{repo: repo, members: members, logger: logger}
}

func (s *Service) CreateCategory(caller *internal.Caller, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if caller.CompanyID == nil {
		return nil, internal.ErrCompanyRequired
	}

	exists, err := s.repo.NameExists(*caller.CompanyID, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check category name", err)
	}
	if exists {
		return nil, internal.NewConflictError("a category with this name already exists", internal.ErrCodeDuplicateName)
	}

	c := &Category{
		CompanyID:    *caller.CompanyID,
		Name:         dto.Name,
		Description:  dto.Description,
		MaxEmployees: dto.MaxEmployees,
		IsActive:     true,
		CreatedBy:    caller.ID,
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create category", "error", err, "caller_id", caller.ID)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created", "category_id", c.ID, "company_id", c.CompanyID)
	return c, nil
}

func (s *Service) ListCategories(caller *internal.Caller, explicitCompanyID *int64) ([]*Detail, error) {
	scope, err := internal.ScopeFor(caller, explicitCompanyID)
	if err != nil {
		return nil, err
	}

	categories, err := s.repo.List(scope)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err, "caller_id", caller.ID)
		return nil, internal.NewInternalError("failed to list categories", err)
	}

	details := make([]*Detail, 0, len(categories))
	for _, c := range categories {
		count, err := s.members.CountMembers(c.ID)
		if err != nil {
			s.logger.Warn("failed to count members", "error", err, "category_id", c.ID)
		}
		details = append(details, &Detail{Category: *c, Members: []Member{}, MemberCount: count})
	}
	return details, nil
}

func (s *Service) GetCategory(caller *internal.Caller, id int64) (*Detail, error) {
	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, internal.ErrCategoryNotFound
	}

	members, err := s.members.ListMembers(c.ID)
	if err != nil {
		s.logger.Error("failed to list members", "error", err, "category_id", c.ID)
		return nil, internal.NewInternalError("failed to list category members", err)
	}

	return &Detail{Category: *c, Members: members, MemberCount: int64(len(members))}, nil
}

func (s *Service) UpdateCategory(caller *internal.Caller, id int64, dto UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id, scope)
	if err != nil {
		return nil, internal.ErrCategoryNotFound
	}

	if dto.Name != nil && *dto.Name != c.Name {
		exists, err := s.repo.NameExists(c.CompanyID, *dto.Name)
		if err != nil {
			return nil, internal.NewInternalError("failed to check category name", err)
		}
		if exists {
			return nil, internal.NewConflictError("a category with this name already exists", internal.ErrCodeDuplicateName)
		}
		c.Name = *dto.Name
	}
	if dto.Description != nil {
		c.Description = *dto.Description
	}
	if dto.MaxEmployees != nil {
		// Lowering the cap below the current roster size is allowed;
		// the cap only gates new assignments.
		c.MaxEmployees = *dto.MaxEmployees
	}
	if dto.IsActive != nil {
		c.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, internal.NewInternalError("failed to update category", err)
	}

	s.logger.Info("category updated", "category_id", id, "caller_id", caller.ID)
	return c, nil
}

func (s *Service) DeleteCategory(caller *internal.Caller, id int64) error {
	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return err
	}

	if _, err := s.repo.GetByID(id, scope); err != nil {
		return internal.ErrCategoryNotFound
	}

	// Detach members first so no user keeps a dangling team reference.
	if err := s.members.ClearTeam(id); err != nil {
		s.logger.Error("failed to clear category members", "error", err, "category_id", id)
		return internal.NewInternalError("failed to clear category members", err)
	}

	if err := s.repo.Delete(id, scope); err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", id)
		return internal.NewInternalError("failed to delete category", err)
	}

	s.logger.Info("category deleted", "category_id", id, "caller_id", caller.ID)
	return nil
}

// AssignEmployee places a maintenance-team user on a category roster.
func (s *Service) AssignEmployee(caller *internal.Caller, categoryID, employeeID int64) (*Detail, error) {
	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(categoryID, scope)
	if err != nil {
		return nil, internal.ErrCategoryNotFound
	}

	m, err := s.members.GetMember(employeeID, scope)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if m.Role != string(internal.RoleMaintenanceTeam) {
		return nil, internal.NewValidationError("only maintenance team members can be assigned to a category", internal.ErrCodeIneligibleEmployee)
	}

	if m.MaintenanceTeamID != nil && *m.MaintenanceTeamID == c.ID {
		return nil, internal.NewConflictError("employee is already assigned to this category", internal.ErrCodeAlreadyAssigned)
	}

	if c.MaxEmployees > 0 {
		count, err := s.members.CountMembers(c.ID)
		if err != nil {
			return nil, internal.NewInternalError("failed to count category members", err)
		}
		if count >= int64(c.MaxEmployees) {
			return nil, internal.NewCapacityError("category has reached its maximum number of employees")
		}
	}

	if err := s.members.SetTeam(m.ID, &c.ID); err != nil {
		s.logger.Error("failed to assign employee", "error", err, "category_id", c.ID, "employee_id", m.ID)
		return nil, internal.NewInternalError("failed to assign employee", err)
	}

	s.logger.Info("employee assigned to category", "category_id", c.ID, "employee_id", m.ID, "caller_id", caller.ID)
	return s.GetCategory(caller, categoryID)
}

// RemoveEmployee takes a user off a category roster.
func (s *Service) RemoveEmployee(caller *internal.Caller, categoryID, employeeID int64) (*Detail, error) {
	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(categoryID, scope)
	if err != nil {
		return nil, internal.ErrCategoryNotFound
	}

	m, err := s.members.GetMember(employeeID, scope)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if m.MaintenanceTeamID == nil || *m.MaintenanceTeamID != c.ID {
		return nil, internal.NewValidationError("employee is not assigned to this category", internal.ErrCodeValidationFailed)
	}

	if err := s.members.SetTeam(m.ID, nil); err != nil {
		s.logger.Error("failed to remove employee", "error", err, "category_id", c.ID, "employee_id", m.ID)
		return nil, internal.NewInternalError("failed to remove employee", err)
	}

	s.logger.Info("employee removed from category", "category_id", c.ID, "employee_id", m.ID, "caller_id", caller.ID)
	return s.GetCategory(caller, categoryID)
}
