package user

import (
	"log/slog"

	"github.com/gearkeep/maintenance-management/internal"
)

type Repository interface {
	GetByID(id int64, scope internal.Scope) (*User, error)
	List(scope internal.Scope, filter ListFilter) ([]*User, error)
	Update(u *User) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetProfile returns the caller's own account.
func (s *Service) GetProfile(caller *internal.Caller) (*User, error) {
	u, err := s.repo.GetByID(caller.ID, internal.Scope{})
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

// ListUsers returns the tenant's users. Platform admins may filter by an
// explicit company id; everyone else sees their own company only.
func (s *Service) ListUsers(caller *internal.Caller, explicitCompanyID *int64, filter ListFilter) ([]*User, error) {
	scope, err := internal.ScopeFor(caller, explicitCompanyID)
	if err != nil {
		return nil, err
	}

	users, err := s.repo.List(scope, filter)
	if err != nil {
		s.logger.Error("failed to list users", "error", err, "caller_id", caller.ID)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// UpdateUser edits a user within the caller's company. Only company admins
// (or platform admins) may edit accounts other than their own.
func (s *Service) UpdateUser(caller *internal.Caller, userID int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if userID != caller.ID && !caller.IsPlatformAdmin() && !caller.IsCompanyAdmin() {
		return nil, internal.ErrForbidden
	}

	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(userID, scope)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Phone != nil {
		u.Phone = *dto.Phone
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", userID, "caller_id", caller.ID)
	return u, nil
}

// DeactivateUser soft-disables an account. Company admin only.
func (s *Service) DeactivateUser(caller *internal.Caller, userID int64) error {
	scope, err := internal.ScopeFor(caller, nil)
	if err != nil {
		return err
	}

	u, err := s.repo.GetByID(userID, scope)
	if err != nil {
		return internal.ErrUserNotFound
	}

	u.IsActive = false
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to deactivate user", "error", err, "user_id", userID)
		return internal.NewInternalError("failed to deactivate user", err)
	}

	s.logger.Info("user deactivated", "user_id", userID, "caller_id", caller.ID)
	return nil
}
