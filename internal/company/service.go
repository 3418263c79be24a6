package company

import (
	"log/slog"

	"github.com/gearkeep/maintenance-management/internal"
)

type Repository interface {
	Create(c *Company) error
	GetByID(id int64) (*Company, error)
	GetByName(name string) (*Company, error)
	List() ([]*Company, error)
	Update(c *Company) error
	Delete(id int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateCompany registers a tenant. Platform admin only; company admins get
// their tenant provisioned during registration instead.
func (s *Service) CreateCompany(caller *internal.Caller, dto CreateCompanyDTO) (*Company, error) {
	if !caller.IsPlatformAdmin() {
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByName(dto.Name); err == nil && existing != nil {
		return nil, internal.NewConflictError("company with this name already exists", internal.ErrCodeDuplicateName)
	}

	c := &Company{
		Name:      dto.Name,
		Email:     dto.Email,
		Phone:     dto.Phone,
		Address:   dto.Address,
		CreatedBy: caller.ID,
		IsActive:  true,
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create company", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create company", err)
	}

	s.logger.Info("company created", "company_id", c.ID, "name", c.Name, "caller_id", caller.ID)
	return c, nil
}

// ListCompanies returns all tenants for platform admins, or the caller's own
// company as a single-element list.
func (s *Service) ListCompanies(caller *internal.Caller) ([]*Company, error) {
	if caller.IsPlatformAdmin() {
		companies, err := s.repo.List()
		if err != nil {
			return nil, internal.NewInternalError("failed to list companies", err)
		}
		return companies, nil
	}

	if caller.CompanyID == nil {
		return nil, internal.ErrCompanyRequired
	}

	own, err := s.repo.GetByID(*caller.CompanyID)
	if err != nil {
		return nil, internal.ErrCompanyNotFound
	}
	return []*Company{own}, nil
}

func (s *Service) GetCompany(caller *internal.Caller, id int64) (*Company, error) {
	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrCompanyNotFound
	}

	// Not-found rather than forbidden, so tenants cannot probe each other.
	if err := internal.AuthorizeCompanyScope(caller, c.ID); err != nil {
		return nil, internal.ErrCompanyNotFound
	}

	return c, nil
}

func (s *Service) UpdateCompany(caller *internal.Caller, id int64, dto UpdateCompanyDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if !caller.IsPlatformAdmin() && !caller.IsCompanyAdmin() {
		return nil, internal.ErrForbidden
	}

	c, err := s.GetCompany(caller, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil && *dto.Name != c.Name {
		if existing, err := s.repo.GetByName(*dto.Name); err == nil && existing != nil {
			return nil, internal.NewConflictError("company with this name already exists", internal.ErrCodeDuplicateName)
		}
		c.Name = *dto.Name
	}
	if dto.Email != nil {
		c.Email = *dto.Email
	}
	if dto.Phone != nil {
		c.Phone = *dto.Phone
	}
	if dto.Address != nil {
		c.Address = *dto.Address
	}
	if dto.IsActive != nil {
		c.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update company", "error", err, "company_id", id)
		return nil, internal.NewInternalError("failed to update company", err)
	}

	s.logger.Info("company updated", "company_id", id, "caller_id", caller.ID)
	return c, nil
}

// DeleteCompany removes a tenant. Platform admin only.
func (s *Service) DeleteCompany(caller *internal.Caller, id int64) error {
	if !caller.IsPlatformAdmin() {
		return internal.ErrForbidden
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return internal.ErrCompanyNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete company", "error", err, "company_id", id)
		return internal.NewInternalError("failed to delete company", err)
	}

	s.logger.Info("company deleted", "company_id", id, "caller_id", caller.ID)
	return nil
}

// NameExists and Provision let the auth service create tenants during
// company-admin registration without importing this package's service.
func (s *Service) NameExists(name string) (bool, error) {
	existing, err := s.repo.GetByName(name)
	if err != nil {
		return false, nil
	}
	return existing != nil, nil
}

func (s *Service) Provision(name, email, phone, address string, createdBy int64) (int64, error) {
	c := &Company{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Address:   address,
		CreatedBy: createdBy,
		IsActive:  true,
	}
	if err := s.repo.Create(c); err != nil {
		return 0, internal.NewInternalError("failed to provision company", err)
	}
	return c.ID, nil
}
