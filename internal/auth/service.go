package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/gearkeep/maintenance-management/internal"
)

// Credential is the subset of a user row needed to verify a login.
type Credential struct {
	UserID       int64
	PasswordHash string
	Role         internal.Role
	IsActive     bool
}

type CreateUserParams struct {
	Name              string
	Email             string
	PasswordHash      string
	Role              internal.Role
	CompanyID         *int64
	MaintenanceTeamID *int64
	Phone             string
}

// UserRepository is the data access the auth service needs.
type UserRepository interface {
	GetCredentialByEmail(email string) (*Credential, error)
	GetCallerByID(userID int64) (*internal.Caller, error)
	EmailExists(email string) (bool, error)
	CreateUser(params CreateUserParams) (int64, error)
	SetCompany(userID, companyID int64) error
	DeleteUser(userID int64) error
	TouchLastLogin(userID int64) error
	TouchLastLogout(userID int64) error
}

// CompanyProvisioner creates the tenant during company-admin registration.
type CompanyProvisioner interface {
	NameExists(name string) (bool, error)
	Provision(name, email, phone, address string, createdBy int64) (int64, error)
}

type Service struct {
	users      UserRepository
	companies  CompanyProvisioner
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users UserRepository, companies CompanyProvisioner, tokens TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		companies:  companies,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Authenticate validates credentials and returns tokens plus the caller view.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	cred, err := s.users.GetCredentialByEmail(dto.Email)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if !cred.IsActive {
		s.logger.Warn("login attempt for inactive account", "user_id", cred.UserID)
		return nil, internal.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(cred.UserID); err != nil {
		s.logger.Warn("failed to update last login", "error", err, "user_id", cred.UserID)
	}

	caller, err := s.users.GetCallerByID(cred.UserID)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(cred.UserID, cred.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user authenticated", "user_id", cred.UserID, "role", cred.Role)

	return &LoginResponse{User: callerToView(caller), Tokens: tokens}, nil
}

// Register creates a user and, for company admins, provisions the tenant in
// the same call. A company-name conflict rolls the freshly created user back
// so registration stays repeatable.
func (s *Service) Register(dto RegisterDTO) (*RegisterResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	exists, err := s.users.EmailExists(dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check existing user", err)
	}
	if exists {
		return nil, internal.NewConflictError("user already exists with this email", internal.ErrCodeDuplicateEmail)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	// Company admins get their company_id only after the tenant exists.
	companyID := dto.CompanyID
	if dto.Role == internal.RoleCompanyAdmin {
		companyID = nil
	}

	userID, err := s.users.CreateUser(CreateUserParams{
		Name:              dto.Name,
		Email:             dto.Email,
		PasswordHash:      string(hash),
		Role:              dto.Role,
		CompanyID:         companyID,
		MaintenanceTeamID: dto.MaintenanceTeamID,
		Phone:             dto.Phone,
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	if dto.Role == internal.RoleCompanyAdmin {
		newCompanyID, err := s.provisionCompany(userID, dto.CompanyDetails)
		if err != nil {
			if delErr := s.users.DeleteUser(userID); delErr != nil {
				s.logger.Error("failed to roll back user after company conflict", "error", delErr, "user_id", userID)
			}
			return nil, err
		}
		companyID = &newCompanyID

		if err := s.users.SetCompany(userID, newCompanyID); err != nil {
			return nil, internal.NewInternalError("failed to attach user to company", err)
		}
	}

	caller, err := s.users.GetCallerByID(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load registered user", err)
	}

	tokens, err := s.issueTokens(userID, dto.Role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", userID, "role", dto.Role, "company_id", companyID)

	return &RegisterResponse{User: callerToView(caller), Tokens: tokens}, nil
}

func (s *Service) provisionCompany(createdBy int64, details *CompanyDetailsDTO) (int64, error) {
	taken, err := s.companies.NameExists(details.Name)
	if err != nil {
		return 0, internal.NewInternalError("failed to check company name", err)
	}
	if taken {
		return 0, internal.NewConflictError("company with this name already exists", internal.ErrCodeDuplicateName)
	}

	return s.companies.Provision(details.Name, details.Email, details.Phone, details.Address, createdBy)
}

// RefreshTokens validates a refresh token and rotates the pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	caller, err := s.users.GetCallerByID(claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}

	return s.issueTokens(caller.ID, caller.Role)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

// GetCaller loads the full caller identity for the auth middleware.
func (s *Service) GetCaller(userID int64) (*internal.Caller, error) {
	return s.users.GetCallerByID(userID)
}

func (s *Service) Logout(userID int64) {
	if err := s.users.TouchLastLogout(userID); err != nil {
		s.logger.Warn("failed to update last logout", "error", err, "user_id", userID)
	}
}

func (s *Service) issueTokens(userID int64, role internal.Role) (AuthTokens, error) {
	accessToken, err := s.tokens.GenerateAccessToken(userID, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(userID, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func callerToView(c *internal.Caller) RegisteredUser {
	return RegisteredUser{
		ID:                c.ID,
		Name:              c.Name,
		Email:             c.Email,
		Role:              c.Role,
		CompanyID:         c.CompanyID,
		MaintenanceTeamID: c.MaintenanceTeamID,
		IsActive:          true,
	}
}
