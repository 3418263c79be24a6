package auth

import (
	"errors"
	"strings"

	"github.com/gearkeep/maintenance-management/internal"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if strings.TrimSpace(dto.Email) == "" {
		return errors.New("email is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// CompanyDetailsDTO carries the tenant to provision during company-admin
// registration.
type CompanyDetailsDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type RegisterDTO struct {
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Password          string             `json:"password"`
	Role              internal.Role      `json:"role"`
	CompanyID         *int64             `json:"companyId,omitempty"`
	MaintenanceTeamID *int64             `json:"maintenanceTeamId,omitempty"`
	Phone             string             `json:"phone,omitempty"`
	CompanyDetails    *CompanyDetailsDTO `json:"companyDetails,omitempty"`
}

func (dto RegisterDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(dto.Email) == "" {
		return errors.New("email is required")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if !dto.Role.Valid() {
		return errors.New("invalid role")
	}
	// Platform admins are provisioned out of band, never via signup.
	if dto.Role == internal.RolePlatformAdmin {
		return errors.New("invalid role")
	}
	if dto.Role == internal.RoleCompanyAdmin {
		if dto.CompanyDetails == nil {
			return errors.New("company details are required for company admin registration")
		}
		if strings.TrimSpace(dto.CompanyDetails.Name) == "" {
			return errors.New("company name is required")
		}
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken"`
}

func (dto RefreshTokenDTO) Validate() error {
	if dto.RefreshToken == "" {
		return errors.New("refresh token is required")
	}
	return nil
}

// RegisteredUser is returned from registration alongside the tokens.
type RegisteredUser struct {
	ID                int64         `json:"id"`
	Name              string        `json:"name"`
	Email             string        `json:"email"`
	Role              internal.Role `json:"role"`
	CompanyID         *int64        `json:"companyId,omitempty"`
	MaintenanceTeamID *int64        `json:"maintenanceTeamId,omitempty"`
	Phone             string        `json:"phone,omitempty"`
	IsActive          bool          `json:"isActive"`
}

type RegisterResponse struct {
	User   RegisteredUser `json:"user"`
	Tokens AuthTokens     `json:"tokens"`
}

type LoginResponse struct {
	User   RegisteredUser `json:"user"`
	Tokens AuthTokens     `json:"tokens"`
}
