package internal

import (
	"context"
)

// Role is the fixed vocabulary of caller roles.
type Role string

const (
	RolePlatformAdmin   Role = "PLATFORM_ADMIN"
	RoleCompanyAdmin    Role = "COMPANY_ADMIN"
	RoleMaintenanceTeam Role = "MAINTENANCE_TEAM"
	RoleEmployee        Role = "EMPLOYEE"
)

func (r Role) Valid() bool {
	switch r {
	case RolePlatformAdmin, RoleCompanyAdmin, RoleMaintenanceTeam, RoleEmployee:
		return true
	}
	return false
}

// Caller is the identity injected by the auth middleware. Services take it as
// their first parameter; nothing reaches into ambient state for identity.
type Caller struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Role              Role   `json:"role"`
	CompanyID         *int64 `json:"companyId,omitempty"`
	MaintenanceTeamID *int64 `json:"maintenanceTeamId,omitempty"`
}

func (c *Caller) IsPlatformAdmin() bool {
	return c.Role == RolePlatformAdmin
}

func (c *Caller) IsCompanyAdmin() bool {
	return c.Role == RoleCompanyAdmin
}

func (c *Caller) IsMaintenanceTeam() bool {
	return c.Role == RoleMaintenanceTeam
}

type ctxKey string

const ContextCallerKey ctxKey = "caller"

func CallerFromContext(ctx context.Context) (*Caller, bool) {
	c, ok := ctx.Value(ContextCallerKey).(*Caller)
	return c, ok
}

func ContextWithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, ContextCallerKey, c)
}
