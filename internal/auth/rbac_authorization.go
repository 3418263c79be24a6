package auth

import (
	"log/slog"
	"net/http"

	"github.com/gearkeep/maintenance-management/internal"
)

// RBACAuthorization gates routes on the caller's role. The tenant dimension
// is enforced inside services via scope resolution; this layer only rejects
// roles that may never reach an endpoint.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) RequireRole(roles ...internal.Role) func(http.Handler) http.Handler {
	allowed := make(map[internal.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := internal.CallerFromContext(r.Context())
			if !ok || caller == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if !allowed[caller.Role] {
				ra.logger.WarnContext(r.Context(), "access denied: role not permitted",
					"user_id", caller.ID,
					"role", caller.Role)
				http.Error(w, "forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequirePlatformAdmin() func(http.Handler) http.Handler {
	return ra.RequireRole(internal.RolePlatformAdmin)
}

func (ra *RBACAuthorization) RequireCompanyAdmin() func(http.Handler) http.Handler {
	return ra.RequireRole(internal.RolePlatformAdmin, internal.RoleCompanyAdmin)
}

func (ra *RBACAuthorization) RequireMaintenanceTeam() func(http.Handler) http.Handler {
	return ra.RequireRole(internal.RoleMaintenanceTeam)
}
