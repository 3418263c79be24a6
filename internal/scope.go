package internal

// Scope is the effective tenant filter for a query. A nil CompanyID means all
// companies (platform admins only).
type Scope struct {
	CompanyID *int64
}

// ScopeFor resolves the query scope for a caller. Platform admins see every
// row, optionally narrowed by an explicit company filter. Everyone else is
// forced to their own company; a client-supplied filter is silently ignored.
func ScopeFor(caller *Caller, explicitCompanyID *int64) (Scope, error) {
	if caller.IsPlatformAdmin() {
		return Scope{CompanyID: explicitCompanyID}, nil
	}

	if caller.CompanyID == nil {
		return Scope{}, ErrCompanyRequired
	}

	return Scope{CompanyID: caller.CompanyID}, nil
}

// AuthorizeCompanyScope decides whether a caller may act on an entity owned
// by targetCompanyID.
func AuthorizeCompanyScope(caller *Caller, targetCompanyID int64) error {
	if caller.IsPlatformAdmin() {
		return nil
	}
	if caller.CompanyID == nil {
		return ErrCompanyRequired
	}
	if *caller.CompanyID != targetCompanyID {
		return ErrForbidden
	}
	return nil
}

// Contains reports whether a row owned by companyID is visible in the scope.
func (s Scope) Contains(companyID int64) bool {
	return s.CompanyID == nil || *s.CompanyID == companyID
}
