package postgres

import (
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/auth"
)

// Repository implements auth.UserRepository over the users table with raw
// queries; no domain model is needed for credential plumbing.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentialByEmail(email string) (*auth.Credential, error) {
	var cred auth.Credential
	query := `SELECT id, password_hash, role, is_active FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&cred.UserID, &cred.PasswordHash, &cred.Role, &cred.IsActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &cred, nil
}

func (r *Repository) GetCallerByID(userID int64) (*internal.Caller, error) {
	var caller internal.Caller
	query := `SELECT id, name, email, role, company_id, maintenance_team_id
	          FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&caller.ID, &caller.Name, &caller.Email, &caller.Role, &caller.CompanyID, &caller.MaintenanceTeamID); err != nil {
		if err == sql.ErrNoRows {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &caller, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	if err := r.db.Table("users").Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateUser(params auth.CreateUserParams) (int64, error) {
	now := time.Now()
	row := map[string]interface{}{
		"name":                params.Name,
		"email":               params.Email,
		"password_hash":       params.PasswordHash,
		"role":                params.Role,
		"company_id":          params.CompanyID,
		"maintenance_team_id": params.MaintenanceTeamID,
		"phone":               params.Phone,
		"is_active":           true,
		"created_at":          now,
		"updated_at":          now,
	}

	if err := r.db.Table("users").Create(row).Error; err != nil {
		return 0, err
	}

	var id int64
	if err := r.db.Raw(`SELECT id FROM users WHERE email = ?`, params.Email).Row().Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) SetCompany(userID, companyID int64) error {
	return r.db.Table("users").Where("id = ?", userID).
		Updates(map[string]interface{}{"company_id": companyID, "updated_at": time.Now()}).Error
}

func (r *Repository) DeleteUser(userID int64) error {
	return r.db.Exec(`DELETE FROM users WHERE id = ?`, userID).Error
}

func (r *Repository) TouchLastLogin(userID int64) error {
	return r.db.Table("users").Where("id = ?", userID).
		Updates(map[string]interface{}{"last_login": time.Now(), "updated_at": time.Now()}).Error
}

func (r *Repository) TouchLastLogout(userID int64) error {
	return r.db.Table("users").Where("id = ?", userID).
		Updates(map[string]interface{}{"last_logout": time.Now(), "updated_at": time.Now()}).Error
}
