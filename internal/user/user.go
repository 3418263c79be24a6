package user

import (
	"time"

	"github.com/gearkeep/maintenance-management/internal"
)

// User is the account entity. PasswordHash never serializes.
type User struct {
	ID                int64         `json:"id" gorm:"primaryKey"`
	Name              string        `json:"name" gorm:"not null"`
	Email             string        `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash      string        `json:"-" gorm:"column:password_hash;not null"`
	Role              internal.Role `json:"role" gorm:"not null"`
	CompanyID         *int64        `json:"companyId,omitempty" gorm:"column:company_id"`
	MaintenanceTeamID *int64        `json:"maintenanceTeamId,omitempty" gorm:"column:maintenance_team_id"`
	Phone             string        `json:"phone,omitempty"`
	IsActive          bool          `json:"isActive" gorm:"default:true"`
	LastLogin         *time.Time    `json:"lastLogin,omitempty" gorm:"column:last_login"`
	LastLogout        *time.Time    `json:"lastLogout,omitempty" gorm:"column:last_logout"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsActiveUser() bool {
	return u.IsActive
}

// Summary is the compact view embedded in request and equipment payloads.
type Summary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) ToSummary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email}
}
