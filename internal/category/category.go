package category

import "time"

// Category is a maintenance category. Each category doubles as a maintenance
// team: users carry a maintenance_team_id pointing at the category they
// belong to, so the roster lives on the users table and is never duplicated
// here.
type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CompanyID   int64  `gorm:"index;not null" json:"companyId"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	// MaxEmployees caps the roster size; zero means unlimited.
	MaxEmployees int       `gorm:"default:0" json:"maxEmployees"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedBy    int64     `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Category) TableName() string {
	return "maintenance_categories"
}

// Summary is the compact shape embedded in request responses.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (c *Category) ToSummary() Summary {
	return Summary{ID: c.ID, Name: c.Name}
}

// Member is a user on a category roster, as seen by this package.
type Member struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	CompanyID         *int64 `json:"companyId,omitempty"`
	MaintenanceTeamID *int64 `json:"maintenanceTeamId,omitempty"`
}

// Detail is a category with its derived roster.
type Detail struct {
	Category
	Members     []Member `json:"members"`
	MemberCount int64    `json:"memberCount"`
}
