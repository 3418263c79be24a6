package equipment

import (
	"time"
)

// Status is the equipment lifecycle state. SCRAPPED is set as a side effect
// of a maintenance request reaching its scrap state.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusScrapped Status = "SCRAPPED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusScrapped:
		return true
	}
	return false
}

type Equipment struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	CompanyID         int64     `json:"companyId" gorm:"column:company_id;not null;index"`
	Name              string    `json:"name" gorm:"not null"`
	SerialNumber      string    `json:"serialNumber" gorm:"column:serial_number;not null"`
	Location          string    `json:"location"`
	Department        string    `json:"department"`
	AssignedTo        *int64    `json:"assignedTo,omitempty" gorm:"column:assigned_to"`
	MaintenanceTeamID *int64    `json:"maintenanceTeamId,omitempty" gorm:"column:maintenance_team_id"`
	Status            Status    `json:"status" gorm:"default:ACTIVE"`
	CreatedBy         int64     `json:"createdBy" gorm:"column:created_by"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (Equipment) TableName() string {
	return "equipment"
}

func (e *Equipment) IsScrapped() bool {
	return e.Status == StatusScrapped
}

// Summary is the compact view embedded in request payloads.
type Summary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber"`
}

func (e *Equipment) ToSummary() Summary {
	return Summary{ID: e.ID, Name: e.Name, SerialNumber: e.SerialNumber}
}
