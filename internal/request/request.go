package request

import (
	"time"

	"github.com/gearkeep/maintenance-management/internal"
)

type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusRepaired   Status = "REPAIRED"
	StatusScrap      Status = "SCRAP"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusRepaired, StatusScrap:
		return true
	}
	return false
}

// IsTerminal reports whether the status closes the request. Terminal
// requests are immutable.
func (s Status) IsTerminal() bool {
	return s == StatusRepaired || s == StatusScrap
}

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Rank orders priorities for dashboard sorting, highest first.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type RequestType string

const (
	TypeCorrective RequestType = "CORRECTIVE"
	TypePreventive RequestType = "PREVENTIVE"
)

func (t RequestType) Valid() bool {
	return t == TypeCorrective || t == TypePreventive
}

// Request is a maintenance request against a piece of equipment.
type Request struct {
	ID                int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	CompanyID         int64       `gorm:"index;not null" json:"companyId"`
	RequestedBy       int64       `gorm:"not null" json:"requestedBy"`
	EquipmentID       int64       `gorm:"index;not null" json:"equipmentId"`
	MaintenanceTeamID *int64      `gorm:"index" json:"maintenanceTeamId,omitempty"`
	RequestType       RequestType `gorm:"size:32;not null" json:"requestType"`
	Subject           string      `gorm:"size:255;not null" json:"subject"`
	Description       string      `gorm:"type:text" json:"description,omitempty"`
	Priority          Priority    `gorm:"size:32;default:MEDIUM" json:"priority"`
	ScheduledDate     *time.Time  `json:"scheduledDate,omitempty"`
	Status            Status      `gorm:"size:32;default:NEW;index" json:"status"`
	AssignedTo        *int64      `gorm:"index" json:"assignedTo,omitempty"`
	DurationHours     float64     `gorm:"default:0" json:"durationHours"`
	Resolution        string      `gorm:"type:text" json:"resolution,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

func (Request) TableName() string {
	return "maintenance_requests"
}

// TransitionPlan is the set of side effects an update implies beyond the
// field merge itself.
type TransitionPlan struct {
	// ScrapEquipment marks the request's equipment SCRAPPED.
	ScrapEquipment bool
	// AssignTo, when set, is the assignee the transition claims the
	// request for.
	AssignTo *int64
}

// PlanTransition decides the side effects of moving current toward
// targetStatus. It is a pure function so the lifecycle rules can be tested
// without persistence.
//
// Rules: a terminal request rejects every update; moving to SCRAP scraps
// the equipment; moving to IN_PROGRESS with no assignee in the payload and
// none on the request claims it for the caller. An existing assignee is
// never overwritten.
func PlanTransition(current *Request, targetStatus *Status, payloadAssignee *int64, callerID int64) (TransitionPlan, error) {
	var plan TransitionPlan

	if current.Status.IsTerminal() {
		return plan, internal.ErrRequestTerminal
	}

	if targetStatus == nil {
		return plan, nil
	}

	switch *targetStatus {
	case StatusScrap:
		plan.ScrapEquipment = true
	case StatusInProgress:
		if payloadAssignee == nil && current.AssignedTo == nil {
			id := callerID
			plan.AssignTo = &id
		}
	}

	return plan, nil
}
