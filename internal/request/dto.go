package request

import (
	"errors"
	"time"
)

type CreateRequestDTO struct {
	EquipmentID       int64       `json:"equipmentId"`
	RequestType       RequestType `json:"requestType"`
	Subject           string      `json:"subject"`
	Description       string      `json:"description"`
	Priority          Priority    `json:"priority"`
	ScheduledDate     *time.Time  `json:"scheduledDate"`
	MaintenanceTeamID *int64      `json:"maintenanceTeamId"`
}

func (d CreateRequestDTO) Validate() error {
	if d.EquipmentID <= 0 {
		return errors.New("equipmentId is required")
	}
	if !d.RequestType.Valid() {
		return errors.New("requestType must be CORRECTIVE or PREVENTIVE")
	}
	if d.Subject == "" {
		return errors.New("subject is required")
	}
	if d.Priority != "" && !d.Priority.Valid() {
		return errors.New("invalid priority")
	}
	return nil
}

// UpdateRequestDTO is a partial update; nil fields are left untouched.
type UpdateRequestDTO struct {
	Subject           *string      `json:"subject"`
	Description       *string      `json:"description"`
	RequestType       *RequestType `json:"requestType"`
	Priority          *Priority    `json:"priority"`
	Status            *Status      `json:"status"`
	AssignedTo        *int64       `json:"assignedTo"`
	MaintenanceTeamID *int64       `json:"maintenanceTeamId"`
	ScheduledDate     *time.Time   `json:"scheduledDate"`
	DurationHours     *float64     `json:"durationHours"`
	Resolution        *string      `json:"resolution"`
}

func (d UpdateRequestDTO) Validate() error {
	if d.Subject != nil && *d.Subject == "" {
		return errors.New("subject cannot be empty")
	}
	if d.RequestType != nil && !d.RequestType.Valid() {
		return errors.New("requestType must be CORRECTIVE or PREVENTIVE")
	}
	if d.Priority != nil && !d.Priority.Valid() {
		return errors.New("invalid priority")
	}
	if d.Status != nil && !d.Status.Valid() {
		return errors.New("invalid status")
	}
	if d.DurationHours != nil && *d.DurationHours < 0 {
		return errors.New("durationHours cannot be negative")
	}
	return nil
}

type ListFilter struct {
	Status            Status
	RequestType       RequestType
	EquipmentID       *int64
	AssignedTo        *int64
	MaintenanceTeamID *int64
}

// EquipmentRef, UserRef and TeamRef are the compact shapes embedded in
// populated responses.
type EquipmentRef struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber"`
	Status       string `json:"status"`
}

type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// View is a request populated with the summaries clients render from.
type View struct {
	Request
	Equipment *EquipmentRef `json:"equipment,omitempty"`
	Requester *UserRef      `json:"requester,omitempty"`
	Assignee  *UserRef      `json:"assignee,omitempty"`
	Team      *TeamRef      `json:"maintenanceTeam,omitempty"`
}

// TeamStats is the dashboard payload for maintenance-team callers.
type TeamStats struct {
	AssignedToMe   int64   `json:"assignedToMe"`
	CompletedByMe  int64   `json:"completedByMe"`
	TeamUnassigned int64   `json:"teamUnassigned"`
	ActiveTasks    []*View `json:"activeTasks"`
}

// RequesterStats is the dashboard payload for everyone else.
type RequesterStats struct {
	MyRequests        int64 `json:"myRequests"`
	OpenRequests      int64 `json:"openRequests"`
	CompletedRequests int64 `json:"completedRequests"`
}
