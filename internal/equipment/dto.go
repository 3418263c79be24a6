package equipment

import (
	"errors"
	"strings"
)

type CreateEquipmentDTO struct {
	Name              string `json:"name"`
	SerialNumber      string `json:"serialNumber"`
	Location          string `json:"location,omitempty"`
	Department        string `json:"department,omitempty"`
	AssignedTo        *int64 `json:"assignedTo,omitempty"`
	MaintenanceTeamID *int64 `json:"maintenanceTeamId,omitempty"`
}

func (dto CreateEquipmentDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(dto.SerialNumber) == "" {
		return errors.New("serial number is required")
	}
	return nil
}

type UpdateEquipmentDTO struct {
	Name              *string `json:"name,omitempty"`
	SerialNumber      *string `json:"serialNumber,omitempty"`
	Location          *string `json:"location,omitempty"`
	Department        *string `json:"department,omitempty"`
	AssignedTo        *int64  `json:"assignedTo,omitempty"`
	MaintenanceTeamID *int64  `json:"maintenanceTeamId,omitempty"`
	Status            *Status `json:"status,omitempty"`
}

func (dto UpdateEquipmentDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Status != nil && !dto.Status.Valid() {
		return errors.New("invalid equipment status")
	}
	return nil
}

type ListFilter struct {
	Department string
	AssignedTo *int64
	Status     Status
}

// Detail is the single-equipment view with the open request count used by
// the UI smart button.
type Detail struct {
	Equipment
	OpenRequestCount int64 `json:"openRequestCount"`
}
