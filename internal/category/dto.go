package category

import "errors"

type CreateCategoryDTO struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	MaxEmployees int    `json:"maxEmployees"`
}

func (d CreateCategoryDTO) Validate() error {
	if d.Name == "" {
		return errors.New("name is required")
	}
	if d.MaxEmployees < 0 {
		return errors.New("maxEmployees cannot be negative")
	}
	return nil
}

type UpdateCategoryDTO struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	MaxEmployees *int    `json:"maxEmployees"`
	IsActive     *bool   `json:"isActive"`
}

func (d UpdateCategoryDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return errors.New("name cannot be empty")
	}
	if d.MaxEmployees != nil && *d.MaxEmployees < 0 {
		return errors.New("maxEmployees cannot be negative")
	}
	return nil
}

type AssignEmployeeDTO struct {
	EmployeeID int64 `json:"employeeId"`
}

func (d AssignEmployeeDTO) Validate() error {
	if d.EmployeeID <= 0 {
		return errors.New("employeeId is required")
	}
	return nil
}
