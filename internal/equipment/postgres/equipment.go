package postgres

import (
	"gorm.io/gorm"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/equipment"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) equipment.Repository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(e *equipment.Equipment) error {
	return r.db.Create(e).Error
}

func (r *EquipmentRepository) GetByID(id int64, scope internal.Scope) (*equipment.Equipment, error) {
	var e equipment.Equipment
	q := r.db.Where("id = ?", id)
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	if err := q.First(&e).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) List(scope internal.Scope, filter equipment.ListFilter) ([]*equipment.Equipment, error) {
	var items []*equipment.Equipment
	q := r.db.Order("created_at DESC")
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}
	if filter.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *EquipmentRepository) Update(e *equipment.Equipment) error {
	return r.db.Save(e).Error
}

func (r *EquipmentRepository) Delete(id int64, scope internal.Scope) error {
	q := r.db.Where("id = ?", id)
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	return q.Delete(&equipment.Equipment{}).Error
}
