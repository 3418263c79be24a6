package postgres

import (
	"gorm.io/gorm"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/request"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(req *request.Request) error {
	return r.db.Create(req).Error
}

func (r *RequestRepository) GetByID(id int64, scope internal.Scope) (*request.Request, error) {
	var req request.Request
	q := r.db.Where("id = ?", id)
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	if err := q.First(&req).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) List(scope internal.Scope, filter request.ListFilter) ([]*request.Request, error) {
	var requests []*request.Request
	q := r.db.Order("created_at DESC")
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.RequestType != "" {
		q = q.Where("request_type = ?", filter.RequestType)
	}
	if filter.EquipmentID != nil {
		q = q.Where("equipment_id = ?", *filter.EquipmentID)
	}
	if filter.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.MaintenanceTeamID != nil {
		q = q.Where("maintenance_team_id = ?", *filter.MaintenanceTeamID)
	}
	err := q.Find(&requests).Error
	return requests, err
}

func (r *RequestRepository) Update(req *request.Request) error {
	return r.db.Save(req).Error
}

func (r *RequestRepository) Delete(id int64, scope internal.Scope) error {
	q := r.db.Where("id = ?", id)
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	return q.Delete(&request.Request{}).Error
}

// CountOpenByEquipment backs the open-request badge on equipment detail.
func (r *RequestRepository) CountOpenByEquipment(equipmentID int64) (int64, error) {
	var count int64
	err := r.db.Model(&request.Request{}).
		Where("equipment_id = ? AND status IN ?", equipmentID,
			[]request.Status{request.StatusNew, request.StatusInProgress}).
		Count(&count).Error
	return count, err
}

// EquipmentStore adapts the equipment table for the request service.
type EquipmentStore struct {
	db *gorm.DB
}

func NewEquipmentStore(db *gorm.DB) request.EquipmentStore {
	return &EquipmentStore{db: db}
}

func (s *EquipmentStore) GetRef(id int64, scope internal.Scope) (*request.EquipmentRef, error) {
	var ref request.EquipmentRef
	q := s.db.Table("equipment").
		Select("id, name, serial_number, status").
		Where("id = ?", id)
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	if err := q.Take(&ref).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &ref, nil
}

func (s *EquipmentStore) MarkScrapped(id int64) error {
	return s.db.Table("equipment").
		Where("id = ?", id).
		Update("status", "SCRAPPED").Error
}

// Directory resolves embedded summaries with one query per table.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) request.Directory {
	return &Directory{db: db}
}

func (d *Directory) UserRefs(ids []int64) (map[int64]request.UserRef, error) {
	refs := make(map[int64]request.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	var rows []request.UserRef
	if err := d.db.Table("users").
		Select("id, name, email").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		refs[row.ID] = row
	}
	return refs, nil
}

func (d *Directory) TeamRefs(ids []int64) (map[int64]request.TeamRef, error) {
	refs := make(map[int64]request.TeamRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	var rows []request.TeamRef
	if err := d.db.Table("maintenance_categories").
		Select("id, name").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		refs[row.ID] = row
	}
	return refs, nil
}

func (d *Directory) EquipmentRefs(ids []int64) (map[int64]request.EquipmentRef, error) {
	refs := make(map[int64]request.EquipmentRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	var rows []request.EquipmentRef
	if err := d.db.Table("equipment").
		Select("id, name, serial_number, status").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		refs[row.ID] = row
	}
	return refs, nil
}
