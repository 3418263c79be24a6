package postgres

import (
	"gorm.io/gorm"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/category"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(c *category.Category) error {
	return r.db.Create(c).Error
}

func (r *CategoryRepository) GetByID(id int64, scope internal.Scope) (*category.Category, error) {
	var c category.Category
	q := r.db.Where("id = ?", id)
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	if err := q.First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) NameExists(companyID int64, name string) (bool, error) {
	var count int64
	err := r.db.Model(&category.Category{}).
		Where("company_id = ? AND name = ?", companyID, name).
		Count(&count).Error
	return count > 0, err
}

func (r *CategoryRepository) List(scope internal.Scope) ([]*category.Category, error) {
	var categories []*category.Category
	q := r.db.Order("created_at DESC")
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	err := q.Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) Update(c *category.Category) error {
	return r.db.Save(c).Error
}

func (r *CategoryRepository) Delete(id int64, scope internal.Scope) error {
	q := r.db.Where("id = ?", id)
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	return q.Delete(&category.Category{}).Error
}

// MemberDirectory reads and writes roster membership straight off the users
// table, keeping users.maintenance_team_id the single source of truth.
type MemberDirectory struct {
	db *gorm.DB
}

func NewMemberDirectory(db *gorm.DB) category.MemberDirectory {
	return &MemberDirectory{db: db}
}

func (d *MemberDirectory) GetMember(id int64, scope internal.Scope) (*category.Member, error) {
	var m category.Member
	q := d.db.Table("users").
		Select("id, name, email, role, company_id, maintenance_team_id").
		Where("id = ? AND is_active = ?", id, true)
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	if err := q.Take(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (d *MemberDirectory) ListMembers(teamID int64) ([]category.Member, error) {
	var members []category.Member
	err := d.db.Table("users").
		Select("id, name, email, role, company_id, maintenance_team_id").
		Where("maintenance_team_id = ? AND is_active = ?", teamID, true).
		Order("name ASC").
		Find(&members).Error
	return members, err
}

func (d *MemberDirectory) CountMembers(teamID int64) (int64, error) {
	var count int64
	err := d.db.Table("users").
		Where("maintenance_team_id = ? AND is_active = ?", teamID, true).
		Count(&count).Error
	return count, err
}

func (d *MemberDirectory) SetTeam(userID int64, teamID *int64) error {
	return d.db.Table("users").
		Where("id = ?", userID).
		Update("maintenance_team_id", teamID).Error
}

func (d *MemberDirectory) ClearTeam(teamID int64) error {
	return d.db.Table("users").
		Where("maintenance_team_id = ?", teamID).
		Update("maintenance_team_id", nil).Error
}
