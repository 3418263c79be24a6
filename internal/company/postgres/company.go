package postgres

import (
	"gorm.io/gorm"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/company"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.Repository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(c *company.Company) error {
	return r.db.Create(c).Error
}

func (r *CompanyRepository) GetByID(id int64) (*company.Company, error) {
	var c company.Company
	if err := r.db.Where("id = ?", id).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) GetByName(name string) (*company.Company, error) {
	var c company.Company
	if err := r.db.Where("name = ?", name).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) List() ([]*company.Company, error) {
	var companies []*company.Company
	err := r.db.Order("created_at DESC").Find(&companies).Error
	return companies, err
}

func (r *CompanyRepository) Update(c *company.Company) error {
	return r.db.Save(c).Error
}

func (r *CompanyRepository) Delete(id int64) error {
	return r.db.Delete(&company.Company{}, id).Error
}
