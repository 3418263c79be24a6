package postgres

import (
	"gorm.io/gorm"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64, scope internal.Scope) (*user.User, error) {
	var u user.User
	q := r.db.Where("id = ?", id)
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	if err := q.First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(scope internal.Scope, filter user.ListFilter) ([]*user.User, error) {
	var users []*user.User
	q := r.db.Order("created_at DESC")
	if scope.CompanyID != nil {
		q = q.Where("company_id = ?", *scope.CompanyID)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.MaintenanceTeamID != nil {
		q = q.Where("maintenance_team_id = ?", *filter.MaintenanceTeamID)
	}
	err := q.Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(u *user.User) error {
	return r.db.Save(u).Error
}
