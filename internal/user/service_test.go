package user_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/user"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Module Suite")
}

// Mock repository for testing
type mockUserRepository struct {
	users map[int64]*user.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*user.User)}
}

func (m *mockUserRepository) add(id int64, companyID int64, role internal.Role) *user.User {
	cid := companyID
	u := &user.User{
		ID:        id,
		Name:      "User",
		Email:     "user@test.example",
		Role:      role,
		CompanyID: &cid,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	m.users[id] = u
	return u
}

func (m *mockUserRepository) GetByID(id int64, scope internal.Scope) (*user.User, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, internal.ErrUserNotFound
	}
	if scope.CompanyID != nil && (u.CompanyID == nil || *u.CompanyID != *scope.CompanyID) {
		return nil, internal.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepository) List(scope internal.Scope, filter user.ListFilter) ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		if scope.CompanyID != nil && (u.CompanyID == nil || *u.CompanyID != *scope.CompanyID) {
			continue
		}
		if filter.Role != "" && string(u.Role) != filter.Role {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockUserRepository) Update(u *user.User) error {
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

var _ = Describe("User Service", func() {
	var (
		repo    *mockUserRepository
		service *user.Service
	)

	callerFor := func(u *user.User) *internal.Caller {
		return &internal.Caller{ID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
	}

	BeforeEach(func() {
		repo = newMockUserRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, logger)
	})

	Describe("UpdateUser", func() {
		It("should let a user edit their own profile", func() {
			me := repo.add(1, 1, internal.RoleEmployee)
			name := "Renamed"

			updated, err := service.UpdateUser(callerFor(me), me.ID, user.UpdateUserDTO{Name: &name})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Renamed"))
		})

		It("should forbid editing a colleague without the admin role", func() {
			me := repo.add(1, 1, internal.RoleEmployee)
			other := repo.add(2, 1, internal.RoleEmployee)
			name := "Sneaky"

			_, err := service.UpdateUser(callerFor(me), other.ID, user.UpdateUserDTO{Name: &name})

			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("should let a company admin edit employees in their tenant", func() {
			admin := repo.add(1, 1, internal.RoleCompanyAdmin)
			employee := repo.add(2, 1, internal.RoleEmployee)
			inactive := false

			updated, err := service.UpdateUser(callerFor(admin), employee.ID, user.UpdateUserDTO{IsActive: &inactive})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsActive).To(BeFalse())
		})

		It("should hide users from other tenants behind not found", func() {
			admin := repo.add(1, 1, internal.RoleCompanyAdmin)
			outsider := repo.add(2, 2, internal.RoleEmployee)
			name := "Reached Across"

			_, err := service.UpdateUser(callerFor(admin), outsider.ID, user.UpdateUserDTO{Name: &name})

			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("should reject an empty name", func() {
			me := repo.add(1, 1, internal.RoleEmployee)
			blank := "  "

			_, err := service.UpdateUser(callerFor(me), me.ID, user.UpdateUserDTO{Name: &blank})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ListUsers", func() {
		It("should scope listings to the caller's company", func() {
			admin := repo.add(1, 1, internal.RoleCompanyAdmin)
			repo.add(2, 1, internal.RoleEmployee)
			repo.add(3, 2, internal.RoleEmployee)

			users, err := service.ListUsers(callerFor(admin), nil, user.ListFilter{})

			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
		})

		It("should ignore a client-supplied company filter for tenant callers", func() {
			admin := repo.add(1, 1, internal.RoleCompanyAdmin)
			repo.add(2, 2, internal.RoleEmployee)
			otherCompany := int64(2)

			users, err := service.ListUsers(callerFor(admin), &otherCompany, user.ListFilter{})

			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].ID).To(Equal(admin.ID))
		})
	})

	Describe("DeactivateUser", func() {
		It("should soft-disable the account", func() {
			admin := repo.add(1, 1, internal.RoleCompanyAdmin)
			employee := repo.add(2, 1, internal.RoleEmployee)

			Expect(service.DeactivateUser(callerFor(admin), employee.ID)).To(Succeed())
			Expect(repo.users[employee.ID].IsActive).To(BeFalse())
		})

		It("should not reach into other tenants", func() {
			admin := repo.add(1, 1, internal.RoleCompanyAdmin)
			outsider := repo.add(2, 2, internal.RoleEmployee)

			err := service.DeactivateUser(callerFor(admin), outsider.ID)

			Expect(err).To(Equal(internal.ErrUserNotFound))
			Expect(repo.users[outsider.ID].IsActive).To(BeTrue())
		})
	})

	Describe("GetProfile", func() {
		It("should return the caller's own account", func() {
			me := repo.add(7, 1, internal.RoleMaintenanceTeam)

			got, err := service.GetProfile(callerFor(me))

			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(me.ID))
		})
	})
})
