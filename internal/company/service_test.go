package company_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/company"
)

func TestCompany(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Company Module Suite")
}

// Mock repository for testing
type mockCompanyRepository struct {
	items  map[int64]*company.Company
	nextID int64
}

func newMockCompanyRepository() *mockCompanyRepository {
	return &mockCompanyRepository{items: make(map[int64]*company.Company), nextID: 1}
}

func (m *mockCompanyRepository) Create(c *company.Company) error {
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	m.items[c.ID] = c
	return nil
}

func (m *mockCompanyRepository) GetByID(id int64) (*company.Company, error) {
	c, exists := m.items[id]
	if !exists {
		return nil, internal.ErrCompanyNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *mockCompanyRepository) GetByName(name string) (*company.Company, error) {
	for _, c := range m.items {
		if c.Name == name {
			clone := *c
			return &clone, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockCompanyRepository) List() ([]*company.Company, error) {
	var out []*company.Company
	for _, c := range m.items {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockCompanyRepository) Update(c *company.Company) error {
	if _, exists := m.items[c.ID]; !exists {
		return internal.ErrCompanyNotFound
	}
	clone := *c
	m.items[c.ID] = &clone
	return nil
}

func (m *mockCompanyRepository) Delete(id int64) error {
	delete(m.items, id)
	return nil
}

var _ = Describe("Company Service", func() {
	var (
		repo    *mockCompanyRepository
		service *company.Service

		platformAdmin *internal.Caller
	)

	adminOf := func(companyID int64) *internal.Caller {
		cid := companyID
		return &internal.Caller{ID: 10, Role: internal.RoleCompanyAdmin, CompanyID: &cid}
	}

	BeforeEach(func() {
		repo = newMockCompanyRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = company.NewService(repo, logger)

		platformAdmin = &internal.Caller{ID: 1, Role: internal.RolePlatformAdmin}
	})

	Describe("CreateCompany", func() {
		Context("when the caller is a platform admin", func() {
			It("should create an active company", func() {
				// Given a valid payload
				dto := company.CreateCompanyDTO{Name: "Acme Manufacturing", Email: "ops@acme.example"}

				// When creating the company
				created, err := service.CreateCompany(platformAdmin, dto)

				// Then the company is persisted as active
				Expect(err).NotTo(HaveOccurred())
				Expect(created.IsActive).To(BeTrue())
				Expect(created.CreatedBy).To(Equal(platformAdmin.ID))
			})

			It("should reject a duplicate name", func() {
				dto := company.CreateCompanyDTO{Name: "Acme Manufacturing"}
				_, err := service.CreateCompany(platformAdmin, dto)
				Expect(err).NotTo(HaveOccurred())

				_, err = service.CreateCompany(platformAdmin, dto)

				var appErr *internal.AppError
				Expect(errors.As(err, &appErr)).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateName))
			})
		})

		Context("when the caller is a company admin", func() {
			It("should be forbidden", func() {
				_, err := service.CreateCompany(adminOf(1), company.CreateCompanyDTO{Name: "Rogue Tenant"})
				Expect(err).To(Equal(internal.ErrForbidden))
			})
		})
	})

	Describe("ListCompanies", func() {
		BeforeEach(func() {
			repo.Create(&company.Company{Name: "Acme Manufacturing", IsActive: true})
			repo.Create(&company.Company{Name: "Globex Logistics", IsActive: true})
		})

		It("should return every tenant for a platform admin", func() {
			companies, err := service.ListCompanies(platformAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(companies).To(HaveLen(2))
		})

		It("should return only the caller's own tenant otherwise", func() {
			companies, err := service.ListCompanies(adminOf(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(companies).To(HaveLen(1))
			Expect(companies[0].Name).To(Equal("Globex Logistics"))
		})
	})

	Describe("GetCompany", func() {
		BeforeEach(func() {
			repo.Create(&company.Company{Name: "Acme Manufacturing", IsActive: true})
		})

		It("should hide other tenants behind not found", func() {
			otherAdmin := adminOf(99)

			_, err := service.GetCompany(otherAdmin, 1)

			Expect(err).To(Equal(internal.ErrCompanyNotFound))
		})

		It("should return the caller's own tenant", func() {
			got, err := service.GetCompany(adminOf(1), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Acme Manufacturing"))
		})
	})

	Describe("UpdateCompany", func() {
		BeforeEach(func() {
			repo.Create(&company.Company{Name: "Acme Manufacturing", IsActive: true})
		})

		It("should apply a partial update", func() {
			phone := "+1-555-0100"
			updated, err := service.UpdateCompany(adminOf(1), 1, company.UpdateCompanyDTO{Phone: &phone})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Phone).To(Equal(phone))
			Expect(updated.Name).To(Equal("Acme Manufacturing"))
		})

		It("should forbid plain employees", func() {
			cid := int64(1)
			employee := &internal.Caller{ID: 30, Role: internal.RoleEmployee, CompanyID: &cid}
			name := "Renamed"

			_, err := service.UpdateCompany(employee, 1, company.UpdateCompanyDTO{Name: &name})

			Expect(err).To(Equal(internal.ErrForbidden))
		})
	})

	Describe("DeleteCompany", func() {
		BeforeEach(func() {
			repo.Create(&company.Company{Name: "Acme Manufacturing", IsActive: true})
		})

		It("should let a platform admin delete a tenant", func() {
			Expect(service.DeleteCompany(platformAdmin, 1)).To(Succeed())

			_, err := repo.GetByID(1)
			Expect(err).To(HaveOccurred())
		})

		It("should forbid company admins", func() {
			err := service.DeleteCompany(adminOf(1), 1)
			Expect(err).To(Equal(internal.ErrForbidden))
		})
	})
})
