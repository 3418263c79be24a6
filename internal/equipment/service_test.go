package equipment_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/equipment"
)

func TestEquipment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Equipment Module Suite")
}

// Mock repository for testing
type mockEquipmentRepository struct {
	items  map[int64]*equipment.Equipment
	nextID int64
}

func newMockEquipmentRepository() *mockEquipmentRepository {
	return &mockEquipmentRepository{items: make(map[int64]*equipment.Equipment), nextID: 1}
}

func (m *mockEquipmentRepository) Create(e *equipment.Equipment) error {
	e.ID = m.nextID
	m.nextID++
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()
	m.items[e.ID] = e
	return nil
}

func (m *mockEquipmentRepository) GetByID(id int64, scope internal.Scope) (*equipment.Equipment, error) {
	e, exists := m.items[id]
	if !exists {
		return nil, internal.ErrEquipmentNotFound
	}
	if scope.CompanyID != nil && e.CompanyID != *scope.CompanyID {
		return nil, internal.ErrEquipmentNotFound
	}
	clone := *e
	return &clone, nil
}

func (m *mockEquipmentRepository) List(scope internal.Scope, filter equipment.ListFilter) ([]*equipment.Equipment, error) {
	var out []*equipment.Equipment
	for _, e := range m.items {
		if scope.CompanyID != nil && e.CompanyID != *scope.CompanyID {
			continue
		}
		if filter.Department != "" && e.Department != filter.Department {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.AssignedTo != nil && (e.AssignedTo == nil || *e.AssignedTo != *filter.AssignedTo) {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockEquipmentRepository) Update(e *equipment.Equipment) error {
	clone := *e
	m.items[e.ID] = &clone
	return nil
}

func (m *mockEquipmentRepository) Delete(id int64, scope internal.Scope) error {
	delete(m.items, id)
	return nil
}

type mockOpenCounter struct {
	counts map[int64]int64
}

func (m *mockOpenCounter) CountOpenByEquipment(equipmentID int64) (int64, error) {
	return m.counts[equipmentID], nil
}

var _ = Describe("EquipmentService", func() {
	var (
		service  *equipment.Service
		mockRepo *mockEquipmentRepository
		counter  *mockOpenCounter
		admin    *internal.Caller
	)

	BeforeEach(func() {
		mockRepo = newMockEquipmentRepository()
		counter = &mockOpenCounter{counts: make(map[int64]int64)}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = equipment.NewService(mockRepo, counter, logger)

		companyID := int64(1)
		admin = &internal.Caller{ID: 1, Role: internal.RoleCompanyAdmin, CompanyID: &companyID}
	})

	Describe("CreateEquipment", func() {
		It("should create equipment in the caller's company with ACTIVE status", func() {
			e, err := service.CreateEquipment(admin, equipment.CreateEquipmentDTO{
				Name:         "Hydraulic Press",
				SerialNumber: "PRS-001",
				Department:   "Production",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(e.CompanyID).To(Equal(int64(1)))
			Expect(e.Status).To(Equal(equipment.StatusActive))
			Expect(e.CreatedBy).To(Equal(admin.ID))
		})

		It("should require name and serial number", func() {
			_, err := service.CreateEquipment(admin, equipment.CreateEquipmentDTO{Name: "Press"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("GetEquipment", func() {
		It("should include the open request count", func() {
			e, err := service.CreateEquipment(admin, equipment.CreateEquipmentDTO{
				Name:         "Hydraulic Press",
				SerialNumber: "PRS-001",
			})
			Expect(err).ToNot(HaveOccurred())
			counter.counts[e.ID] = 3

			detail, err := service.GetEquipment(admin, e.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(detail.OpenRequestCount).To(Equal(int64(3)))
		})

		It("should hide equipment of other companies behind not found", func() {
			e, err := service.CreateEquipment(admin, equipment.CreateEquipmentDTO{
				Name:         "Hydraulic Press",
				SerialNumber: "PRS-001",
			})
			Expect(err).ToNot(HaveOccurred())

			otherCompany := int64(2)
			outsider := &internal.Caller{ID: 2, Role: internal.RoleCompanyAdmin, CompanyID: &otherCompany}

			_, err = service.GetEquipment(outsider, e.ID)

			Expect(err).To(Equal(internal.ErrEquipmentNotFound))
		})
	})

	Describe("UpdateEquipment", func() {
		It("should merge only the provided fields", func() {
			e, err := service.CreateEquipment(admin, equipment.CreateEquipmentDTO{
				Name:         "Hydraulic Press",
				SerialNumber: "PRS-001",
				Location:     "Hall A",
			})
			Expect(err).ToNot(HaveOccurred())

			location := "Hall B"
			updated, err := service.UpdateEquipment(admin, e.ID, equipment.UpdateEquipmentDTO{Location: &location})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Location).To(Equal("Hall B"))
			Expect(updated.Name).To(Equal("Hydraulic Press"))
		})

		It("should reject an unknown status", func() {
			e, err := service.CreateEquipment(admin, equipment.CreateEquipmentDTO{
				Name:         "Hydraulic Press",
				SerialNumber: "PRS-001",
			})
			Expect(err).ToNot(HaveOccurred())

			bogus := equipment.Status("BROKEN")
			_, err = service.UpdateEquipment(admin, e.ID, equipment.UpdateEquipmentDTO{Status: &bogus})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})
})
