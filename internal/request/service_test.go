package request_test

import (
	"log/slog"
	"os"
	"sort"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/request"
)

// Mock repository for testing
type mockRequestRepository struct {
	requests map[int64]*request.Request
	nextID   int64
	clock    time.Time
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{
		requests: make(map[int64]*request.Request),
		nextID:   1,
		clock:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *mockRequestRepository) Create(req *request.Request) error {
	req.ID = m.nextID
	m.nextID++
	m.clock = m.clock.Add(time.Minute)
	req.CreatedAt = m.clock
	req.UpdatedAt = m.clock
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepository) GetByID(id int64, scope internal.Scope) (*request.Request, error) {
	req, exists := m.requests[id]
	if !exists {
		return nil, internal.ErrRequestNotFound
	}
	if scope.CompanyID != nil && req.CompanyID != *scope.CompanyID {
		return nil, internal.ErrRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (m *mockRequestRepository) List(scope internal.Scope, filter request.ListFilter) ([]*request.Request, error) {
	var out []*request.Request
	for _, req := range m.requests {
		if scope.CompanyID != nil && req.CompanyID != *scope.CompanyID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.RequestType != "" && req.RequestType != filter.RequestType {
			continue
		}
		if filter.EquipmentID != nil && req.EquipmentID != *filter.EquipmentID {
			continue
		}
		if filter.AssignedTo != nil && (req.AssignedTo == nil || *req.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.MaintenanceTeamID != nil && (req.MaintenanceTeamID == nil || *req.MaintenanceTeamID != *filter.MaintenanceTeamID) {
			continue
		}
		clone := *req
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockRequestRepository) Update(req *request.Request) error {
	clone := *req
	m.requests[req.ID] = &clone
	return nil
}

func (m *mockRequestRepository) Delete(id int64, scope internal.Scope) error {
	delete(m.requests, id)
	return nil
}

// Mock equipment store for testing
type mockEquipmentStore struct {
	refs       map[int64]*request.EquipmentRef
	companies  map[int64]int64
	scrapCalls int
}

func newMockEquipmentStore() *mockEquipmentStore {
	return &mockEquipmentStore{
		refs:      make(map[int64]*request.EquipmentRef),
		companies: make(map[int64]int64),
	}
}

func (m *mockEquipmentStore) add(id, companyID int64, status string) {
	m.refs[id] = &request.EquipmentRef{ID: id, Name: "Press", SerialNumber: "SN-1", Status: status}
	m.companies[id] = companyID
}

func (m *mockEquipmentStore) GetRef(id int64, scope internal.Scope) (*request.EquipmentRef, error) {
	ref, exists := m.refs[id]
	if !exists {
		return nil, internal.ErrEquipmentNotFound
	}
	if scope.CompanyID != nil && m.companies[id] != *scope.CompanyID {
		return nil, internal.ErrEquipmentNotFound
	}
	clone := *ref
	return &clone, nil
}

func (m *mockEquipmentStore) MarkScrapped(id int64) error {
	m.scrapCalls++
	if ref, exists := m.refs[id]; exists {
		ref.Status = "SCRAPPED"
	}
	return nil
}

// Mock directory for testing
type mockDirectory struct{}

func (mockDirectory) UserRefs(ids []int64) (map[int64]request.UserRef, error) {
	refs := make(map[int64]request.UserRef, len(ids))
	for _, id := range ids {
		refs[id] = request.UserRef{ID: id, Name: "user", Email: "user@test.example"}
	}
	return refs, nil
}

func (mockDirectory) TeamRefs(ids []int64) (map[int64]request.TeamRef, error) {
	refs := make(map[int64]request.TeamRef, len(ids))
	for _, id := range ids {
		refs[id] = request.TeamRef{ID: id, Name: "team"}
	}
	return refs, nil
}

func (mockDirectory) EquipmentRefs(ids []int64) (map[int64]request.EquipmentRef, error) {
	refs := make(map[int64]request.EquipmentRef, len(ids))
	for _, id := range ids {
		refs[id] = request.EquipmentRef{ID: id, Name: "Press", SerialNumber: "SN-1", Status: "ACTIVE"}
	}
	return refs, nil
}

func companyCaller(id int64, role internal.Role, companyID int64) *internal.Caller {
	cid := companyID
	return &internal.Caller{ID: id, Name: "caller", Email: "caller@test.example", Role: role, CompanyID: &cid}
}

var _ = Describe("RequestService", func() {
	var (
		service   *request.Service
		mockRepo  *mockRequestRepository
		equipment *mockEquipmentStore
		logger    *slog.Logger

		employee *internal.Caller
		mechanic *internal.Caller
	)

	BeforeEach(func() {
		mockRepo = newMockRequestRepository()
		equipment = newMockEquipmentStore()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = request.NewService(mockRepo, equipment, mockDirectory{}, logger)

		employee = companyCaller(10, internal.RoleEmployee, 1)
		mechanic = companyCaller(20, internal.RoleMaintenanceTeam, 1)
		teamID := int64(3)
		mechanic.MaintenanceTeamID = &teamID

		equipment.add(5, 1, "ACTIVE")
	})

	createRequest := func(caller *internal.Caller) *request.View {
		view, err := service.CreateRequest(caller, request.CreateRequestDTO{
			EquipmentID: 5,
			RequestType: request.TypeCorrective,
			Subject:     "press is jammed",
		})
		Expect(err).ToNot(HaveOccurred())
		return view
	}

	Describe("CreateRequest", func() {
		It("should force company and requester from the caller", func() {
			// Given
			dto := request.CreateRequestDTO{
				EquipmentID: 5,
				RequestType: request.TypeCorrective,
				Subject:     "press is jammed",
			}

			// When
			view, err := service.CreateRequest(employee, dto)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(view.CompanyID).To(Equal(int64(1)))
			Expect(view.RequestedBy).To(Equal(employee.ID))
			Expect(view.Status).To(Equal(request.StatusNew))
			Expect(view.Priority).To(Equal(request.PriorityMedium))
			Expect(view.AssignedTo).To(BeNil())
		})

		It("should reject equipment outside the caller's company", func() {
			equipment.add(9, 2, "ACTIVE")

			_, err := service.CreateRequest(employee, request.CreateRequestDTO{
				EquipmentID: 9,
				RequestType: request.TypeCorrective,
				Subject:     "not my machine",
			})

			Expect(err).To(Equal(internal.ErrEquipmentNotFound))
		})

		It("should reject a payload without a subject", func() {
			_, err := service.CreateRequest(employee, request.CreateRequestDTO{
				EquipmentID: 5,
				RequestType: request.TypeCorrective,
			})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("UpdateRequest", func() {
		Context("when moving a request to SCRAP", func() {
			It("should scrap the equipment as well", func() {
				view := createRequest(employee)

				status := request.StatusScrap
				updated, err := service.UpdateRequest(mechanic, view.ID, request.UpdateRequestDTO{Status: &status})

				Expect(err).ToNot(HaveOccurred())
				Expect(updated.Status).To(Equal(request.StatusScrap))
				Expect(equipment.refs[5].Status).To(Equal("SCRAPPED"))
				Expect(equipment.scrapCalls).To(Equal(1))
			})

			It("should skip the cascade when the equipment is already scrapped", func() {
				view := createRequest(employee)
				equipment.refs[5].Status = "SCRAPPED"

				status := request.StatusScrap
				_, err := service.UpdateRequest(mechanic, view.ID, request.UpdateRequestDTO{Status: &status})

				Expect(err).ToNot(HaveOccurred())
				Expect(equipment.scrapCalls).To(Equal(0))
			})

			It("should tolerate a dangling equipment reference", func() {
				view := createRequest(employee)
				delete(equipment.refs, 5)

				status := request.StatusScrap
				updated, err := service.UpdateRequest(mechanic, view.ID, request.UpdateRequestDTO{Status: &status})

				Expect(err).ToNot(HaveOccurred())
				Expect(updated.Status).To(Equal(request.StatusScrap))
			})
		})

		Context("when moving a request to IN_PROGRESS", func() {
			It("should claim the request for the caller when unassigned", func() {
				view := createRequest(employee)

				status := request.StatusInProgress
				updated, err := service.UpdateRequest(mechanic, view.ID, request.UpdateRequestDTO{Status: &status})

				Expect(err).ToNot(HaveOccurred())
				Expect(updated.AssignedTo).ToNot(BeNil())
				Expect(*updated.AssignedTo).To(Equal(mechanic.ID))
			})

			It("should not overwrite an existing assignee", func() {
				view := createRequest(employee)
				other := int64(99)
				assigned := mockRepo.requests[view.ID]
				assigned.AssignedTo = &other

				status := request.StatusInProgress
				updated, err := service.UpdateRequest(mechanic, view.ID, request.UpdateRequestDTO{Status: &status})

				Expect(err).ToNot(HaveOccurred())
				Expect(*updated.AssignedTo).To(Equal(other))
			})

			It("should honor an assignee named in the payload", func() {
				view := createRequest(employee)

				status := request.StatusInProgress
				named := int64(77)
				updated, err := service.UpdateRequest(mechanic, view.ID, request.UpdateRequestDTO{
					Status:     &status,
					AssignedTo: &named,
				})

				Expect(err).ToNot(HaveOccurred())
				Expect(*updated.AssignedTo).To(Equal(named))
			})
		})

		Context("when the request is terminal", func() {
			It("should reject any further update", func() {
				view := createRequest(employee)
				mockRepo.requests[view.ID].Status = request.StatusRepaired

				subject := "reopen please"
				_, err := service.UpdateRequest(employee, view.ID, request.UpdateRequestDTO{Subject: &subject})

				Expect(err).To(Equal(internal.ErrRequestTerminal))
			})
		})

		Context("when the request belongs to another company", func() {
			It("should report not found, never forbidden", func() {
				view := createRequest(employee)
				outsider := companyCaller(30, internal.RoleCompanyAdmin, 2)

				subject := "poking around"
				_, err := service.UpdateRequest(outsider, view.ID, request.UpdateRequestDTO{Subject: &subject})

				Expect(err).To(Equal(internal.ErrRequestNotFound))
			})
		})
	})

	Describe("ClaimRequest", func() {
		It("should assign the request and move it to IN_PROGRESS", func() {
			view := createRequest(employee)

			claimed, err := service.ClaimRequest(mechanic, view.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(*claimed.AssignedTo).To(Equal(mechanic.ID))
			Expect(claimed.Status).To(Equal(request.StatusInProgress))
		})

		It("should conflict when the request is already assigned", func() {
			view := createRequest(employee)
			_, err := service.ClaimRequest(mechanic, view.ID)
			Expect(err).ToNot(HaveOccurred())

			second := companyCaller(21, internal.RoleMaintenanceTeam, 1)
			_, err = service.ClaimRequest(second, view.ID)

			Expect(err).To(Equal(internal.ErrAlreadyClaimed))
		})

		It("should conflict even when the caller already holds the assignment", func() {
			view := createRequest(employee)
			_, err := service.ClaimRequest(mechanic, view.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ClaimRequest(mechanic, view.ID)

			Expect(err).To(Equal(internal.ErrAlreadyClaimed))
		})

		It("should refuse callers outside the maintenance team role", func() {
			view := createRequest(employee)

			_, err := service.ClaimRequest(employee, view.ID)

			Expect(err).To(Equal(internal.ErrForbidden))
		})
	})

	Describe("DashboardStats", func() {
		Context("for a maintenance team caller", func() {
			It("should partition assigned, completed and team-unassigned work", func() {
				mechID := mechanic.ID
				teamID := *mechanic.MaintenanceTeamID

				// Two active assignments, one completed, one scrapped.
				for _, st := range []request.Status{request.StatusInProgress, request.StatusInProgress, request.StatusRepaired, request.StatusScrap} {
					req := &request.Request{
						CompanyID:   1,
						RequestedBy: employee.ID,
						EquipmentID: 5,
						RequestType: request.TypeCorrective,
						Subject:     "assigned work",
						Priority:    request.PriorityMedium,
						Status:      st,
						AssignedTo:  &mechID,
					}
					Expect(mockRepo.Create(req)).To(Succeed())
				}
				// One unassigned request in the mechanic's team.
				Expect(mockRepo.Create(&request.Request{
					CompanyID:         1,
					RequestedBy:       employee.ID,
					EquipmentID:       5,
					RequestType:       request.TypeCorrective,
					Subject:           "team backlog",
					Priority:          request.PriorityMedium,
					Status:            request.StatusNew,
					MaintenanceTeamID: &teamID,
				})).To(Succeed())

				stats, err := service.DashboardStats(mechanic)

				Expect(err).ToNot(HaveOccurred())
				teamStats, ok := stats.(*request.TeamStats)
				Expect(ok).To(BeTrue())
				Expect(teamStats.AssignedToMe).To(Equal(int64(2)))
				Expect(teamStats.CompletedByMe).To(Equal(int64(1)))
				Expect(teamStats.TeamUnassigned).To(Equal(int64(1)))
				// Active work spans both assignments and the claimable backlog.
				Expect(teamStats.ActiveTasks).To(HaveLen(3))
			})

			It("should surface the unassigned team backlog in active tasks", func() {
				teamID := *mechanic.MaintenanceTeamID

				Expect(mockRepo.Create(&request.Request{
					CompanyID:         1,
					RequestedBy:       employee.ID,
					EquipmentID:       5,
					RequestType:       request.TypeCorrective,
					Subject:           "nobody claimed this yet",
					Priority:          request.PriorityMedium,
					Status:            request.StatusNew,
					MaintenanceTeamID: &teamID,
				})).To(Succeed())

				stats, err := service.DashboardStats(mechanic)

				Expect(err).ToNot(HaveOccurred())
				teamStats := stats.(*request.TeamStats)
				Expect(teamStats.AssignedToMe).To(Equal(int64(0)))
				Expect(teamStats.TeamUnassigned).To(Equal(int64(1)))
				Expect(teamStats.ActiveTasks).To(HaveLen(1))
				Expect(teamStats.ActiveTasks[0].Subject).To(Equal("nobody claimed this yet"))
				Expect(teamStats.ActiveTasks[0].AssignedTo).To(BeNil())
			})

			It("should order active tasks by priority then recency, capped at five", func() {
				mechID := mechanic.ID
				priorities := []request.Priority{
					request.PriorityLow,
					request.PriorityMedium,
					request.PriorityCritical,
					request.PriorityHigh,
					request.PriorityMedium,
					request.PriorityCritical,
					request.PriorityLow,
				}
				for _, p := range priorities {
					req := &request.Request{
						CompanyID:   1,
						RequestedBy: employee.ID,
						EquipmentID: 5,
						RequestType: request.TypeCorrective,
						Subject:     "task",
						Priority:    p,
						Status:      request.StatusInProgress,
						AssignedTo:  &mechID,
					}
					Expect(mockRepo.Create(req)).To(Succeed())
				}
				// A critical unassigned team request, created last, ranks with
				// the assignments and leads as the newest critical entry.
				teamID := *mechanic.MaintenanceTeamID
				Expect(mockRepo.Create(&request.Request{
					CompanyID:         1,
					RequestedBy:       employee.ID,
					EquipmentID:       5,
					RequestType:       request.TypeCorrective,
					Subject:           "backlog",
					Priority:          request.PriorityCritical,
					Status:            request.StatusNew,
					MaintenanceTeamID: &teamID,
				})).To(Succeed())

				stats, err := service.DashboardStats(mechanic)

				Expect(err).ToNot(HaveOccurred())
				teamStats := stats.(*request.TeamStats)
				Expect(teamStats.ActiveTasks).To(HaveLen(5))

				ranks := make([]int, 0, 5)
				for _, task := range teamStats.ActiveTasks {
					ranks = append(ranks, task.Priority.Rank())
				}
				Expect(sort.SliceIsSorted(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })).To(BeTrue())

				// The three CRITICAL tasks lead, newest first, with the
				// unassigned backlog entry on top.
				Expect(teamStats.ActiveTasks[0].Subject).To(Equal("backlog"))
				Expect(teamStats.ActiveTasks[0].Priority).To(Equal(request.PriorityCritical))
				Expect(teamStats.ActiveTasks[1].Priority).To(Equal(request.PriorityCritical))
				Expect(teamStats.ActiveTasks[2].Priority).To(Equal(request.PriorityCritical))
				Expect(teamStats.ActiveTasks[1].CreatedAt.After(teamStats.ActiveTasks[2].CreatedAt)).To(BeTrue())
			})

			It("should report zero team backlog for a caller without a team", func() {
				loner := companyCaller(22, internal.RoleMaintenanceTeam, 1)

				stats, err := service.DashboardStats(loner)

				Expect(err).ToNot(HaveOccurred())
				teamStats := stats.(*request.TeamStats)
				Expect(teamStats.TeamUnassigned).To(Equal(int64(0)))
			})
		})

		Context("for an employee caller", func() {
			It("should partition my requests into open plus completed", func() {
				createRequest(employee)
				view := createRequest(employee)
				mockRepo.requests[view.ID].Status = request.StatusRepaired
				scrapped := createRequest(employee)
				mockRepo.requests[scrapped.ID].Status = request.StatusScrap

				// Someone else's request must not count.
				createRequest(companyCaller(11, internal.RoleEmployee, 1))

				stats, err := service.DashboardStats(employee)

				Expect(err).ToNot(HaveOccurred())
				reqStats, ok := stats.(*request.RequesterStats)
				Expect(ok).To(BeTrue())
				Expect(reqStats.MyRequests).To(Equal(int64(3)))
				Expect(reqStats.OpenRequests).To(Equal(int64(1)))
				Expect(reqStats.CompletedRequests).To(Equal(int64(2)))
				Expect(reqStats.MyRequests).To(Equal(reqStats.OpenRequests + reqStats.CompletedRequests))
			})
		})
	})

	Describe("DeleteRequest", func() {
		It("should let the requester delete their own NEW request", func() {
			view := createRequest(employee)

			Expect(service.DeleteRequest(employee, view.ID)).To(Succeed())
		})

		It("should refuse the requester once work has started", func() {
			view := createRequest(employee)
			mockRepo.requests[view.ID].Status = request.StatusInProgress

			err := service.DeleteRequest(employee, view.ID)

			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("should let a company admin delete regardless of status", func() {
			view := createRequest(employee)
			mockRepo.requests[view.ID].Status = request.StatusInProgress
			admin := companyCaller(40, internal.RoleCompanyAdmin, 1)

			Expect(service.DeleteRequest(admin, view.ID)).To(Succeed())
		})
	})
})
