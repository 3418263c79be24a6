package request_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/request"
)

func TestRequest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Request Module Suite")
}

var _ = Describe("PlanTransition", func() {
	var current *request.Request

	BeforeEach(func() {
		current = &request.Request{
			ID:          1,
			CompanyID:   1,
			RequestedBy: 10,
			EquipmentID: 5,
			Status:      request.StatusNew,
		}
	})

	Context("when the request is already terminal", func() {
		It("should reject updates against a repaired request", func() {
			current.Status = request.StatusRepaired

			status := request.StatusInProgress
			_, err := request.PlanTransition(current, &status, nil, 42)

			Expect(err).To(Equal(internal.ErrRequestTerminal))
		})

		It("should reject updates against a scrapped request", func() {
			current.Status = request.StatusScrap

			_, err := request.PlanTransition(current, nil, nil, 42)

			Expect(err).To(Equal(internal.ErrRequestTerminal))
		})
	})

	Context("when moving to SCRAP", func() {
		It("should plan the equipment cascade", func() {
			status := request.StatusScrap

			plan, err := request.PlanTransition(current, &status, nil, 42)

			Expect(err).ToNot(HaveOccurred())
			Expect(plan.ScrapEquipment).To(BeTrue())
			Expect(plan.AssignTo).To(BeNil())
		})
	})

	Context("when moving to IN_PROGRESS", func() {
		It("should claim the request for the caller when unassigned", func() {
			status := request.StatusInProgress

			plan, err := request.PlanTransition(current, &status, nil, 42)

			Expect(err).ToNot(HaveOccurred())
			Expect(plan.AssignTo).ToNot(BeNil())
			Expect(*plan.AssignTo).To(Equal(int64(42)))
		})

		It("should not overwrite an existing assignee", func() {
			existing := int64(7)
			current.AssignedTo = &existing
			status := request.StatusInProgress

			plan, err := request.PlanTransition(current, &status, nil, 42)

			Expect(err).ToNot(HaveOccurred())
			Expect(plan.AssignTo).To(BeNil())
		})

		It("should defer to an assignee named in the payload", func() {
			payloadAssignee := int64(9)
			status := request.StatusInProgress

			plan, err := request.PlanTransition(current, &status, &payloadAssignee, 42)

			Expect(err).ToNot(HaveOccurred())
			Expect(plan.AssignTo).To(BeNil())
		})
	})

	Context("when no status change is requested", func() {
		It("should plan no side effects", func() {
			plan, err := request.PlanTransition(current, nil, nil, 42)

			Expect(err).ToNot(HaveOccurred())
			Expect(plan.ScrapEquipment).To(BeFalse())
			Expect(plan.AssignTo).To(BeNil())
		})
	})

	Context("when moving to REPAIRED", func() {
		It("should plan no side effects", func() {
			status := request.StatusRepaired

			plan, err := request.PlanTransition(current, &status, nil, 42)

			Expect(err).ToNot(HaveOccurred())
			Expect(plan.ScrapEquipment).To(BeFalse())
			Expect(plan.AssignTo).To(BeNil())
		})
	})
})

var _ = Describe("Priority", func() {
	It("should rank priorities from critical down to low", func() {
		Expect(request.PriorityCritical.Rank()).To(BeNumerically(">", request.PriorityHigh.Rank()))
		Expect(request.PriorityHigh.Rank()).To(BeNumerically(">", request.PriorityMedium.Rank()))
		Expect(request.PriorityMedium.Rank()).To(BeNumerically(">", request.PriorityLow.Rank()))
	})
})
