package allocation

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/limaJavier/invigilation/pkg/model"
	"github.com/limaJavier/invigilation/pkg/report"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const date = "2025-03-03"

func professors(ids ...string) []model.Faculty {
	return lo.Map(ids, func(id string, i int) model.Faculty {
		return model.Faculty{SNo: i + 1, FacultyId: id, Name: "Faculty " + id, Designation: "Professor"}
	})
}

func regularSlot(day, slot int, rooms ...string) model.DutySlot {
	return model.DutySlot{
		Day:           day,
		Slot:          slot,
		Date:          fmt.Sprintf("2025-03-%02d", 3+day),
		RegularDuties: len(rooms),
		Rooms:         rooms,
	}
}

func singleSlotInput(faculty []model.Faculty, slot model.DutySlot) model.ModelInput {
	return model.ModelInput{
		Faculty: faculty,
		Structure: model.ExamStructure{
			Days:                  1,
			DutySlots:             []model.DutySlot{slot},
			DesignationDutyCounts: map[string]int{"Professor": 2},
		},
	}
}

func kinds(violations []model.Violation) []model.ViolationKind {
	return lo.Map(violations, func(violation model.Violation, _ int) model.ViolationKind { return violation.Id })
}

func allocate(t *testing.T, input model.ModelInput, options ...Option) Allocation {
	t.Helper()
	allocation, err := NewGreedyAllocator(options...).Allocate(context.Background(), input)
	require.NoError(t, err)
	return allocation
}

func TestRegularDutiesFillRooms(t *testing.T) {
	// Arrange
	input := singleSlotInput(professors("F1", "F2", "F3"), regularSlot(0, 0, "R1", "R2"))

	// Act
	allocation := allocate(t, input)

	// Assert
	assert.True(t, allocation.Success())
	assert.Equal(t, []model.Assignment{
		{Day: 0, Slot: 0, FacultyId: "F1", Role: model.RoleRegular, RoomNumber: "R1"},
		{Day: 0, Slot: 0, FacultyId: "F2", Role: model.RoleRegular, RoomNumber: "R2"},
	}, allocation.Assignments)
	assert.Empty(t, allocation.IncompleteSlots)
	assert.Empty(t, allocation.Violations)
}

func TestUnavailableFacultyIsSkipped(t *testing.T) {
	// Arrange
	input := singleSlotInput(professors("F1", "F2", "F3"), regularSlot(0, 0, "R1", "R2"))
	input.Unavailable = []model.UnavailableFaculty{{FacultyId: "F1", Date: date}}

	// Act
	allocation := allocate(t, input)

	// Assert
	ids := lo.Map(allocation.Assignments, func(assignment model.Assignment, _ int) string { return assignment.FacultyId })
	assert.Equal(t, []string{"F2", "F3"}, ids)
	assert.True(t, allocation.Success())
}

func TestRoomMismatch(t *testing.T) {
	// Arrange
	slot := regularSlot(0, 0, "R1")
	slot.RegularDuties = 2
	input := singleSlotInput(professors("F1", "F2", "F3"), slot)

	// Act
	allocation := allocate(t, input)

	// Assert
	assert.False(t, allocation.Success())
	assert.Equal(t, []model.ViolationKind{model.RoomMismatch}, kinds(allocation.Violations))
	require.Len(t, allocation.Assignments, 1)
	assert.Equal(t, "R1", allocation.Assignments[0].RoomNumber)
	assert.Equal(t, []model.IncompleteSlot{{Day: 0, Slot: 0, Role: model.RoleRegular, Needed: 2, Assigned: 1}}, allocation.IncompleteSlots)
}

func TestSurplusRoomsStayUnassigned(t *testing.T) {
	slot := regularSlot(0, 0, "R1", "R2", "R3")
	slot.RegularDuties = 2
	input := singleSlotInput(professors("F1", "F2", "F3"), slot)

	allocation := allocate(t, input)

	assert.False(t, allocation.Success())
	assert.Len(t, allocation.Assignments, 2)
	assert.Equal(t, []model.ViolationKind{model.RoomMismatch}, kinds(allocation.Violations))
	assert.Empty(t, allocation.IncompleteSlots)
}

func TestRolesAreFilledInPriorityOrder(t *testing.T) {
	// Arrange
	slot := regularSlot(0, 0, "R1", "R2", "R3", "R4", "R5")
	slot.RelieverDuties = 2
	slot.SquadDuties = 1
	slot.BufferDuties = 1
	input := singleSlotInput(professors("F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9"), slot)

	// Act
	allocation := allocate(t, input)

	// Assert
	require.Len(t, allocation.Assignments, 9)
	roles := lo.Map(allocation.Assignments, func(assignment model.Assignment, _ int) model.Role { return assignment.Role })
	assert.Equal(t, []model.Role{
		model.RoleRegular, model.RoleRegular, model.RoleRegular, model.RoleRegular, model.RoleRegular,
		model.RoleReliever, model.RoleReliever, model.RoleSquad, model.RoleBuffer,
	}, roles)

	relievers := lo.Filter(allocation.Assignments, func(assignment model.Assignment, _ int) bool {
		return assignment.Role == model.RoleReliever
	})
	assert.Equal(t, []string{"R1", "R2", "R3"}, relievers[0].Rooms)
	assert.Equal(t, []string{"R4", "R5"}, relievers[1].Rooms)
	assert.Equal(t, slot.Rooms, allocation.Assignments[7].Rooms)
	assert.Empty(t, allocation.Assignments[8].Rooms)
	assert.Empty(t, allocation.Assignments[8].RoomNumber)
	assert.True(t, allocation.Success())
}

func TestNobodyHoldsTwoDutiesInASlot(t *testing.T) {
	// Arrange
	slot := regularSlot(0, 0, "R1", "R2")
	slot.RelieverDuties = 1
	slot.SquadDuties = 1
	slot.BufferDuties = 1
	input := singleSlotInput(professors("F1", "F2", "F3"), slot)

	// Act
	allocation := allocate(t, input)

	// Assert
	assert.Len(t, allocation.Assignments, 3)
	assert.Empty(t, report.Violations(input, allocation.Assignments))
	assert.True(t, report.Verify(allocation.Assignments, input))
	assert.False(t, allocation.Success())
	assert.ElementsMatch(t, []model.ViolationKind{model.NoEligibleSquad, model.NoEligibleBuffer}, kinds(allocation.Violations))
	assert.Len(t, allocation.IncompleteSlots, 2)
}

func TestBufferEligibility(t *testing.T) {
	// Arrange
	faculty := []model.Faculty{
		{FacultyId: "F1", Name: "One", Designation: "Professor"},
		{FacultyId: "F2", Name: "Two", Designation: "Professor"},
		{FacultyId: "F3", Name: "Three", Designation: "Assistant Professor"},
	}
	slot := regularSlot(0, 0, "R1")
	slot.BufferDuties = 2
	input := singleSlotInput(faculty, slot)
	input.Structure.DesignationBufferEligibility = map[string]bool{"Professor": false, "Assistant Professor": true}

	// Act
	allocation := allocate(t, input)

	// Assert
	buffers := lo.Filter(allocation.Assignments, func(assignment model.Assignment, _ int) bool {
		return assignment.Role == model.RoleBuffer
	})
	require.Len(t, buffers, 1)
	assert.Equal(t, "F3", buffers[0].FacultyId)
	assert.Equal(t, []model.ViolationKind{model.NoEligibleBuffer}, kinds(allocation.Violations))
	assert.Equal(t, []model.IncompleteSlot{{Day: 0, Slot: 0, Role: model.RoleBuffer, Needed: 2, Assigned: 1}}, allocation.IncompleteSlots)
}

func TestRankingFollowsTargets(t *testing.T) {
	// Arrange
	faculty := []model.Faculty{
		{FacultyId: "F1", Name: "One", Designation: "Professor"},
		{FacultyId: "F2", Name: "Two", Designation: "Assistant Professor"},
	}
	slots := []model.DutySlot{regularSlot(0, 0, "R1"), regularSlot(2, 0, "R1"), regularSlot(4, 0, "R1"), regularSlot(6, 0, "R1")}
	input := model.ModelInput{
		Faculty: faculty,
		Structure: model.ExamStructure{
			Days:                  7,
			DutySlots:             slots,
			DesignationDutyCounts: map[string]int{"Professor": 1, "Assistant Professor": 3},
		},
	}

	// Act
	allocation := allocate(t, input)

	// Assert
	ids := lo.Map(allocation.Assignments, func(assignment model.Assignment, _ int) string { return assignment.FacultyId })
	assert.Equal(t, []string{"F1", "F2", "F2", "F2"}, ids)
	assert.Empty(t, allocation.Warnings)
}

func TestZeroTargetFacultyGoLast(t *testing.T) {
	faculty := []model.Faculty{
		{FacultyId: "F1", Name: "One", Designation: "Guest"},
		{FacultyId: "F2", Name: "Two", Designation: "Professor"},
	}
	input := singleSlotInput(faculty, regularSlot(0, 0, "R1"))

	allocation := allocate(t, input)

	require.Len(t, allocation.Assignments, 1)
	assert.Equal(t, "F2", allocation.Assignments[0].FacultyId)
}

func TestBackToBackCandidatesAreDeferred(t *testing.T) {
	// Arrange
	faculty := append(professors("F1", "F2"), model.Faculty{FacultyId: "F3", Name: "Three", Designation: "Guest"})
	first := regularSlot(0, 0, "R1", "R2")
	second := regularSlot(0, 1, "R1")
	second.Date = first.Date
	input := model.ModelInput{
		Faculty: faculty,
		Structure: model.ExamStructure{
			Days:                  1,
			DutySlots:             []model.DutySlot{second, first},
			DesignationDutyCounts: map[string]int{"Professor": 2},
		},
	}

	// Act
	allocation := allocate(t, input)

	// Assert
	require.Len(t, allocation.Assignments, 3)
	assert.Equal(t, "F3", allocation.Assignments[2].FacultyId)
	assert.Empty(t, allocation.Violations)
	assert.True(t, allocation.Success())
}

func backToBackInput() model.ModelInput {
	first := regularSlot(0, 0, "R1")
	second := regularSlot(1, 0, "R1")
	return model.ModelInput{
		Faculty: professors("F1"),
		Structure: model.ExamStructure{
			Days:                  2,
			DutySlots:             []model.DutySlot{first, second},
			DesignationDutyCounts: map[string]int{"Professor": 2},
		},
	}
}

func TestLenientBackToBack(t *testing.T) {
	// Act
	allocation := allocate(t, backToBackInput())

	// Assert
	assert.Len(t, allocation.Assignments, 2)
	require.Len(t, allocation.Violations, 1)
	assert.Equal(t, model.BackToBack, allocation.Violations[0].Id)
	assert.Equal(t, model.SlotKey{Day: 1, Slot: 0}, allocation.Violations[0].Key())
	assert.Equal(t, "F1", allocation.Violations[0].FacultyId)
	assert.True(t, allocation.Success())
}

func TestStrictBackToBack(t *testing.T) {
	// Act
	allocation := allocate(t, backToBackInput(), WithPolicy(model.Policy{BackToBack: model.Strict, QuotaOverrun: model.Lenient}))

	// Assert
	assert.Len(t, allocation.Assignments, 1)
	assert.Equal(t, []model.ViolationKind{model.BackToBack}, kinds(allocation.Violations))
	assert.Equal(t, []model.IncompleteSlot{{Day: 1, Slot: 0, Role: model.RoleRegular, Needed: 1, Assigned: 0}}, allocation.IncompleteSlots)
	assert.False(t, allocation.Success())
}

func quotaInput() model.ModelInput {
	return model.ModelInput{
		Faculty: professors("F1"),
		Structure: model.ExamStructure{
			Days:                  3,
			DutySlots:             []model.DutySlot{regularSlot(0, 0, "R1"), regularSlot(2, 0, "R1")},
			DesignationDutyCounts: map[string]int{"Professor": 1},
		},
	}
}

func TestLenientQuotaOverrun(t *testing.T) {
	allocation := allocate(t, quotaInput())

	assert.Len(t, allocation.Assignments, 2)
	require.Len(t, allocation.Warnings, 1)
	assert.Contains(t, allocation.Warnings[0], "F1")
	assert.True(t, allocation.Success())
}

func TestStrictQuotaOverrun(t *testing.T) {
	allocation := allocate(t, quotaInput(), WithPolicy(model.Policy{BackToBack: model.Lenient, QuotaOverrun: model.Strict}))

	assert.Len(t, allocation.Assignments, 1)
	assert.Empty(t, allocation.Warnings)
	assert.Equal(t, []model.IncompleteSlot{{Day: 2, Slot: 0, Role: model.RoleRegular, Needed: 1, Assigned: 0}}, allocation.IncompleteSlots)
	assert.False(t, allocation.Success())
}

func TestUntargetedRoleRaisesNoQuotaWarning(t *testing.T) {
	// Arrange
	input := quotaInput()
	input.Structure.DutySlots = []model.DutySlot{
		{Day: 0, Slot: 0, Date: "2025-03-03", SquadDuties: 1, Rooms: []string{}},
		{Day: 2, Slot: 0, Date: "2025-03-05", SquadDuties: 1, Rooms: []string{}},
	}

	// Act
	allocation := allocate(t, input)

	// Assert
	assert.Len(t, allocation.Assignments, 2)
	assert.Empty(t, allocation.Warnings)
	assert.True(t, allocation.Success())
}

func TestMalformedInput(t *testing.T) {
	input := singleSlotInput(professors("F1", "F1"), regularSlot(0, 0, "R1"))

	allocation := allocate(t, input)

	assert.NotEmpty(t, allocation.Errors)
	assert.Empty(t, allocation.Assignments)
	assert.False(t, allocation.Success())
}

func TestCancelledAllocation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	allocation, err := NewGreedyAllocator().Allocate(ctx, singleSlotInput(professors("F1"), regularSlot(0, 0, "R1")))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, allocation.Assignments)
}

func randomInput(random *rand.Rand) model.ModelInput {
	designations := []string{"Professor", "Associate Professor", "Assistant Professor"}
	faculty := lo.Times(random.Intn(30)+5, func(i int) model.Faculty {
		return model.Faculty{
			FacultyId:   fmt.Sprintf("F%03d", i),
			Name:        fmt.Sprintf("Faculty %d", i),
			Designation: designations[random.Intn(len(designations))],
		}
	})

	days := random.Intn(4) + 1
	slots := make([]model.DutySlot, 0)
	for day := range days {
		for slot := range random.Intn(3) + 1 {
			rooms := lo.Times(random.Intn(6)+1, func(i int) string { return fmt.Sprintf("R%d", i) })
			slots = append(slots, model.DutySlot{
				Day:            day,
				Slot:           slot,
				Date:           fmt.Sprintf("2025-03-%02d", 3+day),
				RegularDuties:  len(rooms),
				RelieverDuties: random.Intn(3),
				SquadDuties:    random.Intn(2),
				BufferDuties:   random.Intn(3),
				Rooms:          rooms,
			})
		}
	}
	random.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })

	unavailable := lo.Times(random.Intn(len(faculty)), func(int) model.UnavailableFaculty {
		return model.UnavailableFaculty{
			FacultyId: faculty[random.Intn(len(faculty))].FacultyId,
			Date:      fmt.Sprintf("2025-03-%02d", 3+random.Intn(days)),
		}
	})

	counts := func() map[string]int {
		return lo.SliceToMap(designations, func(designation string) (string, int) { return designation, random.Intn(4) })
	}
	return model.ModelInput{
		Faculty: faculty,
		Structure: model.ExamStructure{
			Days:                         days,
			DutySlots:                    slots,
			DesignationDutyCounts:        counts(),
			DesignationRelieverCounts:    counts(),
			DesignationSquadCounts:       counts(),
			DesignationBufferCounts:      counts(),
			DesignationBufferEligibility: map[string]bool{"Professor": false, "Associate Professor": true, "Assistant Professor": true},
		},
		Unavailable: unavailable,
	}
}

func TestRandomInstancesKeepInvariants(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	policies := []model.Policy{
		model.DefaultPolicy(),
		{BackToBack: model.Strict, QuotaOverrun: model.Lenient},
		{BackToBack: model.Lenient, QuotaOverrun: model.Strict},
		{BackToBack: model.Strict, QuotaOverrun: model.Strict},
	}

	for range 50 {
		// Arrange
		input := randomInput(random)
		policy := policies[random.Intn(len(policies))]

		// Act
		allocation := allocate(t, input, WithPolicy(policy))
		again := allocate(t, input, WithPolicy(policy))

		// Assert
		assert.Empty(t, allocation.Errors)
		assert.Equal(t, allocation, again)
		assert.Empty(t, report.Problems(allocation.Assignments, input))
		assert.Empty(t, report.Violations(input, allocation.Assignments))
		assert.Equal(t, allocation.Success(), len(allocation.IncompleteSlots) == 0)
	}
}
