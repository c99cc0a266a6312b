package engine

import (
	"context"
	"testing"

	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineInput() model.ModelInput {
	return model.ModelInput{
		Faculty: []model.Faculty{
			{FacultyId: "F1", Name: "One", Designation: "Professor"},
			{FacultyId: "F2", Name: "Two", Designation: "Professor"},
			{FacultyId: "F3", Name: "Three", Designation: "Assistant Professor"},
			{FacultyId: "F4", Name: "Four", Designation: "Assistant Professor"},
		},
		Structure: model.ExamStructure{
			Days: 2,
			DutySlots: []model.DutySlot{
				{Day: 0, Slot: 0, Date: "2025-03-03", RegularDuties: 2, BufferDuties: 1, Rooms: []string{"R1", "R2"}},
				{Day: 1, Slot: 0, Date: "2025-03-04", RegularDuties: 2, RelieverDuties: 1, Rooms: []string{"R1", "R2"}},
			},
			DesignationDutyCounts:        map[string]int{"Professor": 1, "Assistant Professor": 2},
			DesignationRelieverCounts:    map[string]int{"Professor": 1, "Assistant Professor": 1},
			DesignationBufferCounts:      map[string]int{"Professor": 1, "Assistant Professor": 1},
			DesignationBufferEligibility: map[string]bool{"Professor": false, "Assistant Professor": true},
		},
	}
}

func TestRun(t *testing.T) {
	// Arrange
	engine := New(WithLogger(zerolog.Nop()))

	// Act
	result, err := engine.Run(context.Background(), engineInput())

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.Assignments, 6)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.IncompleteSlots)
	assert.Len(t, result.DutyOverview, 4)

	total := lo.SumBy(result.DutyOverview, func(entry model.FacultyDutyOverview) int { return entry.TotalDuties })
	assert.Equal(t, len(result.Assignments), total)
}

func TestRunIsRepeatable(t *testing.T) {
	engine := New()

	first, err := engine.Run(context.Background(), engineInput())
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), engineInput())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunReportsShortfalls(t *testing.T) {
	// Arrange
	input := engineInput()
	input.Unavailable = []model.UnavailableFaculty{
		{FacultyId: "F3", Date: "2025-03-03"},
		{FacultyId: "F4", Date: "2025-03-03"},
	}

	// Act
	result, err := New().Run(context.Background(), input)

	// Assert
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []model.IncompleteSlot{{Day: 0, Slot: 0, Role: model.RoleBuffer, Needed: 1, Assigned: 0}}, result.IncompleteSlots)
	kinds := lo.Map(result.Violations, func(violation model.Violation, _ int) model.ViolationKind { return violation.Id })
	assert.Contains(t, kinds, model.NoEligibleBuffer)
}

func TestRunRejectsMalformedInput(t *testing.T) {
	input := engineInput()
	input.Structure.DutySlots[1].Day = 5

	result, err := New().Run(context.Background(), input)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
	assert.Empty(t, result.Assignments)
	assert.NotNil(t, result.DutyOverview)
}

func TestRunStrictBackToBack(t *testing.T) {
	// Arrange
	input := engineInput()
	input.Faculty = input.Faculty[:2]
	input.Structure.DutySlots[0].BufferDuties = 0
	input.Structure.DutySlots[1].RelieverDuties = 0

	// Act
	lenient, err := New().Run(context.Background(), input)
	require.NoError(t, err)
	strict, err := New(WithPolicy(model.Policy{BackToBack: model.Strict, QuotaOverrun: model.Lenient})).Run(context.Background(), input)
	require.NoError(t, err)

	// Assert
	assert.True(t, lenient.Success)
	assert.Len(t, lenient.Assignments, 4)
	assert.False(t, strict.Success)
	assert.Len(t, strict.Assignments, 2)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New().Run(ctx, engineInput())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Assignments)
}
