package editor

import (
	"testing"

	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/stretchr/testify/assert"
)

var (
	slot = model.DutySlot{
		Day:            0,
		Slot:           0,
		Date:           "2025-03-03",
		RegularDuties:  2,
		RelieverDuties: 1,
		BufferDuties:   1,
		Rooms:          []string{"R1", "R2"},
	}
	faculty = []model.Faculty{
		{FacultyId: "F1", Name: "One", Designation: "Professor"},
		{FacultyId: "F2", Name: "Two", Designation: "Professor"},
		{FacultyId: "F3", Name: "Three", Designation: "Assistant Professor"},
	}
)

func TestValidateAddRejectsSecondDutyInSlot(t *testing.T) {
	// Arrange
	existing := []model.Assignment{{Day: 0, Slot: 0, FacultyId: "F1", Role: model.RoleBuffer}}
	proposed := model.Assignment{Day: 0, Slot: 0, FacultyId: "F1", Role: model.RoleRegular, RoomNumber: "R1"}

	// Act
	result := ValidateAdd(proposed, existing, slot, faculty)

	// Assert
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "buffer")
}

func TestValidateAdd(t *testing.T) {
	existing := []model.Assignment{
		{Day: 0, Slot: 0, FacultyId: "F1", Role: model.RoleRegular, RoomNumber: "R1"},
		{Day: 0, Slot: 0, FacultyId: "F2", Role: model.RoleReliever, Rooms: []string{"R1", "R2"}},
	}

	scenarios := []struct {
		name       string
		assignment model.Assignment
		valid      bool
		errors     int
		warnings   int
	}{
		{"free room", model.Assignment{Day: 0, Slot: 0, FacultyId: "F3", Role: model.RoleRegular, RoomNumber: "R2"}, true, 0, 0},
		{"held room", model.Assignment{Day: 0, Slot: 0, FacultyId: "F3", Role: model.RoleRegular, RoomNumber: "R1"}, false, 1, 0},
		{"foreign room", model.Assignment{Day: 0, Slot: 0, FacultyId: "F3", Role: model.RoleRegular, RoomNumber: "R9"}, false, 1, 0},
		{"missing room", model.Assignment{Day: 0, Slot: 0, FacultyId: "F3", Role: model.RoleRegular}, false, 1, 0},
		{"buffer", model.Assignment{Day: 0, Slot: 0, FacultyId: "F3", Role: model.RoleBuffer}, true, 0, 0},
		{"buffer with room", model.Assignment{Day: 0, Slot: 0, FacultyId: "F3", Role: model.RoleBuffer, RoomNumber: "R2"}, true, 0, 1},
		{"reliever over capacity", model.Assignment{Day: 0, Slot: 0, FacultyId: "F3", Role: model.RoleReliever}, true, 0, 1},
		{"squad without capacity", model.Assignment{Day: 0, Slot: 0, FacultyId: "F3", Role: model.RoleSquad}, true, 0, 1},
		{"unknown faculty", model.Assignment{Day: 0, Slot: 0, FacultyId: "F9", Role: model.RoleBuffer}, false, 1, 0},
		{"unknown role", model.Assignment{Day: 0, Slot: 0, FacultyId: "F3", Role: model.Role("proctor")}, false, 1, 0},
		{"other slot", model.Assignment{Day: 1, Slot: 0, FacultyId: "F3", Role: model.RoleBuffer}, false, 1, 0},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			result := ValidateAdd(scenario.assignment, existing, slot, faculty)

			assert.Equal(t, scenario.valid, result.Valid)
			assert.Len(t, result.Errors, scenario.errors)
			assert.Len(t, result.Warnings, scenario.warnings)
		})
	}
}

func TestValidateAddWithoutRoster(t *testing.T) {
	proposed := model.Assignment{Day: 0, Slot: 0, FacultyId: "F9", Role: model.RoleBuffer}

	result := ValidateAdd(proposed, nil, slot, nil)

	assert.True(t, result.Valid)
	assert.NotNil(t, result.Errors)
	assert.NotNil(t, result.Warnings)
}

func TestValidateUpdate(t *testing.T) {
	// Arrange
	existing := []model.Assignment{
		{Day: 0, Slot: 0, FacultyId: "F1", Role: model.RoleRegular, RoomNumber: "R1"},
		{Day: 0, Slot: 0, FacultyId: "F2", Role: model.RoleRegular, RoomNumber: "R2"},
	}

	// Act
	moved := ValidateUpdate(existing[0], model.Assignment{Day: 0, Slot: 0, FacultyId: "F1", Role: model.RoleBuffer}, existing, slot, faculty)
	clash := ValidateUpdate(existing[0], model.Assignment{Day: 0, Slot: 0, FacultyId: "F1", Role: model.RoleRegular, RoomNumber: "R2"}, existing, slot, faculty)
	missing := ValidateUpdate(model.Assignment{Day: 0, Slot: 0, FacultyId: "F3", Role: model.RoleSquad}, existing[0], existing, slot, faculty)

	// Assert
	assert.True(t, moved.Valid)
	assert.Empty(t, moved.Errors)

	assert.False(t, clash.Valid)
	assert.Len(t, clash.Errors, 1)
	assert.Contains(t, clash.Errors[0], "F2")

	assert.False(t, missing.Valid)
}

func TestValidateSwap(t *testing.T) {
	// Arrange
	existing := []model.Assignment{
		{Day: 0, Slot: 0, FacultyId: "F1", Role: model.RoleRegular, RoomNumber: "R1"},
		{Day: 0, Slot: 0, FacultyId: "F2", Role: model.RoleRegular, RoomNumber: "R2"},
		{Day: 0, Slot: 0, FacultyId: "F2", Role: model.RoleBuffer},
		{Day: 1, Slot: 0, FacultyId: "F3", Role: model.RoleRegular, RoomNumber: "R1"},
	}

	scenarios := []struct {
		name     string
		a, b     model.Assignment
		valid    bool
		warnings int
	}{
		{"same slot", existing[0], existing[1], true, 1},
		{"different slots", existing[0], existing[3], false, 0},
		{"same faculty", existing[1], existing[2], false, 0},
		{"missing duty", existing[0], model.Assignment{Day: 0, Slot: 0, FacultyId: "F3", Role: model.RoleSquad}, false, 0},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			// Act
			result := ValidateSwap(scenario.a, scenario.b, existing)

			// Assert
			assert.Equal(t, scenario.valid, result.Valid)
			assert.Equal(t, scenario.valid, len(result.Errors) == 0)
			assert.Len(t, result.Warnings, scenario.warnings)
		})
	}
}
