package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOccupancy(t *testing.T) {
	// Arrange
	key := SlotKey{Day: 0, Slot: 0}
	occupancy := NewOccupancy([]Assignment{
		{Day: 0, Slot: 0, FacultyId: "F1", Role: RoleRegular, RoomNumber: "R1"},
		{Day: 0, Slot: 0, FacultyId: "F2", Role: RoleReliever, Rooms: []string{"R1"}},
		{Day: 0, Slot: 0, FacultyId: "F2", Role: RoleBuffer},
		{Day: 0, Slot: 1, FacultyId: "F3", Role: RoleRegular, RoomNumber: "R1"},
	})

	// Assert
	assert.True(t, occupancy.Holds(key, "F1"))
	assert.False(t, occupancy.Holds(key, "F3"))
	assert.Equal(t, []Role{RoleReliever, RoleBuffer}, occupancy.Roles(key, "F2"))
	assert.Equal(t, []string{"F1"}, occupancy.RoomHolders(key, "R1"))
	assert.Equal(t, 1, occupancy.Count(key, RoleRegular))
	assert.Equal(t, 0, occupancy.Count(key, RoleSquad))
	assert.Equal(t, []string{"F1", "F2"}, occupancy.Faculty(key))

	// Act
	occupancy.Remove(Assignment{Day: 0, Slot: 0, FacultyId: "F1", Role: RoleRegular, RoomNumber: "R1"})
	occupancy.Remove(Assignment{Day: 0, Slot: 0, FacultyId: "F2", Role: RoleBuffer})
	occupancy.Remove(Assignment{Day: 0, Slot: 0, FacultyId: "F9", Role: RoleBuffer})

	// Assert
	assert.False(t, occupancy.Holds(key, "F1"))
	assert.Empty(t, occupancy.RoomHolders(key, "R1"))
	assert.Equal(t, []Role{RoleReliever}, occupancy.Roles(key, "F2"))
	assert.Equal(t, 0, occupancy.Count(key, RoleBuffer))
	assert.Equal(t, []string{"F2"}, occupancy.Faculty(key))
}

func TestOccupancyUnknownSlot(t *testing.T) {
	occupancy := NewOccupancy(nil)
	key := SlotKey{Day: 4, Slot: 2}

	assert.False(t, occupancy.Holds(key, "F1"))
	assert.Empty(t, occupancy.Roles(key, "F1"))
	assert.Equal(t, 0, occupancy.Count(key, RoleRegular))
	assert.Empty(t, occupancy.Faculty(key))
}
