package model

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleRegular  Role = "regular"
	RoleReliever Role = "reliever"
	RoleSquad    Role = "squad"
	RoleBuffer   Role = "buffer"
)

// Roles lists every role in allocation priority order
var Roles = []Role{RoleRegular, RoleReliever, RoleSquad, RoleBuffer}

func (role Role) Valid() bool {
	switch role {
	case RoleRegular, RoleReliever, RoleSquad, RoleBuffer:
		return true
	}
	return false
}

// Label is the text shown in the room column of an export for roles that are not bound to a room
func (role Role) Label() string {
	return strings.ToUpper(string(role))
}

// Index returns the role's position in Roles, or -1 for an unknown role
func (role Role) Index() int {
	for i, r := range Roles {
		if r == role {
			return i
		}
	}
	return -1
}

type SlotKey struct {
	Day  int `json:"day"`
	Slot int `json:"slot"`
}

func (key SlotKey) String() string {
	return fmt.Sprintf("d%d-s%d", key.Day, key.Slot)
}

// Less orders keys day-major, slot-minor
func (key SlotKey) Less(other SlotKey) bool {
	if key.Day != other.Day {
		return key.Day < other.Day
	}
	return key.Slot < other.Slot
}

type Assignment struct {
	Day        int      `json:"day"`
	Slot       int      `json:"slot"`
	FacultyId  string   `json:"facultyId"`
	Role       Role     `json:"role"`
	RoomNumber string   `json:"roomNumber,omitempty"`
	Rooms      []string `json:"rooms,omitempty"` // Rooms covered by a reliever or squad duty
}

func (assignment Assignment) Key() SlotKey {
	return SlotKey{Day: assignment.Day, Slot: assignment.Slot}
}

// Same reports whether both assignments describe the same duty record
func (assignment Assignment) Same(other Assignment) bool {
	return assignment.Day == other.Day &&
		assignment.Slot == other.Slot &&
		assignment.FacultyId == other.FacultyId &&
		assignment.Role == other.Role &&
		assignment.RoomNumber == other.RoomNumber
}

type IncompleteSlot struct {
	Day      int  `json:"day"`
	Slot     int  `json:"slot"`
	Role     Role `json:"role"`
	Needed   int  `json:"needed"`
	Assigned int  `json:"assigned"`
}

type FacultyDutyOverview struct {
	FacultyId      string              `json:"facultyId"`
	FacultyName    string              `json:"facultyName"`
	Designation    string              `json:"designation"`
	Department     string              `json:"department"`
	RegularDuties  int                 `json:"regularDuties"`
	RelieverDuties int                 `json:"relieverDuties"`
	SquadDuties    int                 `json:"squadDuties"`
	BufferDuties   int                 `json:"bufferDuties"`
	TotalDuties    int                 `json:"totalDuties"`
	Coverage       map[string][]string `json:"coverage"`
}

// Count returns the overview's total for one role
func (overview FacultyDutyOverview) Count(role Role) int {
	switch role {
	case RoleRegular:
		return overview.RegularDuties
	case RoleReliever:
		return overview.RelieverDuties
	case RoleSquad:
		return overview.SquadDuties
	case RoleBuffer:
		return overview.BufferDuties
	}
	return 0
}

type AssignmentResult struct {
	Success         bool                  `json:"success"`
	Assignments     []Assignment          `json:"assignments"`
	Errors          []string              `json:"errors"`
	Warnings        []string              `json:"warnings"`
	IncompleteSlots []IncompleteSlot      `json:"incompleteSlots"`
	Violations      []Violation           `json:"violations"`
	DutyOverview    []FacultyDutyOverview `json:"dutyOverview"`
}
