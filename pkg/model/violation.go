package model

import (
	"fmt"
	"strings"
)

type ViolationKind string

const (
	RoomMismatch       ViolationKind = "ROOM_MISMATCH"
	SlotUniqueness     ViolationKind = "SLOT_UNIQUENESS"
	BackToBack         ViolationKind = "BACK_TO_BACK"
	BufferLimit        ViolationKind = "BUFFER_LIMIT"
	NoEligibleReliever ViolationKind = "NO_ELIGIBLE_RELIEVER"
	NoEligibleSquad    ViolationKind = "NO_ELIGIBLE_SQUAD"
	NoEligibleBuffer   ViolationKind = "NO_ELIGIBLE_BUFFER"
)

func (kind ViolationKind) Valid() bool {
	switch kind {
	case RoomMismatch, SlotUniqueness, BackToBack, BufferLimit, NoEligibleReliever, NoEligibleSquad, NoEligibleBuffer:
		return true
	}
	return false
}

// Blocking reports whether a violation of this kind makes an allocation unsuccessful
func (kind ViolationKind) Blocking() bool {
	return kind == RoomMismatch || kind == SlotUniqueness
}

// Violation is built only through the constructors below, one per kind, so every record carries the payload its
// kind requires
type Violation struct {
	Id        ViolationKind `json:"id"`
	Day       int           `json:"day"`
	Slot      int           `json:"slot"`
	FacultyId string        `json:"facultyId,omitempty"`
	Role      Role          `json:"role,omitempty"`
	Message   string        `json:"message"`
}

func (violation Violation) Key() SlotKey {
	return SlotKey{Day: violation.Day, Slot: violation.Slot}
}

func NewRoomMismatch(key SlotKey, regularDuties, rooms int) Violation {
	return Violation{
		Id:      RoomMismatch,
		Day:     key.Day,
		Slot:    key.Slot,
		Role:    RoleRegular,
		Message: fmt.Sprintf("slot %v requires %d regular duties but has %d rooms", key, regularDuties, rooms),
	}
}

func NewSlotUniqueness(key SlotKey, facultyId string, roles []Role) Violation {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return Violation{
		Id:        SlotUniqueness,
		Day:       key.Day,
		Slot:      key.Slot,
		FacultyId: facultyId,
		Message:   fmt.Sprintf("faculty %v holds %d duties in slot %v: %v", facultyId, len(roles), key, strings.Join(names, ", ")),
	}
}

func NewBackToBack(key, previous SlotKey, facultyId string, role Role, assigned bool) Violation {
	message := fmt.Sprintf("faculty %v was assigned %v duty in slot %v right after slot %v", facultyId, role, key, previous)
	if !assigned {
		message = fmt.Sprintf("faculty %v was withheld from %v duty in slot %v because of a duty in slot %v", facultyId, role, key, previous)
	}
	return Violation{
		Id:        BackToBack,
		Day:       key.Day,
		Slot:      key.Slot,
		FacultyId: facultyId,
		Role:      role,
		Message:   message,
	}
}

func NewBufferLimit(key SlotKey, facultyId, designation string) Violation {
	return Violation{
		Id:        BufferLimit,
		Day:       key.Day,
		Slot:      key.Slot,
		FacultyId: facultyId,
		Role:      RoleBuffer,
		Message:   fmt.Sprintf("faculty %v holds a buffer duty in slot %v but designation \"%v\" is not buffer eligible", facultyId, key, designation),
	}
}

// NewNoEligible reports a reliever, squad or buffer shortfall. Regular shortfalls are bounded by rooms and have no
// equivalent, so ok is false for RoleRegular
func NewNoEligible(key SlotKey, role Role, needed, assigned int) (violation Violation, ok bool) {
	var kind ViolationKind
	switch role {
	case RoleReliever:
		kind = NoEligibleReliever
	case RoleSquad:
		kind = NoEligibleSquad
	case RoleBuffer:
		kind = NoEligibleBuffer
	default:
		return Violation{}, false
	}
	return Violation{
		Id:      kind,
		Day:     key.Day,
		Slot:    key.Slot,
		Role:    role,
		Message: fmt.Sprintf("slot %v needs %d %v duties but only %d eligible faculty could be assigned", key, needed, role, assigned),
	}, true
}
