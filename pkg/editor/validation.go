package editor

import (
	"fmt"
	"slices"

	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/samber/lo"
)

// ValidationResult describes whether a proposed edit may be committed. Warnings never make an edit invalid; the
// caller decides whether to apply an edit that only carries warnings
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func newValidationResult() ValidationResult {
	return ValidationResult{Errors: make([]string, 0), Warnings: make([]string, 0)}
}

func (result *ValidationResult) fail(format string, args ...any) {
	result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
}

func (result *ValidationResult) warn(format string, args ...any) {
	result.Warnings = append(result.Warnings, fmt.Sprintf(format, args...))
}

func (result *ValidationResult) seal() ValidationResult {
	result.Valid = len(result.Errors) == 0
	return *result
}

// ValidateAdd checks whether newAssignment can join allAssignments. It rejects a faculty member who already holds a
// duty in the slot, and a regular duty whose room is missing, outside the slot or already held; it warns when the
// role would exceed the slot's capacity. An empty roster skips the roster membership check
func ValidateAdd(newAssignment model.Assignment, allAssignments []model.Assignment, slot model.DutySlot, faculty []model.Faculty) ValidationResult {
	result := newValidationResult()
	validateAdd(&result, newAssignment, model.NewOccupancy(allAssignments), slot, faculty)
	return result.seal()
}

// ValidateUpdate applies the checks of ValidateAdd to newAssignment after taking old out of allAssignments, so a
// faculty member's own duty never conflicts with its replacement
func ValidateUpdate(old, newAssignment model.Assignment, allAssignments []model.Assignment, slot model.DutySlot, faculty []model.Faculty) ValidationResult {
	result := newValidationResult()

	index := slices.IndexFunc(allAssignments, old.Same)
	if index < 0 {
		result.fail("the %v duty of faculty %v in slot %v does not exist", old.Role, old.FacultyId, old.Key())
		return result.seal()
	}

	remaining := slices.Delete(slices.Clone(allAssignments), index, index+1)
	validateAdd(&result, newAssignment, model.NewOccupancy(remaining), slot, faculty)
	return result.seal()
}

// ValidateSwap checks whether the faculty members of a and b can trade places. Swaps stay within one slot. A faculty
// member holding several duties in the slot makes the swap ambiguous, which is allowed with a warning
func ValidateSwap(a, b model.Assignment, allAssignments []model.Assignment) ValidationResult {
	result := newValidationResult()

	if a.Key() != b.Key() {
		result.fail("swaps must stay within one slot: %v and %v differ", a.Key(), b.Key())
	}
	if a.FacultyId == b.FacultyId {
		result.fail("faculty %v cannot swap duties with themselves", a.FacultyId)
	}
	for _, assignment := range []model.Assignment{a, b} {
		if !lo.ContainsBy(allAssignments, assignment.Same) {
			result.fail("the %v duty of faculty %v in slot %v does not exist", assignment.Role, assignment.FacultyId, assignment.Key())
		}
	}
	if len(result.Errors) > 0 {
		return result.seal()
	}

	occupancy := model.NewOccupancy(allAssignments)
	for _, assignment := range []model.Assignment{a, b} {
		if roles := occupancy.Roles(assignment.Key(), assignment.FacultyId); len(roles) > 1 {
			result.warn("faculty %v holds %d duties in slot %v, only the %v duty is swapped", assignment.FacultyId, len(roles), assignment.Key(), assignment.Role)
		}
	}

	return result.seal()
}

func validateAdd(result *ValidationResult, assignment model.Assignment, occupancy *model.Occupancy, slot model.DutySlot, faculty []model.Faculty) {
	key := assignment.Key()

	//** Identify the duty
	if key != slot.Key() {
		result.fail("assignment for slot %v was validated against slot %v", key, slot.Key())
	}
	if !assignment.Role.Valid() {
		result.fail("unknown role \"%v\"", assignment.Role)
	}
	if len(faculty) > 0 && !lo.ContainsBy(faculty, func(member model.Faculty) bool { return member.FacultyId == assignment.FacultyId }) {
		result.fail("%v", fmt.Errorf("%w: %v", model.ErrUnknownFaculty, assignment.FacultyId))
	}

	//** Slot uniqueness
	for _, role := range occupancy.Roles(key, assignment.FacultyId) {
		result.fail("faculty %v already has a %v duty in slot %v", assignment.FacultyId, role, key)
	}

	//** Room exclusivity
	if assignment.Role == model.RoleRegular {
		switch {
		case assignment.RoomNumber == "":
			result.fail("a regular duty needs a room")
		case !slices.Contains(slot.Rooms, assignment.RoomNumber):
			result.fail("room \"%v\" is not a room of slot %v", assignment.RoomNumber, key)
		default:
			for _, holder := range occupancy.RoomHolders(key, assignment.RoomNumber) {
				result.fail("room \"%v\" in slot %v is already held by faculty %v", assignment.RoomNumber, key, holder)
			}
		}
	} else if assignment.RoomNumber != "" {
		result.warn("room number \"%v\" is ignored for a %v duty", assignment.RoomNumber, assignment.Role)
	}

	//** Capacity
	if assignment.Role.Valid() {
		if filled, capacity := occupancy.Count(key, assignment.Role), slot.Capacity(assignment.Role); filled+1 > capacity {
			result.warn("slot %v would have %d %v duties, %d are required", key, filled+1, assignment.Role, capacity)
		}
	}
}
