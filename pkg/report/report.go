package report

import (
	"fmt"
	"slices"

	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/samber/lo"
)

// Report is what can be derived from a finished assignment list alone
type Report struct {
	Violations []model.Violation
	Overview   []model.FacultyDutyOverview
}

func Build(modelInput model.ModelInput, assignments []model.Assignment) Report {
	return Report{
		Violations: Violations(modelInput, assignments),
		Overview:   Overview(modelInput, assignments),
	}
}

// Violations finds the consistency violations an assignment list should never contain: faculty holding more than
// one duty in a slot, and buffer duties given to buffer-ineligible designations
func Violations(modelInput model.ModelInput, assignments []model.Assignment) []model.Violation {
	evaluator := model.NewPredicateEvaluator(modelInput)
	roster := modelInput.FacultyById()
	occupancy := model.NewOccupancy(assignments)
	violations := make([]model.Violation, 0)

	//** Slot uniqueness
	reported := make(map[model.SlotKey]map[string]bool)
	for _, assignment := range assignments {
		key := assignment.Key()
		if reported[key][assignment.FacultyId] {
			continue
		}
		if roles := occupancy.Roles(key, assignment.FacultyId); len(roles) > 1 {
			violations = append(violations, model.NewSlotUniqueness(key, assignment.FacultyId, roles))
		}
		if _, ok := reported[key]; !ok {
			reported[key] = make(map[string]bool)
		}
		reported[key][assignment.FacultyId] = true
	}

	//** Buffer eligibility
	for _, assignment := range assignments {
		if assignment.Role == model.RoleBuffer && !evaluator.BufferEligible(assignment.FacultyId) {
			violations = append(violations, model.NewBufferLimit(assignment.Key(), assignment.FacultyId, roster[assignment.FacultyId].Designation))
		}
	}

	return violations
}

// Overview totals every roster member's duties per role, in roster order, followed by faculty ids that only appear
// in the assignments. Coverage lists the rooms each reliever or squad duty covers, keyed by slot
func Overview(modelInput model.ModelInput, assignments []model.Assignment) []model.FacultyDutyOverview {
	overviews := make([]model.FacultyDutyOverview, 0, len(modelInput.Faculty))
	positions := make(map[string]int)

	for _, faculty := range modelInput.Faculty {
		if _, ok := positions[faculty.FacultyId]; ok {
			continue
		}
		positions[faculty.FacultyId] = len(overviews)
		overviews = append(overviews, model.FacultyDutyOverview{
			FacultyId:   faculty.FacultyId,
			FacultyName: faculty.Name,
			Designation: faculty.Designation,
			Department:  faculty.Department,
			Coverage:    make(map[string][]string),
		})
	}

	unknown := lo.Uniq(lo.FilterMap(assignments, func(assignment model.Assignment, _ int) (string, bool) {
		_, ok := positions[assignment.FacultyId]
		return assignment.FacultyId, !ok
	}))
	slices.Sort(unknown)
	for _, id := range unknown {
		positions[id] = len(overviews)
		overviews = append(overviews, model.FacultyDutyOverview{
			FacultyId: id,
			Coverage:  make(map[string][]string),
		})
	}

	for _, assignment := range assignments {
		overview := &overviews[positions[assignment.FacultyId]]
		switch assignment.Role {
		case model.RoleRegular:
			overview.RegularDuties++
		case model.RoleReliever:
			overview.RelieverDuties++
		case model.RoleSquad:
			overview.SquadDuties++
		case model.RoleBuffer:
			overview.BufferDuties++
		default:
			continue
		}
		overview.TotalDuties++

		if (assignment.Role == model.RoleReliever || assignment.Role == model.RoleSquad) && len(assignment.Rooms) > 0 {
			key := assignment.Key().String()
			overview.Coverage[key] = append(overview.Coverage[key], assignment.Rooms...)
		}
	}

	return overviews
}

// Verify checks the invariants every committed schedule must satisfy
func Verify(assignments []model.Assignment, modelInput model.ModelInput) bool {
	return len(Problems(assignments, modelInput)) == 0
}

// Problems lists every broken invariant of the schedule
func Problems(assignments []model.Assignment, modelInput model.ModelInput) []string {
	//** Initialize dependencies
	evaluator := model.NewPredicateEvaluator(modelInput)
	roster := modelInput.FacultyById()
	indexer := model.NewSlotIndexer(modelInput.Structure.DutySlots)

	problems := make([]string, 0)
	facultyAssistance := make(map[model.SlotKey]map[string]bool)
	roomAssistance := make(map[model.SlotKey]map[string]bool)

	for _, assignment := range assignments {
		key := assignment.Key()
		index, ok := indexer.Index(key)
		if !ok {
			problems = append(problems, fmt.Sprintf("assignment of %v refers to missing slot %v", assignment.FacultyId, key))
			continue
		}
		slot := indexer.Slot(index)

		if _, ok := facultyAssistance[key]; !ok {
			facultyAssistance[key] = make(map[string]bool)
			roomAssistance[key] = make(map[string]bool)
		}

		// Check that:
		// - Faculty is part of the roster
		// - Role is known
		// - Faculty holds no other duty in the slot
		// - Faculty is available on the slot's date
		// - Buffer duties go to buffer-eligible designations
		// - Regular duties have a room of the slot that nobody else holds
		if _, ok := roster[assignment.FacultyId]; !ok {
			problems = append(problems, fmt.Sprintf("faculty %v in slot %v is not in the roster", assignment.FacultyId, key))
		}
		if !assignment.Role.Valid() {
			problems = append(problems, fmt.Sprintf("faculty %v in slot %v has unknown role \"%v\"", assignment.FacultyId, key, assignment.Role))
		}
		if facultyAssistance[key][assignment.FacultyId] {
			problems = append(problems, fmt.Sprintf("faculty %v holds more than one duty in slot %v", assignment.FacultyId, key))
		}
		if !evaluator.Available(assignment.FacultyId, slot) {
			problems = append(problems, fmt.Sprintf("faculty %v is unavailable on %v but serves in slot %v", assignment.FacultyId, slot.Date, key))
		}
		if assignment.Role == model.RoleBuffer && !evaluator.BufferEligible(assignment.FacultyId) {
			problems = append(problems, fmt.Sprintf("faculty %v is not buffer eligible but serves as buffer in slot %v", assignment.FacultyId, key))
		}
		if assignment.Role == model.RoleRegular {
			if !evaluator.RoomInSlot(assignment.RoomNumber, slot) {
				problems = append(problems, fmt.Sprintf("room \"%v\" of faculty %v is not a room of slot %v", assignment.RoomNumber, assignment.FacultyId, key))
			} else if roomAssistance[key][assignment.RoomNumber] {
				problems = append(problems, fmt.Sprintf("room \"%v\" is held by more than one regular duty in slot %v", assignment.RoomNumber, key))
			}
			roomAssistance[key][assignment.RoomNumber] = true
		}

		facultyAssistance[key][assignment.FacultyId] = true
	}

	return problems
}
