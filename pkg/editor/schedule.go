package editor

import (
	"fmt"
	"slices"

	"github.com/limaJavier/invigilation/pkg/model"
	"github.com/limaJavier/invigilation/pkg/report"
)

// Schedule is a single-user editing session over a generated schedule. Every edit is validated first and commits
// only when valid, replacing the assignment list as a whole so a rejected edit leaves nothing half applied
type Schedule struct {
	input       model.ModelInput
	evaluator   model.PredicateEvaluator
	indexer     model.SlotIndexer
	assignments []model.Assignment
}

func NewSchedule(modelInput model.ModelInput, assignments []model.Assignment) *Schedule {
	return &Schedule{
		input:       modelInput,
		evaluator:   model.NewPredicateEvaluator(modelInput),
		indexer:     model.NewSlotIndexer(modelInput.Structure.DutySlots),
		assignments: slices.Clone(assignments),
	}
}

// Assignments returns a copy of the committed assignment list
func (schedule *Schedule) Assignments() []model.Assignment {
	return slices.Clone(schedule.assignments)
}

// Result derives violations, shortfalls and the duty overview of the committed schedule
func (schedule *Schedule) Result() model.AssignmentResult {
	return report.Summarize(schedule.input, schedule.Assignments())
}

func (schedule *Schedule) Add(assignment model.Assignment) (ValidationResult, error) {
	slot, err := schedule.slot(assignment.Key())
	if err != nil {
		return ValidationResult{}, err
	}

	result := ValidateAdd(assignment, schedule.assignments, slot, schedule.input.Faculty)
	schedule.checkPlacement(&result, assignment, slot, schedule.assignments)
	if result.Valid {
		schedule.assignments = append(slices.Clone(schedule.assignments), assignment)
	}
	return result, nil
}

func (schedule *Schedule) Update(old, newAssignment model.Assignment) (ValidationResult, error) {
	slot, err := schedule.slot(newAssignment.Key())
	if err != nil {
		return ValidationResult{}, err
	}

	result := ValidateUpdate(old, newAssignment, schedule.assignments, slot, schedule.input.Faculty)
	if !result.Valid {
		return result, nil
	}

	index := slices.IndexFunc(schedule.assignments, old.Same)
	updated := slices.Clone(schedule.assignments)
	updated[index] = newAssignment

	remaining := slices.Delete(slices.Clone(schedule.assignments), index, index+1)
	schedule.checkPlacement(&result, newAssignment, slot, remaining)
	if result.Valid {
		schedule.assignments = updated
	}
	return result, nil
}

func (schedule *Schedule) Remove(assignment model.Assignment) ValidationResult {
	result := newValidationResult()

	index := slices.IndexFunc(schedule.assignments, assignment.Same)
	if index < 0 {
		result.fail("the %v duty of faculty %v in slot %v does not exist", assignment.Role, assignment.FacultyId, assignment.Key())
		return result.seal()
	}

	if slot, err := schedule.slot(assignment.Key()); err == nil {
		occupancy := model.NewOccupancy(schedule.assignments)
		if filled, capacity := occupancy.Count(slot.Key(), assignment.Role), slot.Capacity(assignment.Role); filled-1 < capacity {
			result.warn("slot %v would have %d %v duties, %d are required", slot.Key(), filled-1, assignment.Role, capacity)
		}
	}

	schedule.assignments = slices.Delete(slices.Clone(schedule.assignments), index, index+1)
	return result.seal()
}

// Swap exchanges the faculty members of a and b; roles and rooms stay with their positions
func (schedule *Schedule) Swap(a, b model.Assignment) ValidationResult {
	result := ValidateSwap(a, b, schedule.assignments)
	if !result.Valid {
		return result
	}

	// Buffer eligibility follows the role, which changes hands
	for _, pair := range [][2]model.Assignment{{a, b}, {b, a}} {
		position, incoming := pair[0], pair[1]
		if position.Role == model.RoleBuffer && !schedule.evaluator.BufferEligible(incoming.FacultyId) {
			result.fail("faculty %v is not buffer eligible and cannot take the buffer duty of %v", incoming.FacultyId, position.FacultyId)
		}
	}
	result.seal()
	if !result.Valid {
		return result
	}

	swapped := slices.Clone(schedule.assignments)
	indexA, indexB := slices.IndexFunc(swapped, a.Same), slices.IndexFunc(swapped, b.Same)
	swapped[indexA].FacultyId, swapped[indexB].FacultyId = b.FacultyId, a.FacultyId
	schedule.assignments = swapped
	return result
}

// checkPlacement adds the session-level checks the pure validators cannot make without the full input:
// availability on the slot's date and back-to-back duties on either side of the slot
func (schedule *Schedule) checkPlacement(result *ValidationResult, assignment model.Assignment, slot model.DutySlot, others []model.Assignment) {
	if !schedule.evaluator.Available(assignment.FacultyId, slot) {
		result.fail("faculty %v is unavailable on %v", assignment.FacultyId, slot.Date)
	}

	occupancy := model.NewOccupancy(others)
	if previous, conflict := schedule.evaluator.BackToBack(assignment.FacultyId, slot.Key(), occupancy); conflict {
		result.warn("faculty %v also serves in the preceding slot %v", assignment.FacultyId, previous)
	}
	for _, next := range schedule.indexer.Slots() {
		if previous, ok := schedule.indexer.Previous(next.Key()); ok && previous == slot.Key() && occupancy.Holds(next.Key(), assignment.FacultyId) {
			result.warn("faculty %v also serves in the following slot %v", assignment.FacultyId, next.Key())
		}
	}

	result.seal()
}

func (schedule *Schedule) slot(key model.SlotKey) (model.DutySlot, error) {
	index, ok := schedule.indexer.Index(key)
	if !ok {
		return model.DutySlot{}, fmt.Errorf("%w: %v", model.ErrSlotNotFound, key)
	}
	return schedule.indexer.Slot(index), nil
}
