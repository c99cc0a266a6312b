package report

import (
	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/samber/lo"
)

// Shortfalls lists every slot role holding fewer duties than the slot requires
func Shortfalls(modelInput model.ModelInput, assignments []model.Assignment) []model.IncompleteSlot {
	occupancy := model.NewOccupancy(assignments)
	indexer := model.NewSlotIndexer(modelInput.Structure.DutySlots)
	shortfalls := make([]model.IncompleteSlot, 0)

	for _, slot := range indexer.Slots() {
		for _, role := range model.Roles {
			needed, assigned := slot.Capacity(role), occupancy.Count(slot.Key(), role)
			if assigned < needed {
				shortfalls = append(shortfalls, model.IncompleteSlot{
					Day:      slot.Day,
					Slot:     slot.Slot,
					Role:     role,
					Needed:   needed,
					Assigned: assigned,
				})
			}
		}
	}
	return shortfalls
}

// Summarize rebuilds a full result for an assignment list that did not come straight out of an allocator, such as
// a manually edited schedule. Assignments breaking a schedule invariant are reported as errors and fail the result
func Summarize(modelInput model.ModelInput, assignments []model.Assignment) model.AssignmentResult {
	indexer := model.NewSlotIndexer(modelInput.Structure.DutySlots)
	violations := make([]model.Violation, 0)
	for _, slot := range indexer.Slots() {
		if len(slot.Rooms) != slot.RegularDuties {
			violations = append(violations, model.NewRoomMismatch(slot.Key(), slot.RegularDuties, len(slot.Rooms)))
		}
	}

	built := Build(modelInput, assignments)
	violations = append(violations, built.Violations...)
	shortfalls := Shortfalls(modelInput, assignments)
	problems := Problems(assignments, modelInput)

	return model.AssignmentResult{
		Success: len(shortfalls) == 0 &&
			len(problems) == 0 &&
			!lo.SomeBy(violations, func(violation model.Violation) bool {
				return violation.Id.Blocking()
			}),
		Assignments:     assignments,
		Errors:          problems,
		Warnings:        make([]string, 0),
		IncompleteSlots: shortfalls,
		Violations:      violations,
		DutyOverview:    built.Overview,
	}
}
