package allocation

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// greedyAllocator fills slots one at a time in day-major, slot-minor order and never revisits a finished slot.
// Within a slot, roles are filled in priority order from candidates ranked by how far they are from their
// designation's target
type greedyAllocator struct {
	policy model.Policy
	logger zerolog.Logger
}

type allocationState struct {
	faculty   []model.Faculty
	evaluator model.PredicateEvaluator
	occupancy *model.Occupancy
	tally     *Tally
}

type deferredCandidate struct {
	faculty  model.Faculty
	previous model.SlotKey
}

func (allocator *greedyAllocator) Allocate(ctx context.Context, modelInput model.ModelInput) (Allocation, error) {
	allocation := Allocation{
		Assignments:     make([]model.Assignment, 0),
		IncompleteSlots: make([]model.IncompleteSlot, 0),
		Violations:      make([]model.Violation, 0),
		Warnings:        make([]string, 0),
		Errors:          make([]string, 0),
	}

	//** Validate structure
	if err := model.ValidateStructure(modelInput); err != nil {
		var structural model.StructuralError
		if errors.As(err, &structural) {
			allocation.Errors = append(allocation.Errors, structural.Problems...)
		} else {
			allocation.Errors = append(allocation.Errors, err.Error())
		}
		allocator.logger.Warn().Strs("errors", allocation.Errors).Msg("allocation aborted")
		return allocation, nil
	}

	//** Initialize dependencies
	indexer := model.NewSlotIndexer(modelInput.Structure.DutySlots)
	state := allocationState{
		faculty:   modelInput.Faculty,
		evaluator: model.NewPredicateEvaluator(modelInput),
		occupancy: model.NewOccupancy(nil),
		tally:     NewTally(),
	}

	//** Allocate slot by slot
	for _, slot := range indexer.Slots() {
		if err := ctx.Err(); err != nil {
			return Allocation{}, fmt.Errorf("allocation interrupted before slot %v: %w", slot.Key(), err)
		}
		allocator.allocateSlot(slot, state, &allocation)
	}

	allocator.logger.Debug().
		Int("assignments", len(allocation.Assignments)).
		Int("incomplete", len(allocation.IncompleteSlots)).
		Int("violations", len(allocation.Violations)).
		Msg("allocation finished")

	return allocation, nil
}

func (allocator *greedyAllocator) allocateSlot(slot model.DutySlot, state allocationState, allocation *Allocation) {
	key := slot.Key()
	slotAssignments := make([]model.Assignment, 0)

	for _, role := range model.Roles {
		capacity := slot.Capacity(role)
		needed := capacity

		// Each regular duty occupies exactly one room
		if role == model.RoleRegular && len(slot.Rooms) != slot.RegularDuties {
			allocation.Violations = append(allocation.Violations, model.NewRoomMismatch(key, slot.RegularDuties, len(slot.Rooms)))
			needed = min(slot.RegularDuties, len(slot.Rooms))
		}
		if capacity == 0 {
			continue
		}

		selected := allocator.selectCandidates(role, needed, slot, state, allocation)
		assignments := place(role, slot, selected)
		for _, assignment := range assignments {
			state.occupancy.Add(assignment)
		}
		slotAssignments = append(slotAssignments, assignments...)

		//** Record shortfall
		if len(selected) < capacity {
			allocation.IncompleteSlots = append(allocation.IncompleteSlots, model.IncompleteSlot{
				Day:      key.Day,
				Slot:     key.Slot,
				Role:     role,
				Needed:   capacity,
				Assigned: len(selected),
			})
		}
		if len(selected) < needed {
			if violation, ok := model.NewNoEligible(key, role, needed, len(selected)); ok {
				allocation.Violations = append(allocation.Violations, violation)
			}
		}

		allocator.logger.Debug().
			Str("slot", key.String()).
			Str("role", string(role)).
			Int("needed", needed).
			Int("assigned", len(selected)).
			Msg("role allocated")
	}

	//** Update running counts once the slot is final
	state.tally.Record(slotAssignments)
	for _, assignment := range slotAssignments {
		// Designations without a target for the role have no quota to exceed
		if !state.evaluator.Targeted(assignment.FacultyId, assignment.Role) {
			continue
		}
		count, target := state.tally.Count(assignment.FacultyId, assignment.Role), state.evaluator.Target(assignment.FacultyId, assignment.Role)
		if count > target {
			allocation.Warnings = append(allocation.Warnings, fmt.Sprintf("faculty %v exceeds the %v quota in slot %v: %d of %d", assignment.FacultyId, assignment.Role, key, count, target))
		}
	}

	allocation.Assignments = append(allocation.Assignments, slotAssignments...)
}

// selectCandidates returns up to needed faculty for the role in ranked order. Back-to-back candidates are moved
// behind everyone else and, depending on the policy, either fill what is left or are withheld
func (allocator *greedyAllocator) selectCandidates(role model.Role, needed int, slot model.DutySlot, state allocationState, allocation *Allocation) []model.Faculty {
	if needed <= 0 {
		return nil
	}
	key := slot.Key()

	//** Build eligible set
	candidates := lo.Filter(state.faculty, func(faculty model.Faculty, _ int) bool {
		id := faculty.FacultyId
		return !state.occupancy.Holds(key, id) &&
			state.evaluator.Available(id, slot) &&
			(role != model.RoleBuffer || state.evaluator.BufferEligible(id)) &&
			(!allocator.policy.StrictQuota() || state.tally.Count(id, role) < state.evaluator.Target(id, role))
	})

	//** Rank
	rank(candidates, role, state.tally, state.evaluator)

	//** Defer back-to-back candidates
	preferred := make([]model.Faculty, 0, len(candidates))
	deferred := make([]deferredCandidate, 0)
	for _, candidate := range candidates {
		if previous, conflict := state.evaluator.BackToBack(candidate.FacultyId, key, state.occupancy); conflict {
			deferred = append(deferred, deferredCandidate{faculty: candidate, previous: previous})
		} else {
			preferred = append(preferred, candidate)
		}
	}

	selected := slices.Clone(preferred[:min(needed, len(preferred))])
	for _, candidate := range deferred[:min(needed-len(selected), len(deferred))] {
		placed := !allocator.policy.StrictBackToBack()
		allocation.Violations = append(allocation.Violations, model.NewBackToBack(key, candidate.previous, candidate.faculty.FacultyId, role, placed))
		if placed {
			selected = append(selected, candidate.faculty)
		}
	}

	return selected
}

// place turns the ranked selection into assignments: regular duties take the slot's rooms in list order, reliever
// and squad duties split the rooms into contiguous stretches
func place(role model.Role, slot model.DutySlot, selected []model.Faculty) []model.Assignment {
	var coverage [][]string
	if role == model.RoleReliever || role == model.RoleSquad {
		coverage = splitRooms(slot.Rooms, len(selected))
	}

	return lo.Map(selected, func(faculty model.Faculty, i int) model.Assignment {
		assignment := model.Assignment{
			Day:       slot.Day,
			Slot:      slot.Slot,
			FacultyId: faculty.FacultyId,
			Role:      role,
		}
		switch role {
		case model.RoleRegular:
			assignment.RoomNumber = slot.Rooms[i]
		case model.RoleReliever, model.RoleSquad:
			assignment.Rooms = coverage[i]
		}
		return assignment
	})
}
