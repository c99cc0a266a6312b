package report

import (
	"fmt"

	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// SlotCapacity compares what a slot asks for with the most any schedule could fill
type SlotCapacity struct {
	Day        int `json:"day"`
	Slot       int `json:"slot"`
	Positions  int `json:"positions"`  // Duties requested, with regular duties capped at the number of rooms
	Achievable int `json:"achievable"` // Largest number of those duties that can be filled at once
}

func (capacity SlotCapacity) Key() model.SlotKey {
	return model.SlotKey{Day: capacity.Day, Slot: capacity.Slot}
}

// Capacity computes, for every slot, the size of a maximum matching between the slot's duty positions and the
// faculty eligible for each of them. Since nobody holds two duties in a slot, the matching bounds what any
// allocation can achieve regardless of quotas or back-to-back rules
func Capacity(modelInput model.ModelInput) ([]SlotCapacity, error) {
	evaluator := model.NewPredicateEvaluator(modelInput)
	indexer := model.NewSlotIndexer(modelInput.Structure.DutySlots)
	capacities := make([]SlotCapacity, 0, len(modelInput.Structure.DutySlots))

	for _, slot := range indexer.Slots() {
		positions := slotPositions(slot)
		capacity := SlotCapacity{Day: slot.Day, Slot: slot.Slot, Positions: len(positions)}

		faculty := lo.Filter(modelInput.Faculty, func(faculty model.Faculty, _ int) bool {
			return evaluator.Available(faculty.FacultyId, slot)
		})
		if len(positions) == 0 || len(faculty) == 0 {
			capacities = append(capacities, capacity)
			continue
		}

		achievable, err := largestMatching(positions, faculty, evaluator)
		if err != nil {
			return nil, fmt.Errorf("cannot compute capacity of slot %v: %w", slot.Key(), err)
		}
		capacity.Achievable = achievable
		capacities = append(capacities, capacity)
	}

	return capacities, nil
}

func slotPositions(slot model.DutySlot) []model.Role {
	positions := make([]model.Role, 0)
	for _, role := range model.Roles {
		count := slot.Capacity(role)
		if role == model.RoleRegular {
			count = min(count, len(slot.Rooms))
		}
		for range max(count, 0) {
			positions = append(positions, role)
		}
	}
	return positions
}

func largestMatching(positions []model.Role, faculty []model.Faculty, evaluator model.PredicateEvaluator) (int, error) {
	// Build neighbors predicate based on role eligibility
	neighbors := func(positionAny any, facultyAny any) (bool, error) {
		role := positionAny.(model.Role)
		member := facultyAny.(model.Faculty)

		return role != model.RoleBuffer || evaluator.BufferEligible(member.FacultyId), nil
	}

	// Transform positions and faculty to slices of any
	positionsAny, facultyAny := lo.Map(positions, func(role model.Role, _ int) any { return role }), lo.Map(faculty, func(member model.Faculty, _ int) any { return member })

	graph, err := bipartitegraph.NewBipartiteGraph(positionsAny, facultyAny, neighbors)
	if err != nil {
		return 0, err
	}
	return len(graph.LargestMatching()), nil
}

// Underfilled compares assignments against the capacities and describes every slot where fewer duties were placed
// than a maximum matching shows to be possible
func Underfilled(capacities []SlotCapacity, assignments []model.Assignment) []string {
	placed := lo.CountValuesBy(assignments, func(assignment model.Assignment) model.SlotKey {
		return assignment.Key()
	})

	messages := make([]string, 0)
	for _, capacity := range capacities {
		if assigned := placed[capacity.Key()]; assigned < capacity.Achievable {
			messages = append(messages, fmt.Sprintf("slot %v: %d of %d duties filled, %d were achievable", capacity.Key(), assigned, capacity.Positions, capacity.Achievable))
		}
	}
	return messages
}
