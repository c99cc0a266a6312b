package model

import (
	"slices"
)

type predicateEvaluatorStandard struct {
	structure   ExamStructure
	roster      map[string]Faculty
	unavailable map[string]map[string]bool // Dates (YYYY-MM-DD) on which each faculty member cannot serve
	indexer     SlotIndexer
}

func newPredicateEvaluatorStandard(modelInput ModelInput) *predicateEvaluatorStandard {
	evaluator := predicateEvaluatorStandard{
		structure:   modelInput.Structure,
		roster:      modelInput.FacultyById(),
		unavailable: make(map[string]map[string]bool),
		indexer:     NewSlotIndexer(modelInput.Structure.DutySlots),
	}

	for _, entry := range modelInput.Unavailable {
		date, err := NormalizeDate(entry.Date)
		if err != nil {
			date = entry.Date // Compare verbatim, a malformed date can still match a slot carrying the same text
		}
		if _, ok := evaluator.unavailable[entry.FacultyId]; !ok {
			evaluator.unavailable[entry.FacultyId] = make(map[string]bool)
		}
		evaluator.unavailable[entry.FacultyId][date] = true
	}

	return &evaluator
}

func (evaluator *predicateEvaluatorStandard) Available(facultyId string, slot DutySlot) bool {
	dates, ok := evaluator.unavailable[facultyId]
	if !ok {
		return true
	}
	date, err := NormalizeDate(slot.Date)
	if err != nil {
		date = slot.Date
	}
	return !dates[date]
}

func (evaluator *predicateEvaluatorStandard) BufferEligible(facultyId string) bool {
	eligibility := evaluator.structure.DesignationBufferEligibility
	if eligibility == nil {
		return true
	}
	faculty, ok := evaluator.roster[facultyId]
	if !ok {
		return false
	}
	return eligibility[faculty.Designation]
}

func (evaluator *predicateEvaluatorStandard) Target(facultyId string, role Role) int {
	faculty, ok := evaluator.roster[facultyId]
	if !ok {
		return 0
	}
	return evaluator.structure.Target(faculty.Designation, role)
}

func (evaluator *predicateEvaluatorStandard) Targeted(facultyId string, role Role) bool {
	faculty, ok := evaluator.roster[facultyId]
	return ok && evaluator.structure.HasTarget(faculty.Designation, role)
}

func (evaluator *predicateEvaluatorStandard) RoomInSlot(room string, slot DutySlot) bool {
	return slices.Contains(slot.Rooms, room)
}

func (evaluator *predicateEvaluatorStandard) BackToBack(facultyId string, key SlotKey, occupancy *Occupancy) (SlotKey, bool) {
	previous, ok := evaluator.indexer.Previous(key)
	if !ok {
		return SlotKey{}, false
	}
	return previous, occupancy.Holds(previous, facultyId)
}
