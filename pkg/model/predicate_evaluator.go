package model

type PredicateEvaluator interface {
	// Checks whether the faculty member is available on the slot's date
	Available(facultyId string, slot DutySlot) bool

	// Checks whether the faculty member's designation may take buffer duties
	BufferEligible(facultyId string) bool

	// Returns the faculty member's duty target for the role over the whole exam
	Target(facultyId string, role Role) int

	// Checks whether the faculty member's designation has a target for the role at all
	Targeted(facultyId string, role Role) bool

	// Checks whether the room belongs to the slot's room list
	RoomInSlot(room string, slot DutySlot) bool

	// Checks whether a duty in key would follow a duty of the same faculty member in the previous slot, returning
	// that previous slot
	BackToBack(facultyId string, key SlotKey, occupancy *Occupancy) (previous SlotKey, conflict bool)
}

func NewPredicateEvaluator(modelInput ModelInput) PredicateEvaluator {
	return newPredicateEvaluatorStandard(modelInput)
}
