package model

// SlotIndexer gives every duty slot a unique ordinal in day-major, slot-minor order and vice versa
type SlotIndexer interface {
	// Returns the ordinal of the slot identified by key
	Index(key SlotKey) (index int, ok bool)
	// Returns the slot stored at the given ordinal
	Slot(index int) DutySlot
	// Returns every slot in allocation order
	Slots() []DutySlot
	// Returns the slot a duty in key would be back-to-back with: the preceding slot index of the same day or, for
	// the first slot of a day, the last slot of the previous day
	Previous(key SlotKey) (previous SlotKey, ok bool)
}

func NewSlotIndexer(slots []DutySlot) SlotIndexer {
	return newIndexerImplementation(slots)
}
