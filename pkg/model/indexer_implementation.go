package model

import (
	"slices"

	"github.com/samber/lo"
)

type indexerImplementation struct {
	slots     []DutySlot
	positions map[SlotKey]int
	firstSlot map[int]int // Smallest slot index per day
	lastSlot  map[int]int // Largest slot index per day
}

func newIndexerImplementation(slots []DutySlot) *indexerImplementation {
	sorted := slices.Clone(slots)
	slices.SortStableFunc(sorted, func(a, b DutySlot) int {
		if a.Key().Less(b.Key()) {
			return -1
		} else if b.Key().Less(a.Key()) {
			return 1
		}
		return 0
	})

	indexer := &indexerImplementation{
		slots:     sorted,
		positions: make(map[SlotKey]int, len(sorted)),
		firstSlot: make(map[int]int),
		lastSlot:  make(map[int]int),
	}

	for i, slot := range sorted {
		// Keep the first occurrence of a repeated key, structural validation reports the repetition
		if _, ok := indexer.positions[slot.Key()]; !ok {
			indexer.positions[slot.Key()] = i
		}
		if first, ok := indexer.firstSlot[slot.Day]; !ok || slot.Slot < first {
			indexer.firstSlot[slot.Day] = slot.Slot
		}
		if last, ok := indexer.lastSlot[slot.Day]; !ok || slot.Slot > last {
			indexer.lastSlot[slot.Day] = slot.Slot
		}
	}

	return indexer
}

func (indexer *indexerImplementation) Index(key SlotKey) (int, bool) {
	index, ok := indexer.positions[key]
	return index, ok
}

func (indexer *indexerImplementation) Slot(index int) DutySlot {
	return indexer.slots[index]
}

func (indexer *indexerImplementation) Slots() []DutySlot {
	return lo.Filter(indexer.slots, func(slot DutySlot, i int) bool {
		return indexer.positions[slot.Key()] == i
	})
}

func (indexer *indexerImplementation) Previous(key SlotKey) (SlotKey, bool) {
	sameDay := SlotKey{Day: key.Day, Slot: key.Slot - 1}
	if _, ok := indexer.positions[sameDay]; ok {
		return sameDay, true
	}

	if first, ok := indexer.firstSlot[key.Day]; !ok || first != key.Slot {
		return SlotKey{}, false
	}

	last, ok := indexer.lastSlot[key.Day-1]
	if !ok {
		return SlotKey{}, false
	}
	return SlotKey{Day: key.Day - 1, Slot: last}, true
}
