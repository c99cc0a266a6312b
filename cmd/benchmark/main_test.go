package main

import (
	"testing"

	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministic(t *testing.T) {
	for _, test := range getTests(7) {
		first, second := generate(test), generate(test)

		assert.Equal(t, first, second)
		assert.Len(t, first.Faculty, test.Faculty)
		assert.Len(t, first.Structure.DutySlots, test.Days*test.SlotsPerDay)
		assert.NoError(t, model.ValidateStructure(first))
	}
}

func TestGeneratedSlotsMatchRooms(t *testing.T) {
	input := generate(getTests(1)[0])

	for _, slot := range input.Structure.DutySlots {
		assert.Equal(t, slot.RegularDuties, len(slot.Rooms))
		assert.Positive(t, slot.BufferDuties)
	}
}

func TestMeasure(t *testing.T) {
	test := getTests(1)[0]

	result := measure(generate(test), test, lenient)

	assert.Positive(t, result.Assignments)
	assert.Positive(t, result.InputSize)
	require.Len(t, toRecord(result), 13)
	assert.Equal(t, "lenient", toRecord(result)[0])
	assert.Equal(t, test.Name, toRecord(result)[1])
}
