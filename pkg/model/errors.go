package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSlotNotFound is returned when a day/slot pair does not exist in the exam structure.
	ErrSlotNotFound = errors.New("duty slot not found")

	// ErrUnknownFaculty is returned when a faculty id is not part of the roster.
	ErrUnknownFaculty = errors.New("unknown faculty")
)

// StructuralError collects the input defects that prevent an allocation from running at all
type StructuralError struct {
	Problems []string
}

func (err StructuralError) Error() string {
	return fmt.Sprintf("malformed exam input: %v", strings.Join(err.Problems, "; "))
}

// ValidateStructure checks the input for defects no allocation can work around: negative capacities, repeated or
// out of range slots, and empty or repeated faculty ids
func ValidateStructure(input ModelInput) error {
	problems := make([]string, 0)

	if input.Structure.Days < 0 {
		problems = append(problems, fmt.Sprintf("days must not be negative: %d", input.Structure.Days))
	}

	seenSlots := make(map[SlotKey]bool)
	for _, slot := range input.Structure.DutySlots {
		key := slot.Key()
		if seenSlots[key] {
			problems = append(problems, fmt.Sprintf("slot %v is defined more than once", key))
		}
		seenSlots[key] = true

		if slot.Slot < 0 || slot.Day < 0 || slot.Day >= input.Structure.Days {
			problems = append(problems, fmt.Sprintf("slot %v is outside the %d exam days", key, input.Structure.Days))
		}
		for _, role := range Roles {
			if slot.Capacity(role) < 0 {
				problems = append(problems, fmt.Sprintf("slot %v has negative %v duties: %d", key, role, slot.Capacity(role)))
			}
		}
	}

	seenFaculty := make(map[string]bool)
	for i, faculty := range input.Faculty {
		if faculty.FacultyId == "" {
			problems = append(problems, fmt.Sprintf("faculty at position %d has no id", i))
			continue
		}
		if seenFaculty[faculty.FacultyId] {
			problems = append(problems, fmt.Sprintf("faculty id \"%v\" is repeated", faculty.FacultyId))
		}
		seenFaculty[faculty.FacultyId] = true
	}

	if len(problems) > 0 {
		return StructuralError{Problems: problems}
	}
	return nil
}
