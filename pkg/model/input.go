package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

const DateLayout = "2006-01-02"

type RawFaculty struct {
	SNo         int    `mapstructure:"sNo"`
	Name        string `mapstructure:"name"`
	FacultyId   string `mapstructure:"facultyId"`
	Designation string `mapstructure:"designation"`
	Department  string `mapstructure:"department"`
	PhoneNo     string `mapstructure:"phoneNo"`
}

type RawDutySlot struct {
	Day            int
	Slot           int
	Date           string
	StartTime      string     `mapstructure:"startTime"`
	EndTime        string     `mapstructure:"endTime"`
	RegularDuties  int        `mapstructure:"regularDuties"`
	RelieverDuties int        `mapstructure:"relieverDuties"`
	SquadDuties    int        `mapstructure:"squadDuties"`
	BufferDuties   int        `mapstructure:"bufferDuties"`
	Rooms          []string   `mapstructure:"rooms"`
	RoomSheet      [][]string `mapstructure:"roomSheet"` // Raw cells of an uploaded room sheet, used when Rooms is empty
}

type RawExamStructure struct {
	Days                         int
	DutySlots                    []RawDutySlot   `mapstructure:"dutySlots"`
	DesignationDutyCounts        map[string]int  `mapstructure:"designationDutyCounts"`
	DesignationRelieverCounts    map[string]int  `mapstructure:"designationRelieverCounts"`
	DesignationSquadCounts       map[string]int  `mapstructure:"designationSquadCounts"`
	DesignationBufferCounts      map[string]int  `mapstructure:"designationBufferCounts"`
	DesignationBufferEligibility map[string]bool `mapstructure:"designationBufferEligibility"`
}

type RawUnavailableFaculty struct {
	FacultyId string `mapstructure:"facultyId"`
	Date      string
}

type RawModelInput struct {
	Faculty     []RawFaculty
	Structure   RawExamStructure
	Unavailable []RawUnavailableFaculty
}

type Faculty struct {
	SNo         int    `json:"sNo"`
	Name        string `json:"name"`
	FacultyId   string `json:"facultyId"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
	PhoneNo     string `json:"phoneNo"`
}

type DutySlot struct {
	Day            int      `json:"day"`
	Slot           int      `json:"slot"`
	Date           string   `json:"date"`
	StartTime      string   `json:"startTime"`
	EndTime        string   `json:"endTime"`
	RegularDuties  int      `json:"regularDuties"`
	RelieverDuties int      `json:"relieverDuties"`
	SquadDuties    int      `json:"squadDuties"`
	BufferDuties   int      `json:"bufferDuties"`
	Rooms          []string `json:"rooms"`
}

func (slot DutySlot) Key() SlotKey {
	return SlotKey{Day: slot.Day, Slot: slot.Slot}
}

// Capacity returns the number of faculty the slot asks for in the given role
func (slot DutySlot) Capacity(role Role) int {
	switch role {
	case RoleRegular:
		return slot.RegularDuties
	case RoleReliever:
		return slot.RelieverDuties
	case RoleSquad:
		return slot.SquadDuties
	case RoleBuffer:
		return slot.BufferDuties
	}
	return 0
}

type ExamStructure struct {
	Days                         int             `json:"days"`
	DutySlots                    []DutySlot      `json:"dutySlots"`
	DesignationDutyCounts        map[string]int  `json:"designationDutyCounts"`
	DesignationRelieverCounts    map[string]int  `json:"designationRelieverCounts"`
	DesignationSquadCounts       map[string]int  `json:"designationSquadCounts"`
	DesignationBufferCounts      map[string]int  `json:"designationBufferCounts"`
	DesignationBufferEligibility map[string]bool `json:"designationBufferEligibility,omitempty"`
}

// Target returns the per-faculty duty target of a designation for the given role over the whole exam
func (structure ExamStructure) Target(designation string, role Role) int {
	switch role {
	case RoleRegular:
		return structure.DesignationDutyCounts[designation]
	case RoleReliever:
		return structure.DesignationRelieverCounts[designation]
	case RoleSquad:
		return structure.DesignationSquadCounts[designation]
	case RoleBuffer:
		return structure.DesignationBufferCounts[designation]
	}
	return 0
}

// HasTarget reports whether the designation has an entry in the role's target map
func (structure ExamStructure) HasTarget(designation string, role Role) bool {
	var targets map[string]int
	switch role {
	case RoleRegular:
		targets = structure.DesignationDutyCounts
	case RoleReliever:
		targets = structure.DesignationRelieverCounts
	case RoleSquad:
		targets = structure.DesignationSquadCounts
	case RoleBuffer:
		targets = structure.DesignationBufferCounts
	}
	_, ok := targets[designation]
	return ok
}

// Slot finds the duty slot identified by day and slot
func (structure ExamStructure) Slot(day, slot int) (DutySlot, bool) {
	return lo.Find(structure.DutySlots, func(dutySlot DutySlot) bool {
		return dutySlot.Day == day && dutySlot.Slot == slot
	})
}

type UnavailableFaculty struct {
	FacultyId string `json:"facultyId"`
	Date      string `json:"date"`
}

type ModelInput struct {
	Faculty     []Faculty            `json:"faculty"`
	Structure   ExamStructure        `json:"structure"`
	Unavailable []UnavailableFaculty `json:"unavailable"`
}

// FacultyById indexes the roster by faculty id. When an id repeats, the first occurrence wins
func (input ModelInput) FacultyById() map[string]Faculty {
	roster := make(map[string]Faculty, len(input.Faculty))
	for _, faculty := range input.Faculty {
		if _, ok := roster[faculty.FacultyId]; !ok {
			roster[faculty.FacultyId] = faculty
		}
	}
	return roster
}

func InputFromJson(file string) (ModelInput, []string, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, nil, fmt.Errorf("cannot read input file: %w", err)
	}
	return InputFromJsonBytes(bytes)
}

func InputFromJsonBytes(bytes []byte) (ModelInput, []string, error) {
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, nil, fmt.Errorf("cannot parse input json: %w", err)
	}

	var rawInput RawModelInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true, // Spreadsheet cells often arrive as numbers where strings are expected and vice versa
		Result:           &rawInput,
	})
	if err != nil {
		return ModelInput{}, nil, err
	}
	if err := decoder.Decode(inputJson); err != nil {
		return ModelInput{}, nil, fmt.Errorf("cannot decode input: %w", err)
	}

	input, warnings := ProcessRawInput(rawInput)
	return input, warnings, nil
}

// ProcessRawInput normalizes raw rows the way the upstream spreadsheet parser does: rows missing an id, a name or a
// designation are dropped, repeated faculty ids are dropped, room lists are trimmed and de-duplicated, and dates are
// reduced to their YYYY-MM-DD part. Every dropped or altered row yields a warning
func ProcessRawInput(rawInput RawModelInput) (ModelInput, []string) {
	warnings := make([]string, 0)

	//** Manage faculty
	faculty := make([]Faculty, 0, len(rawInput.Faculty))
	seen := make(map[string]bool)
	for i, row := range rawInput.Faculty {
		id, name, designation := strings.TrimSpace(row.FacultyId), strings.TrimSpace(row.Name), strings.TrimSpace(row.Designation)
		if id == "" || name == "" || designation == "" {
			warnings = append(warnings, fmt.Sprintf("faculty row %d skipped: faculty id, name and designation are required", i+1))
			continue
		}
		if seen[id] {
			warnings = append(warnings, fmt.Sprintf("faculty row %d skipped: duplicate faculty id \"%v\"", i+1, id))
			continue
		}
		seen[id] = true

		faculty = append(faculty, Faculty{
			SNo:         row.SNo,
			Name:        name,
			FacultyId:   id,
			Designation: designation,
			Department:  strings.TrimSpace(row.Department),
			PhoneNo:     strings.TrimSpace(row.PhoneNo),
		})
	}

	//** Manage duty slots
	slots := make([]DutySlot, 0, len(rawInput.Structure.DutySlots))
	for _, rawSlot := range rawInput.Structure.DutySlots {
		key := SlotKey{Day: rawSlot.Day, Slot: rawSlot.Slot}

		date, err := NormalizeDate(rawSlot.Date)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("slot %v: %v", key, err))
			date = strings.TrimSpace(rawSlot.Date)
		}

		rooms := rawSlot.Rooms
		if len(rooms) == 0 && len(rawSlot.RoomSheet) > 0 {
			rooms = FlattenRooms(rawSlot.RoomSheet)
		}
		cleaned := FlattenRooms([][]string{rooms})
		if len(cleaned) != len(rooms) {
			warnings = append(warnings, fmt.Sprintf("slot %v: %d blank or repeated room entries removed", key, len(rooms)-len(cleaned)))
		}

		slots = append(slots, DutySlot{
			Day:            rawSlot.Day,
			Slot:           rawSlot.Slot,
			Date:           date,
			StartTime:      rawSlot.StartTime,
			EndTime:        rawSlot.EndTime,
			RegularDuties:  rawSlot.RegularDuties,
			RelieverDuties: rawSlot.RelieverDuties,
			SquadDuties:    rawSlot.SquadDuties,
			BufferDuties:   rawSlot.BufferDuties,
			Rooms:          cleaned,
		})
	}

	//** Manage unavailability
	unavailable := make([]UnavailableFaculty, 0, len(rawInput.Unavailable))
	for _, entry := range rawInput.Unavailable {
		date, err := NormalizeDate(entry.Date)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("unavailability of \"%v\" skipped: %v", entry.FacultyId, err))
			continue
		}
		id := strings.TrimSpace(entry.FacultyId)
		if !seen[id] {
			warnings = append(warnings, fmt.Sprintf("unavailability references unknown faculty id \"%v\"", id))
		}
		unavailable = append(unavailable, UnavailableFaculty{FacultyId: id, Date: date})
	}

	structure := rawInput.Structure
	return ModelInput{
		Faculty: faculty,
		Structure: ExamStructure{
			Days:                         structure.Days,
			DutySlots:                    slots,
			DesignationDutyCounts:        structure.DesignationDutyCounts,
			DesignationRelieverCounts:    structure.DesignationRelieverCounts,
			DesignationSquadCounts:       structure.DesignationSquadCounts,
			DesignationBufferCounts:      structure.DesignationBufferCounts,
			DesignationBufferEligibility: structure.DesignationBufferEligibility,
		},
		Unavailable: unavailable,
	}, warnings
}

// FlattenRooms flattens the cells of a room sheet row by row into an ordered room list without blanks or repeats
func FlattenRooms(cells [][]string) []string {
	rooms := make([]string, 0)
	for _, row := range cells {
		for _, cell := range row {
			room := strings.TrimSpace(cell)
			if room == "" || slices.Contains(rooms, room) {
				continue
			}
			rooms = append(rooms, room)
		}
	}
	return rooms
}

// NormalizeDate reduces an ISO date or timestamp to its YYYY-MM-DD part
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if len(value) < len(DateLayout) {
		return "", fmt.Errorf("invalid date \"%v\"", value)
	}
	date, err := time.Parse(DateLayout, value[:len(DateLayout)])
	if err != nil {
		return "", fmt.Errorf("invalid date \"%v\"", value)
	}
	return date.Format(DateLayout), nil
}
