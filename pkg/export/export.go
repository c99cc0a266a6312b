package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/samber/lo"
)

var (
	SlotHeader     = []string{"S No", "Role", "Room Number", "Faculty ID", "Faculty Name", "Phone Number"}
	OverviewHeader = []string{"S No", "Faculty ID", "Faculty Name", "Designation", "Department", "Regular", "Reliever", "Squad", "Buffer", "Total", "Coverage"}
)

type SlotRow struct {
	SNo         int
	Role        string
	RoomNumber  string // Role label for duties that are not bound to a room
	FacultyId   string
	FacultyName string
	PhoneNumber string
}

func (row SlotRow) Record() []string {
	return []string{strconv.Itoa(row.SNo), row.Role, row.RoomNumber, row.FacultyId, row.FacultyName, row.PhoneNumber}
}

// SlotRows lays out the duties of one slot: regular duties in room order, then relievers, squads and buffers
func SlotRows(slot model.DutySlot, assignments []model.Assignment, faculty []model.Faculty) []SlotRow {
	roster := model.ModelInput{Faculty: faculty}.FacultyById()

	duties := lo.Filter(assignments, func(assignment model.Assignment, _ int) bool {
		return assignment.Key() == slot.Key() && assignment.Role.Valid()
	})
	slices.SortStableFunc(duties, func(a, b model.Assignment) int {
		if a.Role != b.Role {
			return a.Role.Index() - b.Role.Index()
		}
		if a.Role == model.RoleRegular {
			return roomPosition(slot, a.RoomNumber) - roomPosition(slot, b.RoomNumber)
		}
		return 0
	})

	return lo.Map(duties, func(assignment model.Assignment, i int) SlotRow {
		room := assignment.RoomNumber
		if assignment.Role != model.RoleRegular {
			room = assignment.Role.Label()
		}
		member := roster[assignment.FacultyId]
		return SlotRow{
			SNo:         i + 1,
			Role:        assignment.Role.Label(),
			RoomNumber:  room,
			FacultyId:   assignment.FacultyId,
			FacultyName: member.Name,
			PhoneNumber: member.PhoneNo,
		}
	})
}

// roomPosition places rooms outside the slot's list after every listed room
func roomPosition(slot model.DutySlot, room string) int {
	if index := slices.Index(slot.Rooms, room); index >= 0 {
		return index
	}
	return len(slot.Rooms)
}

func WriteSlotCSV(w io.Writer, rows []SlotRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(SlotHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteOverviewCSV(w io.Writer, overview []model.FacultyDutyOverview) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(OverviewHeader); err != nil {
		return err
	}
	for i, entry := range overview {
		record := []string{
			strconv.Itoa(i + 1),
			entry.FacultyId,
			entry.FacultyName,
			entry.Designation,
			entry.Department,
			strconv.Itoa(entry.RegularDuties),
			strconv.Itoa(entry.RelieverDuties),
			strconv.Itoa(entry.SquadDuties),
			strconv.Itoa(entry.BufferDuties),
			strconv.Itoa(entry.TotalDuties),
			formatCoverage(entry.Coverage),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// formatCoverage renders reliever and squad coverage in slot order, e.g. "d0-s0:R1 R2; d1-s0:R3"
func formatCoverage(coverage map[string][]string) string {
	keys := lo.Keys(coverage)
	slices.SortFunc(keys, func(a, b string) int {
		keyA, keyB := parseSlotKey(a), parseSlotKey(b)
		if keyA == keyB {
			return strings.Compare(a, b)
		}
		if keyA.Less(keyB) {
			return -1
		}
		return 1
	})

	return strings.Join(lo.Map(keys, func(key string, _ int) string {
		return key + ":" + strings.Join(coverage[key], " ")
	}), "; ")
}

// parseSlotKey reads keys written as "d{day}-s{slot}"; anything else sorts first
func parseSlotKey(text string) model.SlotKey {
	var key model.SlotKey
	if _, err := fmt.Sscanf(text, "d%d-s%d", &key.Day, &key.Slot); err != nil {
		return model.SlotKey{Day: -1, Slot: -1}
	}
	return key
}

func WriteResultJSON(w io.Writer, result model.AssignmentResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// SlotFileName names the sheet of a slot with one-based day and slot numbers
func SlotFileName(key model.SlotKey) string {
	return fmt.Sprintf("day%d_slot%d.csv", key.Day+1, key.Slot+1)
}

// WriteDirectory writes one CSV per slot and an overview.csv into directory, creating it when missing
func WriteDirectory(directory string, modelInput model.ModelInput, result model.AssignmentResult) error {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("cannot create export directory: %w", err)
	}

	for _, slot := range model.NewSlotIndexer(modelInput.Structure.DutySlots).Slots() {
		rows := SlotRows(slot, result.Assignments, modelInput.Faculty)
		if err := writeFile(filepath.Join(directory, SlotFileName(slot.Key())), func(w io.Writer) error {
			return WriteSlotCSV(w, rows)
		}); err != nil {
			return err
		}
	}

	return writeFile(filepath.Join(directory, "overview.csv"), func(w io.Writer) error {
		return WriteOverviewCSV(w, result.DutyOverview)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %v: %w", path, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("cannot write %v: %w", path, err)
	}
	return file.Close()
}
