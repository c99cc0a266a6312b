package model

import "slices"

// Occupancy indexes an assignment list by slot: which roles every faculty member holds there, which faculty hold
// each regular room, and how many duties of each role are filled
type Occupancy struct {
	roles map[SlotKey]map[string][]Role
	rooms map[SlotKey]map[string][]string
	count map[SlotKey]map[Role]int
}

func NewOccupancy(assignments []Assignment) *Occupancy {
	occupancy := &Occupancy{
		roles: make(map[SlotKey]map[string][]Role),
		rooms: make(map[SlotKey]map[string][]string),
		count: make(map[SlotKey]map[Role]int),
	}
	for _, assignment := range assignments {
		occupancy.Add(assignment)
	}
	return occupancy
}

func (occupancy *Occupancy) Add(assignment Assignment) {
	key := assignment.Key()

	if _, ok := occupancy.roles[key]; !ok {
		occupancy.roles[key] = make(map[string][]Role)
		occupancy.rooms[key] = make(map[string][]string)
		occupancy.count[key] = make(map[Role]int)
	}

	occupancy.roles[key][assignment.FacultyId] = append(occupancy.roles[key][assignment.FacultyId], assignment.Role)
	occupancy.count[key][assignment.Role]++
	if assignment.Role == RoleRegular && assignment.RoomNumber != "" {
		occupancy.rooms[key][assignment.RoomNumber] = append(occupancy.rooms[key][assignment.RoomNumber], assignment.FacultyId)
	}
}

// Remove drops one duty matching the assignment's faculty, role and room. It is a no-op when none is recorded
func (occupancy *Occupancy) Remove(assignment Assignment) {
	key := assignment.Key()

	roles := occupancy.roles[key][assignment.FacultyId]
	index := slices.Index(roles, assignment.Role)
	if index < 0 {
		return
	}
	roles = slices.Delete(roles, index, index+1)
	if len(roles) == 0 {
		delete(occupancy.roles[key], assignment.FacultyId)
	} else {
		occupancy.roles[key][assignment.FacultyId] = roles
	}
	occupancy.count[key][assignment.Role]--

	if assignment.Role == RoleRegular && assignment.RoomNumber != "" {
		holders := occupancy.rooms[key][assignment.RoomNumber]
		if index := slices.Index(holders, assignment.FacultyId); index >= 0 {
			holders = slices.Delete(holders, index, index+1)
		}
		if len(holders) == 0 {
			delete(occupancy.rooms[key], assignment.RoomNumber)
		} else {
			occupancy.rooms[key][assignment.RoomNumber] = holders
		}
	}
}

// Roles returns the roles the faculty member holds in the slot, in insertion order
func (occupancy *Occupancy) Roles(key SlotKey, facultyId string) []Role {
	return occupancy.roles[key][facultyId]
}

// Holds reports whether the faculty member has any duty in the slot
func (occupancy *Occupancy) Holds(key SlotKey, facultyId string) bool {
	return len(occupancy.roles[key][facultyId]) > 0
}

// RoomHolders returns the faculty holding a regular duty in the room during the slot
func (occupancy *Occupancy) RoomHolders(key SlotKey, room string) []string {
	return occupancy.rooms[key][room]
}

// Count returns the number of filled duties of a role in the slot
func (occupancy *Occupancy) Count(key SlotKey, role Role) int {
	return occupancy.count[key][role]
}

// Faculty returns the ids of every faculty member holding a duty in the slot
func (occupancy *Occupancy) Faculty(key SlotKey) []string {
	ids := make([]string, 0, len(occupancy.roles[key]))
	for id := range occupancy.roles[key] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
