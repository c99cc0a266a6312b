package allocation

import (
	"cmp"
	"slices"
	"strings"

	"github.com/limaJavier/invigilation/pkg/model"
)

// Tally is the running per-faculty, per-role duty count threaded through an allocation. A fresh tally is created
// for every run so concurrent runs share nothing
type Tally struct {
	counts map[string][]int
}

func NewTally() *Tally {
	return &Tally{counts: make(map[string][]int)}
}

func (tally *Tally) Count(facultyId string, role model.Role) int {
	counts, ok := tally.counts[facultyId]
	if !ok || role.Index() < 0 {
		return 0
	}
	return counts[role.Index()]
}

func (tally *Tally) Record(assignments []model.Assignment) {
	for _, assignment := range assignments {
		index := assignment.Role.Index()
		if index < 0 {
			continue
		}
		if _, ok := tally.counts[assignment.FacultyId]; !ok {
			tally.counts[assignment.FacultyId] = make([]int, len(model.Roles))
		}
		tally.counts[assignment.FacultyId][index]++
	}
}

// rank orders candidates by ascending count relative to their target for the role, then by ascending faculty id.
// Faculty whose target is zero go after everyone with a positive target
func rank(candidates []model.Faculty, role model.Role, tally *Tally, evaluator model.PredicateEvaluator) {
	slices.SortFunc(candidates, func(a, b model.Faculty) int {
		countA, targetA := tally.Count(a.FacultyId, role), evaluator.Target(a.FacultyId, role)
		countB, targetB := tally.Count(b.FacultyId, role), evaluator.Target(b.FacultyId, role)

		if comparison := compareLoad(countA, targetA, countB, targetB); comparison != 0 {
			return comparison
		}
		return strings.Compare(a.FacultyId, b.FacultyId)
	})
}

// compareLoad compares countA/targetA with countB/targetB without leaving integer arithmetic
func compareLoad(countA, targetA, countB, targetB int) int {
	switch {
	case targetA > 0 && targetB > 0:
		return cmp.Compare(countA*targetB, countB*targetA)
	case targetA > 0:
		return -1
	case targetB > 0:
		return 1
	}
	return cmp.Compare(countA, countB)
}

// splitRooms divides rooms into parts contiguous stretches whose sizes differ by at most one, larger stretches first
func splitRooms(rooms []string, parts int) [][]string {
	chunks := make([][]string, parts)
	if parts == 0 {
		return chunks
	}

	size, remainder := len(rooms)/parts, len(rooms)%parts
	start := 0
	for i := range parts {
		end := start + size
		if i < remainder {
			end++
		}
		if end > start {
			chunks[i] = slices.Clone(rooms[start:end])
		}
		start = end
	}
	return chunks
}
