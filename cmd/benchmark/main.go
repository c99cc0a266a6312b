package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/limaJavier/invigilation/pkg/engine"
	"github.com/limaJavier/invigilation/pkg/model"

	"github.com/samber/lo"
)

const (
	MB float32 = 1024 * 1024
)

type PolicyType int

const (
	lenient PolicyType = iota
	strictBackToBack
	strictQuota
)

var (
	policyTypes = map[PolicyType]string{
		lenient:          "lenient",
		strictBackToBack: "strict-back-to-back",
		strictQuota:      "strict-quota",
	}
	policies = map[PolicyType]model.Policy{
		lenient:          model.DefaultPolicy(),
		strictBackToBack: {BackToBack: model.Strict, QuotaOverrun: model.Lenient},
		strictQuota:      {BackToBack: model.Lenient, QuotaOverrun: model.Strict},
	}
	designations = []string{"Professor", "Associate Professor", "Assistant Professor"}
)

type TestMetadata struct {
	Name        string
	Seed        int64
	Faculty     int
	Days        int
	SlotsPerDay int
	Rooms       int
	Unavailable int
}

type BenchmarkResult struct {
	Policy      PolicyType
	Test        TestMetadata
	Duration    int64
	InputSize   float32
	Assignments int
	Incomplete  int
	Violations  int
	Success     bool
}

func main() {
	outPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file where results will be written")
	seedPtr := flag.Int64("seed", 1, "Seed of the synthetic instances")
	flag.Parse()

	tests := getTests(*seedPtr)
	policyKinds := []PolicyType{lenient, strictBackToBack, strictQuota}
	results := make([]BenchmarkResult, 0, len(tests)*len(policyKinds))

	for _, test := range tests {
		input := generate(test)
		for _, policy := range policyKinds {
			fmt.Printf("Benchmarking test \"%v\" with policy \"%v\"\n", test.Name, policyTypes[policy])
			results = append(results, measure(input, test, policy))
		}
	}

	toCsv(*outPtr, results)
}

func getTests(seed int64) []TestMetadata {
	sizes := []struct {
		faculty, days, slots, rooms int
	}{
		{20, 3, 2, 4},
		{60, 5, 2, 10},
		{150, 8, 3, 25},
		{400, 10, 3, 60},
	}

	return lo.Map(sizes, func(size struct{ faculty, days, slots, rooms int }, i int) TestMetadata {
		return TestMetadata{
			Name:        fmt.Sprintf("synthetic-%d", i+1),
			Seed:        seed + int64(i),
			Faculty:     size.faculty,
			Days:        size.days,
			SlotsPerDay: size.slots,
			Rooms:       size.rooms,
			Unavailable: size.faculty / 10,
		}
	})
}

// generate builds a deterministic instance for the test's seed; relievers, squads and buffers are sized after the room count
func generate(test TestMetadata) model.ModelInput {
	random := rand.New(rand.NewSource(test.Seed))

	faculty := lo.Times(test.Faculty, func(i int) model.Faculty {
		return model.Faculty{
			SNo:         i + 1,
			Name:        fmt.Sprintf("Faculty %d", i+1),
			FacultyId:   fmt.Sprintf("F%04d", i+1),
			Designation: designations[random.Intn(len(designations))],
			Department:  fmt.Sprintf("Department %d", random.Intn(5)+1),
			PhoneNo:     fmt.Sprintf("9%09d", random.Intn(1_000_000_000)),
		}
	})

	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	slots := make([]model.DutySlot, 0, test.Days*test.SlotsPerDay)
	for day := range test.Days {
		for slot := range test.SlotsPerDay {
			rooms := lo.Times(test.Rooms, func(i int) string { return fmt.Sprintf("R%03d", i+1) })
			slots = append(slots, model.DutySlot{
				Day:            day,
				Slot:           slot,
				Date:           start.AddDate(0, 0, day).Format(model.DateLayout),
				StartTime:      fmt.Sprintf("%02d:00", 9+slot*3),
				EndTime:        fmt.Sprintf("%02d:00", 11+slot*3),
				RegularDuties:  test.Rooms,
				RelieverDuties: max(1, test.Rooms/10),
				SquadDuties:    max(1, test.Rooms/15),
				BufferDuties:   max(1, test.Rooms/20),
				Rooms:          rooms,
			})
		}
	}

	totalDuties := lo.SumBy(slots, func(slot model.DutySlot) int {
		return slot.RegularDuties + slot.RelieverDuties + slot.SquadDuties + slot.BufferDuties
	})
	perFaculty := max(1, totalDuties/test.Faculty)
	targets := func(scale int) map[string]int {
		return lo.SliceToMap(designations, func(designation string) (string, int) { return designation, scale })
	}

	unavailable := lo.Times(test.Unavailable, func(i int) model.UnavailableFaculty {
		return model.UnavailableFaculty{
			FacultyId: faculty[random.Intn(len(faculty))].FacultyId,
			Date:      start.AddDate(0, 0, random.Intn(test.Days)).Format(model.DateLayout),
		}
	})

	return model.ModelInput{
		Faculty: faculty,
		Structure: model.ExamStructure{
			Days:                      test.Days,
			DutySlots:                 slots,
			DesignationDutyCounts:     targets(perFaculty),
			DesignationRelieverCounts: targets(1),
			DesignationSquadCounts:    targets(1),
			DesignationBufferCounts:   targets(1),
			DesignationBufferEligibility: map[string]bool{
				designations[0]: false,
				designations[1]: true,
				designations[2]: true,
			},
		},
		Unavailable: unavailable,
	}
}

func measure(input model.ModelInput, test TestMetadata, policy PolicyType) BenchmarkResult {
	dutyEngine := engine.New(engine.WithPolicy(policies[policy]))

	start := time.Now()
	result, err := dutyEngine.Run(context.Background(), input)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		log.Fatalf("an error occurred during the allocation of test \"%v\" using policy \"%v\": %v", test.Name, policyTypes[policy], err)
	}

	return BenchmarkResult{
		Policy:      policy,
		Test:        test,
		Duration:    duration,
		InputSize:   float32(inputSize(input)) / MB,
		Assignments: len(result.Assignments),
		Incomplete:  len(result.IncompleteSlots),
		Violations:  len(result.Violations),
		Success:     result.Success,
	}
}

// inputSize approximates the bytes held by the instance's strings
func inputSize(input model.ModelInput) int {
	size := lo.SumBy(input.Faculty, func(faculty model.Faculty) int {
		return len(faculty.Name) + len(faculty.FacultyId) + len(faculty.Designation) + len(faculty.Department) + len(faculty.PhoneNo)
	})
	size += lo.SumBy(input.Structure.DutySlots, func(slot model.DutySlot) int {
		return lo.SumBy(slot.Rooms, func(room string) int { return len(room) }) + len(slot.Date) + len(slot.StartTime) + len(slot.EndTime)
	})
	return size
}

func toRecord(result BenchmarkResult) []string {
	return []string{
		policyTypes[result.Policy],
		result.Test.Name,
		fmt.Sprintf("%d", result.Test.Seed),
		fmt.Sprintf("%d", result.Test.Faculty),
		fmt.Sprintf("%d", result.Test.Days),
		fmt.Sprintf("%d", result.Test.SlotsPerDay),
		fmt.Sprintf("%d", result.Test.Rooms),
		fmt.Sprintf("%d", result.Duration),
		fmt.Sprintf("%.3f", result.InputSize),
		fmt.Sprintf("%d", result.Assignments),
		fmt.Sprintf("%d", result.Incomplete),
		fmt.Sprintf("%d", result.Violations),
		fmt.Sprintf("%v", result.Success),
	}
}

func toCsv(path string, results []BenchmarkResult) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Policy", "Test", "Seed", "Faculty", "Days", "Slots Per Day", "Rooms", "Duration(ms)", "Input(MB)", "Assignments", "Incomplete Slots", "Violations", "Success"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		if err := writer.Write(toRecord(result)); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}
