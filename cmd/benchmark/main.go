package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"time"

	"uniplanner/internal/solver"
)

const (
	solveBudget  = 30 * time.Second
	seedsPerSize = 3
)

type InstanceMetadata struct {
	Lessons  int
	Teachers int
	Groups   int
	Rooms    int
}

type BenchmarkResult struct {
	Instance InstanceMetadata
	Seed     int64
	Duration time.Duration
	Score    string
	Feasible bool
}

func main() {
	instances := getInstances()
	results := make([]BenchmarkResult, 0, len(instances)*seedsPerSize)

	for _, instance := range instances {
		for seed := int64(0); seed < seedsPerSize; seed++ {
			fmt.Printf("Benchmarking %v lessons, %v teachers, %v groups, %v rooms, seed %v\n",
				instance.Lessons, instance.Teachers, instance.Groups, instance.Rooms, seed)

			results = append(results, measure(instance, seed))
		}
	}

	toCsv(results)
}

func getInstances() []InstanceMetadata {
	return []InstanceMetadata{
		{Lessons: 20, Teachers: 5, Groups: 4, Rooms: 5},
		{Lessons: 50, Teachers: 10, Groups: 8, Rooms: 8},
		{Lessons: 100, Teachers: 20, Groups: 15, Rooms: 12},
		{Lessons: 200, Teachers: 40, Groups: 30, Rooms: 20},
		{Lessons: 400, Teachers: 80, Groups: 60, Rooms: 30},
	}
}

func measure(instance InstanceMetadata, seed int64) BenchmarkResult {
	table, rules := solver.GenerateInstance(instance.Lessons, instance.Teachers, instance.Groups, instance.Rooms, seed)
	engine := solver.NewSeededSolver(seed)

	start := time.Now()
	result, err := engine.Solve(table, rules, solveBudget)
	if err != nil {
		log.Fatalf("an error occurred during solving: %v", err)
	}

	return BenchmarkResult{
		Instance: instance,
		Seed:     seed,
		Duration: time.Since(start),
		Score:    result.Score.String(),
		Feasible: result.Score.Feasible(),
	}
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Lessons", "Teachers", "Groups", "Rooms", "Seed", "Duration(ms)", "Score", "Feasible"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			fmt.Sprintf("%d", result.Instance.Lessons),
			fmt.Sprintf("%d", result.Instance.Teachers),
			fmt.Sprintf("%d", result.Instance.Groups),
			fmt.Sprintf("%d", result.Instance.Rooms),
			fmt.Sprintf("%d", result.Seed),
			fmt.Sprintf("%d", result.Duration.Milliseconds()),
			result.Score,
			fmt.Sprintf("%v", result.Feasible),
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}
