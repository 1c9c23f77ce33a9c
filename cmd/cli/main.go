package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"uniplanner/internal/config"
	"uniplanner/internal/export"
	"uniplanner/internal/logger"
	"uniplanner/internal/schedule"
	"uniplanner/internal/solver"
)

var validModes = []string{"generate", "alternatives", "swap"}

func main() {
	// Define arguments
	modePtr := flag.String("mode", "generate", `Operation to run. Allowed values are:
- "generate" (build a full schedule from the input tables),
- "alternatives" (search alternative slots for one scheduled lesson) and
- "swap" (validate exchanging the slots of two scheduled lessons), where "generate" is the default`)
	dataPtr := flag.String("data", "", "Path to the directory holding the input tables (audiences.csv, groups.csv, lessons.csv, teachers.csv, students.csv)")
	schedulePtr := flag.String("schedule", "", "Path to an existing raw_schedule.csv; required by the alternatives and swap modes")
	lessonPtr := flag.Int("lesson", -1, "External id of the lesson to reschedule; required by the alternatives mode")
	lessonsPtr := flag.String("lessons", "", "Comma-separated external ids of the two lessons to swap; required by the swap mode")
	outPtr := flag.String("out", ".", "Directory where output files will be written")
	configPtr := flag.String("config", ".env", "Path to the configuration file")
	datePtr := flag.String("date", "", "Monday (YYYY-MM-DD) anchoring the week; enables the information-system export in generate mode")
	flag.Parse()
	mode := strings.ToLower(*modePtr)

	// Validate arguments
	if !slices.Contains(validModes, mode) {
		log.Fatalf("%v is not a valid mode", mode)
	} else if *dataPtr == "" {
		log.Fatal("an input data directory must be specified")
	} else if mode != "generate" && *schedulePtr == "" {
		log.Fatalf("the %v mode needs an existing schedule file", mode)
	} else if mode == "alternatives" && *lessonPtr < 0 {
		log.Fatal("the alternatives mode needs a lesson id")
	}

	var startMonday time.Time
	if *datePtr != "" {
		var err error
		startMonday, err = time.Parse(time.DateOnly, *datePtr)
		if err != nil {
			log.Fatalf("%v is not a YYYY-MM-DD date", *datePtr)
		}
		if startMonday.Weekday() != time.Monday {
			log.Fatalf("%v is not a Monday", *datePtr)
		}
	}

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	zapLog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer zapLog.Sync()

	dataset, err := schedule.LoadDataset(*dataPtr)
	if err != nil {
		log.Fatalf("cannot load input tables: %v", err)
	}

	switch mode {
	case "generate":
		generate(dataset, cfg, zapLog, *outPtr, startMonday)
	case "alternatives":
		alternatives(dataset, cfg, zapLog, *schedulePtr, *lessonPtr)
	case "swap":
		swap(dataset, cfg, zapLog, *schedulePtr, *lessonsPtr, *outPtr)
	}
}

func generate(dataset *schedule.Dataset, cfg *config.Config, zapLog *zap.Logger, outDir string, startMonday time.Time) {
	builder := schedule.NewProblemBuilder(dataset, nil, cfg.Weights.Model(), cfg.Solver.CapacitySlack, zapLog)
	table, _, err := builder.Build(schedule.NoReschedule())
	if err != nil {
		log.Fatalf("cannot build the scheduling problem: %v", err)
	}

	engine := solver.NewSolver()
	result, err := engine.Solve(table, builder.RuleSet(), cfg.Solver.SolveBudget)
	if err != nil {
		log.Fatalf("an error occurred during solving: %v", err)
	}

	fmt.Printf("Score: %v\n", result.Score)
	if !result.Score.Feasible() {
		fmt.Println(result.Explanation)
		os.Exit(20)
	}

	rows := schedule.RowsFromSolution(table)
	if err := schedule.SaveScheduleCSV(path.Join(outDir, "raw_schedule.csv"), rows); err != nil {
		log.Fatalf("cannot write raw schedule: %v", err)
	}
	if err := export.SavePivotCSV(path.Join(outDir, "pretty_schedule.csv"), rows); err != nil {
		log.Fatalf("cannot write pretty schedule: %v", err)
	}
	if err := schedule.SaveRecordsJSON(path.Join(outDir, "schedule_data.json"), schedule.RecordsFromRows(rows)); err != nil {
		log.Fatalf("cannot write schedule records: %v", err)
	}

	if !startMonday.IsZero() {
		records, err := export.Records(table, startMonday, 1, 1)
		if err != nil {
			log.Fatalf("cannot translate the schedule for export: %v", err)
		}
		if err := export.SaveRecordsJSON(path.Join(outDir, "export.json"), records); err != nil {
			log.Fatalf("cannot write export records: %v", err)
		}
	}
}

func alternatives(dataset *schedule.Dataset, cfg *config.Config, zapLog *zap.Logger, scheduleFile string, lessonID int) {
	rows, err := schedule.LoadScheduleCSV(scheduleFile)
	if err != nil {
		log.Fatalf("cannot load the committed schedule: %v", err)
	}

	currentRow := slices.IndexFunc(rows, func(row schedule.ScheduleRow) bool { return row.LessonID == lessonID })
	if currentRow < 0 {
		log.Fatalf("lesson %v is not part of the committed schedule", lessonID)
	}

	builder := schedule.NewProblemBuilder(dataset, schedule.RecordsFromRows(rows), cfg.Weights.Model(), cfg.Solver.CapacitySlack, zapLog)
	lessonIndex := slices.IndexFunc(builder.LessonRows(), func(record *schedule.LessonRecord) bool { return record.ID == lessonID })
	if lessonIndex < 0 {
		log.Fatalf("lesson %v is not part of the input tables", lessonID)
	}

	session := schedule.NewRescheduleSession(builder, solver.NewSolver(), lessonIndex, rows[currentRow].TimeslotID, cfg.Solver.SolveBudget, zapLog)
	found, err := session.Run(cfg.Solver.SearchBudget)
	if err != nil {
		log.Fatalf("an error occurred during the alternative search: %v", err)
	}

	fmt.Printf("Found %v alternative slots for lesson %v:\n", len(found), lessonID)
	for _, alternative := range found {
		fmt.Printf("- %v\n", alternative)
	}
}

func swap(dataset *schedule.Dataset, cfg *config.Config, zapLog *zap.Logger, scheduleFile, lessonsArg, outDir string) {
	lessonID1, lessonID2, err := parseLessonPair(lessonsArg)
	if err != nil {
		log.Fatal(err)
	}

	rows, err := schedule.LoadScheduleCSV(scheduleFile)
	if err != nil {
		log.Fatalf("cannot load the committed schedule: %v", err)
	}

	builder := schedule.NewProblemBuilder(dataset, schedule.RecordsFromRows(rows), cfg.Weights.Model(), cfg.Solver.CapacitySlack, zapLog)
	validator := schedule.NewSwapValidator(builder, solver.NewSolver(), cfg.Solver.SwapBudget, zapLog)

	result, err := validator.Validate(lessonID1, lessonID2, rows)
	if err != nil {
		log.Fatalf("an error occurred during swap validation: %v", err)
	}

	if !result.Accepted {
		fmt.Printf("Swap rejected with score %v\n", result.Score)
		fmt.Println(result.Explanation)
		os.Exit(20)
	}

	if err := schedule.SaveScheduleCSV(path.Join(outDir, "raw_schedule.csv"), result.Schedule); err != nil {
		log.Fatalf("cannot write raw schedule: %v", err)
	}
	if err := export.SavePivotCSV(path.Join(outDir, "pretty_schedule.csv"), result.Schedule); err != nil {
		log.Fatalf("cannot write pretty schedule: %v", err)
	}
	if err := schedule.SaveRecordsJSON(path.Join(outDir, "schedule_data.json"), schedule.RecordsFromRows(result.Schedule)); err != nil {
		log.Fatalf("cannot write schedule records: %v", err)
	}
	fmt.Printf("Swap accepted with score %v\n", result.Score)
}

func parseLessonPair(arg string) (int, int, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%q must be two comma-separated lesson ids", arg)
	}
	first, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a lesson id", parts[0])
	}
	second, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a lesson id", parts[1])
	}
	return first, second, nil
}
