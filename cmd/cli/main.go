package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	"github.com/educurcio/park-scheduler/internal/milp"
	"github.com/educurcio/park-scheduler/internal/model"
	"gopkg.in/yaml.v3"
)

var validSolvers = []string{"cbc", "glpk", "enum"}

type solverConfig struct {
	CBCPath string `yaml:"cbcPath"`
}

func main() {
	var (
		inputPath  string
		solverName string
		timeLimit  time.Duration
		configPath string
	)
	flag.StringVar(&inputPath, "input", "", "path to the schedule input JSON file")
	flag.StringVar(&solverName, "solver", "cbc", fmt.Sprintf("MILP backend, one of %v", validSolvers))
	flag.DurationVar(&timeLimit, "time-limit", 5*time.Minute, "solver wall-clock time limit")
	flag.StringVar(&configPath, "config", "", "optional YAML file with solver settings")
	flag.Parse()

	if inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !slices.Contains(validSolvers, solverName) {
		log.Fatalf("unknown solver %q, expected one of %v", solverName, validSolvers)
	}

	config := solverConfig{CBCPath: "cbc"}
	if configPath != "" {
		bytes, err := os.ReadFile(configPath)
		if err != nil {
			log.Fatalf("cannot read config file: %v", err)
		}
		if err := yaml.Unmarshal(bytes, &config); err != nil {
			log.Fatalf("cannot parse config file: %v", err)
		}
	}

	input, err := model.InputFromJSON(inputPath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	solvers := map[string]func() milp.Solver{
		"cbc":  func() milp.Solver { return milp.NewCBCSolverWithPath(config.CBCPath) },
		"glpk": milp.NewGLPKSolver,
		"enum": milp.NewEnumerationSolver,
	}

	scheduler := model.NewScheduler(solvers[solverName](), timeLimit)
	result, err := scheduler.Schedule(input)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Status: %v\n", result.Status)
	if len(result.Assignments) == 0 {
		return
	}

	fmt.Printf("Total penalty: %v\n", result.Objective)
	for _, assignment := range result.Assignments {
		fmt.Printf("%v - %v\n", assignment.Day.Format(model.DateLayout), assignment.Park)
	}
	if result.Relaxed() {
		fmt.Println("Relaxed soft rules:")
		for _, violation := range result.Violations {
			fmt.Printf("  %v\n", violation)
		}
	}

	if !scheduler.Verify(result, input) {
		log.Fatal("Verification failed")
	}
}
