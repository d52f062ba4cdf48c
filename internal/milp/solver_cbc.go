package milp

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const cbcPath = "cbc"

type cbcSolver struct {
	path string
}

// NewCBCSolver returns a backend that shells out to the COIN-OR CBC binary.
// The model is exchanged through an LP file and the solution file is parsed
// back; the time limit is passed down with -seconds.
func NewCBCSolver() Solver {
	return &cbcSolver{path: cbcPath}
}

// NewCBCSolverWithPath is NewCBCSolver with an explicit binary location.
func NewCBCSolverWithPath(path string) Solver {
	return &cbcSolver{path: path}
}

func (solver *cbcSolver) Solve(model *Model, timeLimit time.Duration) (Solution, error) {
	dir, err := os.MkdirTemp("", "milp-cbc-*")
	if err != nil {
		return Solution{}, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(dir)

	modelPath := filepath.Join(dir, "model.lp")
	solutionPath := filepath.Join(dir, "model.sol")
	if err := os.WriteFile(modelPath, []byte(model.ToLP()), 0o600); err != nil {
		return Solution{}, fmt.Errorf("failed to write LP file: %w", err)
	}

	args := []string{modelPath}
	if timeLimit > 0 {
		args = append(args, "-seconds", strconv.Itoa(int(math.Ceil(timeLimit.Seconds()))))
	}
	args = append(args, "-solve", "-solution", solutionPath)

	cmd := exec.Command(solver.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during cbc execution: %v : %v", err, stderr.String())
	}

	output, err := os.ReadFile(solutionPath)
	if err != nil {
		return Solution{}, fmt.Errorf("failed to read cbc solution file: %w", err)
	}
	return parseCBCSolution(model, string(output))
}

// parseCBCSolution decodes a CBC solution file: a status header such as
// "Optimal - objective value 20000.00000000" followed by one
// "index name value reduced-cost" row per nonzero variable.
func parseCBCSolution(model *Model, output string) (Solution, error) {
	lines := strings.Split(output, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return Solution{}, fmt.Errorf("empty cbc solution file")
	}
	header := strings.TrimSpace(lines[0])

	var status Status
	switch {
	case strings.HasPrefix(header, "Optimal"):
		status = Optimal
	case strings.Contains(header, "infeasible"), strings.Contains(header, "Infeasible"):
		return Solution{Status: Infeasible}, nil
	case strings.HasPrefix(header, "Stopped on time"):
		status = TimedOut
	case strings.HasPrefix(header, "Stopped"):
		status = Feasible
	default:
		return Solution{Status: NotSolved}, nil
	}

	objective := 0.0
	if i := strings.Index(header, "objective value"); i >= 0 {
		value, err := strconv.ParseFloat(strings.TrimSpace(header[i+len("objective value"):]), 64)
		if err != nil {
			return Solution{}, fmt.Errorf("invalid objective value in cbc header %q: %w", header, err)
		}
		objective = value
	}

	handles := make(map[string]Var, len(model.Variables))
	for i, variable := range model.Variables {
		handles[variable.Name] = Var(i)
	}

	values := make([]float64, len(model.Variables))
	for _, line := range lines[1:] {
		// Rows outside bounds are flagged with a leading "**".
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "**"))
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		handle, ok := handles[fields[1]]
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Solution{}, fmt.Errorf("invalid value for variable %q in cbc solution: %w", fields[1], err)
		}
		values[handle] = value
	}

	return Solution{Status: status, Objective: objective, Values: values}, nil
}
