package model

import (
	"fmt"
	"time"

	"github.com/educurcio/park-scheduler/internal/milp"
	"github.com/samber/lo"
)

// Scheduler assigns every park to exactly one calendar day.
type Scheduler interface {
	// Schedule validates the input, builds the MILP, solves it within the
	// configured time limit and extracts the result. Infeasibility and
	// time-limit expiry come back as result statuses, not errors.
	Schedule(input ScheduleInput) (ScheduleResult, error)

	// Verify independently checks every hard rule of a returned schedule
	// against the input.
	Verify(result ScheduleResult, input ScheduleInput) bool
}

func NewScheduler(solver milp.Solver, timeLimit time.Duration) Scheduler {
	return &milpScheduler{
		solver:    solver,
		timeLimit: timeLimit,
	}
}

type milpScheduler struct {
	solver    milp.Solver
	timeLimit time.Duration
}

func (scheduler *milpScheduler) Schedule(input ScheduleInput) (ScheduleResult, error) {
	sm, err := BuildModel(input)
	if err != nil {
		return ScheduleResult{}, err
	}

	solution, err := scheduler.solver.Solve(sm.Model, scheduler.timeLimit)
	if err != nil {
		return ScheduleResult{}, fmt.Errorf("solver execution failed: %w", err)
	}

	return Extract(sm, solution)
}

func (scheduler *milpScheduler) Verify(result ScheduleResult, input ScheduleInput) bool {
	if len(result.Assignments) != len(input.Parks) {
		return false
	}

	visited := map[string]time.Time{}
	for _, assignment := range result.Assignments {
		if !containsDay(input.Days, assignment.Day) {
			return false
		}
		if _, ok := visited[assignment.Park]; ok {
			return false
		}
		visited[assignment.Park] = assignment.Day
	}
	distinctDays := lo.UniqBy(result.Assignments, func(assignment Assignment) string {
		return assignment.Day.Format(DateLayout)
	})
	if len(distinctDays) != len(result.Assignments) {
		return false
	}

	return lo.EveryBy(input.Parks, func(park Park) bool {
		day, ok := visited[park.Name]
		if !ok {
			return false
		}
		if containsDay(park.ForbiddenDays, day) || containsDay(park.AvoidDays, day) {
			return false
		}
		if park.RequiredDay != nil && !park.RequiredDay.Equal(day) {
			return false
		}
		return true
	})
}
