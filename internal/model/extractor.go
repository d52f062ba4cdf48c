package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/educurcio/park-scheduler/internal/milp"
	"github.com/samber/lo"
)

// Assignment variables are declared integral and round cleanly; slack values
// may carry continuous-relaxation noise, hence the looser tolerance.
const (
	assignmentThreshold = 0.5
	slackTolerance      = 1e-4
)

// Rule names a soft scheduling rule for violation reporting.
type Rule int

const (
	RulePreferredDays Rule = iota
	RuleConsecutiveDemanding
	RuleCompanyWindow
)

func (rule Rule) String() string {
	switch rule {
	case RulePreferredDays:
		return "preferred days"
	case RuleConsecutiveDemanding:
		return "consecutive demanding parks"
	default:
		return "company grouping window"
	}
}

// Violation is one soft-rule instance the solver chose to pay for.
type Violation struct {
	Rule  Rule
	Parks []string
	Days  []time.Time
	Slack float64
}

func (v Violation) String() string {
	days := lo.Map(v.Days, func(day time.Time, _ int) string { return day.Format(DateLayout) })
	return fmt.Sprintf("%v: %v on %v", v.Rule, strings.Join(v.Parks, ", "), strings.Join(days, ", "))
}

// Assignment maps one day to the park visited on it.
type Assignment struct {
	Day  time.Time
	Park string
}

// ScheduleResult is the extracted outcome of one optimization run. With an
// Infeasible or NotSolved status, or a TimedOut run without an incumbent,
// Assignments is empty.
type ScheduleResult struct {
	Status      milp.Status
	Objective   float64
	Assignments []Assignment
	Violations  []Violation
}

// Relaxed reports whether the schedule pays for at least one soft rule.
func (r ScheduleResult) Relaxed() bool {
	return len(r.Violations) > 0
}

// Extract reconstructs the day-by-day schedule from solved variable values and
// verifies the bijection invariant: every park appears exactly once and no day
// hosts two parks. An invariant failure is returned as *InvariantError.
func Extract(sm *ScheduleModel, solution milp.Solution) (ScheduleResult, error) {
	switch solution.Status {
	case milp.Infeasible, milp.NotSolved:
		return ScheduleResult{Status: solution.Status}, nil
	}
	if !solution.HasValues() {
		// timed out before any incumbent was found
		return ScheduleResult{Status: solution.Status}, nil
	}

	result := ScheduleResult{Status: solution.Status, Objective: solution.Objective}
	scheduled := make([]int, len(sm.Input.Parks))
	for d, day := range sm.Input.Days {
		selected := -1
		for p := range sm.Input.Parks {
			if solution.Value(sm.assign[assignKey{Park: p, Day: d}]) < assignmentThreshold {
				continue
			}
			if selected >= 0 {
				return ScheduleResult{}, invariantErrorf("parks %q and %q are both assigned to %v",
					sm.Input.Parks[selected].Name, sm.Input.Parks[p].Name, day.Format(DateLayout))
			}
			selected = p
			scheduled[p]++
		}
		if selected >= 0 {
			result.Assignments = append(result.Assignments, Assignment{Day: day, Park: sm.Input.Parks[selected].Name})
		}
	}
	for p, count := range scheduled {
		if count != 1 {
			return ScheduleResult{}, invariantErrorf("park %q is scheduled %d times", sm.Input.Parks[p].Name, count)
		}
	}

	result.Violations = sm.violations(solution)
	return result, nil
}

// violations enumerates every soft-rule instance with nonzero slack, in the
// deterministic park/day order of the input.
func (sm *ScheduleModel) violations(solution milp.Solution) []Violation {
	violations := []Violation{}

	for p, park := range sm.Input.Parks {
		slack, ok := sm.prefSlack[p]
		if ok && solution.Value(slack) > assignmentThreshold {
			violations = append(violations, Violation{
				Rule:  RulePreferredDays,
				Parks: []string{park.Name},
				Days:  park.PreferredDays,
				Slack: solution.Value(slack),
			})
		}
	}
	for p1 := range sm.Input.Parks {
		for p2 := p1 + 1; p2 < len(sm.Input.Parks); p2++ {
			for d1 := range sm.Input.Days {
				for d2 := d1 + 1; d2 < len(sm.Input.Days); d2++ {
					key := pairKey{Park1: p1, Park2: p2, Day1: d1, Day2: d2}
					violations = sm.appendPairViolation(violations, solution, RuleConsecutiveDemanding, sm.consecSlack, key)
					violations = sm.appendPairViolation(violations, solution, RuleCompanyWindow, sm.windowSlack, key)
				}
			}
		}
	}
	return violations
}

func (sm *ScheduleModel) appendPairViolation(violations []Violation, solution milp.Solution, rule Rule, slacks map[pairKey]milp.Var, key pairKey) []Violation {
	slack, ok := slacks[key]
	if !ok || solution.Value(slack) <= slackTolerance {
		return violations
	}
	return append(violations, Violation{
		Rule:  rule,
		Parks: []string{sm.Input.Parks[key.Park1].Name, sm.Input.Parks[key.Park2].Name},
		Days:  []time.Time{sm.Input.Days[key.Day1], sm.Input.Days[key.Day2]},
		Slack: solution.Value(slack),
	})
}
