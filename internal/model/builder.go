package model

import (
	"fmt"
	"time"

	"github.com/educurcio/park-scheduler/internal/milp"
)

// Penalty weights of the soft rules. They are large enough to dominate any
// trade-off among soft rules while the hard constraints stay strictly
// enforced: the model always prefers violating many soft rules over violating
// one hard rule, and fewer soft-rule instances to more.
const (
	PenaltyPreferred   = 10000
	PenaltyConsecutive = 10000
	PenaltyWindow      = 10000
)

// assignKey identifies the assignment variable of a park on a day, both by
// their positions in the input.
type assignKey struct {
	Park int
	Day  int
}

// pairKey identifies the slack variable shared by the two temporal orders of a
// park pair on a day pair. Park1 < Park2 and Day1 < Day2 always.
type pairKey struct {
	Park1, Park2 int
	Day1, Day2   int
}

// ScheduleModel couples the built MILP with the lookup tables needed to read a
// solution back into parks and days.
type ScheduleModel struct {
	Input ScheduleInput
	Model *milp.Model

	assign      map[assignKey]milp.Var
	prefSlack   map[int]milp.Var
	consecSlack map[pairKey]milp.Var
	windowSlack map[pairKey]milp.Var
}

// BuildModel translates the scheduling rules into a complete MILP. The
// construction is deterministic: identical inputs produce identical models,
// variable by variable and constraint by constraint. No solving happens here.
func BuildModel(input ScheduleInput) (*ScheduleModel, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}

	sm := &ScheduleModel{
		Input:       input,
		Model:       milp.NewModel("park_schedule"),
		assign:      map[assignKey]milp.Var{},
		prefSlack:   map[int]milp.Var{},
		consecSlack: map[pairKey]milp.Var{},
		windowSlack: map[pairKey]milp.Var{},
	}

	sm.addAssignmentVariables()
	sm.addOccupancyConstraints()
	sm.addDayRestrictionConstraints()
	sm.addPreferredDayConstraints()
	sm.addConsecutiveDemandingConstraints()
	sm.addCompanyWindowConstraints()
	return sm, nil
}

// one binary per (park, day): 1 iff the park is visited on the day
func (sm *ScheduleModel) addAssignmentVariables() {
	for p := range sm.Input.Parks {
		for d := range sm.Input.Days {
			name := fmt.Sprintf("x_%d_%d", p, d)
			sm.assign[assignKey{Park: p, Day: d}] = sm.Model.AddBinary(name)
		}
	}
}

// at most one park per day; every park scheduled exactly once
func (sm *ScheduleModel) addOccupancyConstraints() {
	for d := range sm.Input.Days {
		terms := []milp.Term{}
		for p := range sm.Input.Parks {
			terms = append(terms, milp.Term{Var: sm.assign[assignKey{Park: p, Day: d}], Coef: 1})
		}
		sm.Model.AddConstraint(fmt.Sprintf("day_%d_single_park", d), terms, milp.LessOrEqual, 1)
	}
	for p := range sm.Input.Parks {
		terms := []milp.Term{}
		for d := range sm.Input.Days {
			terms = append(terms, milp.Term{Var: sm.assign[assignKey{Park: p, Day: d}], Coef: 1})
		}
		sm.Model.AddConstraint(fmt.Sprintf("park_%d_scheduled_once", p), terms, milp.Equal, 1)
	}
}

// forbidden and avoid days pin the assignment variable to 0, a required day
// pins it to 1
func (sm *ScheduleModel) addDayRestrictionConstraints() {
	for p, park := range sm.Input.Parks {
		for _, day := range park.ForbiddenDays {
			d := sm.dayIndex(day)
			sm.Model.AddConstraint(fmt.Sprintf("park_%d_forbidden_day_%d", p, d),
				[]milp.Term{{Var: sm.assign[assignKey{Park: p, Day: d}], Coef: 1}}, milp.Equal, 0)
		}
		if park.RequiredDay != nil {
			d := sm.dayIndex(*park.RequiredDay)
			sm.Model.AddConstraint(fmt.Sprintf("park_%d_required_day_%d", p, d),
				[]milp.Term{{Var: sm.assign[assignKey{Park: p, Day: d}], Coef: 1}}, milp.Equal, 1)
		}
		for _, day := range park.AvoidDays {
			d := sm.dayIndex(day)
			sm.Model.AddConstraint(fmt.Sprintf("park_%d_avoid_day_%d", p, d),
				[]milp.Term{{Var: sm.assign[assignKey{Park: p, Day: d}], Coef: 1}}, milp.Equal, 0)
		}
	}
}

// soft: landing outside all preferred days flips a penalized binary slack;
// parks without preferred days get no constraint at all
func (sm *ScheduleModel) addPreferredDayConstraints() {
	for p, park := range sm.Input.Parks {
		if len(park.PreferredDays) == 0 {
			continue
		}
		slack := sm.Model.AddBinary(fmt.Sprintf("pref_slack_%d", p))
		sm.prefSlack[p] = slack
		sm.Model.AddObjectiveTerm(slack, PenaltyPreferred)

		terms := []milp.Term{}
		for _, day := range park.PreferredDays {
			terms = append(terms, milp.Term{Var: sm.assign[assignKey{Park: p, Day: sm.dayIndex(day)}], Coef: 1})
		}
		terms = append(terms, milp.Term{Var: slack, Coef: 1})
		sm.Model.AddConstraint(fmt.Sprintf("park_%d_preferred_days", p), terms, milp.Equal, 1)
	}
}

// soft: two distinct demanding parks on consecutive days. One continuous slack
// per (pair, day pair) absorbs both temporal orders.
func (sm *ScheduleModel) addConsecutiveDemandingConstraints() {
	for p1 := range sm.Input.Parks {
		if !sm.Input.Parks[p1].Demanding {
			continue
		}
		for p2 := p1 + 1; p2 < len(sm.Input.Parks); p2++ {
			if !sm.Input.Parks[p2].Demanding {
				continue
			}
			for d1 := 0; d1 < len(sm.Input.Days)-1; d1++ {
				d2 := d1 + 1
				key := pairKey{Park1: p1, Park2: p2, Day1: d1, Day2: d2}
				slack := sm.Model.AddContinuous(fmt.Sprintf("consec_slack_%d_%d_%d_%d", p1, p2, d1, d2), 0, 1)
				sm.consecSlack[key] = slack
				sm.Model.AddObjectiveTerm(slack, PenaltyConsecutive)

				sm.addRelaxedPairConstraint(fmt.Sprintf("demanding_%d_%d_days_%d_%d", p1, p2, d1, d2), p1, d1, p2, d2, slack)
				sm.addRelaxedPairConstraint(fmt.Sprintf("demanding_%d_%d_days_%d_%d", p1, p2, d2, d1), p1, d2, p2, d1, slack)
			}
		}
	}
}

// soft: two parks of one company further apart than the company's grouping
// window, again with one shared slack per (pair, day pair)
func (sm *ScheduleModel) addCompanyWindowConstraints() {
	windows := map[string]int{}
	for _, company := range sm.Input.Companies {
		windows[company.Name] = company.WindowDays
	}

	for p1 := range sm.Input.Parks {
		for p2 := p1 + 1; p2 < len(sm.Input.Parks); p2++ {
			if sm.Input.Parks[p1].Company != sm.Input.Parks[p2].Company {
				continue
			}
			window := windows[sm.Input.Parks[p1].Company]
			for d1 := range sm.Input.Days {
				for d2 := d1 + 1; d2 < len(sm.Input.Days); d2++ {
					if spanDays(sm.Input.Days[d1], sm.Input.Days[d2]) <= window {
						continue
					}
					key := pairKey{Park1: p1, Park2: p2, Day1: d1, Day2: d2}
					slack := sm.Model.AddContinuous(fmt.Sprintf("window_slack_%d_%d_%d_%d", p1, p2, d1, d2), 0, 1)
					sm.windowSlack[key] = slack
					sm.Model.AddObjectiveTerm(slack, PenaltyWindow)

					sm.addRelaxedPairConstraint(fmt.Sprintf("window_%d_%d_days_%d_%d", p1, p2, d1, d2), p1, d1, p2, d2, slack)
					sm.addRelaxedPairConstraint(fmt.Sprintf("window_%d_%d_days_%d_%d", p1, p2, d2, d1), p1, d2, p2, d1, slack)
				}
			}
		}
	}
}

// x[p1][d1] + x[p2][d2] <= 1 + slack
func (sm *ScheduleModel) addRelaxedPairConstraint(name string, p1, d1, p2, d2 int, slack milp.Var) {
	sm.Model.AddConstraint(name, []milp.Term{
		{Var: sm.assign[assignKey{Park: p1, Day: d1}], Coef: 1},
		{Var: sm.assign[assignKey{Park: p2, Day: d2}], Coef: 1},
		{Var: slack, Coef: -1},
	}, milp.LessOrEqual, 1)
}

func (sm *ScheduleModel) dayIndex(day time.Time) int {
	for d, candidate := range sm.Input.Days {
		if candidate.Equal(day) {
			return d
		}
	}
	// unreachable: Validate rejects day references outside the calendar
	panic(fmt.Sprintf("day %v is not part of the calendar", day.Format(DateLayout)))
}
