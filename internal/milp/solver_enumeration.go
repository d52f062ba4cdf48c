package milp

import (
	"fmt"
	"time"
)

const enumEpsilon = 1e-6

// deadline checks are amortized over this many search nodes
const enumDeadlineStride = 256

type enumerationSolver struct{}

// NewEnumerationSolver returns an exact backend that branches over the integer
// variables and completes slack-style continuous variables to their minimal
// feasible values. It is only practical for small instances; its purpose is to
// serve as a hermetic backend where no external solver binary is installed.
//
// Continuous variables must follow the slack pattern: each appears in
// less-or-equal rows only, with a negative coefficient, and no row carries more
// than one continuous term.
func NewEnumerationSolver() Solver {
	return &enumerationSolver{}
}

func (solver *enumerationSolver) Solve(model *Model, timeLimit time.Duration) (Solution, error) {
	search, err := newEnumeration(model, timeLimit)
	if err != nil {
		return Solution{}, err
	}

	search.branch(0)

	if search.timedOut {
		if search.found {
			return Solution{Status: TimedOut, Objective: search.bestObjective, Values: search.best}, nil
		}
		return Solution{Status: TimedOut}, nil
	}
	if search.found {
		return Solution{Status: Optimal, Objective: search.bestObjective, Values: search.best}, nil
	}
	return Solution{Status: Infeasible}, nil
}

// relaxation is a row a continuous slack variable is allowed to absorb.
type relaxation struct {
	constraint int
	coef       float64
}

type enumeration struct {
	model    *Model
	deadline time.Time
	bounded  bool

	values   []float64
	assigned []bool
	intVars  []Var
	contVars []Var

	varConstraints [][]int
	relaxations    map[Var][]relaxation

	best          []float64
	bestObjective float64
	found         bool
	timedOut      bool
	nodes         int
}

func newEnumeration(model *Model, timeLimit time.Duration) (*enumeration, error) {
	search := &enumeration{
		model:          model,
		bounded:        timeLimit > 0,
		deadline:       time.Now().Add(timeLimit),
		values:         make([]float64, len(model.Variables)),
		assigned:       make([]bool, len(model.Variables)),
		varConstraints: make([][]int, len(model.Variables)),
		relaxations:    map[Var][]relaxation{},
	}

	for i, variable := range model.Variables {
		if variable.Type == Continuous {
			search.contVars = append(search.contVars, Var(i))
		} else {
			search.intVars = append(search.intVars, Var(i))
		}
	}

	for ci, constraint := range model.Constraints {
		continuous := 0
		for _, term := range constraint.Terms {
			if search.model.Variables[term.Var].Type != Continuous {
				search.varConstraints[term.Var] = append(search.varConstraints[term.Var], ci)
				continue
			}
			continuous++
			if continuous > 1 || constraint.Sense != LessOrEqual || term.Coef >= 0 {
				return nil, fmt.Errorf("enumeration solver: constraint %q does not follow the slack pattern", constraint.Name)
			}
			search.relaxations[term.Var] = append(search.relaxations[term.Var], relaxation{constraint: ci, coef: term.Coef})
		}
	}
	return search, nil
}

// branch assigns the k-th integer variable and recurses; it returns false when
// the deadline expired and the search must unwind.
func (search *enumeration) branch(k int) bool {
	search.nodes++
	if search.bounded && search.nodes%enumDeadlineStride == 0 && time.Now().After(search.deadline) {
		search.timedOut = true
		return false
	}

	if k == len(search.intVars) {
		search.leaf()
		return true
	}

	v := search.intVars[k]
	variable := search.model.Variables[v]
	search.assigned[v] = true
	for value := int(variable.High); value >= int(variable.Low); value-- {
		search.values[v] = float64(value)
		if !search.consistent(v) {
			continue
		}
		if !search.branch(k + 1) {
			search.assigned[v] = false
			return false
		}
	}
	search.assigned[v] = false
	return true
}

// consistent bound-checks every constraint touching v: unassigned variables
// contribute their extreme feasible values.
func (search *enumeration) consistent(v Var) bool {
	for _, ci := range search.varConstraints[v] {
		constraint := search.model.Constraints[ci]
		minLHS, maxLHS := 0.0, 0.0
		for _, term := range constraint.Terms {
			if search.assigned[term.Var] {
				contribution := term.Coef * search.values[term.Var]
				minLHS += contribution
				maxLHS += contribution
				continue
			}
			variable := search.model.Variables[term.Var]
			if term.Coef > 0 {
				minLHS += term.Coef * variable.Low
				maxLHS += term.Coef * variable.High
			} else {
				minLHS += term.Coef * variable.High
				maxLHS += term.Coef * variable.Low
			}
		}
		switch constraint.Sense {
		case LessOrEqual:
			if minLHS > constraint.RHS+enumEpsilon {
				return false
			}
		case GreaterOrEqual:
			if maxLHS < constraint.RHS-enumEpsilon {
				return false
			}
		default:
			if minLHS > constraint.RHS+enumEpsilon || maxLHS < constraint.RHS-enumEpsilon {
				return false
			}
		}
	}
	return true
}

// leaf completes the continuous slack variables to their minimal feasible
// values and records the incumbent when it improves the objective.
func (search *enumeration) leaf() {
	for _, v := range search.contVars {
		variable := search.model.Variables[v]
		value := variable.Low
		for _, r := range search.relaxations[v] {
			constraint := search.model.Constraints[r.constraint]
			lhs := 0.0
			for _, term := range constraint.Terms {
				if term.Var != v {
					lhs += term.Coef * search.values[term.Var]
				}
			}
			if required := (lhs - constraint.RHS) / -r.coef; required > value {
				value = required
			}
		}
		if value > variable.High+enumEpsilon {
			return
		}
		search.values[v] = value
	}

	objective := 0.0
	for _, term := range search.model.Objective {
		objective += term.Coef * search.values[term.Var]
	}
	if !search.found || objective < search.bestObjective-enumEpsilon {
		search.found = true
		search.bestObjective = objective
		search.best = append([]float64(nil), search.values...)
	}
}
