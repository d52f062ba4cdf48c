package milp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// VarType is the domain of a decision variable.
type VarType int

const (
	Binary VarType = iota
	Integer
	Continuous
)

// Var is the handle of a variable inside its Model.
type Var int

type Variable struct {
	Name string
	Type VarType
	Low  float64
	High float64
}

// Term is a single coefficient*variable product of a linear expression.
type Term struct {
	Var  Var
	Coef float64
}

// Sense relates the left-hand side of a constraint to its right-hand side.
type Sense int

const (
	LessOrEqual Sense = iota
	GreaterOrEqual
	Equal
)

type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Model is a mixed-integer linear program with a minimization objective.
type Model struct {
	Name        string
	Variables   []Variable
	Constraints []Constraint
	Objective   []Term
}

func NewModel(name string) *Model {
	return &Model{Name: name}
}

func (m *Model) AddVariable(name string, varType VarType, low, high float64) Var {
	m.Variables = append(m.Variables, Variable{Name: name, Type: varType, Low: low, High: high})
	return Var(len(m.Variables) - 1)
}

func (m *Model) AddBinary(name string) Var {
	return m.AddVariable(name, Binary, 0, 1)
}

func (m *Model) AddContinuous(name string, low, high float64) Var {
	return m.AddVariable(name, Continuous, low, high)
}

func (m *Model) AddConstraint(name string, terms []Term, sense Sense, rhs float64) {
	m.Constraints = append(m.Constraints, Constraint{Name: name, Terms: terms, Sense: sense, RHS: rhs})
}

func (m *Model) AddObjectiveTerm(v Var, coef float64) {
	m.Objective = append(m.Objective, Term{Var: v, Coef: coef})
}

// ToLP renders the model in CPLEX-LP text format, the exchange format consumed
// by the exec-based solver backends.
func (m *Model) ToLP() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "\\* %s *\\\n", m.Name)

	builder.WriteString("Minimize\n")
	builder.WriteString("obj:")
	if len(m.Objective) == 0 && len(m.Variables) > 0 {
		// A constant objective still needs a variable reference to be well-formed.
		fmt.Fprintf(&builder, " 0 %s", m.Variables[0].Name)
	} else {
		m.writeTerms(&builder, m.Objective)
	}
	builder.WriteString("\n")

	builder.WriteString("Subject To\n")
	for _, constraint := range m.Constraints {
		fmt.Fprintf(&builder, "%s:", constraint.Name)
		m.writeTerms(&builder, constraint.Terms)
		fmt.Fprintf(&builder, " %s %s\n", senseString(constraint.Sense), formatCoef(constraint.RHS))
	}

	bounded := []Variable{}
	binaries := []Variable{}
	generals := []Variable{}
	for _, variable := range m.Variables {
		switch variable.Type {
		case Binary:
			binaries = append(binaries, variable)
		case Integer:
			generals = append(generals, variable)
			bounded = append(bounded, variable)
		default:
			bounded = append(bounded, variable)
		}
	}

	if len(bounded) > 0 {
		builder.WriteString("Bounds\n")
		for _, variable := range bounded {
			fmt.Fprintf(&builder, "%s <= %s <= %s\n", formatCoef(variable.Low), variable.Name, formatCoef(variable.High))
		}
	}
	if len(generals) > 0 {
		builder.WriteString("Generals\n")
		for _, variable := range generals {
			builder.WriteString(variable.Name + "\n")
		}
	}
	if len(binaries) > 0 {
		builder.WriteString("Binaries\n")
		for _, variable := range binaries {
			builder.WriteString(variable.Name + "\n")
		}
	}

	builder.WriteString("End\n")
	return builder.String()
}

func (m *Model) writeTerms(builder *strings.Builder, terms []Term) {
	for i, term := range terms {
		coef := term.Coef
		if i == 0 {
			if coef < 0 {
				builder.WriteString(" -")
			}
		} else if coef < 0 {
			builder.WriteString(" -")
		} else {
			builder.WriteString(" +")
		}
		if magnitude := math.Abs(coef); magnitude != 1 {
			builder.WriteString(" " + formatCoef(magnitude))
		}
		builder.WriteString(" " + m.Variables[term.Var].Name)
	}
}

func senseString(sense Sense) string {
	switch sense {
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	default:
		return "="
	}
}

func formatCoef(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
