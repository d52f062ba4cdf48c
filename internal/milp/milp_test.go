package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelVariables(t *testing.T) {
	m := NewModel("vars")

	x := m.AddBinary("x_0")
	s := m.AddContinuous("s_0", 0, 1)
	n := m.AddVariable("n_0", Integer, 0, 5)

	require.Len(t, m.Variables, 3)
	assert.Equal(t, Variable{Name: "x_0", Type: Binary, Low: 0, High: 1}, m.Variables[x])
	assert.Equal(t, Variable{Name: "s_0", Type: Continuous, Low: 0, High: 1}, m.Variables[s])
	assert.Equal(t, Variable{Name: "n_0", Type: Integer, Low: 0, High: 5}, m.Variables[n])
}

func TestToLP(t *testing.T) {
	m := NewModel("tiny")
	x := m.AddBinary("x_0")
	y := m.AddBinary("x_1")
	s := m.AddContinuous("s_0", 0, 1)
	m.AddObjectiveTerm(s, 10000)
	m.AddConstraint("pair", []Term{{Var: x, Coef: 1}, {Var: y, Coef: 1}, {Var: s, Coef: -1}}, LessOrEqual, 1)
	m.AddConstraint("once", []Term{{Var: x, Coef: 1}, {Var: y, Coef: 1}}, Equal, 1)

	expected := `\* tiny *\
Minimize
obj: 10000 s_0
Subject To
pair: x_0 + x_1 - s_0 <= 1
once: x_0 + x_1 = 1
Bounds
0 <= s_0 <= 1
Binaries
x_0
x_1
End
`
	assert.Equal(t, expected, m.ToLP())
}

func TestToLPEmptyObjective(t *testing.T) {
	m := NewModel("no_objective")
	x := m.AddBinary("x_0")
	m.AddConstraint("fix", []Term{{Var: x, Coef: 1}}, Equal, 1)

	expected := `\* no_objective *\
Minimize
obj: 0 x_0
Subject To
fix: x_0 = 1
Binaries
x_0
End
`
	assert.Equal(t, expected, m.ToLP())
}

func TestSolutionValue(t *testing.T) {
	empty := Solution{Status: Infeasible}
	assert.False(t, empty.HasValues())
	assert.Equal(t, 0.0, empty.Value(Var(3)))

	solved := Solution{Status: Optimal, Values: []float64{1, 0.5}}
	assert.True(t, solved.HasValues())
	assert.Equal(t, 0.5, solved.Value(Var(1)))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Optimal", Optimal.String())
	assert.Equal(t, "Feasible", Feasible.String())
	assert.Equal(t, "Infeasible", Infeasible.String())
	assert.Equal(t, "TimedOut", TimedOut.String())
	assert.Equal(t, "NotSolved", NotSolved.String())
}
