package milp

import (
	"errors"
	"fmt"
	"time"

	"github.com/lukpank/go-glpk/glpk"
)

type glpkSolver struct{}

// NewGLPKSolver returns an in-process backend built on the GLPK bindings.
// The wrapper does not expose the MIP time limit, so the branch-and-cut run
// is not interruptible; prefer the CBC backend when a hard wall-clock bound
// matters.
func NewGLPKSolver() Solver {
	return &glpkSolver{}
}

func (solver *glpkSolver) Solve(model *Model, timeLimit time.Duration) (Solution, error) {
	_ = timeLimit

	lp := glpk.New()
	defer lp.Delete()
	lp.SetProbName(model.Name)
	lp.SetObjDir(glpk.ObjDir(glpk.MIN))

	lp.AddCols(len(model.Variables))
	for i, variable := range model.Variables {
		col := i + 1
		lp.SetColName(col, variable.Name)
		switch variable.Type {
		case Binary:
			lp.SetColKind(col, glpk.VarType(glpk.BV))
		case Integer:
			lp.SetColKind(col, glpk.VarType(glpk.IV))
			lp.SetColBnds(col, glpk.BndsType(glpk.DB), variable.Low, variable.High)
		default:
			lp.SetColKind(col, glpk.VarType(glpk.CV))
			lp.SetColBnds(col, glpk.BndsType(glpk.DB), variable.Low, variable.High)
		}
	}
	for _, term := range model.Objective {
		lp.SetObjCoef(int(term.Var)+1, term.Coef)
	}

	lp.AddRows(len(model.Constraints))
	for i, constraint := range model.Constraints {
		row := i + 1
		lp.SetRowName(row, constraint.Name)

		// index 0 of both slices is ignored by SetMatRow
		ind := []int32{0}
		val := []float64{0}
		for _, term := range constraint.Terms {
			ind = append(ind, int32(term.Var)+1)
			val = append(val, term.Coef)
		}
		lp.SetMatRow(row, ind, val)

		switch constraint.Sense {
		case LessOrEqual:
			lp.SetRowBnds(row, glpk.BndsType(glpk.UP), 0, constraint.RHS)
		case GreaterOrEqual:
			lp.SetRowBnds(row, glpk.BndsType(glpk.LO), constraint.RHS, 0)
		default:
			lp.SetRowBnds(row, glpk.BndsType(glpk.FX), constraint.RHS, constraint.RHS)
		}
	}

	iocp := glpk.NewIocp()
	iocp.SetPresolve(true)
	iocp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))

	if err := lp.Intopt(iocp); err != nil {
		// With the presolver on, a model whose LP relaxation is already
		// infeasible surfaces as an ENOPFS/ENODFS error before MipStatus
		// carries anything useful; MipStatus only reports NOFEAS when the
		// relaxation was feasible but no integer solution exists.
		var optErr glpk.OptError
		if errors.As(err, &optErr) && (optErr == glpk.ENOPFS || optErr == glpk.ENODFS) {
			return Solution{Status: Infeasible}, nil
		}
		if lp.MipStatus() == glpk.NOFEAS {
			return Solution{Status: Infeasible}, nil
		}
		return Solution{}, fmt.Errorf("glpk intopt failed: %w", err)
	}

	var status Status
	switch lp.MipStatus() {
	case glpk.OPT:
		status = Optimal
	case glpk.FEAS:
		status = Feasible
	case glpk.NOFEAS:
		return Solution{Status: Infeasible}, nil
	default:
		return Solution{Status: NotSolved}, nil
	}

	values := make([]float64, len(model.Variables))
	for i := range model.Variables {
		values[i] = lp.MipColVal(i + 1)
	}
	return Solution{Status: status, Objective: lp.MipObjVal(), Values: values}, nil
}
