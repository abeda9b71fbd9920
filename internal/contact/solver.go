package contact

import "gonum.org/v1/gonum/mat"

// LinearSolver selects the dense linear-solver strategy used for the KKT and
// contact-space systems.
type LinearSolver int

const (
	// SolverLU factorizes with partially pivoted LU. Fastest, but performs
	// no singularity detection: a rank-deficient system (redundant or
	// parallel contacts) silently yields an unusable solution. Callers
	// choosing this path guarantee well-posed constraints.
	SolverLU LinearSolver = iota

	// SolverSVD solves via singular value decomposition with an effective
	// rank cutoff, returning the minimum-norm least-squares solution. Safe
	// for redundant and degenerate constraint configurations.
	SolverSVD
)

// svdRCond is the relative singular-value cutoff below which directions are
// treated as rank-deficient.
const svdRCond = 1e-12

func (s LinearSolver) String() string {
	switch s {
	case SolverLU:
		return "lu"
	case SolverSVD:
		return "svd"
	}
	return "unknown"
}

// solveLinear solves a*x = b with the selected strategy.
func solveLinear(method LinearSolver, a *mat.Dense, b, x *mat.VecDense) {
	switch method {
	case SolverLU:
		var lu mat.LU
		lu.Factorize(a)
		// The condition report is deliberately discarded: this path has
		// no singularity handling.
		_ = lu.SolveVecTo(x, false, b)
	case SolverSVD:
		var svd mat.SVD
		if !svd.Factorize(a, mat.SVDThin) {
			panic("contact: SVD factorization failed to converge")
		}
		rank := svd.Rank(svdRCond)
		if rank == 0 {
			x.Zero()
			return
		}
		svd.SolveVecTo(x, b, rank)
	default:
		panic("contact: unknown linear solver strategy")
	}
}
