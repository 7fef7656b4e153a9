package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// SolveCG solves A*x = b by the conjugate gradient method, overwriting x.
// The receiver must be square, symmetric and positive definite - the
// Crank-Nicolson elevation system is. Iteration stops when the residual
// norm falls below tol relative to ||b||, or after maxIter iterations.
func (m CSR) SolveCG(b, x []float64, tol float64, maxIter int) (iter int, resid float64) {
	var (
		nr, nc = m.Dims()
		n      = len(b)
		r      = make([]float64, n)
		p      = make([]float64, n)
		Ap     = make([]float64, n)
		bNorm  = floats.Norm(b, 2)
	)
	if nr != nc || nr != n || len(x) != n {
		err := fmt.Errorf("dimension mismatch in SolveCG: A is %dx%d, len(b) = %d, len(x) = %d", nr, nc, n, len(x))
		panic(err)
	}
	if bNorm == 0. {
		for i := range x {
			x[i] = 0.
		}
		return
	}
	m.MulVec(x, r)
	for i := range r {
		r[i] = b[i] - r[i]
	}
	copy(p, r)
	rsold := floats.Dot(r, r)
	for iter = 0; iter < maxIter; iter++ {
		resid = math.Sqrt(rsold) / bNorm
		if resid < tol {
			return
		}
		m.MulVec(p, Ap)
		alpha := rsold / floats.Dot(p, Ap)
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, Ap)
		rsnew := floats.Dot(r, r)
		beta := rsnew / rsold
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rsold = rsnew
	}
	resid = math.Sqrt(rsold) / bNorm
	return
}
