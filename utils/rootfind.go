package utils

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoBracket      = errors.New("utils: root is not bracketed")
	ErrNonConvergence = errors.New("utils: root finder did not converge")
)

// RootFinder finds x in [lo, hi] with f(x) = 0, given f(lo) and f(hi) of
// opposite sign. xtol is an absolute tolerance on x.
type RootFinder interface {
	FindRoot(f func(float64) float64, lo, hi, xtol float64, maxIter int) (root float64, err error)
}

// Brent is the classic bracketing method combining bisection, secant and
// inverse quadratic interpolation steps.
type Brent struct {
	RelTol     float64
	Iterations int // iterations used by the most recent call
}

func NewBrent() *Brent {
	return &Brent{RelTol: 4 * 2.220446049250313e-16}
}

func (b *Brent) FindRoot(f func(float64) float64, lo, hi, xtol float64, maxIter int) (root float64, err error) {
	var (
		xpre, xcur       = lo, hi
		xblk, fblk       float64
		spre, scur, stry float64
		fpre, fcur       = f(xpre), f(xcur)
	)
	b.Iterations = 0
	if math.IsNaN(fpre) || math.IsNaN(fcur) {
		err = fmt.Errorf("%w: f is NaN at the bracket ends", ErrNoBracket)
		return
	}
	if fpre*fcur > 0 {
		err = fmt.Errorf("%w: f(%g) = %g, f(%g) = %g", ErrNoBracket, lo, fpre, hi, fcur)
		return
	}
	if fpre == 0 {
		return xpre, nil
	}
	if fcur == 0 {
		return xcur, nil
	}
	for i := 0; i < maxIter; i++ {
		b.Iterations = i + 1
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}
		delta := (xtol + b.RelTol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			return xcur, nil
		}
		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			if xpre == xblk {
				// secant
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				// inverse quadratic
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}
		xpre, fpre = xcur, fcur
		if math.Abs(scur) > delta {
			xcur += scur
		} else if sbis > 0 {
			xcur += delta
		} else {
			xcur -= delta
		}
		fcur = f(xcur)
	}
	return xcur, fmt.Errorf("%w after %d iterations, x = %g", ErrNonConvergence, maxIter, xcur)
}
