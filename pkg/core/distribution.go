package core

import (
	"fmt"
	"sort"
)

// Distribution1D is a piecewise-constant distribution over [0, 1) built
// from non-negative weights. It is used to pick lights by importance.
type Distribution1D struct {
	Func    []float64
	CDF     []float64
	FuncInt float64
}

// NewDistribution1D builds a distribution from weights. If every weight is
// zero the distribution is uniform. Negative weights panic.
func NewDistribution1D(weights []float64) *Distribution1D {
	n := len(weights)
	d := &Distribution1D{
		Func: make([]float64, n),
		CDF:  make([]float64, n+1),
	}
	copy(d.Func, weights)

	for i := 1; i <= n; i++ {
		if d.Func[i-1] < 0 {
			panic(fmt.Sprintf("distribution weight %d is negative: %g", i-1, d.Func[i-1]))
		}
		d.CDF[i] = d.CDF[i-1] + d.Func[i-1]/float64(n)
	}

	d.FuncInt = d.CDF[n]
	if d.FuncInt == 0 {
		for i := 1; i <= n; i++ {
			d.CDF[i] = float64(i) / float64(n)
		}
	} else {
		for i := 1; i <= n; i++ {
			d.CDF[i] /= d.FuncInt
		}
	}
	return d
}

// Count returns the number of buckets
func (d *Distribution1D) Count() int {
	return len(d.Func)
}

// SampleDiscrete picks a bucket for u in [0, 1) and returns its index,
// its probability and u remapped to [0, 1) within the bucket
func (d *Distribution1D) SampleDiscrete(u float64) (int, float64, float64) {
	n := len(d.Func)
	if n == 0 {
		return -1, 0, 0
	}

	// Find the last CDF entry that is <= u
	offset := sort.Search(len(d.CDF), func(i int) bool { return d.CDF[i] > u }) - 1
	offset = max(0, min(offset, n-1))

	pdf := d.DiscretePDF(offset)
	uRemapped := u - d.CDF[offset]
	if width := d.CDF[offset+1] - d.CDF[offset]; width > 0 {
		uRemapped /= width
	}
	return offset, pdf, min(uRemapped, OneMinusEpsilon)
}

// DiscretePDF returns the probability of choosing bucket index
func (d *Distribution1D) DiscretePDF(index int) float64 {
	if index < 0 || index >= len(d.Func) {
		return 0
	}
	if d.FuncInt == 0 {
		return 1 / float64(len(d.Func))
	}
	return d.Func[index] / (d.FuncInt * float64(len(d.Func)))
}
