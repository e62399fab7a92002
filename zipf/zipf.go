// Package zipf draws ranks from a Zipfian distribution using rejection
// inversion, following W. Hörmann and G. Derflinger, "Rejection-inversion to
// generate variates from monotone discrete distributions", ACM TOMACS 6(3),
// 1996.
//
// Ranks are 0-based: rank k is drawn with probability proportional to
// 1 / (k + 1)^theta.
package zipf

import (
	"math"

	"github.com/pingcap/errors"
	"golang.org/x/exp/rand"
)

// Below this magnitude the helper functions switch to their Taylor expansions.
const taylorThreshold float64 = 1e-8

type Zipf struct {
	// Number of ranks.
	n           uint64
	// Skew constant.
	theta       float64
	// H(1.5) - 1, where H is the integral of x^-theta.
	hIntegralX1 float64
	// H(n + 0.5). Recomputed in O(1) on resize.
	hIntegralN  float64
	// Acceptance shortcut: 2 - Hinv(H(2.5) - h(2)).
	s           float64
	// Generalized harmonic number zeta(n, theta). Computed on first use of
	// @Zeta or @Probability, then maintained incrementally by @Resize.
	zetan       float64
	zetaok      bool
}

// New returns a sampler over ranks [0, n) with skew @theta. With @theta = 0
// the distribution is uniform.
func New(n uint64, theta float64) (*Zipf, error) {
	if n == 0 {
		return nil, errors.New("zipf: empty domain")
	}
	if math.IsNaN(theta) || theta < 0 || theta > 1 {
		return nil, errors.Errorf("zipf: theta %v outside [0, 1]", theta)
	}

	z := &Zipf{
		n:     n,
		theta: theta,
	}
	z.hIntegralX1 = z.hIntegral(1.5) - 1
	z.hIntegralN = z.hIntegral(float64(n) + 0.5)
	z.s = 2 - z.hIntegralInv(z.hIntegral(2.5)-z.h(2))
	return z, nil
}

func (z *Zipf) N() uint64 {
	return z.n
}

func (z *Zipf) Theta() float64 {
	return z.theta
}

// Draw returns a rank in [0, n). Smaller ranks are more likely.
func (z *Zipf) Draw(r *rand.Rand) uint64 {
	if z.theta == 0 {
		return r.Uint64n(z.n)
	}

	for {
		// @u is uniform in (hIntegralX1, hIntegralN].
		u := z.hIntegralN + r.Float64()*(z.hIntegralX1-z.hIntegralN)
		x := z.hIntegralInv(u)

		k := uint64(1)
		if x+0.5 >= 1 {
			k = uint64(x + 0.5)
		}
		// Numerical error may push @k just outside [1, n].
		if k > z.n {
			k = z.n
		}

		kf := float64(k)
		if kf-x <= z.s || u >= z.hIntegral(kf+0.5)-z.h(kf) {
			return k - 1
		}
	}
}

// Resize changes the number of ranks to @n. The sampling bound is updated in
// constant time; the harmonic number, if already known, is adjusted by the
// terms between the old and the new size only.
func (z *Zipf) Resize(n uint64) {
	if n == 0 {
		panic("zipf: resize to empty domain")
	}
	if n == z.n {
		return
	}

	if z.zetaok {
		if n > z.n {
			z.zetan += partialZeta(z.n+1, n, z.theta)
		} else {
			z.zetan -= partialZeta(n+1, z.n, z.theta)
		}
	}
	z.n = n
	z.hIntegralN = z.hIntegral(float64(n) + 0.5)
}

// Zeta returns the generalized harmonic number sum_{i=1..n} 1/i^theta.
func (z *Zipf) Zeta() float64 {
	if !z.zetaok {
		z.zetan = partialZeta(1, z.n, z.theta)
		z.zetaok = true
	}
	return z.zetan
}

// Probability returns the exact probability that @Draw yields rank @k.
func (z *Zipf) Probability(k uint64) float64 {
	if k >= z.n {
		return 0
	}
	return 1 / (math.Pow(float64(k+1), z.theta) * z.Zeta())
}

// partialZeta sums 1/i^theta for i in [from, to].
func partialZeta(from, to uint64, theta float64) float64 {
	var sum float64
	for i := from; i <= to; i++ {
		sum += 1 / math.Pow(float64(i), theta)
	}
	return sum
}

// h(x) = x^-theta.
func (z *Zipf) h(x float64) float64 {
	return math.Exp(-z.theta * math.Log(x))
}

// hIntegral(x) = (x^(1-theta) - 1) / (1 - theta), and log(x) at theta = 1.
func (z *Zipf) hIntegral(x float64) float64 {
	logx := math.Log(x)
	return helper2((1-z.theta)*logx) * logx
}

func (z *Zipf) hIntegralInv(x float64) float64 {
	t := x * (1 - z.theta)
	if t < -1 {
		t = -1
	}
	return math.Exp(helper1(t) * x)
}

// helper1(x) = log(1 + x) / x.
func helper1(x float64) float64 {
	if math.Abs(x) > taylorThreshold {
		return math.Log1p(x) / x
	}
	return 1 - x*(0.5-x*(1.0/3-0.25*x))
}

// helper2(x) = (exp(x) - 1) / x.
func helper2(x float64) float64 {
	if math.Abs(x) > taylorThreshold {
		return math.Expm1(x) / x
	}
	return 1 + x*0.5*(1+x*(1.0/3)*(1+0.25*x))
}
