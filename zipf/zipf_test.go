package zipf

import (
	"math"
	mrand "math/rand"
	"testing"

	"github.com/pingcap/go-ycsb/pkg/generator"
	"golang.org/x/exp/rand"
)

func histogram(z *Zipf, r *rand.Rand, ndraws int) []float64 {
	counts := make([]float64, z.N())
	for i := 0; i < ndraws; i++ {
		k := z.Draw(r)
		if k >= z.N() {
			panic("rank out of range")
		}
		counts[k]++
	}
	for i := range counts {
		counts[i] /= float64(ndraws)
	}
	return counts
}

func TestNewRejectsBadParameters(t *testing.T) {
	if _, err := New(0, 0.5); err == nil {
		t.Errorf("New(0, 0.5) should fail")
	}
	if _, err := New(10, -0.1); err == nil {
		t.Errorf("New(10, -0.1) should fail")
	}
	if _, err := New(10, 1.5); err == nil {
		t.Errorf("New(10, 1.5) should fail")
	}
	if _, err := New(10, math.NaN()); err == nil {
		t.Errorf("New(10, NaN) should fail")
	}
}

func TestSingleRank(t *testing.T) {
	z, err := New(1, 0.99)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		if k := z.Draw(r); k != 0 {
			t.Fatalf("Draw over one rank returned %d", k)
		}
	}
}

func TestFrequencyNonIncreasing(t *testing.T) {
	const n = 10
	const ndraws = 1000000
	for _, theta := range []float64{0, 0.2, 0.5, 0.8, 0.99, 1} {
		z, err := New(n, theta)
		if err != nil {
			t.Fatalf("New(%d, %v): %v", n, theta, err)
		}
		r := rand.New(rand.NewSource(uint64(theta*1000) + 7))
		freq := histogram(z, r, ndraws)
		for k := 0; k+1 < n; k++ {
			// Four standard deviations of the difference of two frequencies.
			tol := 4 * math.Sqrt((freq[k]+freq[k+1])/ndraws)
			if freq[k+1] > freq[k]+tol {
				t.Errorf("theta %v: freq[%d] = %f > freq[%d] = %f", theta, k+1, freq[k+1], k, freq[k])
			}
		}
	}
}

func TestMatchesProbability(t *testing.T) {
	const ndraws = 500000
	for _, theta := range []float64{0, 0.5, 0.99} {
		z, err := New(50, theta)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		r := rand.New(rand.NewSource(99))
		freq := histogram(z, r, ndraws)
		var total float64
		for k := uint64(0); k < z.N(); k++ {
			p := z.Probability(k)
			total += p
			if math.Abs(freq[k]-p) > 0.005 {
				t.Errorf("theta %v rank %d: freq %f, want %f", theta, k, freq[k], p)
			}
		}
		if math.Abs(total-1) > 1e-9 {
			t.Errorf("theta %v: probabilities sum to %f", theta, total)
		}
	}
}

func TestUniformAtZeroTheta(t *testing.T) {
	z, err := New(4, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p := z.Probability(3); math.Abs(p-0.25) > 1e-12 {
		t.Fatalf("Probability(3) = %f, want 0.25", p)
	}
	if z.Zeta() != 4 {
		t.Fatalf("Zeta() = %f, want 4", z.Zeta())
	}
	r := rand.New(rand.NewSource(3))
	freq := histogram(z, r, 400000)
	for k, f := range freq {
		if math.Abs(f-0.25) > 0.005 {
			t.Errorf("rank %d: freq %f, want 0.25", k, f)
		}
	}
}

func TestResizeMatchesFresh(t *testing.T) {
	const theta = 0.9
	z, err := New(50, theta)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	z.Zeta()

	for _, n := range []uint64{51, 200, 80, 1000, 3} {
		z.Resize(n)
		fresh, err := New(n, theta)
		if err != nil {
			t.Fatalf("New(%d): %v", n, err)
		}
		if z.N() != n {
			t.Fatalf("N() = %d after Resize(%d)", z.N(), n)
		}
		if math.Abs(z.Zeta()-fresh.Zeta()) > 1e-9 {
			t.Errorf("n %d: incremental zeta %v, fresh %v", n, z.Zeta(), fresh.Zeta())
		}
		if z.hIntegralN != fresh.hIntegralN {
			t.Errorf("n %d: incremental bound %v, fresh %v", n, z.hIntegralN, fresh.hIntegralN)
		}
	}
}

func TestResizeSamplesLikeFresh(t *testing.T) {
	const ndraws = 500000
	z, err := New(10, 0.99)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	z.Resize(300)
	fresh, err := New(300, 0.99)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r := rand.New(rand.NewSource(11))
	freq := histogram(z, r, ndraws)
	for k := uint64(0); k < 10; k++ {
		if math.Abs(freq[k]-fresh.Probability(k)) > 0.005 {
			t.Errorf("rank %d: freq %f after resize, fresh probability %f", k, freq[k], fresh.Probability(k))
		}
	}

	z.Resize(5)
	for i := 0; i < 10000; i++ {
		if k := z.Draw(r); k >= 5 {
			t.Fatalf("Draw returned %d after shrinking to 5", k)
		}
	}
}

func TestAgreesWithYCSBZipfian(t *testing.T) {
	// The YCSB generator (Gray et al.) is exact on the two hottest ranks.
	const items = 1000
	const ndraws = 400000
	z, err := New(items, 0.99)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ref := generator.NewZipfianWithItems(items, 0.99)

	r := rand.New(rand.NewSource(5))
	rr := mrand.New(mrand.NewSource(5))
	var ours, theirs [2]float64
	for i := 0; i < ndraws; i++ {
		if k := z.Draw(r); k < 2 {
			ours[k]++
		}
		if k := ref.Next(rr); k < 2 {
			theirs[k]++
		}
	}
	for k := 0; k < 2; k++ {
		a := ours[k] / ndraws
		b := theirs[k] / ndraws
		if math.Abs(a-b) > 0.01 {
			t.Errorf("rank %d: rejection inversion %f, ycsb %f", k, a, b)
		}
	}
}
