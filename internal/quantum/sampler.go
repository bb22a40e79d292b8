package quantum

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
)

// MaxShots caps a sampling run.
const MaxShots = 100000

// normTolerance is how far a distribution may drift from summing to 1
// before the sampler rejects it. Well ahead of the accumulated rounding of
// any MaxQubits-deep H/X/CX circuit.
const normTolerance = 1e-6

// BitstringKey formats a basis-state index as a fixed-width binary string,
// most significant bit leftmost. Character 0 of the key is qubit width-1
// and the last character is qubit 0, so the Bell state over two qubits
// yields the keys "00" and "11".
func BitstringKey(index, width int) string {
	return fmt.Sprintf("%0*b", width, index)
}

// SampleCounts draws shots independent categorical samples from the
// probability distribution and aggregates them into a histogram keyed by
// bitstring. Each trial draws a uniform value in [0,1) and selects the
// first index at which the cumulative sum reaches it; the last index is
// the catch-all when rounding leaves the cumulative sum short, so the
// counts always total exactly shots. A nil rng gets a time-seeded source;
// tests pass a fixed seed for determinism.
func SampleCounts(probs []float64, shots int, rng *rand.Rand) (map[string]int, error) {
	if shots < 1 || shots > MaxShots {
		return nil, fmt.Errorf("shot count %d out of range [1, %d]", shots, MaxShots)
	}
	n := len(probs)
	if n == 0 || bits.OnesCount(uint(n)) != 1 {
		return nil, fmt.Errorf("distribution length %d is not a power of two", n)
	}
	for i, p := range probs {
		if p < 0 || math.IsNaN(p) {
			return nil, fmt.Errorf("probability %g at index %d is not a valid probability", p, i)
		}
	}
	if total := floats.Sum(probs); math.Abs(total-1) > normTolerance {
		return nil, fmt.Errorf("distribution sums to %g, want 1", total)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	width := bits.Len(uint(n)) - 1
	counts := make(map[string]int)
	for t := 0; t < shots; t++ {
		r := rng.Float64()
		idx := n - 1
		sum := 0.0
		for i, p := range probs {
			sum += p
			if sum >= r {
				idx = i
				break
			}
		}
		counts[BitstringKey(idx, width)]++
	}
	return counts, nil
}
