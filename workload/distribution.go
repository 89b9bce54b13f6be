package workload

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Distribution selects how generated values spread over their range.
type Distribution int

const (
	// Uniform picks every value in the range with equal probability.
	Uniform Distribution = iota
	// Exponential skews values toward the low end of the range.
	Exponential
	// Geometric counts failed trials from the low end, clamped to the range.
	Geometric
)

var distributionNames = [...]string{"uniform", "exponential", "geometric"}

func (d Distribution) String() string {
	if d < 0 || int(d) >= len(distributionNames) {
		return fmt.Sprintf("unknown(%d)", int(d))
	}
	return distributionNames[d]
}

// ParseDistribution is case-insensitive.
func ParseDistribution(s string) (Distribution, error) {
	for i, name := range distributionNames {
		if strings.EqualFold(s, name) {
			return Distribution(i), nil
		}
	}
	return Uniform, fmt.Errorf("invalid distribution %q (must be one of %s)",
		s, strings.Join(distributionNames[:], ", "))
}

func (d Distribution) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Distribution) UnmarshalText(text []byte) error {
	parsed, err := ParseDistribution(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

const (
	exponentialLambda = 0.5
	geometricP        = 0.3
)

// Sample draws an integer in [min, max].
func (d Distribution) Sample(rng *rand.Rand, min, max int) int {
	if min >= max {
		return min
	}
	switch d {
	case Exponential:
		u := rng.Float64()
		if u == 0 {
			u = 1e-10
		}
		// 95% of draws fall below 6/lambda; everything above clamps to max.
		x := -math.Log(u) / exponentialLambda
		frac := math.Min(x/(6/exponentialLambda), 1)
		return min + int(frac*float64(max-min))
	case Geometric:
		u := math.Min(rng.Float64(), 0.999999)
		trials := int(math.Log(1-u) / math.Log(1-geometricP))
		return min + clamp(trials, 0, max-min)
	default:
		return min + rng.Intn(max-min+1)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Shape controls how RandomWith spreads arrival and burst times.
type Shape struct {
	Arrival Distribution `json:"arrival" yaml:"arrival"`
	Burst   Distribution `json:"burst" yaml:"burst"`
}
