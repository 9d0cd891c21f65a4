package dice

// Roller bundles a Source with the convenience rolls the game rules use.
type Roller struct {
	src Source
}

// NewRoller creates a Roller drawing from src.
//
// Precondition: src must be non-nil.
func NewRoller(src Source) *Roller {
	if src == nil {
		panic("dice: NewRoller called with nil source")
	}
	return &Roller{src: src}
}

// Between returns a uniform random int in [lo, hi].
//
// Precondition: lo <= hi.
func (r *Roller) Between(lo, hi int) int {
	if lo > hi {
		panic("dice: Between called with lo > hi")
	}
	return lo + r.src.Intn(hi-lo+1)
}

// Chance performs a Bernoulli trial with the given success probability.
//
// Postcondition: always false for p <= 0, always true for p >= 1.
func (r *Roller) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return float64(r.src.Intn(1_000_000)) < p*1_000_000
}

// Pick returns a uniformly chosen element of values, or 0 when empty.
func (r *Roller) Pick(values []int) int {
	if len(values) == 0 {
		return 0
	}
	return values[r.src.Intn(len(values))]
}

// Intn exposes the underlying source.
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}
