package motion

import "math"

// Speed is a creature's movement rate in pixels per elapsed-factor unit.
type Speed struct {
	Max      float64
	Diagonal float64 // per-axis rate when moving on both axes
}

// NewSpeed derives the diagonal rate as max·sin(45°).
func NewSpeed(maxSpeed float64) Speed {
	return Speed{Max: maxSpeed, Diagonal: maxSpeed * math.Sqrt2 / 2}
}

// Accumulator carries the sub-pixel remainder of each direction across frames.
// Every remainder stays in [0, 1).
type Accumulator struct {
	rem [4]float64
}

// Step returns the whole-pixel displacement for this frame and keeps the
// fractional part for the next one. factor is the frame delta in ms scaled by
// the global speed multiplier. An axis with both opposing flags set does not
// move and leaves its remainders untouched.
func (a *Accumulator) Step(in Intent, s Speed, factor float64) (dx, dy int) {
	return a.advance(in, s, factor, true)
}

// Peek computes the displacement Step would return without consuming it.
func (a *Accumulator) Peek(in Intent, s Speed, factor float64) (dx, dy int) {
	return a.advance(in, s, factor, false)
}

func (a *Accumulator) advance(in Intent, s Speed, factor float64, commit bool) (dx, dy int) {
	if factor <= 0 {
		return 0, 0
	}
	h, v := in.Axes()
	rate := s.Max
	if h != 0 && v != 0 {
		rate = s.Diagonal
	}
	step := func(d Dir) int {
		amount := factor*rate + a.rem[d]
		whole := math.Floor(amount)
		if commit {
			a.rem[d] = amount - whole
		}
		return int(whole)
	}
	switch {
	case h > 0:
		dx = step(DirRight)
	case h < 0:
		dx = -step(DirLeft)
	}
	switch {
	case v > 0:
		dy = step(DirDown)
	case v < 0:
		dy = -step(DirUp)
	}
	return dx, dy
}

// Remainder returns the carried fraction for d.
func (a *Accumulator) Remainder(d Dir) float64 { return a.rem[d] }

// Reset clears all remainders. Called on level load.
func (a *Accumulator) Reset() { a.rem = [4]float64{} }
