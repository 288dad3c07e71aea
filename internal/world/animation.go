package world

import "github.com/swarmgrid/swarmcore/internal/data"

// Animation is one timed animation: a length in game-ms split evenly into
// frames. Looping animations wrap; one-shot animations hold the last frame.
type Animation struct {
	Length   float64
	Frames   int
	OneShot  bool
	progress float64
}

// NewAnimation builds an animation from its data definition.
func NewAnimation(spec data.AnimationSpec) Animation {
	return Animation{Length: spec.LengthMS, Frames: spec.Frames, OneShot: spec.OneShot}
}

// Advance moves the animation forward by factor game-ms.
func (a *Animation) Advance(factor float64) {
	if a.OneShot && a.Finished() {
		return
	}
	a.progress += factor
}

// Finished reports whether one full cycle has played. A zero-length
// animation is always finished.
func (a *Animation) Finished() bool {
	return a.Length <= 0 || a.progress >= a.Length
}

// Percent is the elapsed share of the current cycle, in [0, 1] for one-shot
// animations and unbounded for looping ones.
func (a *Animation) Percent() float64 {
	if a.Length <= 0 {
		return 1
	}
	return a.progress / a.Length
}

// Frame returns the index of the frame to draw.
func (a *Animation) Frame() int {
	if a.Frames <= 0 {
		return 0
	}
	if a.OneShot && a.Finished() {
		return a.Frames - 1
	}
	return int(a.Percent()*float64(a.Frames)) % a.Frames
}

// Reset rewinds to the first frame.
func (a *Animation) Reset() { a.progress = 0 }

// AnimationSet holds the animation definition of each state for one kind.
type AnimationSet map[CreatureState]data.AnimationSpec

// For returns a fresh animation for state s. States without a definition get a
// zero-length animation, which finishes immediately.
func (set AnimationSet) For(s CreatureState) Animation {
	return NewAnimation(set[s])
}
