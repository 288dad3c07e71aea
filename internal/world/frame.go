package world

import "time"

// Frame carries one tick's timing. Factor is the elapsed game-ms every timer
// and speed in the simulation is scaled by.
type Frame struct {
	Delta  time.Duration
	Speed  float64
	Factor float64
}

// NewFrame scales a real frame delta by the global game speed multiplier.
func NewFrame(dt time.Duration, speed float64) Frame {
	ms := float64(dt) / float64(time.Millisecond)
	return Frame{Delta: dt, Speed: speed, Factor: ms * speed}
}
