package geom

import "math"

// Direction is one of the eight facings a creature can render with.
type Direction uint8

const (
	Right Direction = iota
	DownRight
	Down
	DownLeft
	Left
	UpLeft
	Up
	UpRight
)

var directionNames = [...]string{"right", "down_right", "down", "down_left", "left", "up_left", "up", "up_right"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// Angle returns the screen-space angle the direction points at.
func (d Direction) Angle() float64 { return float64(d%8) * math.Pi / 4 }

// DirectionOf snaps an angle (screen space, radians) to the nearest of the
// eight directions.
func DirectionOf(theta float64) Direction {
	oct := int(math.Round(theta/(math.Pi/4))) % 8
	if oct < 0 {
		oct += 8
	}
	return Direction(oct)
}

// DirectionFromAxes maps a unit step on each axis (-1, 0, 1) to a direction.
// ok is false when both are zero.
func DirectionFromAxes(sx, sy int) (d Direction, ok bool) {
	switch {
	case sx > 0 && sy == 0:
		return Right, true
	case sx > 0 && sy > 0:
		return DownRight, true
	case sx == 0 && sy > 0:
		return Down, true
	case sx < 0 && sy > 0:
		return DownLeft, true
	case sx < 0 && sy == 0:
		return Left, true
	case sx < 0 && sy < 0:
		return UpLeft, true
	case sx == 0 && sy < 0:
		return Up, true
	case sx > 0 && sy < 0:
		return UpRight, true
	}
	return Right, false
}
