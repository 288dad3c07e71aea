package world

// CreatureState is the lifecycle state of a creature.
type CreatureState uint8

const (
	Idling CreatureState = iota
	Moving
	MovingCooldown
	Attacking
	AttackingCooldown
	Dying
	Decaying
	Removed
)

var stateNames = [...]string{
	Idling:            "idling",
	Moving:            "moving",
	MovingCooldown:    "moving_cooldown",
	Attacking:         "attacking",
	AttackingCooldown: "attacking_cooldown",
	Dying:             "dying",
	Decaying:          "decaying",
	Removed:           "removed",
}

func (s CreatureState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// ParseState maps a state name as used in creatures.yaml back to its value.
func ParseState(name string) (CreatureState, bool) {
	for i, n := range stateNames {
		if n == name {
			return CreatureState(i), true
		}
	}
	return 0, false
}

// Active reports whether a creature in this state still moves, attacks and
// blocks others.
func (s CreatureState) Active() bool {
	return s < Dying
}

// transitions lists the legal successors of each state as a bitmask.
var transitions = [...]uint16{
	Idling:            bit(Moving) | bit(Attacking) | bit(Dying),
	Moving:            bit(Idling) | bit(Attacking) | bit(Dying),
	MovingCooldown:    bit(Moving) | bit(Idling) | bit(Dying),
	Attacking:         bit(AttackingCooldown) | bit(Moving) | bit(Dying),
	AttackingCooldown: bit(Attacking) | bit(Moving) | bit(Dying),
	Dying:             bit(Decaying),
	Decaying:          bit(Removed),
	Removed:           0,
}

func bit(s CreatureState) uint16 { return 1 << s }

// CanTransition reports whether from -> to is an edge of the lifecycle graph.
func CanTransition(from, to CreatureState) bool {
	if int(from) >= len(transitions) {
		return false
	}
	return transitions[from]&bit(to) != 0
}
