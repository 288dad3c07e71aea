package world

// Command is one snapshot of the player's controls. Each command replaces
// the previous one; Fire requests a single shot.
type Command struct {
	Up     bool    `json:"up"`
	Down   bool    `json:"down"`
	Left   bool    `json:"left"`
	Right  bool    `json:"right"`
	Aim    float64 `json:"aim"` // radians, screen space
	HasAim bool    `json:"has_aim"`
	Fire   bool    `json:"fire"`
}
