package world

// CreatureView is the read-only projection of a creature for rendering.
type CreatureView struct {
	ID         uint64  `json:"id"`
	Kind       string  `json:"kind"`
	Hostile    bool    `json:"hostile"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Row        int     `json:"row"`
	Col        int     `json:"col"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Facing     string  `json:"facing"`
	State      string  `json:"state"`
	Frame      int     `json:"frame"`
	Health     float64 `json:"health"`
	MaxHealth  float64 `json:"max_health"`
	InRange    bool    `json:"in_range,omitempty"`
	Obstructed bool    `json:"obstructed,omitempty"`
}

// Snapshot is the published state of one frame.
type Snapshot struct {
	Tick         uint64         `json:"tick"`
	Level        string         `json:"level"`
	LevelName    string         `json:"level_name,omitempty"`
	LevelTimeMS  float64        `json:"level_time_ms"`
	ExitOpen     bool           `json:"exit_open"`
	ExitRow      int            `json:"exit_row"`
	ExitCol      int            `json:"exit_col"`
	HasExit      bool           `json:"has_exit"`
	RemovedWalls [][2]int       `json:"removed_walls,omitempty"`
	Creatures    []CreatureView `json:"creatures"`
}

// Snapshot captures every creature that has not been removed.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:         s.tick,
		Level:        s.levelID,
		LevelName:    s.levelName,
		LevelTimeMS:  s.elapsed,
		RemovedWalls: append([][2]int(nil), s.removedWalls...),
		Creatures:    make([]CreatureView, 0, len(s.creatures)),
	}
	if s.Exit != nil {
		snap.HasExit = true
		snap.ExitOpen = s.Exit.IsOpen()
		snap.ExitRow, snap.ExitCol = s.Exit.Row, s.Exit.Col
	}
	for _, c := range s.creatures {
		if c.State() == Removed {
			continue
		}
		snap.Creatures = append(snap.Creatures, c.View())
	}
	return snap
}

// View returns the rendering projection of c.
func (c *Creature) View() CreatureView {
	return CreatureView{
		ID:         uint64(c.ID),
		Kind:       c.Kind.Name,
		Hostile:    c.Hostile,
		X:          c.Pos.X,
		Y:          c.Pos.Y,
		Row:        c.Row,
		Col:        c.Col,
		Width:      c.Box.Width(),
		Height:     c.Box.Height(),
		Facing:     c.Facing.String(),
		State:      c.state.String(),
		Frame:      c.anim.Frame(),
		Health:     c.Health,
		MaxHealth:  c.MaxHealth,
		InRange:    c.InRange,
		Obstructed: c.Obstructed,
	}
}
