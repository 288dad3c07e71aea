package event

import "github.com/swarmgrid/swarmcore/internal/core/ecs"

// CreatureDied is emitted when a hit drops a creature's health to zero.
type CreatureDied struct {
	EntityID ecs.EntityID
	Hostile  bool
}

// CreatureRemoved is emitted when a creature's decay finishes and it leaves
// every collection.
type CreatureRemoved struct {
	EntityID ecs.EntityID
	Hostile  bool
}

// WallRemoved is emitted when a destructible wall is destroyed.
type WallRemoved struct {
	Row int
	Col int
}

// ExitOpened is emitted once per level when the exit opens.
type ExitOpened struct {
	Row int
	Col int
}

// LevelLoaded is emitted after a level replaces the previous one.
type LevelLoaded struct {
	LevelID  string
	Hostiles int
}
