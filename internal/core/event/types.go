package event

import "github.com/amstel/engine/internal/core/ecs"

// UnitSpawned is posted when a world creates a unit.
type UnitSpawned struct {
	Unit ecs.UnitID
}

// UnitDestroyed is posted after a unit and its components are gone.
type UnitDestroyed struct {
	Unit ecs.UnitID
}

// LevelLoaded is posted once every unit of a level has been spawned.
type LevelLoaded struct {
	Name  string
	Units int
}
