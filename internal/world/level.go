package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/amstel/engine/internal/core/ecs"
	"github.com/amstel/engine/internal/core/event"
	"github.com/amstel/engine/internal/level"
)

// SpawnLevel spawns every unit of lvl, parents before children, and links
// the hierarchy. Positions in the level are local to the parent. Returns the
// spawned units by name.
func (w *World) SpawnLevel(lvl *level.Level) (map[string]ecs.UnitID, error) {
	order, err := lvl.Order()
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", lvl.Name, err)
	}

	// Resolve every description before spawning so a bad unit leaves the
	// world untouched.
	descs := make([]UnitDesc, len(lvl.Units))
	for n := range lvl.Units {
		descs[n], err = unitDesc(&lvl.Units[n])
		if err != nil {
			return nil, fmt.Errorf("level %q: unit %q: %w", lvl.Name, lvl.Units[n].Name, err)
		}
	}

	spawned := make(map[string]ecs.UnitID, len(lvl.Units))
	for _, n := range order {
		def := &lvl.Units[n]
		desc := descs[n]
		var parent ecs.UnitID
		hasParent := def.Parent != ""
		if hasParent {
			parent = spawned[def.Parent]
			desc.Pose = w.graph.WorldPose(w.graph.Get(parent)).Mul4(desc.Pose)
		}
		id := w.SpawnUnit(desc)
		if hasParent {
			w.Link(id, parent)
		}
		spawned[def.Name] = id
	}

	event.Emit(w.bus, event.LevelLoaded{Name: lvl.Name, Units: len(spawned)})
	w.log.Info("level spawned",
		zap.String("level", lvl.Name),
		zap.Int("units", len(spawned)))
	return spawned, nil
}

// DespawnLevel destroys the units returned by SpawnLevel that are still
// alive and returns how many were destroyed.
func (w *World) DespawnLevel(units map[string]ecs.UnitID) int {
	n := 0
	for _, id := range units {
		if w.DestroyUnit(id) {
			n++
		}
	}
	return n
}

func unitDesc(def *level.UnitDef) (UnitDesc, error) {
	desc := UnitDesc{
		Pose:   def.LocalPose(),
		Meshes: def.Meshes,
		Sprite: def.Sprite,
	}
	if def.Light != nil {
		l, err := def.Light.Desc()
		if err != nil {
			return UnitDesc{}, err
		}
		desc.Light = &l
	}
	if def.Camera != nil {
		c, err := def.Camera.Desc()
		if err != nil {
			return UnitDesc{}, err
		}
		desc.Camera = &c
	}
	if def.Actor != nil {
		a, err := def.Actor.Desc()
		if err != nil {
			return UnitDesc{}, err
		}
		desc.Actor = &a
	}
	return desc, nil
}
