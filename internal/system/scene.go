package system

import (
	"time"

	coresys "github.com/amstel/engine/internal/core/system"
	"github.com/amstel/engine/internal/world"
)

// SceneSystem runs the transform flow of a world once per frame.
// Phase 2 (Scene).
type SceneSystem struct {
	world *world.World
}

func NewSceneSystem(w *world.World) *SceneSystem {
	return &SceneSystem{world: w}
}

func (s *SceneSystem) Phase() coresys.Phase { return coresys.PhaseScene }

func (s *SceneSystem) Update(dt time.Duration) {
	s.world.UpdateScene(dt)
}

// RegisterDefaults adds the event, scene and cleanup systems of w to its
// runner.
func RegisterDefaults(w *world.World) {
	r := w.Runner()
	r.Register(NewEventSystem(w.Bus()))
	r.Register(NewSceneSystem(w))
	r.Register(NewCleanupSystem(w.Manager(), w.Log()))
}
