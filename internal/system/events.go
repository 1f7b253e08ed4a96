package system

import (
	"time"

	"github.com/amstel/engine/internal/core/event"
	coresys "github.com/amstel/engine/internal/core/system"
)

// EventSystem delivers the events posted during the previous frame.
// Phase 0 (Events).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
