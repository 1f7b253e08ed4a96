package system

import "time"

// Phase orders systems within one frame.
type Phase int

const (
	PhaseEvents  Phase = iota // deliver last frame's events
	PhaseUpdate               // gameplay mutates local poses
	PhaseScene                // physics sync, transform drain, render update
	PhaseCleanup              // destroy queued units

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseUpdate:
		return "update"
	case PhaseScene:
		return "scene"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Func adapts a plain function to a System.
type Func struct {
	P  Phase
	Fn func(dt time.Duration)
}

func (f Func) Phase() Phase            { return f.P }
func (f Func) Update(dt time.Duration) { f.Fn(dt) }
