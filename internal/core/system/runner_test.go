package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunnerPhaseOrder(t *testing.T) {
	r := NewRunner()

	var order []string
	record := func(name string, p Phase) System {
		return Func{P: p, Fn: func(time.Duration) { order = append(order, name) }}
	}
	r.Register(record("cleanup", PhaseCleanup))
	r.Register(record("scene", PhaseScene))
	r.Register(record("update-1", PhaseUpdate))
	r.Register(record("events", PhaseEvents))
	r.Register(record("update-2", PhaseUpdate))

	r.Tick(16 * time.Millisecond)
	assert.Equal(t, []string{"events", "update-1", "update-2", "scene", "cleanup"}, order)
	assert.Equal(t, uint64(1), r.Frame())

	order = nil
	r.TickPhase(PhaseUpdate, time.Millisecond)
	assert.Equal(t, []string{"update-1", "update-2"}, order)
	assert.Equal(t, uint64(1), r.Frame())
	assert.Equal(t, 5, r.Len())
}

func TestRunnerPhaseTimings(t *testing.T) {
	r := NewRunner()
	r.Register(Func{P: PhaseScene, Fn: func(time.Duration) { time.Sleep(2 * time.Millisecond) }})
	r.Register(Func{P: PhaseEvents, Fn: func(time.Duration) {}})

	r.Tick(0)
	assert.GreaterOrEqual(t, r.PhaseTime(PhaseScene), 2*time.Millisecond)
	assert.Zero(t, r.PhaseTime(PhaseCleanup))
	assert.GreaterOrEqual(t, r.FrameTime(), r.PhaseTime(PhaseScene))
	assert.Zero(t, r.PhaseTime(Phase(-1)))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "scene", PhaseScene.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
