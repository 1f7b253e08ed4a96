package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each frame. Systems sharing a phase
// run in registration order. It also records how long each phase took in the
// last frame.
type Runner struct {
	systems []System
	sorted  bool
	frame   uint64
	timings [phaseCount]time.Duration
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs one full frame and advances the frame counter.
func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	clear(r.timings[:])
	for _, s := range r.systems {
		start := time.Now()
		s.Update(dt)
		if p := s.Phase(); p >= 0 && p < phaseCount {
			r.timings[p] += time.Since(start)
		}
	}
	r.frame++
}

// TickPhase runs only the systems of one phase, e.g. to drain events between
// frames. The frame counter and timings are left alone.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

// Frame returns the number of completed Ticks.
func (r *Runner) Frame() uint64 {
	return r.frame
}

// PhaseTime is the wall time spent in phase during the last Tick.
func (r *Runner) PhaseTime(phase Phase) time.Duration {
	if phase < 0 || phase >= phaseCount {
		return 0
	}
	return r.timings[phase]
}

// FrameTime is the wall time of the last Tick across all phases.
func (r *Runner) FrameTime() time.Duration {
	var total time.Duration
	for _, d := range r.timings {
		total += d
	}
	return total
}

func (r *Runner) Len() int {
	return len(r.systems)
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
