package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/amstel/engine/internal/core/ecs"
	coresys "github.com/amstel/engine/internal/core/system"
)

// CleanupSystem flushes the deferred unit destruction queue at frame end.
// Phase 3 (Cleanup).
type CleanupSystem struct {
	units *ecs.UnitManager
	log   *zap.Logger
}

func NewCleanupSystem(units *ecs.UnitManager, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{units: units, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if s.units.Pending() == 0 {
		return
	}
	n := s.units.FlushDestroyQueue(nil)
	s.log.Debug("deferred units destroyed", zap.Int("count", n))
}
