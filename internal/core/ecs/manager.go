package ecs

// Spawner creates units with side effects beyond id issuance, such as
// bookkeeping and spawn events. world.World implements it.
type Spawner interface {
	SpawnEmptyUnit() UnitID
}

// UnitManager issues generation-checked unit ids, notifies registered
// subsystems when a unit dies, and holds a deferred destruction queue flushed
// at the end of each frame. Not safe for concurrent use; drive it from the
// simulation goroutine.
type UnitManager struct {
	table        unitTable
	registry     *Registry
	destroyQueue []UnitID
}

// NewUnitManager creates a manager that reuses a freed slot only once more
// than reuseDelay slots are pending. Non-positive values use DefaultReuseDelay.
func NewUnitManager(reuseDelay int) *UnitManager {
	return &UnitManager{
		table:        newUnitTable(reuseDelay),
		registry:     NewRegistry(),
		destroyQueue: make([]UnitID, 0, 64),
	}
}

func (m *UnitManager) Registry() *Registry { return m.registry }

// Create issues a new unit id. The id stays alive until Destroy.
func (m *UnitManager) Create() UnitID {
	return m.table.create()
}

// CreateIn creates a unit through s, e.g. a world that also records the unit
// and posts a spawn event.
func (m *UnitManager) CreateIn(s Spawner) UnitID {
	return s.SpawnEmptyUnit()
}

func (m *UnitManager) IsAlive(id UnitID) bool {
	return m.table.alive(id)
}

// Count returns the number of live units.
func (m *UnitManager) Count() int {
	return m.table.count()
}

// Destroy retires id and runs every destroy hook in registration order.
// Stale ids are ignored and report false.
func (m *UnitManager) Destroy(id UnitID) bool {
	if !m.table.destroy(id) {
		return false
	}
	m.registry.trigger(id)
	return true
}

// RegisterDestroyFunc registers fn to run whenever a unit is destroyed.
func (m *UnitManager) RegisterDestroyFunc(owner any, fn DestroyFunc) {
	m.registry.Register(owner, fn)
}

// UnregisterDestroyFunc removes the hook registered by owner. Panics if owner
// never registered.
func (m *UnitManager) UnregisterDestroyFunc(owner any) {
	m.registry.Unregister(owner)
}

// MarkForDestruction queues a unit for end-of-frame destruction.
func (m *UnitManager) MarkForDestruction(id UnitID) {
	m.destroyQueue = append(m.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued units, calling onDestroyed for each
// unit that was still alive. Returns the number destroyed.
func (m *UnitManager) FlushDestroyQueue(onDestroyed func(UnitID)) int {
	n := 0
	for _, id := range m.destroyQueue {
		if m.Destroy(id) {
			n++
			if onDestroyed != nil {
				onDestroyed(id)
			}
		}
	}
	clear(m.destroyQueue)
	m.destroyQueue = m.destroyQueue[:0]
	return n
}

// Pending returns the number of units queued for destruction.
func (m *UnitManager) Pending() int {
	return len(m.destroyQueue)
}
