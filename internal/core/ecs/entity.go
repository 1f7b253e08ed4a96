package ecs

import (
	"fmt"
	"math"
)

// UnitID encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. The generation increments on destroy to invalidate stale refs.
type UnitID uint64

func NewUnitID(index uint32, generation uint32) UnitID {
	return UnitID(uint64(generation)<<32 | uint64(index))
}

func (id UnitID) Index() uint32      { return uint32(id) }
func (id UnitID) Generation() uint32 { return uint32(id >> 32) }

func (id UnitID) String() string {
	return fmt.Sprintf("unit(%d:%d)", id.Index(), id.Generation())
}

// DefaultReuseDelay is the number of freed slots that must be pending before
// the oldest one is handed out again.
const DefaultReuseDelay = 1024

// unitTable owns the generation of every slot ever issued plus a FIFO of
// freed slots. A freed slot is only reused once more than reuseDelay slots are
// queued, which spreads reuse of any single slot over many destroys.
type unitTable struct {
	generations []uint32
	free        fifo
	reuseDelay  int
}

func newUnitTable(reuseDelay int) unitTable {
	if reuseDelay <= 0 {
		reuseDelay = DefaultReuseDelay
	}
	return unitTable{
		generations: make([]uint32, 0, 1024),
		free:        newFIFO(256),
		reuseDelay:  reuseDelay,
	}
}

func (t *unitTable) create() UnitID {
	if t.free.len() > t.reuseDelay {
		idx := t.free.pop()
		return NewUnitID(idx, t.generations[idx])
	}
	if uint64(len(t.generations)) >= math.MaxUint32 {
		panic("ecs: unit index space exhausted")
	}
	t.generations = append(t.generations, 0)
	return NewUnitID(uint32(len(t.generations)-1), 0)
}

func (t *unitTable) alive(id UnitID) bool {
	idx := id.Index()
	if int(idx) >= len(t.generations) {
		return false
	}
	return t.generations[idx] == id.Generation()
}

// destroy reports false for ids that are already dead.
func (t *unitTable) destroy(id UnitID) bool {
	if !t.alive(id) {
		return false
	}
	idx := id.Index()
	t.generations[idx]++
	t.free.push(idx)
	return true
}

func (t *unitTable) count() int {
	return len(t.generations) - t.free.len()
}

// fifo is a growable ring buffer of slot indices.
type fifo struct {
	buf  []uint32
	head int
	n    int
}

func newFIFO(capacity int) fifo {
	return fifo{buf: make([]uint32, capacity)}
}

func (q *fifo) len() int { return q.n }

func (q *fifo) push(v uint32) {
	if q.n == len(q.buf) {
		grown := make([]uint32, len(q.buf)*2+1)
		for i := 0; i < q.n; i++ {
			grown[i] = q.buf[(q.head+i)%len(q.buf)]
		}
		q.buf = grown
		q.head = 0
	}
	q.buf[(q.head+q.n)%len(q.buf)] = v
	q.n++
}

func (q *fifo) pop() uint32 {
	if q.n == 0 {
		panic("ecs: pop from empty free queue")
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return v
}
