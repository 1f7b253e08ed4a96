package ecs

import (
	"fmt"
	"math"
)

// Instance is a dense index into a Pool. It stays valid only until the next
// Destroy on the same pool, which may move the last instance into the hole.
type Instance uint32

// InvalidInstance marks a missing instance or the end of a chain.
const InvalidInstance Instance = math.MaxUint32

func (i Instance) IsValid() bool { return i != InvalidInstance }

// PoolMode selects how many instances a unit may own in a pool.
type PoolMode uint8

const (
	// PoolSingle allows at most one instance per unit.
	PoolSingle PoolMode = iota
	// PoolMulti chains any number of instances per unit.
	PoolMulti
)

// resizable is implemented by every Column attached to a pool so the pool can
// reallocate and compact all attribute arrays together.
type resizable interface {
	resize(capacity int)
	move(dst, src int)
	reset(i int)
}

// Pool is the bookkeeping half of a struct-of-arrays component store: it maps
// units to dense instances, keeps instances packed in [0, Len()) with
// swap-with-last removal, and chains the instances of one unit through
// next/prev arrays. Attribute data lives in Columns attached to the pool.
type Pool struct {
	mode     PoolMode
	size     int
	capacity int

	unit  []UnitID
	next  []Instance
	prev  []Instance
	first map[UnitID]Instance

	columns []resizable
}

// NewPool creates a pool with room for capacity instances before it grows.
func NewPool(mode PoolMode, capacity int) *Pool {
	p := &Pool{
		mode:  mode,
		first: make(map[UnitID]Instance, capacity),
	}
	if capacity > 0 {
		p.allocate(capacity)
	}
	return p
}

func (p *Pool) Mode() PoolMode { return p.mode }
func (p *Pool) Len() int       { return p.size }
func (p *Pool) Cap() int       { return p.capacity }

func (p *Pool) attach(c resizable) {
	c.resize(p.capacity)
	p.columns = append(p.columns, c)
}

// allocate reallocates every array at the new capacity and copies the live
// prefix.
func (p *Pool) allocate(capacity int) {
	if capacity <= p.size {
		panic(fmt.Sprintf("ecs: allocate %d below size %d", capacity, p.size))
	}
	p.unit = resized(p.unit, capacity)
	p.next = resized(p.next, capacity)
	p.prev = resized(p.prev, capacity)
	for _, c := range p.columns {
		c.resize(capacity)
	}
	p.capacity = capacity
}

func (p *Pool) grow() {
	p.allocate(p.capacity*2 + 1)
}

// Check panics if i does not address a live instance.
func (p *Pool) Check(i Instance) {
	if int(i) >= p.size {
		panic(fmt.Sprintf("ecs: instance %d out of bounds (size %d)", i, p.size))
	}
}

// Create appends a new instance for id. In a multi pool the instance is linked
// at the tail of the unit's chain; in a single pool a second instance for the
// same unit panics. Attribute columns of the new slot hold zero values.
func (p *Pool) Create(id UnitID) Instance {
	head, has := p.first[id]
	if has && p.mode == PoolSingle {
		panic(fmt.Sprintf("ecs: %s already has an instance", id))
	}
	if p.size == p.capacity {
		p.grow()
	}

	last := Instance(p.size)
	p.size++
	p.unit[last] = id
	p.next[last] = InvalidInstance
	p.prev[last] = InvalidInstance

	if !has {
		p.first[id] = last
		return last
	}
	tail := head
	for p.next[tail].IsValid() {
		tail = p.next[tail]
	}
	p.next[tail] = last
	p.prev[last] = tail
	return last
}

// Destroy removes instance i. The last instance is moved into slot i, so a
// handle equal to the returned instance (its old index) now reads as i. When
// i was already last, InvalidInstance is returned.
func (p *Pool) Destroy(i Instance) Instance {
	p.Check(i)
	p.unlink(i)

	last := Instance(p.size - 1)
	moved := InvalidInstance
	if i != last {
		p.relocate(last, i)
		moved = last
	}

	p.unit[last] = 0
	p.next[last] = InvalidInstance
	p.prev[last] = InvalidInstance
	for _, c := range p.columns {
		c.reset(int(last))
	}
	p.size--
	return moved
}

// unlink detaches i from its unit's chain, dropping the map entry when i was
// the only instance.
func (p *Pool) unlink(i Instance) {
	id := p.unit[i]
	prev, next := p.prev[i], p.next[i]
	if prev.IsValid() {
		p.next[prev] = next
	} else if next.IsValid() {
		p.first[id] = next
	} else {
		delete(p.first, id)
	}
	if next.IsValid() {
		p.prev[next] = prev
	}
	p.next[i] = InvalidInstance
	p.prev[i] = InvalidInstance
}

// relocate moves instance src into the free slot dst and repoints every
// reference to src.
func (p *Pool) relocate(src, dst Instance) {
	prev, next := p.prev[src], p.next[src]
	if prev.IsValid() {
		p.next[prev] = dst
	} else {
		p.first[p.unit[src]] = dst
	}
	if next.IsValid() {
		p.prev[next] = dst
	}

	p.unit[dst] = p.unit[src]
	p.next[dst] = next
	p.prev[dst] = prev
	for _, c := range p.columns {
		c.move(int(dst), int(src))
	}
}

// First returns the head of id's chain, or InvalidInstance.
func (p *Pool) First(id UnitID) Instance {
	if i, ok := p.first[id]; ok {
		return i
	}
	return InvalidInstance
}

func (p *Pool) Next(i Instance) Instance {
	p.Check(i)
	return p.next[i]
}

func (p *Pool) Prev(i Instance) Instance {
	p.Check(i)
	return p.prev[i]
}

func (p *Pool) Has(id UnitID) bool {
	return p.First(id).IsValid()
}

// Unit returns the owner of instance i.
func (p *Pool) Unit(i Instance) UnitID {
	p.Check(i)
	return p.unit[i]
}

// Units returns the number of units with at least one instance.
func (p *Pool) Units() int {
	return len(p.first)
}

func resized[T any](s []T, n int) []T {
	out := make([]T, n)
	copy(out, s)
	return out
}
