package ecs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkPool verifies that every live instance is reachable from exactly one
// chain head and that next/prev agree.
func checkPool(t *testing.T, p *Pool) {
	t.Helper()
	seen := make(map[Instance]bool, p.Len())
	for id, head := range p.first {
		require.True(t, head.IsValid())
		require.False(t, p.Prev(head).IsValid(), "head of %s has a predecessor", id)
		prev := InvalidInstance
		for i := head; i.IsValid(); i = p.Next(i) {
			require.Less(t, int(i), p.Len())
			require.False(t, seen[i], "instance %d reachable twice", i)
			seen[i] = true
			require.Equal(t, id, p.Unit(i))
			require.Equal(t, prev, p.Prev(i))
			prev = i
		}
	}
	require.Len(t, seen, p.Len())
}

func TestPoolSingle(t *testing.T) {
	p := NewPool(PoolSingle, 0)
	value := NewColumn[string](p)

	x, y, z := NewUnitID(1, 0), NewUnitID(2, 0), NewUnitID(3, 0)
	for _, u := range []struct {
		id UnitID
		v  string
	}{{x, "x"}, {y, "y"}, {z, "z"}} {
		value.Set(p.Create(u.id), u.v)
	}
	require.Equal(t, 3, p.Len())
	assert.Panics(t, func() { p.Create(x) })

	moved := p.Destroy(p.First(y))
	assert.Equal(t, Instance(2), moved)

	assert.False(t, p.Has(y))
	require.True(t, p.Has(x))
	require.True(t, p.Has(z))
	assert.Equal(t, "x", value.Get(p.First(x)))
	assert.Equal(t, "z", value.Get(p.First(z)))
	assert.Equal(t, Instance(1), p.First(z), "last instance moved into the hole")
	assert.Equal(t, 2, p.Units())
	checkPool(t, p)
}

func TestPoolGrowth(t *testing.T) {
	p := NewPool(PoolSingle, 0)
	col := NewColumn[int](p)
	assert.Equal(t, 0, p.Cap())

	for n := 0; n < 20; n++ {
		i := p.Create(NewUnitID(uint32(n), 0))
		col.Set(i, n*10)
	}
	// 0 -> 1 -> 3 -> 7 -> 15 -> 31
	assert.Equal(t, 31, p.Cap())
	assert.Len(t, col.Values(), 20)
	for n, v := range col.Values() {
		assert.Equal(t, n*10, v)
	}
}

func TestPoolMultiChain(t *testing.T) {
	p := NewPool(PoolMulti, 4)
	tag := NewColumn[string](p)
	a, b := NewUnitID(10, 0), NewUnitID(11, 0)

	a0 := p.Create(a)
	b0 := p.Create(b)
	a1 := p.Create(a)
	a2 := p.Create(a)
	tag.Set(a0, "a0")
	tag.Set(b0, "b0")
	tag.Set(a1, "a1")
	tag.Set(a2, "a2")

	assert.Equal(t, []Instance{a0, a1, a2}, p.Instances(a, nil))
	assert.Equal(t, a1, p.Prev(a2))
	checkPool(t, p)

	t.Run("remove_middle_keeps_head", func(t *testing.T) {
		p.Destroy(a1)
		checkPool(t, p)
		var tags []string
		p.Each(a, func(i Instance) { tags = append(tags, tag.Get(i)) })
		assert.Equal(t, []string{"a0", "a2"}, tags)
		assert.Equal(t, a0, p.First(a))
	})

	t.Run("remove_head_promotes_next", func(t *testing.T) {
		p.Destroy(p.First(a))
		checkPool(t, p)
		require.True(t, p.Has(a))
		assert.Equal(t, "a2", tag.Get(p.First(a)))
		assert.Equal(t, "b0", tag.Get(p.First(b)))
	})

	t.Run("remove_only_instance_drops_unit", func(t *testing.T) {
		assert.Equal(t, 1, p.DestroyAll(b))
		assert.False(t, p.Has(b))
		assert.Equal(t, InvalidInstance, p.First(b))
		checkPool(t, p)
	})
}

// Destroying the instance at Len()-1 must not touch any other unit's chain.
func TestPoolDestroyLast(t *testing.T) {
	p := NewPool(PoolMulti, 0)
	a, b := NewUnitID(1, 0), NewUnitID(2, 0)
	p.Create(a)
	p.Create(b)
	p.Create(a)
	last := p.Create(b)

	assert.Equal(t, InvalidInstance, p.Destroy(last))
	checkPool(t, p)
	assert.Len(t, p.Instances(a, nil), 2)
	assert.Len(t, p.Instances(b, nil), 1)
}

// The moved last instance may be the neighbour of the destroyed one.
func TestPoolDestroyNeighbourOfLast(t *testing.T) {
	p := NewPool(PoolMulti, 0)
	a := NewUnitID(1, 0)
	first := p.Create(a)
	p.Create(a)
	p.Create(a)

	p.Destroy(first)
	checkPool(t, p)
	assert.Len(t, p.Instances(a, nil), 2)
}

func TestPoolRandomSequence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := NewPool(PoolMulti, 0)
	owner := NewColumn[UnitID](p)

	creates, destroys := 0, 0
	for step := 0; step < 4000; step++ {
		if p.Len() == 0 || rng.Intn(5) < 3 {
			id := NewUnitID(uint32(rng.Intn(40)), 0)
			owner.Set(p.Create(id), id)
			creates++
		} else {
			p.Destroy(Instance(rng.Intn(p.Len())))
			destroys++
		}
		if step%250 == 0 {
			checkPool(t, p)
		}
	}
	checkPool(t, p)
	assert.Equal(t, creates-destroys, p.Len())
	// Attribute data travels with its instance.
	p.EachDense(func(i Instance, id UnitID) {
		assert.Equal(t, id, owner.Get(i))
	})
}

func TestPoolBounds(t *testing.T) {
	p := NewPool(PoolSingle, 8)
	col := NewColumn[float64](p)
	assert.Panics(t, func() { p.Next(0) })
	assert.Panics(t, func() { col.Get(3) })
	assert.Panics(t, func() { p.Destroy(InvalidInstance) })
}
