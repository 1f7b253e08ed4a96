package ecs

// Column is one attribute array of a Pool. Every column attached to a pool has
// the pool's capacity and is compacted by the pool on Destroy, so index i of
// each column belongs to instance i.
type Column[T any] struct {
	pool *Pool
	data []T
}

// NewColumn attaches a new attribute array to p.
func NewColumn[T any](p *Pool) *Column[T] {
	c := &Column[T]{pool: p}
	p.attach(c)
	return c
}

func (c *Column[T]) Get(i Instance) T {
	c.pool.Check(i)
	return c.data[i]
}

func (c *Column[T]) Set(i Instance, v T) {
	c.pool.Check(i)
	c.data[i] = v
}

// Ref returns a pointer into the column. It is invalidated by the next
// Create that grows the pool.
func (c *Column[T]) Ref(i Instance) *T {
	c.pool.Check(i)
	return &c.data[i]
}

// Values returns the live prefix of the column, indexed by instance.
func (c *Column[T]) Values() []T {
	return c.data[:c.pool.size]
}

func (c *Column[T]) resize(capacity int) {
	c.data = resized(c.data, capacity)
}

func (c *Column[T]) move(dst, src int) {
	c.data[dst] = c.data[src]
}

func (c *Column[T]) reset(i int) {
	var zero T
	c.data[i] = zero
}
