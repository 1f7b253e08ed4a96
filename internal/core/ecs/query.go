package ecs

// Each calls fn for every instance owned by id, in chain order. fn must not
// create or destroy instances in p; collect with Instances for that.
func (p *Pool) Each(id UnitID, fn func(Instance)) {
	for i := p.First(id); i.IsValid(); i = p.next[i] {
		fn(i)
	}
}

// Instances appends the instances owned by id to dst, in chain order.
func (p *Pool) Instances(id UnitID, dst []Instance) []Instance {
	for i := p.First(id); i.IsValid(); i = p.next[i] {
		dst = append(dst, i)
	}
	return dst
}

// DestroyAll removes every instance owned by id and returns how many were
// removed. Used by destroy hooks.
func (p *Pool) DestroyAll(id UnitID) int {
	n := 0
	for i := p.First(id); i.IsValid(); i = p.First(id) {
		p.Destroy(i)
		n++
	}
	return n
}

// EachDense calls fn for every live instance in dense order.
func (p *Pool) EachDense(fn func(Instance, UnitID)) {
	for i := 0; i < p.size; i++ {
		fn(Instance(i), p.unit[i])
	}
}
