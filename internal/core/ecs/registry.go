package ecs

// DestroyFunc releases per-unit data held by a subsystem. It receives the id
// that was destroyed, so its generation is already stale when it runs.
type DestroyFunc func(id UnitID)

type destroyHook struct {
	owner any
	fn    DestroyFunc
}

// Registry fans a unit's destruction out to every subsystem that keeps data
// keyed by UnitID. Owners are compared by identity, so register with a pointer.
type Registry struct {
	hooks []destroyHook
}

func NewRegistry() *Registry {
	return &Registry{
		hooks: make([]destroyHook, 0, 16),
	}
}

// Register appends a destroy hook for owner.
func (r *Registry) Register(owner any, fn DestroyFunc) {
	if fn == nil {
		panic("ecs: nil destroy function")
	}
	r.hooks = append(r.hooks, destroyHook{owner: owner, fn: fn})
}

// Unregister swap-removes the hook registered by owner. An unknown owner is a
// programming error.
func (r *Registry) Unregister(owner any) {
	for i, h := range r.hooks {
		if h.owner == owner {
			last := len(r.hooks) - 1
			r.hooks[i] = r.hooks[last]
			r.hooks[last] = destroyHook{}
			r.hooks = r.hooks[:last]
			return
		}
	}
	panic("ecs: unregistering unknown destroy function owner")
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	return len(r.hooks)
}

// trigger runs every hook in slice order.
func (r *Registry) trigger(id UnitID) {
	for i := 0; i < len(r.hooks); i++ {
		r.hooks[i].fn(id)
	}
}
