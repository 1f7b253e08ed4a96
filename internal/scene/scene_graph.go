// Package scene maintains the transform hierarchy of a world. Every node
// caches a local pose relative to its parent and a world pose; both are kept
// consistent eagerly, so reads are O(1) and every mutation propagates down
// the subtree before it returns.
//
// Matrices are column-major and transform column vectors, so a node's world
// pose is parentWorld * local.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/amstel/engine/internal/core/ecs"
)

// TransformInstance addresses one node. Like any pool instance it is only
// stable until the next Destroy.
type TransformInstance = ecs.Instance

// SceneGraph is a forest of transform nodes stored as parallel arrays. Tree
// links use the first-child / next-sibling encoding with back links to the
// previous sibling for O(1) detach.
type SceneGraph struct {
	pool *ecs.Pool

	world       *ecs.Column[mgl64.Mat4]
	local       *ecs.Column[Pose]
	parent      *ecs.Column[TransformInstance]
	firstChild  *ecs.Column[TransformInstance]
	nextSibling *ecs.Column[TransformInstance]
	prevSibling *ecs.Column[TransformInstance]
	changed     *ecs.Column[bool]
}

// New creates an empty scene graph with room for capacity nodes.
func New(capacity int) *SceneGraph {
	p := ecs.NewPool(ecs.PoolSingle, capacity)
	return &SceneGraph{
		pool:        p,
		world:       ecs.NewColumn[mgl64.Mat4](p),
		local:       ecs.NewColumn[Pose](p),
		parent:      ecs.NewColumn[TransformInstance](p),
		firstChild:  ecs.NewColumn[TransformInstance](p),
		nextSibling: ecs.NewColumn[TransformInstance](p),
		prevSibling: ecs.NewColumn[TransformInstance](p),
		changed:     ecs.NewColumn[bool](p),
	}
}

// Create adds a root node for id with local == world == pose. A unit owns at
// most one transform.
func (g *SceneGraph) Create(id ecs.UnitID, pose mgl64.Mat4) TransformInstance {
	if g.pool.Has(id) {
		panic(fmt.Sprintf("scene: %s already has a transform", id))
	}
	i := g.pool.Create(id)
	g.world.Set(i, pose)
	g.local.Set(i, PoseFromMatrix(pose))
	g.parent.Set(i, ecs.InvalidInstance)
	g.firstChild.Set(i, ecs.InvalidInstance)
	g.nextSibling.Set(i, ecs.InvalidInstance)
	g.prevSibling.Set(i, ecs.InvalidInstance)
	g.changed.Set(i, false)
	return i
}

// CreateFrom adds a root node from position, rotation and scale.
func (g *SceneGraph) CreateFrom(id ecs.UnitID, position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) TransformInstance {
	return g.Create(id, Compose(position, rotation, scale))
}

// Destroy removes node i. Its children become roots that keep their current
// world pose. The last node moves into slot i and every link to it is
// repointed.
func (g *SceneGraph) Destroy(i TransformInstance) {
	g.pool.Check(i)
	for c := g.firstChild.Get(i); c.IsValid(); c = g.firstChild.Get(i) {
		g.Unlink(c)
	}
	g.Unlink(i)

	last := TransformInstance(g.pool.Len() - 1)
	if i != last {
		g.relink(last, i)
	}
	g.pool.Destroy(i)
}

// relink repoints every tree link addressing from to to.
func (g *SceneGraph) relink(from, to TransformInstance) {
	if p := g.parent.Get(from); p.IsValid() && g.firstChild.Get(p) == from {
		g.firstChild.Set(p, to)
	}
	if prev := g.prevSibling.Get(from); prev.IsValid() {
		g.nextSibling.Set(prev, to)
	}
	if next := g.nextSibling.Get(from); next.IsValid() {
		g.prevSibling.Set(next, to)
	}
	for c := g.firstChild.Get(from); c.IsValid(); c = g.nextSibling.Get(c) {
		g.parent.Set(c, to)
	}
}

// Get returns the transform of id, or ecs.InvalidInstance.
func (g *SceneGraph) Get(id ecs.UnitID) TransformInstance {
	return g.pool.First(id)
}

func (g *SceneGraph) Has(id ecs.UnitID) bool {
	return g.pool.Has(id)
}

// Unit returns the owner of node i.
func (g *SceneGraph) Unit(i TransformInstance) ecs.UnitID {
	return g.pool.Unit(i)
}

func (g *SceneGraph) NodeCount() int {
	return g.pool.Len()
}

func (g *SceneGraph) SetLocalPosition(i TransformInstance, position mgl64.Vec3) {
	g.local.Ref(i).Position = position
	g.setLocal(i)
}

func (g *SceneGraph) SetLocalRotation(i TransformInstance, rotation mgl64.Quat) {
	g.local.Ref(i).Rotation = rotation.Normalize().Mat4().Mat3()
	g.setLocal(i)
}

func (g *SceneGraph) SetLocalScale(i TransformInstance, scale mgl64.Vec3) {
	g.local.Ref(i).Scale = scale
	g.setLocal(i)
}

func (g *SceneGraph) SetLocalPose(i TransformInstance, pose mgl64.Mat4) {
	g.local.Set(i, PoseFromMatrix(pose))
	g.setLocal(i)
}

func (g *SceneGraph) LocalPosition(i TransformInstance) mgl64.Vec3 {
	return g.local.Get(i).Position
}

func (g *SceneGraph) LocalRotation(i TransformInstance) mgl64.Quat {
	return g.local.Get(i).Quat()
}

func (g *SceneGraph) LocalScale(i TransformInstance) mgl64.Vec3 {
	return g.local.Get(i).Scale
}

func (g *SceneGraph) LocalPose(i TransformInstance) mgl64.Mat4 {
	return g.local.Get(i).Matrix()
}

func (g *SceneGraph) WorldPosition(i TransformInstance) mgl64.Vec3 {
	return g.world.Get(i).Col(3).Vec3()
}

func (g *SceneGraph) WorldRotation(i TransformInstance) mgl64.Quat {
	return PoseFromMatrix(g.world.Get(i)).Quat()
}

func (g *SceneGraph) WorldPose(i TransformInstance) mgl64.Mat4 {
	return g.world.Get(i)
}

// SetWorldPose places node i at pose in world space. The local pose is
// re-derived against the parent and the whole subtree follows.
func (g *SceneGraph) SetWorldPose(i TransformInstance, pose mgl64.Mat4) {
	g.setWorld(i, pose)
	for c := g.firstChild.Get(i); c.IsValid(); c = g.nextSibling.Get(c) {
		g.transform(pose, c)
	}
}

// SetWorldPoseLeaf is SetWorldPose for nodes driven from outside the
// hierarchy, such as simulated bodies. It does not walk children, and
// calling it on a node that has children panics.
func (g *SceneGraph) SetWorldPoseLeaf(i TransformInstance, pose mgl64.Mat4) {
	if g.firstChild.Get(i).IsValid() {
		panic(fmt.Sprintf("scene: leaf pose set on node %d with children", i))
	}
	g.setWorld(i, pose)
}

func (g *SceneGraph) setWorld(i TransformInstance, pose mgl64.Mat4) {
	g.world.Set(i, pose)
	local := pose
	if p := g.parent.Get(i); p.IsValid() {
		local = g.world.Get(p).Inv().Mul4(pose)
	}
	g.local.Set(i, PoseFromMatrix(local))
	g.changed.Set(i, true)
}

func (g *SceneGraph) Parent(i TransformInstance) TransformInstance {
	return g.parent.Get(i)
}

func (g *SceneGraph) FirstChild(i TransformInstance) TransformInstance {
	return g.firstChild.Get(i)
}

func (g *SceneGraph) NextSibling(i TransformInstance) TransformInstance {
	return g.nextSibling.Get(i)
}

func (g *SceneGraph) PrevSibling(i TransformInstance) TransformInstance {
	return g.prevSibling.Get(i)
}

// Children appends the children of i to dst in link order.
func (g *SceneGraph) Children(i TransformInstance, dst []TransformInstance) []TransformInstance {
	for c := g.firstChild.Get(i); c.IsValid(); c = g.nextSibling.Get(c) {
		dst = append(dst, c)
	}
	return dst
}

// Link makes child the last child of parent. The child keeps its world pose:
// its local pose is re-derived relative to the parent. Linking a node under
// itself or under one of its descendants panics.
func (g *SceneGraph) Link(child, parent TransformInstance) {
	g.pool.Check(child)
	g.pool.Check(parent)
	for a := parent; a.IsValid(); a = g.parent.Get(a) {
		if a == child {
			panic(fmt.Sprintf("scene: linking node %d under %d creates a cycle", child, parent))
		}
	}

	g.Unlink(child)

	tail := ecs.InvalidInstance
	if head := g.firstChild.Get(parent); !head.IsValid() {
		g.firstChild.Set(parent, child)
	} else {
		tail = head
		for next := g.nextSibling.Get(tail); next.IsValid(); next = g.nextSibling.Get(tail) {
			tail = next
		}
		g.nextSibling.Set(tail, child)
	}
	g.prevSibling.Set(child, tail)
	g.nextSibling.Set(child, ecs.InvalidInstance)
	g.parent.Set(child, parent)

	parentWorld := g.world.Get(parent)
	g.local.Set(child, PoseFromMatrix(parentWorld.Inv().Mul4(g.world.Get(child))))
	g.transform(parentWorld, child)
}

// Unlink detaches child from its parent, if any. The child becomes a root
// whose local pose is its previous world pose.
func (g *SceneGraph) Unlink(child TransformInstance) {
	p := g.parent.Get(child)
	if !p.IsValid() {
		return
	}
	prev, next := g.prevSibling.Get(child), g.nextSibling.Get(child)
	if prev.IsValid() {
		g.nextSibling.Set(prev, next)
	} else {
		g.firstChild.Set(p, next)
	}
	if next.IsValid() {
		g.prevSibling.Set(next, prev)
	}

	g.parent.Set(child, ecs.InvalidInstance)
	g.nextSibling.Set(child, ecs.InvalidInstance)
	g.prevSibling.Set(child, ecs.InvalidInstance)
	g.local.Set(child, PoseFromMatrix(g.world.Get(child)))
	g.changed.Set(child, true)
}

// ClearChanged resets every dirty flag. Called once per frame after the
// changes have been forwarded.
func (g *SceneGraph) ClearChanged() {
	clear(g.changed.Values())
}

// Changed appends the unit and world pose of every node mutated since the
// last ClearChanged, in dense order.
func (g *SceneGraph) Changed(units []ecs.UnitID, poses []mgl64.Mat4) ([]ecs.UnitID, []mgl64.Mat4) {
	world := g.world.Values()
	for i, dirty := range g.changed.Values() {
		if dirty {
			units = append(units, g.pool.Unit(TransformInstance(i)))
			poses = append(poses, world[i])
		}
	}
	return units, poses
}

func (g *SceneGraph) setLocal(i TransformInstance) {
	parentWorld := mgl64.Ident4()
	if p := g.parent.Get(i); p.IsValid() {
		parentWorld = g.world.Get(p)
	}
	g.transform(parentWorld, i)
}

// transform recomputes the world pose of i and of its subtree, pre-order.
func (g *SceneGraph) transform(parentWorld mgl64.Mat4, i TransformInstance) {
	world := parentWorld.Mul4(g.local.Get(i).Matrix())
	g.world.Set(i, world)
	g.changed.Set(i, true)
	for c := g.firstChild.Get(i); c.IsValid(); c = g.nextSibling.Get(c) {
		g.transform(world, c)
	}
}
