package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/amstel/engine/internal/core/ecs"
)

// ActorInstance addresses one actor; a unit has at most one.
type ActorInstance = ecs.Instance

type ActorType uint8

const (
	ActorStatic ActorType = iota
	ActorDynamic
	ActorKinematic
)

var actorTypeNames = [...]string{"static", "dynamic", "kinematic"}

func (t ActorType) String() string {
	if int(t) < len(actorTypeNames) {
		return actorTypeNames[t]
	}
	return fmt.Sprintf("ActorType(%d)", t)
}

func ParseActorType(s string) (ActorType, error) {
	for i, name := range actorTypeNames {
		if name == s {
			return ActorType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown actor type %q", s)
}

type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
)

var shapeNames = [...]string{"box", "circle"}

func (k ShapeKind) String() string {
	if int(k) < len(shapeNames) {
		return shapeNames[k]
	}
	return fmt.Sprintf("ShapeKind(%d)", k)
}

func ParseShapeKind(s string) (ShapeKind, error) {
	for i, name := range shapeNames {
		if name == s {
			return ShapeKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", s)
}

// ActorDesc describes the body and collider of an actor. Sizes are in world
// units on the XY plane.
type ActorDesc struct {
	Type       ActorType
	Shape      ShapeKind
	Width      float64
	Height     float64
	Radius     float64
	Mass       float64 // dynamic only; <= 0 means 1
	Friction   float64
	Elasticity float64
}

// TransformEvent reports the simulated pose of a dynamic actor after a step.
type TransformEvent struct {
	Unit     ecs.UnitID
	Position mgl64.Vec3
	Rotation mgl64.Quat
}
