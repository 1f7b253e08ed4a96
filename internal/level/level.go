// Package level reads YAML level files: a named list of units with a local
// pose, an optional parent and the components to attach.
package level

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/amstel/engine/internal/physics"
	"github.com/amstel/engine/internal/render"
)

var (
	ErrNoName        = errors.New("unit has no name")
	ErrDuplicateUnit = errors.New("duplicate unit name")
	ErrUnknownParent = errors.New("unknown parent")
	ErrCycle         = errors.New("parent cycle")
	ErrComponent     = errors.New("invalid component")
)

type Level struct {
	Name  string    `yaml:"name"`
	Units []UnitDef `yaml:"units"`
}

// UnitDef is one unit of a level. Position, rotation and scale are relative
// to Parent, or to the world when Parent is empty. Rotation is XYZ Euler
// angles in degrees.
type UnitDef struct {
	Name     string             `yaml:"name"`
	Parent   string             `yaml:"parent,omitempty"`
	Position [3]float64         `yaml:"position"`
	Rotation [3]float64         `yaml:"rotation"`
	Scale    *[3]float64        `yaml:"scale,omitempty"`
	Meshes   []render.MeshDesc  `yaml:"meshes,omitempty"`
	Sprite   *render.SpriteDesc `yaml:"sprite,omitempty"`
	Light    *LightDef          `yaml:"light,omitempty"`
	Camera   *CameraDef         `yaml:"camera,omitempty"`
	Actor    *ActorDef          `yaml:"actor,omitempty"`
}

type LightDef struct {
	Type      string     `yaml:"type"`
	Range     float64    `yaml:"range"`
	Intensity float64    `yaml:"intensity"`
	SpotAngle float64    `yaml:"spot_angle"` // degrees
	Color     [3]float64 `yaml:"color"`
}

type CameraDef struct {
	Projection string  `yaml:"projection"`
	FOV        float64 `yaml:"fov"` // vertical, degrees
	Near       float64 `yaml:"near"`
	Far        float64 `yaml:"far"`
}

type ActorDef struct {
	Type       string  `yaml:"type"`
	Shape      string  `yaml:"shape"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Radius     float64 `yaml:"radius"`
	Mass       float64 `yaml:"mass"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
}

func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return lvl, nil
}

// Parse decodes and validates a level. Unknown keys are rejected.
func Parse(data []byte) (*Level, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var lvl Level
	if err := dec.Decode(&lvl); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Validate checks names, parent references and component descriptions.
func (l *Level) Validate() error {
	index := make(map[string]int, len(l.Units))
	for n, u := range l.Units {
		if u.Name == "" {
			return fmt.Errorf("unit #%d: %w", n, ErrNoName)
		}
		if _, dup := index[u.Name]; dup {
			return fmt.Errorf("unit %q: %w", u.Name, ErrDuplicateUnit)
		}
		index[u.Name] = n
	}
	for _, u := range l.Units {
		if u.Parent != "" {
			if _, ok := index[u.Parent]; !ok {
				return fmt.Errorf("unit %q: %w %q", u.Name, ErrUnknownParent, u.Parent)
			}
		}
		if err := u.validateComponents(); err != nil {
			return fmt.Errorf("unit %q: %w", u.Name, err)
		}
	}
	_, err := l.Order()
	return err
}

func (u *UnitDef) validateComponents() error {
	for _, m := range u.Meshes {
		if m.Mesh == "" {
			return fmt.Errorf("%w: mesh renderer without mesh", ErrComponent)
		}
	}
	if u.Sprite != nil && u.Sprite.Sprite == "" {
		return fmt.Errorf("%w: sprite renderer without sprite", ErrComponent)
	}
	if u.Light != nil {
		if _, err := u.Light.Desc(); err != nil {
			return fmt.Errorf("%w: %v", ErrComponent, err)
		}
	}
	if u.Camera != nil {
		if _, err := u.Camera.Desc(); err != nil {
			return fmt.Errorf("%w: %v", ErrComponent, err)
		}
	}
	if u.Actor != nil {
		if _, err := u.Actor.Desc(); err != nil {
			return fmt.Errorf("%w: %v", ErrComponent, err)
		}
	}
	return nil
}

// Order returns unit indexes with every parent ahead of its children.
func (l *Level) Order() ([]int, error) {
	index := make(map[string]int, len(l.Units))
	for n, u := range l.Units {
		index[u.Name] = n
	}
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]uint8, len(l.Units))
	order := make([]int, 0, len(l.Units))

	var visit func(n int) error
	visit = func(n int) error {
		switch state[n] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("unit %q: %w", l.Units[n].Name, ErrCycle)
		}
		state[n] = visiting
		if p := l.Units[n].Parent; p != "" {
			pi, ok := index[p]
			if !ok {
				return fmt.Errorf("unit %q: %w %q", l.Units[n].Name, ErrUnknownParent, p)
			}
			if err := visit(pi); err != nil {
				return err
			}
		}
		state[n] = done
		order = append(order, n)
		return nil
	}
	for n := range l.Units {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// LocalPose composes the unit's local transform.
func (u *UnitDef) LocalPose() mgl64.Mat4 {
	scale := mgl64.Vec3{1, 1, 1}
	if u.Scale != nil {
		scale = *u.Scale
	}
	rot := mgl64.AnglesToQuat(
		mgl64.DegToRad(u.Rotation[0]),
		mgl64.DegToRad(u.Rotation[1]),
		mgl64.DegToRad(u.Rotation[2]),
		mgl64.XYZ,
	)
	r := rot.Normalize().Mat4()
	return mgl64.Translate3D(u.Position[0], u.Position[1], u.Position[2]).
		Mul4(r).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

func (d *LightDef) Desc() (render.LightDesc, error) {
	typ, err := render.ParseLightType(d.Type)
	if err != nil {
		return render.LightDesc{}, err
	}
	if d.Range < 0 || d.Intensity < 0 {
		return render.LightDesc{}, fmt.Errorf("light range and intensity must not be negative")
	}
	if typ == render.LightSpot && (d.SpotAngle <= 0 || d.SpotAngle >= 180) {
		return render.LightDesc{}, fmt.Errorf("spot angle %g out of range", d.SpotAngle)
	}
	return render.LightDesc{
		Type:      typ,
		Range:     d.Range,
		Intensity: d.Intensity,
		SpotAngle: d.SpotAngle * math.Pi / 180,
		Color:     d.Color,
	}, nil
}

func (d *CameraDef) Desc() (render.CameraDesc, error) {
	proj, err := render.ParseProjectionType(d.Projection)
	if err != nil {
		return render.CameraDesc{}, err
	}
	if d.Far <= d.Near {
		return render.CameraDesc{}, fmt.Errorf("camera far %g must exceed near %g", d.Far, d.Near)
	}
	if proj == render.ProjectionPerspective && (d.Near <= 0 || d.FOV <= 0 || d.FOV >= 180) {
		return render.CameraDesc{}, fmt.Errorf("perspective camera needs near > 0 and fov in (0, 180)")
	}
	return render.CameraDesc{
		Projection: proj,
		FOV:        d.FOV * math.Pi / 180,
		Near:       d.Near,
		Far:        d.Far,
	}, nil
}

func (d *ActorDef) Desc() (physics.ActorDesc, error) {
	typ, err := physics.ParseActorType(d.Type)
	if err != nil {
		return physics.ActorDesc{}, err
	}
	shape, err := physics.ParseShapeKind(d.Shape)
	if err != nil {
		return physics.ActorDesc{}, err
	}
	switch {
	case shape == physics.ShapeCircle && d.Radius <= 0:
		return physics.ActorDesc{}, fmt.Errorf("circle actor needs a positive radius")
	case shape == physics.ShapeBox && (d.Width <= 0 || d.Height <= 0):
		return physics.ActorDesc{}, fmt.Errorf("box actor needs a positive width and height")
	}
	return physics.ActorDesc{
		Type:       typ,
		Shape:      shape,
		Width:      d.Width,
		Height:     d.Height,
		Radius:     d.Radius,
		Mass:       d.Mass,
		Friction:   d.Friction,
		Elasticity: d.Elasticity,
	}, nil
}
