package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Object binds a shape to a material and a world transform. Objects are set
// up with the With* methods while a scene is assembled and are read-only once
// rendering starts.
type Object struct {
	Shape     Shape
	Material  material.Material
	HasShadow bool // Whether the object casts shadows

	transform core.Transform
	bounds    core.BoundingBox // World-space bounds, cached
}

// NewObject wraps a shape with the default material and identity transform
func NewObject(shape Shape) *Object {
	o := &Object{
		Shape:     shape,
		Material:  material.DefaultMaterial(),
		HasShadow: true,
		transform: core.IdentityTransform(),
	}
	o.bounds = shape.Bounds()
	return o
}

// NewSphereObject creates a unit sphere object
func NewSphereObject() *Object { return NewObject(Sphere{}) }

// NewPlaneObject creates an xz plane object
func NewPlaneObject() *Object { return NewObject(Plane{}) }

// NewCubeObject creates a unit cube object
func NewCubeObject() *Object { return NewObject(Cube{}) }

// NewCylinderObject creates a cylinder object
func NewCylinderObject(min, max float64, closed bool) *Object {
	return NewObject(NewCylinder(min, max, closed))
}

// NewConeObject creates a cone object
func NewConeObject(min, max float64, closed bool) *Object {
	return NewObject(NewCone(min, max, closed))
}

// NewTriangleObject creates a flat triangle object
func NewTriangleObject(p1, p2, p3 core.Point) *Object {
	return NewObject(NewTriangle(p1, p2, p3))
}

// NewSmoothTriangleObject creates a triangle object with vertex normals
func NewSmoothTriangleObject(p1, p2, p3 core.Point, n1, n2, n3 core.Vector) *Object {
	return NewObject(NewSmoothTriangle(p1, p2, p3, n1, n2, n3))
}

// WithMaterial sets the material
func (o *Object) WithMaterial(m material.Material) *Object {
	o.Material = m
	return o
}

// WithShadow sets whether the object casts shadows
func (o *Object) WithShadow(hasShadow bool) *Object {
	o.HasShadow = hasShadow
	return o
}

// WithTransform replaces the transform. It panics if m is not invertible.
// Groups always hold the identity, so on a group m is baked into every leaf.
func (o *Object) WithTransform(m core.Matrix) *Object {
	if _, ok := o.Shape.(*Group); ok {
		if err := o.transformGroup(m); err != nil {
			panic(fmt.Errorf("geometry: transform group: %w", err))
		}
		return o
	}
	o.setTransform(core.NewTransform(m))
	return o
}

// Transform applies m after the current transform (new = m * current).
// It panics if the result is not invertible.
func (o *Object) Transform(m core.Matrix) *Object {
	return o.WithTransform(m.Multiply(o.transform.Matrix))
}

// TryTransform is Transform returning core.ErrSingularMatrix instead of panicking
func (o *Object) TryTransform(m core.Matrix) (*Object, error) {
	if _, ok := o.Shape.(*Group); ok {
		return o, o.transformGroup(m)
	}
	tr, err := core.TryNewTransform(m.Multiply(o.transform.Matrix))
	if err != nil {
		return o, err
	}
	o.setTransform(tr)
	return o, nil
}

// transformGroup rebuilds a group with m applied on top of the transforms
// already baked into its leaves. o is left unchanged on error.
func (o *Object) transformGroup(m core.Matrix) error {
	node := FromObject(o)
	node.Transform = m
	built, err := node.TryBuild()
	if err != nil {
		return err
	}
	o.Shape = built.Shape
	o.transform = built.transform
	o.bounds = built.bounds
	return nil
}

func (o *Object) setTransform(tr core.Transform) {
	o.transform = tr
	o.bounds = o.Shape.Bounds().Transform(tr.Matrix)
}

// TransformMatrix returns the object-to-world matrix
func (o *Object) TransformMatrix() core.Matrix {
	return o.transform.Matrix
}

// InverseTransform returns the world-to-object matrix
func (o *Object) InverseTransform() core.Matrix {
	return o.transform.Inverse
}

// Bounds returns the world-space bounding box
func (o *Object) Bounds() core.BoundingBox {
	return o.bounds
}

// Intersect reports the object's hits along a world-space ray. The caller
// sets the pusher's current object. Groups have their transforms baked into
// their children, so their rays are passed through unchanged.
func (o *Object) Intersect(ray core.Ray, push Pusher) {
	if _, ok := o.Shape.(*Group); ok {
		o.Shape.Intersect(ray, push)
		return
	}
	o.Shape.Intersect(ray.Transform(o.transform.Inverse), push)
}

// Intersections returns the sorted hits of ray against this object alone
func (o *Object) Intersections(ray core.Ray) Intersections {
	c := NewCollector()
	c.SetObject(o)
	o.Intersect(ray, c)
	return c.Intersections()
}

// NormalAt returns the world-space surface normal at a world point
func (o *Object) NormalAt(worldPoint core.Point, hit Intersection) core.Vector {
	localPoint := o.transform.Inverse.MulPoint(worldPoint)
	localNormal := o.Shape.NormalAt(localPoint, hit)
	return o.transform.InverseTranspose.MulVector(localNormal).Normalize()
}

// Divide subdivides group objects with at least threshold direct children
// where they can be split spatially. Other objects are returned unchanged.
func (o *Object) Divide(threshold int) *Object {
	g, ok := o.Shape.(*Group)
	if !ok {
		return o
	}
	divided := *o
	divided.Shape = g.Divide(threshold)
	divided.bounds = divided.Shape.Bounds()
	return &divided
}
