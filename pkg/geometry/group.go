package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Group is a collection of child objects whose transforms already include
// every ancestor transform. Children are shared, never copied, during
// traversal.
type Group struct {
	children []*Object
	bounds   core.BoundingBox
}

func newGroup(children []*Object) *Group {
	bounds := core.EmptyBoundingBox()
	for _, child := range children {
		bounds = bounds.Union(child.Bounds())
	}
	return &Group{children: children, bounds: bounds}
}

// Children returns the direct children of the group
func (g *Group) Children() []*Object {
	return g.children
}

// Intersect tests the ray against the group's box first and skips the whole
// subtree on a miss
func (g *Group) Intersect(ray core.Ray, push Pusher) {
	if len(g.children) == 0 || !g.bounds.Intersects(ray) {
		return
	}
	for _, child := range g.children {
		push.SetObject(child)
		child.Intersect(ray, push)
	}
}

// NormalAt is never called: hits are attributed to the leaf objects
func (g *Group) NormalAt(core.Point, Intersection) core.Vector {
	panic("geometry: NormalAt called on a group")
}

func (g *Group) Bounds() core.BoundingBox {
	return g.bounds
}

func (g *Group) shape() {}

// Divide partitions children into the two halves of the group's box, moving
// each half into a new sub-group, whenever the group has at least threshold
// children. Children that straddle the split stay at this level. It recurses
// into every child group.
func (g *Group) Divide(threshold int) *Group {
	children := g.children
	if len(children) >= threshold {
		children = g.partition()
	}

	divided := make([]*Object, len(children))
	for i, child := range children {
		divided[i] = child.Divide(threshold)
	}
	return newGroup(divided)
}

func (g *Group) partition() []*Object {
	left, right := g.bounds.Split()

	var leftChildren, rightChildren, remaining []*Object
	for _, child := range g.children {
		switch {
		case left.ContainsBox(child.Bounds()):
			leftChildren = append(leftChildren, child)
		case right.ContainsBox(child.Bounds()):
			rightChildren = append(rightChildren, child)
		default:
			remaining = append(remaining, child)
		}
	}

	// Nothing moved: splitting again would not terminate
	if len(remaining) == 0 && (len(leftChildren) == 0 || len(rightChildren) == 0) {
		return g.children
	}

	if len(leftChildren) > 0 {
		remaining = append(remaining, groupObject(newGroup(leftChildren)))
	}
	if len(rightChildren) > 0 {
		remaining = append(remaining, groupObject(newGroup(rightChildren)))
	}
	return remaining
}

// groupObject wraps a group whose children are already in world space
func groupObject(g *Group) *Object {
	return &Object{
		Shape:     g,
		Material:  material.DefaultMaterial(),
		HasShadow: true,
		transform: core.IdentityTransform(),
		bounds:    g.bounds,
	}
}

// GroupBuilder describes a scene graph before transforms are resolved. A leaf
// holds a single object; a node holds a transform and child builders.
type GroupBuilder struct {
	Object    *Object // Leaf only
	Transform core.Matrix
	Children  []*GroupBuilder
}

// Leaf wraps an object as a builder leaf
func Leaf(o *Object) *GroupBuilder {
	return &GroupBuilder{Object: o}
}

// Node creates a builder node with a transform and children
func Node(transform core.Matrix, children ...*GroupBuilder) *GroupBuilder {
	return &GroupBuilder{Transform: transform, Children: children}
}

// Add appends children to a node
func (gb *GroupBuilder) Add(children ...*GroupBuilder) *GroupBuilder {
	gb.Children = append(gb.Children, children...)
	return gb
}

// IsLeaf reports whether the builder wraps a single object
func (gb *GroupBuilder) IsLeaf() bool {
	return gb.Object != nil
}

// Build resolves every transform: each leaf object is copied with the
// product of its ancestors' transforms applied before its own, and groups
// get the identity transform. The input objects are not modified. Build
// panics if a resolved transform is not invertible.
func (gb *GroupBuilder) Build() *Object {
	o, err := gb.TryBuild()
	if err != nil {
		panic(fmt.Errorf("geometry: build group: %w", err))
	}
	return o
}

// TryBuild is Build returning core.ErrSingularMatrix instead of panicking
func (gb *GroupBuilder) TryBuild() (*Object, error) {
	return gb.build(core.Identity())
}

func (gb *GroupBuilder) build(parent core.Matrix) (*Object, error) {
	if gb.IsLeaf() {
		if _, ok := gb.Object.Shape.(*Group); ok {
			return FromObject(gb.Object).build(parent)
		}
		tr, err := core.TryNewTransform(parent.Multiply(gb.Object.transform.Matrix))
		if err != nil {
			return nil, err
		}
		leaf := *gb.Object
		leaf.setTransform(tr)
		return &leaf, nil
	}

	transform := gb.Transform
	if transform == (core.Matrix{}) {
		transform = core.Identity()
	}
	childTransform := parent.Multiply(transform)

	children := make([]*Object, 0, len(gb.Children))
	for _, child := range gb.Children {
		o, err := child.build(childTransform)
		if err != nil {
			return nil, err
		}
		children = append(children, o)
	}
	return groupObject(newGroup(children)), nil
}

// FromObject turns a built object back into a builder, so already built
// groups can be nested into new ones. Empty groups are dropped.
func FromObject(o *Object) *GroupBuilder {
	g, ok := o.Shape.(*Group)
	if !ok {
		return Leaf(o)
	}

	node := Node(o.transform.Matrix)
	for _, child := range g.children {
		if cg, ok := child.Shape.(*Group); ok && len(cg.children) == 0 {
			continue
		}
		node.Add(FromObject(child))
	}
	return node
}

// NewGroupObject builds a group from objects, resolving nested groups
func NewGroupObject(children ...*Object) *Object {
	node := Node(core.Identity())
	for _, child := range children {
		if g, ok := child.Shape.(*Group); ok && len(g.children) == 0 {
			continue
		}
		node.Add(FromObject(child))
	}
	return node.Build()
}
