// Package entity implements scene entities assembled from decoded
// assets.
//
// The component set is closed and small, so components are typed slots
// rather than a type-erased container: a nil slot means the entity
// does not carry that component.
package entity

import (
	"github.com/sergioffpc/quake-go/internal/engine/anim"
	"github.com/sergioffpc/quake-go/pkg/formats"
	"github.com/sergioffpc/quake-go/pkg/math"
)

// Transform places an entity in the world.
type Transform struct {
	Position math.Vec3
	Rotation math.Vec3 // Euler angles, radians
	Scale    math.Vec3
}

// NewTransform returns an identity transform.
func NewTransform() *Transform {
	return &Transform{Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// Mesh holds the CPU-side vertex snapshot the renderer uploads. The
// buffer is refreshed by scene updates; its length never changes for
// a given entity.
type Mesh struct {
	Vertices []formats.Vertex
}

// Material holds the RGBA pixels the renderer uploads as a texture.
type Material struct {
	Width  int32
	Height int32
	Pixels []byte
}

// Entity is a scene object with a fixed set of optional components.
type Entity struct {
	Name string

	Transform *Transform
	Mesh      *Mesh
	Material  *Material
	Animation *anim.Library
}

// New creates an entity with an identity transform and no other
// components.
func New(name string) *Entity {
	return &Entity{
		Name:      name,
		Transform: NewTransform(),
	}
}
