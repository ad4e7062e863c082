// Package scene assembles renderable entities from archived assets.
// It owns no GPU resources: meshes and materials are CPU-side buffers
// a renderer uploads.
package scene

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sergioffpc/quake-go/internal/assets"
	"github.com/sergioffpc/quake-go/internal/engine/anim"
	"github.com/sergioffpc/quake-go/internal/engine/entity"
	"github.com/sergioffpc/quake-go/internal/logger"
	"github.com/sergioffpc/quake-go/pkg/formats"
)

// ErrNoPalette is returned when building materials without a loaded
// palette.
var ErrNoPalette = errors.New("asset store has no palette loaded")

// Scene holds the entities assembled from a set of model assets.
type Scene struct {
	store    *assets.Store
	entities []*entity.Entity
}

// Load decodes each named model asset into an entity. The store's
// palette must be loaded first; skins are expanded through it.
func Load(store *assets.Store, names ...string) (*Scene, error) {
	scene := &Scene{store: store}

	for _, name := range names {
		e, err := scene.createAliasEntity(name)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		scene.entities = append(scene.entities, e)
	}

	return scene, nil
}

// Entities returns the scene's entities.
func (s *Scene) Entities() []*entity.Entity {
	return s.entities
}

// Update refreshes every animated entity's mesh snapshot for the
// given elapsed playback time. The renderer re-uploads changed meshes
// afterwards.
func (s *Scene) Update(elapsed time.Duration) {
	for _, e := range s.entities {
		if e.Animation == nil || e.Mesh == nil {
			continue
		}
		if vertices, ok := e.Animation.Animate(elapsed); ok {
			e.Mesh.Vertices = vertices
		}
	}
}

// createAliasEntity decodes an animated model asset into an entity:
// material from the first skin at time zero, a clip library grouping
// the model's keyframes, and an initial mesh snapshot.
func (s *Scene) createAliasEntity(name string) (*entity.Entity, error) {
	data, err := s.store.Load(name)
	if err != nil {
		return nil, err
	}

	mdl, err := formats.ParseMDL(data)
	if err != nil {
		return nil, err
	}

	e := entity.New(name)

	if len(mdl.Skins) > 0 {
		palette := s.store.Palette()
		if palette == nil {
			return nil, ErrNoPalette
		}
		e.Material = &entity.Material{
			Width:  mdl.SkinWidth,
			Height: mdl.SkinHeight,
			Pixels: palette.ToRGBA(mdl.Skins[0].IndicesAt(0)),
		}
	}

	library := anim.Build(mdl)
	if vertices, ok := library.Animate(0); ok {
		e.Animation = library
		e.Mesh = &entity.Mesh{Vertices: vertices}
	}

	logger.Debug("assembled entity",
		zap.String("asset", name),
		zap.Int("skins", len(mdl.Skins)),
		zap.Int("keyframes", len(mdl.Keyframes)),
		zap.Strings("clips", library.Names()))

	return e, nil
}
