package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/sergioffpc/quake-go/pkg/formats"
)

type modelInfo struct {
	Name           string     `json:"name"`
	Scale          [3]float32 `json:"scale"`
	Origin         [3]float32 `json:"origin"`
	BoundingRadius float32    `json:"bounding_radius"`
	EyePosition    [3]float32 `json:"eye_position"`
	SkinWidth      int32      `json:"skin_width"`
	SkinHeight     int32      `json:"skin_height"`
	SyncType       int32      `json:"sync_type"`
	Flags          int32      `json:"flags"`
	Size           float32    `json:"size"`
	NumVerts       int32      `json:"num_verts"`
	NumTriangles   int        `json:"num_triangles"`
	NumSkins       int        `json:"num_skins"`
	NumKeyframes   int        `json:"num_keyframes"`
	AnimatedSkins  int        `json:"animated_skins"`
	AnimatedGroups int        `json:"animated_keyframes"`
}

func infoCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "info",
		Usage:     "Show model header and counts",
		ArgsUsage: "<model>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "emit machine-readable JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return cli.Exit("error: mdltool info <model>", 1)
			}
			name := cmd.Args().First()

			mdl, cleanup, err := resolveModel(ctx, name)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			defer cleanup()

			info := summarize(name, mdl)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			fmt.Printf("Model:      %s\n", info.Name)
			fmt.Printf("Scale:      %v\n", info.Scale)
			fmt.Printf("Origin:     %v\n", info.Origin)
			fmt.Printf("Radius:     %g\n", info.BoundingRadius)
			fmt.Printf("Eye:        %v\n", info.EyePosition)
			fmt.Printf("Skin:       %dx%d (%d skins, %d animated)\n",
				info.SkinWidth, info.SkinHeight, info.NumSkins, info.AnimatedSkins)
			fmt.Printf("Geometry:   %d verts, %d triangles\n", info.NumVerts, info.NumTriangles)
			fmt.Printf("Keyframes:  %d (%d animated groups)\n", info.NumKeyframes, info.AnimatedGroups)
			fmt.Printf("Sync/Flags: %d/%d\n", info.SyncType, info.Flags)
			return nil
		},
	}
}

func summarize(name string, mdl *formats.MDL) modelInfo {
	info := modelInfo{
		Name:           name,
		Scale:          [3]float32{mdl.Scale.X, mdl.Scale.Y, mdl.Scale.Z},
		Origin:         [3]float32{mdl.Origin.X, mdl.Origin.Y, mdl.Origin.Z},
		BoundingRadius: mdl.BoundingRadius,
		EyePosition:    [3]float32{mdl.EyePosition.X, mdl.EyePosition.Y, mdl.EyePosition.Z},
		SkinWidth:      mdl.SkinWidth,
		SkinHeight:     mdl.SkinHeight,
		SyncType:       mdl.SyncType,
		Flags:          mdl.Flags,
		Size:           mdl.Size,
		NumVerts:       mdl.NumVerts,
		NumTriangles:   len(mdl.Triangles),
		NumSkins:       len(mdl.Skins),
		NumKeyframes:   len(mdl.Keyframes),
	}
	for _, s := range mdl.Skins {
		if _, ok := s.(*formats.AnimatedSkin); ok {
			info.AnimatedSkins++
		}
	}
	for _, k := range mdl.Keyframes {
		if _, ok := k.(*formats.AnimatedKeyframe); ok {
			info.AnimatedGroups++
		}
	}
	return info
}

// resolveModel loads and parses a model by disk path or archive name.
// The returned cleanup closes the backing archive store, if any.
func resolveModel(ctx context.Context, name string) (*formats.MDL, func(), error) {
	data, store, err := loadAsset(configFrom(ctx), name)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {}
	if store != nil {
		cleanup = func() { store.Close() }
	}

	mdl, err := formats.ParseMDL(data)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return mdl, cleanup, nil
}
