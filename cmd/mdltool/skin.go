package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/urfave/cli/v3"
	"golang.org/x/image/draw"

	"github.com/sergioffpc/quake-go/internal/assets"
	"github.com/sergioffpc/quake-go/pkg/formats"
)

func skinCmd() *cli.Command {
	var (
		index       int
		at          time.Duration
		format      string
		output      string
		palettePath string
		scale       int
	)

	return &cli.Command{
		Name:      "skin",
		Usage:     "Export a model skin as an image",
		ArgsUsage: "<model>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "index", Aliases: []string{"i"}, Usage: "skin slot to export", Destination: &index},
			&cli.DurationFlag{Name: "time", Aliases: []string{"t"}, Usage: "playback time for animated skins", Destination: &at},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "output format: webp or tga (default from extension)", Destination: &format},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file path", Destination: &output},
			&cli.StringFlag{Name: "palette", Usage: "palette asset or file (default from config)", Destination: &palettePath},
			&cli.IntFlag{Name: "scale", Aliases: []string{"s"}, Usage: "integer upscale factor", Value: 1, Destination: &scale},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return cli.Exit("error: mdltool skin <model>", 1)
			}
			name := cmd.Args().First()

			data, store, err := loadAsset(configFrom(ctx), name)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if store != nil {
				defer store.Close()
			}

			mdl, err := formats.ParseMDL(data)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: parsing %s: %v", name, err), 1)
			}
			if index < 0 || index >= len(mdl.Skins) {
				return cli.Exit(fmt.Sprintf("error: skin index %d out of range (model has %d)", index, len(mdl.Skins)), 1)
			}

			palette, err := resolvePalette(ctx, store, palettePath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if output == "" {
				base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
				output = fmt.Sprintf("%s_skin%d.webp", base, index)
			}
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
			}

			img := skinImage(mdl, palette, index, at)
			if scale > 1 {
				img = upscale(img, scale)
			}
			if err := writeImage(output, format, img); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			bounds := img.Bounds()
			fmt.Printf("Exported: %s (%dx%d)\n", output, bounds.Dx(), bounds.Dy())
			return nil
		},
	}
}

// resolvePalette loads the palette from an explicit file, or from the
// configured archive asset when the model came out of a PAK.
func resolvePalette(ctx context.Context, store *assets.Store, override string) (*formats.Palette, error) {
	name := configFrom(ctx).Data.PaletteName
	if override != "" {
		name = override
	}

	if data, err := os.ReadFile(name); err == nil {
		return formats.ParsePalette(data)
	}
	if store != nil {
		if err := store.LoadPalette(name); err != nil {
			return nil, err
		}
		return store.Palette(), nil
	}
	return nil, fmt.Errorf("no palette available: %s is not a file and no archive is open", name)
}

func skinImage(mdl *formats.MDL, palette *formats.Palette, index int, at time.Duration) *image.NRGBA {
	w, h := int(mdl.SkinWidth), int(mdl.SkinHeight)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Pix = palette.ToRGBA(mdl.Skins[index].IndicesAt(at))
	return img
}

// upscale resizes with nearest-neighbor to keep the chunky texel look.
func upscale(src *image.NRGBA, factor int) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

func writeImage(path, format string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "webp":
		return nativewebp.Encode(f, img, nil)
	case "tga":
		return tga.Encode(f, img)
	default:
		return fmt.Errorf("unsupported format %q (use webp or tga)", format)
	}
}
