package formats

import (
	"errors"
	"fmt"
)

// Palette errors.
var ErrTruncatedPalette = errors.New("truncated palette data")

// TransparentIndex marks a fully transparent pixel in skin index
// buffers.
const TransparentIndex = 0xFF

const paletteSize = 256 * 3

// Palette is a 256-entry RGB color table, typically read from
// gfx/palette.lmp.
type Palette struct {
	Colors [256][3]uint8
}

// ParsePalette parses a 768-byte RGB palette from raw bytes.
func ParsePalette(data []byte) (*Palette, error) {
	if len(data) < paletteSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedPalette, len(data))
	}

	p := &Palette{}
	for i := 0; i < 256; i++ {
		p.Colors[i] = [3]uint8{data[i*3], data[i*3+1], data[i*3+2]}
	}
	return p, nil
}

// ToRGBA expands a palette-index buffer to RGBA pixels. The transparent
// index maps to all-zero bytes; every other index maps through the
// palette with full alpha.
func (p *Palette) ToRGBA(indices []byte) []byte {
	rgba := make([]byte, 0, len(indices)*4)
	for _, index := range indices {
		if index == TransparentIndex {
			rgba = append(rgba, 0, 0, 0, 0)
			continue
		}
		c := p.Colors[index]
		rgba = append(rgba, c[0], c[1], c[2], 0xFF)
	}
	return rgba
}
