package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// BSP format errors.
var (
	ErrUnsupportedBSPVersion = errors.New("unsupported BSP version")
	ErrTruncatedBSPData      = errors.New("truncated BSP data")
)

const bspVersion = 29

// BSPSection identifies one entry of the level container's section
// directory.
type BSPSection int

// Section directory order is fixed by the format.
const (
	SectionEntities BSPSection = iota
	SectionPlanes
	SectionTextures
	SectionVertices
	SectionVisibility
	SectionRenderNodes
	SectionTextureInfo
	SectionFaces
	SectionLightmaps
	SectionClipNodes
	SectionLeaves
	SectionFaceList
	SectionEdges
	SectionEdgeList
	SectionModels

	numBSPSections = 15
)

var bspSectionNames = [numBSPSections]string{
	"entities", "planes", "textures", "vertices", "visibility",
	"render nodes", "texture info", "faces", "lightmaps", "clip nodes",
	"leaves", "face list", "edges", "edge list", "models",
}

// String returns the section's format name.
func (s BSPSection) String() string {
	if s < 0 || s >= numBSPSections {
		return fmt.Sprintf("section(%d)", int(s))
	}
	return bspSectionNames[s]
}

// BSPEntry is a section's (offset, size) byte range within the
// container.
type BSPEntry struct {
	Offset int32
	Size   int32
}

// BSP holds a level container's section directory. Node and leaf tree
// decoding is out of scope; the directory locates each section's raw
// bytes for collaborators.
type BSP struct {
	Version  int32
	Sections [numBSPSections]BSPEntry
}

// ParseBSP parses a level container's version field and section
// directory from raw bytes.
func ParseBSP(data []byte) (*BSP, error) {
	r := bytes.NewReader(data)

	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: reading version", ErrTruncatedBSPData)
	}
	if version != bspVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBSPVersion, version)
	}

	bsp := &BSP{Version: version}
	for i := range bsp.Sections {
		if err := binary.Read(r, binary.LittleEndian, &bsp.Sections[i]); err != nil {
			return nil, fmt.Errorf("%w: reading %s section entry", ErrTruncatedBSPData, BSPSection(i))
		}
		if bsp.Sections[i].Offset < 0 || bsp.Sections[i].Size < 0 ||
			int(bsp.Sections[i].Offset)+int(bsp.Sections[i].Size) > len(data) {
			return nil, fmt.Errorf("%w: %s section outside container", ErrTruncatedBSPData, BSPSection(i))
		}
	}

	return bsp, nil
}

// Section returns the directory entry for the given section.
func (b *BSP) Section(id BSPSection) BSPEntry {
	return b.Sections[id]
}
