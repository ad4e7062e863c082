package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func buildSyntheticBSP() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(29))
	// 15 section entries packed back to back after the directory.
	offset := int32(4 + 15*8)
	for i := 0; i < 15; i++ {
		binary.Write(&buf, binary.LittleEndian, offset)
		binary.Write(&buf, binary.LittleEndian, int32(8))
		offset += 8
	}
	buf.Write(make([]byte, 15*8))
	return buf.Bytes()
}

func TestParseBSP(t *testing.T) {
	bsp, err := ParseBSP(buildSyntheticBSP())
	if err != nil {
		t.Fatalf("failed to parse synthetic BSP: %v", err)
	}

	if bsp.Version != 29 {
		t.Errorf("version = %d, expected 29", bsp.Version)
	}

	entities := bsp.Section(SectionEntities)
	if entities.Offset != 124 || entities.Size != 8 {
		t.Errorf("entities section = %+v, expected offset 124 size 8", entities)
	}
	models := bsp.Section(SectionModels)
	if models.Offset != 124+14*8 {
		t.Errorf("models section offset = %d, expected %d", models.Offset, 124+14*8)
	}
}

func TestParseBSP_UnsupportedVersion(t *testing.T) {
	data := buildSyntheticBSP()
	binary.LittleEndian.PutUint32(data[0:4], 30)
	_, err := ParseBSP(data)
	if !errors.Is(err, ErrUnsupportedBSPVersion) {
		t.Errorf("expected ErrUnsupportedBSPVersion, got %v", err)
	}
}

func TestParseBSP_Truncated(t *testing.T) {
	data := buildSyntheticBSP()
	_, err := ParseBSP(data[:40])
	if !errors.Is(err, ErrTruncatedBSPData) {
		t.Errorf("expected ErrTruncatedBSPData, got %v", err)
	}
}

func TestBSPSectionString(t *testing.T) {
	if SectionLightmaps.String() != "lightmaps" {
		t.Errorf("got %q", SectionLightmaps.String())
	}
	if BSPSection(99).String() != "section(99)" {
		t.Errorf("got %q", BSPSection(99).String())
	}
}
