package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sergioffpc/quake-go/pkg/math"
)

// MDL format errors.
var (
	ErrInvalidMDLMagic       = errors.New("invalid MDL magic: expected 'IDPO'")
	ErrUnsupportedMDLVersion = errors.New("unsupported MDL version")
	ErrTruncatedMDLData      = errors.New("truncated MDL data")
	ErrMalformedMDL          = errors.New("malformed MDL record")
	ErrUnknownSkinType       = errors.New("unknown MDL skin type")
	ErrUnknownFrameType      = errors.New("unknown MDL frame type")
)

const (
	mdlMagic   = 0x4F504449 // "IDPO"
	mdlVersion = 6

	// Skin coordinates carrying this tag sit on the texture seam.
	seamFlag = 0x20

	frameNameSize = 16
)

// Vertex is a render-ready vertex: position, flat normal, corrected
// texture coordinate. One vertex per triangle corner, no sharing.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	TexCoord [2]float32
}

// SkinCoord holds per-vertex texel coordinates and the seam flag.
type SkinCoord struct {
	OnSeam bool
	S, T   int32
}

// Triangle references three vertex indices shared by all frames.
type Triangle struct {
	FacesFront bool
	Indices    [3]uint32
}

// Frame is one named pose of the model's vertex positions.
type Frame struct {
	Name     string
	Min, Max math.Vec3
	Vertices []math.Vec3
}

// Skin is a palette-indexed texture image, either static or a timed
// sequence of images.
type Skin interface {
	// IndicesAt returns the palette-index buffer active at the given
	// elapsed playback time.
	IndicesAt(elapsed time.Duration) []byte
}

// StaticSkin is a single pixel-index buffer.
type StaticSkin struct {
	Indices []byte
}

// IndicesAt returns the skin's pixel indices regardless of time.
func (s *StaticSkin) IndicesAt(time.Duration) []byte {
	return s.Indices
}

// AnimatedSkin is an ordered, non-empty list of timed pixel-index
// buffers played as a loop.
type AnimatedSkin struct {
	Frames []TimedIndices
}

// TimedIndices pairs a pixel-index buffer with its display duration.
type TimedIndices struct {
	Duration time.Duration
	Indices  []byte
}

// IndicesAt returns the pixel indices of the subframe active at the
// given elapsed playback time.
func (s *AnimatedSkin) IndicesAt(elapsed time.Duration) []byte {
	durations := make([]time.Duration, len(s.Frames))
	for i := range s.Frames {
		durations[i] = s.Frames[i].Duration
	}
	return s.Frames[timedIndex(durations, elapsed)].Indices
}

// Keyframe is one stored pose, either static or a timed group of poses.
type Keyframe interface {
	// FrameAt returns the frame active at the given elapsed playback
	// time.
	FrameAt(elapsed time.Duration) *Frame
}

// StaticKeyframe wraps a single frame.
type StaticKeyframe struct {
	Frame Frame
}

// FrameAt returns the keyframe's single frame regardless of time.
func (k *StaticKeyframe) FrameAt(time.Duration) *Frame {
	return &k.Frame
}

// AnimatedKeyframe is an ordered, non-empty group of timed frames with
// a shared bounding box.
type AnimatedKeyframe struct {
	Min, Max math.Vec3
	Frames   []TimedFrame
}

// TimedFrame pairs a frame with its display duration.
type TimedFrame struct {
	Duration time.Duration
	Frame    Frame
}

// FrameAt returns the subframe active at the given elapsed playback
// time.
func (k *AnimatedKeyframe) FrameAt(elapsed time.Duration) *Frame {
	durations := make([]time.Duration, len(k.Frames))
	for i := range k.Frames {
		durations[i] = k.Frames[i].Duration
	}
	return &k.Frames[timedIndex(durations, elapsed)].Frame
}

// MDL represents a parsed animated model.
type MDL struct {
	Scale          math.Vec3
	Origin         math.Vec3
	BoundingRadius float32
	EyePosition    math.Vec3
	SkinWidth      int32
	SkinHeight     int32
	NumVerts       int32
	SyncType       int32
	Flags          int32
	Size           float32

	Skins      []Skin
	SkinCoords []SkinCoord
	Triangles  []Triangle
	Keyframes  []Keyframe
}

// mdlHeader is the fixed header portion after the magic and version.
type mdlHeader struct {
	Scale          [3]float32
	Origin         [3]float32
	BoundingRadius float32
	EyePosition    [3]float32
	NumSkins       int32
	SkinWidth      int32
	SkinHeight     int32
	NumVerts       int32
	NumTris        int32
	NumFrames      int32
	SyncType       int32
	Flags          int32
	Size           float32
}

// ParseMDL parses an MDL model from raw bytes.
func ParseMDL(data []byte) (*MDL, error) {
	r := bytes.NewReader(data)

	var magic, version int32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("%w: reading magic", ErrTruncatedMDLData)
	}
	if magic != mdlMagic {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMDLMagic, uint32(magic))
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: reading version", ErrTruncatedMDLData)
	}
	if version != mdlVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMDLVersion, version)
	}

	var header mdlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedMDLData)
	}
	if header.NumSkins < 0 || header.SkinWidth <= 0 || header.SkinHeight <= 0 ||
		header.NumVerts <= 0 || header.NumTris < 0 || header.NumFrames < 0 {
		return nil, fmt.Errorf("%w: non-positive header counts", ErrMalformedMDL)
	}

	mdl := &MDL{
		Scale:          math.Vec3{X: header.Scale[0], Y: header.Scale[1], Z: header.Scale[2]},
		Origin:         math.Vec3{X: header.Origin[0], Y: header.Origin[1], Z: header.Origin[2]},
		BoundingRadius: header.BoundingRadius,
		EyePosition:    math.Vec3{X: header.EyePosition[0], Y: header.EyePosition[1], Z: header.EyePosition[2]},
		SkinWidth:      header.SkinWidth,
		SkinHeight:     header.SkinHeight,
		NumVerts:       header.NumVerts,
		SyncType:       header.SyncType,
		Flags:          header.Flags,
		Size:           header.Size,
	}

	skinSize := int(header.SkinWidth) * int(header.SkinHeight)
	mdl.Skins = make([]Skin, 0, header.NumSkins)
	for i := int32(0); i < header.NumSkins; i++ {
		skin, err := parseSkin(r, skinSize)
		if err != nil {
			return nil, fmt.Errorf("parsing skin %d: %w", i, err)
		}
		mdl.Skins = append(mdl.Skins, skin)
	}

	mdl.SkinCoords = make([]SkinCoord, 0, header.NumVerts)
	for i := int32(0); i < header.NumVerts; i++ {
		coord, err := parseSkinCoord(r)
		if err != nil {
			return nil, fmt.Errorf("parsing skin coord %d: %w", i, err)
		}
		mdl.SkinCoords = append(mdl.SkinCoords, coord)
	}

	mdl.Triangles = make([]Triangle, 0, header.NumTris)
	for i := int32(0); i < header.NumTris; i++ {
		tri, err := parseTriangle(r, header.NumVerts)
		if err != nil {
			return nil, fmt.Errorf("parsing triangle %d: %w", i, err)
		}
		mdl.Triangles = append(mdl.Triangles, tri)
	}

	mdl.Keyframes = make([]Keyframe, 0, header.NumFrames)
	for i := int32(0); i < header.NumFrames; i++ {
		keyframe, err := parseKeyframe(r, header.NumVerts, mdl.Scale, mdl.Origin)
		if err != nil {
			return nil, fmt.Errorf("parsing keyframe %d: %w", i, err)
		}
		mdl.Keyframes = append(mdl.Keyframes, keyframe)
	}

	return mdl, nil
}

// ParseMDLFile parses an MDL model from disk.
func ParseMDLFile(path string) (*MDL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MDL file: %w", err)
	}
	return ParseMDL(data)
}

// Indices returns the triangle index list flattened in triangle order,
// three indices per triangle, for indexed drawing against a single
// frame's vertex array.
func (m *MDL) Indices() []uint32 {
	indices := make([]uint32, 0, len(m.Triangles)*3)
	for _, tri := range m.Triangles {
		indices = append(indices, tri.Indices[0], tri.Indices[1], tri.Indices[2])
	}
	return indices
}

// Vertices produces a triangle-exploded vertex stream for the given
// frame: three vertices per triangle sharing one flat normal, with
// seam-corrected texture coordinates. Suited for non-indexed drawing.
func (m *MDL) Vertices(frame *Frame) []Vertex {
	vertices := make([]Vertex, 0, len(m.Triangles)*3)
	halfSkin := float32(m.SkinWidth) / 2.0

	for _, tri := range m.Triangles {
		var face [3]math.Vec3
		var texcoords [3][2]float32
		for i, index := range tri.Indices {
			face[i] = frame.Vertices[index]

			coord := m.SkinCoords[index]
			s := float32(coord.S)
			if !tri.FacesFront && coord.OnSeam {
				s += halfSkin
			}
			texcoords[i] = [2]float32{
				(s + 0.5) / float32(m.SkinWidth),
				(float32(coord.T) + 0.5) / float32(m.SkinHeight),
			}
		}

		normal := face[0].Sub(face[1]).Cross(face[2].Sub(face[1])).Normalize()

		for i := 0; i < 3; i++ {
			vertices = append(vertices, Vertex{
				Position: face[i],
				Normal:   normal,
				TexCoord: texcoords[i],
			})
		}
	}

	return vertices
}

// parseSkin decodes one skin record: a type tag selecting a static
// pixel buffer or an animated group of timed pixel buffers.
func parseSkin(r *bytes.Reader, size int) (Skin, error) {
	var kind int32
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return nil, fmt.Errorf("%w: reading skin type", ErrTruncatedMDLData)
	}

	switch kind {
	case 0:
		indices := make([]byte, size)
		if _, err := io.ReadFull(r, indices); err != nil {
			return nil, fmt.Errorf("%w: reading skin pixels", ErrTruncatedMDLData)
		}
		return &StaticSkin{Indices: indices}, nil

	case 1:
		// The subframe count is stored as a float on the wire.
		var count float32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, fmt.Errorf("%w: reading skin group count", ErrTruncatedMDLData)
		}
		numFrames := int(count)
		if numFrames <= 0 {
			return nil, fmt.Errorf("%w: empty animated skin group", ErrMalformedMDL)
		}

		durations, err := parseDurations(r, numFrames)
		if err != nil {
			return nil, err
		}

		frames := make([]TimedIndices, 0, numFrames)
		for i := 0; i < numFrames; i++ {
			indices := make([]byte, size)
			if _, err := io.ReadFull(r, indices); err != nil {
				return nil, fmt.Errorf("%w: reading skin group pixels", ErrTruncatedMDLData)
			}
			frames = append(frames, TimedIndices{Duration: durations[i], Indices: indices})
		}
		return &AnimatedSkin{Frames: frames}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSkinType, kind)
	}
}

func parseSkinCoord(r *bytes.Reader) (SkinCoord, error) {
	var raw struct {
		OnSeam int32
		S, T   int32
	}
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return SkinCoord{}, fmt.Errorf("%w: reading skin coord", ErrTruncatedMDLData)
	}
	return SkinCoord{
		OnSeam: raw.OnSeam == seamFlag,
		S:      raw.S,
		T:      raw.T,
	}, nil
}

func parseTriangle(r *bytes.Reader, numVerts int32) (Triangle, error) {
	var raw struct {
		FacesFront int32
		Indices    [3]int32
	}
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return Triangle{}, fmt.Errorf("%w: reading triangle", ErrTruncatedMDLData)
	}

	tri := Triangle{FacesFront: raw.FacesFront == 1}
	for i, index := range raw.Indices {
		if index < 0 || index >= numVerts {
			return Triangle{}, fmt.Errorf("%w: vertex index %d out of range", ErrMalformedMDL, index)
		}
		tri.Indices[i] = uint32(index)
	}
	return tri, nil
}

// parseKeyframe decodes one keyframe record using the same type tag
// convention as skins.
func parseKeyframe(r *bytes.Reader, numVerts int32, scale, origin math.Vec3) (Keyframe, error) {
	var kind int32
	if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
		return nil, fmt.Errorf("%w: reading frame type", ErrTruncatedMDLData)
	}

	switch kind {
	case 0:
		frame, err := parseFrame(r, numVerts, scale, origin)
		if err != nil {
			return nil, err
		}
		return &StaticKeyframe{Frame: frame}, nil

	case 1:
		var count int32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, fmt.Errorf("%w: reading frame group count", ErrTruncatedMDLData)
		}
		if count <= 0 {
			return nil, fmt.Errorf("%w: empty animated frame group", ErrMalformedMDL)
		}

		min, err := readPackedPosition(r, scale, origin)
		if err != nil {
			return nil, err
		}
		max, err := readPackedPosition(r, scale, origin)
		if err != nil {
			return nil, err
		}

		durations, err := parseDurations(r, int(count))
		if err != nil {
			return nil, err
		}

		frames := make([]TimedFrame, 0, count)
		for i := int32(0); i < count; i++ {
			frame, err := parseFrame(r, numVerts, scale, origin)
			if err != nil {
				return nil, err
			}
			frames = append(frames, TimedFrame{Duration: durations[i], Frame: frame})
		}
		return &AnimatedKeyframe{Min: min, Max: max, Frames: frames}, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFrameType, kind)
	}
}

func parseFrame(r *bytes.Reader, numVerts int32, scale, origin math.Vec3) (Frame, error) {
	min, err := readPackedPosition(r, scale, origin)
	if err != nil {
		return Frame{}, err
	}
	max, err := readPackedPosition(r, scale, origin)
	if err != nil {
		return Frame{}, err
	}

	name := make([]byte, frameNameSize)
	if _, err := io.ReadFull(r, name); err != nil {
		return Frame{}, fmt.Errorf("%w: reading frame name", ErrTruncatedMDLData)
	}
	if end := bytes.IndexByte(name, 0); end >= 0 {
		name = name[:end]
	}

	vertices := make([]math.Vec3, 0, numVerts)
	for i := int32(0); i < numVerts; i++ {
		position, err := readPackedPosition(r, scale, origin)
		if err != nil {
			return Frame{}, err
		}
		vertices = append(vertices, position)
	}

	return Frame{
		Name:     string(name),
		Min:      min,
		Max:      max,
		Vertices: vertices,
	}, nil
}

// readPackedPosition decodes a quantized position: one byte per axis
// reconstructed via byte*scale+origin, plus one padding byte. Always
// consumes exactly 4 bytes.
func readPackedPosition(r *bytes.Reader, scale, origin math.Vec3) (math.Vec3, error) {
	var packed [4]byte
	if _, err := io.ReadFull(r, packed[:]); err != nil {
		return math.Vec3{}, fmt.Errorf("%w: reading packed position", ErrTruncatedMDLData)
	}
	return math.Vec3{
		X: float32(packed[0])*scale.X + origin.X,
		Y: float32(packed[1])*scale.Y + origin.Y,
		Z: float32(packed[2])*scale.Z + origin.Z,
	}, nil
}

// parseDurations reads count f32 second values and converts them to
// durations with microsecond precision.
func parseDurations(r *bytes.Reader, count int) ([]time.Duration, error) {
	durations := make([]time.Duration, 0, count)
	for i := 0; i < count; i++ {
		var seconds float32
		if err := binary.Read(r, binary.LittleEndian, &seconds); err != nil {
			return nil, fmt.Errorf("%w: reading group duration", ErrTruncatedMDLData)
		}
		durations = append(durations, time.Duration(float64(seconds)*1e6)*time.Microsecond)
	}
	return durations, nil
}
