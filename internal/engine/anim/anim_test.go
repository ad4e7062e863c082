package anim

import (
	"errors"
	"testing"
	"time"

	"github.com/sergioffpc/quake-go/pkg/formats"
	"github.com/sergioffpc/quake-go/pkg/math"
)

func snapshotAt(x float32) []formats.Vertex {
	return []formats.Vertex{{
		Position: math.Vec3{X: x},
		Normal:   math.Vec3{Z: 1},
		TexCoord: [2]float32{0.5, 0.5},
	}}
}

func TestClipName(t *testing.T) {
	tests := []struct {
		frame string
		want  string
	}{
		{"walk1", "walk"},
		{"walk12", "walk"},
		{"stand", "stand"},
		{"attack_3", "attack"},
		{"", ""},
		{"123", ""},
	}
	for _, tt := range tests {
		if got := ClipName(tt.frame); got != tt.want {
			t.Errorf("ClipName(%q) = %q, expected %q", tt.frame, got, tt.want)
		}
	}
}

func TestLibrarySelect(t *testing.T) {
	library := NewLibrary()
	clip := NewClip("walk")
	clip.AddKeyframe(snapshotAt(0), 100*time.Millisecond)
	library.Register(clip)

	if err := library.Select("run"); !errors.Is(err, ErrUnknownClip) {
		t.Errorf("expected ErrUnknownClip, got %v", err)
	}
	if library.Current() != "" {
		t.Errorf("failed selection changed current to %q", library.Current())
	}

	if err := library.Select("walk"); err != nil {
		t.Errorf("select failed: %v", err)
	}
	if library.Current() != "walk" {
		t.Errorf("current = %q, expected walk", library.Current())
	}
}

func TestAnimate_NoSelection(t *testing.T) {
	library := NewLibrary()
	if _, ok := library.Animate(0); ok {
		t.Error("expected no result without a selected clip")
	}
}

func TestSnapshot_Interpolation(t *testing.T) {
	clip := NewClip("walk")
	clip.AddKeyframe(snapshotAt(0), 100*time.Millisecond)
	clip.AddKeyframe(snapshotAt(10), 100*time.Millisecond)

	// Midway through keyframe 0, blending toward keyframe 1.
	vertices := clip.Snapshot(50 * time.Millisecond)
	if got := vertices[0].Position.X; got != 5 {
		t.Errorf("position at 50ms = %v, expected 5", got)
	}

	// Start of keyframe 1.
	vertices = clip.Snapshot(100 * time.Millisecond)
	if got := vertices[0].Position.X; got != 10 {
		t.Errorf("position at 100ms = %v, expected 10", got)
	}

	// Midway through keyframe 1, wrapping back toward keyframe 0.
	vertices = clip.Snapshot(150 * time.Millisecond)
	if got := vertices[0].Position.X; got != 5 {
		t.Errorf("position at 150ms = %v, expected 5", got)
	}

	// One full period later the phase repeats.
	vertices = clip.Snapshot(250 * time.Millisecond)
	if got := vertices[0].Position.X; got != 5 {
		t.Errorf("position at 250ms = %v, expected 5", got)
	}

	// Texture coordinates ride along unchanged.
	if tc := vertices[0].TexCoord; tc != [2]float32{0.5, 0.5} {
		t.Errorf("texcoord = %v", tc)
	}
}

func TestSnapshot_SingleKeyframe(t *testing.T) {
	clip := NewClip("stand")
	clip.AddKeyframe(snapshotAt(3), 100*time.Millisecond)

	for _, elapsed := range []time.Duration{0, time.Second, time.Hour} {
		vertices := clip.Snapshot(elapsed)
		if got := vertices[0].Position.X; got != 3 {
			t.Errorf("Snapshot(%v) position = %v, expected 3", elapsed, got)
		}
	}
}

// buildTestMDL assembles a one-triangle model with named static
// keyframes directly from exported types.
func buildTestMDL(frameNames ...string) *formats.MDL {
	mdl := &formats.MDL{
		Scale:      math.Vec3{X: 1, Y: 1, Z: 1},
		SkinWidth:  2,
		SkinHeight: 2,
		NumVerts:   3,
		SkinCoords: []formats.SkinCoord{
			{S: 0, T: 0}, {S: 1, T: 0}, {S: 0, T: 1},
		},
		Triangles: []formats.Triangle{
			{FacesFront: true, Indices: [3]uint32{0, 1, 2}},
		},
	}
	for i, name := range frameNames {
		mdl.Keyframes = append(mdl.Keyframes, &formats.StaticKeyframe{
			Frame: formats.Frame{
				Name: name,
				Vertices: []math.Vec3{
					{X: float32(i)}, {X: float32(i) + 1}, {Y: 1},
				},
			},
		})
	}
	return mdl
}

func TestBuild(t *testing.T) {
	library := Build(buildTestMDL("walk1", "walk2", "stand1"))

	names := library.Names()
	if len(names) != 2 || names[0] != "walk" || names[1] != "stand" {
		t.Fatalf("clip names = %v, expected [walk stand]", names)
	}

	walk, _ := library.Clip("walk")
	if walk.Len() != 2 {
		t.Errorf("walk clip has %d keyframes, expected 2", walk.Len())
	}
	if walk.Period() != 2*DefaultFrameDuration {
		t.Errorf("walk period = %v, expected %v", walk.Period(), 2*DefaultFrameDuration)
	}

	// The first clip encountered is preselected.
	if library.Current() != "walk" {
		t.Errorf("current = %q, expected walk", library.Current())
	}

	vertices, ok := library.Animate(0)
	if !ok {
		t.Fatal("expected an animated snapshot")
	}
	if len(vertices) != 3 {
		t.Errorf("snapshot has %d vertices, expected 3 (one triangle exploded)", len(vertices))
	}
}

func TestBuild_AnimatedKeyframes(t *testing.T) {
	mdl := buildTestMDL()
	mdl.Keyframes = append(mdl.Keyframes, &formats.AnimatedKeyframe{
		Frames: []formats.TimedFrame{
			{
				Duration: 50 * time.Millisecond,
				Frame: formats.Frame{
					Name:     "flame1",
					Vertices: []math.Vec3{{}, {X: 1}, {Y: 1}},
				},
			},
			{
				Duration: 70 * time.Millisecond,
				Frame: formats.Frame{
					Name:     "flame2",
					Vertices: []math.Vec3{{}, {X: 2}, {Y: 2}},
				},
			},
		},
	})

	library := Build(mdl)
	flame, ok := library.Clip("flame")
	if !ok {
		t.Fatal("missing flame clip")
	}
	if flame.Len() != 2 {
		t.Errorf("flame clip has %d keyframes, expected 2", flame.Len())
	}
	if flame.Period() != 120*time.Millisecond {
		t.Errorf("flame period = %v, expected 120ms", flame.Period())
	}
}
