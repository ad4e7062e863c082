// Package anim provides keyframe animation playback for decoded
// models: clips of timed vertex snapshots and linear interpolation
// between them.
package anim

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/sergioffpc/quake-go/pkg/formats"
)

// ErrUnknownClip is returned when selecting a clip the library does
// not contain.
var ErrUnknownClip = errors.New("unknown animation clip")

// DefaultFrameDuration is the playback step for keyframes stored
// without timing information.
const DefaultFrameDuration = 100 * time.Millisecond

// Keyframe is one vertex snapshot held for a duration.
type Keyframe struct {
	Vertices []formats.Vertex
	Duration time.Duration
}

// Clip is a named, ordered sequence of keyframes played as a loop.
// All keyframes of a clip share one vertex topology and ordering.
type Clip struct {
	Name string

	keyframes []Keyframe
	period    time.Duration
}

// NewClip creates an empty clip.
func NewClip(name string) *Clip {
	return &Clip{Name: name}
}

// AddKeyframe appends a vertex snapshot held for the given duration.
func (c *Clip) AddKeyframe(vertices []formats.Vertex, duration time.Duration) {
	c.keyframes = append(c.keyframes, Keyframe{Vertices: vertices, Duration: duration})
	c.period += duration
}

// Len returns the number of keyframes.
func (c *Clip) Len() int {
	return len(c.keyframes)
}

// Period returns the clip's loop period.
func (c *Clip) Period() time.Duration {
	return c.period
}

// Snapshot returns the interpolated vertex set at the given elapsed
// playback time. Playback loops with the clip's period; the snapshot
// blends the active keyframe into the next one (wrapping to the first)
// by the normalized position within the active keyframe's span.
func (c *Clip) Snapshot(elapsed time.Duration) []formats.Vertex {
	if len(c.keyframes) == 0 {
		return nil
	}
	if len(c.keyframes) == 1 || c.period <= 0 {
		return interpolate(&c.keyframes[0], &c.keyframes[0], 0)
	}

	phase := elapsed % c.period
	if phase < 0 {
		phase += c.period
	}

	var start time.Duration
	for i := range c.keyframes {
		current := &c.keyframes[i]
		end := start + current.Duration
		if phase < end || i == len(c.keyframes)-1 {
			next := &c.keyframes[(i+1)%len(c.keyframes)]
			var t float32
			if current.Duration > 0 {
				t = float32(phase-start) / float32(current.Duration)
			}
			return interpolate(current, next, t)
		}
		start = end
	}

	// Unreachable: the loop always returns by the last keyframe.
	return nil
}

// interpolate blends two matching-topology snapshots componentwise.
// Texture coordinates are constant across a model's frames and are
// taken from the first snapshot.
func interpolate(a, b *Keyframe, t float32) []formats.Vertex {
	vertices := make([]formats.Vertex, len(a.Vertices))
	for i := range a.Vertices {
		va, vb := a.Vertices[i], b.Vertices[i]
		vertices[i] = formats.Vertex{
			Position: va.Position.Lerp(vb.Position, t),
			Normal:   va.Normal.Lerp(vb.Normal, t).Normalize(),
			TexCoord: va.TexCoord,
		}
	}
	return vertices
}

// Library maps clip names to clips and tracks the selected clip.
type Library struct {
	clips   map[string]*Clip
	order   []string
	current string
}

// NewLibrary creates an empty library with no clip selected.
func NewLibrary() *Library {
	return &Library{clips: make(map[string]*Clip)}
}

// Register adds a clip, replacing any clip of the same name.
func (l *Library) Register(clip *Clip) {
	if _, exists := l.clips[clip.Name]; !exists {
		l.order = append(l.order, clip.Name)
	}
	l.clips[clip.Name] = clip
}

// Clip returns a registered clip by name.
func (l *Library) Clip(name string) (*Clip, bool) {
	clip, ok := l.clips[name]
	return clip, ok
}

// Names returns the clip names in registration order.
func (l *Library) Names() []string {
	return append([]string(nil), l.order...)
}

// Select makes the named clip current.
func (l *Library) Select(name string) error {
	if _, ok := l.clips[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownClip, name)
	}
	l.current = name
	return nil
}

// Current returns the selected clip name, empty if none.
func (l *Library) Current() string {
	return l.current
}

// Animate returns the interpolated vertex snapshot of the selected
// clip at the given elapsed time. The second return is false when no
// clip is selected.
func (l *Library) Animate(elapsed time.Duration) ([]formats.Vertex, bool) {
	clip, ok := l.clips[l.current]
	if !ok {
		return nil, false
	}
	return clip.Snapshot(elapsed), true
}

// ClipName derives a clip key from a frame label by stripping the
// trailing non-alphabetic run: frames "walk1".."walk9" share the clip
// "walk".
func ClipName(frameName string) string {
	return strings.TrimRightFunc(frameName, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// Build groups a model's keyframes into clips keyed by their derived
// clip names. Static keyframes step at DefaultFrameDuration; animated
// keyframe groups contribute their subframes with the stored
// durations. The first clip encountered is selected.
func Build(mdl *formats.MDL) *Library {
	library := NewLibrary()

	register := func(name string, vertices []formats.Vertex, duration time.Duration) {
		key := ClipName(name)
		clip, ok := library.Clip(key)
		if !ok {
			clip = NewClip(key)
			library.Register(clip)
		}
		clip.AddKeyframe(vertices, duration)
	}

	for _, keyframe := range mdl.Keyframes {
		switch kf := keyframe.(type) {
		case *formats.StaticKeyframe:
			register(kf.Frame.Name, mdl.Vertices(&kf.Frame), DefaultFrameDuration)
		case *formats.AnimatedKeyframe:
			for i := range kf.Frames {
				sub := &kf.Frames[i]
				register(sub.Frame.Name, mdl.Vertices(&sub.Frame), sub.Duration)
			}
		}
	}

	if len(library.order) > 0 {
		library.current = library.order[0]
	}
	return library
}
