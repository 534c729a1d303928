package windowing

import (
	"github.com/oklog/ulid/v2"
)

// Headless is an in-memory Service with no platform dependency. It is
// the substitutable backend used by tests and by tools that only need
// the lifecycle semantics, not actual windows.
type Headless struct {
	surfaces []*HeadlessSurface
	err      error
}

// NewHeadless creates a headless windowing service.
func NewHeadless() *Headless {
	return &Headless{}
}

// FailWith makes every subsequent CreateTopLevel call return err.
// Passing nil restores normal behavior.
func (h *Headless) FailWith(err error) {
	h.err = err
}

// CreateTopLevel creates a new in-memory surface.
func (h *Headless) CreateTopLevel(opts SurfaceOptions) (Surface, error) {
	if h.err != nil {
		return nil, h.err
	}
	s := &HeadlessSurface{
		id:      ulid.Make().String(),
		opts:    opts,
		classes: append([]string(nil), opts.CSSClasses...),
	}
	h.surfaces = append(h.surfaces, s)
	return s, nil
}

// Surfaces returns every surface ever created, including destroyed
// ones.
func (h *Headless) Surfaces() []*HeadlessSurface {
	out := make([]*HeadlessSurface, len(h.surfaces))
	copy(out, h.surfaces)
	return out
}

// CreatedCount returns the number of surfaces ever created.
func (h *Headless) CreatedCount() int {
	return len(h.surfaces)
}

// LiveCount returns the number of surfaces not yet destroyed.
func (h *Headless) LiveCount() int {
	n := 0
	for _, s := range h.surfaces {
		if !s.destroyed {
			n++
		}
	}
	return n
}

// HeadlessSurface is the in-memory Surface implementation.
type HeadlessSurface struct {
	id        string
	opts      SurfaceOptions
	classes   []string
	presented bool
	destroyed bool
	stackPos  int
}

// ID returns the surface's unique identifier.
func (s *HeadlessSurface) ID() string { return s.id }

// Options returns the options the surface was created with.
func (s *HeadlessSurface) Options() SurfaceOptions { return s.opts }

// Present marks the surface presented at the given stack position.
func (s *HeadlessSurface) Present(stackPosition int) {
	if s.destroyed {
		return
	}
	s.presented = true
	s.stackPos = stackPosition
}

// Presented reports whether Present has been called.
func (s *HeadlessSurface) Presented() bool { return s.presented }

// SetStackPosition records the surface's stack position.
func (s *HeadlessSurface) SetStackPosition(position int) {
	s.stackPos = position
}

// StackPosition returns the last recorded stack position.
func (s *HeadlessSurface) StackPosition() int { return s.stackPos }

// Destroy marks the surface destroyed. Destroying twice is a no-op.
func (s *HeadlessSurface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.presented = false
}

// SimulateUserClose emulates the user dismissing the surface via its
// platform affordance: the surface is destroyed and OnClose fires.
func (s *HeadlessSurface) SimulateUserClose() {
	if s.destroyed {
		return
	}
	s.Destroy()
	if s.opts.OnClose != nil {
		s.opts.OnClose()
	}
}

// Destroyed reports whether the surface has been destroyed.
func (s *HeadlessSurface) Destroyed() bool { return s.destroyed }

// AddCSSClass records a style class on the surface.
func (s *HeadlessSurface) AddCSSClass(class string) {
	s.classes = append(s.classes, class)
}

// CSSClasses returns the surface's style classes.
func (s *HeadlessSurface) CSSClasses() []string {
	out := make([]string, len(s.classes))
	copy(out, s.classes)
	return out
}
