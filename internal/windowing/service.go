// Package windowing abstracts creation of detached top-level surfaces.
//
// A Service hands out Surfaces: platform windows with no parent in any
// visual tree. The popup lifecycle depends on this package only to
// obtain and destroy such surfaces; everything else (chrome, theming,
// placement) is presentation detail carried through SurfaceOptions.
package windowing

import (
	"github.com/popkit/popkit/internal/config"
	"github.com/popkit/popkit/internal/layout"
)

// SurfaceOptions describes a top-level surface to create.
type SurfaceOptions struct {
	// Title and Body fill the surface chrome, when the chrome template
	// has slots for them.
	Title string
	Body  string
	// Icon is an icon name for the chrome's icon slot.
	Icon string

	// Position anchors the surface on screen.
	Position config.Position
	// OffsetX and OffsetY are margins from the anchor edges.
	OffsetX int
	OffsetY int
	// Gap is the spacing between stacked surfaces.
	Gap int

	// Chrome is the parsed chrome template. Nil means the backend
	// default.
	Chrome *layout.Config

	// CSSClasses are style classes applied to the surface root.
	CSSClasses []string

	// OnClose is invoked when the surface is closed from the platform
	// side (e.g. its close affordance). May be nil.
	OnClose func()
}

// Surface is a detached top-level platform surface.
type Surface interface {
	// ID returns the surface's unique identifier.
	ID() string
	// Present shows the surface at the given stack position.
	Present(stackPosition int)
	// SetStackPosition moves the surface within the on-screen stack.
	SetStackPosition(position int)
	// Destroy hides and releases the surface. Destroying twice is a
	// no-op.
	Destroy()
	// Destroyed reports whether the surface has been destroyed.
	Destroyed() bool
	// AddCSSClass adds a style class to the surface root.
	AddCSSClass(class string)
}

// Service creates detached top-level surfaces.
type Service interface {
	CreateTopLevel(opts SurfaceOptions) (Surface, error)
}

// SurfaceError represents a windowing-related error.
type SurfaceError struct {
	Message string
	Cause   error
}

func (e *SurfaceError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *SurfaceError) Unwrap() error {
	return e.Cause
}
