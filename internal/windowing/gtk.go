package windowing

import (
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"

	"github.com/popkit/popkit/internal/config"
	"github.com/popkit/popkit/internal/layout"
)

// GTK is the GTK4 layer-shell Service implementation. Surfaces are
// undecorated windows anchored to a screen edge via gtk4-layer-shell.
type GTK struct {
	app      *gtk.Application
	provider *gtk.CSSProvider
}

// NewGTK creates a GTK windowing service bound to app.
func NewGTK(app *gtk.Application) *GTK {
	return &GTK{app: app}
}

// ApplyCSS installs css as the application style sheet for all
// surfaces, replacing any previously applied sheet.
func (g *GTK) ApplyCSS(css string) error {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return &SurfaceError{Message: "no display available"}
	}

	if g.provider != nil {
		gtk.StyleContextRemoveProviderForDisplay(display, g.provider)
	}

	provider := gtk.NewCSSProvider()
	provider.LoadFromString(css)
	gtk.StyleContextAddProviderForDisplay(display, provider,
		uint(gtk.STYLE_PROVIDER_PRIORITY_APPLICATION))
	g.provider = provider
	return nil
}

// CreateTopLevel creates a new layer-shell surface.
func (g *GTK) CreateTopLevel(opts SurfaceOptions) (Surface, error) {
	if gdk.DisplayGetDefault() == nil {
		return nil, &SurfaceError{Message: "no display available"}
	}

	chrome := opts.Chrome
	if chrome == nil {
		chrome = layout.DefaultChrome()
	}

	s := &gtkSurface{
		id:        ulid.Make().String(),
		opts:      opts,
		createdAt: time.Now(),
	}

	s.window = gtk.NewWindow()
	s.window.SetApplication(g.app)
	s.window.SetDecorated(false)
	s.window.SetResizable(false)

	s.maxHeight = chrome.MaxHeight
	width := chrome.MaxWidth
	if width == 0 {
		width = 300
	}
	s.window.SetDefaultSize(width, -1)
	s.window.SetSizeRequest(chrome.MinWidth, chrome.MinHeight)

	layershell.InitForWindow(s.window)
	layershell.SetLayer(s.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(s.window, 0)
	layershell.SetKeyboardMode(s.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(s.window, "popkit-surface")

	s.buildChrome(chrome)

	s.box.AddCSSClass("popkit-surface")
	s.box.AddCSSClass(colorSchemeClass())
	for _, class := range opts.CSSClasses {
		s.box.AddCSSClass(class)
	}

	return s, nil
}

// gtkSurface is a single layer-shell window.
type gtkSurface struct {
	id        string
	opts      SurfaceOptions
	createdAt time.Time

	window *gtk.Window
	box    *gtk.Box

	maxHeight int
	stackPos  int
	destroyed bool
}

// ID returns the surface's unique identifier.
func (s *gtkSurface) ID() string { return s.id }

// Present shows the surface at the given stack position.
func (s *gtkSurface) Present(stackPosition int) {
	if s.destroyed {
		return
	}
	s.stackPos = stackPosition
	s.updateAnchors()
	s.window.Present()
}

// SetStackPosition moves the surface within the on-screen stack.
func (s *gtkSurface) SetStackPosition(position int) {
	if s.destroyed || s.stackPos == position {
		return
	}
	s.stackPos = position
	s.updateAnchors()
}

// Destroy closes and releases the window.
func (s *gtkSurface) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.window.Close()
}

// Destroyed reports whether the surface has been destroyed.
func (s *gtkSurface) Destroyed() bool { return s.destroyed }

// AddCSSClass adds a style class to the surface root.
func (s *gtkSurface) AddCSSClass(class string) {
	s.box.AddCSSClass(class)
}

// buildChrome constructs the widget hierarchy from the chrome template.
func (s *gtkSurface) buildChrome(chrome *layout.Config) {
	s.box = gtk.NewBox(gtk.OrientationVertical, 6)
	s.box.SetMarginTop(8)
	s.box.SetMarginBottom(8)
	s.box.SetMarginStart(12)
	s.box.SetMarginEnd(12)

	for _, elem := range chrome.Elements {
		if w := s.buildElement(elem); w != nil {
			s.box.Append(w)
		}
	}

	s.window.SetChild(s.box)
}

// buildElement builds a GTK widget from a chrome element.
func (s *gtkSurface) buildElement(elem layout.Element) gtk.Widgetter {
	switch elem.Type {
	case layout.ElementTypeHeader:
		return s.buildHeader(elem)
	case layout.ElementTypeBox:
		return s.buildBox(elem)
	case layout.ElementTypeIcon:
		return s.buildIcon()
	case layout.ElementTypeTitle:
		return s.buildTitle()
	case layout.ElementTypeBody:
		return s.buildBody()
	case layout.ElementTypeTimestamp:
		return s.buildTimestamp()
	case layout.ElementTypeClose:
		return s.buildClose()
	default:
		return nil
	}
}

func (s *gtkSurface) buildHeader(elem layout.Element) gtk.Widgetter {
	header := gtk.NewBox(gtk.OrientationHorizontal, 8)
	header.AddCSSClass("popkit-header")
	for _, child := range elem.Children {
		if w := s.buildElement(child); w != nil {
			header.Append(w)
		}
	}
	return header
}

func (s *gtkSurface) buildBox(elem layout.Element) gtk.Widgetter {
	orientation := gtk.OrientationVertical
	if elem.Attributes["orientation"] == "horizontal" {
		orientation = gtk.OrientationHorizontal
	}

	box := gtk.NewBox(orientation, 4)
	if orientation == gtk.OrientationVertical {
		box.SetHExpand(true)
	}
	for _, child := range elem.Children {
		if w := s.buildElement(child); w != nil {
			box.Append(w)
		}
	}
	return box
}

func (s *gtkSurface) buildIcon() gtk.Widgetter {
	icon := gtk.NewImage()
	icon.AddCSSClass("popkit-icon")
	icon.SetPixelSize(32)
	if s.opts.Icon != "" {
		icon.SetFromIconName(s.opts.Icon)
	} else {
		icon.SetFromIconName("dialog-information")
	}
	return icon
}

func (s *gtkSurface) buildTitle() gtk.Widgetter {
	lbl := gtk.NewLabel(s.opts.Title)
	lbl.AddCSSClass("popkit-title")
	lbl.SetXAlign(0)
	lbl.SetEllipsize(3) // PANGO_ELLIPSIZE_END
	lbl.SetMaxWidthChars(40)
	lbl.SetHExpand(true)
	return lbl
}

func (s *gtkSurface) buildBody() gtk.Widgetter {
	if s.opts.Body == "" {
		return nil
	}
	lbl := gtk.NewLabel(s.opts.Body)
	lbl.AddCSSClass("popkit-body")
	lbl.SetXAlign(0)
	lbl.SetWrap(true)
	lbl.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	lbl.SetMaxWidthChars(50)
	return lbl
}

func (s *gtkSurface) buildTimestamp() gtk.Widgetter {
	lbl := gtk.NewLabel(humanize.Time(s.createdAt))
	lbl.AddCSSClass("popkit-timestamp")
	lbl.SetXAlign(0)
	return lbl
}

func (s *gtkSurface) buildClose() gtk.Widgetter {
	btn := gtk.NewButtonFromIconName("window-close-symbolic")
	btn.AddCSSClass("popkit-close")
	btn.ConnectClicked(func() {
		s.Destroy()
		if s.opts.OnClose != nil {
			s.opts.OnClose()
		}
	})
	return btn
}

// updateAnchors sets the layer-shell anchors and margins from the
// surface options and current stack position.
func (s *gtkSurface) updateAnchors() {
	offsetX := s.opts.OffsetX
	offsetY := s.opts.OffsetY + s.stackPos*(s.maxHeight+s.opts.Gap)

	layershell.SetAnchor(s.window, layershell.LayerShellEdgeTop, false)
	layershell.SetAnchor(s.window, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(s.window, layershell.LayerShellEdgeLeft, false)
	layershell.SetAnchor(s.window, layershell.LayerShellEdgeRight, false)

	switch s.opts.Position {
	case config.PositionTopLeft:
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeTop, offsetY)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeLeft, offsetX)

	case config.PositionTopCenter:
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeTop, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeTop, offsetY)

	case config.PositionBottomRight:
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeBottom, offsetY)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeRight, offsetX)

	case config.PositionBottomLeft:
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeBottom, offsetY)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeLeft, offsetX)

	case config.PositionBottomCenter:
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeBottom, offsetY)

	default: // top-right
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeTop, offsetY)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeRight, offsetX)
	}
}

// colorSchemeClass returns "light" or "dark" from the libadwaita system
// preference.
func colorSchemeClass() string {
	styleManager := adw.StyleManagerGetDefault()
	if styleManager.Dark() {
		return "dark"
	}
	return "light"
}
