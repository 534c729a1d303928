package widget

import (
	"fmt"

	"github.com/popkit/popkit/internal/template"
	"github.com/popkit/popkit/internal/tree"
	"github.com/popkit/popkit/internal/windowing"
)

// Popup owns a single optional child element and manages a detached
// top-level presentation root for it.
//
// The child is always the popup's logical child while assigned, open or
// closed. The popup never becomes the child's visual parent: when the
// popup opens, the child is re-hosted inside the presentation root's
// templated content presenter.
type Popup struct {
	tree.Node

	windowing windowing.Service
	templates *template.Resolver

	surfaceOpts windowing.SurfaceOptions

	child tree.Element
	root  *PresentationRoot
}

// NewPopup creates a closed popup. Both collaborators are required: svc
// supplies top-level surfaces, resolver supplies the presentation
// root's template.
func NewPopup(svc windowing.Service, resolver *template.Resolver) *Popup {
	p := &Popup{
		windowing: svc,
		templates: resolver,
	}
	p.InitNode(p, KindPopup)

	// The presentation root is not a tree descendant of the popup, so
	// attachment changes are forwarded to it by hook.
	p.OnAttachmentChanged(func(attached bool) {
		if p.root == nil {
			return
		}
		if attached {
			p.root.AttachToTree()
		} else {
			p.root.DetachFromTree()
		}
	})

	return p
}

// SetSurfaceOptions sets the options used for surfaces created by
// subsequent Open calls.
func (p *Popup) SetSurfaceOptions(opts windowing.SurfaceOptions) {
	p.surfaceOpts = opts
}

// Child returns the popup's content element, or nil.
func (p *Popup) Child() tree.Element {
	return p.child
}

// SetChild replaces the popup's content element.
//
// The previous child's logical parent is cleared before the new child's
// is set; the logical-children collection emits one Remove when
// clearing, one Add when assigning, and exactly one Add when replacing.
// The child's visual parent is never touched here.
func (p *Popup) SetChild(child tree.Element) {
	old := p.child
	if old == child {
		return
	}
	p.child = child
	replaceLogicalChild(p, old, child)

	if p.root != nil && p.root.presenter != nil {
		p.root.presenter.SetContent(child)
	}
}

// IsOpen reports whether the popup is open.
func (p *Popup) IsOpen() bool {
	return p.root != nil
}

// PresentationRoot returns the popup's presentation root. It is nil
// while the popup is closed.
func (p *Popup) PresentationRoot() *PresentationRoot {
	return p.root
}

// Open creates the presentation root: a detached top-level surface
// whose logical parent is this popup, furnished by the root's template
// with a single content presenter hosting the popup's child. Opening an
// already-open popup is a no-op. Windowing and template failures
// propagate unmodified and leave the popup closed.
func (p *Popup) Open() error {
	if p.root != nil {
		return nil
	}

	surface, err := p.windowing.CreateTopLevel(p.surfaceOpts)
	if err != nil {
		return err
	}

	root := newPresentationRoot(surface)
	root.SetLogicalParent(p)

	produced, err := p.templates.Apply(root)
	if err != nil {
		root.SetLogicalParent(nil)
		surface.Destroy()
		return err
	}
	presenter, ok := produced.(*ContentPresenter)
	if !ok {
		root.RemoveVisualChild(produced)
		root.SetLogicalParent(nil)
		surface.Destroy()
		return fmt.Errorf("template for kind %q produced %q, want a content presenter",
			root.Kind(), produced.Kind())
	}

	root.presenter = presenter
	presenter.SetContent(p.child)

	if p.IsAttached() {
		root.AttachToTree()
	}

	surface.Present(0)
	p.root = root
	return nil
}

// Close tears the presentation root down: the presenter releases the
// child (making it re-hostable), the root's logical parent is cleared,
// the surface is destroyed, and the root reference becomes nil. Closing
// an already-closed popup is a no-op.
func (p *Popup) Close() {
	root := p.root
	if root == nil {
		return
	}
	p.root = nil

	if root.presenter != nil {
		root.presenter.SetContent(nil)
	}
	root.SetLogicalParent(nil)
	root.DetachFromTree()
	root.surface.Destroy()
}
