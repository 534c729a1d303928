package widget

import (
	"github.com/popkit/popkit/internal/template"
	"github.com/popkit/popkit/internal/tree"
	"github.com/popkit/popkit/internal/windowing"
)

// PresentationRoot is the detached top-level container hosting an open
// popup's content. Its logical parent is the owning popup; it never has
// a visual parent.
type PresentationRoot struct {
	tree.Node

	surface   windowing.Surface
	presenter *ContentPresenter
}

// newPresentationRoot wraps a freshly created surface.
func newPresentationRoot(surface windowing.Surface) *PresentationRoot {
	r := &PresentationRoot{surface: surface}
	r.InitNode(r, KindPopupRoot)
	return r
}

// Surface returns the underlying platform surface.
func (r *PresentationRoot) Surface() windowing.Surface {
	return r.surface
}

// Presenter returns the templated content presenter, the root's single
// visual child.
func (r *PresentationRoot) Presenter() *ContentPresenter {
	return r.presenter
}

// NewDefaultResolver returns a template resolver with the built-in
// popkit templates registered.
func NewDefaultResolver() *template.Resolver {
	r := template.NewResolver()
	RegisterPresenterTemplate(r, KindPopupRoot)
	return r
}

// RegisterPresenterTemplate registers the standard single-presenter
// template for kind: it produces one ContentPresenter whose templated
// owner is the control the template is applied to.
func RegisterPresenterTemplate(r *template.Resolver, kind string) {
	r.Register(kind, func(owner tree.Element) (tree.Element, error) {
		p := NewContentPresenter()
		p.SetTemplatedOwner(owner)
		return p, nil
	})
}
