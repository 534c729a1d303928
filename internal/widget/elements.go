// Package widget implements popkit's controls: the popup lifecycle
// manager, presentation roots, content presenters, and the leaf
// elements used as content.
package widget

import (
	"github.com/popkit/popkit/internal/tree"
)

// Built-in element kinds.
const (
	KindPopup     = "popup"
	KindPopupRoot = "popup-root"
	KindPresenter = "presenter"
	KindBorder    = "border"
	KindText      = "text"
)

// Border is a plain decorative container element.
type Border struct {
	tree.Node
}

// NewBorder creates a border element.
func NewBorder() *Border {
	b := &Border{}
	b.InitNode(b, KindBorder)
	return b
}

// TextBlock is a leaf element carrying a title and body.
type TextBlock struct {
	tree.Node

	Title string
	Body  string
}

// NewTextBlock creates a text element.
func NewTextBlock(title, body string) *TextBlock {
	t := &TextBlock{Title: title, Body: body}
	t.InitNode(t, KindText)
	return t
}

// ContentPresenter hosts a single content element as its visual child.
// Presenters are produced by templates; the content they host is
// user-supplied and keeps a nil templated owner.
type ContentPresenter struct {
	tree.Node

	content tree.Element
}

// NewContentPresenter creates an empty presenter.
func NewContentPresenter() *ContentPresenter {
	p := &ContentPresenter{}
	p.InitNode(p, KindPresenter)
	return p
}

// Content returns the hosted content, or nil.
func (p *ContentPresenter) Content() tree.Element {
	return p.content
}

// SetContent replaces the hosted content. The previous content's visual
// parent is cleared; the new content becomes the presenter's visual
// child. Passing nil just clears.
func (p *ContentPresenter) SetContent(content tree.Element) {
	if p.content == content {
		return
	}
	if p.content != nil {
		p.RemoveVisualChild(p.content)
	}
	p.content = content
	if content != nil {
		p.AddVisualChild(content)
	}
}

// replaceLogicalChild reconciles parent's logical-children collection
// when a single-child slot changes from old to new. The clear happens
// before the set, and a replacement emits exactly one Add notification.
func replaceLogicalChild(parent tree.Element, old, new tree.Element) {
	switch {
	case old == nil && new == nil:
	case old == nil:
		new.SetLogicalParent(parent)
		parent.LogicalChildren().Append(new)
	case new == nil:
		old.SetLogicalParent(nil)
		parent.LogicalChildren().Remove(old)
	default:
		old.SetLogicalParent(nil)
		new.SetLogicalParent(parent)
		parent.LogicalChildren().Swap(old, new)
	}
}
