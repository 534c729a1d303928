package widget

import (
	"fmt"

	"github.com/popkit/popkit/internal/template"
	"github.com/popkit/popkit/internal/tree"
)

// ContentControl is a templated control holding a single piece of
// user content. Its kind selects which template the resolver applies;
// the template produces a ContentPresenter that hosts the content.
type ContentControl struct {
	tree.Node

	content   tree.Element
	presenter *ContentPresenter
}

// NewContentControl creates a content control of the given kind.
func NewContentControl(kind string) *ContentControl {
	c := &ContentControl{}
	c.InitNode(c, kind)
	return c
}

// Content returns the control's content, or nil.
func (c *ContentControl) Content() tree.Element {
	return c.content
}

// SetContent replaces the control's content. The content becomes the
// control's logical child; its visual parent is only set once a
// template has been applied and the presenter hosts it.
func (c *ContentControl) SetContent(content tree.Element) {
	old := c.content
	if old == content {
		return
	}
	c.content = content
	replaceLogicalChild(c, old, content)

	if c.presenter != nil {
		c.presenter.SetContent(content)
	}
}

// Presenter returns the templated presenter, or nil before template
// application.
func (c *ContentControl) Presenter() *ContentPresenter {
	return c.presenter
}

// ApplyTemplate instantiates the control's template via resolver. The
// produced presenter records this control as its templated owner and
// hosts the control's content. Applying twice is a no-op.
func (c *ContentControl) ApplyTemplate(resolver *template.Resolver) error {
	if c.presenter != nil {
		return nil
	}

	produced, err := resolver.Apply(c)
	if err != nil {
		return err
	}
	presenter, ok := produced.(*ContentPresenter)
	if !ok {
		c.RemoveVisualChild(produced)
		return fmt.Errorf("template for kind %q produced %q, want a content presenter",
			c.Kind(), produced.Kind())
	}

	c.presenter = presenter
	presenter.SetContent(c.content)
	return nil
}
