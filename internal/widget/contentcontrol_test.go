package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popkit/popkit/internal/template"
	"github.com/popkit/popkit/internal/tree"
)

func TestContentControlSetContent(t *testing.T) {
	c := NewContentControl("card")
	content := NewBorder()

	c.SetContent(content)

	assert.Same(t, tree.Element(c), content.LogicalParent())
	assert.True(t, c.LogicalChildren().Contains(content))
	// Without a template there is nothing to host the content visually.
	assert.Nil(t, content.VisualParent())

	c.SetContent(nil)
	assert.Nil(t, content.LogicalParent())
	assert.False(t, c.LogicalChildren().Contains(content))
}

func TestContentControlApplyTemplate(t *testing.T) {
	resolver := template.NewResolver()
	RegisterPresenterTemplate(resolver, "card")

	c := NewContentControl("card")
	content := NewBorder()
	c.SetContent(content)

	require.NoError(t, c.ApplyTemplate(resolver))

	presenter := c.Presenter()
	require.NotNil(t, presenter)
	assert.Same(t, tree.Element(c), presenter.TemplatedOwner())
	assert.Same(t, tree.Element(c), presenter.VisualParent())
	assert.Same(t, tree.Element(content), presenter.Content())
	assert.Same(t, tree.Element(presenter), content.VisualParent())
	assert.Nil(t, content.TemplatedOwner(), "user content has no templated owner")
}

func TestContentControlApplyTemplateTwice(t *testing.T) {
	resolver := template.NewResolver()
	RegisterPresenterTemplate(resolver, "card")

	c := NewContentControl("card")
	require.NoError(t, c.ApplyTemplate(resolver))
	presenter := c.Presenter()

	require.NoError(t, c.ApplyTemplate(resolver))

	assert.Same(t, presenter, c.Presenter())
	assert.Len(t, c.VisualChildren(), 1)
}

func TestContentControlApplyTemplateErrors(t *testing.T) {
	c := NewContentControl("card")

	// No template registered for the kind.
	err := c.ApplyTemplate(template.NewResolver())
	assert.Error(t, err)
	assert.Nil(t, c.Presenter())

	// Template produces something that is not a presenter.
	bad := template.NewResolver()
	bad.Register("card", func(owner tree.Element) (tree.Element, error) {
		b := NewBorder()
		b.SetTemplatedOwner(owner)
		return b, nil
	})
	err = c.ApplyTemplate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content presenter")
	assert.Nil(t, c.Presenter())
	assert.Empty(t, c.VisualChildren(), "rejected template product is unwound")
}

func TestContentControlSetContentAfterTemplate(t *testing.T) {
	resolver := template.NewResolver()
	RegisterPresenterTemplate(resolver, "card")

	c := NewContentControl("card")
	require.NoError(t, c.ApplyTemplate(resolver))

	content := NewBorder()
	c.SetContent(content)

	assert.Same(t, tree.Element(content), c.Presenter().Content())
	assert.Same(t, tree.Element(c.Presenter()), content.VisualParent())
}
