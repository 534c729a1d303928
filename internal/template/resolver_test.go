package template

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popkit/popkit/internal/tree"
)

func newElement(kind string) *tree.Node {
	n := &tree.Node{}
	n.InitNode(n, kind)
	return n
}

func TestResolverRegisterResolve(t *testing.T) {
	r := NewResolver()

	_, ok := r.Resolve("card")
	assert.False(t, ok)

	r.Register("card", func(owner tree.Element) (tree.Element, error) {
		return newElement("presenter"), nil
	})

	_, ok = r.Resolve("card")
	assert.True(t, ok)
	assert.Contains(t, r.Kinds(), "card")
}

func TestApply(t *testing.T) {
	r := NewResolver()
	r.Register("card", func(owner tree.Element) (tree.Element, error) {
		root := newElement("presenter")
		root.SetTemplatedOwner(owner)
		return root, nil
	})

	control := newElement("card")
	root, err := r.Apply(control)
	require.NoError(t, err)
	require.NotNil(t, root)

	// The template produced exactly one visual child of the control,
	// owned by the control.
	children := control.VisualChildren()
	require.Len(t, children, 1)
	assert.Same(t, root, children[0])
	assert.Same(t, tree.Element(control), root.TemplatedOwner())
	assert.Same(t, tree.Element(control), root.VisualParent())
}

func TestApplyUnknownKind(t *testing.T) {
	r := NewResolver()
	control := newElement("mystery")

	_, err := r.Apply(control)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
	assert.Empty(t, control.VisualChildren())
}

func TestApplyFactoryErrorPropagates(t *testing.T) {
	boom := errors.New("template build failed")
	r := NewResolver()
	r.Register("card", func(owner tree.Element) (tree.Element, error) {
		return nil, boom
	})

	control := newElement("card")
	_, err := r.Apply(control)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, control.VisualChildren())
}

func TestRegisterReplaces(t *testing.T) {
	r := NewResolver()
	r.Register("card", func(owner tree.Element) (tree.Element, error) {
		return newElement("first"), nil
	})
	r.Register("card", func(owner tree.Element) (tree.Element, error) {
		return newElement("second"), nil
	})

	control := newElement("card")
	root, err := r.Apply(control)
	require.NoError(t, err)
	assert.Equal(t, "second", root.Kind())
}
