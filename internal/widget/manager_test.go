package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popkit/popkit/internal/config"
	"github.com/popkit/popkit/internal/windowing"
)

func newTestManager(maxVisible int) (*Manager, *windowing.Headless) {
	svc := windowing.NewHeadless()
	cfg := config.DefaultConfig()
	cfg.Display.MaxVisible = maxVisible
	return NewManager(svc, NewDefaultResolver(), cfg, nil, nil), svc
}

func TestManagerOpenClose(t *testing.T) {
	m, svc := newTestManager(5)

	id, err := m.Open("hello", "world", "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.Equal(t, 1, m.ActiveCount())
	assert.Equal(t, 1, svc.LiveCount())

	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, "hello", list[0].Title)

	ok := m.Close(id, CloseReasonRequested)
	assert.True(t, ok)
	assert.Equal(t, 0, m.ActiveCount())
	assert.Equal(t, 0, svc.LiveCount())

	assert.False(t, m.Close(id, CloseReasonRequested), "closing twice reports not found")
}

func TestManagerListOrderedByOpenTime(t *testing.T) {
	m, _ := newTestManager(5)

	a, err := m.Open("first", "", "")
	require.NoError(t, err)
	b, err := m.Open("second", "", "")
	require.NoError(t, err)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, a, list[0].ID)
	assert.Equal(t, b, list[1].ID)
}

func TestManagerEvictsOldestWhenFull(t *testing.T) {
	m, svc := newTestManager(2)

	var closed []string
	var reasons []CloseReason
	m.SetClosedCallback(func(id string, reason CloseReason) {
		closed = append(closed, id)
		reasons = append(reasons, reason)
	})

	a, err := m.Open("a", "", "")
	require.NoError(t, err)
	_, err = m.Open("b", "", "")
	require.NoError(t, err)
	_, err = m.Open("c", "", "")
	require.NoError(t, err)

	assert.Equal(t, 2, m.ActiveCount())
	assert.Equal(t, 2, svc.LiveCount())
	require.Len(t, closed, 1)
	assert.Equal(t, a, closed[0])
	assert.Equal(t, CloseReasonEvicted, reasons[0])
}

func TestManagerCloseAll(t *testing.T) {
	m, svc := newTestManager(5)

	var closed []string
	m.SetClosedCallback(func(id string, reason CloseReason) {
		closed = append(closed, id)
	})

	_, err := m.Open("a", "", "")
	require.NoError(t, err)
	_, err = m.Open("b", "", "")
	require.NoError(t, err)

	m.CloseAll()

	assert.Equal(t, 0, m.ActiveCount())
	assert.Equal(t, 0, svc.LiveCount())
	assert.Len(t, closed, 2)
}

func TestManagerUserDismissal(t *testing.T) {
	m, svc := newTestManager(5)

	var reasons []CloseReason
	m.SetClosedCallback(func(id string, reason CloseReason) {
		reasons = append(reasons, reason)
	})

	_, err := m.Open("a", "", "")
	require.NoError(t, err)

	svc.Surfaces()[0].SimulateUserClose()

	assert.Equal(t, 0, m.ActiveCount())
	require.Len(t, reasons, 1)
	assert.Equal(t, CloseReasonDismissed, reasons[0])
}

func TestManagerRestacksAfterClose(t *testing.T) {
	m, svc := newTestManager(5)

	a, err := m.Open("a", "", "")
	require.NoError(t, err)
	_, err = m.Open("b", "", "")
	require.NoError(t, err)

	surfaces := svc.Surfaces()
	require.Len(t, surfaces, 2)
	assert.Equal(t, 0, surfaces[0].StackPosition())
	assert.Equal(t, 1, surfaces[1].StackPosition())

	require.True(t, m.Close(a, CloseReasonRequested))

	assert.Equal(t, 0, surfaces[1].StackPosition(), "remaining popup moves up the stack")
}

func TestManagerSceneDetachPropagates(t *testing.T) {
	m, _ := newTestManager(5)

	_, err := m.Open("a", "", "")
	require.NoError(t, err)

	list := m.List()
	require.Len(t, list, 1)

	scene := m.Scene()
	require.True(t, scene.IsAttached())

	scene.DetachFromTree()

	for _, child := range scene.LogicalChildren().Items() {
		popup, ok := child.(*Popup)
		require.True(t, ok)
		assert.False(t, popup.IsAttached())
		require.NotNil(t, popup.PresentationRoot())
		assert.False(t, popup.PresentationRoot().IsAttached())
	}
}

func TestManagerSurfaceOptionsFromConfig(t *testing.T) {
	svc := windowing.NewHeadless()
	cfg := config.DefaultConfig()
	cfg.Display.Position = string(config.PositionBottomLeft)
	cfg.Display.OffsetX = 20
	m := NewManager(svc, NewDefaultResolver(), cfg, nil, nil)

	_, err := m.Open("a", "body", "dialog-warning")
	require.NoError(t, err)

	opts := svc.Surfaces()[0].Options()
	assert.Equal(t, config.PositionBottomLeft, opts.Position)
	assert.Equal(t, 20, opts.OffsetX)
	assert.Equal(t, "a", opts.Title)
	assert.Equal(t, "body", opts.Body)
	assert.Equal(t, "dialog-warning", opts.Icon)
	assert.NotNil(t, opts.Chrome)
}
