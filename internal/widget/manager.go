package widget

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/popkit/popkit/internal/config"
	"github.com/popkit/popkit/internal/layout"
	"github.com/popkit/popkit/internal/template"
	"github.com/popkit/popkit/internal/tree"
	"github.com/popkit/popkit/internal/windowing"
)

// CloseReason tells observers why a popup went away. The values follow
// the freedesktop notification close reasons.
type CloseReason uint32

const (
	// CloseReasonDismissed means the user dismissed the surface.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonRequested means a caller asked for the close.
	CloseReasonRequested CloseReason = 3
	// CloseReasonEvicted means the popup was closed to make room.
	CloseReasonEvicted CloseReason = 4
)

// ClosedCallback is invoked after a popup closes for any reason.
type ClosedCallback func(id string, reason CloseReason)

// PopupInfo is a snapshot of one managed popup.
type PopupInfo struct {
	ID       string
	Title    string
	OpenedAt time.Time
}

// Manager opens and tracks popups on behalf of the daemon. At most
// MaxVisible popups are open at a time; opening beyond that evicts the
// oldest. All popups share one scene root, so detaching the scene
// detaches every presentation root with it.
type Manager struct {
	logger    *slog.Logger
	windowing windowing.Service
	templates *template.Resolver

	mu     sync.Mutex
	cfg    *config.Config
	chrome *layout.Config
	scene  *tree.Node
	popups map[string]*managedPopup

	onClosed ClosedCallback
}

type managedPopup struct {
	popup    *Popup
	title    string
	openedAt time.Time
}

// NewManager creates a popup manager.
func NewManager(svc windowing.Service, resolver *template.Resolver, cfg *config.Config, chrome *layout.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if chrome == nil {
		chrome = layout.DefaultChrome()
	}

	scene := &tree.Node{}
	scene.InitNode(scene, "scene")
	scene.AttachToTree()

	return &Manager{
		logger:    logger,
		windowing: svc,
		templates: resolver,
		cfg:       cfg,
		chrome:    chrome,
		scene:     scene,
		popups:    make(map[string]*managedPopup),
	}
}

// SetClosedCallback sets the callback invoked after a popup closes.
func (m *Manager) SetClosedCallback(cb ClosedCallback) {
	m.onClosed = cb
}

// Open creates, attaches, and opens a popup carrying a text block with
// the given title and body. Returns the popup's ID.
func (m *Manager) Open(title, body, icon string) (string, error) {
	m.mu.Lock()

	// Make room first so the new surface lands in a valid stack slot.
	evicted := m.evictLocked(m.cfg.Display.MaxVisible - 1)

	popup := NewPopup(m.windowing, m.templates)
	popup.SetSurfaceOptions(windowing.SurfaceOptions{
		Title:    title,
		Body:     body,
		Icon:     icon,
		Position: config.Position(m.cfg.Display.Position),
		OffsetX:  m.cfg.Display.OffsetX,
		OffsetY:  m.cfg.Display.OffsetY,
		Gap:      m.cfg.Display.Gap,
		Chrome:   m.chrome,
		OnClose: func() {
			m.handleSurfaceClosed(popup.ID())
		},
	})
	popup.SetChild(NewTextBlock(title, body))

	m.scene.LogicalChildren().Append(popup)
	popup.SetLogicalParent(m.scene)
	popup.AttachToTree()

	if err := popup.Open(); err != nil {
		popup.SetLogicalParent(nil)
		m.scene.LogicalChildren().Remove(popup)
		m.mu.Unlock()
		return "", err
	}

	m.popups[popup.ID()] = &managedPopup{
		popup:    popup,
		title:    title,
		openedAt: time.Now(),
	}
	m.restackLocked()
	m.mu.Unlock()

	for _, id := range evicted {
		m.notifyClosed(id, CloseReasonEvicted)
	}

	m.logger.Debug("opened popup",
		"id", popup.ID(),
		"title", title,
		"active", m.ActiveCount(),
	)
	return popup.ID(), nil
}

// Close closes the popup with the given ID. Returns false if no such
// popup is open.
func (m *Manager) Close(id string, reason CloseReason) bool {
	m.mu.Lock()
	mp, ok := m.popups[id]
	if !ok {
		m.mu.Unlock()
		return false
	}
	m.closeLocked(id, mp)
	m.restackLocked()
	m.mu.Unlock()

	m.notifyClosed(id, reason)
	m.logger.Debug("closed popup", "id", id, "reason", reason)
	return true
}

// CloseAll closes every open popup.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.popups))
	for id, mp := range m.popups {
		ids = append(ids, id)
		m.closeLocked(id, mp)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.notifyClosed(id, CloseReasonRequested)
	}
}

// List returns a snapshot of open popups, oldest first.
func (m *Manager) List() []PopupInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]PopupInfo, 0, len(m.popups))
	for id, mp := range m.popups {
		out = append(out, PopupInfo{ID: id, Title: mp.title, OpenedAt: mp.openedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OpenedAt.Before(out[j].OpenedAt)
	})
	return out
}

// ActiveCount returns the number of open popups.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.popups)
}

// Scene returns the manager's scene root. Detaching it propagates to
// every open popup and its presentation root.
func (m *Manager) Scene() *tree.Node {
	return m.scene
}

// UpdateConfig swaps the active configuration and chrome, applied to
// popups opened from now on.
func (m *Manager) UpdateConfig(cfg *config.Config, chrome *layout.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cfg != nil {
		m.cfg = cfg
	}
	if chrome != nil {
		m.chrome = chrome
	}
	m.logger.Debug("manager config updated", "max_visible", m.cfg.Display.MaxVisible)
}

// closeLocked tears one popup down. Caller must hold the lock.
func (m *Manager) closeLocked(id string, mp *managedPopup) {
	delete(m.popups, id)
	mp.popup.Close()
	mp.popup.SetLogicalParent(nil)
	m.scene.LogicalChildren().Remove(mp.popup)
}

// evictLocked closes the oldest popups until at most keep remain.
// Returns the evicted IDs. Caller must hold the lock.
func (m *Manager) evictLocked(keep int) []string {
	if keep < 0 {
		keep = 0
	}
	if len(m.popups) <= keep {
		return nil
	}

	type aged struct {
		id       string
		openedAt time.Time
	}
	all := make([]aged, 0, len(m.popups))
	for id, mp := range m.popups {
		all = append(all, aged{id: id, openedAt: mp.openedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].openedAt.Before(all[j].openedAt)
	})

	var evicted []string
	for _, a := range all[:len(m.popups)-keep] {
		if mp, ok := m.popups[a.id]; ok {
			m.closeLocked(a.id, mp)
			evicted = append(evicted, a.id)
			m.logger.Debug("evicted popup to make room", "id", a.id)
		}
	}
	return evicted
}

// restackLocked reassigns surface stack positions by open order.
// Caller must hold the lock.
func (m *Manager) restackLocked() {
	type aged struct {
		mp       *managedPopup
		openedAt time.Time
	}
	all := make([]aged, 0, len(m.popups))
	for _, mp := range m.popups {
		all = append(all, aged{mp: mp, openedAt: mp.openedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].openedAt.Before(all[j].openedAt)
	})

	for i, a := range all {
		if root := a.mp.popup.PresentationRoot(); root != nil {
			root.Surface().SetStackPosition(i)
		}
	}
}

// handleSurfaceClosed handles a surface dismissed from the platform
// side.
func (m *Manager) handleSurfaceClosed(id string) {
	m.mu.Lock()
	mp, ok := m.popups[id]
	if ok {
		m.closeLocked(id, mp)
		m.restackLocked()
	}
	m.mu.Unlock()

	if ok {
		m.notifyClosed(id, CloseReasonDismissed)
	}
}

func (m *Manager) notifyClosed(id string, reason CloseReason) {
	if m.onClosed != nil {
		m.onClosed(id, reason)
	}
}
