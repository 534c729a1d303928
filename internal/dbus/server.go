// Package dbus exposes the popup manager on the session bus as
// org.popkit.Overlay1.
package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/popkit/popkit/internal/widget"
)

const (
	// Interface is the control interface name.
	Interface = "org.popkit.Overlay1"
	// Path is the control object path.
	Path = "/org/popkit/Overlay1"
	// BusName is the bus name to claim.
	BusName = "org.popkit.Overlay1"
)

// Controller is the popup manager surface the server drives. Implemented
// by *widget.Manager.
type Controller interface {
	Open(title, body, icon string) (string, error)
	Close(id string, reason widget.CloseReason) bool
	CloseAll()
	List() []widget.PopupInfo
}

// PopupItem is the wire representation of one open popup: a(ssx).
type PopupItem struct {
	ID           string
	Title        string
	OpenedAtUnix int64
}

// Server exports the org.popkit.Overlay1 interface.
type Server struct {
	conn   *dbus.Conn
	logger *slog.Logger

	controller Controller

	mu      sync.Mutex
	running bool
}

// NewServer creates a control server over the given controller.
func NewServer(controller Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:     logger,
		controller: controller,
	}
}

// Start connects to the session bus and exports the control service.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: overlayMethods(),
				Signals: overlaySignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus control server started", "interface", Interface, "path", Path)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
	}

	s.logger.Info("D-Bus control server stopped")
	return nil
}

// OpenPopup opens a popup and returns its ID.
// D-Bus method: OpenPopup(sss) -> s
func (s *Server) OpenPopup(title, body, icon string) (string, *dbus.Error) {
	s.logger.Debug("OpenPopup called", "title", title)

	id, err := s.controller.Open(title, body, icon)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return id, nil
}

// ClosePopup closes the popup with the given ID.
// D-Bus method: ClosePopup(s) -> b
func (s *Server) ClosePopup(id string) (bool, *dbus.Error) {
	s.logger.Debug("ClosePopup called", "id", id)
	return s.controller.Close(id, widget.CloseReasonRequested), nil
}

// CloseAllPopups closes every open popup.
// D-Bus method: CloseAllPopups() -> nothing
func (s *Server) CloseAllPopups() *dbus.Error {
	s.logger.Debug("CloseAllPopups called")
	s.controller.CloseAll()
	return nil
}

// ListPopups returns all open popups, oldest first.
// D-Bus method: ListPopups() -> a(ssx)
func (s *Server) ListPopups() ([]PopupItem, *dbus.Error) {
	s.logger.Debug("ListPopups called")
	return toPopupItems(s.controller.List()), nil
}

// EmitPopupClosed emits the PopupClosed signal. Wire the manager's
// closed callback to this.
func (s *Server) EmitPopupClosed(id string, reason widget.CloseReason) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := s.conn.Emit(Path, Interface+".PopupClosed", id, uint32(reason)); err != nil {
		return fmt.Errorf("failed to emit PopupClosed signal: %w", err)
	}

	s.logger.Debug("emitted PopupClosed signal", "id", id, "reason", uint32(reason))
	return nil
}

// Connection returns the underlying D-Bus connection.
func (s *Server) Connection() *dbus.Conn {
	return s.conn
}

func toPopupItems(infos []widget.PopupInfo) []PopupItem {
	items := make([]PopupItem, 0, len(infos))
	for _, info := range infos {
		items = append(items, PopupItem{
			ID:           info.ID,
			Title:        info.Title,
			OpenedAtUnix: info.OpenedAt.Unix(),
		})
	}
	return items
}

func overlayMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "OpenPopup",
			Args: []introspect.Arg{
				{Name: "title", Type: "s", Direction: "in"},
				{Name: "body", Type: "s", Direction: "in"},
				{Name: "icon", Type: "s", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "ClosePopup",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "in"},
				{Name: "closed", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "CloseAllPopups",
		},
		{
			Name: "ListPopups",
			Args: []introspect.Arg{
				{Name: "popups", Type: "a(ssx)", Direction: "out"},
			},
		},
	}
}

func overlaySignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "PopupClosed",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "reason", Type: "u"},
			},
		},
	}
}
