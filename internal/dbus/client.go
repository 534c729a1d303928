package dbus

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

// Client talks to a running popkitd over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus and binds the control object.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, Path),
	}, nil
}

// OpenPopup asks the daemon to open a popup and returns its ID.
func (c *Client) OpenPopup(title, body, icon string) (string, error) {
	var id string
	call := c.obj.Call(Interface+".OpenPopup", 0, title, body, icon)
	if err := call.Store(&id); err != nil {
		return "", fmt.Errorf("OpenPopup failed: %w", err)
	}
	return id, nil
}

// ClosePopup asks the daemon to close the popup with the given ID.
// Returns false if no such popup was open.
func (c *Client) ClosePopup(id string) (bool, error) {
	var closed bool
	call := c.obj.Call(Interface+".ClosePopup", 0, id)
	if err := call.Store(&closed); err != nil {
		return false, fmt.Errorf("ClosePopup failed: %w", err)
	}
	return closed, nil
}

// CloseAllPopups asks the daemon to close every open popup.
func (c *Client) CloseAllPopups() error {
	if call := c.obj.Call(Interface+".CloseAllPopups", 0); call.Err != nil {
		return fmt.Errorf("CloseAllPopups failed: %w", call.Err)
	}
	return nil
}

// ListPopups returns all open popups, oldest first.
func (c *Client) ListPopups() ([]PopupItem, error) {
	var items []PopupItem
	call := c.obj.Call(Interface+".ListPopups", 0)
	if err := call.Store(&items); err != nil {
		return nil, fmt.Errorf("ListPopups failed: %w", err)
	}
	return items, nil
}

// Ping checks whether the daemon owns the control bus name.
func (c *Client) Ping() error {
	var owner string
	err := c.conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, BusName).Store(&owner)
	if err != nil {
		return fmt.Errorf("popkitd is not running: %w", err)
	}
	return nil
}

// OpenedAt converts a PopupItem timestamp back to time.Time.
func (p PopupItem) OpenedAt() time.Time {
	return time.Unix(p.OpenedAtUnix, 0)
}

// Close drops the client. The shared session connection stays open.
func (c *Client) Close() error {
	return nil
}
