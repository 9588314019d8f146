// Package bluez lists the Bluetooth devices known to the BlueZ daemon, so
// users can refer to a headset by its alias instead of its MAC address.
package bluez

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/edumarques81/btprofilectl/internal/btaddr"
)

const (
	busName     = "org.bluez"
	deviceIface = "org.bluez.Device1"
)

// Client wraps a system bus connection scoped to the BlueZ service.
type Client struct {
	conn *dbus.Conn
}

// New opens a private system bus connection and verifies BlueZ is on the
// bus.
func New() (*Client, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to list bus names: %w", err)
	}

	for _, n := range names {
		if n == busName {
			return &Client{conn: conn}, nil
		}
	}

	conn.Close()
	return nil, fmt.Errorf("org.bluez is not on the system bus (is bluetooth.service running?)")
}

// Close releases the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// List returns every remote device BlueZ currently knows about, sorted by
// address.
func (c *Client) List() ([]Device, error) {
	obj := c.conn.Object(busName, "/")

	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	if err := obj.Call("org.freedesktop.DBus.ObjectManager.GetManagedObjects", 0).Store(&objects); err != nil {
		return nil, fmt.Errorf("failed to get managed objects: %w", err)
	}

	return devicesFromObjects(objects), nil
}

// ResolveAddress finds the device whose alias or name matches target and
// returns its address. An exact match wins; otherwise target must be a
// unique case-insensitive prefix.
func (c *Client) ResolveAddress(target string) (btaddr.Address, error) {
	devices, err := c.List()
	if err != nil {
		return btaddr.Address{}, err
	}
	return resolveAddress(devices, target)
}
