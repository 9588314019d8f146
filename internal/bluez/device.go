package bluez

import (
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/edumarques81/btprofilectl/internal/btaddr"
)

// Service UUIDs that mark a device as an audio sink or headset.
const (
	audioSinkUUID = "0000110b-0000-1000-8000-00805f9b34fb"
	advAudioUUID  = "0000110d-0000-1000-8000-00805f9b34fb"
	headsetUUID   = "00001108-0000-1000-8000-00805f9b34fb"
	handsFreeUUID = "0000111e-0000-1000-8000-00805f9b34fb"
)

// Device is one remote device known to BlueZ.
type Device struct {
	Address   btaddr.Address `json:"address"`
	Name      string         `json:"name,omitempty"`
	Alias     string         `json:"alias,omitempty"`
	Icon      string         `json:"icon,omitempty"`
	Connected bool           `json:"connected"`
	Paired    bool           `json:"paired"`
	Audio     bool           `json:"audio"`
}

// DisplayName returns the friendliest name BlueZ has for the device.
func (d Device) DisplayName() string {
	if d.Alias != "" {
		return d.Alias
	}
	if d.Name != "" {
		return d.Name
	}
	return d.Address.String()
}

// AddressFromPath extracts the device address from a BlueZ object path like
// /org/bluez/hci0/dev_0C_AE_BD_D2_F1_5F.
func AddressFromPath(path dbus.ObjectPath) (btaddr.Address, error) {
	s := string(path)
	i := strings.LastIndex(s, "/dev_")
	if i < 0 {
		return btaddr.Address{}, fmt.Errorf("not a device path: %s", s)
	}
	return btaddr.Parse(s[i+len("/dev_"):])
}

// DevicePath builds the BlueZ object path for addr on the given adapter
// (for example "hci0").
func DevicePath(adapter string, addr btaddr.Address) dbus.ObjectPath {
	return dbus.ObjectPath("/org/bluez/" + adapter + "/dev_" + addr.Underscore())
}

// devicesFromObjects converts a GetManagedObjects result into devices,
// keeping only objects that expose org.bluez.Device1 with a usable address.
func devicesFromObjects(objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant) []Device {
	var devices []Device
	for path, interfaces := range objects {
		props, ok := interfaces[deviceIface]
		if !ok {
			continue
		}
		dev, ok := deviceFromProps(path, props)
		if !ok {
			continue
		}
		devices = append(devices, dev)
	}

	// Map iteration order is random; keep the listing stable.
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Address.String() < devices[j].Address.String()
	})
	return devices
}

func deviceFromProps(path dbus.ObjectPath, props map[string]dbus.Variant) (Device, bool) {
	addr, err := btaddr.Parse(stringProp(props, "Address"))
	if err != nil {
		// Some BlueZ versions omit the property; the path still carries
		// the address.
		if addr, err = AddressFromPath(path); err != nil {
			return Device{}, false
		}
	}

	dev := Device{
		Address:   addr,
		Name:      stringProp(props, "Name"),
		Alias:     stringProp(props, "Alias"),
		Icon:      stringProp(props, "Icon"),
		Connected: boolProp(props, "Connected"),
		Paired:    boolProp(props, "Paired"),
	}
	dev.Audio = hasAudioService(uuidsProp(props), dev.Icon)
	return dev, true
}

// hasAudioService reports whether the advertised service UUIDs or the device
// icon mark this as an audio device.
func hasAudioService(uuids []string, icon string) bool {
	for _, u := range uuids {
		switch strings.ToLower(u) {
		case audioSinkUUID, advAudioUUID, headsetUUID, handsFreeUUID:
			return true
		}
	}
	return strings.HasPrefix(icon, "audio-")
}

func resolveAddress(devices []Device, target string) (btaddr.Address, error) {
	for _, d := range devices {
		if d.Alias == target || d.Name == target {
			return d.Address, nil
		}
	}

	lower := strings.ToLower(target)
	var matches []Device
	for _, d := range devices {
		if strings.HasPrefix(strings.ToLower(d.Alias), lower) ||
			strings.HasPrefix(strings.ToLower(d.Name), lower) {
			matches = append(matches, d)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0].Address, nil
	case 0:
		return btaddr.Address{}, fmt.Errorf("no bluetooth device matches %q", target)
	default:
		names := make([]string, len(matches))
		for i, d := range matches {
			names[i] = d.DisplayName()
		}
		return btaddr.Address{}, fmt.Errorf("%q is ambiguous: matches %s", target, strings.Join(names, ", "))
	}
}

func stringProp(props map[string]dbus.Variant, name string) string {
	v, ok := props[name]
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

func boolProp(props map[string]dbus.Variant, name string) bool {
	v, ok := props[name]
	if !ok {
		return false
	}
	b, _ := v.Value().(bool)
	return b
}

func uuidsProp(props map[string]dbus.Variant) []string {
	v, ok := props["UUIDs"]
	if !ok {
		return nil
	}
	uuids, _ := v.Value().([]string)
	return uuids
}
