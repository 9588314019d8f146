// Package profile discovers the audio card behind a Bluetooth device on
// PipeWire or PulseAudio and switches its active audio profile.
package profile

import "errors"

// Backend identifies which audio server owns a discovered device.
type Backend string

const (
	// BackendPipeWire devices are addressed by numeric object id via wpctl.
	BackendPipeWire Backend = "pipewire"
	// BackendPulseAudio devices are addressed by card name via pactl.
	BackendPulseAudio Backend = "pulseaudio"
)

// Profile is a selectable operating mode of an audio device, e.g. A2DP
// high-fidelity playback vs. HSP/HFP headset mode.
type Profile struct {
	Index       uint32 `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// DeviceID identifies a discovered device to the backend that owns it.
// Object is set for PipeWire devices, Card for PulseAudio cards.
type DeviceID struct {
	Backend Backend `json:"backend"`
	Object  uint32  `json:"object,omitempty"`
	Card    string  `json:"card,omitempty"`
}

// Device is the audio card discovered for a Bluetooth address. Profiles
// holds only the available, non-"off" modes. ActiveProfileIndex is nil when
// the backend did not report an active profile.
type Device struct {
	ID                 DeviceID  `json:"id"`
	Profiles           []Profile `json:"profiles"`
	ActiveProfileIndex *uint32   `json:"active_profile_index,omitempty"`
}

// ErrDeviceNotFound is returned by Discover when neither backend has a
// controllable audio profile for the requested address.
var ErrDeviceNotFound = errors.New("no controllable audio profile found")

// SwitchConfirmation is the fixed message returned after a successful
// profile switch.
const SwitchConfirmation = "Profile switched"

// ProfileByName returns the listed profile with the given name.
func (d *Device) ProfileByName(name string) (Profile, bool) {
	for _, p := range d.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// ProfileByIndex returns the listed profile with the given index.
func (d *Device) ProfileByIndex(index uint32) (Profile, bool) {
	for _, p := range d.Profiles {
		if p.Index == index {
			return p, true
		}
	}
	return Profile{}, false
}

// Active returns the currently active profile, if the backend reported one
// and it is part of the listed profiles. The synthetic "off" profile is
// never listed, so a device switched off reports no active profile here.
func (d *Device) Active() (Profile, bool) {
	if d.ActiveProfileIndex == nil {
		return Profile{}, false
	}
	return d.ProfileByIndex(*d.ActiveProfileIndex)
}
