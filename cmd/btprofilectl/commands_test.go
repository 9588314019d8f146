package main

import (
	"strings"
	"testing"

	"github.com/edumarques81/btprofilectl/internal/bluez"
	"github.com/edumarques81/btprofilectl/internal/btaddr"
	"github.com/edumarques81/btprofilectl/internal/profile"
)

func testDevice() *profile.Device {
	active := uint32(1)
	return &profile.Device{
		ID: profile.DeviceID{Backend: profile.BackendPipeWire, Object: 31},
		Profiles: []profile.Profile{
			{Index: 1, Name: "a2dp-sink", Description: "High Fidelity Playback (A2DP Sink)", Available: true},
			{Index: 2, Name: "headset-head-unit", Description: "Headset Head Unit (HSP/HFP)", Available: true},
		},
		ActiveProfileIndex: &active,
	}
}

func TestSelectProfile(t *testing.T) {
	dev := testDevice()

	t.Run("by name", func(t *testing.T) {
		p, err := selectProfile(dev, "headset-head-unit")
		if err != nil {
			t.Fatalf("selectProfile() error = %v", err)
		}
		if p.Index != 2 {
			t.Errorf("index = %d, want 2", p.Index)
		}
	})

	t.Run("by listed index", func(t *testing.T) {
		p, err := selectProfile(dev, "2")
		if err != nil {
			t.Fatalf("selectProfile() error = %v", err)
		}
		if p.Name != "headset-head-unit" {
			t.Errorf("name = %q, want headset-head-unit", p.Name)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		if _, err := selectProfile(dev, "a2dp-sink-aac"); err == nil {
			t.Error("expected an error for an unknown profile")
		}
	})

	t.Run("index not in the list", func(t *testing.T) {
		if _, err := selectProfile(dev, "0"); err == nil {
			t.Error("expected an error for a filtered-out index")
		}
	})
}

func TestAudioDevices(t *testing.T) {
	headset := bluez.Device{Alias: "Headset", Audio: true}
	mouse := bluez.Device{Alias: "Mouse"}

	audio := audioDevices([]bluez.Device{mouse, headset, mouse})
	if len(audio) != 1 || audio[0].Alias != "Headset" {
		t.Errorf("audioDevices() = %+v, want just the headset", audio)
	}

	if got := audioDevices(nil); got == nil || len(got) != 0 {
		t.Errorf("audioDevices(nil) = %#v, want an empty slice", got)
	}
}

func TestFormatDeviceList(t *testing.T) {
	addr, err := btaddr.Parse("0C:AE:BD:D2:F1:5F")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out := formatDeviceList([]bluez.Device{
		{Address: addr, Alias: "Sony Headphones", Connected: true, Paired: true, Audio: true},
	})

	if !strings.Contains(out, "0C:AE:BD:D2:F1:5F") {
		t.Errorf("output misses the address: %q", out)
	}
	if !strings.Contains(out, "Sony Headphones") {
		t.Errorf("output misses the alias: %q", out)
	}
	if !strings.Contains(out, "connected paired") {
		t.Errorf("output misses the markers: %q", out)
	}

	if out := formatDeviceList(nil); !strings.Contains(out, "no audio devices") {
		t.Errorf("empty listing = %q", out)
	}
}

func TestFormatDevice(t *testing.T) {
	t.Run("pipewire device with active marker", func(t *testing.T) {
		out := formatDevice(testDevice())

		if !strings.Contains(out, "Backend:  pipewire") {
			t.Errorf("output misses the backend: %q", out)
		}
		if !strings.Contains(out, "Object:   31") {
			t.Errorf("output misses the object id: %q", out)
		}
		if !strings.Contains(out, "* [1] a2dp-sink") {
			t.Errorf("active profile not marked: %q", out)
		}
		if strings.Contains(out, "* [2]") {
			t.Errorf("inactive profile marked active: %q", out)
		}
	})

	t.Run("pulseaudio device without active profile", func(t *testing.T) {
		dev := &profile.Device{
			ID: profile.DeviceID{Backend: profile.BackendPulseAudio, Card: "bluez_card.0C_AE_BD_D2_F1_5F"},
			Profiles: []profile.Profile{
				{Index: 0, Name: "a2dp-sink", Description: "High Fidelity Playback (A2DP Sink)", Available: true},
			},
		}
		out := formatDevice(dev)

		if !strings.Contains(out, "Card:     bluez_card.0C_AE_BD_D2_F1_5F") {
			t.Errorf("output misses the card name: %q", out)
		}
		if strings.Contains(out, "*") {
			t.Errorf("no profile should be marked active: %q", out)
		}
	})
}
