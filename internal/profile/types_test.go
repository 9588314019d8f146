package profile

import "testing"

func sampleDevice(active *uint32) *Device {
	return &Device{
		ID: DeviceID{Backend: BackendPipeWire, Object: 31},
		Profiles: []Profile{
			{Index: 1, Name: "a2dp-sink", Description: "High Fidelity Playback (A2DP Sink)", Available: true},
			{Index: 2, Name: "headset-head-unit", Description: "Headset Head Unit (HSP/HFP)", Available: true},
		},
		ActiveProfileIndex: active,
	}
}

func TestProfileByName(t *testing.T) {
	dev := sampleDevice(nil)

	p, ok := dev.ProfileByName("headset-head-unit")
	if !ok {
		t.Fatal("expected to find headset-head-unit")
	}
	if p.Index != 2 {
		t.Errorf("expected index 2, got %d", p.Index)
	}

	if _, ok := dev.ProfileByName("a2dp-sink-aac"); ok {
		t.Error("expected no match for an unknown name")
	}
}

func TestProfileByIndex(t *testing.T) {
	dev := sampleDevice(nil)

	p, ok := dev.ProfileByIndex(1)
	if !ok {
		t.Fatal("expected to find index 1")
	}
	if p.Name != "a2dp-sink" {
		t.Errorf("expected a2dp-sink, got %q", p.Name)
	}

	if _, ok := dev.ProfileByIndex(0); ok {
		t.Error("expected no match for index 0")
	}
}

func TestActive(t *testing.T) {
	t.Run("resolves the active profile", func(t *testing.T) {
		active := uint32(2)
		p, ok := sampleDevice(&active).Active()
		if !ok {
			t.Fatal("expected an active profile")
		}
		if p.Name != "headset-head-unit" {
			t.Errorf("expected headset-head-unit, got %q", p.Name)
		}
	})

	t.Run("no active index means no active profile", func(t *testing.T) {
		if _, ok := sampleDevice(nil).Active(); ok {
			t.Error("expected none")
		}
	})

	t.Run("active index outside the usable set means no active profile", func(t *testing.T) {
		active := uint32(0)
		if _, ok := sampleDevice(&active).Active(); ok {
			t.Error("expected none")
		}
	})
}
