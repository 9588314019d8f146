package profile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/edumarques81/btprofilectl/internal/btaddr"
)

// prober is one audio backend the service can interrogate and drive.
type prober interface {
	Kind() Backend
	Probe(ctx context.Context, addr btaddr.Address) *Device
	SwitchProfile(ctx context.Context, id DeviceID, profileIndex uint32, profileName string) (string, error)
}

// Service finds the audio device behind a Bluetooth address and switches
// its profile, trying PipeWire first and falling back to PulseAudio.
type Service struct {
	backends []prober
}

// NewService returns a Service running external commands through runner.
// A nil runner gets the system runner with the default timeout.
func NewService(runner CommandRunner) *Service {
	if runner == nil {
		runner = NewSystemRunner(DefaultTimeout)
	}
	return &Service{
		backends: []prober{
			&pipewireBackend{runner: runner},
			&pulseaudioBackend{runner: runner},
		},
	}
}

// Discover asks each backend in order for the device carrying addr and
// returns the first hit. ErrDeviceNotFound means no backend could offer a
// card with at least one usable profile.
func (s *Service) Discover(ctx context.Context, addr btaddr.Address) (*Device, error) {
	for _, b := range s.backends {
		if dev := b.Probe(ctx, addr); dev != nil {
			log.Debug().
				Str("backend", string(b.Kind())).
				Str("address", addr.String()).
				Int("profiles", len(dev.Profiles)).
				Msg("audio device found")
			return dev, nil
		}
	}
	return nil, ErrDeviceNotFound
}

// Switch activates a profile on a previously discovered device. The id
// decides which backend carries out the switch; profileIndex addresses the
// profile on PipeWire, profileName on PulseAudio, so callers pass both.
func (s *Service) Switch(ctx context.Context, id DeviceID, profileIndex uint32, profileName string) (string, error) {
	for _, b := range s.backends {
		if b.Kind() == id.Backend {
			return b.SwitchProfile(ctx, id, profileIndex, profileName)
		}
	}
	return "", fmt.Errorf("unknown audio backend %q", id.Backend)
}
