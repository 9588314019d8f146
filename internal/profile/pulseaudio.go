package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/edumarques81/btprofilectl/internal/btaddr"
)

const pactlCmd = "pactl"

// Card properties that may carry the Bluetooth address. device.string is
// only consulted when the bluez property is absent entirely; some virtual
// cards repurpose it for unrelated data.
const (
	bluezAddressProp = "api.bluez5.address"
	deviceStringProp = "device.string"
)

// pactl --format=json list cards layout.
type paCard struct {
	Name          string            `json:"name"`
	Properties    map[string]string `json:"properties"`
	ActiveProfile *string           `json:"active_profile"`
	Profiles      []paProfile       `json:"profiles"`
}

type paProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// pulseaudioBackend probes and switches through pactl. It also serves
// PipeWire systems running the PulseAudio compatibility layer, which is why
// it sits behind the native PipeWire backend in the probe order.
type pulseaudioBackend struct {
	runner CommandRunner
}

func (b *pulseaudioBackend) Kind() Backend { return BackendPulseAudio }

// Probe lists the PulseAudio cards and returns the first one that belongs
// to addr together with its usable profiles, or nil when nothing matches.
func (b *pulseaudioBackend) Probe(ctx context.Context, addr btaddr.Address) *Device {
	stdout, _, err := b.runner.Run(ctx, pactlCmd, "--format=json", "list", "cards")
	if err != nil {
		log.Debug().Err(err).Msg("pactl failed (PulseAudio may not be running)")
		return nil
	}

	var cards []paCard
	if err := json.Unmarshal(stdout, &cards); err != nil {
		log.Debug().Err(err).Msg("pactl output is not valid JSON")
		return nil
	}

	underscored := addr.Underscore()
	for _, card := range cards {
		if !cardMatches(card, addr, underscored) {
			continue
		}

		profiles := keepPulseAudioProfiles(card.Profiles)
		if len(profiles) == 0 {
			continue
		}

		dev := &Device{
			ID:       DeviceID{Backend: BackendPulseAudio, Card: card.Name},
			Profiles: profiles,
		}
		if card.ActiveProfile != nil {
			for _, p := range profiles {
				if p.Name == *card.ActiveProfile {
					active := p.Index
					dev.ActiveProfileIndex = &active
					break
				}
			}
		}
		return dev
	}

	return nil
}

// cardMatches reports whether card belongs to the device with the given
// address, either through the underscored form embedded in the card name
// (bluez_card.AA_BB_CC_DD_EE_FF) or through a card property.
func cardMatches(card paCard, addr btaddr.Address, underscored string) bool {
	if strings.Contains(card.Name, underscored) {
		return true
	}

	prop, ok := card.Properties[bluezAddressProp]
	if !ok {
		prop, ok = card.Properties[deviceStringProp]
	}
	if !ok {
		return false
	}

	propAddr, err := btaddr.Parse(prop)
	return err == nil && propAddr == addr
}

// keepPulseAudioProfiles converts raw card profiles, dropping "off" and
// anything unavailable. pactl addresses profiles by name, so indices are
// free to be positions in the kept list.
func keepPulseAudioProfiles(raw []paProfile) []Profile {
	var kept []Profile
	for _, p := range raw {
		if p.Name == "off" || !p.Available {
			continue
		}
		kept = append(kept, Profile{
			Index:       uint32(len(kept)),
			Name:        p.Name,
			Description: p.Description,
			Available:   true,
		})
	}
	return kept
}

// SwitchProfile selects the named profile on a PulseAudio card. The profile
// index is unused on this path.
func (b *pulseaudioBackend) SwitchProfile(ctx context.Context, id DeviceID, _ uint32, profileName string) (string, error) {
	_, stderr, err := b.runner.Run(ctx, pactlCmd, "set-card-profile", id.Card, profileName)
	if err != nil {
		if len(stderr) > 0 {
			return "", fmt.Errorf("pactl failed: %s", stderr)
		}
		return "", fmt.Errorf("failed to run pactl: %w", err)
	}

	return SwitchConfirmation, nil
}
