package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/edumarques81/btprofilectl/internal/btaddr"
)

// External PipeWire tools. pw-dump emits the object graph as JSON; wpctl
// switches device profiles by object id and profile index.
const (
	pwDumpCmd = "pw-dump"
	wpctlCmd  = "wpctl"
)

// pw-dump object layout. Everything below the object id may be absent, so
// optional fields are pointers; an absent key and an empty value stay
// distinct.
type pwObject struct {
	ID   uint32  `json:"id"`
	Info *pwInfo `json:"info"`
}

type pwInfo struct {
	Props  *pwProps  `json:"props"`
	Params *pwParams `json:"params"`
}

type pwProps struct {
	BluezAddress *string `json:"api.bluez5.address"`
}

type pwParams struct {
	EnumProfile []pwEnumProfile   `json:"EnumProfile"`
	Profile     []pwActiveProfile `json:"Profile"`
}

type pwEnumProfile struct {
	Index       uint32  `json:"index"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *string `json:"available"`
}

type pwActiveProfile struct {
	Index uint32 `json:"index"`
}

// pipewireBackend probes and switches through the PipeWire command line
// tools.
type pipewireBackend struct {
	runner CommandRunner
}

func (b *pipewireBackend) Kind() Backend { return BackendPipeWire }

// Probe scans the pw-dump object graph for a device carrying addr and
// returns it with its usable profiles, or nil when PipeWire has nothing to
// offer (tool missing, command failure, malformed output, no match).
func (b *pipewireBackend) Probe(ctx context.Context, addr btaddr.Address) *Device {
	stdout, _, err := b.runner.Run(ctx, pwDumpCmd)
	if err != nil {
		log.Debug().Err(err).Msg("pw-dump failed (PipeWire may not be running)")
		return nil
	}

	var objects []pwObject
	if err := json.Unmarshal(stdout, &objects); err != nil {
		log.Debug().Err(err).Msg("pw-dump output is not valid JSON")
		return nil
	}

	for _, obj := range objects {
		if obj.Info == nil || obj.Info.Props == nil || obj.Info.Props.BluezAddress == nil {
			continue
		}

		objAddr, err := btaddr.Parse(*obj.Info.Props.BluezAddress)
		if err != nil || objAddr != addr {
			continue
		}

		if obj.Info.Params == nil || len(obj.Info.Params.EnumProfile) == 0 {
			continue
		}

		profiles := keepPipeWireProfiles(obj.Info.Params.EnumProfile)
		if len(profiles) == 0 {
			// Only "off" or unavailable modes; keep scanning.
			continue
		}

		dev := &Device{
			ID:       DeviceID{Backend: BackendPipeWire, Object: obj.ID},
			Profiles: profiles,
		}
		if len(obj.Info.Params.Profile) > 0 {
			active := obj.Info.Params.Profile[0].Index
			dev.ActiveProfileIndex = &active
		}
		return dev
	}

	return nil
}

// keepPipeWireProfiles converts raw EnumProfile entries, dropping the
// synthetic "off" profile and every mode PipeWire does not flag with the
// literal availability "yes". The backend-reported indices are preserved
// because wpctl addresses profiles by them.
func keepPipeWireProfiles(raw []pwEnumProfile) []Profile {
	var kept []Profile
	for _, p := range raw {
		if p.Name != nil && *p.Name == "off" {
			continue
		}
		if p.Available == nil || *p.Available != "yes" {
			continue
		}
		kept = append(kept, Profile{
			Index:       p.Index,
			Name:        stringValue(p.Name),
			Description: stringValue(p.Description),
			Available:   true,
		})
	}
	return kept
}

// SwitchProfile selects the profile with the given index on a PipeWire
// device. The profile name is unused on this path.
func (b *pipewireBackend) SwitchProfile(ctx context.Context, id DeviceID, profileIndex uint32, _ string) (string, error) {
	object := strconv.FormatUint(uint64(id.Object), 10)
	index := strconv.FormatUint(uint64(profileIndex), 10)

	_, stderr, err := b.runner.Run(ctx, wpctlCmd, "set-profile", object, index)
	if err != nil {
		if len(stderr) > 0 {
			return "", fmt.Errorf("wpctl failed: %s", stderr)
		}
		return "", fmt.Errorf("failed to run wpctl: %w", err)
	}

	return SwitchConfirmation, nil
}

// stringValue dereferences an optional JSON string, mapping absent to "".
func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
