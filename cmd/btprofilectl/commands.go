package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/edumarques81/btprofilectl/internal/bluez"
	"github.com/edumarques81/btprofilectl/internal/btaddr"
	"github.com/edumarques81/btprofilectl/internal/config"
	"github.com/edumarques81/btprofilectl/internal/profile"
)

// app carries the settings shared by all subcommands.
type app struct {
	cfg     *config.Config
	timeout time.Duration
	jsonOut bool
}

func (a *app) service() *profile.Service {
	return profile.NewService(profile.NewSystemRunner(a.timeout))
}

// resolveTarget turns a device argument into an address. Empty falls back
// to the configured default; anything that does not parse as an address is
// resolved as a BlueZ alias.
func (a *app) resolveTarget(target string) (btaddr.Address, error) {
	if target == "" {
		target = a.cfg.DefaultDevice
	}
	if target == "" {
		return btaddr.Address{}, fmt.Errorf("no device given and no default_device configured")
	}

	if addr, err := btaddr.Parse(target); err == nil {
		return addr, nil
	}

	client, err := bluez.New()
	if err != nil {
		return btaddr.Address{}, fmt.Errorf("%q is not an address and the alias lookup failed: %w", target, err)
	}
	defer client.Close()

	return client.ResolveAddress(target)
}

func runDevices(a *app) error {
	client, err := bluez.New()
	if err != nil {
		return err
	}
	defer client.Close()

	devices, err := client.List()
	if err != nil {
		return err
	}
	audio := audioDevices(devices)

	if a.jsonOut {
		return json.NewEncoder(os.Stdout).Encode(audio)
	}
	fmt.Print(formatDeviceList(audio))
	return nil
}

func runShow(a *app, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: btprofilectl show [device]")
	}
	var target string
	if len(args) == 1 {
		target = args[0]
	}

	addr, err := a.resolveTarget(target)
	if err != nil {
		return err
	}

	dev, err := a.service().Discover(context.Background(), addr)
	if err != nil {
		if errors.Is(err, profile.ErrDeviceNotFound) {
			return fmt.Errorf("%w for %s", err, addr)
		}
		return err
	}

	if a.jsonOut {
		return json.NewEncoder(os.Stdout).Encode(dev)
	}
	fmt.Print(formatDevice(dev))
	return nil
}

// switchOutput is the JSON shape of a successful switch.
type switchOutput struct {
	Message string          `json:"message"`
	Profile profile.Profile `json:"profile"`
}

func runSwitch(a *app, args []string) error {
	var target, profileArg string
	switch len(args) {
	case 1:
		profileArg = args[0]
	case 2:
		target, profileArg = args[0], args[1]
	default:
		return fmt.Errorf("usage: btprofilectl switch [device] <profile>")
	}

	addr, err := a.resolveTarget(target)
	if err != nil {
		return err
	}

	svc := a.service()
	dev, err := svc.Discover(context.Background(), addr)
	if err != nil {
		if errors.Is(err, profile.ErrDeviceNotFound) {
			return fmt.Errorf("%w for %s", err, addr)
		}
		return err
	}

	selected, err := selectProfile(dev, profileArg)
	if err != nil {
		return err
	}

	msg, err := svc.Switch(context.Background(), dev.ID, selected.Index, selected.Name)
	if err != nil {
		return err
	}

	if a.jsonOut {
		return json.NewEncoder(os.Stdout).Encode(switchOutput{Message: msg, Profile: selected})
	}
	fmt.Println(msg)
	return nil
}

// selectProfile resolves a profile argument against a discovered device,
// by name first and then as a listed index.
func selectProfile(dev *profile.Device, arg string) (profile.Profile, error) {
	if p, ok := dev.ProfileByName(arg); ok {
		return p, nil
	}
	if n, err := strconv.ParseUint(arg, 10, 32); err == nil {
		if p, ok := dev.ProfileByIndex(uint32(n)); ok {
			return p, nil
		}
	}
	return profile.Profile{}, fmt.Errorf("device has no profile %q (run \"btprofilectl show\" to list them)", arg)
}

// audioDevices filters a BlueZ listing down to audio-capable devices.
func audioDevices(devices []bluez.Device) []bluez.Device {
	audio := make([]bluez.Device, 0, len(devices))
	for _, d := range devices {
		if d.Audio {
			audio = append(audio, d)
		}
	}
	return audio
}

func formatDeviceList(devices []bluez.Device) string {
	if len(devices) == 0 {
		return "no audio devices known to BlueZ\n"
	}

	var b strings.Builder
	for _, d := range devices {
		flags := make([]string, 0, 2)
		if d.Connected {
			flags = append(flags, "connected")
		}
		if d.Paired {
			flags = append(flags, "paired")
		}
		line := fmt.Sprintf("%s  %-24s %s", d.Address, d.DisplayName(), strings.Join(flags, " "))
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatDevice(dev *profile.Device) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Backend:  %s\n", dev.ID.Backend)
	switch dev.ID.Backend {
	case profile.BackendPipeWire:
		fmt.Fprintf(&b, "Object:   %d\n", dev.ID.Object)
	case profile.BackendPulseAudio:
		fmt.Fprintf(&b, "Card:     %s\n", dev.ID.Card)
	}

	active, hasActive := dev.Active()
	b.WriteString("Profiles:\n")
	for _, p := range dev.Profiles {
		marker := " "
		if hasActive && p.Index == active.Index {
			marker = "*"
		}
		line := fmt.Sprintf("  %s [%d] %-24s %s", marker, p.Index, p.Name, p.Description)
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	return b.String()
}
