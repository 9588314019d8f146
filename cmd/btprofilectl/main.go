// Package main is the entry point for btprofilectl, a command line tool for
// switching the audio profile of Bluetooth devices on PipeWire or PulseAudio.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/edumarques81/btprofilectl/internal/config"
	"github.com/edumarques81/btprofilectl/internal/version"
)

func main() {
	// Command line flags
	configPath := flag.String("config", config.DefaultConfigPath(), "Path to the config file")
	timeout := flag.Duration("timeout", -1, "Override the command timeout from config (0 disables it)")
	jsonOut := flag.Bool("json", false, "Emit machine-readable JSON on stdout")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print version information and exit")
	flag.Usage = usage
	flag.Parse()

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if *showVersion {
		if *jsonOut {
			json.NewEncoder(os.Stdout).Encode(version.GetInfo())
			return
		}
		fmt.Println(version.GetInfo().String())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	level := config.ParseLogLevel(cfg.LogLevel)
	if *debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	a := &app{
		cfg:     cfg,
		timeout: cfg.Timeout(),
		jsonOut: *jsonOut,
	}
	if *timeout >= 0 {
		a.timeout = *timeout
	}

	log.Debug().
		Str("version", version.Version).
		Str("config", *configPath).
		Dur("timeout", a.timeout).
		Msg("starting")

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	switch args[0] {
	case "devices":
		err = runDevices(a)
	case "show":
		err = runShow(a, args[1:])
	case "switch":
		err = runSwitch(a, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: btprofilectl [flags] <command>

Commands:
  devices                    list audio-capable bluetooth devices
  show [device]              show the audio card and profiles of a device
  switch [device] <profile>  switch the active audio profile

The device argument is a MAC address ("AA:BB:CC:DD:EE:FF" or
"AA_BB_CC_DD_EE_FF") or a BlueZ device alias. When omitted, default_device
from the config file is used. The profile argument is a profile name or a
listed index.

Flags:
`)
	flag.PrintDefaults()
}
