// Package btaddr handles Bluetooth device addresses in the two textual
// conventions used on the Linux audio stack: colon-separated
// ("AA:BB:CC:DD:EE:FF") and underscore-separated ("AA_BB_CC_DD_EE_FF",
// the form embedded in BlueZ object paths and audio card names).
package btaddr

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address is a 6-octet Bluetooth MAC address.
type Address [6]byte

// Parse converts a textual Bluetooth address into an Address. Both the
// colon-separated and the underscore-separated conventions are accepted,
// in upper or lower case.
func Parse(s string) (Address, error) {
	var a Address

	sep := ":"
	if strings.Contains(s, "_") {
		sep = "_"
	}

	parts := strings.Split(s, sep)
	if len(parts) != 6 {
		return a, fmt.Errorf("invalid bluetooth address %q", s)
	}

	for i, part := range parts {
		if len(part) != 2 {
			return a, fmt.Errorf("invalid bluetooth address %q", s)
		}
		b, err := hex.DecodeString(part)
		if err != nil {
			return a, fmt.Errorf("invalid bluetooth address %q", s)
		}
		a[i] = b[0]
	}

	return a, nil
}

// String renders the canonical uppercase colon form.
func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// Underscore renders the uppercase underscore form that both audio backends
// embed in their JSON properties and card names.
func (a Address) Underscore() string {
	return strings.ReplaceAll(a.String(), ":", "_")
}

// MarshalText implements encoding.TextMarshaler so addresses appear in JSON
// as their canonical colon form.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
