package ingestor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ChristianF88/radixsort/iputils"
)

// Format is the on-disk or on-wire encoding of a key.
type Format uint8

const (
	Decimal Format = iota
	Hex
	IPv4
	Binary
)

var ErrUnknownFormat = errors.New("unknown key format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dec", "decimal", "":
		return Decimal, nil
	case "hex":
		return Hex, nil
	case "ipv4", "ip":
		return IPv4, nil
	case "bin", "binary":
		return Binary, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) String() string {
	switch f {
	case Decimal:
		return "dec"
	case Hex:
		return "hex"
	case IPv4:
		return "ipv4"
	case Binary:
		return "bin"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// ParseKey parses a single textual key. Binary has no textual form.
func ParseKey(s string, f Format) (uint32, error) {
	switch f {
	case Decimal:
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid decimal key %q: %w", s, err)
		}
		return uint32(v), nil
	case Hex:
		h := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
		v, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid hex key %q: %w", s, err)
		}
		return uint32(v), nil
	case IPv4:
		return iputils.ParseIPv4Key(s)
	default:
		return 0, fmt.Errorf("%w: %v has no text form", ErrUnknownFormat, f)
	}
}

// FormatKey renders a key in a textual format.
func FormatKey(k uint32, f Format) string {
	switch f {
	case Hex:
		return fmt.Sprintf("0x%08x", k)
	case IPv4:
		return iputils.Uint32ToIP(k).String()
	default:
		return strconv.FormatUint(uint64(k), 10)
	}
}
