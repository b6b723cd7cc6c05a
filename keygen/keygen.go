// Package keygen produces reproducible uint32 key sets for sorting and
// benchmarking.
package keygen

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ChristianF88/radixsort/iputils"
)

// LCG constants (Numerical Recipes style, wrapping uint32 arithmetic)
const (
	Multiplier uint32 = 22695477
	Increment  uint32 = 1
)

var ErrUnknownKind = errors.New("unknown key kind")

// LCG is a linear congruential generator: x = x*Multiplier + Increment.
type LCG struct {
	x uint32
}

// NewLCG returns a generator whose first output is seed*Multiplier + Increment.
func NewLCG(seed uint32) *LCG {
	return &LCG{x: seed}
}

// Next advances the generator and returns the new state.
func (g *LCG) Next() uint32 {
	g.x = g.x*Multiplier + Increment
	return g.x
}

// Fill overwrites data with successive outputs.
func (g *LCG) Fill(data []uint32) {
	for i := range data {
		data[i] = g.Next()
	}
}

// Kind selects the shape of a generated key set.
type Kind uint8

const (
	LCGKind Kind = iota
	Ascending
	Descending
	Constant
	Extremes
)

var kindNames = map[Kind]string{
	LCGKind:    "lcg",
	Ascending:  "ascending",
	Descending: "descending",
	Constant:   "constant",
	Extremes:   "extremes",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a name (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds lists the supported kind names.
func Kinds() []string {
	return []string{"lcg", "ascending", "descending", "constant", "extremes"}
}

// Generate returns n keys of the given kind. The same kind, n and seed always
// produce the same keys. Ascending and Descending ignore seed.
func Generate(kind Kind, n int, seed uint32) ([]uint32, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative key count: %d", n)
	}

	data := make([]uint32, n)
	g := NewLCG(seed)

	switch kind {
	case LCGKind:
		g.Fill(data)
	case Ascending:
		step := spread(n)
		for i := range data {
			data[i] = uint32(i) * step
		}
	case Descending:
		step := spread(n)
		for i := range data {
			data[i] = math.MaxUint32 - uint32(i)*step
		}
	case Constant:
		for i := range data {
			data[i] = seed
		}
	case Extremes:
		for i := range data {
			switch i % 3 {
			case 0:
				data[i] = math.MaxUint32
			case 1:
				data[i] = 0
			default:
				data[i] = g.Next()
			}
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}

	return data, nil
}

// spread returns the largest step that keeps n evenly spaced keys inside the
// uint32 range.
func spread(n int) uint32 {
	if n < 2 {
		return 1
	}
	step := uint32(uint64(math.MaxUint32) / uint64(n))
	if step == 0 {
		step = 1
	}
	return step
}

// GenerateIPs returns n random IPv4 keys from cidr. Unlike Generate the
// result is not reproducible.
func GenerateIPs(cidr string, n int) ([]uint32, error) {
	ips, err := iputils.RandomIPsFromRange(cidr, n)
	if err != nil {
		return nil, fmt.Errorf("generating IPs from %s: %w", cidr, err)
	}

	keys := make([]uint32, len(ips))
	for i, ip := range ips {
		keys[i] = iputils.IPToUint32(ip)
	}
	return keys, nil
}
