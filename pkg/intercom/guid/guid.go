// Package guid implements the 128-bit identifiers used for capabilities
// (interface IDs) and classes (class IDs).
package guid

import (
	"crypto/sha1" // #nosec G505 -- name-based identifiers, not a security boundary
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// GUID is the binary identifier layout shared with the native side.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// ErrFormat reports a string that is not a GUID in one of the accepted forms.
var ErrFormat = errors.New("guid: unrecognized format")

// Zero is the all-zero GUID.
var Zero GUID

// autoBase seeds name-based generation so generated identifiers do not
// collide with identifiers hashed by other schemes.
var autoBase = GUID{
	Data1: 0x4449494C,
	Data2: 0xDE1F,
	Data3: 0x4525,
	Data4: [8]byte{0xB9, 0x57, 0x89, 0xD6, 0x0C, 0xE9, 0x34, 0x77},
}

// Parse accepts the braced ({xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx}),
// hyphenated and raw 32-digit forms.
func Parse(s string) (GUID, error) {
	var hex string
	switch len(s) {
	case 38:
		if s[0] != '{' || s[37] != '}' {
			return Zero, fmt.Errorf("%w: %q", ErrFormat, s)
		}
		s = s[1:37]
		fallthrough
	case 36:
		for _, i := range []int{8, 13, 18, 23} {
			if s[i] != '-' {
				return Zero, fmt.Errorf("%w: %q", ErrFormat, s)
			}
		}
		hex = strings.ReplaceAll(s, "-", "")
	case 32:
		hex = s
	default:
		return Zero, fmt.Errorf("%w: %q (%d chars)", ErrFormat, s, len(s))
	}
	if len(hex) != 32 {
		return Zero, fmt.Errorf("%w: %q", ErrFormat, s)
	}

	var b [16]byte
	for i := range b {
		hi, ok1 := nibble(hex[2*i])
		lo, ok2 := nibble(hex[2*i+1])
		if !ok1 || !ok2 {
			return Zero, fmt.Errorf("%w: invalid digit in %q", ErrFormat, s)
		}
		b[i] = hi<<4 | lo
	}
	return fromBigEndian(b), nil
}

// MustParse is Parse for package-level declarations; it panics on error.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// Generate derives a stable identifier from key following RFC 4122 §4.3
// (name-based, SHA-1).
func Generate(key string) GUID {
	h := sha1.New() // #nosec G401
	base := autoBase.Bytes()
	h.Write(base[:])
	h.Write([]byte(key))
	sum := h.Sum(nil)

	var b [16]byte
	copy(b[:], sum[:16])
	b[6] = b[6]&0x0f | 0x30
	b[8] = b[8]&0x3f | 0x40
	return fromBigEndian(b)
}

// ForInterface returns the generated interface ID of a capability declared
// by component.
func ForInterface(component, name string) GUID {
	return Generate("IID:" + component + ":" + name)
}

// ForClass returns the generated class ID of a class declared by component.
func ForClass(component, name string) GUID {
	return Generate("CLSID:" + component + ":" + name)
}

// IsZero reports whether g is the all-zero GUID.
func (g GUID) IsZero() bool { return g == Zero }

// Bytes returns the little-endian memory layout of g.
func (g GUID) Bytes() [16]byte {
	var b [16]byte
	binary.LittleEndian.PutUint32(b[0:4], g.Data1)
	binary.LittleEndian.PutUint16(b[4:6], g.Data2)
	binary.LittleEndian.PutUint16(b[6:8], g.Data3)
	copy(b[8:], g.Data4[:])
	return b
}

// String formats g in the lowercase hyphenated form.
func (g GUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1], g.Data4[2], g.Data4[3],
		g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

// MarshalText implements encoding.TextMarshaler.
func (g GUID) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GUID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

func fromBigEndian(b [16]byte) GUID {
	var g GUID
	g.Data1 = binary.BigEndian.Uint32(b[0:4])
	g.Data2 = binary.BigEndian.Uint16(b[4:6])
	g.Data3 = binary.BigEndian.Uint16(b[6:8])
	copy(g.Data4[:], b[8:])
	return g
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
