package variant

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
)

// StringEncoding selects the physical form of encoded text.
type StringEncoding uint8

const (
	// BSTR is a 4-byte little-endian byte length, UTF-16LE code units and a
	// two-byte terminator.
	BSTR StringEncoding = iota
	// CString is UTF-8 followed by a NUL byte. It cannot carry an embedded NUL.
	CString
	// Shared is a reference-counted buffer shared by every copy of the variant.
	Shared
)

// ParseStringEncoding maps a configuration name to an encoding.
func ParseStringEncoding(name string) (StringEncoding, error) {
	switch strings.ToLower(name) {
	case "", "bstr":
		return BSTR, nil
	case "cstring":
		return CString, nil
	case "shared":
		return Shared, nil
	}
	return 0, fmt.Errorf("variant: unknown string encoding %q", name)
}

// Tag returns the variant tag of e.
func (e StringEncoding) Tag() Tag {
	switch e {
	case CString:
		return TagCString
	case Shared:
		return TagShared
	default:
		return TagBSTR
	}
}

func (e StringEncoding) String() string {
	switch e {
	case CString:
		return "cstring"
	case Shared:
		return "shared"
	default:
		return "bstr"
	}
}

func encodeBSTR(s string) []byte {
	units := utf16.Encode([]rune(s))
	n := len(units) * 2
	b := make([]byte, 4+n+2)
	binary.LittleEndian.PutUint32(b[:4], uint32(n))
	for i, u := range units {
		binary.LittleEndian.PutUint16(b[4+2*i:], u)
	}
	return b
}

func decodeBSTR(b []byte) (string, error) {
	if len(b) < 6 {
		return "", errMalformed(TagBSTR, "payload is %d bytes", len(b))
	}
	n := int64(binary.LittleEndian.Uint32(b[:4]))
	if n%2 != 0 {
		return "", errMalformed(TagBSTR, "odd byte length %d", n)
	}
	if 4+n+2 > int64(len(b)) {
		return "", errMalformed(TagBSTR, "declared length %d exceeds buffer of %d bytes", n, len(b)-6)
	}
	if b[4+n] != 0 || b[4+n+1] != 0 {
		return "", errMalformed(TagBSTR, "missing terminator")
	}
	units := make([]uint16, n/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[4+2*i:])
	}
	return string(utf16.Decode(units)), nil
}

func encodeCString(s string) ([]byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, hresult.New(hresult.EInvalidArg, "variant: CString text contains a NUL byte")
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b, nil
}

func decodeCString(b []byte) (string, error) {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return "", errMalformed(TagCString, "missing NUL terminator")
	}
	if !utf8.Valid(b[:i]) {
		return "", errMalformed(TagCString, "invalid UTF-8")
	}
	return string(b[:i]), nil
}

// SharedBuffer is reference-counted text shared between variants. The
// creator holds the first reference.
type SharedBuffer struct {
	refs atomic.Int32
	text string
}

// NewSharedBuffer returns a buffer holding s with a count of one.
func NewSharedBuffer(s string) *SharedBuffer {
	b := &SharedBuffer{text: s}
	b.refs.Store(1)
	return b
}

// Retain adds a reference. A released buffer cannot be retained again.
func (b *SharedBuffer) Retain() error {
	for {
		n := b.refs.Load()
		if n <= 0 {
			return errMalformed(TagShared, "buffer already released")
		}
		if b.refs.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// Release drops a reference and returns the remaining count.
func (b *SharedBuffer) Release() (int32, error) {
	for {
		n := b.refs.Load()
		if n <= 0 {
			return 0, errMalformed(TagShared, "buffer already released")
		}
		if b.refs.CompareAndSwap(n, n-1) {
			return n - 1, nil
		}
	}
}

// Refs returns the current count.
func (b *SharedBuffer) Refs() int32 { return b.refs.Load() }

// Text returns the buffer contents.
func (b *SharedBuffer) Text() (string, error) {
	if b == nil {
		return "", errMalformed(TagShared, "nil buffer")
	}
	if b.refs.Load() <= 0 {
		return "", errMalformed(TagShared, "buffer already released")
	}
	return b.text, nil
}
