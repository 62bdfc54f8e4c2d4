package variant

import (
	"encoding/binary"
	"math"
	"math/big"
	"time"
	"unicode/utf8"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
)

// Encoder turns Go values into Variants. The zero Encoder writes text as
// BSTR.
type Encoder struct {
	Strings StringEncoding
}

// Encode encodes value with the zero Encoder.
func Encode(value any, hint ...Tag) (Variant, error) {
	return Encoder{}.Encode(value, hint...)
}

// Encode returns the Variant for value. Without a hint every Go type gets
// its natural tag: int and uint are 64-bit, strings use e.Strings, and a
// handle narrowed to anything but IUnknown keeps its capability. A hint
// selects another tag; numeric values must fit it exactly or the call fails
// with DISP_E_OVERFLOW.
//
// Encoding a handle adds a reference owned by the returned Variant.
func (e Encoder) Encode(value any, hint ...Tag) (Variant, error) {
	var want Tag
	hinted := len(hint) > 0
	if hinted {
		if len(hint) > 1 {
			return Variant{}, hresult.New(hresult.DispEBadParamCount, "variant: at most one tag hint")
		}
		want = hint[0]
		if !want.Known() || want == TagNull {
			return Variant{}, errBadVarType(want)
		}
	}
	pick := func(natural Tag) Tag {
		if hinted {
			return want
		}
		return natural
	}

	switch x := value.(type) {
	case nil:
		if pick(TagEmpty) != TagEmpty {
			return Variant{}, errUnencodable(value, want)
		}
		return Variant{}, nil
	case int8:
		return encodeSigned(int64(x), pick(TagInt8))
	case int16:
		return encodeSigned(int64(x), pick(TagInt16))
	case int32:
		return encodeSigned(int64(x), pick(TagInt32))
	case int64:
		return encodeSigned(x, pick(TagInt64))
	case int:
		return encodeSigned(int64(x), pick(TagInt64))
	case uint8:
		return encodeUnsigned(uint64(x), pick(TagUint8))
	case uint16:
		return encodeUnsigned(uint64(x), pick(TagUint16))
	case uint32:
		return encodeUnsigned(uint64(x), pick(TagUint32))
	case uint64:
		return encodeUnsigned(x, pick(TagUint64))
	case uint:
		return encodeUnsigned(uint64(x), pick(TagUint64))
	case float32:
		return encodeFloat(float64(x), pick(TagFloat32))
	case float64:
		return encodeFloat(x, pick(TagFloat64))
	case bool:
		if pick(TagBool) != TagBool {
			return Variant{}, errUnencodable(value, want)
		}
		v := Variant{VT: TagBool}
		if x {
			binary.LittleEndian.PutUint16(v.Data[:2], 0xFFFF)
		}
		return v, nil
	case time.Time:
		if pick(TagDate) != TagDate {
			return Variant{}, errUnencodable(value, want)
		}
		d, err := DateFromTime(x)
		if err != nil {
			return Variant{}, err
		}
		return dateVariant(d), nil
	case Decimal:
		if pick(TagDecimal) != TagDecimal {
			return Variant{}, errUnencodable(value, want)
		}
		if x.Scale > MaxDecimalScale {
			return Variant{}, errValueOverflow(x, TagDecimal)
		}
		return Variant{VT: TagDecimal, Buf: x.bytes()}, nil
	case string:
		tag := pick(e.Strings.Tag())
		if !tag.IsString() {
			return Variant{}, errUnencodable(value, want)
		}
		return encodeString(x, tag)
	case *SharedBuffer:
		if pick(TagShared) != TagShared {
			return Variant{}, errUnencodable(value, want)
		}
		if x == nil {
			return Variant{}, hresult.New(hresult.EPointer, "variant: nil shared buffer")
		}
		if err := x.Retain(); err != nil {
			return Variant{}, err
		}
		return Variant{VT: TagShared, Shared: x}, nil
	case comobj.Handle:
		natural := TagObjectWithCapability
		if x.IID() == comobj.IIDUnknown || x.IsNil() {
			natural = TagObject
		}
		return encodeObject(x, pick(natural))
	case Variant:
		if hinted && want != x.VT {
			return Variant{}, errUnencodable(value, want)
		}
		return x.Copy()
	}
	return Variant{}, errUnencodable(value, want)
}

// WithCapability narrows h to iid and returns it as an
// ObjectWithCapability variant owning the narrowed reference.
func WithCapability(h comobj.Handle, iid guid.GUID) (Variant, error) {
	n, err := h.QueryInterface(iid)
	if err != nil {
		return Variant{}, err
	}
	return Variant{VT: TagObjectWithCapability, Obj: n, IID: iid}, nil
}

func encodeSigned(i int64, tag Tag) (Variant, error) {
	if bits, ok := signedBits(tag); ok {
		if bits < 64 && (i < -(1<<(bits-1)) || i > 1<<(bits-1)-1) {
			return Variant{}, errValueOverflow(i, tag)
		}
		return intVariant(tag, bits, uint64(i)), nil
	}
	if bits, ok := unsignedBits(tag); ok {
		if i < 0 || (bits < 64 && uint64(i) >= 1<<bits) {
			return Variant{}, errValueOverflow(i, tag)
		}
		return intVariant(tag, bits, uint64(i)), nil
	}
	return encodeExact(big.NewInt(i), float64(i), i, tag)
}

func encodeUnsigned(u uint64, tag Tag) (Variant, error) {
	if bits, ok := signedBits(tag); ok {
		if u > 1<<(bits-1)-1 {
			return Variant{}, errValueOverflow(u, tag)
		}
		return intVariant(tag, bits, u), nil
	}
	if bits, ok := unsignedBits(tag); ok {
		if bits < 64 && u >= 1<<bits {
			return Variant{}, errValueOverflow(u, tag)
		}
		return intVariant(tag, bits, u), nil
	}
	return encodeExact(new(big.Int).SetUint64(u), float64(u), u, tag)
}

// encodeExact stores an integer in a float or decimal tag when no precision
// is lost.
func encodeExact(n *big.Int, f float64, orig any, tag Tag) (Variant, error) {
	switch tag {
	case TagFloat64, TagFloat32:
		limit := int64(1) << 53
		if tag == TagFloat32 {
			limit = 1 << 24
		}
		if n.CmpAbs(big.NewInt(limit)) > 0 {
			return Variant{}, errValueOverflow(orig, tag)
		}
		return encodeFloat(f, tag)
	case TagDecimal:
		d, err := NewDecimal(n, 0)
		if err != nil {
			return Variant{}, err
		}
		return Variant{VT: TagDecimal, Buf: d.bytes()}, nil
	}
	return Variant{}, errUnencodable(orig, tag)
}

func encodeFloat(f float64, tag Tag) (Variant, error) {
	var v Variant
	switch tag {
	case TagFloat64:
		v.VT = TagFloat64
		binary.LittleEndian.PutUint64(v.Data[:], math.Float64bits(f))
	case TagFloat32:
		if !math.IsNaN(f) && float64(float32(f)) != f {
			return Variant{}, errValueOverflow(f, tag)
		}
		v.VT = TagFloat32
		binary.LittleEndian.PutUint32(v.Data[:4], math.Float32bits(float32(f)))
	case TagDate:
		if _, err := TimeFromDate(f); err != nil {
			return Variant{}, err
		}
		v = dateVariant(f)
	default:
		return Variant{}, errUnencodable(f, tag)
	}
	return v, nil
}

func encodeString(s string, tag Tag) (Variant, error) {
	if !utf8.ValidString(s) {
		return Variant{}, hresult.New(hresult.EInvalidArg, "variant: text is not valid UTF-8")
	}
	switch tag {
	case TagCString:
		b, err := encodeCString(s)
		if err != nil {
			return Variant{}, err
		}
		return Variant{VT: TagCString, Buf: b}, nil
	case TagShared:
		return Variant{VT: TagShared, Shared: NewSharedBuffer(s)}, nil
	default:
		return Variant{VT: TagBSTR, Buf: encodeBSTR(s)}, nil
	}
}

func encodeObject(h comobj.Handle, tag Tag) (Variant, error) {
	switch tag {
	case TagObject:
		if h.IsNil() {
			return Variant{VT: TagObject}, nil
		}
		if err := h.AddRef(); err != nil {
			return Variant{}, err
		}
		return Variant{VT: TagObject, Obj: h}, nil
	case TagObjectWithCapability:
		if h.IsNil() {
			return Variant{}, hresult.New(hresult.EPointer, "variant: nil handle has no capability")
		}
		return WithCapability(h, h.IID())
	}
	return Variant{}, errUnencodable(h, tag)
}

func intVariant(tag Tag, bits int, raw uint64) Variant {
	v := Variant{VT: tag}
	switch bits {
	case 8:
		v.Data[0] = byte(raw)
	case 16:
		binary.LittleEndian.PutUint16(v.Data[:2], uint16(raw))
	case 32:
		binary.LittleEndian.PutUint32(v.Data[:4], uint32(raw))
	default:
		binary.LittleEndian.PutUint64(v.Data[:], raw)
	}
	return v
}

func dateVariant(d float64) Variant {
	v := Variant{VT: TagDate}
	binary.LittleEndian.PutUint64(v.Data[:], math.Float64bits(d))
	return v
}
