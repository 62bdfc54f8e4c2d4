package variant

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
)

// Variant is the transport layout of a dynamically typed value. VT selects
// which of the payload fields is meaningful:
//
//	Data    integers, floats, Bool and Date, little endian
//	Buf     Decimal, BSTR and CString bytes
//	Shared  the buffer of a shared string
//	Obj     the handle of Object and ObjectWithCapability
//	IID     the capability an ObjectWithCapability was narrowed to
//
// A Variant holding a shared buffer or an object owns one reference to it.
// Clear drops that reference; Copy takes a new one.
type Variant struct {
	VT     Tag
	Data   [8]byte
	Buf    []byte
	Shared *SharedBuffer
	Obj    comobj.Handle
	IID    guid.GUID
}

// IsEmpty reports whether v holds no value.
func (v Variant) IsEmpty() bool { return v.VT == TagEmpty || v.VT == TagNull }

// Decode is shorthand for v.Decode().
func Decode(v Variant) (any, error) { return v.Decode() }

// Decode returns the Go value of v: nil, int8 through uint64, float32,
// float64, bool, time.Time, Decimal, string or comobj.Handle. A returned
// handle carries its own reference.
func (v Variant) Decode() (any, error) {
	switch v.VT {
	case TagEmpty, TagNull:
		return nil, nil
	case TagInt8:
		return int8(v.Data[0]), nil
	case TagInt16:
		return int16(binary.LittleEndian.Uint16(v.Data[:2])), nil
	case TagInt32:
		return int32(binary.LittleEndian.Uint32(v.Data[:4])), nil
	case TagInt64:
		return int64(binary.LittleEndian.Uint64(v.Data[:])), nil
	case TagUint8:
		return v.Data[0], nil
	case TagUint16:
		return binary.LittleEndian.Uint16(v.Data[:2]), nil
	case TagUint32:
		return binary.LittleEndian.Uint32(v.Data[:4]), nil
	case TagUint64:
		return binary.LittleEndian.Uint64(v.Data[:]), nil
	case TagFloat32:
		return v.Float32()
	case TagFloat64:
		return v.Float64()
	case TagBool:
		return v.Bool()
	case TagDate:
		return v.Time()
	case TagDecimal:
		return v.Decimal()
	case TagBSTR, TagCString, TagShared:
		return v.Text()
	case TagObject, TagObjectWithCapability:
		return v.Object()
	}
	return nil, errBadVarType(v.VT)
}

// Validate checks that the payload of v is consistent with its tag without
// taking any reference.
func (v Variant) Validate() error {
	switch v.VT {
	case TagEmpty, TagNull,
		TagInt8, TagInt16, TagInt32, TagInt64,
		TagUint8, TagUint16, TagUint32, TagUint64,
		TagFloat32, TagFloat64:
		return nil
	case TagBool:
		_, err := v.Bool()
		return err
	case TagDate:
		_, err := v.Time()
		return err
	case TagDecimal:
		_, err := v.Decimal()
		return err
	case TagBSTR, TagCString, TagShared:
		_, err := v.Text()
		return err
	case TagObject:
		if v.Obj.IsNil() {
			return nil
		}
		_, err := v.Obj.RefCount()
		return err
	case TagObjectWithCapability:
		return v.checkCapability()
	}
	return errBadVarType(v.VT)
}

func (v Variant) signed(bits int, want string) (int64, error) {
	w, ok := signedBits(v.VT)
	if !ok {
		return 0, v.mismatch(want)
	}
	if w > bits {
		return 0, errOverflow(v.VT, want)
	}
	switch w {
	case 8:
		return int64(int8(v.Data[0])), nil
	case 16:
		return int64(int16(binary.LittleEndian.Uint16(v.Data[:2]))), nil
	case 32:
		return int64(int32(binary.LittleEndian.Uint32(v.Data[:4]))), nil
	default:
		return int64(binary.LittleEndian.Uint64(v.Data[:])), nil
	}
}

func (v Variant) unsigned(bits int, want string) (uint64, error) {
	w, ok := unsignedBits(v.VT)
	if !ok {
		return 0, v.mismatch(want)
	}
	if w > bits {
		return 0, errOverflow(v.VT, want)
	}
	switch w {
	case 8:
		return uint64(v.Data[0]), nil
	case 16:
		return uint64(binary.LittleEndian.Uint16(v.Data[:2])), nil
	case 32:
		return uint64(binary.LittleEndian.Uint32(v.Data[:4])), nil
	default:
		return binary.LittleEndian.Uint64(v.Data[:]), nil
	}
}

func (v Variant) mismatch(want string) error {
	if !v.VT.Known() {
		return errBadVarType(v.VT)
	}
	return errMismatch(v.VT, want)
}

// Int8 returns an Int8 value.
func (v Variant) Int8() (int8, error) {
	n, err := v.signed(8, "int8")
	return int8(n), err
}

// Int16 returns an Int8 or Int16 value.
func (v Variant) Int16() (int16, error) {
	n, err := v.signed(16, "int16")
	return int16(n), err
}

// Int32 returns a signed value of at most 32 bits.
func (v Variant) Int32() (int32, error) {
	n, err := v.signed(32, "int32")
	return int32(n), err
}

// Int64 returns any signed integer value.
func (v Variant) Int64() (int64, error) {
	return v.signed(64, "int64")
}

// Uint8 returns a Uint8 value.
func (v Variant) Uint8() (uint8, error) {
	n, err := v.unsigned(8, "uint8")
	return uint8(n), err
}

// Uint16 returns a Uint8 or Uint16 value.
func (v Variant) Uint16() (uint16, error) {
	n, err := v.unsigned(16, "uint16")
	return uint16(n), err
}

// Uint32 returns an unsigned value of at most 32 bits.
func (v Variant) Uint32() (uint32, error) {
	n, err := v.unsigned(32, "uint32")
	return uint32(n), err
}

// Uint64 returns any unsigned integer value.
func (v Variant) Uint64() (uint64, error) {
	return v.unsigned(64, "uint64")
}

// Float32 returns a Float32 value.
func (v Variant) Float32() (float32, error) {
	switch v.VT {
	case TagFloat32:
		return math.Float32frombits(binary.LittleEndian.Uint32(v.Data[:4])), nil
	case TagFloat64:
		return 0, errOverflow(v.VT, "float32")
	}
	return 0, v.mismatch("float32")
}

// Float64 returns a Float32 or Float64 value.
func (v Variant) Float64() (float64, error) {
	switch v.VT {
	case TagFloat32:
		f, err := v.Float32()
		return float64(f), err
	case TagFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(v.Data[:])), nil
	}
	return 0, v.mismatch("float64")
}

// Bool returns a Bool value. Only 0xFFFF and 0 are valid payloads.
func (v Variant) Bool() (bool, error) {
	if v.VT != TagBool {
		return false, v.mismatch("bool")
	}
	switch raw := binary.LittleEndian.Uint16(v.Data[:2]); raw {
	case 0xFFFF:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, errMalformed(TagBool, "payload 0x%04x", raw)
	}
}

// Date returns the raw day count of a Date value.
func (v Variant) Date() (float64, error) {
	if v.VT != TagDate {
		return 0, v.mismatch("date")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v.Data[:])), nil
}

// Time returns a Date value as a UTC time.
func (v Variant) Time() (time.Time, error) {
	d, err := v.Date()
	if err != nil {
		return time.Time{}, err
	}
	t, ok := timeFromDate(d)
	if !ok {
		return time.Time{}, errMalformed(TagDate, "day count %v out of range", d)
	}
	return t, nil
}

// Decimal returns a Decimal value.
func (v Variant) Decimal() (Decimal, error) {
	if v.VT != TagDecimal {
		return Decimal{}, v.mismatch("decimal")
	}
	return decimalFromBytes(v.Buf)
}

// Text returns the text of a string value in any of its encodings.
func (v Variant) Text() (string, error) {
	switch v.VT {
	case TagBSTR:
		return decodeBSTR(v.Buf)
	case TagCString:
		return decodeCString(v.Buf)
	case TagShared:
		return v.Shared.Text()
	}
	return "", v.mismatch("string")
}

// Object returns the handle of an object value with a new reference owned
// by the caller. An Object variant may hold the nil handle; an
// ObjectWithCapability is checked against its recorded capability and the
// returned handle is narrowed to it.
func (v Variant) Object() (comobj.Handle, error) {
	switch v.VT {
	case TagObject:
		if v.Obj.IsNil() {
			return comobj.Handle{}, nil
		}
		if err := v.Obj.AddRef(); err != nil {
			return comobj.Handle{}, err
		}
		return v.Obj, nil
	case TagObjectWithCapability:
		if err := v.checkCapability(); err != nil {
			return comobj.Handle{}, err
		}
		return v.Obj.QueryInterface(v.IID)
	}
	return comobj.Handle{}, v.mismatch("object")
}

func (v Variant) checkCapability() error {
	if v.Obj.IsNil() {
		return errMalformed(v.VT, "nil handle")
	}
	if v.IID.IsZero() {
		return errMalformed(v.VT, "no capability recorded")
	}
	if _, err := v.Obj.RefCount(); err != nil {
		return err
	}
	if !v.Obj.Supports(v.IID) {
		return hresult.Errorf(hresult.ENoInterface, "variant: object %d does not support recorded capability %s", v.Obj.Identity(), v.IID)
	}
	return nil
}

// Copy returns an independent copy of v holding its own references.
func (v Variant) Copy() (Variant, error) {
	c := v
	c.Buf = bytes.Clone(v.Buf)
	switch v.VT {
	case TagShared:
		if v.Shared == nil {
			return Variant{}, errMalformed(TagShared, "nil buffer")
		}
		if err := v.Shared.Retain(); err != nil {
			return Variant{}, err
		}
	case TagObject, TagObjectWithCapability:
		if !v.Obj.IsNil() {
			if err := v.Obj.AddRef(); err != nil {
				return Variant{}, err
			}
		}
	}
	return c, nil
}

// Clear drops the references held by v and resets it to Empty.
func (v *Variant) Clear() error {
	var err error
	switch v.VT {
	case TagShared:
		if v.Shared != nil {
			_, err = v.Shared.Release()
		}
	case TagObject, TagObjectWithCapability:
		if !v.Obj.IsNil() {
			_, err = v.Obj.Release()
		}
	}
	*v = Variant{}
	return err
}
