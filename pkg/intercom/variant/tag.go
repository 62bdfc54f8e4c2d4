package variant

import "fmt"

// Tag identifies the shape held by a Variant. Values follow the OLE
// automation VARTYPE numbering; tags without an automation equivalent use
// the 0x0FF0..0x0FFF extension range.
type Tag uint16

// TagVersion is the revision of the tag table. It changes whenever a tag is
// added, so both sides of a boundary can refuse a table they do not know.
const TagVersion = 1

const (
	TagEmpty   Tag = 0
	TagNull    Tag = 1 // decoded as Empty, never produced
	TagInt16   Tag = 2
	TagInt32   Tag = 3
	TagFloat32 Tag = 4
	TagFloat64 Tag = 5
	TagDate    Tag = 7
	TagBSTR    Tag = 8
	TagBool    Tag = 11
	TagObject  Tag = 13
	TagDecimal Tag = 14
	TagInt8    Tag = 16
	TagUint8   Tag = 17
	TagUint16  Tag = 18
	TagUint32  Tag = 19
	TagInt64   Tag = 20
	TagUint64  Tag = 21
	TagCString Tag = 30

	TagShared               Tag = 0x0FF0
	TagObjectWithCapability Tag = 0x0FF1
)

// Known reports whether t is part of the tag table.
func (t Tag) Known() bool {
	switch t {
	case TagEmpty, TagNull,
		TagInt8, TagInt16, TagInt32, TagInt64,
		TagUint8, TagUint16, TagUint32, TagUint64,
		TagFloat32, TagFloat64, TagBool, TagDate, TagDecimal,
		TagBSTR, TagCString, TagShared,
		TagObject, TagObjectWithCapability:
		return true
	}
	return false
}

// IsString reports whether t carries text in one of its physical encodings.
func (t Tag) IsString() bool {
	return t == TagBSTR || t == TagCString || t == TagShared
}

// IsObject reports whether t carries an object handle.
func (t Tag) IsObject() bool {
	return t == TagObject || t == TagObjectWithCapability
}

func (t Tag) String() string {
	switch t {
	case TagEmpty:
		return "Empty"
	case TagNull:
		return "Null"
	case TagInt8:
		return "Int8"
	case TagInt16:
		return "Int16"
	case TagInt32:
		return "Int32"
	case TagInt64:
		return "Int64"
	case TagUint8:
		return "Uint8"
	case TagUint16:
		return "Uint16"
	case TagUint32:
		return "Uint32"
	case TagUint64:
		return "Uint64"
	case TagFloat32:
		return "Float32"
	case TagFloat64:
		return "Float64"
	case TagBool:
		return "Bool"
	case TagDate:
		return "Date"
	case TagDecimal:
		return "Decimal"
	case TagBSTR:
		return "BSTR"
	case TagCString:
		return "CString"
	case TagShared:
		return "SharedString"
	case TagObject:
		return "Object"
	case TagObjectWithCapability:
		return "ObjectWithCapability"
	default:
		return fmt.Sprintf("Tag(0x%04x)", uint16(t))
	}
}

// signedBits returns the width of a signed integer tag.
func signedBits(t Tag) (int, bool) {
	switch t {
	case TagInt8:
		return 8, true
	case TagInt16:
		return 16, true
	case TagInt32:
		return 32, true
	case TagInt64:
		return 64, true
	}
	return 0, false
}

// unsignedBits returns the width of an unsigned integer tag.
func unsignedBits(t Tag) (int, bool) {
	switch t {
	case TagUint8:
		return 8, true
	case TagUint16:
		return 16, true
	case TagUint32:
		return 32, true
	case TagUint64:
		return 64, true
	}
	return 0, false
}
