// Package variant implements the self-describing value that crosses the
// component boundary.
//
// A Variant is a closed tagged union. Every tag in the table has exactly one
// payload layout, so either side can decode a value without knowing in
// advance which shape is present:
//
//	v, err := variant.Encode(int16(-7))          // TagInt16
//	v, err = variant.Encode(uint64(7), variant.TagUint32)
//	v, err = variant.Encoder{Strings: variant.CString}.Encode("text")
//
//	x, err := v.Decode()                         // exact Go type of the tag
//	n, err := v.Int64()                          // widening accessor
//
// Decoding never changes width or signedness silently. An accessor accepts a
// tag of the same signedness and equal or smaller width; a wider tag fails
// with DISP_E_OVERFLOW and any other shape with DISP_E_TYPEMISMATCH. Tags
// outside the table fail with DISP_E_BADVARTYPE and payloads that do not
// match their tag with TYPE_E_INVDATAREAD.
//
// Text has three physical encodings, BSTR, CString and a reference-counted
// shared buffer. They all decode to the same Go string.
//
// Dates are day counts since 1899-12-30 with the time of day as a
// non-negative fraction added to the day number, also for days before the
// epoch. Decoding rounds to the millisecond.
package variant
