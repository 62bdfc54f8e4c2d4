package testlib

import (
	"math/big"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/variant"
)

// VariantTests checks variants received as parameters against fixed
// expected values and returns variants as results.
type VariantTests struct{}

func (*VariantTests) Capabilities() []comobj.Capability {
	return []comobj.Capability{{IID: IIDVariantTests, Name: "IVariantTests"}}
}

// VariantParameter reports whether v carries tag vt and the expected value
// for that tag: -1 for signed, floating and decimal types, 129, 12929, 1292929 and
// 129292929 for the unsigned widths, the epoch for dates, "text" for
// strings and true for booleans.
func (*VariantTests) VariantParameter(_ *hresult.Scope, vt variant.Tag, v variant.Variant) (bool, error) {
	if v.VT != vt {
		return false, hresult.Errorf(hresult.EInvalidArg, "expected type %s, got %s", vt, v.VT)
	}

	switch vt {
	case variant.TagEmpty, variant.TagNull:
		return true, nil
	case variant.TagDecimal:
		d, err := v.Decimal()
		if err != nil {
			return false, err
		}
		return decimalIs(d, -1), nil
	case variant.TagInt8:
		return expect(v.Int8, -1)
	case variant.TagInt16:
		return expect(v.Int16, -1)
	case variant.TagInt32:
		return expect(v.Int32, -1)
	case variant.TagInt64:
		return expect(v.Int64, -1)
	case variant.TagUint8:
		return expect(v.Uint8, 129)
	case variant.TagUint16:
		return expect(v.Uint16, 12929)
	case variant.TagUint32:
		return expect(v.Uint32, 1292929)
	case variant.TagUint64:
		return expect(v.Uint64, 129292929)
	case variant.TagFloat32:
		return expect(v.Float32, -1)
	case variant.TagFloat64:
		return expect(v.Float64, -1)
	case variant.TagBool:
		return expect(v.Bool, true)
	case variant.TagDate:
		t, err := v.Time()
		if err != nil {
			return false, err
		}
		if !t.Equal(variant.Epoch) {
			return false, hresult.Errorf(hresult.EFail, "not the epoch: %s", t)
		}
		return true, nil
	case variant.TagBSTR, variant.TagCString, variant.TagShared:
		return expect(v.Text, "text")
	case variant.TagObject, variant.TagObjectWithCapability:
		h, err := v.Object()
		if err != nil {
			return false, err
		}
		if !h.IsNil() {
			_, err = h.Release()
		}
		return err == nil, err
	}
	return false, hresult.Errorf(hresult.ENotImpl, "no expected value for %s", vt)
}

func expect[T comparable](get func() (T, error), want T) (bool, error) {
	got, err := get()
	if err != nil {
		return false, err
	}
	return got == want, nil
}

// decimalIs compares by value, so -1 and -1.00 are both -1.
func decimalIs(d variant.Decimal, want int64) bool {
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)
	return new(big.Rat).SetFrac(d.Coefficient(), denom).Cmp(new(big.Rat).SetInt64(want)) == 0
}

// VariantResult returns the Int32 123.
func (*VariantTests) VariantResult(*hresult.Scope) (variant.Variant, error) {
	return variant.Encode(int32(123))
}

// VariantEcho returns a copy of v owned by the caller.
func (*VariantTests) VariantEcho(_ *hresult.Scope, v variant.Variant) (variant.Variant, error) {
	return v.Copy()
}
