package testlib

import (
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
)

// Primitive is the numeric-width echo capability. Every integer method
// returns ^(v + 1) in the width of its argument.
type Primitive interface {
	I8(sc *hresult.Scope, v int8) (int8, error)
	U8(sc *hresult.Scope, v uint8) (uint8, error)
	I16(sc *hresult.Scope, v int16) (int16, error)
	U16(sc *hresult.Scope, v uint16) (uint16, error)
	I32(sc *hresult.Scope, v int32) (int32, error)
	U32(sc *hresult.Scope, v uint32) (uint32, error)
	I64(sc *hresult.Scope, v int64) (int64, error)
	U64(sc *hresult.Scope, v uint64) (uint64, error)
	F32(sc *hresult.Scope, v float32) (float32, error)
	F64(sc *hresult.Scope, v float64) (float64, error)
}

// PrimitiveOperations implements Primitive.
type PrimitiveOperations struct{}

func (*PrimitiveOperations) Capabilities() []comobj.Capability {
	return []comobj.Capability{{IID: IIDPrimitiveOperations, Name: "IPrimitiveOperations"}}
}

func (*PrimitiveOperations) I8(_ *hresult.Scope, v int8) (int8, error)        { return ^(v + 1), nil }
func (*PrimitiveOperations) U8(_ *hresult.Scope, v uint8) (uint8, error)      { return ^(v + 1), nil }
func (*PrimitiveOperations) I16(_ *hresult.Scope, v int16) (int16, error)     { return ^(v + 1), nil }
func (*PrimitiveOperations) U16(_ *hresult.Scope, v uint16) (uint16, error)   { return ^(v + 1), nil }
func (*PrimitiveOperations) I32(_ *hresult.Scope, v int32) (int32, error)     { return ^(v + 1), nil }
func (*PrimitiveOperations) U32(_ *hresult.Scope, v uint32) (uint32, error)   { return ^(v + 1), nil }
func (*PrimitiveOperations) I64(_ *hresult.Scope, v int64) (int64, error)     { return ^(v + 1), nil }
func (*PrimitiveOperations) U64(_ *hresult.Scope, v uint64) (uint64, error)   { return ^(v + 1), nil }
func (*PrimitiveOperations) F32(_ *hresult.Scope, v float32) (float32, error) { return 1 / v, nil }
func (*PrimitiveOperations) F64(_ *hresult.Scope, v float64) (float64, error) { return 1 / v, nil }
