package hresult

import "fmt"

// HRESULT is the native 32-bit status code. Negative values are failures.
type HRESULT int32

// Well-known status codes. Failure codes are written as the negative int32
// value of their conventional unsigned spelling.
const (
	SOK    HRESULT = 0
	SFalse HRESULT = 1

	ENotImpl      HRESULT = -0x7FFFBFFF // 0x80004001
	ENoInterface  HRESULT = -0x7FFFBFFE // 0x80004002
	EPointer      HRESULT = -0x7FFFBFFD // 0x80004003
	EAbort        HRESULT = -0x7FFFBFFC // 0x80004004
	EFail         HRESULT = -0x7FFFBFFB // 0x80004005
	EUnexpected   HRESULT = -0x7FFF0001 // 0x8000FFFF
	EAccessDenied HRESULT = -0x7FF8FFFB // 0x80070005
	EOutOfMemory  HRESULT = -0x7FF8FFF2 // 0x8007000E
	EInvalidArg   HRESULT = -0x7FF8FFA9 // 0x80070057

	DispEMemberNotFound HRESULT = -0x7FFDFFFD // 0x80020003
	DispETypeMismatch   HRESULT = -0x7FFDFFFB // 0x80020005
	DispEUnknownName    HRESULT = -0x7FFDFFFA // 0x80020006
	DispEBadVarType     HRESULT = -0x7FFDFFF8 // 0x80020008
	DispEOverflow       HRESULT = -0x7FFDFFF6 // 0x8002000A
	DispEBadParamCount  HRESULT = -0x7FFDFFF2 // 0x8002000E

	TypeEInvDataRead HRESULT = -0x7FFD7FE8 // 0x80028018

	ClassEClassNotAvailable HRESULT = -0x7FFBFEEF // 0x80040111
)

// FromUint32 reinterprets the conventional unsigned spelling of a code.
func FromUint32(u uint32) HRESULT { return HRESULT(int32(u)) }

// Uint32 returns the unsigned spelling of h.
func (h HRESULT) Uint32() uint32 { return uint32(h) }

// Succeeded reports whether h is a success code.
func (h HRESULT) Succeeded() bool { return h >= 0 }

// Failed reports whether h is a failure code.
func (h HRESULT) Failed() bool { return h < 0 }

func (h HRESULT) String() string {
	return fmt.Sprintf("0x%08X", uint32(h))
}
