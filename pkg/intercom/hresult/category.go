package hresult

import "errors"

// Category is the caller-visible classification of a failure.
type Category uint8

const (
	NativeFailure Category = iota
	NotImplemented
	InvalidArgument
	InvalidReference
	NoSuchCapability
	Aborted
	AccessDenied
	MalformedVariant
	UnsupportedVariantShape
)

// AccessDeniedMessage replaces the description of every E_ACCESSDENIED
// failure.
const AccessDeniedMessage = "Attempted to perform an unauthorized operation."

// Sentinels matched by errors.Is against both *Error and Signal.
var (
	ErrNativeFailure           = errors.New("native failure")
	ErrNotImplemented          = errors.New("not implemented")
	ErrInvalidArgument         = errors.New("invalid argument")
	ErrInvalidReference        = errors.New("invalid reference")
	ErrNoSuchCapability        = errors.New("no such capability")
	ErrAborted                 = errors.New("operation aborted")
	ErrAccessDenied            = errors.New("access denied")
	ErrMalformedVariant        = errors.New("malformed variant")
	ErrUnsupportedVariantShape = errors.New("unsupported variant shape")
)

var sentinels = [...]error{
	NativeFailure:           ErrNativeFailure,
	NotImplemented:          ErrNotImplemented,
	InvalidArgument:         ErrInvalidArgument,
	InvalidReference:        ErrInvalidReference,
	NoSuchCapability:        ErrNoSuchCapability,
	Aborted:                 ErrAborted,
	AccessDenied:            ErrAccessDenied,
	MalformedVariant:        ErrMalformedVariant,
	UnsupportedVariantShape: ErrUnsupportedVariantShape,
}

// mapping is ordered by specificity; the first matching row wins.
var mapping = []struct {
	codes    []HRESULT
	category Category
}{
	{[]HRESULT{ENotImpl, DispEMemberNotFound, DispEUnknownName}, NotImplemented},
	{[]HRESULT{EInvalidArg, DispETypeMismatch, DispEOverflow, DispEBadParamCount}, InvalidArgument},
	{[]HRESULT{EPointer}, InvalidReference},
	{[]HRESULT{ENoInterface}, NoSuchCapability},
	{[]HRESULT{EAbort}, Aborted},
	{[]HRESULT{EAccessDenied}, AccessDenied},
	{[]HRESULT{TypeEInvDataRead}, MalformedVariant},
	{[]HRESULT{DispEBadVarType}, UnsupportedVariantShape},
}

// CategoryOf classifies code. It is total: codes outside the table,
// success codes included, are NativeFailure.
func CategoryOf(code HRESULT) Category {
	for _, row := range mapping {
		for _, c := range row.codes {
			if c == code {
				return row.category
			}
		}
	}
	return NativeFailure
}

// Sentinel returns the errors.Is target for c.
func (c Category) Sentinel() error {
	if int(c) < len(sentinels) {
		return sentinels[c]
	}
	return ErrNativeFailure
}

func (c Category) String() string {
	switch c {
	case NotImplemented:
		return "NotImplemented"
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidReference:
		return "InvalidReference"
	case NoSuchCapability:
		return "NoSuchCapability"
	case Aborted:
		return "Aborted"
	case AccessDenied:
		return "AccessDenied"
	case MalformedVariant:
		return "MalformedVariant"
	case UnsupportedVariantShape:
		return "UnsupportedVariantShape"
	default:
		return "NativeFailure"
	}
}
