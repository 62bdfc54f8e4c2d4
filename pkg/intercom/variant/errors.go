package variant

import (
	"fmt"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
)

func errBadVarType(t Tag) error {
	return hresult.Errorf(hresult.DispEBadVarType, "variant: unsupported tag %s", t)
}

func errMalformed(t Tag, format string, args ...any) error {
	return hresult.Errorf(hresult.TypeEInvDataRead, "variant: malformed %s: %s", t, fmt.Sprintf(format, args...))
}

func errMismatch(t Tag, want string) error {
	return hresult.Errorf(hresult.DispETypeMismatch, "variant: cannot read %s as %s", t, want)
}

func errOverflow(t Tag, want string) error {
	return hresult.Errorf(hresult.DispEOverflow, "variant: %s does not fit in %s", t, want)
}

func errValueOverflow(v any, t Tag) error {
	return hresult.Errorf(hresult.DispEOverflow, "variant: %v does not fit in %s", v, t)
}

func errUnencodable(v any, t Tag) error {
	if t == TagEmpty {
		return hresult.Errorf(hresult.DispETypeMismatch, "variant: cannot encode %T", v)
	}
	return hresult.Errorf(hresult.DispETypeMismatch, "variant: cannot encode %T as %s", v, t)
}
