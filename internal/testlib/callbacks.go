package testlib

import (
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/invoke"
)

// CallbackCaller calls back into objects supplied by the caller.
type CallbackCaller struct{}

func (*CallbackCaller) Capabilities() []comobj.Capability {
	return []comobj.Capability{{IID: IIDCallbackCaller, Name: "ICallbackCaller"}}
}

// ForwardError asks source to fail with code and message and returns
// whatever failure comes back.
func (*CallbackCaller) ForwardError(sc *hresult.Scope, source comobj.Handle, code hresult.HRESULT, message string) error {
	return invoke.InvokeVoid(sc, source, func(sc *hresult.Scope, f Failer) error {
		return f.StoreError(sc, code, message)
	})
}

// CheckPrimitive calls I32 on ops and fails with E_FAIL unless the result
// is ^(v + 1).
func (*CallbackCaller) CheckPrimitive(sc *hresult.Scope, ops comobj.Handle, v int32) error {
	got, err := invoke.Invoke(sc, ops, func(sc *hresult.Scope, p Primitive) (int32, error) {
		return p.I32(sc, v)
	})
	if err != nil {
		return err
	}
	if got != ^(v + 1) {
		return hresult.Errorf(hresult.EFail, "I32(%d) returned %d", v, got)
	}
	return nil
}

// AddByName adds v to target through its late-bound Add member.
func (*CallbackCaller) AddByName(sc *hresult.Scope, target comobj.Handle, v int32) (int32, error) {
	res, err := invoke.CallByName(sc, target, "Add", v)
	if err != nil {
		return 0, err
	}
	defer func() { _ = res.Clear() }()
	return res.Int32()
}
