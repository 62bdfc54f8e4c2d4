package testlib

import (
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
)

// Failer fails on demand.
type Failer interface {
	StoreError(sc *hresult.Scope, code hresult.HRESULT, message string) error
}

// ErrorSource fails every call with the code and message it is given.
type ErrorSource struct{}

func (*ErrorSource) Capabilities() []comobj.Capability {
	return []comobj.Capability{{IID: IIDErrorSource, Name: "IErrorSource"}}
}

func (*ErrorSource) StoreError(_ *hresult.Scope, code hresult.HRESULT, message string) error {
	return hresult.New(code, message)
}
