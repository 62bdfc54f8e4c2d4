package testlib

import (
	"sync"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/invoke"
)

// SharedInterface is a capability implemented by more than one object that
// takes other implementations as parameters.
type SharedInterface interface {
	GetValue(sc *hresult.Scope) (uint32, error)
	SetValue(sc *hresult.Scope, v uint32) error
	DivideBy(sc *hresult.Scope, divisor comobj.Handle) (uint32, error)
}

// SharedImplementation holds a single value.
type SharedImplementation struct {
	mu    sync.Mutex
	value uint32
}

func (*SharedImplementation) Capabilities() []comobj.Capability {
	return []comobj.Capability{{IID: IIDSharedInterface, Name: "ISharedInterface"}}
}

func (s *SharedImplementation) GetValue(*hresult.Scope) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

func (s *SharedImplementation) SetValue(_ *hresult.Scope, v uint32) error {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
	return nil
}

// DivideBy divides the value by the value of divisor, which may be any
// SharedInterface object including s itself.
func (s *SharedImplementation) DivideBy(sc *hresult.Scope, divisor comobj.Handle) (uint32, error) {
	d, err := invoke.Invoke(sc, divisor, func(sc *hresult.Scope, other SharedInterface) (uint32, error) {
		return other.GetValue(sc)
	})
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, hresult.New(hresult.EInvalidArg, "division by zero")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value / d, nil
}
