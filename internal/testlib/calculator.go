package testlib

import (
	"math"
	"sync"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/invoke"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/variant"
)

// Calculator keeps an Int32 accumulator. It is reachable both early bound
// through its methods and late bound by name through IDispatch.
type Calculator struct {
	*invoke.MethodTable

	mu    sync.Mutex
	value int32
}

// NewCalculator returns a Calculator at zero with its late-bound members
// registered.
func NewCalculator() *Calculator {
	c := &Calculator{MethodTable: invoke.NewMethodTable()}
	c.MethodTable.Add("Add", 1, c.late(c.Add))
	c.MethodTable.Add("Subtract", 1, c.late(c.Subtract))
	c.MethodTable.Add("Multiply", 1, c.late(c.Multiply))
	c.MethodTable.Add("Value", 0, func(sc *hresult.Scope, _ []variant.Variant) (variant.Variant, error) {
		v, err := c.Value(sc)
		if err != nil {
			return variant.Variant{}, err
		}
		return variant.Encode(v)
	})
	return c
}

func (*Calculator) Capabilities() []comobj.Capability {
	return []comobj.Capability{{IID: IIDCalculator, Name: "ICalculator"}, comobj.Dispatch}
}

func (c *Calculator) Value(*hresult.Scope) (int32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, nil
}

func (c *Calculator) Add(_ *hresult.Scope, v int32) (int32, error) {
	return c.apply("+", v, func(a, b int64) int64 { return a + b })
}

func (c *Calculator) Subtract(_ *hresult.Scope, v int32) (int32, error) {
	return c.apply("-", v, func(a, b int64) int64 { return a - b })
}

func (c *Calculator) Multiply(_ *hresult.Scope, v int32) (int32, error) {
	return c.apply("*", v, func(a, b int64) int64 { return a * b })
}

// apply leaves the accumulator unchanged when the result does not fit.
func (c *Calculator) apply(op string, v int32, fn func(a, b int64) int64) (int32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := fn(int64(c.value), int64(v))
	if r < math.MinInt32 || r > math.MaxInt32 {
		return c.value, hresult.Errorf(hresult.DispEOverflow, "%d %s %d overflows Int32", c.value, op, v)
	}
	c.value = int32(r)
	return c.value, nil
}

func (c *Calculator) late(fn func(sc *hresult.Scope, v int32) (int32, error)) invoke.Method {
	return func(sc *hresult.Scope, args []variant.Variant) (variant.Variant, error) {
		v, err := args[0].Int32()
		if err != nil {
			return variant.Variant{}, err
		}
		r, err := fn(sc, v)
		if err != nil {
			return variant.Variant{}, err
		}
		return variant.Encode(r)
	}
}
