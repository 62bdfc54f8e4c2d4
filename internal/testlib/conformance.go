package testlib

import (
	"errors"
	"fmt"
	"math"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/invoke"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/variant"
)

// Check is one end-to-end probe of an opened testlib component.
type Check struct {
	Name string
	Run  func(lib *intercom.Library) error
}

// Result is the outcome of a Check.
type Result struct {
	Name string
	Err  error
}

// Checks returns the probes run by Conformance, in order.
func Checks() []Check {
	return []Check{
		{"primitive echo", checkPrimitiveEcho},
		{"object identity", checkIdentity},
		{"callback errors", checkCallbackErrors},
		{"variant parameters", checkVariants},
		{"late binding", checkLateBinding},
	}
}

// Conformance runs every check against lib and returns one Result per
// check. It does not stop at the first failure.
func Conformance(lib *intercom.Library) []Result {
	checks := Checks()
	out := make([]Result, 0, len(checks))
	for _, c := range checks {
		out = append(out, Result{Name: c.Name, Err: c.Run(lib)})
	}
	return out
}

func withObject(lib *intercom.Library, class string, iid guid.GUID, fn func(h comobj.Handle) error) (err error) {
	h, err := lib.CreateByName(nil, class, iid)
	if err != nil {
		return err
	}
	defer func() {
		if _, rerr := h.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(h)
}

func checkPrimitiveEcho(lib *intercom.Library) error {
	return withObject(lib, "PrimitiveOperations", IIDPrimitiveOperations, func(h comobj.Handle) error {
		for _, v := range []int64{0, 1, 10, math.MaxInt64, math.MinInt64} {
			got, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, p Primitive) (int64, error) {
				return p.I64(sc, v)
			})
			if err != nil {
				return err
			}
			if got != ^(v + 1) {
				return fmt.Errorf("I64(%d) = %d", v, got)
			}
		}
		for _, v := range []uint32{0, 1, 10, math.MaxUint32} {
			got, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, p Primitive) (uint32, error) {
				return p.U32(sc, v)
			})
			if err != nil {
				return err
			}
			if got != ^(v + 1) {
				return fmt.Errorf("U32(%d) = %d", v, got)
			}
		}
		return nil
	})
}

func checkIdentity(lib *intercom.Library) error {
	return withObject(lib, "ClassCreator", IIDClassCreator, func(creator comobj.Handle) error {
		root, err := invoke.Invoke(nil, creator, func(sc *hresult.Scope, c *ClassCreator) (comobj.Handle, error) {
			return c.CreateRoot(sc, 1)
		})
		if err != nil {
			return err
		}
		defer func() { _, _ = root.Release() }()

		parent, err := root.QueryInterface(IIDParent)
		if err != nil {
			return err
		}
		defer func() { _, _ = parent.Release() }()
		if !parent.Same(root) {
			return errors.New("narrowed handle has a different identity")
		}
		if _, err := root.QueryInterface(IIDCalculator); !errors.Is(err, hresult.ErrNoSuchCapability) {
			return fmt.Errorf("narrowing to a missing capability: %v", err)
		}
		n, err := root.RefCount()
		if err != nil {
			return err
		}
		if n != 2 {
			return fmt.Errorf("reference count %d after one narrowing, want 2", n)
		}
		return nil
	})
}

func checkCallbackErrors(lib *intercom.Library) error {
	return withObject(lib, "CallbackCaller", IIDCallbackCaller, func(caller comobj.Handle) error {
		return withObject(lib, "ErrorSource", IIDErrorSource, func(source comobj.Handle) error {
			for _, code := range []hresult.HRESULT{hresult.EFail, hresult.EInvalidArg, hresult.ENoInterface, hresult.EAccessDenied} {
				err := invoke.InvokeVoid(nil, caller, func(sc *hresult.Scope, c *CallbackCaller) error {
					return c.ForwardError(sc, source, code, "probe")
				})
				var typed *hresult.Error
				if !errors.As(err, &typed) {
					return fmt.Errorf("%s: got %v, want a translated error", code, err)
				}
				if typed.Code != code || typed.Category != hresult.CategoryOf(code) {
					return fmt.Errorf("%s: got %s (%s)", code, typed.Code, typed.Category)
				}
			}
			return nil
		})
	})
}

func checkVariants(lib *intercom.Library) error {
	return withObject(lib, "VariantTests", IIDVariantTests, func(h comobj.Handle) error {
		for _, value := range []any{int16(-1), uint32(1292929), float64(-1), true, variant.Epoch, variant.Decimal{Negative: true, Lo: 1}, "text"} {
			v, err := lib.Encoder().Encode(value)
			if err != nil {
				return err
			}
			ok, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, o *VariantTests) (bool, error) {
				return o.VariantParameter(sc, v.VT, v)
			})
			if cerr := v.Clear(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s parameter rejected", v.VT)
			}
		}
		return nil
	})
}

func checkLateBinding(lib *intercom.Library) error {
	return withObject(lib, "Calculator", IIDCalculator, func(h comobj.Handle) error {
		for _, step := range []struct {
			name string
			arg  int32
			want int32
		}{{"Add", 6, 6}, {"Multiply", 7, 42}, {"Subtract", 2, 40}} {
			res, err := lib.CallByName(nil, h, step.name, step.arg)
			if err != nil {
				return err
			}
			got, err := res.Int32()
			if cerr := res.Clear(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			if got != step.want {
				return fmt.Errorf("%s(%d) = %d, want %d", step.name, step.arg, got, step.want)
			}
		}
		return nil
	})
}
