package testlib_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/intercom-go/internal/testlib"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/invoke"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/logging"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/variant"
)

func open(t *testing.T) *intercom.Library {
	t.Helper()
	cfg := intercom.DefaultConfig()
	cfg.Component = testlib.Name
	cfg.LeakCheck = true
	lib, err := intercom.Open(cfg, intercom.WithLogger(logging.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, lib.Close()) })
	return lib
}

func create(t *testing.T, lib *intercom.Library, class string, iid guid.GUID) comobj.Handle {
	t.Helper()
	h, err := lib.CreateByName(nil, class, iid)
	require.NoError(t, err)
	return h
}

func release(t *testing.T, hs ...comobj.Handle) {
	t.Helper()
	for _, h := range hs {
		_, err := h.Release()
		require.NoError(t, err)
	}
}

func refCount(t *testing.T, h comobj.Handle) uint32 {
	t.Helper()
	n, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, o testlib.RefCounter) (uint32, error) {
		return o.GetRefCount(sc)
	})
	require.NoError(t, err)
	return n
}

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func checkEcho[T integer](t *testing.T, h comobj.Handle, values []T, method func(testlib.Primitive, *hresult.Scope, T) (T, error)) {
	t.Helper()
	for _, v := range values {
		got, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, p testlib.Primitive) (T, error) {
			return method(p, sc, v)
		})
		require.NoError(t, err)
		assert.Equal(t, ^(v + 1), got, "echo of %v", v)
	}
}

func TestPrimitiveEcho(t *testing.T) {
	lib := open(t)
	h, err := lib.CreateInstance(nil, testlib.CLSIDPrimitiveOperations, testlib.IIDPrimitiveOperations)
	require.NoError(t, err)
	defer release(t, h)

	checkEcho(t, h, []int8{0, 1, 10, math.MaxInt8, math.MinInt8}, testlib.Primitive.I8)
	checkEcho(t, h, []uint8{0, 1, 10, math.MaxUint8}, testlib.Primitive.U8)
	checkEcho(t, h, []int16{0, 1, 10, math.MaxInt16, math.MinInt16}, testlib.Primitive.I16)
	checkEcho(t, h, []uint16{0, 1, 10, math.MaxUint16}, testlib.Primitive.U16)
	checkEcho(t, h, []int32{0, 1, 10, math.MaxInt32, math.MinInt32}, testlib.Primitive.I32)
	checkEcho(t, h, []uint32{0, 1, 10, math.MaxUint32}, testlib.Primitive.U32)
	checkEcho(t, h, []int64{0, 1, 10, math.MaxInt64, math.MinInt64}, testlib.Primitive.I64)
	checkEcho(t, h, []uint64{0, 1, 10, math.MaxUint64}, testlib.Primitive.U64)

	f32, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, p testlib.Primitive) (float32, error) {
		return p.F32(sc, 4)
	})
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), f32)

	f64, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, p testlib.Primitive) (float64, error) {
		return p.F64(sc, 0.5)
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, f64)
}

func TestReferenceIdentity(t *testing.T) {
	lib := open(t)
	creator := create(t, lib, "ClassCreator", testlib.IIDClassCreator)
	defer release(t, creator)

	root, err := invoke.Invoke(nil, creator, func(sc *hresult.Scope, c *testlib.ClassCreator) (comobj.Handle, error) {
		return c.CreateRoot(sc, 10)
	})
	require.NoError(t, err)
	assert.Equal(t, testlib.IIDCreatedClass, root.IID())
	assert.Equal(t, uint32(1), refCount(t, root))

	parent, err := root.QueryInterface(testlib.IIDParent)
	require.NoError(t, err)
	assert.True(t, parent.Same(root))
	assert.Equal(t, uint32(2), refCount(t, root))

	// Narrowing to a capability the object lacks leaves the count alone.
	_, err = root.QueryInterface(testlib.IIDErrorSource)
	assert.ErrorIs(t, err, hresult.ErrNoSuchCapability)
	assert.Equal(t, uint32(2), refCount(t, root))

	child, err := invoke.Invoke(nil, creator, func(sc *hresult.Scope, c *testlib.ClassCreator) (comobj.Handle, error) {
		return c.CreateChild(sc, 20, parent)
	})
	require.NoError(t, err)
	release(t, parent)
	assert.False(t, child.Same(root))
	assert.Equal(t, uint32(2), refCount(t, root), "child keeps its parent alive")

	parentID, err := invoke.Invoke(nil, child, func(sc *hresult.Scope, o *testlib.CreatedClass) (int32, error) {
		return o.GetParentID(sc)
	})
	require.NoError(t, err)
	assert.Equal(t, int32(10), parentID)

	release(t, root)
	back, err := invoke.Invoke(nil, child, func(sc *hresult.Scope, o *testlib.CreatedClass) (comobj.Handle, error) {
		return o.Parent(sc)
	})
	require.NoError(t, err)
	assert.True(t, back.Same(root))
	id, err := invoke.Invoke(nil, back, func(sc *hresult.Scope, p testlib.Parent) (int32, error) {
		return p.GetID(sc)
	})
	require.NoError(t, err)
	assert.Equal(t, int32(10), id)
	release(t, back)

	assert.Equal(t, 3, lib.Arena().Live())
	release(t, child)
	assert.Equal(t, 1, lib.Arena().Live(), "releasing the child destroys the parent")

	_, err = invoke.Invoke(nil, root, func(sc *hresult.Scope, p testlib.Parent) (int32, error) {
		return p.GetID(sc)
	})
	assert.ErrorIs(t, err, hresult.ErrInvalidReference)
}

func TestCreateChildRejectsNonParent(t *testing.T) {
	lib := open(t)
	creator := create(t, lib, "ClassCreator", testlib.IIDClassCreator)
	defer release(t, creator)

	_, err := invoke.Invoke(nil, creator, func(sc *hresult.Scope, c *testlib.ClassCreator) (comobj.Handle, error) {
		return c.CreateChild(sc, 1, creator)
	})
	assert.ErrorIs(t, err, hresult.ErrNoSuchCapability)

	_, err = invoke.Invoke(nil, creator, func(sc *hresult.Scope, c *testlib.ClassCreator) (comobj.Handle, error) {
		return c.CreateChild(sc, 1, comobj.Handle{})
	})
	assert.ErrorIs(t, err, hresult.ErrInvalidReference)
	assert.Equal(t, 1, lib.Arena().Live())
}

func TestErrorSource(t *testing.T) {
	lib := open(t)
	source := create(t, lib, "ErrorSource", testlib.IIDErrorSource)
	defer release(t, source)

	err := invoke.InvokeVoid(nil, source, func(sc *hresult.Scope, f testlib.Failer) error {
		return f.StoreError(sc, hresult.EFail, "boom")
	})
	var typed *hresult.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, hresult.EFail, typed.Code)
	assert.Equal(t, "boom", typed.Message)
	assert.Equal(t, hresult.NativeFailure, typed.Category)
}

func TestCallbackErrors(t *testing.T) {
	lib := open(t)
	caller := create(t, lib, "CallbackCaller", testlib.IIDCallbackCaller)
	source := create(t, lib, "ErrorSource", testlib.IIDErrorSource)
	defer release(t, caller, source)

	cases := []struct {
		code     hresult.HRESULT
		sentinel error
	}{
		{hresult.EFail, hresult.ErrNativeFailure},
		{hresult.FromUint32(0x80001234), hresult.ErrNativeFailure},
		{hresult.ENotImpl, hresult.ErrNotImplemented},
		{hresult.EInvalidArg, hresult.ErrInvalidArgument},
		{hresult.DispEOverflow, hresult.ErrInvalidArgument},
		{hresult.EPointer, hresult.ErrInvalidReference},
		{hresult.ENoInterface, hresult.ErrNoSuchCapability},
		{hresult.EAbort, hresult.ErrAborted},
		{hresult.TypeEInvDataRead, hresult.ErrMalformedVariant},
		{hresult.DispEBadVarType, hresult.ErrUnsupportedVariantShape},
	}
	for _, tc := range cases {
		t.Run(tc.code.String(), func(t *testing.T) {
			err := invoke.InvokeVoid(nil, caller, func(sc *hresult.Scope, c *testlib.CallbackCaller) error {
				return c.ForwardError(sc, source, tc.code, "from callback")
			})
			var typed *hresult.Error
			require.ErrorAs(t, err, &typed)
			assert.Equal(t, tc.code, typed.Code)
			assert.Equal(t, "from callback", typed.Message)
			assert.ErrorIs(t, err, tc.sentinel)
		})
	}

	err := invoke.InvokeVoid(nil, caller, func(sc *hresult.Scope, c *testlib.CallbackCaller) error {
		return c.ForwardError(sc, source, hresult.EAccessDenied, "secret path")
	})
	var typed *hresult.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, hresult.AccessDeniedMessage, typed.Message)
	assert.ErrorIs(t, err, hresult.ErrAccessDenied)
}

func TestCheckPrimitive(t *testing.T) {
	lib := open(t)
	caller := create(t, lib, "CallbackCaller", testlib.IIDCallbackCaller)
	ops := create(t, lib, "PrimitiveOperations", testlib.IIDPrimitiveOperations)
	source := create(t, lib, "ErrorSource", testlib.IIDErrorSource)
	defer release(t, caller, ops, source)

	check := func(target comobj.Handle) error {
		return invoke.InvokeVoid(nil, caller, func(sc *hresult.Scope, c *testlib.CallbackCaller) error {
			return c.CheckPrimitive(sc, target, 41)
		})
	}
	assert.NoError(t, check(ops))
	assert.ErrorIs(t, check(source), hresult.ErrNoSuchCapability)
}

func TestVariantParameters(t *testing.T) {
	lib := open(t)
	h := create(t, lib, "VariantTests", testlib.IIDVariantTests)
	defer release(t, h)

	shared := variant.NewSharedBuffer("text")
	defer func() {
		_, err := shared.Release()
		require.NoError(t, err)
	}()
	dec, err := variant.ParseDecimal("-1.00")
	require.NoError(t, err)

	cases := []struct {
		value any
		enc   variant.Encoder
	}{
		{nil, variant.Encoder{}},
		{int8(-1), variant.Encoder{}},
		{int16(-1), variant.Encoder{}},
		{int32(-1), variant.Encoder{}},
		{int64(-1), variant.Encoder{}},
		{uint8(129), variant.Encoder{}},
		{uint16(12929), variant.Encoder{}},
		{uint32(1292929), variant.Encoder{}},
		{uint64(129292929), variant.Encoder{}},
		{float32(-1), variant.Encoder{}},
		{float64(-1), variant.Encoder{}},
		{true, variant.Encoder{}},
		{variant.Epoch, variant.Encoder{}},
		{dec, variant.Encoder{}},
		{"text", variant.Encoder{Strings: variant.BSTR}},
		{"text", variant.Encoder{Strings: variant.CString}},
		{shared, variant.Encoder{}},
		{h, variant.Encoder{}},
	}
	for _, tc := range cases {
		v, err := tc.enc.Encode(tc.value)
		require.NoError(t, err)
		t.Run(v.VT.String(), func(t *testing.T) {
			ok, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, o *testlib.VariantTests) (bool, error) {
				return o.VariantParameter(sc, v.VT, v)
			})
			require.NoError(t, err)
			assert.True(t, ok)
		})
		require.NoError(t, v.Clear())
	}

	wrong, err := variant.Encode(int32(5))
	require.NoError(t, err)
	ok, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, o *testlib.VariantTests) (bool, error) {
		return o.VariantParameter(sc, variant.TagInt32, wrong)
	})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = invoke.Invoke(nil, h, func(sc *hresult.Scope, o *testlib.VariantTests) (bool, error) {
		return o.VariantParameter(sc, variant.TagInt16, wrong)
	})
	assert.ErrorIs(t, err, hresult.ErrInvalidArgument)

	for _, s := range []string{"1", "-1.5", "-0.1"} {
		d, err := variant.ParseDecimal(s)
		require.NoError(t, err)
		v, err := variant.Encode(d)
		require.NoError(t, err)
		ok, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, o *testlib.VariantTests) (bool, error) {
			return o.VariantParameter(sc, variant.TagDecimal, v)
		})
		require.NoError(t, err)
		assert.False(t, ok, "decimal %s", s)
	}
}

func TestVariantResults(t *testing.T) {
	lib := open(t)
	h := create(t, lib, "VariantTests", testlib.IIDVariantTests)
	defer release(t, h)

	res, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, o *testlib.VariantTests) (variant.Variant, error) {
		return o.VariantResult(sc)
	})
	require.NoError(t, err)
	assert.Equal(t, variant.TagInt32, res.VT)
	n, err := res.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(123), n)

	in, err := variant.Encode(h)
	require.NoError(t, err)
	echo, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, o *testlib.VariantTests) (variant.Variant, error) {
		return o.VariantEcho(sc, in)
	})
	require.NoError(t, err)
	require.NoError(t, in.Clear())

	obj, err := echo.Object()
	require.NoError(t, err)
	assert.True(t, obj.Same(h))
	release(t, obj)
	require.NoError(t, echo.Clear())
}

func TestSharedImplementation(t *testing.T) {
	lib := open(t)
	a := create(t, lib, "SharedImplementation", testlib.IIDSharedInterface)
	b := create(t, lib, "SharedImplementation", testlib.IIDSharedInterface)
	defer release(t, a, b)

	set := func(h comobj.Handle, v uint32) {
		require.NoError(t, invoke.InvokeVoid(nil, h, func(sc *hresult.Scope, s testlib.SharedInterface) error {
			return s.SetValue(sc, v)
		}))
	}
	divide := func(h, by comobj.Handle) (uint32, error) {
		return invoke.Invoke(nil, h, func(sc *hresult.Scope, s testlib.SharedInterface) (uint32, error) {
			return s.DivideBy(sc, by)
		})
	}

	set(a, 10)
	set(b, 2)
	q, err := divide(a, b)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), q)

	q, err = divide(a, a)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), q)

	set(b, 0)
	_, err = divide(a, b)
	assert.ErrorIs(t, err, hresult.ErrInvalidArgument)
}

func TestSharedDivideByOtherCapability(t *testing.T) {
	lib := open(t)
	a := create(t, lib, "SharedImplementation", testlib.IIDSharedInterface)
	ops := create(t, lib, "PrimitiveOperations", testlib.IIDPrimitiveOperations)
	defer release(t, a, ops)

	require.NoError(t, invoke.InvokeVoid(nil, a, func(sc *hresult.Scope, s testlib.SharedInterface) error {
		return s.SetValue(sc, 9)
	}))
	_, err := invoke.Invoke(nil, a, func(sc *hresult.Scope, s testlib.SharedInterface) (uint32, error) {
		return s.DivideBy(sc, ops)
	})
	assert.ErrorIs(t, err, hresult.ErrNoSuchCapability)

	v, err := invoke.Invoke(nil, a, func(sc *hresult.Scope, s testlib.SharedInterface) (uint32, error) {
		return s.GetValue(sc)
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(9), v)
}

func TestCalculatorLateBound(t *testing.T) {
	lib := open(t)
	calc := create(t, lib, "Calculator", testlib.IIDCalculator)
	defer release(t, calc)

	call := func(name string, args ...any) (int32, error) {
		res, err := invoke.CallByName(nil, calc, name, args...)
		if err != nil {
			return 0, err
		}
		defer func() { _ = res.Clear() }()
		return res.Int32()
	}

	v, err := call("add", int32(5))
	require.NoError(t, err)
	assert.Equal(t, int32(5), v)

	v, err = call("Multiply", int32(3))
	require.NoError(t, err)
	assert.Equal(t, int32(15), v)

	v, err = invoke.Invoke(nil, calc, func(sc *hresult.Scope, c *testlib.Calculator) (int32, error) {
		return c.Subtract(sc, 5)
	})
	require.NoError(t, err)
	assert.Equal(t, int32(10), v)

	_, err = call("Multiply", int32(math.MaxInt32))
	assert.ErrorIs(t, err, hresult.ErrInvalidArgument)
	v, err = call("Value")
	require.NoError(t, err)
	assert.Equal(t, int32(10), v, "overflow leaves the accumulator unchanged")

	_, err = call("Divide", int32(2))
	assert.ErrorIs(t, err, hresult.ErrNotImplemented)
	_, err = call("Add")
	assert.ErrorIs(t, err, hresult.ErrInvalidArgument)
	_, err = call("Add", int64(1))
	assert.ErrorIs(t, err, hresult.ErrInvalidArgument)
	_, err = call("Add", "one")
	assert.ErrorIs(t, err, hresult.ErrInvalidArgument)
}

func TestAddByNameCallback(t *testing.T) {
	lib := open(t)
	caller := create(t, lib, "CallbackCaller", testlib.IIDCallbackCaller)
	calc := create(t, lib, "Calculator", testlib.IIDCalculator)
	ops := create(t, lib, "PrimitiveOperations", testlib.IIDPrimitiveOperations)
	defer release(t, caller, calc, ops)

	addByName := func(target comobj.Handle, v int32) (int32, error) {
		return invoke.Invoke(nil, caller, func(sc *hresult.Scope, c *testlib.CallbackCaller) (int32, error) {
			return c.AddByName(sc, target, v)
		})
	}

	v, err := addByName(calc, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)

	_, err = addByName(calc, math.MaxInt32)
	var typed *hresult.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, hresult.DispEOverflow, typed.Code)

	_, err = addByName(ops, 1)
	assert.ErrorIs(t, err, hresult.ErrNoSuchCapability)
}

func TestConformance(t *testing.T) {
	for _, enc := range []string{"bstr", "cstring", "shared"} {
		t.Run(enc, func(t *testing.T) {
			cfg := intercom.DefaultConfig()
			cfg.Component = testlib.Name
			cfg.StringEncoding = enc
			cfg.LeakCheck = true
			lib, err := intercom.Open(cfg, intercom.WithLogger(logging.Discard()))
			require.NoError(t, err)

			results := testlib.Conformance(lib)
			require.Len(t, results, len(testlib.Checks()))
			for _, r := range results {
				assert.NoError(t, r.Err, r.Name)
			}
			assert.NoError(t, lib.Close())
		})
	}
}
