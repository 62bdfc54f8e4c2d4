package invoke

import (
	"reflect"
	"sync"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
)

// Call makes one boundary crossing from scope and runs fn as the callee.
// A nil scope starts an outermost crossing. The failure fn returns is
// recorded in the crossing's own scope, so the caller sees a translated
// *hresult.Error at the outermost crossing and the raw hresult.Signal
// anywhere below it.
func Call(scope *hresult.Scope, fn func(sc *hresult.Scope) error) error {
	sc := scope.Enter()
	return sc.Complete(run(sc, fn))
}

// CallValue is Call for callees that return a value. The zero T is returned
// on failure.
func CallValue[T any](scope *hresult.Scope, fn func(sc *hresult.Scope) (T, error)) (T, error) {
	var out T
	err := Call(scope, func(sc *hresult.Scope) error {
		v, err := fn(sc)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// run executes the callee and returns the status code it hands back. A
// panic becomes E_UNEXPECTED.
func run(sc *hresult.Scope, fn func(sc *hresult.Scope) error) (code hresult.HRESULT) {
	defer func() {
		if r := recover(); r != nil {
			code = sc.Fail(hresult.Errorf(hresult.EUnexpected, "panic in callee: %v", r))
		}
	}()
	return sc.Fail(fn(sc))
}

// declared maps a capability interface type to the identifier it stands for.
var declared sync.Map

// Declare binds the Go interface I to the capability iid. Once declared,
// Invoke and InvokeVoid accept an object as an I only if it both implements
// I and lists iid among its capabilities.
func Declare[I any](iid guid.GUID) {
	declared.Store(reflect.TypeFor[I](), iid)
}

// Invoke calls a method of the capability interface I on the object behind
// h, inside one crossing. A nil or released handle fails with E_POINTER. An
// object that does not implement I, or does not declare the capability I
// was bound to with Declare, fails with E_NOINTERFACE.
func Invoke[I, T any](scope *hresult.Scope, h comobj.Handle, fn func(sc *hresult.Scope, obj I) (T, error)) (T, error) {
	return CallValue(scope, func(sc *hresult.Scope) (T, error) {
		var zero T
		obj, err := resolve[I](h)
		if err != nil {
			return zero, err
		}
		return fn(sc, obj)
	})
}

// InvokeVoid is Invoke for methods without a result.
func InvokeVoid[I any](scope *hresult.Scope, h comobj.Handle, fn func(sc *hresult.Scope, obj I) error) error {
	return Call(scope, func(sc *hresult.Scope) error {
		obj, err := resolve[I](h)
		if err != nil {
			return err
		}
		return fn(sc, obj)
	})
}

func resolve[I any](h comobj.Handle) (I, error) {
	var zero I
	obj, err := h.Object()
	if err != nil {
		return zero, err
	}
	impl, ok := obj.(I)
	if !ok {
		return zero, hresult.Errorf(hresult.ENoInterface, "object %d does not implement %s", h.Identity(), typeName[I]())
	}
	if iid, ok := declared.Load(reflect.TypeFor[I]()); ok && !h.Supports(iid.(guid.GUID)) {
		return zero, hresult.Errorf(hresult.ENoInterface, "object %d does not declare %s as %s", h.Identity(), iid, typeName[I]())
	}
	return impl, nil
}

func typeName[I any]() string {
	return reflect.TypeFor[I]().String()
}
