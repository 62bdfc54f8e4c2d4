// Package hresult translates native status codes into typed Go errors.
//
// A failure on the native side of the boundary is described by a Signal: a
// 32-bit status code plus an optional description. Callers never see raw
// signals from the outermost call; they see an *Error whose Category is a
// pure function of the code and whose Message is the original description.
//
// # Categories
//
//	err := lib.CreateInstance(scope, clsid, iid)
//	switch {
//	case errors.Is(err, hresult.ErrNoSuchCapability):
//	    // the object does not implement iid
//	case errors.Is(err, hresult.ErrInvalidArgument):
//	    // ...
//	}
//
// E_ACCESSDENIED is the one code whose description is replaced: the typed
// error always carries AccessDeniedMessage.
//
// # Re-entrancy
//
// Every boundary crossing runs in its own Scope. The callee stores its
// failure with Scope.Fail and returns the status code; the caller reads it
// back with Scope.Complete. Only the outermost scope translates, so a failure
// raised by a callback deep inside a native call reaches the original caller
// with its code and message untouched:
//
//	scope := hresult.NewScope()
//	inner := scope.Enter()
//	code := inner.Fail(callback())   // callee side
//	err := inner.Complete(code)      // nested: err is the raw Signal
//	code = scope.Fail(err)           // forwarded verbatim
//	err = scope.Complete(code)       // outermost: err is *hresult.Error
package hresult
