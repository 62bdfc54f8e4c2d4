// Package invoke is the method invocation surface of the boundary.
//
// Every call into an object, and every callback out of one, is a crossing
// made with Call, CallValue or Invoke. The scope handed to the callee is the
// one it passes on when it calls back out, which is how nested crossings
// know they are nested:
//
//	sum, err := invoke.Invoke(nil, h, func(sc *hresult.Scope, c Calculator) (int32, error) {
//		return c.Add(sc, 1, 2)
//	})
//
// A failure is translated into *hresult.Error only at the outermost crossing.
// Inner crossings return the raw hresult.Signal, which callee code returns
// unchanged to forward it.
//
// Objects that declare comobj.Dispatch can also be called late bound, by
// member name with Variant arguments, through CallByName. MethodTable is a
// ready-made Dispatcher.
package invoke
