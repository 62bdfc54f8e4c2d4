// Package comobj passes references to component objects across the
// boundary.
//
// Objects live in an Arena keyed by a stable Identity. A Handle is an
// (identity, capability) pair, never a memory address, so a released object
// cannot be reached through a stale handle: every operation on it fails with
// E_POINTER instead.
//
// All handles to one identity share a single atomic reference count. Pass,
// Narrow and Retain add a reference; Release drops one, and the release that
// reaches zero removes the object from the arena and calls its Destroy
// method, exactly once.
//
//	h, err := arena.Pass(obj)           // count 1
//	calc, err := h.QueryInterface(iid)  // count 2, same identity
//	calc.Release()                      // count 1
//	h.Release()                         // count 0, obj destroyed
//
// Narrowing to a capability the object does not declare fails with
// E_NOINTERFACE and leaves the count unchanged.
package comobj
