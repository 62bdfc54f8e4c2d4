package hresult

// Scope carries the error state of one boundary crossing. Nested crossings
// get their own Scope from Enter, so a callback failing inside a native call
// cannot overwrite the state of the call that invoked it.
//
// A Scope belongs to a single crossing and must not be shared between
// goroutines.
type Scope struct {
	parent *Scope
	depth  int
	info   *Signal
}

// NewScope returns an outermost scope.
func NewScope() *Scope { return &Scope{} }

// Enter returns the scope of a crossing made from within s. Entering from a
// nil scope starts a new outermost scope.
func (s *Scope) Enter() *Scope {
	if s == nil {
		return NewScope()
	}
	return &Scope{parent: s, depth: s.depth + 1}
}

// Depth is the number of enclosing crossings.
func (s *Scope) Depth() int { return s.depth }

// Outermost reports whether s is the crossing that translates failures.
func (s *Scope) Outermost() bool { return s.parent == nil }

// Fail records err as the error info of this crossing and returns the status
// code the callee hands back. A nil err clears the info and returns S_OK.
func (s *Scope) Fail(err error) HRESULT {
	if err == nil {
		s.info = nil
		return SOK
	}
	sig := FromError(err)
	if sig.Code.Succeeded() {
		sig.Code = EUnexpected
	}
	s.info = &sig
	return sig.Code
}

// Complete turns the status code returned across this crossing into the
// caller's error and consumes the stored info. Info recorded for a different
// code is stale and ignored. The outermost scope returns a translated
// *Error; nested scopes return the raw Signal so intermediate layers can
// forward it untouched.
func (s *Scope) Complete(code HRESULT) error {
	info := s.info
	s.info = nil
	if code.Succeeded() {
		return nil
	}

	sig := Signal{Code: code}
	if info != nil && info.Code == code {
		sig = *info
	}
	if s.Outermost() {
		return Translate(sig)
	}
	return sig
}
