package comobj

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/logging"
)

type entry struct {
	id   Identity
	obj  Object
	caps map[guid.GUID]string
	refs atomic.Int64
}

// retain adds a reference unless the count already reached zero.
func (e *entry) retain() bool {
	for {
		n := e.refs.Load()
		if n <= 0 {
			return false
		}
		if e.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// release drops a reference. last is true for exactly one caller: the one
// that moved the count from one to zero.
func (e *entry) release() (remaining int64, last bool, ok bool) {
	for {
		n := e.refs.Load()
		if n <= 0 {
			return 0, false, false
		}
		if e.refs.CompareAndSwap(n, n-1) {
			return n - 1, n == 1, true
		}
	}
}

// Arena owns the objects reachable through handles.
type Arena struct {
	mu     sync.Mutex
	next   Identity
	byID   map[Identity]*entry
	byObj  map[Object]*entry
	logger logging.Logger
}

// Option configures an Arena.
type Option func(*Arena)

// WithLogger routes lifecycle records to logger.
func WithLogger(logger logging.Logger) Option {
	return func(a *Arena) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewArena returns an empty arena.
func NewArena(opts ...Option) *Arena {
	a := &Arena{
		byID:   make(map[Identity]*entry),
		byObj:  make(map[Object]*entry),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Pass adds a reference to obj and returns an IUnknown handle to it. An
// object already in the arena keeps its identity; a new one gets a fresh
// identity with a count of one. Objects must be of a comparable type,
// normally a pointer.
func (a *Arena) Pass(obj Object) (Handle, error) {
	if obj == nil {
		return Handle{}, hresult.New(hresult.EPointer, "cannot pass a nil object")
	}
	if !reflect.TypeOf(obj).Comparable() {
		return Handle{}, hresult.Errorf(hresult.EInvalidArg, "object type %T is not comparable", obj)
	}

	h, fresh, err := a.insert(obj)
	if err != nil {
		return Handle{}, err
	}
	if fresh {
		if s, ok := obj.(Sited); ok {
			s.SetSite(h)
		}
		a.logger.Debug("object created", "identity", uint64(h.id), "type", fmt.Sprintf("%T", obj))
	}
	return h, nil
}

func (a *Arena) insert(obj Object) (Handle, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if e, ok := a.byObj[obj]; ok {
		if !e.retain() {
			return Handle{}, false, hresult.Errorf(hresult.EPointer, "object %d is being destroyed", e.id)
		}
		return Handle{arena: a, id: e.id, iid: IIDUnknown}, false, nil
	}

	a.next++
	e := &entry{id: a.next, obj: obj, caps: map[guid.GUID]string{IIDUnknown: Unknown.Name}}
	for _, c := range obj.Capabilities() {
		e.caps[c.IID] = c.Name
	}
	e.refs.Store(1)
	a.byID[e.id] = e
	a.byObj[obj] = e
	return Handle{arena: a, id: e.id, iid: IIDUnknown}, true, nil
}

// Narrow returns a handle to the same object narrowed to iid. On success the
// shared count goes up by one; on failure it is unchanged.
func (a *Arena) Narrow(h Handle, iid guid.GUID) (Handle, error) {
	e, err := a.lookup(h)
	if err != nil {
		return Handle{}, err
	}
	if _, ok := e.caps[iid]; !ok {
		return Handle{}, hresult.Errorf(hresult.ENoInterface, "object %d does not support %s", e.id, iid)
	}
	if !e.retain() {
		return Handle{}, errReleased(e.id)
	}
	return Handle{arena: a, id: e.id, iid: iid}, nil
}

// Retain adds a reference to the object behind h.
func (a *Arena) Retain(h Handle) error {
	e, err := a.lookup(h)
	if err != nil {
		return err
	}
	if !e.retain() {
		return errReleased(e.id)
	}
	return nil
}

// Release drops a reference and returns the remaining count. The release
// that reaches zero destroys the object.
func (a *Arena) Release(h Handle) (uint32, error) {
	e, err := a.lookup(h)
	if err != nil {
		return 0, err
	}
	remaining, last, ok := e.release()
	if !ok {
		return 0, errReleased(e.id)
	}
	if last {
		a.destroy(e)
	}
	return uint32(remaining), nil
}

// RefCount returns the count shared by every handle to h's object.
func (a *Arena) RefCount(h Handle) (uint32, error) {
	e, err := a.lookup(h)
	if err != nil {
		return 0, err
	}
	return uint32(e.refs.Load()), nil
}

// Lookup returns the live object behind h.
func (a *Arena) Lookup(h Handle) (Object, error) {
	e, err := a.lookup(h)
	if err != nil {
		return nil, err
	}
	if e.refs.Load() <= 0 {
		return nil, errReleased(e.id)
	}
	return e.obj, nil
}

// Supports reports whether the object behind h declares iid.
func (a *Arena) Supports(h Handle, iid guid.GUID) bool {
	e, err := a.lookup(h)
	if err != nil {
		return false
	}
	_, ok := e.caps[iid]
	return ok
}

// Capabilities lists the capabilities declared by the object behind h.
func (a *Arena) Capabilities(h Handle) ([]Capability, error) {
	e, err := a.lookup(h)
	if err != nil {
		return nil, err
	}
	out := make([]Capability, 0, len(e.caps))
	for iid, name := range e.caps {
		out = append(out, Capability{IID: iid, Name: name})
	}
	return out, nil
}

// Live returns the number of objects still referenced.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.byID)
}

func (a *Arena) lookup(h Handle) (*entry, error) {
	if h.IsNil() {
		return nil, errNilHandle()
	}
	if h.arena != a {
		return nil, hresult.Errorf(hresult.EInvalidArg, "object %d belongs to another arena", h.id)
	}
	a.mu.Lock()
	e, ok := a.byID[h.id]
	a.mu.Unlock()
	if !ok {
		return nil, errReleased(h.id)
	}
	return e, nil
}

func (a *Arena) destroy(e *entry) {
	a.mu.Lock()
	delete(a.byID, e.id)
	delete(a.byObj, e.obj)
	a.mu.Unlock()

	if d, ok := e.obj.(Destroyer); ok {
		d.Destroy()
	}
	a.logger.Debug("object destroyed", "identity", uint64(e.id))
}

func errNilHandle() error {
	return hresult.New(hresult.EPointer, "nil object handle")
}

func errReleased(id Identity) error {
	return hresult.Errorf(hresult.EPointer, "object %d has been released", id)
}
