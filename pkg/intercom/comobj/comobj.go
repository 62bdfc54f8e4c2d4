package comobj

import (
	"fmt"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
)

// Identity is the stable identifier of an object for its whole lifetime.
type Identity uint64

// Capability names a set of operations an object may support.
type Capability struct {
	IID  guid.GUID
	Name string
}

// Base capabilities every runtime knows about.
var (
	IIDUnknown  = guid.MustParse("00000000-0000-0000-C000-000000000046")
	IIDDispatch = guid.MustParse("00020400-0000-0000-C000-000000000046")

	Unknown  = Capability{IID: IIDUnknown, Name: "IUnknown"}
	Dispatch = Capability{IID: IIDDispatch, Name: "IDispatch"}
)

// Object is implemented by every component object. Capabilities is read once,
// when the object first enters an arena; IUnknown is implied.
type Object interface {
	Capabilities() []Capability
}

// Destroyer is implemented by objects that release resources, including
// handles they hold, when their last reference goes away.
type Destroyer interface {
	Destroy()
}

// Sited is implemented by objects that need to reach the arena holding
// them, to create further objects or read their own reference count.
// SetSite is called once, when the object enters an arena. The site handle
// does not hold a reference.
type Sited interface {
	SetSite(self Handle)
}

// Handle is an opaque reference to an arena object narrowed to one
// capability. The zero Handle is the nil reference.
type Handle struct {
	arena *Arena
	id    Identity
	iid   guid.GUID
}

// IsNil reports whether h refers to nothing.
func (h Handle) IsNil() bool { return h.arena == nil || h.id == 0 }

// Identity returns the identity of the referenced object.
func (h Handle) Identity() Identity { return h.id }

// IID returns the capability h was narrowed to.
func (h Handle) IID() guid.GUID { return h.iid }

// Arena returns the arena that owns the referenced object.
func (h Handle) Arena() *Arena { return h.arena }

// Same reports whether h and other refer to the same object.
func (h Handle) Same(other Handle) bool {
	return h.arena == other.arena && h.id == other.id
}

// AddRef adds a reference to the object.
func (h Handle) AddRef() error {
	if h.arena == nil {
		return errNilHandle()
	}
	return h.arena.Retain(h)
}

// Release drops a reference and returns the remaining count.
func (h Handle) Release() (uint32, error) {
	if h.arena == nil {
		return 0, errNilHandle()
	}
	return h.arena.Release(h)
}

// QueryInterface narrows h to iid. The returned handle holds its own
// reference.
func (h Handle) QueryInterface(iid guid.GUID) (Handle, error) {
	if h.arena == nil {
		return Handle{}, errNilHandle()
	}
	return h.arena.Narrow(h, iid)
}

// RefCount returns the shared reference count.
func (h Handle) RefCount() (uint32, error) {
	if h.arena == nil {
		return 0, errNilHandle()
	}
	return h.arena.RefCount(h)
}

// Object returns the referenced object.
func (h Handle) Object() (Object, error) {
	if h.arena == nil {
		return nil, errNilHandle()
	}
	return h.arena.Lookup(h)
}

// Supports reports whether the object declares iid.
func (h Handle) Supports(iid guid.GUID) bool {
	if h.arena == nil {
		return false
	}
	return h.arena.Supports(h, iid)
}

func (h Handle) String() string {
	if h.IsNil() {
		return "object(nil)"
	}
	return fmt.Sprintf("object#%d{%s}", h.id, h.iid)
}
