package invoke

import (
	"strings"
	"sync"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/variant"
)

// DispID identifies a late-bound member.
type DispID int32

// DispIDUnknown is returned for names a Dispatcher does not know.
const DispIDUnknown DispID = -1

// Dispatcher is the late-bound capability. Objects that implement it
// declare comobj.Dispatch among their capabilities.
type Dispatcher interface {
	IDsOfNames(names ...string) ([]DispID, error)
	Invoke(sc *hresult.Scope, id DispID, args []variant.Variant) (variant.Variant, error)
}

func init() {
	Declare[Dispatcher](comobj.IIDDispatch)
}

// Method is a late-bound member. Arguments are owned by the caller; the
// result is owned by whoever receives it.
type Method func(sc *hresult.Scope, args []variant.Variant) (variant.Variant, error)

type member struct {
	name  string
	arity int
	fn    Method
}

// MethodTable is a Dispatcher over a fixed set of named methods. Names match
// case-insensitively.
type MethodTable struct {
	mu      sync.RWMutex
	ids     map[string]DispID
	members []member
}

// NewMethodTable returns an empty table.
func NewMethodTable() *MethodTable {
	return &MethodTable{ids: make(map[string]DispID)}
}

// Add registers fn under name and returns its id. An arity of -1 accepts
// any number of arguments. Adding a name twice replaces the method and keeps
// the id.
func (t *MethodTable) Add(name string, arity int, fn Method) DispID {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := strings.ToLower(name)
	if id, ok := t.ids[key]; ok {
		t.members[id-1] = member{name: name, arity: arity, fn: fn}
		return id
	}
	t.members = append(t.members, member{name: name, arity: arity, fn: fn})
	id := DispID(len(t.members))
	t.ids[key] = id
	return id
}

// Names lists the registered names in id order.
func (t *MethodTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.members))
	for i, m := range t.members {
		out[i] = m.name
	}
	return out
}

// IDsOfNames maps names to ids. Unknown names get DispIDUnknown and the
// call fails with DISP_E_UNKNOWNNAME.
func (t *MethodTable) IDsOfNames(names ...string) ([]DispID, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]DispID, len(names))
	var unknown []string
	for i, name := range names {
		id, ok := t.ids[strings.ToLower(name)]
		if !ok {
			id = DispIDUnknown
			unknown = append(unknown, name)
		}
		ids[i] = id
	}
	if len(unknown) > 0 {
		return ids, hresult.Errorf(hresult.DispEUnknownName, "unknown name %s", strings.Join(unknown, ", "))
	}
	return ids, nil
}

// Invoke calls the member id.
func (t *MethodTable) Invoke(sc *hresult.Scope, id DispID, args []variant.Variant) (variant.Variant, error) {
	t.mu.RLock()
	if id < 1 || int(id) > len(t.members) {
		t.mu.RUnlock()
		return variant.Variant{}, hresult.Errorf(hresult.DispEMemberNotFound, "member %d not found", id)
	}
	m := t.members[id-1]
	t.mu.RUnlock()

	if m.arity >= 0 && len(args) != m.arity {
		return variant.Variant{}, hresult.Errorf(hresult.DispEBadParamCount, "%s takes %d arguments, got %d", m.name, m.arity, len(args))
	}
	return m.fn(sc, args)
}

// CallByName invokes the late-bound member name on the object behind h.
// Arguments are encoded with the zero variant.Encoder, so strings travel as
// BSTR, and are released after the call. The caller owns the returned
// Variant and must Clear it.
func CallByName(scope *hresult.Scope, h comobj.Handle, name string, args ...any) (variant.Variant, error) {
	return CallByNameWith(scope, variant.Encoder{}, h, name, args...)
}

// CallByNameWith is CallByName with arguments encoded by enc.
func CallByNameWith(scope *hresult.Scope, enc variant.Encoder, h comobj.Handle, name string, args ...any) (variant.Variant, error) {
	return CallValue(scope, func(sc *hresult.Scope) (variant.Variant, error) {
		d, err := resolve[Dispatcher](h)
		if err != nil {
			return variant.Variant{}, err
		}
		ids, err := d.IDsOfNames(name)
		if err != nil {
			return variant.Variant{}, err
		}

		vargs := make([]variant.Variant, 0, len(args))
		defer func() {
			for i := range vargs {
				_ = vargs[i].Clear()
			}
		}()
		for _, a := range args {
			v, err := enc.Encode(a)
			if err != nil {
				return variant.Variant{}, err
			}
			vargs = append(vargs, v)
		}
		return d.Invoke(sc, ids[0], vargs)
	})
}
