package testlib

import (
	"sync"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/invoke"
)

// Parent is implemented by objects that can parent a CreatedClass.
type Parent interface {
	GetID(sc *hresult.Scope) (int32, error)
}

// RefCounter reports the reference count of the object itself.
type RefCounter interface {
	GetRefCount(sc *hresult.Scope) (uint32, error)
}

// ClassCreator returns new CreatedClass objects.
type ClassCreator struct {
	self comobj.Handle
}

func (*ClassCreator) Capabilities() []comobj.Capability {
	return []comobj.Capability{{IID: IIDClassCreator, Name: "IClassCreator"}}
}

func (c *ClassCreator) SetSite(self comobj.Handle) { c.self = self }

// CreateRoot returns a CreatedClass without a parent, narrowed to
// ICreatedClass. The caller owns the returned reference.
func (c *ClassCreator) CreateRoot(_ *hresult.Scope, id int32) (comobj.Handle, error) {
	return passAs(c.self.Arena(), &CreatedClass{id: id}, IIDCreatedClass)
}

// CreateChild returns a CreatedClass that keeps parent alive until it is
// destroyed. The parent id is read with a call back through parent.
func (c *ClassCreator) CreateChild(sc *hresult.Scope, id int32, parent comobj.Handle) (comobj.Handle, error) {
	parentID, err := invoke.Invoke(sc, parent, func(sc *hresult.Scope, p Parent) (int32, error) {
		return p.GetID(sc)
	})
	if err != nil {
		return comobj.Handle{}, err
	}
	if err := parent.AddRef(); err != nil {
		return comobj.Handle{}, err
	}
	child := &CreatedClass{id: id, parentID: parentID, parent: parent}
	h, err := passAs(c.self.Arena(), child, IIDCreatedClass)
	if err != nil {
		_, _ = parent.Release()
		return comobj.Handle{}, err
	}
	return h, nil
}

// CreatedClass is returned by ClassCreator.
type CreatedClass struct {
	id       int32
	parentID int32

	mu     sync.Mutex
	self   comobj.Handle
	parent comobj.Handle
}

func (*CreatedClass) Capabilities() []comobj.Capability {
	return []comobj.Capability{
		{IID: IIDCreatedClass, Name: "ICreatedClass"},
		{IID: IIDParent, Name: "IParent"},
		{IID: IIDRefCount, Name: "IRefCount"},
	}
}

func (o *CreatedClass) SetSite(self comobj.Handle) {
	o.mu.Lock()
	o.self = self
	o.mu.Unlock()
}

// Destroy drops the reference held on the parent.
func (o *CreatedClass) Destroy() {
	o.mu.Lock()
	parent := o.parent
	o.parent = comobj.Handle{}
	o.mu.Unlock()
	if !parent.IsNil() {
		_, _ = parent.Release()
	}
}

func (o *CreatedClass) GetID(*hresult.Scope) (int32, error) { return o.id, nil }

func (o *CreatedClass) GetParentID(*hresult.Scope) (int32, error) { return o.parentID, nil }

// Parent returns the parent with a new reference, or a nil handle for a
// root object.
func (o *CreatedClass) Parent(*hresult.Scope) (comobj.Handle, error) {
	o.mu.Lock()
	parent := o.parent
	o.mu.Unlock()
	if parent.IsNil() {
		return comobj.Handle{}, nil
	}
	if err := parent.AddRef(); err != nil {
		return comobj.Handle{}, err
	}
	return parent, nil
}

func (o *CreatedClass) GetRefCount(*hresult.Scope) (uint32, error) {
	o.mu.Lock()
	self := o.self
	o.mu.Unlock()
	return self.RefCount()
}
