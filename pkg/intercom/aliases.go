package intercom

import (
	"github.com/hsiuhsiu/intercom-go/internal/bindings"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/variant"
)

// Type aliases for convenience. They let callers use intercom.Handle,
// intercom.Variant and friends without importing the subpackages.

// Component is a named set of creatable classes.
type Component = bindings.Component

// Class is a creatable object type of a component.
type Class = bindings.Class

// Handle is an alias for comobj.Handle.
type Handle = comobj.Handle

// Object is an alias for comobj.Object.
type Object = comobj.Object

// Capability is an alias for comobj.Capability.
type Capability = comobj.Capability

// GUID is an alias for guid.GUID.
type GUID = guid.GUID

// Variant is an alias for variant.Variant.
type Variant = variant.Variant

// Scope is an alias for hresult.Scope.
type Scope = hresult.Scope

// Error is an alias for hresult.Error.
type Error = hresult.Error

// Well-known capabilities re-exported for convenience.
var (
	IIDUnknown  = comobj.IIDUnknown
	IIDDispatch = comobj.IIDDispatch
)
