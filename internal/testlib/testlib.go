// Package testlib is the example component used by the conformance tests,
// the command line tool and the programs under examples/. Importing it
// registers the component under the name "testlib".
package testlib

import (
	"github.com/hsiuhsiu/intercom-go/pkg/intercom"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/invoke"
)

// Name is the registered component name.
const Name = "testlib"

// Class identifiers.
var (
	CLSIDPrimitiveOperations  = guid.MustParse("{12341234-1234-1234-1234-123412340001}")
	CLSIDClassCreator         = guid.ForClass(Name, "ClassCreator")
	CLSIDErrorSource          = guid.ForClass(Name, "ErrorSource")
	CLSIDVariantTests         = guid.ForClass(Name, "VariantTests")
	CLSIDSharedImplementation = guid.ForClass(Name, "SharedImplementation")
	CLSIDCalculator           = guid.ForClass(Name, "Calculator")
	CLSIDCallbackCaller       = guid.ForClass(Name, "CallbackCaller")
)

// Capability identifiers.
var (
	IIDPrimitiveOperations = guid.MustParse("{12341234-1234-1234-1234-123412340002}")
	IIDClassCreator        = guid.ForInterface(Name, "IClassCreator")
	IIDCreatedClass        = guid.ForInterface(Name, "ICreatedClass")
	IIDParent              = guid.ForInterface(Name, "IParent")
	IIDRefCount            = guid.ForInterface(Name, "IRefCount")
	IIDErrorSource         = guid.ForInterface(Name, "IErrorSource")
	IIDVariantTests        = guid.ForInterface(Name, "IVariantTests")
	IIDSharedInterface     = guid.ForInterface(Name, "ISharedInterface")
	IIDCalculator          = guid.ForInterface(Name, "ICalculator")
	IIDCallbackCaller      = guid.ForInterface(Name, "ICallbackCaller")
)

func init() {
	invoke.Declare[Primitive](IIDPrimitiveOperations)
	invoke.Declare[Parent](IIDParent)
	invoke.Declare[RefCounter](IIDRefCount)
	invoke.Declare[Failer](IIDErrorSource)
	invoke.Declare[SharedInterface](IIDSharedInterface)

	intercom.MustRegister(intercom.Component{
		Name: Name,
		Classes: []intercom.Class{
			{Name: "PrimitiveOperations", CLSID: CLSIDPrimitiveOperations, New: newObject(func() comobj.Object { return &PrimitiveOperations{} })},
			{Name: "ClassCreator", CLSID: CLSIDClassCreator, New: newObject(func() comobj.Object { return &ClassCreator{} })},
			{Name: "ErrorSource", CLSID: CLSIDErrorSource, New: newObject(func() comobj.Object { return &ErrorSource{} })},
			{Name: "VariantTests", CLSID: CLSIDVariantTests, New: newObject(func() comobj.Object { return &VariantTests{} })},
			{Name: "SharedImplementation", CLSID: CLSIDSharedImplementation, New: newObject(func() comobj.Object { return &SharedImplementation{} })},
			{Name: "Calculator", CLSID: CLSIDCalculator, New: newObject(func() comobj.Object { return NewCalculator() })},
			{Name: "CallbackCaller", CLSID: CLSIDCallbackCaller, New: newObject(func() comobj.Object { return &CallbackCaller{} })},
		},
	})
}

func newObject(fn func() comobj.Object) func() (comobj.Object, error) {
	return func() (comobj.Object, error) { return fn(), nil }
}

// passAs puts obj into arena and returns it narrowed to iid with a single
// reference.
func passAs(arena *comobj.Arena, obj comobj.Object, iid guid.GUID) (comobj.Handle, error) {
	h, err := arena.Pass(obj)
	if err != nil {
		return comobj.Handle{}, err
	}
	narrowed, err := h.QueryInterface(iid)
	if _, rerr := h.Release(); rerr != nil && err == nil {
		err = rerr
	}
	return narrowed, err
}
