// Package intercom is the entry point of the component boundary runtime.
//
// A component is a named set of classes compiled into the program and
// registered with Register. Open resolves a component from a Config and
// returns a Library, the factory for its objects:
//
//	cfg, err := intercom.LoadConfig("intercom.toml")
//	lib, err := intercom.Open(cfg)
//	defer lib.Close()
//
//	calc, err := lib.CreateByName(nil, "Calculator", iidCalculator)
//	defer calc.Release()
//
// Calls into objects go through package invoke, values cross as
// variant.Variant and failures come back as *hresult.Error. The subpackages
// can be used on their own; this package only wires them together.
package intercom
