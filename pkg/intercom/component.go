package intercom

import "github.com/hsiuhsiu/intercom-go/internal/bindings"

// Register makes a component resolvable by Open. Components normally
// register themselves from an init function of their package, so importing
// the package is what makes them available.
func Register(c Component) error {
	return remapError(bindings.Register(c))
}

// MustRegister is Register for init functions. It panics on error.
func MustRegister(c Component) {
	if err := Register(c); err != nil {
		panic(err)
	}
}

// Components lists the names of the registered components.
func Components() []string {
	return bindings.Components()
}
