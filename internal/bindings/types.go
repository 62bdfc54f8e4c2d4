package bindings

import (
	"errors"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
)

// Config names the component a caller wants to load.
type Config struct {
	Component string
}

// Handle is an opaque identifier returned when a component is successfully
// opened.
type Handle uintptr

// Class is one creatable object type of a component.
type Class struct {
	Name  string
	CLSID guid.GUID
	New   func() (comobj.Object, error)
}

// Component is a binary component compiled into the current program.
type Component struct {
	Name    string
	Classes []Class
}

var (
	// ErrNotBuilt reports that the requested component was not linked into
	// the current binary, so it cannot be located.
	ErrNotBuilt = errors.New("intercom/internal/bindings: component not built")

	// ErrInvalidHandle reports a handle that was never opened or is already
	// closed.
	ErrInvalidHandle = errors.New("intercom/internal/bindings: invalid handle")

	// ErrInvalidComponent reports a component that cannot be registered.
	ErrInvalidComponent = errors.New("intercom/internal/bindings: invalid component")

	// ErrDuplicate reports a second registration of a component name or
	// class identifier.
	ErrDuplicate = errors.New("intercom/internal/bindings: duplicate registration")
)
