package intercom

import (
	"errors"

	"github.com/hsiuhsiu/intercom-go/internal/bindings"
)

var (
	// ErrComponentNotFound reports that the configured component is not
	// registered in this binary.
	ErrComponentNotFound = errors.New("intercom: component not found")

	// ErrLibraryClosed is returned by operations on a closed Library,
	// including a second Close.
	ErrLibraryClosed = errors.New("intercom: library closed")

	// ErrLeakedObjects is returned by Close when leak checking is enabled
	// and objects created through the library are still referenced.
	ErrLeakedObjects = errors.New("intercom: objects still referenced at close")

	// ErrInvalidConfig reports a configuration that cannot be used.
	ErrInvalidConfig = errors.New("intercom: invalid config")

	// ErrDuplicateComponent reports a second registration of a component
	// name or class identifier.
	ErrDuplicateComponent = errors.New("intercom: duplicate component")
)

// remapError converts loader errors to the public sentinels.
func remapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bindings.ErrNotBuilt):
		return errors.Join(ErrComponentNotFound, err)
	case errors.Is(err, bindings.ErrInvalidHandle):
		return errors.Join(ErrLibraryClosed, err)
	case errors.Is(err, bindings.ErrInvalidComponent):
		return errors.Join(ErrInvalidConfig, err)
	case errors.Is(err, bindings.ErrDuplicate):
		return errors.Join(ErrDuplicateComponent, err)
	}
	return err
}
