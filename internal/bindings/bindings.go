package bindings

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
)

var (
	mu         sync.Mutex
	components        = map[string]*Component{}
	next       Handle = 1
	reg               = map[Handle]*Component{}
)

// Register makes c resolvable by name. Class names and identifiers must be
// unique within the component; a zero CLSID is derived from the component
// and class names.
func Register(c Component) error {
	if c.Name == "" {
		return fmt.Errorf("%w: component without a name", ErrInvalidComponent)
	}
	classes := make([]Class, len(c.Classes))
	seen := make(map[guid.GUID]bool, len(c.Classes))
	names := make(map[string]bool, len(c.Classes))
	for i, cls := range c.Classes {
		if cls.CLSID.IsZero() {
			cls.CLSID = guid.ForClass(c.Name, cls.Name)
		}
		if seen[cls.CLSID] || names[cls.Name] {
			return fmt.Errorf("%w: class %s in %s", ErrDuplicate, cls.Name, c.Name)
		}
		if cls.New == nil {
			return fmt.Errorf("%w: class %s in %s has no constructor", ErrInvalidComponent, cls.Name, c.Name)
		}
		seen[cls.CLSID] = true
		names[cls.Name] = true
		classes[i] = cls
	}

	mu.Lock()
	defer mu.Unlock()
	if _, ok := components[c.Name]; ok {
		return fmt.Errorf("%w: component %s", ErrDuplicate, c.Name)
	}
	components[c.Name] = &Component{Name: c.Name, Classes: classes}
	return nil
}

// Components lists the registered component names in sorted order.
func Components() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(components))
	for name := range components {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Open resolves the configured component and returns a handle to it.
func Open(cfg Config) (Handle, error) {
	mu.Lock()
	defer mu.Unlock()
	c, ok := components[cfg.Component]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotBuilt, cfg.Component)
	}
	h := next
	next++
	reg[h] = c
	return h, nil
}

// Lookup returns the component behind an open handle.
func Lookup(h Handle) (*Component, error) {
	mu.Lock()
	defer mu.Unlock()
	c, ok := reg[h]
	if !ok {
		return nil, ErrInvalidHandle
	}
	return c, nil
}

// Close releases a handle returned by Open.
func Close(h Handle) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := reg[h]; !ok {
		return ErrInvalidHandle
	}
	delete(reg, h)
	return nil
}
