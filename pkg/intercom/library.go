package intercom

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/hsiuhsiu/intercom-go/internal/bindings"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/comobj"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/guid"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/invoke"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/logging"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/variant"
)

// Library is an opened component. Objects it creates live in the library's
// arena until their last reference is released.
type Library struct {
	cfg    Config
	handle bindings.Handle
	name   string
	byID   map[guid.GUID]Class
	byName map[string]guid.GUID
	arena  *comobj.Arena
	enc    variant.Encoder
	logger logging.Logger

	mu     sync.Mutex
	closed bool
}

// Option configures Open.
type Option func(*Library)

// WithLogger replaces the default stderr logger.
func WithLogger(logger logging.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Open resolves and loads the configured component. The component must have
// been registered, normally by importing its package.
func Open(cfg Config, opts ...Option) (*Library, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h, err := bindings.Open(cfg.toBindings())
	if err != nil {
		return nil, remapError(err)
	}
	comp, err := bindings.Lookup(h)
	if err != nil {
		return nil, remapError(err)
	}

	l := &Library{
		cfg:    cfg,
		handle: h,
		name:   comp.Name,
		byID:   make(map[guid.GUID]Class, len(comp.Classes)),
		byName: make(map[string]guid.GUID, len(comp.Classes)),
		enc:    cfg.encoder(),
	}
	for _, c := range comp.Classes {
		l.byID[c.CLSID] = c
		l.byName[c.Name] = c.CLSID
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.level()})
		l.logger = logging.New(slog.New(handler))
	}
	l.logger = l.logger.With("component", comp.Name)
	l.arena = comobj.NewArena(comobj.WithLogger(l.logger))

	l.logger.Debug("component opened", "classes", len(comp.Classes), "strings", l.enc.Strings.String())
	return l, nil
}

// Name returns the name of the opened component.
func (l *Library) Name() string { return l.name }

// Arena returns the arena holding the library's objects.
func (l *Library) Arena() *comobj.Arena { return l.arena }

// Encoder returns the variant encoder configured for the library.
func (l *Library) Encoder() variant.Encoder { return l.enc }

// CallByName invokes the late-bound member name on h with arguments encoded
// by the library's Encoder, so string arguments use the configured
// string_encoding.
func (l *Library) CallByName(scope *hresult.Scope, h comobj.Handle, name string, args ...any) (variant.Variant, error) {
	return invoke.CallByNameWith(scope, l.enc, h, name, args...)
}

// Logger returns the library logger.
func (l *Library) Logger() logging.Logger { return l.logger }

// Classes lists the creatable classes sorted by name.
func (l *Library) Classes() []Class {
	out := make([]Class, 0, len(l.byID))
	for _, c := range l.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CreateInstance creates an object of class clsid and returns it narrowed to
// iid. The returned handle holds the only reference. An unknown class fails
// with CLASS_E_CLASSNOTAVAILABLE; if the object does not support iid it is
// destroyed and the call fails with E_NOINTERFACE.
func (l *Library) CreateInstance(scope *hresult.Scope, clsid, iid guid.GUID) (comobj.Handle, error) {
	if l.isClosed() {
		return comobj.Handle{}, ErrLibraryClosed
	}
	return invoke.CallValue(scope, func(sc *hresult.Scope) (comobj.Handle, error) {
		class, ok := l.byID[clsid]
		if !ok {
			return comobj.Handle{}, hresult.Errorf(hresult.ClassEClassNotAvailable, "class %s is not available in %s", clsid, l.name)
		}
		obj, err := class.New()
		if err != nil {
			return comobj.Handle{}, err
		}
		h, err := l.arena.Pass(obj)
		if err != nil {
			return comobj.Handle{}, err
		}
		if iid == comobj.IIDUnknown {
			return h, nil
		}
		narrowed, err := h.QueryInterface(iid)
		if _, rerr := h.Release(); rerr != nil && err == nil {
			err = rerr
		}
		if err != nil {
			return comobj.Handle{}, err
		}
		return narrowed, nil
	})
}

// CreateByName is CreateInstance addressed by class name.
func (l *Library) CreateByName(scope *hresult.Scope, name string, iid guid.GUID) (comobj.Handle, error) {
	clsid, ok := l.byName[name]
	if !ok {
		clsid = guid.ForClass(l.name, name)
	}
	return l.CreateInstance(scope, clsid, iid)
}

// Close releases the component. The method is idempotent, returning
// ErrLibraryClosed when called twice. Objects still referenced are logged;
// with LeakCheck set they also make Close fail with ErrLeakedObjects.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLibraryClosed
	}
	if err := bindings.Close(l.handle); err != nil {
		return remapError(err)
	}
	l.closed = true
	l.handle = 0

	live := l.arena.Live()
	if live == 0 {
		l.logger.Debug("component closed")
		return nil
	}
	l.logger.Warn("component closed with live objects", "live", live)
	if l.cfg.LeakCheck {
		return fmt.Errorf("%w: %d live", ErrLeakedObjects, live)
	}
	return nil
}

func (l *Library) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
