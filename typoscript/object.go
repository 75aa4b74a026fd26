package typoscript

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Object is a rendering object: created for one path evaluation, configured
// through SetProperty, and evaluated once against the current context.
type Object interface {
	// Evaluate produces the object's output.
	Evaluate(ctx context.Context) (any, error)

	// SetProperty injects one configuration property. Unknown names are
	// reported as [ErrUnknownProperty].
	SetProperty(name string, value any) error

	SetInternalProcessors(chain Chain)
	InternalProcessors() Chain
}

// Factory constructs an [Object] for the typed path it will render.
type Factory func(rt *Runtime, path, objectType string) Object

// Base carries the state every rendering object shares. Object
// implementations embed it.
type Base struct {
	rt         *Runtime
	path       string
	objectType string
	processors Chain
}

// NewBase returns a Base for an object constructed by a [Factory].
func NewBase(rt *Runtime, path, objectType string) Base {
	return Base{rt: rt, path: path, objectType: objectType}
}

// Runtime returns the runtime that activated the object.
func (b *Base) Runtime() *Runtime { return b.rt }

// Path returns the typed path the object renders.
func (b *Base) Path() string { return b.path }

// ObjectType returns the resolved object type.
func (b *Base) ObjectType() string { return b.objectType }

// SetInternalProcessors implements [Object].
func (b *Base) SetInternalProcessors(chain Chain) { b.processors = chain }

// InternalProcessors implements [Object].
func (b *Base) InternalProcessors() Chain { return b.processors }

// UnknownProperty returns the error for a property the object does not have.
func (b *Base) UnknownProperty(name string) error {
	return ErrUnknownProperty.With(
		slog.String("property", name),
		slog.String("type", b.objectType),
		slog.String("path", b.path),
	)
}

// Registry maps implementation identifiers to factories and object types to
// implementation identifiers. It is populated at startup.
type Registry struct {
	factories registry[Factory]

	mu       sync.RWMutex
	bindings map[string]string // object type -> implementation id
}

// NewRegistry returns an empty [Registry].
func NewRegistry() *Registry { return &Registry{} }

// Register adds a factory under id. Registering an id twice is an
// [ErrImplementationExists] error.
func (r *Registry) Register(id string, factory Factory) error {
	return r.factories.register("object", id, factory)
}

// Bind maps objectType to the implementation registered as id.
func (r *Registry) Bind(objectType, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bindings == nil {
		r.bindings = make(map[string]string)
	}

	r.bindings[objectType] = id
}

// Implementation returns the implementation identifier for objectType.
//
// An explicit [Registry.Bind] wins. Otherwise the type name itself is the
// identifier, and for namespaced types ("Vendor.Package:Name") the part
// after the last colon is tried as well. Only registered identifiers are
// returned.
func (r *Registry) Implementation(objectType string) (string, bool) {
	r.mu.RLock()
	id, bound := r.bindings[objectType]
	r.mu.RUnlock()

	if bound {
		_, ok := r.factories.lookup(id)

		return id, ok
	}

	if _, ok := r.factories.lookup(objectType); ok {
		return objectType, true
	}

	if i := strings.LastIndexByte(objectType, ':'); i >= 0 {
		short := objectType[i+1:]
		if _, ok := r.factories.lookup(short); ok {
			return short, true
		}
	}

	return "", false
}

// Lookup returns the factory registered as id.
func (r *Registry) Lookup(id string) (Factory, bool) { return r.factories.lookup(id) }

// IDs returns the registered implementation identifiers, sorted.
func (r *Registry) IDs() []string { return r.factories.ids() }
