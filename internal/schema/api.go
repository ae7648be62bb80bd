package schema

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/wagiedev/enigma-go/internal/errors"
	"github.com/wagiedev/enigma-go/internal/event"
	"github.com/wagiedev/enigma-go/internal/pending"
	"github.com/wagiedev/enigma-go/internal/protocol"
)

// Sender sends requests on behalf of an object API.
type Sender interface {
	Send(ctx context.Context, req *protocol.Request) *pending.Pending
}

// Constructor creates the object API bound to one engine handle.
type Constructor func(s Sender, handle int, id string, delta bool, genericType string) *ObjectAPI

// ObjectAPI is the client-side representation of one engine object.
//
// The session emits "changed" when the engine reports the object changed and
// "closed" once when the object or the session closes, after which every
// listener is removed.
type ObjectAPI struct {
	event.Emitter

	Handle      int
	ID          string
	Type        string
	GenericType string
	Delta       bool

	session Sender
	methods map[string]*Method
}

// Generate returns the constructor for typeName.
func (d *Definition) Generate(typeName string) Constructor {
	methods, typed := d.Structs[typeName]
	if !typed {
		d.log.Debug("Generating untyped object API", "type", typeName)
	}

	return func(s Sender, handle int, id string, delta bool, genericType string) *ObjectAPI {
		return &ObjectAPI{
			Handle:      handle,
			ID:          id,
			Type:        typeName,
			GenericType: genericType,
			Delta:       delta,
			session:     s,
			methods:     methods,
		}
	}
}

// Session returns the sender the API is bound to.
func (a *ObjectAPI) Session() Sender {
	return a.session
}

// Typed reports whether the API's type was found in the definition.
func (a *ObjectAPI) Typed() bool {
	return a.methods != nil
}

// Methods returns the method names the API supports in sorted order.
func (a *ObjectAPI) Methods() []string {
	return slices.Sorted(maps.Keys(a.methods))
}

// Call invokes method with positional arguments.
func (a *ObjectAPI) Call(ctx context.Context, method string, args ...any) *pending.Pending {
	m, err := a.method(method)
	if err != nil {
		return pending.Rejected(0, err)
	}

	if m != nil {
		if len(args) > len(m.In) {
			return pending.Rejected(0, &errors.ParameterError{
				Method: method,
				Err:    fmt.Errorf("got %d arguments, want at most %d", len(args), len(m.In)),
			})
		}

		named := make(map[string]any, len(args))
		for i, arg := range args {
			named[m.In[i].Name] = arg
		}

		if err := m.validate(named); err != nil {
			return pending.Rejected(0, err)
		}
	}

	params := args
	if params == nil {
		params = []any{}
	}

	return a.send(ctx, m, method, params)
}

// CallNamed invokes method with named parameters.
func (a *ObjectAPI) CallNamed(ctx context.Context, method string, params map[string]any) *pending.Pending {
	m, err := a.method(method)
	if err != nil {
		return pending.Rejected(0, err)
	}

	if m != nil {
		if err := m.validate(params); err != nil {
			return pending.Rejected(0, err)
		}
	}

	if params == nil {
		params = map[string]any{}
	}

	return a.send(ctx, m, method, params)
}

func (a *ObjectAPI) method(name string) (*Method, error) {
	if a.methods == nil {
		return nil, nil
	}

	m, ok := a.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", errors.ErrUnknownMethod, a.Type, name)
	}

	return m, nil
}

func (a *ObjectAPI) send(ctx context.Context, m *Method, method string, params any) *pending.Pending {
	delta := a.Delta
	req := &protocol.Request{
		Method: method,
		Handle: a.Handle,
		Params: params,
		Delta:  &delta,
	}

	if m != nil {
		req.OutKey = m.OutKey()
	}

	return a.session.Send(ctx, req)
}

func (m *Method) validate(params map[string]any) error {
	if m.params == nil {
		return nil
	}

	if params == nil {
		params = map[string]any{}
	}

	if err := m.params.Validate(params); err != nil {
		return &errors.ParameterError{Method: m.Name, Err: err}
	}

	return nil
}
