package methods

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/mnehpets/rpcengine/jsonrpc"
)

// ReservedPrefix starts the method names JSON-RPC keeps for protocol extensions.
const ReservedPrefix = "rpc."

var (
	ErrReservedName     = errors.New("method name uses the reserved \"rpc.\" prefix")
	ErrNameCollision    = errors.New("method name collision")
	ErrInvalidName      = errors.New("invalid method name")
	ErrInvalidSignature = errors.New("invalid method signature")
)

// ParamNamer is implemented by receivers whose methods take plain (non-struct) parameters,
// to give those parameters wire names. The map is keyed by Go method name.
type ParamNamer interface {
	RPCParamNames() map[string][]string
}

// rpcMethod is one callable entry of the registry.
type rpcMethod struct {
	name string
	fn   reflect.Value
	sig  *signature
}

// Registry maps method names to invokers. It implements jsonrpc.Registry.
// It is safe for concurrent use; registering while serving is allowed.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]*rpcMethod
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		methods: make(map[string]*rpcMethod),
	}
}

// Add registers fn under name. fn must have the shape
//
//	func([ctx context.Context,] params...) ([result,] [error])
//
// paramNames name the parameters after the optional context, in order. Without names, a
// single struct parameter has its fields as parameters (named by json tag), and plain
// parameters are named arg0, arg1, ...
func (r *Registry) Add(name string, fn interface{}, paramNames ...string) error {
	if fn == nil {
		return fmt.Errorf("nil function for %q: %w", name, ErrInvalidSignature)
	}
	var names []string
	if len(paramNames) > 0 {
		names = paramNames
	}
	v := reflect.ValueOf(fn)
	sig, err := parseSignature(v.Type(), 0, names)
	if err != nil {
		return fmt.Errorf("method %q: %w", name, err)
	}
	return r.insert([]*rpcMethod{{name: name, fn: v, sig: sig}})
}

// MustAdd is Add that panics on error.
func (r *Registry) MustAdd(name string, fn interface{}, paramNames ...string) {
	if err := r.Add(name, fn, paramNames...); err != nil {
		panic("methods: " + err.Error())
	}
}

// Register adds the exported methods of receiver with valid signatures.
// The namespace prefixes all method names (e.g., "math" + "Add" -> "math.Add").
// Use empty string for no namespace (method names used directly).
// A params struct may rename its method with a `_` field tagged `jsonrpc:"name"`.
// Nothing is registered if any resulting name is reserved, invalid or already taken.
func (r *Registry) Register(namespace string, receiver interface{}) error {
	if receiver == nil {
		return fmt.Errorf("nil receiver: %w", ErrInvalidSignature)
	}
	val := reflect.ValueOf(receiver)
	typ := val.Type()

	var names map[string][]string
	if namer, ok := receiver.(ParamNamer); ok {
		names = namer.RPCParamNames()
	}

	var batch []*rpcMethod
	for i := 0; i < typ.NumMethod(); i++ {
		method := typ.Method(i)
		if !method.IsExported() || method.Name == "RPCParamNames" {
			continue
		}

		sig, err := parseSignature(method.Type, 1, names[method.Name])
		if err != nil {
			if names[method.Name] != nil {
				return fmt.Errorf("method %s: %w", method.Name, err)
			}
			continue
		}

		name := method.Name
		if sig.nameOverride != "" {
			name = sig.nameOverride
		}
		if namespace != "" {
			name = namespace + "." + name
		}
		batch = append(batch, &rpcMethod{name: name, fn: val.Method(i), sig: sig})
	}
	return r.insert(batch)
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(namespace string, receiver interface{}) {
	if err := r.Register(namespace, receiver); err != nil {
		panic("methods: " + err.Error())
	}
}

func (r *Registry) insert(batch []*rpcMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(batch))
	for _, m := range batch {
		if err := checkName(m.name); err != nil {
			return err
		}
		if _, exists := r.methods[m.name]; exists || seen[m.name] {
			return fmt.Errorf("%q: %w", m.name, ErrNameCollision)
		}
		seen[m.name] = true
	}
	for _, m := range batch {
		r.methods[m.name] = m
	}
	return nil
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name: %w", ErrInvalidName)
	}
	if strings.HasPrefix(name, ReservedPrefix) {
		return fmt.Errorf("%q: %w", name, ErrReservedName)
	}
	return nil
}

// Resolve implements jsonrpc.Registry.
func (r *Registry) Resolve(name string) (jsonrpc.Invoker, bool) {
	r.mu.RLock()
	m, ok := r.methods[name]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return m.call, true
}

// Names returns the registered method names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Params returns the parameter names of a registered method.
func (r *Registry) Params(name string) ([]string, bool) {
	r.mu.RLock()
	m, ok := r.methods[name]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}
	names := make([]string, len(m.sig.paramNames))
	copy(names, m.sig.paramNames)
	return names, true
}

func (m *rpcMethod) call(ctx context.Context, params jsonrpc.Params) (json.RawMessage, error) {
	args, err := jsonrpc.BindArgs(m.sig.paramNames, params)
	if err != nil {
		return nil, err
	}
	if len(args) != len(m.sig.paramNames) {
		panic(fmt.Sprintf("methods: bound %d arguments for %d parameters of %s", len(args), len(m.sig.paramNames), m.name))
	}

	in, err := m.decode(ctx, args)
	if err != nil {
		return nil, err
	}
	return m.results(m.fn.Call(in))
}

// decode turns bound wire values into call arguments.
func (m *rpcMethod) decode(ctx context.Context, args []json.RawMessage) ([]reflect.Value, error) {
	sig := m.sig
	in := make([]reflect.Value, 0, len(sig.argTypes)+2)
	if sig.withContext {
		in = append(in, reflect.ValueOf(&ctx).Elem())
	}

	if sig.paramType != nil {
		isPtr := sig.paramType.Kind() == reflect.Pointer
		st := sig.paramType
		if isPtr {
			st = st.Elem()
		}
		param := reflect.New(st)
		for i, raw := range args {
			field := param.Elem().Field(sig.paramFields[i])
			if err := decodeArg(raw, field); err != nil {
				return nil, jsonrpc.NewInvalidArgumentError(sig.paramNames[i], i, err)
			}
		}
		if isPtr {
			return append(in, param), nil
		}
		return append(in, param.Elem()), nil
	}

	for i, raw := range args {
		arg := reflect.New(sig.argTypes[i])
		if err := decodeArg(raw, arg.Elem()); err != nil {
			return nil, jsonrpc.NewInvalidArgumentError(sig.paramNames[i], i, err)
		}
		in = append(in, arg.Elem())
	}
	return in, nil
}

var errNullArgument = errors.New("null is not a valid value")

// decodeArg decodes raw into dst, which must be addressable. Unlike json.Unmarshal, it
// rejects null for types that have no null value.
func decodeArg(raw json.RawMessage, dst reflect.Value) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) && !acceptsNull(dst.Type()) {
		return fmt.Errorf("%v: %w", dst.Type(), errNullArgument)
	}
	return json.Unmarshal(raw, dst.Addr().Interface())
}

func acceptsNull(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return true
	}
	return reflect.PointerTo(t).Implements(unmarshalerType)
}

func (m *rpcMethod) results(out []reflect.Value) (json.RawMessage, error) {
	if m.sig.hasError {
		if errV := out[len(out)-1]; !errV.IsNil() {
			return nil, errV.Interface().(error)
		}
	}
	if !m.sig.hasResult {
		return json.RawMessage("null"), nil
	}

	result, rpcErr := jsonrpc.Serialize(out[0].Interface())
	if rpcErr != nil {
		return nil, rpcErr
	}
	return result, nil
}
