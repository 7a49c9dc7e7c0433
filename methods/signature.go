package methods

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var (
	contextType     = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
)

// signature holds the reflection data needed to call one function from a JSON-RPC call.
type signature struct {
	withContext bool
	hasResult   bool
	hasError    bool

	// Plain mode: one wire parameter per Go parameter.
	argTypes []reflect.Type

	// Struct mode: a single params struct whose fields are the wire parameters.
	paramType   reflect.Type
	paramFields []int

	paramNames []string

	// nameOverride comes from a `_` field tagged `jsonrpc:"name"` in the params struct.
	nameOverride string
}

// parseSignature inspects ft, ignoring its first skip inputs (a method receiver).
// Accepted shapes are func([context.Context,] params...) ([R,] [error]).
// If names is non-nil the function is always in plain mode and names must match its arity.
func parseSignature(ft reflect.Type, skip int, names []string) (*signature, error) {
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("%v is not a function: %w", ft, ErrInvalidSignature)
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("variadic functions are not supported: %w", ErrInvalidSignature)
	}

	sig := &signature{}

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) == errorType {
			sig.hasError = true
		} else {
			sig.hasResult = true
		}
	case 2:
		if ft.Out(1) != errorType {
			return nil, fmt.Errorf("second result must be error, got %v: %w", ft.Out(1), ErrInvalidSignature)
		}
		sig.hasResult = true
		sig.hasError = true
	default:
		return nil, fmt.Errorf("at most two results are allowed, got %d: %w", ft.NumOut(), ErrInvalidSignature)
	}

	in := make([]reflect.Type, 0, ft.NumIn())
	for i := skip; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i))
	}
	if len(in) > 0 && in[0] == contextType {
		sig.withContext = true
		in = in[1:]
	}

	if names == nil && len(in) == 1 && isParamsStruct(in[0]) {
		sig.paramType = in[0]
		if err := sig.parseParamsStruct(); err != nil {
			return nil, err
		}
		if err := checkParamNames(sig.paramNames); err != nil {
			return nil, err
		}
		return sig, nil
	}

	sig.argTypes = in
	if names == nil {
		names = make([]string, len(in))
		for i := range in {
			names[i] = fmt.Sprintf("arg%d", i)
		}
	}
	if len(names) != len(in) {
		return nil, fmt.Errorf("%d parameter names for %d parameters: %w", len(names), len(in), ErrInvalidSignature)
	}
	if err := checkParamNames(names); err != nil {
		return nil, err
	}
	sig.paramNames = names
	return sig, nil
}

func checkParamNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			return fmt.Errorf("parameter name %q is empty or repeated: %w", name, ErrInvalidSignature)
		}
		seen[name] = true
	}
	return nil
}

// isParamsStruct reports whether t is a struct (or pointer to struct) to be spread into
// named parameters. Types that decode themselves from JSON are passed whole.
func isParamsStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	return !reflect.PointerTo(t).Implements(unmarshalerType)
}

// parseParamsStruct takes the parameter names from the fields of the params struct.
// Embedded fields are not supported.
func (sig *signature) parseParamsStruct() error {
	st := sig.paramType
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}

	sig.paramNames = make([]string, 0, st.NumField())
	sig.paramFields = make([]int, 0, st.NumField())
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if field.Name == "_" {
			if tag := field.Tag.Get("jsonrpc"); tag != "" {
				sig.nameOverride = tag
			}
			continue
		}
		if field.Anonymous {
			return fmt.Errorf("embedded field %s in %v: %w", field.Name, st, ErrInvalidSignature)
		}
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if jsonTag := field.Tag.Get("json"); jsonTag != "" {
			tagName := strings.Split(jsonTag, ",")[0]
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		sig.paramNames = append(sig.paramNames, name)
		sig.paramFields = append(sig.paramFields, i)
	}
	return nil
}
