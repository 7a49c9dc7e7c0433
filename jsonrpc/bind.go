package jsonrpc

import (
	"encoding/json"
	"sort"
)

// BindArgs arranges params into one value per name in names, in that order.
//
// Positional params are returned unchanged when their count matches. Named params are looked
// up by name; a missing name or a leftover key is an error. Absent params bind like an empty
// list. Values are not decoded. Errors are *ArgsError.
func BindArgs(names []string, params Params) ([]json.RawMessage, error) {
	switch params.Kind() {
	case ParamsNamed:
		named, _ := params.Named()
		return bindNamed(names, named)
	case ParamsPositional:
		values, _ := params.Positional()
		return bindPositional(names, values)
	}
	return bindPositional(names, nil)
}

func bindPositional(names []string, values []json.RawMessage) ([]json.RawMessage, error) {
	if len(values) != len(names) {
		return nil, &ArgsError{Reason: WrongArgumentCount, Expected: len(names), Actual: len(values)}
	}
	if values == nil {
		values = []json.RawMessage{}
	}
	return values, nil
}

func bindNamed(names []string, named map[string]json.RawMessage) ([]json.RawMessage, error) {
	args := make([]json.RawMessage, 0, len(names))
	used := make(map[string]bool, len(names))
	for _, name := range names {
		v, ok := named[name]
		if !ok {
			return nil, &ArgsError{Reason: MissingNamedParameter, Name: name}
		}
		args = append(args, v)
		used[name] = true
	}

	if len(used) < len(named) {
		// Report the smallest leftover key so the error is stable across runs.
		extra := make([]string, 0, len(named)-len(used))
		for k := range named {
			if !used[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		return nil, &ArgsError{Reason: ExtraNamedParameter, Name: extra[0]}
	}
	return args, nil
}
