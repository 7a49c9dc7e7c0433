package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Serialize encodes a method result. Encoding fails for values JSON cannot represent
// (channels, functions, NaN, cyclic data, a MarshalJSON that errors); such failures come
// back as a CodeResultSerialization error object, never a panic.
func Serialize(v interface{}) (json.RawMessage, *JSONRPCError) {
	b, err := marshalResult(v)
	if err != nil {
		return nil, NewError(CodeResultSerialization, fmt.Sprintf("error serializing result: %v", err))
	}
	return b, nil
}

func marshalResult(v interface{}) (b []byte, err error) {
	defer func() {
		// Some MarshalJSON implementations panic on invalid state.
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during encoding: %v", r)
		}
	}()
	return json.Marshal(v)
}
