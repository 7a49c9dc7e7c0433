package jsonrpc

import (
	"encoding/json"
	"errors"
)

// Output is the reply to one call: a *Success or a *Failure.
type Output interface {
	isOutput()
	OutputID() ID
}

// Success carries the encoded result of a method call.
type Success struct {
	Version Version
	Result  json.RawMessage
	ID      ID
}

// Failure carries the error object of a method call or invalid call.
type Failure struct {
	Version Version
	Error   *JSONRPCError
	ID      ID
}

func (*Success) isOutput() {}
func (*Failure) isOutput() {}

func (s *Success) OutputID() ID { return s.ID }
func (f *Failure) OutputID() ID { return f.ID }

func (s *Success) MarshalJSON() ([]byte, error) {
	result := s.Result
	if len(result) == 0 {
		result = json.RawMessage("null")
	}
	return json.Marshal(struct {
		JSONRPC Version         `json:"jsonrpc,omitempty"`
		Result  json.RawMessage `json:"result"`
		ID      ID              `json:"id"`
	}{s.Version, result, s.ID})
}

func (f *Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		JSONRPC Version       `json:"jsonrpc,omitempty"`
		Error   *JSONRPCError `json:"error"`
		ID      ID            `json:"id"`
	}{f.Version, f.Error, f.ID})
}

// ParseOutput reads one response object.
func ParseOutput(raw json.RawMessage) (Output, error) {
	var wire struct {
		JSONRPC Version         `json:"jsonrpc"`
		Result  json.RawMessage `json:"result"`
		Error   *JSONRPCError   `json:"error"`
		ID      json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, err
	}
	if len(wire.ID) == 0 {
		return nil, errors.New("jsonrpc: response object without id")
	}
	var id ID
	if err := id.UnmarshalJSON(wire.ID); err != nil {
		return nil, err
	}
	switch {
	case wire.Error != nil && len(wire.Result) == 0:
		return &Failure{Version: wire.JSONRPC, Error: wire.Error, ID: id}, nil
	case wire.Error == nil && len(wire.Result) > 0:
		return &Success{Version: wire.JSONRPC, Result: wire.Result, ID: id}, nil
	}
	return nil, errors.New("jsonrpc: response object must have exactly one of result and error")
}
