package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Call is one parsed request entry: a *Notification, a *MethodCall or an *InvalidCall.
// The variant is decided by ParseCall and never changes.
type Call interface {
	isCall()
}

// Notification is a call without an id. It never produces an output.
type Notification struct {
	Version Version
	Method  string
	Params  Params
}

// MethodCall is a call with an id. It always produces exactly one output.
type MethodCall struct {
	Version Version
	Method  string
	Params  Params
	ID      ID
}

// InvalidCall is a request entry that could not be read as a call. ID is null unless the
// entry carried a valid id member.
type InvalidCall struct {
	ID ID
}

func (*Notification) isCall() {}
func (*MethodCall) isCall()   {}
func (*InvalidCall) isCall()  {}

var callMembers = map[string]bool{
	"jsonrpc": true,
	"method":  true,
	"params":  true,
	"id":      true,
}

var errInvalidCall = errors.New("jsonrpc: invalid call")

// ParseCall classifies one JSON value as a call. It never fails: anything that is not a
// well-formed notification or method call becomes an *InvalidCall.
func ParseCall(raw json.RawMessage) Call {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil || members == nil {
		return &InvalidCall{ID: NullID()}
	}

	rawID, hasID := members["id"]
	var id ID
	if hasID {
		if err := id.UnmarshalJSON(rawID); err != nil {
			return &InvalidCall{ID: NullID()}
		}
	}

	version, method, params, err := parseCallMembers(members)
	if err != nil {
		return &InvalidCall{ID: id}
	}

	if !hasID {
		return &Notification{Version: version, Method: method, Params: params}
	}
	return &MethodCall{Version: version, Method: method, Params: params, ID: id}
}

func parseCallMembers(members map[string]json.RawMessage) (Version, string, Params, error) {
	for name := range members {
		if !callMembers[name] {
			return "", "", Params{}, errInvalidCall
		}
	}

	var version Version
	if raw, ok := members["jsonrpc"]; ok {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil || Version(v) != V2 || !isJSONString(raw) {
			return "", "", Params{}, errInvalidCall
		}
		version = V2
	}

	raw, ok := members["method"]
	if !ok || !isJSONString(raw) {
		return "", "", Params{}, errInvalidCall
	}
	var method string
	if err := json.Unmarshal(raw, &method); err != nil {
		return "", "", Params{}, errInvalidCall
	}

	var params Params
	if raw, ok := members["params"]; ok {
		if err := params.UnmarshalJSON(raw); err != nil {
			return "", "", Params{}, errInvalidCall
		}
	}
	return version, method, params, nil
}

func isJSONString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}

// MarshalJSON encodes n as a request object without an id member.
func (n *Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCall{
		JSONRPC: n.Version,
		Method:  n.Method,
		Params:  paramsMember(n.Params),
	})
}

// MarshalJSON encodes c as a request object.
func (c *MethodCall) MarshalJSON() ([]byte, error) {
	id := c.ID
	return json.Marshal(wireCall{
		JSONRPC: c.Version,
		Method:  c.Method,
		Params:  paramsMember(c.Params),
		ID:      &id,
	})
}

type wireCall struct {
	JSONRPC Version `json:"jsonrpc,omitempty"`
	Method  string  `json:"method"`
	Params  *Params `json:"params,omitempty"`
	ID      *ID     `json:"id,omitempty"`
}

func paramsMember(p Params) *Params {
	if p.Kind() == ParamsAbsent {
		return nil
	}
	return &p
}
