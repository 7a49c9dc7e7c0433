package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Request is a full request: a SingleRequest or a BatchRequest.
type Request interface {
	isRequest()
}

type SingleRequest struct {
	Call Call
}

// BatchRequest holds calls in the order they were received.
type BatchRequest struct {
	Calls []Call
}

func (SingleRequest) isRequest() {}
func (BatchRequest) isRequest()  {}

// Response is a full response: a SingleResponse or a BatchResponse.
// A request that yields no outputs has no Response at all, never an empty batch.
type Response interface {
	isResponse()
}

type SingleResponse struct {
	Output Output
}

// BatchResponse holds outputs in the order of the calls that produced them.
type BatchResponse struct {
	Outputs []Output
}

func (SingleResponse) isResponse() {}
func (BatchResponse) isResponse()  {}

func (r SingleResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Output)
}

func (r BatchResponse) MarshalJSON() ([]byte, error) {
	if r.Outputs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Outputs)
}

// renderFallback is written when a response cannot be encoded. It is not valid JSON.
const renderFallback = "jsonrpc: unexpected response serialization failure"

// ParseRequest reads request text. It never fails: text that is not valid JSON, an empty
// batch, or anything else unreadable becomes a single invalid call with a null id.
func ParseRequest(text []byte) Request {
	trimmed := bytes.TrimSpace(text)
	if !json.Valid(trimmed) {
		return SingleRequest{Call: &InvalidCall{ID: NullID()}}
	}

	if trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil || len(raws) == 0 {
			return SingleRequest{Call: &InvalidCall{ID: NullID()}}
		}
		calls := make([]Call, 0, len(raws))
		for _, raw := range raws {
			calls = append(calls, ParseCall(raw))
		}
		return BatchRequest{Calls: calls}
	}

	return SingleRequest{Call: ParseCall(trimmed)}
}

// RenderResponse encodes resp as JSON text. Values built by this package always encode;
// if one does not, a fixed diagnostic string is returned instead.
func RenderResponse(resp Response) string {
	b, err := json.Marshal(resp)
	if err != nil {
		return renderFallback
	}
	return string(b)
}

// ParseResponse reads response text produced by RenderResponse or a peer.
func ParseResponse(text []byte) (Response, error) {
	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 {
		return nil, errors.New("jsonrpc: empty response")
	}

	if trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, err
		}
		if len(raws) == 0 {
			return nil, errors.New("jsonrpc: empty batch response")
		}
		outputs := make([]Output, 0, len(raws))
		for _, raw := range raws {
			out, err := ParseOutput(raw)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, out)
		}
		return BatchResponse{Outputs: outputs}, nil
	}

	out, err := ParseOutput(trimmed)
	if err != nil {
		return nil, err
	}
	return SingleResponse{Output: out}, nil
}
