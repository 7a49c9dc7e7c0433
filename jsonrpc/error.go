package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// CodeServerError is the first code of the implementation-defined server error range
	// (-32000 to -32099).
	CodeServerError = -32000
	// CodeResultSerialization is returned when a method result cannot be encoded.
	CodeResultSerialization = CodeServerError - 8
)

// JSONRPCError is the error object of a failure output.
type JSONRPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *JSONRPCError) Error() string {
	return e.Message
}

// UnmarshalJSON keeps data as raw JSON so that a parsed error renders back unchanged.
func (e *JSONRPCError) UnmarshalJSON(b []byte) error {
	var wire struct {
		Code    *int            `json:"code"`
		Message *string         `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	if wire.Code == nil || wire.Message == nil {
		return errors.New("jsonrpc: error object requires code and message")
	}
	e.Code = *wire.Code
	e.Message = *wire.Message
	e.Data = nil
	if len(wire.Data) > 0 {
		e.Data = wire.Data
	}
	return nil
}

func NewError(code int, message string) *JSONRPCError {
	return &JSONRPCError{Code: code, Message: message}
}

func NewParseError(message string) *JSONRPCError {
	return NewError(CodeParseError, message)
}

func NewInvalidRequestError(message string) *JSONRPCError {
	return NewError(CodeInvalidRequest, message)
}

func NewMethodNotFoundError(message string) *JSONRPCError {
	return NewError(CodeMethodNotFound, message)
}

func NewInvalidParamsError(message string) *JSONRPCError {
	return NewError(CodeInvalidParams, message)
}

func NewInternalError(message string) *JSONRPCError {
	return NewError(CodeInternalError, message)
}

// AsError converts any error to a JSON-RPC error.
// A JSONRPCError anywhere in the chain preserves its code; an ArgsError becomes
// InvalidParams; other errors become InternalError with the error text as message.
func AsError(err error) *JSONRPCError {
	if err == nil {
		return nil
	}
	var rpcErr *JSONRPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	var argsErr *ArgsError
	if errors.As(err, &argsErr) {
		return argsErr.RPCError()
	}
	return NewInternalError(err.Error())
}

// ArgsReason identifies why a parameter payload could not be bound.
type ArgsReason int

const (
	WrongArgumentCount ArgsReason = iota + 1
	MissingNamedParameter
	ExtraNamedParameter
	InvalidArgumentStructure
)

func (r ArgsReason) String() string {
	switch r {
	case WrongArgumentCount:
		return "WrongArgumentCount"
	case MissingNamedParameter:
		return "MissingNamedParameter"
	case ExtraNamedParameter:
		return "ExtraNamedParameter"
	case InvalidArgumentStructure:
		return "InvalidArgumentStructure"
	}
	return fmt.Sprintf("ArgsReason(%d)", int(r))
}

// ArgsError reports a parameter payload that does not fit a method's parameter schema.
// Only the fields relevant to Reason are set.
type ArgsError struct {
	Reason   ArgsReason
	Name     string
	Index    int
	Expected int
	Actual   int

	err error
}

func (e *ArgsError) Error() string {
	switch e.Reason {
	case WrongArgumentCount:
		return fmt.Sprintf("%s: expected %d, actual %d", e.Reason, e.Expected, e.Actual)
	case MissingNamedParameter, ExtraNamedParameter:
		return fmt.Sprintf("%s: %s", e.Reason, e.Name)
	case InvalidArgumentStructure:
		return fmt.Sprintf("%s: %s at position %d", e.Reason, e.Name, e.Index)
	}
	return e.Reason.String()
}

// MarshalJSON encodes the fields relevant to e.Reason; it is the data member of the
// InvalidParams error object.
func (e *ArgsError) MarshalJSON() ([]byte, error) {
	data := map[string]interface{}{"reason": e.Reason.String()}
	switch e.Reason {
	case WrongArgumentCount:
		data["expected"] = e.Expected
		data["actual"] = e.Actual
	case MissingNamedParameter, ExtraNamedParameter:
		data["name"] = e.Name
	case InvalidArgumentStructure:
		data["name"] = e.Name
		data["index"] = e.Index
	}
	return json.Marshal(data)
}

// Unwrap returns the decode error behind an InvalidArgumentStructure failure.
func (e *ArgsError) Unwrap() error {
	return e.err
}

// RPCError converts e to an InvalidParams error object carrying e as data.
func (e *ArgsError) RPCError() *JSONRPCError {
	return &JSONRPCError{
		Code:    CodeInvalidParams,
		Message: e.Error(),
		Data:    e,
	}
}

// NewInvalidArgumentError reports that the bound value for parameter name at position index
// could not be decoded into the parameter's type.
func NewInvalidArgumentError(name string, index int, cause error) *ArgsError {
	return &ArgsError{Reason: InvalidArgumentStructure, Name: name, Index: index, err: cause}
}
