// Package jsonrpc implements the request/response engine of a JSON-RPC 2.0 server.
//
// This package implements the JSON-RPC 2.0 specification (https://www.jsonrpc.org/specification).
// It parses requests, dispatches calls to a Registry and builds responses. It does not
// listen on any transport; callers hand it request text and write back what it returns.
//
// # Basic Usage
//
// Build a registry (see package methods), create a server and feed it request text:
//
//	r := methods.New()
//	r.MustRegister("", &Adder{})
//	s := jsonrpc.NewServer(r)
//
//	out, ok := s.HandleRaw(ctx, `{"jsonrpc":"2.0","method":"wrapping_add","params":[1,2],"id":1}`)
//	// out == `{"jsonrpc":"2.0","result":3,"id":1}`, ok == true
//
// A request made only of notifications has no response: HandleRaw reports false and
// HandleRequest returns nil.
//
// # Levels
//
// The engine is layered; each level can be called directly:
//
//   - Handle runs one already-parsed method with its params.
//   - HandleCall turns one Call into at most one Output.
//   - HandleRequest turns a single or batch Request into at most one Response.
//   - HandleRaw and HandleRawCBOR read and write encoded text.
//
// # Parameters
//
// Registries bind params to a method's parameter names with BindArgs. Positional params must
// have exactly one value per parameter; named params must have every name and nothing else.
// Absent and null params bind like an empty list.
//
// # Error Handling
//
// Methods return JSONRPCError for protocol-level errors:
//
//	return 0, jsonrpc.NewError(jsonrpc.CodeInvalidParams, "division by zero")
//
// Standard error codes are defined as constants:
//   - CodeParseError (-32700)
//   - CodeInvalidRequest (-32600)
//   - CodeMethodNotFound (-32601)
//   - CodeInvalidParams (-32602)
//   - CodeInternalError (-32603)
//
// Any other error becomes CodeInternalError with the error text as message. Results that
// cannot be encoded become CodeResultSerialization. Panics in methods are recovered and
// reported as CodeInternalError.
package jsonrpc
