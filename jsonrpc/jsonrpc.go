package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Invoker decodes params for one method, calls it and encodes its result.
// Errors may be *JSONRPCError, *ArgsError or any other error; see AsError.
type Invoker func(ctx context.Context, params Params) (json.RawMessage, error)

// Registry resolves method names to invokers. Implementations must be safe for concurrent
// use and must never resolve a name starting with "rpc.".
type Registry interface {
	Resolve(method string) (Invoker, bool)
}

// RegistryFunc adapts a function to the Registry interface.
type RegistryFunc func(method string) (Invoker, bool)

func (f RegistryFunc) Resolve(method string) (Invoker, bool) {
	return f(method)
}

// Server dispatches calls against a Registry. It holds no per-request state, so one Server
// may be used from many goroutines as long as the methods behind the Registry allow it.
type Server struct {
	registry   Registry
	log        zerolog.Logger
	batchLimit int
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for recovered panics and swallowed failures.
func WithLogger(log zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// WithBatchConcurrency dispatches up to n calls of a batch in parallel. Outputs keep the
// order of the calls. n <= 1 dispatches sequentially, which is the default.
func WithBatchConcurrency(n int) ServerOption {
	return func(s *Server) {
		s.batchLimit = n
	}
}

// NewServer creates a Server for the methods of registry.
func NewServer(registry Registry, opts ...ServerOption) *Server {
	s := &Server{
		registry:   registry,
		log:        zerolog.Nop(),
		batchLimit: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle resolves method and invokes it with params.
func (s *Server) Handle(ctx context.Context, method string, params Params) (json.RawMessage, *JSONRPCError) {
	invoke, ok := s.registry.Resolve(method)
	if !ok {
		return nil, NewMethodNotFoundError("method not found: " + method)
	}
	return s.invoke(ctx, method, invoke, params)
}

func (s *Server) invoke(ctx context.Context, method string, invoke Invoker, params Params) (result json.RawMessage, rpcErr *JSONRPCError) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("method", method).
				Str("panic", fmt.Sprint(r)).
				Msg("jsonrpc: recovered panic in method")
			result, rpcErr = nil, NewInternalError("internal error")
		}
	}()

	result, err := invoke(ctx, params)
	if err != nil {
		rpcErr = AsError(err)
		if rpcErr.Code == CodeResultSerialization {
			s.log.Error().Str("method", method).Str("error", rpcErr.Message).Msg("jsonrpc: result not serializable")
		}
		return nil, rpcErr
	}
	if result == nil {
		result = json.RawMessage("null")
	}
	if !json.Valid(result) {
		s.log.Error().Str("method", method).Msg("jsonrpc: method returned invalid JSON")
		return nil, NewError(CodeResultSerialization, "error serializing result: invalid JSON")
	}
	return result, nil
}

// HandleCall dispatches one call. It returns nil for notifications, whatever the outcome of
// the method, and exactly one Output otherwise.
func (s *Server) HandleCall(ctx context.Context, call Call) Output {
	switch c := call.(type) {
	case *Notification:
		s.handleNotification(ctx, c)
		return nil
	case *MethodCall:
		id := c.ID
		result, err := s.Handle(contextWithCall(ctx, c.Method, &id), c.Method, c.Params)
		if err != nil {
			return &Failure{Version: c.Version, Error: err, ID: c.ID}
		}
		return &Success{Version: c.Version, Result: result, ID: c.ID}
	case *InvalidCall:
		return &Failure{
			Version: V2,
			Error:   NewInvalidRequestError("invalid request"),
			ID:      c.ID,
		}
	}
	panic(fmt.Sprintf("jsonrpc: unknown call type %T", call))
}

func (s *Server) handleNotification(ctx context.Context, n *Notification) {
	invoke, ok := s.registry.Resolve(n.Method)
	if !ok {
		s.log.Debug().Str("method", n.Method).Msg("jsonrpc: notification for unknown method")
		return
	}
	if _, err := s.invoke(contextWithCall(ctx, n.Method, nil), n.Method, invoke, n.Params); err != nil {
		s.log.Debug().
			Str("method", n.Method).
			Int("code", err.Code).
			Str("error", err.Message).
			Msg("jsonrpc: notification failed")
	}
}

// HandleRequest dispatches a single call or a batch. It returns nil when no call produced an
// output, so a batch of notifications has no response rather than an empty batch.
func (s *Server) HandleRequest(ctx context.Context, req Request) Response {
	switch r := req.(type) {
	case SingleRequest:
		out := s.HandleCall(ctx, r.Call)
		if out == nil {
			return nil
		}
		return SingleResponse{Output: out}
	case BatchRequest:
		outputs := s.handleBatch(ctx, r.Calls)
		if len(outputs) == 0 {
			return nil
		}
		return BatchResponse{Outputs: outputs}
	}
	panic(fmt.Sprintf("jsonrpc: unknown request type %T", req))
}

func (s *Server) handleBatch(ctx context.Context, calls []Call) []Output {
	slots := make([]Output, len(calls))
	if s.batchLimit <= 1 || len(calls) < 2 {
		for i, call := range calls {
			slots[i] = s.HandleCall(ctx, call)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.batchLimit)
		for i, call := range calls {
			i, call := i, call
			g.Go(func() error {
				slots[i] = s.HandleCall(ctx, call)
				return nil
			})
		}
		// Goroutines never return errors.
		_ = g.Wait()
	}

	outputs := make([]Output, 0, len(slots))
	for _, out := range slots {
		if out != nil {
			outputs = append(outputs, out)
		}
	}
	return outputs
}

// HandleRaw parses request text, dispatches it and renders the response. It reports false
// when the request produced no response. Unreadable text is answered with an invalid
// request failure with a null id.
func (s *Server) HandleRaw(ctx context.Context, text string) (string, bool) {
	resp := s.HandleRequest(ctx, ParseRequest([]byte(text)))
	if resp == nil {
		return "", false
	}
	out := RenderResponse(resp)
	if out == renderFallback {
		s.log.Error().Msg("jsonrpc: response could not be rendered")
	}
	return out, true
}
