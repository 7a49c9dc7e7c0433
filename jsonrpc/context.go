package jsonrpc

import "context"

type contextKey string

const (
	ctxKeyRequestID      contextKey = "jsonrpcRequestID"
	ctxKeyMethodName     contextKey = "jsonrpcMethodName"
	ctxKeyIsNotification contextKey = "jsonrpcIsNotification"
)

// RequestID returns the id of the method call being handled. It reports false inside
// notifications and outside of a dispatch.
func RequestID(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(ctxKeyRequestID).(ID)
	return id, ok
}

// MethodName returns the name of the method being handled.
func MethodName(ctx context.Context) (string, bool) {
	method, ok := ctx.Value(ctxKeyMethodName).(string)
	return method, ok
}

// IsNotification reports whether the method is being handled for a notification.
func IsNotification(ctx context.Context) bool {
	isNotification, ok := ctx.Value(ctxKeyIsNotification).(bool)
	return ok && isNotification
}

func contextWithCall(parent context.Context, method string, id *ID) context.Context {
	ctx := context.WithValue(parent, ctxKeyMethodName, method)
	ctx = context.WithValue(ctx, ctxKeyIsNotification, id == nil)
	if id != nil {
		ctx = context.WithValue(ctx, ctxKeyRequestID, *id)
	}
	return ctx
}
