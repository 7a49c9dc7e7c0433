// Package methods builds a jsonrpc.Registry from ordinary Go functions and methods.
//
// Functions are added one at a time with Add, or all at once from a receiver with Register:
//
//	type Calc struct{}
//
//	type AddParams struct {
//		_ struct{} `jsonrpc:"add"`
//		A int      `json:"a"`
//		B int      `json:"b"`
//	}
//
//	func (Calc) Add(ctx context.Context, p AddParams) (int, error) { return p.A + p.B, nil }
//
//	r := methods.New()
//	r.MustRegister("", Calc{})
//	r.MustAdd("neg", func(x int) int { return -x }, "x")
//
// The fields of a single params struct are the method's parameters, in field order, named by
// their json tags. Plain parameters are named by Add's arguments, by the receiver's
// RPCParamNames, or arg0, arg1, ... otherwise.
//
// Names starting with "rpc." are rejected when registering, so they are never dispatched.
package methods
