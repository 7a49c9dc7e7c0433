// Package adder is a small arithmetic service used by the rpcengine command, the examples
// and the engine's tests.
package adder

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	"github.com/mnehpets/rpcengine/methods"
)

// Adder is safe for concurrent use.
type Adder struct {
	swallowed atomic.Int64
}

type CheckedAddParams struct {
	_ struct{} `jsonrpc:"checked_add"`
	A int64    `json:"a"`
	B int64    `json:"b"`
}

// CheckedAdd returns nil when a+b overflows.
func (*Adder) CheckedAdd(ctx context.Context, p CheckedAddParams) *int64 {
	if (p.B > 0 && p.A > math.MaxInt64-p.B) || (p.B < 0 && p.A < math.MinInt64-p.B) {
		return nil
	}
	sum := p.A + p.B
	return &sum
}

type WrappingAddParams struct {
	_ struct{} `jsonrpc:"wrapping_add"`
	A int64    `json:"a"`
	B int64    `json:"b"`
}

func (*Adder) WrappingAdd(ctx context.Context, p WrappingAddParams) int64 {
	return p.A + p.B
}

type IsSomeParams struct {
	_ struct{} `jsonrpc:"is_some"`
	A *uint64  `json:"a"`
}

func (*Adder) IsSome(p IsSomeParams) bool {
	return p.A != nil
}

type GreetParams struct {
	_ struct{} `jsonrpc:"greet"`
}

func (*Adder) Greet(GreetParams) string {
	return "hello"
}

type SwallowParams struct {
	_ struct{} `jsonrpc:"swallow"`
}

// Swallow returns nothing; its result is null.
func (a *Adder) Swallow(SwallowParams) {
	a.swallowed.Add(1)
}

// SwallowCount counts calls to a.Swallow, notifications included.
func SwallowCount(a *Adder) int64 {
	return a.swallowed.Load()
}

type RepeatListParams struct {
	_   struct{} `jsonrpc:"repeat_list"`
	Lst []uint64 `json:"lst"`
}

func (*Adder) RepeatList(p RepeatListParams) []uint64 {
	out := make([]uint64, 0, 2*len(p.Lst))
	out = append(out, p.Lst...)
	return append(out, p.Lst...)
}

type TakesRefParams struct {
	_  struct{} `jsonrpc:"takes_ref"`
	Rf *int64   `json:"rf"`
}

func (*Adder) TakesRef(TakesRefParams) {}

type FailParams struct {
	_ struct{} `jsonrpc:"fail"`
}

var ErrTada = errors.New("tada!")

func (*Adder) Fail(FailParams) (int64, error) {
	return 0, ErrTada
}

type SucceedParams struct {
	_ struct{} `jsonrpc:"succeed"`
}

func (*Adder) Succeed(SucceedParams) (int64, error) {
	return 1, nil
}

// NewRegistry returns a registry holding the methods of a.
func NewRegistry(a *Adder) *methods.Registry {
	r := methods.New()
	r.MustRegister("", a)
	return r
}
