package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/mnehpets/rpcengine/jsonrpc"
	"github.com/mnehpets/rpcengine/methods"
)

type MathMethods struct{}

func (m *MathMethods) Add(ctx context.Context, a, b int) (int, error) {
	return a + b, nil
}

func (m *MathMethods) Sub(ctx context.Context, args struct {
	A int `json:"a"`
	B int `json:"b"`
}) (int, error) {
	return args.A - args.B, nil
}

func (m *MathMethods) Div(ctx context.Context, a, b int) (int, error) {
	if b == 0 {
		return 0, jsonrpc.NewInvalidParamsError("division by zero")
	}
	return a / b, nil
}

func (m *MathMethods) RPCParamNames() map[string][]string {
	return map[string][]string{
		"Add": {"a", "b"},
		"Div": {"dividend", "divisor"},
	}
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	r := methods.New()
	if err := r.Register("math", &MathMethods{}); err != nil {
		log.Fatal(err)
	}
	err := r.Add("rpc.ping", func() string { return "pong" })
	fmt.Println("registering rpc.ping:", errors.Is(err, methods.ErrReservedName))

	s := jsonrpc.NewServer(r, jsonrpc.WithLogger(logger))

	requests := []string{
		`{"jsonrpc":"2.0","method":"math.Add","params":[2,3],"id":1}`,
		`{"jsonrpc":"2.0","method":"math.Sub","params":{"a":10,"b":4},"id":2}`,
		`{"jsonrpc":"2.0","method":"math.Div","params":{"dividend":1,"divisor":0},"id":3}`,
		`{"jsonrpc":"2.0","method":"math.Add","params":[1,1]}`,
		`[{"jsonrpc":"2.0","method":"math.Add","params":[1,2],"id":"a"},{"jsonrpc":"2.0","method":"math.Mul","id":"b"}]`,
		`not json`,
	}
	for _, req := range requests {
		fmt.Println("-->", req)
		if resp, ok := s.HandleRaw(context.Background(), req); ok {
			fmt.Println("<--", resp)
		} else {
			fmt.Println("<-- (no response)")
		}
	}
}
