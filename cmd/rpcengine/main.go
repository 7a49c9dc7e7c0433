// Command rpcengine answers JSON-RPC 2.0 requests for the built-in adder service.
//
// A request is taken from the command line, a file or stdin, dispatched, and the response is
// written to stdout. Notifications produce no output.
//
//	rpcengine handle '{"jsonrpc":"2.0","method":"wrapping_add","params":[1,2],"id":1}'
//	rpcengine handle --format cbor --file request.cbor > response.cbor
//	rpcengine methods
//
// Flags may also be set as RPCENGINE_* environment variables or in a .env file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCLI().root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
