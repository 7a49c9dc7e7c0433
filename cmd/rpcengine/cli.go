package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mnehpets/rpcengine/internal/adder"
	"github.com/mnehpets/rpcengine/jsonrpc"
	"github.com/mnehpets/rpcengine/methods"
)

// cli holds the command tree and the configuration shared by its commands.
type cli struct {
	root     *cobra.Command
	conf     *viper.Viper
	log      zerolog.Logger
	registry *methods.Registry
}

func newCLI() *cli {
	conf := viper.New()
	conf.SetEnvPrefix("RPCENGINE")
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	c := &cli{
		conf:     conf,
		log:      zerolog.Nop(),
		registry: adder.NewRegistry(&adder.Adder{}),
	}

	c.root = &cobra.Command{
		Use:           "rpcengine",
		Short:         "Answer JSON-RPC 2.0 requests for the adder service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setupLogging(cmd.ErrOrStderr())
		},
	}
	c.flag(c.root.PersistentFlags(), "log-level", "", "Log level (trace, debug, info, warn, error)", "info")
	c.flag(c.root.PersistentFlags(), "batch-concurrency", "c", "Number of batch calls dispatched in parallel", 1)

	c.root.AddCommand(c.handleCommand(), c.methodsCommand())
	return c
}

// flag adds a flag whose value can also come from the environment.
func (c *cli) flag(flags *pflag.FlagSet, name, short, description string, defaultValue interface{}) {
	c.conf.SetDefault(name, defaultValue)

	switch v := defaultValue.(type) {
	case bool:
		flags.BoolP(name, short, v, description)
	case int:
		flags.IntP(name, short, v, description)
	default:
		flags.StringP(name, short, fmt.Sprintf("%v", v), description)
	}
	if err := c.conf.BindPFlag(name, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

func (c *cli) setupLogging(w io.Writer) error {
	level, err := zerolog.ParseLevel(c.conf.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	c.log = zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return nil
}

func (c *cli) server() *jsonrpc.Server {
	return jsonrpc.NewServer(c.registry,
		jsonrpc.WithLogger(c.log),
		jsonrpc.WithBatchConcurrency(c.conf.GetInt("batch-concurrency")),
	)
}

func (c *cli) handleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handle [REQUEST]",
		Short: "Handle one request and print the response",
		Long: "Handle one request and print the response. The request is read from the argument,\n" +
			"from --file, or from stdin. Nothing is printed when the request has no response.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := c.readRequest(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			s := c.server()
			out := cmd.OutOrStdout()
			switch format := c.conf.GetString("format"); format {
			case "json":
				text, ok := s.HandleRaw(cmd.Context(), string(input))
				if !ok {
					c.log.Debug().Msg("Request produced no response")
					return nil
				}
				_, err = fmt.Fprintln(out, text)
			case "cbor":
				data, ok := s.HandleRawCBOR(cmd.Context(), input)
				if !ok {
					c.log.Debug().Msg("Request produced no response")
					return nil
				}
				_, err = out.Write(data)
			default:
				return fmt.Errorf("unknown format %q, want json or cbor", format)
			}
			return err
		},
	}
	c.flag(cmd.Flags(), "format", "f", "Request and response encoding (json or cbor)", "json")
	c.flag(cmd.Flags(), "file", "", "Read the request from this file", "")
	return cmd
}

func (c *cli) readRequest(stdin io.Reader, args []string) ([]byte, error) {
	file := c.conf.GetString("file")
	switch {
	case len(args) > 0 && file != "":
		return nil, fmt.Errorf("request given both as argument and --file")
	case len(args) > 0:
		return []byte(args[0]), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading request: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading request from stdin: %w", err)
	}
	return data, nil
}

func (c *cli) methodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the methods that can be called",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, name := range c.registry.Names() {
				params, _ := c.registry.Params(name)
				rows = append(rows, []string{name, strings.Join(params, ", ")})
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Method", "Params")
			if err := table.Bulk(rows); err != nil {
				return err
			}
			return table.Render()
		},
	}
}
