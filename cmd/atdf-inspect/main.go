// Command atdf-inspect is an interactive browser for ATDF documents. It
// shows modules, registers and the fields extracted from their bitfields.
//
// Usage:
//
//	atdf-inspect [flags] [file.atdf]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chipdesc/atdf-go/cmd/atdf-inspect/interactive"
	"github.com/chipdesc/atdf-go/pkg/config"
)

func main() {
	logLevel := flag.String("log-level", "warn", "Log level for field diagnostics (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: atdf-inspect [flags] [file.atdf]")
		flag.PrintDefaults()
	}
	flag.Parse()

	level, err := config.ParseLogLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	shell, err := interactive.New(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		if err := shell.Load(flag.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	shell.Run(ctx)
}
