// Command atdf-diag views and analyzes diagnostics logs written by
// atdf-fields -diag-log, and the run history written by atdf-fields -db.
//
// Usage:
//
//	atdf-diag <command> [flags] <file>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	stats    Show statistics about the log file
//	runs     List runs recorded with atdf-fields -db
//
// Examples:
//
//	# View warnings and errors
//	atdf-diag view pack.dlog
//
//	# View only errors from field extraction
//	atdf-diag view -severity error -stage field pack.dlog
//
//	# Export to JSONL
//	atdf-diag export -format jsonl pack.dlog
//
//	# Show the fields stored for one run
//	atdf-diag runs -run 0f8e2c1a-... fields.db
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chipdesc/atdf-go/cmd/atdf-diag/commands"
	"github.com/chipdesc/atdf-go/pkg/log"
)

const usage = `atdf-diag - ATDF extraction diagnostics viewer

Usage:
  atdf-diag <command> [flags] <file>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  stats    Show statistics about the log file
  runs     List runs recorded with atdf-fields -db

Use "atdf-diag <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "runs":
		runRuns(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `atdf-diag view - View log file in human-readable format

Usage:
  atdf-diag view [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	severity := fs.String("severity", "", "Minimum severity (info, warning, error)")
	stage := fs.String("stage", "", "Filter by stage (load, field, output)")
	session := fs.String("session", "", "Filter by session ID")
	kind := fs.String("kind", "", "Filter by error kind, e.g. UnsupportedMask")
	source := fs.String("source", "", "Filter by source document")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	filter := log.Filter{SessionID: *session, Kind: *kind, Source: *source}

	if *severity != "" {
		s, err := log.ParseSeverity(*severity)
		if err != nil {
			fail(err)
		}
		filter.MinSeverity = &s
	}

	if *stage != "" {
		s, err := log.ParseStage(*stage)
		if err != nil {
			fail(err)
		}
		filter.Stage = &s
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `atdf-diag export - Export log file to JSONL or CSV format

Usage:
  atdf-diag export [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `atdf-diag stats - Show statistics about the log file

Usage:
  atdf-diag stats <file.dlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}

func runRuns(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `atdf-diag runs - List runs recorded with atdf-fields -db

Usage:
  atdf-diag runs [flags] <fields.db>

Flags:
`)
		fs.PrintDefaults()
	}

	runID := fs.String("run", "", "Show the fields of this run")
	limit := fs.Int("limit", 20, "Maximum number of runs to list")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunRuns(path, *runID, *limit, os.Stdout); err != nil {
		fail(err)
	}
}

func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
