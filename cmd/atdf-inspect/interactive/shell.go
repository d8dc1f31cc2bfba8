// Package interactive provides the interactive command-line interface
// of atdf-inspect.
package interactive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"github.com/chipdesc/atdf-go/pkg/atdf"
	"github.com/chipdesc/atdf-go/pkg/inspect"
	"github.com/chipdesc/atdf-go/pkg/log"
)

const prompt = "atdf> "

// Shell handles interactive browsing of one ATDF document at a time.
type Shell struct {
	rl        *readline.Instance
	out       io.Writer
	parser    *atdf.Parser
	formatter *inspect.Formatter
	inspector *inspect.Inspector
}

// New creates a shell reading commands from the terminal. Field
// diagnostics at or above level are logged below the prompt.
func New(level slog.Level) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("load"),
			readline.PcItem("ls"),
			readline.PcItem("show"),
			readline.PcItem("mask"),
			readline.PcItem("rw"),
			readline.PcItem("lines", readline.PcItem("on"), readline.PcItem("off")),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(rl.Stderr(), &slog.HandlerOptions{Level: level}))
	s := newShell(rl.Stdout(), log.NewSlogAdapter(logger))
	s.rl = rl
	return s, nil
}

func newShell(out io.Writer, diag log.Logger) *Shell {
	return &Shell{
		out:       out,
		parser:    atdf.NewParser(atdf.Config{Diagnostics: diag}),
		formatter: inspect.NewFormatter(),
	}
}

// Load replaces the current document.
func (s *Shell) Load(path string) error {
	root, err := atdf.LoadDocument(path)
	if err != nil {
		return err
	}
	s.inspector = inspect.NewInspector(root, s.parser)
	if s.rl != nil {
		s.rl.SetPrompt(fmt.Sprintf("atdf:%s> ", root.Source()))
	}
	return nil
}

// Run starts the interactive command loop. It returns when the user quits,
// input ends or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	fmt.Fprintln(s.out, "Type 'help' for commands.")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			return
		}

		if s.Execute(line) {
			return
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "load":
		s.cmdLoad(args)
	case "ls":
		s.cmdList(args)
	case "show", "s":
		s.cmdShow(args)
	case "mask", "m":
		s.cmdMask(args)
	case "rw":
		s.cmdAccess(args)
	case "lines":
		s.cmdLines(args)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
ATDF Inspector Commands:
  Document:
    load <file>        - Load an ATDF document
    ls [path]          - List modules, registers of a module, or fields of a register
    show <path>        - Show a field in detail
    lines on|off       - Show source line numbers in field lists

  Literals:
    mask <value>       - Parse a mask, e.g. mask 0x16
    rw [value]         - Resolve an access mode; no value means absent, "" means empty

  General:
    help               - Show this help
    quit               - Exit

  Path Format:
    module[/register[/field]] - e.g., WDT/CTRLA/ENABLE (case-insensitive)`)
}

func (s *Shell) cmdLoad(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: load <file>")
		return
	}
	if err := s.Load(args[0]); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Loaded %s (%d modules)\n", args[0], len(s.inspector.Modules()))
}

func (s *Shell) cmdList(args []string) {
	if !s.requireDocument() {
		return
	}
	if len(args) == 0 {
		fmt.Fprint(s.out, s.formatter.FormatModules(s.inspector.Modules()))
		return
	}

	path, ok := s.parsePath(args[0])
	if !ok {
		return
	}

	switch path.Depth() {
	case 1:
		mod, err := s.inspector.InspectModule(path.Module)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		fmt.Fprint(s.out, s.formatter.FormatModule(mod))
	case 2:
		s.showRegister(path)
	default:
		s.showField(path)
	}
}

func (s *Shell) cmdShow(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: show <module/register/field>")
		fmt.Fprintln(s.out, "  Example: show WDT/CTRLA/ENABLE")
		return
	}
	if !s.requireDocument() {
		return
	}
	path, ok := s.parsePath(args[0])
	if !ok {
		return
	}
	if path.Depth() < 3 {
		s.cmdList(args)
		return
	}
	s.showField(path)
}

func (s *Shell) showRegister(path *inspect.Path) {
	reg, err := s.inspector.InspectRegister(path.Module, path.Register)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(s.out, s.formatter.FormatRegister(reg))
}

func (s *Shell) showField(path *inspect.Path) {
	fi, err := s.inspector.InspectField(path)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(s.out, s.formatter.FormatField(fi))
}

func (s *Shell) cmdMask(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: mask <value>")
		return
	}
	m, ok, err := atdf.ParseMask(args[0])
	switch {
	case err != nil:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	case !ok:
		fmt.Fprintln(s.out, "Error: mask is zero, no bits selected")
	default:
		fmt.Fprint(s.out, s.formatter.FormatMask(m, 0))
		fmt.Fprintf(s.out, "Restriction: %s\n", atdf.ClassifyRestriction(m.Unsafe))
	}
}

func (s *Shell) cmdAccess(args []string) {
	var rw *string
	if len(args) > 0 {
		v := strings.Trim(strings.Join(args, " "), `"'`)
		rw = &v
	}
	mode, how, err := atdf.ResolveAccessMode(rw)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s (%s)\n", mode, how)
}

func (s *Shell) cmdLines(args []string) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(s.out, "Usage: lines on|off")
		return
	}
	s.formatter.ShowLines = args[0] == "on"
}

func (s *Shell) requireDocument() bool {
	if s.inspector == nil {
		fmt.Fprintln(s.out, "No document loaded (use: load <file>)")
		return false
	}
	return true
}

func (s *Shell) parsePath(input string) (*inspect.Path, bool) {
	path, err := inspect.ParsePath(input)
	if err != nil {
		fmt.Fprintf(s.out, "Invalid path: %v\n", err)
		return nil, false
	}
	return path, true
}
