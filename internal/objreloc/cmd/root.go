package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"objreloc/internal/config"
	"objreloc/internal/disasm"
	"objreloc/internal/listing"
	"objreloc/internal/logging"
	"objreloc/internal/objdump"
	"objreloc/internal/objreloc/log"
	"objreloc/internal/ui/colorize"
)

// newSource builds the listing source for a configuration. Tests replace it.
var newSource = func(cfg config.Config) objdump.Source {
	return objdump.Objdump{Path: cfg.Objdump, Section: cfg.Section}
}

// session is the state shared by every command once the object files are
// loaded and the requested relocations applied.
type session struct {
	cfg    config.Config
	repo   *objdump.Repository
	logger *logging.LoggerCloser
	styled bool
}

func (s *session) Close() error {
	return s.logger.Close()
}

func openSession(cmd *cobra.Command, files []string) (*session, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	flagDebug, _ := cmd.Flags().GetBool("debug")
	debug := flagDebug || cfg.Debug
	log.Setup(cmd.ErrOrStderr(), debug)

	logger := logging.NewLogger
	if debug {
		logger = logging.NewDebugLogger
	}

	s := &session{
		cfg:    cfg,
		repo:   objdump.NewRepository(),
		logger: logger(cmd.ErrOrStderr()),
		styled: !cfg.NoColor && isTerminal(cmd.OutOrStdout()),
	}

	src := newSource(cfg)
	for _, file := range files {
		if err := s.repo.LoadFile(cmd.Context(), src, file); err != nil {
			s.Close()
			return nil, err
		}
		s.logger.Debug("Loaded object", "file", file, "functions", s.repo.Len())
	}

	placements, _ := cmd.Flags().GetStringArray("relocate")
	for _, p := range placements {
		name, addr, err := objdump.ParsePlacement(p)
		if err != nil {
			s.Close()
			return nil, err
		}
		if err := s.repo.SetStart(name, addr); err != nil {
			s.Close()
			return nil, fmt.Errorf("relocate: %w", err)
		}
		s.logger.Debug("Relocated function", "name", name, "start", fmt.Sprintf("%#x", addr))
	}
	return s, nil
}

// resolveConfig layers command line flags over the config file and
// environment.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("objdump") {
		cfg.Objdump, _ = cmd.Flags().GetString("objdump")
	}
	if cmd.Flags().Changed("section") {
		cfg.Section, _ = cmd.Flags().GetString("section")
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
	return cfg, cfg.Validate()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// NewRootCmd builds the objreloc command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "objreloc [files...]",
		Short: "Query and relocate functions in object files",
		Long: `Objreloc loads object files through objdump, rebuilds each function as
bytes and relocation placeholders, and prints them. Functions can be moved to
new addresses with --relocate; branch displacements that target them are
recomputed when the code is printed.`,
		Example: `
# List every function with its size and position
objreloc -l -n -s -p prog.o

# Move b to 0x100 and show the patched code of a
objreloc -r b:100 -f a -c prog.o

# Total code size
objreloc -v -s prog.o
  `,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "JSON config file (default $OBJRELOC_CONFIG)")
	pf.String("objdump", "gobjdump", "objdump binary")
	pf.String("section", ".text", "Section whose relocations are read")
	pf.StringArrayP("relocate", "r", nil, "Relocate a function, format <name>:<hex-address>")
	pf.BoolP("debug", "d", false, "Debug")

	f := rootCmd.Flags()
	f.BoolP("verbose", "v", false, "Label every printed field")
	f.BoolP("list", "l", false, "List all loaded functions")
	f.BoolP("name", "n", false, "Show name of function (with -f or -l)")
	f.BoolP("demangle", "D", false, "Show demangled name of function (with -f or -l)")
	f.BoolP("size", "s", false, "Show size of code; alone, the total over all functions")
	f.BoolP("position", "p", false, "Show position of code (with -f or -l)")
	f.BoolP("code", "c", false, "Show code (with -f or -l)")
	f.BoolP("asm", "a", false, "Show decoded instructions of the relocated code (with -f or -l)")
	f.StringArrayP("function", "f", nil, "Show information for this function")

	rootCmd.AddCommand(newGraphCmd(), newReportCmd(), newSchemaCmd())
	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	flags := cmd.Flags()
	list, _ := flags.GetBool("list")
	functions, _ := flags.GetStringArray("function")
	showAsm, _ := flags.GetBool("asm")

	p := listing.Printer{Verbose: s.cfg.Verbose, Styled: s.styled}
	p.Fields.Name, _ = flags.GetBool("name")
	p.Fields.Demangled, _ = flags.GetBool("demangle")
	p.Fields.Size, _ = flags.GetBool("size")
	p.Fields.Position, _ = flags.GetBool("position")
	p.Fields.Code, _ = flags.GetBool("code")

	out := cmd.OutOrStdout()
	show := func(fn *objdump.Function) error {
		line, err := p.Line(fn)
		if err != nil {
			return fmt.Errorf("%s: %w", fn.Name, err)
		}
		if p.Fields.Any() {
			fmt.Fprintln(out, line)
		}
		if showAsm {
			return printAsm(out, s, fn)
		}
		return nil
	}

	switch {
	case list:
		for _, fn := range s.repo.Functions() {
			if err := show(fn); err != nil {
				return err
			}
		}
	case len(functions) > 0:
		for _, name := range functions {
			fn, err := s.repo.Function(name)
			if err != nil {
				return err
			}
			if err := show(fn); err != nil {
				return err
			}
		}
	case p.Fields.Size:
		fmt.Fprintln(out, p.Total(s.repo))
	}
	return nil
}

// printAsm decodes fn's current bytes at its current start, naming branch
// targets that land on a function start. Calls that land anywhere else are
// reported as warnings.
func printAsm(w io.Writer, s *session, fn *objdump.Function) error {
	code, err := fn.Bytes()
	if err != nil {
		return fmt.Errorf("%s: %w", fn.Name, err)
	}
	stream := disasm.Decode(code, fn.Start, func(addr uint64) (string, bool) {
		if f, ok := s.repo.FunctionAt(addr); ok {
			return f.Name, true
		}
		return "", false
	})
	for _, line := range strings.Split(strings.TrimSuffix(stream.String(), "\n"), "\n") {
		if line == "" {
			continue
		}
		if s.styled {
			line = colorize.ColorizeInstructionLine(line)
		}
		fmt.Fprintln(w, line)
	}

	for _, call := range stream.Calls() {
		if _, ok := s.repo.FunctionAt(call.Target); !ok {
			s.logger.Warn("Call target is not a function start",
				"function", fn.Name,
				"address", fmt.Sprintf("%#x", call.VA),
				"target", fmt.Sprintf("%#x", call.Target))
		}
	}
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()

	// Bypass fang's styled help and errors when output is piped
	if !term.IsTerminal(os.Stdout.Fd()) {
		if err := rootCmd.ExecuteContext(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	if err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
