// Command knight runs Knight programs.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zephyrtronium/knight"
	// import for side effects
	_ "github.com/zephyrtronium/knight/coreext"
)

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	os.Exit(a.execute(os.Args[1:]))
}

// app holds the state of one invocation.
type app struct {
	cfg     Config
	flags   Config
	cfgPath string
	expr    string
	file    string
	stats   bool
	cpuProf string
	memProf string

	stdin  io.Reader
	out    *bufio.Writer
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger

	// status is the exit status.
	status int
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	out := bufio.NewWriter(stdout)
	return &app{
		stdin:  stdin,
		out:    out,
		stdout: out,
		stderr: stderr,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// execute runs the command line and returns the exit status.
func (a *app) execute(args []string) int {
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	err := cmd.Execute()
	a.flush()
	if err != nil {
		fmt.Fprintln(a.stderr, "knight:", err)
		return 1
	}
	return a.status
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "knight [file]",
		Short: "Run Knight programs",
		Long: `Run a Knight program from a file, the command line, or standard input.
With no program and a terminal on standard input, start an interactive session.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.configure,
		RunE:              a.run,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "config file (default $HOME/.knight.yaml)")
	pf.IntVar(&a.flags.MaxDepth, "max-depth", knight.DefaultMaxDepth, "maximum expression nesting")
	pf.Int64Var(&a.flags.Seed, "seed", 0, "seed for RANDOM (0 uses the clock)")
	pf.BoolVar(&a.flags.Checked, "checked", false, "make arithmetic overflow an error")
	pf.StringVar(&a.flags.Shell, "shell", "sh", "shell for the ` function")
	pf.StringVar(&a.flags.Encoding, "encoding", "utf8", "character encoding of programs and input")
	pf.StringVar(&a.flags.LogLevel, "log-level", "warn", "minimum level of diagnostics")
	pf.BoolVar(&a.flags.Trace, "trace", false, "log every function application")

	f := root.Flags()
	f.StringVarP(&a.expr, "expression", "e", "", "evaluate `EXPR` as the program")
	f.StringVarP(&a.file, "file", "f", "", "read the program from `FILE`")
	f.BoolVar(&a.stats, "stats", false, "print environment statistics after running")
	f.StringVar(&a.cpuProf, "cpuprofile", "", "write a CPU profile to `FILE`")
	f.StringVar(&a.memProf, "memprofile", "", "write a heap profile to `FILE`")

	root.AddCommand(a.replCmd(), a.versionCmd())
	return root
}

func (a *app) replCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl()
		},
	}
	cmd.Flags().StringVar(&a.flags.Prompt, "prompt", "knight> ", "interactive prompt")
	cmd.Flags().StringVar(&a.flags.History, "history", "", "history file")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "knight %s %s %s/%s", knight.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			if pv := knight.PlatformVersion(); pv != "" {
				fmt.Fprintf(a.stdout, " (%s)", pv)
			}
			fmt.Fprintln(a.stdout)
			return nil
		},
	}
}

// configure loads the config file and applies flags set on the command line
// over it.
func (a *app) configure(cmd *cobra.Command, args []string) error {
	path, required := a.cfgPath, true
	if path == "" {
		path, required = defaultConfigPath(), false
	}
	cfg, err := LoadConfig(path, required)
	if err != nil {
		return err
	}
	fl := cmd.Flags()
	overrides := []struct {
		name  string
		apply func()
	}{
		{"max-depth", func() { cfg.MaxDepth = a.flags.MaxDepth }},
		{"seed", func() { cfg.Seed = a.flags.Seed }},
		{"checked", func() { cfg.Checked = a.flags.Checked }},
		{"shell", func() { cfg.Shell = a.flags.Shell }},
		{"encoding", func() { cfg.Encoding = a.flags.Encoding }},
		{"log-level", func() { cfg.LogLevel = a.flags.LogLevel }},
		{"trace", func() { cfg.Trace = a.flags.Trace }},
		{"prompt", func() { cfg.Prompt = a.flags.Prompt }},
		{"history", func() { cfg.History = a.flags.History }},
	}
	for _, o := range overrides {
		if fl.Lookup(o.name) != nil && fl.Changed(o.name) {
			o.apply()
		}
	}
	if cfg.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, not %d", cfg.MaxDepth)
	}
	if _, err := lookupEncoding(cfg.Encoding); err != nil {
		return err
	}
	level := cfg.LogLevel
	if cfg.Trace {
		level = "debug"
	}
	a.logger, err = newLogger(a.stderr, level, cfg.TimeFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// run evaluates the program named on the command line.
func (a *app) run(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		if a.file != "" {
			return errors.New("cannot use both --file and a file argument")
		}
		a.file = args[0]
	}
	if a.expr != "" && a.file != "" {
		return errors.New("cannot use both --expression and a file")
	}
	if a.expr == "" && a.file == "" && isTerminal(a.stdin) {
		return a.repl()
	}

	stdin, err := decode(a.stdin, a.cfg.Encoding)
	if err != nil {
		return err
	}
	in := bufio.NewReader(stdin)
	var src io.Reader
	var label string
	switch {
	case a.expr != "":
		src, label = strings.NewReader(a.expr), "-e"
	case a.file != "":
		f, err := os.Open(a.file)
		if err != nil {
			return err
		}
		defer f.Close()
		if src, err = decode(f, a.cfg.Encoding); err != nil {
			return err
		}
		label = a.file
	default:
		// The program and PROMPT share standard input.
		src, label = in, "stdin"
	}

	vm, err := a.newVM(knight.NewLineReader(in))
	if err != nil {
		return err
	}
	defer vm.Close()
	stop, err := a.startProfile()
	if err != nil {
		return err
	}
	r, err := vm.Evaluate(src, label)
	if err := stop(); err != nil {
		a.logger.Warn("profiling", slog.Any("err", err))
	}
	if a.stats {
		defer a.printStats(vm)
	}
	if code, ok := knight.QuitCode(err); ok {
		a.status = code
		return nil
	}
	if err != nil {
		return err
	}
	r.Release()
	return nil
}

// newVM creates a VM configured by the loaded settings.
func (a *app) newVM(in knight.LineReader) (*knight.VM, error) {
	opts := []knight.Option{
		knight.WithStdin(in),
		knight.WithStdout(a.out),
		knight.WithShell(knight.SystemShell{Path: a.cfg.Shell}),
		knight.WithMaxDepth(a.cfg.MaxDepth),
		knight.WithChecked(a.cfg.Checked),
		knight.WithLogger(a.logger, a.cfg.Trace),
	}
	if a.cfg.Seed != 0 {
		opts = append(opts, knight.WithSeed(a.cfg.Seed))
	}
	vm := knight.NewVM(opts...)
	a.logger.Debug("vm ready", slog.Int64("seed", vm.Seed()), slog.Int("max_depth", vm.MaxDepth))
	return vm, nil
}

// startProfile starts CPU profiling if requested and returns a function that
// stops it and writes the heap profile.
func (a *app) startProfile() (func() error, error) {
	var cpu *os.File
	if a.cpuProf != "" {
		f, err := os.Create(a.cpuProf)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, err
		}
		cpu = f
	}
	return func() error {
		if cpu != nil {
			pprof.StopCPUProfile()
			if err := cpu.Close(); err != nil {
				return err
			}
		}
		if a.memProf == "" {
			return nil
		}
		f, err := os.Create(a.memProf)
		if err != nil {
			return err
		}
		defer f.Close()
		runtime.GC()
		return pprof.WriteHeapProfile(f)
	}, nil
}

func (a *app) printStats(vm *knight.VM) {
	s := vm.Footprint()
	fmt.Fprintf(a.stderr, "variables=%d assigned=%d strings=%d bytes=%d exprs=%d max_refs=%d\n",
		s.Variables, s.Assigned, s.Strings, s.Bytes, s.Exprs, s.MaxRefs)
}

func (a *app) flush() {
	if err := a.out.Flush(); err != nil {
		a.logger.Error("flushing output", slog.Any("err", err))
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
