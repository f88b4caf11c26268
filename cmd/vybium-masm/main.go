package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	vybiummasm "github.com/vybium/vybium-masm/pkg/vybium-masm"
)

const appName = "vybium-masm"

const usageText = `usage: vybium-masm <command> [flags] [file]

Commands:
  run    execute a program and print the top of the stack
  check  parse a program and report syntax errors
  fmt    print programs in canonical form (-w rewrites the files)
  prove  execute a program and print a proof as JSON
  repl   build and execute a program interactively

Run 'vybium-masm <command> -h' for the flags of a command.
`

func usage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "run":
		os.Exit(cmdRun(args))
	case "check":
		os.Exit(cmdCheck(args))
	case "fmt":
		os.Exit(cmdFmt(args))
	case "prove":
		os.Exit(cmdProve(args))
	case "repl":
		os.Exit(cmdRepl(args))
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, os.Args[1])
		usage()
		os.Exit(2)
	}
}

// options are the flags shared by the executing commands
type options struct {
	inputs    string
	maxCycles int
	maxDepth  int
	loop      string
	verbose   bool
	trace     bool
}

func (o *options) register(fs *flag.FlagSet) {
	def := vybiummasm.DefaultConfig()
	fs.StringVar(&o.inputs, "inputs", "", "JSON file with operand_stack and advice_stack")
	fs.IntVar(&o.maxCycles, "max-cycles", def.MaxCycles, "abort after this many operands")
	fs.IntVar(&o.maxDepth, "max-depth", def.MaxCallDepth, "abort beyond this exec nesting")
	fs.StringVar(&o.loop, "loop", def.LoopCondition.String(), "while policy: equals-one or non-zero")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.BoolVar(&o.trace, "vv", false, "trace every dispatched operand")
}

func (o *options) config() (*vybiummasm.Config, error) {
	cond, err := vybiummasm.ParseLoopCondition(o.loop)
	if err != nil {
		return nil, err
	}
	cfg := vybiummasm.DefaultConfig().
		WithMaxCycles(o.maxCycles).
		WithMaxCallDepth(o.maxDepth).
		WithLoopCondition(cond).
		WithLogger(newLogger(o.verbose, o.trace))
	return cfg, cfg.Validate()
}

func (o *options) load() (*vybiummasm.Inputs, error) {
	if o.inputs == "" {
		return vybiummasm.NewInputs(nil, nil), nil
	}
	return vybiummasm.LoadInputs(o.inputs)
}

// newLogger logs to stderr. The level comes from VYBIUM_MASM_LOG unless a
// verbosity flag is given.
func newLogger(verbose, trace bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if env := os.Getenv("VYBIUM_MASM_LOG"); env != "" {
		if l, err := zerolog.ParseLevel(env); err == nil {
			level = l
		}
	}
	switch {
	case trace:
		level = zerolog.TraceLevel
	case verbose:
		level = zerolog.DebugLevel
	}

	w := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func readSource(fs *flag.FlagSet) (string, string, error) {
	if fs.NArg() != 1 {
		return "", "", fmt.Errorf("expected exactly one source file")
	}
	path := fs.Arg(0)
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return "<stdin>", string(data), err
	}
	data, err := os.ReadFile(path)
	return path, string(data), err
}

func fail(format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "%s: %s\n", appName, fmt.Sprintf(format, args...))
	return 1
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var opts options
	opts.register(fs)
	n := fs.Int("n", 16, "number of stack values to print")
	showTrace := fs.Bool("trace", false, "print the execution trace")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := opts.config()
	if err != nil {
		return fail("%v", err)
	}
	cfg.WithTrace(*showTrace).WithOutput(os.Stdout)

	in, err := opts.load()
	if err != nil {
		return fail("%v", err)
	}
	path, src, err := readSource(fs)
	if err != nil {
		return fail("%v", err)
	}
	mod, err := vybiummasm.Assemble(src)
	if err != nil {
		return fail("%s: %v", path, err)
	}

	res, err := vybiummasm.Run(cfg, mod, in)
	if err != nil {
		return fail("%s: %v", path, err)
	}

	if *showTrace {
		for _, row := range res.Trace {
			where := "begin"
			if row.Procedure != "" {
				where = "proc." + row.Procedure
			}
			fmt.Printf("%6d  %-16s %4d  %-24s %v\n", row.Cycle, where, row.Index, row.Operand, row.Stack[:4])
		}
	}
	fmt.Println(formatValues(res.Outputs(*n)))

	if !res.OK() {
		fmt.Fprintf(os.Stderr, "%d operand(s) rejected:\n", len(res.Diagnostics))
		fmt.Fprint(os.Stderr, vybiummasm.FormatAnnotated(mod, res.Diagnostics))
		return 1
	}
	return 0
}

func formatValues(values []uint64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	status := 0
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			status = fail("%v", err)
			continue
		}
		mod, err := vybiummasm.Assemble(string(data))
		if err != nil {
			status = fail("%s: %v", path, err)
			continue
		}
		if mod.Main == nil {
			fmt.Printf("%s: ok (%d procedures, no begin block)\n", path, len(mod.Procedures))
		} else {
			fmt.Printf("%s: ok (%d procedures, %d operands in begin)\n", path, len(mod.Procedures), mod.Main.Len())
		}
	}
	return status
}

// -----------------------------------------------------------------------------
// fmt
// -----------------------------------------------------------------------------

func cmdFmt(args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	write := fs.Bool("w", false, "write result to the source file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	status := 0
	for _, path := range fs.Args() {
		info, err := os.Stat(path)
		if err != nil {
			status = fail("%v", err)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			status = fail("%v", err)
			continue
		}
		mod, err := vybiummasm.Assemble(string(data))
		if err != nil {
			status = fail("%s: %v", path, err)
			continue
		}

		out := vybiummasm.Format(mod)
		if !*write {
			fmt.Print(out)
			continue
		}
		if out == string(data) {
			continue
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			status = fail("%v", err)
		}
	}
	return status
}

// -----------------------------------------------------------------------------
// prove
// -----------------------------------------------------------------------------

type proofOutput struct {
	ProgramDigest string   `json:"program_digest"`
	Input         []uint64 `json:"input"`
	Output        []uint64 `json:"output"`
	Cycles        int      `json:"cycles"`
	Commitment    string   `json:"commitment"`
	OpenedRows    []int    `json:"opened_rows"`
}

func cmdProve(args []string) int {
	fs := flag.NewFlagSet("prove", flag.ContinueOnError)
	var opts options
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := opts.config()
	if err != nil {
		return fail("%v", err)
	}
	in, err := opts.load()
	if err != nil {
		return fail("%v", err)
	}
	path, src, err := readSource(fs)
	if err != nil {
		return fail("%v", err)
	}

	p, err := vybiummasm.NewProver(cfg)
	if err != nil {
		return fail("%v", err)
	}
	prog, err := p.Compile(src)
	if err != nil {
		return fail("%s: %v", path, err)
	}
	outputs, proof, err := p.Prove(prog, in)
	if err != nil {
		return fail("%s: %v", path, err)
	}

	out := proofOutput{
		ProgramDigest: fmt.Sprintf("%016x", proof.Digest.Value()),
		Input:         in.OperandStack,
		Output:        outputs,
		Cycles:        proof.Cycles,
		Commitment:    hex.EncodeToString(proof.Commitment),
	}
	for _, row := range proof.Queries {
		out.OpenedRows = append(out.OpenedRows, row.Cycle)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fail("%v", err)
	}
	return 0
}
