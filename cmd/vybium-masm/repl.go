package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	vybiummasm "github.com/vybium/vybium-masm/pkg/vybium-masm"
)

const (
	historyFile = ".vybium_masm_history"
	promptMain  = "masm> "
	promptCont  = "  ... "
)

const replHelp = `Statements run as soon as they are complete; blocks run at their end.
Procedures may be defined with proc.name ... end.

REPL commands:
  :stack     print the operand stack
  :program   print the program built so far with its diagnostics
  :help      print this help
  :quit      exit the REPL
`

func cmdRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	var opts options
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := opts.config()
	if err != nil {
		return fail("%v", err)
	}
	cfg.WithOutput(os.Stdout)
	in, err := opts.load()
	if err != nil {
		return fail("%v", err)
	}
	s, err := vybiummasm.NewSession(cfg, in)
	if err != nil {
		return fail("%v", err)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Printf("%s REPL. Type :help for help, Ctrl+D to exit.\n", appName)
	for {
		src, ok := readStatement(ln)
		if !ok {
			fmt.Println()
			return 0
		}

		switch cmd := strings.TrimSpace(src); {
		case cmd == "":
			continue
		case cmd == ":quit":
			return 0
		case cmd == ":help":
			fmt.Print(replHelp)
			continue
		case cmd == ":stack":
			fmt.Println(s.Stack())
			continue
		case cmd == ":program":
			fmt.Print(s.Annotated())
			continue
		case strings.HasPrefix(cmd, ":"):
			fmt.Println("unknown command. Type :help for help.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		before := len(s.Diagnostics())
		if err := s.Eval(src); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		for _, d := range s.Diagnostics()[before:] {
			fmt.Fprintln(os.Stderr, d)
		}
		fmt.Println(s.Stack())
	}
}

// readStatement reads lines until they form complete source: input that
// only fails for lack of an end keeps prompting for more
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := asm.ParseModule(src); errors.Cause(err) == asm.ErrUnexpectedEOF {
			continue
		}
		return src, true
	}
}
