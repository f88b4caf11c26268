package main

import (
	"flag"
	"testing"

	vybiummasm "github.com/vybium/vybium-masm/pkg/vybium-masm"
)

// TestOptionsConfig tests that shared flags map onto the interpreter config
func TestOptionsConfig(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var opts options
	opts.register(fs)
	if err := fs.Parse([]string{"-max-cycles", "50", "-loop", "non-zero"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := opts.config()
	if err != nil {
		t.Fatalf("config() failed: %v", err)
	}
	if cfg.MaxCycles != 50 {
		t.Errorf("MaxCycles = %d, want 50", cfg.MaxCycles)
	}
	if cfg.LoopCondition != vybiummasm.ConditionNonZero {
		t.Errorf("LoopCondition = %v, want non-zero", cfg.LoopCondition)
	}

	opts.loop = "sometimes"
	if _, err := opts.config(); err == nil {
		t.Error("config() should reject an unknown loop condition")
	}
	opts.loop = "equals-one"
	opts.maxDepth = 0
	if _, err := opts.config(); err == nil {
		t.Error("config() should reject a zero call depth")
	}
}

// TestFormatValues tests the run output line
func TestFormatValues(t *testing.T) {
	if got := formatValues([]uint64{3, 0, 18446744069414584320}); got != "3 0 18446744069414584320" {
		t.Errorf("formatValues() = %q", got)
	}
}
