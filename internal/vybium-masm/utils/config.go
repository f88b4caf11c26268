// Package utils provides the interpreter configuration
package utils

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// LoopCondition selects which popped values keep a while loop running.
//
// The default, ConditionEqualsOne, stops on any value other than 1, so a
// countdown such as `push.5 dup while.true decr dup end` never enters its
// body and leaves 5 on top. Counting loops that test the counter itself need
// ConditionNonZero.
type LoopCondition uint8

const (
	// ConditionEqualsOne continues a loop only while the condition is 1
	ConditionEqualsOne LoopCondition = iota
	// ConditionNonZero continues a loop while the condition is non-zero
	ConditionNonZero
)

func (c LoopCondition) String() string {
	switch c {
	case ConditionEqualsOne:
		return "equals-one"
	case ConditionNonZero:
		return "non-zero"
	}
	return "unknown"
}

// ParseLoopCondition maps a policy name back to its value
func ParseLoopCondition(s string) (LoopCondition, error) {
	switch s {
	case "equals-one", "one", "":
		return ConditionEqualsOne, nil
	case "non-zero", "nonzero":
		return ConditionNonZero, nil
	}
	return 0, errors.Errorf("unknown loop condition %q (want equals-one or non-zero)", s)
}

// Config represents the configuration of the interpreter
type Config struct {
	// Safety limits
	MaxCycles    int // Operands dispatched before execution is aborted
	MaxCallDepth int // Nested exec calls before execution is aborted

	// Control flow
	LoopCondition LoopCondition

	// Diagnostics
	Trace  bool      // Record one trace row per executed operand
	Output io.Writer // Sink of print operands

	Logger zerolog.Logger
}

// DefaultConfig returns the default interpreter configuration
func DefaultConfig() *Config {
	return &Config{
		MaxCycles:     1000000,
		MaxCallDepth:  256,
		LoopCondition: ConditionEqualsOne,
		Trace:         false,
		Output:        io.Discard,
		Logger:        zerolog.Nop(),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxCycles <= 0 {
		return errors.New("max cycles must be positive")
	}

	if c.MaxCallDepth <= 0 {
		return errors.New("max call depth must be positive")
	}

	if c.LoopCondition != ConditionEqualsOne && c.LoopCondition != ConditionNonZero {
		return errors.Errorf("unknown loop condition %d", c.LoopCondition)
	}

	if c.Output == nil {
		return errors.New("output writer must not be nil")
	}

	return nil
}

// WithMaxCycles sets the cycle limit
func (c *Config) WithMaxCycles(n int) *Config {
	c.MaxCycles = n
	return c
}

// WithMaxCallDepth sets the call depth limit
func (c *Config) WithMaxCallDepth(n int) *Config {
	c.MaxCallDepth = n
	return c
}

// WithLoopCondition sets the while loop policy
func (c *Config) WithLoopCondition(cond LoopCondition) *Config {
	c.LoopCondition = cond
	return c
}

// WithTrace enables or disables trace recording
func (c *Config) WithTrace(on bool) *Config {
	c.Trace = on
	return c
}

// WithOutput sets the sink of print operands
func (c *Config) WithOutput(w io.Writer) *Config {
	c.Output = w
	return c
}

// WithLogger sets the logger
func (c *Config) WithLogger(l zerolog.Logger) *Config {
	c.Logger = l
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	return &Config{
		MaxCycles:     c.MaxCycles,
		MaxCallDepth:  c.MaxCallDepth,
		LoopCondition: c.LoopCondition,
		Trace:         c.Trace,
		Output:        c.Output,
		Logger:        c.Logger,
	}
}
