package utils

import (
	"bytes"
	"testing"
)

// TestDefaultConfig tests the DefaultConfig function
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if config.MaxCycles <= 0 {
		t.Error("MaxCycles should be positive")
	}

	if config.MaxCallDepth <= 0 {
		t.Error("MaxCallDepth should be positive")
	}

	if config.LoopCondition != ConditionEqualsOne {
		t.Errorf("LoopCondition = %v, want equals-one", config.LoopCondition)
	}

	if config.Output == nil {
		t.Error("Output should not be nil")
	}

	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig() should be valid: %v", err)
	}
}

// TestConfigValidate tests the Validate method
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		expectErr bool
	}{
		{
			name:      "valid default config",
			config:    DefaultConfig(),
			expectErr: false,
		},
		{
			name:      "zero max cycles",
			config:    DefaultConfig().WithMaxCycles(0),
			expectErr: true,
		},
		{
			name:      "negative call depth",
			config:    DefaultConfig().WithMaxCallDepth(-1),
			expectErr: true,
		},
		{
			name:      "unknown loop condition",
			config:    DefaultConfig().WithLoopCondition(LoopCondition(7)),
			expectErr: true,
		},
		{
			name:      "nil output",
			config:    DefaultConfig().WithOutput(nil),
			expectErr: true,
		},
		{
			name:      "non-zero loops",
			config:    DefaultConfig().WithLoopCondition(ConditionNonZero),
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

// TestConfigClone tests that a clone is independent of the original
func TestConfigClone(t *testing.T) {
	var buf bytes.Buffer
	original := DefaultConfig().WithTrace(true).WithOutput(&buf).WithMaxCycles(10)
	clone := original.Clone()

	if clone.MaxCycles != 10 || !clone.Trace || clone.Output != &buf {
		t.Errorf("Clone() = %+v, want copied fields", clone)
	}

	clone.WithMaxCycles(20)
	if original.MaxCycles != 10 {
		t.Errorf("modifying the clone changed the original: MaxCycles = %d", original.MaxCycles)
	}
}

// TestParseLoopCondition tests policy name parsing
func TestParseLoopCondition(t *testing.T) {
	for _, c := range []LoopCondition{ConditionEqualsOne, ConditionNonZero} {
		got, err := ParseLoopCondition(c.String())
		if err != nil || got != c {
			t.Errorf("ParseLoopCondition(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseLoopCondition("sometimes"); err == nil {
		t.Error("ParseLoopCondition should reject unknown names")
	}
}
