package vybiummasm

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	"github.com/vybium/vybium-masm/internal/vybium-masm/prover"
)

// ErrorCode represents a vybium-masm error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrSyntax represents malformed assembly text
	ErrSyntax

	// ErrStructure represents unbalanced control flow
	ErrStructure

	// ErrExecution represents an aborted execution
	ErrExecution

	// ErrInvalidInput represents malformed inputs
	ErrInvalidInput

	// ErrAssembly represents a program the proving backend cannot compile
	ErrAssembly

	// ErrProving represents an execution that cannot be proven
	ErrProving
)

var codeNames = map[ErrorCode]string{
	ErrUnknown:       "unknown",
	ErrInvalidConfig: "invalid config",
	ErrSyntax:        "syntax",
	ErrStructure:     "structure",
	ErrExecution:     "execution",
	ErrInvalidInput:  "invalid input",
	ErrAssembly:      "assembly",
	ErrProving:       "proving",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// VMError represents a vybium-masm error
type VMError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *VMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-masm error [%s]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-masm error [%s]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *VMError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *VMError) Is(target error) bool {
	t, ok := target.(*VMError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// wrap classifies err. Errors of the internal packages carry their own
// type; anything else gets fallback.
func wrap(err error, fallback ErrorCode, msg string) error {
	if err == nil {
		return nil
	}

	var (
		se *asm.SyntaxError
		st *asm.StructureError
		ae *prover.AssemblyError
		pe *prover.ProvingError
	)
	code := fallback
	switch {
	case errors.As(err, &ae):
		code = ErrAssembly
	case errors.As(err, &pe):
		code = ErrProving
	case errors.As(err, &se):
		code = ErrSyntax
	case errors.As(err, &st):
		code = ErrStructure
	}
	return &VMError{Code: code, Message: msg, Cause: err}
}

// CodeOf returns the code of a *VMError in err's chain, or ErrUnknown
func CodeOf(err error) ErrorCode {
	var e *VMError
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}
