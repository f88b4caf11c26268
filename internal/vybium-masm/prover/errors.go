package prover

import (
	"fmt"
)

// AssemblyError reports assembly text that cannot be compiled
type AssemblyError struct {
	Err error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembly error: %v", e.Err)
}

// Unwrap returns the underlying parse or structure error
func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// ProvingError reports an execution that cannot be proven
type ProvingError struct {
	Msg string
	Err error
}

func (e *ProvingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("proving error: %s: %v", e.Msg, e.Err)
	}
	return "proving error: " + e.Msg
}

// Unwrap returns the underlying execution error, if any
func (e *ProvingError) Unwrap() error {
	return e.Err
}
