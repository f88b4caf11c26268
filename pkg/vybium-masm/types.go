package vybiummasm

import (
	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	"github.com/vybium/vybium-masm/internal/vybium-masm/inputs"
	"github.com/vybium/vybium-masm/internal/vybium-masm/prover"
	"github.com/vybium/vybium-masm/internal/vybium-masm/utils"
	"github.com/vybium/vybium-masm/internal/vybium-masm/vm"
)

// Module is a set of procedures and an optional entry block
type Module = asm.Module

// Program is a procedure or entry block: a flat operand sequence
type Program = asm.Program

// Operand is one instruction
type Operand = asm.Operand

// Opcode identifies an instruction
type Opcode = asm.Opcode

// Config configures the interpreter
type Config = utils.Config

// LoopCondition selects when while loops continue
type LoopCondition = utils.LoopCondition

// While loop policies
const (
	ConditionEqualsOne = utils.ConditionEqualsOne
	ConditionNonZero   = utils.ConditionNonZero
)

// Stack is the operand stack
type Stack = vm.Stack

// Result is the outcome of a run
type Result = vm.Result

// Diagnostic is an error record attached to a rejected operand
type Diagnostic = vm.Diagnostic

// Error is a violated operand precondition
type Error = vm.Error

// ErrorKind classifies a violated precondition
type ErrorKind = vm.ErrorKind

// Session builds and executes an entry block incrementally
type Session = vm.Session

// Inputs is the initial state of a run
type Inputs = inputs.Inputs

// Backend compiles and proves programs
type Backend = prover.Backend

// CompiledProgram is a program accepted by a proving backend
type CompiledProgram = prover.CompiledProgram

// Proof is the output of a proving backend
type Proof = prover.Proof
