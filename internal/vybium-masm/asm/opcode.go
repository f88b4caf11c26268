// Package asm provides the assembly language model: tokens, opcodes, operands,
// programs, the parser and the text emitter.
package asm

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Opcode identifies one instruction of the assembly language
type Opcode uint16

// Instruction set, grouped by family
const (
	// ========== Stack Manipulation ==========

	// Drop removes the top element
	Drop Opcode = iota + 1
	// DropW removes the top word
	DropW
	// PadW pushes a word of zeros
	PadW
	// Dup copies stack[i] to the top
	Dup
	// DupW copies word i to the top
	DupW
	// Swap swaps the top with stack[i]
	Swap
	// SwapW swaps word 0 with word i
	SwapW
	// SwapDW swaps words 0,1 with words 2,3
	SwapDW
	// MovUp moves stack[i] to the top
	MovUp
	// MovUpW moves word i to the top
	MovUpW
	// MovDn moves the top to stack[i]
	MovDn
	// MovDnW moves word 0 to word position i
	MovDnW
	// CSwap conditionally swaps the two elements under a binary condition
	CSwap
	// CSwapW conditionally swaps the two words under a binary condition
	CSwapW
	// CDrop keeps one of two elements depending on a binary condition
	CDrop
	// CDropW keeps one of two words depending on a binary condition
	CDropW
	// Push pushes a field element
	Push
	// AdvPush moves n values from the advice tape onto the stack
	AdvPush
	// AdvLoadW overwrites the top word with 4 advice tape values
	AdvLoadW

	// ========== Field Arithmetic ==========

	// Add adds the top two elements
	Add
	// Sub subtracts the top from the second element
	Sub
	// Mul multiplies the top two elements
	Mul
	// Div divides the second element by the top
	Div
	// Neg negates the top element
	Neg
	// Inv inverts the top element
	Inv
	// Pow2 computes 2^a for the top element
	Pow2
	// Exp raises the second element to the power of the top
	Exp
	// Incr adds one to the top element
	Incr
	// Decr subtracts one from the top element
	Decr
	// Assert fails unless the top element is 1
	Assert
	// AssertZ fails unless the top element is 0
	AssertZ
	// AssertEq fails unless the top two elements are equal
	AssertEq

	// ========== Comparison ==========

	// Eq pushes 1 when the top two elements are equal
	Eq
	// Neq pushes 1 when the top two elements differ
	Neq
	// Lt pushes 1 when a < b
	Lt
	// Lte pushes 1 when a <= b
	Lte
	// Gt pushes 1 when a > b
	Gt
	// Gte pushes 1 when a >= b
	Gte
	// EqW pushes 1 when word 0 equals word 1
	EqW

	// ========== Boolean ==========

	// And computes the boolean conjunction
	And
	// Or computes the boolean disjunction
	Or
	// Xor computes the boolean exclusive or
	Xor
	// Not computes the boolean negation
	Not

	// ========== Extension Field ==========

	// Ext2Add adds two extension elements
	Ext2Add
	// Ext2Sub subtracts two extension elements
	Ext2Sub
	// Ext2Mul multiplies two extension elements
	Ext2Mul
	// Ext2Neg negates an extension element
	Ext2Neg
	// Ext2Inv inverts an extension element
	Ext2Inv
	// Ext2Div divides two extension elements
	Ext2Div

	// ========== Memory ==========

	// MemLoad pushes element 0 of a RAM word
	MemLoad
	// MemLoadW overwrites the top word with a RAM word
	MemLoadW
	// MemStore stores the top element into RAM
	MemStore
	// MemStoreW stores the top word into RAM
	MemStoreW
	// LocLoad pushes element 0 of a local word
	LocLoad
	// LocLoadW overwrites the top word with a local word
	LocLoadW
	// LocStore stores the top element into local memory
	LocStore
	// LocStoreW stores the top word into local memory
	LocStoreW

	// ========== u32 Arithmetic ==========

	U32CheckedAdd
	U32WrappingAdd
	U32OverflowingAdd
	U32CheckedSub
	U32WrappingSub
	U32OverflowingSub
	U32CheckedMul
	U32WrappingMul
	U32OverflowingMul
	U32CheckedDiv
	U32UncheckedDiv
	U32CheckedMod
	U32UncheckedMod
	U32CheckedDivMod
	U32UncheckedDivMod

	// ========== u32 Bitwise ==========

	U32CheckedAnd
	U32CheckedOr
	U32CheckedXor
	U32CheckedNot
	U32CheckedShl
	U32UncheckedShl
	U32CheckedShr
	U32UncheckedShr
	U32CheckedRotl
	U32UncheckedRotl
	U32CheckedRotr
	U32UncheckedRotr

	// ========== u32 Comparison ==========

	U32CheckedEq
	U32CheckedNeq
	U32CheckedLt
	U32UncheckedLt
	U32CheckedLte
	U32UncheckedLte
	U32CheckedGt
	U32UncheckedGt
	U32CheckedGte
	U32UncheckedGte
	U32CheckedMin
	U32UncheckedMin
	U32CheckedMax
	U32UncheckedMax

	// ========== u32 Conversions ==========

	// U32Test pushes 1 when the top element is a u32 value
	U32Test
	// U32TestW pushes 1 when all elements of the top word are u32 values
	U32TestW
	// U32Assert fails unless the top element is a u32 value
	U32Assert
	// U32AssertW fails unless the top word holds u32 values
	U32AssertW
	// U32Cast reduces the top element modulo 2^32
	U32Cast
	// U32Split splits the top element into low and high 32-bit limbs
	U32Split

	// ========== Control Flow ==========

	// If opens a conditional block
	If
	// Else separates the two branches of a conditional block
	Else
	// End closes the innermost open block
	End
	// While opens a conditional loop
	While
	// Repeat opens a counted loop
	Repeat
	// Exec invokes a named procedure
	Exec

	// ========== Diagnostics ==========

	// Print writes a message and the stack to the configured output
	Print
	// ErrorMarker annotates a rejected operand
	ErrorMarker
	// Commented holds the text of a rejected operand
	Commented

	opcodeEnd
)

// Family groups opcodes by the handler that executes them
type Family uint8

const (
	FamilyStack Family = iota
	FamilyField
	FamilyComparison
	FamilyBoolean
	FamilyExt2
	FamilyMemory
	FamilyU32
	FamilyControl
	FamilyDiagnostic
)

// ImmPolicy describes whether an opcode accepts an immediate operand
type ImmPolicy uint8

const (
	// ImmNone means the opcode never takes an immediate
	ImmNone ImmPolicy = iota
	// ImmOptional means a following number is consumed as an immediate
	ImmOptional
	// ImmRequired means the opcode must be followed by a number
	ImmRequired
)

const (
	maxU32 = 1<<32 - 1
	maxU16 = 1<<16 - 1
)

// maxField is the largest canonical base field value
var maxField = uint64(field.P - 1)

// OpcodeInfo provides metadata about an opcode
type OpcodeInfo struct {
	Opcode  Opcode
	Name    string
	Family  Family
	Imm     ImmPolicy
	Min     uint64 // smallest legal immediate
	Max     uint64 // largest legal immediate
	Default uint64 // implied immediate when an optional one is omitted
}

// AllOpcodes returns information about every opcode
var AllOpcodes = map[Opcode]OpcodeInfo{
	// Stack Manipulation
	Drop:     {Drop, "drop", FamilyStack, ImmNone, 0, 0, 0},
	DropW:    {DropW, "dropw", FamilyStack, ImmNone, 0, 0, 0},
	PadW:     {PadW, "padw", FamilyStack, ImmNone, 0, 0, 0},
	Dup:      {Dup, "dup", FamilyStack, ImmOptional, 0, 15, 0},
	DupW:     {DupW, "dupw", FamilyStack, ImmOptional, 0, 3, 0},
	Swap:     {Swap, "swap", FamilyStack, ImmOptional, 1, 15, 1},
	SwapW:    {SwapW, "swapw", FamilyStack, ImmOptional, 1, 3, 1},
	SwapDW:   {SwapDW, "swapdw", FamilyStack, ImmNone, 0, 0, 0},
	MovUp:    {MovUp, "movup", FamilyStack, ImmRequired, 2, 15, 0},
	MovUpW:   {MovUpW, "movupw", FamilyStack, ImmRequired, 2, 3, 0},
	MovDn:    {MovDn, "movdn", FamilyStack, ImmRequired, 2, 15, 0},
	MovDnW:   {MovDnW, "movdnw", FamilyStack, ImmRequired, 2, 3, 0},
	CSwap:    {CSwap, "cswap", FamilyStack, ImmNone, 0, 0, 0},
	CSwapW:   {CSwapW, "cswapw", FamilyStack, ImmNone, 0, 0, 0},
	CDrop:    {CDrop, "cdrop", FamilyStack, ImmNone, 0, 0, 0},
	CDropW:   {CDropW, "cdropw", FamilyStack, ImmNone, 0, 0, 0},
	Push:     {Push, "push", FamilyStack, ImmRequired, 0, maxField, 0},
	AdvPush:  {AdvPush, "adv_push", FamilyStack, ImmRequired, 1, 16, 0},
	AdvLoadW: {AdvLoadW, "adv_loadw", FamilyStack, ImmNone, 0, 0, 0},

	// Field Arithmetic
	Add:      {Add, "add", FamilyField, ImmOptional, 0, maxField, 0},
	Sub:      {Sub, "sub", FamilyField, ImmOptional, 0, maxField, 0},
	Mul:      {Mul, "mul", FamilyField, ImmOptional, 0, maxField, 0},
	Div:      {Div, "div", FamilyField, ImmOptional, 0, maxField, 0},
	Neg:      {Neg, "neg", FamilyField, ImmNone, 0, 0, 0},
	Inv:      {Inv, "inv", FamilyField, ImmNone, 0, 0, 0},
	Pow2:     {Pow2, "pow2", FamilyField, ImmNone, 0, 0, 0},
	Exp:      {Exp, "exp", FamilyField, ImmOptional, 0, maxField, 0},
	Incr:     {Incr, "incr", FamilyField, ImmNone, 0, 0, 0},
	Decr:     {Decr, "decr", FamilyField, ImmNone, 0, 0, 0},
	Assert:   {Assert, "assert", FamilyField, ImmNone, 0, 0, 0},
	AssertZ:  {AssertZ, "assertz", FamilyField, ImmNone, 0, 0, 0},
	AssertEq: {AssertEq, "assert_eq", FamilyField, ImmNone, 0, 0, 0},

	// Comparison
	Eq:  {Eq, "eq", FamilyComparison, ImmOptional, 0, maxField, 0},
	Neq: {Neq, "neq", FamilyComparison, ImmOptional, 0, maxField, 0},
	Lt:  {Lt, "lt", FamilyComparison, ImmNone, 0, 0, 0},
	Lte: {Lte, "lte", FamilyComparison, ImmNone, 0, 0, 0},
	Gt:  {Gt, "gt", FamilyComparison, ImmNone, 0, 0, 0},
	Gte: {Gte, "gte", FamilyComparison, ImmNone, 0, 0, 0},
	EqW: {EqW, "eqw", FamilyComparison, ImmNone, 0, 0, 0},

	// Boolean
	And: {And, "and", FamilyBoolean, ImmNone, 0, 0, 0},
	Or:  {Or, "or", FamilyBoolean, ImmNone, 0, 0, 0},
	Xor: {Xor, "xor", FamilyBoolean, ImmNone, 0, 0, 0},
	Not: {Not, "not", FamilyBoolean, ImmNone, 0, 0, 0},

	// Extension Field
	Ext2Add: {Ext2Add, "ext2add", FamilyExt2, ImmNone, 0, 0, 0},
	Ext2Sub: {Ext2Sub, "ext2sub", FamilyExt2, ImmNone, 0, 0, 0},
	Ext2Mul: {Ext2Mul, "ext2mul", FamilyExt2, ImmNone, 0, 0, 0},
	Ext2Neg: {Ext2Neg, "ext2neg", FamilyExt2, ImmNone, 0, 0, 0},
	Ext2Inv: {Ext2Inv, "ext2inv", FamilyExt2, ImmNone, 0, 0, 0},
	Ext2Div: {Ext2Div, "ext2div", FamilyExt2, ImmNone, 0, 0, 0},

	// Memory
	MemLoad:   {MemLoad, "mem_load", FamilyMemory, ImmOptional, 0, maxU32, 0},
	MemLoadW:  {MemLoadW, "mem_loadw", FamilyMemory, ImmOptional, 0, maxU32, 0},
	MemStore:  {MemStore, "mem_store", FamilyMemory, ImmOptional, 0, maxU32, 0},
	MemStoreW: {MemStoreW, "mem_storew", FamilyMemory, ImmOptional, 0, maxU32, 0},
	LocLoad:   {LocLoad, "loc_load", FamilyMemory, ImmRequired, 0, maxU16, 0},
	LocLoadW:  {LocLoadW, "loc_loadw", FamilyMemory, ImmRequired, 0, maxU16, 0},
	LocStore:  {LocStore, "loc_store", FamilyMemory, ImmRequired, 0, maxU16, 0},
	LocStoreW: {LocStoreW, "loc_storew", FamilyMemory, ImmRequired, 0, maxU16, 0},

	// u32 Arithmetic
	U32CheckedAdd:      {U32CheckedAdd, "u32checked_add", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32WrappingAdd:     {U32WrappingAdd, "u32wrapping_add", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32OverflowingAdd:  {U32OverflowingAdd, "u32overflowing_add", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32CheckedSub:      {U32CheckedSub, "u32checked_sub", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32WrappingSub:     {U32WrappingSub, "u32wrapping_sub", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32OverflowingSub:  {U32OverflowingSub, "u32overflowing_sub", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32CheckedMul:      {U32CheckedMul, "u32checked_mul", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32WrappingMul:     {U32WrappingMul, "u32wrapping_mul", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32OverflowingMul:  {U32OverflowingMul, "u32overflowing_mul", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32CheckedDiv:      {U32CheckedDiv, "u32checked_div", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32UncheckedDiv:    {U32UncheckedDiv, "u32unchecked_div", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32CheckedMod:      {U32CheckedMod, "u32checked_mod", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32UncheckedMod:    {U32UncheckedMod, "u32unchecked_mod", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32CheckedDivMod:   {U32CheckedDivMod, "u32checked_divmod", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32UncheckedDivMod: {U32UncheckedDivMod, "u32unchecked_divmod", FamilyU32, ImmOptional, 0, maxU32, 0},

	// u32 Bitwise
	U32CheckedAnd:    {U32CheckedAnd, "u32checked_and", FamilyU32, ImmNone, 0, 0, 0},
	U32CheckedOr:     {U32CheckedOr, "u32checked_or", FamilyU32, ImmNone, 0, 0, 0},
	U32CheckedXor:    {U32CheckedXor, "u32checked_xor", FamilyU32, ImmNone, 0, 0, 0},
	U32CheckedNot:    {U32CheckedNot, "u32checked_not", FamilyU32, ImmNone, 0, 0, 0},
	U32CheckedShl:    {U32CheckedShl, "u32checked_shl", FamilyU32, ImmOptional, 0, 31, 0},
	U32UncheckedShl:  {U32UncheckedShl, "u32unchecked_shl", FamilyU32, ImmOptional, 0, 31, 0},
	U32CheckedShr:    {U32CheckedShr, "u32checked_shr", FamilyU32, ImmOptional, 0, 31, 0},
	U32UncheckedShr:  {U32UncheckedShr, "u32unchecked_shr", FamilyU32, ImmOptional, 0, 31, 0},
	U32CheckedRotl:   {U32CheckedRotl, "u32checked_rotl", FamilyU32, ImmOptional, 0, 31, 0},
	U32UncheckedRotl: {U32UncheckedRotl, "u32unchecked_rotl", FamilyU32, ImmOptional, 0, 31, 0},
	U32CheckedRotr:   {U32CheckedRotr, "u32checked_rotr", FamilyU32, ImmOptional, 0, 31, 0},
	U32UncheckedRotr: {U32UncheckedRotr, "u32unchecked_rotr", FamilyU32, ImmOptional, 0, 31, 0},

	// u32 Comparison
	U32CheckedEq:    {U32CheckedEq, "u32checked_eq", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32CheckedNeq:   {U32CheckedNeq, "u32checked_neq", FamilyU32, ImmOptional, 0, maxU32, 0},
	U32CheckedLt:    {U32CheckedLt, "u32checked_lt", FamilyU32, ImmNone, 0, 0, 0},
	U32UncheckedLt:  {U32UncheckedLt, "u32unchecked_lt", FamilyU32, ImmNone, 0, 0, 0},
	U32CheckedLte:   {U32CheckedLte, "u32checked_lte", FamilyU32, ImmNone, 0, 0, 0},
	U32UncheckedLte: {U32UncheckedLte, "u32unchecked_lte", FamilyU32, ImmNone, 0, 0, 0},
	U32CheckedGt:    {U32CheckedGt, "u32checked_gt", FamilyU32, ImmNone, 0, 0, 0},
	U32UncheckedGt:  {U32UncheckedGt, "u32unchecked_gt", FamilyU32, ImmNone, 0, 0, 0},
	U32CheckedGte:   {U32CheckedGte, "u32checked_gte", FamilyU32, ImmNone, 0, 0, 0},
	U32UncheckedGte: {U32UncheckedGte, "u32unchecked_gte", FamilyU32, ImmNone, 0, 0, 0},
	U32CheckedMin:   {U32CheckedMin, "u32checked_min", FamilyU32, ImmNone, 0, 0, 0},
	U32UncheckedMin: {U32UncheckedMin, "u32unchecked_min", FamilyU32, ImmNone, 0, 0, 0},
	U32CheckedMax:   {U32CheckedMax, "u32checked_max", FamilyU32, ImmNone, 0, 0, 0},
	U32UncheckedMax: {U32UncheckedMax, "u32unchecked_max", FamilyU32, ImmNone, 0, 0, 0},

	// u32 Conversions
	U32Test:    {U32Test, "u32test", FamilyU32, ImmNone, 0, 0, 0},
	U32TestW:   {U32TestW, "u32testw", FamilyU32, ImmNone, 0, 0, 0},
	U32Assert:  {U32Assert, "u32assert", FamilyU32, ImmNone, 0, 0, 0},
	U32AssertW: {U32AssertW, "u32assertw", FamilyU32, ImmNone, 0, 0, 0},
	U32Cast:    {U32Cast, "u32cast", FamilyU32, ImmNone, 0, 0, 0},
	U32Split:   {U32Split, "u32split", FamilyU32, ImmNone, 0, 0, 0},

	// Control Flow
	If:     {If, "if", FamilyControl, ImmNone, 0, 0, 0},
	Else:   {Else, "else", FamilyControl, ImmNone, 0, 0, 0},
	End:    {End, "end", FamilyControl, ImmNone, 0, 0, 0},
	While:  {While, "while", FamilyControl, ImmNone, 0, 0, 0},
	Repeat: {Repeat, "repeat", FamilyControl, ImmRequired, 1, maxU32, 0},
	Exec:   {Exec, "exec", FamilyControl, ImmNone, 0, 0, 0},

	// Diagnostics
	Print:       {Print, "print", FamilyDiagnostic, ImmNone, 0, 0, 0},
	ErrorMarker: {ErrorMarker, "error", FamilyDiagnostic, ImmNone, 0, 0, 0},
	Commented:   {Commented, "#", FamilyDiagnostic, ImmNone, 0, 0, 0},
}

// keywords maps the source spelling of every parseable opcode to its opcode.
// Diagnostic opcodes are builder-only and have no keyword.
var keywords = func() map[string]Opcode {
	m := make(map[string]Opcode, len(AllOpcodes))
	for op, info := range AllOpcodes {
		if info.Family == FamilyDiagnostic {
			continue
		}
		m[info.Name] = op
	}
	return m
}()

// LookupKeyword returns the opcode spelled by word, if any
func LookupKeyword(word string) (Opcode, bool) {
	op, ok := keywords[word]
	return op, ok
}

// String returns the source spelling of the opcode
func (o Opcode) String() string {
	if info, ok := AllOpcodes[o]; ok {
		return info.Name
	}
	return fmt.Sprintf("unknown(%d)", o)
}

// Info returns metadata about the opcode
func (o Opcode) Info() (OpcodeInfo, error) {
	info, ok := AllOpcodes[o]
	if !ok {
		return OpcodeInfo{}, fmt.Errorf("unknown opcode: %d", o)
	}
	return info, nil
}

// Family returns the handler family of the opcode
func (o Opcode) Family() Family {
	return AllOpcodes[o].Family
}

// Valid reports whether the opcode is part of the instruction set
func (o Opcode) Valid() bool {
	_, ok := AllOpcodes[o]
	return ok
}

// OpensBlock reports whether the opcode opens a scope closed by End
func (o Opcode) OpensBlock() bool {
	return o == If || o == While || o == Repeat
}

// IsStructural reports whether the opcode is a control-flow marker
func (o Opcode) IsStructural() bool {
	return o == If || o == Else || o == End || o == While || o == Repeat
}

// IsDiagnostic reports whether the opcode only carries diagnostics
func (o Opcode) IsDiagnostic() bool {
	return o == Print || o == ErrorMarker || o == Commented
}

// OpcodeCount is the number of opcodes in the instruction set
const OpcodeCount = int(opcodeEnd) - 1
