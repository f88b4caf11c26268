package vm

import (
	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
)

// TraceRow is the machine state recorded before an operand executes
type TraceRow struct {
	Cycle     int
	Procedure string
	Index     int
	Operand   asm.Operand
	Stack     [MinStackDepth]uint64 // top 16 elements, top first
}

// TraceRecorder collects one row per dispatched operand
type TraceRecorder struct {
	rows []TraceRow
}

// NewTraceRecorder creates an empty recorder
func NewTraceRecorder() *TraceRecorder {
	return &TraceRecorder{rows: make([]TraceRow, 0, 256)}
}

// Record appends the state of st before op at position index of procedure
// runs
func (r *TraceRecorder) Record(cycle int, procedure string, index int, op asm.Operand, st *Stack) {
	row := TraceRow{
		Cycle:     cycle,
		Procedure: procedure,
		Index:     index,
		Operand:   op,
	}
	copy(row.Stack[:], st.Uint64s(MinStackDepth))
	r.rows = append(r.rows, row)
}

// Rows returns the recorded rows
func (r *TraceRecorder) Rows() []TraceRow {
	if r == nil {
		return nil
	}
	return r.rows
}

// Len returns the number of recorded rows
func (r *TraceRecorder) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rows)
}
