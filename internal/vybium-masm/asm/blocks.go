package asm

// Blocks is the jump table of a flat operand sequence: for every structural
// operand it records the position of its partner, so an interpreter can find
// block boundaries without rescanning the sequence.
type Blocks struct {
	end  []int // opener or else -> matching end
	els  []int // if -> its else, or -1
	open []int // end or else -> the opener it belongs to
}

// ResolveBlocks matches every if, while and repeat with its end, and every
// else with its if, using a scope counter over ops. It fails on an else
// outside an if, a second else, an end with no open block, or a block left
// open at the end of ops.
func ResolveBlocks(ops []Operand) (*Blocks, error) {
	b := &Blocks{
		end:  make([]int, len(ops)),
		els:  make([]int, len(ops)),
		open: make([]int, len(ops)),
	}
	for i := range ops {
		b.end[i], b.els[i], b.open[i] = -1, -1, -1
	}

	var scopes []int
	for i, op := range ops {
		switch op.Op {
		case If, While, Repeat:
			scopes = append(scopes, i)
		case Else:
			if len(scopes) == 0 {
				return nil, &StructureError{Index: i, Op: Else, Msg: "else without if"}
			}
			top := scopes[len(scopes)-1]
			if ops[top].Op != If {
				return nil, &StructureError{Index: i, Op: Else, Msg: "else inside " + ops[top].Op.String() + " block"}
			}
			if b.els[top] != -1 {
				return nil, &StructureError{Index: i, Op: Else, Msg: "second else for the same if"}
			}
			b.els[top] = i
			b.open[i] = top
		case End:
			if len(scopes) == 0 {
				return nil, &StructureError{Index: i, Op: End, Msg: "end without open block"}
			}
			top := scopes[len(scopes)-1]
			scopes = scopes[:len(scopes)-1]
			b.end[top] = i
			b.open[i] = top
			if e := b.els[top]; e != -1 {
				b.end[e] = i
			}
		}
	}
	if len(scopes) > 0 {
		i := scopes[len(scopes)-1]
		return nil, &StructureError{Index: i, Op: ops[i].Op, Msg: "block is never closed"}
	}
	return b, nil
}

// End returns the position of the end closing the block opened (or
// continued, for else) at i
func (b *Blocks) End(i int) int {
	return b.end[i]
}

// Else returns the position of the else of the if at i, or -1
func (b *Blocks) Else(i int) int {
	return b.els[i]
}

// Opener returns the position of the operand that opened the block closed or
// continued at i, or -1
func (b *Blocks) Opener(i int) int {
	return b.open[i]
}

// Len returns the length of the resolved sequence
func (b *Blocks) Len() int {
	return len(b.end)
}
