package asm

import "fmt"

// parser turns a token sequence into programs. It keeps structure flat: every
// token maps to zero, one or many operands appended in order, with one token
// of lookahead for optional immediates.
type parser struct {
	toks []Token
	pos  int
}

func newParser(src string) *parser {
	return &parser{toks: Tokenize(src)}
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (Token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *parser) lastLine() int {
	if len(p.toks) == 0 {
		return 1
	}
	return p.toks[len(p.toks)-1].Line
}

func (p *parser) errorf(tok Token, format string, args ...interface{}) error {
	return &SyntaxError{Line: tok.Line, Token: tok.Text, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof(what string) error {
	return &SyntaxError{Line: p.lastLine(), Msg: "unexpected end of input: " + what, Err: ErrUnexpectedEOF}
}

// ParseProgram parses a single program. The first token decides its kind:
// "proc <name> [<locals>]" starts a procedure and "begin" an entry block,
// both closed by a matching end. Any other first token starts an entry block
// without header that runs to the end of the input.
func ParseProgram(src string) (*Program, error) {
	p := newParser(src)
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, p.errorf(tok, "unexpected token after end of program")
	}
	return prog, nil
}

// ParseModule parses a sequence of "proc ... end" blocks and at most one
// "begin ... end" block. Source without any header is parsed as a single
// entry block.
func ParseModule(src string) (*Module, error) {
	p := newParser(src)
	m := NewModule()

	first, ok := p.peek()
	if !ok {
		return m, nil
	}
	if first.Kind != TokenProc && first.Kind != TokenBegin {
		prog, err := p.parseProgram()
		if err != nil {
			return nil, err
		}
		if tok, ok := p.peek(); ok {
			return nil, p.errorf(tok, "unexpected token after end of program")
		}
		m.Main = prog
		return m, nil
	}

	for {
		tok, ok := p.peek()
		if !ok {
			return m, nil
		}
		switch tok.Kind {
		case TokenProc:
			prog, err := p.parseProgram()
			if err != nil {
				return nil, err
			}
			if err := m.AddProcedure(prog); err != nil {
				return nil, &SyntaxError{Line: tok.Line, Token: prog.Name, Msg: "procedure defined twice", Err: ErrDuplicateProcedure}
			}
		case TokenBegin:
			if m.Main != nil {
				return nil, p.errorf(tok, "second begin block")
			}
			prog, err := p.parseProgram()
			if err != nil {
				return nil, err
			}
			m.Main = prog
		default:
			return nil, p.errorf(tok, "expected proc or begin")
		}
	}
}

func (p *parser) parseProgram() (*Program, error) {
	tok, _ := p.peek()
	switch tok.Kind {
	case TokenProc:
		p.next()
		prog, err := p.parseProcHeader(tok)
		if err != nil {
			return nil, err
		}
		return prog, p.parseBody(prog, true)
	case TokenBegin:
		p.next()
		prog := NewProgram()
		return prog, p.parseBody(prog, true)
	default:
		prog := NewProgram()
		return prog, p.parseBody(prog, false)
	}
}

func (p *parser) parseProcHeader(procTok Token) (*Program, error) {
	name, ok := p.next()
	if !ok {
		return nil, p.eof("procedure name after proc")
	}
	if name.Kind != TokenIdent {
		return nil, p.errorf(name, "expected procedure name after proc, got %s", name.Kind)
	}
	locals := 0
	if tok, ok := p.peek(); ok && tok.Kind == TokenNumber {
		p.next()
		if tok.Value > MaxLocals {
			return nil, p.errorf(tok, "too many locals (max %d)", MaxLocals)
		}
		locals = int(tok.Value)
	}
	prog, err := NewProcedure(name.Text, locals)
	if err != nil {
		return nil, &SyntaxError{Line: procTok.Line, Token: name.Text, Msg: err.Error()}
	}
	return prog, nil
}

// parseBody reads operands into prog until the end closing the program. When
// closed is false the program has no header and also ends at end of input.
func (p *parser) parseBody(prog *Program, closed bool) error {
	for {
		tok, ok := p.next()
		if !ok {
			if closed {
				return p.eof("missing end of " + prog.Header())
			}
			if prog.Depth() > 0 {
				return p.eof("block is never closed")
			}
			return nil
		}

		if tok.Kind != TokenKeyword {
			return p.errorf(tok, "expected opcode, got %s", tok.Kind)
		}

		if tok.Op == End && prog.Depth() == 0 {
			return nil
		}

		ops, err := p.parseOperand(tok)
		if err != nil {
			return err
		}
		for _, op := range ops {
			if err := prog.Append(op); err != nil {
				return &SyntaxError{Line: tok.Line, Token: tok.Text, Msg: err.Error()}
			}
		}
	}
}

// parseOperand maps the keyword tok, plus whatever tokens it consumes, to the
// operands it stands for
func (p *parser) parseOperand(tok Token) ([]Operand, error) {
	switch tok.Op {
	case If, While:
		lit, ok := p.next()
		if !ok {
			return nil, p.eof("true after " + tok.Text)
		}
		if lit.Kind != TokenIdent || lit.Text != "true" {
			return nil, p.errorf(lit, "expected true after %s", tok.Text)
		}
		return []Operand{Op(tok.Op)}, nil

	case Exec:
		name, ok := p.next()
		if !ok {
			return nil, p.eof("procedure name after exec")
		}
		if name.Kind != TokenIdent {
			return nil, p.errorf(name, "expected procedure name after exec, got %s", name.Kind)
		}
		return []Operand{ExecOp(name.Text)}, nil
	}

	info := AllOpcodes[tok.Op]
	switch info.Imm {
	case ImmRequired:
		num, ok := p.next()
		if !ok {
			return nil, p.eof("number after " + tok.Text)
		}
		if num.Kind != TokenNumber {
			return nil, p.errorf(num, "expected number after %s, got %s", tok.Text, num.Kind)
		}
		ops := []Operand{OpImm(tok.Op, num.Value)}
		if tok.Op == Push {
			// push.a.b.c pushes each value in turn
			for next, ok := p.peek(); ok && next.Kind == TokenNumber; next, ok = p.peek() {
				p.next()
				ops = append(ops, PushOp(next.Value))
			}
		}
		return ops, nil
	case ImmOptional:
		if num, ok := p.peek(); ok && num.Kind == TokenNumber {
			p.next()
			return []Operand{OpImm(tok.Op, num.Value)}, nil
		}
	}
	return []Operand{Op(tok.Op)}, nil
}
