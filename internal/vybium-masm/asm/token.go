package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind classifies a lexical atom
type TokenKind uint8

const (
	// TokenKeyword is an opcode keyword
	TokenKeyword TokenKind = iota
	// TokenProc is the procedure header keyword
	TokenProc
	// TokenBegin is the entry block header keyword
	TokenBegin
	// TokenNumber is an unsigned integer literal
	TokenNumber
	// TokenIdent is any other word: procedure names and literals such as true
	TokenIdent
)

func (k TokenKind) String() string {
	switch k {
	case TokenKeyword:
		return "keyword"
	case TokenProc:
		return "proc"
	case TokenBegin:
		return "begin"
	case TokenNumber:
		return "number"
	case TokenIdent:
		return "identifier"
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Token is one word of source text
type Token struct {
	Kind  TokenKind
	Text  string
	Op    Opcode // TokenKeyword only
	Value uint64 // TokenNumber only
	Line  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q (line %d)", t.Kind, t.Text, t.Line)
}

// Tokenizer splits source text into tokens. Words are separated by white
// space and '.'; '#' starts a comment that runs to the end of the line.
//
// A Tokenizer is consumed once; it cannot be rewound.
type Tokenizer struct {
	src  string
	pos  int
	line int
}

// NewTokenizer returns a tokenizer over src
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src, line: 1}
}

func isSeparator(r byte) bool {
	return r == '.' || r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}

// Next returns the next token, or false once the input is exhausted
func (t *Tokenizer) Next() (Token, bool) {
	for t.pos < len(t.src) {
		c := t.src[t.pos]
		switch {
		case c == '\n':
			t.line++
			t.pos++
		case c == '#':
			for t.pos < len(t.src) && t.src[t.pos] != '\n' {
				t.pos++
			}
		case isSeparator(c):
			t.pos++
		default:
			start := t.pos
			for t.pos < len(t.src) && !isSeparator(t.src[t.pos]) && t.src[t.pos] != '#' {
				t.pos++
			}
			return classify(t.src[start:t.pos], t.line), true
		}
	}
	return Token{}, false
}

// Tokenize splits src into its complete token sequence
func Tokenize(src string) []Token {
	t := NewTokenizer(src)
	var toks []Token
	for tok, ok := t.Next(); ok; tok, ok = t.Next() {
		toks = append(toks, tok)
	}
	return toks
}

func classify(word string, line int) Token {
	tok := Token{Text: word, Line: line}
	switch word {
	case "proc":
		tok.Kind = TokenProc
		return tok
	case "begin":
		tok.Kind = TokenBegin
		return tok
	}
	if op, ok := LookupKeyword(word); ok {
		tok.Kind = TokenKeyword
		tok.Op = op
		return tok
	}
	if v, ok := parseNumber(word); ok {
		tok.Kind = TokenNumber
		tok.Value = v
		return tok
	}
	tok.Kind = TokenIdent
	return tok
}

func parseNumber(word string) (uint64, bool) {
	if strings.HasPrefix(word, "0x") || strings.HasPrefix(word, "0X") {
		v, err := strconv.ParseUint(word[2:], 16, 64)
		return v, err == nil
	}
	if word[0] < '0' || word[0] > '9' {
		return 0, false
	}
	v, err := strconv.ParseUint(word, 10, 64)
	return v, err == nil
}
