package engine

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// upper is the locale-aware uppercaser used to canonicalize function names
// and column letters, in place of strings.ToUpper.
var upper = cases.Upper(language.Und)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokCellRef
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokComma
	tokColon
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lexer tokenizes the substring of a formula that follows the leading '='.
type lexer struct {
	input []rune
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: []rune(input)}
}

func (l *lexer) tokenize() ([]token, error) {
	var toks []token
	for {
		l.skipSpace()
		if l.pos >= len(l.input) {
			toks = append(toks, token{kind: tokEOF, pos: l.pos})
			return toks, nil
		}
		start := l.pos
		ch := l.input[l.pos]
		switch {
		case ch == '+':
			l.pos++
			toks = append(toks, token{kind: tokPlus, text: "+", pos: start})
		case ch == '-':
			l.pos++
			toks = append(toks, token{kind: tokMinus, text: "-", pos: start})
		case ch == '*':
			l.pos++
			toks = append(toks, token{kind: tokStar, text: "*", pos: start})
		case ch == '/':
			l.pos++
			toks = append(toks, token{kind: tokSlash, text: "/", pos: start})
		case ch == '(':
			l.pos++
			toks = append(toks, token{kind: tokLParen, text: "(", pos: start})
		case ch == ')':
			l.pos++
			toks = append(toks, token{kind: tokRParen, text: ")", pos: start})
		case ch == ',':
			l.pos++
			toks = append(toks, token{kind: tokComma, text: ",", pos: start})
		case ch == ':':
			l.pos++
			toks = append(toks, token{kind: tokColon, text: ":", pos: start})
		case unicode.IsDigit(ch):
			toks = append(toks, l.scanNumber())
		case unicode.IsLetter(ch):
			toks = append(toks, l.scanIdentOrCellRef())
		default:
			return nil, NewEngineError(StatusInvalidInput, "unexpected character %q at position %d", ch, start)
		}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *lexer) scanNumber() token {
	start := l.pos
	for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
		l.pos++
	}
	return token{kind: tokNumber, text: string(l.input[start:l.pos]), pos: start}
}

// scanIdentOrCellRef consumes a run of letters then, if immediately
// followed by digits, reinterprets the whole run as a cell reference
// ([A-Z]+[0-9]+); otherwise it is a bare identifier (a function name).
func (l *lexer) scanIdentOrCellRef() token {
	start := l.pos
	for l.pos < len(l.input) && unicode.IsLetter(l.input[l.pos]) {
		l.pos++
	}
	letterEnd := l.pos
	if l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
		for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
			l.pos++
		}
		return token{kind: tokCellRef, text: string(l.input[start:l.pos]), pos: start}
	}
	return token{kind: tokIdent, text: string(l.input[start:letterEnd]), pos: start}
}

// parseCellRef parses an "A1"-style token into a zero-based CellReference.
func parseCellRef(text string) (CellReference, error) {
	i := 0
	for i < len(text) && unicode.IsLetter(rune(text[i])) {
		i++
	}
	if i == 0 || i == len(text) {
		return CellReference{}, NewEngineError(StatusInvalidInput, "malformed cell reference %q", text)
	}
	letters := upper.String(text[:i])
	digits := text[i:]
	col := 0
	for _, ch := range letters {
		if ch < 'A' || ch > 'Z' {
			return CellReference{}, NewEngineError(StatusInvalidInput, "malformed cell reference %q", text)
		}
		col = col*26 + int(ch-'A'+1)
	}
	col--
	row := 0
	for _, ch := range digits {
		if !unicode.IsDigit(ch) {
			return CellReference{}, NewEngineError(StatusInvalidInput, "malformed cell reference %q", text)
		}
		row = row*10 + int(ch-'0')
	}
	if row == 0 {
		return CellReference{}, NewEngineError(StatusInvalidInput, "row must be 1-based in %q", text)
	}
	return CellReference{Row: row - 1, Col: col}, nil
}

// isFuncName reports whether name names one of the built-in functions,
// case-insensitively.
func isFuncName(name string) (FuncName, bool) {
	switch upper.String(name) {
	case "SUM":
		return FuncSum, true
	case "MAX":
		return FuncMax, true
	case "MIN":
		return FuncMin, true
	case "AVG":
		return FuncAvg, true
	case "STDEV":
		return FuncStdev, true
	case "SLEEP":
		return FuncSleep, true
	default:
		return "", false
	}
}
