package mylang

import (
	"errors"
	"fmt"
	"strings"
)

// Positioned is implemented by every error a run can fail with.
type Positioned interface {
	error
	Position() int
}

// LexicalError reports a character the lexer does not recognize.
type LexicalError struct {
	Char rune
	Pos  int
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("unexpected character %q", e.Char)
}

func (e *LexicalError) Position() int { return e.Pos }

// SyntaxError reports the first token that does not fit the grammar.
type SyntaxError struct {
	Expected []TokenKind
	Found    Token
	Pos      int
	Detail   string
}

func (e *SyntaxError) Error() string {
	found := describeToken(e.Found)
	if e.Detail != "" {
		return fmt.Sprintf("%s %s", found, e.Detail)
	}
	return fmt.Sprintf("expected %s, got %s", expectedList(e.Expected), found)
}

func (e *SyntaxError) Position() int { return e.Pos }

func describeToken(t Token) string {
	switch t.Kind {
	case INT, ID:
		return fmt.Sprintf("%s '%s'", TokenName(t.Kind), t.Text)
	}
	return TokenName(t.Kind)
}

func expectedList(kinds []TokenKind) string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, TokenName(k))
	}
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	}
	return joinOr(names)
}

// "a", "a or b", "a, b or c".
func joinOr(items []string) string {
	if len(items) < 2 {
		return strings.Join(items, "")
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}

type RuntimeErrorKind int8

const (
	DivisionByZero RuntimeErrorKind = iota
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case DivisionByZero:
		return "DivisionByZero"
	}
	return fmt.Sprintf("RuntimeErrorKind(%d)", int8(k))
}

var ErrDivisionByZero = errors.New("division by zero")

// RuntimeError aborts evaluation. Pos is the offset of the offending operator.
type RuntimeError struct {
	Kind RuntimeErrorKind
	Pos  int
}

func (e *RuntimeError) Error() string {
	return e.Unwrap().Error()
}

func (e *RuntimeError) Unwrap() error {
	switch e.Kind {
	case DivisionByZero:
		return ErrDivisionByZero
	}
	return errors.New(e.Kind.String())
}

func (e *RuntimeError) Position() int { return e.Pos }

// ErrorKind names the class of a run failure: "LexicalError", "SyntaxError",
// "RuntimeError" or "" for errors that did not come from the pipeline.
func ErrorKind(err error) string {
	var lexErr *LexicalError
	var synErr *SyntaxError
	var rtErr *RuntimeError
	switch {
	case errors.As(err, &lexErr):
		return "LexicalError"
	case errors.As(err, &synErr):
		return "SyntaxError"
	case errors.As(err, &rtErr):
		return "RuntimeError"
	}
	return ""
}

// / Line and column (both 1-based) of byte offset ofs in source.
func LineCol(source string, ofs int) (int, int) {
	if ofs > len(source) {
		ofs = len(source)
	}
	line := 1 + strings.Count(source[:ofs], "\n")
	col := ofs - strings.LastIndexByte(source[:ofs], '\n')
	return line, col
}

// Describe renders err as "name:line:col: message" when it carries a source
// position, with the offending line and a caret underneath.
func Describe(name, source string, err error) string {
	var p Positioned
	if !errors.As(err, &p) {
		return fmt.Sprintf("%s: %s", name, err)
	}
	ofs := min(p.Position(), len(source))
	line, col := LineCol(source, ofs)
	msg := fmt.Sprintf("%s:%d:%d: %s", name, line, col, err)

	start := ofs - (col - 1)
	end := strings.IndexByte(source[start:], '\n')
	text := source[start:]
	if end >= 0 {
		text = source[start : start+end]
	}
	if text == "" {
		return msg
	}
	return msg + "\n" + text + "\n" + strings.Repeat(" ", col-1) + "^ near here"
}
