package mylang

import (
	"fmt"
	"unicode/utf8"
)

// TokenKind enumerates the kinds of tokens the lexer can produce.
type TokenKind uint8

const (
	INT TokenKind = iota
	ID
	PLUS
	MINUS
	STAR
	SLASH
	ASSIGN
	SEMI
	LPAREN
	RPAREN
	PRINT
	EOF
)

// / Symbolic name of a kind, as printed by the tokens tool.
func (k TokenKind) String() string {
	switch k {
	case INT:
		return "INT"
	case ID:
		return "ID"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case STAR:
		return "STAR"
	case SLASH:
		return "SLASH"
	case ASSIGN:
		return "ASSIGN"
	case SEMI:
		return "SEMI"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case PRINT:
		return "PRINT"
	case EOF:
		return "EOF"
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(k))
}

// / Return a human-readable form of a token kind, used in error messages.
func TokenName(k TokenKind) string {
	switch k {
	case INT:
		return "integer"
	case ID:
		return "identifier"
	case PLUS:
		return "'+'"
	case MINUS:
		return "'-'"
	case STAR:
		return "'*'"
	case SLASH:
		return "'/'"
	case ASSIGN:
		return "'='"
	case SEMI:
		return "';'"
	case LPAREN:
		return "'('"
	case RPAREN:
		return "')'"
	case PRINT:
		return "'print'"
	case EOF:
		return "eof"
	}
	return "" // not reached
}

// Token is an immutable lexical unit. Pos is the byte offset of Text in the
// source.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%d", t.Kind, t.Text, t.Pos)
}

// Zero (INT) marks bytes that are not single-character tokens.
var singleCharTokens = [128]TokenKind{
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'=': ASSIGN,
	';': SEMI,
	'(': LPAREN,
	')': RPAREN,
}

// Lexer holds the scanning state over one source string.
type Lexer struct {
	input_      string
	ofs_        int
	last_token_ int
}

func NewLexer(input string) *Lexer {
	ret := Lexer{}
	ret.Start(input)
	return &ret
}

// / Start lexing some input.
func (this *Lexer) Start(input string) {
	this.input_ = input
	this.ofs_ = 0
	this.last_token_ = 0
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// / Skip past whitespace (called before each read token).
func (this *Lexer) EatWhitespace() {
	for this.ofs_ < len(this.input_) && isSpace(this.input_[this.ofs_]) {
		this.ofs_++
	}
}

// / Read the next Token. Once the input is exhausted every call returns EOF.
func (this *Lexer) ReadToken() (Token, error) {
	this.EatWhitespace()
	start := this.ofs_
	this.last_token_ = start
	if start >= len(this.input_) {
		return Token{Kind: EOF, Pos: start}, nil
	}

	c := this.input_[start]
	switch {
	case isDigit(c):
		for this.ofs_ < len(this.input_) && isDigit(this.input_[this.ofs_]) {
			this.ofs_++
		}
		return Token{Kind: INT, Text: this.input_[start:this.ofs_], Pos: start}, nil
	case isLetter(c):
		for this.ofs_ < len(this.input_) &&
			(isLetter(this.input_[this.ofs_]) || isDigit(this.input_[this.ofs_])) {
			this.ofs_++
		}
		text := this.input_[start:this.ofs_]
		kind := ID
		if text == "print" {
			kind = PRINT
		}
		return Token{Kind: kind, Text: text, Pos: start}, nil
	case c < utf8.RuneSelf && singleCharTokens[c] != INT:
		this.ofs_++
		return Token{Kind: singleCharTokens[c], Text: this.input_[start:this.ofs_], Pos: start}, nil
	}

	r, _ := utf8.DecodeRuneInString(this.input_[start:])
	return Token{}, &LexicalError{Char: r, Pos: start}
}

// / Offset of the last token read, for error reporting.
func (this *Lexer) LastTokenPos() int {
	return this.last_token_
}

// Tokenize converts source into its full token sequence, ending in exactly one
// EOF token. The first unrecognized character aborts the whole run.
func Tokenize(source string) ([]Token, error) {
	defer METRIC_RECORD(".mylang lex")()

	lexer := NewLexer(source)
	var tokens []Token
	for {
		token, err := lexer.ReadToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
		if token.Kind == EOF {
			return tokens, nil
		}
	}
}
