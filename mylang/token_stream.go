package mylang

import "github.com/edwingeng/deque"

// TokenStream feeds tokens to the parser front to back. The trailing EOF is
// never consumed, so reading past the end keeps returning it.
type TokenStream struct {
	tokens_ deque.Deque // <Token>
	eof_    Token
}

func NewTokenStream(tokens []Token) *TokenStream {
	ret := TokenStream{tokens_: deque.NewDeque()}
	for _, token := range tokens {
		if token.Kind == EOF {
			ret.eof_ = token
			break
		}
		ret.tokens_.PushBack(token)
		ret.eof_ = Token{Kind: EOF, Pos: token.Pos + len(token.Text)}
	}
	return &ret
}

// / Look at the next token without consuming it.
func (this *TokenStream) Peek() Token {
	if this.tokens_.Empty() {
		return this.eof_
	}
	return this.tokens_.Front().(Token)
}

// / Consume and return the next token.
func (this *TokenStream) Next() Token {
	if this.tokens_.Empty() {
		return this.eof_
	}
	return this.tokens_.PopFront().(Token)
}

// / If the next token has kind k, consume it and return true.
func (this *TokenStream) PeekToken(k TokenKind) bool {
	if this.Peek().Kind != k {
		return false
	}
	this.Next()
	return true
}

func (this *TokenStream) Len() int {
	return this.tokens_.Len()
}
