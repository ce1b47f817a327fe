package mylang

import "strconv"

// Parser builds a Program from a token sequence by recursive descent, one
// method per grammar production:
//
//	program   := statement* EOF
//	statement := ID '=' expr ';' | 'print' ID ';'
//	expr      := term (('+'|'-') term)*
//	term      := factor (('*'|'/') factor)*
//	factor    := INT | ID | '(' expr ')'
type Parser struct {
	tokens_ *TokenStream
}

func NewParser(tokens []Token) *Parser {
	ret := Parser{}
	ret.tokens_ = NewTokenStream(tokens)
	return &ret
}

// Parse parses a complete token sequence. It stops at the first token that
// does not fit the grammar.
func Parse(tokens []Token) (*Program, error) {
	defer METRIC_RECORD(".mylang parse")()
	return NewParser(tokens).ParseProgram()
}

// ParseSource tokenizes and parses source.
func ParseSource(source string) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// / If the next token is not |expected|, produce an error describing it.
func (this *Parser) ExpectToken(expected ...TokenKind) (Token, error) {
	token := this.tokens_.Peek()
	for _, k := range expected {
		if token.Kind == k {
			return this.tokens_.Next(), nil
		}
	}
	return token, &SyntaxError{Expected: expected, Found: token, Pos: token.Pos}
}

func (this *Parser) ParseProgram() (*Program, error) {
	program := &Program{}
	for {
		token := this.tokens_.Peek()
		switch token.Kind {
		case EOF:
			return program, nil
		case ID:
			stmt, err := this.ParseAssign()
			if err != nil {
				return nil, err
			}
			program.Statements = append(program.Statements, stmt)
		case PRINT:
			stmt, err := this.ParsePrint()
			if err != nil {
				return nil, err
			}
			program.Statements = append(program.Statements, stmt)
		default:
			return nil, &SyntaxError{Expected: []TokenKind{ID, PRINT, EOF}, Found: token, Pos: token.Pos}
		}
	}
}

// / statement := ID '=' expr ';'
func (this *Parser) ParseAssign() (*Assign, error) {
	name, err := this.ExpectToken(ID)
	if err != nil {
		return nil, err
	}
	if _, err := this.ExpectToken(ASSIGN); err != nil {
		return nil, err
	}
	value, err := this.ParseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := this.ExpectToken(SEMI); err != nil {
		return nil, err
	}
	return &Assign{Name: name.Text, Value: value, Position: name.Pos}, nil
}

// / statement := 'print' ID ';'
func (this *Parser) ParsePrint() (*Print, error) {
	keyword, err := this.ExpectToken(PRINT)
	if err != nil {
		return nil, err
	}
	name, err := this.ExpectToken(ID)
	if err != nil {
		return nil, err
	}
	if _, err := this.ExpectToken(SEMI); err != nil {
		return nil, err
	}
	return &Print{Name: name.Text, NamePos: name.Pos, Position: keyword.Pos}, nil
}

// / expr := term (('+'|'-') term)*
func (this *Parser) ParseExpr() (Expr, error) {
	left, err := this.ParseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOperator
		switch this.tokens_.Peek().Kind {
		case PLUS:
			op = ADD
		case MINUS:
			op = SUB
		default:
			return left, nil
		}
		token := this.tokens_.Next()
		right, err := this.ParseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right, Position: token.Pos}
	}
}

// / term := factor (('*'|'/') factor)*
func (this *Parser) ParseTerm() (Expr, error) {
	left, err := this.ParseFactor()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOperator
		switch this.tokens_.Peek().Kind {
		case STAR:
			op = MUL
		case SLASH:
			op = DIV
		default:
			return left, nil
		}
		token := this.tokens_.Next()
		right, err := this.ParseFactor()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right, Position: token.Pos}
	}
}

// / factor := INT | ID | '(' expr ')'
func (this *Parser) ParseFactor() (Expr, error) {
	token, err := this.ExpectToken(INT, ID, LPAREN)
	if err != nil {
		return nil, err
	}
	switch token.Kind {
	case INT:
		value, err := strconv.ParseInt(token.Text, 10, 64)
		if err != nil {
			return nil, &SyntaxError{Expected: []TokenKind{INT}, Found: token, Pos: token.Pos,
				Detail: "out of range"}
		}
		return &IntLiteral{Value: value, Position: token.Pos}, nil
	case ID:
		return &Identifier{Name: token.Text, Position: token.Pos}, nil
	}

	inner, err := this.ParseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := this.ExpectToken(RPAREN); err != nil {
		return nil, err
	}
	return inner, nil
}
