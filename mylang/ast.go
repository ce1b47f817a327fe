package mylang

// Node is any element of the syntax tree. Pos is the byte offset in the
// source where the node begins; for a BinaryOp it is the operator.
type Node interface {
	Pos() int
}

type Expr interface {
	Node
	exprNode()
}

type Statement interface {
	Node
	stmtNode()
}

// Program is the root of a parsed source: its statements in source order.
type Program struct {
	Statements []Statement
}

type BinaryOperator int8

const (
	ADD BinaryOperator = iota
	SUB
	MUL
	DIV
)

func (op BinaryOperator) String() string {
	switch op {
	case ADD:
		return "ADD"
	case SUB:
		return "SUB"
	case MUL:
		return "MUL"
	case DIV:
		return "DIV"
	}
	return "?"
}

// / The operator as it is written in source.
func (op BinaryOperator) Symbol() string {
	switch op {
	case ADD:
		return "+"
	case SUB:
		return "-"
	case MUL:
		return "*"
	case DIV:
		return "/"
	}
	return "?"
}

// / Binding strength: 1 for additive, 2 for multiplicative operators.
func (op BinaryOperator) Precedence() int {
	if op == MUL || op == DIV {
		return 2
	}
	return 1
}

type IntLiteral struct {
	Value    int64
	Position int
}

type Identifier struct {
	Name     string
	Position int
}

type BinaryOp struct {
	Op       BinaryOperator
	Left     Expr
	Right    Expr
	Position int
}

// Assign binds the value of an expression to Name.
type Assign struct {
	Name     string
	Value    Expr
	Position int
}

// Print emits the current value of Name. Position is the keyword, NamePos
// the name.
type Print struct {
	Name     string
	NamePos  int
	Position int
}

func (n *IntLiteral) Pos() int { return n.Position }
func (n *Identifier) Pos() int { return n.Position }
func (n *BinaryOp) Pos() int   { return n.Position }
func (n *Assign) Pos() int     { return n.Position }
func (n *Print) Pos() int      { return n.Position }

func (*IntLiteral) exprNode() {}
func (*Identifier) exprNode() {}
func (*BinaryOp) exprNode()   {}
func (*Assign) stmtNode()     {}
func (*Print) stmtNode()      {}
