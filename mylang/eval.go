package mylang

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ahrtr/gocontainer/set"
)

// UnboundFunc is told about the first read of each name that was never
// assigned. Such reads still evaluate to 0.
type UnboundFunc func(name string, pos int)

// Evaluator executes programs against one BindingEnv, writing each printed
// value to its output as soon as the print statement runs.
//
// Arithmetic is on int64 and wraps on overflow; division truncates toward
// zero.
type Evaluator struct {
	env_        *BindingEnv
	out_        io.Writer
	printed_    []int64
	on_unbound_ UnboundFunc
	reported_   set.Interface // <string>
}

func NewEvaluator(env *BindingEnv, out io.Writer) *Evaluator {
	if env == nil {
		env = NewBindingEnv()
	}
	if out == nil {
		out = io.Discard
	}
	ret := Evaluator{env_: env, out_: out, reported_: set.New()}
	return &ret
}

func (this *Evaluator) SetUnboundHandler(fn UnboundFunc) {
	this.on_unbound_ = fn
}

func (this *Evaluator) Env() *BindingEnv {
	return this.env_
}

// / Values printed so far, in execution order.
func (this *Evaluator) Printed() []int64 {
	return this.printed_
}

// Run executes the statements of program in order, stopping at the first
// error. Output already written stays written.
func (this *Evaluator) Run(program *Program) error {
	defer METRIC_RECORD(".mylang eval")()
	for _, stmt := range program.Statements {
		if _, err := this.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Exec executes one statement. For an assignment the result is the value
// that was bound; a print statement yields 0.
func (this *Evaluator) Exec(stmt Statement) (int64, error) {
	switch stmt := stmt.(type) {
	case *Assign:
		value, err := this.Eval(stmt.Value)
		if err != nil {
			return 0, err
		}
		this.env_.AddBinding(stmt.Name, value)
		return value, nil
	case *Print:
		value := this.lookup(stmt.Name, stmt.NamePos)
		if _, err := io.WriteString(this.out_, strconv.FormatInt(value, 10)+"\n"); err != nil {
			return 0, fmt.Errorf("print %s: %w", stmt.Name, err)
		}
		this.printed_ = append(this.printed_, value)
		return 0, nil
	}
	panic(fmt.Sprintf("unknown statement %T", stmt))
}

// Eval computes the value of an expression. Both operands of a binary
// operation are always evaluated, left first.
func (this *Evaluator) Eval(expr Expr) (int64, error) {
	switch expr := expr.(type) {
	case *IntLiteral:
		return expr.Value, nil
	case *Identifier:
		return this.lookup(expr.Name, expr.Position), nil
	case *BinaryOp:
		left, err := this.Eval(expr.Left)
		if err != nil {
			return 0, err
		}
		right, err := this.Eval(expr.Right)
		if err != nil {
			return 0, err
		}
		switch expr.Op {
		case ADD:
			return left + right, nil
		case SUB:
			return left - right, nil
		case MUL:
			return left * right, nil
		case DIV:
			if right == 0 {
				return 0, &RuntimeError{Kind: DivisionByZero, Pos: expr.Position}
			}
			return left / right, nil
		}
		panic(fmt.Sprintf("unknown operator %v", expr.Op))
	}
	panic(fmt.Sprintf("unknown expression %T", expr))
}

func (this *Evaluator) lookup(name string, pos int) int64 {
	value, ok := this.env_.Lookup(name)
	if !ok && this.on_unbound_ != nil && !this.reported_.Contains(name) {
		this.reported_.Add(name)
		this.on_unbound_(name, pos)
	}
	return value
}
