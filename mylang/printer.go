package mylang

import (
	"strconv"
	"strings"
)

// Unparse renders program back to source, one statement per line, with only
// the parentheses needed to reproduce the same tree.
func Unparse(program *Program) string {
	var b strings.Builder
	for i, stmt := range program.Statements {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch stmt := stmt.(type) {
		case *Assign:
			b.WriteString(stmt.Name)
			b.WriteString(" = ")
			unparseExpr(&b, stmt.Value, 0, false)
			b.WriteByte(';')
		case *Print:
			b.WriteString("print ")
			b.WriteString(stmt.Name)
			b.WriteByte(';')
		}
	}
	return b.String()
}

// Operators are left-associative, so a right operand of equal precedence
// needs parentheses to keep its grouping.
func unparseExpr(b *strings.Builder, expr Expr, parent int, right bool) {
	switch expr := expr.(type) {
	case *IntLiteral:
		b.WriteString(strconv.FormatInt(expr.Value, 10))
	case *Identifier:
		b.WriteString(expr.Name)
	case *BinaryOp:
		prec := expr.Op.Precedence()
		parens := prec < parent || (right && prec == parent)
		if parens {
			b.WriteByte('(')
		}
		unparseExpr(b, expr.Left, prec, false)
		b.WriteByte(' ')
		b.WriteString(expr.Op.Symbol())
		b.WriteByte(' ')
		unparseExpr(b, expr.Right, prec, true)
		if parens {
			b.WriteByte(')')
		}
	}
}

// Serialize renders program as S-expressions, one statement per line. Source
// positions are not part of the output.
func Serialize(program *Program) string {
	var b strings.Builder
	for _, stmt := range program.Statements {
		switch stmt := stmt.(type) {
		case *Assign:
			b.WriteString("(= ")
			b.WriteString(stmt.Name)
			b.WriteByte(' ')
			serializeExpr(&b, stmt.Value)
			b.WriteString(")\n")
		case *Print:
			b.WriteString("(print ")
			b.WriteString(stmt.Name)
			b.WriteString(")\n")
		}
	}
	return b.String()
}

func serializeExpr(b *strings.Builder, expr Expr) {
	switch expr := expr.(type) {
	case *IntLiteral:
		b.WriteString(strconv.FormatInt(expr.Value, 10))
	case *Identifier:
		b.WriteString(expr.Name)
	case *BinaryOp:
		b.WriteByte('(')
		b.WriteString(expr.Op.Symbol())
		b.WriteByte(' ')
		serializeExpr(b, expr.Left)
		b.WriteByte(' ')
		serializeExpr(b, expr.Right)
		b.WriteByte(')')
	}
}

// Pretty renders program as an indented tree, two spaces per level.
func Pretty(program *Program) string {
	var b strings.Builder
	b.WriteString("program\n")
	for _, stmt := range program.Statements {
		switch stmt := stmt.(type) {
		case *Assign:
			writeLine(&b, 1, "assign "+stmt.Name)
			prettyExpr(&b, stmt.Value, 2)
		case *Print:
			writeLine(&b, 1, "print "+stmt.Name)
		}
	}
	return b.String()
}

func prettyExpr(b *strings.Builder, expr Expr, depth int) {
	switch expr := expr.(type) {
	case *IntLiteral:
		writeLine(b, depth, "int "+strconv.FormatInt(expr.Value, 10))
	case *Identifier:
		writeLine(b, depth, "id "+expr.Name)
	case *BinaryOp:
		writeLine(b, depth, strings.ToLower(expr.Op.String()))
		prettyExpr(b, expr.Left, depth+1)
		prettyExpr(b, expr.Right, depth+1)
	}
}

func writeLine(b *strings.Builder, depth int, text string) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(text)
	b.WriteByte('\n')
}
