package mylang

import (
	"fmt"
	"io"
	"strconv"

	"github.com/edwingeng/deque"
)

// / Runs the process of creating GraphViz .dot file output for a syntax tree.
type GraphViz struct {
	out_ io.Writer
	ids_ map[Node]int
}

func NewGraphViz(out io.Writer) *GraphViz {
	ret := GraphViz{}
	ret.out_ = out
	ret.ids_ = map[Node]int{}
	return &ret
}

func (this *GraphViz) Start() {
	fmt.Fprintf(this.out_, "digraph mylang {\n")
	fmt.Fprintf(this.out_, "rankdir=\"TB\"\n")
	fmt.Fprintf(this.out_, "node [fontsize=10, shape=box, height=0.25]\n")
	fmt.Fprintf(this.out_, "edge [fontsize=10]\n")
}

func (this *GraphViz) id(node Node) string {
	id, ok := this.ids_[node]
	if !ok {
		id = len(this.ids_) + 1
		this.ids_[node] = id
	}
	return "n" + strconv.Itoa(id)
}

// / Emit every node of |program| breadth first, statements left to right.
func (this *GraphViz) AddProgram(program *Program) {
	fmt.Fprintf(this.out_, "\"n0\" [label=\"program\", shape=ellipse]\n")

	nodes := deque.NewDeque()
	for i, stmt := range program.Statements {
		fmt.Fprintf(this.out_, "\"n0\" -> \"%s\" [label=\" %d\"]\n", this.id(stmt), i)
		nodes.PushBack(stmt)
	}

	for nodes.Len() != 0 {
		node := nodes.PopFront().(Node)
		id := this.id(node)
		switch node := node.(type) {
		case *Assign:
			fmt.Fprintf(this.out_, "\"%s\" [label=\"%s =\", shape=ellipse]\n", id, node.Name)
			fmt.Fprintf(this.out_, "\"%s\" -> \"%s\"\n", id, this.id(node.Value))
			nodes.PushBack(node.Value)
		case *Print:
			fmt.Fprintf(this.out_, "\"%s\" [label=\"print %s\", shape=ellipse]\n", id, node.Name)
		case *BinaryOp:
			fmt.Fprintf(this.out_, "\"%s\" [label=\"%s\"]\n", id, node.Op.Symbol())
			fmt.Fprintf(this.out_, "\"%s\" -> \"%s\"\n", id, this.id(node.Left))
			fmt.Fprintf(this.out_, "\"%s\" -> \"%s\"\n", id, this.id(node.Right))
			nodes.PushBack(node.Left)
			nodes.PushBack(node.Right)
		case *IntLiteral:
			fmt.Fprintf(this.out_, "\"%s\" [label=\"%d\"]\n", id, node.Value)
		case *Identifier:
			fmt.Fprintf(this.out_, "\"%s\" [label=\"%s\", style=dotted]\n", id, node.Name)
		}
	}
}

func (this *GraphViz) Finish() {
	fmt.Fprintf(this.out_, "}\n")
}
