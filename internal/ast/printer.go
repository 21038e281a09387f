package ast

import (
	"strconv"
	"strings"
)

// String renders a node as a compact s-expression, e.g. (+ 2 (* 3 4)).
func String(n Node) string {
	p := &printer{}
	if err := n.Accept(p); err != nil {
		return "<error: " + err.Error() + ">"
	}
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (p *printer) open(head string) {
	p.sb.WriteString("(")
	p.sb.WriteString(head)
}

func (p *printer) child(n Node) error {
	p.sb.WriteString(" ")
	return n.Accept(p)
}

func (p *printer) VisitNumber(n *Number) error {
	p.sb.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	return nil
}

func (p *printer) VisitVariableRef(n *VariableRef) error {
	if n.Value == nil {
		p.sb.WriteString(n.Name)
		return nil
	}
	p.open("= " + n.Name)
	if err := p.child(n.Value); err != nil {
		return err
	}
	p.sb.WriteString(")")
	return nil
}

func (p *printer) VisitBinding(n *Binding) error {
	p.open(n.Kind.String() + " " + n.Name)
	if err := p.child(n.Initializer); err != nil {
		return err
	}
	p.sb.WriteString(")")
	return nil
}

func (p *printer) VisitBinaryOp(n *BinaryOp) error {
	p.open(n.Op.String())
	if err := p.child(n.Left); err != nil {
		return err
	}
	if err := p.child(n.Right); err != nil {
		return err
	}
	p.sb.WriteString(")")
	return nil
}

func (p *printer) VisitUnaryOp(n *UnaryOp) error {
	p.open(n.Op.String())
	if err := p.child(n.Operand); err != nil {
		return err
	}
	p.sb.WriteString(")")
	return nil
}

func (p *printer) VisitCall(n *Call) error {
	p.open("call " + n.Name)
	for _, arg := range n.Args {
		if err := p.child(arg); err != nil {
			return err
		}
	}
	p.sb.WriteString(")")
	return nil
}

func (p *printer) VisitImport(n *Import) error {
	p.open("import " + n.Path)
	p.sb.WriteString(")")
	return nil
}

func (p *printer) VisitGuard(n *Guard) error {
	p.open("guard")
	if err := p.child(n.Condition); err != nil {
		return err
	}
	if err := p.child(n.Then); err != nil {
		return err
	}
	p.sb.WriteString(")")
	return nil
}

func (p *printer) VisitBlock(n *Block) error {
	p.open("block")
	for _, stmt := range n.Statements {
		if err := p.child(stmt); err != nil {
			return err
		}
	}
	p.sb.WriteString(")")
	return nil
}
