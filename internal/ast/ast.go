// Package ast defines the closed set of syntax tree nodes produced by the
// parser. Every node is dispatched through Visitor, so adding a node kind
// forces every visitor in the tree to handle it.
package ast

import "github.com/probexq/ASharpLang/internal/token"

// Node is the base interface for all AST nodes.
type Node interface {
	Accept(v Visitor) error
	GetToken() token.Token
}

// Statement is a Node that may appear directly in a Block.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that produces a value.
type Expression interface {
	Statement
	expressionNode()
}

// Visitor is implemented by every pass over the tree.
type Visitor interface {
	VisitNumber(n *Number) error
	VisitVariableRef(n *VariableRef) error
	VisitBinding(n *Binding) error
	VisitBinaryOp(n *BinaryOp) error
	VisitUnaryOp(n *UnaryOp) error
	VisitCall(n *Call) error
	VisitImport(n *Import) error
	VisitGuard(n *Guard) error
	VisitBlock(n *Block) error
}

// BindingKind distinguishes the three declaration keywords.
type BindingKind int

const (
	Let BindingKind = iota
	Const
	Condition
)

func (k BindingKind) String() string {
	switch k {
	case Let:
		return "let"
	case Const:
		return "const"
	case Condition:
		return "condition"
	}
	return "binding?"
}

// Program is the root produced for one source file.
type Program struct {
	File string // resolved path of the source, "" for anonymous input
	Body *Block
}

// Number is a numeric literal.
type Number struct {
	Token token.Token
	Value float64
}

func (n *Number) Accept(v Visitor) error { return v.VisitNumber(n) }
func (n *Number) GetToken() token.Token  { return n.Token }
func (n *Number) statementNode()         {}
func (n *Number) expressionNode()        {}

// VariableRef reads a variable, or assigns Value to it when Value is set.
type VariableRef struct {
	Token token.Token
	Name  string
	Value Expression // nil for a plain read
}

func (n *VariableRef) Accept(v Visitor) error { return v.VisitVariableRef(n) }
func (n *VariableRef) GetToken() token.Token  { return n.Token }
func (n *VariableRef) statementNode()         {}
func (n *VariableRef) expressionNode()        {}

// IsAssignment reports whether the reference stores a new value.
func (n *VariableRef) IsAssignment() bool { return n.Value != nil }

// Binding declares (or for let/condition, re-binds) a variable.
type Binding struct {
	Token       token.Token // the let/const/condition keyword
	Kind        BindingKind
	Name        string
	Initializer Expression
}

func (n *Binding) Accept(v Visitor) error { return v.VisitBinding(n) }
func (n *Binding) GetToken() token.Token  { return n.Token }
func (n *Binding) statementNode()         {}

// BinaryOp combines two operands. Op is the operator token type.
type BinaryOp struct {
	Token token.Token
	Left  Expression
	Op    token.TokenType
	Right Expression
}

func (n *BinaryOp) Accept(v Visitor) error { return v.VisitBinaryOp(n) }
func (n *BinaryOp) GetToken() token.Token  { return n.Token }
func (n *BinaryOp) statementNode()         {}
func (n *BinaryOp) expressionNode()        {}

// UnaryOp applies a prefix operator.
type UnaryOp struct {
	Token   token.Token
	Op      token.TokenType
	Operand Expression
}

func (n *UnaryOp) Accept(v Visitor) error { return v.VisitUnaryOp(n) }
func (n *UnaryOp) GetToken() token.Token  { return n.Token }
func (n *UnaryOp) statementNode()         {}
func (n *UnaryOp) expressionNode()        {}

// IsNot reports whether the operator is logical NOT.
func (n *UnaryOp) IsNot() bool { return n.Op == token.BANG }

// Call invokes a built-in by name (MAX, +#, MIN, -#, ABS, LOG, log).
type Call struct {
	Token token.Token
	Name  string
	Args  []Expression
}

func (n *Call) Accept(v Visitor) error { return v.VisitCall(n) }
func (n *Call) GetToken() token.Token  { return n.Token }
func (n *Call) statementNode()         {}
func (n *Call) expressionNode()        {}

// Import inlines another module. Path is the module file name, e.g. "consts.ash".
type Import struct {
	Token token.Token
	Path  string
}

func (n *Import) Accept(v Visitor) error { return v.VisitImport(n) }
func (n *Import) GetToken() token.Token  { return n.Token }
func (n *Import) statementNode()         {}

// Guard runs Then only when Condition is non-zero: cond \ stmts \
type Guard struct {
	Token     token.Token // the opening gate
	Condition Expression
	Then      *Block
}

func (n *Guard) Accept(v Visitor) error { return v.VisitGuard(n) }
func (n *Guard) GetToken() token.Token  { return n.Token }
func (n *Guard) statementNode()         {}

// Block is a statement sequence in source order. Its value is the value of
// the last statement.
type Block struct {
	Token      token.Token
	Statements []Statement
}

func (n *Block) Accept(v Visitor) error { return v.VisitBlock(n) }
func (n *Block) GetToken() token.Token  { return n.Token }
func (n *Block) statementNode()         {}
