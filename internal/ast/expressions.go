package ast

import "bytes"

// BinaryExpression is `left OP right` for arithmetic, comparison, and
// equality operators. Logical operators are represented the same way; the
// feature gate does not ban them and the lowerer's operator table (§4.5.3)
// decides what, if anything, each operator lowers to.
type BinaryExpression struct {
	Position Position
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) expressionNode() {}
func (b *BinaryExpression) Pos() Position   { return b.Position }
func (b *BinaryExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(b.Left.String())
	out.WriteString(" " + b.Operator + " ")
	out.WriteString(b.Right.String())
	out.WriteString(")")
	return out.String()
}

// UnaryExpression is a prefix operator applied to a single operand, e.g.
// `!e`, `-e`. Prefix `++i`/`--i` are UpdateExpressions.
type UnaryExpression struct {
	Position Position
	Operator string
	Operand  Expression
}

func (u *UnaryExpression) expressionNode() {}
func (u *UnaryExpression) Pos() Position   { return u.Position }
func (u *UnaryExpression) String() string  { return u.Operator + u.Operand.String() }

// UpdateExpression is `i++`, `i--`, `++i`, `--i`.
type UpdateExpression struct {
	Position Position
	Operator string // "++" or "--"
	Operand  Expression
	Prefix   bool
}

func (u *UpdateExpression) expressionNode() {}
func (u *UpdateExpression) Pos() Position   { return u.Position }
func (u *UpdateExpression) String() string {
	if u.Prefix {
		return u.Operator + u.Operand.String()
	}
	return u.Operand.String() + u.Operator
}

// AssignmentExpression is `target OP= value`. Target is either an
// *Identifier or a *MemberExpression per §4.5.1.
type AssignmentExpression struct {
	Position Position
	Operator string // "=", "+=", ...
	Target   Expression
	Value    Expression
}

func (a *AssignmentExpression) expressionNode() {}
func (a *AssignmentExpression) Pos() Position   { return a.Position }
func (a *AssignmentExpression) String() string {
	return a.Target.String() + " " + a.Operator + " " + a.Value.String()
}

// CallExpression is `callee(args...)`.
type CallExpression struct {
	Position Position
	Callee   Expression
	Args     []Expression
}

func (c *CallExpression) expressionNode() {}
func (c *CallExpression) Pos() Position   { return c.Position }
func (c *CallExpression) String() string {
	var out bytes.Buffer
	out.WriteString(c.Callee.String())
	out.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(a.String())
	}
	out.WriteString(")")
	return out.String()
}

// MemberExpression is `object.property` (Computed=false, Property is an
// *Identifier carrying the field name) or `object[expr]` (Computed=true,
// Property is an arbitrary expression).
type MemberExpression struct {
	Position Position
	Object   Expression
	Property Expression
	Computed bool
}

func (m *MemberExpression) expressionNode() {}
func (m *MemberExpression) Pos() Position   { return m.Position }
func (m *MemberExpression) String() string {
	if m.Computed {
		return m.Object.String() + "[" + m.Property.String() + "]"
	}
	return m.Object.String() + "." + m.Property.String()
}

// AwaitExpression is `await e`. The source language bans async/await
// outright (§4.2); it is represented here purely so the feature gate has a
// node to find and report before anything else inspects it.
type AwaitExpression struct {
	Position Position
	Argument Expression
}

func (a *AwaitExpression) expressionNode() {}
func (a *AwaitExpression) Pos() Position   { return a.Position }
func (a *AwaitExpression) String() string  { return "await " + a.Argument.String() }
