package ast

// Inspect traverses node in lexical pre-order, calling fn for node and then
// for each of its children, recursively. fn returning false for a node
// prunes that node's children. This mirrors the teacher's generated visitor
// (cmd/gen-visitor in the original DWScript port produced an exhaustive
// type-switch over its much larger node set); our node set is small enough
// to hand-write the same exhaustive switch directly.
//
// The feature gate (§4.2) relies on the pre-order guarantee to report the
// lexically-first banned construct deterministically.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, s := range n.Body {
			Inspect(s, fn)
		}
	case *ExpressionStatement:
		Inspect(n.Expression, fn)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			if d.Init != nil {
				Inspect(d.Init, fn)
			}
		}
	case *BlockStatement:
		for _, s := range n.Body {
			Inspect(s, fn)
		}
	case *IfStatement:
		Inspect(n.Test, fn)
		Inspect(n.Consequent, fn)
		if n.Alternate != nil {
			Inspect(n.Alternate, fn)
		}
	case *WhileStatement:
		Inspect(n.Test, fn)
		Inspect(n.Body, fn)
	case *ForStatement:
		if n.Init != nil {
			Inspect(n.Init, fn)
		}
		if n.Test != nil {
			Inspect(n.Test, fn)
		}
		if n.Update != nil {
			Inspect(n.Update, fn)
		}
		Inspect(n.Body, fn)
	case *ReturnStatement:
		if n.Argument != nil {
			Inspect(n.Argument, fn)
		}
	case *FunctionDeclaration:
		Inspect(n.Body, fn)
	case *FunctionExpression:
		Inspect(n.Body, fn)
	case *ArrowFunctionExpression:
		Inspect(n.Body, fn)
	case *BinaryExpression:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *UnaryExpression:
		Inspect(n.Operand, fn)
	case *UpdateExpression:
		Inspect(n.Operand, fn)
	case *AssignmentExpression:
		Inspect(n.Target, fn)
		Inspect(n.Value, fn)
	case *CallExpression:
		Inspect(n.Callee, fn)
		for _, a := range n.Args {
			Inspect(a, fn)
		}
	case *MemberExpression:
		Inspect(n.Object, fn)
		Inspect(n.Property, fn)
	case *AwaitExpression:
		Inspect(n.Argument, fn)
	case *ArrayLiteral:
		for _, e := range n.Elements {
			if e != nil {
				Inspect(e, fn)
			}
		}
	case *ObjectLiteral:
		for _, p := range n.Properties {
			if p.Value != nil {
				Inspect(p.Value, fn)
			}
		}
	case *Identifier, *NumberLiteral, *StringLiteral, *BooleanLiteral, *NullLiteral:
		// leaves
	}
}
