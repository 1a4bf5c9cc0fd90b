package lower

import (
	"github.com/kestrel-lang/js2sb3/internal/ast"
)

// encode lowers expr to an input encoding (§4.5.2). owner is the id of the
// block whose input map this value will be plugged into — any block encode
// itself allocates (reporters nested in the input) is parented to owner.
func (l *Lowerer) encode(expr ast.Expression, owner string) Input {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return literalNum(e.Raw)

	case *ast.StringLiteral:
		return literalText(e.Value)

	case *ast.BooleanLiteral:
		return literalText(boolStr(e.Value))

	case *ast.NullLiteral:
		return literalText("")

	case *ast.Identifier:
		if sub, saved, ok := l.resolveIdentifier(e.Name); ok {
			return l.encodeSubstituted(sub, saved, owner)
		}
		return varReporterWithShadow(e.Name)

	case *ast.MemberExpression:
		return l.encodeMember(e, owner)

	case *ast.CallExpression:
		return l.encodeCall(e, owner)

	case *ast.UnaryExpression:
		if e.Operator == "!" {
			id := l.store.alloc("operator_not")
			l.store.Blocks[id].Parent = strPtr(owner)
			l.store.Blocks[id].Inputs["OPERAND"] = l.encode(e.Operand, id)
			return blockRef(id)
		}
		return literalText("0")

	case *ast.BinaryExpression:
		if _, ok := operatorTable[e.Operator]; !ok {
			return literalText("0")
		}
		id := l.lowerBinary(e, "", owner)
		return blockRef(id)

	default:
		// Assignment/update/array/object/function literals, and anything
		// else not listed in §4.5.2, fall back to the safe default.
		return literalText("0")
	}
}

// encodeSubstituted encodes an inlined parameter's argument expression in
// the scope that was active at the call site (saved), restoring the
// current scope afterwards — keeps substitution capture-free across nested
// inlining.
func (l *Lowerer) encodeSubstituted(expr ast.Expression, saved []scopeFrame, owner string) Input {
	cur := l.scopes
	l.scopes = saved
	result := l.encode(expr, owner)
	l.scopes = cur
	return result
}

func (l *Lowerer) resolveIdentifier(name string) (ast.Expression, []scopeFrame, bool) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if e, ok := l.scopes[i].args[name]; ok {
			return e, l.scopes[i].parent, true
		}
	}
	return nil, nil, false
}

func (l *Lowerer) encodeMember(e *ast.MemberExpression, owner string) Input {
	obj, ok := e.Object.(*ast.Identifier)
	if !ok {
		return literalText("0")
	}

	if !e.Computed {
		prop, ok := e.Property.(*ast.Identifier)
		if !ok {
			return literalText("0")
		}
		if props, ok := l.table.ObjectProperties(obj.Name); ok && containsName(props, prop.Name) {
			return varReporterWithShadow(obj.Name + "_" + prop.Name)
		}
		if prop.Name == "length" && l.table.IsList(obj.Name) {
			id := l.store.alloc("data_lengthoflist")
			l.store.Blocks[id].Parent = strPtr(owner)
			l.store.Blocks[id].Fields["LIST"] = Field{obj.Name, obj.Name}
			return blockRef(id)
		}
		return literalText("0")
	}

	// Computed member: arr[i] (known list) or obj["prop"] (flattened object).
	if l.table.IsList(obj.Name) {
		id := l.store.alloc("data_itemoflist")
		l.store.Blocks[id].Parent = strPtr(owner)
		l.store.Blocks[id].Fields["LIST"] = Field{obj.Name, obj.Name}
		l.store.Blocks[id].Inputs["INDEX"] = l.encode(e.Property, id)
		return blockRef(id)
	}
	if str, ok := e.Property.(*ast.StringLiteral); ok {
		if props, ok := l.table.ObjectProperties(obj.Name); ok && containsName(props, str.Value) {
			return varReporterWithShadow(obj.Name + "_" + str.Value)
		}
	}
	return literalText("0")
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func (l *Lowerer) encodeCall(call *ast.CallExpression, owner string) Input {
	ident, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return literalText("0")
	}

	if l.table.IsRecursive(ident.Name) {
		return l.encodeRecursiveCall(ident.Name, call.Args, owner)
	}
	if l.table.IsFunction(ident.Name) {
		return l.encodeInlinedCall(ident.Name, call.Args, owner)
	}
	return literalText("0")
}

func (l *Lowerer) encodeRecursiveCall(name string, args []ast.Expression, owner string) Input {
	def := l.table.FunctionDefinitions[name]
	id := l.store.alloc("procedures_call")
	l.store.Blocks[id].Parent = strPtr(owner)
	mut := newMutation()
	mut.ProcCode = name
	mut.ArgumentIDs = argumentIDsJSON(def.Params)
	l.store.Blocks[id].Mutation = mut

	for i, p := range def.Params {
		if i < len(args) {
			l.store.Blocks[id].Inputs[p] = l.encode(args[i], id)
		} else {
			l.store.Blocks[id].Inputs[p] = literalNum("0")
		}
	}

	l.table.Variables.Add(name + "_result")
	return blockRef(id)
}

func (l *Lowerer) encodeInlinedCall(name string, args []ast.Expression, owner string) Input {
	def := l.table.FunctionDefinitions[name]

	frame := scopeFrame{args: map[string]ast.Expression{}, parent: l.scopes}
	for i, p := range def.Params {
		if i < len(args) {
			frame.args[p] = args[i]
		} else {
			frame.args[p] = &ast.NumberLiteral{Raw: "0", Value: 0}
		}
	}
	saved := l.scopes
	l.scopes = append(append([]scopeFrame{}, saved...), frame)

	value := inlinedReturnValue(def.Body)
	var result Input
	if value != nil {
		result = l.encode(value, owner)
	} else {
		result = literalNum("0")
	}

	l.scopes = saved
	return result
}

// inlinedReturnValue finds the value a non-recursive function's body
// contributes when inlined: the first return statement's argument found in
// the body, nested blocks and the branches of if statements, or the bare
// expression for a concise arrow body, or nil if none is found. Loop bodies
// are not searched, and an else-if alternate is not descended into.
func inlinedReturnValue(body ast.Node) ast.Expression {
	block, ok := body.(*ast.BlockStatement)
	if !ok {
		if expr, ok := body.(ast.Expression); ok {
			return expr
		}
		return nil
	}

	var found ast.Expression
	var search func(stmts []ast.Statement) bool
	search = func(stmts []ast.Statement) bool {
		for _, s := range stmts {
			switch st := s.(type) {
			case *ast.ReturnStatement:
				found = st.Argument
				return true
			case *ast.BlockStatement:
				if search(st.Body) {
					return true
				}
			case *ast.IfStatement:
				if cons, ok := st.Consequent.(*ast.BlockStatement); ok {
					if search(cons.Body) {
						return true
					}
				} else if ret, ok := st.Consequent.(*ast.ReturnStatement); ok {
					found = ret.Argument
					return true
				}
				if st.Alternate != nil {
					if alt, ok := st.Alternate.(*ast.BlockStatement); ok {
						if search(alt.Body) {
							return true
						}
					} else if ret, ok := st.Alternate.(*ast.ReturnStatement); ok {
						found = ret.Argument
						return true
					}
				}
			}
		}
		return false
	}
	search(block.Body)
	return found
}

// lowerBinary allocates the block for a binary expression, wiring its
// operand slots per the operator's kind, and wrapping in operator_not when
// the operator table calls for it. overrideOp, when non-empty, substitutes
// for expr.Operator — used by negatedEncode to rewrite a comparison to its
// dual rather than double-negating.
func (l *Lowerer) lowerBinary(expr *ast.BinaryExpression, overrideOp, owner string) string {
	op := expr.Operator
	if overrideOp != "" {
		op = overrideOp
	}
	spec := operatorTable[op]

	id := l.store.alloc(spec.opcode)
	leftSlot, rightSlot := operandSlots(spec.kind)
	gt := spec.opcode == "operator_gt"

	notID := ""
	if spec.wrap {
		notID = l.store.alloc("operator_not")
		l.store.Blocks[notID].Parent = strPtr(owner)
		l.store.Blocks[notID].Inputs["OPERAND"] = blockRef(id)
		l.store.Blocks[id].Parent = strPtr(notID)
	} else {
		l.store.Blocks[id].Parent = strPtr(owner)
	}

	l.store.Blocks[id].Inputs[leftSlot] = l.encodeOperand(expr.Left, spec.kind, gt, true, id)
	l.store.Blocks[id].Inputs[rightSlot] = l.encodeOperand(expr.Right, spec.kind, gt, false, id)

	if spec.wrap {
		return notID
	}
	return id
}

// negatedEncode encodes the logical negation of expr, for while/general-for
// conditions. A comparison operator is rewritten to its dual rather than
// wrapped a second time; anything else is wrapped in operator_not.
func (l *Lowerer) negatedEncode(expr ast.Expression, owner string) Input {
	if bin, ok := expr.(*ast.BinaryExpression); ok {
		if dual, ok := dualOperator[bin.Operator]; ok {
			id := l.lowerBinary(bin, dual, owner)
			return blockRef(id)
		}
	}
	id := l.store.alloc("operator_not")
	l.store.Blocks[id].Parent = strPtr(owner)
	l.store.Blocks[id].Inputs["OPERAND"] = l.encode(expr, id)
	return blockRef(id)
}

// encodeOperand encodes one operand slot of a binary operator block
// (§4.5.3). isLeft/isGT together select the shadow shape used for a bare
// identifier operand; literal and nested-expression operands fall back to
// the generic encoder.
func (l *Lowerer) encodeOperand(expr ast.Expression, kind string, isGT, isLeft bool, owner string) Input {
	if ident, ok := expr.(*ast.Identifier); ok {
		if sub, saved, ok := l.resolveIdentifier(ident.Name); ok {
			cur := l.scopes
			l.scopes = saved
			result := l.encodeOperand(sub, kind, isGT, isLeft, owner)
			l.scopes = cur
			return result
		}
		if kind == "arithmetic" {
			return Input{3, varReporter(ident.Name), []interface{}{4, ""}}
		}
		if isGT && isLeft {
			return Input{3, varReporter(ident.Name), []interface{}{10, ""}}
		}
		return Input{2, varReporter(ident.Name)}
	}

	if kind == "comparison" {
		if lit, ok := literalStringOf(expr); ok {
			return literalText(lit)
		}
	}

	return l.encode(expr, owner)
}

// literalStringOf renders a literal expression's source-level string form,
// for the comparison-operand literal rule (§4.5.3).
func literalStringOf(expr ast.Expression) (string, bool) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return e.Raw, true
	case *ast.StringLiteral:
		return e.Value, true
	case *ast.BooleanLiteral:
		return boolStr(e.Value), true
	case *ast.NullLiteral:
		return "", true
	default:
		return "", false
	}
}
