package lower

import "github.com/kestrel-lang/js2sb3/internal/ast"

// lowerStatements lowers a statement list under enclosingParent, chaining
// each emitted statement's entry block after the previous one's tail
// (§4.5.4): only the very first block's parent is enclosingParent, every
// later block's parent is the sibling before it.
func (l *Lowerer) lowerStatements(stmts []ast.Statement, enclosingParent string) (first, last string) {
	for _, s := range stmts {
		f, tail, ok := l.lowerStatement(s, enclosingParent)
		if !ok {
			continue
		}
		if first == "" {
			first = f
			l.store.Blocks[f].Parent = strPtr(enclosingParent)
		} else {
			l.link(last, f)
		}
		last = tail
	}
	return first, last
}

// lowerBodyAsSubstack lowers a control block's body (a block statement or a
// single bare statement, both written the same way in source) under
// parent, returning the SUBSTACK target id, or "" for an empty substack.
func (l *Lowerer) lowerBodyAsSubstack(body ast.Statement, parent string) string {
	first, _, ok := l.lowerStatement(body, parent)
	if !ok {
		return ""
	}
	// lowerStatement only assigns the first block's parent when body is a
	// *ast.BlockStatement (via lowerStatements); an unbraced single-statement
	// body returns a block whose parent was never set. The substack's entry
	// block is always a direct child of parent either way, so this is safe
	// to set unconditionally.
	l.store.Blocks[first].Parent = strPtr(parent)
	return first
}

func bodyStatements(body ast.Statement) []ast.Statement {
	if blk, ok := body.(*ast.BlockStatement); ok {
		return blk.Body
	}
	return []ast.Statement{body}
}

// lowerStatement lowers one statement (§4.5.1), returning the id of its
// first emitted block, the id of its last (for chaining the next sibling
// after it), and whether it emitted anything at all.
func (l *Lowerer) lowerStatement(s ast.Statement, parent string) (first, last string, ok bool) {
	switch st := s.(type) {
	case *ast.VariableDeclaration:
		return l.lowerVariableDeclaration(st)

	case *ast.ExpressionStatement:
		return l.lowerExpressionStatement(st)

	case *ast.BlockStatement:
		f, lEnd := l.lowerStatements(st.Body, parent)
		return f, lEnd, f != ""

	case *ast.IfStatement:
		return l.lowerIf(st)

	case *ast.WhileStatement:
		return l.lowerWhile(st)

	case *ast.ForStatement:
		return l.lowerFor(st)

	case *ast.FunctionDeclaration:
		return l.lowerFunctionDeclaration(st)

	case *ast.ReturnStatement:
		// Return expressions are consumed only when a function is inlined
		// (§4.5.2); as a statement it contributes no block.
		return "", "", false

	default:
		return "", "", false
	}
}

func (l *Lowerer) lowerVariableDeclaration(decl *ast.VariableDeclaration) (first, last string, ok bool) {
	for _, d := range decl.Declarations {
		switch d.Init.(type) {
		case *ast.ArrowFunctionExpression, *ast.FunctionExpression, *ast.ArrayLiteral, *ast.ObjectLiteral:
			continue
		}

		id := l.store.alloc("data_setvariableto")
		l.store.Blocks[id].Fields["VARIABLE"] = Field{d.Name, d.Name}
		if d.Init != nil {
			l.store.Blocks[id].Inputs["VALUE"] = l.encode(d.Init, id)
		} else {
			l.store.Blocks[id].Inputs["VALUE"] = literalNum("0")
		}

		if first == "" {
			first = id
		} else {
			l.link(last, id)
		}
		last = id
	}
	return first, last, first != ""
}

func (l *Lowerer) lowerExpressionStatement(st *ast.ExpressionStatement) (first, last string, ok bool) {
	switch e := st.Expression.(type) {
	case *ast.AssignmentExpression:
		return l.lowerAssignment(e)
	case *ast.CallExpression:
		return l.lowerCallStatement(e)
	case *ast.UpdateExpression:
		return l.lowerUpdateExpression(e)
	default:
		return "", "", false
	}
}

// lowerUpdateExpression lowers a bare `i++`/`i--` statement to a
// data_setvariableto whose VALUE adds or subtracts the literal 1, matching
// the synthesized increment lowerSimpleFor builds for its own loop variable.
func (l *Lowerer) lowerUpdateExpression(e *ast.UpdateExpression) (first, last string, ok bool) {
	name, isIdent := identifierName(e.Operand)
	if !isIdent {
		return "", "", false
	}

	op := "+"
	if e.Operator == "--" {
		op = "-"
	}

	id := l.store.alloc("data_setvariableto")
	l.store.Blocks[id].Fields["VARIABLE"] = Field{name, name}
	value := &ast.BinaryExpression{
		Operator: op,
		Left:     &ast.Identifier{Name: name},
		Right:    &ast.NumberLiteral{Raw: "1", Value: 1},
	}
	l.store.Blocks[id].Inputs["VALUE"] = l.encode(value, id)
	return id, id, true
}

func (l *Lowerer) lowerAssignment(e *ast.AssignmentExpression) (first, last string, ok bool) {
	switch target := e.Target.(type) {
	case *ast.Identifier:
		id := l.store.alloc("data_setvariableto")
		l.store.Blocks[id].Fields["VARIABLE"] = Field{target.Name, target.Name}
		l.store.Blocks[id].Inputs["VALUE"] = l.encode(e.Value, id)
		return id, id, true

	case *ast.MemberExpression:
		obj, isIdent := target.Object.(*ast.Identifier)
		if !isIdent {
			return "", "", false
		}
		if target.Computed && l.table.IsList(obj.Name) {
			id := l.store.alloc("data_replaceitemoflist")
			l.store.Blocks[id].Fields["LIST"] = Field{obj.Name, obj.Name}
			l.store.Blocks[id].Inputs["INDEX"] = l.encode(target.Property, id)
			l.store.Blocks[id].Inputs["ITEM"] = l.encode(e.Value, id)
			return id, id, true
		}
		propName, ok := memberPropertyName(target)
		if !ok {
			return "", "", false
		}
		if props, ok := l.table.ObjectProperties(obj.Name); ok && containsName(props, propName) {
			id := l.store.alloc("data_setvariableto")
			flat := obj.Name + "_" + propName
			l.store.Blocks[id].Fields["VARIABLE"] = Field{flat, flat}
			l.store.Blocks[id].Inputs["VALUE"] = l.encode(e.Value, id)
			return id, id, true
		}
		return "", "", false

	default:
		return "", "", false
	}
}

// memberPropertyName extracts a non-computed `.prop` name, or a computed
// `["prop"]` string-literal name.
func memberPropertyName(m *ast.MemberExpression) (string, bool) {
	if !m.Computed {
		if id, ok := m.Property.(*ast.Identifier); ok {
			return id.Name, true
		}
		return "", false
	}
	if s, ok := m.Property.(*ast.StringLiteral); ok {
		return s.Value, true
	}
	return "", false
}

func (l *Lowerer) lowerCallStatement(call *ast.CallExpression) (first, last string, ok bool) {
	if ident, isIdent := call.Callee.(*ast.Identifier); isIdent && ident.Name == "scratch_say" {
		id := l.store.alloc("looks_say")
		var msg ast.Expression
		if len(call.Args) > 0 {
			msg = call.Args[0]
		} else {
			msg = &ast.StringLiteral{Value: ""}
		}
		l.store.Blocks[id].Inputs["MESSAGE"] = l.encode(msg, id)
		return id, id, true
	}

	mem, isMember := call.Callee.(*ast.MemberExpression)
	if !isMember || mem.Computed {
		return "", "", false
	}
	obj, isIdent := mem.Object.(*ast.Identifier)
	prop, isProp := mem.Property.(*ast.Identifier)
	if !isIdent || !isProp || !l.table.IsList(obj.Name) {
		return "", "", false
	}

	switch prop.Name {
	case "push":
		id := l.store.alloc("data_addtolist")
		l.store.Blocks[id].Fields["LIST"] = Field{obj.Name, obj.Name}
		var v ast.Expression
		if len(call.Args) > 0 {
			v = call.Args[0]
		} else {
			v = &ast.NumberLiteral{Raw: "0", Value: 0}
		}
		l.store.Blocks[id].Inputs["ITEM"] = l.encode(v, id)
		return id, id, true

	case "pop":
		lenID := l.store.alloc("data_lengthoflist")
		l.store.Blocks[lenID].Fields["LIST"] = Field{obj.Name, obj.Name}
		delID := l.store.alloc("data_deleteoflist")
		l.store.Blocks[lenID].Parent = strPtr(delID)
		l.store.Blocks[delID].Fields["LIST"] = Field{obj.Name, obj.Name}
		l.store.Blocks[delID].Inputs["INDEX"] = blockRef(lenID)
		return delID, delID, true

	default:
		return "", "", false
	}
}

func (l *Lowerer) lowerIf(st *ast.IfStatement) (first, last string, ok bool) {
	id := l.store.alloc("control_if")
	l.store.Blocks[id].Inputs["CONDITION"] = l.encode(st.Test, id)
	if sub := l.lowerBodyAsSubstack(st.Consequent, id); sub != "" {
		l.store.Blocks[id].Inputs["SUBSTACK"] = blockRef(sub)
	}
	// st.Alternate has no representation in the closed block vocabulary
	// (no control_if_else opcode exists, §6); an else branch is dropped.
	return id, id, true
}

func (l *Lowerer) lowerWhile(st *ast.WhileStatement) (first, last string, ok bool) {
	id := l.store.alloc("control_repeat_until")
	l.store.Blocks[id].Inputs["CONDITION"] = l.negatedEncode(st.Test, id)
	if sub := l.lowerBodyAsSubstack(st.Body, id); sub != "" {
		l.store.Blocks[id].Inputs["SUBSTACK"] = blockRef(sub)
	}
	return id, id, true
}

func identifierName(e ast.Expression) (string, bool) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return "", false
	}
	return id.Name, true
}

// isSimpleFor recognizes `for (let i = start; i < end; i++)` (and its
// `<=`/`+= 1` variants), §4.5.1.
func isSimpleFor(st *ast.ForStatement) (name string, start ast.Expression, inclusive bool, end ast.Expression, ok bool) {
	decl, isDecl := st.Init.(*ast.VariableDeclaration)
	if !isDecl || len(decl.Declarations) != 1 {
		return "", nil, false, nil, false
	}
	d := decl.Declarations[0]

	bin, isBin := st.Test.(*ast.BinaryExpression)
	if !isBin {
		return "", nil, false, nil, false
	}
	testIdent, isIdent := identifierName(bin.Left)
	if !isIdent || testIdent != d.Name {
		return "", nil, false, nil, false
	}
	if bin.Operator != "<" && bin.Operator != "<=" {
		return "", nil, false, nil, false
	}

	if !isSimpleForUpdate(st.Update, d.Name) {
		return "", nil, false, nil, false
	}

	return d.Name, d.Init, bin.Operator == "<=", bin.Right, true
}

func isSimpleForUpdate(update ast.Expression, name string) bool {
	switch u := update.(type) {
	case *ast.UpdateExpression:
		n, ok := identifierName(u.Operand)
		return ok && n == name && u.Operator == "++"
	case *ast.AssignmentExpression:
		n, ok := identifierName(u.Target)
		if !ok || n != name || u.Operator != "+=" {
			return false
		}
		num, ok := u.Value.(*ast.NumberLiteral)
		return ok && num.Value == 1
	default:
		return false
	}
}

func (l *Lowerer) lowerFor(st *ast.ForStatement) (first, last string, ok bool) {
	if name, start, inclusive, end, isSimple := isSimpleFor(st); isSimple {
		return l.lowerSimpleFor(name, start, inclusive, end, st.Body)
	}
	return l.lowerGeneralFor(st)
}

func (l *Lowerer) lowerSimpleFor(name string, start ast.Expression, inclusive bool, end ast.Expression, body ast.Statement) (first, last string, ok bool) {
	initID := l.store.alloc("data_setvariableto")
	l.store.Blocks[initID].Fields["VARIABLE"] = Field{name, name}
	l.store.Blocks[initID].Inputs["VALUE"] = l.encode(start, initID)

	repeatID := l.store.alloc("control_repeat")
	l.link(initID, repeatID)

	var timesExpr ast.Expression = &ast.BinaryExpression{Operator: "-", Left: end, Right: start}
	if inclusive {
		timesExpr = &ast.BinaryExpression{Operator: "+", Left: timesExpr, Right: &ast.NumberLiteral{Raw: "1", Value: 1}}
	}
	l.store.Blocks[repeatID].Inputs["TIMES"] = l.encode(timesExpr, repeatID)

	incStmt := &ast.ExpressionStatement{Expression: &ast.AssignmentExpression{
		Operator: "=",
		Target:   &ast.Identifier{Name: name},
		Value:    &ast.BinaryExpression{Operator: "+", Left: &ast.Identifier{Name: name}, Right: &ast.NumberLiteral{Raw: "1", Value: 1}},
	}}
	stmts := append(append([]ast.Statement{}, bodyStatements(body)...), incStmt)
	sub, _ := l.lowerStatements(stmts, repeatID)
	if sub != "" {
		l.store.Blocks[repeatID].Inputs["SUBSTACK"] = blockRef(sub)
	}

	return initID, repeatID, true
}

func (l *Lowerer) lowerGeneralFor(st *ast.ForStatement) (first, last string, ok bool) {
	repeatID := l.store.alloc("control_repeat_until")

	if st.Test != nil {
		l.store.Blocks[repeatID].Inputs["CONDITION"] = l.negatedEncode(st.Test, repeatID)
	} else {
		l.store.Blocks[repeatID].Inputs["CONDITION"] = literalText("true")
	}

	stmts := bodyStatements(st.Body)
	if st.Update != nil {
		stmts = append(append([]ast.Statement{}, stmts...), &ast.ExpressionStatement{Expression: st.Update})
	}
	sub, _ := l.lowerStatements(stmts, repeatID)
	if sub != "" {
		l.store.Blocks[repeatID].Inputs["SUBSTACK"] = blockRef(sub)
	}

	if st.Init == nil {
		return repeatID, repeatID, true
	}
	initFirst, initLast, initOk := l.lowerStatement(st.Init, "")
	if !initOk {
		return repeatID, repeatID, true
	}
	l.link(initLast, repeatID)
	return initFirst, repeatID, true
}

// lowerFunctionDeclaration emits a recursive function's procedure
// definition as its own independent script — parent stays null and
// top_level stays false (§8 invariant 1 reserves top_level=true for the
// single event root; the definition floats free by virtue of parent=null,
// not by the top_level flag). It never contributes to the surrounding
// statement chain, so it always reports ok=false to its caller.
func (l *Lowerer) lowerFunctionDeclaration(st *ast.FunctionDeclaration) (first, last string, ok bool) {
	if !l.table.IsRecursive(st.Name) {
		return "", "", false
	}

	id := l.store.alloc("procedures_definition")
	mut := newMutation()
	mut.ProcCode = st.Name
	mut.ArgumentIDs = argumentIDsJSON(st.Params)
	mut.Warp = "false"
	l.store.Blocks[id].Mutation = mut

	bodyFirst, _ := l.lowerStatements(st.Body.Body, id)
	if bodyFirst != "" {
		l.link(id, bodyFirst)
	}

	return "", "", false
}
