// Package canvas implements the canvas preprocessor (§4.3): a best-effort
// AST-to-AST rewrite that replaces a fixed set of canvas-2D-context calls
// with assignments/calls in a private `scratch_*` namespace, then
// re-serializes the rewritten AST back to source text for the pipeline to
// re-parse (§2: "1→2→3→1 (re-parse the rewritten source)").
package canvas

import (
	"strconv"

	"github.com/kestrel-lang/js2sb3/internal/ast"
	"github.com/kestrel-lang/js2sb3/internal/jsparser"
)

// removedCanvasCalls are canvas-context method calls with no `scratch_*`
// analogue; statements invoking them are dropped entirely.
var removedCanvasCalls = map[string]bool{
	"fillRect": true, "strokeRect": true, "clearRect": true,
	"arc": true, "beginPath": true, "closePath": true,
	"moveTo": true, "lineTo": true, "stroke": true, "fill": true,
	"rect": true, "quadraticCurveTo": true, "bezierCurveTo": true,
	"save": true, "restore": true, "translate": true, "rotate": true,
	"scale": true, "setTransform": true, "clip": true,
}

// Preprocess rewrites source if it contains canvas-element/context
// bindings, returning the rewritten source text. If parsing fails or no
// canvas bindings are found, source is returned unchanged — this phase is
// best-effort and never itself fails compilation (§4.3).
func Preprocess(source string) string {
	program, err := jsparser.Parse(source, "")
	if err != nil {
		return source
	}

	elems, ctxs := findBindings(program)
	if len(elems) == 0 && len(ctxs) == 0 {
		return source
	}

	program.Body = rewriteStmtList(program.Body, elems, ctxs)
	return program.String()
}

// findBindings locates canvas-element bindings (`document.getElementById`
// initializers) and canvas-context bindings (`<elem>.getContext(...)` or
// `canvas.getContext(...)` initializers).
func findBindings(program *ast.Program) (elems, ctxs map[string]bool) {
	elems = map[string]bool{}
	ctxs = map[string]bool{}

	ast.Inspect(program, func(n ast.Node) bool {
		decl, ok := n.(*ast.VariableDeclaration)
		if !ok {
			return true
		}
		for _, d := range decl.Declarations {
			call, ok := d.Init.(*ast.CallExpression)
			if !ok {
				continue
			}
			mem, ok := call.Callee.(*ast.MemberExpression)
			if !ok || mem.Computed {
				continue
			}
			prop, ok := mem.Property.(*ast.Identifier)
			if !ok {
				continue
			}
			objIdent, objIsIdent := mem.Object.(*ast.Identifier)

			switch {
			case objIsIdent && objIdent.Name == "document" && prop.Name == "getElementById":
				elems[d.Name] = true
			case prop.Name == "getContext" && objIsIdent && (elems[objIdent.Name] || objIdent.Name == "canvas"):
				ctxs[d.Name] = true
			}
		}
		return true
	})

	return elems, ctxs
}

func rewriteStmtList(stmts []ast.Statement, elems, ctxs map[string]bool) []ast.Statement {
	out := make([]ast.Statement, 0, len(stmts))
	for _, s := range stmts {
		if rs := rewriteStmt(s, elems, ctxs); rs != nil {
			out = append(out, rs)
		}
	}
	return out
}

func rewriteStmt(s ast.Statement, elems, ctxs map[string]bool) ast.Statement {
	switch st := s.(type) {
	case *ast.VariableDeclaration:
		var keep []ast.VariableDeclarator
		for _, d := range st.Declarations {
			if elems[d.Name] || ctxs[d.Name] {
				continue
			}
			keep = append(keep, d)
		}
		if len(keep) == 0 {
			return nil
		}
		st.Declarations = keep
		return st

	case *ast.ExpressionStatement:
		return rewriteExprStmt(st, ctxs)

	case *ast.BlockStatement:
		st.Body = rewriteStmtList(st.Body, elems, ctxs)
		return st

	case *ast.IfStatement:
		st.Consequent = orEmptyBlock(rewriteStmt(st.Consequent, elems, ctxs), st.Position)
		if st.Alternate != nil {
			st.Alternate = rewriteStmt(st.Alternate, elems, ctxs)
		}
		return st

	case *ast.WhileStatement:
		st.Body = orEmptyBlock(rewriteStmt(st.Body, elems, ctxs), st.Position)
		return st

	case *ast.ForStatement:
		st.Body = orEmptyBlock(rewriteStmt(st.Body, elems, ctxs), st.Position)
		return st

	case *ast.FunctionDeclaration:
		st.Body.Body = rewriteStmtList(st.Body.Body, elems, ctxs)
		return st

	default:
		return s
	}
}

func orEmptyBlock(s ast.Statement, pos ast.Position) ast.Statement {
	if s == nil {
		return &ast.BlockStatement{Position: pos}
	}
	return s
}

func rewriteExprStmt(st *ast.ExpressionStatement, ctxs map[string]bool) ast.Statement {
	switch e := st.Expression.(type) {
	case *ast.AssignmentExpression:
		mem, ok := e.Target.(*ast.MemberExpression)
		if !ok || mem.Computed {
			return st
		}
		objIdent, ok := mem.Object.(*ast.Identifier)
		if !ok || !ctxs[objIdent.Name] {
			return st
		}
		prop, ok := mem.Property.(*ast.Identifier)
		if !ok {
			return st
		}

		switch prop.Name {
		case "fillStyle":
			return assignStmt(st.Position, "scratch_pen_color", e.Value)
		case "strokeStyle":
			return assignStmt(st.Position, "scratch_stroke_color", e.Value)
		case "lineWidth":
			return assignStmt(st.Position, "scratch_line_width", e.Value)
		case "font":
			if lit, ok := e.Value.(*ast.StringLiteral); ok {
				size := leadingInt(lit.Value)
				num := &ast.NumberLiteral{Position: st.Position, Raw: strconv.Itoa(size), Value: float64(size)}
				return assignStmt(st.Position, "scratch_text_size", num)
			}
			return nil
		case "textAlign", "textBaseline":
			return nil
		}
		return st

	case *ast.CallExpression:
		mem, ok := e.Callee.(*ast.MemberExpression)
		if !ok || mem.Computed {
			return st
		}
		objIdent, ok := mem.Object.(*ast.Identifier)
		if !ok || !ctxs[objIdent.Name] {
			return st
		}
		prop, ok := mem.Property.(*ast.Identifier)
		if !ok {
			return st
		}

		switch {
		case prop.Name == "fillText" || prop.Name == "strokeText":
			return &ast.ExpressionStatement{
				Position: st.Position,
				Expression: &ast.CallExpression{
					Position: st.Position,
					Callee:   &ast.Identifier{Position: st.Position, Name: "scratch_say"},
					Args:     e.Args,
				},
			}
		case removedCanvasCalls[prop.Name]:
			return nil
		}
		return st
	}

	return st
}

func assignStmt(pos ast.Position, name string, value ast.Expression) ast.Statement {
	return &ast.ExpressionStatement{
		Position: pos,
		Expression: &ast.AssignmentExpression{
			Position: pos,
			Operator: "=",
			Target:   &ast.Identifier{Position: pos, Name: name},
			Value:    value,
		},
	}
}

// leadingInt extracts the leading decimal integer from a CSS-style font
// string such as "30px Arial", defaulting to 0 if none is present.
func leadingInt(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0
	}
	return n
}
