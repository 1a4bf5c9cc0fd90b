package symbols

import "github.com/kestrel-lang/js2sb3/internal/ast"

// listMethods are the array-mutation method names whose receiver is
// classified as a list on sight, even without an array-literal initializer
// (§4.4 Pass A, final sentence).
var listMethods = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true,
	"splice": true, "slice": true,
}

// Analyze runs the three-pass symbol analysis over program and returns the
// resulting table. Analysis never mutates the AST.
func Analyze(program *ast.Program) *Table {
	t := newTable()

	passA(program, t)
	passB(program, t)
	passC(t)

	return t
}

func passA(program *ast.Program, t *Table) {
	ast.Inspect(program, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.VariableDeclaration:
			for _, d := range node.Declarations {
				classifyDeclarator(d, t)
			}
		case *ast.FunctionDeclaration:
			t.registerFunction(node.Name, node.Params, node.Body)
		case *ast.CallExpression:
			if mem, ok := node.Callee.(*ast.MemberExpression); ok && !mem.Computed {
				if prop, ok := mem.Property.(*ast.Identifier); ok && listMethods[prop.Name] {
					if obj, ok := mem.Object.(*ast.Identifier); ok {
						t.Lists.Add(obj.Name)
					}
				}
			}
		}
		return true
	})
}

func passB(program *ast.Program, t *Table) {
	ast.Inspect(program, func(n ast.Node) bool {
		if assign, ok := n.(*ast.AssignmentExpression); ok {
			if ident, ok := assign.Target.(*ast.Identifier); ok {
				t.Variables.Add(ident.Name)
			}
		}
		return true
	})
}

func passC(t *Table) {
	for _, name := range t.FunctionOrder {
		def := t.FunctionDefinitions[name]
		if bodyCallsSelf(def.Body, name) {
			t.RecursiveFunctions.Add(name)
		}
	}

	for name := range t.FunctionDefinitions {
		t.Variables.Delete(name)
		for _, p := range t.FunctionDefinitions[name].Params {
			t.Variables.Delete(p)
		}
	}
}

func bodyCallsSelf(body ast.Node, name string) bool {
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		if found {
			return false
		}
		if call, ok := n.(*ast.CallExpression); ok {
			if ident, ok := call.Callee.(*ast.Identifier); ok && ident.Name == name {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func (t *Table) registerFunction(name string, params []string, body ast.Node) {
	if _, exists := t.FunctionDefinitions[name]; !exists {
		t.FunctionOrder = append(t.FunctionOrder, name)
	}
	t.FunctionDefinitions[name] = &FunctionDef{Params: params, Body: body}
}

func classifyDeclarator(d ast.VariableDeclarator, t *Table) {
	switch init := d.Init.(type) {
	case *ast.ArrowFunctionExpression:
		t.registerFunction(d.Name, init.Params, init.Body)

	case *ast.FunctionExpression:
		t.registerFunction(d.Name, init.Params, init.Body)

	case *ast.ArrayLiteral:
		t.Lists.Add(d.Name)
		values := make([]string, len(init.Elements))
		for i, el := range init.Elements {
			values[i] = stringifyLiteral(el)
		}
		t.ListInitialValues[d.Name] = values

	case *ast.ObjectLiteral:
		var props []string
		for _, p := range init.Properties {
			flat := d.Name + "_" + p.Key
			t.Variables.Add(flat)
			t.ObjectPropertyValues[flat] = numericValue(p.Value)
			props = append(props, p.Key)
		}
		t.ObjectMappings[d.Name] = props

	default:
		t.Variables.Add(d.Name)
	}
}

// stringifyLiteral renders a literal expression's value as a string, or ""
// for anything that isn't a literal (§4.4 Pass A: list_initial_values).
func stringifyLiteral(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return e.Raw
	case *ast.StringLiteral:
		return e.Value
	case *ast.BooleanLiteral:
		if e.Value {
			return "true"
		}
		return "false"
	case *ast.NullLiteral:
		return "null"
	default:
		return ""
	}
}

// numericValue extracts a property initializer's literal numeric value, or
// 0 if it isn't a number literal (§4.4 Pass A: object property values).
func numericValue(expr ast.Expression) float64 {
	if n, ok := expr.(*ast.NumberLiteral); ok {
		return n.Value
	}
	return 0
}
