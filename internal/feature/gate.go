// Package feature implements the feature gate (§4.2): a pre-order AST walk
// that rejects any use of a closed list of banned host/runtime constructs,
// reporting only the lexically-first violation.
package feature

import (
	"strings"

	"github.com/kestrel-lang/js2sb3/internal/ast"
	"github.com/kestrel-lang/js2sb3/internal/diag"
)

// banned lists exact dotted-prefix strings; a reference matches if its own
// dotted path starts with one of these (segment-wise, not naive substring).
var banned = []string{
	"window.location",
	"window.alert",
	"window.confirm",
	"window.prompt",
	"document.getElementById",
	"document.querySelector",
	"console.log",
	"localStorage",
	"sessionStorage",
	"fetch",
	"XMLHttpRequest",
	"setTimeout",
	"setInterval",
	"Promise",
}

var bannedSegments [][]string

func init() {
	for _, b := range banned {
		bannedSegments = append(bannedSegments, strings.Split(b, "."))
	}
}

// Check walks program and returns the first *diag.FeatureError found, or nil
// if the program uses none of the banned constructs. source and file are
// carried through purely for diagnostic formatting.
func Check(program *ast.Program, source, file string) error {
	var found error

	report := func(name string, pos ast.Position) {
		if found == nil {
			found = &diag.FeatureError{Name: name, Pos: pos, Source: source, File: file}
		}
	}

	var visit func(ast.Node) bool
	visit = func(n ast.Node) bool {
		if found != nil {
			return false
		}

		switch node := n.(type) {
		case *ast.MemberExpression:
			if path, ok := dottedPath(node); ok {
				if name, matched := matchBanned(path); matched {
					report(name, node.Pos())
					return false
				}
			}
			if !node.Computed {
				ast.Inspect(node.Object, visit)
				return false
			}
		case *ast.Identifier:
			if name, matched := matchBanned([]string{node.Name}); matched {
				report(name, node.Pos())
				return false
			}
		case *ast.FunctionDeclaration:
			if node.Async {
				report("async", node.Pos())
				return false
			}
		case *ast.FunctionExpression:
			if node.Async {
				report("async", node.Pos())
				return false
			}
		case *ast.ArrowFunctionExpression:
			if node.Async {
				report("async", node.Pos())
				return false
			}
		case *ast.AwaitExpression:
			report("await", node.Pos())
			return false
		}
		return true
	}
	ast.Inspect(program, visit)

	return found
}

// dottedPath reconstructs the `a.b.c` segment chain of a non-computed
// member-expression access. Computed access (obj[expr]) or a non-identifier
// base yields ok=false: the feature gate only matches statically-dotted
// references, per §4.2.
func dottedPath(expr ast.Expression) ([]string, bool) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return []string{e.Name}, true
	case *ast.MemberExpression:
		if e.Computed {
			return nil, false
		}
		prop, ok := e.Property.(*ast.Identifier)
		if !ok {
			return nil, false
		}
		base, ok := dottedPath(e.Object)
		if !ok {
			return nil, false
		}
		return append(base, prop.Name), true
	default:
		return nil, false
	}
}

func matchBanned(path []string) (string, bool) {
	for _, seg := range bannedSegments {
		if len(path) < len(seg) {
			continue
		}
		match := true
		for i, s := range seg {
			if path[i] != s {
				match = false
				break
			}
		}
		if match {
			return strings.Join(seg, "."), true
		}
	}
	return "", false
}
