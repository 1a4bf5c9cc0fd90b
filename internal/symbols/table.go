// Package symbols implements the symbol analyzer (§4.4): a three-pass walk
// over the AST that classifies every declared name as a plain variable, a
// list, a flattened object property, an inlinable function, or a recursive
// procedure, and collects the initializers block lowering needs.
package symbols

import "github.com/kestrel-lang/js2sb3/internal/ast"

// FunctionDef is a registered function/arrow definition: its parameter names
// and its body (either *ast.BlockStatement, or a bare ast.Expression for a
// concise-body arrow function).
type FunctionDef struct {
	Params []string
	Body   ast.Node
}

// Table is the result of analyzing one program.
type Table struct {
	Variables *OrderedSet
	Lists     *OrderedSet

	// ListInitialValues holds, for each name in Lists, the stringified
	// literal element values in source order ("" for a non-literal element).
	ListInitialValues map[string][]string

	// ObjectMappings holds, for each flattened object name, its property
	// names in source order.
	ObjectMappings map[string][]string

	// ObjectPropertyValues holds the flattened "obj_prop" variable name to
	// its initial numeric value (0 if the property's initializer was not a
	// number literal).
	ObjectPropertyValues map[string]float64

	FunctionDefinitions map[string]*FunctionDef
	FunctionOrder       []string
	RecursiveFunctions  *OrderedSet
}

func newTable() *Table {
	return &Table{
		Variables:            NewOrderedSet(),
		Lists:                NewOrderedSet(),
		ListInitialValues:    map[string][]string{},
		ObjectMappings:       map[string][]string{},
		ObjectPropertyValues: map[string]float64{},
		FunctionDefinitions:  map[string]*FunctionDef{},
		RecursiveFunctions:   NewOrderedSet(),
	}
}

// IsFunction reports whether name was registered as a function/arrow
// definition.
func (t *Table) IsFunction(name string) bool {
	_, ok := t.FunctionDefinitions[name]
	return ok
}

// IsRecursive reports whether name is a self-recursive function (and so is
// lowered to a procedure rather than inlined).
func (t *Table) IsRecursive(name string) bool {
	return t.RecursiveFunctions.Has(name)
}

// IsList reports whether name was classified as a list.
func (t *Table) IsList(name string) bool {
	return t.Lists.Has(name)
}

// ObjectProperties reports the ordered property names of a flattened object
// mapping, and whether name is one.
func (t *Table) ObjectProperties(name string) ([]string, bool) {
	props, ok := t.ObjectMappings[name]
	return props, ok
}
