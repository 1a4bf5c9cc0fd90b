package lower

import (
	"encoding/json"

	"github.com/kestrel-lang/js2sb3/internal/ast"
	"github.com/kestrel-lang/js2sb3/internal/symbols"
)

// scopeFrame records a non-recursive call's parameter substitutions, plus
// the scope stack that was active when the call itself was being lowered —
// so an argument expression referencing an outer inlining's parameter is
// encoded in ITS scope, not the callee's (capture-free substitution, per
// the design notes on β-reduction).
type scopeFrame struct {
	args   map[string]ast.Expression
	parent []scopeFrame
}

// Lowerer holds the mutable state of one lowering pass: the block store,
// the id counter it owns, the symbol table it consumes, and the current
// inlining scope stack.
type Lowerer struct {
	store  *Store
	table  *symbols.Table
	scopes []scopeFrame
}

// Lower runs block lowering (§4.5) over program using the symbol table
// already computed for it, and returns the resulting store together with
// the id of the event-root block.
func Lower(program *ast.Program, table *symbols.Table) (*Store, string) {
	l := &Lowerer{store: newStore(), table: table}

	root := l.store.alloc("event_whenflagclicked")
	l.store.Blocks[root].TopLevel = true

	firstChild, lastChild := l.lowerStatements(program.Body, root)

	stop := l.store.alloc("control_stop")
	l.store.Blocks[stop].Fields["STOP_OPTION"] = Field{"all", nil}
	stopMut := newMutation()
	stopMut.HasNext = "false"
	l.store.Blocks[stop].Mutation = stopMut

	if firstChild == "" {
		l.store.Blocks[root].Next = strPtr(stop)
		l.store.Blocks[stop].Parent = strPtr(root)
	} else {
		l.store.Blocks[root].Next = strPtr(firstChild)
		l.link(lastChild, stop)
	}

	return l.store, root
}

// link chains b2 after b1 (both already in the store), setting
// b1.next = b2 and b2.parent = b1.
func (l *Lowerer) link(b1, b2 string) {
	l.store.Blocks[b1].Next = strPtr(b2)
	l.store.Blocks[b2].Parent = strPtr(b1)
}

func argumentIDsJSON(params []string) string {
	if params == nil {
		params = []string{}
	}
	b, _ := json.Marshal(params)
	return string(b)
}
