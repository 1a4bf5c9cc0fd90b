package symbols_test

import (
	"testing"

	"github.com/kestrel-lang/js2sb3/internal/jsparser"
	"github.com/kestrel-lang/js2sb3/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, src string) *symbols.Table {
	t.Helper()
	program, err := jsparser.Parse(src, "test.js")
	require.NoError(t, err)
	return symbols.Analyze(program)
}

func TestAnalyze_PlainVariable(t *testing.T) {
	table := analyze(t, `let score = 0;`)

	assert.True(t, table.Variables.Has("score"))
	assert.False(t, table.IsList("score"))
	assert.False(t, table.IsFunction("score"))
}

func TestAnalyze_ArrayLiteralBecomesList(t *testing.T) {
	table := analyze(t, `let scores = [1, 2, "three"];`)

	assert.True(t, table.IsList("scores"))
	assert.False(t, table.Variables.Has("scores"))
	assert.Equal(t, []string{"1", "2", "three"}, table.ListInitialValues["scores"])
}

func TestAnalyze_PushPromotesUndeclaredListReceiver(t *testing.T) {
	table := analyze(t, `
		let inventory;
		inventory.push(3);
	`)

	assert.True(t, table.IsList("inventory"))
}

func TestAnalyze_ObjectLiteralFlattensToProperties(t *testing.T) {
	table := analyze(t, `let player = { x: 10, y: 20, name: "hero" };`)

	assert.False(t, table.Variables.Has("player"))
	assert.True(t, table.Variables.Has("player_x"))
	assert.True(t, table.Variables.Has("player_y"))
	assert.True(t, table.Variables.Has("player_name"))
	assert.Equal(t, 10.0, table.ObjectPropertyValues["player_x"])
	assert.Equal(t, 20.0, table.ObjectPropertyValues["player_y"])
	assert.Equal(t, 0.0, table.ObjectPropertyValues["player_name"])

	props, ok := table.ObjectProperties("player")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "name"}, props)
}

func TestAnalyze_NonRecursiveFunctionIsInlinable(t *testing.T) {
	table := analyze(t, `
		function double(n) { return n * 2; }
		let result = double(21);
	`)

	assert.True(t, table.IsFunction("double"))
	assert.False(t, table.IsRecursive("double"))
	assert.False(t, table.Variables.Has("double"))
	assert.False(t, table.Variables.Has("n"))
}

func TestAnalyze_SelfCallingFunctionIsRecursive(t *testing.T) {
	table := analyze(t, `
		function factorial(n) {
			if (n <= 1) { return 1; }
			return n * factorial(n - 1);
		}
	`)

	assert.True(t, table.IsFunction("factorial"))
	assert.True(t, table.IsRecursive("factorial"))
}

func TestAnalyze_ArrowFunctionRegistersLikeFunctionDeclaration(t *testing.T) {
	table := analyze(t, `const square = (n) => n * n;`)

	assert.True(t, table.IsFunction("square"))
	assert.False(t, table.IsRecursive("square"))
}

func TestAnalyze_AssignmentTargetBecomesVariable(t *testing.T) {
	table := analyze(t, `
		let total;
		total = 5;
	`)

	assert.True(t, table.Variables.Has("total"))
}

func TestAnalyze_PassCStripsFunctionNameAndParamsFromVariables(t *testing.T) {
	table := analyze(t, `
		function add(a, b) {
			return a + b;
		}
	`)

	assert.False(t, table.Variables.Has("add"))
	assert.False(t, table.Variables.Has("a"))
	assert.False(t, table.Variables.Has("b"))
}
