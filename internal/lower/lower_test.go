package lower_test

import (
	"encoding/json"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/kestrel-lang/js2sb3/internal/jsparser"
	"github.com/kestrel-lang/js2sb3/internal/lower"
	"github.com/kestrel-lang/js2sb3/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func lowerSource(t *testing.T, src string) (*lower.Store, string) {
	t.Helper()
	program, err := jsparser.Parse(src, "test.js")
	require.NoError(t, err)
	table := symbols.Analyze(program)
	store, root := lower.Lower(program, table)
	require.NoError(t, lower.Validate(store, root))
	return store, root
}

func TestLower_EmptyProgramChainsRootDirectlyToStop(t *testing.T) {
	store, root := lowerSource(t, ``)

	rootBlock := store.Blocks[root]
	assert.True(t, rootBlock.TopLevel)
	assert.Equal(t, "event_whenflagclicked", rootBlock.Opcode)
	require.NotNil(t, rootBlock.Next)

	stop := store.Blocks[*rootBlock.Next]
	assert.Equal(t, "control_stop", stop.Opcode)
	assert.Equal(t, root, *stop.Parent)
}

func TestLower_VariableDeclarationChainsBeforeStop(t *testing.T) {
	store, root := lowerSource(t, `let x = 1 + 2;`)

	rootBlock := store.Blocks[root]
	require.NotNil(t, rootBlock.Next)
	setVar := store.Blocks[*rootBlock.Next]
	assert.Equal(t, "data_setvariableto", setVar.Opcode)
	assert.Equal(t, root, *setVar.Parent)

	addInput := setVar.Inputs["VALUE"]
	require.Len(t, addInput, 2)
	addID, ok := addInput[1].(string)
	require.True(t, ok)
	addBlock := store.Blocks[addID]
	assert.Equal(t, "operator_add", addBlock.Opcode)

	require.NotNil(t, setVar.Next)
	stop := store.Blocks[*setVar.Next]
	assert.Equal(t, "control_stop", stop.Opcode)
}

func TestLower_IfStatementDropsElseBranch(t *testing.T) {
	store, root := lowerSource(t, `
		let x = 0;
		if (x < 10) {
			x = 1;
		} else {
			x = 2;
		}
	`)

	rootBlock := store.Blocks[root]
	ifBlock := store.Blocks[*rootBlock.Next]
	// The first statement is "let x = 0", the if comes next.
	require.NotNil(t, ifBlock.Next)
	ifBlock = store.Blocks[*ifBlock.Next]
	assert.Equal(t, "control_if", ifBlock.Opcode)

	sub, hasSubstack := ifBlock.Inputs["SUBSTACK"]
	require.True(t, hasSubstack)
	subID, ok := sub[1].(string)
	require.True(t, ok)
	consequent := store.Blocks[subID]
	assert.Equal(t, "data_setvariableto", consequent.Opcode)

	// The else branch (x = 2) must not appear anywhere in the store: every
	// data_setvariableto block sets "x", and none of them is reachable
	// beyond the single consequent block found above.
	assert.Nil(t, consequent.Next)
}

func TestLower_SimpleForLoopBecomesControlRepeat(t *testing.T) {
	store, root := lowerSource(t, `
		for (let i = 0; i < 5; i++) {
			scratch_say(i);
		}
	`)

	rootBlock := store.Blocks[root]
	initVar := store.Blocks[*rootBlock.Next]
	assert.Equal(t, "data_setvariableto", initVar.Opcode)
	assert.Equal(t, "i", initVar.Fields["VARIABLE"][0])

	require.NotNil(t, initVar.Next)
	repeat := store.Blocks[*initVar.Next]
	assert.Equal(t, "control_repeat", repeat.Opcode)

	times, ok := repeat.Inputs["TIMES"]
	require.True(t, ok)
	timesID, ok := times[1].(string)
	require.True(t, ok)
	subtract := store.Blocks[timesID]
	assert.Equal(t, "operator_subtract", subtract.Opcode)

	sub, hasSubstack := repeat.Inputs["SUBSTACK"]
	require.True(t, hasSubstack)
	subID := sub[1].(string)
	say := store.Blocks[subID]
	assert.Equal(t, "looks_say", say.Opcode)
}

func TestLower_GeneralForLoopNegatesTestViaDualOperator(t *testing.T) {
	store, root := lowerSource(t, `
		let i = 0;
		for (; i != 10; i = i + 2) {
			scratch_say(i);
		}
	`)

	rootBlock := store.Blocks[root]
	initVar := store.Blocks[*rootBlock.Next]
	require.NotNil(t, initVar.Next)
	repeatUntil := store.Blocks[*initVar.Next]
	assert.Equal(t, "control_repeat_until", repeatUntil.Opcode)

	cond, ok := repeatUntil.Inputs["CONDITION"]
	require.True(t, ok)
	condID := cond[1].(string)
	// "!=" negates to "==" via dualOperator, not a second operator_not wrap.
	assert.Equal(t, "operator_equals", store.Blocks[condID].Opcode)
}

func TestLower_GeneralForLoopLowersBareDecrementUpdate(t *testing.T) {
	store, root := lowerSource(t, `
		for (let i = 5; i > 0; i--) {
			scratch_say(i);
		}
	`)

	rootBlock := store.Blocks[root]
	initVar := store.Blocks[*rootBlock.Next]
	assert.Equal(t, "data_setvariableto", initVar.Opcode)
	require.NotNil(t, initVar.Next)

	repeatUntil := store.Blocks[*initVar.Next]
	assert.Equal(t, "control_repeat_until", repeatUntil.Opcode)

	sub, hasSubstack := repeatUntil.Inputs["SUBSTACK"]
	require.True(t, hasSubstack)
	subID := sub[1].(string)
	say := store.Blocks[subID]
	assert.Equal(t, "looks_say", say.Opcode)

	require.NotNil(t, say.Next)
	decrement := store.Blocks[*say.Next]
	assert.Equal(t, "data_setvariableto", decrement.Opcode)
	assert.Equal(t, "i", decrement.Fields["VARIABLE"][0])

	value := decrement.Inputs["VALUE"]
	subID2 := value[1].(string)
	subtract := store.Blocks[subID2]
	assert.Equal(t, "operator_subtract", subtract.Opcode)
}

func TestLower_UnbracedIfBodySetsParent(t *testing.T) {
	store, root := lowerSource(t, `
		let x = 0;
		if (x < 10) x = 1;
	`)

	rootBlock := store.Blocks[root]
	setVar := store.Blocks[*rootBlock.Next]
	assert.Equal(t, "data_setvariableto", setVar.Opcode)

	require.NotNil(t, setVar.Next)
	ifID := *setVar.Next
	ifBlock := store.Blocks[ifID]
	assert.Equal(t, "control_if", ifBlock.Opcode)

	sub, hasSubstack := ifBlock.Inputs["SUBSTACK"]
	require.True(t, hasSubstack)
	subID := sub[1].(string)
	consequent := store.Blocks[subID]
	assert.Equal(t, "data_setvariableto", consequent.Opcode)
	require.NotNil(t, consequent.Parent)
	assert.Equal(t, ifID, *consequent.Parent)
}

func TestLower_UnbracedWhileBodySetsParent(t *testing.T) {
	store, root := lowerSource(t, `
		let running = true;
		while (running) running = false;
	`)

	rootBlock := store.Blocks[root]
	setVar := store.Blocks[*rootBlock.Next]
	assert.Equal(t, "data_setvariableto", setVar.Opcode)

	require.NotNil(t, setVar.Next)
	repeatID := *setVar.Next
	repeatUntil := store.Blocks[repeatID]
	assert.Equal(t, "control_repeat_until", repeatUntil.Opcode)

	sub, hasSubstack := repeatUntil.Inputs["SUBSTACK"]
	require.True(t, hasSubstack)
	subID := sub[1].(string)
	body := store.Blocks[subID]
	assert.Equal(t, "data_setvariableto", body.Opcode)
	require.NotNil(t, body.Parent)
	assert.Equal(t, repeatID, *body.Parent)
}

func TestLower_WhileLoopWrapsNonComparisonInOperatorNot(t *testing.T) {
	store, root := lowerSource(t, `
		let running = true;
		while (running) {
			running = false;
		}
	`)

	rootBlock := store.Blocks[root]
	initVar := store.Blocks[*rootBlock.Next]
	require.NotNil(t, initVar.Next)
	repeatUntil := store.Blocks[*initVar.Next]
	assert.Equal(t, "control_repeat_until", repeatUntil.Opcode)

	cond, ok := repeatUntil.Inputs["CONDITION"]
	require.True(t, ok)
	condID := cond[1].(string)
	assert.Equal(t, "operator_not", store.Blocks[condID].Opcode)
}

func TestLower_RecursiveFunctionBecomesProcedureDefinitionAndCall(t *testing.T) {
	store, root := lowerSource(t, `
		function factorial(n) {
			if (n <= 1) { return 1; }
			return n * factorial(n - 1);
		}
		let result = factorial(5);
	`)

	var procDef *lower.Block
	for _, b := range store.Blocks {
		if b.Opcode == "procedures_definition" {
			procDef = b
		}
	}
	require.NotNil(t, procDef)
	assert.False(t, procDef.TopLevel)
	assert.Nil(t, procDef.Parent)
	assert.Equal(t, "factorial", procDef.Mutation.ProcCode)

	rootBlock := store.Blocks[root]
	setResult := store.Blocks[*rootBlock.Next]
	assert.Equal(t, "data_setvariableto", setResult.Opcode)
	value := setResult.Inputs["VALUE"]
	callID := value[1].(string)
	call := store.Blocks[callID]
	assert.Equal(t, "procedures_call", call.Opcode)
	assert.Equal(t, "factorial", call.Mutation.ProcCode)
}

func TestLower_NonRecursiveFunctionIsInlinedAtCallSite(t *testing.T) {
	store, root := lowerSource(t, `
		function double(n) { return n * 2; }
		let result = double(21);
	`)

	for _, b := range store.Blocks {
		assert.NotEqual(t, "procedures_definition", b.Opcode)
		assert.NotEqual(t, "procedures_call", b.Opcode)
	}

	rootBlock := store.Blocks[root]
	setResult := store.Blocks[*rootBlock.Next]
	value := setResult.Inputs["VALUE"]
	multID := value[1].(string)
	mult := store.Blocks[multID]
	assert.Equal(t, "operator_multiply", mult.Opcode)
}

func TestLower_ArrayPushEmitsAddToList(t *testing.T) {
	store, root := lowerSource(t, `
		let items = [];
		items.push(7);
	`)

	rootBlock := store.Blocks[root]
	require.NotNil(t, rootBlock.Next)
	add := store.Blocks[*rootBlock.Next]
	assert.Equal(t, "data_addtolist", add.Opcode)
	assert.Equal(t, "items", add.Fields["LIST"][0])
}

func TestLower_ExactlyOneTopLevelBlock(t *testing.T) {
	store, _ := lowerSource(t, `
		function factorial(n) {
			if (n <= 1) { return 1; }
			return n * factorial(n - 1);
		}
		let x = 0;
		for (let i = 0; i < 3; i++) {
			x = x + factorial(i);
		}
	`)

	count := 0
	for _, b := range store.Blocks {
		if b.TopLevel {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

// TestLower_ObjectMappingSnapshot pins the full block store for a small but
// representative program (flattened object property, list, simple for loop)
// against a golden snapshot, exercising every input/field encoding at once.
func TestLower_ObjectMappingSnapshot(t *testing.T) {
	store, _ := lowerSource(t, `
		let player = { x: 0, y: 0 };
		let trail = [];
		for (let i = 0; i < 3; i++) {
			player.x = player.x + 1;
			trail.push(player.x);
		}
	`)

	raw, err := json.MarshalIndent(store.Blocks, "", "  ")
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(raw))

	topLevelCount := 0
	gjson.ParseBytes(raw).ForEach(func(_, block gjson.Result) bool {
		if block.Get("top_level").Bool() {
			topLevelCount++
		}
		return true
	})
	assert.Equal(t, 1, topLevelCount)

	snaps.MatchJSON(t, raw)
}
