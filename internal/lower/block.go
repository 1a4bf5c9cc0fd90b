// Package lower implements block lowering (§4.5): the recursive descent from
// the program root that turns the standardized AST into a block store — a
// directed graph of block records wired by parent/next/substack edges,
// keyed by a monotonic opaque id.
package lower

import "strconv"

// Input is a tagged-array input encoding (§3): one of
//   [1, payload]          literal shadow
//   [2, operand]          block reference
//   [3, operand, shadow]  block reference with a shadow fallback
// Elements are left as interface{} so encoding/json renders each tagged
// array exactly as the target environment expects, without an intermediate
// struct shape.
type Input []interface{}

// Field is a two-element [value, variable_id_or_null] tuple.
type Field [2]interface{}

// Mutation carries procedure metadata. Children is always present (real
// project manifests always carry it, even when empty) but the remaining
// fields are populated only by the block kinds that use them.
type Mutation struct {
	TagName     string `json:"tagName"`
	ProcCode    string `json:"proccode,omitempty"`
	ArgumentIDs string `json:"argumentids,omitempty"`
	Warp        string `json:"warp,omitempty"`
	HasNext     string `json:"hasnext,omitempty"`
	Children    []any  `json:"children"`
}

func newMutation() *Mutation {
	return &Mutation{TagName: "mutation", Children: []any{}}
}

// Block is one node of the target environment's script graph (§3).
type Block struct {
	Opcode   string           `json:"opcode"`
	Next     *string          `json:"next"`
	Parent   *string          `json:"parent"`
	Inputs   map[string]Input `json:"inputs"`
	Fields   map[string]Field `json:"fields"`
	Shadow   bool             `json:"shadow"`
	TopLevel bool             `json:"top_level"`
	Mutation *Mutation        `json:"mutation,omitempty"`
}

func newBlock(opcode string) *Block {
	return &Block{
		Opcode: opcode,
		Inputs: map[string]Input{},
		Fields: map[string]Field{},
	}
}

// Store is the block map produced by one lowering pass, keyed by opaque
// monotonic id.
type Store struct {
	Blocks map[string]*Block
	next   int
}

func newStore() *Store {
	return &Store{Blocks: map[string]*Block{}}
}

// alloc mints a fresh block of the given opcode, registers it in the store,
// and returns its id.
func (s *Store) alloc(opcode string) string {
	s.next++
	id := strconv.Itoa(s.next)
	s.Blocks[id] = newBlock(opcode)
	return id
}

func strPtr(s string) *string { return &s }
