package lower

import "fmt"

// Validate checks the invariants listed in §8 against store: exactly one
// top_level block (the event root), every parent/next/input-block
// reference resolves, and following next links never forms a cycle.
// There is no third-party graph library retrievable anywhere in the
// example pack with real source to ground against (see DESIGN.md), so
// acyclicity is checked with a small hand-rolled DFS instead.
func Validate(store *Store, root string) error {
	topLevelCount := 0
	for id, b := range store.Blocks {
		if b.TopLevel {
			topLevelCount++
			if b.Opcode != "event_whenflagclicked" {
				return fmt.Errorf("top_level block %s has opcode %q, want event_whenflagclicked", id, b.Opcode)
			}
			if b.Parent != nil {
				return fmt.Errorf("top_level block %s has non-null parent", id)
			}
		}
		if b.Next != nil {
			if _, ok := store.Blocks[*b.Next]; !ok {
				return fmt.Errorf("block %s: next %q does not exist", id, *b.Next)
			}
		}
		if b.Parent != nil {
			if _, ok := store.Blocks[*b.Parent]; !ok {
				return fmt.Errorf("block %s: parent %q does not exist", id, *b.Parent)
			}
		}
		for slot, input := range b.Inputs {
			if err := validateInputRefs(store, id, slot, input); err != nil {
				return err
			}
		}
	}
	if topLevelCount != 1 {
		return fmt.Errorf("expected exactly one top_level block, found %d", topLevelCount)
	}

	return checkAcyclic(store)
}

func validateInputRefs(store *Store, owner, slot string, input Input) error {
	if len(input) < 2 {
		return nil
	}
	tag, ok := input[0].(int)
	if !ok {
		return nil
	}
	switch tag {
	case 2, 3:
		if id, ok := input[1].(string); ok {
			if _, exists := store.Blocks[id]; !exists {
				return fmt.Errorf("block %s input %s references missing block %q", owner, slot, id)
			}
		}
	}
	return nil
}

// checkAcyclic follows next links from every block, rejecting a cycle via
// a simple visited-on-this-path DFS. Parent links are not walked.
func checkAcyclic(store *Store) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(store.Blocks))

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("cycle detected at block %s", id)
		}
		state[id] = visiting
		b := store.Blocks[id]
		if b.Next != nil {
			if err := visit(*b.Next); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for id := range store.Blocks {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}
