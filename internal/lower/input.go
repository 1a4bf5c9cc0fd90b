package lower

// literalNum builds a numeric-shadow literal input: [1, [4, v]].
func literalNum(v string) Input {
	return Input{1, []interface{}{4, v}}
}

// literalText builds a string-shadow literal input: [1, [10, v]].
func literalText(v string) Input {
	return Input{1, []interface{}{10, v}}
}

// blockRef builds a bare block-reference input: [2, id].
func blockRef(id string) Input {
	return Input{2, id}
}

// varReporter builds a variable reporter tuple: [12, name, name].
func varReporter(name string) []interface{} {
	return []interface{}{12, name, name}
}

// varReporterWithShadow builds an identifier reference with an empty
// string shadow fallback: [3, [12, name, name], [10, ""]] — the generic
// encoding for a bare identifier expression (§4.5.2).
func varReporterWithShadow(name string) Input {
	return Input{3, varReporter(name), []interface{}{10, ""}}
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
