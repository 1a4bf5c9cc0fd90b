package diag_test

import (
	"errors"
	"testing"

	"github.com/kestrel-lang/js2sb3/internal/ast"
	"github.com/kestrel-lang/js2sb3/internal/diag"
	"github.com/stretchr/testify/assert"
)

func TestParseError_FormatsFileLineColumn(t *testing.T) {
	err := &diag.ParseError{
		Message: "expected identifier, found \";\"",
		Pos:     ast.Position{Line: 2, Column: 5},
		Source:  "let x = 1;\nlet ;\n",
		File:    "main.js",
	}

	msg := err.Error()
	assert.Contains(t, msg, "main.js:2:5")
	assert.Contains(t, msg, "let ;")
	assert.Contains(t, msg, "^")
	assert.Contains(t, msg, "expected identifier")
}

func TestFeatureError_PrefixesUnsupportedFeature(t *testing.T) {
	err := &diag.FeatureError{
		Name:   "console.log",
		Pos:    ast.Position{Line: 1, Column: 1},
		Source: `console.log("hi");`,
		File:   "",
	}

	assert.Contains(t, err.Error(), "unsupported feature: console.log")
	assert.Contains(t, err.Error(), "Error at 1:1")
}

func TestIOError_UnwrapsUnderlyingError(t *testing.T) {
	underlying := errors.New("permission denied")
	err := &diag.IOError{Op: "write", Path: "/out/project.sb3", Err: underlying}

	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "/out/project.sb3")
}

func TestFormat_OmitsSourceLineWhenPositionOutOfRange(t *testing.T) {
	msg := diag.Format("oops", ast.Position{Line: 50, Column: 1}, "only one line\n", "f.js", false)
	assert.NotContains(t, msg, "|")
	assert.Contains(t, msg, "oops")
}
