// Package diag implements the compiler's error taxonomy (§7): ParseError,
// FeatureError (the spec's UnsupportedFeature), and IOError, plus the
// source-context formatting shared by all three. It follows the teacher's
// internal/errors package: a caret-annotated rendering of the offending
// source line, with ANSI color gated behind a bool so the CLI can decide
// based on whether stderr is a terminal.
package diag

import (
	"fmt"
	"strings"

	"github.com/kestrel-lang/js2sb3/internal/ast"
)

// ParseError reports that the input is not valid syntax for the accepted
// subset. Propagated to the caller; no partial output is produced (§7).
type ParseError struct {
	Message string
	Pos     ast.Position
	Source  string
	File    string
}

func (e *ParseError) Error() string { return Format(e.Message, e.Pos, e.Source, e.File, false) }

// FeatureError reports use of a banned construct (§4.2's UnsupportedFeature).
// Only the lexically-first violation is ever reported.
type FeatureError struct {
	Name    string
	Pos     ast.Position
	Source  string
	File    string
}

func (e *FeatureError) Error() string {
	msg := fmt.Sprintf("unsupported feature: %s", e.Name)
	return Format(msg, e.Pos, e.Source, e.File, false)
}

// IOError wraps a failure reading input, writing the archive, or cleaning
// temporaries. Any partially written artifact must be unlinked by the
// caller before this error is returned up the stack.
type IOError struct {
	Op      string
	Path    string
	Err     error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Format renders message with a "File:Line:Col" header, the offending
// source line, and a caret under the column. color enables ANSI styling.
func Format(message string, pos ast.Position, source, file string, color bool) string {
	var sb strings.Builder

	if file != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", file, pos.Line, pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at %d:%d\n", pos.Line, pos.Column)
	}

	if line := sourceLine(source, pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
