// Package frontend implements the external front-end assembly described in
// §6 "Input": concatenating multiple ".js" files, extracting inline
// <script> bodies from ".html" files, and reading root-level entries of a
// bundle archive, all joined into the single source string the core
// pipeline consumes.
package frontend

import (
	"archive/zip"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/kestrel-lang/js2sb3/internal/diag"
)

var scriptTagRe = regexp.MustCompile(`(?is)<script(\s[^>]*)?>(.*?)</script>`)

// scriptTypeRe extracts a script tag's type attribute, if any, from the
// tag's captured attribute text.
var scriptTypeRe = regexp.MustCompile(`(?i)type\s*=\s*["']([^"']*)["']`)

// isRunnableScriptType reports whether a <script> tag's type attribute (the
// empty string if absent) marks it as JavaScript rather than, say, a
// templating language or JSON payload.
func isRunnableScriptType(attrs string) bool {
	m := scriptTypeRe.FindStringSubmatch(attrs)
	if m == nil {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(m[1])) {
	case "", "text/javascript", "application/javascript", "module":
		return true
	default:
		return false
	}
}

// ExtractHTML pulls the bodies of every runnable <script> element out of an
// HTML document, in document order, joined by blank lines.
func ExtractHTML(html string) string {
	matches := scriptTagRe.FindAllStringSubmatch(html, -1)
	var parts []string
	for _, m := range matches {
		attrs, body := m[1], m[2]
		if isRunnableScriptType(attrs) {
			parts = append(parts, body)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ConcatFiles joins the contents of files (named -> source) in the order
// names is given, separated by blank lines. ".html" files are routed
// through ExtractHTML first; everything else is taken verbatim.
func ConcatFiles(names []string, contents map[string]string) string {
	var parts []string
	for _, name := range names {
		src := contents[name]
		if strings.HasSuffix(strings.ToLower(name), ".html") {
			src = ExtractHTML(src)
		}
		parts = append(parts, src)
	}
	return strings.Join(parts, "\n\n")
}

// ExtractBundle reads every root-level entry of a zip-format bundle archive
// (nested directories are ignored, per §6's "considered only at the root
// level") and concatenates them via ConcatFiles, sorted by entry name.
func ExtractBundle(r *zip.Reader) (string, error) {
	var names []string
	contents := map[string]string{}

	for _, f := range r.File {
		if strings.Contains(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", &diag.IOError{Op: "open-bundle-entry", Path: f.Name, Err: err}
		}
		data, err := io.ReadAll(rc)
		closeErr := rc.Close()
		if err != nil {
			return "", &diag.IOError{Op: "read-bundle-entry", Path: f.Name, Err: err}
		}
		if closeErr != nil {
			return "", &diag.IOError{Op: "close-bundle-entry", Path: f.Name, Err: closeErr}
		}
		names = append(names, f.Name)
		contents[f.Name] = string(data)
	}

	sort.Strings(names)
	return ConcatFiles(names, contents), nil
}
