// Package executor implements the command-execution pipeline: template
// expansion shared by both the per-result (--exec) and batched
// (--exec-batch) modes, a bounded per-result worker pool grounded on the
// pack's channel-plus-errgroup worker pattern, and batched argv chunking.
package executor

import (
	"path/filepath"
	"strings"
)

// Template is a parsed --exec/--exec-batch command line: a list of argv
// tokens, each either literal text or a placeholder to substitute per
// entry. Parsing and substitution are kept as pure functions over
// (template, path) so both exec modes share one tested code path
// (Design Note §9).
type Template struct {
	Tokens      []string
	HasPlaceholder bool
}

const placeholders = "{} {.} {/} {//} {/.}"

// ParseTemplate splits argv into a Template, stopping at a bare ";" token
// (historical compatibility: arguments after ";" are not part of the
// template; they are returned separately as trailing).
func ParseTemplate(argv []string) (tmpl Template, trailing []string) {
	for i, tok := range argv {
		if tok == ";" {
			trailing = argv[i+1:]
			break
		}
		tmpl.Tokens = append(tmpl.Tokens, tok)
		if containsPlaceholder(tok) {
			tmpl.HasPlaceholder = true
		}
	}
	return tmpl, trailing
}

func containsPlaceholder(tok string) bool {
	for _, p := range strings.Fields(placeholders) {
		if strings.Contains(tok, p) {
			return true
		}
	}
	return false
}

// Expand substitutes every placeholder in tmpl against path, returning
// the resulting argv. If tmpl has no placeholder, an implicit "{}" is
// appended.
func Expand(tmpl Template, path string) []string {
	if !tmpl.HasPlaceholder {
		return append(append([]string{}, tmpl.Tokens...), path)
	}
	out := make([]string, len(tmpl.Tokens))
	for i, tok := range tmpl.Tokens {
		out[i] = substitute(tok, path)
	}
	return out
}

// ExpandBatch substitutes every placeholder in tmpl once, then appends
// all of paths at the position an implicit "{}" would occupy. If tmpl
// has a placeholder, it is substituted
// against the first path only — batched templates are expected to use
// the implicit-placeholder form; an explicit placeholder in a batch
// template applies just to the first entry, mirroring the reference
// tool's behavior of substituting once and appending the rest.
func ExpandBatch(tmpl Template, paths []string) []string {
	if !tmpl.HasPlaceholder {
		out := make([]string, 0, len(tmpl.Tokens)+len(paths))
		out = append(out, tmpl.Tokens...)
		out = append(out, paths...)
		return out
	}
	if len(paths) == 0 {
		return append([]string{}, tmpl.Tokens...)
	}
	out := make([]string, len(tmpl.Tokens))
	for i, tok := range tmpl.Tokens {
		out[i] = substitute(tok, paths[0])
	}
	return append(out, paths[1:]...)
}

// substitute replaces the fd placeholder family within a single argv
// token: {} full path, {.} path minus final extension, {/} basename,
// {//} parent directory, {/.} basename minus extension.
func substitute(tok, path string) string {
	r := strings.NewReplacer(
		"{/.}", stripExt(filepath.Base(path)),
		"{//}", filepath.Dir(path),
		"{/}", filepath.Base(path),
		"{.}", stripExt(path),
		"{}", path,
	)
	return r.Replace(tok)
}

func stripExt(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return path
	}
	return strings.TrimSuffix(path, ext)
}
