package walker

import (
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFiles configures which on-disk ignore file names are consulted at
// each directory and whether a .git marker is required before the VCS
// chain participates.
type IgnoreFiles struct {
	VCSIgnore    bool // honor .gitignore
	CustomIgnore bool // honor .ignore and .fdignore
	RequireGit   bool // only apply the VCS chain once a .git marker has been seen
	IgnoreParent bool // also consult ignore files in directories above the search root
}

// ignoreLayer is one directory's worth of ignore rules, combined into a
// single matcher: one *GitIgnore per directory, merging whichever ignore
// file names are in play into one layer instead of one file per layer,
// per Design Note §9 ("avoid an inheritance
// graph of ignore matchers; build an immutable stack per descent path").
type ignoreLayer struct {
	dir    string
	parser *ignore.GitIgnore
}

// ignoreStack is a push/pop view over ignoreLayer used by tests and by
// single-threaded callers; the concurrent walker instead clones a slice of
// layers per descent (see walkItem.ignores) so workers never share mutable
// stack state.
type ignoreStack struct {
	layers []ignoreLayer
	cfg    IgnoreFiles
	git    bool
}

func newIgnoreStack() *ignoreStack {
	return &ignoreStack{cfg: IgnoreFiles{VCSIgnore: true, CustomIgnore: true}}
}

func (s *ignoreStack) push(dir string) {
	if hasGitMarker(dir) {
		s.git = true
	}
	s.layers = append(s.layers, loadIgnoreLayer(dir, s.cfg, s.git))
}

func (s *ignoreStack) pop() {
	if len(s.layers) > 0 {
		s.layers = s.layers[:len(s.layers)-1]
	}
}

func (s *ignoreStack) isIgnored(fullPath string, isDir bool) bool {
	return isIgnoredByLayers(s.layers, fullPath, isDir)
}

// loadIgnoreLayer reads every applicable ignore file in dir and compiles
// them into one layer. A directory with nothing to ignore gets a layer
// with a nil parser so the stack depth always matches descent depth.
func loadIgnoreLayer(dir string, cfg IgnoreFiles, gitSeen bool) ignoreLayer {
	var lines []string
	if cfg.VCSIgnore && (gitSeen || !cfg.RequireGit) {
		lines = append(lines, readLines(filepath.Join(dir, ".gitignore"))...)
	}
	if cfg.CustomIgnore {
		lines = append(lines, readLines(filepath.Join(dir, ".ignore"))...)
		lines = append(lines, readLines(filepath.Join(dir, ".fdignore"))...)
	}
	if len(lines) == 0 {
		return ignoreLayer{dir: dir}
	}
	return ignoreLayer{dir: dir, parser: ignore.CompileIgnoreLines(lines...)}
}

// loadParentLayers walks from root's parent directory upward, collecting
// one ignoreLayer per ancestor (outermost first), so ignore rules declared
// above the search root still apply unless --no-ignore-parent suppresses
// this. The walk stops as soon as it passes a directory containing a .git
// marker: that directory is the enclosing repository's root, and ignore
// files further out belong to whatever contains that repository, not to
// it — otherwise an unrelated ~/.ignore would silently apply to every
// search run from anywhere under the user's home directory. With
// VCSIgnore disabled there is no repository boundary to respect, so the
// walk runs all the way to the filesystem root. root is resolved to an
// absolute path first since the walk only makes sense against one.
func loadParentLayers(root string, cfg IgnoreFiles) (layers []ignoreLayer, gitSeen bool) {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	var ancestors []string
	dir := filepath.Dir(abs)
	for {
		ancestors = append(ancestors, dir)
		if cfg.VCSIgnore && hasGitMarker(dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	for i := len(ancestors) - 1; i >= 0; i-- {
		p := ancestors[i]
		if cfg.VCSIgnore && hasGitMarker(p) {
			gitSeen = true
		}
		layers = append(layers, loadIgnoreLayer(p, cfg, gitSeen))
	}
	return layers, gitSeen
}

// loadGlobalLayer compiles the user's --ignore-file list and the global
// ignore file (if enabled) into one layer anchored at root, applied at
// every directory under root regardless of descent depth.
func loadGlobalLayer(root, globalIgnoreFile string, extra []string, useGlobal bool) ignoreLayer {
	var lines []string
	if useGlobal && globalIgnoreFile != "" {
		lines = append(lines, readLines(globalIgnoreFile)...)
	}
	for _, f := range extra {
		lines = append(lines, readLines(f)...)
	}
	if len(lines) == 0 {
		return ignoreLayer{dir: root}
	}
	return ignoreLayer{dir: root, parser: ignore.CompileIgnoreLines(lines...)}
}

func readLines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, string(data[start:i]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}

// hasGitMarker reports whether dir directly contains a .git entry (file or
// directory), the signal that enables the VCS-ignore chain under
// --require-git.
func hasGitMarker(dir string) bool {
	_, err := os.Lstat(filepath.Join(dir, ".git"))
	return err == nil
}

// isIgnoredByLayers checks if a path should be ignored by any layer in the
// slice (VCS chain, custom-ignore chain, and the global layer together).
func isIgnoredByLayers(layers []ignoreLayer, fullPath string, isDir bool) bool {
	for _, layer := range layers {
		if layer.parser == nil {
			continue
		}
		rel, err := filepath.Rel(layer.dir, fullPath)
		if err != nil {
			continue
		}
		checkPath := filepath.ToSlash(rel)
		if isDir {
			checkPath += "/"
		}
		if layer.parser.MatchesPath(checkPath) {
			return true
		}
	}
	return false
}
