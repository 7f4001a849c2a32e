package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DeusData/snippets-explorer/internal/discover"
	"github.com/DeusData/snippets-explorer/internal/lang"
	"github.com/DeusData/snippets-explorer/internal/reconcile"
	"github.com/DeusData/snippets-explorer/internal/snippet"
)

// Sources are the root directories scanned for snippet files.
type Sources struct {
	// ProjectDirs are workspace roots; their .vscode directory is scanned.
	ProjectDirs []string
	// UserSnippetsDir holds <lang>.json and global .code-snippets files.
	UserSnippetsDir string
	// ExtensionRoots contain one directory per installed plugin.
	ExtensionRoots []string
	// BuiltinRoots contain the plugins bundled with the editor.
	BuiltinRoots []string
	// PortableSnippetsDir is the user snippets dir of a portable install.
	PortableSnippetsDir string
}

// Dirs returns every configured root, for watching.
func (s Sources) Dirs() []string {
	var dirs []string
	for _, p := range s.ProjectDirs {
		dirs = append(dirs, filepath.Join(p, ".vscode"))
	}
	if s.UserSnippetsDir != "" {
		dirs = append(dirs, s.UserSnippetsDir)
	}
	dirs = append(dirs, s.ExtensionRoots...)
	dirs = append(dirs, s.BuiltinRoots...)
	if s.PortableSnippetsDir != "" {
		dirs = append(dirs, s.PortableSnippetsDir)
	}
	return dirs
}

// Enumerator discovers every snippet file for a language across all sources.
type Enumerator struct {
	Sources Sources
	Scanner *Scanner
	// MaxConcurrency bounds concurrent directory scans; 0 means unbounded.
	MaxConcurrency int
	// VerboseReconcile logs every superseded plugin file at info level.
	VerboseReconcile bool
}

// Enumerate scans all sources for languageID and its expansions, merges the
// results into tree and removes superseded plugin versions. The tree is
// mutated in place and returned; a nil tree is allocated. File and directory
// failures never abort the run. The only error is a context that was
// already done before scanning started.
func (e *Enumerator) Enumerate(ctx context.Context, tree *snippet.Tree, languageID string) (*snippet.Tree, error) {
	if tree == nil {
		tree = snippet.NewTree()
	}
	if lang.Ignored(languageID) {
		slog.Debug("enumerate.ignored", "lang", languageID)
		return tree, nil
	}
	if err := ctx.Err(); err != nil {
		return tree, err
	}

	start := time.Now()
	slog.Info("enumerate.start", "lang", languageID)
	tree.EnsureLanguage(languageID)

	sc := e.Scanner
	if sc == nil {
		sc = &Scanner{}
	}
	// Every scan runs once for the seed id. The classifier widens relevance
	// to the related ids itself and all hits are filed under the seed.
	ids := lang.Expand(languageID)
	cache := NewScanCache()
	plugins := e.listRoots(sc, e.Sources.ExtensionRoots)
	builtins := e.listRoots(sc, e.Sources.BuiltinRoots)

	g := new(errgroup.Group)
	if e.MaxConcurrency > 0 {
		g.SetLimit(e.MaxConcurrency)
	}
	spawn := func(fn func()) {
		g.Go(func() error {
			fn()
			return nil
		})
	}

	userDir := e.Sources.UserSnippetsDir
	if userDir != "" {
		spawn(func() {
			sc.ScanGlobal(ctx, userDir, discover.CodeSnippetsPattern, snippet.AllLanguages, tree)
		})
	}

	for _, p := range e.Sources.ProjectDirs {
		dir := filepath.Join(p, ".vscode")
		spawn(func() {
			sc.ScanDirectory(ctx, dir, discover.CodeSnippetsPattern, snippet.KindProject, languageID, tree, cache)
		})
	}
	if userDir != "" {
		spawn(func() {
			sc.ScanDirectory(ctx, userDir, discover.JSONPattern, snippet.KindUser, languageID, tree, cache)
		})
		spawn(func() {
			sc.ScanGlobal(ctx, userDir, discover.CodeSnippetsPattern, languageID, tree)
		})
	}
	for _, plugin := range plugins {
		spawn(func() {
			// The directory scan runs first so a file reachable both ways
			// is claimed as EXTENSION and stays eligible for reconciliation.
			sc.ScanDirectory(ctx, filepath.Join(plugin, "snippets"), discover.JSONPattern,
				snippet.KindExtension, languageID, tree, cache)
			if contributed := contributionsFor(plugin, ids); len(contributed) > 0 {
				sc.ScanFiles(ctx, contributed, snippet.KindExtensionPackageJSON, languageID, tree, cache)
			}
		})
	}
	for _, b := range builtins {
		spawn(func() {
			sc.ScanDirectory(ctx, filepath.Join(b, "snippets"), discover.CodeSnippetsPattern,
				snippet.KindBuiltin, languageID, tree, cache)
		})
	}
	if dir := e.Sources.PortableSnippetsDir; dir != "" {
		spawn(func() {
			sc.ScanDirectory(ctx, dir, discover.JSONPattern, snippet.KindUser, languageID, tree, cache)
		})
	}
	_ = g.Wait()

	res := reconcile.Reconcile(tree, reconcile.Options{Verbose: e.VerboseReconcile})
	slog.Info("enumerate.done",
		"lang", languageID,
		"expanded", ids,
		"files", tree.Len(),
		"removed", len(res.Removed),
		"languages", tree.Languages(),
		"elapsed", time.Since(start),
	)
	return tree, nil
}

// contributionsFor returns the manifest snippet paths of plugin that are
// declared for any of ids.
func contributionsFor(plugin string, ids []string) []string {
	contribs := discover.ReadManifest(plugin)
	var paths []string
	for _, id := range ids {
		for _, p := range discover.ContributionsFor(contribs, id) {
			if !slices.Contains(paths, p) {
				paths = append(paths, p)
			}
		}
	}
	return paths
}

func (e *Enumerator) listRoots(sc *Scanner, roots []string) []string {
	var dirs []string
	for _, root := range roots {
		subs, err := discover.ListSubdirs(root)
		if err != nil {
			sc.report(root, err)
			continue
		}
		dirs = append(dirs, subs...)
	}
	return dirs
}

// PortableSnippetsDir derives the user snippets directory of a portable
// editor install from the application root. On darwin the app bundle adds
// two more levels.
func PortableSnippetsDir(appRoot, goos string) string {
	if appRoot == "" {
		return ""
	}
	up := filepath.Join("..", "..")
	if goos == "darwin" {
		up = filepath.Join("..", "..", "..", "..")
	}
	return filepath.Join(appRoot, up, "data", "user-data", "User", "snippets")
}
