// Package explorer keeps the current snippet tree for a host (CLI or MCP
// server): it enumerates languages on demand, refreshes them, mirrors the
// tree into the search catalog and answers lookups.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/DeusData/snippets-explorer/internal/lang"
	"github.com/DeusData/snippets-explorer/internal/pipeline"
	"github.com/DeusData/snippets-explorer/internal/snippet"
	"github.com/DeusData/snippets-explorer/internal/store"
)

// ErrNotFound is returned for unknown languages, files or snippet names.
var ErrNotFound = errors.New("snippet not found")

// companionJobs are enumerated together with the key language.
var companionJobs = map[string][]string{
	"dart": {"flutter"},
}

// FileError is a per-file failure from the last run.
type FileError struct {
	Path string
	Err  error
}

// Explorer owns the aggregate tree. Enumeration runs are serialized; reads
// may happen at any time.
type Explorer struct {
	enum  pipeline.Enumerator
	store *store.Store

	runMu sync.Mutex

	mu   sync.RWMutex
	tree *snippet.Tree

	errMu sync.Mutex
	errs  []FileError
}

// New returns an Explorer over a copy of enum. Per-file failures are
// collected for LastErrors and still passed to enum's own Notify. st may be
// nil when no search catalog is wanted.
func New(enum *pipeline.Enumerator, st *store.Store) *Explorer {
	e := &Explorer{enum: *enum, store: st, tree: snippet.NewTree()}
	var prev pipeline.NotifyFunc
	if enum.Scanner != nil {
		prev = enum.Scanner.Notify
	}
	e.enum.Scanner = &pipeline.Scanner{Notify: func(path string, err error) {
		e.errMu.Lock()
		e.errs = append(e.errs, FileError{Path: path, Err: err})
		e.errMu.Unlock()
		if prev != nil {
			prev(path, err)
		}
	}}
	return e
}

// Tree returns the current tree.
func (e *Explorer) Tree() *snippet.Tree {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree
}

// Store returns the search catalog, or nil.
func (e *Explorer) Store() *store.Store {
	return e.store
}

// Sources returns the directories being scanned.
func (e *Explorer) Sources() pipeline.Sources {
	return e.enum.Sources
}

// AddLanguage enumerates languageID unless it is already in the tree.
// It reports whether an enumeration ran.
func (e *Explorer) AddLanguage(ctx context.Context, languageID string) (bool, error) {
	if languageID == "" || lang.Ignored(languageID) {
		return false, nil
	}
	jobs := append([]string{languageID}, companionJobs[languageID]...)
	ran, _, err := e.run(ctx, func(current *snippet.Tree) (*snippet.Tree, []string) {
		if current.Has(languageID) {
			return nil, nil
		}
		return current, jobs
	})
	return ran, err
}

// Refresh rescans from disk. With onlyID set, just that language (and its
// companions) is dropped and enumerated again; otherwise every known
// language is enumerated into a fresh tree, so deleted files disappear.
// It returns the languages that were enumerated.
func (e *Explorer) Refresh(ctx context.Context, onlyID string) ([]string, error) {
	_, jobs, err := e.run(ctx, func(current *snippet.Tree) (*snippet.Tree, []string) {
		if onlyID != "" {
			jobs := append([]string{onlyID}, companionJobs[onlyID]...)
			for _, id := range jobs {
				current.RemoveLanguage(id)
			}
			return current, jobs
		}
		jobs := slices.DeleteFunc(current.Languages(), func(id string) bool {
			return id == snippet.AllLanguages
		})
		return snippet.NewTree(), jobs
	})
	return jobs, err
}

// run holds runMu for a whole enumeration. prepare sees the current tree
// under the lock and picks the tree to fill and the jobs; a nil tree skips
// the run.
func (e *Explorer) run(ctx context.Context,
	prepare func(current *snippet.Tree) (*snippet.Tree, []string)) (bool, []string, error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	tree, jobs := prepare(e.Tree())
	if tree == nil {
		return false, nil, nil
	}

	e.errMu.Lock()
	e.errs = nil
	e.errMu.Unlock()

	for _, id := range jobs {
		if _, err := e.enum.Enumerate(ctx, tree, id); err != nil {
			return true, jobs, fmt.Errorf("enumerate %s: %w", id, err)
		}
	}

	e.mu.Lock()
	e.tree = tree
	e.mu.Unlock()

	if e.store != nil {
		if err := e.store.Replace(tree); err != nil {
			return true, jobs, fmt.Errorf("sync store: %w", err)
		}
	}
	if errs := e.LastErrors(); len(errs) > 0 {
		slog.Warn("explorer.errors", "jobs", jobs, "files", len(errs))
	}
	return true, jobs, nil
}

// LastErrors returns the per-file failures of the most recent run.
func (e *Explorer) LastErrors() []FileError {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return slices.Clone(e.errs)
}

// Snippet looks up one snippet and the record holding it.
func (e *Explorer) Snippet(languageID, fullPath, name string) (snippet.Snippet, *snippet.Record, error) {
	rec, ok := e.Tree().Get(languageID, fullPath)
	if !ok {
		return snippet.Snippet{}, nil, fmt.Errorf("%w: no file %s for %s", ErrNotFound, fullPath, languageID)
	}
	s, ok := rec.Snippet(name)
	if !ok {
		return snippet.Snippet{}, nil, fmt.Errorf("%w: no snippet %q in %s", ErrNotFound, name, fullPath)
	}
	return s, rec, nil
}

// Body returns the text to insert for one snippet, lines joined with "\n".
func (e *Explorer) Body(languageID, fullPath, name string) (string, error) {
	s, _, err := e.Snippet(languageID, fullPath, name)
	if err != nil {
		return "", err
	}
	return s.BodyText(), nil
}

// DisplayPath shortens fullPath relative to the configured sources.
func (e *Explorer) DisplayPath(fullPath string) string {
	return StripPrefix(fullPath, e.enum.Sources)
}
