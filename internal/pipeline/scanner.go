package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/DeusData/snippets-explorer/internal/discover"
	"github.com/DeusData/snippets-explorer/internal/parser"
	"github.com/DeusData/snippets-explorer/internal/snippet"
)

// NotifyFunc receives per-file failures. It is called from scan goroutines
// and must be safe for concurrent use.
type NotifyFunc func(path string, err error)

// Scanner parses the snippet files of one directory into a tree. Failures
// are logged and reported to Notify; they never stop a scan.
type Scanner struct {
	Notify NotifyFunc
}

type scanResult struct {
	path  string
	snips []snippet.Snippet
	err   error
}

// ScanDirectory scans the files in dir matching pattern that classify as
// relevant to languageID, and inserts every non-empty result under
// tree[languageID]. Paths already claimed in cache are skipped. It returns
// the number of records inserted.
func (s *Scanner) ScanDirectory(ctx context.Context, dir string, pattern *regexp.Regexp,
	kind snippet.Kind, languageID string, tree *snippet.Tree, cache *ScanCache) int {
	names, err := discover.ListCandidates(dir, pattern)
	if err != nil {
		s.report(dir, err)
		return 0
	}
	if len(names) == 0 {
		return 0
	}
	slog.Debug("scan.dir", "dir", dir, "kind", kind, "lang", languageID, "candidates", len(names))

	var paths []string
	for _, name := range names {
		if !discover.Classify(name, languageID, dir, kind).Any() {
			continue
		}
		full := filepath.Join(dir, name)
		if cache != nil && !cache.Claim(full) {
			slog.Debug("scan.cached", "path", full, "lang", languageID)
			continue
		}
		paths = append(paths, full)
	}
	return s.parseAndInsert(ctx, paths, kind, languageID, tree)
}

// ScanFiles parses an explicit list of files, such as the paths declared in
// a plugin manifest. Files bypass classification but still honour cache.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string, kind snippet.Kind,
	languageID string, tree *snippet.Tree, cache *ScanCache) int {
	claimed := make([]string, 0, len(paths))
	for _, p := range paths {
		if cache != nil && !cache.Claim(p) {
			slog.Debug("scan.cached", "path", p, "lang", languageID)
			continue
		}
		claimed = append(claimed, p)
	}
	return s.parseAndInsert(ctx, claimed, kind, languageID, tree)
}

// ScanGlobal scans user-wide combined snippet files. Placement is decided
// per entry: with languageID == snippet.AllLanguages only entries without a
// scope are kept; otherwise only entries whose scope names languageID. The
// cache is not consulted, since one file legitimately feeds several buckets.
func (s *Scanner) ScanGlobal(ctx context.Context, dir string, pattern *regexp.Regexp,
	languageID string, tree *snippet.Tree) int {
	names, err := discover.ListCandidates(dir, pattern)
	if err != nil {
		s.report(dir, err)
		return 0
	}
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}

	results := s.parseAll(ctx, paths, snippet.KindGlobalUser, "")
	inserted := 0
	for _, r := range results {
		if r.err != nil {
			s.report(r.path, r.err)
			continue
		}
		kept := make([]snippet.Snippet, 0, len(r.snips))
		for _, sn := range r.snips {
			if languageID == snippet.AllLanguages {
				if len(sn.ScopeIDs()) == 0 {
					kept = append(kept, sn)
				}
			} else if sn.InScope(languageID) {
				kept = append(kept, sn)
			}
		}
		if s.insert(tree, r.path, snippet.KindGlobalUser, languageID, kept) {
			inserted++
		}
	}
	return inserted
}

func (s *Scanner) parseAndInsert(ctx context.Context, paths []string, kind snippet.Kind,
	languageID string, tree *snippet.Tree) int {
	inserted := 0
	for _, r := range s.parseAll(ctx, paths, kind, languageID) {
		if r.err != nil {
			s.report(r.path, r.err)
			continue
		}
		if s.insert(tree, r.path, kind, languageID, r.snips) {
			inserted++
		}
	}
	return inserted
}

// parseAll parses every path concurrently. Tasks never return an error, so
// one bad file cannot cancel its siblings.
func (s *Scanner) parseAll(ctx context.Context, paths []string, kind snippet.Kind, languageID string) []scanResult {
	results := make([]scanResult, len(paths))
	g := new(errgroup.Group)
	for i, p := range paths {
		g.Go(func() error {
			results[i].path = p
			if ctx.Err() != nil {
				return nil
			}
			results[i].snips, results[i].err = parser.ParseFile(p, kind, languageID)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Scanner) insert(tree *snippet.Tree, path string, kind snippet.Kind, languageID string, snips []snippet.Snippet) bool {
	rec, err := snippet.NewRecord(path, kind, languageID, snips)
	if err != nil {
		// Empty files and fully filtered files are not inserted.
		return false
	}
	tree.Insert(rec)
	slog.Debug("scan.found", "lang", languageID, "kind", kind, "path", path, "snippets", rec.Len())
	return true
}

func (s *Scanner) report(path string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("scan.missing", "path", path)
		return
	}
	slog.Warn("scan.err", "path", path, "err", err)
	if s != nil && s.Notify != nil {
		s.Notify(path, err)
	}
}
