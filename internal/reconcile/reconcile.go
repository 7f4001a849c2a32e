// Package reconcile removes snippet files left behind by superseded plugin
// versions. Plugin upgrades often leave the old install directory in place,
// so the same snippet file is discovered once per installed version.
package reconcile

import (
	"log/slog"
	"slices"

	"github.com/DeusData/snippets-explorer/internal/snippet"
	"github.com/DeusData/snippets-explorer/internal/version"
)

// Options tunes a reconciliation run.
type Options struct {
	// Verbose logs every removal at info level instead of debug.
	Verbose bool
}

// Result lists what a run removed.
type Result struct {
	Removed []string
}

// groupKey identifies one logical plugin snippet file across versions.
type groupKey struct {
	languageID  string
	extensionID string
	basename    string
}

// Reconcile keeps only the newest version of every plugin snippet file.
// Records are grouped by their own metadata (language, plugin id, basename);
// only EXTENSION records take part. Deletion uses each loser's metadata
// language and path, not the tree key it was found under. Groups are built
// in tree order, so equal versions keep the first record encountered.
func Reconcile(tree *snippet.Tree, opts Options) Result {
	var (
		order  []groupKey
		groups = make(map[groupKey][]snippet.Meta)
		seen   = make(map[groupKey]map[string]bool)
	)
	for _, e := range tree.Entries() {
		meta := e.Record.Meta
		if meta.Kind != snippet.KindExtension {
			continue
		}
		k := groupKey{meta.LanguageID, meta.PathInfo.ExtensionID, meta.PathInfo.Basename}
		if seen[k] == nil {
			seen[k] = make(map[string]bool)
			order = append(order, k)
		}
		// A record filed under several language keys is still one file.
		if seen[k][meta.PathInfo.FullPath] {
			continue
		}
		seen[k][meta.PathInfo.FullPath] = true
		groups[k] = append(groups[k], meta)
	}

	var res Result
	for _, k := range order {
		metas := groups[k]
		if len(metas) < 2 {
			continue
		}
		slices.SortStableFunc(metas, func(a, b snippet.Meta) int {
			return version.Descending(a.PathInfo.Version, b.PathInfo.Version)
		})
		kept := metas[0].PathInfo.FullPath
		for _, m := range metas[1:] {
			if !tree.Delete(m.LanguageID, m.PathInfo.FullPath) {
				slog.Debug("reconcile.absent", "lang", m.LanguageID, "path", m.PathInfo.FullPath)
				continue
			}
			res.Removed = append(res.Removed, m.PathInfo.FullPath)
			attrs := []any{"lang", m.LanguageID, "path", m.PathInfo.FullPath, "kept", kept}
			if opts.Verbose {
				slog.Info("reconcile.removed", attrs...)
			} else {
				slog.Debug("reconcile.removed", attrs...)
			}
		}
	}
	return res
}
