package discover

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/DeusData/snippets-explorer/internal/lang"
	"github.com/DeusData/snippets-explorer/internal/snippet"
)

// Candidate file patterns for the different source directories.
var (
	JSONPattern         = regexp.MustCompile(`\.json$`)
	CodeSnippetsPattern = regexp.MustCompile(`\.code-snippets$`)
)

const (
	codeSnippetsExt  = ".code-snippets"
	genericFilename  = "snippets.json"
	manifestFilename = "package.json"
)

// Relevance holds the outcome of each classification rule. All rules are
// evaluated; any true flag means the file should be scanned.
type Relevance struct {
	ExactMatch        bool // <id>.json or <id>.code-snippets
	PathFragmentMatch bool // plugin dir embeds "<id>-"
	LooseProjectMatch bool // any .code-snippets in a project
}

// Any reports whether at least one rule matched.
func (r Relevance) Any() bool {
	return r.ExactMatch || r.PathFragmentMatch || r.LooseProjectMatch
}

// Classify decides whether filename in dir can hold snippets for languageID.
func Classify(filename, languageID, dir string, kind snippet.Kind) Relevance {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	ids := lang.Expand(languageID)

	var r Relevance
	for _, id := range ids {
		if base == id+".json" || base == id+codeSnippetsExt {
			r.ExactMatch = true
			break
		}
	}
	if base == languageID+codeSnippetsExt {
		r.ExactMatch = true
	}

	switch kind {
	case snippet.KindExtensionPackageJSON:
		r.PathFragmentMatch = true
	case snippet.KindExtension:
		named := base == genericFilename || (ext == ".json" && slices.Contains(ids, stem))
		if named {
			slashed := filepath.ToSlash(dir)
			for _, id := range ids {
				if strings.Contains(slashed, id+"-") {
					r.PathFragmentMatch = true
					break
				}
			}
		}
	}

	r.LooseProjectMatch = kind == snippet.KindProject && ext == codeSnippetsExt
	return r
}

// ListCandidates returns the sorted names of regular files in dir that match
// pattern. A missing directory yields no candidates and no error.
func ListCandidates(dir string, pattern *regexp.Regexp) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if pattern == nil || pattern.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// ListSubdirs returns the absolute paths of the directories directly under
// root, sorted. Used to enumerate installed plugins. Missing root yields nil.
func ListSubdirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}

// skipDirs are directory names never descended into by Discover. Plugin
// installs commonly carry large dependency trees.
var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "out": true, "dist": true,
	"src": true, "test": true, "images": true, "syntaxes": true,
}

// maxDepth bounds Discover: root/<plugin>/snippets/<file>.
const maxDepth = 3

// FileInfo is a snippet-related file found under a source root.
type FileInfo struct {
	Path    string // absolute path
	RelPath string // relative to Root, slash separated
	Root    string
	Size    int64
	ModTime int64 // unix nanoseconds
}

// Discover walks each root to a bounded depth and returns every file that
// can contribute snippets: .json, .code-snippets and plugin manifests.
// Missing roots are skipped.
func Discover(ctx context.Context, roots []string) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var files []FileInfo
	for _, root := range roots {
		root, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(root); err != nil {
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel, _ := filepath.Rel(root, path)
			depth := 0
			if rel != "." {
				depth = strings.Count(filepath.ToSlash(rel), "/") + 1
			}

			if d.IsDir() {
				if path != root && (skipDirs[d.Name()] || depth >= maxDepth) {
					return filepath.SkipDir
				}
				return nil
			}
			name := d.Name()
			if !JSONPattern.MatchString(name) && !CodeSnippetsPattern.MatchString(name) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			files = append(files, FileInfo{
				Path:    path,
				RelPath: filepath.ToSlash(rel),
				Root:    root,
				Size:    info.Size(),
				ModTime: info.ModTime().UnixNano(),
			})
			return nil
		})
		if err != nil {
			return files, err
		}
	}
	return files, nil
}
