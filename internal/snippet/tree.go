package snippet

import (
	"slices"
	"sort"
	"sync"
)

// Tree is the aggregate view: language id -> absolute file path -> Record.
// Scans running in parallel goroutines insert into the same Tree, so every
// method takes the lock. Language order is insertion order and only matters
// for display.
type Tree struct {
	mu    sync.RWMutex
	langs map[string]map[string]*Record
	order []string
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{langs: make(map[string]map[string]*Record)}
}

// EnsureLanguage creates the language bucket if absent.
func (t *Tree) EnsureLanguage(languageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensureLocked(languageID)
}

func (t *Tree) ensureLocked(languageID string) map[string]*Record {
	files, ok := t.langs[languageID]
	if !ok {
		files = make(map[string]*Record)
		t.langs[languageID] = files
		t.order = append(t.order, languageID)
	}
	return files
}

// Insert files rec under its own metadata language id and path.
func (t *Tree) Insert(rec *Record) {
	t.InsertUnder(rec.Meta.LanguageID, rec)
}

// InsertUnder files rec under languageID, which may differ from the
// language recorded in rec's metadata. A record at the same path is replaced.
func (t *Tree) InsertUnder(languageID string, rec *Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensureLocked(languageID)[rec.FullPath()] = rec
}

// Delete removes tree[languageID][fullPath] and reports whether it existed.
// The language bucket stays even when it becomes empty.
func (t *Tree) Delete(languageID, fullPath string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	files, ok := t.langs[languageID]
	if !ok {
		return false
	}
	if _, ok := files[fullPath]; !ok {
		return false
	}
	delete(files, fullPath)
	return true
}

// RemoveLanguage drops a whole language bucket.
func (t *Tree) RemoveLanguage(languageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.langs[languageID]; !ok {
		return
	}
	delete(t.langs, languageID)
	t.order = slices.DeleteFunc(t.order, func(id string) bool { return id == languageID })
}

// Get returns tree[languageID][fullPath].
func (t *Tree) Get(languageID, fullPath string) (*Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.langs[languageID][fullPath]
	return rec, ok
}

// Has reports whether the language bucket exists.
func (t *Tree) Has(languageID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.langs[languageID]
	return ok
}

// Languages returns language ids in insertion order.
func (t *Tree) Languages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.order)
}

// Files returns the sorted file paths under languageID.
func (t *Tree) Files(languageID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	paths := make([]string, 0, len(t.langs[languageID]))
	for p := range t.langs[languageID] {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Records returns the records under languageID sorted by path.
func (t *Tree) Records(languageID string) []*Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	files := t.langs[languageID]
	recs := make([]*Record, 0, len(files))
	for _, r := range files {
		recs = append(recs, r)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].FullPath() < recs[j].FullPath() })
	return recs
}

// Len returns the number of records across all languages.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, files := range t.langs {
		n += len(files)
	}
	return n
}

// Entry is one (language key, path, record) triple of a tree walk.
type Entry struct {
	LanguageID string
	FullPath   string
	Record     *Record
}

// Entries returns every record with the key it is filed under: languages in
// insertion order, paths sorted. The result is a snapshot, so callers may
// modify the tree while iterating it.
func (t *Tree) Entries() []Entry {
	var out []Entry
	for _, id := range t.Languages() {
		t.mu.RLock()
		files := t.langs[id]
		paths := make([]string, 0, len(files))
		for p := range files {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			out = append(out, Entry{LanguageID: id, FullPath: p, Record: files[p]})
		}
		t.mu.RUnlock()
	}
	return out
}
