package snippet

import "errors"

// ErrEmptyRecord is returned by NewRecord for a file that yielded no snippets.
var ErrEmptyRecord = errors.New("snippet file has no snippets")

// Meta describes the file a Record came from.
type Meta struct {
	LanguageID string
	Kind       Kind
	PathInfo   ExtensionPathInfo
}

// KindNiceName returns the display name of the record's kind.
func (m Meta) KindNiceName() string {
	return m.Kind.NiceName()
}

// Record is the parsed content of one snippet file. Snippets keep file order
// and names are unique within a record.
type Record struct {
	Meta     Meta
	snippets []Snippet
	index    map[string]int
}

// NewRecord is the only way to build a Record. It attaches fresh metadata
// derived from fullPath and refuses records without snippets, so every
// record in a Tree has metadata and at least one snippet.
func NewRecord(fullPath string, kind Kind, languageID string, snippets []Snippet) (*Record, error) {
	if len(snippets) == 0 {
		return nil, ErrEmptyRecord
	}
	info := NewExtensionPathInfo(fullPath)
	if kind == KindExtension || kind == KindExtensionPackageJSON {
		info = NewPluginPathInfo(fullPath)
	}
	r := &Record{
		Meta: Meta{
			LanguageID: languageID,
			Kind:       kind,
			PathInfo:   info,
		},
		index: make(map[string]int, len(snippets)),
	}
	for _, s := range snippets {
		if i, dup := r.index[s.Name]; dup {
			r.snippets[i] = s
			continue
		}
		r.index[s.Name] = len(r.snippets)
		r.snippets = append(r.snippets, s)
	}
	return r, nil
}

// FullPath is the record's key in the tree.
func (r *Record) FullPath() string {
	return r.Meta.PathInfo.FullPath
}

// Len returns the number of snippets.
func (r *Record) Len() int {
	return len(r.snippets)
}

// Snippets returns the snippets in file order.
func (r *Record) Snippets() []Snippet {
	out := make([]Snippet, len(r.snippets))
	copy(out, r.snippets)
	return out
}

// Names returns snippet names in file order.
func (r *Record) Names() []string {
	names := make([]string, len(r.snippets))
	for i, s := range r.snippets {
		names[i] = s.Name
	}
	return names
}

// Snippet looks a snippet up by name.
func (r *Record) Snippet(name string) (Snippet, bool) {
	i, ok := r.index[name]
	if !ok {
		return Snippet{}, false
	}
	return r.snippets[i], true
}
