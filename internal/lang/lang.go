// Package lang holds the language id expansion table: a language id maps to
// the ordered list of ids whose snippet files also belong to it (dialects,
// subset languages, frameworks), self first.
package lang

import (
	"slices"
	"sort"
	"sync"
)

// LanguageSpec lists the ids related to a language id.
type LanguageSpec struct {
	ID string
	// Related ids are scanned in addition to ID, in this order.
	Related []string
}

var (
	mu       sync.RWMutex
	registry = map[string]*LanguageSpec{}
	ignored  = map[string]bool{}
)

// Register adds or replaces the spec for spec.ID.
func Register(spec *LanguageSpec) {
	mu.Lock()
	defer mu.Unlock()
	registry[spec.ID] = spec
}

// ForLanguage returns the registered spec for id, or nil.
func ForLanguage(id string) *LanguageSpec {
	mu.RLock()
	defer mu.RUnlock()
	return registry[id]
}

// Expand returns id followed by its related ids, without duplicates.
// An id with no registered spec expands to itself.
func Expand(id string) []string {
	out := []string{id}
	spec := ForLanguage(id)
	if spec == nil {
		return out
	}
	for _, r := range spec.Related {
		if r != "" && !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out
}

// Registered returns the ids that have an expansion, sorted.
func Registered() []string {
	mu.RLock()
	defer mu.RUnlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Ignore marks pseudo-language ids that never have snippets (search panes,
// tool output panels). Enumeration returns immediately for them.
func Ignore(ids ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		ignored[id] = true
	}
}

// Ignored reports whether id is a pseudo-language id.
func Ignored(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return ignored[id]
}

func init() {
	Ignore("search-result", "source-ag-output")
}
