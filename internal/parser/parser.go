// Package parser reads snippet files. Files are permissive JSON: comments and
// trailing commas are accepted, JSON5 (single quotes, unquoted keys) is
// accepted as a fallback, and the dart plugin's nested
// {".source.dart": {...}} layout is flattened.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"github.com/titanous/json5"

	"github.com/DeusData/snippets-explorer/internal/snippet"
)

var (
	// ErrRead wraps failures to read a snippet file. The underlying error is
	// wrapped too, so errors.Is(err, fs.ErrNotExist) still works.
	ErrRead = errors.New("read snippet file")
	// ErrSyntax wraps files that are not a permissive JSON object.
	ErrSyntax = errors.New("snippet file syntax")
)

var errNotObject = errors.New("top-level value is not an object")

// wrapperMarker identifies keys that nest real snippets one level down.
const wrapperMarker = ".source."

// Entry is one top-level key of a snippet file with its undecoded value.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// ParseFile reads and parses path. For project .code-snippets files with a
// language id, only entries scoped to that language are returned. A file
// with no entries yields an empty result and no error.
func ParseFile(path string, kind snippet.Kind, languageID string) ([]snippet.Snippet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}
	snips, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if kind == snippet.KindProject && languageID != "" && filepath.Ext(path) == ".code-snippets" {
		snips = FilterByScope(snips, languageID)
	}
	return snips, nil
}

// ParseBytes parses snippet file content, repairs wrapper keys and decodes
// each entry. Entries whose value is not an object (e.g. "$schema") or that
// do not decode as a snippet are skipped.
func ParseBytes(data []byte) ([]snippet.Snippet, error) {
	std, err := standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	entries, err := decodeObject(std)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	entries = Repair(entries)

	snips := make([]snippet.Snippet, 0, len(entries))
	for _, e := range entries {
		if !isObject(e.Value) {
			continue
		}
		var s snippet.Snippet
		if err := json.Unmarshal(e.Value, &s); err != nil {
			slog.Debug("parser.skip", "key", e.Key, "err", err)
			continue
		}
		s.Name = e.Key
		snips = append(snips, s)
	}
	return snips, nil
}

// standardize turns permissive content into plain JSON. JSONC keeps the key
// order; files that only parse as JSON5 come back with sorted keys.
func standardize(data []byte) ([]byte, error) {
	std, err := hujson.Standardize(data)
	if err == nil {
		return std, nil
	}
	var obj map[string]any
	if err5 := json5.Unmarshal(data, &obj); err5 != nil || obj == nil {
		return nil, err
	}
	return json.Marshal(obj)
}

// Repair flattens wrapper entries: every key containing ".source." is
// replaced by the entries of its object value, in order. Other keys are kept
// where they are. Later duplicates overwrite earlier ones.
func Repair(entries []Entry) []Entry {
	wrapped := false
	for _, e := range entries {
		if strings.Contains(e.Key, wrapperMarker) {
			wrapped = true
			break
		}
	}
	if !wrapped {
		return entries
	}

	var out orderedEntries
	for _, e := range entries {
		if !strings.Contains(e.Key, wrapperMarker) {
			out.set(e)
			continue
		}
		children, err := decodeObject(e.Value)
		if err != nil {
			slog.Debug("parser.repair.skip", "key", e.Key, "err", err)
			continue
		}
		for _, c := range children {
			out.set(c)
		}
	}
	return out.list
}

// FilterByScope keeps the snippets whose scope names languageID.
func FilterByScope(snips []snippet.Snippet, languageID string) []snippet.Snippet {
	out := make([]snippet.Snippet, 0, len(snips))
	for _, s := range snips {
		if s.InScope(languageID) {
			out = append(out, s)
		}
	}
	return out
}

type orderedEntries struct {
	list []Entry
	pos  map[string]int
}

func (o *orderedEntries) set(e Entry) {
	if o.pos == nil {
		o.pos = make(map[string]int)
	}
	if i, ok := o.pos[e.Key]; ok {
		o.list[i] = e
		return
	}
	o.pos[e.Key] = len(o.list)
	o.list = append(o.list, e)
}

func decodeObject(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	var out orderedEntries
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out.set(Entry{Key: key, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out.list, nil
}

func isObject(raw json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{"))
}
