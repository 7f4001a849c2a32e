// Package snippet is the aggregate data model: snippet definitions, the
// per-file record with its metadata, and the language -> path -> record tree.
package snippet

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// AllLanguages is the tree key for global snippets that declare no scope.
const AllLanguages = "*"

// Lines is a JSON value that may be written either as a single string or as
// an array of strings. It is always held as a sequence.
type Lines []string

// UnmarshalJSON accepts a string, an array of strings, or null.
func (l *Lines) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = Lines{s}
		return nil
	}
	var arr []string
	if err := json.Unmarshal(b, &arr); err != nil {
		return fmt.Errorf("want string or array of strings: %w", err)
	}
	*l = Lines(arr)
	return nil
}

// Snippet is one named snippet definition.
type Snippet struct {
	Name        string `json:"-"`
	Prefix      Lines  `json:"prefix"`
	Body        Lines  `json:"body"`
	Description Lines  `json:"description,omitempty"`
	// Scope is only set in combined .code-snippets files, e.g. "javascript,typescript".
	Scope string `json:"scope,omitempty"`
}

// BodyText returns the body as inserted into a document.
func (s Snippet) BodyText() string {
	return strings.Join(s.Body, "\n")
}

// DescriptionText returns the description on one line.
func (s Snippet) DescriptionText() string {
	return strings.TrimSpace(strings.Join(s.Description, " "))
}

// PrefixText returns all trigger prefixes separated by ", ".
func (s Snippet) PrefixText() string {
	return strings.Join(s.Prefix, ", ")
}

// ScopeIDs returns the trimmed, non-empty language ids of Scope.
func (s Snippet) ScopeIDs() []string {
	if strings.TrimSpace(s.Scope) == "" {
		return nil
	}
	var ids []string
	for _, tok := range strings.Split(s.Scope, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			ids = append(ids, tok)
		}
	}
	return ids
}

// InScope reports whether languageID is one of the scope's tokens. It is an
// exact token match: "java" is not in scope "javascript".
func (s Snippet) InScope(languageID string) bool {
	for _, id := range s.ScopeIDs() {
		if id == languageID {
			return true
		}
	}
	return false
}

var whitespaceRun = regexp.MustCompile(`\s\s+`)

// Tooltip returns the body with runs of whitespace collapsed to one space.
func (s Snippet) Tooltip() string {
	return whitespaceRun.ReplaceAllString(s.BodyText(), " ")
}
