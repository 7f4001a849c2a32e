package store

import (
	"fmt"
	"regexp"
	"strings"
)

// SearchParams defines structured search parameters. Empty fields do not
// filter.
type SearchParams struct {
	// Query is a case-insensitive substring of name, prefix or description.
	Query       string
	Language    string
	Kind        string
	FilePattern string // glob over the file path
	NamePattern string // regex over the snippet name
	Limit       int
	Offset      int
}

// SearchOutput wraps search results with total count for pagination.
type SearchOutput struct {
	Results []*Row
	Total   int
}

// Search executes a parameterized search query with pagination support.
func (s *Store) Search(params SearchParams) (*SearchOutput, error) {
	if params.Limit <= 0 {
		params.Limit = 100000
	}

	conditions := []string{"1=1"}
	var args []any

	if params.Query != "" {
		like := "%" + escapeLike(strings.ToLower(params.Query)) + "%"
		conditions = append(conditions,
			`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(prefix) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like)
	}
	if params.Language != "" {
		conditions = append(conditions, "language = ?")
		args = append(args, params.Language)
	}
	if params.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, strings.ToUpper(params.Kind))
	}
	if params.FilePattern != "" {
		conditions = append(conditions, "file_path LIKE ?")
		args = append(args, globToLike(params.FilePattern))
	}

	query := fmt.Sprintf(`SELECT %s FROM snippets WHERE %s ORDER BY language, file_path, id`,
		rowColumns, strings.Join(conditions, " AND "))
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	all, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	if params.NamePattern != "" {
		all, err = filterByNamePattern(all, params.NamePattern)
		if err != nil {
			return nil, err
		}
	}

	total := len(all)
	start := min(max(params.Offset, 0), total)
	end := min(start+params.Limit, total)
	return &SearchOutput{Results: all[start:end], Total: total}, nil
}

// globToLike converts a glob pattern to SQL LIKE pattern.
func globToLike(pattern string) string {
	result := strings.ReplaceAll(pattern, "**", "%")
	result = strings.ReplaceAll(result, "*", "%")
	result = strings.ReplaceAll(result, "?", "_")
	return result
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func filterByNamePattern(rows []*Row, pattern string) ([]*Row, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid name pattern: %w", err)
	}
	var filtered []*Row
	for _, r := range rows {
		if re.MatchString(r.Name) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}
