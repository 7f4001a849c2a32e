package store

import "github.com/sahilm/fuzzy"

// FuzzySearch applies every filter except Query in SQL, then ranks the
// remaining rows by fuzzy match of Query against "<prefix> <name>". Rows
// that do not match are dropped; better matches come first.
func (s *Store) FuzzySearch(params SearchParams) (*SearchOutput, error) {
	if params.Query == "" {
		return s.Search(params)
	}
	filtered := params
	filtered.Query = ""
	filtered.Limit = 0
	filtered.Offset = 0
	all, err := s.Search(filtered)
	if err != nil {
		return nil, err
	}

	targets := make([]string, len(all.Results))
	for i, r := range all.Results {
		targets[i] = r.Prefix + " " + r.Name
	}
	matches := fuzzy.Find(params.Query, targets)

	ranked := make([]*Row, len(matches))
	for i, m := range matches {
		ranked[i] = all.Results[m.Index]
	}
	total := len(ranked)
	start := min(max(params.Offset, 0), total)
	end := total
	if params.Limit > 0 {
		end = min(start+params.Limit, total)
	}
	return &SearchOutput{Results: ranked[start:end], Total: total}, nil
}
