package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/snippets-explorer/internal/store"
)

func (s *Server) handleSearch(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	st := s.ex.Store()
	if st == nil {
		return errResult("search catalog not available"), nil
	}

	params := store.SearchParams{
		Query:       getStringArg(args, "query"),
		Language:    getStringArg(args, "language"),
		Kind:        getStringArg(args, "kind"),
		FilePattern: getStringArg(args, "file_pattern"),
		NamePattern: getStringArg(args, "name_pattern"),
		Limit:       getIntArg(args, "limit", 20),
		Offset:      getIntArg(args, "offset", 0),
	}

	var output *store.SearchOutput
	if getBoolArg(args, "fuzzy") && params.Query != "" {
		output, err = st.FuzzySearch(params)
	} else {
		output, err = st.Search(params)
	}
	if err != nil {
		return errResult(fmt.Sprintf("search: %v", err)), nil
	}

	type resultEntry struct {
		Language    string `json:"language"`
		Name        string `json:"name"`
		Prefix      string `json:"prefix"`
		Description string `json:"description,omitempty"`
		Kind        string `json:"kind"`
		FilePath    string `json:"file_path"`
		DisplayPath string `json:"display_path"`
	}

	results := make([]resultEntry, 0, len(output.Results))
	for _, r := range output.Results {
		results = append(results, resultEntry{
			Language:    r.Language,
			Name:        r.Name,
			Prefix:      r.Prefix,
			Description: r.Description,
			Kind:        r.Kind,
			FilePath:    r.FilePath,
			DisplayPath: s.ex.DisplayPath(r.FilePath),
		})
	}

	return jsonResult(map[string]any{
		"total":    output.Total,
		"limit":    params.Limit,
		"offset":   params.Offset,
		"has_more": params.Offset+params.Limit < output.Total,
		"results":  results,
	}), nil
}
