package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/snippets-explorer/internal/explorer"
)

func (s *Server) handleListFiles(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	languageID := getStringArg(args, "language")
	if languageID == "" {
		return errResult("language is required"), nil
	}
	pattern := getStringArg(args, "pattern")
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return errResult(fmt.Sprintf("invalid pattern: %s", pattern)), nil
	}

	if _, err := s.ex.AddLanguage(ctx, languageID); err != nil {
		return errResult(fmt.Sprintf("enumerate: %v", err)), nil
	}

	type fileEntry struct {
		Path             string `json:"path"`
		DisplayPath      string `json:"display_path"`
		Label            string `json:"label"`
		Tooltip          string `json:"tooltip"`
		Kind             string `json:"kind"`
		ExtensionID      string `json:"extension_id,omitempty"`
		ExtensionVersion string `json:"extension_version,omitempty"`
		Snippets         int    `json:"snippets"`
	}

	records := s.ex.Tree().Records(languageID)
	result := make([]fileEntry, 0, len(records))
	for _, rec := range records {
		display := s.ex.DisplayPath(rec.FullPath())
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, filepath.ToSlash(display)); !ok {
				continue
			}
		}
		entry := fileEntry{
			Path:        rec.FullPath(),
			DisplayPath: display,
			Label:       explorer.FileLabel(rec.Meta),
			Tooltip:     explorer.FileTooltip(rec.Meta),
			Kind:        rec.Meta.Kind.String(),
			Snippets:    rec.Len(),
		}
		if rec.Meta.PathInfo.ExtensionVersion != "" {
			entry.ExtensionID = rec.Meta.PathInfo.ExtensionID
			entry.ExtensionVersion = rec.Meta.PathInfo.ExtensionVersion
		}
		result = append(result, entry)
	}
	return jsonResult(result), nil
}

func (s *Server) handleListSnippets(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	languageID := getStringArg(args, "language")
	path := getStringArg(args, "path")
	if languageID == "" || path == "" {
		return errResult("language and path are required"), nil
	}

	rec, ok := s.ex.Tree().Get(languageID, path)
	if !ok {
		return errResult(fmt.Sprintf("file not found: %s (%s)", path, languageID)), nil
	}

	type snippetEntry struct {
		Name        string `json:"name"`
		Label       string `json:"label"`
		Prefix      string `json:"prefix"`
		Description string `json:"description,omitempty"`
		Tooltip     string `json:"tooltip"`
	}

	snips := rec.Snippets()
	result := make([]snippetEntry, 0, len(snips))
	for _, sn := range snips {
		result = append(result, snippetEntry{
			Name:        sn.Name,
			Label:       explorer.SnippetLabel(sn),
			Prefix:      sn.PrefixText(),
			Description: sn.DescriptionText(),
			Tooltip:     explorer.Tooltip(sn),
		})
	}
	return jsonResult(map[string]any{
		"path":     path,
		"label":    explorer.FileLabel(rec.Meta),
		"kind":     rec.Meta.Kind.String(),
		"snippets": result,
	}), nil
}

func (s *Server) handleGetBody(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	languageID := getStringArg(args, "language")
	path := getStringArg(args, "path")
	name := getStringArg(args, "name")
	if languageID == "" || path == "" || name == "" {
		return errResult("language, path and name are required"), nil
	}

	sn, rec, err := s.ex.Snippet(languageID, path, name)
	if errors.Is(err, explorer.ErrNotFound) {
		return errResult(err.Error()), nil
	}
	if err != nil {
		return errResult(fmt.Sprintf("get snippet: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"name":        sn.Name,
		"prefix":      sn.PrefixText(),
		"description": sn.DescriptionText(),
		"body":        sn.BodyText(),
		"path":        path,
		"kind":        rec.Meta.Kind.String(),
	}), nil
}
