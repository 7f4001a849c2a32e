package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type languageInfo struct {
	Language string `json:"language"`
	Files    int    `json:"files"`
	Snippets int    `json:"snippets"`
}

func (s *Server) languageInfo(languageID string) languageInfo {
	info := languageInfo{Language: languageID}
	for _, rec := range s.ex.Tree().Records(languageID) {
		info.Files++
		info.Snippets += rec.Len()
	}
	return info
}

func (s *Server) handleEnumerate(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	languageID := getStringArg(args, "language")
	if languageID == "" {
		return errResult("language is required"), nil
	}

	var ran bool
	if getBoolArg(args, "refresh") {
		_, err = s.ex.Refresh(ctx, languageID)
		ran = true
	} else {
		ran, err = s.ex.AddLanguage(ctx, languageID)
	}
	if err != nil {
		return errResult(fmt.Sprintf("enumerate: %v", err)), nil
	}

	responseData := map[string]any{
		"language":   languageID,
		"enumerated": ran,
		"summary":    s.languageInfo(languageID),
	}
	if ran {
		responseData["errors"] = s.lastErrors()
	}
	return jsonResult(responseData), nil
}

func (s *Server) handleListLanguages(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := s.ex.Tree().Languages()
	result := make([]languageInfo, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.languageInfo(id))
	}
	return jsonResult(result), nil
}

func (s *Server) handleRefresh(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	jobs, err := s.ex.Refresh(ctx, getStringArg(args, "language"))
	if err != nil {
		return errResult(fmt.Sprintf("refresh: %v", err)), nil
	}

	languages := make([]languageInfo, 0, len(jobs))
	for _, id := range jobs {
		languages = append(languages, s.languageInfo(id))
	}
	return jsonResult(map[string]any{
		"refreshed": languages,
		"errors":    s.lastErrors(),
	}), nil
}
