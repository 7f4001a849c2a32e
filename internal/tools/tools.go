package tools

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DeusData/snippets-explorer/internal/explorer"
)

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp *mcp.Server
	ex  *explorer.Explorer
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(ex *explorer.Explorer, version string) *Server {
	srv := &Server{
		ex: ex,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "snippets-explorer",
				Version: version,
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "enumerate_snippets",
		Description: "Discover every snippet file for a language across project, user, extension and built-in sources. Older versions of the same extension are dropped. Already enumerated languages are not rescanned unless refresh is set.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"language": {
					"type": "string",
					"description": "Language id (e.g. 'go', 'typescript', 'dart')"
				},
				"refresh": {
					"type": "boolean",
					"description": "Rescan the language even if it was enumerated before"
				}
			},
			"required": ["language"]
		}`),
	}, s.handleEnumerate)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_languages",
		Description: "List the enumerated languages with their file and snippet counts.",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleListLanguages)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_snippet_files",
		Description: "List the snippet files found for a language, with their source kind and extension version. Enumerates the language first if needed.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"language": {
					"type": "string",
					"description": "Language id"
				},
				"pattern": {
					"type": "string",
					"description": "Glob over the display path (e.g. 'ms-python.*/**', 'User/**')"
				}
			},
			"required": ["language"]
		}`),
	}, s.handleListFiles)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_snippets",
		Description: "List the snippets of one file with their display labels and prefixes.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"language": {
					"type": "string",
					"description": "Language id the file is listed under"
				},
				"path": {
					"type": "string",
					"description": "Full path of the snippet file, as returned by list_snippet_files"
				}
			},
			"required": ["language", "path"]
		}`),
	}, s.handleListSnippets)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_snippet_body",
		Description: "Return the text of one snippet, body lines joined with newlines, ready to insert.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"language": {"type": "string", "description": "Language id"},
				"path": {"type": "string", "description": "Full path of the snippet file"},
				"name": {"type": "string", "description": "Snippet name"}
			},
			"required": ["language", "path", "name"]
		}`),
	}, s.handleGetBody)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "search_snippets",
		Description: "Search enumerated snippets by name, prefix or description. Supports language, kind, file glob and name regex filters, and optional fuzzy ranking.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "Text to look for in name, prefix or description"
				},
				"language": {"type": "string", "description": "Only this language bucket"},
				"kind": {
					"type": "string",
					"description": "Source kind",
					"enum": ["PROJECT", "USER", "EXTENSION", "BUILTIN", "GLOBAL_USER", "EXTENSION_PACKAGEJSON"]
				},
				"file_pattern": {"type": "string", "description": "Glob over the file path (e.g. '**/snippets/go.json')"},
				"name_pattern": {"type": "string", "description": "Regex over the snippet name"},
				"fuzzy": {"type": "boolean", "description": "Rank by fuzzy match of the query instead of substring match"},
				"limit": {"type": "integer", "description": "Max results (default 20)"},
				"offset": {"type": "integer", "description": "Skip this many results"}
			}
		}`),
	}, s.handleSearch)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "refresh_snippets",
		Description: "Rescan snippet files from disk. Without a language every enumerated language is rescanned and deleted files disappear.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"language": {"type": "string", "description": "Only rescan this language"}
			}
		}`),
	}, s.handleRefresh)
}

// jsonResult marshals data to JSON and returns as tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments into a map.
func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

// getStringArg extracts a string argument from parsed args.
func getStringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// getIntArg extracts an integer argument with a default value.
func getIntArg(args map[string]any, key string, defaultVal int) int {
	v, ok := args[key]
	if !ok {
		return defaultVal
	}
	f, ok := v.(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

// getBoolArg extracts a boolean argument from parsed args.
func getBoolArg(args map[string]any, key string) bool {
	v, ok := args[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		return false
	}
	return b
}

type fileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// lastErrors reports the per-file failures of the latest enumeration.
func (s *Server) lastErrors() []fileError {
	errs := s.ex.LastErrors()
	out := make([]fileError, 0, len(errs))
	for _, e := range errs {
		out = append(out, fileError{Path: e.Path, Error: e.Err.Error()})
	}
	return out
}
