// Package ptmcp exposes the extraction engine as MCP tools
// (extract_prompts, scan_repository) so editor/agent tooling can call it
// without shelling out to the CLI. Server is a thin wrapper around
// *mcp.Server with a name→handler map for direct (non-transport)
// invocation.
package ptmcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sourceprompt/promptscan/internal/adapter"
	"github.com/sourceprompt/promptscan/internal/discover"
	"github.com/sourceprompt/promptscan/internal/lang"
	"github.com/sourceprompt/promptscan/internal/promptcache"
	"github.com/sourceprompt/promptscan/internal/promptengine"
	"github.com/sourceprompt/promptscan/internal/ptconfig"
)

// Version is the current release version, referenced by the MCP handshake.
const Version = "0.1.0"

// ErrUnknownTool is wrapped into CallTool's error for a name with no
// registered handler.
var ErrUnknownTool = errors.New("ptmcp: unknown tool")

// extractPromptsArgs is extract_prompts' fixed argument shape. This repo
// registers exactly two tools with exactly two and one string arguments
// respectively, so decoding straight into a typed struct per tool removes
// a layer of dynamic map[string]any lookups that only earns its keep
// across a much larger, more heterogeneous tool surface.
type extractPromptsArgs struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// scanRepositoryArgs is scan_repository's fixed argument shape.
type scanRepositoryArgs struct {
	RepoPath string `json:"repo_path"`
}

// Server wraps the MCP server with promptscan's tool handlers.
type Server struct {
	mcp      *mcp.Server
	cache    *promptcache.Cache
	handlers map[string]mcp.ToolHandler
}

// NewServer creates a new MCP server with extract_prompts and
// scan_repository registered. cache may be nil (no batch extraction cache).
func NewServer(cache *promptcache.Cache) *Server {
	s := &Server{
		cache:    cache,
		handlers: make(map[string]mcp.ToolHandler),
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "promptscan",
			Version: Version,
		},
		&mcp.ServerOptions{},
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server, for wiring a transport.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

func (s *Server) addTool(tool *mcp.Tool, handler mcp.ToolHandler) {
	s.mcp.AddTool(tool, handler)
	s.handlers[tool.Name] = handler
	slog.Debug("mcp.tool.registered", "name", tool.Name)
}

// CallTool invokes a tool handler directly by name, bypassing MCP transport
// — used by cmd/promptscan's CLI mode and by tests.
func (s *Server) CallTool(ctx context.Context, name string, argsJSON json.RawMessage) (*mcp.CallToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if len(argsJSON) == 0 {
		argsJSON = json.RawMessage(`{}`)
	}
	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      name,
			Arguments: argsJSON,
		},
	}
	return handler(ctx, req)
}

func (s *Server) registerTools() {
	s.addTool(&mcp.Tool{
		Name:        "extract_prompts",
		Description: "Extract LLM-prompt string literals from a single source file's contents. Detects string/f-string/template-literal/heredoc/interpolated-string literals assigned to a prompt-looking name or annotated with a leading/inline @prompt comment, across Python, TypeScript/JavaScript, Go, Java, C#, PHP, and Ruby. Returns each prompt's byte span, interpolation variables, annotations, and enclosing statement range.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"filename": {
					"type": "string",
					"description": "File name or path, used only to pick an extension-based language adapter (e.g. 'handler.py')"
				},
				"content": {
					"type": "string",
					"description": "The file's full source text"
				}
			},
			"required": ["filename", "content"]
		}`),
	}, s.handleExtractPrompts)

	s.addTool(&mcp.Tool{
		Name:        "scan_repository",
		Description: "Walk a repository and extract LLM-prompt string literals from every file in a supported host language. Returns one extraction result per file. Honors .promptscanignore and an optional .promptscan.yml at the repository root.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"repo_path": {
					"type": "string",
					"description": "Absolute path to the repository root to scan"
				}
			},
			"required": ["repo_path"]
		}`),
	}, s.handleScanRepository)
}

func (s *Server) handleExtractPrompts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decodeArgs[extractPromptsArgs](req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	if args.Filename == "" {
		return errResult("filename is required"), nil
	}

	l, ok := lang.LanguageForExtension(extOf(args.Filename))
	if !ok {
		return errResult(fmt.Sprintf("unsupported file extension: %s", args.Filename)), nil
	}
	a := adapter.For(l)
	if a == nil {
		return errResult(fmt.Sprintf("no adapter registered for %s", l)), nil
	}

	res, err := promptengine.Extract(ctx, a, args.Filename, []byte(args.Content))
	if err != nil {
		return errResult(err.Error()), nil
	}
	return jsonResult(res), nil
}

func (s *Server) handleScanRepository(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decodeArgs[scanRepositoryArgs](req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	if args.RepoPath == "" {
		return errResult("repo_path is required"), nil
	}
	repoPath := args.RepoPath

	cfg, err := ptconfig.LoadFromDir(repoPath)
	if err != nil {
		return errResult(fmt.Sprintf("load config: %v", err)), nil
	}

	files, err := discover.Discover(ctx, repoPath, &discover.Options{ExtraIgnore: cfg.Ignore})
	if err != nil {
		return errResult(fmt.Sprintf("discover: %v", err)), nil
	}

	results, err := promptengine.ExtractBatch(ctx, files, &promptengine.BatchOptions{
		Cache:        s.cache,
		ExtraMarkers: cfg.ExtraMarkers,
	})
	if err != nil {
		return errResult(err.Error()), nil
	}

	out := make([]map[string]any, 0, len(results))
	for _, r := range results {
		entry := map[string]any{"file": r.File.RelPath}
		if r.Err != nil {
			entry["error"] = r.Err.Error()
		} else {
			entry["result"] = r.Result
		}
		out = append(out, entry)
	}

	return jsonResult(map[string]any{"files": out}), nil
}

func extOf(filename string) string {
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[i:]
		}
		if filename[i] == '/' {
			break
		}
	}
	return ""
}

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

func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// decodeArgs unmarshals a tool call's raw JSON arguments straight into T,
// one struct per tool rather than a shared map[string]any plus per-field
// accessors — the two tools registered here have a fixed, known argument
// shape each, so there is no dynamic-args case to support.
func decodeArgs[T any](req *mcp.CallToolRequest) (T, error) {
	var args T
	raw := req.Params.Arguments
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	return args, nil
}
