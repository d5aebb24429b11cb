package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sourceprompt/promptscan/internal/promptcache"
	"github.com/sourceprompt/promptscan/internal/ptmcp"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println("promptscan", version)
		os.Exit(0)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "extract":
		os.Exit(runExtract(os.Args[2:]))
	case "scan":
		os.Exit(runScan(os.Args[2:]))
	case "serve":
		os.Exit(runServe())
	case "--help", "-h", "help":
		usage()
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: promptscan <command> [args]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  extract [--json] <file>        extract prompts from a single file")
	fmt.Fprintln(os.Stderr, "  scan [--json] <repo_path>       walk a repository and extract prompts from every file")
	fmt.Fprintln(os.Stderr, "  serve                          run the MCP server over stdio")
}

func openCache() *promptcache.Cache {
	c, err := promptcache.Open()
	if err != nil {
		slogWarnCacheUnavailable(err)
		return nil
	}
	return c
}

// slogWarnCacheUnavailable logs to stderr rather than pulling in log/slog
// configuration for a one-off CLI warning; an unavailable cache degrades to
// uncached extraction, never a hard failure.
func slogWarnCacheUnavailable(err error) {
	fmt.Fprintf(os.Stderr, "warning: extraction cache unavailable, continuing uncached: %v\n", err)
}

func runExtract(args []string) int {
	asJSON, positional := splitJSONFlag(args)
	if len(positional) != 1 {
		fmt.Fprintln(os.Stderr, "usage: promptscan extract [--json] <file>")
		return 1
	}
	path := positional[0]

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	srv := ptmcp.NewServer(nil)
	toolArgs, _ := json.Marshal(map[string]string{"filename": path, "content": string(content)})
	result, err := srv.CallTool(context.Background(), "extract_prompts", toolArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return printToolResult(result, asJSON)
}

func runScan(args []string) int {
	asJSON, positional := splitJSONFlag(args)
	if len(positional) != 1 {
		fmt.Fprintln(os.Stderr, "usage: promptscan scan [--json] <repo_path>")
		return 1
	}
	repoPath := positional[0]

	cache := openCache()
	if cache != nil {
		defer cache.Close()
	}

	srv := ptmcp.NewServer(cache)
	toolArgs, _ := json.Marshal(map[string]string{"repo_path": repoPath})
	result, err := srv.CallTool(context.Background(), "scan_repository", toolArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return printToolResult(result, asJSON)
}

func runServe() int {
	cache := openCache()
	if cache != nil {
		defer cache.Close()
	}

	srv := ptmcp.NewServer(cache)
	if err := srv.MCPServer().Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Printf("server err=%v", err)
		return 1
	}
	return 0
}

func splitJSONFlag(args []string) (asJSON bool, positional []string) {
	for _, a := range args {
		if a == "--json" {
			asJSON = true
			continue
		}
		positional = append(positional, a)
	}
	return asJSON, positional
}

func printToolResult(result *mcp.CallToolResult, asJSON bool) int {
	var text string
	for _, c := range result.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			text = tc.Text
			break
		}
	}

	if result.IsError {
		fmt.Fprintf(os.Stderr, "error: %s\n", text)
		return 1
	}

	if asJSON {
		fmt.Println(text)
		return 0
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		fmt.Println(text)
		return 0
	}
	printSummary(data)
	return 0
}

// printSummary prints a human-friendly one-line-per-prompt summary; --json
// is available for the full record.
func printSummary(data map[string]any) {
	if prompts, ok := data["prompts"].([]any); ok {
		printPromptsSummary(prompts)
		return
	}
	if files, ok := data["files"].([]any); ok {
		printFilesSummary(files)
		return
	}
	b, _ := json.MarshalIndent(data, "", "  ")
	fmt.Println(string(b))
}

func printPromptsSummary(prompts []any) {
	fmt.Printf("%d prompt(s) found\n", len(prompts))
	for _, p := range prompts {
		pm, ok := p.(map[string]any)
		if !ok {
			continue
		}
		span, _ := pm["span"].(map[string]any)
		outer, _ := span["outer"].(map[string]any)
		vars, _ := pm["vars"].([]any)
		fmt.Printf("  [%v,%v)  %d var(s)\n", outer["start"], outer["end"], len(vars))
	}
}

func printFilesSummary(files []any) {
	total := 0
	for _, f := range files {
		fm, ok := f.(map[string]any)
		if !ok {
			continue
		}
		file, _ := fm["file"].(string)
		if errMsg, ok := fm["error"].(string); ok {
			fmt.Printf("  %s: error: %s\n", file, errMsg)
			continue
		}
		res, _ := fm["result"].(map[string]any)
		prompts, _ := res["prompts"].([]any)
		total += len(prompts)
		if len(prompts) > 0 {
			fmt.Printf("  %s: %d prompt(s)\n", file, len(prompts))
		}
	}
	fmt.Printf("%d prompt(s) total across %d file(s)\n", total, len(files))
}
