// Package discover walks a repository and finds source files in one of the
// seven host languages the extraction engine supports. It backs the batch
// CLI/MCP repository-scan path.
package discover

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourceprompt/promptscan/internal/lang"
)

// ignoreDirs are directory names skipped during discovery, scoped to the
// tooling these seven host languages actually produce: VCS/editor state
// (.git, .hg, .svn, .idea, .vs, .vscode), Python (.venv, venv, env,
// __pycache__, .mypy_cache, .ruff_cache, .pytest_cache, .tox, .nox, .eggs,
// site-packages, htmlcov), JS/TS (node_modules, bower_components, .npm,
// .yarn, .pnpm-store, .nyc_output, dist, build, out, coverage), Go/PHP
// (vendor), Java (.gradle, .maven, .eclipse, target, obj, bin), C#
// (obj, bin), plus generic build/cache scratch dirs (.cache, .tmp, tmp,
// temp). Unlike the wider set of languages a general-purpose code index
// might walk, there is no Cocoa/Swift (Pods), Rust (target covers both
// Java/Rust but is kept for Java), or Kotlin-only entry here — nothing in
// this engine's scope produces or reads those.
var ignoreDirs = map[string]bool{
	".cache": true, ".eclipse": true, ".eggs": true, ".env": true,
	".git": true, ".gradle": true, ".hg": true, ".idea": true,
	".maven": true, ".mypy_cache": true, ".nox": true, ".npm": true,
	".nyc_output": true, ".pnpm-store": true, ".pytest_cache": true,
	".ruff_cache": true, ".svn": true, ".tmp": true, ".tox": true,
	".venv": true, ".vs": true, ".vscode": true, ".yarn": true,
	"__pycache__": true, "bin": true, "bower_components": true, "build": true,
	"coverage": true, "dist": true, "env": true, "htmlcov": true,
	"node_modules": true, "obj": true, "out": true, "site-packages": true,
	"target": true, "temp": true, "tmp": true, "vendor": true, "venv": true,
}

// FileInfo represents a discovered source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // relative to repo root
	Language lang.Language // detected language
}

// Options configures file discovery.
type Options struct {
	IgnoreFile  string   // path to .promptscanignore file (optional)
	ExtraIgnore []string // additional glob patterns, e.g. from internal/ptconfig
}

// shouldSkipDir returns true if the directory should be skipped during discovery.
func shouldSkipDir(name, rel string, extraIgnore []string) bool {
	if ignoreDirs[name] {
		return true
	}
	for _, pattern := range extraIgnore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Discover walks a repository and returns every file in a supported host
// language. A file is selected by asking internal/lang.LanguageForExtension
// directly — the same lookup the engine uses to pick an adapter — rather
// than first screening out a separately maintained table of compiled-
// artifact suffixes: none of the seven registered extensions collide with
// a compiled-artifact suffix (.pyc, .class, .o, .dll, ...), so that
// screening step was dead weight carried over from a broader-scope indexer
// and is not needed here. Extension matching alone is both necessary and
// sufficient for this engine's language set.
func Discover(ctx context.Context, repoPath string, opts *Options) ([]FileInfo, error) {
	repoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var extraIgnore []string
	if opts != nil && opts.IgnoreFile != "" {
		extraIgnore, _ = loadIgnoreFile(opts.IgnoreFile)
	} else {
		ignPath := filepath.Join(repoPath, ".promptscanignore")
		extraIgnore, _ = loadIgnoreFile(ignPath)
	}
	if opts != nil {
		extraIgnore = append(extraIgnore, opts.ExtraIgnore...)
	}

	var files []FileInfo

	err = filepath.Walk(repoPath, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(repoPath, path)

		if info.IsDir() {
			if shouldSkipDir(info.Name(), rel, extraIgnore) {
				return filepath.SkipDir
			}
			return nil
		}

		l, ok := lang.LanguageForExtension(filepath.Ext(path))
		if !ok {
			return nil
		}
		files = append(files, FileInfo{
			Path:     path,
			RelPath:  filepath.ToSlash(rel),
			Language: l,
		})
		return nil
	})

	return files, err
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}
