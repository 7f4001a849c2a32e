// Package config loads .snippets-explorer.yaml: where snippet files live on
// each platform and how languages are expanded.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DeusData/snippets-explorer/internal/lang"
	"github.com/DeusData/snippets-explorer/internal/pipeline"
)

// FileName is looked up in the project directory.
const FileName = ".snippets-explorer.yaml"

// Config holds user-overridable settings. Unset fields fall back to the
// defaults through the Effective* accessors.
type Config struct {
	// Sources overrides the default directories per GOOS (linux, darwin, windows).
	Sources map[string]PlatformSources `yaml:"sources"`

	// ProjectDirs are workspace roots whose .vscode directory is scanned.
	// Relative entries resolve against the directory holding the config.
	ProjectDirs []string `yaml:"project_dirs"`

	// Insiders switches default paths to the "Code - Insiders" layout.
	Insiders *bool `yaml:"insiders"`

	// IgnoreLanguages are added to the built-in pseudo-language ignore list.
	IgnoreLanguages []string `yaml:"ignore_languages"`

	// Expansions add or replace language expansion entries, e.g. svelte: [svelte, html].
	Expansions map[string][]string `yaml:"expansions"`

	MaxConcurrency   *int           `yaml:"max_concurrency"`
	VerboseReconcile *bool          `yaml:"verbose_reconcile"`
	WatchInterval    *time.Duration `yaml:"watch_interval"`
}

// PlatformSources are the snippet directories of one platform. Empty fields
// keep the default.
type PlatformSources struct {
	UserSnippetsDir string   `yaml:"user_snippets_dir"`
	ExtensionRoots  []string `yaml:"extension_roots"`
	BuiltinRoots    []string `yaml:"builtin_roots"`
	// AppRoot is the editor's install directory; the portable snippets
	// directory is derived from it.
	AppRoot string `yaml:"app_root"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig reads FileName from dir. Returns the default config if the
// file doesn't exist or is not valid YAML.
func LoadConfig(dir string) *Config {
	cfg, err := LoadFile(filepath.Join(dir, FileName))
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// LoadFile reads an explicit config file. Unlike LoadConfig it reports
// missing files and bad YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// EffectiveMaxConcurrency returns the configured scan limit, or 0 (unbounded).
func (c *Config) EffectiveMaxConcurrency() int {
	if c.MaxConcurrency != nil && *c.MaxConcurrency > 0 {
		return *c.MaxConcurrency
	}
	return 0
}

// EffectiveVerboseReconcile returns the configured setting, or the default (true).
func (c *Config) EffectiveVerboseReconcile() bool {
	if c.VerboseReconcile != nil {
		return *c.VerboseReconcile
	}
	return true
}

// EffectiveWatchInterval returns the configured base poll interval, or 2s.
func (c *Config) EffectiveWatchInterval() time.Duration {
	if c.WatchInterval != nil && *c.WatchInterval > 0 {
		return *c.WatchInterval
	}
	return 2 * time.Second
}

// EffectiveInsiders reports whether Insiders paths are used.
func (c *Config) EffectiveInsiders() bool {
	return c.Insiders != nil && *c.Insiders
}

// Apply registers the configured expansions and ignored language ids.
func (c *Config) Apply() {
	for id, related := range c.Expansions {
		lang.Register(&lang.LanguageSpec{ID: id, Related: related})
	}
	lang.Ignore(c.IgnoreLanguages...)
}

// Resolve builds the scan sources for goos. Configured directories replace
// the platform defaults field by field; "~" and $VARS are expanded with
// getenv. baseDir anchors relative project dirs.
func (c *Config) Resolve(goos string, getenv func(string) string, baseDir string) pipeline.Sources {
	ps := DefaultSources(goos, getenv, c.EffectiveInsiders())
	if o, ok := c.Sources[goos]; ok {
		if o.UserSnippetsDir != "" {
			ps.UserSnippetsDir = o.UserSnippetsDir
		}
		if len(o.ExtensionRoots) > 0 {
			ps.ExtensionRoots = o.ExtensionRoots
		}
		if len(o.BuiltinRoots) > 0 {
			ps.BuiltinRoots = o.BuiltinRoots
		}
		if o.AppRoot != "" {
			ps.AppRoot = o.AppRoot
		}
	}

	src := pipeline.Sources{
		UserSnippetsDir: expandPath(ps.UserSnippetsDir, getenv),
		ExtensionRoots:  expandAll(ps.ExtensionRoots, getenv),
		BuiltinRoots:    expandAll(ps.BuiltinRoots, getenv),
	}
	if app := expandPath(ps.AppRoot, getenv); app != "" {
		src.PortableSnippetsDir = pipeline.PortableSnippetsDir(app, goos)
	}
	projects := c.ProjectDirs
	if len(projects) == 0 {
		projects = []string{"."}
	}
	for _, p := range expandAll(projects, getenv) {
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		src.ProjectDirs = append(src.ProjectDirs, filepath.Clean(p))
	}
	return src
}

// DefaultSources returns where a stock editor install keeps snippets on goos.
func DefaultSources(goos string, getenv func(string) string, insiders bool) PlatformSources {
	product := "Code"
	if insiders {
		product = "Code - Insiders"
	}
	home := homeDir(getenv)
	extDir := ".vscode"
	if insiders {
		extDir = ".vscode-insiders"
	}

	var ps PlatformSources
	switch goos {
	case "darwin":
		ps.UserSnippetsDir = filepath.Join(home, "Library", "Application Support", product, "User", "snippets")
		app := "Visual Studio Code.app"
		if insiders {
			app = "Visual Studio Code - Insiders.app"
		}
		ps.AppRoot = filepath.Join("/Applications", app, "Contents", "Resources", "app")
	case "windows":
		ps.UserSnippetsDir = filepath.Join(getenv("APPDATA"), product, "User", "snippets")
		install := "Microsoft VS Code"
		if insiders {
			install = "Microsoft VS Code Insiders"
		}
		ps.AppRoot = filepath.Join(getenv("LOCALAPPDATA"), "Programs", install, "resources", "app")
	default:
		ps.UserSnippetsDir = filepath.Join(home, ".config", product, "User", "snippets")
		install := "code"
		if insiders {
			install = "code-insiders"
		}
		ps.AppRoot = filepath.Join("/usr", "share", install, "resources", "app")
	}
	ps.ExtensionRoots = []string{filepath.Join(home, extDir, "extensions")}
	ps.BuiltinRoots = []string{filepath.Join(ps.AppRoot, "extensions")}
	return ps
}

func homeDir(getenv func(string) string) string {
	if h := getenv("HOME"); h != "" {
		return h
	}
	return getenv("USERPROFILE")
}

func expandPath(p string, getenv func(string) string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		p = filepath.Join(homeDir(getenv), p[1:])
	}
	return os.Expand(p, getenv)
}

func expandAll(paths []string, getenv func(string) string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = expandPath(p, getenv); p != "" {
			out = append(out, p)
		}
	}
	return out
}
