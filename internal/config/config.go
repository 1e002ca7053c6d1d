// Package config resolves uvd configuration from layered JSONC files and
// command line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/uvd/pkg/drafts"
)

// Config errors.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrStateDirEmpty      = errors.New("state-dir cannot be empty")
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrInvalidCacheSize   = errors.New("workspace_cache_size must be positive")
)

// FileName is the project config file name.
const FileName = ".uvd.json"

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	StateDir           string            `json:"state_dir"`
	Origin             string            `json:"origin,omitempty"`
	UltraMode          bool              `json:"ultra_mode,omitempty"`
	Workspaces         map[string]string `json:"workspaces,omitempty"`
	BridgeAddr         string            `json:"bridge_addr,omitempty"`
	DashboardURL       string            `json:"dashboard_url,omitempty"`
	OpenCommand        string            `json:"open_command,omitempty"`
	WorkspaceCacheSize int               `json:"workspace_cache_size,omitempty"`
	WorkspaceCacheTTL  string            `json:"workspace_cache_ttl,omitempty"`

	// Resolved (computed, not serialized)
	EffectiveCwd string        `json:"-"`
	StateDirAbs  string        `json:"-"`
	CacheTTL     time.Duration `json:"-"`

	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project or explicit config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		StateDir:           ".uvd",
		Origin:             drafts.DefaultOrigin,
		BridgeAddr:         "127.0.0.1:8791",
		OpenCommand:        "xdg-open",
		WorkspaceCacheSize: 256,
		WorkspaceCacheTTL:  "5m",
	}
}

// globalPath returns $XDG_CONFIG_HOME/uvd/config.json, falling back to
// ~/.config/uvd/config.json. Empty if neither variable is set.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "uvd", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "uvd", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride  string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath       string            // -c/--config flag value
	StateDirOverride *string           // --state-dir flag value; nil means not given
	Env              map[string]string // environment variables
}

// layer is one parsed config file. keys holds the raw top-level members so
// that explicitly set zero values can be told apart from missing ones.
type layer struct {
	cfg  Config
	keys map[string]any
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config
// 3. Project config file (.uvd.json, if exists)
// 4. Explicit config file via ConfigPath
// 5. CLI overrides.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolving working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	global, path, err := loadGlobal(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = path
	cfg = merge(cfg, global)

	project, path, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = path
	cfg = merge(cfg, project)

	if input.StateDirOverride != nil {
		cfg.StateDir = *input.StateDirOverride
	}

	err = resolve(&cfg, workDir)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadGlobal(env map[string]string) (layer, string, error) {
	path := globalPath(env)
	if path == "" {
		return layer{}, "", nil
	}

	l, loaded, err := loadFile(path, false)
	if err != nil || !loaded {
		return layer{}, "", err
	}

	return l, path, nil
}

// loadProject loads the explicit config file, or .uvd.json in workDir if
// none was given. Only the explicit file must exist.
func loadProject(workDir, configPath string) (layer, string, error) {
	path := filepath.Join(workDir, FileName)
	mustExist := false

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		mustExist = true

		_, statErr := os.Stat(path)
		if statErr != nil {
			return layer{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	}

	l, loaded, err := loadFile(path, mustExist)
	if err != nil || !loaded {
		return layer{}, "", err
	}

	return l, path, nil
}

func loadFile(path string, mustExist bool) (layer, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return layer{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return layer{}, false, nil
	}

	l, err := parse(data)
	if err != nil {
		return layer{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if v, ok := l.keys["state_dir"].(string); ok && v == "" {
		return layer{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrStateDirEmpty)
	}

	return l, true, nil
}

func parse(data []byte) (layer, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return layer{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var l layer

	err = json.Unmarshal(standardized, &l.cfg)
	if err != nil {
		return layer{}, fmt.Errorf("invalid JSON: %w", err)
	}

	_ = json.Unmarshal(standardized, &l.keys)

	return l, nil
}

func merge(base Config, overlay layer) Config {
	o := overlay.cfg

	if o.StateDir != "" {
		base.StateDir = o.StateDir
	}

	if o.Origin != "" {
		base.Origin = o.Origin
	}

	if _, ok := overlay.keys["ultra_mode"]; ok {
		base.UltraMode = o.UltraMode
	}

	if len(o.Workspaces) > 0 {
		merged := make(map[string]string, len(base.Workspaces)+len(o.Workspaces))
		maps.Copy(merged, base.Workspaces)
		maps.Copy(merged, o.Workspaces)
		base.Workspaces = merged
	}

	if o.BridgeAddr != "" {
		base.BridgeAddr = o.BridgeAddr
	}

	if o.DashboardURL != "" {
		base.DashboardURL = o.DashboardURL
	}

	if o.OpenCommand != "" {
		base.OpenCommand = o.OpenCommand
	}

	if _, ok := overlay.keys["workspace_cache_size"]; ok {
		base.WorkspaceCacheSize = o.WorkspaceCacheSize
	}

	if o.WorkspaceCacheTTL != "" {
		base.WorkspaceCacheTTL = o.WorkspaceCacheTTL
	}

	return base
}

// resolve validates cfg and fills in the computed fields.
func resolve(cfg *Config, workDir string) error {
	if cfg.StateDir == "" {
		return ErrStateDirEmpty
	}

	if cfg.WorkspaceCacheSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, cfg.WorkspaceCacheSize)
	}

	ttl, err := time.ParseDuration(cfg.WorkspaceCacheTTL)
	if err != nil || ttl < 0 {
		return fmt.Errorf("%w: workspace_cache_ttl %q", ErrInvalidDuration, cfg.WorkspaceCacheTTL)
	}

	cfg.CacheTTL = ttl
	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.StateDir) {
		cfg.StateDirAbs = cfg.StateDir
	} else {
		cfg.StateDirAbs = filepath.Join(workDir, cfg.StateDir)
	}

	return nil
}
