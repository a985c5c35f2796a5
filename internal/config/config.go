// Package config resolves orderdesk settings from files, environment and flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tailscale/hujson"
	"golang.org/x/text/language"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config")
)

// Environment variables
const (
	EnvDir   = "ORDERDESK_DIR"
	EnvActor = "ORDERDESK_ACTOR"
)

// FileName is the project config file looked up in the working directory.
const FileName = ".orderdesk.json"

// DefaultDataDir is the data directory name used when nothing overrides it.
const DefaultDataDir = ".orderdesk"

// Config holds all configuration options.
type Config struct {
	DataDir          string `json:"data_dir"`
	PageSize         int    `json:"page_size,omitempty"`
	SearchDebounceMS int    `json:"search_debounce_ms,omitempty"`
	Locale           string `json:"locale,omitempty"`
	Currency         string `json:"currency,omitempty"`
	RowHeight        int    `json:"row_height,omitempty"`
	Overscan         int    `json:"overscan,omitempty"`

	// Resolved values (not serialized)
	EffectiveCwd string  `json:"-"`
	DataDirAbs   string  `json:"-"`
	Actor        string  `json:"-"`
	Sources      Sources `json:"-"`
}

// Sources records which config files were loaded.
type Sources struct {
	Global  string
	Project string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:          DefaultDataDir,
		PageSize:         10,
		SearchDebounceMS: 300,
		Locale:           "nb",
		Currency:         "NOK",
		RowHeight:        56,
		Overscan:         8,
	}
}

// Debounce returns the search debounce delay.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDir    string            // working directory; os.Getwd() when empty
	ConfigPath string            // --config flag value
	DataDir    string            // --dir flag value
	Actor      string            // --actor flag value
	Env        map[string]string // environment variables
}

// Load resolves configuration with the following precedence (highest wins):
//  1. Defaults
//  2. Global user config ($XDG_CONFIG_HOME/orderdesk/config.json)
//  3. Project config (.orderdesk.json) or the explicit --config file
//  4. Environment (ORDERDESK_DIR)
//  5. Flags
//
// When the data directory is left at its default it is searched for in the
// working directory and its parents.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()
	dirChosen := false

	if path := globalPath(input.Env); path != "" {
		global, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}
		if loaded {
			cfg.Sources.Global = path
			dirChosen = dirChosen || global.DataDir != ""
			cfg = merge(cfg, global)
		}
	}

	projectPath := filepath.Join(workDir, FileName)
	mustExist := false
	if input.ConfigPath != "" {
		projectPath = input.ConfigPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}
		mustExist = true
	}
	project, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}
	if loaded {
		cfg.Sources.Project = projectPath
		dirChosen = dirChosen || project.DataDir != ""
		cfg = merge(cfg, project)
	}

	if dir := input.Env[EnvDir]; dir != "" {
		cfg.DataDir = dir
		dirChosen = true
	}
	if input.DataDir != "" {
		cfg.DataDir = input.DataDir
		dirChosen = true
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir
	switch {
	case filepath.IsAbs(cfg.DataDir):
		cfg.DataDirAbs = cfg.DataDir
	case !dirChosen:
		cfg.DataDirAbs = findDataDirFrom(workDir, cfg.DataDir)
	default:
		cfg.DataDirAbs = filepath.Join(workDir, cfg.DataDir)
	}
	cfg.Actor = ResolveActor(input.Actor, input.Env)

	return cfg, nil
}

// Validate rejects settings the view engine cannot run with.
func Validate(cfg Config) error {
	var problems []string
	if strings.TrimSpace(cfg.DataDir) == "" {
		problems = append(problems, "data_dir is empty")
	}
	if cfg.PageSize <= 0 {
		problems = append(problems, fmt.Sprintf("page_size must be positive, got %d", cfg.PageSize))
	}
	if cfg.SearchDebounceMS < 0 {
		problems = append(problems, fmt.Sprintf("search_debounce_ms must not be negative, got %d", cfg.SearchDebounceMS))
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		problems = append(problems, fmt.Sprintf("unknown locale %q", cfg.Locale))
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		problems = append(problems, "currency is empty")
	}
	if cfg.RowHeight < 0 || cfg.Overscan < 0 {
		problems = append(problems, "row_height and overscan must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// ResolveActor determines the actor name for new orders and saved filters.
// Priority: flag > ORDERDESK_ACTOR > USER > "unknown".
func ResolveActor(flagValue string, env map[string]string) string {
	if flagValue != "" {
		return flagValue
	}
	if actor := env[EnvActor]; actor != "" {
		return actor
	}
	if user := env["USER"]; user != "" {
		return user
	}
	return "unknown"
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// globalPath returns $XDG_CONFIG_HOME/orderdesk/config.json, falling back
// to ~/.config. Empty when neither variable is set.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "orderdesk", "config.json")
	}
	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "orderdesk", "config.json")
	}
	return ""
}

// loadFile reads one JSONC config file. Missing optional files are skipped.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
			}
			return Config{}, false, nil
		}
		return Config{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}
	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	dec := json.NewDecoder(strings.NewReader(string(standardized)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

// merge overlays the non-zero fields of overlay onto base.
func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}
	if overlay.PageSize != 0 {
		base.PageSize = overlay.PageSize
	}
	if overlay.SearchDebounceMS != 0 {
		base.SearchDebounceMS = overlay.SearchDebounceMS
	}
	if overlay.Locale != "" {
		base.Locale = overlay.Locale
	}
	if overlay.Currency != "" {
		base.Currency = overlay.Currency
	}
	if overlay.RowHeight != 0 {
		base.RowHeight = overlay.RowHeight
	}
	if overlay.Overscan != 0 {
		base.Overscan = overlay.Overscan
	}
	return base
}

// findDataDirFrom walks from startDir to the root looking for an existing
// directory named name. Falls back to startDir/name.
func findDataDirFrom(startDir, name string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Join(startDir, name)
		}
		dir = parent
	}
}
