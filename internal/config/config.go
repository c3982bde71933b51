package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dshills/prgate/internal/redact"
	"gopkg.in/yaml.v3"
)

// Config represents the prgate configuration.
type Config struct {
	Provider              string          `json:"provider" toml:"provider" yaml:"provider"`
	Models                ModelsConfig    `json:"models" toml:"models" yaml:"models"`
	MaxTokens             MaxTokensConfig `json:"maxTokens" toml:"maxTokens" yaml:"maxTokens"`
	GatewayTimeoutSeconds int             `json:"gatewayTimeoutSeconds" toml:"gatewayTimeoutSeconds" yaml:"gatewayTimeoutSeconds"`
	MaxAutoFixIterations  int             `json:"maxAutoFixIterations" toml:"maxAutoFixIterations" yaml:"maxAutoFixIterations"`
	ArtifactDir           string          `json:"artifactDir" toml:"artifactDir" yaml:"artifactDir"`
	Exclude               []string        `json:"exclude" toml:"exclude" yaml:"exclude"`
	GitHub                GitHubConfig    `json:"github" toml:"github" yaml:"github"`
	Labels                LabelsConfig    `json:"labels" toml:"labels" yaml:"labels"`
	Paths                 PathsConfig     `json:"paths" toml:"paths" yaml:"paths"`
	Cache                 CacheConfig     `json:"cache" toml:"cache" yaml:"cache"`
	Privacy               PrivacyConfig   `json:"privacy" toml:"privacy" yaml:"privacy"`
}

// MaxTokensConfig bounds the response length of each generative call site.
// Auto-fix and backlog replies carry whole files and documents.
type MaxTokensConfig struct {
	Review  int `json:"review" toml:"review" yaml:"review"`
	AutoFix int `json:"autofix" toml:"autofix" yaml:"autofix"`
	Backlog int `json:"backlog" toml:"backlog" yaml:"backlog"`
}

// ModelsConfig holds the model identifier used by each generative call site.
type ModelsConfig struct {
	Fast        string `json:"fast" toml:"fast" yaml:"fast"`
	Deep        string `json:"deep" toml:"deep" yaml:"deep"`
	Independent string `json:"independent" toml:"independent" yaml:"independent"`
	AutoFix     string `json:"autofix" toml:"autofix" yaml:"autofix"`
	Backlog     string `json:"backlog" toml:"backlog" yaml:"backlog"`
}

// ForPass returns the model configured for a review pass, or "" for an
// unknown pass.
func (m ModelsConfig) ForPass(pass string) string {
	switch pass {
	case "fast":
		return m.Fast
	case "deep":
		return m.Deep
	case "independent":
		return m.Independent
	default:
		return ""
	}
}

// GitHubConfig locates the repository, pull request and project.
type GitHubConfig struct {
	Owner         string `json:"owner,omitempty" toml:"owner" yaml:"owner,omitempty"`
	Repo          string `json:"repo,omitempty" toml:"repo" yaml:"repo,omitempty"`
	ProjectNumber int    `json:"projectNumber,omitempty" toml:"projectNumber" yaml:"projectNumber,omitempty"`
	PRNumber      int    `json:"prNumber,omitempty" toml:"prNumber" yaml:"prNumber,omitempty"`
	BaseRef       string `json:"baseRef,omitempty" toml:"baseRef" yaml:"baseRef,omitempty"`
}

// LabelsConfig is the label taxonomy used by the backlog flow.
type LabelsConfig struct {
	Areas      []string `json:"areas" toml:"areas" yaml:"areas"`
	Priorities []string `json:"priorities" toml:"priorities" yaml:"priorities"`
	Sizes      []string `json:"sizes" toml:"sizes" yaml:"sizes"`
}

// PathsConfig holds default document paths for the backlog flow.
type PathsConfig struct {
	Spec string `json:"spec" toml:"spec" yaml:"spec"`
	Plan string `json:"plan" toml:"plan" yaml:"plan"`
}

// CacheConfig controls caching of gateway responses.
type CacheConfig struct {
	Enabled    bool   `json:"enabled" toml:"enabled" yaml:"enabled"`
	Dir        string `json:"dir,omitempty" toml:"dir" yaml:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds" toml:"ttlSeconds" yaml:"ttlSeconds"`
}

// PrivacyConfig controls privacy/redaction behavior.
type PrivacyConfig struct {
	// RedactSecrets is nil when unset, which means on.
	RedactSecrets *bool    `json:"redactSecrets,omitempty" toml:"redactSecrets,omitempty" yaml:"redactSecrets,omitempty"`
	RedactPaths   []string `json:"redactPaths,omitempty" toml:"redactPaths,omitempty" yaml:"redactPaths,omitempty"`
}

// Redacts reports whether secrets are redacted before anything reaches a
// gateway.
func (p PrivacyConfig) Redacts() bool {
	return p.RedactSecrets == nil || *p.RedactSecrets
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider: "anthropic",
		Models: ModelsConfig{
			Fast:        "claude-haiku-4-5",
			Deep:        "claude-opus-4-1",
			Independent: "claude-sonnet-4-5",
			AutoFix:     "claude-sonnet-4-5",
			Backlog:     "claude-sonnet-4-5",
		},
		MaxTokens: MaxTokensConfig{
			Review:  8000,
			AutoFix: 16000,
			Backlog: 16000,
		},
		GatewayTimeoutSeconds: 300,
		MaxAutoFixIterations:  3,
		ArtifactDir:           ".",
		Exclude:               []string{"vendor/**", "**/*.lock", "**/dist/**"},
		Labels: LabelsConfig{
			Areas:      []string{"frontend", "backend", "infrastructure", "database", "documentation"},
			Priorities: []string{"high", "medium", "low"},
			Sizes:      []string{"S", "M", "L"},
		},
		Paths: PathsConfig{
			Spec: "docs/spec.md",
			Plan: "docs/plan.md",
		},
		Cache: CacheConfig{
			Enabled:    false,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: boolPtr(true),
			RedactPaths:   append([]string(nil), redact.DefaultPaths...),
		},
	}
}

// localConfigNames are looked up in the working directory, in order.
var localConfigNames = []string{".prgate.json", ".prgate.toml", ".prgate.yaml", ".prgate.yml"}

// ConfigDir returns the platform-appropriate config directory for prgate.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "prgate"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "prgate"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "prgate"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "prgate"), nil
	default:
		return filepath.Join(home, ".config", "prgate"), nil
	}
}

// ConfigPath returns the config file that Load reads: PRGATE_CONFIG, then the
// first repository-local .prgate.* file, then the user config file.
func ConfigPath() (string, error) {
	if p := os.Getenv("PRGATE_CONFIG"); p != "" {
		return p, nil
	}
	for _, name := range localConfigNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return UserConfigPath()
}

// UserConfigPath returns the path of the per-user config file.
func UserConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return ReadFile(path)
}

// ReadFile decodes the file at path, choosing the format by extension
// (.toml, .yaml/.yml, anything else JSON). A missing file yields a zero Config.
func ReadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Save writes the config as JSON to the user config file.
func Save(cfg Config) error {
	path, err := UserConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	mergeString(&dst.Models.Fast, src.Models.Fast)
	mergeString(&dst.Models.Deep, src.Models.Deep)
	mergeString(&dst.Models.Independent, src.Models.Independent)
	mergeString(&dst.Models.AutoFix, src.Models.AutoFix)
	mergeString(&dst.Models.Backlog, src.Models.Backlog)
	mergeInt(&dst.MaxTokens.Review, src.MaxTokens.Review)
	mergeInt(&dst.MaxTokens.AutoFix, src.MaxTokens.AutoFix)
	mergeInt(&dst.MaxTokens.Backlog, src.MaxTokens.Backlog)
	if src.GatewayTimeoutSeconds > 0 {
		dst.GatewayTimeoutSeconds = src.GatewayTimeoutSeconds
	}
	if src.MaxAutoFixIterations > 0 {
		dst.MaxAutoFixIterations = src.MaxAutoFixIterations
	}
	mergeString(&dst.ArtifactDir, src.ArtifactDir)
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	mergeString(&dst.GitHub.Owner, src.GitHub.Owner)
	mergeString(&dst.GitHub.Repo, src.GitHub.Repo)
	mergeString(&dst.GitHub.BaseRef, src.GitHub.BaseRef)
	if src.GitHub.ProjectNumber > 0 {
		dst.GitHub.ProjectNumber = src.GitHub.ProjectNumber
	}
	if src.GitHub.PRNumber > 0 {
		dst.GitHub.PRNumber = src.GitHub.PRNumber
	}
	if len(src.Labels.Areas) > 0 {
		dst.Labels.Areas = src.Labels.Areas
	}
	if len(src.Labels.Priorities) > 0 {
		dst.Labels.Priorities = src.Labels.Priorities
	}
	if len(src.Labels.Sizes) > 0 {
		dst.Labels.Sizes = src.Labels.Sizes
	}
	mergeString(&dst.Paths.Spec, src.Paths.Spec)
	mergeString(&dst.Paths.Plan, src.Paths.Plan)
	mergeString(&dst.Cache.Dir, src.Cache.Dir)
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	// A zero bool cannot be told apart from "unset", so the file can only
	// switch caching on.
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	if src.Privacy.RedactSecrets != nil {
		dst.Privacy.RedactSecrets = boolPtr(*src.Privacy.RedactSecrets)
	}
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeInt(dst *int, src int) {
	if src > 0 {
		*dst = src
	}
}

func boolPtr(b bool) *bool { return &b }

// splitList parses a comma-separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func mergeEnv(cfg *Config) error {
	strs := map[string]*string{
		"PRGATE_PROVIDER":          &cfg.Provider,
		"PRGATE_MODEL_FAST":        &cfg.Models.Fast,
		"PRGATE_MODEL_DEEP":        &cfg.Models.Deep,
		"PRGATE_MODEL_INDEPENDENT": &cfg.Models.Independent,
		"PRGATE_MODEL_AUTOFIX":     &cfg.Models.AutoFix,
		"PRGATE_MODEL_BACKLOG":     &cfg.Models.Backlog,
		"PRGATE_ARTIFACT_DIR":      &cfg.ArtifactDir,
		"PRGATE_SPEC_PATH":         &cfg.Paths.Spec,
		"PRGATE_PLAN_PATH":         &cfg.Paths.Plan,
		"GITHUB_BASE_REF":          &cfg.GitHub.BaseRef,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PRGATE_MAX_TOKENS_REVIEW":      &cfg.MaxTokens.Review,
		"PRGATE_MAX_TOKENS_AUTOFIX":     &cfg.MaxTokens.AutoFix,
		"PRGATE_MAX_TOKENS_BACKLOG":     &cfg.MaxTokens.Backlog,
		"PRGATE_GATEWAY_TIMEOUT":        &cfg.GatewayTimeoutSeconds,
		"PRGATE_MAX_AUTOFIX_ITERATIONS": &cfg.MaxAutoFixIterations,
		"PRGATE_PROJECT_NUMBER":         &cfg.GitHub.ProjectNumber,
		"PR_NUMBER":                     &cfg.GitHub.PRNumber,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		*dst = n
	}

	if v := os.Getenv("PRGATE_REDACT_SECRETS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PRGATE_REDACT_SECRETS must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = &b
	}
	if v := os.Getenv("PRGATE_REDACT_PATHS"); v != "" {
		cfg.Privacy.RedactPaths = splitList(v)
	}

	if v := os.Getenv("GITHUB_REPOSITORY"); v != "" {
		owner, repo, ok := strings.Cut(v, "/")
		if !ok || owner == "" || repo == "" {
			return fmt.Errorf("GITHUB_REPOSITORY must be owner/repo, got %q", v)
		}
		cfg.GitHub.Owner = owner
		cfg.GitHub.Repo = repo
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "models.fast":
		cfg.Models.Fast = value
	case "models.deep":
		cfg.Models.Deep = value
	case "models.independent":
		cfg.Models.Independent = value
	case "models.autofix":
		cfg.Models.AutoFix = value
	case "models.backlog":
		cfg.Models.Backlog = value
	case "artifactDir":
		cfg.ArtifactDir = value
	case "github.owner":
		cfg.GitHub.Owner = value
	case "github.repo":
		cfg.GitHub.Repo = value
	case "github.baseRef":
		cfg.GitHub.BaseRef = value
	case "paths.spec":
		cfg.Paths.Spec = value
	case "paths.plan":
		cfg.Paths.Plan = value
	case "exclude":
		cfg.Exclude = splitList(value)
	case "labels.areas":
		cfg.Labels.Areas = splitList(value)
	case "labels.priorities":
		cfg.Labels.Priorities = splitList(value)
	case "labels.sizes":
		cfg.Labels.Sizes = splitList(value)
	case "privacy.redactPaths":
		cfg.Privacy.RedactPaths = splitList(value)
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		cfg.Privacy.RedactSecrets = &b
	case "maxTokens.review", "maxTokens.autofix", "maxTokens.backlog", "gatewayTimeoutSeconds", "maxAutoFixIterations", "github.projectNumber", "github.prNumber":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		setIntField(cfg, key, n)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func setIntField(cfg *Config, key string, n int) {
	switch key {
	case "maxTokens.review":
		cfg.MaxTokens.Review = n
	case "maxTokens.autofix":
		cfg.MaxTokens.AutoFix = n
	case "maxTokens.backlog":
		cfg.MaxTokens.Backlog = n
	case "gatewayTimeoutSeconds":
		cfg.GatewayTimeoutSeconds = n
	case "maxAutoFixIterations":
		cfg.MaxAutoFixIterations = n
	case "github.projectNumber":
		cfg.GitHub.ProjectNumber = n
	case "github.prNumber":
		cfg.GitHub.PRNumber = n
	}
}
