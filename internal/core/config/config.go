// Package config handles loading, merging and validating auto-assign configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig marks configuration problems that must abort the run.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root configuration structure.
//
// Values come from three layers: an optional remote parent (Extends), an
// optional YAML file, and the action inputs exposed as INPUT_* env vars.
// Later layers override earlier ones.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// Match is the regular expression a title must contain to be assigned.
	Match string `yaml:"match" validate:"required"`

	// Team is the "org/slug" team whose members are candidates.
	Team string `yaml:"team,omitempty" validate:"omitempty,team_ref"`

	// User is a fixed login assigned when no team is configured.
	User string `yaml:"user,omitempty"`

	// DryRun decides without calling the assignees API. Nil means unset.
	DryRun *bool `yaml:"dry_run,omitempty"`

	// Token authorizes issue mutation. OrgToken authorizes team listing.
	Token    string `yaml:"-"`
	OrgToken string `yaml:"-"`

	// Retry configures backoff for team listing.
	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig holds backoff settings for GitHub read calls.
type RetryConfig struct {
	// MaxRetries is nil when unset; an explicit 0 disables retries.
	MaxRetries *int          `yaml:"max_retries,omitempty"`
	BaseDelay  time.Duration `yaml:"base_delay"`
}

// Retries returns the configured retry count, or the default when unset.
func (r RetryConfig) Retries() int {
	if r.MaxRetries == nil {
		return defaultMaxRetries
	}
	return *r.MaxRetries
}

const defaultMaxRetries = 3

// actionInputs mirrors the action inputs GitHub exposes as INPUT_* variables.
// Every input is read as a string; GitHub passes unset optional inputs as "".
type actionInputs struct {
	Match      string `env:"INPUT_MATCH"`
	Team       string `env:"INPUT_TEAM"`
	User       string `env:"INPUT_USER"`
	DryRun     string `env:"INPUT_DRY-RUN"`
	MaxRetries string `env:"INPUT_MAX-RETRIES"`
	Token      string `env:"INPUT_TOKEN"`
	OrgToken   string `env:"INPUT_ORG-TOKEN"`
}

func (in actionInputs) toConfig() (*Config, error) {
	cfg := &Config{
		Match:    in.Match,
		Team:     strings.TrimSpace(in.Team),
		User:     strings.TrimSpace(in.User),
		Token:    in.Token,
		OrgToken: in.OrgToken,
	}

	if v := strings.TrimSpace(in.DryRun); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: dry-run must be true or false, got %q", ErrInvalidConfig, in.DryRun)
		}
		cfg.DryRun = &b
	}

	if v := strings.TrimSpace(in.MaxRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: max-retries must be a non-negative integer, got %q", ErrInvalidConfig, in.MaxRetries)
		}
		cfg.Retry.MaxRetries = &n
	}

	return cfg, nil
}

// TeamRef identifies a team as organization + slug.
type TeamRef struct {
	Org  string
	Slug string
}

// String returns the "org/slug" form.
func (t TeamRef) String() string {
	return t.Org + "/" + t.Slug
}

// Assignment is the compiled, ready-to-use form of Config.
type Assignment struct {
	TitlePattern *regexp.Regexp
	Team         *TeamRef
	User         string
	DryRun       bool
}

// IsDryRun reports whether dry run is enabled.
func (c *Config) IsDryRun() bool {
	return c.DryRun != nil && *c.DryRun
}

// EnableDryRun forces dry run on, overriding file and input values.
func (c *Config) EnableDryRun() {
	enabled := true
	c.DryRun = &enabled
}

// Fetcher retrieves a remote config referenced by Extends.
type Fetcher func(ref string) ([]byte, error)

// Load reads a config file from the given path and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parseRaw(data)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func parseRaw(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Team = strings.TrimSpace(cfg.Team)
	cfg.User = strings.TrimSpace(cfg.User)
	return &cfg, nil
}

// LoadWithInheritance loads a config and resolves a single 'extends' reference.
func LoadWithInheritance(path string, fetcher Fetcher) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if cfg.Extends == "" {
		return cfg, nil
	}
	if fetcher == nil {
		return nil, fmt.Errorf("cannot resolve extends '%s': no fetcher available", cfg.Extends)
	}

	parentData, err := fetcher(cfg.Extends)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
	}

	parentCfg, err := parseRaw(parentData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parent config: %w", err)
	}

	merged := mergeConfigs(parentCfg, cfg)
	merged.applyDefaults()

	return merged, nil
}

// Resolve builds the effective configuration: file (if any) overlaid with
// action inputs from the environment. It does not validate.
func Resolve(path string, fetcher Fetcher) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadWithInheritance(path, fetcher)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// ApplyEnv overlays action inputs (INPUT_* variables) onto the config.
func (c *Config) ApplyEnv() error {
	var in actionInputs
	if err := cleanenv.ReadEnv(&in); err != nil {
		return fmt.Errorf("%w: failed to read action inputs: %v", ErrInvalidConfig, err)
	}
	env, err := in.toConfig()
	if err != nil {
		return err
	}

	merged := mergeConfigs(c, env)
	merged.Token = firstNonEmpty(env.Token, c.Token)
	merged.OrgToken = firstNonEmpty(env.OrgToken, c.OrgToken)
	*c = *merged
	return nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".github/auto-assign.yaml",
		".github/auto-assign.yml",
		".auto-assign.yaml",
		".auto-assign.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// IssueToken returns the token used to mutate issues.
func (c *Config) IssueToken() string {
	return firstNonEmpty(c.Token, os.Getenv("GITHUB_TOKEN"))
}

// TeamToken returns the token used to list team members.
// Listing org teams usually needs a token with read:org, so it may differ from IssueToken.
func (c *Config) TeamToken() string {
	return firstNonEmpty(c.OrgToken, c.IssueToken())
}

// Validate checks field-level constraints. Surrounding whitespace in team
// and user is ignored, so a blank team counts as unset.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c.trimmed()); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describeFieldError(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Compile validates the config and turns it into an Assignment.
func (c *Config) Compile() (*Assignment, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	pattern, err := regexp.Compile(c.Match)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid match pattern %q: %v", ErrInvalidConfig, c.Match, err)
	}

	a := &Assignment{
		TitlePattern: pattern,
		User:         strings.TrimSpace(c.User),
		DryRun:       c.IsDryRun(),
	}

	if ref := strings.TrimSpace(c.Team); ref != "" {
		team, err := ParseTeamRef(ref)
		if err != nil {
			return nil, err
		}
		a.Team = &team
	}

	return a, nil
}

// ParseTeamRef parses "org/slug" into a TeamRef.
func ParseTeamRef(s string) (TeamRef, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return TeamRef{}, fmt.Errorf("%w: team must be of the format org/team-slug, got %q", ErrInvalidConfig, s)
	}
	return TeamRef{Org: parts[0], Slug: parts[1]}, nil
}

func (c *Config) trimmed() *Config {
	t := *c
	t.Team = strings.TrimSpace(t.Team)
	t.User = strings.TrimSpace(t.User)
	return &t
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Retry.MaxRetries == nil {
		n := defaultMaxRetries
		c.Retry.MaxRetries = &n
	}
	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = time.Second
	}
}

// mergeConfigs merges a child config onto a parent config.
// Values set in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent

	if child.Match != "" {
		result.Match = child.Match
	}
	if child.Team != "" {
		result.Team = child.Team
	}
	if child.User != "" {
		result.User = child.User
	}
	if child.DryRun != nil {
		result.DryRun = child.DryRun
	}
	if child.Retry.MaxRetries != nil {
		result.Retry.MaxRetries = child.Retry.MaxRetries
	}
	if child.Retry.BaseDelay != 0 {
		result.Retry.BaseDelay = child.Retry.BaseDelay
	}
	// Extends is never inherited.
	result.Extends = child.Extends

	return &result
}

// ParseExtendsRef parses "org/repo@branch[:path]" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 || orgRepo[0] == "" || orgRepo[1] == "" {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 && branchPath[1] != "" {
		path = branchPath[1]
	} else {
		path = ".github/auto-assign.yaml"
	}

	return org, repo, branch, path, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("team_ref", func(fl validator.FieldLevel) bool {
		_, err := ParseTeamRef(fl.Field().String())
		return err == nil
	})
	return v
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case "team_ref":
		return fmt.Sprintf("team must be of the format org/team-slug, got %q", fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag())
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
