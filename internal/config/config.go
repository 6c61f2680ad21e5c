package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read into the config,
// e.g. KANADRILL_SETS or KANADRILL_SETS_DIR.
const EnvPrefix = "KANADRILL_"

// ErrInvalid is returned when the merged configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds the settings for one run of the tool.
type Config struct {
	Sets     string `koanf:"sets"`
	List     bool   `koanf:"list"`
	SetsDir  string `koanf:"sets-dir"`
	SetsGit  string `koanf:"sets-git" validate:"omitempty,giturl"`
	CacheDir string `koanf:"cache-dir" validate:"required"`
	History  string `koanf:"history" validate:"required_if=Stats true"`
	Stats    bool   `koanf:"stats"`
	LogLevel string `koanf:"log-level" validate:"oneof=debug info warn error"`
}

// RegisterFlags defines the command line flags. Their defaults are the
// defaults of the whole configuration.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "Path to a YAML config file")
	fs.StringP("sets", "s", "hiragana", "Comma separated list of sets to study")
	fs.BoolP("list", "l", false, "List available sets and exit")
	fs.String("sets-dir", "", "Directory of extra <name>.csv sets")
	fs.String("sets-git", "", "Git repository of extra <name>.csv sets")
	fs.String("cache-dir", "repos", "Directory git sources are cloned into")
	fs.String("history", "", "SQLite file to log answers to (disabled when empty)")
	fs.Bool("stats", false, "Print per-item accuracy from the history log and exit")
	fs.String("log-level", "warn", "Diagnostic log level: debug, info, warn or error")
}

// Load merges the config file named by the --config flag, the environment
// and the flags, in increasing order of precedence, and validates the result.
func Load(fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("giturl", func(fl validator.FieldLevel) bool {
		return isGitURL(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("config: failed to register giturl validation: %v", err))
	}
	return v
}

var scpURL = regexp.MustCompile(`^[\w.-]+@[\w.-]+:[\w./-]+$`)

// isGitURL accepts http(s) and scp-style (user@host:path) repository URLs.
func isGitURL(s string) bool {
	if scpURL.MatchString(s) {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}

// Validate checks the field constraints of cfg.
func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (cfg Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}
