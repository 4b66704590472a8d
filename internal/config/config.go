package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort               = 5000
	defaultEnv                = EnvDevelopment
	DefaultSecretKey          = "secret string"
	defaultBaseURL            = "http://localhost:5000"
	defaultPostPerPage        = 10
	defaultManagePostPerPage  = 15
	defaultCommentPerPage     = 15
	defaultSlowQueryThreshold = time.Second
	defaultRateLimitMax       = 5
	defaultRateLimitWindow    = time.Minute
	defaultSubjectPrefix      = "[Bluelog]"
	defaultDevSQLitePath      = "data-dev.db"
	defaultProdSQLitePath     = "data.db"
	defaultUploadsDir         = "uploads"
)

var defaultThemes = []Theme{
	{Key: "perfect_blue", Name: "Perfect Blue"},
	{Key: "black_swan", Name: "Black Swan"},
}

var defaultImageExtensions = []string{"png", "jpg", "jpeg", "gif"}

// Load reads the YAML config at configPath, applies environment overrides and
// validates the result. A missing file at the default path yields the defaults.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != "" && path != DefaultConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	raw := rawAppConfig{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnvOverrides(&raw)
	cfg := defaultAppConfig(normalizeEnv(raw.Env))
	applyRawAppConfig(&cfg, raw)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

// Default returns the configuration for env without reading any file.
func Default(env string) *AppConfig {
	cfg := defaultAppConfig(normalizeEnv(env))
	applyRawAppConfig(&cfg, rawAppConfig{})
	return &cfg
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env == EnvDevelopment }

// IsTesting reports whether the app runs in testing mode.
func (c *AppConfig) IsTesting() bool { return c.Env == EnvTesting }

// ThemeName returns the display name of a theme key and whether it is known.
func (c *AppConfig) ThemeName(key string) (string, bool) {
	for _, t := range c.Blog.Themes {
		if t.Key == key {
			return t.Name, true
		}
	}
	return "", false
}

// DefaultTheme is the first configured theme.
func (c *AppConfig) DefaultTheme() string {
	if len(c.Blog.Themes) == 0 {
		return ""
	}
	return c.Blog.Themes[0].Key
}

// AllowedImage reports whether the file extension (without dot) may be uploaded.
func (c *AppConfig) AllowedImage(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	for _, e := range c.Blog.AllowedImageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func defaultAppConfig(env string) AppConfig {
	cfg := AppConfig{
		Port:               defaultPort,
		Env:                env,
		SecretKey:          DefaultSecretKey,
		BaseURL:            defaultBaseURL,
		SlowQueryThreshold: defaultSlowQueryThreshold,
		CSRFEnabled:        true,
		Mail: MailConfig{
			Port:          587,
			SubjectPrefix: defaultSubjectPrefix,
		},
		Blog: BlogConfig{
			PostPerPage:            defaultPostPerPage,
			ManagePostPerPage:      defaultManagePostPerPage,
			CommentPerPage:         defaultCommentPerPage,
			Themes:                 append([]Theme(nil), defaultThemes...),
			AllowedImageExtensions: append([]string(nil), defaultImageExtensions...),
		},
		RateLimit: RateLimitConfig{
			Max:    defaultRateLimitMax,
			Window: defaultRateLimitWindow,
		},
		Paths: RuntimePathsConfig{
			Uploads: defaultUploadsDir,
		},
	}

	switch env {
	case EnvTesting:
		cfg.Database = DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"}
		cfg.CSRFEnabled = false
	case EnvProduction:
		cfg.Database = DatabaseConfig{Driver: DriverSQLite, Path: defaultProdSQLitePath}
	default:
		cfg.Database = DatabaseConfig{Driver: DriverSQLite, Path: defaultDevSQLitePath}
	}
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.SecretKey); v != "" {
		cfg.SecretKey = v
	}
	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.RedisURL = v
	}
	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.Paths.Uploads); v != "" {
		cfg.Paths.Uploads = v
	}
	cfg.Mail = applyRawMailConfig(cfg.Mail, raw.Mail)
	if v := strings.TrimSpace(raw.AdminEmail); v != "" {
		cfg.AdminEmail = v
	}

	if raw.Blog.PostPerPage > 0 {
		cfg.Blog.PostPerPage = raw.Blog.PostPerPage
	}
	if raw.Blog.ManagePostPerPage > 0 {
		cfg.Blog.ManagePostPerPage = raw.Blog.ManagePostPerPage
	}
	if raw.Blog.CommentPerPage > 0 {
		cfg.Blog.CommentPerPage = raw.Blog.CommentPerPage
	}
	if len(raw.Blog.Themes) > 0 {
		cfg.Blog.Themes = normalizeThemes(raw.Blog.Themes)
	}
	if len(raw.Blog.AllowedImageExtensions) > 0 {
		cfg.Blog.AllowedImageExtensions = normalizeExtensions(raw.Blog.AllowedImageExtensions)
	}

	if raw.SlowQueryThreshold != nil {
		cfg.SlowQueryThreshold = *raw.SlowQueryThreshold
	}
	if raw.CSRF != nil {
		cfg.CSRFEnabled = *raw.CSRF
	}
	if raw.RateLimit.Max != 0 {
		cfg.RateLimit.Max = raw.RateLimit.Max
	}
	if raw.RateLimit.Window != nil && *raw.RateLimit.Window > 0 {
		cfg.RateLimit.Window = *raw.RateLimit.Window
	}
	cfg.Paths = normalizeRuntimePaths(cfg.Paths)
}

func applyRawDatabaseConfig(current DatabaseConfig, raw rawAppConfig) DatabaseConfig {
	cfg := current
	db := raw.Database

	if v := strings.TrimSpace(db.Driver); v != "" {
		cfg.Driver = v
		if v != current.Driver {
			cfg.Path = ""
		}
	}
	if v := strings.TrimSpace(db.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DatabaseURL); v != "" {
		driver, dsn := splitDatabaseURL(v)
		if driver != "" {
			cfg.Driver = driver
		}
		cfg.DSN = dsn
	}
	if v := strings.TrimSpace(db.Host); v != "" {
		cfg.Host = v
	}
	if db.Port != 0 {
		cfg.Port = db.Port
	}
	if v := strings.TrimSpace(db.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(db.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(db.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(db.Charset); v != "" {
		cfg.Charset = v
	}
	if v := strings.TrimSpace(db.Loc); v != "" {
		cfg.Loc = v
	}
	if v := strings.TrimSpace(db.SSLMode); v != "" {
		cfg.SSLMode = v
	}
	if v := strings.TrimSpace(db.Path); v != "" {
		cfg.Path = v
	}
	if db.Params != nil {
		cfg.Params = copyStringMap(db.Params)
	}
	return normalizeDatabaseConfig(cfg)
}

func applyRawMailConfig(current MailConfig, raw rawMailConfig) MailConfig {
	cfg := current
	if v := strings.TrimSpace(raw.Host); v != "" {
		cfg.Host = v
	}
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Pass); v != "" {
		cfg.Pass = v
	}
	if v := strings.TrimSpace(raw.From); v != "" {
		cfg.From = v
	}
	if v := strings.TrimSpace(raw.ResendKey); v != "" {
		cfg.ResendKey = v
	}
	if v := strings.TrimSpace(raw.SubjectPrefix); v != "" {
		cfg.SubjectPrefix = v
	}
	if raw.Enable != nil {
		cfg.Enable = *raw.Enable
	} else {
		cfg.Enable = cfg.Host != "" || cfg.ResendKey != ""
	}
	if cfg.From == "" && cfg.User != "" {
		cfg.From = fmt.Sprintf("Bluelog Admin <%s>", cfg.User)
	}
	return cfg
}

// applyEnvOverrides lets the process environment win over the file.
func applyEnvOverrides(raw *rawAppConfig) {
	if v := strings.TrimSpace(os.Getenv("BLUELOG_ENV")); v != "" {
		raw.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("SECRET_KEY")); v != "" {
		raw.SecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		raw.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		raw.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("MAIL_SERVER")); v != "" {
		raw.Mail.Host = v
	}
	if v := strings.TrimSpace(os.Getenv("MAIL_USERNAME")); v != "" {
		raw.Mail.User = v
	}
	if v := strings.TrimSpace(os.Getenv("MAIL_PASSWORD")); v != "" {
		raw.Mail.Pass = v
	}
	if v := strings.TrimSpace(os.Getenv("BLUELOG_EMAIL")); v != "" {
		raw.AdminEmail = v
	}
	if v := strings.TrimSpace(os.Getenv("BLUELOG_SLOW_QUERY_THRESHOLD")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			raw.SlowQueryThreshold = &d
		}
	}
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	switch c.Env {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
	}
	if len(c.Blog.Themes) == 0 {
		return errors.New("at least one theme is required")
	}
	if c.RateLimit.Max < 0 {
		return fmt.Errorf("invalid rate_limit.max %d", c.RateLimit.Max)
	}
	if c.Env == EnvProduction && c.SecretKey == DefaultSecretKey {
		return errors.New("secret_key must be set in production")
	}
	return nil
}
