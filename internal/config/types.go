package config

import "time"

const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port               int
	Env                string
	SecretKey          string
	BaseURL            string
	Database           DatabaseConfig
	RedisURL           string
	AllowedOrigins     []string
	Timezone           string
	Paths              RuntimePathsConfig
	Mail               MailConfig
	AdminEmail         string
	Blog               BlogConfig
	SlowQueryThreshold time.Duration
	CSRFEnabled        bool
	RateLimit          RateLimitConfig
}

type DatabaseConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Charset  string
	Loc      string
	SSLMode  string
	Path     string
	Params   map[string]string
}

type RuntimePathsConfig struct {
	Logs    string
	Uploads string
}

type MailConfig struct {
	Enable        bool
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	ResendKey     string
	SubjectPrefix string
}

// Theme is a selectable front-end stylesheet.
type Theme struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type BlogConfig struct {
	PostPerPage            int
	ManagePostPerPage      int
	CommentPerPage         int
	Themes                 []Theme
	AllowedImageExtensions []string
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type rawAppConfig struct {
	Port               int               `yaml:"port"`
	Env                string            `yaml:"env"`
	SecretKey          string            `yaml:"secret_key"`
	BaseURL            string            `yaml:"base_url"`
	DatabaseURL        string            `yaml:"database_url"`
	Database           rawDatabaseConfig `yaml:"database"`
	RedisURL           string            `yaml:"redis_url"`
	AllowedOrigins     []string          `yaml:"allowed_origins"`
	Timezone           string            `yaml:"timezone"`
	Paths              rawPathsConfig    `yaml:"paths"`
	Mail               rawMailConfig     `yaml:"mail"`
	AdminEmail         string            `yaml:"admin_email"`
	Blog               rawBlogConfig     `yaml:"blog"`
	SlowQueryThreshold *time.Duration    `yaml:"slow_query_threshold"`
	CSRF               *bool             `yaml:"csrf"`
	RateLimit          rawRateLimit      `yaml:"rate_limit"`
}

type rawDatabaseConfig struct {
	Driver   string            `yaml:"driver"`
	DSN      string            `yaml:"dsn"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	Charset  string            `yaml:"charset"`
	Loc      string            `yaml:"loc"`
	SSLMode  string            `yaml:"sslmode"`
	Path     string            `yaml:"path"`
	Params   map[string]string `yaml:"params"`
}

type rawPathsConfig struct {
	Logs    string `yaml:"logs"`
	Uploads string `yaml:"uploads"`
}

type rawMailConfig struct {
	Enable        *bool  `yaml:"enable"`
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Pass          string `yaml:"pass"`
	From          string `yaml:"from"`
	ResendKey     string `yaml:"resend_key"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type rawBlogConfig struct {
	PostPerPage            int      `yaml:"post_per_page"`
	ManagePostPerPage      int      `yaml:"manage_post_per_page"`
	CommentPerPage         int      `yaml:"comment_per_page"`
	Themes                 []Theme  `yaml:"themes"`
	AllowedImageExtensions []string `yaml:"allowed_image_extensions"`
}

type rawRateLimit struct {
	Max    int            `yaml:"max"`
	Window *time.Duration `yaml:"window"`
}
