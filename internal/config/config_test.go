package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bluelog.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BLUELOG_ENV", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data-dev.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Blog.PostPerPage)
	assert.Equal(t, 15, cfg.Blog.ManagePostPerPage)
	assert.Equal(t, 15, cfg.Blog.CommentPerPage)
	assert.True(t, cfg.CSRFEnabled)
	assert.Equal(t, time.Second, cfg.SlowQueryThreshold)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoadTestingEnv(t *testing.T) {
	t.Setenv("BLUELOG_ENV", "testing")
	path := writeConfig(t, "port: 8080\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsTesting())
	assert.False(t, cfg.CSRFEnabled)
	assert.Equal(t, ":memory:", cfg.Database.Path)

	dsn, err := cfg.Database.DSNValue()
	require.NoError(t, err)
	assert.Equal(t, ":memory:", dsn)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "port: 8080\nbogus: true\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	path := writeConfig(t, "port: 70000\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestLoadBlogSettingsAndThemes(t *testing.T) {
	t.Setenv("BLUELOG_ENV", "")
	path := writeConfig(t, strings.Join([]string{
		"blog:",
		"  post_per_page: 5",
		"  themes:",
		"    - key: dark",
		"      name: Dark",
		"  allowed_image_extensions: [\".PNG\", webp]",
		"slow_query_threshold: 250ms",
	}, "\n"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Blog.PostPerPage)
	assert.Equal(t, "dark", cfg.DefaultTheme())
	name, ok := cfg.ThemeName("dark")
	assert.True(t, ok)
	assert.Equal(t, "Dark", name)
	_, ok = cfg.ThemeName("perfect_blue")
	assert.False(t, ok)
	assert.True(t, cfg.AllowedImage("png"))
	assert.True(t, cfg.AllowedImage(".webp"))
	assert.False(t, cfg.AllowedImage("exe"))
	assert.Equal(t, 250*time.Millisecond, cfg.SlowQueryThreshold)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BLUELOG_ENV", "")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("BLUELOG_EMAIL", "owner@example.com")
	t.Setenv("MAIL_SERVER", "smtp.example.com")
	t.Setenv("MAIL_USERNAME", "bot@example.com")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/blog?sslmode=disable")

	cfg, err := Load(writeConfig(t, "secret_key: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, "owner@example.com", cfg.AdminEmail)
	assert.True(t, cfg.Mail.Enable)
	assert.Equal(t, "Bluelog Admin <bot@example.com>", cfg.Mail.From)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)

	dsn, err := cfg.Database.DSNValue()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/blog?sslmode=disable", dsn)
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("BLUELOG_ENV", "production")
	t.Setenv("SECRET_KEY", "")
	_, err := Load(writeConfig(t, "port: 80\n"))
	require.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	db := normalizeDatabaseConfig(DatabaseConfig{
		Driver:   DriverMySQL,
		User:     "blog",
		Password: "pw",
		Host:     "db",
		Name:     "bluelog",
		Loc:      "UTC",
	})
	dsn, err := db.DSNValue()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, "blog:pw@tcp(db:3306)/bluelog?"))
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	fromURL := normalizeDatabaseConfig(DatabaseConfig{Driver: DriverMySQL, DSN: "mysql://root:x@127.0.0.1/blog", Loc: "UTC"})
	dsn, err = fromURL.DSNValue()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, "root:x@tcp(127.0.0.1:3306)/blog?"))
}

func TestPostgresDSNFromFields(t *testing.T) {
	db := normalizeDatabaseConfig(DatabaseConfig{Driver: DriverPostgres, Password: "pw"})
	dsn, err := db.DSNValue()
	require.NoError(t, err)
	assert.Equal(t, "host=127.0.0.1 port=5432 user=postgres dbname=bluelog sslmode=disable password=pw", dsn)
}

func TestSplitDatabaseURL(t *testing.T) {
	driver, dsn := splitDatabaseURL("sqlite:///data/blog.db")
	assert.Equal(t, DriverSQLite, driver)
	assert.Equal(t, "data/blog.db", dsn)

	driver, _ = splitDatabaseURL("plain-dsn")
	assert.Empty(t, driver)
}
