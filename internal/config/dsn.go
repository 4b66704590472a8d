package config

import (
	"fmt"
	neturl "net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DSNValue returns the driver-specific connection string.
func (c DatabaseConfig) DSNValue() (string, error) {
	switch c.Driver {
	case DriverMySQL:
		return c.mysqlDSN()
	case DriverPostgres:
		return c.postgresDSN(), nil
	case DriverSQLite:
		return c.sqliteDSN(), nil
	default:
		return "", fmt.Errorf("unknown database driver %q", c.Driver)
	}
}

func (c DatabaseConfig) mysqlDSN() (string, error) {
	dsn := strings.TrimSpace(c.DSN)
	if dsn != "" && !strings.HasPrefix(dsn, "mysql://") {
		return dsn, nil
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	mc.User = c.User
	mc.Passwd = c.Password
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": c.Charset}

	if dsn != "" {
		u, err := neturl.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql url: %w", err)
		}
		mc.Addr = u.Host
		if u.Port() == "" {
			mc.Addr = u.Hostname() + ":3306"
		}
		mc.User = u.User.Username()
		mc.Passwd, _ = u.User.Password()
		mc.DBName = strings.TrimPrefix(u.Path, "/")
		for key, values := range u.Query() {
			if len(values) > 0 {
				mc.Params[key] = values[0]
			}
		}
	}

	loc, err := time.LoadLocation(c.Loc)
	if err != nil {
		return "", fmt.Errorf("invalid database.loc %q: %w", c.Loc, err)
	}
	mc.Loc = loc
	for key, value := range c.Params {
		mc.Params[key] = value
	}
	return mc.FormatDSN(), nil
}

func (c DatabaseConfig) postgresDSN() string {
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		return dsn
	}
	parts := []string{
		"host=" + c.Host,
		fmt.Sprintf("port=%d", c.Port),
		"user=" + c.User,
		"dbname=" + c.Name,
		"sslmode=" + c.SSLMode,
	}
	if c.Password != "" {
		parts = append(parts, "password="+c.Password)
	}
	for key, value := range c.Params {
		parts = append(parts, key+"="+value)
	}
	return strings.Join(parts, " ")
}

func (c DatabaseConfig) sqliteDSN() string {
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		return dsn
	}
	return c.Path
}

// splitDatabaseURL maps a DATABASE_URL to a driver and its connection string.
func splitDatabaseURL(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "", raw
	}
	switch strings.ToLower(scheme) {
	case "mysql":
		return DriverMySQL, raw
	case "postgres", "postgresql":
		return DriverPostgres, raw
	case "sqlite", "sqlite3":
		return DriverSQLite, strings.TrimPrefix(rest, "/")
	default:
		return "", raw
	}
}
