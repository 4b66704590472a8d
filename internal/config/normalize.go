package config

import "strings"

func normalizeDatabaseConfig(cfg DatabaseConfig) DatabaseConfig {
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	if cfg.Driver == "sqlite3" {
		cfg.Driver = DriverSQLite
	}
	if cfg.Driver == "postgresql" {
		cfg.Driver = DriverPostgres
	}

	switch cfg.Driver {
	case DriverMySQL:
		if cfg.Host == "" {
			cfg.Host = "127.0.0.1"
		}
		if cfg.Port == 0 {
			cfg.Port = 3306
		}
		if cfg.User == "" {
			cfg.User = "root"
		}
		if cfg.Name == "" {
			cfg.Name = "bluelog"
		}
		if cfg.Charset == "" {
			cfg.Charset = "utf8mb4"
		}
		if cfg.Loc == "" {
			cfg.Loc = "Local"
		}
	case DriverPostgres:
		if cfg.Host == "" {
			cfg.Host = "127.0.0.1"
		}
		if cfg.Port == 0 {
			cfg.Port = 5432
		}
		if cfg.User == "" {
			cfg.User = "postgres"
		}
		if cfg.Name == "" {
			cfg.Name = "bluelog"
		}
		if cfg.SSLMode == "" {
			cfg.SSLMode = "disable"
		}
	case DriverSQLite:
		if cfg.Path == "" && cfg.DSN == "" {
			cfg.Path = defaultProdSQLitePath
		}
	}
	return cfg
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	switch trimmed {
	case "":
		return defaultEnv
	case "dev":
		return EnvDevelopment
	case "test":
		return EnvTesting
	case "prod":
		return EnvProduction
	}
	return trimmed
}

func normalizeThemes(themes []Theme) []Theme {
	out := make([]Theme, 0, len(themes))
	for _, t := range themes {
		key := strings.TrimSpace(t.Key)
		if key == "" {
			continue
		}
		name := strings.TrimSpace(t.Name)
		if name == "" {
			name = key
		}
		out = append(out, Theme{Key: key, Name: name})
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

func normalizeRuntimePaths(paths RuntimePathsConfig) RuntimePathsConfig {
	paths.Logs = strings.TrimSpace(paths.Logs)
	paths.Uploads = ResolveRuntimePath(paths.Uploads, defaultUploadsDir)
	return paths
}

func copyStringMap(input map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}
