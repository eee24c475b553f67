package postgres

import (
	"fmt"
	"strings"

	"github.com/showcase-labs/showcase-backend/config"
)

// DSN returns cfg.DSN when set, otherwise a keyword/value connection string
// built from the individual fields. Both lib/pq and pgx accept the result.
func DSN(cfg *config.DatabaseConfig) string {
	if dsn := strings.TrimSpace(cfg.DSN); dsn != "" {
		return dsn
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	parts := []string{
		fmt.Sprintf("host=%s", cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		fmt.Sprintf("user=%s", cfg.User),
	}
	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", quote(cfg.Password)))
	}
	parts = append(parts,
		fmt.Sprintf("dbname=%s", cfg.Name),
		fmt.Sprintf("sslmode=%s", sslMode),
	)
	return strings.Join(parts, " ")
}

// quote escapes a value for the keyword/value format when it contains
// spaces or quotes.
func quote(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
