// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tindevelopers/tinadmin-saas-base/internal/config"
)

// ErrUnknownEngine is returned for an engine without a DSN format.
var ErrUnknownEngine = errors.New("unknown database engine")

// Create builds the Data Source Name for the configured engine.
func Create(db config.DB) (string, error) {
	switch db.Engine {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
			db.Extras,
		), nil
	case "postgres":
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			db.Host,
			db.Port,
			db.User,
			db.Password,
			db.Name,
		)
		if db.Extras != "" {
			out += " " + strings.ReplaceAll(db.Extras, "&", " ")
		}

		return out, nil
	case "sqlite":
		if db.Extras == "" {
			return db.Path, nil
		}

		return db.Path + "?" + db.Extras, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, db.Engine)
	}
}
