package config

import (
	"time"

	"github.com/tindevelopers/tinadmin-saas-base/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode     bool // enable dev mode for development
	DB          DB
	Log         logger.Log
	Webserver   Webserver
	Cache       Cache
	Audit       Audit
	Permissions Permissions
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool     // disable recover middleware
	Host           string   // listening address, empty for all interfaces
	Port           int      `validate:"required,min=1,max=65535"` // listening port for the webserver
	ShutDownTime   int      `validate:"gte=0"`                    // wait time for shutdown in seconds
	URL            string   `validate:"required,url"`             // base url for the webserver
	CheckAliveURI  string   // path answering liveness probes
	TrustedProxies []string // proxies allowed to set X-Forwarded-For
}

// Cache configures the permission lookup cache.
type Cache struct {
	Enabled bool
	Backend string        `validate:"omitempty,oneof=redis lru"`
	TTL     time.Duration `validate:"gte=0"`
	Size    int           `validate:"gte=0"` // lru entries
	Redis   Redis
}

// Redis holds the redis connection settings of the cache.
type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Audit configures how permission decisions are recorded.
type Audit struct {
	// Async records through a buffered background writer instead of inline.
	Async      bool
	BufferSize int `validate:"gte=0"`
}

// Permissions configures the permission catalogue.
type Permissions struct {
	// Extra permissions added to the built-in catalogue.
	Extra []string
}
