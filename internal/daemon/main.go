// Package daemon wires the database, the permission engine and the web service.
package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tindevelopers/tinadmin-saas-base/internal/config"
	"github.com/tindevelopers/tinadmin-saas-base/internal/db"
	"github.com/tindevelopers/tinadmin-saas-base/internal/web"
)

// ErrNilConfig is returned when no configuration is passed.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	engine     *Engine
	webService *web.Service
}

// Start serves until SIGINT or SIGTERM, then drains the audit sink.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(d.webService.Addr())

	if cerr := d.engine.Close(); cerr != nil {
		log.Error().Err(cerr).Msg("failed to close permission engine")
	}

	return err
}

// New opens and migrates the database, seeds the default roles and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	engine, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(engine.DB); err != nil {
		return nil, err
	}

	if err = db.Seed(engine.DB, engine.Catalogue); err != nil {
		return nil, err
	}

	if engine.Cache != nil && !engine.CacheShared() {
		log.Warn().Dur("ttl", cfg.Cache.TTL).
			Msg("permission cache is process-local, changes made by other processes apply after the ttl")
	}

	return &Daemon{
		engine:     engine,
		webService: web.New(cfg, engine.Deps()),
	}, nil
}

// Open connects to the configured database and builds the engine on it.
func Open(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	conn, err := db.Open(cfg.DB)
	if err != nil {
		return nil, err
	}

	log.Info().Str("engine", cfg.DB.Engine).Msg("database connected")

	return NewEngine(cfg, conn)
}
