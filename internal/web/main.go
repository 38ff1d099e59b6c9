// Package web serves the permission API over fiber.
package web

import (
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/tindevelopers/tinadmin-saas-base/internal/config"
	fiberlog "github.com/tindevelopers/tinadmin-saas-base/internal/logger/adapter/fiber"
	"github.com/tindevelopers/tinadmin-saas-base/internal/web/handler"
	"github.com/tindevelopers/tinadmin-saas-base/internal/web/handler/auditlog"
	"github.com/tindevelopers/tinadmin-saas-base/internal/web/handler/permissions"
)

const (
	// MetricsPath exposes the prometheus registry.
	MetricsPath = "/metrics"

	defaultCheckAliveURI = "/checkalive"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Addr returns the configured listen address.
func (s *Service) Addr() string {
	return net.JoinHostPort(s.cfg.Webserver.Host, strconv.Itoa(s.cfg.Webserver.Port))
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	s.alive.Store(true)

	go func() {
		err := s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			doneFiber <- err
			return
		}

		doneFiber <- nil
	}()

	log.Info().Str("addr", addr).Msg("http server started")

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown lets checkalive fail for the configured grace period, then stops the server.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive answers 200 while the service accepts traffic and 503 while it drains.
func (s *Service) CheckAlive(c fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, deps handler.Deps) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if !deps.Valid() {
		panic(handler.ErrNilDepsFatalLogMsg)
	}

	checkAliveURI := cfg.Webserver.CheckAliveURI
	if checkAliveURI == "" {
		checkAliveURI = defaultCheckAliveURI
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Log.AppName,
			CaseSensitive:  true,
			Immutable:      true,
			ErrorHandler:   errorHandler,
			TrustProxy:     len(cfg.Webserver.TrustedProxies) > 0,
			TrustProxyConfig: fiber.TrustProxyConfig{
				Proxies: cfg.Webserver.TrustedProxies,
			},
			ProxyHeader: fiber.HeaderXForwardedFor,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recoverer.New())
	}

	app.Use(fiberlog.New(fiberlog.Config{
		Config:        cfg.Log,
		CheckAliveURI: checkAliveURI,
		Enrich:        enrichAccessLog,
	}))

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode,
	}

	app.Get(checkAliveURI, service.CheckAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(handler.APIPath, IdentityMiddleware(deps.Workspaces))

	// init handlers (they register their own routes with permission checks)
	for _, h := range []handler.Service{new(permissions.Service), new(auditlog.Service)} {
		if err := h.Init(app, deps); err != nil {
			panic(err)
		}
	}

	return service
}

// errorHandler answers chain errors as JSON.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return handler.Error(c, code, err.Error())
}
