package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/iliyamo/workspace-sessions/internal/catalog"
	"github.com/iliyamo/workspace-sessions/internal/clock"
	"github.com/iliyamo/workspace-sessions/internal/config"
	"github.com/iliyamo/workspace-sessions/internal/engine"
	"github.com/iliyamo/workspace-sessions/internal/handler"
	"github.com/iliyamo/workspace-sessions/internal/middleware"
	"github.com/iliyamo/workspace-sessions/internal/notify"
	"github.com/iliyamo/workspace-sessions/internal/queue"
	"github.com/iliyamo/workspace-sessions/internal/realtime"
	"github.com/iliyamo/workspace-sessions/internal/router"
	"github.com/iliyamo/workspace-sessions/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flagSet := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port (APP_PORT)")
	flagSet.StringVar(&cfg.Store.Backend, "store", cfg.Store.Backend, "state backend: memory, redis or mysql (STORE_BACKEND)")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (LOG_LEVEL)")
	flagSet.BoolVar(&cfg.EventsEnabled, "events", cfg.EventsEnabled, "publish session events to RabbitMQ (EVENTS_ENABLED)")
	flagSet.StringVar(&cfg.EventLogDir, "event-log-dir", cfg.EventLogDir, "directory for sessions.log (EVENT_LOG_DIR)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	switch cfg.Store.Backend {
	case config.BackendMemory, config.BackendRedis, config.BackendMySQL:
	default:
		return fmt.Errorf("--store: unknown backend %q", cfg.Store.Backend)
	}

	level := parseLevel(cfg.LogLevel)
	log.SetLevel(level)
	logger := log.New("server")
	logger.SetLevel(level)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Store.Backend == config.BackendRedis || cfg.RateLimit.Enabled {
		rdb = config.NewRedisClient(cfg.Redis)
		if rdb == nil {
			logger.Warnf("redis at %s unreachable; using in-process state and rate limiting", cfg.Redis.Address())
		} else {
			defer rdb.Close()
		}
	}

	version := cfg.DataVersion
	if version == "" {
		version = catalog.SeedVersion()
	}
	st := openStore(ctx, cfg, rdb, version, logger)
	defer st.Close()

	clk := clock.Real()

	var sink notify.Sink = notify.LogSink{Logger: log.New("reminder")}
	var pub *service.Publisher
	if cfg.EventsEnabled {
		pub, err = service.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			logger.Warnf("rabbitmq unavailable, session events disabled: %v", err)
		} else {
			defer pub.Close()
			sink = service.ReminderSink(pub)
		}
	}
	reminders := notify.NewScheduler(clk, sink)

	eng := engine.New(engine.Options{
		Clock:      clk,
		Notifier:   reminders,
		Store:      st,
		Seed:       catalog.Seed,
		HolderName: cfg.HolderName,
		Location:   loc,
	})

	hub := realtime.NewHub(eng.State)
	eng.Subscribe(hub.Listener)

	if pub != nil {
		fwd := service.NewEndedForwarder(pub, 64)
		eng.Subscribe(fwd.Listener)
		go fwd.Run(ctx)
		go func() {
			if err := queue.NewConsumer(cfg.RabbitMQURL, cfg.EventLogDir).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("session consumer: %v", err)
			}
		}()
	}

	state, err := st.Load(ctx)
	if err != nil {
		logger.Warnf("load state: %v; starting from seed", err)
		state = eng.State()
	}
	eng.Restore(state)
	defer reminders.CancelAll()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(level)
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Infoj(log.JSON{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			return nil
		},
	}))

	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.Handlers{
		Venues:   &handler.VenueHandler{Engine: eng},
		Sessions: &handler.SessionHandler{Engine: eng},
		Merchant: &handler.MerchantHandler{Engine: eng, OwnerID: cfg.MerchantOwnerID},
		State:    &handler.StateHandler{Engine: eng},
		Stream:   hub.Serve,
	}, eng, middleware.NewTokenBucket(cfg.RateLimit, rdb))

	addr := ":" + cfg.Port
	logger.Infof("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.Store.Backend)
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}
