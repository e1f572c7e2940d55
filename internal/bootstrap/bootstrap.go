package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	domainauth "todolist-server-go/internal/domain/auth"
	domainoauth "todolist-server-go/internal/domain/auth/oauth"
	domainprovider "todolist-server-go/internal/domain/auth/provider"
	authstore "todolist-server-go/internal/domain/auth/store"
	domaintodo "todolist-server-go/internal/domain/todo"
	platformconfig "todolist-server-go/internal/platform/config"
	platformerrors "todolist-server-go/internal/platform/errors"
	platformlogging "todolist-server-go/internal/platform/logging"
	platformstorage "todolist-server-go/internal/platform/storage"
	httptransport "todolist-server-go/internal/transport/http"
	httpauthapi "todolist-server-go/internal/transport/http/authapi"
	httptodoapi "todolist-server-go/internal/transport/http/todoapi"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config     *platformconfig.Config
	configPath string
	logger     *platformlogging.Logger
	slogger    *slog.Logger
	db         *gorm.DB
	sessions   authstore.Store
	authSvc    *domainauth.Service
	oauthMgr   *domainoauth.Manager
	resolver   *domainprovider.Resolver
	todoSvc    *domaintodo.Service
}

// Run drives the full service lifecycle: configuration, dependency
// initialisation, serving and graceful shutdown.
func Run(ctx context.Context) error {
	state := &appState{}

	if err := executeInitSteps(ctx, InitGraph(), state); err != nil {
		return err
	}

	logger := state.slogger
	defer state.logger.Close()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := state.sessions.Close(closeCtx); err != nil {
			logger.Warn("session store close failed", "error", err)
		}
	}()
	defer func() {
		if sqlDB, err := state.db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	return waitForShutdown(signalCtx, cancel, logger, group)
}

// InitGraph lists the initialisation steps in dependency order.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "storage:open-database",
			Title:     "Open database and run migrations",
			DependsOn: []string{"config:load", "logging:init-provider"},
			Kind:      platformerrors.KindStorage,
			Execute:   openDatabaseStep,
		},
		{
			ID:        "auth:init-store",
			Title:     "Initialise refresh session store",
			DependsOn: []string{"config:load", "logging:init-provider"},
			Kind:      platformerrors.KindAuth,
			Execute:   initSessionStoreStep,
		},
		{
			ID:        "auth:init-service",
			Title:     "Initialise auth service",
			DependsOn: []string{"auth:init-store"},
			Kind:      platformerrors.KindAuth,
			Execute:   initAuthServiceStep,
		},
		{
			ID:        "oauth:init-manager",
			Title:     "Initialise OAuth manager",
			DependsOn: []string{"config:load", "logging:init-provider"},
			Kind:      platformerrors.KindAuth,
			Execute:   initOAuthManagerStep,
		},
		{
			ID:        "domain:init-services",
			Title:     "Initialise domain services",
			DependsOn: []string{"storage:open-database", "logging:init-provider"},
			Kind:      platformerrors.KindDomain,
			Execute:   initDomainServicesStep,
		},
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(platformerrors.KindBootstrap, "execute init steps", "nil bootstrap state")
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(platformerrors.KindBootstrap, step.ID, "missing execute function")
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}
			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().WithDotEnv(true).Load()
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindConfig, "config:load", "failed to load configuration", err)
	}
	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(platformerrors.KindBootstrap, "logging:init-provider", "config not loaded")
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init-provider", "failed to initialize logging provider", err)
	}

	state.logger = logger
	state.slogger = logger.Slog()
	state.slogger.Info("logging ready", "level", state.config.Log.Level, "config", state.configPath)
	return nil
}

func openDatabaseStep(_ context.Context, state *appState) error {
	db, err := platformstorage.Open(state.config.Database.DSN)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "storage:open-database", "failed to open database", err)
	}
	if err := platformstorage.Migrate(db); err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "storage:open-database", "failed to run migrations", err)
	}
	state.db = db
	state.slogger.Info("database ready", "dsn", state.config.Database.DSN)
	return nil
}

func initSessionStoreStep(_ context.Context, state *appState) error {
	storeCfg, err := sessionStoreConfig(state.config)
	if err != nil {
		return err
	}

	sessions, err := authstore.New(storeCfg)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindAuth, "auth:init-store", "failed to create session store", err)
	}
	state.sessions = sessions
	state.slogger.Info("session store ready", "driver", storeCfg.Driver)
	return nil
}

func sessionStoreConfig(config *platformconfig.Config) (authstore.Config, error) {
	driver := strings.ToLower(strings.TrimSpace(config.Auth.Store.Driver))
	storeCfg := authstore.Config{
		Driver: driver,
		TTL:    config.Auth.Store.TTL,
	}
	if storeCfg.TTL <= 0 {
		storeCfg.TTL = domainauth.RefreshTokenTTL
	}

	switch driver {
	case authstore.DriverMemory:
		storeCfg.Memory = &authstore.MemoryConfig{}
	case "", authstore.DriverRedis:
		storeCfg.Driver = authstore.DriverRedis
		storeCfg.Redis = &authstore.RedisConfig{
			Addr:     config.Auth.Store.Redis.Addr,
			Username: config.Auth.Store.Redis.Username,
			Password: config.Auth.Store.Redis.Password,
			DB:       config.Auth.Store.Redis.DB,
			Prefix:   config.Auth.Store.Redis.Prefix,
		}
		if storeCfg.Redis.Addr == "" {
			return storeCfg, platformerrors.New(platformerrors.KindAuth, "auth:init-store", "redis store addr is required")
		}
	default:
		return storeCfg, platformerrors.New(platformerrors.KindAuth, "auth:init-store",
			fmt.Sprintf("unsupported store driver %q", driver))
	}
	return storeCfg, nil
}

func initAuthServiceStep(_ context.Context, state *appState) error {
	codec, err := domainauth.NewTokenCodec(state.config.Auth.Secret)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindAuth, "auth:init-service", "failed to create token codec", err)
	}
	svc, err := domainauth.NewService(domainauth.Options{
		Codec:    codec,
		Sessions: state.sessions,
		Logger:   state.slogger,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindAuth, "auth:init-service", "failed to create auth service", err)
	}
	state.authSvc = svc
	return nil
}

func initOAuthManagerStep(_ context.Context, state *appState) error {
	state.oauthMgr = domainoauth.NewManager(state.config.OAuth, state.config.Web.PublicURL)
	for name := range state.config.OAuth.Providers {
		if state.oauthMgr.Enabled(name) {
			state.slogger.Info("login provider enabled", "provider", name)
		} else {
			state.slogger.Warn("login provider ignored", "provider", name)
		}
	}
	return nil
}

func initDomainServicesStep(_ context.Context, state *appState) error {
	state.resolver = domainprovider.NewResolver(platformstorage.NewUserRepository(state.db), state.slogger)

	todoSvc, err := domaintodo.NewService(
		platformstorage.NewCategoryRepository(state.db),
		platformstorage.NewDetailRepository(state.db),
		state.slogger,
	)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindDomain, "domain:init-services", "failed to create todo service", err)
	}
	state.todoSvc = todoSvc
	return nil
}

func startHTTPServer(state *appState, g *errgroup.Group, groupCtx context.Context) error {
	config := state.config
	logger := state.slogger

	router, err := httptransport.Build(httptransport.Options{
		Config:         config,
		Logger:         logger,
		AuthMiddleware: httptransport.AccessFilter(state.authSvc),
	})
	if err != nil {
		return err
	}

	authapiSvc, err := httpauthapi.NewService(state.authSvc, state.oauthMgr, state.resolver, config.Auth.Cookie, logger)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindTransport, "authapi:new-service", "failed to create auth routes", err)
	}
	authapiSvc.Register(router.Open)

	todoapiSvc, err := httptodoapi.NewService(state.todoSvc, logger)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindTransport, "todoapi:new-service", "failed to create todo routes", err)
	}
	todoapiSvc.Register(router.Secured.Group("/api"))

	addr := config.Server.IP + ":" + strconv.Itoa(config.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router.Engine,
	}

	g.Go(func() error {
		logger.Info("http server started", "addr", addr)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown failed", "error", err)
			} else {
				logger.Info("http server stopped")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			return err
		}
		return nil
	})

	return nil
}

func waitForShutdown(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, g *errgroup.Group) error {
	<-ctx.Done()
	logger.Info("shutdown requested", "cause", context.Cause(ctx))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown finished with error", "error", err)
			return err
		}
		logger.Info("all services stopped")
	case <-time.After(15 * time.Second):
		logger.Error("shutdown timed out")
		return errors.New("shutdown timed out")
	}
	return nil
}
