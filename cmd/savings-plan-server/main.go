package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/savings-plan/internal/cache"
	"github.com/iwvelando/savings-plan/internal/config"
	"github.com/iwvelando/savings-plan/internal/gateway"
	"github.com/iwvelando/savings-plan/internal/logging"
	"github.com/iwvelando/savings-plan/internal/server"
	"github.com/iwvelando/savings-plan/pkg/constants"
	"github.com/iwvelando/savings-plan/pkg/ratelimit"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// openStore selects the cache backend. A nil store disables caching.
func openStore(logger *zap.Logger, conf *config.Config) (cache.Store, error) {
	switch conf.CacheBackend {
	case config.BackendMemory:
		return cache.NewMemoryStore(), nil
	case config.BackendNone:
		return nil, nil
	}

	opts := conf.RedisOptions()
	timeout := opts.DialTimeout + opts.ReadTimeout
	if timeout <= 0 {
		timeout = constants.DefaultDialTimeout + constants.DefaultIOTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store, err := cache.Connect(ctx, opts)
	if err == nil {
		logger.Info("connected to redis",
			zap.String("op", "main.openStore"),
			zap.String("addr", opts.Addr()),
			zap.Int("db", opts.DB),
		)
		return store, nil
	}
	if conf.Redis.Required {
		return nil, err
	}

	// Serve without a cache; the Redis client is not retried.
	logger.Warn("redis unavailable, serving without cache",
		zap.String("op", "main.openStore"),
		zap.String("addr", opts.Addr()),
		zap.Error(err),
	)
	return nil, nil
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	envFile := flag.String("env-file", constants.DefaultEnvFile, "path to dotenv file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.Load(*configLocation, *envFile)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": %q}\n", *configLocation, err.Error())
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := openStore(logger, conf)
	if err != nil {
		msg := "failed to connect to redis"
		if errors.Is(err, cache.ErrAuthentication) {
			msg = "redis authentication failed"
		}
		logger.Fatal(msg,
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close cache", zap.String("op", "main"), zap.Error(err))
			}
		}()
	}

	gw := gateway.New(logger, store, gateway.DefaultPlanner, conf.TTL())
	handler := server.NewHandler(logger, gw, server.Options{
		AppName:     conf.AppName,
		Debug:       conf.Debug,
		Version:     version,
		MaxBodySize: conf.MaxBodyBytes(),
		Limiter:     ratelimit.NewLimiter(conf.RateRule()),
		CORS:        conf.CORS,
	})

	srv := &http.Server{
		Addr:              conf.Address,
		Handler:           handler,
		ReadHeaderTimeout: constants.DefaultShutdownTimeout,
	}

	mode := "production"
	if conf.Debug {
		mode = "debug"
	}

	go func() {
		logger.Info(fmt.Sprintf("Starting %s in %s mode", conf.AppName, mode),
			zap.String("op", "main"),
			zap.String("address", conf.Address),
			zap.String("version", version),
			zap.String("cache_backend", conf.CacheBackend),
			zap.String("rate_limit", conf.RateRule().String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(fmt.Sprintf("Shutting down %s", conf.AppName), zap.String("op", "main"))

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	logger.Info("server stopped", zap.String("op", "main"))
}
