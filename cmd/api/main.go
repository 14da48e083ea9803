package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	authhttp "github.com/fitgoals/backend/internal/auth/http"
	authservice "github.com/fitgoals/backend/internal/auth/service"
	"github.com/fitgoals/backend/internal/common/authguard"
	"github.com/fitgoals/backend/internal/common/config"
	"github.com/fitgoals/backend/internal/common/constants"
	"github.com/fitgoals/backend/internal/common/crypto"
	"github.com/fitgoals/backend/internal/common/db"
	commonhttp "github.com/fitgoals/backend/internal/common/http"
	"github.com/fitgoals/backend/internal/common/logger"
	"github.com/fitgoals/backend/internal/common/server"
	"github.com/fitgoals/backend/internal/common/token"
	goalcache "github.com/fitgoals/backend/internal/goal/cache"
	goalhttp "github.com/fitgoals/backend/internal/goal/http"
	goalrepo "github.com/fitgoals/backend/internal/goal/repository"
	goalservice "github.com/fitgoals/backend/internal/goal/service"
	userrepo "github.com/fitgoals/backend/internal/user/repository"
	"github.com/fitgoals/backend/migrations"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := db.RunMigrations(context.Background(), log, cfg.DatabaseURL, migrations.FS); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)

	users := userrepo.NewPgRepository(pool)
	goals := goalrepo.NewPgRepository(pool)

	var cache goalservice.ListCache
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warnf("redis unavailable, goal list caching disabled: %v", err)
			rdb = nil
		} else {
			cache = goalcache.NewGoalCache(rdb, cfg.GoalCacheTTL)
			log.Infof("goal list caching enabled: ttl=%s", cfg.GoalCacheTTL)
		}
	}

	hasher := &crypto.BcryptHasher{}
	idGen := crypto.NewUUIDGenerator()
	codec := token.NewHS256Codec(cfg.JWTSecret, constants.SessionTokenTTL, idGen)

	authSvc := authservice.NewAuthService(users, hasher, idGen, codec, log)
	goalSvc := goalservice.NewGoalService(goals, cache, idGen, log)
	guard := authguard.New(codec, users, log)

	goalHandler := goalhttp.NewHandler(goalSvc, guard, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authhttp.NewHandler(authSvc, guard, cfg.RequestTimeout, log))
	mux.Handle("/api/goals", goalHandler)
	mux.Handle("/api/goals/", goalHandler)
	mux.Handle("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	handler := commonhttp.BuildBaseHandler("api", log, mux)

	srv := server.NewServer(server.DefaultServerConfig(cfg.HTTPPort), handler)

	hooks := []server.ShutdownHook{
		func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	}
	if rdb != nil {
		hooks = append(hooks, func(ctx context.Context) error {
			return rdb.Close()
		})
	}

	server.StartWithGracefulShutdownAndHooks(srv, log, "api", hooks)
}
