package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authcleanup "github.com/nmoiseev/org-admin-backend/internal/auth/cleanup"
	authhttp "github.com/nmoiseev/org-admin-backend/internal/auth/http"
	authrepo "github.com/nmoiseev/org-admin-backend/internal/auth/repository"
	"github.com/nmoiseev/org-admin-backend/internal/auth/service"
	"github.com/nmoiseev/org-admin-backend/internal/common/clock"
	"github.com/nmoiseev/org-admin-backend/internal/common/config"
	commoncrypto "github.com/nmoiseev/org-admin-backend/internal/common/crypto"
	"github.com/nmoiseev/org-admin-backend/internal/common/db"
	commonhttp "github.com/nmoiseev/org-admin-backend/internal/common/http"
	"github.com/nmoiseev/org-admin-backend/internal/common/jwtauth"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
	srv "github.com/nmoiseev/org-admin-backend/internal/common/server"
	userhttp "github.com/nmoiseev/org-admin-backend/internal/user/http"
	userrepo "github.com/nmoiseev/org-admin-backend/internal/user/repository"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.AuthDisabled {
		log.Warn("AUTH_DISABLED is active: every request will carry a mock Admin identity")
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	users := userrepo.NewPgRepository(pool)
	refreshTokens := authrepo.NewPgRefreshTokenRepository(pool)
	realClock := clock.NewRealClock()

	issuer := service.NewTokenIssuer(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		commoncrypto.NewUUIDGenerator(),
		realClock,
	)
	authService := service.NewAuthService(
		users,
		refreshTokens,
		&commoncrypto.BcryptHasher{},
		issuer,
		realClock,
		log,
	)

	authenticator := jwtauth.NewAuthenticator(cfg.AccessTokenSecret, cfg.AuthDisabled, log)
	authorizer := jwtauth.NewAuthorizer(cfg.AuthDisabled, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go authcleanup.StartRefreshTokenCleanup(ctx, refreshTokens, log)

	usersHandler := userhttp.NewHandler(users, authenticator, authorizer, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.Handle("/", authhttp.NewHandler(authService, authenticator, cfg.RequestTimeout, log))
	mux.Handle("/api/users", usersHandler)
	mux.Handle("/api/users/", usersHandler)
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewStrictRateLimiter()
	handler := rateLimiter.Middleware(commonhttp.BuildBaseHandler(log, mux))

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), handler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Info("stopping cleanup goroutine")
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdown(server, log, "api", shutdownHooks)
}
