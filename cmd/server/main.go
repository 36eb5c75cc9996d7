package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"society360/internal/audit"
	"society360/internal/auth"
	"society360/internal/identity"
	jwttoken "society360/internal/jwt_token"
	"society360/internal/platform/config"
	"society360/internal/platform/httpserver"
	"society360/internal/platform/logger"
	"society360/internal/platform/metrics"
	httptransport "society360/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}

	tokens, err := jwttoken.NewService(cfg.JWTSigningKey, "society360")
	if err != nil {
		log.Error("configure token service", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	identities := identity.NewPostgres(db)
	auditStore := audit.NewPostgres(db)

	recorderOpts := []audit.Option{
		audit.WithAsyncBuffer(cfg.AuditBuffer),
		audit.WithCounters(m),
	}
	if cfg.Env == config.EnvTest {
		recorderOpts = append(recorderOpts, audit.WithTestMode())
	}
	recorder := audit.NewRecorder(auditStore, log, recorderOpts...)
	defer recorder.Close()

	verifier := auth.NewVerifier(tokens, identities, log)
	authSvc := auth.NewService(identities, tokens, recorder, log, cfg.TokenTTL)

	handler := httptransport.NewHandler(authSvc, auditStore, log)
	router := httptransport.NewRouter(handler, verifier, m, log)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting society360 server", "addr", cfg.Addr, "env", string(cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
