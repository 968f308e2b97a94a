package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/quizarena/quizarena-api/internal/config"
	"github.com/quizarena/quizarena-api/internal/domain/contest"
	"github.com/quizarena/quizarena-api/internal/domain/profile"
	"github.com/quizarena/quizarena-api/internal/domain/user"
	"github.com/quizarena/quizarena-api/internal/domain/wallet"
	"github.com/quizarena/quizarena-api/internal/middleware"
	"github.com/quizarena/quizarena-api/internal/pkg/database"
	"github.com/quizarena/quizarena-api/internal/pkg/jwt"
	"github.com/quizarena/quizarena-api/internal/pkg/logger"
	pkgresponse "github.com/quizarena/quizarena-api/internal/pkg/response"
	"github.com/quizarena/quizarena-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.IsDevelopment())

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting QuizArena ledger API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// Statement export is optional; without R2 credentials the endpoint
	// answers 501.
	var objects wallet.ObjectStore
	if cfg.StatementExport {
		r2, err := storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create R2 storage")
		}
		objects = r2
	}

	// ---------- Repositories ----------
	walletRepo := wallet.NewRepository(db)
	userRepo := user.NewRepository(db)

	// ---------- Services ----------
	walletCache := wallet.NewCache(redis, cfg.WalletCacheTTL)
	walletService := wallet.NewService(walletRepo, walletCache)
	exporter := wallet.NewStatementExporter(walletService, objects)
	entryGate := contest.NewGate(walletRepo)
	profileService := profile.NewService(userRepo, walletService)

	// ---------- Handlers ----------
	walletHandler := wallet.NewHandler(walletService, exporter)
	contestHandler := contest.NewHandler(entryGate)
	profileHandler := profile.NewHandler(profileService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/wallet", walletHandler.Routes(authMiddleware))
		r.Mount("/contests", contestHandler.Routes(authMiddleware))
		r.Mount("/profile", profileHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
