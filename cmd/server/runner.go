package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"

	"github.com/anonto42/foodhelper/backend/internal/cache"
	"github.com/anonto42/foodhelper/backend/internal/fixtures"
	"github.com/anonto42/foodhelper/backend/internal/mailer"
	"github.com/anonto42/foodhelper/backend/internal/middleware"
	"github.com/anonto42/foodhelper/backend/internal/repositories"
	"github.com/anonto42/foodhelper/backend/internal/router"
	"github.com/anonto42/foodhelper/backend/internal/storage"
	"github.com/anonto42/foodhelper/backend/pkg/config"
	"github.com/anonto42/foodhelper/backend/pkg/firebase"
)

const shutdownTimeout = 10 * time.Second

// Runner holds what every command needs.
type Runner struct {
	cfg    *config.Config
	logger *log.Logger
}

func NewRunner(cfg *config.Config, logger *log.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Serve opens every store, mounts the API and blocks until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, _ *cli.Command) error {
	if err := r.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.InitDB(ctx, r.cfg, r.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}
	defer db.CloseDB()

	if err := repositories.AutoMigrate(db.SQL); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	r.logger.Info("Auto-migrations completed for all models.")

	shortLinks := repositories.NewMongoShortLinkRepository(db.MongoDB())
	if err := shortLinks.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create short link indexes: %w", err)
	}

	verifier, firebaseAuth, err := r.verifier(ctx, db.SQL)
	if err != nil {
		return err
	}
	images, err := r.imageStore(ctx)
	if err != nil {
		return err
	}

	var ingredientCache cache.IngredientCache = cache.Noop{}
	if db.Redis != nil {
		ingredientCache = cache.NewRedisIngredientCache(db.Redis, cache.DefaultTTL)
	}

	deps := router.Deps{
		DB:              db.SQL,
		ShortLinks:      shortLinks,
		Verifier:        verifier,
		Images:          images,
		Mailer:          r.mailer(),
		IngredientCache: ingredientCache,
		Logger:          r.logger,
		RateLimit:       r.cfg.RateLimit,
		ShortLinkBase:   r.cfg.ShortLinkBase,
	}
	if firebaseAuth != nil {
		deps.FirebaseAuth = firebaseAuth
	}
	if local, ok := images.(*storage.LocalStore); ok {
		deps.MediaRoot = local.Root()
	}
	e := router.NewServer(deps)

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("Starting server", "port", r.cfg.Port, "env", r.cfg.Env)
		if err := e.Start(":" + r.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	r.logger.Info("Shutdown signal received. Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	r.logger.Info("Server stopped.")
	return nil
}

// Migrate only touches the relational store.
func (r *Runner) Migrate(ctx context.Context, _ *cli.Command) error {
	return r.withSQL(func(db *gorm.DB) error {
		if err := repositories.AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to auto migrate models: %w", err)
		}
		r.logger.Info("Auto-migrations completed for all models.")
		return nil
	})
}

func (r *Runner) LoadIngredients(ctx context.Context, cmd *cli.Command) error {
	items, err := fixtures.ReadIngredientsFile(cmd.String("file"))
	if err != nil {
		return err
	}

	return r.withSQL(func(db *gorm.DB) error {
		if err := repositories.AutoMigrate(db); err != nil {
			return err
		}
		inserted, err := repositories.NewSQLIngredientRepository(db).LoadIngredients(ctx, items)
		if err != nil {
			return fmt.Errorf("failed to load ingredients: %w", err)
		}
		r.logger.Info("Ingredients loaded", "read", len(items), "inserted", inserted)
		r.invalidateIngredientCache(ctx)
		return nil
	})
}

func (r *Runner) LoadTags(ctx context.Context, cmd *cli.Command) error {
	tags, err := fixtures.ReadTagsFile(cmd.String("file"))
	if err != nil {
		return err
	}

	return r.withSQL(func(db *gorm.DB) error {
		if err := repositories.AutoMigrate(db); err != nil {
			return err
		}
		inserted, err := repositories.NewSQLTagRepository(db).LoadTags(ctx, tags)
		if err != nil {
			return fmt.Errorf("failed to load tags: %w", err)
		}
		r.logger.Info("Tags loaded", "read", len(tags), "inserted", inserted)
		return nil
	})
}

func (r *Runner) withSQL(fn func(db *gorm.DB) error) error {
	db, err := config.OpenSQL(r.cfg, r.logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer config.CloseSQL(db, r.logger)
	return fn(db)
}

// invalidateIngredientCache drops cached searches so new rows show up immediately.
func (r *Runner) invalidateIngredientCache(ctx context.Context) {
	if r.cfg.RedisAddr == "" {
		return
	}
	rdb, err := config.InitRedis(ctx, r.cfg)
	if err != nil {
		r.logger.Warn("ingredient cache not invalidated", "err", err)
		return
	}
	defer rdb.Close()

	if err := cache.NewRedisIngredientCache(rdb, cache.DefaultTTL).Invalidate(ctx); err != nil {
		r.logger.Warn("ingredient cache not invalidated", "err", err)
	}
}

// verifier picks the bearer token scheme. Under Firebase it also returns the
// ID token client used by the Firebase sign-in route.
func (r *Runner) verifier(ctx context.Context, db *gorm.DB) (middleware.TokenVerifier, *auth.Client, error) {
	if r.cfg.AuthProvider != config.AuthFirebase {
		r.logger.Info("Using JWT bearer authentication.")
		return middleware.NewJWTVerifier(r.cfg.JWTSecret), nil, nil
	}

	app, err := firebase.InitFirebase(ctx, r.cfg.FirebaseCredentialsPath, r.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Firebase: %w", err)
	}
	r.logger.Info("Using Firebase ID token authentication.")
	return middleware.NewFirebaseVerifier(app.AuthClient, repositories.NewSQLUserRepository(db)), app.AuthClient, nil
}

func (r *Runner) imageStore(ctx context.Context) (storage.ImageStore, error) {
	if r.cfg.S3Bucket == "" {
		r.logger.Info("Storing images locally.", "root", r.cfg.MediaRoot)
		return storage.NewLocalStore(r.cfg.MediaRoot), nil
	}

	store, err := storage.NewS3Store(ctx, storage.S3Config{
		Bucket:    r.cfg.S3Bucket,
		Region:    r.cfg.S3Region,
		Endpoint:  r.cfg.S3Endpoint,
		PublicURL: r.cfg.S3PublicURL,
		AccessKey: r.cfg.S3AccessKey,
		SecretKey: r.cfg.S3SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure S3: %w", err)
	}
	r.logger.Info("Storing images in S3.", "bucket", r.cfg.S3Bucket)
	return store, nil
}

func (r *Runner) mailer() mailer.Mailer {
	if r.cfg.SMTPHost == "" {
		return mailer.NewLogMailer(r.logger)
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     r.cfg.SMTPHost,
		Port:     r.cfg.SMTPPort,
		User:     r.cfg.SMTPUser,
		Password: r.cfg.SMTPPassword,
		From:     r.cfg.SMTPFrom,
	})
}
