package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/nyaya-ai/nyaya/internal/ai"
	"github.com/nyaya-ai/nyaya/internal/broker"
	"github.com/nyaya-ai/nyaya/internal/catalog"
	"github.com/nyaya-ai/nyaya/internal/envstruct"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/fallback"
	"github.com/nyaya-ai/nyaya/internal/logging"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/pprofserver"
	"github.com/nyaya-ai/nyaya/internal/prediction"
	"github.com/nyaya-ai/nyaya/internal/repositories"
	"github.com/nyaya-ai/nyaya/internal/review"
	"github.com/nyaya-ai/nyaya/internal/sqlite"
)

type application struct {
	logger         *slog.Logger
	cfg            config
	sessionManager *scs.SessionManager
	officers       *repositories.OfficerRepository
	firs           *repositories.FIRRepository
	feedback       *repositories.FeedbackRepository
	sections       *repositories.SectionRepository
	predictor      *prediction.Gateway
	reviews        *review.Service
	chat           ai.Provider
	chatStreams    *broker.ChannelBroker[string, chatEvent]
}

type config struct {
	// Addr is the address the HTTP server listens on. Port 0 picks a free port.
	Addr string `env:"NYAYA_ADDR" envDefault:"localhost:4000"`
	// PprofPort is the loopback port of the pprof server. Empty disables it.
	PprofPort string `env:"NYAYA_PPROF_PORT" envDefault:"6060"`
	// SqliteURL is the database file or ":memory:".
	SqliteURL string `env:"NYAYA_SQLITE_URL" envDefault:"./nyaya.sqlite3"`

	AIProvider            string        `env:"NYAYA_AI_PROVIDER"            envDefault:"openai"`
	AIModel               string        `env:"NYAYA_AI_MODEL"               envDefault:""`
	PredictionTimeout     time.Duration `env:"NYAYA_PREDICTION_TIMEOUT"     envDefault:"10s"`
	PredictionTemperature float64       `env:"NYAYA_PREDICTION_TEMPERATURE" envDefault:"0.3"`
	PredictionMaxTokens   int           `env:"NYAYA_PREDICTION_MAX_TOKENS"  envDefault:"2000"`
	FallbackCap           int           `env:"NYAYA_FALLBACK_CAP"           envDefault:"5"`
	OpenAIAPIKey          string        `env:"OPENAI_API_KEY"               envDefault:""`
	OpenAIBaseURL         string        `env:"OPENAI_BASE_URL"              envDefault:""`
	AnthropicAPIKey       string        `env:"ANTHROPIC_API_KEY"            envDefault:""`
	AnthropicBaseURL      string        `env:"ANTHROPIC_BASE_URL"           envDefault:""`

	SessionLifetime time.Duration `env:"NYAYA_SESSION_LIFETIME" envDefault:"12h"`
	// DraftTTL is how long an untouched review draft is kept.
	DraftTTL time.Duration `env:"NYAYA_DRAFT_TTL" envDefault:"24h"`

	// AdminBadge and AdminPassword provision the first officer login. Empty AdminBadge skips it.
	AdminBadge    string `env:"NYAYA_ADMIN_BADGE"    envDefault:""`
	AdminPassword string `env:"NYAYA_ADMIN_PASSWORD" envDefault:""`
	AdminName     string `env:"NYAYA_ADMIN_NAME"     envDefault:"Station Administrator"`
}

func (cfg config) predictionConfig() prediction.Config {
	return prediction.Config{
		Model:       cfg.AIModel,
		Timeout:     cfg.PredictionTimeout,
		Temperature: cfg.PredictionTemperature,
		MaxTokens:   cfg.PredictionMaxTokens,
		Cap:         cfg.FallbackCap,
	}
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cfg      config
		db       *sqlite.Database
		catalogs []models.LegalSection
		provider ai.Provider
		err      error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "error closing database", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db", slog.String("url", cfg.SqliteURL))

	sections := repositories.NewSectionRepository(db, logger)
	if catalogs, err = catalog.Load(); err != nil {
		return errors.Wrap(err, "load legal catalog")
	}
	if err = sections.Sync(ctx, catalogs); err != nil {
		return errors.Wrap(err, "sync legal catalog")
	}

	officers := repositories.NewOfficerRepository(db, logger)
	if cfg.AdminBadge != "" {
		if err = officers.EnsureAdmin(ctx, cfg.AdminBadge, cfg.AdminName, cfg.AdminPassword); err != nil {
			return errors.Wrap(err, "ensure admin officer", slog.String("badge", cfg.AdminBadge))
		}
	}

	if provider, err = ai.NewProvider(ai.Config{
		Provider:         cfg.AIProvider,
		Model:            cfg.AIModel,
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		AnthropicAPIKey:  cfg.AnthropicAPIKey,
		AnthropicBaseURL: cfg.AnthropicBaseURL,
	}); err != nil {
		if !errors.Is(err, ai.ErrMissingAPIKey) {
			return errors.Wrap(err, "create AI provider")
		}
		// Section suggestions still work through the keyword fallback.
		logger.LogAttrs(ctx, slog.LevelWarn, "language model disabled", errors.SlogError(err))
		provider = ai.Disabled{}
	}

	predictor := prediction.NewGateway(provider, fallback.NewDefaultMatcher(), cfg.predictionConfig(), logger)
	drafts := repositories.NewDraftRepository(db, logger)

	sessionStore := sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, time.Hour)
	defer sessionStore.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = sessionStore
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.Name = "nyaya_session"
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Secure = true

	app := application{
		logger:         logger,
		cfg:            cfg,
		sessionManager: sessionManager,
		officers:       officers,
		firs:           repositories.NewFIRRepository(db, logger),
		feedback:       repositories.NewFeedbackRepository(db, logger),
		sections:       sections,
		predictor:      predictor,
		reviews:        review.NewService(drafts, predictor, logger),
		chat:           provider,
		chatStreams:    broker.NewChannelBroker[string, chatEvent](),
	}

	pprofserver.Launch(ctx, cfg.PprofPort, logger)

	scheduler := app.newScheduler(db, drafts)
	scheduler.Start()
	defer func() {
		<-scheduler.Stop().Done()
	}()

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine, the environment may be configured otherwise.
	_ = godotenv.Load()

	logger, err := logging.NewLogger(os.Stdout, envOr("LOG_FORMAT", "text"), envOr("LOG_LEVEL", "debug"))
	if err != nil {
		slog.Default().LogAttrs(ctx, slog.LevelError, "failure configuring logger", errors.SlogError(err))
		os.Exit(1) //nolint:gocritic // stop is only for cleanup
	}

	if err = run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}

func envOr(key string, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
