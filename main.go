package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	"talentflow/internal/bus"
	"talentflow/internal/config"
	"talentflow/internal/email"
	"talentflow/internal/logger"
	"talentflow/internal/oracle/gemini"
	"talentflow/internal/stage"
	"talentflow/internal/store"
	"talentflow/internal/vectorindex"
	"talentflow/internal/watch"
)

func main() {
	slog.SetDefault(slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

// run wires the whole pipeline and blocks until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer db.Close()

	if err := runMigrations(db, cfg.MigrationPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("migrations applied successfully")

	vectors, err := openVectorIndex(ctx, cfg)
	if err != nil {
		return fmt.Errorf("prepare vector index: %w", err)
	}

	oracle, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("create gemini client: %w", err)
	}
	defer oracle.Close()

	b, err := bus.New(cfg.NSQDHost, cfg.NSQDHTTP, cfg.NSQLookupd)
	if err != nil {
		return fmt.Errorf("create bus: %w", err)
	}
	declareQueues(b)

	jobs := store.NewJobRepo(db)
	candidates := store.NewCandidateRepo(db)
	matches := store.NewMatchRepo(db)
	ingestLog := store.NewIngestLog(db)
	deadLetters := store.NewDeadLetterRepo(db)
	sender := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom)

	timeout := time.Duration(cfg.OracleTimeoutSeconds) * time.Second

	consume := func(enabled bool, queue string, fn stage.Func) error {
		if !enabled {
			return nil
		}
		runner := stage.NewRunner(queue, fn, deadLetters)
		return b.Consume(queue, runner.Handle)
	}

	if err := consume(cfg.EnableSummarizer, config.QueueJobDesc,
		stage.NewSummarizer(oracle, jobs, b, timeout).Process); err != nil {
		return err
	}
	if err := consume(cfg.EnableIndexer, config.QueueJDSummary,
		stage.NewIndexer(oracle, vectors, timeout).Process); err != nil {
		return err
	}
	if err := consume(cfg.EnableParser, config.QueueResume,
		stage.NewParser(oracle, candidates, b, timeout).Process); err != nil {
		return err
	}
	if err := consume(cfg.EnableMatcher, config.QueueResumeProfile,
		stage.NewMatcher(oracle, jobs, vectors, matches, b, cfg.MatchThreshold, timeout).Process); err != nil {
		return err
	}
	if err := consume(cfg.EnableNotifier, config.QueueEmail,
		stage.NewNotifier(oracle, sender, matches, cfg.Company, timeout).Process); err != nil {
		return err
	}

	if cfg.EnableWatcher {
		watcher := watch.New(
			watch.Root{
				Dir:     cfg.JDInputDir,
				Ext:     ".csv",
				Handler: watch.NewJobFileHandler(jobs, b, config.QueueJobDesc),
			},
			watch.Root{
				Dir:     cfg.ResumeInputDir,
				Ext:     ".pdf",
				Handler: watch.NewResumeFileHandler(ingestLog, b, config.QueueResume),
			},
		)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				slog.Error("watcher stopped", "error", err)
			}
		}()
	}

	slog.Info("pipeline started",
		"watcher", cfg.EnableWatcher,
		"summarizer", cfg.EnableSummarizer,
		"indexer", cfg.EnableIndexer,
		"parser", cfg.EnableParser,
		"matcher", cfg.EnableMatcher,
		"notifier", cfg.EnableNotifier,
	)

	<-ctx.Done()
	slog.Info("shutting down")
	b.Close(time.Duration(cfg.ShutdownGraceSeconds) * time.Second)
	slog.Info("shutdown complete")
	return nil
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	delay := time.Duration(cfg.BootstrapRetryDelaySeconds) * time.Second
	for i := 0; i < cfg.BootstrapRetryAttempts; i++ {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		slog.Warn("failed to ping db, retrying...", "attempt", i+1, "max_attempts", cfg.BootstrapRetryAttempts)
		time.Sleep(delay)
	}
	db.Close()
	return nil, err
}

func runMigrations(db *sql.DB, path string) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(path, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func openVectorIndex(ctx context.Context, cfg *config.Config) (*vectorindex.Index, error) {
	client, err := weaviate.NewClient(weaviate.Config{
		Host:   cfg.WeaviateHost,
		Scheme: cfg.WeaviateScheme,
	})
	if err != nil {
		return nil, err
	}
	index := vectorindex.New(client)

	delay := time.Duration(cfg.BootstrapRetryDelaySeconds) * time.Second
	for i := 0; i < cfg.BootstrapRetryAttempts; i++ {
		if err = index.EnsureSchema(ctx); err == nil {
			slog.Info("weaviate schema ensured")
			return index, nil
		}
		slog.Warn("failed to ensure weaviate schema, retrying...", "attempt", i+1, "error", err)
		time.Sleep(delay)
	}
	return nil, err
}

// declareQueues pre-creates every topic so consumers querying lookupd do not
// 404 before the first publish. Failures are logged, not fatal: the topic is
// still created lazily on first publish.
func declareQueues(b *bus.Bus) {
	for _, queue := range config.AllQueues {
		if err := b.Declare(queue); err != nil {
			slog.Warn("failed to pre-create queue", "queue", queue, "error", err)
		}
	}
}
