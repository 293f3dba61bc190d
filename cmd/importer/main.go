package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/events"
	"github.com/gokatarajesh/trivia-api/internal/question"
	"github.com/gokatarajesh/trivia-api/internal/question/external"
)

const (
	sourceAll       = "all"
	sourceOpenTDB   = "opentdb"
	sourceTriviaAPI = "triviaapi"
)

func main() {
	var (
		category        = flag.Int64("category", 1, "Local category id to store questions under")
		amount          = flag.Int("amount", 10, "Number of questions to import")
		difficulty      = flag.String("difficulty", "", "Upstream difficulty filter: easy, medium or hard")
		source          = flag.String("source", sourceAll, "Provider: all, opentdb or triviaapi")
		opentdbCategory = flag.Int("opentdb-category", 0, "Open Trivia DB category id (0 for any)")
		triviaCategory  = flag.String("triviaapi-category", "", "Trivia API category slug")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", "trivia-importer").Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}
	os.Setenv("STORE_DRIVER", config.StoreDriverPostgres)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer pool.Close()

	opts := question.ServiceOptions{PageSize: cfg.Trivia.PageSize}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		defer rdb.Close()
		opts.Notifier = events.NewPublisher(rdb, cfg.Events.Channel)
	}
	svc := question.NewService(repository.NewPoolStore(pool), opts, log.Logger)

	httpClient := &http.Client{Timeout: cfg.Import.HTTPTimeout}
	var importer *question.Importer
	switch *source {
	case sourceOpenTDB:
		importer = question.NewImporter(svc, external.NewOpenTDBClient(cfg.Import.OpenTDBBaseURL, httpClient), nil)
	case sourceTriviaAPI:
		importer = question.NewImporter(svc, nil, external.NewTriviaAPIClient(cfg.Import.TriviaAPIBaseURL, cfg.Import.TriviaAPIKey, httpClient))
	case sourceAll:
		importer = question.NewImporter(svc,
			external.NewOpenTDBClient(cfg.Import.OpenTDBBaseURL, httpClient),
			external.NewTriviaAPIClient(cfg.Import.TriviaAPIBaseURL, cfg.Import.TriviaAPIKey, httpClient),
		)
	default:
		log.Fatal().Str("source", *source).Msg("unknown source. Use: all, opentdb or triviaapi")
	}

	result, err := importer.Import(ctx, question.ImportRequest{
		CategoryID:        *category,
		Amount:            *amount,
		Difficulty:        *difficulty,
		OpenTDBCategory:   *opentdbCategory,
		TriviaAPICategory: *triviaCategory,
	})
	if err != nil {
		log.Fatal().Err(err).Int("imported", len(result.Imported)).Msg("import failed")
	}

	log.Info().
		Int64("category", *category).
		Int("imported", len(result.Imported)).
		Int("skipped", result.Skipped).
		Msg("import complete")
}
