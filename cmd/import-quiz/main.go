package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ai919/funquiz-backend/internal/config"
	"github.com/ai919/funquiz-backend/internal/database"
	"github.com/ai919/funquiz-backend/internal/importer"
	"github.com/ai919/funquiz-backend/internal/logger"
	"github.com/ai919/funquiz-backend/internal/repository"
	"github.com/ai919/funquiz-backend/internal/service"
)

// import-quiz reads a quiz bundle from a file and runs it through the import
// pipeline. Dry-run is the default; pass -apply to commit.
func main() {
	var (
		file      string
		overwrite bool
		apply     bool
	)
	flag.StringVar(&file, "file", "", "Path to the bundle JSON file (required)")
	flag.BoolVar(&overwrite, "overwrite", false, "Replace an existing quiz with the same slug")
	flag.BoolVar(&apply, "apply", false, "Commit the import (default is a dry-run preview)")
	flag.Parse()

	if file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Failed to read bundle file")
	}

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	quizRepo := repository.NewQuizRepository(pool)
	importStore := repository.NewImportStore(pool)
	quizService := service.NewQuizService(quizRepo, rdb, log)
	pipeline := importer.NewPipeline(importStore, importer.DefaultGlyphResolver(), log)
	importService := service.NewImportService(pipeline, quizService, log)

	outcome, err := importService.Import(ctx, raw, importer.Params{
		Overwrite: overwrite,
		DryRun:    !apply,
	})
	if err != nil {
		if ie, ok := importer.AsError(err); ok {
			report, _ := json.MarshalIndent(ie, "", "  ")
			fmt.Fprintln(os.Stderr, string(report))
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Import failed")
	}

	report, _ := json.MarshalIndent(outcome, "", "  ")
	fmt.Println(string(report))

	if outcome.DryRun {
		fmt.Fprintln(os.Stderr, "dry-run only; re-run with -apply to commit")
	}
}
