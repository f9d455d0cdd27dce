package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"edu-chat-be/internal/bootstrap"
	"edu-chat-be/internal/config"
	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/service"
	"edu-chat-be/pkg/database"

	"github.com/fatih/color"
)

const usage = `chromactl - vector store maintenance

Usage:
  chromactl check    validate both stores, read only
  chromactl sync     repair the database from the vector store

check exit codes:
  0   stores are consistent
  1   repairable inconsistencies found
  -1  structural mismatch, run sync
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	syncService := bootstrap.NewSyncContainer(gormDB, cfg)
	ctx := context.Background()

	switch flag.Arg(0) {
	case "check":
		runCheck(ctx, syncService)
	case "sync":
		runSync(ctx, syncService)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runCheck(ctx context.Context, syncService service.ISyncService) {
	report, err := syncService.Validate(ctx)
	if err != nil {
		color.Red("validation failed: %v", err)
		os.Exit(-1)
	}

	switch report.Status {
	case dto.ValidationConsistent:
		color.Green("stores are consistent")
		os.Exit(0)
	case dto.ValidationFatal:
		color.Red("structural mismatch:")
		printViolations(report.Violations)
		os.Exit(-1)
	default:
		color.Yellow("%d inconsistencies found:", len(report.Violations))
		printViolations(report.Violations)
		os.Exit(1)
	}
}

func runSync(ctx context.Context, syncService service.ISyncService) {
	report, err := syncService.Sync(ctx)
	if err != nil {
		color.Red("sync failed: %v", err)
		os.Exit(-1)
	}

	color.Green("sync complete")
	fmt.Printf("  collections created: %d\n", report.CollectionsCreated)
	fmt.Printf("  collections deleted: %d\n", report.CollectionsDeleted)
	fmt.Printf("  embeddings created:  %d\n", report.EmbeddingsCreated)
	fmt.Printf("  embeddings updated:  %d\n", report.EmbeddingsUpdated)
	fmt.Printf("  embeddings deleted:  %d\n", report.EmbeddingsDeleted)
	os.Exit(0)
}

func printViolations(violations []dto.ConsistencyViolation) {
	for _, v := range violations {
		if v.DocumentId != "" {
			fmt.Printf("  [%s] %s %s: %s\n", v.Kind, v.Collection, v.DocumentId, v.Detail)
			continue
		}
		fmt.Printf("  [%s] %s: %s\n", v.Kind, v.Collection, v.Detail)
	}
}
