package main

import (
	"fmt"
	"os"
	"time"

	"github.com/temirov/spooler/internal/attachments"
	"github.com/temirov/spooler/internal/command"
	"github.com/temirov/spooler/internal/config"
	"github.com/temirov/spooler/internal/contentid"
	"github.com/temirov/spooler/internal/db"
	"github.com/temirov/spooler/internal/random"
	"github.com/temirov/spooler/internal/seed"
	"github.com/temirov/spooler/pkg/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Server.LogLevel)

	database, err := db.InitDB(cfg.Server.DatabasePath, logger)
	if err != nil {
		logger.Error("Failed to initialize DB", "error", err)
		os.Exit(1)
	}

	randomSeed := cfg.Fixtures.RandomSeed
	if randomSeed == 0 {
		randomSeed = uint64(time.Now().UnixNano())
	}
	generator := random.NewGenerator(randomSeed)
	logger.Debug("Random generator ready", "random_seed", randomSeed)

	contentIDs, err := contentid.NewCryptoGenerator(cfg.Fixtures.ContentIDDomain)
	if err != nil {
		logger.Error("Failed to initialize content id generator", "error", err)
		os.Exit(1)
	}

	root := command.NewRootCommand(command.Dependencies{
		Seeder:     seed.NewSeeder(database, logger, generator),
		Store:      db.NewStore(database),
		ContentIDs: contentIDs,
		Limits: attachments.Limits{
			MaxCount:          cfg.Attachments.MaxCount,
			MaxSizeBytes:      cfg.Attachments.MaxSizeBytes,
			MaxTotalSizeBytes: cfg.Attachments.MaxTotalSizeBytes,
		},
		DefaultPlan: seed.Plan{
			Emails:              cfg.Fixtures.Emails,
			AttachmentsPerEmail: cfg.Fixtures.AttachmentsPerEmail,
			RecipientsPerEmail:  cfg.Fixtures.RecipientsPerEmail,
		},
		Output: os.Stdout,
	})
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if execErr := root.Execute(); execErr != nil {
		fmt.Fprintln(os.Stderr, execErr)
		os.Exit(1)
	}
}
