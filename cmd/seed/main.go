package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-fulfilment/internal/config"
	"order-fulfilment/internal/database"
	"order-fulfilment/internal/repository"
	"order-fulfilment/internal/seed"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	fileFlag := &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "gzipped JSON-lines fixture file (S3 key suffix when S3 is enabled)",
		Required: true,
	}

	return &cli.App{
		Name:  "seed",
		Usage: "load order fixtures into the order-fulfilment database",
		Before: func(c *cli.Context) error {
			// A missing .env file is fine; the environment may already be set.
			_ = godotenv.Load()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "insert every order of a fixture file",
				Flags:  []cli.Flag{fileFlag},
				Action: importAction,
			},
			{
				Name:   "validate",
				Usage:  "check a fixture file without touching the database",
				Flags:  []cli.Flag{fileFlag},
				Action: validateAction,
			},
			{
				Name:  "sample",
				Usage: "write a sample fixture file covering every product policy",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output path",
						Value:   "orders.jsonl.gz",
					},
				},
				Action: sampleAction,
			},
		},
	}
}

func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, config.NewLogger(cfg.Logger), nil
}

func newLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) seed.Loader {
	fileLoader := seed.NewFileLoader(logger)
	if !cfg.S3.Enabled {
		return fileLoader
	}

	s3Loader, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialise S3 loader, using local file system only")
		return fileLoader
	}
	return seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
}

func importAction(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	fixtures, err := newLoader(c.Context, cfg, logger).Load(c.Context, c.String("file"))
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	pool, err := database.NewPool(c.Context, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	importer := seed.NewImporter(
		repository.NewOrderRepository(pool, logger),
		repository.NewProductRepository(pool, logger),
		logger,
	)

	ids, err := importer.Import(c.Context, fixtures)
	for _, id := range ids {
		fmt.Fprintf(c.App.Writer, "order %d\n", id)
	}
	return err
}

func validateAction(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	fixtures, err := newLoader(c.Context, cfg, logger).Load(c.Context, c.String("file"))
	if err != nil {
		return err
	}

	lineItems := 0
	for _, f := range fixtures {
		lineItems += len(f.Products)
	}
	fmt.Fprintf(c.App.Writer, "%d orders, %d line items\n", len(fixtures), lineItems)
	return nil
}

func sampleAction(c *cli.Context) error {
	path := c.String("out")

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := seed.WriteFixtures(file, seed.SampleFixtures(time.Now())); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return file.Close()
}
