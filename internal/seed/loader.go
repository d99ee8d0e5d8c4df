package seed

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped fixture files from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based fixture loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "fixture-loader").Logger(),
	}
}

// Load reads a gzipped fixture file.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]OrderFixture, error) {
	l.logger.Info().Str("file", filePath).Msg("loading fixture file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open fixture file")
		return nil, fmt.Errorf("failed to open fixture file %s: %w", filePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	fixtures, err := decodeFixtures(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading fixture file")
		return nil, fmt.Errorf("error reading fixture file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("orders_loaded", len(fixtures)).
		Msg("fixture file loaded successfully")

	return fixtures, nil
}
