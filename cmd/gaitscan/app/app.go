package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/SadokMestiri/Gait-Analysis/internal/sensorlog"
	"github.com/SadokMestiri/Gait-Analysis/internal/storage"
)

// Run ingests every configured sensor-log file: parse, demultiplex,
// derive gait metrics and persist. Files are processed concurrently;
// the engine is stateless and the store serializes writes.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store := storage.NewSqliteStore(config.Storage.DatabasePath)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing storage: %s", err.Error()))
		}
	}()

	var engineOpts []func(*sensorlog.Engine)
	if config.Engine.TraceParsing {
		engineOpts = append(engineOpts, sensorlog.WithTraceSink(sensorlog.SlogSink(logger)))
	}
	engine := sensorlog.New(engineOpts...)

	g, ctx := errgroup.WithContext(ctx)
	for _, input := range config.Inputs {
		g.Go(func() error {
			fileLogger := logger.With(
				slog.String("file", input.File),
				slog.String("patient", input.PatientID),
				slog.String("session", input.SessionID),
			)
			return ingestFile(ctx, engine, store, config, input, fileLogger)
		})
	}

	return g.Wait()
}
