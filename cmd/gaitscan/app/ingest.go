package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/SadokMestiri/Gait-Analysis/internal/gait"
	"github.com/SadokMestiri/Gait-Analysis/internal/sensorlog"
	"github.com/SadokMestiri/Gait-Analysis/internal/storage"
)

// ErrHTMLContent is returned for files holding an HTML document: an
// HTTP error page saved in place of a data file. The check guards the
// integration boundary so such content never reaches the engine.
var ErrHTMLContent = errors.New("content is an HTML document, not a sensor log")

func isHTMLContent(content string) bool {
	lowered := strings.ToLower(content)
	return strings.Contains(lowered, "<!doctype html") || strings.Contains(lowered, "<html")
}

func ingestFile(ctx context.Context, engine *sensorlog.Engine, store *storage.SqliteStore, config *Config, input InputConfig, logger *slog.Logger) error {
	data, err := os.ReadFile(input.File)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input.File, err)
	}
	logger.Info("ingesting sensor log", slog.String("size", humanize.Bytes(uint64(len(data)))))

	content := string(data)
	if isHTMLContent(content) {
		return fmt.Errorf("%s: %w", input.File, ErrHTMLContent)
	}

	structure, err := engine.AnalyzeStructure(content)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", input.File, err)
	}
	logger.Debug("file structure",
		slog.Int("columns", structure.Columns),
		slog.Int("dataStartLine", structure.DataStartLine),
		slog.Bool("headerDefaulted", structure.Header.DeviceID.Defaulted),
	)

	rec, err := engine.ExtractAll(content)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", input.File, err)
	}

	recordingID, err := store.ReplaceRecording(ctx, &storage.Recording{
		PatientID:       input.PatientID,
		SessionID:       input.SessionID,
		DeviceID:        structure.Header.DeviceID.Value,
		SoftwareVersion: structure.Header.SoftwareVersion.Value,
		FirmwareVersion: structure.Header.FirmwareVersion.Value,
		RecordedAt:      structure.Header.RecordedAt.Value,
		SourceFile:      filepath.Base(input.File),
		RowCount:        int64(len(rec.Timestamps)),
	})
	if err != nil {
		return fmt.Errorf("storing recording for %s: %w", input.File, err)
	}

	rows := buildSampleRows(recordingID, rec)
	for chunk := range slices.Chunk(rows, config.Storage.MaxBatchSize) {
		if err = store.BatchInsertSamples(ctx, chunk); err != nil {
			return fmt.Errorf("storing samples for %s: %w", input.File, err)
		}
	}

	for _, imuKey := range sortedIMUKeys(rec) {
		series := rec.IMUs[imuKey]

		analysis := gait.ComputeAnalysis(series, rec.Timestamps, input.PatientID, input.SessionID,
			gait.WithPeakThreshold(config.Engine.PeakThreshold),
			gait.WithStepGeometry(config.Engine.StepLength, config.Engine.StepWidth),
		)
		if err = store.StoreAnalysis(ctx, &storage.AnalysisRecord{
			RecordingID: recordingID,
			IMU:         imuKey,
			Analysis:    *analysis,
		}); err != nil {
			return fmt.Errorf("storing analysis for %s/%s: %w", input.File, imuKey, err)
		}

		logger.Info("gait analysis computed",
			slog.String("imu", imuKey),
			slog.Int("steps", analysis.StepCount),
			slog.String("cadence", fmt.Sprintf("%.1f steps/min", analysis.StepMetrics.Cadence)),
			slog.Float64("symmetry", analysis.SymmetryIndex),
			slog.Float64("deviation", analysis.GaitDeviationIndex),
		)

		for _, flag := range gait.DetectAbnormalities(series, rec.Timestamps) {
			logger.Warn("abnormality flagged", slog.String("imu", imuKey), slog.String("flag", flag))
		}
	}

	logger.Info("recording ingested",
		slog.String("rows", humanize.Comma(int64(len(rec.Timestamps)))),
		slog.Int("imus", len(rec.IMUs)),
	)
	return nil
}

func buildSampleRows(recordingID int64, rec *sensorlog.Recording) []storage.SampleRow {
	keys := sortedIMUKeys(rec)

	rows := make([]storage.SampleRow, 0, len(rec.Timestamps)*len(keys))
	for i, ts := range rec.Timestamps {
		for _, key := range keys {
			series := rec.IMUs[key]
			rows = append(rows, storage.SampleRow{
				RecordingID: recordingID,
				Timestamp:   ts,
				IMU:         key,
				AccelX:      series.Acceleration.X[i],
				AccelY:      series.Acceleration.Y[i],
				AccelZ:      series.Acceleration.Z[i],
				GyroX:       series.Gyroscope.X[i],
				GyroY:       series.Gyroscope.Y[i],
				GyroZ:       series.Gyroscope.Z[i],
			})
		}
	}
	return rows
}

func sortedIMUKeys(rec *sensorlog.Recording) []string {
	keys := make([]string, 0, len(rec.IMUs))
	for key := range rec.IMUs {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
