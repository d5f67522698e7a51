package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/SadokMestiri/Gait-Analysis/internal/gait"
	"github.com/SadokMestiri/Gait-Analysis/internal/storage"
)

// Run renders a vertical-acceleration strip chart with detected step
// markers for one stored recording and logs its gait analysis summary.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	if config.List {
		return listRecordings(ctx, store, logger)
	}

	recording, err := store.Recording(ctx, config.PatientID, config.SessionID)
	if err != nil {
		return fmt.Errorf("loading recording %s/%s: %w", config.PatientID, config.SessionID, err)
	}

	logger.Info("recording loaded",
		slog.String("device", recording.DeviceID),
		slog.String("firmware", recording.FirmwareVersion),
		slog.String("rows", humanize.Comma(recording.RowCount)),
		slog.String("source", recording.SourceFile),
	)

	analyses, err := store.Analyses(ctx, recording.ID)
	if err != nil {
		return fmt.Errorf("loading analyses: %w", err)
	}
	for _, a := range analyses {
		logger.Info("stored gait analysis",
			slog.String("imu", a.IMU),
			slog.Int("steps", a.StepCount),
			slog.String("cadence", fmt.Sprintf("%.1f steps/min", a.StepMetrics.Cadence)),
			slog.Float64("symmetry", a.SymmetryIndex),
			slog.Float64("deviation", a.GaitDeviationIndex),
			slog.Group("phases",
				slog.Float64("stance", a.GaitPhases.StancePhase),
				slog.Float64("swing", a.GaitPhases.SwingPhase),
				slog.Float64("doubleSupport", a.GaitPhases.DoubleSupport),
			),
		)
	}

	data, err := readChartData(ctx, store, recording.ID, config)
	if err != nil {
		return err
	}
	if len(data.Times) == 0 {
		return fmt.Errorf("no samples stored for %s of recording %s/%s", config.IMU, config.PatientID, config.SessionID)
	}

	logger.Info("rendering chart",
		slog.String("destination", config.OutputFile),
		slog.String("format", string(config.Format)),
		slog.String("imu", config.IMU),
		slog.Int("points", len(data.Times)),
		slog.Int("steps", len(data.Peaks)),
	)

	renderer, err := NewChartRenderer(ChartConfig{
		Width:         config.Width,
		Height:        config.Height,
		FontPath:      config.FontPath,
		NoAnnotations: config.NoAnnotations,
	})
	if err != nil {
		return fmt.Errorf("creating chart renderer: %w", err)
	}
	defer renderer.Close()

	img, err := renderer.Render(data)
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}

// listRecordings prints every stored recording, one log line each.
func listRecordings(ctx context.Context, store *storage.SqliteStore, logger *slog.Logger) error {
	recordings, err := store.Recordings(ctx)
	if err != nil {
		return fmt.Errorf("listing recordings: %w", err)
	}
	if len(recordings) == 0 {
		logger.Info("no recordings stored")
		return nil
	}

	for _, r := range recordings {
		logger.Info("recording",
			slog.String("patient", r.PatientID),
			slog.String("session", r.SessionID),
			slog.String("device", r.DeviceID),
			slog.Time("recordedAt", r.RecordedAt),
			slog.String("rows", humanize.Comma(r.RowCount)),
			slog.String("source", r.SourceFile),
		)
	}
	return nil
}

// readChartData pulls one IMU's vertical acceleration out of the store
// and re-runs step detection on it for the chart markers.
func readChartData(ctx context.Context, store *storage.SqliteStore, recordingID int64, config *Config) (*ChartData, error) {
	opts := []storage.ReaderOption{storage.WithIMU(config.IMU)}
	switch {
	case config.StartTime >= 0 && config.EndTime >= 0:
		opts = append(opts, storage.WithTimeRange(config.StartTime, config.EndTime))
	case config.StartTime >= 0:
		opts = append(opts, storage.WithStartTime(config.StartTime))
	case config.EndTime >= 0:
		opts = append(opts, storage.WithEndTime(config.EndTime))
	}

	reader, err := store.ReadSamples(ctx, recordingID, opts...)
	if err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}
	defer reader.Close()

	data := ChartData{
		Title:      fmt.Sprintf("%s / %s, %s vertical acceleration", config.PatientID, config.SessionID, config.IMU),
		ValueLabel: "accel.y",
	}
	for reader.Next(ctx) {
		sample := reader.Current()
		data.Times = append(data.Times, sample.Timestamp)
		data.Values = append(data.Values, sample.AccelY)
	}
	if err = reader.Error(); err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}

	data.Peaks = gait.DetectSteps(data.Values, config.PeakThreshold)
	return &data, nil
}
