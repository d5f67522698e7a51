package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// Ingest runs write from one goroutine per file; the store must queue
// concurrent write transactions instead of failing with SQLITE_BUSY.
func TestSqliteStore_ConcurrentWrites(t *testing.T) {
	store := NewSqliteStore(filepath.Join(t.TempDir(), "gait.db"))
	defer store.Close()

	ctx := context.Background()
	g, gctx := errgroup.WithContext(ctx)

	const recordings = 4
	for i := 0; i < recordings; i++ {
		g.Go(func() error {
			id, err := store.ReplaceRecording(gctx, &Recording{
				PatientID:  fmt.Sprintf("P%d", i),
				SessionID:  "S1",
				DeviceID:   "DEV42",
				RecordedAt: time.Now(),
				SourceFile: fmt.Sprintf("walk-%d.txt", i),
				RowCount:   256,
			})
			if err != nil {
				return err
			}

			rows := make([]SampleRow, 256)
			for j := range rows {
				rows[j] = SampleRow{
					RecordingID: id,
					Timestamp:   float64(j) * 0.01,
					IMU:         "IMU0",
					AccelY:      0.5,
				}
			}
			return store.BatchInsertSamples(gctx, rows)
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("Concurrent ingest failed: %v", err)
	}

	stored, err := store.Recordings(ctx)
	if err != nil {
		t.Fatalf("Failed to list recordings: %v", err)
	}
	if len(stored) != recordings {
		t.Fatalf("Expected %d recordings, got %d", recordings, len(stored))
	}
	for _, r := range stored {
		if r.SessionID != "S1" || r.RowCount != 256 {
			t.Errorf("Unexpected recording: %+v", r)
		}
	}
}

func TestSqliteStore_ReplaceRecording(t *testing.T) {
	store := NewSqliteStore(filepath.Join(t.TempDir(), "gait.db"))
	defer store.Close()

	ctx := context.Background()
	first, err := store.ReplaceRecording(ctx, &Recording{
		PatientID:  "P1",
		SessionID:  "S1",
		RecordedAt: time.Now(),
		RowCount:   10,
	})
	if err != nil {
		t.Fatalf("Failed to store recording: %v", err)
	}

	if err = store.BatchInsertSamples(ctx, []SampleRow{
		{RecordingID: first, Timestamp: 0, IMU: "IMU0"},
	}); err != nil {
		t.Fatalf("Failed to insert samples: %v", err)
	}

	// Re-ingesting the same key replaces the recording and cascades to
	// its samples.
	second, err := store.ReplaceRecording(ctx, &Recording{
		PatientID:  "P1",
		SessionID:  "S1",
		RecordedAt: time.Now(),
		RowCount:   20,
	})
	if err != nil {
		t.Fatalf("Failed to replace recording: %v", err)
	}
	if second == first {
		t.Error("Expected a new recording ID after replacement")
	}

	rec, err := store.Recording(ctx, "P1", "S1")
	if err != nil {
		t.Fatalf("Failed to load recording: %v", err)
	}
	if rec.ID != second || rec.RowCount != 20 {
		t.Errorf("Expected replacement recording, got %+v", rec)
	}

	reader, err := store.ReadSamples(ctx, first)
	if err != nil {
		t.Fatalf("Failed to read samples: %v", err)
	}
	defer reader.Close()
	if reader.Next(ctx) {
		t.Error("Expected the replaced recording's samples to be gone")
	}
	if err = reader.Error(); err != nil {
		t.Fatalf("Reader failed: %v", err)
	}
}
