// Package storage persists ingested recordings, their per-row IMU
// samples and the derived gait analyses in a sqlite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore handles database operations. Writes go through a single
// lazily opened WAL connection; reads use a separate read-only one.
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store for the given database path. The
// database file and schema are created on first write.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		// WAL admits a single writer; pin the pool to one connection so
		// concurrent callers queue here instead of hitting SQLITE_BUSY.
		db.SetMaxOpenConns(1)

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// ReplaceRecording stores a recording, replacing any prior recording
// with the same (patient, session) key together with its samples and
// analyses. Returns the new recording ID.
func (s *SqliteStore) ReplaceRecording(ctx context.Context, rec *Recording) (recordingID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		err = fmt.Errorf("beginning transaction: %w", err)
		return
	}
	defer rollbackWithError(tx, &err)

	if _, err = tx.ExecContext(ctx, deleteRecordingSQL, rec.PatientID, rec.SessionID); err != nil {
		err = fmt.Errorf("deleting prior recording: %w", err)
		return
	}

	result, err := tx.ExecContext(ctx, insertRecordingSQL,
		rec.PatientID,
		rec.SessionID,
		rec.DeviceID,
		rec.SoftwareVersion,
		rec.FirmwareVersion,
		rec.RecordedAt.UTC(),
		rec.SourceFile,
		rec.RowCount,
	)
	if err != nil {
		err = fmt.Errorf("inserting recording: %w", err)
		return
	}

	if recordingID, err = result.LastInsertId(); err != nil {
		err = fmt.Errorf("getting recording ID: %w", err)
		return
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("committing transaction: %w", err)
	}
	return
}

// BatchInsertSamples inserts IMU sample rows in a single transaction
// using one batched statement.
func (s *SqliteStore) BatchInsertSamples(ctx context.Context, rows []SampleRow) (err error) {
	if len(rows) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	values := make([]interface{}, 0, len(rows)*9)

	var sb strings.Builder
	sb.WriteString(insertSampleSQL)

	for i, row := range rows {
		values = append(values,
			row.RecordingID,
			row.Timestamp,
			row.IMU,
			row.AccelX,
			row.AccelY,
			row.AccelZ,
			row.GyroX,
			row.GyroY,
			row.GyroZ,
		)

		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?)")
	}

	if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
		return fmt.Errorf("batch inserting samples: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// StoreAnalysis upserts a gait analysis keyed by (recording, imu),
// replacing any prior entry for the same key.
func (s *SqliteStore) StoreAnalysis(ctx context.Context, a *AnalysisRecord) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, upsertAnalysisSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	_, err = stmt.ExecContext(ctx,
		a.RecordingID,
		a.IMU,
		a.GaitPhases.StancePhase,
		a.GaitPhases.SwingPhase,
		a.GaitPhases.DoubleSupport,
		a.StepMetrics.StepLength,
		a.StepMetrics.StepTime,
		a.StepMetrics.StepWidth,
		a.StepMetrics.Cadence,
		a.StepMetrics.Velocity,
		a.RangeOfMotion.HipFlexion,
		a.RangeOfMotion.HipExtension,
		a.RangeOfMotion.KneeFlexion,
		a.RangeOfMotion.KneeExtension,
		a.RangeOfMotion.AnkleDorsiflexion,
		a.RangeOfMotion.AnklePlantarflexion,
		a.SymmetryIndex,
		a.GaitDeviationIndex,
		a.StepCount,
		a.ComputedAt.UTC(),
	)
	if err != nil {
		err = fmt.Errorf("upserting analysis: %w", err)
	}
	return
}

// Recording returns a recording by its (patient, session) key.
func (s *SqliteStore) Recording(ctx context.Context, patientID, sessionID string) (rec *Recording, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectRecordingSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var r Recording
	if err = stmt.QueryRowContext(ctx, patientID, sessionID).Scan(
		&r.ID,
		&r.PatientID,
		&r.SessionID,
		&r.DeviceID,
		&r.SoftwareVersion,
		&r.FirmwareVersion,
		&r.RecordedAt,
		&r.SourceFile,
		&r.RowCount,
		&r.CreatedAt,
	); err != nil {
		err = fmt.Errorf("scanning recording: %w", err)
		return
	}
	return &r, nil
}

// Recordings returns all stored recordings ordered by creation time.
func (s *SqliteStore) Recordings(ctx context.Context) (recordings []*Recording, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectRecordingsSQL)
	if err != nil {
		err = fmt.Errorf("querying recordings: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var r Recording
		if err = rows.Scan(
			&r.ID,
			&r.PatientID,
			&r.SessionID,
			&r.DeviceID,
			&r.SoftwareVersion,
			&r.FirmwareVersion,
			&r.RecordedAt,
			&r.SourceFile,
			&r.RowCount,
			&r.CreatedAt,
		); err != nil {
			err = fmt.Errorf("scanning recording: %w", err)
			return
		}
		recordings = append(recordings, &r)
	}
	err = rows.Err()
	return
}

// Analyses returns the stored gait analyses of a recording, one per
// IMU.
func (s *SqliteStore) Analyses(ctx context.Context, recordingID int64) (analyses []*AnalysisRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectAnalysesSQL, recordingID)
	if err != nil {
		err = fmt.Errorf("querying analyses: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var a AnalysisRecord
		if err = rows.Scan(
			&a.RecordingID,
			&a.IMU,
			&a.PatientID,
			&a.SessionID,
			&a.GaitPhases.StancePhase,
			&a.GaitPhases.SwingPhase,
			&a.GaitPhases.DoubleSupport,
			&a.StepMetrics.StepLength,
			&a.StepMetrics.StepTime,
			&a.StepMetrics.StepWidth,
			&a.StepMetrics.Cadence,
			&a.StepMetrics.Velocity,
			&a.RangeOfMotion.HipFlexion,
			&a.RangeOfMotion.HipExtension,
			&a.RangeOfMotion.KneeFlexion,
			&a.RangeOfMotion.KneeExtension,
			&a.RangeOfMotion.AnkleDorsiflexion,
			&a.RangeOfMotion.AnklePlantarflexion,
			&a.SymmetryIndex,
			&a.GaitDeviationIndex,
			&a.StepCount,
			&a.ComputedAt,
		); err != nil {
			err = fmt.Errorf("scanning analysis: %w", err)
			return
		}
		analyses = append(analyses, &a)
	}
	err = rows.Err()
	return
}

// Close releases both database connections. Pending indexes are built
// on the write connection before it closes. Safe to call multiple
// times.
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
