package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ReaderOption configures a SampleReader query.
type ReaderOption func(*sampleQuery)

// WithIMU restricts the reader to one IMU key (e.g. "IMU0").
func WithIMU(imu string) ReaderOption {
	return func(q *sampleQuery) {
		q.imu = &imu
	}
}

// WithStartTime restricts the reader to samples at or after ts seconds.
func WithStartTime(ts float64) ReaderOption {
	return func(q *sampleQuery) {
		q.startTime = &ts
	}
}

// WithEndTime restricts the reader to samples at or before ts seconds.
func WithEndTime(ts float64) ReaderOption {
	return func(q *sampleQuery) {
		q.endTime = &ts
	}
}

// WithTimeRange restricts the reader to samples within [start, end]
// seconds.
func WithTimeRange(start, end float64) ReaderOption {
	return func(q *sampleQuery) {
		q.startTime = &start
		q.endTime = &end
	}
}

type sampleQuery struct {
	recordingID int64
	imu         *string
	startTime   *float64
	endTime     *float64
}

func (q *sampleQuery) build() (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
SELECT
    recording_id,
    ts,
    imu,
    accel_x,
    accel_y,
    accel_z,
    gyro_x,
    gyro_y,
    gyro_z
FROM samples
WHERE
    recording_id = ?`)

	args := []any{q.recordingID}
	if q.imu != nil {
		sb.WriteString(" AND imu = ?")
		args = append(args, *q.imu)
	}
	if q.startTime != nil {
		sb.WriteString(" AND ts >= ?")
		args = append(args, *q.startTime)
	}
	if q.endTime != nil {
		sb.WriteString(" AND ts <= ?")
		args = append(args, *q.endTime)
	}
	sb.WriteString(" ORDER BY ts, imu")

	return sb.String(), args
}

// SampleReader iterates over the stored sample rows of one recording in
// timestamp order. Each reader must be used from a single goroutine and
// closed after use.
type SampleReader struct {
	rows    *sql.Rows
	current SampleRow
	err     error
}

// ReadSamples creates a reader over a recording's samples with optional
// IMU and time-range filters.
func (s *SqliteStore) ReadSamples(ctx context.Context, recordingID int64, opts ...ReaderOption) (*SampleReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	q := sampleQuery{recordingID: recordingID}
	for _, opt := range opts {
		opt(&q)
	}

	query, args := q.build()
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}

	return &SampleReader{rows: rows}, nil
}

// Next advances to the next sample row. It returns false at the end of
// the result set, on a scan error, or when the context is done.
func (r *SampleReader) Next(ctx context.Context) bool {
	if r.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		r.err = err
		return false
	}
	if !r.rows.Next() {
		return false
	}

	if err := r.rows.Scan(
		&r.current.RecordingID,
		&r.current.Timestamp,
		&r.current.IMU,
		&r.current.AccelX,
		&r.current.AccelY,
		&r.current.AccelZ,
		&r.current.GyroX,
		&r.current.GyroY,
		&r.current.GyroZ,
	); err != nil {
		r.err = fmt.Errorf("scanning sample: %w", err)
		return false
	}
	return true
}

// Current returns the sample row the reader is positioned on.
func (r *SampleReader) Current() SampleRow {
	return r.current
}

// Error returns the first error encountered during iteration.
func (r *SampleReader) Error() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

// Close releases the underlying result set.
func (r *SampleReader) Close() error {
	return r.rows.Close()
}
