package storage

import (
	_ "embed"
)

const (
	insertRecordingSQL = `
INSERT INTO recordings (patient_id,
                        session_id,
                        device_id,
                        software_version,
                        firmware_version,
                        recorded_at,
                        source_file,
                        row_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	deleteRecordingSQL = `
DELETE
FROM recordings
WHERE
    patient_id = ?
    AND session_id = ?`

	selectRecordingSQL = `
SELECT
    id,
    patient_id,
    session_id,
    device_id,
    software_version,
    firmware_version,
    recorded_at,
    source_file,
    row_count,
    created_at
FROM recordings
WHERE
    patient_id = ?
    AND session_id = ?`

	selectRecordingsSQL = `
SELECT
    id,
    patient_id,
    session_id,
    device_id,
    software_version,
    firmware_version,
    recorded_at,
    source_file,
    row_count,
    created_at
FROM recordings
ORDER BY created_at`

	insertSampleSQL = `
INSERT INTO samples (recording_id,
                     ts,
                     imu,
                     accel_x,
                     accel_y,
                     accel_z,
                     gyro_x,
                     gyro_y,
                     gyro_z)
VALUES `

	upsertAnalysisSQL = `
INSERT INTO analyses (recording_id,
                      imu,
                      stance_phase,
                      swing_phase,
                      double_support,
                      step_length,
                      step_time,
                      step_width,
                      cadence,
                      velocity,
                      hip_flexion,
                      hip_extension,
                      knee_flexion,
                      knee_extension,
                      ankle_dorsiflexion,
                      ankle_plantarflexion,
                      symmetry_index,
                      gait_deviation_index,
                      step_count,
                      computed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (recording_id, imu) DO UPDATE SET
    stance_phase         = excluded.stance_phase,
    swing_phase          = excluded.swing_phase,
    double_support       = excluded.double_support,
    step_length          = excluded.step_length,
    step_time            = excluded.step_time,
    step_width           = excluded.step_width,
    cadence              = excluded.cadence,
    velocity             = excluded.velocity,
    hip_flexion          = excluded.hip_flexion,
    hip_extension        = excluded.hip_extension,
    knee_flexion         = excluded.knee_flexion,
    knee_extension       = excluded.knee_extension,
    ankle_dorsiflexion   = excluded.ankle_dorsiflexion,
    ankle_plantarflexion = excluded.ankle_plantarflexion,
    symmetry_index       = excluded.symmetry_index,
    gait_deviation_index = excluded.gait_deviation_index,
    step_count           = excluded.step_count,
    computed_at          = excluded.computed_at`

	selectAnalysesSQL = `
SELECT
    a.recording_id,
    a.imu,
    r.patient_id,
    r.session_id,
    a.stance_phase,
    a.swing_phase,
    a.double_support,
    a.step_length,
    a.step_time,
    a.step_width,
    a.cadence,
    a.velocity,
    a.hip_flexion,
    a.hip_extension,
    a.knee_flexion,
    a.knee_extension,
    a.ankle_dorsiflexion,
    a.ankle_plantarflexion,
    a.symmetry_index,
    a.gait_deviation_index,
    a.step_count,
    a.computed_at
FROM analyses a
         JOIN recordings r ON r.id = a.recording_id
WHERE
    a.recording_id = ?
ORDER BY a.imu`

	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_samples_recording_ts ON samples (recording_id, ts);
CREATE INDEX IF NOT EXISTS idx_samples_recording_imu ON samples (recording_id, imu);`
)

//go:embed schema.sql
var initSchemaSQL string
