// ./internal/state/solve_store.go
package state

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq" // PostgreSQL driver for array support
	"github.com/rs/zerolog/log"

	"github.com/cryptopool-labs/invariant/internal/types"
)

// SaveSolveRecord persists one solver invocation to the audit table.
func SaveSolveRecord(record types.SolveRecord) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	query := `
		INSERT INTO solve_records (
			kind, requested_at, amplification, gamma, balances,
			invariant, initial_guess, asset_index,
			result, status, error_reason, duration_micros
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING record_id;
	`

	var recordID int64
	err := DB.QueryRow(
		query,
		record.Kind, record.RequestedAt, record.Amplification, record.Gamma, pq.Array(record.Balances),
		nullIfEmpty(record.Invariant), nullIfEmpty(record.InitialGuess), record.AssetIndex,
		nullIfEmpty(record.Result), record.Status, nullIfEmpty(record.ErrorReason), record.DurationMicros,
	).Scan(&recordID)

	if err != nil {
		return 0, fmt.Errorf("failed to save solve record: %w", err)
	}

	log.Debug().
		Int64("record_id", recordID).
		Str("kind", record.Kind).
		Str("status", record.Status).
		Msg("Solve record saved to database")

	return recordID, nil
}

// GetRecentSolves retrieves recent solve records, newest first.
func GetRecentSolves(limit int) ([]types.SolveRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	if limit <= 0 || limit > 100 {
		limit = 10 // Default limit
	}

	query := `
		SELECT
			record_id, kind, requested_at, amplification, gamma, balances,
			invariant, initial_guess, asset_index,
			result, status, error_reason, duration_micros
		FROM solve_records
		ORDER BY requested_at DESC
		LIMIT $1
	`

	rows, err := DB.Query(query, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query recent solves")
		return nil, fmt.Errorf("failed to query recent solves: %w", err)
	}
	defer rows.Close()

	var records []types.SolveRecord
	for rows.Next() {
		record, err := scanSolveRecord(rows)
		if err != nil {
			log.Error().Err(err).Msg("Failed to scan solve record row")
			continue // Skip this row and continue with others
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Error occurred during row iteration")
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	log.Info().Int("count", len(records)).Int("limit", limit).Msg("Retrieved recent solves")
	return records, nil
}

// GetSolveByID retrieves a specific solve record by its ID.
func GetSolveByID(recordID int64) (*types.SolveRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT
			record_id, kind, requested_at, amplification, gamma, balances,
			invariant, initial_guess, asset_index,
			result, status, error_reason, duration_micros
		FROM solve_records
		WHERE record_id = $1
	`

	record, err := scanSolveRecord(DB.QueryRow(query, recordID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("solve record with ID %d not found", recordID)
		}
		log.Error().Err(err).Int64("record_id", recordID).Msg("Failed to query solve record by ID")
		return nil, fmt.Errorf("failed to query solve record by ID: %w", err)
	}

	return &record, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSolveRecord(row rowScanner) (types.SolveRecord, error) {
	var record types.SolveRecord
	var invariant, initialGuess, result, errorReason sql.NullString

	err := row.Scan(
		&record.RecordID, &record.Kind, &record.RequestedAt, &record.Amplification, &record.Gamma, pq.Array(&record.Balances),
		&invariant, &initialGuess, &record.AssetIndex,
		&result, &record.Status, &errorReason, &record.DurationMicros,
	)
	if err != nil {
		return types.SolveRecord{}, err
	}

	record.Invariant = invariant.String
	record.InitialGuess = initialGuess.String
	record.Result = result.String
	record.ErrorReason = errorReason.String
	return record, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
