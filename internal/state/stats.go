package state

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// SolveStats represents aggregated solver usage data
type SolveStats struct {
	TotalSolves       int     `json:"total_solves"`
	SuccessfulSolves  int     `json:"successful_solves"`
	DomainErrors      int     `json:"domain_errors"`
	ConvergenceErrors int     `json:"convergence_errors"`
	ArithmeticErrors  int     `json:"arithmetic_errors"`
	InvariantSolves   int     `json:"invariant_solves"`
	BalanceSolves     int     `json:"balance_solves"`
	AvgDurationMicros float64 `json:"avg_duration_micros"`
}

// GetSolveStats retrieves aggregated statistics over all recorded solves.
func GetSolveStats() (*SolveStats, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	stats := &SolveStats{}

	query := `
		SELECT
			COUNT(*) as total_solves,
			COUNT(CASE WHEN status = 'ok' THEN 1 END) as successful_solves,
			COUNT(CASE WHEN status = 'domain_error' THEN 1 END) as domain_errors,
			COUNT(CASE WHEN status = 'convergence_error' THEN 1 END) as convergence_errors,
			COUNT(CASE WHEN status = 'arithmetic_error' THEN 1 END) as arithmetic_errors,
			COUNT(CASE WHEN kind = 'd' THEN 1 END) as invariant_solves,
			COUNT(CASE WHEN kind = 'y' THEN 1 END) as balance_solves,
			COALESCE(AVG(duration_micros), 0) as avg_duration_micros
		FROM solve_records
	`

	err := DB.QueryRow(query).Scan(
		&stats.TotalSolves,
		&stats.SuccessfulSolves,
		&stats.DomainErrors,
		&stats.ConvergenceErrors,
		&stats.ArithmeticErrors,
		&stats.InvariantSolves,
		&stats.BalanceSolves,
		&stats.AvgDurationMicros,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get solve stats: %w", err)
	}

	log.Info().
		Int("totalSolves", stats.TotalSolves).
		Int("successfulSolves", stats.SuccessfulSolves).
		Msg("Retrieved solve stats")

	return stats, nil
}
