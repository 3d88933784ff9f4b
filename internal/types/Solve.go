/*

Request and record types shared by the solve API and the audit store. The
solver core itself works on raw sdkmath integers; these types only carry them
across the HTTP and persistence boundaries.

*/

package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

// Solve record statuses as persisted and reported.
const (
	StatusOK               = "ok"
	StatusDomainError      = "domain_error"
	StatusConvergenceError = "convergence_error"
	StatusArithmeticError  = "arithmetic_error"
	StatusInternalError    = "internal_error"
)

// Solve kinds.
const (
	KindInvariant = "d"
	KindBalance   = "y"
)

// SolveDRequest asks for the invariant D. Amplification is expected in
// solver-native units (A_raw * N^N * 10^4); D0 may be omitted or zero to
// request the derived initial guess.
type SolveDRequest struct {
	A        sdkmath.Int   `json:"a"`
	Gamma    sdkmath.Int   `json:"gamma"`
	Balances []sdkmath.Int `json:"balances"`
	D0       sdkmath.Int   `json:"d0"`
}

// SolveYRequest asks for the balance at Index that re-satisfies invariant D.
// The balance at Index is a placeholder and is not read.
type SolveYRequest struct {
	A        sdkmath.Int   `json:"a"`
	Gamma    sdkmath.Int   `json:"gamma"`
	Balances []sdkmath.Int `json:"balances"`
	N        int           `json:"n"`
	D        sdkmath.Int   `json:"d"`
	Index    int           `json:"i"`
}

// SolveRecord is one audited solver invocation. Numeric fields are stored as
// decimal strings so the record round-trips exactly regardless of magnitude.
type SolveRecord struct {
	RecordID       int64     `json:"record_id"`
	Kind           string    `json:"kind"`
	RequestedAt    time.Time `json:"requested_at"`
	Amplification  string    `json:"amplification"`
	Gamma          string    `json:"gamma"`
	Balances       []string  `json:"balances"`
	Invariant      string    `json:"invariant,omitempty"`     // input D, balance solves only
	InitialGuess   string    `json:"initial_guess,omitempty"` // D0, invariant solves only
	AssetIndex     int       `json:"asset_index"`
	Result         string    `json:"result,omitempty"`
	Status         string    `json:"status"`
	ErrorReason    string    `json:"error_reason,omitempty"`
	DurationMicros int64     `json:"duration_micros"`
}
