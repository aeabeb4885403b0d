package dto

import "errors"

// Provider error taxonomy. Snapshot building wraps provider failures with
// these sentinels so the batch driver can classify them per position.
var (
	// ErrInsufficientData means the underlying has too little price history
	// to compute indicators. The position is skipped for the run.
	ErrInsufficientData = errors.New("insufficient price history")

	// ErrChainUnavailable means the option chain for the ticker/expiry could
	// not be fetched. Not retried within the same run.
	ErrChainUnavailable = errors.New("option chain unavailable")

	// ErrLegNotFound means a requested strike is absent from the fetched
	// chain. This is a configuration error and is surfaced verbatim.
	ErrLegNotFound = errors.New("option leg not found in chain")

	// ErrDataUnavailable covers generic timeouts and transport failures.
	ErrDataUnavailable = errors.New("market data unavailable")
)
