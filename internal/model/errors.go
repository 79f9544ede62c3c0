package model

import "fmt"

// InvalidLedgerError reports a tick below the horizon with no ledger entry.
// A gap would silently read as zero gain, so accrual refuses it.
type InvalidLedgerError struct {
	Tick    int
	Horizon int
}

func (e *InvalidLedgerError) Error() string {
	return fmt.Sprintf("invalid ledger: tick %d has no entry (horizon %d)", e.Tick, e.Horizon)
}

// InvalidConfigError reports a configuration value outside its domain.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

// CheckHorizon rejects a non-positive horizon.
func CheckHorizon(horizon int) error {
	if horizon <= 0 {
		return &InvalidConfigError{Field: "horizon", Reason: fmt.Sprintf("must be > 0, got %d", horizon)}
	}
	return nil
}
