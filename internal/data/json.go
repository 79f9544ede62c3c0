package data

import (
	"encoding/json"
	"fmt"
	"os"

	"mana-backtest/internal/model"
)

// LedgerFile is the on-disk form of a frozen ledger: {"horizon": N, "ticks": {"0": [...], ...}}.
type LedgerFile struct {
	Horizon int          `json:"horizon"`
	Ticks   model.Ledger `json:"ticks"`
}

// LoadLedgerJSON reads a ledger file. The ledger is not validated against
// its horizon here; accrual does that.
func LoadLedgerJSON(path string) (*LedgerFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f LedgerFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", path, err)
	}
	return &f, nil
}

func WriteLedgerJSON(path string, f LedgerFile) error {
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}
