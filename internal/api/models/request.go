package models

import (
	"mana-backtest/internal/config"
	"mana-backtest/internal/model"
)

// SimulateRequest represents the request body for running a simulation
type SimulateRequest struct {
	Config  SimulationConfig  `json:"config"`
	Options SimulationOptions `json:"options,omitempty"`
}

// SimulationConfig mirrors the YAML config. Zero fields take defaults.
type SimulationConfig struct {
	Horizon    int    `json:"horizon,omitempty"`
	Perfect    *bool  `json:"perfect,omitempty"`
	Seed       *int64 `json:"seed,omitempty"`
	Sequential bool   `json:"sequential,omitempty"`

	// ProfileFile is a preset name under the profile directory, e.g. "fast-smoke".
	ProfileFile string                `json:"profile_file,omitempty"`
	Rotation    config.RotationConfig `json:"rotation,omitempty"`
	Accrual     config.AccrualConfig  `json:"accrual,omitempty"`
}

// SimulationOptions contains optional simulation parameters
type SimulationOptions struct {
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
}

// CompareRequest represents a request to compare several variations of one base config
type CompareRequest struct {
	BaseConfig SimulationConfig `json:"base_config"`
	Variations []Variation      `json:"variations" binding:"required,min=1,dive"`
}

// Variation defines a variation to test
type Variation struct {
	Name   string           `json:"name" binding:"required"`
	Config SimulationConfig `json:"config"`
}

// AccrueRequest runs both models over a caller-supplied ledger
type AccrueRequest struct {
	Horizon int          `json:"horizon"`
	Ledger  model.Ledger `json:"ledger"`
}
