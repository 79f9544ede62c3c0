package models

import (
	"github.com/shopspring/decimal"

	"mana-backtest/internal/ability"
	"mana-backtest/internal/analysis"
	"mana-backtest/internal/config"
	"mana-backtest/internal/model"
)

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID      string              `json:"id,omitempty"`
	Status  string              `json:"status"`
	Summary analysis.Comparison `json:"summary"`
	Ledger  []LedgerRow         `json:"ledger,omitempty"`
}

// LedgerRow represents one tick in the simulation ledger
type LedgerRow struct {
	Tick       int             `json:"tick"`
	Events     []model.Label   `json:"events"`
	Legacy     decimal.Decimal `json:"legacy"`
	Revised    decimal.Decimal `json:"revised"`
	CumLegacy  decimal.Decimal `json:"cum_legacy"`
	CumRevised decimal.Decimal `json:"cum_revised"`
}

// LedgerResponse is returned by the cached ledger lookup
type LedgerResponse struct {
	ID     string      `json:"id"`
	Ledger []LedgerRow `json:"ledger"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Rankings []analysis.RankedVariation `json:"rankings"`
}

// AccrueResponse holds both sequences for a supplied ledger
type AccrueResponse struct {
	Horizon int                 `json:"horizon"`
	Legacy  model.Sequence      `json:"legacy"`
	Revised model.Sequence      `json:"revised"`
	Summary analysis.Comparison `json:"summary"`
}

// ProfileInfo represents information about a rotation preset
type ProfileInfo struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	File     string                `json:"file"`
	Rotation config.RotationConfig `json:"rotation"`
}

// ModelInfo represents information about an accrual model
type ModelInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a model parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "decimal", "label"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// AbilitiesResponse lists the default rotation
type AbilitiesResponse struct {
	Abilities    []ability.Description `json:"abilities"`
	MultihitLead int                   `json:"multihit_lead"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidConfig   = "INVALID_CONFIG"
	CodeInvalidLedger   = "INVALID_LEDGER"
	CodeNotFound        = "NOT_FOUND"
	CodeSimulationError = "SIMULATION_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)
