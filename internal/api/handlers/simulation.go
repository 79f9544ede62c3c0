package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"mana-backtest/internal/analysis"
	"mana-backtest/internal/api/models"
	"mana-backtest/internal/backtest"
	"mana-backtest/internal/config"
	"mana-backtest/internal/data"
	"mana-backtest/internal/model"

	"github.com/gin-gonic/gin"
)

// MaxHorizon caps the horizon a single request may ask for.
const MaxHorizon = 100_000

// SimulationHandler handles simulation-related requests
type SimulationHandler struct {
	cache    *data.ResultCache
	profiles *ProfileHandler
	engine   *backtest.Engine
}

// NewSimulationHandler creates a new simulation handler. cache may be nil,
// in which case ledgers can only be returned inline.
func NewSimulationHandler(cache *data.ResultCache, profiles *ProfileHandler) *SimulationHandler {
	return &SimulationHandler{
		cache:    cache,
		profiles: profiles,
		engine:   backtest.New(),
	}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, models.CodeInvalidRequest, err.Error(), nil)
		return
	}

	result, err := h.simulate(req.Config)
	if err != nil {
		writeRunError(c, err, nil)
		return
	}

	response := models.SimulateResponse{
		ID:      h.cache.Put(result),
		Status:  "completed",
		Summary: analysis.Compare(result),
	}
	if req.Options.IncludeLedger {
		response.Ledger = convertLedger(result.Rows)
	}
	log.Printf("SimulationHandler: run %s horizon=%d seed=%d events=%d", response.ID, result.Horizon, result.Seed, result.Events)
	c.JSON(http.StatusOK, response)
}

// GetLedger handles GET /api/v1/simulate/:id/ledger
func (h *SimulationHandler) GetLedger(c *gin.Context) {
	id := c.Param("id")
	result, ok := h.cache.Get(id)
	if !ok {
		abortWithError(c, http.StatusNotFound, models.CodeNotFound, fmt.Sprintf("no cached result for id %q", id), nil)
		return
	}
	c.JSON(http.StatusOK, models.LedgerResponse{
		ID:     id,
		Ledger: convertLedger(result.Rows),
	})
}

// CompareSimulations handles POST /api/v1/simulate/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, models.CodeInvalidRequest, err.Error(), nil)
		return
	}

	vars := make([]analysis.Variation, 0, len(req.Variations))
	for _, variation := range req.Variations {
		merged := mergeConfig(req.BaseConfig, variation.Config)
		result, err := h.simulate(merged)
		if err != nil {
			writeRunError(c, err, map[string]interface{}{"variation": variation.Name})
			return
		}
		vars = append(vars, analysis.Variation{Name: variation.Name, Result: result})
	}

	c.JSON(http.StatusOK, models.CompareResponse{
		Rankings: analysis.RankVariations(vars),
	})
}

// Accrue handles POST /api/v1/accrue
func (h *SimulationHandler) Accrue(c *gin.Context) {
	var req models.AccrueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, models.CodeInvalidRequest, err.Error(), nil)
		return
	}
	if req.Horizon > MaxHorizon {
		abortWithError(c, http.StatusBadRequest, models.CodeInvalidConfig, fmt.Sprintf("horizon must be <= %d", MaxHorizon), nil)
		return
	}

	result, err := h.engine.Accrue(req.Ledger, req.Horizon, nil, nil)
	if err != nil {
		writeRunError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, models.AccrueResponse{
		Horizon: result.Horizon,
		Legacy:  result.Legacy,
		Revised: result.Revised,
		Summary: analysis.Compare(result),
	})
}

// Helper methods

func (h *SimulationHandler) simulate(req models.SimulationConfig) (*backtest.Result, error) {
	cfg, err := h.buildConfig(req)
	if err != nil {
		return nil, err
	}
	params, err := backtest.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	params.Sequential = req.Sequential
	return h.engine.Run(params)
}

func (h *SimulationHandler) buildConfig(req models.SimulationConfig) (*config.Config, error) {
	cfg := &config.Config{
		Horizon:     req.Horizon,
		Perfect:     req.Perfect != nil && *req.Perfect,
		Seed:        req.Seed,
		ProfileFile: req.ProfileFile,
		Rotation:    req.Rotation,
		Accrual:     req.Accrual,
	}

	// If profile_file is set, load it and merge request overrides onto it
	if cfg.ProfileFile != "" {
		loaded, err := h.profiles.Load(cfg.ProfileFile)
		if err != nil {
			log.Printf("SimulationHandler: Failed to load profile %s: %v", cfg.ProfileFile, err)
			return nil, &model.InvalidConfigError{Field: "profile_file", Reason: fmt.Sprintf("unknown profile %q", cfg.ProfileFile)}
		}
		// Merge: profile is base, request config is override
		cfg.Rotation = config.MergeRotation(loaded, cfg.Rotation)
	}

	cfg.ApplyDefaults()
	if cfg.Horizon > MaxHorizon {
		return nil, &model.InvalidConfigError{Field: "horizon", Reason: fmt.Sprintf("must be <= %d", MaxHorizon)}
	}
	return cfg, nil
}

func mergeConfig(base, override models.SimulationConfig) models.SimulationConfig {
	merged := config.Merge(toConfig(base), toConfig(override))
	// An explicit perfect flag on the variation wins, including false.
	perfect := base.Perfect
	if override.Perfect != nil {
		perfect = override.Perfect
	}
	return models.SimulationConfig{
		Horizon:     merged.Horizon,
		Perfect:     perfect,
		Seed:        merged.Seed,
		Sequential:  base.Sequential || override.Sequential,
		ProfileFile: merged.ProfileFile,
		Rotation:    merged.Rotation,
		Accrual:     merged.Accrual,
	}
}

func toConfig(s models.SimulationConfig) config.Config {
	return config.Config{
		Horizon:     s.Horizon,
		Perfect:     s.Perfect != nil && *s.Perfect,
		Seed:        s.Seed,
		ProfileFile: s.ProfileFile,
		Rotation:    s.Rotation,
		Accrual:     s.Accrual,
	}
}

func convertLedger(rows []backtest.LedgerRow) []models.LedgerRow {
	out := make([]models.LedgerRow, 0, len(rows))
	for _, r := range rows {
		events := r.Events
		if events == nil {
			events = []model.Label{}
		}
		out = append(out, models.LedgerRow{
			Tick:       r.Tick,
			Events:     events,
			Legacy:     r.Legacy,
			Revised:    r.Revised,
			CumLegacy:  r.CumLegacy,
			CumRevised: r.CumRevised,
		})
	}
	return out
}

// writeRunError maps precondition errors to 400 and everything else to 500.
func writeRunError(c *gin.Context, err error, details map[string]interface{}) {
	var cfgErr *model.InvalidConfigError
	var ledgerErr *model.InvalidLedgerError
	switch {
	case errors.As(err, &ledgerErr):
		if details == nil {
			details = map[string]interface{}{}
		}
		details["tick"] = ledgerErr.Tick
		abortWithError(c, http.StatusBadRequest, models.CodeInvalidLedger, err.Error(), details)
	case errors.As(err, &cfgErr):
		if details == nil {
			details = map[string]interface{}{}
		}
		details["field"] = cfgErr.Field
		abortWithError(c, http.StatusBadRequest, models.CodeInvalidConfig, err.Error(), details)
	default:
		log.Printf("SimulationHandler: run failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, models.CodeSimulationError, err.Error(), details)
	}
}

func abortWithError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
