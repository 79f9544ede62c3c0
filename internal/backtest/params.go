package backtest

import (
	"mana-backtest/internal/config"
)

// FromConfig builds run params from a loaded config. The config is validated
// first, so a bad rotation or rate fails here rather than mid-run.
func FromConfig(cfg *config.Config) (Params, error) {
	if err := cfg.Validate(); err != nil {
		return Params{}, err
	}
	legacy, revised, err := cfg.Accrual.Models()
	if err != nil {
		return Params{}, err
	}
	provider, seed := cfg.Jitter()
	return Params{
		Horizon:  cfg.Horizon,
		Rotation: cfg.Rotation.ToRotation(),
		Jitter:   provider,
		Seed:     seed,
		Legacy:   legacy,
		Revised:  revised,
	}, nil
}
