package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"mana-backtest/internal/ability"
	"mana-backtest/internal/accrual"
	"mana-backtest/internal/jitter"
	"mana-backtest/internal/model"
)

const DefaultHorizon = 20 * 30

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Horizon int    `yaml:"horizon" json:"horizon"`
	Perfect bool   `yaml:"perfect" json:"perfect"`
	Seed    *int64 `yaml:"seed" json:"seed,omitempty"`

	// Optional: load cadences from a separate YAML (e.g. examples/profiles/*.yaml).
	// If both ProfileFile and Rotation are provided, Rotation overrides ProfileFile.
	ProfileFile string         `yaml:"profile_file" json:"profile_file,omitempty"`
	Rotation    RotationConfig `yaml:"rotation" json:"rotation"`
	Accrual     AccrualConfig  `yaml:"accrual" json:"accrual"`
}

type WindowConfig struct {
	Hits int `yaml:"hits" json:"hits,omitempty"`
	Step int `yaml:"step" json:"step,omitempty"`
}

type BloomConfig struct {
	Hits      int `yaml:"hits" json:"hits,omitempty"`
	Step      int `yaml:"step" json:"step,omitempty"`
	Credit    int `yaml:"credit" json:"credit,omitempty"`
	Threshold int `yaml:"threshold" json:"threshold,omitempty"`
	Backfill  int `yaml:"backfill" json:"backfill,omitempty"`
}

type RotationConfig struct {
	Name         string       `yaml:"name" json:"name,omitempty"`
	Lacerate     WindowConfig `yaml:"lacerate" json:"lacerate"`
	Multihit     WindowConfig `yaml:"multihit" json:"multihit"`
	Smoke        WindowConfig `yaml:"smoke" json:"smoke"`
	Bloom        BloomConfig  `yaml:"bloom" json:"bloom"`
	MultihitLead int          `yaml:"multihit_lead" json:"multihit_lead,omitempty"`
}

// Rates are decimal strings ("0.6") so they round-trip without float noise.
type AccrualConfig struct {
	Legacy  LegacyConfig  `yaml:"legacy" json:"legacy"`
	Revised RevisedConfig `yaml:"revised" json:"revised"`
}

type LegacyConfig struct {
	PerHit string `yaml:"per_hit" json:"per_hit,omitempty"`
	Bonus  string `yaml:"bonus" json:"bonus,omitempty"`
}

type RevisedConfig struct {
	PerTick string `yaml:"per_tick" json:"per_tick,omitempty"`
}

// Default returns the reference configuration.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// If profile_file is set, load it and merge in any explicit overrides from c.Rotation.
	if c.ProfileFile != "" {
		profilePath := c.ProfileFile
		if !filepath.IsAbs(profilePath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), profilePath)
			if _, err := os.Stat(cand); err == nil {
				profilePath = cand
			}
		}
		loaded, err := LoadProfile(profilePath)
		if err != nil {
			return nil, err
		}
		c.Rotation = MergeRotation(loaded, c.Rotation)
	}
	return &c, nil
}

// ApplyDefaults fills every zero field with the reference value.
func (c *Config) ApplyDefaults() {
	if c.Horizon == 0 {
		c.Horizon = DefaultHorizon
	}
	c.Rotation = MergeRotation(DefaultRotation(), c.Rotation)
	if c.Accrual.Legacy.PerHit == "" {
		c.Accrual.Legacy.PerHit = "0.6"
	}
	if c.Accrual.Legacy.Bonus == "" {
		c.Accrual.Legacy.Bonus = "1.2"
	}
	if c.Accrual.Revised.PerTick == "" {
		c.Accrual.Revised.PerTick = "1.2"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := model.CheckHorizon(c.Horizon); err != nil {
		return err
	}
	if err := c.Rotation.ToRotation().Validate(); err != nil {
		return err
	}
	if _, _, err := c.Accrual.Models(); err != nil {
		return err
	}
	return nil
}

// Jitter returns the delay provider for this config and the seed it uses.
func (c *Config) Jitter() (jitter.Provider, int64) {
	return jitter.ForConfig(c.Perfect, c.Seed)
}

func DefaultRotation() RotationConfig {
	r := ability.DefaultRotation()
	return RotationConfig{
		Name:     "default",
		Lacerate: WindowConfig{Hits: r.Lacerate.Hits, Step: r.Lacerate.Step},
		Multihit: WindowConfig{Hits: r.Multihit.Hits, Step: r.Multihit.Step},
		Smoke:    WindowConfig{Hits: r.Smoke.Hits, Step: r.Smoke.Step},
		Bloom: BloomConfig{
			Hits:      r.Bloom.Hits,
			Step:      r.Bloom.Step,
			Credit:    r.Bloom.Credit,
			Threshold: r.Bloom.Threshold,
			Backfill:  r.Bloom.Backfill,
		},
		MultihitLead: r.MultihitLead,
	}
}

func (r RotationConfig) ToRotation() ability.Rotation {
	return ability.Rotation{
		Lacerate: ability.Windowed{Ability: model.LabelLacerate, Hits: r.Lacerate.Hits, Step: r.Lacerate.Step},
		Multihit: ability.Windowed{Ability: model.LabelMultihit, Hits: r.Multihit.Hits, Step: r.Multihit.Step},
		Smoke:    ability.Windowed{Ability: model.LabelSmoke, Hits: r.Smoke.Hits, Step: r.Smoke.Step},
		Bloom: ability.Compensating{
			Ability:   model.LabelBloom,
			Hits:      r.Bloom.Hits,
			Step:      r.Bloom.Step,
			Credit:    r.Bloom.Credit,
			Threshold: r.Bloom.Threshold,
			Backfill:  r.Bloom.Backfill,
		},
		MultihitLead: r.MultihitLead,
	}
}

// Models builds the two accrual models from the configured rates.
func (a AccrualConfig) Models() (accrual.Legacy, accrual.Revised, error) {
	legacy := accrual.NewLegacy()
	revised := accrual.NewRevised()

	var err error
	if legacy.PerHit, err = parseRate("accrual.legacy.per_hit", a.Legacy.PerHit, legacy.PerHit); err != nil {
		return legacy, revised, err
	}
	if legacy.Bonus, err = parseRate("accrual.legacy.bonus", a.Legacy.Bonus, legacy.Bonus); err != nil {
		return legacy, revised, err
	}
	if revised.PerTick, err = parseRate("accrual.revised.per_tick", a.Revised.PerTick, revised.PerTick); err != nil {
		return legacy, revised, err
	}
	return legacy, revised, nil
}

func parseRate(field, s string, def decimal.Decimal) (decimal.Decimal, error) {
	if s == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return def, &model.InvalidConfigError{Field: field, Reason: fmt.Sprintf("is not a decimal: %q", s)}
	}
	if d.IsNegative() {
		return def, &model.InvalidConfigError{Field: field, Reason: "must be >= 0"}
	}
	return d, nil
}

type profileFileWrapper struct {
	Rotation RotationConfig `yaml:"rotation"`
}

// LoadProfile reads a rotation preset file.
func LoadProfile(path string) (RotationConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RotationConfig{}, err
	}
	var w profileFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return RotationConfig{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return w.Rotation, nil
}

// MergeRotation overlays non-zero fields from override onto base.
// This is used when loading a profile file and then applying overrides from the request.
func MergeRotation(base, override RotationConfig) RotationConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	out.Lacerate = mergeWindow(base.Lacerate, override.Lacerate)
	out.Multihit = mergeWindow(base.Multihit, override.Multihit)
	out.Smoke = mergeWindow(base.Smoke, override.Smoke)
	if override.Bloom.Hits != 0 {
		out.Bloom.Hits = override.Bloom.Hits
	}
	if override.Bloom.Step != 0 {
		out.Bloom.Step = override.Bloom.Step
	}
	if override.Bloom.Credit != 0 {
		out.Bloom.Credit = override.Bloom.Credit
	}
	if override.Bloom.Threshold != 0 {
		out.Bloom.Threshold = override.Bloom.Threshold
	}
	if override.Bloom.Backfill != 0 {
		out.Bloom.Backfill = override.Bloom.Backfill
	}
	// Note: a lead of 0 is legal but indistinguishable from "unset" here.
	if override.MultihitLead != 0 {
		out.MultihitLead = override.MultihitLead
	}
	return out
}

func mergeWindow(base, override WindowConfig) WindowConfig {
	out := base
	if override.Hits != 0 {
		out.Hits = override.Hits
	}
	if override.Step != 0 {
		out.Step = override.Step
	}
	return out
}

// Merge overlays non-zero fields of a variation onto a base config. The seed
// comes from the variation when it is non-nil. Perfect can only be switched
// on here, since a false bool reads the same as unset; callers holding an
// explicit flag apply it after merging.
func Merge(base, override Config) Config {
	out := base
	if override.Horizon != 0 {
		out.Horizon = override.Horizon
	}
	if override.Perfect {
		out.Perfect = true
	}
	if override.Seed != nil {
		s := *override.Seed
		out.Seed = &s
	}
	if override.ProfileFile != "" {
		out.ProfileFile = override.ProfileFile
	}
	out.Rotation = MergeRotation(base.Rotation, override.Rotation)
	if override.Accrual.Legacy.PerHit != "" {
		out.Accrual.Legacy.PerHit = override.Accrual.Legacy.PerHit
	}
	if override.Accrual.Legacy.Bonus != "" {
		out.Accrual.Legacy.Bonus = override.Accrual.Legacy.Bonus
	}
	if override.Accrual.Revised.PerTick != "" {
		out.Accrual.Revised.PerTick = override.Accrual.Revised.PerTick
	}
	return out
}
