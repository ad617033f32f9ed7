// Package config decodes search configurations from YAML, JSON or generic
// maps (HTTP bodies, MCP tool arguments).
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/thicket/pkg/domain"
)

// Strategy names.
const (
	StrategyAStar   = "astar"
	StrategyWAStar  = "wastar"
	StrategyGBFS    = "gbfs"
	StrategyUniform = "ucs"
)

// Heuristic names.
const (
	HeuristicZero      = "zero"
	HeuristicBlind     = "blind"
	HeuristicGoalCount = "goalcount"
	HeuristicHMax      = "hmax"
	HeuristicHAdd      = "hadd"
)

// Search selects and tunes a search strategy.
type Search struct {
	Strategy  string `json:"strategy" yaml:"strategy" mapstructure:"strategy"`
	Heuristic string `json:"heuristic" yaml:"heuristic" mapstructure:"heuristic"`
	Weight    int    `json:"weight,omitempty" yaml:"weight,omitempty" mapstructure:"weight"`
	// Reopen overrides the strategy default for reopening closed nodes.
	Reopen        *bool         `json:"reopen,omitempty" yaml:"reopen,omitempty" mapstructure:"reopen"`
	Bound         int           `json:"bound,omitempty" yaml:"bound,omitempty" mapstructure:"bound"`
	MaxTime       time.Duration `json:"max_time,omitempty" yaml:"max_time,omitempty" mapstructure:"max_time"`
	MaxExpansions int64         `json:"max_expansions,omitempty" yaml:"max_expansions,omitempty" mapstructure:"max_expansions"`
	CostType      string        `json:"cost_type,omitempty" yaml:"cost_type,omitempty" mapstructure:"cost_type"`
	Preferred     bool          `json:"preferred,omitempty" yaml:"preferred,omitempty" mapstructure:"preferred"`
	// Lazy re-evaluates popped nodes with a caching copy of the heuristic.
	Lazy  bool `json:"lazy,omitempty" yaml:"lazy,omitempty" mapstructure:"lazy"`
	Boost int  `json:"boost,omitempty" yaml:"boost,omitempty" mapstructure:"boost"`
}

// Default is A* with h^max.
func Default() Search {
	return Search{
		Strategy:  StrategyAStar,
		Heuristic: HeuristicHMax,
		Weight:    1,
		Bound:     domain.DefaultBound,
		CostType:  string(domain.CostNormal),
		Boost:     domain.DefaultBoost,
	}
}

// Validate checks names and ranges.
func (s Search) Validate() error {
	switch s.Strategy {
	case StrategyAStar, StrategyWAStar, StrategyGBFS, StrategyUniform:
	default:
		return fmt.Errorf("%w: unknown strategy %q", domain.ErrInvalidConfig, s.Strategy)
	}
	switch s.Heuristic {
	case HeuristicZero, HeuristicBlind, HeuristicGoalCount, HeuristicHMax, HeuristicHAdd:
	default:
		return fmt.Errorf("%w: unknown heuristic %q", domain.ErrInvalidConfig, s.Heuristic)
	}
	if s.Weight < 1 {
		return fmt.Errorf("%w: weight must be at least 1, got %d", domain.ErrInvalidConfig, s.Weight)
	}
	if s.Bound < 0 {
		return fmt.Errorf("%w: negative bound %d", domain.ErrInvalidConfig, s.Bound)
	}
	if s.MaxTime < 0 || s.MaxExpansions < 0 {
		return fmt.Errorf("%w: negative search limit", domain.ErrInvalidConfig)
	}
	if s.Boost < 0 {
		return fmt.Errorf("%w: negative boost %d", domain.ErrInvalidConfig, s.Boost)
	}
	if _, err := domain.ParseCostType(s.CostType); err != nil {
		return err
	}
	if s.Preferred && !ProvidesPreferred(s.Heuristic) {
		return fmt.Errorf("%w: heuristic %q computes no preferred operators", domain.ErrInvalidConfig, s.Heuristic)
	}
	return nil
}

// ProvidesPreferred reports whether the named heuristic marks preferred operators.
func ProvidesPreferred(heuristic string) bool {
	return heuristic == HeuristicGoalCount || heuristic == HeuristicHAdd
}

// Load reads a configuration file (YAML or JSON, chosen by extension).
func Load(path string) (Search, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Search{}, fmt.Errorf("failed to read config file: %w", err)
	}
	format := "yaml"
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = "json"
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return Search{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration. format is "json" or "yaml" (default).
func Parse(data []byte, format string) (Search, error) {
	raw := map[string]any{}
	if format == "json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return Search{}, fmt.Errorf("failed to parse config json: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return Search{}, fmt.Errorf("failed to parse config yaml: %w", err)
	}
	return Decode(raw)
}

// Decode overlays raw onto Default and validates the result. Durations may
// be written as strings ("30s") or integer nanoseconds.
func Decode(raw map[string]any) (Search, error) {
	return Overlay(Default(), raw)
}

// Overlay decodes raw on top of base. Fields raw omits keep base's values.
func Overlay(base Search, raw map[string]any) (Search, error) {
	cfg := base
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Search{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Search{}, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Search{}, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Search) ([]byte, error) {
	return yaml.Marshal(cfg)
}
