package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/thicket/pkg/domain"
)

func TestParse_YAML(t *testing.T) {
	data := []byte(`
strategy: gbfs
heuristic: hadd
preferred: true
max_time: 30s
max_expansions: 1000
cost_type: plusone
`)
	cfg, err := Parse(data, "yaml")
	require.NoError(t, err)

	assert.Equal(t, StrategyGBFS, cfg.Strategy)
	assert.Equal(t, HeuristicHAdd, cfg.Heuristic)
	assert.True(t, cfg.Preferred)
	assert.Equal(t, 30*time.Second, cfg.MaxTime)
	assert.Equal(t, int64(1000), cfg.MaxExpansions)
	assert.Equal(t, "plusone", cfg.CostType)
	// Untouched fields keep their defaults.
	assert.Equal(t, domain.DefaultBoost, cfg.Boost)
	assert.Equal(t, domain.DefaultBound, cfg.Bound)
	assert.Nil(t, cfg.Reopen)
}

func TestParse_JSONWeakTypes(t *testing.T) {
	cfg, err := Parse([]byte(`{"strategy": "wastar", "weight": "3", "reopen": false, "bound": 40}`), "json")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Weight)
	require.NotNil(t, cfg.Reopen)
	assert.False(t, *cfg.Reopen)
	assert.Equal(t, 40, cfg.Bound)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"unknown strategy", map[string]any{"strategy": "dfs"}},
		{"unknown heuristic", map[string]any{"heuristic": "lmcut"}},
		{"unknown key", map[string]any{"reopen_closed_nodes": true}},
		{"zero weight", map[string]any{"weight": 0}},
		{"bad cost type", map[string]any{"cost_type": "double"}},
		{"preferred without support", map[string]any{"heuristic": "hmax", "preferred": true}},
		{"negative limit", map[string]any{"max_expansions": -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"heuristic": "goalcount", "lazy": true}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, HeuristicGoalCount, cfg.Heuristic)
	assert.True(t, cfg.Lazy)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.MaxTime = time.Minute
	data, err := Marshal(cfg)
	require.NoError(t, err)

	back, err := Parse(data, "yaml")
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestOverlay_KeepsBase(t *testing.T) {
	base := Default()
	base.Strategy = StrategyGBFS
	base.Heuristic = HeuristicGoalCount

	cfg, err := Overlay(base, map[string]any{"preferred": true})
	require.NoError(t, err)
	assert.Equal(t, StrategyGBFS, cfg.Strategy)
	assert.Equal(t, HeuristicGoalCount, cfg.Heuristic)
	assert.True(t, cfg.Preferred)

	cfg, err = Overlay(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}
