package projectconfig

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrade/scorecore/internal/models"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "handbook", cfg.NAAC.WeightProfile)
	assert.InDelta(t, 0.8, cfg.NBA.DirectWeight, 1e-9)
	assert.InDelta(t, 0.2, cfg.NBA.IndirectWeight, 1e-9)
	assert.InDelta(t, 70.0, cfg.NBA.AttainedThreshold, 1e-9)
	assert.InDelta(t, 50.0, cfg.NBA.PartialThreshold, 1e-9)
	assert.Empty(t, cfg.Guard.ExpectedBlocks)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
naac:
  weight_profile: flat
nba:
  direct_weight: 0.7
  indirect_weight: 0.3
  attained_threshold: 65
  partial_threshold: 45
guard:
  expected_blocks:
    naac: [curricular_aspects, research]
    A: [faculty_information]
log_level: debug
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "flat", cfg.NAAC.WeightProfile)
	assert.InDelta(t, 0.7, cfg.NBA.DirectWeight, 1e-9)
	assert.InDelta(t, 0.3, cfg.NBA.IndirectWeight, 1e-9)
	assert.InDelta(t, 65.0, cfg.NBA.AttainedThreshold, 1e-9)
	assert.InDelta(t, 45.0, cfg.NBA.PartialThreshold, 1e-9)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, filepath.Join(dir, FileName), cfg.Path)

	expected := cfg.ExpectedBlocks()
	assert.Equal(t, []string{"curricular_aspects", "research"}, expected[models.FrameworkNAAC])
	assert.Equal(t, []string{"faculty_information"}, expected[models.FrameworkAICTE])
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "nba:\n  attained_threshold: 75\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, cfg.NBA.AttainedThreshold, 1e-9)
	assert.InDelta(t, DefaultPartialThreshold, cfg.NBA.PartialThreshold, 1e-9)
	assert.InDelta(t, DefaultDirectWeight, cfg.NBA.DirectWeight, 1e-9)
	assert.InDelta(t, DefaultIndirectWeight, cfg.NBA.IndirectWeight, 1e-9)
	assert.Equal(t, DefaultWeightProfile, cfg.NAAC.WeightProfile)
}

func TestLoad_ExplicitZeroIsKept(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "nba:\n  direct_weight: 1\n  indirect_weight: 0\n  partial_threshold: 0\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cfg.NBA.DirectWeight, 1e-9)
	assert.Zero(t, cfg.NBA.IndirectWeight)
	assert.Zero(t, cfg.NBA.PartialThreshold)
}

func TestLoad_WeightsMustSumToOne(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "nba:\n  direct_weight: 1.0\n  indirect_weight: 0.9\n")

	_, err := LoadFile(filepath.Join(dir, FileName))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "direct_weight + indirect_weight must equal 1, got 1.9")

	cfg := New()
	cfg.NBA.DirectWeight = 0.6
	require.Error(t, cfg.Validate())
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, New().NAAC, cfg.NAAC)
	assert.Empty(t, cfg.Path)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "naac: [unclosed\n")

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "log_level: warn\n")
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown profile", "naac:\n  weight_profile: tiered\n"},
		{"weight above one", "nba:\n  direct_weight: 1.5\n  indirect_weight: -0.5\n"},
		{"weights not summing to one", "nba:\n  direct_weight: 0.6\n"},
		{"partial above attained", "nba:\n  attained_threshold: 40\n  partial_threshold: 60\n"},
		{"unknown framework key", "guard:\n  expected_blocks:\n    qs: [x]\n"},
		{"unknown log level", "log_level: verbose\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.yaml)
			_, err := Load(dir)
			require.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "custom.yaml", "naac:\n  weight_profile: flat\n")

	cfg, err := LoadFile(filepath.Join(dir, "custom.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "flat", cfg.NAAC.WeightProfile)

	_, err = LoadFile(filepath.Join(dir, "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
