// Package projectconfig provides the ProjectConfig struct and loader for
// .scorecore.yaml configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/campusgrade/scorecore/internal/frameworks/naac"
	"github.com/campusgrade/scorecore/internal/frameworks/nba"
	"github.com/campusgrade/scorecore/internal/models"
)

// FileName is the configuration file looked up by Load.
const FileName = ".scorecore.yaml"

// maxWalk is how many directories Load climbs looking for FileName.
const maxWalk = 10

// Default values for the configuration. New() references them and no other
// code should duplicate them.
const (
	DefaultWeightProfile = string(naac.ProfileHandbook)

	DefaultDirectWeight      = nba.DefaultDirectWeight
	DefaultIndirectWeight    = nba.DefaultIndirectWeight
	DefaultAttainedThreshold = nba.DefaultAttained
	DefaultPartialThreshold  = nba.DefaultPartial

	DefaultLogLevel = "info"
)

// NAACConfig selects the NAAC criterion weight table.
type NAACConfig struct {
	WeightProfile string `yaml:"weight_profile,omitempty" validate:"omitempty,oneof=handbook flat"`
}

// NBAConfig tunes programme outcome attainment. The two assessment weights
// must sum to 1.
type NBAConfig struct {
	DirectWeight      float64 `yaml:"direct_weight,omitempty" validate:"gte=0,lte=1"`
	IndirectWeight    float64 `yaml:"indirect_weight,omitempty" validate:"gte=0,lte=1"`
	AttainedThreshold float64 `yaml:"attained_threshold,omitempty" validate:"gte=0,lte=100"`
	PartialThreshold  float64 `yaml:"partial_threshold,omitempty" validate:"gte=0,lte=100,ltefield=AttainedThreshold"`
}

// nbaFile mirrors NBAConfig for decoding so an explicit 0 can be told
// apart from an absent key.
type nbaFile struct {
	DirectWeight      *float64 `yaml:"direct_weight"`
	IndirectWeight    *float64 `yaml:"indirect_weight"`
	AttainedThreshold *float64 `yaml:"attained_threshold"`
	PartialThreshold  *float64 `yaml:"partial_threshold"`
}

// weightTolerance is the slack allowed when checking the assessment weight sum.
const weightTolerance = 1e-6

// GuardConfig holds the per-framework block types used for completeness.
// Keys are framework tags or names.
type GuardConfig struct {
	ExpectedBlocks map[string][]string `yaml:"expected_blocks,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .scorecore.yaml.
type ProjectConfig struct {
	NAAC     NAACConfig  `yaml:"naac,omitempty"`
	NBA      NBAConfig   `yaml:"nba,omitempty"`
	Guard    GuardConfig `yaml:"guard,omitempty"`
	LogLevel string      `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`

	// Path is the file the values came from; empty for defaults.
	Path string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		NAAC: NAACConfig{
			WeightProfile: DefaultWeightProfile,
		},
		NBA: NBAConfig{
			DirectWeight:      DefaultDirectWeight,
			IndirectWeight:    DefaultIndirectWeight,
			AttainedThreshold: DefaultAttainedThreshold,
			PartialThreshold:  DefaultPartialThreshold,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load finds .scorecore.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
func Load(startDir string) (*ProjectConfig, error) {
	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return parse(path, data)
}

// LoadFile reads an explicit config path; a missing file is an error.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*ProjectConfig, error) {
	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	var nbaCfg struct {
		NBA nbaFile `yaml:"nba"`
	}
	if err := yaml.Unmarshal(data, &nbaCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := New()
	mergeConfig(cfg, &fileCfg, &nbaCfg.NBA)
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// findConfigFile walks up from dir looking for .scorecore.yaml. It returns
// os.ErrNotExist when no file is found and propagates real I/O errors.
func findConfigFile(dir string) (string, []byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for range maxWalk {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst. NBA values are
// taken from nbaSrc whenever the key is present, zero included.
func mergeConfig(dst, src *ProjectConfig, nbaSrc *nbaFile) {
	if src.NAAC.WeightProfile != "" {
		dst.NAAC.WeightProfile = src.NAAC.WeightProfile
	}

	overlay := func(dst, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	overlay(&dst.NBA.DirectWeight, nbaSrc.DirectWeight)
	overlay(&dst.NBA.IndirectWeight, nbaSrc.IndirectWeight)
	overlay(&dst.NBA.AttainedThreshold, nbaSrc.AttainedThreshold)
	overlay(&dst.NBA.PartialThreshold, nbaSrc.PartialThreshold)

	if len(src.Guard.ExpectedBlocks) > 0 {
		dst.Guard.ExpectedBlocks = src.Guard.ExpectedBlocks
	}

	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
}

var validate = validator.New()

// Validate checks field ranges, the NBA weight sum and that every
// expected-blocks key names a framework. All problems are reported together.
func (c *ProjectConfig) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		errs = append(errs, err)
	}
	if sum := c.NBA.DirectWeight + c.NBA.IndirectWeight; math.Abs(sum-1) > weightTolerance {
		errs = append(errs, fmt.Errorf("nba: direct_weight + indirect_weight must equal 1, got %g", sum))
	}
	for key := range c.Guard.ExpectedBlocks {
		if _, err := models.ParseFramework(key); err != nil {
			errs = append(errs, fmt.Errorf("guard.expected_blocks: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ExpectedBlocks returns the completeness expectations keyed by framework.
func (c *ProjectConfig) ExpectedBlocks() map[models.Framework][]string {
	out := map[models.Framework][]string{}
	for key, types := range c.Guard.ExpectedBlocks {
		if fw, err := models.ParseFramework(key); err == nil {
			out[fw] = append(out[fw], types...)
		}
	}
	return out
}

// Level maps LogLevel to a slog level; unknown values mean info.
func (c *ProjectConfig) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
