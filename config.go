package cellspace

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a Space. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// CellSize is the edge length of a spatial index cell in world units.
	// Pick something near the size of a typical hitbox.
	CellSize float64 `yaml:"cell_size" envconfig:"CELL_SIZE" default:"64"`

	// LargeCells is the cell count above which a hitbox is kept in a single
	// list that every query scans, instead of one bucket per covered cell.
	LargeCells int `yaml:"large_cells" envconfig:"LARGE_CELLS" default:"256"`

	// Debug enables stale-handle logging and tree shape warnings.
	Debug bool `yaml:"debug" envconfig:"DEBUG" default:"false"`

	// MaxTreeDepth and MaxChildCount are the debug warning thresholds.
	MaxTreeDepth  int `yaml:"max_tree_depth" envconfig:"MAX_TREE_DEPTH" default:"32"`
	MaxChildCount int `yaml:"max_child_count" envconfig:"MAX_CHILD_COUNT" default:"1000"`

	// LogLevel is a charmbracelet/log level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL" default:"info"`
}

// maxCellSize keeps a cell well inside the fracunit integer range.
const maxCellSize = 1 << 24

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		CellSize:      64,
		LargeCells:    256,
		MaxTreeDepth:  32,
		MaxChildCount: 1000,
		LogLevel:      "info",
	}
}

// ParseConfig decodes YAML over DefaultConfig, so omitted keys keep their
// defaults, and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ConfigFromEnv reads CELLSPACE_* environment variables, e.g.
// CELLSPACE_CELL_SIZE and CELLSPACE_LOG_LEVEL.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("cellspace", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.CellSize) || c.CellSize <= 0 || c.CellSize > maxCellSize:
		return fmt.Errorf("cell_size %v out of range (0, %d]: %w", c.CellSize, maxCellSize, ErrInvalidConfig)
	case c.LargeCells <= 0:
		return fmt.Errorf("large_cells %d must be positive: %w", c.LargeCells, ErrInvalidConfig)
	case c.MaxTreeDepth <= 0:
		return fmt.Errorf("max_tree_depth %d must be positive: %w", c.MaxTreeDepth, ErrInvalidConfig)
	case c.MaxChildCount <= 0:
		return fmt.Errorf("max_child_count %d must be positive: %w", c.MaxChildCount, ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, ErrInvalidConfig)
	}
	return nil
}
