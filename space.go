package cellspace

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/cellspace/frac"
)

// Space is the top-level object that owns the hitbox arena, the object
// table, the spatial index and the contact state. A Space is not safe for
// concurrent use; drive it from one goroutine.
type Space struct {
	cfg    Config
	logger *log.Logger
	debug  bool

	// Hitbox arena
	slots []hitbox
	free  []uint32
	live  int

	// Objects
	objects     []object
	freeObjects []uint32
	numObjects  int

	// Spatial index
	grid       grid
	queryStamp uint32

	// Contacts (see Step)
	sink     EventSink
	handlers handlerRegistry
	contacts map[contactPair]contactHitboxes
}

// NewSpace creates an empty space. The configuration is validated first.
func NewSpace(cfg Config) (*Space, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new space: %w", err)
	}
	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "cellspace",
		Level:           level,
	})
	s := &Space{
		cfg:      cfg,
		logger:   logger,
		debug:    cfg.Debug,
		grid:     newGrid(frac.FromFloat(cfg.CellSize), cfg.LargeCells),
		contacts: make(map[contactPair]contactHitboxes),
	}
	return s, nil
}

// MustNewSpace is like NewSpace but panics on an invalid configuration.
func MustNewSpace(cfg Config) *Space {
	s, err := NewSpace(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Config returns the configuration the space was created with.
func (s *Space) Config() Config { return s.cfg }

// Logger returns the space's logger.
func (s *Space) Logger() *log.Logger { return s.logger }

// SetLogger replaces the space's logger. A nil logger is ignored.
func (s *Space) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// SetDebugMode enables or disables debug mode. When enabled, use of stale
// handles is logged and tree depth and child count warnings are emitted.
func (s *Space) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// NumHitboxes returns the number of live hitboxes.
func (s *Space) NumHitboxes() int { return s.live }

// NumCells returns the number of occupied spatial index cells.
func (s *Space) NumCells() int { return len(s.grid.cells) }

// NumLarge returns the number of indexed hitboxes too large to store per
// cell.
func (s *Space) NumLarge() int { return len(s.grid.large) }

// Each calls fn for every live hitbox in slot order until fn returns false.
func (s *Space) Each(fn func(HitboxID) bool) {
	for i := range s.slots {
		h := &s.slots[i]
		if !h.alive {
			continue
		}
		if !fn(makeHitboxID(uint32(i), h.gen)) {
			return
		}
	}
}
