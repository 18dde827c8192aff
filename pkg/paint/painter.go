package paint

import (
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Paint errors.
var (
	ErrNoLayers  = errors.New("terrain has no layers for this pass")
	ErrTreeIndex = errors.New("tree prototype index out of range")
	ErrEmptyGrid = errors.New("grid has zero size")
)

// Default tuning values.
const (
	DefaultWeatherMin         = 0.9
	DefaultWeatherMax         = 1.0
	DefaultMaxAttemptsPerTree = 30
)

// Painter runs paint passes. It owns its random source.
type Painter struct {
	rng         *rand.Rand
	log         *zap.Logger
	weatherMin  float32
	weatherMax  float32
	maxAttempts int
}

// Option configures a Painter.
type Option func(*Painter)

// WithRand sets the random source used for chance gates, densities,
// weathering and tree sampling.
func WithRand(r *rand.Rand) Option {
	return func(p *Painter) {
		p.rng = r
	}
}

// WithSeed uses a deterministic PCG source seeded with seed.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewPCG(uint64(seed), 0)))
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Painter) {
		if l != nil {
			p.log = l
		}
	}
}

// WithWeathering sets the per-cell weathering multiplier range [min, max).
// WithWeathering(1, 1) disables weathering.
func WithWeathering(min, max float32) Option {
	return func(p *Painter) {
		p.weatherMin = min
		p.weatherMax = max
	}
}

// WithMaxAttempts sets how many rejection samples a tree may use.
func WithMaxAttempts(n int) Option {
	return func(p *Painter) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// New creates a Painter. Without WithRand or WithSeed it is seeded from the clock.
func New(opts ...Option) *Painter {
	p := &Painter{
		log:         zap.NewNop(),
		weatherMin:  DefaultWeatherMin,
		weatherMax:  DefaultWeatherMax,
		maxAttempts: DefaultMaxAttemptsPerTree,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return p
}

// unit draws from [0, 1).
func (p *Painter) unit() float32 {
	return p.rng.Float32()
}

// between draws from [min, max), or returns min when the range is empty.
func (p *Painter) between(min, max float32) float32 {
	if max <= min {
		return min
	}
	return min + p.rng.Float32()*(max-min)
}
