package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"totopredict/domain/entities"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Engine runs frequency-weighted Monte Carlo simulations filtered through the golden zone
type Engine struct {
	cfg   Config
	zone  GoldenZone
	mu    sync.Mutex // Guards rng
	rng   *rand.Rand
	now   func() time.Time
	newID func() string
}

// Option customizes an Engine
type Option func(*Engine)

// WithRand sets the random source all per-run sources are derived from
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithClock sets the clock used for prediction timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator sets the prediction identifier generator
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// New validates cfg and creates an engine
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := uint64(time.Now().UnixNano())
	e := &Engine{
		cfg:   cfg,
		zone:  NewGoldenZone(cfg),
		rng:   rand.New(rand.NewPCG(seed, seed>>1|1)),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Config returns the engine parameters
func (e *Engine) Config() Config {
	return e.cfg
}

// acceptedCandidate is a candidate that passed the filter, tagged with its global iteration index
type acceptedCandidate struct {
	index   int
	numbers []int
}

// partitionResult aggregates one worker's contiguous block of iterations
type partitionResult struct {
	completed int
	accepted  int
	first     *acceptedCandidate
	all       []acceptedCandidate
}

// Generate runs the configured number of iterations
func (e *Engine) Generate(ctx context.Context, lastDraw []int, history []*entities.HistoricalDraw) (*entities.Prediction, error) {
	return e.GenerateWithIterations(ctx, lastDraw, history, e.cfg.Iterations)
}

// GenerateWithIterations builds candidates by weighted sampling, keeps those the
// golden zone accepts and returns one of them with confidence accepted/iterations.
// When nothing is accepted a uniform fallback candidate is returned with confidence 0.
func (e *Engine) GenerateWithIterations(ctx context.Context, lastDraw []int, history []*entities.HistoricalDraw, iterations int) (*entities.Prediction, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfiguration, iterations)
	}
	if len(lastDraw) > e.cfg.DrawSize {
		return nil, fmt.Errorf("%w: last draw has %d numbers, at most %d allowed", ErrInvalidInput, len(lastDraw), e.cfg.DrawSize)
	}

	freq, err := Analyze(history, e.cfg.WindowSize, e.cfg.RangeMin, e.cfg.RangeMax)
	if err != nil {
		return nil, err
	}
	maxFreq := freq.Max()

	workers := min(e.cfg.Workers, iterations)
	sources := e.deriveSources(workers + 1) // Last one is reserved for the fallback
	keepAll := e.cfg.SelectionPolicy == SelectionMedianSum

	results := make([]partitionResult, workers)
	g, gctx := errgroup.WithContext(ctx)
	chunk := iterations / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if w == workers-1 {
			end = iterations
		}
		g.Go(func() error {
			res, err := e.runPartition(gctx, start, end, freq, maxFreq, lastDraw, sources[w], keepAll)
			results[w] = res
			return err
		})
	}
	waitErr := g.Wait()

	completed, accepted := 0, 0
	for _, res := range results {
		completed += res.completed
		accepted += res.accepted
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &CancelledError{Completed: completed, Requested: iterations, Err: ctxErr}
	}
	if waitErr != nil {
		return nil, waitErr
	}

	var numbers []int
	confidence := float64(accepted) / float64(iterations)
	usedFallback := accepted == 0

	if usedFallback {
		log.WithFields(log.Fields{
			"iterations": iterations,
			"lastDraw":   lastDraw,
		}).Warn("No Monte Carlo candidate met the golden zone filters, generating a uniform fallback")

		numbers, err = e.fallback(ctx, lastDraw, sources[workers])
		if err != nil {
			return nil, err
		}
		confidence = 0
	} else {
		numbers, err = e.choose(results)
		if err != nil {
			return nil, err
		}
	}

	return &entities.Prediction{
		ID:              e.newID(),
		Numbers:         numbers,
		Stats:           Summarize(numbers, e.cfg.LowMax),
		ConfidenceScore: confidence,
		Iterations:      iterations,
		AcceptedCount:   accepted,
		UsedFallback:    usedFallback,
		CreatedAt:       e.now().UTC(),
	}, nil
}

// deriveSources splits n independent PCG streams off the engine source
func (e *Engine) deriveSources(n int) []*rand.Rand {
	e.mu.Lock()
	defer e.mu.Unlock()

	sources := make([]*rand.Rand, n)
	for i := range sources {
		sources[i] = rand.New(rand.NewPCG(e.rng.Uint64(), e.rng.Uint64()))
	}
	return sources
}

// runPartition simulates iterations [start, end). Each iteration owns its pool.
func (e *Engine) runPartition(ctx context.Context, start, end int, freq FrequencyTable, maxFreq int, lastDraw []int, rnd Random, keepAll bool) (partitionResult, error) {
	var res partitionResult
	pool := make([]int, 0, e.cfg.RangeSize())
	candidate := make([]int, e.cfg.DrawSize)

	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		pool = e.fillPool(pool)
		for k := range candidate {
			idx, err := selectIndex(pool, freq, maxFreq, rnd)
			if err != nil {
				return res, fmt.Errorf("iteration %d slot %d: %w", i, k, err)
			}
			candidate[k] = pool[idx]
			pool = slices.Delete(pool, idx, idx+1)
		}
		slices.Sort(candidate)

		if e.zone.Accepts(candidate, lastDraw) {
			res.accepted++
			accepted := acceptedCandidate{index: i, numbers: slices.Clone(candidate)}
			if res.first == nil {
				res.first = &accepted
			}
			if keepAll {
				res.all = append(res.all, accepted)
			}
		}
		res.completed++
	}

	return res, nil
}

// fillPool resets pool to the full valid range in ascending order
func (e *Engine) fillPool(pool []int) []int {
	pool = pool[:0]
	for n := e.cfg.RangeMin; n <= e.cfg.RangeMax; n++ {
		pool = append(pool, n)
	}
	return pool
}

// choose applies the selection policy to the accepted candidates
func (e *Engine) choose(results []partitionResult) ([]int, error) {
	if e.cfg.SelectionPolicy != SelectionMedianSum {
		// Partitions are contiguous and ordered, so the first non-empty one holds the earliest candidate
		for _, res := range results {
			if res.first != nil {
				return res.first.numbers, nil
			}
		}
		return nil, errors.New("no accepted candidate recorded")
	}

	var all []acceptedCandidate
	for _, res := range results {
		all = append(all, res.all...)
	}
	if len(all) == 0 {
		return nil, errors.New("no accepted candidate recorded")
	}

	sums := make(stats.Float64Data, len(all))
	for i, c := range all {
		sums[i] = float64(Summarize(c.numbers, e.cfg.LowMax).Sum)
	}
	median, err := stats.Median(sums)
	if err != nil {
		return nil, fmt.Errorf("failed to compute median sum: %w", err)
	}

	best := 0
	bestDist := math.Inf(1)
	for i, sum := range sums {
		if dist := math.Abs(sum - median); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return all[best].numbers, nil
}

// fallback draws uniform combinations until one passes the filters or the attempt bound is hit
func (e *Engine) fallback(ctx context.Context, lastDraw []int, rnd Random) ([]int, error) {
	pool := make([]int, 0, e.cfg.RangeSize())

	for attempt := 0; attempt < e.cfg.FallbackMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &CancelledError{Completed: attempt, Requested: e.cfg.FallbackMaxAttempts, Err: err}
		}

		pool = e.fillPool(pool)
		// Partial Fisher-Yates over the first DrawSize slots
		for i := 0; i < e.cfg.DrawSize; i++ {
			j := i + rnd.IntN(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
		}
		candidate := slices.Clone(pool[:e.cfg.DrawSize])
		slices.Sort(candidate)

		if e.zone.Accepts(candidate, lastDraw) {
			return candidate, nil
		}
	}

	return nil, fmt.Errorf("%w: no combination passed the filters after %d attempts", ErrFallbackExhausted, e.cfg.FallbackMaxAttempts)
}
