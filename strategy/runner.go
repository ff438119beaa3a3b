package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ragscope/ragscope/cache"
	"github.com/ragscope/ragscope/log"
)

// Runner holds the registered strategies and executes them against questions.
// Strategy runs are independent; a comparison fans them out one goroutine per
// strategy and a failure is isolated to that strategy's Result.
type Runner struct {
	mu         sync.RWMutex
	strategies map[string]*Strategy
	order      []string

	cache  cache.Store
	logger log.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCache enables result caching keyed by (strategy, question).
func WithCache(store cache.Store) RunnerOption {
	return func(r *Runner) {
		r.cache = store
	}
}

// WithLogger sets the runner's logger.
func WithLogger(logger log.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates an empty runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		strategies: make(map[string]*Strategy),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a strategy, replacing any previous one with the same name.
func (r *Runner) Register(s *Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.strategies[s.Name()]; !exists {
		r.order = append(r.order, s.Name())
	}
	r.strategies[s.Name()] = s
}

// Names returns the registered strategy names in registration order.
func (r *Runner) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Strategy returns a registered strategy by name.
func (r *Runner) Strategy(name string) (*Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	return s, ok
}

// Run executes one strategy against the question. The returned error only
// reports an unknown strategy name; run failures land in Result.Err so a
// comparison never collapses because one strategy failed.
func (r *Runner) Run(ctx context.Context, name, question string) (Result, error) {
	s, ok := r.Strategy(name)
	if !ok {
		return Result{}, fmt.Errorf("unknown strategy %q", name)
	}

	if cached, ok := r.lookup(ctx, name, question); ok {
		return cached, nil
	}

	start := time.Now()
	final, err := s.Run(ctx, question)

	result := Result{
		RunID:    uuid.NewString(),
		Strategy: name,
		Question: question,
		Answer:   final.Answer,
		Matches:  final.Matches,
		Trace:    final.Trace,
		Steps:    len(final.Trace),
		Duration: time.Since(start),
	}
	if err != nil {
		result.Err = err.Error()
		r.logger.Error("strategy %s failed: %v", name, err)
		return result, nil
	}

	r.store(ctx, result)
	r.logger.Info("strategy %s answered in %d steps (%s)", name, result.Steps, result.Duration)
	return result, nil
}

// Compare runs the named strategies (all registered ones when names is empty)
// concurrently against the question. Results come back in the order the names
// were given.
func (r *Runner) Compare(ctx context.Context, question string, names ...string) []Result {
	if len(names) == 0 {
		names = r.Names()
	}

	results := make([]Result, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			result, err := r.Run(ctx, name, question)
			if err != nil {
				result = Result{Strategy: name, Question: question, Err: err.Error()}
			}
			results[i] = result
		}(i, name)
	}
	wg.Wait()
	return results
}

func (r *Runner) lookup(ctx context.Context, name, question string) (Result, bool) {
	if r.cache == nil {
		return Result{}, false
	}

	payload, ok, err := r.cache.Get(ctx, name, question)
	if err != nil {
		r.logger.Warn("cache lookup for %s failed: %v", name, err)
		return Result{}, false
	}
	if !ok {
		return Result{}, false
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		r.logger.Warn("cache entry for %s is corrupt: %v", name, err)
		return Result{}, false
	}
	result.Cached = true
	return result, true
}

func (r *Runner) store(ctx context.Context, result Result) {
	if r.cache == nil || result.Failed() {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		r.logger.Warn("cache encode for %s failed: %v", result.Strategy, err)
		return
	}
	if err := r.cache.Put(ctx, result.Strategy, result.Question, payload); err != nil {
		r.logger.Warn("cache store for %s failed: %v", result.Strategy, err)
	}
}
