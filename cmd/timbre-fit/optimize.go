package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-keys/analysis"
	"github.com/cwbudde/mayfly"
)

var mayflyVariants = map[string]func() *mayfly.Config{
	"ma":      mayfly.NewDefaultConfig,
	"desma":   mayfly.NewDESMAConfig,
	"olce":    mayfly.NewOLCEConfig,
	"eobbma":  mayfly.NewEOBBMAConfig,
	"gsasma":  mayfly.NewGSASMAConfig,
	"mpma":    mayfly.NewMPMAConfig,
	"aoblmoa": mayfly.NewAOBLMOAConfig,
}

func variantNames() string {
	names := make([]string, 0, len(mayflyVariants))
	for n := range mayflyVariants {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

type optimizationConfig struct {
	target           *target
	initCandidate    candidate
	seed             int64
	timeBudget       float64
	maxEvals         int
	reportEvery      int
	mayflyVariant    string
	mayflyPop        int
	mayflyRoundEvals int
	workers          int
}

type optimizationResult struct {
	best        candidate
	bestMetrics analysis.Metrics
	evals       int
	elapsed     float64
	improves    int
}

// fitter shares the best harmonic levels found so far between mayfly rounds
// running on several goroutines.
type fitter struct {
	cfg      *optimizationConfig
	newCfg   func() *mayfly.Config
	start    time.Time
	deadline time.Time
	evals    atomic.Int64

	mu          sync.Mutex
	best        candidate
	bestMetrics analysis.Metrics
	improves    int
}

func runOptimization(cfg *optimizationConfig) (*optimizationResult, error) {
	newCfg, ok := mayflyVariants[strings.ToLower(cfg.mayflyVariant)]
	if !ok {
		return nil, fmt.Errorf("unsupported variant %q (want %s)", cfg.mayflyVariant, variantNames())
	}

	m, err := evaluate(cfg.target, cfg.initCandidate)
	if err != nil {
		return nil, fmt.Errorf("initial evaluation failed: %w", err)
	}
	fmt.Printf("Start score=%.4f harmonic=%.2fdB\n", m.Score, m.HarmonicRMSEDB)

	now := time.Now()
	f := &fitter{
		cfg:         cfg,
		newCfg:      newCfg,
		start:       now,
		deadline:    now.Add(time.Duration(cfg.timeBudget * float64(time.Second))),
		best:        cloneCandidate(cfg.initCandidate),
		bestMetrics: m,
	}
	f.evals.Store(1)

	workers := cfg.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	rounds := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range rounds {
				f.round(r)
			}
		}()
	}
	for r := 1; f.open(); r++ {
		rounds <- r
	}
	close(rounds)
	wg.Wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	return &optimizationResult{
		best:        cloneCandidate(f.best),
		bestMetrics: f.bestMetrics,
		evals:       int(f.evals.Load()),
		elapsed:     time.Since(f.start).Seconds(),
		improves:    f.improves,
	}, nil
}

// open reports whether time and evaluations remain.
func (f *fitter) open() bool {
	return time.Now().Before(f.deadline) && f.evals.Load() < int64(f.cfg.maxEvals)
}

// round runs one mayfly search sized to the remaining evaluations.
func (f *fitter) round(n int) {
	remaining := f.cfg.maxEvals - int(f.evals.Load())
	if remaining <= 0 {
		return
	}
	pop := f.cfg.mayflyPop
	mcfg := f.newCfg()
	mcfg.ProblemSize = len(f.cfg.initCandidate.Vals)
	mcfg.LowerBound = 0
	mcfg.UpperBound = 1
	mcfg.MaxIterations = max(1, min(f.cfg.mayflyRoundEvals, remaining)/(2*pop))
	mcfg.NPop = pop
	mcfg.NPopF = pop
	mcfg.NC = 2 * pop
	mcfg.NM = max(1, int(math.Round(0.05*float64(pop))))
	mcfg.Rand = rand.New(rand.NewSource(f.cfg.seed + int64(n)*7919))
	mcfg.ObjectiveFunc = f.objective

	if _, err := runMayfly(mcfg); err != nil {
		fmt.Fprintf(os.Stderr, "mayfly round %d failed: %v\n", n, err)
	}
}

// objective scores one position. Positions past the time or evaluation
// limit get a penalty above the best score and are not rendered.
func (f *fitter) objective(pos []float64) float64 {
	if time.Now().After(f.deadline) {
		return f.bestScore() + 1
	}
	n, ok := f.reserve()
	if !ok {
		return f.bestScore() + 1
	}
	cand := candidate{Vals: append([]float64(nil), pos...)}
	m, err := evaluate(f.cfg.target, cand)
	if err != nil {
		return f.bestScore() + 0.8
	}
	if k, ok := f.offer(cand, m); ok {
		fmt.Printf("Improved #%d eval=%d score=%.4f harmonic=%.2fdB\n", k, n, m.Score, m.HarmonicRMSEDB)
	}
	if f.cfg.reportEvery > 0 && n%int64(f.cfg.reportEvery) == 0 {
		fmt.Printf("Progress eval=%d elapsed=%.1fs best=%.4f\n", n, time.Since(f.start).Seconds(), f.bestScore())
	}
	return m.Score
}

// reserve claims the next evaluation number, failing once maxEvals is spent.
func (f *fitter) reserve() (int64, bool) {
	for {
		n := f.evals.Load()
		if n >= int64(f.cfg.maxEvals) {
			return 0, false
		}
		if f.evals.CompareAndSwap(n, n+1) {
			return n + 1, true
		}
	}
}

// offer keeps cand if it beats the best score and returns the improvement
// count.
func (f *fitter) offer(cand candidate, m analysis.Metrics) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.Score >= f.bestMetrics.Score {
		return 0, false
	}
	f.best = cloneCandidate(cand)
	f.bestMetrics = m
	f.improves++
	return f.improves, true
}

func (f *fitter) bestScore() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bestMetrics.Score
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}
