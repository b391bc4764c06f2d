package solver

import (
	"time"

	"tabular/experiments/metrics"

	"golang.org/x/exp/rand"
)

// ModelStore selects how Dyna-Q remembers observed transitions.
type ModelStore int

const (
	SparseModel ModelStore = iota // map of visited pairs
	DenseModel                    // states x actions table with visited flags
)

// PolicyRefresh selects when Monte Carlo control derives its policy.
type PolicyRefresh int

const (
	RefreshAtEnd      PolicyRefresh = iota // greedy extraction after the last episode
	RefreshPerEpisode                      // policy updated during every backward walk and followed by the behaviour
)

type Option func(c *config)

type config struct {
	rng     *rand.Rand
	metrics metrics.Collector
	model   ModelStore
	refresh PolicyRefresh
}

// WithSeed makes every random draw of the algorithm reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		if rng != nil {
			c.rng = rng
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(c *config) {
		if collector != nil {
			c.metrics = collector
		}
	}
}

func WithModelStore(store ModelStore) Option {
	return func(c *config) {
		c.model = store
	}
}

func WithPolicyRefresh(refresh PolicyRefresh) Option {
	return func(c *config) {
		c.refresh = refresh
	}
}

func newConfig(options []Option) *config {
	c := &config{ // Default values
		metrics: metrics.NewDummyCollector(),
		model:   SparseModel,
		refresh: RefreshAtEnd,
	}
	for _, option := range options {
		option(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return c
}
