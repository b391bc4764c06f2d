package solver

import (
	"fmt"
	"testing"

	"tabular/env"
	"tabular/experiments/metrics"

	"github.com/stretchr/testify/require"
)

// failOnForbidden turns a forbidden action into a panic instead of an exit.
func failOnForbidden(t *testing.T) {
	t.Helper()
	previous := env.Exit
	env.Exit = func(code int) { panic(fmt.Sprintf("forbidden action, exit status %d", code)) }
	t.Cleanup(func() { env.Exit = previous })
}

type learner func(f env.Factory, numEpisodes int, learningRate, gamma, epsilon float64, opts ...Option) QTable

func TestTemporalDifference(t *testing.T) {
	dynaQ10 := func(f env.Factory, numEpisodes int, learningRate, gamma, epsilon float64, opts ...Option) QTable {
		return DynaQ(f, 10, numEpisodes, learningRate, gamma, epsilon, opts...)
	}
	learners := map[string]learner{
		"q-learning": QLearning,
		"sarsa":      SARSA,
		"dyna-q":     dynaQ10,
	}

	for name, learn := range learners {
		t.Run(name+" backs up terminal transitions to their reward", func(t *testing.T) {
			q := learn(env.NewLineWorld(3), 50, 1, 0.9, 1, WithSeed(5))

			require.Equal(t, []float64{-1, 1}, q[1])
			require.Equal(t, []float64{0, 0}, q[0], "Terminal states should never be updated")
			require.Equal(t, []float64{0, 0}, q[2], "Terminal states should never be updated")
		})

		t.Run(name+" learns to walk right", func(t *testing.T) {
			q := learn(env.NewLineWorld(5), 2000, 0.1, 0.9, 0.1, WithSeed(1))
			require.Equal(t, Policy{env.Right, env.Right, env.Right}, q.Greedy()[1:4])
		})

		t.Run(name+" is reproducible with a seed", func(t *testing.T) {
			w := env.NewGridWorld(3, 3)
			require.Equal(t, learn(w, 100, 0.1, 0.9, 0.3, WithSeed(7)), learn(w, 100, 0.1, 0.9, 0.3, WithSeed(7)))
		})

		t.Run(name+" only plays legal actions", func(t *testing.T) {
			failOnForbidden(t)
			require.NotPanics(t, func() { learn(env.NewGridWorld(3, 3), 200, 0.1, 0.9, 1, WithSeed(2)) })
		})
	}
}

func TestQLearning(t *testing.T) {
	t.Run("zero epsilon plays the lowest action on ties", func(t *testing.T) {
		q := QLearning(env.NewLineWorld(5), 1, 1, 0.9, 0)

		// Left wins every tie, so the only episode walks 2 -> 1 -> 0.
		require.Equal(t, QTable{{0, 0}, {-1, 0}, {0, 0}, {0, 0}, {0, 0}}, q)
	})

	t.Run("records episodes", func(t *testing.T) {
		collector := metrics.NewCollector()
		QLearning(env.NewLineWorld(5), 40, 0.1, 0.9, 0.2, WithSeed(3), WithMetrics(collector))

		run := collector.Complete()
		require.Equal(t, "q-learning", run.Algorithm)
		require.Equal(t, 40, run.Episodes)
		require.Len(t, run.Returns, 40)
		require.GreaterOrEqual(t, run.Steps, 80, "Every episode needs at least two moves")
	})
}

func TestSARSA(t *testing.T) {
	t.Run("target uses the action actually taken", func(t *testing.T) {
		// With full exploration SARSA evaluates the random walk, which values
		// the middle cell near zero while Q-learning values it near one.
		w := env.NewLineWorld(5)
		sarsa := SARSA(w, 5000, 0.02, 1, 1, WithSeed(4))
		qlearning := QLearning(w, 5000, 0.02, 1, 1, WithSeed(4))

		require.InDelta(t, 0.5, sarsa[2][env.Right], 0.2)
		require.InDelta(t, 1.0, qlearning[2][env.Right], 0.05)
	})
}
