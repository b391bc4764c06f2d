package solver

import (
	"testing"

	"tabular/engine"
	"tabular/env"
	"tabular/experiments/metrics"
	"tabular/utils"

	"github.com/stretchr/testify/require"
)

func requireMeanOfReturns(t *testing.T, result MonteCarloResult) {
	t.Helper()
	for pair, returns := range result.Returns {
		require.NotEmpty(t, returns)
		require.InDelta(t, utils.Mean(returns), result.Q[pair.State][pair.Action], 1e-9,
			"Q%v should be the mean of its return log", pair)
	}
}

func TestFirstVisit(t *testing.T) {
	t.Run("only the first occurrence of a pair logs a return", func(t *testing.T) {
		mc := newMonteCarlo(5, 2)
		var updated []int
		mc.firstVisit(engine.Episode{
			{State: 1, Action: env.Right, Reward: 0},
			{State: 2, Action: env.Left, Reward: 0},
			{State: 1, Action: env.Right, Reward: 0},
			{State: 2, Action: env.Right, Reward: 0},
			{State: 3, Action: env.Right, Reward: 1},
		}, 0.5, func(state int) { updated = append(updated, state) })

		require.Equal(t, map[StateAction][]float64{
			{State: 1, Action: env.Right}: {0.0625},
			{State: 2, Action: env.Left}:  {0.125},
			{State: 2, Action: env.Right}: {0.5},
			{State: 3, Action: env.Right}: {1},
		}, mc.returns)
		require.Equal(t, []int{3, 2, 2, 1}, updated, "Updates should follow the backward walk")
	})

	t.Run("estimates are the arithmetic mean of every logged return", func(t *testing.T) {
		mc := newMonteCarlo(5, 2)
		mc.firstVisit(engine.Episode{{State: 1, Action: env.Right, Reward: 0}, {State: 2, Action: env.Right, Reward: 1}}, 0.5, nil)
		mc.firstVisit(engine.Episode{{State: 1, Action: env.Right, Reward: 1}}, 0.5, nil)
		mc.firstVisit(engine.Episode{{State: 1, Action: env.Right, Reward: -1}}, 0.5, nil)

		require.Equal(t, []float64{0.5, 1, -1}, mc.returns[StateAction{State: 1, Action: env.Right}])
		require.InDelta(t, 0.5/3, mc.q[1][env.Right], 1e-12)
		requireMeanOfReturns(t, mc.result())
	})

	t.Run("uses the reward recorded with each transition", func(t *testing.T) {
		mc := newMonteCarlo(3, 1)
		mc.firstVisit(engine.Episode{
			{State: 0, Action: 0, Reward: 2},
			{State: 1, Action: 0, Reward: -1},
			{State: 2, Action: 0, Reward: 4},
		}, 1, nil)

		require.Equal(t, QTable{{5}, {3}, {4}}, mc.q)
	})
}

func TestMonteCarloES(t *testing.T) {
	t.Run("keeps the mean of the full return log after every episode", func(t *testing.T) {
		w := env.NewLineWorld(5)
		previous := MonteCarloES(w, 0, 0.9, WithSeed(9))
		for episodes := 1; episodes <= 30; episodes++ {
			result := MonteCarloES(w, episodes, 0.9, WithSeed(9))
			requireMeanOfReturns(t, result)

			// The same seed replays the earlier episodes, so their log is a prefix.
			for pair, returns := range previous.Returns {
				require.Equal(t, returns, result.Returns[pair][:len(returns)])
			}
			previous = result
		}
	})

	t.Run("learns to walk right from random play", func(t *testing.T) {
		result := MonteCarloES(env.NewLineWorld(5), 3000, 0.9, WithSeed(1))

		require.Equal(t, Policy{env.Right, env.Right, env.Right}, result.Policy[1:4])
		requireMeanOfReturns(t, result)
	})

	t.Run("per-episode refresh ends with the same greedy policy", func(t *testing.T) {
		atEnd := MonteCarloES(env.NewLineWorld(5), 500, 0.9, WithSeed(3))
		perEpisode := MonteCarloES(env.NewLineWorld(5), 500, 0.9, WithSeed(3), WithPolicyRefresh(RefreshPerEpisode))

		require.Equal(t, atEnd.Q, perEpisode.Q, "Random play should not depend on the refresh mode")
		require.Equal(t, atEnd.Policy[1:4], perEpisode.Policy[1:4])
	})

	t.Run("only plays legal actions", func(t *testing.T) {
		failOnForbidden(t)
		var result MonteCarloResult
		require.NotPanics(t, func() { result = MonteCarloES(env.NewGridWorld(3, 3), 300, 0.9, WithSeed(2)) })

		// The top-left corner only allows Down and Right.
		require.Contains(t, []int{env.GridDown, env.GridRight}, result.Policy[0])
	})
}

func TestOnPolicyMonteCarlo(t *testing.T) {
	for name, refresh := range map[string]PolicyRefresh{"at end": RefreshAtEnd, "per episode": RefreshPerEpisode} {
		t.Run("learns to walk right with refresh "+name, func(t *testing.T) {
			result := OnPolicyMonteCarlo(env.NewLineWorld(5), 3000, 0.9, 0.1, WithSeed(1), WithPolicyRefresh(refresh))

			require.Equal(t, Policy{env.Right, env.Right, env.Right}, result.Policy[1:4])
			requireMeanOfReturns(t, result)
		})
	}

	t.Run("only plays legal actions", func(t *testing.T) {
		failOnForbidden(t)
		require.NotPanics(t, func() { OnPolicyMonteCarlo(env.NewGridWorld(3, 3), 200, 0.9, 1, WithSeed(2)) })
		require.NotPanics(t, func() {
			OnPolicyMonteCarlo(env.NewGridWorld(3, 3), 200, 0.9, 0.5, WithSeed(2), WithPolicyRefresh(RefreshPerEpisode))
		})
	})

	t.Run("records episodes", func(t *testing.T) {
		collector := metrics.NewCollector()
		OnPolicyMonteCarlo(env.NewLineWorld(5), 25, 0.9, 0.3, WithSeed(5), WithMetrics(collector))

		run := collector.Complete()
		require.Equal(t, "on-policy-monte-carlo", run.Algorithm)
		require.Equal(t, 25, run.Episodes)
	})
}
