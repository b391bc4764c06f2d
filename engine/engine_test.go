package engine

import (
	"testing"

	"tabular/env"

	"github.com/stretchr/testify/require"
)

// loopEnv never terminates; every step scores one point.
type loopEnv struct {
	score float64
}

func (l *loopEnv) NumStates() int          { return 1 }
func (l *loopEnv) NumActions() int         { return 1 }
func (l *loopEnv) Reset()                  { l.score = 0 }
func (l *loopEnv) IsTerminal() bool        { return false }
func (l *loopEnv) Score() float64          { return l.score }
func (l *loopEnv) StateID() int            { return 0 }
func (l *loopEnv) IsForbidden(a int) bool  { return a != 0 }
func (l *loopEnv) AvailableActions() []int { return []int{0} }
func (l *loopEnv) Step(a int)              { l.score++ }

func alwaysRight(state int, available []int) int { return env.Right }

func TestRollout(t *testing.T) {
	t.Run("records state, action and score change until terminal", func(t *testing.T) {
		e := env.NewLineWorld(5).New()
		episode := Rollout(e, alwaysRight, 0)

		require.Equal(t, Episode{
			{State: 2, Action: env.Right, Reward: 0},
			{State: 3, Action: env.Right, Reward: 1},
		}, episode)
		require.True(t, e.IsTerminal())
		require.Equal(t, 1.0, episode.Return())
		require.InDelta(t, 0.9, episode.Discounted(0.9), 1e-12, "Final reward should be discounted once")
	})

	t.Run("terminal start yields an empty episode", func(t *testing.T) {
		e := env.NewLineWorld(5).New()
		Rollout(e, alwaysRight, 0)
		require.Empty(t, Rollout(e, alwaysRight, 0))
	})

	t.Run("move cap stops non-terminating environments", func(t *testing.T) {
		episode := Rollout(&loopEnv{}, func(int, []int) int { return 0 }, 25)
		require.Len(t, episode, 25)
		require.Equal(t, 25.0, episode.Return())
	})
}

func TestFollow(t *testing.T) {
	choose := Follow([]int{3, 1})

	t.Run("plays the policy action when legal", func(t *testing.T) {
		require.Equal(t, 1, choose(1, []int{0, 1}))
	})

	t.Run("falls back to the lowest legal action", func(t *testing.T) {
		require.Equal(t, 1, choose(0, []int{1, 2}))
	})

	t.Run("fallback does not rely on sorted actions", func(t *testing.T) {
		require.Equal(t, 0, choose(0, []int{2, 0, 1}))
	})
}

func TestEvaluate(t *testing.T) {
	w := env.NewLineWorld(5)

	require.Equal(t, 1.0, Evaluate(w, []int{0, 1, 1, 1, 0}, 3), "Moving right should always win")
	require.Equal(t, -1.0, Evaluate(w, []int{0, 0, 0, 0, 0}, 3), "Moving left should always lose")
	require.Zero(t, Evaluate(w, []int{0, 0, 0, 0, 0}, 0))
}
