package engine

import (
	"slices"

	"tabular/env"

	"github.com/rs/zerolog/log"
)

// Rollout plays e from its current state until it terminates, or until
// maxMoves steps when maxMoves > 0.
func Rollout(e env.ModelFree, choose Chooser, maxMoves int) Episode {
	episode := Episode{}
	for !e.IsTerminal() {
		if maxMoves > 0 && len(episode) >= maxMoves {
			log.Warn().Msgf("rollout stopped after %d moves without reaching a terminal state", maxMoves)
			break
		}
		state := e.StateID()
		action := choose(state, e.AvailableActions())
		before := e.Score()
		e.Step(action)
		episode = append(episode, Step{
			State:  state,
			Action: action,
			Reward: e.Score() - before,
		})
	}
	return episode
}

// Follow plays policy, substituting the lowest legal action whenever the
// policy names a forbidden one.
func Follow(policy []int) Chooser {
	return func(state int, available []int) int {
		for _, a := range available {
			if a == policy[state] {
				return a
			}
		}
		lowest := slices.Min(available)
		log.Warn().Msgf("policy action %d is forbidden in state %d, playing %d", policy[state], state, lowest)
		return lowest
	}
}

// Evaluate plays policy for the given number of episodes from the factory's
// start state and returns the mean final score.
func Evaluate(f env.Factory, policy []int, episodes int) float64 {
	if episodes <= 0 {
		return 0
	}
	e := f.New()
	defer env.Release(e)

	total := 0.0
	for i := 0; i < episodes; i++ {
		e.Reset()
		Rollout(e, Follow(policy), MaxMoves)
		total += e.Score()
	}
	return total / float64(episodes)
}
