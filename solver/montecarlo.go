package solver

import (
	"slices"
	"time"

	"tabular/engine"
	"tabular/env"
	"tabular/utils"

	"github.com/rs/zerolog/log"
)

// MonteCarloResult is the outcome of Monte Carlo control. Returns logs every
// first-visit return observed for a pair and Q holds their mean.
type MonteCarloResult struct {
	Q       QTable
	Policy  Policy
	Returns map[StateAction][]float64
}

type monteCarlo struct {
	q       QTable
	policy  Policy
	returns map[StateAction][]float64
	legal   [][]int // legal actions per state, nil until the state is seen
}

func newMonteCarlo(states, actions int) *monteCarlo {
	return &monteCarlo{
		q:       NewQTable(states, actions),
		policy:  make(Policy, states),
		returns: make(map[StateAction][]float64),
		legal:   make([][]int, states),
	}
}

func (mc *monteCarlo) remember(state int, available []int) {
	if mc.legal[state] == nil {
		mc.legal[state] = slices.Clone(available)
	}
}

// improve makes the policy greedy in state with respect to its legal actions.
func (mc *monteCarlo) improve(state int) {
	if mc.legal[state] == nil {
		mc.policy[state] = utils.Argmax(mc.q[state])
		return
	}
	mc.policy[state] = utils.ArgmaxOf(mc.q[state], mc.legal[state])
}

func (mc *monteCarlo) extract() {
	for s := range mc.policy {
		mc.improve(s)
	}
}

// firstVisit walks the episode backward accumulating G = r + gamma*G. Only the
// first chronological occurrence of a pair logs its return, after which the
// pair's estimate becomes the mean of its whole log.
func (mc *monteCarlo) firstVisit(episode engine.Episode, gamma float64, updated func(state int)) {
	first := make(map[StateAction]int, len(episode))
	for t, step := range episode {
		key := StateAction{State: step.State, Action: step.Action}
		if _, ok := first[key]; !ok {
			first[key] = t
		}
	}

	g := 0.0
	for t := len(episode) - 1; t >= 0; t-- {
		step := episode[t]
		g = step.Reward + gamma*g

		key := StateAction{State: step.State, Action: step.Action}
		if first[key] != t {
			continue
		}
		mc.returns[key] = append(mc.returns[key], g)
		mc.q[step.State][step.Action] = utils.Mean(mc.returns[key])
		if updated != nil {
			updated(step.State)
		}
	}
}

func (mc *monteCarlo) result() MonteCarloResult {
	return MonteCarloResult{
		Q:       mc.q,
		Policy:  mc.policy,
		Returns: mc.returns,
	}
}

// dimensions reads the table sizes of a factory's environments.
func dimensions(f env.Factory) (int, int) {
	e := f.New()
	defer env.Release(e)
	return e.NumStates(), e.NumActions()
}

// MonteCarloES runs Monte Carlo control with exploring starts: every episode
// begins in a random state and every action is drawn uniformly among the legal ones.
func MonteCarloES(f env.Factory, numEpisodes int, gamma float64, opts ...Option) MonteCarloResult {
	c := newConfig(opts)
	mc := newMonteCarlo(dimensions(f))

	explore := func(state int, available []int) int {
		mc.remember(state, available)
		return available[c.rng.Intn(len(available))]
	}
	var updated func(int)
	if c.refresh == RefreshPerEpisode {
		updated = mc.improve
	}

	c.metrics.Start("monte-carlo-es")
	start := time.Now()
	for episode := 0; episode < numEpisodes; episode++ {
		e := f.FromRandomState(c.rng)
		trace := engine.Rollout(e, explore, 0)
		env.Release(e)

		mc.firstVisit(trace, gamma, updated)
		c.metrics.AddEpisode(len(trace), trace.Return())
	}
	if c.refresh == RefreshAtEnd {
		mc.extract()
	}
	c.metrics.Stop()

	log.Debug().
		Str("algorithm", "monte-carlo-es").
		Int("episodes", numEpisodes).
		Dur("elapsed", time.Since(start)).
		Msg("training finished")
	return mc.result()
}

// OnPolicyMonteCarlo runs on-policy first-visit Monte Carlo control with an
// epsilon-greedy behaviour. With RefreshPerEpisode the behaviour exploits the
// policy table, which is improved for every state updated by the backward walk.
// With RefreshAtEnd it exploits Q directly and the policy is extracted once.
func OnPolicyMonteCarlo(f env.Factory, numEpisodes int, gamma, epsilon float64, opts ...Option) MonteCarloResult {
	c := newConfig(opts)
	e := f.New()
	defer env.Release(e)
	mc := newMonteCarlo(e.NumStates(), e.NumActions())

	behave := func(state int, available []int) int {
		mc.remember(state, available)
		if c.refresh == RefreshPerEpisode {
			return epsilonPolicy(c.rng, mc.policy[state], mc.q[state], available, epsilon)
		}
		return EpsilonGreedy(c.rng, mc.q[state], available, epsilon)
	}
	var updated func(int)
	if c.refresh == RefreshPerEpisode {
		updated = mc.improve
	}

	c.metrics.Start("on-policy-monte-carlo")
	start := time.Now()
	for episode := 0; episode < numEpisodes; episode++ {
		e.Reset()
		trace := engine.Rollout(e, behave, 0)
		mc.firstVisit(trace, gamma, updated)
		c.metrics.AddEpisode(len(trace), trace.Return())
	}
	if c.refresh == RefreshAtEnd {
		mc.extract()
	}
	c.metrics.Stop()

	log.Debug().
		Str("algorithm", "on-policy-monte-carlo").
		Int("episodes", numEpisodes).
		Dur("elapsed", time.Since(start)).
		Msg("training finished")
	return mc.result()
}
