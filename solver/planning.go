package solver

import (
	"math"
	"time"

	"tabular/env"
	"tabular/utils"

	"github.com/rs/zerolog/log"
)

// PolicyIteration alternates in-place policy evaluation until max|dV| < theta with
// greedy improvement, stopping once no state changes its action. The returned
// policy is extracted from the final values with the lowest action winning ties.
// There is no iteration cap: a theta the values cannot reach under gamma never returns.
func PolicyIteration(m env.MDP, gamma, theta float64, opts ...Option) (Policy, ValueFunction) {
	c := newConfig(opts)
	t := NewTransitionTensor(m)

	policy := make(Policy, t.states)
	v := make(ValueFunction, t.states)
	q := make([]float64, t.actions)

	c.metrics.Start("policy-iteration")
	start := time.Now()
	for {
		b := t.backupVector(v, gamma)
		for {
			delta := 0.0
			for s := range v {
				old := v[s]
				v[s] = t.Expected(s, policy[s], b)
				t.refresh(b, s, v[s], gamma)
				delta = math.Max(delta, math.Abs(old-v[s]))
			}
			c.metrics.AddSweep(delta)
			if delta < theta {
				break
			}
		}

		// Only strictly better actions count as a change, so ties cannot cycle.
		stable := true
		for s := range policy {
			t.actionValues(s, b, q)
			if best := utils.Argmax(q); q[best] > q[policy[s]] {
				policy[s] = best
				stable = false
			}
		}
		if stable {
			break
		}
	}
	policy = GreedyPolicy(t, v, gamma)
	c.metrics.Stop()

	log.Debug().
		Str("algorithm", "policy-iteration").
		Dur("elapsed", time.Since(start)).
		Msg("planning finished")
	return policy, v
}

// ValueIteration sweeps V(s) = max_a sum p(s',r|s,a)(r + gamma*V(s')) in place until
// max|dV| < theta, then extracts the greedy policy from the converged values.
func ValueIteration(m env.MDP, gamma, theta float64, opts ...Option) (Policy, ValueFunction) {
	c := newConfig(opts)
	t := NewTransitionTensor(m)

	v := make(ValueFunction, t.states)
	b := t.backupVector(v, gamma)
	q := make([]float64, t.actions)

	c.metrics.Start("value-iteration")
	start := time.Now()
	for {
		delta := 0.0
		for s := range v {
			old := v[s]
			v[s] = utils.Max(t.actionValues(s, b, q))
			t.refresh(b, s, v[s], gamma)
			delta = math.Max(delta, math.Abs(old-v[s]))
		}
		c.metrics.AddSweep(delta)
		if delta < theta {
			break
		}
	}
	policy := GreedyPolicy(t, v, gamma)
	c.metrics.Stop()

	log.Debug().
		Str("algorithm", "value-iteration").
		Dur("elapsed", time.Since(start)).
		Msg("planning finished")
	return policy, v
}

// GreedyPolicy picks, for every state, the action with the highest one-step
// lookahead under v. The lowest action index wins ties.
func GreedyPolicy(t *TransitionTensor, v ValueFunction, gamma float64) Policy {
	b := t.backupVector(v, gamma)
	q := make([]float64, t.actions)
	policy := make(Policy, t.states)
	for s := range policy {
		policy[s] = utils.Argmax(t.actionValues(s, b, q))
	}
	return policy
}
