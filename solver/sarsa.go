package solver

import (
	"time"

	"tabular/env"

	"github.com/rs/zerolog/log"
)

// SARSA runs on-policy TD control: the backup target uses the action the
// epsilon-greedy behaviour actually takes next. Terminal successors contribute 0.
func SARSA(f env.Factory, numEpisodes int, learningRate, gamma, epsilon float64, opts ...Option) QTable {
	c := newConfig(opts)
	e := f.New()
	defer env.Release(e)
	q := NewQTable(e.NumStates(), e.NumActions())

	c.metrics.Start("sarsa")
	start := time.Now()
	for episode := 0; episode < numEpisodes; episode++ {
		e.Reset()
		steps, ret := 0, 0.0
		if e.IsTerminal() {
			c.metrics.AddEpisode(steps, ret)
			continue
		}

		s := e.StateID()
		a := EpsilonGreedy(c.rng, q[s], e.AvailableActions(), epsilon)
		for {
			before := e.Score()
			e.Step(a)
			r := e.Score() - before
			steps++
			ret += r

			sp := e.StateID()
			if e.IsTerminal() {
				q[s][a] += learningRate * (r - q[s][a])
				break
			}
			ap := EpsilonGreedy(c.rng, q[sp], e.AvailableActions(), epsilon)
			q[s][a] += learningRate * (r + gamma*q[sp][ap] - q[s][a])
			s, a = sp, ap
		}
		c.metrics.AddEpisode(steps, ret)
	}
	c.metrics.Stop()

	log.Debug().
		Str("algorithm", "sarsa").
		Int("episodes", numEpisodes).
		Dur("elapsed", time.Since(start)).
		Msg("training finished")
	return q
}
