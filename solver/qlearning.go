package solver

import (
	"time"

	"tabular/env"

	"github.com/rs/zerolog/log"
)

// QLearning runs off-policy TD control for numEpisodes full episodes. The
// reward of a step is the change in score it produced.
func QLearning(f env.Factory, numEpisodes int, learningRate, gamma, epsilon float64, opts ...Option) QTable {
	c := newConfig(opts)
	e := f.New()
	defer env.Release(e)
	q := NewQTable(e.NumStates(), e.NumActions())

	c.metrics.Start("q-learning")
	start := time.Now()
	for episode := 0; episode < numEpisodes; episode++ {
		e.Reset()
		steps, ret := 0, 0.0
		for !e.IsTerminal() {
			s := e.StateID()
			a := EpsilonGreedy(c.rng, q[s], e.AvailableActions(), epsilon)
			before := e.Score()
			e.Step(a)
			r := e.Score() - before
			q.backup(s, a, r, e.StateID(), learningRate, gamma)
			steps++
			ret += r
		}
		c.metrics.AddEpisode(steps, ret)
	}
	c.metrics.Stop()

	log.Debug().
		Str("algorithm", "q-learning").
		Int("episodes", numEpisodes).
		Dur("elapsed", time.Since(start)).
		Msg("training finished")
	return q
}
