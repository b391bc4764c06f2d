package solver

import (
	"time"

	"tabular/env"

	"github.com/rs/zerolog/log"
)

// DynaQ interleaves Q-learning on real steps with n simulated backups drawn
// from a model of the transitions observed so far. Simulated backups use the
// sampled pair's own recorded reward.
func DynaQ(f env.Factory, n, numEpisodes int, learningRate, gamma, epsilon float64, opts ...Option) QTable {
	q, _ := dynaQ(f, n, numEpisodes, learningRate, gamma, epsilon, opts...)
	return q
}

func dynaQ(f env.Factory, n, numEpisodes int, learningRate, gamma, epsilon float64, opts ...Option) (QTable, Model) {
	c := newConfig(opts)
	e := f.New()
	defer env.Release(e)
	q := NewQTable(e.NumStates(), e.NumActions())
	model := newModel(c.model, e.NumStates(), e.NumActions())

	c.metrics.Start("dyna-q")
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
			sp := e.StateID()
			q.backup(s, a, r, sp, learningRate, gamma)
			steps++
			ret += r

			model.Record(s, a, r, sp)
			for i := 0; i < n; i++ {
				ms, ma, mr, msp := model.Sample(c.rng)
				q.backup(ms, ma, mr, msp, learningRate, gamma)
				c.metrics.AddPlanningUpdate()
			}
		}
		c.metrics.AddEpisode(steps, ret)
	}
	c.metrics.Stop()

	log.Debug().
		Str("algorithm", "dyna-q").
		Int("episodes", numEpisodes).
		Int("planning_steps", n).
		Int("visited_pairs", model.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("training finished")
	return q, model
}
