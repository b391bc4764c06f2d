package solver

import (
	"tabular/env"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TransitionTensor caches p(s', r | s, a) of an MDP as a dense matrix whose
// rows are (s, a) pairs and whose columns are (s', r) pairs.
type TransitionTensor struct {
	states  int
	actions int
	rewards []float64
	p       *mat.Dense
}

func NewTransitionTensor(m env.MDP) *TransitionTensor {
	numStates, numActions, numRewards := m.NumStates(), m.NumActions(), m.NumRewards()
	if numStates <= 0 || numActions <= 0 || numRewards <= 0 {
		panic("MDP must have at least one state, action and reward")
	}

	rewards := make([]float64, numRewards)
	for r := range rewards {
		rewards[r] = m.Reward(r)
	}

	p := mat.NewDense(numStates*numActions, numStates*numRewards, nil)
	for s := 0; s < numStates; s++ {
		for a := 0; a < numActions; a++ {
			row := p.RawRowView(s*numActions + a)
			for sp := 0; sp < numStates; sp++ {
				for r := 0; r < numRewards; r++ {
					row[sp*numRewards+r] = m.TransitionProbability(s, a, sp, r)
				}
			}
		}
	}

	return &TransitionTensor{
		states:  numStates,
		actions: numActions,
		rewards: rewards,
		p:       p,
	}
}

func (t *TransitionTensor) NumStates() int  { return t.states }
func (t *TransitionTensor) NumActions() int { return t.actions }

func (t *TransitionTensor) Probability(s, a, sp, r int) float64 {
	return t.p.At(s*t.actions+a, sp*len(t.rewards)+r)
}

// backupVector lays out reward(r) + gamma*V(s') in the tensor's column order.
func (t *TransitionTensor) backupVector(v ValueFunction, gamma float64) []float64 {
	b := make([]float64, t.states*len(t.rewards))
	for sp := range v {
		t.refresh(b, sp, v[sp], gamma)
	}
	return b
}

// refresh rewrites the backup entries of state sp after V(sp) changed.
func (t *TransitionTensor) refresh(b []float64, sp int, value, gamma float64) {
	offset := sp * len(t.rewards)
	for r, reward := range t.rewards {
		b[offset+r] = reward + gamma*value
	}
}

// Expected is sum over (s', r) of p(s', r | s, a) * (reward(r) + gamma*V(s')).
func (t *TransitionTensor) Expected(s, a int, b []float64) float64 {
	return floats.Dot(t.p.RawRowView(s*t.actions+a), b)
}

// actionValues fills out with the expected backup of every action in s.
func (t *TransitionTensor) actionValues(s int, b []float64, out []float64) []float64 {
	for a := 0; a < t.actions; a++ {
		out[a] = t.Expected(s, a, b)
	}
	return out
}
