package solver

import "tabular/utils"

// Policy maps a state id to the chosen action.
type Policy []int

// ValueFunction maps a state id to its expected discounted return.
type ValueFunction []float64

// QTable holds the estimated return of every (state, action) pair.
type QTable [][]float64

type StateAction struct {
	State  int
	Action int
}

func NewQTable(states, actions int) QTable {
	q := make(QTable, states)
	for s := range q {
		q[s] = make([]float64, actions)
	}
	return q
}

// Greedy extracts argmax_a Q(s, a) for every state, lowest action on ties.
func (q QTable) Greedy() Policy {
	policy := make(Policy, len(q))
	for s, row := range q {
		policy[s] = utils.Argmax(row)
	}
	return policy
}

// Max is max_a Q(s, a) over the full row.
func (q QTable) Max(s int) float64 {
	return utils.Max(q[s])
}

// backup applies the temporal-difference update toward r + gamma*max_a' Q(sp, a').
func (q QTable) backup(s, a int, r float64, sp int, learningRate, gamma float64) {
	target := r + gamma*q.Max(sp)
	q[s][a] += learningRate * (target - q[s][a])
}
