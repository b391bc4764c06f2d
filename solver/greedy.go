package solver

import (
	"tabular/utils"

	"golang.org/x/exp/rand"
)

// EpsilonGreedy explores with probability epsilon by picking uniformly among
// available, and otherwise exploits the best available action in qRow.
func EpsilonGreedy(rng *rand.Rand, qRow []float64, available []int, epsilon float64) int {
	if len(available) == 0 {
		panic("epsilon-greedy selection without available actions")
	}
	if rng.Float64() < epsilon {
		return available[rng.Intn(len(available))]
	}
	return utils.ArgmaxOf(qRow, available)
}

// epsilonPolicy explores like EpsilonGreedy but exploits a fixed policy table,
// falling back to the best available action when the table names a forbidden one.
func epsilonPolicy(rng *rand.Rand, action int, qRow []float64, available []int, epsilon float64) int {
	if len(available) == 0 {
		panic("epsilon-greedy selection without available actions")
	}
	if rng.Float64() < epsilon {
		return available[rng.Intn(len(available))]
	}
	if utils.Contains(available, action) {
		return action
	}
	return utils.ArgmaxOf(qRow, available)
}
