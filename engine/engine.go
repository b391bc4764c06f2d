package engine

// MaxMoves caps evaluation rollouts. Training rollouts pass 0 and run until
// the environment terminates.
const MaxMoves = 10000

// Step is one transition of an episode: the action taken in State and the
// score change it produced.
type Step struct {
	State  int
	Action int
	Reward float64
}

type Episode []Step

// Return is the undiscounted sum of rewards.
func (e Episode) Return() float64 {
	total := 0.0
	for _, step := range e {
		total += step.Reward
	}
	return total
}

// Discounted accumulates G = r + gamma*G walking the episode backward.
func (e Episode) Discounted(gamma float64) float64 {
	g := 0.0
	for i := len(e) - 1; i >= 0; i-- {
		g = e[i].Reward + gamma*g
	}
	return g
}

// Chooser picks an action among the legal actions of a state.
type Chooser func(state int, available []int) int
