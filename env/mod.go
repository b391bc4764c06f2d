package env

import (
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// MDP exposes a fully known model: enumerable states, actions and reward
// indices, and the joint probability p(s', r | s, a) over next state and
// reward index. Sizes must not change over the value's lifetime.
type MDP interface {
	NumStates() int
	NumActions() int
	NumRewards() int
	// Reward maps a reward index to its scalar value. An out-of-range index
	// is a programmer error and panics.
	Reward(index int) float64
	TransitionProbability(state, action, nextState, rewardIndex int) float64
}

// ModelFree is an environment that can only be queried by interacting with it.
type ModelFree interface {
	NumStates() int
	NumActions() int
	Reset()
	IsTerminal() bool
	Score() float64
	StateID() int
	IsForbidden(action int) bool
	AvailableActions() []int
	// Step applies an action. Stepping with a forbidden action terminates the
	// process with ExitForbiddenAction.
	Step(action int)
}

// Factory constructs playable instances of a ModelFree environment.
type Factory interface {
	New() ModelFree
	FromRandomState(rng *rand.Rand) ModelFree
}

// Release closes instances that hold external resources.
func Release(e ModelFree) {
	c, ok := e.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to release environment")
	}
}

// RewardIndex returns the index of value in the MDP's reward enumeration, or -1.
func RewardIndex(m MDP, value float64) int {
	for r := 0; r < m.NumRewards(); r++ {
		if m.Reward(r) == value {
			return r
		}
	}
	return -1
}
