package secret

import (
	"fmt"
	"unsafe"
)

// symbols is the function table one secret environment id exports. Every
// entry is resolved from a symbol named secret_env_<id>_<name>.
type symbols struct {
	numStates             func() uint
	numActions            func() uint
	numRewards            func() uint
	reward                func(index uint) float32
	transitionProbability func(state, action, nextState, rewardIndex uint) float32

	newInstance     func() unsafe.Pointer
	fromRandomState func() unsafe.Pointer

	reset                  func(instance unsafe.Pointer)
	stateID                func(instance unsafe.Pointer) uint
	isForbidden            func(instance unsafe.Pointer, action uint) bool
	isGameOver             func(instance unsafe.Pointer) bool
	availableActions       func(instance unsafe.Pointer) unsafe.Pointer
	availableActionsLen    func(instance unsafe.Pointer) uint
	availableActionsDelete func(actions unsafe.Pointer, length uint)
	step                   func(instance unsafe.Pointer, action uint)
	score                  func(instance unsafe.Pointer) float32

	delete func(instance unsafe.Pointer)
}

type binding struct {
	name string
	fn   any // pointer to a func field of symbols
}

func (s *symbols) bindings() []binding {
	return []binding{
		{"num_states", &s.numStates},
		{"num_actions", &s.numActions},
		{"num_rewards", &s.numRewards},
		{"reward", &s.reward},
		{"transition_probability", &s.transitionProbability},
		{"new", &s.newInstance},
		{"from_random_state", &s.fromRandomState},
		{"reset", &s.reset},
		{"state_id", &s.stateID},
		{"is_forbidden", &s.isForbidden},
		{"is_game_over", &s.isGameOver},
		{"available_actions", &s.availableActions},
		{"available_actions_len", &s.availableActionsLen},
		{"available_actions_delete", &s.availableActionsDelete},
		{"step", &s.step},
		{"score", &s.score},
		{"delete", &s.delete},
	}
}

func symbolName(id int, name string) string {
	return fmt.Sprintf("secret_env_%d_%s", id, name)
}
