// Package secret adapts environments exported by a native shared library to
// the env contracts.
package secret

import (
	"fmt"
	"sync"
	"unsafe"

	"tabular/env"

	"golang.org/x/exp/rand"
)

// Env is one secret environment id. It is both a known MDP and a factory of
// playable instances. It tracks the instances it handed out that are not
// closed yet, so that they can be released before the library is unloaded.
type Env struct {
	id  int
	fns *symbols

	mu   sync.Mutex
	open map[*Instance]struct{}
}

func (e *Env) ID() int { return e.id }

func (e *Env) NumStates() int  { return int(e.fns.numStates()) }
func (e *Env) NumActions() int { return int(e.fns.numActions()) }
func (e *Env) NumRewards() int { return int(e.fns.numRewards()) }

func (e *Env) Reward(index int) float64 {
	if index < 0 || index >= e.NumRewards() {
		panic(fmt.Sprintf("invalid reward index %d for secret environment %d", index, e.id))
	}
	return float64(e.fns.reward(uint(index)))
}

func (e *Env) TransitionProbability(state, action, nextState, rewardIndex int) float64 {
	return float64(e.fns.transitionProbability(uint(state), uint(action), uint(nextState), uint(rewardIndex)))
}

func (e *Env) New() env.ModelFree {
	return e.wrap(e.fns.newInstance())
}

// FromRandomState lets the library draw the start state from its own source;
// rng is not consulted.
func (e *Env) FromRandomState(rng *rand.Rand) env.ModelFree {
	return e.wrap(e.fns.fromRandomState())
}

func (e *Env) wrap(handle unsafe.Pointer) *Instance {
	if handle == nil {
		panic(fmt.Sprintf("secret environment %d returned no instance", e.id))
	}
	i := &Instance{env: e, handle: handle}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.open == nil {
		e.open = make(map[*Instance]struct{})
	}
	e.open[i] = struct{}{}
	return i
}

// release closes every instance that is still open and returns how many there were.
func (e *Env) release() int {
	e.mu.Lock()
	open := make([]*Instance, 0, len(e.open))
	for i := range e.open {
		open = append(open, i)
	}
	e.mu.Unlock()

	for _, i := range open {
		i.Close()
	}
	return len(open)
}

// Instance exclusively owns one native environment handle. Close releases it
// exactly once; any other call after Close panics.
type Instance struct {
	env    *Env
	handle unsafe.Pointer
	once   sync.Once
}

func (i *Instance) live() unsafe.Pointer {
	if i.handle == nil {
		panic(fmt.Sprintf("secret environment %d used after close", i.env.id))
	}
	return i.handle
}

func (i *Instance) NumStates() int  { return i.env.NumStates() }
func (i *Instance) NumActions() int { return i.env.NumActions() }

func (i *Instance) Reset() {
	i.env.fns.reset(i.live())
}

func (i *Instance) IsTerminal() bool {
	return i.env.fns.isGameOver(i.live())
}

func (i *Instance) Score() float64 {
	return float64(i.env.fns.score(i.live()))
}

func (i *Instance) StateID() int {
	return int(i.env.fns.stateID(i.live()))
}

func (i *Instance) IsForbidden(action int) bool {
	return action < 0 || i.env.fns.isForbidden(i.live(), uint(action))
}

// AvailableActions copies the library's action buffer and hands it back to
// the library's deallocator.
func (i *Instance) AvailableActions() []int {
	handle := i.live()
	raw := i.env.fns.availableActions(handle)
	length := i.env.fns.availableActionsLen(handle)
	defer i.env.fns.availableActionsDelete(raw, length)

	actions := make([]int, length)
	if length == 0 {
		return actions
	}
	for k, a := range unsafe.Slice((*uint)(raw), length) {
		actions[k] = int(a)
	}
	return actions
}

func (i *Instance) Step(action int) {
	if i.IsForbidden(action) {
		env.Forbidden(action, i.StateID())
		return
	}
	i.env.fns.step(i.live(), uint(action))
}

func (i *Instance) Close() error {
	i.once.Do(func() {
		i.env.fns.delete(i.handle)
		i.handle = nil

		i.env.mu.Lock()
		delete(i.env.open, i)
		i.env.mu.Unlock()
	})
	return nil
}
