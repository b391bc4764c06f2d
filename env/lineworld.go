package env

import "golang.org/x/exp/rand"

const (
	Left  = 0
	Right = 1
)

// LineWorld is a corridor of Cells cells with terminal cells at both ends.
// Reaching the left end scores -1, the right end +1. It is both the MDP model
// and the factory of playable instances.
type LineWorld struct {
	Cells int
}

func NewLineWorld(cells int) LineWorld {
	if cells < 3 {
		panic("line world needs at least 3 cells")
	}
	return LineWorld{Cells: cells}
}

var lineWorldRewards = []float64{-1, 0, 1}

func (w LineWorld) NumStates() int  { return w.Cells }
func (w LineWorld) NumActions() int { return 2 }
func (w LineWorld) NumRewards() int { return len(lineWorldRewards) }

func (w LineWorld) Reward(index int) float64 {
	if index < 0 || index >= len(lineWorldRewards) {
		panic(invalidReward(index))
	}
	return lineWorldRewards[index]
}

func (w LineWorld) TransitionProbability(s, a, sp, r int) float64 {
	last := w.Cells - 1
	if s <= 0 || s >= last { // Terminal cells have no outgoing mass
		return 0
	}
	switch a {
	case Left:
		if sp != s-1 {
			return 0
		}
		if (sp == 0 && r == 0) || (sp != 0 && r == 1) {
			return 1
		}
	case Right:
		if sp != s+1 {
			return 0
		}
		if (sp == last && r == 2) || (sp != last && r == 1) {
			return 1
		}
	}
	return 0
}

func (w LineWorld) New() ModelFree {
	return &LineWorldEnv{cells: w.Cells, current: w.Cells / 2}
}

func (w LineWorld) FromRandomState(rng *rand.Rand) ModelFree {
	return &LineWorldEnv{cells: w.Cells, current: rng.Intn(w.Cells)}
}

type LineWorldEnv struct {
	cells   int
	current int
}

func (e *LineWorldEnv) NumStates() int  { return e.cells }
func (e *LineWorldEnv) NumActions() int { return 2 }

func (e *LineWorldEnv) Reset() {
	e.current = e.cells / 2
}

func (e *LineWorldEnv) IsTerminal() bool {
	return e.current == 0 || e.current == e.cells-1
}

func (e *LineWorldEnv) Score() float64 {
	switch e.current {
	case 0:
		return -1
	case e.cells - 1:
		return 1
	}
	return 0
}

func (e *LineWorldEnv) StateID() int {
	return e.current
}

func (e *LineWorldEnv) IsForbidden(action int) bool {
	return e.IsTerminal() || (action != Left && action != Right)
}

func (e *LineWorldEnv) AvailableActions() []int {
	if e.IsTerminal() {
		return []int{}
	}
	return []int{Left, Right}
}

func (e *LineWorldEnv) Step(action int) {
	if e.IsForbidden(action) {
		Forbidden(action, e.StateID())
		return
	}
	if action == Left {
		e.current--
	} else {
		e.current++
	}
}
