package env

import "golang.org/x/exp/rand"

const (
	GridUp = iota
	GridDown
	GridLeft
	GridRight
)

// GridWorld is a Rows x Cols board. The agent starts in the top-left corner.
// The top-right corner is a losing terminal (-3), the bottom-left corner a
// winning terminal (+1). Moving off the board is forbidden.
type GridWorld struct {
	Rows int
	Cols int
}

func NewGridWorld(rows, cols int) GridWorld {
	if rows < 2 || cols < 2 {
		panic("grid world needs at least 2 rows and 2 columns")
	}
	return GridWorld{Rows: rows, Cols: cols}
}

var gridWorldRewards = []float64{-3, 0, 1}

func (w GridWorld) NumStates() int  { return w.Rows * w.Cols }
func (w GridWorld) NumActions() int { return 4 }
func (w GridWorld) NumRewards() int { return len(gridWorldRewards) }

func (w GridWorld) Reward(index int) float64 {
	if index < 0 || index >= len(gridWorldRewards) {
		panic(invalidReward(index))
	}
	return gridWorldRewards[index]
}

func (w GridWorld) isTerminal(row, col int) bool {
	return (row == 0 && col == w.Cols-1) || (row == w.Rows-1 && col == 0)
}

func (w GridWorld) rewardIndex(row, col int) int {
	switch {
	case row == 0 && col == w.Cols-1:
		return 0
	case row == w.Rows-1 && col == 0:
		return 2
	}
	return 1
}

// move returns the destination of action from (row, col) and whether the move stays on the board.
func (w GridWorld) move(row, col, action int) (int, int, bool) {
	switch action {
	case GridUp:
		row--
	case GridDown:
		row++
	case GridLeft:
		col--
	case GridRight:
		col++
	default:
		return row, col, false
	}
	return row, col, row >= 0 && row < w.Rows && col >= 0 && col < w.Cols
}

func (w GridWorld) TransitionProbability(s, a, sp, r int) float64 {
	row, col := s/w.Cols, s%w.Cols
	if w.isTerminal(row, col) {
		return 0
	}
	nextRow, nextCol, ok := w.move(row, col, a)
	if !ok || nextRow*w.Cols+nextCol != sp || w.rewardIndex(nextRow, nextCol) != r {
		return 0
	}
	return 1
}

func (w GridWorld) New() ModelFree {
	return &GridWorldEnv{world: w}
}

func (w GridWorld) FromRandomState(rng *rand.Rand) ModelFree {
	return &GridWorldEnv{world: w, row: rng.Intn(w.Rows), col: rng.Intn(w.Cols)}
}

type GridWorldEnv struct {
	world GridWorld
	row   int
	col   int
}

func (e *GridWorldEnv) NumStates() int  { return e.world.NumStates() }
func (e *GridWorldEnv) NumActions() int { return 4 }

func (e *GridWorldEnv) Reset() {
	e.row, e.col = 0, 0
}

func (e *GridWorldEnv) IsTerminal() bool {
	return e.world.isTerminal(e.row, e.col)
}

func (e *GridWorldEnv) Score() float64 {
	return gridWorldRewards[e.world.rewardIndex(e.row, e.col)]
}

func (e *GridWorldEnv) StateID() int {
	return e.row*e.world.Cols + e.col
}

func (e *GridWorldEnv) IsForbidden(action int) bool {
	if e.IsTerminal() {
		return true
	}
	_, _, ok := e.world.move(e.row, e.col, action)
	return !ok
}

func (e *GridWorldEnv) AvailableActions() []int {
	actions := []int{}
	if e.IsTerminal() {
		return actions
	}
	for a := GridUp; a <= GridRight; a++ {
		if !e.IsForbidden(a) {
			actions = append(actions, a)
		}
	}
	return actions
}

func (e *GridWorldEnv) Step(action int) {
	if e.IsForbidden(action) {
		Forbidden(action, e.StateID())
		return
	}
	e.row, e.col, _ = e.world.move(e.row, e.col, action)
}
