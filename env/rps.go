package env

import "golang.org/x/exp/rand"

const (
	Rock = iota
	Paper
	Scissors
)

// RockPaperScissors is a single round against an opponent playing uniformly
// at random. State 0 is the open round, state 1 the finished game.
type RockPaperScissors struct {
	rng *rand.Rand
}

func NewRockPaperScissors(seed uint64) RockPaperScissors {
	return RockPaperScissors{rng: rand.New(rand.NewSource(seed))}
}

var rpsRewards = []float64{-1, 0, 1}

func (g RockPaperScissors) NumStates() int  { return 2 }
func (g RockPaperScissors) NumActions() int { return 3 }
func (g RockPaperScissors) NumRewards() int { return len(rpsRewards) }

func (g RockPaperScissors) Reward(index int) float64 {
	if index < 0 || index >= len(rpsRewards) {
		panic(invalidReward(index))
	}
	return rpsRewards[index]
}

// TransitionProbability spreads each move evenly over the three outcomes.
func (g RockPaperScissors) TransitionProbability(s, a, sp, r int) float64 {
	if s != 0 || sp != 1 || a < Rock || a > Scissors || r < 0 || r >= len(rpsRewards) {
		return 0
	}
	return 1.0 / 3
}

func (g RockPaperScissors) New() ModelFree {
	return g.FromRandomState(g.rng)
}

func (g RockPaperScissors) FromRandomState(rng *rand.Rand) ModelFree {
	e := &RockPaperScissorsEnv{rng: rng}
	e.Reset()
	return e
}

// outcome is +1 when action beats opponent, -1 when it loses, 0 on a draw.
func outcome(action, opponent int) int {
	switch (action - opponent + 3) % 3 {
	case 1:
		return 1
	case 2:
		return -1
	}
	return 0
}

type RockPaperScissorsEnv struct {
	rng      *rand.Rand
	round    int
	opponent int
	score    int
}

func (e *RockPaperScissorsEnv) NumStates() int  { return 2 }
func (e *RockPaperScissorsEnv) NumActions() int { return 3 }

func (e *RockPaperScissorsEnv) Reset() {
	e.round = 0
	e.score = 0
	e.opponent = e.rng.Intn(3)
}

func (e *RockPaperScissorsEnv) IsTerminal() bool {
	return e.round >= 1
}

func (e *RockPaperScissorsEnv) Score() float64 {
	return float64(e.score)
}

func (e *RockPaperScissorsEnv) StateID() int {
	return e.round
}

func (e *RockPaperScissorsEnv) IsForbidden(action int) bool {
	return e.IsTerminal() || action < Rock || action > Scissors
}

func (e *RockPaperScissorsEnv) AvailableActions() []int {
	if e.IsTerminal() {
		return []int{}
	}
	return []int{Rock, Paper, Scissors}
}

func (e *RockPaperScissorsEnv) Step(action int) {
	if e.IsForbidden(action) {
		Forbidden(action, e.StateID())
		return
	}
	e.score += outcome(action, e.opponent)
	e.opponent = action
	e.round++
}
