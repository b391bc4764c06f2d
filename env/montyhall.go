package env

import "golang.org/x/exp/rand"

const (
	Keep   = 0
	Switch = 1
)

const doors = 3

// MontyHall is the three-door selection puzzle. The player holds a door, the
// host opens a losing door the player does not hold, and the player either
// keeps or switches. State id = door + prize*3 + over*9.
type MontyHall struct {
	rng *rand.Rand
}

func NewMontyHall(seed uint64) MontyHall {
	return MontyHall{rng: rand.New(rand.NewSource(seed))}
}

var montyHallRewards = []float64{-1, 1}

func (m MontyHall) NumStates() int  { return doors * doors * 2 }
func (m MontyHall) NumActions() int { return 2 }
func (m MontyHall) NumRewards() int { return len(montyHallRewards) }

func (m MontyHall) Reward(index int) float64 {
	if index < 0 || index >= len(montyHallRewards) {
		panic(invalidReward(index))
	}
	return montyHallRewards[index]
}

func (m MontyHall) TransitionProbability(s, a, sp, r int) float64 {
	door, prize, over := s%doors, (s/doors)%doors, s/(doors*doors)
	if over == 1 || (a != Keep && a != Switch) {
		return 0
	}
	next := door
	if a == Switch {
		next = otherDoor(door, hostDoor(door, prize))
	}
	win := 0
	if next == prize {
		win = 1
	}
	if sp == next+prize*doors+doors*doors && r == win {
		return 1
	}
	return 0
}

func (m MontyHall) New() ModelFree {
	return deal(m.rng)
}

func (m MontyHall) FromRandomState(rng *rand.Rand) ModelFree {
	return deal(rng)
}

func deal(rng *rand.Rand) *MontyHallEnv {
	e := &MontyHallEnv{rng: rng}
	e.Reset()
	return e
}

// hostDoor is the first door that neither hides the prize nor is held.
func hostDoor(door, prize int) int {
	for d := 0; d < doors; d++ {
		if d != door && d != prize {
			return d
		}
	}
	panic("no door left for the host")
}

func otherDoor(door, host int) int {
	for d := 0; d < doors; d++ {
		if d != door && d != host {
			return d
		}
	}
	panic("no door left to switch to")
}

type MontyHallEnv struct {
	rng   *rand.Rand
	door  int
	prize int
	host  int
	over  bool
}

func (e *MontyHallEnv) NumStates() int  { return doors * doors * 2 }
func (e *MontyHallEnv) NumActions() int { return 2 }

func (e *MontyHallEnv) Reset() {
	e.prize = e.rng.Intn(doors)
	e.door = e.rng.Intn(doors)
	e.host = hostDoor(e.door, e.prize)
	e.over = false
}

func (e *MontyHallEnv) IsTerminal() bool {
	return e.over
}

func (e *MontyHallEnv) Score() float64 {
	if !e.over {
		return 0
	}
	if e.door == e.prize {
		return 1
	}
	return -1
}

func (e *MontyHallEnv) StateID() int {
	id := e.door + e.prize*doors
	if e.over {
		id += doors * doors
	}
	return id
}

func (e *MontyHallEnv) IsForbidden(action int) bool {
	return e.over || (action != Keep && action != Switch)
}

func (e *MontyHallEnv) AvailableActions() []int {
	if e.over {
		return []int{}
	}
	return []int{Keep, Switch}
}

func (e *MontyHallEnv) Step(action int) {
	if e.IsForbidden(action) {
		Forbidden(action, e.StateID())
		return
	}
	if action == Switch {
		e.door = otherDoor(e.door, e.host)
	}
	e.over = true
}
