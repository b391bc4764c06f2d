package solver

import "golang.org/x/exp/rand"

// Model remembers the latest observed outcome of every visited (state, action) pair.
type Model interface {
	Record(s, a int, r float64, sp int)
	// Sample draws a visited pair uniformly at random together with its own
	// recorded outcome. Sampling a model with no visited pair panics.
	Sample(rng *rand.Rand) (s, a int, r float64, sp int)
	Lookup(s, a int) (r float64, sp int, ok bool)
	Len() int
}

func newModel(store ModelStore, states, actions int) Model {
	switch store {
	case SparseModel:
		return newSparseModel()
	case DenseModel:
		return newDenseModel(states, actions)
	default:
		panic("unknown model store")
	}
}

type transition struct {
	reward float64
	next   int
}

// sparseModel keeps visited pairs in insertion order next to an index map,
// so that uniform sampling is a single draw.
type sparseModel struct {
	index       map[StateAction]int
	pairs       []StateAction
	transitions []transition
}

func newSparseModel() *sparseModel {
	return &sparseModel{index: make(map[StateAction]int)}
}

func (m *sparseModel) Record(s, a int, r float64, sp int) {
	key := StateAction{State: s, Action: a}
	if i, ok := m.index[key]; ok {
		m.transitions[i] = transition{reward: r, next: sp}
		return
	}
	m.index[key] = len(m.pairs)
	m.pairs = append(m.pairs, key)
	m.transitions = append(m.transitions, transition{reward: r, next: sp})
}

func (m *sparseModel) Sample(rng *rand.Rand) (int, int, float64, int) {
	if len(m.pairs) == 0 {
		panic("sampling an empty model")
	}
	i := rng.Intn(len(m.pairs))
	return m.pairs[i].State, m.pairs[i].Action, m.transitions[i].reward, m.transitions[i].next
}

func (m *sparseModel) Lookup(s, a int) (float64, int, bool) {
	i, ok := m.index[StateAction{State: s, Action: a}]
	if !ok {
		return 0, 0, false
	}
	return m.transitions[i].reward, m.transitions[i].next, true
}

func (m *sparseModel) Len() int {
	return len(m.pairs)
}

// denseModel is a states x actions table with visited flags. Sampling draws
// cells uniformly and rejects unvisited ones.
type denseModel struct {
	actions     int
	visited     []bool
	transitions []transition
	count       int
}

func newDenseModel(states, actions int) *denseModel {
	return &denseModel{
		actions:     actions,
		visited:     make([]bool, states*actions),
		transitions: make([]transition, states*actions),
	}
}

func (m *denseModel) Record(s, a int, r float64, sp int) {
	i := s*m.actions + a
	if !m.visited[i] {
		m.visited[i] = true
		m.count++
	}
	m.transitions[i] = transition{reward: r, next: sp}
}

func (m *denseModel) Sample(rng *rand.Rand) (int, int, float64, int) {
	if m.count == 0 {
		panic("sampling an empty model")
	}
	for {
		i := rng.Intn(len(m.visited))
		if m.visited[i] {
			return i / m.actions, i % m.actions, m.transitions[i].reward, m.transitions[i].next
		}
	}
}

func (m *denseModel) Lookup(s, a int) (float64, int, bool) {
	i := s*m.actions + a
	return m.transitions[i].reward, m.transitions[i].next, m.visited[i]
}

func (m *denseModel) Len() int {
	return m.count
}
