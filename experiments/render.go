package experiments

import (
	"fmt"
	"strings"

	"tabular/env"
	"tabular/solver"
	"tabular/utils"

	"github.com/logrusorgru/aurora"
)

// terminal reports whether the model gives state no outgoing probability mass.
func terminal(m env.MDP, s int) bool {
	if m == nil {
		return false
	}
	for a := 0; a < m.NumActions(); a++ {
		for sp := 0; sp < m.NumStates(); sp++ {
			for r := 0; r < m.NumRewards(); r++ {
				if m.TransitionProbability(s, a, sp, r) > 0 {
					return false
				}
			}
		}
	}
	return true
}

func (e Environment) label(action int) string {
	if action >= 0 && action < len(e.Actions) {
		return e.Actions[action]
	}
	return fmt.Sprint(action)
}

// board lays cells out on the environment's rows and columns.
func (e Environment) board(states int, cell func(s int) string) string {
	var b strings.Builder
	for row := 0; row < e.Rows; row++ {
		for col := 0; col < e.Cols; col++ {
			s := row*e.Cols + col
			if s >= states {
				break
			}
			b.WriteString(cell(s))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderPolicy draws the action of every state. Terminal states are marked with *.
func RenderPolicy(au aurora.Aurora, e Environment, policy solver.Policy) string {
	return e.board(len(policy), func(s int) string {
		if terminal(e.MDP, s) {
			return au.Yellow(fmt.Sprintf("%3s ", "*")).String() + au.White("|").String()
		}
		return au.Green(fmt.Sprintf("%3s ", e.label(policy[s]))).String() + au.White("|").String()
	})
}

func RenderValues(au aurora.Aurora, e Environment, values solver.ValueFunction) string {
	return e.board(len(values), func(s int) string {
		cell := fmt.Sprintf("%8.3f ", values[s])
		switch {
		case values[s] > 0:
			return au.Green(cell).String() + au.White("|").String()
		case values[s] < 0:
			return au.Red(cell).String() + au.White("|").String()
		}
		return au.Blue(cell).String() + au.White("|").String()
	})
}

// RenderQTable prints one line per state with the greedy action in bold.
func RenderQTable(au aurora.Aurora, e Environment, q solver.QTable) string {
	var b strings.Builder
	for s, row := range q {
		best := utils.Argmax(row)
		b.WriteString(fmt.Sprintf("%4d:", s))
		for a, v := range row {
			cell := fmt.Sprintf(" %s=%.3f", e.label(a), v)
			if a == best {
				b.WriteString(au.Bold(cell).String())
			} else {
				b.WriteString(cell)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
