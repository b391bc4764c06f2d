// meta/meta.go
package meta

// EPISODES defines the number of training episodes for the learning algorithms.
const EPISODES = 10000

// LEARNING_RATE defines the step size of temporal-difference backups.
const LEARNING_RATE = 0.1

// GAMMA defines the discount factor.
const GAMMA = 0.999

// EPSILON defines the exploration rate of epsilon-greedy behaviour.
const EPSILON = 0.1

// THETA defines the convergence threshold of the planners.
const THETA = 0.001

// PLANNING_STEPS defines the simulated backups per real step in Dyna-Q.
const PLANNING_STEPS = 10

const LINE_CELLS = 5

const GRID_ROWS = 5

const GRID_COLS = 5

// EVALUATION_EPISODES defines how many greedy episodes score a learned policy.
const EVALUATION_EPISODES = 100

// CHART_WINDOW defines the moving-average window of learning curves.
const CHART_WINDOW = 50
