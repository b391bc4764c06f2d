package experiments

import (
	"fmt"
	"slices"
	"time"

	"tabular/engine"
	"tabular/env"
	"tabular/experiments/metrics"
	"tabular/meta"
	"tabular/solver"

	"github.com/rs/zerolog/log"
)

const (
	PolicyIteration    = "policy-iteration"
	ValueIteration     = "value-iteration"
	QLearning          = "q-learning"
	SARSA              = "sarsa"
	MonteCarloES       = "monte-carlo-es"
	OnPolicyMonteCarlo = "on-policy-monte-carlo"
	DynaQ              = "dyna-q"
	DynaQDense         = "dyna-q-dense"
)

var PlanningAlgorithms = []string{PolicyIteration, ValueIteration}

var LearningAlgorithms = []string{QLearning, SARSA, MonteCarloES, OnPolicyMonteCarlo, DynaQ, DynaQDense}

// Environment is a named entry of the catalogue. MDP is nil for environments
// that can only be played.
type Environment struct {
	Name    string
	MDP     env.MDP
	Factory env.Factory
	Actions []string // Short action labels used when rendering
	Rows    int
	Cols    int
}

// Catalogue lists the built-in environments. Seed drives the environments
// that carry their own randomness.
func Catalogue(seed uint64) []Environment {
	line := env.NewLineWorld(meta.LINE_CELLS)
	grid := env.NewGridWorld(meta.GRID_ROWS, meta.GRID_COLS)
	monty := env.NewMontyHall(seed)
	rps := env.NewRockPaperScissors(seed)

	return []Environment{
		{Name: "lineworld", MDP: line, Factory: line, Actions: []string{"<", ">"}, Rows: 1, Cols: line.Cells},
		{Name: "gridworld", MDP: grid, Factory: grid, Actions: []string{"^", "v", "<", ">"}, Rows: grid.Rows, Cols: grid.Cols},
		{Name: "montyhall", MDP: monty, Factory: monty, Actions: []string{"K", "S"}, Rows: 2, Cols: monty.NumStates() / 2},
		{Name: "rps", MDP: rps, Factory: rps, Actions: []string{"R", "P", "S"}, Rows: 1, Cols: rps.NumStates()},
	}
}

// Lookup finds a catalogue entry by name.
func Lookup(seed uint64, name string) (Environment, error) {
	catalogue := Catalogue(seed)
	i := slices.IndexFunc(catalogue, func(e Environment) bool { return e.Name == name })
	if i < 0 {
		return Environment{}, fmt.Errorf("unknown environment %q", name)
	}
	return catalogue[i], nil
}

type PlanningResult struct {
	Policy solver.Policy
	Values solver.ValueFunction
	Metric metrics.RunMetric
}

// RunPlanning solves the model of e with a planning algorithm.
func RunPlanning(e Environment, algorithm string, gamma, theta float64) (PlanningResult, error) {
	if e.MDP == nil {
		return PlanningResult{}, fmt.Errorf("environment %s exposes no model to plan with", e.Name)
	}

	collector := metrics.NewCollector()
	var policy solver.Policy
	var values solver.ValueFunction
	switch algorithm {
	case PolicyIteration:
		policy, values = solver.PolicyIteration(e.MDP, gamma, theta, solver.WithMetrics(collector))
	case ValueIteration:
		policy, values = solver.ValueIteration(e.MDP, gamma, theta, solver.WithMetrics(collector))
	default:
		return PlanningResult{}, fmt.Errorf("unknown planning algorithm %q", algorithm)
	}

	metric := collector.Complete()
	metric.Environment = e.Name
	log.Info().Msgf("completed %s on %s after %d sweeps in %v", algorithm, e.Name, metric.Sweeps, metric.Duration)

	return PlanningResult{Policy: policy, Values: values, Metric: metric}, nil
}

// LearningConfig holds the hyperparameters of one learning run.
type LearningConfig struct {
	Algorithm     string
	Episodes      int
	LearningRate  float64
	Gamma         float64
	Epsilon       float64
	PlanningSteps int
	Refresh       solver.PolicyRefresh
	Seed          uint64
}

func DefaultLearningConfig(algorithm string) LearningConfig {
	return LearningConfig{
		Algorithm:     algorithm,
		Episodes:      meta.EPISODES,
		LearningRate:  meta.LEARNING_RATE,
		Gamma:         meta.GAMMA,
		Epsilon:       meta.EPSILON,
		PlanningSteps: meta.PLANNING_STEPS,
		Refresh:       solver.RefreshAtEnd,
		Seed:          uint64(time.Now().UnixNano()),
	}
}

type LearningResult struct {
	Q      solver.QTable
	Policy solver.Policy
	Score  float64 // Mean final score of the greedy policy
	Metric metrics.RunMetric
}

// RunLearning trains a learning algorithm on e and scores the resulting greedy policy.
func RunLearning(e Environment, config LearningConfig) (LearningResult, error) {
	collector := metrics.NewCollector()
	options := []solver.Option{
		solver.WithSeed(config.Seed),
		solver.WithMetrics(collector),
		solver.WithPolicyRefresh(config.Refresh),
	}

	var q solver.QTable
	var policy solver.Policy
	switch config.Algorithm {
	case QLearning:
		q = solver.QLearning(e.Factory, config.Episodes, config.LearningRate, config.Gamma, config.Epsilon, options...)
	case SARSA:
		q = solver.SARSA(e.Factory, config.Episodes, config.LearningRate, config.Gamma, config.Epsilon, options...)
	case MonteCarloES:
		result := solver.MonteCarloES(e.Factory, config.Episodes, config.Gamma, options...)
		q, policy = result.Q, result.Policy
	case OnPolicyMonteCarlo:
		result := solver.OnPolicyMonteCarlo(e.Factory, config.Episodes, config.Gamma, config.Epsilon, options...)
		q, policy = result.Q, result.Policy
	case DynaQ:
		q = solver.DynaQ(e.Factory, config.PlanningSteps, config.Episodes, config.LearningRate, config.Gamma, config.Epsilon,
			append(options, solver.WithModelStore(solver.SparseModel))...)
	case DynaQDense:
		q = solver.DynaQ(e.Factory, config.PlanningSteps, config.Episodes, config.LearningRate, config.Gamma, config.Epsilon,
			append(options, solver.WithModelStore(solver.DenseModel))...)
	default:
		return LearningResult{}, fmt.Errorf("unknown learning algorithm %q", config.Algorithm)
	}
	if policy == nil {
		policy = q.Greedy()
	}

	metric := collector.Complete()
	metric.Algorithm = config.Algorithm
	metric.Environment = e.Name
	score := engine.Evaluate(e.Factory, policy, meta.EVALUATION_EPISODES)
	log.Info().Msgf("completed %s on %s: %d episodes, %d steps in %v, greedy score %.3f",
		config.Algorithm, e.Name, metric.Episodes, metric.Steps, metric.Duration, score)

	return LearningResult{Q: q, Policy: policy, Score: score, Metric: metric}, nil
}
