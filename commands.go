package main

import (
	"fmt"
	"time"

	"tabular/env/secret"
	"tabular/experiments"
	"tabular/experiments/metrics"
	"tabular/meta"
	"tabular/solver"

	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	logLevel string
	seed     uint64
	color    bool
}

// seedOrClock returns the configured seed, or a clock-derived one when unset.
func (f *rootFlags) seedOrClock() uint64 {
	if f.seed != 0 {
		return f.seed
	}
	return uint64(time.Now().UnixNano())
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "tabular",
		Short:         "Tabular reinforcement learning: dynamic programming, temporal-difference, Monte Carlo and Dyna-Q on small environments.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(flags.logLevel)
			if err != nil {
				return fmt.Errorf("failed to parse log level: %w", err)
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Uint64Var(&flags.seed, "seed", 0, "Random seed, 0 seeds from the clock")
	rootCmd.PersistentFlags().BoolVar(&flags.color, "color", true, "Colour the rendered tables")

	rootCmd.AddCommand(
		newPlanCommand(flags),
		newLearnCommand(flags),
		newBenchCommand(flags),
		newSecretCommand(flags),
	)
	return rootCmd
}

func newPlanCommand(flags *rootFlags) *cobra.Command {
	var envName, algorithm string
	var gamma, theta float64

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Solve an environment's model with policy iteration or value iteration",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := experiments.Lookup(flags.seedOrClock(), envName)
			if err != nil {
				return err
			}
			return plan(cmd, flags, e, algorithm, gamma, theta)
		},
	}
	cmd.Flags().StringVar(&envName, "env", "lineworld", "Environment name")
	cmd.Flags().StringVar(&algorithm, "algo", experiments.ValueIteration, "Planning algorithm")
	cmd.Flags().Float64Var(&gamma, "gamma", meta.GAMMA, "Discount factor")
	cmd.Flags().Float64Var(&theta, "theta", meta.THETA, "Convergence threshold")
	return cmd
}

func plan(cmd *cobra.Command, flags *rootFlags, e experiments.Environment, algorithm string, gamma, theta float64) error {
	result, err := experiments.RunPlanning(e, algorithm, gamma, theta)
	if err != nil {
		return err
	}
	au := aurora.NewAurora(flags.color)
	fmt.Fprintf(cmd.OutOrStdout(), "%s policy:\n%s", algorithm, experiments.RenderPolicy(au, e, result.Policy))
	fmt.Fprintf(cmd.OutOrStdout(), "%s values:\n%s", algorithm, experiments.RenderValues(au, e, result.Values))
	return nil
}

type learnFlags struct {
	algorithm     string
	episodes      int
	learningRate  float64
	gamma         float64
	epsilon       float64
	planningSteps int
	refresh       string
	out           string
}

func (f *learnFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.algorithm, "algo", experiments.QLearning, "Learning algorithm")
	cmd.Flags().IntVar(&f.episodes, "episodes", meta.EPISODES, "Training episodes")
	cmd.Flags().Float64Var(&f.learningRate, "lr", meta.LEARNING_RATE, "Learning rate")
	cmd.Flags().Float64Var(&f.gamma, "gamma", meta.GAMMA, "Discount factor")
	cmd.Flags().Float64Var(&f.epsilon, "epsilon", meta.EPSILON, "Exploration rate")
	cmd.Flags().IntVar(&f.planningSteps, "planning-steps", meta.PLANNING_STEPS, "Simulated backups per real step (Dyna-Q)")
	cmd.Flags().StringVar(&f.refresh, "refresh", "end", "Monte Carlo policy refresh: end or episode")
	cmd.Flags().StringVar(&f.out, "out", "", "Directory to store the run record, returns and learning curve")
}

func (f *learnFlags) config(seed uint64) (experiments.LearningConfig, error) {
	config := experiments.DefaultLearningConfig(f.algorithm)
	config.Episodes = f.episodes
	config.LearningRate = f.learningRate
	config.Gamma = f.gamma
	config.Epsilon = f.epsilon
	config.PlanningSteps = f.planningSteps
	config.Seed = seed
	switch f.refresh {
	case "end":
		config.Refresh = solver.RefreshAtEnd
	case "episode":
		config.Refresh = solver.RefreshPerEpisode
	default:
		return config, fmt.Errorf("unknown policy refresh %q", f.refresh)
	}
	return config, nil
}

func newLearnCommand(flags *rootFlags) *cobra.Command {
	var envName string
	learn := &learnFlags{}

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Train a model-free learning algorithm on an environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := flags.seedOrClock()
			e, err := experiments.Lookup(seed, envName)
			if err != nil {
				return err
			}
			return train(cmd, flags, e, learn, seed)
		},
	}
	cmd.Flags().StringVar(&envName, "env", "lineworld", "Environment name")
	learn.register(cmd)
	return cmd
}

func train(cmd *cobra.Command, flags *rootFlags, e experiments.Environment, learn *learnFlags, seed uint64) error {
	config, err := learn.config(seed)
	if err != nil {
		return err
	}
	result, err := experiments.RunLearning(e, config)
	if err != nil {
		return err
	}

	au := aurora.NewAurora(flags.color)
	fmt.Fprintf(cmd.OutOrStdout(), "%s policy (greedy score %.3f):\n%s", config.Algorithm, result.Score, experiments.RenderPolicy(au, e, result.Policy))
	fmt.Fprintf(cmd.OutOrStdout(), "%s action values:\n%s", config.Algorithm, experiments.RenderQTable(au, e, result.Q))

	if learn.out == "" {
		return nil
	}
	writer, err := metrics.NewWriter(learn.out, config.Algorithm)
	if err != nil {
		return fmt.Errorf("failed to create run writer: %w", err)
	}
	runs := []metrics.RunMetric{result.Metric}
	if err := writer.WriteRuns(runs); err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}
	if err := writer.WriteReturns(runs); err != nil {
		return fmt.Errorf("failed to store returns: %w", err)
	}
	if err := writer.WriteChart(runs, meta.CHART_WINDOW); err != nil {
		return fmt.Errorf("failed to store learning curve: %w", err)
	}
	log.Info().Msgf("stored run in %s", writer.Dir())
	return nil
}

func newBenchCommand(flags *rootFlags) *cobra.Command {
	var out string
	var episodes int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run every algorithm on the line world and the grid world and store runs, returns and learning curves",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := experiments.RunThroughputBenchmark(out, "bench", episodes, flags.seedOrClock())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "results", "Root directory of benchmark results")
	cmd.Flags().IntVar(&episodes, "episodes", 1000, "Training episodes per learning run")
	return cmd
}

func newSecretCommand(flags *rootFlags) *cobra.Command {
	var path string
	var id int
	var theta float64
	learn := &learnFlags{}

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Plan or learn on an environment exported by the native secret environment library",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = secret.DefaultPath()
			}
			registry, err := secret.Open(path)
			if err != nil {
				return err
			}
			defer func() {
				if err := registry.Close(); err != nil {
					log.Warn().Err(err).Msg("failed to close secret environment library")
				}
			}()

			native, err := registry.Env(id)
			if err != nil {
				return err
			}
			e := experiments.Environment{
				Name:    fmt.Sprintf("secret-%d", id),
				MDP:     native,
				Factory: native,
				Rows:    1,
				Cols:    native.NumStates(),
			}
			log.Info().Msgf("resolved %s: %d states, %d actions, %d rewards", e.Name, native.NumStates(), native.NumActions(), native.NumRewards())

			for _, algorithm := range experiments.PlanningAlgorithms {
				if learn.algorithm == algorithm {
					return plan(cmd, flags, e, algorithm, learn.gamma, theta)
				}
			}
			return train(cmd, flags, e, learn, flags.seedOrClock())
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Path of the native library (defaults to $"+secret.PathVariable+" or ./libs)")
	cmd.Flags().IntVar(&id, "id", 0, "Secret environment id")
	cmd.Flags().Float64Var(&theta, "theta", meta.THETA, "Convergence threshold when planning")
	learn.register(cmd)
	return cmd
}
