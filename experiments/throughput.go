package experiments

import (
	"fmt"

	"tabular/experiments/metrics"
	"tabular/meta"

	"github.com/rs/zerolog/log"
)

// BenchmarkEnvironments are the environments every algorithm is benchmarked on.
var BenchmarkEnvironments = []string{"lineworld", "gridworld"}

// RunThroughputBenchmark plans and trains every algorithm on the benchmark
// environments, then stores the run records, episode returns and learning
// curves under root/name. It returns the output directory.
func RunThroughputBenchmark(root, name string, episodes int, seed uint64) (string, error) {
	runs := []metrics.RunMetric{}

	log.Info().Msgf("starting %s benchmark...", name)

	for ei, envName := range BenchmarkEnvironments {
		e, err := Lookup(seed, envName)
		if err != nil {
			return "", err
		}
		log.Info().Msgf("starting environment %d of %d: %s...", ei+1, len(BenchmarkEnvironments), e.Name)

		for _, algorithm := range PlanningAlgorithms {
			result, err := RunPlanning(e, algorithm, meta.GAMMA, meta.THETA)
			if err != nil {
				return "", err
			}
			runs = append(runs, result.Metric)
		}

		for _, algorithm := range LearningAlgorithms {
			config := DefaultLearningConfig(algorithm)
			config.Episodes = episodes
			config.Seed = seed
			result, err := RunLearning(e, config)
			if err != nil {
				return "", err
			}
			runs = append(runs, result.Metric)

			throughput := 0.0
			if seconds := result.Metric.Duration.Seconds(); seconds > 0 {
				throughput = float64(result.Metric.Steps) / seconds
			}
			log.Info().Msgf("%s on %s: %.0f steps/s", algorithm, e.Name, throughput)
		}
		log.Info().Msgf("completed environment %s", e.Name)
	}

	log.Info().Msgf("completed %s benchmark", name)

	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", fmt.Errorf("failed to create benchmark writer: %w", err)
	}

	err = writer.WriteRuns(runs)
	if err != nil {
		return "", fmt.Errorf("failed to store runs: %w", err)
	}
	log.Info().Msg("stored runs")

	err = writer.WriteReturns(runs)
	if err != nil {
		return "", fmt.Errorf("failed to store returns: %w", err)
	}
	log.Info().Msg("stored returns")

	err = writer.WriteChart(runs, meta.CHART_WINDOW)
	if err != nil {
		return "", fmt.Errorf("failed to store learning curves: %w", err)
	}
	log.Info().Msg("stored learning curves")

	return writer.Dir(), nil
}
