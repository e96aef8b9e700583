package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/agents"
	"github.com/ashe1098/scml/tournament"
)

func newTournamentCommand() *cobra.Command {
	var (
		track          string
		name           string
		competitors    []string
		nonCompetitors []string
		nConfigs       int
		maxWorlds      int
		runsPerWorld   int
		minSteps       int
		maxSteps       int
		timeout        time.Duration
		serial         bool
		parallelism    int
		compact        bool
		configsOnly    bool
		path           string
		seed           int64
	)

	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Run a tournament between competing agent types",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop, err := startProfile()
			if err != nil {
				return err
			}
			defer stop()

			if len(competitors) == 0 {
				competitors = []string{
					agents.TypeNameGreedy,
					agents.TypeNameGreedySync,
					agents.TypeNameGreedySingle,
				}
			}
			seed = effectiveSeed(seed, settings.Seed)
			mode := tournament.Parallel
			if serial {
				mode = tournament.Serial
			}

			opts := tournament.Options{
				Name:               name,
				Competitors:        competitors,
				NonCompetitors:     nonCompetitors,
				NConfigs:           nConfigs,
				MaxWorldsPerConfig: maxWorlds,
				NRunsPerWorld:      runsPerWorld,
				NSteps:             tournament.IntRange{Min: minSteps, Max: maxSteps},
				TournamentPath:     path,
				TotalTimeout:       timeout,
				Parallelism:        mode,
				MaxParallelism:     parallelism,
				ConfigsOnly:        configsOnly,
				Compact:            compact,
				Verbose:            verbose,
				Seed:               seed,
				Registry:           registry,
				Logger:             cliLogger(),
			}

			var results *tournament.Results
			switch track {
			case "std":
				results, err = tournament.Std(cmd.Context(), opts)
			case "collusion":
				results, err = tournament.Collusion(cmd.Context(), opts)
			default:
				return agent.NewAgentErrorf(agent.ErrInvalidConfig, "unknown track %q", track)
			}
			if err != nil {
				return err
			}

			fmt.Printf("results under %s\n", results.Path)
			if configsOnly {
				return nil
			}
			fmt.Printf("%-45s %6s %9s %9s\n", "TYPE", "COUNT", "MEAN", "MEDIAN")
			for _, ts := range results.TotalScores {
				fmt.Printf("%-45s %6d %+9.3f %+9.3f\n", ts.Type, ts.Count, ts.Mean, ts.Median)
			}
			fmt.Printf("winners: %v\n", results.Winners)
			if results.NFailedWorlds > 0 {
				fmt.Printf("failed worlds: %d\n", results.NFailedWorlds)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&track, "track", "std", "tournament track: std or collusion")
	cmd.Flags().StringVar(&name, "name", "", "tournament name (default generated)")
	cmd.Flags().StringSliceVar(&competitors, "competitors", nil, "competing agent types (default the built-in greedy family)")
	cmd.Flags().StringSliceVar(&nonCompetitors, "non-competitors", nil, "agent types for default slots")
	cmd.Flags().IntVar(&nConfigs, "configs", 5, "number of world configs")
	cmd.Flags().IntVar(&maxWorlds, "max-worlds", 100, "max worlds per config (negative means one per competitor)")
	cmd.Flags().IntVar(&runsPerWorld, "runs-per-world", 1, "repetitions of every assigned world")
	cmd.Flags().IntVar(&minSteps, "min-steps", 50, "minimum simulation steps per world")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 100, "maximum simulation steps per world")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "total time budget (0 means none)")
	cmd.Flags().BoolVar(&serial, "serial", false, "run worlds one at a time")
	cmd.Flags().IntVar(&parallelism, "max-parallelism", 0, "max concurrent worlds (0 means GOMAXPROCS)")
	cmd.Flags().BoolVar(&compact, "compact", false, "disable world logs")
	cmd.Flags().BoolVar(&configsOnly, "configs-only", false, "generate and save configs without running")
	cmd.Flags().StringVar(&path, "path", "", "directory for tournament results (default logs/tournaments)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 means SCML_SEED or time-based)")
	return cmd
}

func newAgentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List the registered agent types",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, typeName := range registry.Types() {
				fmt.Println(typeName)
			}
			return nil
		},
	}
}
