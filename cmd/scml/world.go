package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ashe1098/scml/agents"
	"github.com/ashe1098/scml/world"
)

func newRunCommand() *cobra.Command {
	var (
		configFile        string
		name              string
		agentTypes        []string
		factoriesPerLevel []int
		nSteps            int
		nLines            int
		compact           bool
		seed              int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single world and print final scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop, err := startProfile()
			if err != nil {
				return err
			}
			defer stop()

			var params world.Params
			if configFile != "" {
				data, err := os.ReadFile(configFile)
				if err != nil {
					return fmt.Errorf("reading config: %w", err)
				}
				if err := yaml.Unmarshal(data, &params); err != nil {
					return fmt.Errorf("parsing config: %w", err)
				}
			} else {
				nFactories := 0
				for _, n := range factoriesPerLevel {
					nFactories += n
				}
				if len(agentTypes) == 0 {
					agentTypes = make([]string, nFactories)
					for i := range agentTypes {
						agentTypes[i] = agents.TypeNameGreedy
					}
				}
				seed = effectiveSeed(seed, settings.Seed)
				params = world.Params{
					Name:              name,
					AgentTypes:        agentTypes,
					FactoriesPerLevel: factoriesPerLevel,
					NSteps:            nSteps,
					NLines:            nLines,
					Compact:           compact,
					LogDir:            settings.LogDir,
					Seed:              seed,
				}
			}
			w, err := world.Generate(params, registry, cliLogger())
			if err != nil {
				return err
			}
			if err := w.Run(cmd.Context()); err != nil {
				return err
			}

			stats := w.Stats()
			fmt.Printf("world %s: contracts=%d breaches=%d bankruptcies=%d\n",
				w.Name(), stats.NContracts, stats.NBreaches, stats.NBankruptcies)
			for slot, a := range w.Agents() {
				f := w.Factories()[slot]
				fmt.Printf("  %-40s level=%d balance=%.0f profit=%+.3f\n",
					a.Name(), f.Level, f.CurrentBalance, f.RelativeProfit())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "load world parameters from a YAML file")
	cmd.Flags().StringVar(&name, "name", "world", "world name")
	cmd.Flags().StringSliceVar(&agentTypes, "agents", nil, "agent type per factory slot (default greedy everywhere)")
	cmd.Flags().IntSliceVar(&factoriesPerLevel, "factories", []int{2, 2, 2}, "factories per production level")
	cmd.Flags().IntVar(&nSteps, "steps", 50, "simulation steps")
	cmd.Flags().IntVar(&nLines, "lines", world.DefaultNLines, "production lines per factory")
	cmd.Flags().BoolVar(&compact, "compact", false, "disable world logs")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 means SCML_SEED or time-based)")
	return cmd
}
