// Command scml runs supply chain management league worlds and tournaments
// from the command line.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/agents"
)

// envSettings are defaults read from SCML_* environment variables. Flags
// take precedence.
type envSettings struct {
	LogDir  string `env:"LOG_DIR" envDefault:"logs"`
	Seed    int64  `env:"SEED"`
	Verbose bool   `env:"VERBOSE"`
}

var (
	settings    envSettings
	verbose     bool
	profileMode string
	registry    *agent.TypeRegistry
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "scml",
		Short:         "Supply chain management league simulator",
		Long:          "scml runs supply chain worlds where factory managers negotiate trades,\nand full tournaments between competing manager strategies.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			settings, err = env.ParseAsWithOptions[envSettings](env.Options{Prefix: "SCML_"})
			if err != nil {
				return fmt.Errorf("reading environment: %w", err)
			}
			if settings.Verbose {
				verbose = true
			}
			registry = agent.NewTypeRegistry(cliLogger())
			agents.MustRegisterAll(registry)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to the console")
	root.PersistentFlags().StringVar(&profileMode, "profile", "", "write a cpu or mem profile")

	root.AddCommand(newRunCommand())
	root.AddCommand(newTournamentCommand())
	root.AddCommand(newAgentsCommand())
	return root
}

func cliLogger() agent.Logger {
	if verbose {
		return agent.NewDefaultLogger()
	}
	return agent.NewNoOpLogger()
}

// effectiveSeed resolves the seed for a run: the flag when set, then the
// SCML_SEED environment value, then the clock.
func effectiveSeed(flag, env int64) int64 {
	if flag != 0 {
		return flag
	}
	if env != 0 {
		return env
	}
	return time.Now().UnixNano()
}

// startProfile honors the --profile flag. The returned stop function is a
// no-op when profiling is off.
func startProfile() (func(), error) {
	switch profileMode {
	case "":
		return func() {}, nil
	case "cpu":
		p := profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		return p.Stop, nil
	case "mem":
		p := profile.Start(profile.MemProfile, profile.ProfilePath("."))
		return p.Stop, nil
	default:
		return nil, agent.NewAgentErrorf(agent.ErrInvalidConfig, "unknown profile mode %q", profileMode)
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
