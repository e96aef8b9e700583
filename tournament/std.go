package tournament

import "context"

// Std runs a standard-track tournament: every competitor controls exactly one
// factory per world, so there is nothing to gain from coordination between
// own agents. Any NAgentsPerCompetitor in opts is overridden.
func Std(ctx context.Context, opts Options) (*Results, error) {
	opts.NAgentsPerCompetitor = 1
	if opts.MinFactoriesPerLevel <= 0 {
		opts.MinFactoriesPerLevel = 5
	}
	return Run(ctx, opts)
}

// Collusion runs a collusion-track tournament: every competitor controls
// several factories per world and may coordinate them. Zero
// NAgentsPerCompetitor means 5.
func Collusion(ctx context.Context, opts Options) (*Results, error) {
	if opts.NAgentsPerCompetitor <= 0 {
		opts.NAgentsPerCompetitor = 5
	}
	return Run(ctx, opts)
}

// Tournament runs the collusion track, the league's headline setting.
func Tournament(ctx context.Context, opts Options) (*Results, error) {
	return Collusion(ctx, opts)
}
