package tournament

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ashe1098/scml/agent"
	"github.com/ashe1098/scml/world"
)

// Parallelism selects how tournament worlds are executed.
type Parallelism string

const (
	// Serial runs worlds one after another on the calling goroutine.
	Serial Parallelism = "serial"

	// Parallel runs worlds concurrently, bounded by MaxParallelism.
	Parallel Parallelism = "parallel"
)

// Options configures a tournament run.
type Options struct {
	// Name identifies the tournament; results land under
	// TournamentPath/Name. Empty generates a unique name.
	Name string

	// Competitors are the competing agent type names. Required.
	Competitors      []string
	CompetitorParams []map[string]interface{}

	// NonCompetitors fill the default factory slots. Empty means the
	// built-in random agent.
	NonCompetitors      []string
	NonCompetitorParams []map[string]interface{}

	// NConfigs is the number of distinct world configs to generate, up to
	// competitor assignment. Zero means 5.
	NConfigs int

	// MaxWorldsPerConfig caps the number of worlds per config. Zero means
	// 1000; negative means no cap, producing exactly one world per
	// competitor by rotating a single permutation.
	MaxWorldsPerConfig int

	// NRunsPerWorld repeats every assigned world with identical assignment
	// and world parameters. Zero means 1.
	NRunsPerWorld int

	// NAgentsPerCompetitor is the number of factory slots each competitor
	// controls per world. Zero means 1.
	NAgentsPerCompetitor int

	// AgentNamesRevealType makes competitor agent names start with their
	// type name.
	AgentNamesRevealType bool

	// World generation knobs, passed through to GenerateConfig.
	NSteps               IntRange
	NProcesses           IntRange
	NDefaultManagers     IntRange
	MinFactoriesPerLevel int
	MaxFactoriesPerLevel int
	NLines               int

	// TournamentPath is the directory under which the tournament directory
	// is created. Empty means logs/tournaments.
	TournamentPath string

	// TotalTimeout bounds the whole run; scores gathered before the
	// deadline are still aggregated.
	TotalTimeout time.Duration

	// Parallelism selects serial or parallel execution. Empty means
	// parallel.
	Parallelism Parallelism

	// MaxParallelism bounds concurrent worlds. Zero means GOMAXPROCS.
	MaxParallelism int

	// ConfigsOnly writes the assigned configs and stops without running any
	// world.
	ConfigsOnly bool

	// Compact reduces the memory and disk footprint by disabling world
	// logs.
	Compact bool

	// Verbose enables console logging of tournament progress.
	Verbose bool

	// Seed drives all random choices. Zero means a time-based seed.
	Seed int64

	// Registry resolves agent type names. Nil means the default registry.
	Registry *agent.TypeRegistry

	// Logger receives tournament-level logs. Nil derives one from Verbose.
	Logger agent.Logger

	// WorldProgressCallback is called after every world finishes in serial
	// mode.
	WorldProgressCallback func(*world.World)

	// TournamentProgressCallback is called with the results of every scored
	// world.
	TournamentProgressCallback func(*WorldRunResults)
}

func (o *Options) fillDefaults() error {
	if len(o.Competitors) == 0 {
		return agent.NewAgentError(agent.ErrInvalidConfig, "no competitors given")
	}
	if o.NConfigs <= 0 {
		o.NConfigs = 5
	}
	if o.MaxWorldsPerConfig == 0 {
		o.MaxWorldsPerConfig = 1000
	}
	if o.NRunsPerWorld <= 0 {
		o.NRunsPerWorld = 1
	}
	if o.NAgentsPerCompetitor <= 0 {
		o.NAgentsPerCompetitor = 1
	}
	if o.TournamentPath == "" {
		o.TournamentPath = filepath.Join("logs", "tournaments")
	}
	if o.Parallelism == "" {
		o.Parallelism = Parallel
	}
	if o.Parallelism != Serial && o.Parallelism != Parallel {
		return agent.NewAgentErrorf(agent.ErrInvalidConfig, "unknown parallelism %q", o.Parallelism)
	}
	if o.MaxParallelism <= 0 {
		o.MaxParallelism = runtime.GOMAXPROCS(0)
	}
	if o.Name == "" {
		o.Name = fmt.Sprintf("tournament-%s-%s",
			time.Now().UTC().Format("20060102H150405"), uuid.New().String()[:4])
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	if o.Registry == nil {
		o.Registry = agent.DefaultRegistry()
	}
	if o.Logger == nil {
		if o.Verbose {
			o.Logger = agent.NewDefaultLogger()
		} else {
			o.Logger = agent.NewNoOpLogger()
		}
	}
	for _, typeName := range o.Competitors {
		if !o.Registry.Has(typeName) {
			return agent.NewAgentErrorf(agent.ErrUnknownAgentType,
				"competitor type %s is not registered", typeName)
		}
	}
	for _, typeName := range o.NonCompetitors {
		if !o.Registry.Has(typeName) {
			return agent.NewAgentErrorf(agent.ErrUnknownAgentType,
				"non-competitor type %s is not registered", typeName)
		}
	}
	return nil
}

// ScoreRecord is the score of one competitor agent in one world.
type ScoreRecord struct {
	World string
	Name  string
	ID    string
	Type  string
	Score float64
}

// Results is the outcome of a tournament.
type Results struct {
	// Path is the tournament directory holding configs, logs, and score
	// files.
	Path string

	// Scores holds one record per competitor agent per scored world.
	Scores []ScoreRecord

	// TotalScores aggregates Scores by type, best mean first.
	TotalScores []TypeScore

	// Winners are the types sharing the best mean score.
	Winners []string

	// NFailedWorlds counts worlds that could not be generated or run.
	NFailedWorlds int
}

// Run executes a tournament: it generates NConfigs world configs, assigns
// competitors to them, repeats every assigned world NRunsPerWorld times,
// runs everything, and scores competitors by normalized final balance.
//
// A failed world is logged and skipped, not fatal. When the total timeout
// expires, the scores gathered so far are aggregated and returned.
func Run(ctx context.Context, opts Options) (*Results, error) {
	if err := opts.fillDefaults(); err != nil {
		return nil, err
	}
	path := filepath.Join(opts.TournamentPath, opts.Name)
	logger := opts.Logger.With(agent.Field{Key: "tournament", Value: opts.Name})
	rng := rand.New(rand.NewSource(opts.Seed))

	genParams := GeneratorParams{
		NCompetitors:         len(opts.Competitors),
		NAgentsPerCompetitor: opts.NAgentsPerCompetitor,
		NonCompetitors:       opts.NonCompetitors,
		NonCompetitorParams:  opts.NonCompetitorParams,
		NSteps:               opts.NSteps,
		NProcesses:           opts.NProcesses,
		NDefaultManagers:     opts.NDefaultManagers,
		MinFactoriesPerLevel: opts.MinFactoriesPerLevel,
		MaxFactoriesPerLevel: opts.MaxFactoriesPerLevel,
		NLines:               opts.NLines,
		Compact:              opts.Compact,
		LogDir:               filepath.Join(path, "logs"),
	}

	maxWorlds := opts.MaxWorldsPerConfig
	if maxWorlds < 0 {
		maxWorlds = 0
	}

	var assigned []*Config
	for i := 0; i < opts.NConfigs; i++ {
		cfg, err := GenerateConfig(rng, genParams)
		if err != nil {
			return nil, err
		}
		worlds, err := Assign(cfg, maxWorlds, opts.NAgentsPerCompetitor, true,
			opts.Competitors, opts.CompetitorParams, rng)
		if err != nil {
			return nil, err
		}
		assigned = append(assigned, worlds...)
	}
	if opts.AgentNamesRevealType {
		revealTypes(assigned)
	}

	if err := saveConfigs(path, assigned); err != nil {
		return nil, err
	}
	logger.Info("Configs generated",
		agent.Field{Key: "n_configs", Value: opts.NConfigs},
		agent.Field{Key: "n_worlds", Value: len(assigned) * opts.NRunsPerWorld},
	)
	if opts.ConfigsOnly {
		return &Results{Path: path}, nil
	}

	runs := expandRuns(assigned, opts.NRunsPerWorld, rng)

	if opts.TotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TotalTimeout)
		defer cancel()
	}

	results := &Results{Path: path}
	var mu sync.Mutex
	runOne := func(cfg *Config) error {
		w, err := world.Generate(cfg.World, opts.Registry, opts.Logger)
		if err != nil {
			mu.Lock()
			results.NFailedWorlds++
			mu.Unlock()
			logger.Error("World generation failed",
				agent.Field{Key: "world", Value: cfg.World.Name},
				agent.Field{Key: "error", Value: err},
			)
			return nil
		}
		if err := w.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			mu.Lock()
			results.NFailedWorlds++
			mu.Unlock()
			logger.Error("World run failed",
				agent.Field{Key: "world", Value: w.Name()},
				agent.Field{Key: "error", Value: err},
			)
			return nil
		}
		res := BalanceCalculator(w, cfg.ScoringContext, false, true)
		mu.Lock()
		for i := range res.Names {
			results.Scores = append(results.Scores, ScoreRecord{
				World: res.WorldName,
				Name:  res.Names[i],
				ID:    res.IDs[i],
				Type:  res.Types[i],
				Score: res.Scores[i],
			})
		}
		mu.Unlock()
		if opts.TournamentProgressCallback != nil {
			opts.TournamentProgressCallback(res)
		}
		if opts.Parallelism == Serial && opts.WorldProgressCallback != nil {
			opts.WorldProgressCallback(w)
		}
		return nil
	}

	var runErr error
	if opts.Parallelism == Serial {
		for _, cfg := range runs {
			if err := runOne(cfg); err != nil {
				runErr = err
				break
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		sem := semaphore.NewWeighted(int64(opts.MaxParallelism))
		for _, cfg := range runs {
			cfg := cfg
			g.Go(func() error {
				if err := sem.Acquire(gctx, 1); err != nil {
					return err
				}
				defer sem.Release(1)
				return runOne(cfg)
			})
		}
		runErr = g.Wait()
	}
	if runErr != nil {
		if errors.Is(runErr, context.DeadlineExceeded) || errors.Is(runErr, context.Canceled) {
			logger.Warn("Tournament stopped early", agent.Field{Key: "error", Value: runErr})
		} else {
			return nil, runErr
		}
	}

	results.TotalScores = aggregateScores(results.Scores)
	if len(results.TotalScores) > 0 {
		best := results.TotalScores[0].Mean
		for _, ts := range results.TotalScores {
			if ts.Mean == best {
				results.Winners = append(results.Winners, ts.Type)
			}
		}
	}
	if err := writeScores(path, results); err != nil {
		return nil, err
	}

	logger.Info("Tournament finished",
		agent.Field{Key: "n_worlds", Value: len(runs)},
		agent.Field{Key: "n_failed", Value: results.NFailedWorlds},
		agent.Field{Key: "winners", Value: results.Winners},
	)
	return results, nil
}

// expandRuns replicates every assigned config NRunsPerWorld times. Repeated
// runs share assignment and world parameters but draw fresh world seeds, and
// get distinct names so their logs do not collide.
func expandRuns(assigned []*Config, nRuns int, rng *rand.Rand) []*Config {
	if nRuns <= 1 {
		return assigned
	}
	runs := make([]*Config, 0, len(assigned)*nRuns)
	for _, cfg := range assigned {
		for r := 0; r < nRuns; r++ {
			rc := cfg.Clone()
			rc.World.Name = fmt.Sprintf("%s-r%02d", cfg.World.Name, r)
			rc.World.Seed = rng.Int63()
			runs = append(runs, rc)
		}
	}
	return runs
}

// revealTypes renames competitor agents so the type is readable at the
// start of the name.
func revealTypes(configs []*Config) {
	for _, cfg := range configs {
		for slot, typeName := range cfg.World.AgentTypes {
			if cfg.World.AgentParams == nil {
				cfg.World.AgentParams = make([]map[string]interface{}, len(cfg.World.AgentTypes))
			}
			params := cfg.World.AgentParams[slot]
			if params == nil {
				params = make(map[string]interface{})
				cfg.World.AgentParams[slot] = params
			}
			if name, ok := params["name"].(string); ok && name != "" {
				continue
			}
			params["name"] = fmt.Sprintf("%s@%d", typeName, slot)
		}
	}
}
