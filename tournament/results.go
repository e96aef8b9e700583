package tournament

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// saveConfigs writes every assigned world config as a YAML file under
// path/configs, named after the world.
func saveConfigs(path string, configs []*Config) error {
	dir := filepath.Join(path, "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	for _, cfg := range configs {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config %s: %w", cfg.World.Name, err)
		}
		name := filepath.Join(dir, cfg.World.Name+".yaml")
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return fmt.Errorf("writing config %s: %w", cfg.World.Name, err)
		}
	}
	return nil
}

// writeScores writes scores.csv (one row per agent per world) and
// total_scores.csv (one row per type, best first) into the tournament
// directory.
func writeScores(path string, results *Results) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating tournament directory: %w", err)
	}

	f, err := os.Create(filepath.Join(path, "scores.csv"))
	if err != nil {
		return fmt.Errorf("creating scores.csv: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"world", "agent_name", "agent_id", "agent_type", "score"}); err != nil {
		f.Close()
		return err
	}
	for _, r := range results.Scores {
		row := []string{r.World, r.Name, r.ID, r.Type, strconv.FormatFloat(r.Score, 'g', -1, 64)}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	f, err = os.Create(filepath.Join(path, "total_scores.csv"))
	if err != nil {
		return fmt.Errorf("creating total_scores.csv: %w", err)
	}
	w = csv.NewWriter(f)
	if err := w.Write([]string{"agent_type", "count", "mean", "median", "std", "min", "max"}); err != nil {
		f.Close()
		return err
	}
	for _, ts := range results.TotalScores {
		row := []string{
			ts.Type,
			strconv.Itoa(ts.Count),
			strconv.FormatFloat(ts.Mean, 'g', -1, 64),
			strconv.FormatFloat(ts.Median, 'g', -1, 64),
			strconv.FormatFloat(ts.StdDev, 'g', -1, 64),
			strconv.FormatFloat(ts.Min, 'g', -1, 64),
			strconv.FormatFloat(ts.Max, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
