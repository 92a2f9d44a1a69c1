// Package seeds loads reference data that ships with the engine.
package seeds

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	vo "github.com/recordsdesk/triage/internal/domain/assignment/valueobjects"
	"github.com/recordsdesk/triage/internal/domain/sla"
	"github.com/recordsdesk/triage/internal/shared/logger"
)

// slaFile is the shape of configs/sla.yaml:
//
//	deadlines:
//	  ticket:
//	    high: 4
type slaFile struct {
	Deadlines map[string]map[string]int `yaml:"deadlines"`
}

// ParseSLATable reads and validates an SLA table. Pairs come back ordered by type, then priority.
func ParseSLATable(r io.Reader) ([]*sla.Config, error) {
	var file slaFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode SLA table: %w", err)
	}
	if len(file.Deadlines) == 0 {
		return nil, fmt.Errorf("SLA table has no deadlines")
	}

	var out []*sla.Config
	for typeName, byPriority := range file.Deadlines {
		wt, err := vo.NewWorkItemType(typeName)
		if err != nil {
			return nil, err
		}
		for priorityName, hours := range byPriority {
			p, err := vo.NewPriority(priorityName)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", typeName, err)
			}
			cfg, err := sla.NewConfig(wt, p, hours)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", typeName, priorityName, err)
			}
			out = append(out, cfg)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return sla.Key(out[i].WorkItemType(), out[i].Priority()) < sla.Key(out[j].WorkItemType(), out[j].Priority())
	})
	return out, nil
}

// SeedSLA upserts every pair from the file at path and returns how many were written.
func SeedSLA(ctx context.Context, repo sla.Repository, path string, log logger.Interface) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open SLA seed: %w", err)
	}
	defer f.Close()

	configs, err := ParseSLATable(f)
	if err != nil {
		return 0, err
	}

	for _, cfg := range configs {
		if err := repo.Upsert(ctx, cfg); err != nil {
			return 0, fmt.Errorf("failed to seed %s: %w", sla.Key(cfg.WorkItemType(), cfg.Priority()), err)
		}
	}

	log.Infow("SLA table seeded", "path", path, "pairs", len(configs))
	return len(configs), nil
}
