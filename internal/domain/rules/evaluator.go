// Package rules evaluates a build snapshot against the release checks.
// Every group is a pure function of the snapshot.
package rules

import (
	"context"
	"errors"

	"github.com/abdidvp/shipgate/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Config carries the parts of the gate configuration the rules read.
type Config struct {
	Entry  domain.EntryLayout
	Limits domain.LimitsConfig
}

// ConfigFrom extracts the rule configuration from a gate config.
func ConfigFrom(cfg domain.GateConfig) Config {
	return Config{Entry: cfg.Entry, Limits: cfg.Limits}
}

type group func(*domain.BuildSnapshot, Config) []domain.CheckResult

// groups in reporting order: files, integrity, performance, security.
var groups = []group{checkStructure, checkIntegrity, checkPerformance, checkSecurity}

// Evaluate runs the rule groups concurrently and concatenates their results
// in fixed group order.
func Evaluate(ctx context.Context, snap *domain.BuildSnapshot, cfg Config) ([]domain.CheckResult, error) {
	if snap == nil {
		return nil, errors.New("rules: nil snapshot")
	}

	perGroup := make([][]domain.CheckResult, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	for i, run := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perGroup[i] = run(snap, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []domain.CheckResult
	for _, r := range perGroup {
		results = append(results, r...)
	}
	return results, nil
}
