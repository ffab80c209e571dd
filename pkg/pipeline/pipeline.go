// Package pipeline orchestrates the core scan stages.
//
// The pipeline runs locate → extract → merge → tally over the configured
// locations and rules. Each stage is synchronous: extraction of one
// manifest is independent of every other, and the license tally only runs
// once the full extraction set is available. The secondary install/crawl
// step is deliberately not part of this package; it is external-tool glue
// handled by [github.com/fkoller/lictally/pkg/crawl].
//
// # Usage
//
//	opts := pipeline.Options{
//	    Locations: map[string]string{"app": "/srv/app"},
//	    Rules: []manifest.Rule{
//	        {Pattern: "requirements*.txt", Ecosystem: manifest.EcosystemPyRequirements},
//	        {Pattern: "package.json", Ecosystem: manifest.EcosystemNodePackage},
//	    },
//	}
//	result, err := pipeline.Run(ctx, opts)
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/fkoller/lictally/pkg/extract"
	"github.com/fkoller/lictally/pkg/manifest"
	"github.com/fkoller/lictally/pkg/summary"
)

// Options contains all configuration for one scan run. Values are passed
// in explicitly and scoped to the run; nothing here is process-global.
type Options struct {
	// Locations maps a location name to its filesystem root.
	Locations map[string]string

	// Rules pair filename patterns with ecosystems.
	Rules []manifest.Rule

	// Resolver supplies installed-package metadata for requirement lists.
	// Nil means every lookup is a miss.
	Resolver extract.Resolver

	// PreExtract, when set, runs for every located manifest before
	// extraction starts. The scan command uses it to install requirement
	// lists into the local environment so metadata lookups can succeed.
	// An error is fatal for the run.
	PreExtract func(context.Context, manifest.Entry) error

	// Logger for progress and non-fatal diagnostics (optional).
	Logger *log.Logger
}

// Result contains the outputs of a scan run.
type Result struct {
	// RunID uniquely identifies this run in report metadata.
	RunID string

	// Entries are the located manifests.
	Entries []manifest.Entry

	// Extractions hold one result per located manifest, in entry order.
	Extractions []extract.Result

	// Bundles are the merged dependency sets of the structured
	// descriptors, input for the secondary install/crawl.
	Bundles []extract.Bundle

	// Summary is the descending-count license tally over all records.
	Summary summary.Summary

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains scan execution statistics.
type Stats struct {
	ManifestCount int
	PackageCount  int
	BundleCount   int
	LocateTime    time.Duration
	ExtractTime   time.Duration
	MergeTime     time.Duration
	TallyTime     time.Duration
}

// Run executes the scan pipeline. Errors from extraction and merging are
// fatal and abort the run; locator traversal problems are logged and
// tolerated. Cancellation is honored between stages, never mid-stage.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logf := func(format string, args ...any) { logger.Debugf(format, args...) }
	warnf := func(format string, args ...any) { logger.Warnf(format, args...) }

	result := &Result{RunID: uuid.NewString()}

	start := time.Now()
	result.Entries = manifest.Locate(opts.Locations, opts.Rules, manifest.Options{Logger: logf})
	result.Stats.LocateTime = time.Since(start)
	result.Stats.ManifestCount = len(result.Entries)
	logger.Infof("located %d manifests across %d locations", len(result.Entries), len(opts.Locations))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.PreExtract != nil {
		for _, entry := range result.Entries {
			if err := opts.PreExtract(ctx, entry); err != nil {
				return nil, err
			}
		}
	}

	extractOpts := extract.Options{Resolver: opts.Resolver, Logger: warnf}

	start = time.Now()
	extractions, err := extract.ExtractAll(result.Entries, extractOpts)
	if err != nil {
		return nil, err
	}
	result.Extractions = extractions
	result.Stats.ExtractTime = time.Since(start)
	for _, res := range extractions {
		result.Stats.PackageCount += len(res.Packages)
	}
	logger.Infof("extracted %d package records", result.Stats.PackageCount)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	bundles, err := extract.MergeDependencies(result.Entries, extractOpts)
	if err != nil {
		return nil, err
	}
	result.Bundles = bundles
	result.Stats.MergeTime = time.Since(start)
	result.Stats.BundleCount = len(bundles)

	start = time.Now()
	result.Summary = summary.Tally(result.Extractions)
	result.Stats.TallyTime = time.Since(start)
	logger.Infof("tallied %d distinct licenses over %d records", len(result.Summary), result.Summary.Total())

	return result, nil
}
