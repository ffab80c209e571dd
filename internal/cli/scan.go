package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fkoller/lictally/internal/config"
	"github.com/fkoller/lictally/pkg/crawl"
	"github.com/fkoller/lictally/pkg/extract"
	"github.com/fkoller/lictally/pkg/manifest"
	"github.com/fkoller/lictally/pkg/pipeline"
	"github.com/fkoller/lictally/pkg/report"
)

// scanOpts holds the command-line flags for the scan command.
type scanOpts struct {
	configPath string // config file path ("" = ./lictally.* lookup)
	skipCrawl  bool   // run only the core pipeline, no install/crawl
	maxShown   int    // summary rows printed to the terminal
}

// newScanCmd creates the scan command. The scan runs the full collection
// pipeline, writes the JSON artifacts, and unless --skip-crawl is given,
// installs the merged node dependency set and runs the license crawler.
func newScanCmd() *cobra.Command {
	opts := scanOpts{maxShown: 10}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Collect dependency licenses under the configured locations",
		Long: `Scan discovers dependency manifests under the configured locations,
extracts package records, and writes the aggregated license report.

Examples:
  lictally scan                          # config from ./lictally.{json,toml,yaml}
  lictally scan -c deploy/lictally.json  # explicit config file
  lictally scan --skip-crawl             # inventory only, no npm install/crawl`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runScan(c.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file path")
	cmd.Flags().BoolVar(&opts.skipCrawl, "skip-crawl", false, "skip the external install and license crawl")
	cmd.Flags().IntVar(&opts.maxShown, "top", opts.maxShown, "summary rows shown in the terminal")

	return cmd
}

func runScan(ctx context.Context, opts *scanOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	runner := crawl.NewRunner(crawl.Options{
		NPM:    cfg.Bins.NPM,
		NPX:    cfg.Bins.NPX,
		Pip:    cfg.Bins.Pip,
		Logger: logger.Debugf,
	})

	pipeOpts := pipeline.Options{
		Locations: cfg.Locations,
		Rules:     rules,
		Resolver:  extract.NewDistInfo(cfg.SitePackages...),
		Logger:    logger,
	}
	if cfg.InstallRequirements {
		pipeOpts.PreExtract = func(ctx context.Context, entry manifest.Entry) error {
			if entry.Ecosystem != manifest.EcosystemPyRequirements {
				return nil
			}
			return runner.InstallRequirements(ctx, entry.Path)
		}
	}

	prog := newProgress(logger)
	result, err := pipeline.Run(ctx, pipeOpts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned %d manifests, %d package records",
		result.Stats.ManifestCount, result.Stats.PackageCount))

	if err := writeArtifacts(cfg, result); err != nil {
		return err
	}
	printSummary(result, opts.maxShown)

	if opts.skipCrawl {
		logger.Info("skipping external license crawl")
		return nil
	}
	return runCrawl(ctx, runner, cfg, result)
}

// writeArtifacts exports the core pipeline outputs to their configured
// paths.
func writeArtifacts(cfg *config.Config, result *pipeline.Result) error {
	if err := report.ExportResults(result.Extractions, cfg.Outputs.Results); err != nil {
		return err
	}
	if err := report.ExportSummary(result.Summary, cfg.Outputs.Summary); err != nil {
		return err
	}
	if err := report.ExportBundles(result.Bundles, cfg.Outputs.Dependencies); err != nil {
		return err
	}
	if err := report.ExportRunInfo(report.NewRunInfo(result), cfg.Outputs.RunInfo); err != nil {
		return err
	}

	printSuccess("Report written to %s", cfg.Outputs.Results)
	printDetail("summary: %s", cfg.Outputs.Summary)
	printDetail("dependencies: %s", cfg.Outputs.Dependencies)
	return nil
}

// printSummary renders the top license buckets to the terminal.
func printSummary(result *pipeline.Result, maxShown int) {
	if len(result.Summary) == 0 {
		printWarning("No package records found")
		return
	}

	fmt.Println(StyleTitle.Render("License summary"))
	for i, bucket := range result.Summary {
		if i == maxShown {
			printDetail("... %d more", len(result.Summary)-maxShown)
			break
		}
		fmt.Printf("  %s %s\n", StyleNumber.Render(fmt.Sprintf("%4d", bucket.Count)), bucket.License)
	}
}

// runCrawl performs the secondary install and license crawl. An empty
// merged dependency set is a valid no-op, not an error.
func runCrawl(ctx context.Context, runner *crawl.Runner, cfg *config.Config, result *pipeline.Result) error {
	logger := loggerFromContext(ctx)

	names := extract.Names(result.Bundles)
	if len(names) == 0 {
		logger.Info("merged dependency set is empty, skipping license crawl")
		return nil
	}

	if err := runner.EnsureCrawler(ctx); err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Installing %d node modules (might take a very long time)", len(names)))
	spinner.Start()
	if err := runner.InstallPackages(ctx, names); err != nil {
		spinner.StopWithError("Install failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Installed %d node modules", len(names)))

	prog := newProgress(logger)
	if err := runner.CrawlJSON(ctx, cfg.Outputs.CrawlerJSON); err != nil {
		return err
	}
	if err := runner.CrawlSummary(ctx, cfg.Outputs.CrawlerText); err != nil {
		return err
	}
	prog.done("Crawled installed module licenses")

	printSuccess("Crawler output written to %s", cfg.Outputs.CrawlerJSON)
	printDetail("text summary: %s", cfg.Outputs.CrawlerText)
	return nil
}
