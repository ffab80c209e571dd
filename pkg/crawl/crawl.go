// Package crawl drives the external package manager and license-crawling
// tool for the secondary scan step.
//
// The core pipeline only inventories what manifests declare; resolving the
// licenses of everything a node descriptor depends on requires actually
// installing the merged dependency set and letting the license-checker
// tool walk the installed modules. All invocations here are blocking child
// processes. Any non-zero exit is fatal for the run: the pipeline never
// partially installs and continues.
package crawl

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fkoller/lictally/pkg/errors"
)

// CrawlerPackage is the npm package providing the license crawl.
const CrawlerPackage = "license-checker"

// installFlags make the bulk install tolerate missing and legacy peer
// constraints, matching how the crawl expects node_modules to be laid out.
var installFlags = []string{"install", "--force", "--allow-missing", "--legacy-peer-deps"}

// Options configures the external tool binaries.
type Options struct {
	NPM string // node package manager binary
	NPX string // npx runner binary
	Pip string // python package installer binary

	// Logger receives progress diagnostics (optional).
	Logger func(string, ...any)
}

func (o Options) withDefaults() Options {
	if o.NPM == "" {
		o.NPM = "npm"
	}
	if o.NPX == "" {
		o.NPX = "npx"
	}
	if o.Pip == "" {
		o.Pip = "pip"
	}
	if o.Logger == nil {
		o.Logger = func(string, ...any) {}
	}
	return o
}

// Runner invokes the external tools. The command constructor is a field so
// tests can substitute a recording stub.
type Runner struct {
	opts        Options
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewRunner creates a Runner for the configured tool binaries.
func NewRunner(opts Options) *Runner {
	return &Runner{
		opts:        opts.withDefaults(),
		execCommand: exec.CommandContext,
	}
}

// EnsureCrawler installs npx and the license crawler. The installs are
// idempotent, so running this before every scan is safe.
func (r *Runner) EnsureCrawler(ctx context.Context) error {
	r.opts.Logger("ensuring npm tooling is installed")
	for _, pkg := range []string{"npx", CrawlerPackage} {
		if err := r.run(ctx, nil, r.opts.NPM, "install", pkg); err != nil {
			return err
		}
	}
	return nil
}

// InstallPackages bulk-installs the merged dependency set. An empty set is
// a valid no-op, not an error.
func (r *Runner) InstallPackages(ctx context.Context, names []string) error {
	if len(names) == 0 {
		r.opts.Logger("dependency set is empty, skipping install")
		return nil
	}
	r.opts.Logger("installing %d node modules (might take a very long time)", len(names))
	return r.run(ctx, nil, r.opts.NPM, append(installFlags, names...)...)
}

// InstallRequirements installs a requirement list into the local python
// environment so that installed-metadata lookups can succeed.
func (r *Runner) InstallRequirements(ctx context.Context, path string) error {
	r.opts.Logger("installing requirement list %s", path)
	return r.run(ctx, nil, r.opts.Pip, "install", "-r", path)
}

// CrawlJSON runs the license crawler in JSON mode, writing its combined
// output to the file at outPath.
func (r *Runner) CrawlJSON(ctx context.Context, outPath string) error {
	return r.crawlToFile(ctx, outPath, "--json")
}

// CrawlSummary runs the license crawler in plain-text summary mode,
// writing its combined output to the file at outPath.
func (r *Runner) CrawlSummary(ctx context.Context, outPath string) error {
	return r.crawlToFile(ctx, outPath, "--summary")
}

func (r *Runner) crawlToFile(ctx context.Context, outPath, mode string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create crawler output dir %s", filepath.Dir(outPath))
	}
	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create crawler output %s", outPath)
	}
	defer f.Close()
	return r.run(ctx, f, r.opts.NPX, CrawlerPackage, mode)
}

// run executes one tool invocation. With a nil output the combined
// stdout/stderr is captured for error reporting; otherwise both streams
// are redirected to output. A missing binary produces a distinct,
// actionable error; any other non-zero exit is a generic tool failure.
func (r *Runner) run(ctx context.Context, output io.Writer, name string, args ...string) error {
	r.opts.Logger("executing command: %s %v", name, args)

	cmd := r.execCommand(ctx, name, args...)
	var captured bytes.Buffer
	if output == nil {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	} else {
		cmd.Stdout = output
		cmd.Stderr = output
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		return errors.Wrap(errors.ErrCodeToolNotFound, err,
			"%s was not found; ensure it is installed on the system", name)
	}
	detail := fmt.Sprintf("%s %v", name, args)
	if captured.Len() > 0 {
		detail = fmt.Sprintf("%s: %s", detail, captured.String())
	}
	return errors.Wrap(errors.ErrCodeToolFailed, err, "command exited with failure: %s", detail)
}
