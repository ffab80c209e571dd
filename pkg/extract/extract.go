// Package extract converts located manifest files into normalized package
// records.
//
// Each manifest yields exactly one Result, even when it contains no
// packages. Dispatch is by ecosystem: requirement lists are read line by
// line and enriched with installed-package metadata, while structured
// descriptors (package.json, pyproject.toml) each describe a single package
// inline. The package also merges a descriptor's dependency-category key
// sets into Bundles for the secondary install/crawl step.
package extract

import (
	"github.com/fkoller/lictally/pkg/errors"
	"github.com/fkoller/lictally/pkg/manifest"
)

// Record is a normalized package extracted from a manifest.
//
// Resolved reports whether version/license were successfully resolved: for
// requirement lists it means the installed-metadata lookup succeeded, for
// structured descriptors the fields come straight from the manifest and it
// is always true. A failed lookup still produces a Record with Resolved
// false rather than dropping the package.
type Record struct {
	Name     string `json:"name"`
	Resolved bool   `json:"meta"`
	Version  string `json:"version,omitempty"`
	License  string `json:"license,omitempty"`
}

// Result holds every Record extracted from one manifest.
type Result struct {
	Path      string             `json:"path"`
	Ecosystem manifest.Ecosystem `json:"type"`
	Packages  []Record           `json:"packages"`
}

// Options configures extraction behavior.
type Options struct {
	// Resolver looks up installed-package metadata for requirement-list
	// entries. A nil Resolver treats every lookup as a miss.
	Resolver Resolver

	// Logger receives non-fatal diagnostics (optional).
	Logger func(string, ...any)
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = func(string, ...any) {}
	}
	return o
}

// Extract converts one manifest entry into a Result.
//
// Errors are fatal for the run: an unreadable file, a descriptor that is
// not valid structured data, or an entry carrying an ecosystem no
// extractor handles (a configuration defect, not a skippable condition).
func Extract(entry manifest.Entry, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	switch entry.Ecosystem {
	case manifest.EcosystemPyRequirements:
		return extractRequirements(entry, opts)
	case manifest.EcosystemNodePackage:
		return extractNodePackage(entry, opts)
	case manifest.EcosystemPyProject:
		return extractPyProject(entry, opts)
	case manifest.EcosystemUnknown:
	}
	return nil, errors.New(errors.ErrCodeUnknownEcosystem, "no extractor for ecosystem %q", entry.Ecosystem)
}

// ExtractAll runs Extract over every entry in order. The first fatal
// extraction error aborts the batch.
func ExtractAll(entries []manifest.Entry, opts Options) ([]Result, error) {
	results := make([]Result, 0, len(entries))
	for _, entry := range entries {
		res, err := Extract(entry, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, nil
}
