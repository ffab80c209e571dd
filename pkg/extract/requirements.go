package extract

import (
	"os"
	"strings"

	"github.com/fkoller/lictally/pkg/errors"
	"github.com/fkoller/lictally/pkg/manifest"
)

// versionOps are the requirement constraint operators stripped from a line
// to isolate the bare package name.
var versionOps = []string{"==", ">=", "~=", "!="}

// extractRequirements parses a line-oriented requirement list. Every
// surviving package name yields a Record; installed-metadata misses are
// logged and recorded with Resolved false rather than dropped.
func extractRequirements(entry manifest.Entry, opts Options) (*Result, error) {
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read requirement list %s", entry.Path)
	}

	lines, err := decodeLines(data, opts.Logger)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode requirement list %s", entry.Path)
	}

	result := &Result{Path: entry.Path, Ecosystem: entry.Ecosystem, Packages: []Record{}}
	for _, line := range lines {
		name := packageName(line)
		if name == "" {
			continue
		}
		result.Packages = append(result.Packages, resolveRecord(name, opts))
	}
	return result, nil
}

// packageName reduces one requirement line to a bare package name.
// Everything from the first comma on is ignored, then the earliest version
// constraint operator and everything after it is stripped. Lines that
// reduce to nothing return the empty string.
func packageName(line string) string {
	line = strings.TrimSpace(line)
	line, _, _ = strings.Cut(line, ",")
	for _, op := range versionOps {
		line, _, _ = strings.Cut(line, op)
	}
	return strings.TrimSpace(line)
}

// resolveRecord looks up installed metadata for name. On a miss the Record
// is still emitted with Resolved false; the miss is logged, not fatal.
func resolveRecord(name string, opts Options) Record {
	if opts.Resolver == nil {
		opts.Logger("no metadata resolver configured, skipping lookup for %s", name)
		return Record{Name: name}
	}
	meta, err := opts.Resolver.Resolve(name)
	if err != nil {
		opts.Logger("failed to read package metadata for %s: %v", name, err)
		return Record{Name: name}
	}
	return Record{Name: name, Resolved: true, Version: meta.Version, License: meta.License}
}
