package extract

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fkoller/lictally/pkg/errors"
)

// Metadata holds the installed-package fields a Resolver can recover.
type Metadata struct {
	Version string
	License string
}

// Resolver looks up installed-package metadata for a bare package name.
// Implementations return an error for packages that are not installed; the
// extractor treats that as a non-fatal miss.
type Resolver interface {
	Resolve(name string) (Metadata, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) (Metadata, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(name string) (Metadata, error) { return f(name) }

var nameSepRE = regexp.MustCompile(`[-_.]+`)

// NormalizeName canonicalizes a Python package name: lowercase with runs of
// dash, underscore, and dot collapsed to a single dash.
func NormalizeName(name string) string {
	return strings.ToLower(nameSepRE.ReplaceAllString(name, "-"))
}

// DistInfo resolves installed-package metadata from Python dist-info
// directories. Each configured root is scanned for
// <name>-<version>.dist-info/METADATA and the Version and License headers
// are read from the metadata preamble.
type DistInfo struct {
	roots []string
}

// NewDistInfo creates a resolver over the given site-packages roots.
func NewDistInfo(roots ...string) *DistInfo {
	return &DistInfo{roots: roots}
}

// Resolve implements Resolver. Names are compared after NormalizeName, so
// "Foo_Bar" and "foo-bar" refer to the same distribution.
func (d *DistInfo) Resolve(name string) (Metadata, error) {
	want := NormalizeName(name)

	for _, root := range d.roots {
		dirs, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, dir := range dirs {
			if !dir.IsDir() || !strings.HasSuffix(dir.Name(), ".dist-info") {
				continue
			}
			stem := strings.TrimSuffix(dir.Name(), ".dist-info")
			pkg, _, ok := strings.Cut(stem, "-")
			if !ok || NormalizeName(pkg) != want {
				continue
			}
			meta, err := readMetadataFile(filepath.Join(root, dir.Name(), "METADATA"))
			if err != nil {
				return Metadata{}, err
			}
			return meta, nil
		}
	}

	return Metadata{}, errors.New(errors.ErrCodeMetadataMiss, "no installed metadata for %q", name)
}

// readMetadataFile reads the RFC 822 style header block of a dist-info
// METADATA file, stopping at the first blank line (the long description
// body follows it).
func readMetadataFile(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, errors.Wrap(errors.ErrCodeMetadataMiss, err, "open %s", path)
	}
	defer f.Close()

	var meta Metadata
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "Version: "); ok {
			meta.Version = strings.TrimSpace(v)
		}
		if v, ok := strings.CutPrefix(line, "License: "); ok {
			meta.License = strings.TrimSpace(v)
		}
	}
	if err := scanner.Err(); err != nil {
		return Metadata{}, errors.Wrap(errors.ErrCodeMetadataMiss, err, "read %s", path)
	}
	return meta, nil
}
