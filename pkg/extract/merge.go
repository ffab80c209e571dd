package extract

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/fkoller/lictally/pkg/errors"
	"github.com/fkoller/lictally/pkg/manifest"
)

// Bundle is the union of dependency names declared across one structured
// descriptor's dependency categories. Names are deduplicated within the
// manifest and empty names are excluded.
type Bundle struct {
	Path      string             `json:"path"`
	Ecosystem manifest.Ecosystem `json:"type"`
	Packages  []string           `json:"packages"`
}

// dependencyFile is the dependency-category view of a package.json
// descriptor. Only the key sets matter; the constraint values are ignored.
type dependencyFile struct {
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	BundledDependencies  map[string]string `json:"bundledDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// MergeDependencies builds one Bundle per structured JSON descriptor among
// entries. Other ecosystems are passed over: requirement lists name their
// dependencies inline and need no secondary crawl, and TOML descriptors are
// not installable by the node package manager. A manifest with an empty
// union is logged but still produces a Bundle.
func MergeDependencies(entries []manifest.Entry, opts Options) ([]Bundle, error) {
	opts = opts.withDefaults()

	var bundles []Bundle
	for _, entry := range entries {
		if entry.Ecosystem != manifest.EcosystemNodePackage {
			continue
		}
		bundle, err := mergeOne(entry, opts)
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, *bundle)
	}
	return bundles, nil
}

// mergeOne unions the dependency-category key sets of a single descriptor.
// Names are sorted so the bundle is deterministic regardless of map order.
func mergeOne(entry manifest.Entry, opts Options) (*Bundle, error) {
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read descriptor %s", entry.Path)
	}

	var file dependencyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse descriptor %s", entry.Path)
	}

	set := make(map[string]bool)
	for _, category := range []map[string]string{
		file.Dependencies,
		file.DevDependencies,
		file.PeerDependencies,
		file.BundledDependencies,
		file.OptionalDependencies,
	} {
		for name := range category {
			if name != "" {
				set[name] = true
			}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		opts.Logger("no dependencies declared in descriptor %s", entry.Path)
	}

	return &Bundle{Path: entry.Path, Ecosystem: entry.Ecosystem, Packages: names}, nil
}

// Names returns the deduplicated union of package names across bundles,
// preserving encounter order. This is the install set handed to the
// package manager before the license crawl.
func Names(bundles []Bundle) []string {
	seen := make(map[string]bool)
	var names []string
	for _, b := range bundles {
		for _, name := range b.Packages {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
