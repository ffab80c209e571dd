package extract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fkoller/lictally/pkg/errors"
	"github.com/fkoller/lictally/pkg/manifest"
)

// descriptorFile is the subset of a package.json descriptor used for
// extraction. Dependency categories live in merge.go.
type descriptorFile struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	License string `json:"license"`
}

// extractNodePackage reads a structured JSON descriptor and emits exactly
// one Record describing the package itself (not its dependencies). A wrong
// extension or unparseable content is fatal: it indicates a configuration
// or data error, not a skippable manifest.
func extractNodePackage(entry manifest.Entry, opts Options) (*Result, error) {
	if !strings.EqualFold(filepath.Ext(entry.Path), ".json") {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "descriptor %s is not a JSON file", entry.Path)
	}

	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read descriptor %s", entry.Path)
	}

	var desc descriptorFile
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse descriptor %s", entry.Path)
	}

	if desc.Name == "" {
		opts.Logger("descriptor %s is missing the name attribute", entry.Path)
	}

	return &Result{
		Path:      entry.Path,
		Ecosystem: entry.Ecosystem,
		Packages: []Record{
			{Name: desc.Name, Resolved: true, Version: desc.Version, License: desc.License},
		},
	}, nil
}
