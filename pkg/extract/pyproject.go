package extract

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/fkoller/lictally/pkg/errors"
	"github.com/fkoller/lictally/pkg/manifest"
)

// pyprojectFile models the identity fields of a pyproject.toml descriptor.
// License under [project] may be a plain SPDX string or the older
// {text = "..."} table form.
type pyprojectFile struct {
	Project struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
		License any    `toml:"license"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
			License string `toml:"license"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// extractPyProject reads a TOML package descriptor and emits one Record for
// the project itself. [project] fields win; [tool.poetry] is the fallback
// for pre-PEP 621 layouts. Unparseable content is fatal, a missing name is
// only logged.
func extractPyProject(entry manifest.Entry, opts Options) (*Result, error) {
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read descriptor %s", entry.Path)
	}

	var doc pyprojectFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse descriptor %s", entry.Path)
	}

	rec := Record{
		Name:     doc.Project.Name,
		Resolved: true,
		Version:  doc.Project.Version,
		License:  licenseString(doc.Project.License),
	}
	if rec.Name == "" {
		rec.Name = doc.Tool.Poetry.Name
		rec.Version = doc.Tool.Poetry.Version
		rec.License = doc.Tool.Poetry.License
	}
	if rec.Name == "" {
		opts.Logger("descriptor %s is missing the name attribute", entry.Path)
	}

	return &Result{
		Path:      entry.Path,
		Ecosystem: entry.Ecosystem,
		Packages:  []Record{rec},
	}, nil
}

// licenseString flattens the two accepted license forms into one value.
// Unrecognized shapes (e.g. {file = "..."}) reduce to empty, which the
// summary counts under its sentinel bucket.
func licenseString(v any) string {
	switch lic := v.(type) {
	case string:
		return lic
	case map[string]any:
		if text, ok := lic["text"].(string); ok {
			return text
		}
	}
	return ""
}
