package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/fkoller/lictally/pkg/errors"
)

// Ecosystem identifies the manifest dialect a file is written in.
// The set of ecosystems is closed: dispatch sites switch exhaustively over
// the constants below, and configuration parsing rejects unknown tags up
// front instead of deferring to a runtime fallthrough.
type Ecosystem int

const (
	// EcosystemUnknown is the zero value and never matches a parsed tag.
	EcosystemUnknown Ecosystem = iota

	// EcosystemPyRequirements is a line-oriented requirement list
	// (requirements.txt style: one package per line with optional
	// version constraints).
	EcosystemPyRequirements

	// EcosystemNodePackage is a structured JSON package descriptor
	// (package.json style: one object describing the package itself
	// plus its dependency categories).
	EcosystemNodePackage

	// EcosystemPyProject is a structured TOML package descriptor
	// (pyproject.toml style: [project] table with name/version/license).
	EcosystemPyProject
)

// tag strings as they appear in configuration files and reports.
const (
	tagPyRequirements = "py-req"
	tagNodePackage    = "node-pkg"
	tagPyProject      = "py-project"
)

// String returns the configuration tag for the ecosystem.
func (e Ecosystem) String() string {
	switch e {
	case EcosystemPyRequirements:
		return tagPyRequirements
	case EcosystemNodePackage:
		return tagNodePackage
	case EcosystemPyProject:
		return tagPyProject
	case EcosystemUnknown:
		return "unknown"
	}
	return fmt.Sprintf("ecosystem(%d)", int(e))
}

// ParseEcosystem converts a configuration tag into an Ecosystem.
// An unrecognized tag is a configuration defect and returns an error with
// code UNKNOWN_ECOSYSTEM; callers are expected to treat it as fatal.
func ParseEcosystem(tag string) (Ecosystem, error) {
	switch tag {
	case tagPyRequirements:
		return EcosystemPyRequirements, nil
	case tagNodePackage:
		return EcosystemNodePackage, nil
	case tagPyProject:
		return EcosystemPyProject, nil
	}
	return EcosystemUnknown, errors.New(errors.ErrCodeUnknownEcosystem, "unknown ecosystem tag: %q", tag)
}

// MarshalJSON encodes the ecosystem as its configuration tag.
func (e Ecosystem) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON decodes an ecosystem from its configuration tag.
func (e *Ecosystem) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	eco, err := ParseEcosystem(tag)
	if err != nil {
		return err
	}
	*e = eco
	return nil
}
