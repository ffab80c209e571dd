package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fkoller/lictally/pkg/errors"
	"github.com/fkoller/lictally/pkg/manifest"
)

func writeManifest(t *testing.T, name, content string) manifest.Entry {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	eco := manifest.EcosystemPyRequirements
	switch filepath.Ext(name) {
	case ".json":
		eco = manifest.EcosystemNodePackage
	case ".toml":
		eco = manifest.EcosystemPyProject
	}
	return manifest.Entry{Path: path, Ecosystem: eco}
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"foo==1.2.3", "foo"},
		{"bar>=1,baz", "bar"},
		{"qux~=2.0", "qux"},
		{"quux!=3.1", "quux"},
		{"  spaced == 1.0  ", "spaced"},
		{"plain", "plain"},
		{" ", ""},
		{"", ""},
		{"==1.0", ""},
		{",leading-comma", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := packageName(tt.line); got != tt.want {
				t.Errorf("packageName(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestExtractRequirements(t *testing.T) {
	entry := writeManifest(t, "requirements.txt", "pkg-x==2.0\n\n pkg-y \n")

	result, err := Extract(entry, Options{})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if result.Path != entry.Path {
		t.Errorf("Path = %s, want %s", result.Path, entry.Path)
	}
	if len(result.Packages) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Packages))
	}
	for _, rec := range result.Packages {
		if rec.Resolved {
			t.Errorf("record %s resolved without a resolver", rec.Name)
		}
		if rec.Version != "" || rec.License != "" {
			t.Errorf("record %s has metadata without a resolver", rec.Name)
		}
	}
	if result.Packages[0].Name != "pkg-x" || result.Packages[1].Name != "pkg-y" {
		t.Errorf("names = %s, %s, want pkg-x, pkg-y", result.Packages[0].Name, result.Packages[1].Name)
	}
}

func TestExtractRequirements_Resolver(t *testing.T) {
	entry := writeManifest(t, "requirements.txt", "known==1.0\nunknown>=2\n")

	resolver := ResolverFunc(func(name string) (Metadata, error) {
		if name == "known" {
			return Metadata{Version: "1.0.4", License: "MIT"}, nil
		}
		return Metadata{}, errors.New(errors.ErrCodeMetadataMiss, "not installed: %s", name)
	})

	result, err := Extract(entry, Options{Resolver: resolver})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(result.Packages) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Packages))
	}

	known := result.Packages[0]
	if !known.Resolved || known.Version != "1.0.4" || known.License != "MIT" {
		t.Errorf("known record = %+v, want resolved 1.0.4/MIT", known)
	}

	unknown := result.Packages[1]
	if unknown.Resolved {
		t.Error("unknown record marked resolved")
	}
	if unknown.Name != "unknown" {
		t.Errorf("unknown record name = %s", unknown.Name)
	}
}

func TestExtractRequirements_Empty(t *testing.T) {
	entry := writeManifest(t, "requirements.txt", "\n   \n\t\n")

	result, err := Extract(entry, Options{})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(result.Packages) != 0 {
		t.Errorf("got %d records, want 0", len(result.Packages))
	}
}

func TestExtract_UnknownEcosystem(t *testing.T) {
	_, err := Extract(manifest.Entry{Path: "x", Ecosystem: manifest.EcosystemUnknown}, Options{})
	if !errors.Is(err, errors.ErrCodeUnknownEcosystem) {
		t.Errorf("error = %v, want UNKNOWN_ECOSYSTEM", err)
	}
}

func TestExtractAll(t *testing.T) {
	reqs := writeManifest(t, "requirements.txt", "alpha\n")
	desc := writeManifest(t, "package.json", `{"name":"web","version":"0.1.0","license":"ISC"}`)

	results, err := ExtractAll([]manifest.Entry{reqs, desc}, Options{})
	if err != nil {
		t.Fatalf("ExtractAll failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// One Result per manifest, in input order.
	if results[0].Path != reqs.Path || results[1].Path != desc.Path {
		t.Error("results out of input order")
	}
}
