package extract

import (
	"reflect"
	"testing"

	"github.com/fkoller/lictally/pkg/manifest"
)

func TestMergeDependencies(t *testing.T) {
	entry := writeManifest(t, "package.json", `{
  "name": "app",
  "dependencies": {"a": "1"},
  "devDependencies": {"a": "1", "b": "2"},
  "peerDependencies": {"c": "3"},
  "optionalDependencies": {"d": "4"}
}`)

	bundles, err := MergeDependencies([]manifest.Entry{entry}, Options{})
	if err != nil {
		t.Fatalf("MergeDependencies failed: %v", err)
	}
	if len(bundles) != 1 {
		t.Fatalf("got %d bundles, want 1", len(bundles))
	}

	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(bundles[0].Packages, want) {
		t.Errorf("Packages = %v, want %v", bundles[0].Packages, want)
	}
	if bundles[0].Path != entry.Path {
		t.Errorf("Path = %s, want %s", bundles[0].Path, entry.Path)
	}
}

func TestMergeDependencies_EmptyUnion(t *testing.T) {
	var logged bool
	entry := writeManifest(t, "package.json", `{"name": "leaf"}`)

	bundles, err := MergeDependencies([]manifest.Entry{entry}, Options{
		Logger: func(string, ...any) { logged = true },
	})
	if err != nil {
		t.Fatalf("MergeDependencies failed: %v", err)
	}
	// Still processed: one bundle, zero names, and a log line.
	if len(bundles) != 1 {
		t.Fatalf("got %d bundles, want 1", len(bundles))
	}
	if len(bundles[0].Packages) != 0 {
		t.Errorf("Packages = %v, want empty", bundles[0].Packages)
	}
	if !logged {
		t.Error("empty union was not logged")
	}
}

func TestMergeDependencies_SkipsOtherEcosystems(t *testing.T) {
	reqs := writeManifest(t, "requirements.txt", "a\n")
	toml := writeManifest(t, "pyproject.toml", "[project]\nname = \"x\"\n")

	bundles, err := MergeDependencies([]manifest.Entry{reqs, toml}, Options{})
	if err != nil {
		t.Fatalf("MergeDependencies failed: %v", err)
	}
	if len(bundles) != 0 {
		t.Errorf("got %d bundles, want 0", len(bundles))
	}
}

func TestNames(t *testing.T) {
	bundles := []Bundle{
		{Packages: []string{"a", "b"}},
		{Packages: []string{"b", "c"}},
		{Packages: nil},
	}

	want := []string{"a", "b", "c"}
	if got := Names(bundles); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
