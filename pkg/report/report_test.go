package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fkoller/lictally/pkg/extract"
	"github.com/fkoller/lictally/pkg/manifest"
	"github.com/fkoller/lictally/pkg/summary"
)

func TestWriteResults(t *testing.T) {
	results := []extract.Result{
		{
			Path:      "a/requirements.txt",
			Ecosystem: manifest.EcosystemPyRequirements,
			Packages:  []extract.Record{{Name: "pkg-x"}},
		},
	}

	var buf bytes.Buffer
	if err := WriteResults(results, &buf); err != nil {
		t.Fatalf("WriteResults failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d elements, want 1", len(decoded))
	}
	if decoded[0]["type"] != "py-req" {
		t.Errorf("type = %v, want py-req", decoded[0]["type"])
	}
}

func TestWriteResults_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(nil, &buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("output = %q, want []", got)
	}
}

func TestWriteSummary_PreservesOrder(t *testing.T) {
	s := summary.Summary{
		{License: "MIT", Count: 3},
		{License: "ISC", Count: 1},
		{License: summary.NoLicense, Count: 1},
	}

	var buf bytes.Buffer
	if err := WriteSummary(s, &buf); err != nil {
		t.Fatal(err)
	}
	got := strings.TrimSpace(buf.String())
	want := `{"MIT":3,"ISC":1,"NONE":1}`
	if got != want {
		t.Errorf("output = %s, want %s", got, want)
	}
}

func TestExportBundles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deps.json")
	bundles := []extract.Bundle{
		{Path: "web/package.json", Ecosystem: manifest.EcosystemNodePackage, Packages: []string{"a", "b"}},
	}

	if err := ExportBundles(bundles, path); err != nil {
		t.Fatalf("ExportBundles failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded []extract.Bundle
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("file is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || len(decoded[0].Packages) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteRunInfo(t *testing.T) {
	info := RunInfo{RunID: "r-1", Manifests: 2, Packages: 5, Bundles: 1}

	var buf bytes.Buffer
	if err := WriteRunInfo(info, &buf); err != nil {
		t.Fatal(err)
	}
	var decoded RunInfo
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.RunID != "r-1" || decoded.Packages != 5 {
		t.Errorf("decoded = %+v", decoded)
	}
}
