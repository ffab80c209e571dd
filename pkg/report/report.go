// Package report serializes scan outputs to their JSON artifacts.
//
// Three artifacts come from the core pipeline: the extraction results
// array, the ordered license summary object, and the dependency bundle
// array. A fourth, the run info file, records which run produced them.
// The crawler's own JSON/text outputs are written directly by the crawl
// package and pass through untouched.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fkoller/lictally/pkg/extract"
	"github.com/fkoller/lictally/pkg/pipeline"
	"github.com/fkoller/lictally/pkg/summary"
)

// RunInfo identifies a scan run in the written artifacts.
type RunInfo struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Manifests   int       `json:"manifests"`
	Packages    int       `json:"packages"`
	Bundles     int       `json:"bundles"`
}

// NewRunInfo derives run metadata from a pipeline result.
func NewRunInfo(res *pipeline.Result) RunInfo {
	return RunInfo{
		RunID:       res.RunID,
		GeneratedAt: time.Now().UTC(),
		Manifests:   res.Stats.ManifestCount,
		Packages:    res.Stats.PackageCount,
		Bundles:     res.Stats.BundleCount,
	}
}

// WriteResults encodes the extraction results as an indented JSON array.
func WriteResults(results []extract.Result, w io.Writer) error {
	if results == nil {
		results = []extract.Result{}
	}
	return encode(results, w)
}

// WriteSummary encodes the license summary as an ordered JSON object.
func WriteSummary(s summary.Summary, w io.Writer) error {
	return encode(s, w)
}

// WriteBundles encodes the dependency bundles as an indented JSON array.
func WriteBundles(bundles []extract.Bundle, w io.Writer) error {
	if bundles == nil {
		bundles = []extract.Bundle{}
	}
	return encode(bundles, w)
}

// WriteRunInfo encodes the run metadata.
func WriteRunInfo(info RunInfo, w io.Writer) error {
	return encode(info, w)
}

// ExportResults writes the extraction results to a JSON file at path.
func ExportResults(results []extract.Result, path string) error {
	return export(path, func(w io.Writer) error { return WriteResults(results, w) })
}

// ExportSummary writes the license summary to a JSON file at path.
func ExportSummary(s summary.Summary, path string) error {
	return export(path, func(w io.Writer) error { return WriteSummary(s, w) })
}

// ExportBundles writes the dependency bundles to a JSON file at path.
func ExportBundles(bundles []extract.Bundle, path string) error {
	return export(path, func(w io.Writer) error { return WriteBundles(bundles, w) })
}

// ExportRunInfo writes the run metadata to a JSON file at path.
func ExportRunInfo(info RunInfo, path string) error {
	return export(path, func(w io.Writer) error { return WriteRunInfo(info, w) })
}

func encode(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func export(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return write(f)
}
