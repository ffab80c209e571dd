// Package manifest locates dependency manifest files on disk.
//
// A scan is driven by two pieces of configuration: a set of named root
// locations and a list of filename rules. Each rule pairs a glob-style
// filename pattern with the ecosystem the matched files belong to. Locate
// walks every location recursively and emits one Entry per match.
//
// Traversal is tolerant of unreadable subtrees: the error is reported
// through the options logger and the walk continues with siblings. A rule
// that matches nothing contributes nothing; that is not an error.
package manifest

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// Entry is a located manifest file tagged with its ecosystem.
type Entry struct {
	Path      string    `json:"path"`
	Ecosystem Ecosystem `json:"type"`
}

// Rule pairs a filename glob pattern with the ecosystem of matched files.
type Rule struct {
	Pattern   string    // basename glob, filepath.Match syntax
	Ecosystem Ecosystem // dialect of files matching Pattern
}

// Options configures manifest location behavior.
type Options struct {
	// Logger receives traversal diagnostics (optional).
	Logger func(string, ...any)
}

// withDefaults replaces a nil logger with a no-op.
func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = func(string, ...any) {}
	}
	return o
}

// Locate walks every configured location and returns one Entry per file
// whose basename matches a rule pattern. Locations are visited in sorted
// name order and rules in declaration order, so the result is deterministic
// for a given configuration and filesystem state.
//
// Unreadable subtrees are logged and skipped; the remaining tree is still
// searched. Symlinks are not followed.
func Locate(locations map[string]string, rules []Rule, opts Options) []Entry {
	opts = opts.withDefaults()

	names := make([]string, 0, len(locations))
	for name := range locations {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []Entry
	for _, name := range names {
		root := locations[name]
		opts.Logger("searching location %s (%s)", name, root)

		matches := walkLocation(root, rules, opts)
		for i, rule := range rules {
			for _, path := range matches[i] {
				opts.Logger("found %s manifest: %s", rule.Ecosystem, path)
				entries = append(entries, Entry{Path: path, Ecosystem: rule.Ecosystem})
			}
		}
	}
	return entries
}

// walkLocation walks root once and buckets matching paths per rule index.
// Walk errors are logged and the affected subtree is skipped.
func walkLocation(root string, rules []Rule, opts Options) [][]string {
	matches := make([][]string, len(rules))

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			opts.Logger("skipping unreadable path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		for i, rule := range rules {
			// Pattern syntax is validated at config load, so a match
			// error here cannot occur for well-formed rules.
			if ok, _ := filepath.Match(rule.Pattern, base); ok {
				matches[i] = append(matches[i], path)
			}
		}
		return nil
	})
	if err != nil {
		opts.Logger("traversal of %s aborted: %v", root, err)
	}

	return matches
}
