// Package summary tallies license identifiers across extracted package
// records.
//
// The tally is a pure function of its input: no I/O, no external calls,
// and a deterministic result for identical input order. Records without a
// license value are counted under the NoLicense sentinel so that every
// record contributes to exactly one bucket and the bucket counts always
// sum to the total number of records.
package summary

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/fkoller/lictally/pkg/extract"
)

// NoLicense is the sentinel bucket for records whose license value is
// absent or empty.
const NoLicense = "NONE"

// Bucket is one license identifier with its occurrence count.
type Bucket struct {
	License string
	Count   int
}

// Summary is an ordered license tally, sorted descending by count. Ties
// keep the order in which the license value was first encountered.
type Summary []Bucket

// Tally counts the license of every record across every extraction result.
// A record with an empty license increments the NoLicense bucket instead;
// no empty-keyed bucket is ever created.
func Tally(results []extract.Result) Summary {
	counts := make(map[string]int)
	var order []string

	for _, result := range results {
		for _, rec := range result.Packages {
			license := rec.License
			if license == "" {
				license = NoLicense
			}
			if _, seen := counts[license]; !seen {
				order = append(order, license)
			}
			counts[license]++
		}
	}

	s := make(Summary, 0, len(order))
	for _, license := range order {
		s = append(s, Bucket{License: license, Count: counts[license]})
	}
	sort.SliceStable(s, func(i, j int) bool { return s[i].Count > s[j].Count })
	return s
}

// Total returns the sum of all bucket counts, which equals the number of
// records that were tallied.
func (s Summary) Total() int {
	total := 0
	for _, b := range s {
		total += b.Count
	}
	return total
}

// Count returns the count for a license identifier, zero if absent.
func (s Summary) Count(license string) int {
	for _, b := range s {
		if b.License == license {
			return b.Count
		}
	}
	return 0
}

// MarshalJSON encodes the summary as a JSON object whose keys appear in
// bucket order. Plain map marshaling would lose the descending-count
// ordering, so the object is assembled by hand.
func (s Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.License)
		if err != nil {
			return nil, err
		}
		count, err := json.Marshal(b.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
