// Package filter narrows a feature collection to a region by searching
// name-like attribute columns for a keyword.
//
// The filter fails open: when no name column exists, or nothing matches,
// the full input is kept and Outcome.Matched is false. An empty result
// from real input is considered worse than an over-broad one. Callers
// that need a strict filter check Matched.
package filter

import (
	"fmt"
	"strings"

	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
)

// Outcome describes what the filter did.
type Outcome struct {
	// MatchedColumns are the candidate columns present in the schema,
	// in candidate order.
	MatchedColumns []string

	// Kept is the resulting collection. Its features are the input's
	// records, in input order.
	Kept *feature.Collection

	// Matched is false when the filter fell back to the whole input.
	Matched bool

	// Note explains a fallback. Empty when Matched is true.
	Note string

	// Total is the number of input features.
	Total int
}

// Columns returns the candidate columns present in the collection's
// schema, keeping the order of candidates. Duplicates are dropped.
func Columns(c *feature.Collection, candidates []string) []string {
	var res []string
	seen := make(map[string]struct{}, len(candidates))
	for _, col := range candidates {
		if _, ok := seen[col]; ok {
			continue
		}
		seen[col] = struct{}{}
		if c.HasColumn(col) {
			res = append(res, col)
		}
	}
	return res
}

// ByRegion keeps features where at least one of the present candidate
// columns contains keyword as a case-insensitive substring. Null values
// never match.
func ByRegion(
	c *feature.Collection,
	candidates []string,
	keyword string,
) Outcome {
	res := Outcome{Kept: c, Total: c.Len()}
	if c == nil {
		res.Note = "no features to filter"
		return res
	}

	res.MatchedColumns = Columns(c, candidates)
	if len(res.MatchedColumns) == 0 {
		res.Note = fmt.Sprintf(
			"none of the name columns %v exist, keeping all %d features",
			candidates, c.Len(),
		)
		return res
	}

	kw := strings.ToLower(keyword)
	var kept []*feature.Feature
	for _, f := range c.Features {
		if matches(f, res.MatchedColumns, kw) {
			kept = append(kept, f)
		}
	}

	if len(kept) == 0 {
		res.Note = fmt.Sprintf(
			"no feature mentions %q in %v, keeping all %d features",
			keyword, res.MatchedColumns, c.Len(),
		)
		return res
	}

	res.Kept = c.Subset(kept)
	res.Matched = true
	return res
}

func matches(f *feature.Feature, columns []string, kw string) bool {
	for _, col := range columns {
		s, ok := feature.Text(f.Value(col))
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(s), kw) {
			return true
		}
	}
	return false
}
