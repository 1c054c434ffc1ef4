// Package dataset describes the Geofabric datasets the extractor knows
// about: where their files may live, how to recognise the right layer of a
// container, and which attribute columns may carry a place name.
//
// The locator table is plain data. New layouts are added by extending the
// candidate lists (or datasets.yaml), never by adding control flow.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Registry provides the locator table.
type Registry interface {
	// Load returns one Spec per known dataset kind.
	Load() ([]Spec, error)
}

// Kind identifies a dataset type.
type Kind string

const (
	// Stream is the stream network (line features).
	Stream Kind = "stream"
	// Catchment is the catchment boundaries (polygon features).
	Catchment Kind = "catchment"
)

// Kinds lists all known dataset kinds in processing order.
var Kinds = []Kind{Stream, Catchment}

// ParseKind converts user input such as "streams" or "Catchment" into a
// Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "s")
	switch Kind(s) {
	case Stream, Catchment:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown dataset kind %q", s)
}

// Plural returns the name used in output files, e.g. "streams".
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Spec is the immutable description of a dataset type. Use Clone before
// changing a copy.
type Spec struct {
	// Kind of the dataset.
	Kind Kind `yaml:"kind"`

	// CandidatePaths are tried in order, relative to the data directory.
	// More specific layouts come first, generic containers last.
	CandidatePaths []string `yaml:"candidate_paths"`

	// LayerKeyword selects the layer of a multi-layer container
	// (case-insensitive substring of the layer name).
	LayerKeyword string `yaml:"layer_keyword"`

	// NameColumns are attribute columns likely to hold a river or
	// catchment name, in order of preference.
	NameColumns []string `yaml:"name_columns"`

	// DownloadHint tells the user where to get the data when none of the
	// candidates exist.
	DownloadHint string `yaml:"download_hint,omitempty"`
}

// Clone returns a deep copy of the spec.
func (s Spec) Clone() Spec {
	s.CandidatePaths = slices.Clone(s.CandidatePaths)
	s.NameColumns = slices.Clone(s.NameColumns)
	return s
}

// Validate checks that the spec can drive the pipeline.
func (s Spec) Validate() error {
	var errs []error
	if _, err := ParseKind(string(s.Kind)); err != nil {
		errs = append(errs, err)
	}
	if len(s.CandidatePaths) == 0 {
		errs = append(errs,
			fmt.Errorf("dataset %q: candidate_paths cannot be empty", s.Kind))
	}
	for _, p := range s.CandidatePaths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs,
				fmt.Errorf("dataset %q: empty candidate path", s.Kind))
		}
		if filepath.IsAbs(p) {
			errs = append(errs,
				fmt.Errorf("dataset %q: candidate path %q must be relative",
					s.Kind, p))
		}
	}
	if strings.TrimSpace(s.LayerKeyword) == "" {
		errs = append(errs,
			fmt.Errorf("dataset %q: layer_keyword cannot be empty", s.Kind))
	}
	return errors.Join(errs...)
}

// ResolvedSource is the outcome of locating a dataset and, for
// containers, choosing its layer.
type ResolvedSource struct {
	// Path existed when it was resolved.
	Path string
	// Layer is set only for multi-layer containers.
	Layer string
	// LayerFallback is true when no layer matched the keyword and the
	// first layer was taken instead.
	LayerFallback bool
	// LayerHint is true when the layer came from the caller.
	LayerHint bool
}

// IsContainer reports whether the path is a multi-layer container
// format.
func IsContainer(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpkg", ".gdb":
		return true
	}
	return false
}
