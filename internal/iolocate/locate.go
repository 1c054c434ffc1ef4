// Package iolocate finds dataset files under the data directory.
package iolocate

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
)

// NotFound lists every path that was tried, in order.
type NotFound struct {
	Candidates []string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("none of %d candidate paths exist: %s",
		len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// Locate returns the first candidate, joined to dataDir, that exists as a
// file or a directory. Later candidates are not checked once one is found.
// Only stat calls are made.
func Locate(dataDir string, candidates []string) (string, error) {
	tried := make([]string, 0, len(candidates))
	for _, c := range candidates {
		path := filepath.Join(dataDir, c)
		_, err := os.Stat(path)
		if err == nil {
			slog.Debug("Dataset candidate found", "path", path)
			return path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Cannot check dataset candidate", "path", path, "error", err)
		}
		tried = append(tried, path)
	}
	return "", &NotFound{Candidates: tried}
}

// LocateSpec runs Locate for the spec and wraps a miss into a
// user-facing error with the download hint.
func LocateSpec(dataDir string, spec dataset.Spec) (string, error) {
	path, err := Locate(dataDir, spec.CandidatePaths)
	if err != nil {
		var nf *NotFound
		if errors.As(err, &nf) {
			return "", NotFoundError(spec.Kind, dataDir, nf, spec.DownloadHint)
		}
		return "", err
	}
	return path, nil
}
