// Package iodatasets loads the dataset locator table from datasets.yaml.
package iodatasets

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/config"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/dataset"
	"gopkg.in/yaml.v3"
)

type iodatasets struct {
	cfg *config.Config
}

// New returns a registry reading datasets.yaml from the configuration
// directory.
func New(cfg *config.Config) dataset.Registry {
	res := iodatasets{cfg: cfg}
	return &res
}

// Load reads datasets.yaml. Without a home directory, or when the file
// does not exist, the built-in table is returned.
func (d *iodatasets) Load() ([]dataset.Spec, error) {
	if d.cfg.HomeDir == "" {
		return dataset.DefaultSpecs(), nil
	}

	path := config.DatasetsFilePath(d.cfg.HomeDir)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Info("No datasets file, using built-in layouts", "path", path)
		return dataset.DefaultSpecs(), nil
	}

	specs, err := loadDatasetsFile(path)
	if err != nil {
		return nil, DatasetsConfigError(path, err)
	}
	return specs, nil
}

type datasetsFile struct {
	Datasets []dataset.Spec `yaml:"datasets"`
}

// loadDatasetsFile parses and validates a datasets.yaml file. Kinds the
// file does not mention keep their built-in layouts.
func loadDatasetsFile(path string) ([]dataset.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read datasets file: %w", err)
	}

	var file datasetsFile
	if err = yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse datasets file: %w", err)
	}

	seen := make(map[dataset.Kind]struct{})
	var res []dataset.Spec
	for _, s := range file.Datasets {
		kind, err := dataset.ParseKind(string(s.Kind))
		if err != nil {
			return nil, err
		}
		s.Kind = kind
		if _, ok := seen[kind]; ok {
			return nil, fmt.Errorf("dataset %q is defined more than once", kind)
		}
		seen[kind] = struct{}{}

		if err = s.Validate(); err != nil {
			return nil, err
		}
		res = append(res, s)
	}

	for _, s := range dataset.DefaultSpecs() {
		if _, ok := seen[s.Kind]; ok {
			continue
		}
		slog.Warn("Dataset missing from datasets file, using built-in layout",
			"dataset", s.Kind, "path", path)
		res = append(res, s)
	}
	return res, nil
}
