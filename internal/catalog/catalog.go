// Package catalog serves the static dataset catalog and the run manifests.
package catalog

import (
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	datasetsFile   = "data/datasets.yaml"
	runFile        = "data/run_manifest.yaml"
	provenanceFile = "data/provenance_manifest.yaml"
)

type Dataset struct {
	ID          string            `yaml:"id" json:"id"`
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	URL         string            `yaml:"url" json:"url"`
	Records     int               `yaml:"records" json:"records"`
	Format      []string          `yaml:"format" json:"format"`
	License     string            `yaml:"license" json:"license"`
	Version     string            `yaml:"version" json:"version"`
	Schema      map[string]string `yaml:"schema" json:"schema"`
	KeyFindings map[string]string `yaml:"key_findings,omitempty" json:"key_findings,omitempty"`
	UseCases    []string          `yaml:"use_cases" json:"use_cases"`
}

// Manifest is passed through to clients as-is.
type Manifest map[string]any

type Catalog struct {
	Datasets []Dataset
	// Run describes the evaluation run behind the metrics overview.
	Run Manifest
	// Provenance is the data ingestion manifest.
	Provenance Manifest
}

// Config points at on-disk documents that replace the embedded ones.
type Config struct {
	CatalogPath     string `envconfig:"CATALOG_PATH"`
	RunManifestPath string `envconfig:"RUN_MANIFEST_PATH"`
	ManifestPath    string `envconfig:"MANIFEST_PATH"`
}

func Load(cfg Config) (*Catalog, error) {
	datasetsData, err := read(cfg.CatalogPath, datasetsFile)
	if err != nil {
		return nil, err
	}
	runData, err := read(cfg.RunManifestPath, runFile)
	if err != nil {
		return nil, err
	}
	provenanceData, err := read(cfg.ManifestPath, provenanceFile)
	if err != nil {
		return nil, err
	}

	return Parse(datasetsData, runData, provenanceData)
}

func Parse(datasetsData, runData, provenanceData []byte) (*Catalog, error) {
	var doc struct {
		Datasets []Dataset `yaml:"datasets"`
	}
	if err := yaml.Unmarshal(datasetsData, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	var run, provenance Manifest
	if err := yaml.Unmarshal(runData, &run); err != nil {
		return nil, fmt.Errorf("parse run manifest YAML: %w", err)
	}
	if err := yaml.Unmarshal(provenanceData, &provenance); err != nil {
		return nil, fmt.Errorf("parse provenance manifest YAML: %w", err)
	}

	c := &Catalog{Datasets: doc.Datasets, Run: run, Provenance: provenance}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Validate() error {
	if len(c.Datasets) == 0 {
		return fmt.Errorf("catalog has no datasets")
	}

	seen := make(map[string]bool, len(c.Datasets))
	for i, d := range c.Datasets {
		if d.ID == "" {
			return fmt.Errorf("dataset at index %d has no id", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate dataset id %q", d.ID)
		}
		seen[d.ID] = true

		u, err := url.Parse(d.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("dataset %q has invalid url %q", d.ID, d.URL)
		}
	}

	if len(c.Run) == 0 {
		return fmt.Errorf("run manifest is empty")
	}
	if _, ok := c.Provenance["id"]; !ok {
		return fmt.Errorf("provenance manifest has no id")
	}
	return nil
}

func (c *Catalog) Dataset(id string) (Dataset, bool) {
	for _, d := range c.Datasets {
		if d.ID == id {
			return d, true
		}
	}
	return Dataset{}, false
}

func read(path, fallback string) ([]byte, error) {
	if path == "" {
		return embedded.ReadFile(fallback)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	slog.Info("Loaded catalog document from disk", "path", path)
	return data, nil
}
