package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved file locations of a run. Relative paths in the
// configuration are taken relative to BaseDir, which defaults to the
// working directory.
type Paths struct {
	BaseDir      string
	InputFile    string
	OutputFile   string
	LogFile      string
	MetricsFile  string
	ManifestFile string
}

// ResolvePaths resolves the configured paths against baseDir. An empty
// baseDir means the current working directory.
func (c *Config) ResolvePaths(baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	p := &Paths{
		BaseDir:    baseDir,
		InputFile:  resolve(baseDir, c.Input.Path),
		OutputFile: resolve(baseDir, c.Output.Path),
	}
	if c.Logging.Output != "console" {
		p.LogFile = resolve(baseDir, c.Logging.FilePath)
	}
	if c.Telemetry.MetricsFile != "" {
		p.MetricsFile = resolve(baseDir, c.Telemetry.MetricsFile)
	}
	if c.Output.ManifestPath != "" {
		p.ManifestFile = resolve(baseDir, c.Output.ManifestPath)
	}
	return p, nil
}

// EnsureOutputDirs creates the parent directories of every output file.
func (p *Paths) EnsureOutputDirs() error {
	for _, f := range []string{p.OutputFile, p.LogFile, p.MetricsFile, p.ManifestFile} {
		if f == "" {
			continue
		}
		dir := filepath.Dir(f)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
