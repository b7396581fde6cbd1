package cli

// This file contains the YAML configuration file and its merge with
// command-line flags.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/perfgo/reportkeeper/report"
	"gopkg.in/yaml.v3"
)

// Config models the optional reportkeeper.yaml file. Flags set on the
// command line take precedence over its values.
type Config struct {
	Output         string            `yaml:"output"`
	Results        string            `yaml:"results"`
	KeepHistory    *bool             `yaml:"keep_history"`
	KeepReports    *bool             `yaml:"keep_reports"`
	ArchiveDir     string            `yaml:"archive_dir"`
	Title          string            `yaml:"title"`
	Environment    map[string]string `yaml:"environment"`
	ArtifactName   string            `yaml:"artifact_name"`
	Renderer       string            `yaml:"renderer"`
	PreviousReport string            `yaml:"previous_report"`
}

// loadConfig reads the config file at path. An empty path yields an empty
// config; unknown keys are rejected.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// generateOptions holds the generate flag values of one invocation. Pointers
// and empty strings mean the flag was not given. The global location flags
// are already applied to the Config by App.config.
type generateOptions struct {
	results        string
	title          string
	previousReport string
	keepHistory    *bool
	keepReports    *bool
	env            []string
}

func pick(flag, file string) string {
	if flag != "" {
		return flag
	}
	return file
}

// request merges the config file with the command-line options.
func (c *Config) request(opts generateOptions) (report.Request, error) {
	req := report.NewRequest(c.Output, pick(opts.results, c.Results))
	req.ArchiveDir = c.ArchiveDir
	req.Title = pick(opts.title, c.Title)
	req.PreviousReportDir = pick(opts.previousReport, c.PreviousReport)
	if c.ArtifactName != "" {
		req.ArtifactName = c.ArtifactName
	}

	switch {
	case opts.keepHistory != nil:
		req.KeepHistory = *opts.keepHistory
	case c.KeepHistory != nil:
		req.KeepHistory = *c.KeepHistory
	}
	switch {
	case opts.keepReports != nil:
		req.KeepSnapshots = *opts.keepReports
	case c.KeepReports != nil:
		req.KeepSnapshots = *c.KeepReports
	}

	flagEnv, err := parseEnvParams(opts.env)
	if err != nil {
		return report.Request{}, err
	}
	if len(c.Environment) > 0 || len(flagEnv) > 0 {
		req.Environment = make(map[string]string, len(c.Environment)+len(flagEnv))
		for k, v := range c.Environment {
			req.Environment[k] = v
		}
		for k, v := range flagEnv {
			req.Environment[k] = v
		}
	}

	if err := req.Validate(); err != nil {
		return report.Request{}, err
	}
	return req, nil
}

// parseEnvParams parses repeated KEY=VALUE flag values. The value may
// contain further '=' characters.
func parseEnvParams(in []string) (map[string]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	params := make(map[string]string, len(in))
	for _, kv := range in {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid environment parameter %q: expected KEY=VALUE", kv)
		}
		params[key] = value
	}
	return params, nil
}
