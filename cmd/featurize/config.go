package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/featurizer/pkg/errors"
	"github.com/YuminosukeSato/featurizer/preprocessing"
)

// Config holds the settings of a featurize run. Values come from the YAML
// file named by --config, then from flags the user set explicitly.
type Config struct {
	Featurizer string `yaml:"featurizer"`
	Type       string `yaml:"type"`
	NullToken  string `yaml:"null_token"`
	Tail       string `yaml:"tail"`
	LogLevel   string `yaml:"log_level"`

	Input string `yaml:"input"`
	Train string `yaml:"train"`
	Load  string `yaml:"load"`
	Save  string `yaml:"save"`
}

// DefaultConfig returns the settings used when neither file nor flags say
// otherwise.
func DefaultConfig() Config {
	return Config{
		Featurizer: "backward-fill",
		Type:       "int64",
		NullToken:  "",
		Tail:       "drop",
		LogLevel:   "warn",
		Input:      "-",
	}
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return cfg, nil
}

// applyFlags overrides cfg with every flag the user set on cmd.
func (c *Config) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	targets := map[string]*string{
		"featurizer": &c.Featurizer,
		"type":       &c.Type,
		"null-token": &c.NullToken,
		"tail":       &c.Tail,
		"log-level":  &c.LogLevel,
		"input":      &c.Input,
		"train":      &c.Train,
		"load":       &c.Load,
		"save":       &c.Save,
	}
	for name, dst := range targets {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

// validate checks the enumerated settings.
func (c *Config) validate() error {
	switch c.Featurizer {
	case "backward-fill", "forward-fill":
	default:
		return errors.NewInvalidArgumentError("config", "featurizer",
			"must be backward-fill or forward-fill, got "+c.Featurizer)
	}
	if _, ok := valueTypes[c.Type]; !ok {
		return errors.NewInvalidArgumentError("config", "type", "unsupported value type "+c.Type)
	}
	if _, err := preprocessing.ParseUnresolvedTailPolicy(c.Tail); err != nil {
		return err
	}
	return nil
}
