package config

import (
	"fmt"

	"github.com/kbukum/reducekit/reducer"
	"github.com/kbukum/reducekit/scenario"
	"github.com/kbukum/reducekit/util"
	"github.com/kbukum/reducekit/validation"
)

const serviceName = "reducekit"

// Config is the reducekit CLI configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Scenario      string              `yaml:"scenario" mapstructure:"scenario"`
	Pipeline      PipelineConfig      `yaml:"pipeline" mapstructure:"pipeline"`
	Output        OutputConfig        `yaml:"output" mapstructure:"output"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills unset fields across every section.
func (c *Config) ApplyDefaults() {
	c.Name = util.Coalesce(c.Name, serviceName)
	c.ServiceConfig.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Output.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("config.pipeline: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("config.output: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}

// PipelineConfig selects how actions are dispatched.
type PipelineConfig struct {
	// Registry is the registry shape: keyed or chained.
	Registry string `yaml:"registry" mapstructure:"registry"`
	// Parallelism bounds the goroutines reducing users within one action.
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism"`
	// Strict rejects unknown action types and missing payloads up front
	// instead of running them as no-ops.
	Strict bool `yaml:"strict" mapstructure:"strict"`
	// Trace logs every reducer step.
	Trace bool `yaml:"trace" mapstructure:"trace"`
}

func (c *PipelineConfig) ApplyDefaults() {
	if c.Registry == "" {
		c.Registry = reducer.ShapeKeyed
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 1
	}
}

func (c *PipelineConfig) Validate() error {
	v := validation.New().
		OneOf("registry", c.Registry, []string{reducer.ShapeKeyed, reducer.ShapeChained}).
		Min("parallelism", c.Parallelism, 1)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
	// History prints the collection after every action instead of only the
	// final state.
	History bool `yaml:"history" mapstructure:"history"`
}

func (c *OutputConfig) ApplyDefaults() {
	if c.Format == "" {
		c.Format = scenario.FormatJSON
	}
}

func (c *OutputConfig) Validate() error {
	v := validation.New().OneOf("format", c.Format, scenario.Formats())
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ObservabilityConfig configures OTLP export of traces and metrics.
type ObservabilityConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// SampleRate is nil when unset so an explicit 0 turns sampling off.
	SampleRate *float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	Insecure   bool     `yaml:"insecure" mapstructure:"insecure"`
}

func (c *ObservabilityConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == nil {
		c.SampleRate = util.Ptr(1.0)
	}
}

// Rate returns the trace sampling ratio, 1.0 when unset.
func (c *ObservabilityConfig) Rate() float64 {
	if c.SampleRate == nil {
		return 1.0
	}
	return *c.SampleRate
}

func (c *ObservabilityConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	v := validation.New().
		Required("endpoint", c.Endpoint).
		Custom(c.Rate() >= 0 && c.Rate() <= 1, "sample_rate", "must be between 0 and 1")
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Load reads the reducekit configuration, applies defaults and validates it.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
