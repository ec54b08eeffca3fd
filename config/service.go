package config

import (
	"github.com/kbukum/reducekit/logger"
	"github.com/kbukum/reducekit/validation"
)

// Environments lists the accepted values of ServiceConfig.Environment.
func Environments() []string {
	return []string{"development", "staging", "production"}
}

// ServiceConfig is the identity and logging block shared by every
// reducekit binary. Config embeds it with mapstructure squash so its keys
// sit at the top level of the file.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig exposes the embedded block to bootstrap.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults picks development mode and tags the logger with the
// binary name unless the file says otherwise.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate reports every bad field at once.
func (c *ServiceConfig) Validate() error {
	v := validation.New().
		Required("name", c.Name).
		OneOf("environment", c.Environment, Environments()).
		Merge("logging", c.Logging.Validate())
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
