// Package config loads reducekit configuration.
//
// Values come from, in increasing priority: a YAML file, a .env file,
// REDUCEKIT_-prefixed environment variables and explicitly set
// command-line flags. Viper merges the sources and unmarshals them into
// Config.
//
// Without --config the loader looks for ./reducekit.yml, ./reducekit.yaml,
// ./config.yml and ./config/reducekit.yml, and takes the first that
// exists. A file named explicitly must exist and parse.
//
// # Usage
//
//	cfg, err := config.Load(
//		config.WithConfigFile(path),
//		config.WithFlags(flags, map[string]string{"registry": "pipeline.registry"}),
//	)
//
// Environment variables nest at underscores, so
// REDUCEKIT_PIPELINE_REGISTRY sets pipeline.registry.
package config
