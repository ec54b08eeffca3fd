package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kbukum/reducekit/errors"
)

// FileSystem is the slice of file access the loader needs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver picks the config and .env files for a binary.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles are the files a load will read. Explicit is set when the
// caller named the config file, which makes a missing file an error.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
	Explicit   bool
}

// ConfigCandidates lists the config files searched for name, in order.
func ConfigCandidates(name string) []string {
	return []string{
		"./" + name + ".yml",
		"./" + name + ".yaml",
		"./config.yml",
		"./config/" + name + ".yml",
	}
}

// EnvCandidates lists the .env files searched for name, in order.
func EnvCandidates(name string) []string {
	return []string{"./.env." + name, "./.env"}
}

// ResolveFiles returns the explicit paths from opts, falling back to the
// first existing candidate for each file.
func (r *Resolver) ResolveFiles(name string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
		Explicit:   opts.ConfigFile != "",
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(ConfigCandidates(name))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(EnvCandidates(name))
	}
	return resolved
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	Flags      *pflag.FlagSet
	// FlagKeys maps flag names to config keys, e.g. "registry" -> "pipeline.registry".
	// When nil, every flag binds under its own name.
	FlagKeys map[string]string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile names the config file. The file must exist and parse.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile names the .env file to load.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithFlags overlays command-line flags on top of file and environment
// values. Only flags the user actually set take effect.
func WithFlags(flags *pflag.FlagSet, keys map[string]string) LoaderOption {
	return func(lc *LoaderConfig) {
		lc.Flags = flags
		lc.FlagKeys = keys
	}
}

// LoadConfig reads the config file, the .env file, NAME_-prefixed
// environment variables and set flags, in that order of precedence, into
// cfg.
func LoadConfig(name string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(name, lc)

	v := viper.New()
	if err := readConfigFile(v, lc.FileSystem, files); err != nil {
		return err
	}

	if files.EnvFile != "" {
		if !lc.FileSystem.Exists(files.EnvFile) {
			return errors.NotFound("env file", files.EnvFile)
		}
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return errors.InvalidFormat("env file", "KEY=value lines").
				WithCause(err).
				WithDetail("path", files.EnvFile)
		}
	}
	bindEnv(v, envPrefix(name), os.Environ())

	if lc.Flags != nil {
		bindFlags(v, lc.Flags, lc.FlagKeys)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidInput("config", "values do not match the expected types").WithCause(err)
	}
	return nil
}

func readConfigFile(v *viper.Viper, fs FileSystem, files ResolvedFiles) error {
	if files.ConfigFile == "" {
		return nil
	}
	if !fs.Exists(files.ConfigFile) {
		if files.Explicit {
			return errors.NotFound("config file", files.ConfigFile)
		}
		return nil
	}
	v.SetConfigFile(files.ConfigFile)
	if err := v.ReadInConfig(); err != nil {
		return errors.InvalidFormat("config file", "yaml").
			WithCause(err).
			WithDetail("path", files.ConfigFile)
	}
	return nil
}

// bindFlags copies flags set on the command line into their config keys.
// With a non-nil keys map only the mapped flags are considered.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	flags.Visit(func(f *pflag.Flag) {
		key := f.Name
		if keys != nil {
			mapped, ok := keys[f.Name]
			if !ok {
				return
			}
			key = mapped
		}
		v.Set(key, f.Value.String())
	})
}

func envPrefix(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_"
}

// bindEnv sets every prefixed variable under each key it could spell.
// REDUCEKIT_OBSERVABILITY_SAMPLE_RATE lands on observability.sample_rate
// among others; viper only keeps the ones that match a config field.
func bindEnv(v *viper.Viper, prefix string, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		for _, variant := range envKeyVariants(strings.TrimPrefix(key, prefix)) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants nests an env key at each underscore in turn:
// OBSERVABILITY_SAMPLE_RATE gives observability_sample_rate,
// observability.sample_rate and observability.sample.rate.
func envKeyVariants(envKey string) []string {
	parts := strings.Split(strings.ToLower(envKey), "_")
	variants := []string{strings.Join(parts, "_")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return variants
}
