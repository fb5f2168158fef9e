package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/strager/fastruby/compiler"
	"gopkg.in/yaml.v3"
)

// defaultConfigPath is read when no -config flag is given. It may be
// missing.
const defaultConfigPath = "fastruby.yaml"

// supportedRuntime is the range of runtime library versions generated code
// is compatible with.
const supportedRuntime = ">= 0.1.0, < 1.0.0"

// Config is the contents of fastruby.yaml.
//
//	package: com.example.app    # package of the generated classes
//	main_class: Main            # class holding a script's top-level code
//	max_depth: 10000            # expression nesting limit, 0 for none
//	output: build/java
//	runtime:
//	  package: org.fastruby.runtime
//	  version: 0.3.1
//
// Without main_class the class name is derived from the file name.
type Config struct {
	Package   string        `yaml:"package"`
	MainClass string        `yaml:"main_class"`
	MaxDepth  int           `yaml:"max_depth"`
	Output    string        `yaml:"output"`
	Runtime   RuntimeConfig `yaml:"runtime"`
}

type RuntimeConfig struct {
	Package string `yaml:"package"`
	Version string `yaml:"version"`
}

func defaultConfig() Config {
	return Config{
		MaxDepth: compiler.DefaultMaxDepth,
		Output:   ".",
	}
}

// loadConfig reads a config file on top of the defaults. If path is empty,
// the default path is used, and a missing file is not an error.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func parseConfig(data []byte) (Config, error) {
	cfg := defaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Package != "" && !isQualifiedName(c.Package) {
		return fmt.Errorf("package %q is not a valid Java package name", c.Package)
	}
	if c.Runtime.Package != "" && !isQualifiedName(c.Runtime.Package) {
		return fmt.Errorf("runtime package %q is not a valid Java package name", c.Runtime.Package)
	}
	if c.MainClass != "" && !compiler.IsIdentifier(c.MainClass) {
		return fmt.Errorf("main_class %q is not a valid Java class name", c.MainClass)
	}
	if c.Runtime.Version != "" {
		if err := checkRuntimeVersion(c.Runtime.Version); err != nil {
			return err
		}
	}
	return nil
}

func checkRuntimeVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid runtime version %q: %w", version, err)
	}
	constraint, err := semver.NewConstraint(supportedRuntime)
	if err != nil {
		panic(err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("runtime version %s is not supported (need %s)", v, supportedRuntime)
	}
	return nil
}

func (c *Config) options() compiler.Options {
	return compiler.Options{
		Package:        c.Package,
		RuntimePackage: c.Runtime.Package,
		RuntimeVersion: c.Runtime.Version,
		MaxDepth:       c.MaxDepth,
	}
}

func isQualifiedName(name string) bool {
	for _, part := range strings.Split(name, ".") {
		if !compiler.IsIdentifier(part) {
			return false
		}
	}
	return true
}
