package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/fastruby/compiler"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	be.Err(t, err, nil)
	be.Equal(t, cfg, defaultConfig())
	be.Equal(t, cfg.MaxDepth, compiler.DefaultMaxDepth)
	be.Equal(t, cfg.Output, ".")
}

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig([]byte(`
package: com.example.app
main_class: Main
max_depth: 0
output: build/java
runtime:
  package: org.fastruby.runtime
  version: 0.3.1
`))
	be.Err(t, err, nil)
	be.Equal(t, cfg, Config{
		Package:   "com.example.app",
		MainClass: "Main",
		MaxDepth:  0,
		Output:    "build/java",
		Runtime: RuntimeConfig{
			Package: "org.fastruby.runtime",
			Version: "0.3.1",
		},
	})

	be.Equal(t, cfg.options(), compiler.Options{
		Package:        "com.example.app",
		RuntimePackage: "org.fastruby.runtime",
		RuntimeVersion: "0.3.1",
	})
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		yaml string
		want string
	}{
		{"bogus: 1\n", "field bogus not found"},
		{"max_depth: -1\n", "max_depth must not be negative, got -1"},
		{"package: com.1bad\n", `package "com.1bad" is not a valid Java package name`},
		{"package: com..app\n", `package "com..app" is not a valid Java package name`},
		{"runtime:\n  package: org.run-time\n", `runtime package "org.run-time" is not a valid Java package name`},
		{"main_class: Hello.World\n", `main_class "Hello.World" is not a valid Java class name`},
		{"runtime:\n  version: banana\n", `invalid runtime version "banana"`},
		{"runtime:\n  version: 1.2.0\n", "runtime version 1.2.0 is not supported (need >= 0.1.0, < 1.0.0)"},
		{"runtime:\n  version: 0.0.9\n", "runtime version 0.0.9 is not supported"},
	}
	for _, test := range tests {
		t.Run(test.yaml, func(t *testing.T) {
			_, err := parseConfig([]byte(test.yaml))
			be.True(t, err != nil)
			if !strings.Contains(err.Error(), test.want) {
				t.Fatalf("expected error containing %q, got %q", test.want, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	be.Err(t, os.WriteFile(path, []byte("main_class: App\n"), 0o644), nil)

	cfg, err := loadConfig(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.MainClass, "App")
	be.Equal(t, cfg.MaxDepth, compiler.DefaultMaxDepth)

	_, err = loadConfig(filepath.Join(dir, "missing.yaml"))
	be.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.yaml")
	be.Err(t, os.WriteFile(bad, []byte("max_depth: -5\n"), 0o644), nil)
	_, err = loadConfig(bad)
	be.Equal(t, err.Error(), bad+": max_depth must not be negative, got -5")
}

func TestIsQualifiedName(t *testing.T) {
	be.True(t, isQualifiedName("a"))
	be.True(t, isQualifiedName("com.example.app"))
	be.True(t, isQualifiedName("org.$gen._x1"))
	be.True(t, !isQualifiedName(""))
	be.True(t, !isQualifiedName("a."))
	be.True(t, !isQualifiedName("a.9b"))
	be.True(t, !isQualifiedName("a b"))
}
