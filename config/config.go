// Package config loads optional YAML defaults for command-line flags.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// EnvVar names an extra configuration file checked before the default locations
const EnvVar = "THESISBACKUP_CONFIG"

// FileName is the configuration file looked up in the working directory
const FileName = "thesisbackup.yaml"

// DefaultPaths returns the configuration files consulted in order. Missing files
// are ignored by kong.
func DefaultPaths() []string {
	var paths []string
	if p := os.Getenv(EnvVar); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, FileName)
	if dir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(dir, ".config", "thesisbackup", "config.yaml"))
	}
	return paths
}

// YAML is a kong.ConfigurationLoader. Top-level keys are flag names, with '-' and '_'
// interchangeable. A mapping named after a command holds values for that command only
// and wins over the top level:
//
//	min-size: 2
//	exclude-dir: [Python, node_modules]
//	backup:
//	  include_docx: true
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	values = normalizeKeys(values)

	var f kong.ResolverFunc = func(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		name := normalizeKey(flag.Name)
		if node := parent.Node(); node != nil {
			if section, ok := values[normalizeKey(node.Name)].(map[string]any); ok {
				if raw, ok := section[name]; ok {
					return flagValue(flag.Name, raw)
				}
			}
		}
		raw, ok := values[name]
		if !ok {
			return nil, nil
		}
		return flagValue(flag.Name, raw)
	}
	return f, nil
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "_", "-")
}

func normalizeKeys(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if m, ok := v.(map[string]any); ok {
			v = normalizeKeys(m)
		}
		out[normalizeKey(k)] = v
	}
	return out
}

// flagValue renders a YAML value as the string kong would see on the command line.
// Sequences become comma separated lists.
func flagValue(name string, raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			switch item.(type) {
			case []any, map[string]any:
				return nil, fmt.Errorf("config key %q: nested values are not supported", name)
			}
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ","), nil
	case map[string]any:
		return nil, fmt.Errorf("config key %q: expected a value, got a mapping", name)
	default:
		return fmt.Sprint(v), nil
	}
}
