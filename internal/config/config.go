package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ctestkit/aitestrunner/internal/schema"
)

// FileBaseName is the configuration file name without extension.
const FileBaseName = ".ai-test-runner"

// supportedExtensions lists config file extensions in discovery order.
var supportedExtensions = []string{".yaml", ".yml", ".toml", ".json"}

// Discover returns the configuration file in repoPath, if any.
// The first existing file in supportedExtensions order wins.
func Discover(repoPath string) (string, bool) {
	for _, ext := range supportedExtensions {
		path := filepath.Join(repoPath, FileBaseName+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load reads a configuration file, validates it against the schema and
// returns it without defaults, together with unknown-field warnings.
func Load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	jsonData, err := toJSON(path, data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file %s: %w", filepath.Base(path), err)
	}

	if err := schema.ValidateConfig(jsonData); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	cfg, warnings, err := LoadWithWarnings(jsonData)
	if err != nil {
		return nil, nil, err
	}
	return cfg, warnings, nil
}

// LoadAndValidate reads a config file, applies defaults, validates, and returns warnings.
func LoadAndValidate(path string) (*Config, []string, error) {
	cfg, warnings, err := Load(path)
	if err != nil {
		return nil, nil, err
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, warnings, err
	}
	return cfg, warnings, nil
}

// toJSON converts a YAML, TOML or JSON document to JSON, chosen by extension.
func toJSON(path string, data []byte) ([]byte, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte("{}"), nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return data, nil
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		normalized, err := normalizeYAML(doc)
		if err != nil {
			return nil, err
		}
		if normalized == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(normalized)
	case ".toml":
		doc := make(map[string]interface{})
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, err
		}
		return json.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported config format %q (use %s)", ext, strings.Join(supportedExtensions, ", "))
	}
}

// normalizeYAML converts map[interface{}]interface{} nodes (non-string keys)
// into JSON-compatible maps.
func normalizeYAML(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			key, ok := k.(string)
			if !ok {
				key = fmt.Sprint(k)
			}
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			n, err := normalizeYAML(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return val, nil
	}
}
