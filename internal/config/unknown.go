package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// LoadWithWarnings decodes JSON config data and returns any unknown field warnings.
func LoadWithWarnings(data []byte) (*Config, []string, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, detectUnknownFields(data), nil
}

// detectUnknownFields compares raw JSON with known struct fields, at the
// root and one level down in each section.
func detectUnknownFields(data []byte) []string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	var warnings []string
	rootType := reflect.TypeOf(Config{})
	knownTopLevel := getJSONFields(rootType)

	for _, key := range sortedKeys(raw) {
		if key == "$schema" {
			continue // $schema is explicitly allowed and ignored
		}
		field, ok := knownTopLevel[key]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
			continue
		}
		if field.Type.Kind() == reflect.Struct {
			warnings = append(warnings, checkSectionUnknownFields(key, field.Type, raw[key])...)
		}
	}

	return warnings
}

func checkSectionUnknownFields(section string, t reflect.Type, data json.RawMessage) []string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	var warnings []string
	known := getJSONFields(t)
	for _, key := range sortedKeys(fields) {
		field, ok := known[key]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown field %q in %s (ignored)", key, section))
			continue
		}
		if field.Type.Kind() == reflect.Struct && !isScalarStruct(field.Type) {
			warnings = append(warnings, checkSectionUnknownFields(section+"."+key, field.Type, fields[key])...)
		}
	}
	return warnings
}

// isScalarStruct reports struct types that decode from a scalar.
func isScalarStruct(t reflect.Type) bool {
	return t == reflect.TypeOf(Duration{})
}

// getJSONFields returns the struct fields keyed by JSON name.
func getJSONFields(t reflect.Type) map[string]reflect.StructField {
	fields := make(map[string]reflect.StructField)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		// Extract field name from tag (before comma)
		name := strings.Split(tag, ",")[0]
		if name != "" {
			fields[name] = field
		}
	}
	return fields
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
