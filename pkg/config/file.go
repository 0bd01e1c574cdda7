package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileSource implements ConfigSource for a YAML configuration file.
// YAML keys are the lowercase form of the environment variable keys, e.g.
// ENDPOINT_URLS becomes endpoint_urls. List values are joined with commas so
// endpoints can be written either as a YAML sequence or a single string.
type FileSource struct {
	values map[string]interface{}
}

// NewFileSource reads and parses a YAML config file from the given filesystem.
func NewFileSource(fs afero.Fs, path string) (*FileSource, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	values := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &FileSource{values: values}, nil
}

func (f *FileSource) lookup(key string) (interface{}, bool) {
	value, exists := f.values[strings.ToLower(key)]
	return value, exists
}

func (f *FileSource) GetString(key string) (string, bool) {
	value, exists := f.lookup(key)
	if !exists {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, v != ""
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		joined := strings.Join(parts, ",")
		return joined, joined != ""
	default:
		return "", false
	}
}

func (f *FileSource) GetInt(key string) (int, bool) {
	value, exists := f.lookup(key)
	if !exists {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i, true
		}
	}
	return 0, false
}

func (f *FileSource) GetBool(key string) (bool, bool) {
	value, exists := f.lookup(key)
	if !exists {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b, true
		}
	}
	return false, false
}
