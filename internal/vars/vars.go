// Package vars loads the data a template is rendered with.
//
// Data comes from files (YAML, TOML or JSON, chosen by extension) and from
// key=value assignments given on the command line. Later inputs override
// earlier ones; nested maps are merged key by key.
package vars

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for data files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported data file format")

// LoadFile reads a data file into a map. The top level must be a mapping.
func LoadFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}

	data := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(raw, &data)
	case ".toml":
		err = toml.Unmarshal(raw, &data)
	case ".json":
		err = json.Unmarshal(raw, &data)
	default:
		return nil, fmt.Errorf("%w: %q (use .yml, .yaml, .toml or .json)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if data == nil {
		// An empty YAML document decodes to a nil map.
		data = map[string]any{}
	}
	return data, nil
}

// ParseAssignment parses key=value. Dotted keys build nested maps and the
// value is decoded as a YAML scalar, so count=3 yields an int and
// draft=true a bool. Anything that is not a scalar stays a string.
func ParseAssignment(assignment string) (map[string]any, error) {
	key, raw, ok := strings.Cut(assignment, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return nil, fmt.Errorf("invalid assignment %q: expected key=value", assignment)
	}

	parts := strings.Split(key, ".")
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid assignment %q: empty key segment", assignment)
		}
	}

	var value any = raw
	var decoded any
	if err := yaml.Unmarshal([]byte(raw), &decoded); err == nil {
		switch decoded.(type) {
		case bool, int, float64:
			value = decoded
		}
	}

	result := map[string]any{parts[len(parts)-1]: value}
	for i := len(parts) - 2; i >= 0; i-- {
		result = map[string]any{parts[i]: result}
	}
	return result, nil
}

// Merge folds src into dst and returns dst. Values from src win, except
// that two maps under the same key are merged recursively.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = Merge(dstMap, srcMap)
			continue
		}
		dst[key] = value
	}
	return dst
}

// Load reads files in order, then applies assignments in order.
func Load(files, assignments []string) (map[string]any, error) {
	data := map[string]any{}
	for _, path := range files {
		fileData, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		data = Merge(data, fileData)
	}
	for _, assignment := range assignments {
		set, err := ParseAssignment(assignment)
		if err != nil {
			return nil, err
		}
		data = Merge(data, set)
	}
	return data, nil
}
