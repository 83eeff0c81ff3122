package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	maxCatalogSize = 4 * 1024 * 1024
)

// ErrUnknownFormat is returned for files that are neither JSON nor YAML.
var ErrUnknownFormat = errors.New("unknown catalog format")

// readFile reads a catalog file, refusing anything over maxCatalogSize.
func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > maxCatalogSize {
		return nil, fmt.Errorf("catalog file too large: %d bytes (max %d)", info.Size(), maxCatalogSize)
	}
	return io.ReadAll(io.LimitReader(file, maxCatalogSize))
}

func isJSONFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// IsCatalogFile reports whether path has a catalog extension.
func IsCatalogFile(path string) bool {
	return isJSONFile(path) || isYAMLFile(path)
}

// unmarshal decodes data using path to choose JSON or YAML.
func unmarshal(path string, data []byte, v any) error {
	switch {
	case isJSONFile(path):
		if err := detectCaseInsensitiveKeyCollisions(data); err != nil {
			return fmt.Errorf("case-insensitive key collision detected: %w", err)
		}
		return json.Unmarshal(data, v)
	case isYAMLFile(path):
		return yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// detectCaseInsensitiveKeyCollisions rejects JSON objects holding keys that
// differ only by case; encoding/json would silently pick one of them.
func detectCaseInsensitiveKeyCollisions(data []byte) error {
	var res any
	// Syntax errors are reported by the real decode.
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&res); err != nil {
		return nil
	}
	return checkKeys(res, "")
}

func checkKeys(obj any, path string) error {
	switch v := obj.(type) {
	case map[string]any:
		seen := make(map[string]string, len(v))
		for key, value := range v {
			lower := strings.ToLower(key)
			if prev, ok := seen[lower]; ok {
				return fmt.Errorf("keys %q and %q at %q", prev, key, path)
			}
			seen[lower] = key
			if err := checkKeys(value, path+"."+key); err != nil {
				return err
			}
		}
	case []any:
		for i, value := range v {
			if err := checkKeys(value, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}
