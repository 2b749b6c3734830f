package layoutfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a snapshot encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the encoding from a file extension; anything other than
// .json is YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads a snapshot from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file %q: %w", path, err)
	}
	f, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout file %q: %w", path, err)
	}
	return f, nil
}

// Parse decodes a snapshot.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &f)
	default:
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Marshal encodes f; JSON is indented.
func Marshal(f *File, format Format) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("layout file is nil")
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode layout: %w", err)
		}
		return append(data, '\n'), nil
	default:
		data, err := yaml.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("failed to encode layout: %w", err)
		}
		return data, nil
	}
}

// Write stores f at path, creating parent directories.
func Write(path string, f *File) error {
	data, err := Marshal(f, FormatFor(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create layout directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write layout file %q: %w", path, err)
	}
	return nil
}
