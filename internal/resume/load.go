package resume

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extensions lists the file extensions Load accepts.
var Extensions = []string{".json", ".yaml", ".yml"}

// Supported reports whether path has an extension Load accepts.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Parse decodes a JSON or YAML document. JSON is recognised by its leading
// brace; anything else goes through the YAML parser.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrUnsupportedFormat)
	}

	var raw map[string]any
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		if raw == nil {
			return nil, fmt.Errorf("%w: document is not a mapping", ErrUnsupportedFormat)
		}
	}

	return Decode(raw)
}

// Decode builds a defaulted Document from a generic map. Scalars are coerced
// where the model expects text, so a numeric GPA becomes its decimal string.
func Decode(raw map[string]any) (*Document, error) {
	var doc Document

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	doc.ApplyDefaults()
	return &doc, nil
}
