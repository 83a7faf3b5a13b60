package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a YAML or JSON document, picking the codec by extension.
func LoadFromFile(path string) (Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	var doc Document
	switch format(path) {
	case "yaml":
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return Document{}, fmt.Errorf("parse document: %w", err)
		}
	case "json":
		if err := json.Unmarshal(content, &doc); err != nil {
			return Document{}, fmt.Errorf("parse document: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if _, err := doc.OffsetUnit(); err != nil {
		return Document{}, fmt.Errorf("document %q: %w", doc.Name, err)
	}
	return doc, nil
}

// SaveToFile writes doc in the format matching the path's extension.
func SaveToFile(path string, doc Document) error {
	var (
		content []byte
		err     error
	)
	switch format(path) {
	case "yaml":
		content, err = yaml.Marshal(doc)
	case "json":
		content, err = json.MarshalIndent(doc, "", "  ")
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ParseLine decodes a single JSON-lines record.
func ParseLine(line string) (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(line), &doc); err != nil {
		return Document{}, fmt.Errorf("parse record: %w", err)
	}
	if _, err := doc.OffsetUnit(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return ""
	}
}
