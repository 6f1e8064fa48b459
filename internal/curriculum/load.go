package curriculum

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	pyerrors "github.com/zellyn/pylearn/internal/errors"
)

//go:embed course.yaml
var courseYAML []byte

// Format names a manifest serialization.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// document is the on-disk shape of a manifest.
type document struct {
	Title string `yaml:"title" json:"title"`
	// AutoLink derives prev/next from lesson order, so authors can omit them.
	AutoLink bool     `yaml:"autolink,omitempty" json:"autolink,omitempty"`
	Modules  []Module `yaml:"modules" json:"modules"`
}

// Default returns the built-in course.
func Default() (*Manifest, error) {
	return Parse(courseYAML, FormatYAML)
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", pyerrors.NewValidationError("manifest", path, "unknown manifest extension (want .yaml, .yml or .json)")
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pyerrors.NewIOError("read", path, err)
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("loading manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a manifest.
func Parse(data []byte, format Format) (*Manifest, error) {
	var doc document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, pyerrors.NewParseError("YAML", "", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, pyerrors.NewParseError("JSON", "", err)
		}
	default:
		return nil, pyerrors.NewValidationError("format", string(format), "unsupported manifest format")
	}

	modules := doc.Modules
	if doc.AutoLink {
		modules = Link(modules)
	}
	return New(doc.Title, modules)
}

// Encode serializes the manifest in the given format. The output parses back
// to an equal manifest.
func (m *Manifest) Encode(format Format) ([]byte, error) {
	doc := document{Title: m.title, Modules: m.Modules()}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		return data, nil
	}
	return nil, pyerrors.NewValidationError("format", string(format), "unsupported manifest format")
}
