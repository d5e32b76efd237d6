package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/threadmap/pkg/errors"
)

// Serialization formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath picks the serialization format from a file extension.
// Anything other than .yaml or .yml is JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph encodes g in the given format.
func MarshalGraph(g Graph, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(&buf, g, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes a graph in the given format.
func UnmarshalGraph(data []byte, format string) (Graph, error) {
	return ReadGraph(bytes.NewReader(data), format)
}

// WriteGraph writes g to w.
func WriteGraph(w io.Writer, g Graph, format string) error {
	return encode(w, g, format)
}

// ReadGraph decodes a graph from r.
func ReadGraph(r io.Reader, format string) (Graph, error) {
	var g Graph
	if err := decode(r, &g, format); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// WriteGraphFile writes g to path, choosing the format by extension.
// The file is created with 0644 permissions.
func WriteGraphFile(g Graph, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteGraph(w, g, FormatFromPath(path)) })
}

// ReadGraphFile reads a graph file, choosing the format by extension.
func ReadGraphFile(path string) (Graph, error) {
	f, err := openFile(path)
	if err != nil {
		return Graph{}, err
	}
	defer f.Close()
	g, err := ReadGraph(f, FormatFromPath(path))
	if err != nil {
		return Graph{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func encode(w io.Writer, v any, format string) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %q", format)
	}
}

func decode(r io.Reader, v any, format string) error {
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %q", format)
	}
	return nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
