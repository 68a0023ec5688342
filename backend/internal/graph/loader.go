package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a dataset file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from a file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported dataset extension: %s", filepath.Ext(path))
}

// fileData is the on-disk shape. Generators emit either "edges" or "links".
type fileData struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
	Links []Edge `json:"links" yaml:"links"`
}

func (f fileData) data() Data {
	edges := make([]Edge, 0, len(f.Edges)+len(f.Links))
	edges = append(edges, f.Edges...)
	edges = append(edges, f.Links...)
	return Data{Nodes: f.Nodes, Edges: edges}
}

// UnmarshalJSON accepts "links" as an alias of "edges"
func (d *Data) UnmarshalJSON(b []byte) error {
	var f fileData
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*d = f.data()
	return nil
}

// UnmarshalYAML accepts "links" as an alias of "edges"
func (d *Data) UnmarshalYAML(node *yaml.Node) error {
	var f fileData
	if err := node.Decode(&f); err != nil {
		return err
	}
	*d = f.data()
	return nil
}

// Decode reads a dataset in the given format
func Decode(r io.Reader, format Format) (Data, error) {
	var d Data
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return Data{}, fmt.Errorf("failed to decode json dataset: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&d); err != nil {
			return Data{}, fmt.Errorf("failed to decode yaml dataset: %w", err)
		}
	default:
		return Data{}, fmt.Errorf("unsupported dataset format: %s", format)
	}
	return d, nil
}

// Encode writes a dataset in the given format
func Encode(w io.Writer, d Data, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported dataset format: %s", format)
}

// LoadFile reads a JSON or YAML dataset from disk
func LoadFile(path string) (Data, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return Data{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Decode(f, format)
}
