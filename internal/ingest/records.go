// Package ingest reads activity records from JSON, NDJSON or YAML files and
// submits them in batches.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/ecoquest/internal/logging"
)

// Format is an input file format.
type Format string

// Supported formats.
const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
)

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported import format (want .json, .ndjson, .jsonl, .yaml or .yml)")

// maxLineBytes bounds one NDJSON line.
const maxLineBytes = 1 << 20

// CategoryRef names a category by ID or name. Files may write it as a number
// or a string.
type CategoryRef string

// UnmarshalJSON accepts a JSON string or number.
func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CategoryRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("category must be a name or ID: %w", err)
	}
	*c = CategoryRef(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar.
func (c *CategoryRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: category must be a name or ID", node.Line)
	}
	*c = CategoryRef(node.Value)
	return nil
}

// Record is one activity to import.
type Record struct {
	Category     CategoryRef    `json:"category" yaml:"category"`
	ActivityType string         `json:"activity_type" yaml:"activity_type"`
	Date         string         `json:"date,omitempty" yaml:"date,omitempty"`
	Details      map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// envelope is the object form of a JSON or YAML file.
type envelope struct {
	Activities []Record `json:"activities" yaml:"activities"`
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".ndjson", ".jsonl":
		return FormatNDJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseFile reads records from path.
func ParseFile(ctx context.Context, path string) ([]Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	records, err := Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "ingest").
		Str("path", path).
		Str("format", string(format)).
		Int("records", len(records)).
		Msg("parsed import file")
	return records, nil
}

// Parse reads records in format from r. JSON and YAML files hold either a
// list of records or an object with an "activities" list.
func Parse(r io.Reader, format Format) ([]Record, error) {
	switch format {
	case FormatJSON:
		return parseJSON(r)
	case FormatNDJSON:
		return parseNDJSON(r)
	case FormatYAML:
		return parseYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func parseJSON(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if data[0] == '[' {
		var records []Record
		if err = dec.Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var env envelope
	if err = dec.Decode(&env); err != nil {
		return nil, err
	}
	return env.Activities, nil
}

func parseNDJSON(r io.Reader) ([]Record, error) {
	var records []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)

	for line := 1; sc.Scan(); line++ {
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, sc.Err()
}

func parseYAML(r io.Reader) ([]Record, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var records []Record
		if err := root.Decode(&records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var env envelope
	if err := root.Decode(&env); err != nil {
		return nil, err
	}
	return env.Activities, nil
}
