package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Format identifies a catalog encoding.
type Format string

//revive:disable:exported
const (
	FormatAuto Format = ""
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

//revive:enable:exported

var (
	// ErrEmptyInput is returned when there is nothing to parse.
	ErrEmptyInput = errors.New("empty catalog input")
	// ErrUnsupportedFormat is returned for an unknown Format value.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

var (
	tomlSection  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValue = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// FormatFromPath guesses a format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	}
	return FormatAuto
}

// Detect sniffs the encoding of data. TOML is checked before JSON because a
// "[[types]]" header also starts with a bracket.
func Detect(data []byte) Format {
	s := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(s, "---"):
		return FormatYAML
	case isLikelyTOML(s):
		return FormatTOML
	case strings.HasPrefix(s, "{") || strings.HasPrefix(s, "["):
		return FormatJSON
	}
	return FormatYAML
}

func isLikelyTOML(input string) bool {
	sections, pairs, lines := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines++
		if tomlSection.MatchString(line) {
			sections++
		}
		if tomlKeyValue.MatchString(line) {
			pairs++
		}
	}
	return sections > 0 || (lines > 0 && pairs > lines/2)
}

// Parse decodes a catalog. With FormatAuto the encoding is sniffed.
//
// YAML input may hold several documents; each document is either a mapping
// with a "types" list, a bare list of types, or a single type mapping. JSON
// accepts the same three shapes. TOML must use [[types]] tables.
func Parse(data []byte, format Format) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}
	if format == FormatAuto {
		format = Detect(data)
	}
	switch format {
	case FormatYAML:
		return parseYAML(data)
	case FormatJSON:
		return parseJSON(data)
	case FormatTOML:
		return parseTOML(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func parseYAML(data []byte) (*Catalog, error) {
	out := &Catalog{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for doc := 0; ; doc++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid YAML document %d: %w", doc+1, err)
		}
		if len(node.Content) == 0 {
			continue
		}
		root := node.Content[0]
		switch {
		case root.Kind == yaml.SequenceNode:
			var types []TypeDescriptor
			if err := root.Decode(&types); err != nil {
				return nil, fmt.Errorf("invalid YAML document %d: %w", doc+1, err)
			}
			out.Types = append(out.Types, types...)
		case root.Kind == yaml.MappingNode && hasKey(root, "types"):
			var c Catalog
			if err := root.Decode(&c); err != nil {
				return nil, fmt.Errorf("invalid YAML document %d: %w", doc+1, err)
			}
			out.Types = append(out.Types, c.Types...)
		case root.Kind == yaml.MappingNode:
			var t TypeDescriptor
			if err := root.Decode(&t); err != nil {
				return nil, fmt.Errorf("invalid YAML document %d: %w", doc+1, err)
			}
			out.Types = append(out.Types, t)
		default:
			return nil, fmt.Errorf("invalid YAML document %d: expected a mapping or a list", doc+1)
		}
	}
	if len(out.Types) == 0 {
		return nil, ErrEmptyInput
	}
	return out, nil
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

func parseJSON(data []byte) (*Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if trimmed[0] == '[' {
		var types []TypeDescriptor
		if err := json.Unmarshal(trimmed, &types); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return &Catalog{Types: types}, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, ok := probe["types"]; ok {
		var c Catalog
		if err := json.Unmarshal(trimmed, &c); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return &c, nil
	}
	var t TypeDescriptor
	if err := json.Unmarshal(trimmed, &t); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return &Catalog{Types: []TypeDescriptor{t}}, nil
}

func parseTOML(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	if len(c.Types) == 0 {
		return nil, ErrEmptyInput
	}
	return &c, nil
}

// LoadFile reads and parses one catalog file, picking the format from its
// extension and falling back to detection.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadFiles parses the given files concurrently and concatenates their types
// in argument order.
func LoadFiles(ctx context.Context, paths ...string) (*Catalog, error) {
	parts := make([]*Catalog, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := LoadFile(p)
			if err != nil {
				return err
			}
			parts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(parts...), nil
}

// Merge concatenates catalogs, skipping nils.
func Merge(catalogs ...*Catalog) *Catalog {
	out := &Catalog{}
	for _, c := range catalogs {
		if c != nil {
			out.Types = append(out.Types, c.Types...)
		}
	}
	return out
}
