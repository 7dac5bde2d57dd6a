package suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cornerstone/pkg/errors"
)

// Format identifies a catalog file encoding. It implements the pflag.Value
// interface so it can be bound directly to a command-line flag.
type Format string

// Supported catalog formats.
const (
	FormatAuto  Format = ""
	FormatTOML  Format = "toml"
	FormatYAML  Format = "yaml"
	FormatJSONC Format = "jsonc"
)

// Formats lists the explicit formats in display order.
var Formats = []Format{FormatTOML, FormatYAML, FormatJSONC}

// String returns the format name, "auto" for FormatAuto.
func (f *Format) String() string {
	if *f == FormatAuto {
		return "auto"
	}
	return string(*f)
}

// Set parses a format name. "json" is accepted as an alias for jsonc and
// "yml" for yaml.
func (f *Format) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		*f = FormatAuto
	case "toml":
		*f = FormatTOML
	case "yaml", "yml":
		*f = FormatYAML
	case "json", "jsonc":
		*f = FormatJSONC
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown catalog format %q (want toml, yaml or jsonc)", s)
	}
	return nil
}

// Type names the flag value type in usage output.
func (f *Format) Type() string { return "format" }

// FormatFromPath guesses a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	}
	return FormatAuto, errors.New(errors.ErrCodeInvalidFormat, "cannot infer catalog format from %q", path)
}

// catalogFile is the on-disk shape shared by all formats:
//
//	[[suites]]
//	name = "a"
//	cornerstone_len = 64
//	entrypoint_len = 48
type catalogFile struct {
	Suites []Suite `json:"suites" toml:"suites" yaml:"suites"`
}

// Parse decodes a catalog in the given format. FormatAuto is rejected
// because raw bytes carry no extension to sniff.
func Parse(data []byte, format Format) (*Catalog, error) {
	var file catalogFile

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode TOML catalog")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode YAML catalog")
		}
	case FormatJSONC:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode JSONC catalog")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported catalog format %q", string(format))
	}

	return NewCatalog(file.Suites...)
}

// LoadFile reads a catalog file. With FormatAuto the format is inferred
// from the file extension.
func LoadFile(path string, format Format) (*Catalog, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if format == FormatAuto {
		f, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Marshal encodes a catalog in the given format. The output parses back
// with [Parse] into an identical catalog.
func Marshal(c *Catalog, format Format) ([]byte, error) {
	file := catalogFile{Suites: c.Suites()}

	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(file); err != nil {
			return nil, fmt.Errorf("encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		return yaml.Marshal(file)
	case FormatJSONC:
		return json.MarshalIndent(file, "", "  ")
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported catalog format %q", string(format))
}
