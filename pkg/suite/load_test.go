package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/cornerstone/pkg/errors"
)

const tomlCatalog = `
# two suites
[[suites]]
name = "x25519"
cornerstone_len = 32
entrypoint_len = 48

[[suites]]
name = "p256"
cornerstone_len = 64
`

const yamlCatalog = `
suites:
  - name: x25519
    cornerstone_len: 32
    entrypoint_len: 48
  - name: p256
    cornerstone_len: 64
`

const jsoncCatalog = `{
  // two suites
  "suites": [
    {"name": "x25519", "cornerstone_len": 32, "entrypoint_len": 48},
    {"name": "p256", "cornerstone_len": 64,},
  ],
}`

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"toml", tomlCatalog, FormatTOML},
		{"yaml", yamlCatalog, FormatYAML},
		{"jsonc", jsoncCatalog, FormatJSONC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if c.Len() != 2 {
				t.Fatalf("Len() = %d, want 2", c.Len())
			}
			first := c.At(0)
			if first.Name != "x25519" || first.CornerstoneLen != 32 || first.EntrypointLen != 48 {
				t.Errorf("first suite = %+v", first)
			}
			if c.At(1).Name != "p256" || c.At(1).EntrypointLen != 0 {
				t.Errorf("second suite = %+v", c.At(1))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		code   errors.Code
	}{
		{"auto without path", tomlCatalog, FormatAuto, errors.ErrCodeInvalidFormat},
		{"broken toml", "[[suites]\nname=", FormatTOML, errors.ErrCodeInvalidCatalog},
		{"unknown yaml field", "suites:\n  - name: a\n    cornerstone: 4\n", FormatYAML, errors.ErrCodeInvalidCatalog},
		{"unknown json field", `{"suites":[{"name":"a","len":4}]}`, FormatJSONC, errors.ErrCodeInvalidCatalog},
		{"empty catalog", "suites: []\n", FormatYAML, errors.ErrCodeInvalidCatalog},
		{"non-positive length", `{"suites":[{"name":"a","cornerstone_len":0}]}`, FormatJSONC, errors.ErrCodeInvalidCatalog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			data, err := Marshal(Default(), f)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			c, err := Parse(data, f)
			if err != nil {
				t.Fatalf("Parse: %v\n%s", err, data)
			}
			if c.Fingerprint() != Default().Fingerprint() {
				t.Errorf("round trip changed catalog: %s", c)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yml")
	if err := os.WriteFile(path, []byte(yamlCatalog), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path, FormatAuto)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d", c.Len())
	}

	if _, err := LoadFile(filepath.Join(dir, "catalog.txt"), FormatAuto); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown extension: got %v", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.toml"), FormatAuto); err == nil {
		t.Error("missing file should fail")
	}
}

func TestFormatFlag(t *testing.T) {
	var f Format
	if f.String() != "auto" {
		t.Errorf("zero Format String() = %q", f.String())
	}
	for in, want := range map[string]Format{"json": FormatJSONC, "YML": FormatYAML, "toml": FormatTOML, "auto": FormatAuto} {
		if err := f.Set(in); err != nil {
			t.Fatalf("Set(%q): %v", in, err)
		}
		if f != want {
			t.Errorf("Set(%q) = %q, want %q", in, f, want)
		}
	}
	if err := f.Set("xml"); err == nil {
		t.Error("Set(xml) should fail")
	}
	if f.Type() != "format" {
		t.Errorf("Type() = %q", f.Type())
	}
}
