package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cornerstone/pkg/config"
	"github.com/matzehuels/cornerstone/pkg/errors"
	"github.com/matzehuels/cornerstone/pkg/placement"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

// isolate points config and cache lookups at temporary directories and
// returns a config file whose cache lives in its own directory.
func isolate(t *testing.T) (configPath, cacheDir string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir := t.TempDir()
	cacheDir = filepath.Join(dir, "cache")
	configPath = filepath.Join(dir, "config.toml")
	cfg := "[cache]\nbackend = \"file\"\ndir = " + tomlQuote(cacheDir) + "\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return configPath, cacheDir
}

func tomlQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// runCLI executes the root command and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "catalog", "--catalog", "toy")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	for _, want := range []string{"Catalog (4 suites)", "Exclusive", "5 bytes", "Fingerprint"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog output missing %q:\n%s", want, out)
		}
	}
}

func TestCatalogJSON(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "catalog", "-f", "json")
	if err != nil {
		t.Fatalf("catalog -f json: %v", err)
	}
	var suites []suite.Suite
	if err := json.Unmarshal([]byte(out), &suites); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(suites) != 6 || suites[0].Name != "a" || suites[0].CornerstoneLen != 64 {
		t.Errorf("suites = %+v", suites)
	}
}

func TestCatalogExport(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "catalog", "--catalog", "toy", "--export", "yaml")
	if err != nil {
		t.Fatalf("catalog --export: %v", err)
	}
	cat, err := suite.Parse([]byte(out), suite.FormatYAML)
	if err != nil {
		t.Fatalf("parse exported catalog: %v\n%s", err, out)
	}
	if cat.Fingerprint() != suite.Toy().Fingerprint() {
		t.Error("exported catalog differs from the toy catalog")
	}

	path := filepath.Join(t.TempDir(), "toy.toml")
	if _, err := runCLI(t, "catalog", "--catalog", "toy", "--export", "toml", "-o", path); err != nil {
		t.Fatalf("catalog --export -o: %v", err)
	}
	out, err = runCLI(t, "catalog", "--catalog", path)
	if err != nil {
		t.Fatalf("load exported file: %v", err)
	}
	if !strings.Contains(out, "Catalog (4 suites)") {
		t.Errorf("reloaded catalog output:\n%s", out)
	}
}

func TestCatalogOutputWithoutExport(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "catalog", "-o", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestPositionsCommand(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "positions", "--catalog", "toy")
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	for _, want := range []string{"Per suite", "Per offset", "0 1 3*", "0 1 2 4*"} {
		if !strings.Contains(out, want) {
			t.Errorf("positions output missing %q:\n%s", want, out)
		}
	}
}

func TestPositionsJSON(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "positions", "-f", "json")
	if err != nil {
		t.Fatalf("positions -f json: %v", err)
	}
	var alloc placement.Allocation
	if err := json.Unmarshal([]byte(out), &alloc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]int{"a": 0, "b": 64, "c": 96, "d": 160, "e": 192, "f": 256}
	for name, off := range want {
		if alloc.Exclusive[name] != off {
			t.Errorf("exclusive[%s] = %d, want %d", name, alloc.Exclusive[name], off)
		}
	}
}

func TestPlaceCommand(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "place", "d", "a", "-f", "json")
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	var got map[string]placement.Interval
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["a"] != (placement.Interval{Start: 0, End: 64}) {
		t.Errorf("a = %v, want [0,64)", got["a"])
	}
	if got["d"] != (placement.Interval{Start: 64, End: 96}) {
		t.Errorf("d = %v, want [64,96)", got["d"])
	}

	out, err = runCLI(t, "place", "a,d")
	if err != nil {
		t.Fatalf("place a,d: %v", err)
	}
	if !strings.Contains(out, "Placed 2 suites") || !strings.Contains(out, "96 bytes") {
		t.Errorf("place output:\n%s", out)
	}
}

func TestPlaceErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown suite", []string{"place", "a", "zz"}, errors.ErrCodeUnknownSuite},
		{"no suites", []string{"place"}, errors.ErrCodeInvalidInput},
		{"interactive with args", []string{"place", "-i", "a"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLayoutCommand(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "layout", "b", "c", "d", "e", "f")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	for _, want := range []string{"Header layout", "288 bytes", "64 bytes in 2 gaps"} {
		if !strings.Contains(out, want) {
			t.Errorf("layout output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "layout", "a,d", "--raw")
	if err != nil {
		t.Fatalf("layout --raw: %v", err)
	}
	want := "0: 0:64 \"a\"\n1: 64:96 \"d\"\n"
	if out != want {
		t.Errorf("layout --raw = %q, want %q", out, want)
	}
}

func TestVerifyCommand(t *testing.T) {
	cfg, _ := isolate(t)

	out, err := runCLI(t, "--config", cfg, "verify", "--catalog", "toy")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(out, "All 11 subsets can be placed") || !strings.Contains(out, iconFresh) {
		t.Errorf("first verify output:\n%s", out)
	}

	out, err = runCLI(t, "--config", cfg, "verify", "--catalog", "toy")
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if !strings.Contains(out, iconCached) {
		t.Errorf("second verify should be cached:\n%s", out)
	}

	out, err = runCLI(t, "--config", cfg, "verify", "--catalog", "toy", "--refresh")
	if err != nil {
		t.Fatalf("verify --refresh: %v", err)
	}
	if !strings.Contains(out, iconFresh) {
		t.Errorf("refreshed verify should be fresh:\n%s", out)
	}
}

const narrowCatalogTOML = `
[[suites]]
name = "s0"
cornerstone_len = 1

[[suites]]
name = "s1"
cornerstone_len = 1

[[suites]]
name = "s2"
cornerstone_len = 1

[[suites]]
name = "s3"
cornerstone_len = 4

[[suites]]
name = "s4"
cornerstone_len = 1
`

func TestVerifyUnplaceableCatalog(t *testing.T) {
	cfg, _ := isolate(t)
	path := filepath.Join(t.TempDir(), "narrow.toml")
	if err := os.WriteFile(path, []byte(narrowCatalogTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, args := range [][]string{
		{"verify", "--no-cache", "--catalog", path},
		{"--config", cfg, "verify", "--catalog", path},
		{"--config", cfg, "verify", "--catalog", path},
	} {
		out, err := runCLI(t, args...)
		if !errors.Is(err, errors.ErrCodeUnsatisfiable) {
			t.Fatalf("%v: err = %v, want %s", args, err, errors.ErrCodeUnsatisfiable)
		}
		if !strings.Contains(out, "Subset {s3, s4} cannot be placed") {
			t.Errorf("%v: output missing diagnostic:\n%s", args, out)
		}
		if !strings.Contains(out, "10 checked") {
			t.Errorf("%v: output missing checked count:\n%s", args, out)
		}
	}

	out, err := runCLI(t, "verify", "--no-cache", "--catalog", path, "-f", "json")
	if !errors.Is(err, errors.ErrCodeUnsatisfiable) {
		t.Fatalf("verify -f json: err = %v", err)
	}
	var rep struct {
		Failure []string `json:"failure"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if strings.Join(rep.Failure, ",") != "s3,s4" {
		t.Errorf("failure = %v, want [s3 s4]", rep.Failure)
	}
}

func TestVerifyEmptyRange(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "verify", "--no-cache", "--catalog", "toy", "--min", "5")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if strings.Contains(out, "can be placed") {
		t.Errorf("empty range should not report success:\n%s", out)
	}
}

func TestKeyerNamespace(t *testing.T) {
	tests := []struct {
		name      string
		backend   string
		namespace string
		prefix    string
	}{
		{"file scoped", config.BackendFile, "ns:", "ns:report:"},
		{"redis prefixes itself", config.BackendRedis, "ns:", "report:"},
		{"no namespace", config.BackendFile, "", "report:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&bytes.Buffer{}, LogInfo)
			c.cfg = config.Default()
			c.cfg.Cache.Backend = tt.backend
			c.cfg.Cache.Namespace = tt.namespace

			key := c.keyer().ReportKey("fp", 2, 4)
			if !strings.HasPrefix(key, tt.prefix) {
				t.Errorf("ReportKey = %q, want prefix %q", key, tt.prefix)
			}
			if tt.namespace != "" && strings.Count(key, tt.namespace) > 1 {
				t.Errorf("ReportKey = %q applies the namespace twice", key)
			}
		})
	}
}

func TestVerifyJSON(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "verify", "--no-cache", "--min", "2", "--max", "2", "-f", "json")
	if err != nil {
		t.Fatalf("verify -f json: %v", err)
	}
	var rep struct {
		Checked int      `json:"checked"`
		MinSize int      `json:"min_size"`
		MaxSize int      `json:"max_size"`
		Failure []string `json:"failure"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if rep.Checked != 15 || rep.MinSize != 2 || rep.MaxSize != 2 || len(rep.Failure) != 0 {
		t.Errorf("report = %+v", rep)
	}
}

func TestVerifyShow(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "verify", "--no-cache", "--catalog", "toy", "--max", "2", "--show")
	if err != nil {
		t.Fatalf("verify --show: %v", err)
	}
	if !strings.Contains(out, "Subset") || !strings.Contains(out, "a,b") {
		t.Errorf("verify --show output:\n%s", out)
	}
}

func TestRenderDOT(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "render", "positions", "-t", "dot", "--catalog", "toy")
	if err != nil {
		t.Fatalf("render positions: %v", err)
	}
	if !strings.HasPrefix(out, "graph positions {") || !strings.Contains(out, "cluster_") {
		t.Errorf("positions dot:\n%s", out)
	}

	out, err = runCLI(t, "render", "layout", "a", "d", "-t", "dot")
	if err != nil {
		t.Fatalf("render layout: %v", err)
	}
	if !strings.HasPrefix(out, "digraph header {") || !strings.Contains(out, "96 bytes, 0 free") {
		t.Errorf("layout dot:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "positions.dot")
	if _, err := runCLI(t, "render", "positions", "-t", "dot", "-o", path); err != nil {
		t.Fatalf("render -o: %v", err)
	}
	if data, err := os.ReadFile(path); err != nil || !bytes.HasPrefix(data, []byte("graph positions")) {
		t.Errorf("rendered file = %q, %v", data, err)
	}
}

func TestRenderErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown type", []string{"render", "positions", "-t", "gif"}, errors.ErrCodeInvalidFormat},
		{"png to stdout", []string{"render", "positions", "-t", "png"}, errors.ErrCodeInvalidInput},
		{"layout without suites", []string{"render", "layout", "-t", "dot"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestCacheCommands(t *testing.T) {
	cfg, dir := isolate(t)

	out, err := runCLI(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	if _, err := runCLI(t, "--config", cfg, "verify", "--catalog", "toy"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	out, err = runCLI(t, "--config", cfg, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared the file cache") {
		t.Errorf("cache clear output:\n%s", out)
	}

	out, err = runCLI(t, "--config", cfg, "verify", "--catalog", "toy")
	if err != nil {
		t.Fatalf("verify after clear: %v", err)
	}
	if !strings.Contains(out, iconFresh) {
		t.Errorf("verify after clear should be fresh:\n%s", out)
	}

	out, err = runCLI(t, "--no-cache", "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear --no-cache: %v", err)
	}
	if !strings.Contains(out, "Caching is disabled") {
		t.Errorf("cache clear --no-cache output:\n%s", out)
	}
}

func TestMissingCatalogFile(t *testing.T) {
	isolate(t)

	if _, err := runCLI(t, "catalog", "--catalog", filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing catalog file")
	}
}

func TestMissingConfigFile(t *testing.T) {
	isolate(t)

	if _, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "catalog"); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := runCLI(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("completion %s does not mention %s", shell, appName)
			}
		})
	}

	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestVersionFlag(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.HasPrefix(out, appName+" version") {
		t.Errorf("--version = %q", out)
	}
}

func TestParseSuiteArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{"separate", []string{"a", "d"}, []string{"a", "d"}, false},
		{"comma list", []string{"a,d"}, []string{"a", "d"}, false},
		{"mixed", []string{"a,b", "f"}, []string{"a", "b", "f"}, false},
		{"empty", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSuiteArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseSuiteArgs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestCompleteSuites(t *testing.T) {
	isolate(t)

	c := New(&bytes.Buffer{}, LogInfo)
	c.catalogRef = suite.BuiltinToy

	got, _ := c.completeSuites(nil, []string{"a,b"}, "")
	if strings.Join(got, ",") != "c,d" {
		t.Errorf("completeSuites = %v, want [c d]", got)
	}
	got, _ = c.completeSuites(nil, nil, "c")
	if strings.Join(got, ",") != "c" {
		t.Errorf("completeSuites(prefix c) = %v, want [c]", got)
	}
}
