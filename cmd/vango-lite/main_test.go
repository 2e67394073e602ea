package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vango-lite/internal/config"
	"github.com/vango-dev/vango-lite/internal/errors"
)

// run executes the CLI with args and a config file in a temp dir.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vango-lite.yaml")
	cfg := "name: cli-test\nexport:\n  dir: " + filepath.Join(dir, "out") + "\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}
}

func TestDemos(t *testing.T) {
	out, _, err := run(t, "demos")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"counter", "effects", "hello", "lazy", "memo"} {
		if !strings.Contains(out, name) {
			t.Errorf("demos output missing %q:\n%s", name, out)
		}
	}
}

func TestRenderCounterClicks(t *testing.T) {
	out, _, err := run(t, "render", "counter", "--click", "inc", "--click", "inc", "--click", "dec")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<span id="count">Count: 1</span>`) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRenderLazyWait(t *testing.T) {
	out, _, err := run(t, "render", "lazy", "--wait", "--delay", "1ms")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<figure id="chart">`) {
		t.Errorf("lazy component not resolved:\n%s", out)
	}
}

func TestRenderLazyWithoutWait(t *testing.T) {
	out, _, err := run(t, "render", "lazy", "--delay", "1h")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Loading component...") {
		t.Errorf("expected placeholder:\n%s", out)
	}
}

func TestRenderExportToDisk(t *testing.T) {
	_, stderr, err := run(t, "render", "hello", "--export")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "Exported ") || !strings.Contains(stderr, ".html") {
		t.Errorf("stderr = %q, want export location", stderr)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"unknown demo", []string{"render", "nope"}, "E160"},
		{"missing element", []string{"render", "counter", "--click", "missing"}, "E161"},
		{"bad log level", []string{"--log-level", "loud", "render", "hello"}, "E120"},
		{"bad trace exporter", []string{"--trace-exporter", "zipkin", "render", "hello"}, "E120"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if !errors.IsCode(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderTracesToStderr(t *testing.T) {
	_, stderr, err := run(t, "--trace-exporter", "stdout", "render", "counter", "--click", "inc")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, `"Name": "vango.render_pass"`) {
		t.Errorf("expected render pass spans on stderr, got:\n%s", stderr)
	}
}

func TestMissingConfigFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.json"), "render", "hello"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestReportError(t *testing.T) {
	errors.DisableColors()
	defer errors.EnableColors()

	var b bytes.Buffer
	(&app{}).reportError(&b, errors.New("E160").WithDetail("clock"))
	if !strings.Contains(b.String(), "ERROR E160: Unknown demo") {
		t.Errorf("text report = %q", b.String())
	}

	b.Reset()
	(&app{logFormat: "json"}).reportError(&b, errors.New("E160").WithDetail("clock"))
	want := `{"code":"E160","category":"cli","message":"Unknown demo","detail":"clock"}` + "\n"
	if b.String() != want {
		t.Errorf("json report = %q, want %q", b.String(), want)
	}
}

func TestInitWritesConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	_, errOut, err := run(t, "init", "--dir", dir)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, config.YAMLConfigFileName)
	if !strings.Contains(errOut, "Wrote "+path) || !strings.Contains(errOut, "http://localhost:3000") {
		t.Errorf("stderr = %q", errOut)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Name != "site" || cfg.PreviewURL() != "http://localhost:3000" {
		t.Errorf("loaded Name/PreviewURL = %q/%q", cfg.Name, cfg.PreviewURL())
	}

	if _, _, err := run(t, "init", "--dir", dir); err == nil {
		t.Error("second init without --force succeeded")
	}
	if _, _, err := run(t, "init", "--dir", dir, "--json", "--force"); err != nil {
		t.Fatalf("init --json --force error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Errorf("JSON config not written: %v", err)
	}
}

func TestServeRejectsBadAddress(t *testing.T) {
	_, _, err := run(t, "serve", "counter", "--addr", "localhost")
	if !errors.IsCode(err, "E120") {
		t.Errorf("serve --addr localhost error = %v, want E120", err)
	}
}
