package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/lightbox/pkg/grid"
)

const testManifest = `
title = "Coast"

[[items]]
id = "bay"
aspect = "1600-900"
caption = "Bay at dusk"

[[items]]
id = "cliff"
aspect = "900-1600"

[[items]]
id = "dune"
aspect = "1-1"
video = true
`

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coast.toml")
	if err := os.WriteFile(path, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPackCommand(t *testing.T) {
	c := newTestCLI(t)
	manifest := writeManifest(t)
	out := filepath.Join(filepath.Dir(manifest), "out")

	root := c.RootCommand()
	root.SetArgs([]string{"pack", manifest, "-f", "svg,json", "-o", out, "--columns", "2", "--no-cache"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("pack: %v", err)
	}

	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatalf("svg output: %v", err)
	}
	if !strings.Contains(string(svg), "Coast") {
		t.Error("svg output is missing the manifest title")
	}

	l, err := grid.ReadFile(out + ".json")
	if err != nil {
		t.Fatalf("json output: %v", err)
	}
	if len(l.Columns) != 2 || l.TileCount() != 3 {
		t.Errorf("layout has %d columns / %d tiles, want 2 / 3", len(l.Columns), l.TileCount())
	}
}

func TestPackCommandInvalidFormat(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"pack", writeManifest(t), "-f", "gif"})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("pack accepted an invalid format")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "gallery.toml", "gallery"},
		{"out.svg", "gallery.toml", "out"},
		{"out", "gallery.toml", "out"},
		{"out.final", "gallery.toml", "out.final"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifactsDoesNotOverwriteInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "gallery.json")
	if err := os.WriteFile(input, []byte(`{"items": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := writeArtifacts(map[string][]byte{"json": []byte("{}")}, []string{"json"}, input, "")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "gallery.layout.json"); len(paths) != 1 || paths[0] != want {
		t.Errorf("paths = %v, want [%s]", paths, want)
	}
	data, _ := os.ReadFile(input)
	if string(data) != `{"items": []}` {
		t.Error("manifest was overwritten")
	}
}
