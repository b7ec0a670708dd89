package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/lightbox/pkg/grid"
	"github.com/matzehuels/lightbox/pkg/packer"
	"github.com/matzehuels/lightbox/pkg/pipeline"
)

// captureStdout redirects user-facing output for the rest of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPackSummary(t *testing.T) {
	r := &pipeline.Result{
		Layout:    grid.Layout{Balance: packer.Balance{Spread: 0.0421}},
		Stats:     pipeline.Stats{ItemCount: 7, Columns: 3, PackTime: 4 * time.Millisecond, RenderTime: 8 * time.Millisecond},
		CacheInfo: pipeline.CacheInfo{PackHit: true},
	}
	got := packSummary(r)
	for _, want := range []string{"7 items", "3 columns", "spread 0.042", "layout cached", "render fresh", "12ms"} {
		if !strings.Contains(got, want) {
			t.Errorf("packSummary() = %q, missing %q", got, want)
		}
	}
}

func TestPrinters(t *testing.T) {
	out := captureStdout(t)
	printSuccess("Packed %s", "coast.toml")
	printWarning("Cache disabled")
	printFile("coast.svg")

	got := out.String()
	for _, want := range []string{"✓ Packed coast.toml", "! Cache disabled", "→ coast.svg"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for shell := range completionGenerators {
		t.Run(shell, func(t *testing.T) {
			c := newTestCLI(t)
			root := c.RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}

	c := newTestCLI(t)
	root := c.RootCommand()
	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}
