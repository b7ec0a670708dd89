package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lightbox/pkg/media"
	"github.com/matzehuels/lightbox/pkg/pipeline"
)

// packFlags holds the pack command's flags. Grid flags left unset fall back
// to the [grid] config section.
type packFlags struct {
	output    string
	formats   string
	title     string
	columns   int
	width     float64
	gutter    float64
	tolerance float64
	captions  bool
	images    bool
	scale     float64
	noCache   bool
	refresh   bool
}

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	var f packFlags

	cmd := &cobra.Command{
		Use:   "pack [manifest]",
		Short: "Pack a media manifest into a masonry grid and render it",
		Long: `Pack a media manifest into a masonry grid and render it.

The manifest (TOML, YAML or JSON) lists items with an id and an aspect
descriptor such as "1600-900". Items are balanced into columns tallest
first, placed in a frame of the given width, and rendered to SVG, PNG, PDF
or JSON (the placed layout).

Without --columns the column count follows the responsive breakpoints for
the frame width.

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.gridOptions()
			flags := cmd.Flags()
			if flags.Changed("columns") {
				opts.Columns = f.columns
			}
			if flags.Changed("width") {
				opts.Width = f.width
				if !flags.Changed("columns") && c.Config.Grid.Columns == 0 {
					opts.Columns = 0
				}
			}
			if flags.Changed("gutter") {
				opts.Gutter = f.gutter
			}
			if flags.Changed("tolerance") {
				opts.Tolerance = f.tolerance
			}
			opts.Title = f.title
			opts.Captions = f.captions
			opts.Images = f.images
			opts.Scale = f.scale
			opts.Refresh = f.refresh
			opts.Formats = parseFormats(f.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runPack(cmd.Context(), args[0], opts, f.output, f.noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")

	// Pack flags
	cmd.Flags().IntVarP(&f.columns, "columns", "c", 0, "column count (default: responsive)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "frame width in pixels")
	cmd.Flags().Float64Var(&f.gutter, "gutter", 0, "space between columns and tiles")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", 0, "square tolerance band")

	// Render flags
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&f.title, "title", "", "title drawn above the grid (default: manifest title)")
	cmd.Flags().BoolVar(&f.captions, "captions", false, "draw captions")
	cmd.Flags().BoolVar(&f.images, "images", false, "embed item images by src")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	return cmd
}

// runPack loads the manifest, runs the pipeline and writes the artifacts.
func (c *CLI) runPack(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	format, err := media.FormatFromPath(input)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read manifest %s: %w", input, err)
	}
	opts.Manifest = string(data)
	opts.ManifestFormat = string(format)
	opts.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, "Packing "+filepath.Base(input)+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Pack failed")
		return err
	}
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}

	prog := newProgress(opts.Logger, "wrote artifacts")
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	prog.done("files", len(paths))

	printSuccess("Packed %s", input)
	for _, p := range paths {
		printFile(p)
	}
	fmt.Fprintln(stdout, packSummary(result))
	if !slices.Contains(opts.Formats, pipeline.FormatJSON) {
		printNewline()
		printNextStep("Layout as JSON", appName+" pack "+input+" -f json")
	}
	return nil
}

// writeArtifacts writes one file per format and returns the paths in
// format order. A single format writes to output as given; several formats
// share output (or the input name) as base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	var paths []string
	base := basePath(output, input)
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		if filepath.Clean(path) == filepath.Clean(input) {
			path = base + ".layout." + format
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
