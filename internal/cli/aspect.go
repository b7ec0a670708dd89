package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lightbox/pkg/aspect"
)

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

// aspectCommand creates the aspect inspection command.
func (c *CLI) aspectCommand() *cobra.Command {
	var tolerance float64

	cmd := &cobra.Command{
		Use:   "aspect [descriptor...]",
		Short: "Show how aspect descriptors normalize and classify",
		Long: `Show how aspect descriptors normalize and classify.

Each descriptor is "<width>-<height>" with positive numbers, e.g. "1600-900".
Malformed descriptors fall back to the default aspect (1600-1000) and are
marked in the table.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("tolerance") {
				tolerance = c.Config.Grid.Tolerance
			}
			// Fallbacks are shown in the table; skip the warning log.
			model := aspect.New(aspect.WithTolerance(tolerance), aspect.WithWarner(func(string, error) {}))
			fmt.Fprintln(stdout, renderAspectTable(args, model))
			return nil
		},
	}

	cmd.Flags().Float64Var(&tolerance, "tolerance", aspect.DefaultTolerance, "square tolerance band")
	return cmd
}

// renderAspectTable renders one row per descriptor.
func renderAspectTable(descs []string, model *aspect.Model) string {
	rows := make([][]string, 0, len(descs))
	fallback := make([]bool, len(descs))
	for i, desc := range descs {
		_, err := aspect.Parse(desc)
		fallback[i] = err != nil

		a := model.Normalize(desc)
		note := ""
		if fallback[i] {
			note = "fallback"
		}
		rows = append(rows, []string{
			desc,
			model.CSSRatio(desc),
			strconv.FormatFloat(a.Ratio, 'f', 3, 64),
			model.Classify(a).String(),
			note,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Descriptor", "CSS", "Ratio", "Orientation", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if row >= 0 && row < len(fallback) && fallback[row] {
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}
