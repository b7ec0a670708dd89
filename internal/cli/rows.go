package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lightbox/pkg/aspect"
	"github.com/matzehuels/lightbox/pkg/media"
	"github.com/matzehuels/lightbox/pkg/rowgrid"
)

// rowsCommand creates the row partition command.
func (c *CLI) rowsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rows [manifest]",
		Short: "Show the row grid partition of a manifest",
		Long: `Show the row grid partition of a manifest.

Items are grouped into rows of three. In every complete row the first
landscape item is the expandable candidate, marked with ★. Incomplete
trailing rows have no candidate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := media.LoadFile(args[0])
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(cmd.Context()), "built rows")
			model := aspect.New(aspect.WithTolerance(c.Config.Grid.Tolerance))
			l := rowgrid.Build(m.Items, model)
			prog.done("items", l.Len(), "rows", len(l.Rows))

			if m.Title != "" {
				fmt.Fprintln(stdout, StyleTitle.Render(m.Title))
			}
			fmt.Fprintln(stdout, renderRowsTable(l))
			printDetail("%d items in %d rows", l.Len(), len(l.Rows))
			return nil
		},
	}
}

// renderRowsTable renders one table row per grid row.
func renderRowsTable(l rowgrid.Layout) string {
	rows := make([][]string, 0, len(l.Rows))
	for _, r := range l.Rows {
		cells := make([]string, rowgrid.RowSize)
		for i, cell := range r.Cells {
			label := cell.Item.ID + " " + StyleDim.Render(cell.Orientation.String())
			if cell.Expandable {
				label = "★ " + label
			}
			cells[i] = label
		}
		candidate := "—"
		if cell, ok := r.Expandable(); ok {
			candidate = cell.Key
		}
		rows = append(rows, append([]string{fmt.Sprint(r.Index)}, append(cells, candidate)...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Row", "1", "2", "3", "Expands").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
