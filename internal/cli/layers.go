package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crackfree/pkg/pipeline"
	"github.com/matzehuels/crackfree/pkg/wall"
)

// layersCommand creates the layers command.
func (c *CLI) layersCommand() *cobra.Command {
	var (
		width   int
		workers int
		limit   int
		dot     bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "layers [width]",
		Short: "List the brick layers of a width",
		Long: `List every brick layer of the given width with its joint positions and the
number of layers it may sit next to.

With --dot the compatibility graph is written to stdout in Graphviz DOT
format; with --output it is rendered to an SVG file.`,
		Example: `  crackfree layers 9
  crackfree layers 12 --dot | dot -Tpng > layers.png
  crackfree layers 12 -o layers.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("width") {
				width = c.Config.Width
			}
			if len(args) == 1 {
				n, err := parseDimension("width", args[0])
				if err != nil {
					return err
				}
				width = n
			}

			ctx := cmd.Context()
			runner := pipeline.NewRunner(nil, nil, c.Logger)
			set, err := runner.Layers(ctx, width, workers)
			if err != nil {
				return err
			}

			switch {
			case output != "":
				prog := newProgress(loggerFromContext(ctx))
				svg, err := wall.RenderSVG(ctx, set.Layers, set.Adjacency)
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, svg, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				prog.done("Rendered compatibility graph")
				printFile(output)
			case dot:
				_, err = io.WriteString(cmd.OutOrStdout(), wall.ToDOT(set.Layers, set.Adjacency))
				return err
			default:
				renderLayerTable(cmd.OutOrStdout(), set, limit)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&width, "width", "w", pipeline.DefaultWidth, "wall width in brick units")
	f.IntVarP(&workers, "workers", "j", 0, "parallel workers (0 = one per CPU)")
	f.IntVar(&limit, "limit", 50, "maximum rows to list (0 = all)")
	f.BoolVar(&dot, "dot", false, "print the compatibility graph as Graphviz DOT")
	f.StringVarP(&output, "output", "o", "", "render the compatibility graph to an SVG file")

	return cmd
}

// renderLayerTable writes one row per layer: index, bricks, joints and the
// number of compatible layers. Layers that nothing can sit next to are
// dimmed.
func renderLayerTable(w io.Writer, set *pipeline.LayerSet, limit int) {
	n := len(set.Layers)
	if limit > 0 && limit < n {
		n = limit
	}

	rows := make([][]string, n)
	for i := range n {
		rows[i] = []string{
			strconv.Itoa(i),
			set.Layers[i].String(),
			formatJoints(set.Analyzer.Joints(i)),
			strconv.Itoa(set.Adjacency.Degree(i)),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("#", "Layer", "Joints", "Compatible").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row >= 0 && row < n && set.Adjacency.Degree(row) == 0 {
				return base.Foreground(colorDim)
			}
			if col == 3 {
				return base.Foreground(colorCyan)
			}
			return base
		})

	fmt.Fprintln(w, t.Render())
	if n < len(set.Layers) {
		fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  [%d/%d layers, use --limit 0 for all]", n, len(set.Layers))))
	}
	printSummary(len(set.Layers), set.Stats.EdgeCount, false)
}

func formatJoints(s wall.JointSet) string {
	pos := s.Positions()
	if len(pos) == 0 {
		return "-"
	}
	parts := make([]string, len(pos))
	for i, p := range pos {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, " ")
}
