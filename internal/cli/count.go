package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/crackfree/pkg/errors"
	"github.com/matzehuels/crackfree/pkg/pipeline"
)

// countOptions holds the resolved flags of the count command.
type countOptions struct {
	width   int
	height  int
	workers int
	exact   bool
	noCache bool
	refresh bool
	stats   bool
}

// countCommand creates the count command.
func (c *CLI) countCommand() *cobra.Command {
	var opts countOptions

	cmd := &cobra.Command{
		Use:   "count [width height]",
		Short: "Count crack-free walls",
		Long: `Count the crack-free walls of the given width and height and print the
number on stdout.

Width and height come from flags, from two positional arguments or from the
config file, in that order of precedence. Counts above 2^64-1 fail unless
--exact is given.`,
		Example: `  crackfree count
  crackfree count 9 3
  crackfree count --width 40 --height 100 --exact`,
		Args: countArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(cmd, args, c); err != nil {
				return err
			}
			return c.runCount(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.width, "width", "w", pipeline.DefaultWidth, "wall width in brick units")
	f.IntVarP(&opts.height, "height", "H", pipeline.DefaultHeight, "wall height in layers")
	f.IntVarP(&opts.workers, "workers", "j", 0, "parallel workers (0 = one per CPU)")
	f.BoolVar(&opts.exact, "exact", false, "count with arbitrary precision")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite the cached result")
	f.BoolVar(&opts.stats, "stats", false, "print stage timings to stderr")

	return cmd
}

// countArgs accepts either no positional arguments or exactly width and height.
func countArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("accepts 0 or 2 args (width height), received %d", len(args))
	}
	return nil
}

// resolve layers config values, positional arguments and explicit flags.
func (o *countOptions) resolve(cmd *cobra.Command, args []string, c *CLI) error {
	f := cmd.Flags()
	if !f.Changed("width") {
		o.width = c.Config.Width
	}
	if !f.Changed("height") {
		o.height = c.Config.Height
	}
	if !f.Changed("workers") {
		o.workers = c.Config.Workers
	}

	if len(args) == 2 {
		if f.Changed("width") || f.Changed("height") {
			return apperr.New(apperr.ErrCodeInvalidInput, "give width and height either as flags or as arguments, not both")
		}
		var err error
		if o.width, err = parseDimension("width", args[0]); err != nil {
			return err
		}
		if o.height, err = parseDimension("height", args[1]); err != nil {
			return err
		}
	}
	return nil
}

func parseDimension(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "%s must be an integer, got %q", name, s)
	}
	return n, nil
}

// runCount executes the pipeline and writes the count to out.
func (c *CLI) runCount(ctx context.Context, out io.Writer, opts countOptions) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Counting W(%d, %d)...", opts.width, opts.height))
	spinner.Start()
	res, err := runner.Execute(ctx, pipeline.Options{
		Width:   opts.width,
		Height:  opts.height,
		Workers: opts.workers,
		Exact:   opts.exact,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	})
	spinner.Stop()
	if err != nil {
		if apperr.Is(err, apperr.ErrCodeOverflow) {
			printWarning("rerun with --exact for arbitrary precision")
		}
		return err
	}

	if opts.stats {
		printStats(res)
	}
	_, err = fmt.Fprintln(out, res.String())
	return err
}
