package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/edgeloom/edgeloom/pkg/pipeline"
)

// roundTo is the display granularity for stage timings.
const roundTo = 100 * time.Microsecond

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file path (stdout if empty)
	format  string // output format: "text" or "json"
	width   int    // wrap width in cells, overrides config when set
	kind    string // source kind override: "dot" or "json"
	noCache bool   // bypass the cache
}

// renderCommand creates the render command for one-shot layout and output.
//
// Default settings:
//   - format: text (rune canvas for the terminal)
//   - width: from config (80 unless configured)
//   - output: stdout
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a diagram description to terminal text or layout JSON",
		Long: `Render a diagram description to terminal text or layout JSON.

The pipeline parses the description, places and measures the node boxes,
routes the edges, and paints the result. Pass "-" to read from stdin.

Examples:
  edgeloom render pipeline.dot                  # Text canvas on stdout
  edgeloom render pipeline.dot --width 120      # Wider wrap
  edgeloom render pipeline.dot -f json -o l.json # Layout document`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatText, "output format: text or json")
	cmd.Flags().IntVar(&opts.width, "width", 0, "wrap width in cells (default from config)")
	cmd.Flags().StringVar(&opts.kind, "from", "", "source kind: dot or json (default: detect)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")

	return cmd
}

// runRender executes the pipeline for one description and writes the output.
func (c *CLI) runRender(ctx context.Context, path string, opts *renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	source, name, err := readSource(path)
	if err != nil {
		return err
	}

	pipeOpts := pipelineOptions(cfg, opts.width, opts.format, opts.noCache)
	pipeOpts.Source = source
	pipeOpts.SourceName = name
	pipeOpts.SourceKind = opts.kind

	// Below debug level the pipeline's stage logs are replaced by a spinner.
	var sp *Spinner
	if c.Logger.GetLevel() > log.DebugLevel {
		quiet := newLogger(io.Discard, log.InfoLevel)
		runner.Logger = quiet
		pipeOpts.Logger = quiet
		sp = newSpinner(ctx, fmt.Sprintf("rendering %s", name))
		sp.Start()
	}

	res, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		if sp != nil {
			sp.StopWithError("Render failed")
		}
		return err
	}
	if sp != nil {
		sp.Stop()
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(res.Output)
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(res.Output); err != nil {
		return err
	}

	printSuccess("Rendered %s", name)
	printFile(opts.output)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.ParseHit && res.CacheInfo.LayoutHit)
	printDetail("parse %s · layout %s · render %s",
		res.Stats.ParseTime.Round(roundTo),
		res.Stats.LayoutTime.Round(roundTo),
		res.Stats.RenderTime.Round(roundTo))
	return nil
}
