package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output  string // graph document output path ("-" for stdout, empty for none)
	kind    string // source kind override: "dot" or "json"
	noCache bool   // bypass the cache
}

// parseCommand creates the parse command for inspecting and exporting graphs.
// It reads a DOT or graph-JSON description and reports the graph's structure,
// optionally writing the graph document for later rendering.
func (c *CLI) parseCommand() *cobra.Command {
	opts := parseOpts{}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a diagram description and report its structure",
		Long: `Parse a diagram description and report its structure.

The input format is detected from the file name and content; use --from to
force it. Pass "-" to read from stdin.

Examples:
  edgeloom parse pipeline.dot             # Report nodes, edges, clusters
  edgeloom parse pipeline.dot -o out.json # Export the graph document
  cat pipeline.dot | edgeloom parse -     # Read from stdin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the graph document to a file ('-' for stdout)")
	cmd.Flags().StringVar(&opts.kind, "from", "", "source kind: dot or json (default: detect)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")

	return cmd
}

// runParse reads and parses the description, then reports the result.
func (c *CLI) runParse(ctx context.Context, path string, opts *parseOpts) error {
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

	prog := newProgress(c.Logger)
	g, cached, err := runner.ParseWithCacheInfo(ctx, pipeline.Options{
		Source:     source,
		SourceName: name,
		SourceKind: opts.kind,
		NoCache:    opts.noCache,
		Logger:     c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %s", name))

	printGraphSummary(g, cached)

	if g.NodeCount() == 0 {
		printWarning("diagram has no nodes")
	}

	if opts.output != "" {
		if err := writeGraph(g, opts.output); err != nil {
			return err
		}
		if opts.output != "-" {
			printFile(opts.output)
			printNextStep("Render it", fmt.Sprintf("edgeloom render %s", opts.output))
		}
	} else if path != "-" {
		printNextStep("Render it", fmt.Sprintf("edgeloom render %s", path))
	}
	return nil
}

// printGraphSummary prints the parsed graph's headline structure.
func printGraphSummary(g *graph.Graph, cached bool) {
	if name := g.Name(); name != "" {
		printKeyValue("name", name)
	}
	printKeyValue("direction", g.Direction().String())
	if n := len(g.Clusters()); n > 0 {
		printKeyValue("clusters", fmt.Sprintf("%d", n))
	}
	printStats(g.NodeCount(), g.EdgeCount(), cached)
}

// writeGraph serializes g as an indented graph document to path, or to
// stdout when path is "-".
func writeGraph(g *graph.Graph, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return graph.Write(g, out)
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is "-", it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
