package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/edgeloom/edgeloom/pkg/config"
	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/layout"
	"github.com/edgeloom/edgeloom/pkg/pipeline"
	"github.com/edgeloom/edgeloom/pkg/surface"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	width int    // wrap width in cells; 0 follows the terminal
	kind  string // source kind override: "dot" or "json"
}

// watchCommand creates the watch command: a live terminal view that re-runs
// the pipeline whenever the description file or the terminal size changes.
func (c *CLI) watchCommand() *cobra.Command {
	opts := watchOpts{}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Watch a diagram description and re-render it live",
		Long: `Watch a diagram description and re-render it live.

Saving the file re-parses it; resizing the terminal re-wraps the layout.
When an edit does not parse, the last good diagram stays on screen with
the error in the status bar.

Keys: q quits, r reloads, arrows/j/k scroll.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				return fmt.Errorf("watch needs a file path, not stdin")
			}
			return c.runWatch(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", 0, "wrap width in cells (default: terminal width)")
	cmd.Flags().StringVar(&opts.kind, "from", "", "source kind: dot or json (default: detect)")

	return cmd
}

// runWatch starts the file watcher and the TUI, and tears both down when
// the program exits.
func (c *CLI) runWatch(ctx context.Context, path string, opts *watchOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal; pipeline logs are discarded.
	quiet := newLogger(io.Discard, log.InfoLevel)
	runner, err := c.newRunner(cfg, false)
	if err != nil {
		return err
	}
	runner.Logger = quiet
	defer runner.Close()

	// Watch the directory and filter by name: editors that save via
	// rename replace the file, and a watch on the old inode would go
	// stale.
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	m := newWatchModel(path, opts, cfg, runner, fsw, quiet)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if fm, ok := final.(watchModel); ok && fm.session != nil {
		fm.session.close()
	}
	return err
}

// =============================================================================
// Watch Session - One Graph's Layout Loop
// =============================================================================

// watchSession owns the layout loop for one parsed graph: the flow surface,
// the watcher debouncing its change events, and the goroutine running the
// watcher until the session is replaced.
type watchSession struct {
	graph   *graph.Graph
	flow    *surface.Flow
	watcher *layout.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// newWatchSession builds the surface and watcher for the graph and starts
// the watcher's debounce loop. The initial layout pass publishes on the
// watcher's update channel.
func newWatchSession(g *graph.Graph, width int, cfg *config.Config, logger *log.Logger) *watchSession {
	surfOpts := surfaceOptions(cfg)
	if width > 0 {
		surfOpts.Width = width
	}
	fl := surface.NewFlow(g, surfOpts)
	w := layout.NewWatcher(g, fl, layout.Config{
		Debounce: time.Duration(cfg.Layout.DebounceMS) * time.Millisecond,
		Route:    routeOptions(cfg),
		Logger:   logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	s := &watchSession{
		graph:   g,
		flow:    fl,
		watcher: w,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		_ = w.Run(ctx)
	}()
	return s
}

// close stops the watcher loop and waits for it to exit.
func (s *watchSession) close() {
	s.cancel()
	<-s.done
}

// nextSnapshot returns a command that delivers the session's next published
// snapshot, or nothing once the session is closed.
func (s *watchSession) nextSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-s.watcher.Updates():
			return snapshotMsg{session: s, snap: snap}
		case <-s.ctx.Done():
			return nil
		}
	}
}

// =============================================================================
// File Event Commands
// =============================================================================

// waitForFileEvent returns a command that blocks until the watched file
// changes. Events for other files in the directory are skipped.
func waitForFileEvent(fsw *fsnotify.Watcher, path string) tea.Cmd {
	base := filepath.Base(path)
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return nil
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				return fileChangedMsg{}
			case err, ok := <-fsw.Errors:
				if !ok {
					return nil
				}
				return watchFailedMsg{err: err}
			}
		}
	}
}

// reloadFile returns a command that re-reads and re-parses the description.
func reloadFile(runner *pipeline.Runner, path, kind string) tea.Cmd {
	return func() tea.Msg {
		source, name, err := readSource(path)
		if err != nil {
			return reloadedMsg{err: err}
		}
		g, err := runner.Parse(context.Background(), pipeline.Options{
			Source:     source,
			SourceName: name,
			SourceKind: kind,
		})
		if err != nil {
			return reloadedMsg{err: err}
		}
		return reloadedMsg{graph: g}
	}
}
