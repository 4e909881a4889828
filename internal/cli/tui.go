package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/edgeloom/edgeloom/pkg/config"
	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/layout"
	"github.com/edgeloom/edgeloom/pkg/pipeline"
	"github.com/edgeloom/edgeloom/pkg/render/term"
)

// Status bar styles
var (
	statusIdleStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	statusBusyStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	statusActiveStyle = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Messages
// =============================================================================

// fileChangedMsg reports a write to the watched file.
type fileChangedMsg struct{}

// reloadTickMsg fires when a reload debounce window closes. Stale ticks
// carry an old generation and are dropped.
type reloadTickMsg struct {
	gen int
}

// reloadedMsg carries the result of re-reading and re-parsing the file.
type reloadedMsg struct {
	graph *graph.Graph
	err   error
}

// snapshotMsg carries a layout snapshot published by a session's watcher.
type snapshotMsg struct {
	session *watchSession
	snap    *layout.Snapshot
}

// watchFailedMsg reports an error from the file watcher itself.
type watchFailedMsg struct {
	err error
}

// =============================================================================
// WatchModel - Live Diagram View
// =============================================================================

// watchModel is the bubbletea model for the watch command. It keeps the
// last good diagram on screen across broken edits and swaps in a fresh
// layout session whenever the file parses again.
type watchModel struct {
	path     string
	opts     *watchOpts
	cfg      *config.Config
	runner   *pipeline.Runner
	fsw      *fsnotify.Watcher
	logger   *log.Logger
	debounce time.Duration

	session *watchSession

	canvas   string
	seq      uint64
	took     time.Duration
	nodes    int
	edges    int
	parseErr error
	watchErr error

	reloadGen int
	width     int
	height    int
	scroll    int
}

// newWatchModel creates the model for one watched file.
func newWatchModel(path string, opts *watchOpts, cfg *config.Config, runner *pipeline.Runner, fsw *fsnotify.Watcher, logger *log.Logger) watchModel {
	return watchModel{
		path:     path,
		opts:     opts,
		cfg:      cfg,
		runner:   runner,
		fsw:      fsw,
		logger:   logger,
		debounce: debounceFor(cfg),
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(
		reloadFile(m.runner, m.path, m.opts.kind),
		waitForFileEvent(m.fsw, m.path),
	)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.reloadGen++
			return m, reloadFile(m.runner, m.path, m.opts.kind)
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
			m.clampScroll()
		case "pgup":
			m.scroll -= m.viewHeight()
			m.clampScroll()
		case "pgdown":
			m.scroll += m.viewHeight()
			m.clampScroll()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.session != nil && m.opts.width == 0 {
			// The flow debounces through the session's watcher, so
			// resize storms collapse into one recompute.
			m.session.flow.Resize(msg.Width)
		}
		m.clampScroll()

	case fileChangedMsg:
		m.reloadGen++
		gen := m.reloadGen
		return m, tea.Batch(
			waitForFileEvent(m.fsw, m.path),
			tea.Tick(m.debounce, func(time.Time) tea.Msg {
				return reloadTickMsg{gen: gen}
			}),
		)

	case reloadTickMsg:
		if msg.gen != m.reloadGen {
			return m, nil
		}
		return m, reloadFile(m.runner, m.path, m.opts.kind)

	case reloadedMsg:
		if msg.err != nil {
			// Keep the last good session and diagram on screen.
			m.parseErr = msg.err
			return m, nil
		}
		m.parseErr = nil
		if m.session != nil {
			m.session.close()
		}
		width := m.opts.width
		if width == 0 && m.width > 0 {
			width = m.width
		}
		m.session = newWatchSession(msg.graph, width, m.cfg, m.logger)
		return m, m.session.nextSnapshot()

	case snapshotMsg:
		if msg.session != m.session {
			// Snapshot from a replaced session; a fresh one is on the way.
			return m, nil
		}
		m.seq = msg.snap.Seq
		m.took = msg.snap.Took
		m.nodes = len(msg.snap.Rects)
		m.edges = len(msg.snap.Edges)
		w, h := m.session.flow.Size()
		m.canvas = term.Render(m.session.graph, msg.snap, m.session.flow.Frames(), w, h)
		m.clampScroll()
		return m, m.session.nextSnapshot()

	case watchFailedMsg:
		m.watchErr = msg.err
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	viewH := m.viewHeight()
	lines := strings.Split(m.canvas, "\n")
	start := m.scroll
	if start > len(lines) {
		start = len(lines)
	}
	end := start + viewH
	if end > len(lines) {
		end = len(lines)
	}
	for i := start; i < end; i++ {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}
	for i := end - start; i < viewH; i++ {
		b.WriteString("\n")
	}

	if m.parseErr != nil {
		b.WriteString(StyleError.Render(iconError + " " + firstLine(m.parseErr.Error())))
		b.WriteString("\n")
	} else if m.watchErr != nil {
		b.WriteString(StyleWarning.Render(iconWarning + " watch: " + firstLine(m.watchErr.Error())))
		b.WriteString("\n")
	}

	b.WriteString(m.statusBar())
	return b.String()
}

// viewHeight returns the canvas rows available above the status bar.
func (m watchModel) viewHeight() int {
	h := m.height - 1
	if m.parseErr != nil || m.watchErr != nil {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

// clampScroll keeps the scroll offset within the canvas.
func (m *watchModel) clampScroll() {
	max := strings.Count(m.canvas, "\n") + 1 - m.viewHeight()
	if m.scroll > max {
		m.scroll = max
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m watchModel) statusBar() string {
	state := layout.Idle
	if m.session != nil {
		state = m.session.watcher.State()
	}

	var dot string
	switch state {
	case layout.Pending:
		dot = statusBusyStyle.Render("●")
	case layout.Recomputing:
		dot = statusActiveStyle.Render("●")
	default:
		dot = statusIdleStyle.Render("●")
	}

	segments := []string{
		fmt.Sprintf("%s %s", dot, state),
		m.path,
	}
	if m.seq > 0 {
		segments = append(segments,
			fmt.Sprintf("#%d", m.seq),
			fmt.Sprintf("%d nodes · %d edges", m.nodes, m.edges),
			m.took.Round(roundTo).String(),
		)
	}
	segments = append(segments, "q quit · r reload")

	return StyleDim.Render(strings.Join(segments, "  "))
}

// firstLine truncates multi-line error text for the status area.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
