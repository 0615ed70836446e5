// Package app implements the root Bubble Tea model for glance.
package app

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/glance/internal/config"
	"github.com/zjrosen/glance/internal/docs"
	"github.com/zjrosen/glance/internal/keys"
	"github.com/zjrosen/glance/internal/log"
	"github.com/zjrosen/glance/internal/pubsub"
	"github.com/zjrosen/glance/internal/ui/canvas"
	"github.com/zjrosen/glance/internal/ui/layout"
	"github.com/zjrosen/glance/internal/ui/list"
	"github.com/zjrosen/glance/internal/ui/markdown"
	"github.com/zjrosen/glance/internal/ui/panes"
	"github.com/zjrosen/glance/internal/ui/scrollbar"
	"github.com/zjrosen/glance/internal/ui/styles"
	"github.com/zjrosen/glance/internal/ui/textpane"
	"github.com/zjrosen/glance/internal/ui/textwidth"
	"github.com/zjrosen/glance/internal/ui/widget"
	"github.com/zjrosen/glance/internal/watcher"
)

// Zone IDs for mouse hit testing.
const (
	zoneList = "glance-list"
	zoneText = "glance-text"
)

const (
	minListWidth     = 16
	maxLogLines      = 500
	mouseScrollLines = 3
)

type focusTarget int

const (
	focusList focusTarget = iota
	focusText
)

// docsScannedMsg carries the result of a directory scan.
type docsScannedMsg struct {
	docs []docs.Document
	err  error
}

// docLoadedMsg carries the content of one document.
type docLoadedMsg struct {
	doc  docs.Document
	text string
	err  error
}

// configSavedMsg reports the outcome of persisting a UI setting.
type configSavedMsg struct {
	key string
	err error
}

// Options configures the root model.
type Options struct {
	Config     config.Config
	ConfigPath string // Where toggled settings are persisted; empty disables saving
	Fs         afero.Fs
	Tracer     trace.Tracer
	Debug      bool
}

// selectionState is shared with the list's change callback, which outlives
// any single copy of Model.
type selectionState struct {
	changed bool
}

// Model is the root application model.
type Model struct {
	cfg        config.Config
	configPath string
	debugMode  bool

	store     *docs.Store
	list      *list.List[docs.Document, string]
	text      *textpane.TextPane
	selection *selectionState
	shown     docs.Document
	focus     focusTarget

	keys     keys.KeyMap
	help     help.Model
	showHelp bool

	// Debug log pane (ctrl+x), only built in debug mode.
	logPane     *textpane.TextPane
	logLines    []string
	showLog     bool
	logListener *log.LogListener
	logCancel   context.CancelFunc

	width     int
	height    int
	listWidth int
	status    string
	statusErr bool

	// File watcher (auto refresh)
	watcherHandle   *watcher.Watcher
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[watcher.WatcherEvent]
}

// New creates the root model. Nothing is read from disk until Init runs.
func New(opts Options) Model {
	cfg := opts.Config
	root := cfg.Path
	if root == "" {
		root = "."
	}

	bar := scrollbar.DefaultStyle().WithChars(cfg.Scrollbar.TrackChar, cfg.Scrollbar.ThumbChar)

	storeOpts := []docs.Option{docs.WithTracer(opts.Tracer)}
	if opts.Fs != nil {
		storeOpts = append(storeOpts, docs.WithFs(opts.Fs))
	}
	store := docs.New(root, cfg.HasExtension, storeOpts...)

	listCfg := list.Config[docs.Document, string]{
		Label:     documentLabel,
		Key:       func(d docs.Document) string { return d.Path },
		Formatter: textwidth.New(cfg.UI.AmbiguousWide),
	}
	if cfg.UI.ListScrollbar {
		listCfg.Scrollbar = &bar
	}
	docList := list.New(listCfg)
	docList.SetFocused(true)
	selection := &selectionState{}
	docList.OnSelectionChange(func(int, docs.Document) { selection.changed = true })

	text := textpane.New(textpane.Config{
		Renderer:  markdown.New(markdown.WithTracer(opts.Tracer)),
		Tracer:    opts.Tracer,
		Scrollbar: &bar,
	})
	text.SetPadding(widget.Padding{Left: 1})
	text.SetMarkdownOptions(layout.MarkdownOptions{Style: cfg.UI.MarkdownStyle, Emoji: true})

	m := Model{
		cfg:        cfg,
		configPath: opts.ConfigPath,
		debugMode:  opts.Debug,
		store:      store,
		list:       docList,
		text:       text,
		selection:  selection,
		keys:       keys.DefaultKeyMap(),
		help:       help.New(),
	}

	if opts.Debug {
		m.logPane = textpane.New(textpane.Config{Tracer: opts.Tracer, Scrollbar: &bar})
		m.logPane.SetPadding(widget.Padding{Left: 1})
		m.logPane.SetStickToBottom(cfg.UI.StickToBottom)
		logCtx, cancel := context.WithCancel(context.Background())
		m.logListener = log.NewListener(logCtx)
		m.logCancel = cancel
	}

	if cfg.AutoRefresh {
		m.startWatcher(root)
	}
	return m
}

func (m *Model) startWatcher(root string) {
	w, err := watcher.New(watcher.DefaultConfig(root, m.cfg.HasExtension))
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Failed to create watcher", err, "dir", root)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	// Subscribe before Start so no change is missed.
	listener := pubsub.NewContinuousListener(ctx, w.Broker())
	if err := w.Start(); err != nil {
		log.ErrorErr(log.CatWatcher, "Failed to start watcher", err, "dir", root)
		cancel()
		_ = w.Stop()
		return
	}
	m.watcherHandle = w
	m.watcherCancel = cancel
	m.watcherListener = listener
}

func documentLabel(d docs.Document) string {
	if d.Title != "" {
		return d.Title
	}
	return d.Path
}

// Init scans the directory and starts the background listeners.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.scanCmd(), m.watcherListener.Listen(), m.logListener.Listen())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case docsScannedMsg:
		return m.handleScan(msg)

	case docLoadedMsg:
		return m.handleLoaded(msg), nil

	case configSavedMsg:
		if msg.err != nil {
			m.setError("Failed to save "+msg.key, msg.err)
		}
		return m, nil

	case log.LogBatch:
		entries := make([]string, 0, len(msg.Events))
		for _, event := range msg.Events {
			entries = append(entries, event.Payload)
		}
		m.appendLog(entries...)
		return m, m.logListener.Listen()

	case pubsub.Batch[watcher.WatcherEvent]:
		return m.handleWatcher(msg.Events)
	}
	return m, nil
}

// handleWatcher rescans once for any number of changes in the batch.
func (m Model) handleWatcher(events []pubsub.Event[watcher.WatcherEvent]) (tea.Model, tea.Cmd) {
	rescan := false
	for _, event := range events {
		switch event.Payload.Type {
		case watcher.DirChanged:
			rescan = true
		case watcher.WatcherError:
			m.setError("File watcher error", event.Payload.Error)
		}
	}
	if !rescan {
		return m, m.watcherListener.Listen()
	}
	log.Debug(log.CatWatcher, "Directory changed, rescanning", "root", m.store.Root(), "events", len(events))
	return m, tea.Batch(m.scanCmd(), m.watcherListener.Listen())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help, m.keys.Escape):
			m.showHelp = false
			m.resize()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.resize()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.showLog = false
		m.clearStatus()
		return m, nil

	case key.Matches(msg, m.keys.SwitchFocus):
		if m.focus == focusList {
			m.setFocus(focusText)
		} else {
			m.setFocus(focusList)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleMarkdown):
		return m.toggleMarkdown()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.scanCmd()

	case key.Matches(msg, m.keys.ToggleLog):
		if m.logPane != nil {
			m.showLog = !m.showLog
		}
		return m, nil
	}

	action, ok := m.keys.Action(msg)
	if !ok {
		return m, nil
	}
	log.Debug(log.CatInput, "Key action", "key", msg.String(), "action", action, "focus", m.focus)
	if m.focus == focusList {
		m.list.HandleAction(action)
		return m, m.selectionCmd()
	}
	m.rightPane().HandleAction(action)
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if z := zone.Get(zoneList); z != nil && z.InBounds(msg) {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.list.MoveBy(-1)
		case tea.MouseButtonWheelDown:
			m.list.MoveBy(1)
		case tea.MouseButtonLeft:
			if msg.Action != tea.MouseActionPress {
				return m, nil
			}
			m.setFocus(focusList)
			// The first row of the zone is the top border.
			if i, ok := m.list.RowAt(msg.Y - z.StartY - 1); ok {
				m.list.SetCurrentIndex(i)
			}
		}
		return m, m.selectionCmd()
	}

	if z := zone.Get(zoneText); z != nil && z.InBounds(msg) {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.rightPane().ScrollBy(-mouseScrollLines)
		case tea.MouseButtonWheelDown:
			m.rightPane().ScrollBy(mouseScrollLines)
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress {
				m.setFocus(focusText)
			}
		}
	}
	return m, nil
}

func (m Model) handleScan(msg docsScannedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError("Scan failed", msg.err)
		return m, nil
	}

	previous, hadPrevious := m.list.CurrentItem()
	m.list.SetItems(msg.docs)
	if hadPrevious {
		if i, ok := m.list.IndexOf(previous.Path); ok {
			m.list.SetCurrentIndex(i)
		}
	}
	m.selection.changed = false
	m.resize()

	doc, ok := m.list.CurrentItem()
	if !ok {
		m.shown = docs.Document{}
		m.text.SetMarkdown(false)
		m.text.SetText(fmt.Sprintf("No documents found in %s", m.store.Root()))
		return m, nil
	}
	// The selected file may have changed on disk too.
	return m, m.loadCmd(doc)
}

func (m Model) handleLoaded(msg docLoadedMsg) Model {
	current, ok := m.list.CurrentItem()
	if !ok || current.Path != msg.doc.Path {
		return m // stale
	}

	sameDoc := m.shown.Path == msg.doc.Path
	m.shown = msg.doc
	if msg.err != nil {
		m.setError("Cannot open "+msg.doc.Path, msg.err)
		m.text.SetMarkdown(false)
		m.text.SetText(msg.err.Error())
		m.text.ScrollToTop()
		return m
	}

	if m.statusErr {
		m.clearStatus()
	}
	m.text.SetMarkdown(m.markdownFor(msg.doc))
	m.text.SetText(msg.text)
	if !sameDoc {
		m.text.ScrollToTop()
	}
	return m
}

func (m Model) toggleMarkdown() (tea.Model, tea.Cmd) {
	enabled := !m.cfg.UI.MarkdownRendering
	m.cfg.UI.MarkdownRendering = enabled
	if m.shown.Path != "" {
		m.text.SetMarkdown(m.markdownFor(m.shown))
	}
	if enabled {
		m.setStatus("Markdown rendering on")
	} else {
		m.setStatus("Markdown rendering off")
	}
	return m, m.saveCmd("markdown_rendering", enabled)
}

func (m Model) markdownFor(doc docs.Document) bool {
	return m.cfg.UI.MarkdownRendering && config.IsMarkdown(doc.Path)
}

// selectionCmd loads the newly selected document, if the selection moved.
func (m Model) selectionCmd() tea.Cmd {
	if !m.selection.changed {
		return nil
	}
	m.selection.changed = false
	doc, ok := m.list.CurrentItem()
	if !ok {
		return nil
	}
	return m.loadCmd(doc)
}

func (m Model) scanCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		found, err := store.Scan(context.Background())
		return docsScannedMsg{docs: found, err: err}
	}
}

func (m Model) loadCmd(doc docs.Document) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		text, err := store.Load(context.Background(), doc)
		return docLoadedMsg{doc: doc, text: text, err: err}
	}
}

func (m Model) saveCmd(key string, value any) tea.Cmd {
	if m.configPath == "" {
		return nil
	}
	path := m.configPath
	return func() tea.Msg {
		return configSavedMsg{key: key, err: config.SaveUIValue(path, key, value)}
	}
}

func (m *Model) setFocus(target focusTarget) {
	m.focus = target
	m.list.SetFocused(target == focusList)
	m.text.SetFocused(target == focusText)
	if m.logPane != nil {
		m.logPane.SetFocused(target == focusText)
	}
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(msg string, err error) {
	log.ErrorErr(log.CatUI, msg, err)
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	m.status = msg
	m.statusErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

// appendLog adds entries to the debug log pane. Layout entries are
// skipped because rendering the pane produces them.
func (m *Model) appendLog(entries ...string) {
	if m.logPane == nil {
		return
	}
	layoutTag := "[" + string(log.CatLayout) + "]"
	added := false
	for _, entry := range entries {
		if strings.Contains(entry, layoutTag) {
			continue
		}
		m.logLines = append(m.logLines, entry)
		added = true
	}
	if !added {
		return
	}
	if len(m.logLines) > maxLogLines {
		m.logLines = append([]string(nil), m.logLines[len(m.logLines)-maxLogLines:]...)
	}
	m.logPane.SetText(strings.Join(m.logLines, "\n"))
}

// rightPane is the pane shown to the right of the list.
func (m Model) rightPane() *textpane.TextPane {
	if m.showLog && m.logPane != nil {
		return m.logPane
	}
	return m.text
}

func (m Model) footerHeight() int {
	if m.showHelp {
		return lipgloss.Height(m.help.FullHelpView(m.keys.FullHelp()))
	}
	return 1
}

func (m Model) bodyHeight() int {
	return max(m.height-m.footerHeight(), 0)
}

// resize lays the panes out for the current window and list contents.
func (m *Model) resize() {
	m.listWidth = m.computeListWidth()
	bodyHeight := m.bodyHeight()

	lw, lh := panes.InnerSize(m.listWidth, bodyHeight)
	m.list.SetBounds(0, 0, lw, lh)

	tw, th := panes.InnerSize(m.width-m.listWidth, bodyHeight)
	m.text.SetBounds(0, 0, tw, th)
	if m.logPane != nil {
		m.logPane.SetBounds(0, 0, tw, th)
	}
}

// computeListWidth returns the outer width of the list pane. Without a
// configured width the list fits its longest label, within limits.
func (m Model) computeListWidth() int {
	if m.width <= 0 {
		return 0
	}
	width := m.cfg.UI.ListWidth
	if width <= 0 {
		// Two border columns plus the scrollbar column.
		width = m.list.ItemMaxWidth() + 3
		width = max(width, minListWidth)
		width = min(width, m.width/2)
	}
	return min(width, m.width)
}

// View renders the list, the document pane and the footer.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	bodyHeight := m.bodyHeight()
	left, listErr := m.renderList(bodyHeight)
	right, textErr := m.renderRight(bodyHeight)

	renderErr := listErr
	if renderErr == nil {
		renderErr = textErr
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, body, m.footer(renderErr)))
}

func (m Model) renderList(height int) (string, error) {
	iw, ih := panes.InnerSize(m.listWidth, height)
	c := canvas.New(iw, ih)
	err := m.list.Render(c)

	var position string
	if n := m.list.Len(); n > 0 {
		position = fmt.Sprintf("%d/%d", m.list.CurrentIndex()+1, n)
	}
	pane := panes.BorderedPane(panes.BorderConfig{
		Content:     c.String(),
		Width:       m.listWidth,
		Height:      height,
		TopLeft:     "Documents",
		BottomRight: position,
		Focused:     m.focus == focusList,
	})
	return zone.Mark(zoneList, pane), err
}

func (m Model) renderRight(height int) (string, error) {
	width := m.width - m.listWidth
	pane := m.rightPane()

	iw, ih := panes.InnerSize(width, height)
	c := canvas.New(iw, ih)
	err := pane.Render(context.Background(), c)

	title, mode := m.shown.Name(), "plain"
	if m.shown.Path == "" {
		title = ""
	}
	if pane.Markdown() {
		mode = "markdown"
	}
	if pane == m.logPane {
		title, mode = "Log", fmt.Sprintf("%d lines", len(m.logLines))
	}

	var percent string
	if pane.LineCount() > ih {
		percent = fmt.Sprintf("%d%%", int(math.Round(pane.ScrollPercent()*100)))
	}
	out := panes.BorderedPane(panes.BorderConfig{
		Content:     c.String(),
		Width:       width,
		Height:      height,
		TopLeft:     title,
		TopRight:    mode,
		BottomRight: percent,
		Focused:     m.focus == focusText,
	})
	return zone.Mark(zoneText, out), err
}

func (m Model) footer(renderErr error) string {
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}

	var line string
	switch {
	case renderErr != nil:
		line = styles.ErrorStyle.Render(renderErr.Error())
	case m.status != "" && m.statusErr:
		line = styles.ErrorStyle.Render(m.status)
	case m.status != "":
		line = styles.StatusStyle.Render(m.status)
	default:
		line = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return ansi.Truncate(line, m.width, "…")
}

// Close releases resources held by the model.
func (m Model) Close() error {
	if m.watcherCancel != nil {
		m.watcherCancel()
	}
	if m.logCancel != nil {
		m.logCancel()
	}
	if m.watcherHandle != nil {
		return m.watcherHandle.Stop()
	}
	return nil
}
