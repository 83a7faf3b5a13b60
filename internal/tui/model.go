package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"selectext/internal/document"
	"selectext/internal/highlight"
	"selectext/internal/log"
	"selectext/internal/pipeline"
	"selectext/internal/store"
)

// ModelConfig wires documents into the UI. Either Document (with its Store)
// or Events is set.
type ModelConfig struct {
	Events         <-chan pipeline.SegmentedEvent
	Document       *document.Document
	Store          *store.Store
	Segmenter      *highlight.Segmenter
	ThemeName      string
	HighlightColor highlight.Color
	Scrollback     int
	Sources        []string
	// OnPress receives the id of every pressed highlight.
	OnPress func(id string)
}

// Model renders segmented documents and routes presses on highlights.
type Model struct {
	cfg           ModelConfig
	viewport      viewport.Model
	theme         Theme
	events        <-chan pipeline.SegmentedEvent
	entries       []entry
	scrollback    int
	paused        bool
	follow        bool
	shimmer       bool
	sidebarWidth  int
	selectedIndex int
	focusIndex    int
	presses       int
	lastPressed   string
	notification  string
	notificationT time.Time
	helpOpen      bool
	helpViewport  viewport.Model
	windowWidth   int
	windowHeight  int
	showHeader    bool
	showStatus    bool
}

type entry struct {
	Name           string
	Path           string
	Line           int
	Timestamp      time.Time
	Text           string
	HighlightColor highlight.Color
	Segments       []highlight.Segment
	Err            error
}

func (e entry) highlightIDs() []string {
	return highlight.HighlightIDs(e.Segments)
}

type eventMsg pipeline.SegmentedEvent
type tickMsg time.Time
type streamClosedMsg struct{}

const (
	modalPaddingX = 2
	modalPaddingY = 1
)

// NewModel returns a configured Bubble Tea model.
func NewModel(cfg ModelConfig) Model {
	scrollback := cfg.Scrollback
	if scrollback <= 0 {
		scrollback = 600
	}
	if cfg.Segmenter == nil {
		cfg.Segmenter = highlight.NewSegmenter(nil)
	}
	vp := viewport.New(80, 24)
	vp.SetContent("waiting for documents…")
	m := Model{
		cfg:           cfg,
		viewport:      vp,
		theme:         ThemeByName(cfg.ThemeName),
		events:        cfg.Events,
		scrollback:    scrollback,
		follow:        true,
		sidebarWidth:  30,
		selectedIndex: -1,
		helpViewport:  viewport.New(60, 20),
		windowWidth:   80,
		windowHeight:  24,
		showHeader:    true,
		showStatus:    true,
	}
	if cfg.Document != nil {
		m.entries = []entry{m.segmentDocument()}
		m.selectedIndex = 0
		m.follow = false
	}
	m.viewport.SetContent(m.renderContent())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), pulse())
}

func (m Model) listen() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-m.events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(evt)
	}
}

func pulse() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if m.helpOpen {
			switch msg.String() {
			case "q", "esc", "enter", "?":
				m.helpOpen = false
				return m, nil
			default:
				var cmd tea.Cmd
				m.helpViewport, cmd = m.helpViewport.Update(msg)
				return m, cmd
			}
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.openHelp()
			return m, nil
		case "up", "k":
			m.moveSelection(-1)
		case "down", "j":
			m.moveSelection(1)
		case "tab":
			m.moveFocus(1)
		case "shift+tab":
			m.moveFocus(-1)
		case "enter":
			m.pressFocused()
		case "d":
			m.removeFocused()
		case "p":
			m.paused = !m.paused
			if !m.paused {
				m.refresh()
			}
		case "f":
			m.follow = !m.follow
		case "t":
			m.theme = ThemeByName(nextTheme(m.theme.Name))
			m.refresh()
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case eventMsg:
		return m.consumeEvent(msg)
	case tickMsg:
		m.shimmer = !m.shimmer
		if !m.notificationT.IsZero() && time.Since(m.notificationT) > 5*time.Second {
			m.notification = ""
		}
		return m, pulse()
	case streamClosedMsg:
		m.notify("stream closed")
	}

	var cmd tea.Cmd
	if !m.paused {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.windowWidth = width
	m.windowHeight = height
	if width < 10 {
		width = 80
	}
	if height < 5 {
		height = 24
	}
	if width < m.sidebarWidth+20 {
		m.sidebarWidth = clamp(width/3, 18, 40)
	}

	paneFrameW, paneFrameH := m.theme.Pane.GetFrameSize()
	sidebarFrameW, _ := m.theme.Sidebar.GetFrameSize()
	m.viewport.Width = max(width-m.sidebarWidth-sidebarFrameW-paneFrameW, 1)

	m.showHeader = true
	m.showStatus = true
	headerHeight := lipgloss.Height(m.renderHeader())
	statusHeight := lipgloss.Height(m.renderStatus())
	minBody := 3
	if headerHeight+statusHeight+minBody > height {
		m.showHeader = false
		headerHeight = 0
		if statusHeight+minBody > height {
			m.showStatus = false
			statusHeight = 0
		}
	}
	m.viewport.Height = max(height-headerHeight-statusHeight-paneFrameH, 1)
	m.refresh()
	if m.helpOpen {
		m.updateHelpViewportSize()
	}
}

func (m Model) consumeEvent(evt eventMsg) (tea.Model, tea.Cmd) {
	e := entry{
		Name:           evt.Name,
		Path:           evt.Path,
		Line:           evt.Line,
		Timestamp:      evt.Timestamp,
		Text:           evt.Text,
		HighlightColor: evt.HighlightColor,
		Segments:       evt.Segments,
		Err:            evt.Err,
	}
	m.entries = append(m.entries, e)
	if len(m.entries) > m.scrollback {
		trim := len(m.entries) - m.scrollback
		m.entries = m.entries[trim:]
		if m.selectedIndex >= 0 {
			m.selectedIndex = max(m.selectedIndex-trim, 0)
		}
	}
	if m.follow || m.selectedIndex == -1 {
		m.selectedIndex = len(m.entries) - 1
		m.focusIndex = 0
	}
	if e.Err != nil {
		m.notify(e.Err.Error())
	}
	if !m.paused {
		m.refresh()
		if m.follow {
			m.viewport.GotoBottom()
		}
	}
	return m, m.listen()
}

// segmentDocument rebuilds the single document entry from the store.
func (m Model) segmentDocument() entry {
	doc := *m.cfg.Document
	if m.cfg.Store != nil {
		doc.Highlights = m.cfg.Store.Ranges()
	}
	e := entry{
		Name:           doc.Name,
		Timestamp:      time.Now(),
		Text:           doc.Text,
		HighlightColor: doc.HighlightColor,
	}
	e.Segments, e.Err = doc.Segment(m.cfg.Segmenter)
	if e.Err != nil {
		log.ErrorErr(log.CatUI, "segment document", e.Err, "name", doc.Name)
	}
	return e
}

func (m *Model) moveSelection(delta int) {
	if len(m.entries) == 0 {
		m.selectedIndex = -1
		return
	}
	target := clamp(m.selectedIndex+delta, 0, len(m.entries)-1)
	if target == m.selectedIndex {
		return
	}
	m.selectedIndex = target
	m.focusIndex = 0
	m.follow = false
	m.refresh()
}

func (m *Model) moveFocus(delta int) {
	ids := m.selectedIDs()
	if len(ids) == 0 {
		return
	}
	m.focusIndex = (m.focusIndex + delta + len(ids)) % len(ids)
	m.refresh()
}

func (m Model) selectedEntry() (entry, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.entries) {
		return entry{}, false
	}
	return m.entries[m.selectedIndex], true
}

func (m Model) selectedIDs() []string {
	e, ok := m.selectedEntry()
	if !ok {
		return nil
	}
	return e.highlightIDs()
}

// FocusedID is the id of the highlight a press would activate.
func (m Model) FocusedID() string {
	ids := m.selectedIDs()
	if len(ids) == 0 {
		return ""
	}
	return ids[clamp(m.focusIndex, 0, len(ids)-1)]
}

func (m *Model) pressFocused() {
	id := m.FocusedID()
	if id == "" {
		return
	}
	m.presses++
	m.lastPressed = id
	m.notify("pressed " + id)
	log.Debug(log.CatUI, "highlight pressed", "id", id)
	if m.cfg.OnPress != nil {
		m.cfg.OnPress(id)
	}
}

func (m *Model) removeFocused() {
	id := m.FocusedID()
	if id == "" {
		return
	}
	if m.cfg.Store == nil || m.cfg.Document == nil {
		m.notify("highlights are read-only here")
		return
	}
	if err := m.cfg.Store.Remove(id); err != nil {
		m.notify(err.Error())
		return
	}
	m.entries[0] = m.segmentDocument()
	if n := len(m.selectedIDs()); m.focusIndex >= n {
		m.focusIndex = max(n-1, 0)
	}
	m.notify("removed " + id)
	m.refresh()
}

func (m *Model) notify(text string) {
	m.notification = text
	m.notificationT = time.Now()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) openHelp() {
	m.helpOpen = true
	m.updateHelpViewportSize()
	m.helpViewport.GotoTop()
}

func (m Model) modalSize() (int, int) {
	width := clamp(m.windowWidth*8/10, 20, max(m.windowWidth-2, 20))
	height := clamp(m.windowHeight*8/10, 10, max(m.windowHeight-2, 10))
	return width, height
}

func (m *Model) updateHelpViewportSize() {
	width, height := m.modalSize()
	m.helpViewport.Width = max(width-(modalPaddingX*2)-2, 40)
	m.helpViewport.Height = max(height-(modalPaddingY*2)-4, 10)
	helpText := `
NAVIGATION
  ↑ / ↓ (k / j)   Select document
  Tab / Shift+Tab Focus next / previous highlight

ACTIONS
  Enter           Press the focused highlight
  d               Remove the focused highlight (document view)

PLAYBACK
  p               Pause/unpause rendering
  f               Toggle auto-follow

APPEARANCE
  t               Cycle themes (vapor → midnight → dusk)

OTHER
  ?               Show this help
  q / Ctrl+C      Quit
`
	m.helpViewport.SetContent(strings.TrimSpace(helpText))
}

func (m Model) renderHelpModal() string {
	width, height := m.modalSize()
	title := m.theme.Header.Render("keyboard shortcuts")
	instructions := lipgloss.NewStyle().
		Foreground(m.accentColor()).
		Italic(true).
		Render("↑/↓ scroll · q/esc/enter/? close")
	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.accentColor()).
		Width(width).
		Height(height).
		Padding(modalPaddingY, modalPaddingX).
		Align(lipgloss.Left)
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, instructions, m.helpViewport.View()))
}

func (m Model) View() string {
	if m.windowWidth <= 0 || m.windowHeight <= 0 {
		return "Loading..."
	}
	if m.helpOpen {
		return lipgloss.Place(m.windowWidth, m.windowHeight, lipgloss.Center, lipgloss.Center, m.renderHelpModal(),
			lipgloss.WithWhitespaceChars(" "))
	}

	header := m.renderHeader()
	status := m.renderStatus()
	bodyHeight := max(m.windowHeight-lipgloss.Height(header)-lipgloss.Height(status), 3)
	if header == "" {
		bodyHeight = max(m.windowHeight-lipgloss.Height(status), 3)
	}

	paneView := m.theme.Pane.Render(m.viewport.View())
	_, sidebarFrameH := m.theme.Sidebar.GetFrameSize()
	sidebarView := m.theme.Sidebar.Render(m.renderSidebar(bodyHeight - sidebarFrameH))

	target := max(lipgloss.Height(paneView), lipgloss.Height(sidebarView))
	paneView = lipgloss.NewStyle().Height(target).Render(paneView)
	sidebarView = lipgloss.NewStyle().Height(target).Render(sidebarView)

	parts := make([]string, 0, 3)
	if header != "" {
		parts = append(parts, header)
	}
	parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, paneView, sidebarView))
	if status != "" {
		parts = append(parts, status)
	}
	result := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if lines := strings.Split(result, "\n"); len(lines) > m.windowHeight {
		result = strings.Join(lines[:m.windowHeight], "\n")
	}
	return result
}

func (m Model) renderHeader() string {
	if !m.showHeader {
		return ""
	}
	parts := []string{
		"Selectext",
		fmt.Sprintf("theme:%s", strings.ToUpper(m.theme.Name)),
		fmt.Sprintf("documents:%d", len(m.entries)),
	}
	return m.theme.Header.Render(strings.Join(parts, "  ·  "))
}

func (m Model) renderContent() string {
	if len(m.entries) == 0 {
		return "waiting for documents…"
	}
	rows := make([]string, 0, len(m.entries))
	for idx, e := range m.entries {
		rows = append(rows, m.renderEntry(e, idx == m.selectedIndex))
	}
	return strings.Join(rows, "\n\n")
}

func (m Model) renderEntry(e entry, selected bool) string {
	title := coalesce(e.Name, "document")
	if e.Path != "" {
		title = fmt.Sprintf("%s  %s:%d", title, e.Path, e.Line)
	}
	meta := m.theme.TagStyle.Render(e.Timestamp.Format("15:04:05")) + " " + m.theme.Text.Faint(true).Render(title)

	var body string
	if e.Err != nil {
		body = m.theme.ErrorStyle.Render(e.Err.Error())
	} else {
		focusID := ""
		if selected {
			focusID = m.FocusedID()
		}
		def := e.HighlightColor
		if !def.IsSet() {
			def = m.cfg.HighlightColor
		}
		body = RenderSegments(e.Segments, m.theme.Text, m.theme.HighlightStyle, m.theme.FocusStyle, def, focusID)
	}
	width := max(m.viewport.Width-2, 10)
	body = lipgloss.NewStyle().Width(width).Render(body)

	indicator := " "
	if selected {
		indicator = m.theme.FocusStyle.Render("➤")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, indicator, " ", lipgloss.JoinVertical(lipgloss.Left, meta, body))
}

func (m Model) renderSidebar(maxHeight int) string {
	sections := []string{}

	var sources strings.Builder
	sources.WriteString(m.theme.Header.Render("sources"))
	if len(m.cfg.Sources) == 0 {
		sources.WriteString("\n" + m.theme.TagStyle.Render("none"))
	}
	for _, src := range m.cfg.Sources {
		sources.WriteString("\n" + m.theme.PillStyle.Render(src))
	}
	sections = append(sections, sources.String())

	var ids strings.Builder
	ids.WriteString(m.theme.Header.Render("highlights"))
	focused := m.FocusedID()
	list := m.selectedIDs()
	if len(list) == 0 {
		ids.WriteString("\n" + m.theme.TagStyle.Render("—"))
	}
	for _, id := range list {
		marker := "  "
		if id == focused {
			marker = "➤ "
		}
		ids.WriteString("\n" + marker + truncate(id, m.sidebarContentWidth()-2))
	}
	sections = append(sections, ids.String())

	stats := m.cfg.Segmenter.Normalizer().Stats()
	sections = append(sections, fmt.Sprintf("%s\nhits %d · misses %d\nentries %d",
		m.theme.Header.Render("cache"), stats.Hits, stats.Misses, stats.Entries))

	sections = append(sections, fmt.Sprintf("%s\n%s", m.theme.Header.Render("last press"),
		m.theme.TagStyle.Render(coalesce(truncate(m.lastPressed, m.sidebarContentWidth()-2), "—"))))

	if m.notification != "" {
		alertStyle := lipgloss.NewStyle().Foreground(m.accentColor()).Padding(0, 1)
		sections = append(sections, fmt.Sprintf("%s\n%s", m.theme.Header.Render("signal"), alertStyle.Render(m.notification)))
	}

	content := strings.Join(sections, "\n\n")
	if maxHeight > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxHeight {
			content = strings.Join(lines[:maxHeight], "\n")
		}
	}
	return content
}

func (m Model) renderStatus() string {
	if !m.showStatus {
		return ""
	}
	state := "live"
	if m.paused {
		state = "paused"
	}
	glow := "✧"
	if m.shimmer {
		glow = "✦"
	}
	content := fmt.Sprintf("%s %s  ·  ? help  ·  tab focus  ·  enter press  ·  d remove  ·  t theme  ·  q quit", glow, state)
	paneFrameW, _ := m.theme.Pane.GetFrameSize()
	sidebarFrameW, _ := m.theme.Sidebar.GetFrameSize()
	totalWidth := max(m.viewport.Width+paneFrameW+m.sidebarWidth+sidebarFrameW, 10)
	return m.theme.StatusBar.Width(totalWidth).Render(content)
}

func (m Model) accentColor() lipgloss.TerminalColor {
	if fg := m.theme.Header.GetForeground(); fg != nil {
		return fg
	}
	return lipgloss.Color("#FF61D8")
}

func (m Model) sidebarContentWidth() int {
	frameW, _ := m.theme.Sidebar.GetFrameSize()
	return max(m.sidebarWidth-frameW, 6)
}

func truncate(value string, width int) string {
	if width <= 1 || lipgloss.Width(value) <= width {
		return value
	}
	runes := []rune(value)
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}

func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func coalesce(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}
