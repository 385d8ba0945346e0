package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/gravitrone/gerby-reader/internal/content"
	"github.com/gravitrone/gerby-reader/internal/location"
	"github.com/gravitrone/gerby-reader/internal/render"
	"github.com/gravitrone/gerby-reader/internal/store"
	"github.com/gravitrone/gerby-reader/internal/typeset"
	"github.com/gravitrone/gerby-reader/internal/ui/components"
)

const (
	placeholderText = "Waiting for stuff."
	proofIndent     = 2
)

// --- Messages ---

type contentLoadedMsg struct {
	path    string
	content content.Content
}

type contentFailedMsg struct {
	path string
	err  error
}

type typesetDoneMsg struct {
	rev uint64
}

// Fetcher loads the content at a path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (content.Content, error)
}

// --- Page Model ---

// PageModel shows one tag or chapter at a time. State changes only through
// store.Reduce, one message at a time.
type PageModel struct {
	fetcher    Fetcher
	typesetter typeset.Typesetter
	logger     *zap.Logger
	origin     string
	lister     Lister

	search    SearchModel
	searching bool

	state    store.State
	shown    string
	nav      navigation
	history  []string
	sections *components.List
	viewport viewport.Model
	width    int
	height   int
}

// navigation is the history change applied once the pending path commits.
type navigation struct {
	push string
	pop  bool
}

// Option configures a PageModel.
type Option func(*PageModel)

// WithLogger sets the logger for dropped fetch errors.
func WithLogger(l *zap.Logger) Option {
	return func(m *PageModel) {
		m.logger = l
	}
}

// WithOrigin sets the API origin shown in the header.
func WithOrigin(origin string) Option {
	return func(m *PageModel) {
		m.origin = origin
	}
}

// NewPageModel builds the viewer for the location rawURL.
func NewPageModel(f Fetcher, ts typeset.Typesetter, rawURL string, opts ...Option) PageModel {
	m := PageModel{
		fetcher:    f,
		typesetter: ts,
		logger:     zap.NewNop(),
		state:      store.Reduce(store.Initial(), store.Navigate{Path: location.Resolve(rawURL)}),
		sections:   components.NewList(10),
		viewport:   viewport.New(80, 20),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.typesetter == nil {
		m.typesetter = typeset.Nop{}
	}
	if l, ok := f.(Lister); ok {
		m.lister = l
	}
	m.refresh()
	return m
}

func (m PageModel) Init() tea.Cmd {
	return m.fetch(m.state.Path)
}

func (m PageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.SetWidth(msg.Width)
		m.refresh()
		return m, nil

	case contentLoadedMsg:
		prev := m.state
		m.state = store.Reduce(prev, store.Loaded{Path: msg.path, Content: msg.content})
		if !store.Committed(prev, m.state) {
			return m, nil
		}
		m.commitHistory()
		m.sections.SetItems(nil)
		m.viewport.GotoTop()
		m.refresh()
		if content.IsEmpty(m.state.Content) {
			return m, nil
		}
		return m, m.typeset()

	case contentFailedMsg:
		m.logger.Warn("fetch failed, keeping current content",
			zap.String("path", msg.path),
			zap.Error(msg.err))
		m.state = store.Reduce(m.state, store.Failed{Path: msg.path, Err: msg.err})
		if msg.path == m.state.Path && m.shown != "" {
			// Point back at what is on screen so reload and history stay on it.
			m.nav = navigation{}
			m.state = store.Reduce(m.state, store.Navigate{Path: m.shown})
		}
		return m, nil

	case typesetDoneMsg:
		return m, nil

	case searchFailedMsg:
		m.logger.Warn("listing failed",
			zap.String("mode", msg.mode),
			zap.String("query", msg.query),
			zap.Error(msg.err))
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd

	case searchResultsMsg:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd

	case searchSelectionMsg:
		m.searching = false
		return m.open(location.TagPath(msg.tag))

	case searchClosedMsg:
		m.searching = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m PageModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch {
	case m.lister != nil && isKey(msg, "/", "b"):
		mode := searchModeText
		if msg.String() == "b" {
			mode = searchModeBrowse
		}
		m.search = NewSearchModel(m.lister, mode)
		m.search.SetWidth(m.width)
		m.searching = true
		return m, m.search.Init()
	case isQuit(msg):
		return m, tea.Quit
	case isReload(msg):
		return m, m.fetch(m.state.Path)
	case isBack(msg):
		if len(m.history) == 0 {
			return m, nil
		}
		path := m.history[len(m.history)-1]
		m.nav = navigation{pop: true}
		m.state = store.Reduce(m.state, store.Navigate{Path: path})
		return m, m.fetch(path)
	}

	if page, ok := m.state.Content.(content.ChapterPage); ok {
		switch {
		case isDown(msg):
			m.sections.Down()
		case isUp(msg):
			m.sections.Up()
		case isEnter(msg):
			if idx := m.sections.Selected(); idx < len(page.Sections) {
				return m.open(location.TagPath(page.Sections[idx].Tag))
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// open navigates to path. The shown page joins the history only once path
// has loaded.
func (m PageModel) open(path string) (tea.Model, tea.Cmd) {
	m.nav = navigation{push: m.shown}
	m.state = store.Reduce(m.state, store.Navigate{Path: path})
	return m, m.fetch(path)
}

// commitHistory applies the pending navigation after a committed load.
func (m *PageModel) commitHistory() {
	switch {
	case m.nav.pop && len(m.history) > 0:
		m.history = m.history[:len(m.history)-1]
	case m.nav.push != "" && m.nav.push != m.state.Path:
		m.history = append(m.history, m.nav.push)
	}
	m.nav = navigation{}
	m.shown = m.state.Path
}

func (m PageModel) fetch(path string) tea.Cmd {
	f := m.fetcher
	return func() tea.Msg {
		c, err := f.Fetch(context.Background(), path)
		if err != nil {
			return contentFailedMsg{path: path, err: err}
		}
		return contentLoadedMsg{path: path, content: c}
	}
}

func (m PageModel) typeset() tea.Cmd {
	ts, rev := m.typesetter, m.state.Rev
	return func() tea.Msg {
		ts.RequestRetypeset(typeset.DefaultRoot)
		return typesetDoneMsg{rev: rev}
	}
}

// State returns the current state.
func (m PageModel) State() store.State {
	return m.state
}

// --- Layout ---

func (m *PageModel) contentWidth() int {
	w := components.BoxContentWidth(m.width)
	if w <= 0 {
		w = 76
	}
	return w
}

func (m *PageModel) bodyHeight() int {
	h := m.height - 10
	if h < 5 {
		h = 5
	}
	return h
}

// refresh rebuilds the derived views after a size or content change.
func (m *PageModel) refresh() {
	width := m.contentWidth()
	height := m.bodyHeight()
	m.viewport.Width = width
	m.viewport.Height = height
	m.sections.SetPageSize(height - 2)

	switch page := m.state.Content.(type) {
	case content.TagPage:
		m.viewport.SetContent(tagBody(page, width))
	case content.ChapterPage:
		if m.sections.Len() != len(page.Sections) {
			labels := make([]string, len(page.Sections))
			for i, s := range page.Sections {
				labels[i] = sectionLabel(s)
			}
			m.sections.SetItems(labels)
		}
	}
}

func (m PageModel) View() string {
	var b strings.Builder
	b.WriteString(RenderBanner(m.origin, m.state.Path, m.width))
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(m.search.View())
		b.WriteString("\n")
		b.WriteString(components.StatusBar(m.hints(), m.width))
		return b.String()
	}

	switch page := m.state.Content.(type) {
	case content.TagPage:
		b.WriteString(components.TitledBox(render.Title(page), m.viewport.View(), m.width))
	case content.ChapterPage:
		b.WriteString(components.TitledBox(render.Title(page), m.chapterBody(page), m.width))
	default:
		b.WriteString(components.TitledBox("", MutedStyle.Render(placeholderText), m.width))
	}

	b.WriteString("\n")
	b.WriteString(components.StatusBar(m.hints(), m.width))
	return b.String()
}

func (m PageModel) hints() []string {
	if m.searching {
		return []string{
			components.Hint("↑/↓", "Select"),
			components.Hint("enter", "Open"),
			components.Hint("tab", "Mode"),
			components.Hint("esc", "Close"),
		}
	}
	hints := []string{}
	switch m.state.Content.(type) {
	case content.ChapterPage:
		hints = append(hints, components.Hint("↑/↓", "Select"), components.Hint("enter", "Open"))
	case content.TagPage:
		hints = append(hints, components.Hint("↑/↓", "Scroll"))
	}
	if len(m.history) > 0 {
		hints = append(hints, components.Hint("esc", "Back"))
	}
	if m.lister != nil {
		hints = append(hints, components.Hint("/", "Search"), components.Hint("b", "Browse"))
	}
	return append(hints, components.Hint("r", "Reload"), components.Hint("q", "Quit"))
}

func (m PageModel) chapterBody(page content.ChapterPage) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Chapter %s  %s",
		components.SanitizeOneLine(page.Chapter.Ref),
		MutedStyle.Render("("+components.SanitizeOneLine(page.Chapter.Tag)+")"))))
	b.WriteString("\n")
	if m.sections.Len() == 0 {
		b.WriteString(MutedStyle.Render("No sections."))
		return b.String()
	}

	maxLabel := m.contentWidth() - 4
	visible := m.sections.Visible()
	for i, label := range visible {
		label = components.ClampTextWidth(label, maxLabel)
		if m.sections.RelToAbs(i) == m.sections.Selected() {
			b.WriteString(SelectedStyle.Render("  > " + label))
		} else {
			b.WriteString(NormalStyle.Render("    " + label))
		}
		if i < len(visible)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func sectionLabel(s content.Section) string {
	return fmt.Sprintf("%s · %s · %s",
		components.SanitizeOneLine(s.Tag),
		components.SanitizeOneLine(s.Ref),
		components.SanitizeOneLine(s.Name))
}

// tagBody is the scrollable text of a tag page: heading, breadcrumb, body and
// proofs, wrapped to width.
func tagBody(page content.TagPage, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	proofWrap := wrap
	if width > proofIndent {
		proofWrap = lipgloss.NewStyle().Width(width - proofIndent)
	}

	var b strings.Builder
	heading := "Tag " + components.SanitizeOneLine(page.Tag.Tag)
	if page.Tag.Type != "" {
		heading += "  " + TypeBadgeStyle.Render(components.SanitizeOneLine(page.Tag.Type))
	}
	b.WriteString(HeaderStyle.Render(heading))
	b.WriteString("\n")

	if len(page.Breadcrumb) > 0 {
		crumbs := make([]string, 0, len(page.Breadcrumb))
		for _, c := range page.Breadcrumb {
			crumbs = append(crumbs, CrumbStyle.Render(
				render.Capitalize(components.SanitizeOneLine(c.Type))+" "+components.SanitizeOneLine(c.Ref)))
		}
		b.WriteString(wrap.Render(strings.Join(crumbs, CrumbSepStyle.Render(" › "))))
		b.WriteString("\n\n")
	}

	if text := components.SanitizeText(render.Text(page.Tag.HTML)); text != "" {
		b.WriteString(wrap.Render(text))
		b.WriteString("\n")
	}

	for i, p := range page.Proofs {
		b.WriteString("\n")
		title := "Proof"
		if len(page.Proofs) > 1 {
			title = fmt.Sprintf("Proof %d", i+1)
		}
		b.WriteString(ProofLabelStyle.Render(title))
		b.WriteString("\n")
		b.WriteString(components.Indent(proofWrap.Render(components.SanitizeText(render.Text(p.HTML))), proofIndent))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
