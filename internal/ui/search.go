package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/gerby-reader/internal/content"
	"github.com/gravitrone/gerby-reader/internal/render"
	"github.com/gravitrone/gerby-reader/internal/ui/components"
)

type searchResultsMsg struct {
	query string
	mode  string
	items []content.Summary
}

type searchFailedMsg struct {
	query string
	mode  string
	err   error
}

type searchSelectionMsg struct {
	tag string
}

type searchClosedMsg struct{}

// Lister runs the listing queries behind the search overlay.
type Lister interface {
	Search(ctx context.Context, query string) ([]content.Summary, error)
	Browse(ctx context.Context) ([]content.Summary, error)
}

const (
	searchModeText   = "search"
	searchModeBrowse = "browse"
)

// SearchModel is the overlay for full-text search and chapter browsing. In
// browse mode the chapter list is fetched once and the query filters it.
type SearchModel struct {
	lister   Lister
	query    string
	mode     string
	loading  bool
	failed   bool
	chapters []content.Summary
	list     *components.List
	items    []content.Summary
	width    int
}

// NewSearchModel builds the search UI model.
func NewSearchModel(l Lister, mode string) SearchModel {
	if mode != searchModeBrowse {
		mode = searchModeText
	}
	return SearchModel{
		lister: l,
		mode:   mode,
		list:   components.NewList(12),
	}
}

// Init loads the chapter list when opened in browse mode.
func (m *SearchModel) Init() tea.Cmd {
	if m.mode == searchModeBrowse {
		return m.browse()
	}
	return nil
}

func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultsMsg:
		if msg.mode != m.mode {
			return m, nil
		}
		if msg.mode == searchModeBrowse {
			m.loading = false
			m.failed = false
			m.chapters = msg.items
			m.setItems(filterSummaries(m.chapters, m.query))
			return m, nil
		}
		if strings.TrimSpace(msg.query) != strings.TrimSpace(m.query) {
			return m, nil
		}
		m.loading = false
		m.failed = false
		m.setItems(msg.items)
		return m, nil

	case searchFailedMsg:
		if msg.mode != m.mode || (msg.mode == searchModeText && strings.TrimSpace(msg.query) != strings.TrimSpace(m.query)) {
			return m, nil
		}
		m.loading = false
		m.failed = true
		m.setItems(nil)
		return m, nil

	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyEsc:
			if m.query != "" {
				return m, m.setQuery("")
			}
			return m, func() tea.Msg { return searchClosedMsg{} }
		case isKey(msg, "cmd+backspace", "cmd+delete", "ctrl+u"):
			if m.query != "" {
				return m, m.setQuery("")
			}
		case isKey(msg, "backspace", "delete"):
			if m.query != "" {
				r := []rune(m.query)
				return m, m.setQuery(string(r[:len(r)-1]))
			}
		case isKey(msg, "down"):
			m.list.Down()
		case isKey(msg, "up"):
			m.list.Up()
		case isKey(msg, "tab"):
			if m.mode == searchModeText {
				m.mode = searchModeBrowse
			} else {
				m.mode = searchModeText
			}
			m.failed = false
			if m.mode == searchModeBrowse {
				if m.chapters == nil {
					m.setItems(nil)
					return m, m.browse()
				}
				// A text search may still be in flight; its result is dropped.
				m.loading = false
			}
			return m, m.setQuery(m.query)
		case isKey(msg, "enter"):
			if idx := m.list.Selected(); idx < len(m.items) {
				tag := m.items[idx].Tag
				return m, func() tea.Msg { return searchSelectionMsg{tag: tag} }
			}
		default:
			if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
				ch := string(msg.Runes)
				if msg.Type == tea.KeySpace {
					ch = " "
				}
				if ch == " " && m.query == "" {
					return m, nil
				}
				return m, m.setQuery(m.query + ch)
			}
		}
	}
	return m, nil
}

// SetWidth sets the render width.
func (m *SearchModel) SetWidth(width int) {
	m.width = width
}

func (m SearchModel) View() string {
	var b strings.Builder
	b.WriteString(MutedStyle.Render(fmt.Sprintf("Mode: %s (tab to toggle)", m.mode)))
	b.WriteString("\n\n")
	b.WriteString("  > " + components.SanitizeOneLine(m.query))
	b.WriteString(AccentStyle.Render("█"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(MutedStyle.Render("Searching..."))
	case m.failed:
		b.WriteString(MutedStyle.Render("Search failed."))
	case m.mode == searchModeText && strings.TrimSpace(m.query) == "":
		b.WriteString(MutedStyle.Render("Type to search."))
	case len(m.items) == 0:
		b.WriteString(MutedStyle.Render("No matches."))
	default:
		maxLabelWidth := components.BoxContentWidth(m.width) - 4
		visible := m.list.Visible()
		for i, label := range visible {
			if maxLabelWidth > 0 {
				label = components.ClampTextWidth(label, maxLabelWidth)
			}
			if m.list.RelToAbs(i) == m.list.Selected() {
				b.WriteString(SelectedStyle.Render("  > " + label))
			} else {
				b.WriteString(NormalStyle.Render("    " + label))
			}
			if i < len(visible)-1 {
				b.WriteString("\n")
			}
		}
	}

	title := "Search"
	if m.mode == searchModeBrowse {
		title = "Browse"
	}
	return components.TitledBox(title, b.String(), m.width)
}

// setQuery updates the query and returns the command that refreshes the
// results for it.
func (m *SearchModel) setQuery(query string) tea.Cmd {
	m.query = query
	if m.mode == searchModeBrowse {
		m.setItems(filterSummaries(m.chapters, query))
		return nil
	}
	q := strings.TrimSpace(query)
	if q == "" {
		m.loading = false
		m.setItems(nil)
		return nil
	}
	m.loading = true
	l := m.lister
	return func() tea.Msg {
		items, err := l.Search(context.Background(), q)
		if err != nil {
			return searchFailedMsg{query: q, mode: searchModeText, err: err}
		}
		return searchResultsMsg{query: q, mode: searchModeText, items: items}
	}
}

func (m *SearchModel) browse() tea.Cmd {
	m.loading = true
	l := m.lister
	return func() tea.Msg {
		items, err := l.Browse(context.Background())
		if err != nil {
			return searchFailedMsg{mode: searchModeBrowse, err: err}
		}
		return searchResultsMsg{mode: searchModeBrowse, items: items}
	}
}

func (m *SearchModel) setItems(items []content.Summary) {
	m.items = items
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = summaryLabel(item)
	}
	m.list.SetItems(labels)
}

func summaryLabel(s content.Summary) string {
	title := strings.TrimSpace(strings.TrimSpace(render.Capitalize(s.Type)) + " " + s.Ref)
	if s.Name != "" {
		title = strings.TrimSpace(title + " " + s.Name)
	}
	if title == "" {
		title = s.Tag
	}
	return fmt.Sprintf("%s  %s",
		components.SanitizeOneLine(title),
		MutedStyle.Render(components.SanitizeOneLine(s.Tag)))
}

func filterSummaries(items []content.Summary, query string) []content.Summary {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := make([]content.Summary, 0, len(items))
	for _, s := range items {
		haystack := strings.ToLower(strings.Join([]string{s.Tag, s.Ref, s.Name, s.Type}, " "))
		if strings.Contains(haystack, q) {
			out = append(out, s)
		}
	}
	return out
}
