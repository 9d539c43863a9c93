package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/openskills/internal/model"
)

// SkillListResult contains the result of the skill list TUI interaction.
type SkillListResult struct {
	// Selected is the entry the user viewed last, if any.
	Selected model.Entry
	// Viewed reports whether the user opened a detail view.
	Viewed bool
}

// skillListKeyMap defines the key bindings for the skill list.
type skillListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Detail   key.Binding
	Filter   key.Binding
	ClearFlt key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func defaultSkillListKeyMap() skillListKeyMap {
	return skillListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter/v", "view"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearFlt: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type skillListPhase int

const (
	skillListPhaseList skillListPhase = iota
	skillListPhaseDetail
)

const (
	skillListNameWidth   = 25
	skillListSourceWidth = 30
	skillListDescWidth   = 45
	skillListPadding     = 2
	skillListColumns     = 3
	skillListHeight      = 15
)

var titleCaser = cases.Title(language.English)

// SkillListModel is the BubbleTea model for browsing loaded skills.
type SkillListModel struct {
	table     table.Model
	entries   []model.Entry
	filtered  []model.Entry
	keys      skillListKeyMap
	result    SkillListResult
	filter    string
	filtering bool
	width     int
	phase     skillListPhase
	detail    model.Entry
	viewport  viewport.Model
	ready     bool
	quitting  bool
}

// NewSkillListModel creates a skill browser over registry entries.
func NewSkillListModel(entries []model.Entry) SkillListModel {
	sorted := make([]model.Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name()) < strings.ToLower(sorted[j].Name())
	})

	m := SkillListModel{
		entries:  sorted,
		filtered: sorted,
		keys:     defaultSkillListKeyMap(),
		phase:    skillListPhaseList,
	}

	t := table.New(
		table.WithColumns(skillListColumnSet()),
		table.WithRows(entriesToRows(sorted)),
		table.WithFocused(true),
		table.WithHeight(skillListHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m.table = t
	return m
}

func skillListColumnSet() []table.Column {
	return []table.Column{
		{Title: "Name", Width: skillListNameWidth},
		{Title: "Source", Width: skillListSourceWidth},
		{Title: "Description", Width: skillListDescWidth},
	}
}

func entriesToRows(entries []model.Entry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, entry := range entries {
		rows[i] = table.Row{
			truncate(entry.Name(), skillListNameWidth),
			truncate(entry.SourcePath, skillListSourceWidth),
			truncate(entry.Description(), skillListDescWidth),
		}
	}
	return rows
}

// truncate shortens value to width display cells.
func truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// Result returns the outcome after the program exits.
func (m SkillListModel) Result() SkillListResult {
	return m.result
}

// Init implements tea.Model.
func (m SkillListModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SkillListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.phase == skillListPhaseDetail {
		return m.updateDetail(msg)
	}
	return m.updateList(msg)
}

func (m SkillListModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilterInput(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, nil
		case key.Matches(msg, m.keys.ClearFlt):
			m.filter = ""
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keys.Detail):
			if entry, ok := m.selectedEntry(); ok {
				m.detail = entry
				m.result = SkillListResult{Selected: entry, Viewed: true}
				m.phase = skillListPhaseDetail
				m.setupViewport()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SkillListModel) updateFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
		m.applyFilter()
	case tea.KeyBackspace:
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.applyFilter()
		}
	case tea.KeyRunes:
		m.filter += string(msg.Runes)
		m.applyFilter()
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SkillListModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.phase = skillListPhaseList
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.setupViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *SkillListModel) setupViewport() {
	width := m.width
	if width <= 0 {
		width = skillListNameWidth + skillListSourceWidth + skillListDescWidth +
			skillListPadding*skillListColumns
	}

	vp := viewport.New(width-2, skillListHeight)
	vp.SetContent(m.detailContent())
	m.viewport = vp
	m.ready = true
}

func (m SkillListModel) detailContent() string {
	var b strings.Builder
	b.WriteString(Palette.DetailTitle.Render(m.detail.Name()) + "\n\n")
	b.WriteString(m.detail.Description() + "\n\n")
	b.WriteString(Palette.Help.Render("Source: "+m.detail.SourcePath) + "\n")

	if len(m.detail.Manifest.Extra) > 0 {
		keys := make([]string, 0, len(m.detail.Manifest.Extra))
		for key := range m.detail.Manifest.Extra {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			b.WriteString(fmt.Sprintf("%s: %s\n", titleCaser.String(key), m.detail.Manifest.Extra[key]))
		}
	}

	b.WriteString("\n" + m.detail.Content)
	return b.String()
}

func (m *SkillListModel) applyFilter() {
	if m.filter == "" {
		m.filtered = m.entries
	} else {
		needle := strings.ToLower(m.filter)
		var filtered []model.Entry
		for _, entry := range m.entries {
			if strings.Contains(strings.ToLower(entry.Name()), needle) ||
				strings.Contains(strings.ToLower(entry.Description()), needle) {
				filtered = append(filtered, entry)
			}
		}
		m.filtered = filtered
	}

	m.table.SetRows(entriesToRows(m.filtered))
	m.table.SetCursor(0)
}

func (m SkillListModel) selectedEntry() (model.Entry, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.filtered) {
		return model.Entry{}, false
	}
	return m.filtered[idx], true
}

// View implements tea.Model.
func (m SkillListModel) View() string {
	if m.quitting {
		return ""
	}

	if m.phase == skillListPhaseDetail {
		if !m.ready {
			return "loading..."
		}
		help := Palette.Help.Render("b/esc back · q quit · ↑/↓ scroll")
		return Palette.DetailBox.Render(m.viewport.View()) + "\n" + help
	}

	title := Palette.Title.Render(fmt.Sprintf("Skills (%d)", len(m.filtered)))

	var filterLine string
	if m.filtering {
		filterLine = Palette.Filter.Render("Filter: ") +
			Palette.FilterInput.Render(m.filter+"▌")
	} else if m.filter != "" {
		filterLine = Palette.Filter.Render("Filter: ") +
			Palette.FilterInput.Render(m.filter)
	}

	help := Palette.Help.Render("enter/v view · / filter · q quit")

	sections := []string{title, m.table.View(), help}
	if filterLine != "" {
		sections = []string{title, filterLine, m.table.View(), help}
	}
	return strings.Join(sections, "\n")
}
