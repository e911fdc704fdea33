package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/eccstat/internal/domain"
	"github.com/vburojevic/eccstat/internal/output"
)

var detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// SortKey selects the row order of the browser
type SortKey int

const (
	SortTable SortKey = iota // ECC priority, then capacity
	SortTotal                // descending total errors
	SortRate                 // descending critical error rate
)

func (k SortKey) String() string {
	switch k {
	case SortTotal:
		return "total"
	case SortRate:
		return "rate"
	default:
		return "table"
	}
}

var columns = []table.Column{
	{Title: "ECC Type", Width: 10},
	{Title: "Capacity", Width: 9},
	{Title: "CE", Width: 10},
	{Title: "UE", Width: 10},
	{Title: "SDC", Width: 10},
	{Title: "UE+SDC", Width: 10},
	{Title: "Crit.Rate", Width: 13},
	{Title: "Total", Width: 10},
}

// Model is the results table browser
type Model struct {
	rows      []domain.Row
	visible   []int
	table     table.Model
	textinput textinput.Model
	title     string
	width     int
	height    int
	ready     bool
	searching bool
	query     string
	eccFilter domain.ECCType
	sortKey   SortKey
	details   bool
}

// New creates a browser over rows. title names the table source.
func New(title string, rows []domain.Row) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter by capacity or source..."
	ti.CharLimit = 64
	ti.Width = 40

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(lipgloss.Color("39"))
	s.Selected = output.Styles.Selected.Bold(true)
	t.SetStyles(s)

	m := Model{
		rows:      rows,
		table:     t,
		textinput: ti,
		title:     title,
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "esc":
				m.searching = false
				m.textinput.Blur()
				m.query = ""
				m.textinput.SetValue("")
				m.refresh()
			case "enter":
				m.searching = false
				m.textinput.Blur()
				m.query = m.textinput.Value()
				m.refresh()
			default:
				m.textinput, cmd = m.textinput.Update(msg)
			}
			return m, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.searching = true
			m.textinput.Focus()
			return m, textinput.Blink
		case "esc":
			if m.query != "" {
				m.query = ""
				m.textinput.SetValue("")
				m.refresh()
			}
			return m, nil
		case "0":
			m.eccFilter = ""
			m.refresh()
			return m, nil
		case "1", "2", "3":
			i, _ := strconv.Atoi(msg.String())
			m.eccFilter = domain.KnownECCTypes[i-1]
			m.refresh()
			return m, nil
		case "s":
			m.sortKey = (m.sortKey + 1) % 3
			m.refresh()
			return m, nil
		case "d":
			m.details = !m.details
			m.resize()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.details {
		b.WriteString(m.renderDetails())
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

// Selected returns the row under the cursor
func (m Model) Selected() (domain.Row, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return domain.Row{}, false
	}
	return m.rows[m.visible[c]], true
}

// Visible returns the rows that pass the current filters, in display order
func (m Model) Visible() []domain.Row {
	out := make([]domain.Row, 0, len(m.visible))
	for _, i := range m.visible {
		out = append(out, m.rows[i])
	}
	return out
}

func (m *Model) renderHeader() string {
	title := output.Styles.Title.Width(m.width).Render(fmt.Sprintf("eccstat: %s", m.title))

	ecc := "all"
	if m.eccFilter != "" {
		ecc = string(m.eccFilter)
	}
	info := fmt.Sprintf("Rows: %d/%d | ECC: %s | Sort: %s", len(m.visible), len(m.rows), ecc, m.sortKey)
	if m.query != "" {
		info += fmt.Sprintf(" | Search: %q", m.query)
	}
	return title + "\n" + output.Styles.Label.Width(m.width).Render(info)
}

func (m *Model) renderDetails() string {
	row, ok := m.Selected()
	if !ok {
		return detailStyle.Render("no row selected")
	}
	lines := []string{
		output.ECCStyle(row.ECCType).Render(string(row.ECCType)) + " @ " + row.Capacity.Label,
		fmt.Sprintf("simulations: %d  source: %s", row.Sims, valueOr(row.Source, "-")),
		output.RateStyle(row.CriticalErrorRate).Render(fmt.Sprintf("critical error rate %.6e", row.CriticalErrorRate)),
	}
	if row.Total > 0 {
		lines = append(lines, fmt.Sprintf("CE %.2f%%  UE %.2f%%  SDC %.2f%%",
			pct(row.CE, row.Total), pct(row.UE, row.Total), pct(row.SDC, row.Total)))
	}
	return detailStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	if m.searching {
		return m.textinput.View()
	}
	help := "q:quit /:search 0-3:ecc s:sort d:details j/k:move"
	return output.Styles.Help.Width(m.width).Render(help)
}

func (m *Model) resize() {
	if !m.ready {
		return
	}
	headerHeight := 2
	footerHeight := 2
	if m.details {
		footerHeight += 4
	}
	h := m.height - headerHeight - footerHeight
	if h < 3 {
		h = 3
	}
	m.table.SetHeight(h)
	m.table.SetWidth(m.width)
}

// refresh recomputes the visible rows after a filter or sort change
func (m *Model) refresh() {
	m.visible = make([]int, 0, len(m.rows))
	query := strings.ToLower(m.query)
	for i, row := range m.rows {
		if m.rowMatches(row, query) {
			m.visible = append(m.visible, i)
		}
	}

	sort.SliceStable(m.visible, func(a, b int) bool {
		ra, rb := m.rows[m.visible[a]], m.rows[m.visible[b]]
		switch m.sortKey {
		case SortTotal:
			return ra.Total > rb.Total
		case SortRate:
			return ra.CriticalErrorRate > rb.CriticalErrorRate
		default:
			return ra.Less(rb)
		}
	})

	rows := make([]table.Row, 0, len(m.visible))
	for _, i := range m.visible {
		rows = append(rows, formatRow(m.rows[i]))
	}
	m.table.SetRows(rows)
}

func (m *Model) rowMatches(row domain.Row, query string) bool {
	if m.eccFilter != "" && row.ECCType != m.eccFilter {
		return false
	}
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(row.Capacity.Label), query) ||
		strings.Contains(strings.ToLower(string(row.ECCType)), query) ||
		strings.Contains(strings.ToLower(row.Source), query)
}

func formatRow(r domain.Row) table.Row {
	return table.Row{
		string(r.ECCType),
		r.Capacity.Label,
		strconv.FormatInt(r.CE, 10),
		strconv.FormatInt(r.UE, 10),
		strconv.FormatInt(r.SDC, 10),
		strconv.FormatInt(r.UEPlusSDC, 10),
		fmt.Sprintf("%.6e", r.CriticalErrorRate),
		strconv.FormatInt(r.Total, 10),
	}
}

func pct(v, total int64) float64 {
	return float64(v) / float64(total) * 100
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
