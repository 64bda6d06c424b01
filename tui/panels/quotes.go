package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tickwatch/tickwatch/pkg/models"
	"github.com/tickwatch/tickwatch/tui/styles"
)

// QuotesPanel displays the latest price per tracked symbol, one row per
// symbol that has a record, in tracked order. The selected row drives the
// history chart.
type QuotesPanel struct {
	symbols       []string
	records       map[string]models.PriceRecord
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewQuotesPanel creates a quotes panel for the given ordered symbols.
func NewQuotesPanel(symbols []string) *QuotesPanel {
	return &QuotesPanel{
		symbols: symbols,
		records: make(map[string]models.PriceRecord),
	}
}

// Init initializes the panel.
func (p *QuotesPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *QuotesPanel) Update(msg tea.Msg) (*QuotesPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.symbols)-1 {
				p.selectedIndex++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *QuotesPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-8s %10s %10s %10s %10s",
		"Symbol", "Price", "Change", "Change%", "Updated")
	content.WriteString(styles.HeaderStyle.Render(header))

	for i, sym := range p.symbols {
		rec, ok := p.records[sym]
		if !ok {
			// No placeholder rows before a symbol's first update.
			continue
		}

		row := fmt.Sprintf("%-8s %10.2f %+10.2f %+9.2f%% %10s",
			sym, rec.Price, rec.Change, rec.PercentChange, rec.TS.Local().Format("15:04:05"))

		// Selection highlight wins over the up/down coloring, like the
		// chart it drives.
		style := styles.PriceUpStyle
		if rec.Change < 0 {
			style = styles.PriceDownStyle
		}
		if i == p.selectedIndex {
			style = styles.SelectedRowStyle
		}

		content.WriteString("\n")
		content.WriteString(style.Render(row))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("Quotes", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *QuotesPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *QuotesPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetRecords replaces the displayed records.
func (p *QuotesPanel) SetRecords(records map[string]models.PriceRecord) {
	p.records = records
}

// SelectedSymbol returns the symbol of the selected row.
func (p *QuotesPanel) SelectedSymbol() string {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.symbols) {
		return p.symbols[p.selectedIndex]
	}
	return ""
}
