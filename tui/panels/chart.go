package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tickwatch/tickwatch/internal/market"
	"github.com/tickwatch/tickwatch/tui/styles"
)

// ChartPanel draws the selected symbol's price history as a line chart:
// one column per buffered entry, newest on the right, with a price axis on
// the left and time labels underneath.
type ChartPanel struct {
	symbol  string
	entries []market.HistoryEntry

	focused bool
	width   int
	height  int
}

// NewChartPanel creates an empty chart panel.
func NewChartPanel() *ChartPanel {
	return &ChartPanel{}
}

// Init initializes the panel.
func (p *ChartPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *ChartPanel) Update(msg tea.Msg) (*ChartPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *ChartPanel) View() string {
	name := p.symbol
	if name == "" {
		name = "No symbol"
	}

	chartHeight := p.height - 7
	chartWidth := p.width - 14
	var content string
	if len(p.entries) == 0 || chartHeight < 3 || chartWidth < len(p.entries)*2 {
		// Inert when there is nothing to plot or no room to plot it.
		content = lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("Waiting for price history...")
	} else {
		content = p.renderChart(chartHeight)
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(fmt.Sprintf("History - %s", name), p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content)

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ChartPanel) renderChart(height int) string {
	minPrice := p.entries[0].Price
	maxPrice := p.entries[0].Price
	for _, e := range p.entries {
		if e.Price < minPrice {
			minPrice = e.Price
		}
		if e.Price > maxPrice {
			maxPrice = e.Price
		}
	}

	// Pad the range so a flat series still plots mid-chart.
	pad := (maxPrice - minPrice) * 0.1
	if pad == 0 {
		pad = 1
	}
	minPrice -= pad
	maxPrice += pad

	// Row per point, precomputed top-down positions.
	rows := make([]int, len(p.entries))
	for i, e := range p.entries {
		rows[i] = priceToRow(e.Price, minPrice, maxPrice, height)
	}

	var out strings.Builder
	for row := 0; row < height; row++ {
		label := rowPrice(row, minPrice, maxPrice, height)
		out.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%9.2f │", label)))

		for i := range p.entries {
			if rows[i] != row {
				out.WriteString("  ")
				continue
			}
			style := styles.ChartLineUpStyle
			if i > 0 && p.entries[i].Price < p.entries[i-1].Price {
				style = styles.ChartLineDownStyle
			}
			out.WriteString(style.Render("●") + " ")
		}
		out.WriteString("\n")
	}

	// Bottom border and a time label per end of the window.
	out.WriteString(styles.ChartAxisStyle.Render("──────────┴"))
	for range p.entries {
		out.WriteString(styles.ChartAxisStyle.Render("──"))
	}
	out.WriteString("\n")

	first := p.entries[0].TS.Local().Format("15:04:05")
	last := p.entries[len(p.entries)-1].TS.Local().Format("15:04:05")
	gap := len(p.entries)*2 - len(first)
	if gap < 1 {
		gap = 1
	}
	out.WriteString("           ")
	out.WriteString(styles.ChartLabelStyle.Render(first))
	if len(p.entries) > 4 {
		out.WriteString(strings.Repeat(" ", gap))
		out.WriteString(styles.ChartLabelStyle.Render(last))
	}

	return out.String()
}

func priceToRow(price, minPrice, maxPrice float64, height int) int {
	if maxPrice == minPrice {
		return height / 2
	}
	ratio := (maxPrice - price) / (maxPrice - minPrice)
	row := int(ratio * float64(height-1))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func rowPrice(row int, minPrice, maxPrice float64, height int) float64 {
	if height <= 1 {
		return minPrice
	}
	ratio := float64(row) / float64(height-1)
	return maxPrice - ratio*(maxPrice-minPrice)
}

// SetFocus sets the focus state of the panel.
func (p *ChartPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetHistory replaces the charted series. Call with nil entries after a
// selection change so the chart restarts empty.
func (p *ChartPanel) SetHistory(symbol string, entries []market.HistoryEntry) {
	p.symbol = symbol
	p.entries = entries
}
