package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tickwatch/tickwatch/internal/alert"
	"github.com/tickwatch/tickwatch/tui/styles"
)

// AlertsPanel shows the big-move alert feed, newest entry on top.
type AlertsPanel struct {
	alerts  []alert.Alert
	focused bool
	width   int
	height  int
}

// NewAlertsPanel creates an empty alerts panel.
func NewAlertsPanel() *AlertsPanel {
	return &AlertsPanel{}
}

// Init initializes the panel.
func (p *AlertsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *AlertsPanel) Update(msg tea.Msg) (*AlertsPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *AlertsPanel) View() string {
	var content strings.Builder

	if len(p.alerts) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No big moves yet"))
	} else {
		for i, a := range p.alerts {
			marker := styles.AlertUpStyle.Render("▲")
			if a.Direction == alert.DirectionDown {
				marker = styles.AlertDownStyle.Render("▼")
			}

			line := fmt.Sprintf("%s %-6s %10.2f  %s",
				marker, a.Symbol, a.Price,
				styles.TimeStyle.Render(a.At.Local().Format("15:04:05")))

			content.WriteString(line)
			if i < len(p.alerts)-1 {
				content.WriteString("\n")
			}
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("Big Moves", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *AlertsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *AlertsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetAlerts replaces the displayed alerts, newest first.
func (p *AlertsPanel) SetAlerts(alerts []alert.Alert) {
	p.alerts = alerts
}
