package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tickwatch/tickwatch/internal/alert"
	"github.com/tickwatch/tickwatch/internal/feed"
	"github.com/tickwatch/tickwatch/internal/market"
	"github.com/tickwatch/tickwatch/tui/panels"
	"github.com/tickwatch/tickwatch/tui/styles"
)

const (
	historyCapacity = 10
	alertCapacity   = 6
	alertThreshold  = 1.0
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusQuotes PanelFocus = 0
	FocusChart  PanelFocus = 1
	FocusAlerts PanelFocus = 2
)

// Model is the dashboard's root bubbletea model. It owns all application
// state (price store, history buffer, alert feed, feed mode, selection), so
// every feed batch is applied to the store in full inside Update before any
// View render observes it.
type Model struct {
	feed *feed.Manager

	store    *market.Store
	history  *market.History
	alerts   *alert.Feed
	mode     feed.Mode
	selected string

	quotesPanel *panels.QuotesPanel
	chartPanel  *panels.ChartPanel
	alertsPanel *panels.AlertsPanel

	focusedPanel PanelFocus

	width  int
	height int
	ready  bool
}

// NewModel creates the dashboard model over a running feed manager.
func NewModel(manager *feed.Manager, symbols []string) *Model {
	selected := ""
	if len(symbols) > 0 {
		selected = symbols[0]
	}

	return &Model{
		feed:        manager,
		store:       market.NewStore(symbols),
		history:     market.NewHistory(historyCapacity),
		alerts:      alert.NewFeed(alertThreshold, alertCapacity),
		mode:        feed.ModeConnecting,
		selected:    selected,
		quotesPanel: panels.NewQuotesPanel(symbols),
		chartPanel:  panels.NewChartPanel(),
		alertsPanel: panels.NewAlertsPanel(),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.quotesPanel.Init(),
		m.chartPanel.Init(),
		m.alertsPanel.Init(),
		m.listenFeed(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.focusedPanel = (m.focusedPanel + 1) % 3

		case "shift+tab":
			m.focusedPanel--
			if m.focusedPanel < 0 {
				m.focusedPanel = 2
			}

		case "f1":
			m.focusedPanel = FocusQuotes
		case "f2":
			m.focusedPanel = FocusChart
		case "f3":
			m.focusedPanel = FocusAlerts
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedEventMsg:
		m.handleFeedEvent(feed.Event(msg))
		cmds = append(cmds, m.listenFeed())
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusQuotes:
		m.quotesPanel, cmd = m.quotesPanel.Update(msg)
		// A selection change restarts the history buffer: the chart is
		// empty for the new symbol until its next update arrives.
		if selected := m.quotesPanel.SelectedSymbol(); selected != "" && selected != m.selected {
			m.selected = selected
			m.history.Reset()
			m.chartPanel.SetHistory(m.selected, nil)
		}
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	case FocusAlerts:
		m.alertsPanel, cmd = m.alertsPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// handleFeedEvent applies one consolidated feed event: the whole batch goes
// into the store first, then the panels are synced from the stores.
func (m *Model) handleFeedEvent(ev feed.Event) {
	m.mode = ev.Mode

	for _, rec := range ev.Records {
		applied, first := m.store.Apply(rec)
		if applied.Symbol == "" {
			continue
		}

		m.alerts.Observe(applied, first)

		if applied.Symbol == m.selected {
			m.history.Append(market.HistoryEntry{TS: applied.TS, Price: applied.Price})
		}
	}

	m.quotesPanel.SetRecords(m.store.Snapshot())
	m.chartPanel.SetHistory(m.selected, m.history.Entries())
	m.alertsPanel.SetAlerts(m.alerts.Alerts())
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.quotesPanel.SetFocus(m.focusedPanel == FocusQuotes)
	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)
	m.alertsPanel.SetFocus(m.focusedPanel == FocusAlerts)

	// Layout:
	// ┌──────────────────────┬──────────────────────┐
	// │       Quotes         │       History        │
	// ├──────────────────────┴──────────────────────┤
	// │                  Big Moves                  │
	// └─────────────────────────────────────────────┘

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	topHeight := (m.height - 4) * 2 / 3
	bottomHeight := m.height - topHeight - 4

	m.quotesPanel.SetSize(leftWidth, topHeight)
	m.chartPanel.SetSize(rightWidth, topHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.quotesPanel.View(),
		m.chartPanel.View(),
	)

	m.alertsPanel.SetSize(m.width, bottomHeight)
	bottomRow := m.alertsPanel.View()

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		topRow,
		bottomRow,
		m.renderStatusBar(),
	)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("tickwatch")

	var pill string
	switch m.mode {
	case feed.ModeLive:
		pill = styles.PillLiveStyle.Render("● LIVE")
	case feed.ModeMock:
		pill = styles.PillMockStyle.Render("● MOCK DATA (no live backend)")
	default:
		pill = styles.PillConnectingStyle.Render("● CONNECTING")
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", pill)
}

func (m *Model) renderStatusBar() string {
	help := []string{
		styles.StatusBarKeyStyle.Render("F1-F3") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("Tab") + styles.StatusBarDescStyle.Render(" focus"),
		styles.StatusBarKeyStyle.Render("↑↓") + styles.StatusBarDescStyle.Render(" select symbol"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}

	helpStr := lipgloss.JoinHorizontal(lipgloss.Center, help[0], " │ ", help[1], " │ ", help[2], " │ ", help[3])
	return styles.StatusBarStyle.Width(m.width).Render(helpStr)
}

// feedEventMsg wraps a feed event for the bubbletea loop.
type feedEventMsg feed.Event

func (m *Model) listenFeed() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.feed.Events()
		if !ok {
			return nil
		}
		return feedEventMsg(ev)
	}
}
