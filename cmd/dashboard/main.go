package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/internal/feed"
	"github.com/tickwatch/tickwatch/pkg/config"
	"github.com/tickwatch/tickwatch/tui"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the TUI, so logs go to a file.
	logger, err := newFileLogger(cfg.Dashboard.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	feedCfg := feed.DefaultConfig()
	feedCfg.URL = cfg.Dashboard.FeedURL
	feedCfg.Symbols = cfg.Feed.Symbols
	feedCfg.StartupTimeout = cfg.Dashboard.StartupTimeout
	feedCfg.MockPeriod = cfg.Dashboard.MockPeriod

	live := feed.NewLive(feedCfg.URL, logger)
	mock := feed.NewMock(feedCfg.Symbols, feed.RealRand{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}, feed.RealClock{})

	manager := feed.NewManager(feedCfg, live, mock, logger)
	manager.Run()
	defer manager.Close()

	model := tui.NewModel(manager, feedCfg.Symbols)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("dashboard exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error running dashboard: %v\n", err)
		os.Exit(1)
	}
}

func newFileLogger(path string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}
