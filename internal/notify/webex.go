package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/internal/rules"
)

const defaultAPIURL = "https://webexapis.com/v1/messages"

// WebexNotifier posts fired alert events to a Webex room using a bot token.
// When token or room are unconfigured, sends are silently skipped so the
// server works in environments without Webex. Failures are logged and never
// propagated to the caller.
type WebexNotifier struct {
	token  string
	roomID string
	apiURL string
	httpc  *http.Client
	logger *zap.Logger
}

// NewWebex creates a notifier. token or roomID may be empty to disable it.
func NewWebex(token, roomID string, logger *zap.Logger) *WebexNotifier {
	n := &WebexNotifier{
		token:  token,
		roomID: roomID,
		apiURL: defaultAPIURL,
		httpc:  &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
	if !n.Enabled() {
		logger.Info("webex notifier disabled: bot token or room id not set")
	}
	return n
}

// Enabled reports whether the notifier is configured to send.
func (n *WebexNotifier) Enabled() bool {
	return n.token != "" && n.roomID != ""
}

type message struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
}

// Send posts the event to the configured room.
func (n *WebexNotifier) Send(ctx context.Context, ev rules.Event) {
	if !n.Enabled() {
		return
	}

	text := fmt.Sprintf("Stock Alert\nRule ID: %d\nSymbol: %s\nTriggered at: %s\nPrice: %.2f\nDetails: %s",
		ev.RuleID, ev.Symbol, ev.TriggeredAt.Format(time.RFC3339), ev.Price, ev.Message)

	body, err := json.Marshal(message{RoomID: n.roomID, Text: text})
	if err != nil {
		n.logger.Error("marshal webex message", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("build webex request", zap.Error(err))
		return
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpc.Do(req)
	if err != nil {
		n.logger.Warn("webex send failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.logger.Warn("webex rejected alert", zap.Int("status", resp.StatusCode), zap.Int64("rule_id", ev.RuleID))
		return
	}
	n.logger.Info("alert sent to webex", zap.Int64("rule_id", ev.RuleID), zap.String("symbol", ev.Symbol))
}
