package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/services/slack"
)

// SlackEventsHandler handles the Events API callback: URL verification and
// inbound messages. Slack redelivers events it considers unacknowledged, so
// every event id passes through the dedupe window first.
type SlackEventsHandler struct {
	config  common.SlackConfig
	bot     *Bot
	deduper *slack.EventDeduper
	logger  arbor.ILogger
}

func NewSlackEventsHandler(config common.SlackConfig, bot *Bot, deduper *slack.EventDeduper, logger arbor.ILogger) *SlackEventsHandler {
	return &SlackEventsHandler{
		config:  config,
		bot:     bot,
		deduper: deduper,
		logger:  logger.WithPrefix("slack-events"),
	}
}

type eventEnvelope struct {
	Type      string       `json:"type"`
	Challenge string       `json:"challenge"`
	EventID   string       `json:"event_id"`
	Event     inboundEvent `json:"event"`
}

type inboundEvent struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
	User     string `json:"user"`
	BotID    string `json:"bot_id"`
	Text     string `json:"text"`
	Channel  string `json:"channel"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts"`
}

// EventsHandler handles POST /slack/events
func (h *SlackEventsHandler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var envelope eventEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	switch envelope.Type {
	case "url_verification":
		WriteJSON(w, http.StatusOK, map[string]string{"challenge": envelope.Challenge})
		return
	case "event_callback":
		// Acknowledge before doing any work; Slack retries after 3s.
		w.WriteHeader(http.StatusOK)
		h.handleEvent(r, envelope)
		return
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (h *SlackEventsHandler) handleEvent(r *http.Request, envelope eventEnvelope) {
	if h.deduper.Seen(r.Context(), envelope.EventID) {
		h.logger.Debug().Str("event_id", envelope.EventID).Msg("Duplicate event delivery ignored")
		return
	}

	event := envelope.Event
	if event.User == h.config.BotUserID || event.BotID != "" {
		return
	}
	if event.Type != "message" || event.Subtype != "" || event.ThreadTS != "" {
		return
	}

	text := strings.TrimSpace(event.Text)
	if text == "" {
		return
	}

	// Free-text messages only matter when the conversation is waiting for
	// one: a pending comparison reply or an open Q&A gate. Everything else
	// goes through the command endpoint.
	switch {
	case h.bot.ComparePending(event.Channel, ""):
		h.logger.Info().Str("channel", event.Channel).Msg("Routing message to comparison")
		h.bot.StartComparison(text, event.Channel, "")
	case h.bot.QAEnabled(event.Channel, ""):
		h.logger.Info().Str("channel", event.Channel).Msg("Routing message to Q&A")
		h.bot.AnswerQuestion(text, event.Channel, "", event.User)
	}
}
