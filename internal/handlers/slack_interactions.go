package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
)

// SlackInteractionsHandler handles Block Kit button presses.
type SlackInteractionsHandler struct {
	bot    *Bot
	logger arbor.ILogger
}

func NewSlackInteractionsHandler(bot *Bot, logger arbor.ILogger) *SlackInteractionsHandler {
	return &SlackInteractionsHandler{
		bot:    bot,
		logger: logger.WithPrefix("slack-interactions"),
	}
}

type interactionPayload struct {
	Type    string `json:"type"`
	Actions []struct {
		ActionID string `json:"action_id"`
		Value    string `json:"value"`
	} `json:"actions"`
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
	Message struct {
		TS       string `json:"ts"`
		ThreadTS string `json:"thread_ts"`
	} `json:"message"`
	User struct {
		ID string `json:"id"`
	} `json:"user"`
}

// InteractionsHandler handles POST /slack/interactions. The payload arrives
// form-encoded with a single JSON field.
func (h *SlackInteractionsHandler) InteractionsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	raw := r.FormValue("payload")
	if raw == "" {
		WriteError(w, http.StatusBadRequest, "missing payload")
		return
	}

	var payload interactionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if payload.Type != "block_actions" || len(payload.Actions) == 0 {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Acknowledge first; the action work happens on bot goroutines.
	w.WriteHeader(http.StatusOK)

	action := payload.Actions[0]
	channel := payload.Channel.ID
	threadTS := payload.Message.ThreadTS
	if threadTS == "" {
		threadTS = payload.Message.TS
	}

	h.logger.Info().
		Str("action", action.ActionID).
		Str("channel", channel).
		Msg("Button action received")

	switch action.ActionID {
	case "regenerate_summary":
		h.bot.StartSummary(action.Value, channel, threadTS)
	case "competitor_comparison":
		h.bot.EnableCompare(channel, threadTS)
	case "swot_analysis":
		h.bot.RunSWOT(channel, threadTS)
	case "financial_trends":
		h.bot.RunTrends(channel, threadTS)
	case "risks_opps":
		h.bot.RunRisks(channel, threadTS)
	case "timeline_events":
		h.bot.RunTimeline(channel, threadTS)
	case "leadership":
		h.bot.RunLeadership(channel, threadTS)
	case "ask_custom_question", "ask_another_question":
		h.bot.EnableQA(channel, threadTS)
	default:
		h.logger.Warn().Str("action", action.ActionID).Msg("Unknown action id")
	}
}
