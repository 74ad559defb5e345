package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
)

// SlackCommandHandler handles the slash command that starts a research run.
type SlackCommandHandler struct {
	bot    *Bot
	logger arbor.ILogger
}

func NewSlackCommandHandler(bot *Bot, logger arbor.ILogger) *SlackCommandHandler {
	return &SlackCommandHandler{
		bot:    bot,
		logger: logger.WithPrefix("slack-command"),
	}
}

// CommandHandler handles POST /slack/command. Slash commands arrive
// form-encoded and expect an acknowledgment within 3 seconds, so the
// research run starts in the background.
func (h *SlackCommandHandler) CommandHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	input := strings.TrimSpace(r.FormValue("text"))
	channel := r.FormValue("channel_id")
	if input == "" {
		WriteJSON(w, http.StatusOK, map[string]string{
			"response_type": "ephemeral",
			"text":          "Usage: provide a company name or website URL.",
		})
		return
	}

	h.logger.Info().Str("input", input).Str("channel", channel).Msg("Summarize command received")
	h.bot.StartSummary(input, channel, "")

	WriteJSON(w, http.StatusOK, map[string]string{
		"response_type": "in_channel",
		"text":          fmt.Sprintf("Researching %s. This can take a couple of minutes.", input),
	})
}
