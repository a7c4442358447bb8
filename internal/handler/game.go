// Package handler provides Telegram bot command handlers.
package handler

import (
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"climb-game-bot/internal/metrics"
	"climb-game-bot/internal/model"
	"climb-game-bot/internal/service"
)

// Platform is the subset of the Bot API the game handlers call.
// *tele.Bot satisfies it.
type Platform interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Reply(to *tele.Message, what interface{}, opts ...interface{}) (*tele.Message, error)
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
	GameScores(user tele.Recipient, msg tele.Editable) ([]tele.GameHighScore, error)
}

// GameHandler handles the game commands and the game button callback.
type GameHandler struct {
	platform  Platform
	shortName string
	publicURL string
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(platform Platform, shortName, publicURL string) *GameHandler {
	return &GameHandler{
		platform:  platform,
		shortName: shortName,
		publicURL: publicURL,
	}
}

// HandlePlay handles /play and /start.
// Sends the game message to the originating chat and topic.
func (h *GameHandler) HandlePlay(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	opts := &tele.SendOptions{}
	if msg := c.Message(); msg != nil && msg.ThreadID != 0 {
		opts.ThreadID = msg.ThreadID
	}

	_, err := h.platform.Send(chat, &tele.Game{Name: h.shortName}, opts)
	record("play", err)
	if err != nil {
		return fmt.Errorf("send game: %w", err)
	}

	log.Debug().
		Int64("chat_id", chat.ID).
		Int("thread_id", opts.ThreadID).
		Str("game", h.shortName).
		Msg("Game message sent")
	return nil
}

// HandleGameCallback answers a game button press with the launch URL.
// Callbacks without a game short name belong to something else and are ignored.
func (h *GameHandler) HandleGameCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil || cb.GameShortName == "" || cb.Sender == nil {
		return nil
	}

	launchURL := service.BuildLaunchURL(launchContext(h.publicURL, cb))

	err := h.platform.Respond(cb, &tele.CallbackResponse{URL: launchURL})
	record("game_callback", err)
	if err != nil {
		return fmt.Errorf("answer game callback: %w", err)
	}

	log.Debug().
		Int64("user_id", cb.Sender.ID).
		Str("game", cb.GameShortName).
		Bool("inline", cb.MessageID != "").
		Msg("Game launch URL sent")
	return nil
}

// HandleHighScores handles /highscores sent as a reply to a game message.
func (h *GameHandler) HandleHighScores(c tele.Context) error {
	msg := c.Message()
	sender := c.Sender()
	if msg == nil || sender == nil {
		return nil
	}

	ref := msg.ReplyTo
	if ref == nil || ref.Game == nil {
		_, err := h.platform.Reply(msg, service.MsgReplyToGame)
		record("highscores", err)
		return err
	}
	if ref.Chat == nil {
		ref = &tele.Message{ID: ref.ID, Chat: msg.Chat, Game: ref.Game}
	}

	scores, err := h.platform.GameScores(sender, ref)
	if err != nil {
		record("highscores", err)
		return fmt.Errorf("get game high scores: %w", err)
	}

	text := service.FormatHighScores(service.HighScoreEntries(scores))
	_, err = h.platform.Reply(msg, text)
	record("highscores", err)
	return err
}

// launchContext collects the routing parameters carried by a game callback.
func launchContext(publicURL string, cb *tele.Callback) model.LaunchContext {
	lc := model.LaunchContext{
		PublicURL:       publicURL,
		UserID:          cb.Sender.ID,
		InlineMessageID: cb.MessageID,
	}

	if m := cb.Message; m != nil {
		messageID := int64(m.ID)
		lc.MessageID = &messageID
		if m.Chat != nil {
			chatID := m.Chat.ID
			lc.ChatID = &chatID
		}
		if m.ThreadID != 0 {
			threadID := m.ThreadID
			lc.ThreadID = &threadID
		}
	}

	return lc
}

// record counts a handled update by result.
func record(handler string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.BotUpdates.WithLabelValues(handler, result).Inc()
}
