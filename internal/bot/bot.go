// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"climb-game-bot/internal/config"
	"climb-game-bot/internal/handler"
	"climb-game-bot/internal/telegram"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot *tele.Bot
	cfg *config.Config

	// Handlers
	gameHandler *handler.GameHandler
}

// New creates a new Bot instance from configuration.
func New(cfg *config.Config) (*Bot, error) {
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	return newBot(cfg, settings(cfg))
}

// settings builds the telebot settings for cfg.
func settings(cfg *config.Config) tele.Settings {
	return tele.Settings{
		URL:     cfg.Bot.APIURL,
		Token:   cfg.Bot.Token,
		Poller:  &tele.LongPoller{Timeout: cfg.Bot.PollTimeout},
		Client:  &http.Client{Timeout: cfg.Bot.HTTPTimeout()},
		OnError: errorHandler(cfg.Bot.Token),
	}
}

func newBot(cfg *config.Config, pref tele.Settings) (*Bot, error) {
	teleBot, err := tele.NewBot(pref)
	if err != nil {
		// getMe failures carry the request URL
		return nil, fmt.Errorf("failed to create bot: %w", telegram.RedactToken(err, cfg.Bot.Token))
	}

	b := &Bot{
		bot: teleBot,
		cfg: cfg,
	}

	// Initialize handlers
	b.gameHandler = handler.NewGameHandler(teleBot, cfg.Game.ShortName, cfg.Game.PublicURL)

	// Register middleware
	b.registerMiddleware()

	// Register handlers
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command and callback handlers.
func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.gameHandler.HandlePlay)
	b.bot.Handle("/play", b.gameHandler.HandlePlay)
	b.bot.Handle("/highscores", b.gameHandler.HandleHighScores)

	// Game buttons carry no callback data, so they arrive on the generic endpoint
	b.bot.Handle(tele.OnCallback, b.gameHandler.HandleGameCallback)
}

// errorHandler logs handler and polling failures with the token masked.
// The update is dropped; users retry the command.
func errorHandler(token string) func(error, tele.Context) {
	return func(err error, c tele.Context) {
		logEvent := log.Error().Err(telegram.RedactToken(err, token))
		if c != nil {
			if sender := c.Sender(); sender != nil {
				logEvent = logEvent.Int64("user_id", sender.ID)
			}
			if chat := c.Chat(); chat != nil {
				logEvent = logEvent.Int64("chat_id", chat.ID)
			}
		}
		logEvent.Msg("Update handling failed")
	}
}

// Start starts the bot polling. It blocks until Stop is called.
func (b *Bot) Start() {
	log.Info().
		Str("bot", b.bot.Me.Username).
		Str("game", b.cfg.Game.ShortName).
		Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
