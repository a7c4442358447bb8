// Package main is the entry point for the climb game bot.
// It runs the score relay HTTP server, the Telegram bot, or both.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"climb-game-bot/internal/bot"
	"climb-game-bot/internal/config"
	"climb-game-bot/internal/server"
	"climb-game-bot/internal/service"
	"climb-game-bot/internal/telegram"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	app := &cli.App{
		Name:  "climbbot",
		Usage: "relay climb mini-game scores to Telegram and launch the game from chats",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config",
				Usage:   "directory containing config.yaml",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run the score server and the bot",
				Action: func(c *cli.Context) error { return run(c, true, true) },
			},
			{
				Name:   "api",
				Usage:  "run only the score server",
				Action: func(c *cli.Context) error { return run(c, true, false) },
			},
			{
				Name:   "bot",
				Usage:  "run only the bot",
				Action: func(c *cli.Context) error { return run(c, false, true) },
			},
		},
		Action: func(c *cli.Context) error { return run(c, true, true) },
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("climbbot exited with error")
	}
}

// run loads configuration and starts the selected components. Each component
// runs in its own goroutine; the first to fail, or a shutdown signal, stops all.
func run(c *cli.Context, withAPI, withBot bool) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	configureLogging(cfg.Log)

	log.Info().
		Interface("config", cfg.Redacted()).
		Msg("Configuration loaded successfully")

	// Connect the bot first so a bad token fails before anything listens
	var telegramBot *bot.Bot
	if withBot {
		if telegramBot, err = bot.New(cfg); err != nil {
			return err
		}
	}

	// Create context for graceful shutdown
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if withAPI {
		client := telegram.NewClient(cfg.Bot.APIURL, cfg.Bot.Token, cfg.Bot.RequestTimeout)
		scoreService := service.NewScoreService(client, cfg.Game.ForceScore, cfg.Bot.RequestTimeout)
		router := server.NewRouter(cfg.Server, server.NewScoreHandler(scoreService))
		srv := server.New(cfg.Server, router)

		g.Go(func() error {
			return srv.Run(ctx)
		})
	}

	if withBot {
		g.Go(func() error {
			telegramBot.Start()
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			telegramBot.Stop()
			return nil
		})
	}

	err = g.Wait()
	log.Info().Msg("Stopped gracefully")
	return err
}

// configureLogging applies the level and output format from configuration.
func configureLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.Pretty {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	if level <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}
