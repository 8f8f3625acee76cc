package app

import (
	"context"
	"fmt"
	"log/slog"

	"ReadingScribe/internal/config"
	"ReadingScribe/internal/infrastructure/archive"
	"ReadingScribe/internal/infrastructure/discord"
	"ReadingScribe/internal/infrastructure/extract"
	"ReadingScribe/internal/infrastructure/llm"
	"ReadingScribe/internal/logging"
	"ReadingScribe/internal/ports"
	"ReadingScribe/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	bot    *discord.Bot
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if cfg.Discord.BotToken == "" {
		return nil, fmt.Errorf("discord bot token is required")
	}

	session, err := discord.NewSession(cfg.Discord.BotToken)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}

	gateway := discord.NewGateway(session, baseLogger.With("component", "gateway"))
	extractor := extract.New(nil, baseLogger.With("component", "extract"))
	summarizer := llm.NewClient(cfg.LLM, baseLogger.With("component", "llm"))

	// Archive features are disabled entirely without a token.
	var store ports.ArchiveStore
	if cfg.Archive.Token != "" {
		ghStore, err := archive.NewGitHubStore(cfg.Archive, baseLogger.With("component", "archive"))
		if err != nil {
			return nil, fmt.Errorf("archive store: %w", err)
		}
		store = ghStore
	} else {
		baseLogger.Warn("archive token not set, uploads disabled")
	}

	reviews := usecase.NewReviewManager(usecase.ReviewManagerDeps{
		Gateway: gateway,
		Store:   store,
		Timeout: cfg.Review.Timeout(),
		Logger:  baseLogger.With("component", "review"),
	})

	router := usecase.NewRouter(usecase.RouterDeps{
		Gateway:         gateway,
		Extractor:       extractor,
		Summarizer:      summarizer,
		Reviews:         reviews,
		TargetChannelID: cfg.Discord.ChannelID,
		Logger:          baseLogger.With("component", "router"),
	})

	bot := discord.NewBot(session, router, baseLogger.With("component", "discord"))

	return &Application{cfg: cfg, bot: bot, logger: baseLogger}, nil
}

// Run connects to the chat gateway and blocks until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.bot.Open(); err != nil {
		return err
	}
	a.logger.Info("bot running", "channel", a.cfg.Discord.ChannelID)

	<-ctx.Done()

	a.logger.Info("shutting down")
	return a.bot.Close()
}
