// lingobot reviews Telegram chat messages with a language model and
// gates access to the bot behind a per-chat activation code.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dmarkhas/lingobot/internal/authstore"
	"github.com/dmarkhas/lingobot/internal/bot"
	"github.com/dmarkhas/lingobot/internal/command"
	"github.com/dmarkhas/lingobot/internal/command/builtin"
	"github.com/dmarkhas/lingobot/internal/config"
	"github.com/dmarkhas/lingobot/internal/gate"
	"github.com/dmarkhas/lingobot/internal/review"
	"github.com/dmarkhas/lingobot/internal/status"
	"github.com/dmarkhas/lingobot/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	// Optional: secrets referenced as ${VAR} in the config file can live
	// in a local .env.
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level)

	log.Info().
		Str("model", cfg.LLM.Model).
		Str("target_lang", cfg.LLM.TargetLang).
		Str("native_lang", cfg.LLM.NativeLang).
		Msg("configuration loaded")

	if cfg.Auth.ActivationCode == "" {
		warnAuthDisabled(log)
	}

	store := authstore.Resolve(cfg.Database.URL, cfg.Database.Provider, log)
	authGate := gate.New(store, cfg.Auth.ActivationCode, log)

	reviewer := review.New(review.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Prompts: review.PromptConfig{
			TargetLang: cfg.LLM.TargetLang,
			NativeLang: cfg.LLM.NativeLang,
			Extra:      cfg.LLM.Prompt,
		},
	}, log)

	registry := command.NewRegistry()
	registry.Register(builtin.NewActivateCommand(store, cfg.Auth.ActivationCode, log))
	registry.Register(builtin.NewHelpCommand(registry))
	registry.Register(builtin.NewChatsCommand(store))
	registry.Register(builtin.NewStatusCommand(status.NewGopsutilCollector(), store))
	registry.Register(builtin.NewVersionCommand())

	b, err := bot.New(bot.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: cfg.Telegram.PollTimeout,
		MarkAsReply: cfg.Telegram.MarkAsReply,
		Gate:        authGate,
		Registry:    registry,
		Reviewer:    reviewer,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("starting bot")
	return b.Run(ctx)
}

func warnAuthDisabled(log zerolog.Logger) {
	for _, line := range []string{
		"========================================",
		"WARNING: CHAT AUTHORIZATION DISABLED",
		"The bot is insecure and can be used by anyone.",
		"Set auth.activation_code in production environments.",
		"========================================",
	} {
		log.Warn().Msg(line)
	}
}
