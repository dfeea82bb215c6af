package main

import (
	"net/http"

	"github.com/kevinkling/kashflow/internal/config"
	"github.com/kevinkling/kashflow/internal/ledger"
	"github.com/kevinkling/kashflow/internal/logger"
	"github.com/kevinkling/kashflow/internal/parser"
	"github.com/kevinkling/kashflow/internal/session"
	"github.com/kevinkling/kashflow/internal/store"
	"github.com/kevinkling/kashflow/internal/telegram"
	"github.com/kevinkling/kashflow/internal/transcribe"
	"github.com/kevinkling/kashflow/internal/web"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	log.Info().Str("db", cfg.DBPath).Msg("starting kashflow")

	db, err := store.New(cfg.DBPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize store")
	}
	defer db.Close()

	poster := ledger.NewPoster(db, log)
	projector := ledger.NewProjector(db)
	sessions := session.NewStore(cfg.PendingTTL)

	var transcriber transcribe.Transcriber
	if cfg.WhisperEnabled {
		whisper, err := transcribe.NewLocalWhisper(cfg.WhisperModel, "", log)
		if err != nil {
			log.Fatal().Err(err).Msg("initialize whisper")
		}
		transcriber = whisper
	}

	if cfg.BotToken == "" {
		log.Warn().Msg("BOT_TOKEN empty, telegram bot disabled")
	} else {
		bot, err := telegram.New(telegram.Options{
			Token:       cfg.BotToken,
			Strict:      parser.NewStrictParser(cfg.SalaryAccount),
			Heuristic:   parser.NewHeuristicParser(),
			Poster:      poster,
			Projector:   projector,
			Sessions:    sessions,
			Transcriber: transcriber,
			SalaryDesc:  parser.SalaryDescription,
			Log:         log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("initialize telegram bot")
		}
		bot.Start()
	}

	srv, err := web.NewServer(db, projector, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize web server")
	}

	log.Info().Str("addr", cfg.ListenAddr).Msg("web dashboard listening")
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Router()); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}
