// Command initdb creates the sqlite schema and, with -seed, a handful
// of starter accounts so the bot is usable right away.
package main

import (
	"flag"

	"github.com/kevinkling/kashflow/internal/config"
	"github.com/kevinkling/kashflow/internal/logger"
	"github.com/kevinkling/kashflow/internal/model"
	"github.com/kevinkling/kashflow/internal/store"
)

func main() {
	seed := flag.Bool("seed", false, "create starter accounts")
	flag.Parse()

	cfg := config.Load()
	log := logger.New()

	db, err := store.New(cfg.DBPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize database")
	}
	defer db.Close()

	log.Info().Str("db", cfg.DBPath).Msg("schema applied")

	if !*seed {
		return
	}

	starters := []model.Account{
		{Name: "Banco BBVA", Alias: "BBVA", Color: "#004481"},
		{Name: "Efectivo", Alias: "efectivo", Color: "#4CAF50"},
		{Name: "Mercado Pago", Alias: "mercado pago", Color: "#00B1EA"},
	}
	for _, a := range starters {
		if existing, err := db.ResolveByAlias(a.Alias); err == nil && existing != nil {
			log.Info().Str("alias", a.Alias).Msg("account already exists, skipping")
			continue
		}
		created, err := db.CreateAccount(a)
		if err != nil {
			log.Fatal().Err(err).Str("alias", a.Alias).Msg("seed account")
		}
		log.Info().Int64("id", created.ID).Str("alias", created.Alias).Msg("account created")
	}
}
