// Package config reads the process configuration from environment
// variables, with defaults suited to a single-user deployment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// BotToken is the Telegram bot token. Empty disables the bot (the
	// web dashboard still runs).
	BotToken string
	// DBPath is the sqlite database file.
	DBPath string
	// ListenAddr is the web dashboard bind address.
	ListenAddr string
	// SalaryAccount is the alias credited by the "sueldo N" command.
	SalaryAccount string
	// PendingTTL bounds how long a voice intent waits for yes/no.
	PendingTTL time.Duration
	// WhisperModel selects the local whisper model size.
	WhisperModel string
	// WhisperEnabled turns voice transcription on.
	WhisperEnabled bool
}

func Load() Config {
	return Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		DBPath:         getenv("DB_PATH", "data/kashflow.db"),
		ListenAddr:     getenv("LISTEN_ADDR", ":8080"),
		SalaryAccount:  getenv("SALARY_ACCOUNT", "BBVA"),
		PendingTTL:     getduration("PENDING_TTL", 5*time.Minute),
		WhisperModel:   getenv("WHISPER_MODEL", "base"),
		WhisperEnabled: getbool("USE_LOCAL_WHISPER", false),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
