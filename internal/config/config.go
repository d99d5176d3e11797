// Package config reads environment defaults for the CLI. Flags override
// everything here; the env layer exists so deployments can pin the database
// URL and pattern directory without repeating them on every invocation.
package config

import "os"

type Config struct {
	DatabaseURL string
	PatternDir  string
	WriteTo     string // output directory; empty means stdout
	LogLevel    string
	ChannelType string
	TeamName    string
	ChannelID   string
}

func Load() Config {
	return Config{
		DatabaseURL: envStr("DATABASE_URL", ""),
		PatternDir:  envStr("CHATEX_PATTERNS", "./patterns"),
		WriteTo:     envStr("CHATEX_WRITE_TO", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		ChannelType: envStr("CHATEX_CHANNEL_TYPE", ""),
		TeamName:    envStr("CHATEX_TEAM", ""),
		ChannelID:   envStr("CHATEX_CHANNEL_ID", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
