package config

import "os"

type Config struct {
	DiscordToken  string
	DatabaseURL   string
	CommandPrefix string
	Port          string
}

func FromEnv() Config {
	c := Config{}
	c.DiscordToken = os.Getenv("DISCORD_TOKEN")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.CommandPrefix = getenv("COMMAND_PREFIX", "!")
	c.Port = getenv("PORT", "8080")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
