package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken          string `envconfig:"BOT_TOKEN" required:"true"`
	DBPath            string `envconfig:"DB_PATH" default:"./data/bot.db"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`   // debug|info|warn|error
	HTTPAddr          string `envconfig:"HTTP_ADDR" default:":8080"`  // healthz
	NoteCheckCooldown int    `envconfig:"NOTE_CHECK_COOLDOWN" default:"3600"` // seconds between sweeps
	GraduateGroup     int    `envconfig:"GRADUATE_GROUP" default:"2"` // default lesson-group filter
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
