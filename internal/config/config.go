package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"liargame/internal/game"
)

// Config holds all application configuration
type Config struct {
	Server  Server  `yaml:"server"`
	Game    Game    `yaml:"game"`
	Logging Logging `yaml:"logging"`
}

// Server holds server-related configuration
type Server struct {
	Host string `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"PORT" env-default:"8080"`
	Env  string `yaml:"env" env:"ENV" env-default:"development"`
}

// Game holds gameplay-related configuration
type Game struct {
	MinPlayers   int `yaml:"min-players" env:"MIN_PLAYERS" env-default:"3"`
	MaxPlayers   int `yaml:"max-players" env:"MAX_PLAYERS" env-default:"10"`
	TurnSeconds  int `yaml:"turn-seconds" env:"TURN_SECONDS" env-default:"30"`
	VoteSeconds  int `yaml:"vote-seconds" env:"VOTE_SECONDS" env-default:"30"`
	GuessSeconds int `yaml:"guess-seconds" env:"GUESS_SECONDS" env-default:"20"`
}

// Logging holds logging-related configuration
type Logging struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// MustLoad reads configuration from the given yaml file if it exists,
// falling back to environment variables alone. Panics on malformed
// input.
func MustLoad(path string) *Config {
	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, config); err != nil {
			panic(fmt.Errorf("unable to load config file: %w", err))
		}
		return config
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		panic(fmt.Errorf("unable to read environment: %w", err))
	}

	return config
}

// Addr returns the server address in host:port format
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Rules converts the gameplay configuration into session rules
func (c *Config) Rules() game.Rules {
	return game.Rules{
		MinPlayers:   c.Game.MinPlayers,
		MaxPlayers:   c.Game.MaxPlayers,
		TurnSeconds:  c.Game.TurnSeconds,
		VoteSeconds:  c.Game.VoteSeconds,
		GuessSeconds: c.Game.GuessSeconds,
	}
}
