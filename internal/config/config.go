package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"holdem-server/internal/util"
)

// Config provides configuration for the hold'em server
type Config struct {
	loaded bool

	Addr      string `yaml:"addr" envconfig:"addr"`
	LogLevel  string `yaml:"logLevel" envconfig:"log_level"`
	LogFormat string `yaml:"logFormat" envconfig:"log_format"`

	Game struct {
		StartingChips int `yaml:"startingChips" envconfig:"starting_chips"`
		SmallBlind    int `yaml:"smallBlind" envconfig:"small_blind"`
		BigBlind      int `yaml:"bigBlind" envconfig:"big_blind"`
		MinPlayers    int `yaml:"minPlayers" envconfig:"min_players"`
		MaxPlayers    int `yaml:"maxPlayers" envconfig:"max_players"`

		// delays are in seconds
		ActionTimeout    int `yaml:"actionTimeout" envconfig:"action_timeout"`
		Countdown        int `yaml:"countdown" envconfig:"countdown"`
		InterStreetDelay int `yaml:"interStreetDelay" envconfig:"inter_street_delay"`
		EndOfHandDelay   int `yaml:"endOfHandDelay" envconfig:"end_of_hand_delay"`
	} `yaml:"game"`
}

var config Config

func defaultConfig() Config {
	c := Config{
		Addr:      ":5080",
		LogLevel:  "info",
		LogFormat: "text",
	}

	c.Game.StartingChips = 1000
	c.Game.SmallBlind = 2
	c.Game.BigBlind = 4
	c.Game.MinPlayers = 4
	c.Game.MaxPlayers = 10
	c.Game.ActionTimeout = 20
	c.Game.Countdown = 10
	c.Game.InterStreetDelay = 1
	c.Game.EndOfHandDelay = 5

	return c
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is not an error;
// defaults and environment variables still apply.
func Load() error {
	config = defaultConfig()

	configFile := util.Getenv("HOLDEM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile) // nolint:gosec
	if err == nil {
		defer func() {
			_ = file.Close()
		}()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("holdem", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
