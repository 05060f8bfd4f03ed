package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"holdem-server/internal/config"
	"holdem-server/internal/mux"
	"holdem-server/pkg/poker/holdem"
	"holdem-server/pkg/room"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address (overrides the configuration)")

func main() {
	_ = godotenv.Load()

	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	r, err := room.New(logrus.StandardLogger(), tableOptions(cfg))
	if err != nil {
		logrus.WithError(err).Fatal("could not create table")
	}

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet},
	})

	listenAddr := cfg.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	srv := &http.Server{
		Addr:         listenAddr,
		Handler:      handlers.CombinedLoggingHandler(os.Stdout, c.Handler(mux.NewMux(Version, r))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func tableOptions(cfg config.Config) holdem.Options {
	opts := holdem.DefaultOptions()
	opts.StartingChips = cfg.Game.StartingChips
	opts.SmallBlind = cfg.Game.SmallBlind
	opts.BigBlind = cfg.Game.BigBlind
	opts.MinPlayers = cfg.Game.MinPlayers
	opts.MaxPlayers = cfg.Game.MaxPlayers
	opts.ActionTimeout = time.Duration(cfg.Game.ActionTimeout) * time.Second
	opts.Countdown = time.Duration(cfg.Game.Countdown) * time.Second
	opts.InterStreetDelay = time.Duration(cfg.Game.InterStreetDelay) * time.Second
	opts.EndOfHandDelay = time.Duration(cfg.Game.EndOfHandDelay) * time.Second
	return opts
}

func setupLogger() {
	if lvl := config.Instance().LogLevel; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(config.Instance().LogFormat) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
