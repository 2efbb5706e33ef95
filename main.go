package main

import (
	"flag"

	"github.com/rs/zerolog"

	"cardroom.com/server/apiserver"
	"cardroom.com/server/config"
	"cardroom.com/server/logging"
	"cardroom.com/server/server"
	"cardroom.com/server/util"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

func main() {
	configFile := flag.String("config", "", "path to the server config yaml")
	listenAddr := flag.String("listen", "", "tcp listen address, overrides config")
	flag.Parse()

	level, err := zerolog.ParseLevel(util.Env.GetLogLevel())
	if err != nil {
		mainLogger.Warn().Msgf("Invalid log level [%s], using info", util.Env.GetLogLevel())
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	cfg := config.DefaultServerConfig()
	if *configFile != "" {
		cfg, err = config.ReadConfig(*configFile)
		if err != nil {
			mainLogger.Fatal().Err(err).Msgf("Failed to read config file %s", *configFile)
		}
	}
	if addr := util.Env.GetListenAddr(); addr != "" {
		cfg.ListenAddr = addr
	}
	if addr := util.Env.GetAPIAddr(); addr != "" {
		cfg.APIAddr = addr
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	srv := server.NewServer(cfg.ListenAddr, cfg.Game)

	api := apiserver.NewAPIServer(cfg.APIAddr, srv.Table())
	go func() {
		if err := api.Start(); err != nil {
			mainLogger.Error().Err(err).Msg("API server stopped")
		}
	}()

	mainLogger.Info().Msgf("Starting hold'em server on %s", cfg.ListenAddr)
	if err := srv.Serve(); err != nil {
		mainLogger.Fatal().Err(err).Msg("Server terminated")
	}
}
