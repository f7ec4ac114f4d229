/*
Macroserver starts a ChatMacro expansion server and begins listening for new
connections.

Usage:

	macroserver [flags]
	macroserver [flags] -l [[ADDRESS]:PORT]

Once started, the server will listen for HTTP requests and respond to them
using REST protocol. By default, it will listen on localhost:8080. This can be
changed with the --listen/-l flag or the CHATMACRO_SERVER_LISTEN environment
variable. The flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the port preceeded by a colon, such as ":6001".

The host program reports the map and position of the player with PUT requests
to /api/v1/location and expands macro text with POST requests to
/api/v1/expansions.

The flags are:

	-v, --version
		Give the current version of the ChatMacro server and then exit.

	-c, --config FILE
		Read settings from the given TOML file. Environment variables prefixed
		with CHATMACRO_ override its values.

	-e, --env FILE
		Load environment variables from the given file before reading them.
		Defaults to ".env"; a missing file is ignored.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format.

	-m, --maps FILE
		Import the given MCD map catalog file at startup.

	--db DRIVER[:PARAMS]
		Use the given catalog DB connection string. DRIVER must be one of the
		following: inmem, sqlite. inmem has no further params. sqlite needs the
		path to the data directory such as sqlite:path/to/db_dir.
*/
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/dekarrin/chatmacro"
	"github.com/dekarrin/chatmacro/internal/config"
	"github.com/dekarrin/chatmacro/internal/logging"
	"github.com/dekarrin/chatmacro/internal/version"
	"github.com/dekarrin/chatmacro/server"
	"github.com/spf13/pflag"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the ChatMacro server and then exit.")
	flagConfig  = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagEnv     = pflag.StringP("env", "e", ".env", "Load environment variables from the given file.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagMaps    = pflag.StringP("maps", "m", "", "Import the given MCD map catalog file at startup.")
	flagDB      = pflag.String("db", "", "Use the given catalog DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (ChatMacro v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	logger, logCloser, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := chatmacro.OpenCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		logger.Error().Err(err).Msg("could not open map catalog")
		os.Exit(2)
	}
	defer store.Close()

	opts, err := chatmacro.ResolverOptions(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("could not configure macros")
		os.Exit(2)
	}

	exp := chatmacro.NewExpander(store, opts, logger)
	srv := server.New(exp, cfg.Server, logger)

	logger.Info().Str("version", version.ServerCurrent).Str("db", cfg.Catalog.DB.String()).Msg("starting ChatMacro server")
	if err := srv.ServeUntilDone(ctx); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(3)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*flagConfig, *flagEnv)
	if err != nil {
		return cfg, err
	}

	if pflag.Lookup("listen").Changed {
		cfg.Server.Listen = *flagListen
	}
	if pflag.Lookup("maps").Changed {
		cfg.Catalog.DataFile = *flagMaps
	}
	if pflag.Lookup("db").Changed {
		db, err := config.ParseDBConnString(*flagDB)
		if err != nil {
			return cfg, fmt.Errorf("--db: %w", err)
		}
		cfg.Catalog.DB = db
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	if _, _, err := net.SplitHostPort(cfg.Server.Listen); err != nil {
		return cfg, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format: %q", cfg.Server.Listen)
	}

	return cfg, nil
}
