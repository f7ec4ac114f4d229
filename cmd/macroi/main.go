/*
Macroi starts an interactive ChatMacro shell.

It loads the map catalog and then reads lines from stdin. Each line of macro
text has its commands expanded and the result is printed to stdout. If any
command in the line has no value, a notice that the message was suppressed is
printed instead.

Usage:

	macroi [flags]

The flags are:

	-v, --version
		Give the current version of ChatMacro and then exit.

	-c, --config FILE
		Read settings from the given TOML file. Environment variables prefixed
		with CHATMACRO_ override its values.

	-e, --env FILE
		Load environment variables from the given file before reading them.
		Defaults to ".env"; a missing file is ignored.

	-m, --maps FILE
		Import the given MCD map catalog file at startup. Overrides the
		catalog.data_file setting.

	--db DRIVER[:PARAMS]
		Use the given catalog DB connection string, either "inmem" or
		"sqlite:path/to/db_dir". Overrides the catalog.db setting.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input even if launched in a tty
		with stdin and stdout.

	--history FILE
		Keep the history of lines typed in interactive mode in the given file.

Once a session has started, lines that start with ':' are directives. For an
explanation of them, type ":help" once in a session. To exit the shell, type
":quit".
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dekarrin/chatmacro"
	"github.com/dekarrin/chatmacro/internal/config"
	"github.com/dekarrin/chatmacro/internal/logging"
	"github.com/dekarrin/chatmacro/internal/version"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitShellError indicates an unsuccessful program execution due to a
	// problem while the shell was running.
	ExitShellError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the shell.
	ExitInitError
)

var (
	returnCode  int = ExitSuccess
	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of ChatMacro and then exit.")
	flagConfig      = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagEnv         = pflag.StringP("env", "e", ".env", "Load environment variables from the given file.")
	flagMaps        = pflag.StringP("maps", "m", "", "Import the given MCD map catalog file at startup.")
	flagDB          = pflag.String("db", "", "Use the given catalog DB connection string.")
	flagDirect      = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagHistory     = pflag.String("history", "", "Keep the history of typed lines in the given file.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	logger, logCloser, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer logCloser.Close()

	ctx := context.Background()

	store, err := chatmacro.OpenCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer store.Close()

	opts, err := chatmacro.ResolverOptions(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	exp := chatmacro.NewExpander(store, opts, logger)

	sh, err := chatmacro.New(exp, os.Stdin, os.Stdout, *flagDirect, *flagHistory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer sh.Close()

	if err := sh.RunUntilQuit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitShellError
		return
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*flagConfig, *flagEnv)
	if err != nil {
		return cfg, err
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

	return cfg, nil
}
